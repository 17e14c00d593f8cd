package database

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/bimakw/ratemybags/internal/domain/entities"
	"github.com/bimakw/ratemybags/internal/domain/repositories"
)

// Ensure ReactionRepo implements ReactionRepository
var _ repositories.ReactionRepository = (*ReactionRepo)(nil)

// ReactionRepo implements ReactionRepository using PostgreSQL
type ReactionRepo struct {
	db *sqlx.DB
}

// NewReactionRepo creates a new reaction repository
func NewReactionRepo(db *sqlx.DB) *ReactionRepo {
	return &ReactionRepo{db: db}
}

// Add inserts a reaction
func (r *ReactionRepo) Add(ctx context.Context, reaction *entities.ReactionRecord) error {
	if reaction.ID == "" {
		reaction.ID = uuid.NewString()
	}

	query := `
		INSERT INTO reactions (id, portfolio_id, emoji, reactor_address, reactor_fid)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at
	`

	err := r.db.QueryRowxContext(ctx, query,
		reaction.ID,
		reaction.PortfolioID,
		reaction.Emoji,
		reaction.ReactorAddress,
		reaction.ReactorFID,
	).Scan(&reaction.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert reaction: %w", err)
	}

	return nil
}

// ListByPortfolio returns reactions in insertion order
func (r *ReactionRepo) ListByPortfolio(ctx context.Context, portfolioID string) ([]entities.ReactionRecord, error) {
	query := `
		SELECT id, portfolio_id, emoji, reactor_address, reactor_fid, created_at
		FROM reactions
		WHERE portfolio_id = $1
		ORDER BY created_at ASC, id ASC
	`

	reactions := make([]entities.ReactionRecord, 0)
	if err := r.db.SelectContext(ctx, &reactions, query, portfolioID); err != nil {
		return nil, fmt.Errorf("failed to list reactions: %w", err)
	}

	return reactions, nil
}
