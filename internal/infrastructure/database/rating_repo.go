package database

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/bimakw/ratemybags/internal/domain/entities"
	"github.com/bimakw/ratemybags/internal/domain/repositories"
)

// Ensure RatingRepo implements RatingRepository
var _ repositories.RatingRepository = (*RatingRepo)(nil)

// RatingRepo implements RatingRepository using PostgreSQL
type RatingRepo struct {
	db *sqlx.DB
}

// NewRatingRepo creates a new rating repository
func NewRatingRepo(db *sqlx.DB) *RatingRepo {
	return &RatingRepo{db: db}
}

// Add inserts a rating
func (r *RatingRepo) Add(ctx context.Context, rating *entities.Rating) error {
	if rating.ID == "" {
		rating.ID = uuid.NewString()
	}

	query := `
		INSERT INTO ratings (id, portfolio_id, rating, rater_address, rater_fid)
		VALUES (:id, :portfolio_id, :rating, :rater_address, :rater_fid)
		RETURNING created_at
	`

	rows, err := r.db.NamedQueryContext(ctx, query, rating)
	if err != nil {
		return fmt.Errorf("failed to insert rating: %w", err)
	}
	defer rows.Close()

	if rows.Next() {
		if err := rows.Scan(&rating.CreatedAt); err != nil {
			return fmt.Errorf("failed to scan rating timestamp: %w", err)
		}
	}

	return rows.Err()
}

// ListByPortfolio returns ratings in insertion order
func (r *RatingRepo) ListByPortfolio(ctx context.Context, portfolioID string) ([]entities.Rating, error) {
	query := `
		SELECT id, portfolio_id, rating, rater_address, rater_fid, created_at
		FROM ratings
		WHERE portfolio_id = $1
		ORDER BY created_at ASC, id ASC
	`

	ratings := make([]entities.Rating, 0)
	if err := r.db.SelectContext(ctx, &ratings, query, portfolioID); err != nil {
		return nil, fmt.Errorf("failed to list ratings: %w", err)
	}

	return ratings, nil
}
