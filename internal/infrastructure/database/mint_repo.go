package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/bimakw/ratemybags/internal/domain/entities"
	"github.com/bimakw/ratemybags/internal/domain/repositories"
)

// Ensure MintRepo implements MintRepository
var _ repositories.MintRepository = (*MintRepo)(nil)

// uniqueViolation is the PostgreSQL error code for duplicate keys
const uniqueViolation = "23505"

// MintRepo implements MintRepository using PostgreSQL
type MintRepo struct {
	db *sqlx.DB
}

// NewMintRepo creates a new mint repository
func NewMintRepo(db *sqlx.DB) *MintRepo {
	return &MintRepo{db: db}
}

// Reserve inserts a pending mint. The unique portfolio_id index makes
// this the single gate for concurrent mint requests.
func (r *MintRepo) Reserve(ctx context.Context, portfolioID string) (*entities.NFTMint, error) {
	mint := &entities.NFTMint{
		ID:          uuid.NewString(),
		PortfolioID: portfolioID,
		Status:      entities.MintStatusPending,
	}

	query := `
		INSERT INTO nft_mints (id, portfolio_id, status)
		VALUES ($1, $2, $3)
		RETURNING created_at
	`

	err := r.db.QueryRowxContext(ctx, query, mint.ID, mint.PortfolioID, mint.Status).Scan(&mint.CreatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return nil, entities.ErrAlreadyMinted
		}
		return nil, fmt.Errorf("failed to reserve mint: %w", err)
	}

	return mint, nil
}

// Update stores the outcome of a mint
func (r *MintRepo) Update(ctx context.Context, mint *entities.NFTMint) error {
	query := `
		UPDATE nft_mints
		SET status = $2, token_id = $3, transaction_hash = $4
		WHERE id = $1
	`

	res, err := r.db.ExecContext(ctx, query, mint.ID, mint.Status, mint.TokenID, mint.TransactionHash)
	if err != nil {
		return fmt.Errorf("failed to update mint: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("mint %s not found", mint.ID)
	}

	return nil
}

// Release deletes a mint that never reached the chain. Completed mints
// are left untouched.
func (r *MintRepo) Release(ctx context.Context, id string) error {
	query := `DELETE FROM nft_mints WHERE id = $1 AND status = $2`

	if _, err := r.db.ExecContext(ctx, query, id, entities.MintStatusPending); err != nil {
		return fmt.Errorf("failed to release mint: %w", err)
	}

	return nil
}

// GetByPortfolio retrieves the mint of a portfolio
func (r *MintRepo) GetByPortfolio(ctx context.Context, portfolioID string) (*entities.NFTMint, error) {
	var mint entities.NFTMint
	query := `
		SELECT id, portfolio_id, status, token_id, transaction_hash, created_at
		FROM nft_mints
		WHERE portfolio_id = $1
	`

	if err := r.db.GetContext(ctx, &mint, query, portfolioID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get mint: %w", err)
	}

	return &mint, nil
}
