package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/bimakw/ratemybags/internal/domain/entities"
	"github.com/bimakw/ratemybags/internal/domain/repositories"
)

// Ensure PortfolioRepo implements PortfolioRepository
var _ repositories.PortfolioRepository = (*PortfolioRepo)(nil)

// PortfolioRepo implements PortfolioRepository using PostgreSQL
type PortfolioRepo struct {
	db *sqlx.DB
}

// NewPortfolioRepo creates a new portfolio repository
func NewPortfolioRepo(db *sqlx.DB) *PortfolioRepo {
	return &PortfolioRepo{db: db}
}

// GetOrCreate returns the portfolio of a wallet, inserting it on first sight.
// Existing rows get their updated_at refreshed.
func (r *PortfolioRepo) GetOrCreate(ctx context.Context, walletAddress string) (*entities.Portfolio, error) {
	query := `
		INSERT INTO portfolios (id, wallet_address)
		VALUES ($1, $2)
		ON CONFLICT (wallet_address) DO UPDATE SET updated_at = NOW()
		RETURNING id, wallet_address, created_at, updated_at
	`

	var portfolio entities.Portfolio
	if err := r.db.GetContext(ctx, &portfolio, query, uuid.NewString(), walletAddress); err != nil {
		return nil, fmt.Errorf("failed to upsert portfolio: %w", err)
	}

	return &portfolio, nil
}

// GetByWallet retrieves a portfolio by wallet address
func (r *PortfolioRepo) GetByWallet(ctx context.Context, walletAddress string) (*entities.Portfolio, error) {
	var portfolio entities.Portfolio
	query := `SELECT id, wallet_address, created_at, updated_at FROM portfolios WHERE wallet_address = $1`

	if err := r.db.GetContext(ctx, &portfolio, query, walletAddress); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get portfolio by wallet: %w", err)
	}

	return &portfolio, nil
}

// GetByID retrieves a portfolio by id
func (r *PortfolioRepo) GetByID(ctx context.Context, id string) (*entities.Portfolio, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, nil
	}

	var portfolio entities.Portfolio
	query := `SELECT id, wallet_address, created_at, updated_at FROM portfolios WHERE id = $1`

	if err := r.db.GetContext(ctx, &portfolio, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get portfolio: %w", err)
	}

	return &portfolio, nil
}
