package repositories

import (
	"context"

	"github.com/bimakw/ratemybags/internal/domain/entities"
)

// PortfolioRepository defines the interface for portfolio row operations
type PortfolioRepository interface {
	// GetOrCreate returns the portfolio of a wallet, inserting it on first sight
	GetOrCreate(ctx context.Context, walletAddress string) (*entities.Portfolio, error)

	// GetByWallet returns nil when the wallet has no portfolio
	GetByWallet(ctx context.Context, walletAddress string) (*entities.Portfolio, error)

	// GetByID returns nil when no portfolio has the id
	GetByID(ctx context.Context, id string) (*entities.Portfolio, error)
}
