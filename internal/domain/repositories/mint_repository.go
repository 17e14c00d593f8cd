package repositories

import (
	"context"

	"github.com/bimakw/ratemybags/internal/domain/entities"
)

// MintRepository defines the interface for minted snapshot records
type MintRepository interface {
	// Reserve inserts a pending mint for the portfolio. Returns
	// entities.ErrAlreadyMinted if the portfolio already has one, pending
	// or completed.
	Reserve(ctx context.Context, portfolioID string) (*entities.NFTMint, error)

	// Update stores the status, token id and transaction hash of a mint
	Update(ctx context.Context, mint *entities.NFTMint) error

	// Release deletes a pending mint so the portfolio can be minted again
	Release(ctx context.Context, id string) error

	// GetByPortfolio returns nil when the portfolio has no mint
	GetByPortfolio(ctx context.Context, portfolioID string) (*entities.NFTMint, error)
}
