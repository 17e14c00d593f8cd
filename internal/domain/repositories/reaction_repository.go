package repositories

import (
	"context"

	"github.com/bimakw/ratemybags/internal/domain/entities"
)

// ReactionRepository defines the interface for append-only reaction rows
type ReactionRepository interface {
	// Add inserts a reaction and fills its id and timestamp
	Add(ctx context.Context, reaction *entities.ReactionRecord) error

	// ListByPortfolio returns reactions in insertion order
	ListByPortfolio(ctx context.Context, portfolioID string) ([]entities.ReactionRecord, error)
}
