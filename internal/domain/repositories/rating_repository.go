package repositories

import (
	"context"

	"github.com/bimakw/ratemybags/internal/domain/entities"
)

// RatingRepository defines the interface for append-only rating rows
type RatingRepository interface {
	// Add inserts a rating and fills its id and timestamp
	Add(ctx context.Context, rating *entities.Rating) error

	// ListByPortfolio returns ratings in insertion order
	ListByPortfolio(ctx context.Context, portfolioID string) ([]entities.Rating, error)
}
