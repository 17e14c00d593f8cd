package services

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/bimakw/ratemybags/internal/domain/analytics"
	"github.com/bimakw/ratemybags/internal/domain/entities"
	"github.com/bimakw/ratemybags/internal/domain/repositories"
	"github.com/bimakw/ratemybags/internal/infrastructure/metrics"
)

// RatingService provides business logic for peer ratings
type RatingService struct {
	portfolioRepo repositories.PortfolioRepository
	ratingRepo    repositories.RatingRepository
	logger        *zap.Logger
}

// NewRatingService creates a new rating service
func NewRatingService(
	portfolioRepo repositories.PortfolioRepository,
	ratingRepo repositories.RatingRepository,
	logger *zap.Logger,
) *RatingService {
	return &RatingService{
		portfolioRepo: portfolioRepo,
		ratingRepo:    ratingRepo,
		logger:        logger,
	}
}

// RatingInput is a rating submission
type RatingInput struct {
	Rating       int    `json:"rating"`
	RaterAddress string `json:"rater_address"`
	RaterFID     *int64 `json:"rater_fid,omitempty"`
}

// RatingListResponse is the API response for a portfolio's ratings
type RatingListResponse struct {
	Data          []entities.Rating `json:"data"`
	AverageRating string            `json:"average_rating"`
	Count         int               `json:"count"`
}

// RatingResponse wraps a stored rating for API response
type RatingResponse struct {
	Data entities.Rating `json:"data"`
}

// Submit validates and stores a rating for a portfolio
func (s *RatingService) Submit(ctx context.Context, portfolioID string, in RatingInput) (*RatingResponse, error) {
	if !entities.ValidRating(in.Rating) {
		return nil, fmt.Errorf("%w: got %d", entities.ErrInvalidRating, in.Rating)
	}

	portfolio, err := findPortfolio(ctx, s.portfolioRepo, portfolioID)
	if err != nil {
		return nil, err
	}

	rating := &entities.Rating{
		PortfolioID:  portfolio.ID,
		Rating:       in.Rating,
		RaterAddress: strings.ToLower(in.RaterAddress),
		RaterFID:     in.RaterFID,
	}
	if err := s.ratingRepo.Add(ctx, rating); err != nil {
		return nil, entities.NewPersistenceError("failed to add rating", err)
	}
	metrics.RatingsSubmitted.Inc()

	s.logger.Info("Rating submitted",
		zap.String("portfolio_id", portfolio.ID),
		zap.Int("rating", rating.Rating),
	)

	return &RatingResponse{Data: *rating}, nil
}

// List returns the ratings of a portfolio with their average
func (s *RatingService) List(ctx context.Context, portfolioID string) (*RatingListResponse, error) {
	portfolio, err := findPortfolio(ctx, s.portfolioRepo, portfolioID)
	if err != nil {
		return nil, err
	}

	ratings, err := s.ratingRepo.ListByPortfolio(ctx, portfolio.ID)
	if err != nil {
		return nil, entities.NewPersistenceError("failed to list ratings", err)
	}

	return &RatingListResponse{
		Data:          ratings,
		AverageRating: analytics.AverageRating(entities.RatingValues(ratings)),
		Count:         len(ratings),
	}, nil
}
