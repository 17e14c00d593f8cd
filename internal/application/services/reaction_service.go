package services

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/bimakw/ratemybags/internal/domain/entities"
	"github.com/bimakw/ratemybags/internal/domain/repositories"
	"github.com/bimakw/ratemybags/internal/infrastructure/metrics"
)

// ReactionService provides business logic for emoji reactions
type ReactionService struct {
	portfolioRepo repositories.PortfolioRepository
	reactionRepo  repositories.ReactionRepository
	logger        *zap.Logger
}

// NewReactionService creates a new reaction service
func NewReactionService(
	portfolioRepo repositories.PortfolioRepository,
	reactionRepo repositories.ReactionRepository,
	logger *zap.Logger,
) *ReactionService {
	return &ReactionService{
		portfolioRepo: portfolioRepo,
		reactionRepo:  reactionRepo,
		logger:        logger,
	}
}

// ReactionInput is a reaction submission
type ReactionInput struct {
	Emoji          string `json:"emoji"`
	ReactorAddress string `json:"reactor_address"`
	ReactorFID     *int64 `json:"reactor_fid,omitempty"`
}

// ReactionListResponse is the API response for a portfolio's reactions
type ReactionListResponse struct {
	Data   []entities.ReactionRecord `json:"data"`
	Counts entities.ReactionCounts   `json:"counts"`
	Total  int                       `json:"total"`
}

// ReactionResponse wraps a stored reaction for API response
type ReactionResponse struct {
	Data entities.ReactionRecord `json:"data"`
}

// Submit validates and stores a reaction for a portfolio
func (s *ReactionService) Submit(ctx context.Context, portfolioID string, in ReactionInput) (*ReactionResponse, error) {
	reaction, err := entities.ParseReaction(in.Emoji)
	if err != nil {
		return nil, err
	}

	portfolio, err := findPortfolio(ctx, s.portfolioRepo, portfolioID)
	if err != nil {
		return nil, err
	}

	record := &entities.ReactionRecord{
		PortfolioID:    portfolio.ID,
		Emoji:          reaction.Emoji(),
		ReactorAddress: strings.ToLower(in.ReactorAddress),
		ReactorFID:     in.ReactorFID,
	}
	if err := s.reactionRepo.Add(ctx, record); err != nil {
		return nil, entities.NewPersistenceError("failed to add reaction", err)
	}
	metrics.ReactionsSubmitted.WithLabelValues(record.Emoji).Inc()

	s.logger.Info("Reaction submitted",
		zap.String("portfolio_id", portfolio.ID),
		zap.String("emoji", record.Emoji),
	)

	return &ReactionResponse{Data: *record}, nil
}

// List returns the reactions of a portfolio with per-emoji counts
func (s *ReactionService) List(ctx context.Context, portfolioID string) (*ReactionListResponse, error) {
	portfolio, err := findPortfolio(ctx, s.portfolioRepo, portfolioID)
	if err != nil {
		return nil, err
	}

	records, err := s.reactionRepo.ListByPortfolio(ctx, portfolio.ID)
	if err != nil {
		return nil, entities.NewPersistenceError("failed to list reactions", err)
	}

	counts := entities.CountReactions(records)
	return &ReactionListResponse{
		Data:   records,
		Counts: counts,
		Total:  counts.Total(),
	}, nil
}
