package services

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/bimakw/ratemybags/internal/domain/entities"
	"github.com/bimakw/ratemybags/internal/domain/repositories"
	"github.com/bimakw/ratemybags/internal/infrastructure/metrics"
)

// Frame buttons, 1-based as sent by the client
const (
	FrameButtonConnect = 1
	FrameButtonRate    = 2
	FrameButtonReact   = 3

	// FrameDefaultRating is the score recorded by the rate button
	FrameDefaultRating = 5
)

// FrameReaction is the reaction recorded by the react button
const FrameReaction = entities.ReactionDiamond

// FrameButtons is the button row returned for every action
var FrameButtons = [3]string{"Connect Wallet", "Rate Portfolio 🔥", "Add Reaction 💎"}

// ErrInvalidFrameAction is returned for button indexes outside the button row
var ErrInvalidFrameAction = errors.New("invalid frame action")

// FrameResponse is the next frame shown to the user
type FrameResponse struct {
	Image   string   `json:"image"`
	Buttons []string `json:"buttons"`
}

// FrameService handles frame button presses
type FrameService struct {
	portfolioRepo repositories.PortfolioRepository
	ratings       *RatingService
	reactions     *ReactionService
	imageURL      string
	logger        *zap.Logger
}

// NewFrameService creates a new frame service
func NewFrameService(
	portfolioRepo repositories.PortfolioRepository,
	ratings *RatingService,
	reactions *ReactionService,
	imageURL string,
	logger *zap.Logger,
) *FrameService {
	return &FrameService{
		portfolioRepo: portfolioRepo,
		ratings:       ratings,
		reactions:     reactions,
		imageURL:      imageURL,
		logger:        logger,
	}
}

// HandleAction dispatches a button press. messageBytes carries the wallet
// address of the portfolio the frame was shared for.
func (s *FrameService) HandleAction(ctx context.Context, buttonIndex int, fid int64, messageBytes string) (*FrameResponse, error) {
	switch buttonIndex {
	case FrameButtonConnect:
	case FrameButtonRate:
		portfolio, err := s.targetPortfolio(ctx, messageBytes)
		if err != nil {
			return nil, err
		}
		if _, err := s.ratings.Submit(ctx, portfolio.ID, RatingInput{
			Rating:   FrameDefaultRating,
			RaterFID: &fid,
		}); err != nil {
			return nil, err
		}
	case FrameButtonReact:
		portfolio, err := s.targetPortfolio(ctx, messageBytes)
		if err != nil {
			return nil, err
		}
		if _, err := s.reactions.Submit(ctx, portfolio.ID, ReactionInput{
			Emoji:      FrameReaction.Emoji(),
			ReactorFID: &fid,
		}); err != nil {
			return nil, err
		}
	default:
		return nil, ErrInvalidFrameAction
	}

	metrics.FrameActions.WithLabelValues(strconv.Itoa(buttonIndex)).Inc()
	s.logger.Debug("Frame action handled",
		zap.Int("button", buttonIndex),
		zap.Int64("fid", fid),
	)

	return &FrameResponse{
		Image:   s.imageURL,
		Buttons: FrameButtons[:],
	}, nil
}

func (s *FrameService) targetPortfolio(ctx context.Context, walletAddress string) (*entities.Portfolio, error) {
	portfolio, err := s.portfolioRepo.GetByWallet(ctx, strings.ToLower(walletAddress))
	if err != nil {
		return nil, entities.NewPersistenceError("failed to get portfolio", err)
	}
	if portfolio == nil {
		return nil, entities.ErrPortfolioNotFound
	}
	return portfolio, nil
}
