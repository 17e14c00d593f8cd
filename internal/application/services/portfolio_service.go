package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/bimakw/ratemybags/internal/domain/analytics"
	"github.com/bimakw/ratemybags/internal/domain/entities"
	"github.com/bimakw/ratemybags/internal/domain/repositories"
	"github.com/bimakw/ratemybags/internal/infrastructure/cache"
	"github.com/bimakw/ratemybags/internal/infrastructure/metrics"
)

// BalanceFetcher retrieves the holdings and identity of a wallet. It never
// fails; upstream errors degrade to empty balances.
type BalanceFetcher interface {
	GetWalletBalances(ctx context.Context, address string) *entities.WalletBalances
}

// PortfolioService provides business logic for wallet portfolios
type PortfolioService struct {
	portfolioRepo repositories.PortfolioRepository
	ratingRepo    repositories.RatingRepository
	reactionRepo  repositories.ReactionRepository
	mintRepo      repositories.MintRepository
	balances      BalanceFetcher
	cache         cache.Cache
	balanceTTL    time.Duration
	logger        *zap.Logger
}

// NewPortfolioService creates a new portfolio service
func NewPortfolioService(
	portfolioRepo repositories.PortfolioRepository,
	ratingRepo repositories.RatingRepository,
	reactionRepo repositories.ReactionRepository,
	mintRepo repositories.MintRepository,
	balances BalanceFetcher,
	cache cache.Cache,
	balanceTTL time.Duration,
	logger *zap.Logger,
) *PortfolioService {
	return &PortfolioService{
		portfolioRepo: portfolioRepo,
		ratingRepo:    ratingRepo,
		reactionRepo:  reactionRepo,
		mintRepo:      mintRepo,
		balances:      balances,
		cache:         cache,
		balanceTTL:    balanceTTL,
		logger:        logger,
	}
}

// PortfolioSnapshot is the portfolio row together with freshly fetched balances
type PortfolioSnapshot struct {
	Portfolio *entities.Portfolio     `json:"portfolio"`
	Tokens    []entities.TokenBalance `json:"tokens"`
	Account   entities.AccountInfo    `json:"account"`
}

// PortfolioView is the API representation of a portfolio page
type PortfolioView struct {
	Portfolio  *entities.Portfolio        `json:"portfolio"`
	Account    entities.AccountInfo       `json:"account"`
	TotalValue decimal.Decimal            `json:"total_value"`
	Holdings   []analytics.RankedHolding  `json:"holdings"`
	Chart      []analytics.ChartSlice     `json:"chart"`
	Networks   []entities.NetworkBalances `json:"networks"`
	Ratings    []entities.Rating          `json:"ratings"`
	Feedback   analytics.Summary          `json:"feedback"`
	Minted     bool                       `json:"minted"`
	Mint       *entities.NFTMint          `json:"mint,omitempty"`
}

// PortfolioViewResponse wraps the portfolio view for API response
type PortfolioViewResponse struct {
	Data PortfolioView `json:"data"`
}

// NetworkBalancesResponse wraps the per-network grouping for API response
type NetworkBalancesResponse struct {
	Data []entities.NetworkBalances `json:"data"`
}

// SnapshotInput is everything that goes into a minted snapshot
type SnapshotInput struct {
	Portfolio *entities.Portfolio
	Tokens    []entities.TokenBalance
	Ratings   []int
	Reactions entities.ReactionCounts
}

// FetchPortfolio ensures the wallet has a portfolio row, then retrieves its
// balances. Storage failures are returned as persistence errors.
func (s *PortfolioService) FetchPortfolio(ctx context.Context, walletAddress string) (*PortfolioSnapshot, error) {
	walletAddress = strings.ToLower(walletAddress)

	portfolio, err := s.portfolioRepo.GetOrCreate(ctx, walletAddress)
	if err != nil {
		return nil, entities.NewPersistenceError("failed to get or create portfolio", err)
	}

	balances := s.walletBalances(ctx, walletAddress)
	metrics.PortfolioFetches.Inc()

	return &PortfolioSnapshot{
		Portfolio: portfolio,
		Tokens:    balances.Tokens,
		Account:   balances.Account,
	}, nil
}

// GetPortfolioView builds the full portfolio page for a wallet
func (s *PortfolioService) GetPortfolioView(ctx context.Context, walletAddress string) (*PortfolioViewResponse, error) {
	walletAddress = strings.ToLower(walletAddress)

	portfolio, err := s.portfolioRepo.GetOrCreate(ctx, walletAddress)
	if err != nil {
		return nil, entities.NewPersistenceError("failed to get or create portfolio", err)
	}

	var (
		ratings   []entities.Rating
		reactions []entities.ReactionRecord
		mint      *entities.NFTMint
		balances  *entities.WalletBalances
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		r, err := s.ratingRepo.ListByPortfolio(gctx, portfolio.ID)
		if err != nil {
			return entities.NewPersistenceError("failed to list ratings", err)
		}
		ratings = r
		return nil
	})
	g.Go(func() error {
		r, err := s.reactionRepo.ListByPortfolio(gctx, portfolio.ID)
		if err != nil {
			return entities.NewPersistenceError("failed to list reactions", err)
		}
		reactions = r
		return nil
	})
	g.Go(func() error {
		m, err := s.mintRepo.GetByPortfolio(gctx, portfolio.ID)
		if err != nil {
			return entities.NewPersistenceError("failed to get mint", err)
		}
		mint = m
		return nil
	})
	g.Go(func() error {
		balances = s.walletBalances(gctx, walletAddress)
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	metrics.PortfolioFetches.Inc()

	ranked := analytics.Rank(balances.Tokens)

	return &PortfolioViewResponse{
		Data: PortfolioView{
			Portfolio:  portfolio,
			Account:    balances.Account,
			TotalValue: analytics.TotalValue(ranked),
			Holdings:   analytics.TopHoldings(ranked, analytics.DisplayLimit),
			Chart:      analytics.ChartSeries(ranked),
			Networks:   analytics.GroupByNetwork(ranked),
			Ratings:    ratings,
			Feedback:   analytics.Summarize(ratings, reactions),
			Minted:     mint.Minted(),
			Mint:       mint,
		},
	}, nil
}

// GetNetworkBalances groups a wallet's holdings by network
func (s *PortfolioService) GetNetworkBalances(ctx context.Context, walletAddress string) *NetworkBalancesResponse {
	walletAddress = strings.ToLower(walletAddress)
	balances := s.walletBalances(ctx, walletAddress)
	return &NetworkBalancesResponse{Data: analytics.GroupByNetwork(balances.Tokens)}
}

// GetPortfolio returns the portfolio with the given id or ErrPortfolioNotFound
func (s *PortfolioService) GetPortfolio(ctx context.Context, portfolioID string) (*entities.Portfolio, error) {
	return findPortfolio(ctx, s.portfolioRepo, portfolioID)
}

// Snapshot gathers the inputs of the metadata encoder for a portfolio
func (s *PortfolioService) Snapshot(ctx context.Context, portfolioID string) (*SnapshotInput, error) {
	portfolio, err := findPortfolio(ctx, s.portfolioRepo, portfolioID)
	if err != nil {
		return nil, err
	}

	ratings, err := s.ratingRepo.ListByPortfolio(ctx, portfolio.ID)
	if err != nil {
		return nil, entities.NewPersistenceError("failed to list ratings", err)
	}
	reactions, err := s.reactionRepo.ListByPortfolio(ctx, portfolio.ID)
	if err != nil {
		return nil, entities.NewPersistenceError("failed to list reactions", err)
	}

	balances := s.walletBalances(ctx, portfolio.WalletAddress)

	return &SnapshotInput{
		Portfolio: portfolio,
		Tokens:    analytics.Rank(balances.Tokens),
		Ratings:   entities.RatingValues(ratings),
		Reactions: entities.CountReactions(reactions),
	}, nil
}

// InvalidateBalances drops the cached balances of a wallet so the next
// read goes upstream
func (s *PortfolioService) InvalidateBalances(ctx context.Context, walletAddress string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, balancesKey(strings.ToLower(walletAddress))); err != nil {
		s.logger.Warn("Failed to invalidate balances", zap.Error(err))
	}
}

func balancesKey(walletAddress string) string {
	return fmt.Sprintf("balances:%s", walletAddress)
}

func (s *PortfolioService) walletBalances(ctx context.Context, walletAddress string) *entities.WalletBalances {
	cacheKey := balancesKey(walletAddress)

	// Try cache first
	if s.cache != nil {
		var cached entities.WalletBalances
		if err := s.cache.Get(ctx, cacheKey, &cached); err == nil {
			s.logger.Debug("Cache hit", zap.String("key", cacheKey))
			return &cached
		}
	}

	balances := s.balances.GetWalletBalances(ctx, walletAddress)

	// Empty results may be a degraded upstream response, so only cache real data
	if s.cache != nil && len(balances.Tokens) > 0 {
		if err := s.cache.Set(ctx, cacheKey, balances, s.balanceTTL); err != nil {
			s.logger.Warn("Failed to cache balances", zap.Error(err))
		}
	}

	return balances
}

func findPortfolio(ctx context.Context, repo repositories.PortfolioRepository, portfolioID string) (*entities.Portfolio, error) {
	portfolio, err := repo.GetByID(ctx, portfolioID)
	if err != nil {
		return nil, entities.NewPersistenceError("failed to get portfolio", err)
	}
	if portfolio == nil {
		return nil, entities.ErrPortfolioNotFound
	}
	return portfolio, nil
}
