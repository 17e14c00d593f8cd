package services

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/bimakw/ratemybags/internal/domain/entities"
	"github.com/bimakw/ratemybags/internal/infrastructure/ethereum"
)

// WalletProvider is the subset of the wallet provider used by the connect flow
type WalletProvider interface {
	EnsureChain(ctx context.Context, chainID int64, chains ethereum.ChainLookup) error
	RequestAccounts(ctx context.Context) ([]string, error)
}

// WalletService drives the wallet connect flow
type WalletService struct {
	wallet         WalletProvider
	chains         ethereum.ChainLookup
	defaultChainID int64
	portfolios     *PortfolioService
	logger         *zap.Logger
}

// NewWalletService creates a new wallet service. wallet may be nil when no
// provider is configured.
func NewWalletService(
	wallet WalletProvider,
	chains ethereum.ChainLookup,
	defaultChainID int64,
	portfolios *PortfolioService,
	logger *zap.Logger,
) *WalletService {
	return &WalletService{
		wallet:         wallet,
		chains:         chains,
		defaultChainID: defaultChainID,
		portfolios:     portfolios,
		logger:         logger,
	}
}

// ConnectResponse is the result of a successful connect
type ConnectResponse struct {
	Data ConnectDTO `json:"data"`
}

// ConnectDTO is the connected account and its portfolio
type ConnectDTO struct {
	Address   string             `json:"address"`
	ChainID   int64              `json:"chain_id"`
	Portfolio *PortfolioSnapshot `json:"portfolio"`
}

// Connect moves the wallet to the default chain, then fetches the portfolio
// of the first authorized account.
func (s *WalletService) Connect(ctx context.Context) (*ConnectResponse, error) {
	if s.wallet == nil {
		return nil, entities.NewConnectivityError("no wallet provider found", nil)
	}

	if err := s.wallet.EnsureChain(ctx, s.defaultChainID, s.chains); err != nil {
		if errors.Is(err, entities.ErrUnsupportedChain) {
			return nil, err
		}
		return nil, entities.NewConnectivityError("failed to switch network", err)
	}

	accounts, err := s.wallet.RequestAccounts(ctx)
	if err != nil {
		return nil, err
	}
	if len(accounts) == 0 {
		return nil, entities.NewConnectivityError("wallet returned no accounts", nil)
	}
	address := accounts[0]

	// A fresh connect always shows current holdings
	s.portfolios.InvalidateBalances(ctx, address)
	snapshot, err := s.portfolios.FetchPortfolio(ctx, address)
	if err != nil {
		return nil, err
	}

	s.logger.Info("wallet_connected",
		zap.String("address", snapshot.Portfolio.WalletAddress),
		zap.Int64("chain_id", s.defaultChainID),
	)

	return &ConnectResponse{
		Data: ConnectDTO{
			Address:   snapshot.Portfolio.WalletAddress,
			ChainID:   s.defaultChainID,
			Portfolio: snapshot,
		},
	}, nil
}
