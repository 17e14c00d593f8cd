package services

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/bimakw/ratemybags/internal/domain/entities"
	"github.com/bimakw/ratemybags/internal/domain/metadata"
	"github.com/bimakw/ratemybags/internal/domain/repositories"
	"github.com/bimakw/ratemybags/internal/infrastructure/ethereum"
	"github.com/bimakw/ratemybags/internal/infrastructure/metrics"
)

// ErrMintingDisabled is returned when no signer is configured
var ErrMintingDisabled = errors.New("minting is not configured")

// Minter submits a mint transaction and waits for its receipt. A receipt
// with the transaction hash may accompany an error once the transaction
// has been sent.
type Minter interface {
	Mint(ctx context.Context, tokenURI string) (*ethereum.MintReceipt, error)
}

// MintService turns portfolio snapshots into NFTs
type MintService struct {
	portfolios *PortfolioService
	mintRepo   repositories.MintRepository
	minter     Minter
	logger     *zap.Logger
}

// NewMintService creates a new mint service. minter may be nil, in which
// case metadata is still available but Mint returns ErrMintingDisabled.
func NewMintService(
	portfolios *PortfolioService,
	mintRepo repositories.MintRepository,
	minter Minter,
	logger *zap.Logger,
) *MintService {
	return &MintService{
		portfolios: portfolios,
		mintRepo:   mintRepo,
		minter:     minter,
		logger:     logger,
	}
}

// TokenURIResponse wraps the metadata data URI for API response
type TokenURIResponse struct {
	Data TokenURIDTO `json:"data"`
}

// TokenURIDTO carries both the encoded and decoded metadata
type TokenURIDTO struct {
	TokenURI string                `json:"token_uri"`
	Metadata *metadata.NFTMetadata `json:"metadata"`
}

// TokenURI builds the metadata data URI that a mint would carry
func (s *MintService) TokenURI(ctx context.Context, portfolioID string) (*TokenURIResponse, error) {
	in, err := s.portfolios.Snapshot(ctx, portfolioID)
	if err != nil {
		return nil, err
	}

	md, err := metadata.Build(in.Portfolio.WalletAddress, in.Tokens, in.Ratings, in.Reactions)
	if err != nil {
		return nil, err
	}
	uri, err := metadata.Encode(md)
	if err != nil {
		return nil, err
	}

	return &TokenURIResponse{Data: TokenURIDTO{TokenURI: uri, Metadata: &md}}, nil
}

// Mint mints a snapshot of the portfolio. Transaction failures come back
// as an unsuccessful MintResult, everything else as an error. The portfolio
// is reserved before the transaction is sent and stays reserved whenever the
// transaction may have reached the chain.
func (s *MintService) Mint(ctx context.Context, portfolioID string) (*entities.MintResult, error) {
	if s.minter == nil {
		return nil, ErrMintingDisabled
	}

	uri, err := s.TokenURI(ctx, portfolioID)
	if err != nil {
		return nil, err
	}

	reservation, err := s.mintRepo.Reserve(ctx, portfolioID)
	if errors.Is(err, entities.ErrAlreadyMinted) {
		metrics.NFTMints.WithLabelValues("rejected").Inc()
		return nil, err
	}
	if err != nil {
		return nil, entities.NewPersistenceError("failed to reserve mint", err)
	}

	// Bookkeeping after the send must survive a cancelled request
	storeCtx := context.WithoutCancel(ctx)

	receipt, err := s.minter.Mint(ctx, uri.Data.TokenURI)
	if err != nil {
		metrics.NFTMints.WithLabelValues("failed").Inc()
		s.logger.Warn("Mint transaction failed",
			zap.String("portfolio_id", portfolioID),
			zap.Error(err),
		)
		result := &entities.MintResult{Success: false, Error: err.Error()}
		if receipt == nil || errors.Is(err, entities.ErrTransactionReverted) {
			s.release(storeCtx, reservation)
			return result, nil
		}

		// Sent but unconfirmed: keep the portfolio reserved under the hash
		result.TxHash = receipt.TxHash
		reservation.TransactionHash = receipt.TxHash
		s.store(storeCtx, reservation)
		return result, nil
	}

	result := &entities.MintResult{
		Success: true,
		TxHash:  receipt.TxHash,
		TokenID: receipt.TokenID.String(),
	}

	reservation.Status = entities.MintStatusMinted
	reservation.TokenID = result.TokenID
	reservation.TransactionHash = result.TxHash
	s.store(storeCtx, reservation)

	metrics.NFTMints.WithLabelValues("success").Inc()
	s.logger.Info("nft_minted",
		zap.String("portfolio_id", portfolioID),
		zap.String("token_id", result.TokenID),
		zap.String("tx_hash", result.TxHash),
	)

	return result, nil
}

// store persists the mint outcome. The transaction has been sent at this
// point, so a failure is only logged.
func (s *MintService) store(ctx context.Context, mint *entities.NFTMint) {
	if err := s.mintRepo.Update(ctx, mint); err != nil {
		s.logger.Error("Failed to record mint",
			zap.String("portfolio_id", mint.PortfolioID),
			zap.String("status", mint.Status),
			zap.String("tx_hash", mint.TransactionHash),
			zap.Error(err),
		)
	}
}

func (s *MintService) release(ctx context.Context, mint *entities.NFTMint) {
	if err := s.mintRepo.Release(ctx, mint.ID); err != nil {
		s.logger.Error("Failed to release mint reservation",
			zap.String("portfolio_id", mint.PortfolioID),
			zap.Error(err),
		)
	}
}
