package ethereum

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"
	"go.uber.org/zap"

	"github.com/bimakw/ratemybags/internal/config"
)

// Client is a node connection pinned to the configured chain
type Client struct {
	eth     *ethclient.Client
	chainID *big.Int
	cfg     config.EthereumConfig
	logger  *zap.Logger
}

// NewClient dials the node and refuses to continue on a chain id mismatch
func NewClient(cfg config.EthereumConfig, logger *zap.Logger) (*Client, error) {
	ctx, cancel := context.WithTimeout(context.Background(), cfg.RequestTimeout)
	defer cancel()

	eth, err := ethclient.DialContext(ctx, cfg.RPCURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Ethereum node: %w", err)
	}

	chainID, err := eth.ChainID(ctx)
	if err != nil {
		eth.Close()
		return nil, fmt.Errorf("failed to get chain ID: %w", err)
	}
	if chainID.Int64() != cfg.ChainID {
		eth.Close()
		return nil, fmt.Errorf("chain ID mismatch: expected %d, got %d", cfg.ChainID, chainID.Int64())
	}

	logger.Info("Connected to Ethereum node",
		zap.String("rpc_url", cfg.RPCURL),
		zap.Int64("chain_id", chainID.Int64()),
	)

	return &Client{eth: eth, chainID: chainID, cfg: cfg, logger: logger}, nil
}

// Close closes the node connection
func (c *Client) Close() {
	c.eth.Close()
}

// ChainID returns the chain the client is pinned to
func (c *Client) ChainID() *big.Int {
	return c.chainID
}

// EthClient exposes the raw client for contract bindings
func (c *Client) EthClient() *ethclient.Client {
	return c.eth
}

// HealthCheck reports whether the node answers
func (c *Client) HealthCheck(ctx context.Context) error {
	_, err := c.eth.BlockNumber(ctx)
	return err
}

// HeadBlock returns the latest block number
func (c *Client) HeadBlock(ctx context.Context) (uint64, error) {
	return withRetry(ctx, c, "head block", func() (uint64, error) {
		return c.eth.BlockNumber(ctx)
	})
}

// Balance returns the wei balance of account at the latest block
func (c *Client) Balance(ctx context.Context, account common.Address) (*big.Int, error) {
	return withRetry(ctx, c, "balance", func() (*big.Int, error) {
		return c.eth.BalanceAt(ctx, account, nil)
	})
}

// WaitForReceipt polls until the transaction is mined or ctx ends
func (c *Client) WaitForReceipt(ctx context.Context, txHash common.Hash) (*types.Receipt, error) {
	ticker := time.NewTicker(c.retryDelay())
	defer ticker.Stop()

	for {
		receipt, err := c.eth.TransactionReceipt(ctx, txHash)
		if err == nil {
			return receipt, nil
		}
		if !errors.Is(err, ethereum.NotFound) {
			c.logger.Warn("Failed to get receipt, retrying",
				zap.String("tx_hash", txHash.Hex()),
				zap.Error(err),
			)
		}

		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("receipt for %s not available: %w", txHash.Hex(), ctx.Err())
		case <-ticker.C:
		}
	}
}

func (c *Client) retryDelay() time.Duration {
	if c.cfg.RetryDelay <= 0 {
		return time.Second
	}
	return c.cfg.RetryDelay
}

// withRetry runs call up to MaxRetries+1 times, sleeping between attempts
func withRetry[T any](ctx context.Context, c *Client, what string, call func() (T, error)) (T, error) {
	var (
		out T
		err error
	)
	for attempt := 0; attempt <= c.cfg.MaxRetries; attempt++ {
		if out, err = call(); err == nil {
			return out, nil
		}
		c.logger.Warn("Node call failed, retrying",
			zap.String("call", what),
			zap.Int("attempt", attempt+1),
			zap.Error(err),
		)
		if attempt == c.cfg.MaxRetries {
			break
		}
		select {
		case <-ctx.Done():
			return out, ctx.Err()
		case <-time.After(c.retryDelay()):
		}
	}
	return out, fmt.Errorf("%s failed after %d retries: %w", what, c.cfg.MaxRetries, err)
}
