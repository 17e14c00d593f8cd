package ethereum

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/rpc"
	"go.uber.org/zap"

	"github.com/bimakw/ratemybags/internal/domain/entities"
)

// Wallet provider error codes (EIP-1193, EIP-3085)
const (
	CodeUserRejected  = 4001
	CodeUnrecognized  = 4902
	CodeUnauthorized  = 4100
	CodeDisconnected  = 4900
	CodeChainMismatch = 4901
)

// Wallet talks to an EIP-1193 style wallet provider over JSON-RPC
type Wallet struct {
	rpc    *rpc.Client
	logger *zap.Logger
}

// DialWallet connects to a wallet provider endpoint
func DialWallet(ctx context.Context, url string, logger *zap.Logger) (*Wallet, error) {
	if url == "" {
		return nil, entities.NewConnectivityError("no wallet provider found", nil)
	}
	client, err := rpc.DialContext(ctx, url)
	if err != nil {
		return nil, entities.NewConnectivityError("failed to reach wallet provider", err)
	}
	return NewWallet(client, logger), nil
}

// NewWallet wraps an existing RPC client
func NewWallet(client *rpc.Client, logger *zap.Logger) *Wallet {
	return &Wallet{rpc: client, logger: logger.Named("Wallet")}
}

// Close closes the provider connection
func (w *Wallet) Close() {
	w.rpc.Close()
}

// Accounts returns the already authorized accounts, lowercased
func (w *Wallet) Accounts(ctx context.Context) ([]string, error) {
	return w.accounts(ctx, "eth_accounts")
}

// RequestAccounts asks the user to authorize accounts
func (w *Wallet) RequestAccounts(ctx context.Context) ([]string, error) {
	accounts, err := w.accounts(ctx, "eth_requestAccounts")
	if err != nil {
		if RPCErrorCode(err) == CodeUserRejected {
			return nil, entities.NewConnectivityError("user rejected the connection request", err)
		}
		return nil, entities.NewConnectivityError("failed to request accounts", err)
	}
	if len(accounts) == 0 {
		return nil, entities.NewConnectivityError("no accounts authorized", nil)
	}
	return accounts, nil
}

func (w *Wallet) accounts(ctx context.Context, method string) ([]string, error) {
	var raw []common.Address
	if err := w.rpc.CallContext(ctx, &raw, method); err != nil {
		return nil, err
	}
	out := make([]string, len(raw))
	for i, a := range raw {
		out[i] = strings.ToLower(a.Hex())
	}
	return out, nil
}

// ChainID returns the chain the wallet is connected to
func (w *Wallet) ChainID(ctx context.Context) (int64, error) {
	var id hexutil.Uint64
	if err := w.rpc.CallContext(ctx, &id, "eth_chainId"); err != nil {
		return 0, fmt.Errorf("failed to get wallet chain id: %w", err)
	}
	return int64(id), nil
}

type switchChainParams struct {
	ChainID string `json:"chainId"`
}

type addChainParams struct {
	ChainID           string             `json:"chainId"`
	ChainName         string             `json:"chainName"`
	NativeCurrency    nativeCurrencyJSON `json:"nativeCurrency"`
	RPCURLs           []string           `json:"rpcUrls"`
	BlockExplorerURLs []string           `json:"blockExplorerUrls"`
}

type nativeCurrencyJSON struct {
	Name     string `json:"name"`
	Symbol   string `json:"symbol"`
	Decimals int    `json:"decimals"`
}

// SwitchChain asks the wallet to change network
func (w *Wallet) SwitchChain(ctx context.Context, chainID int64) error {
	params := switchChainParams{ChainID: hexutil.EncodeUint64(uint64(chainID))}
	return w.rpc.CallContext(ctx, nil, "wallet_switchEthereumChain", params)
}

// AddChain asks the wallet to register a network
func (w *Wallet) AddChain(ctx context.Context, chain entities.Chain) error {
	params := addChainParams{
		ChainID:   hexutil.EncodeUint64(uint64(chain.ID)),
		ChainName: chain.Name,
		NativeCurrency: nativeCurrencyJSON{
			Name:     chain.NativeCurrency.Name,
			Symbol:   chain.NativeCurrency.Symbol,
			Decimals: chain.NativeCurrency.Decimals,
		},
		RPCURLs:           []string{chain.RPCURL},
		BlockExplorerURLs: []string{chain.BlockExplorer},
	}
	return w.rpc.CallContext(ctx, nil, "wallet_addEthereumChain", params)
}

// ChainLookup resolves chain ids to registry entries
type ChainLookup interface {
	Get(id int64) (entities.Chain, bool)
}

// EnsureChain switches the wallet to chainID, registering the network first
// when the wallet does not know it.
func (w *Wallet) EnsureChain(ctx context.Context, chainID int64, chains ChainLookup) error {
	current, err := w.ChainID(ctx)
	if err == nil && current == chainID {
		return nil
	}

	err = w.SwitchChain(ctx, chainID)
	if err == nil {
		return nil
	}
	if RPCErrorCode(err) != CodeUnrecognized {
		return fmt.Errorf("failed to switch network: %w", err)
	}

	chain, ok := chains.Get(chainID)
	if !ok {
		return fmt.Errorf("%w: %d", entities.ErrUnsupportedChain, chainID)
	}

	w.logger.Info("Adding network to wallet", zap.Int64("chain_id", chainID), zap.String("name", chain.Name))
	if err := w.AddChain(ctx, chain); err != nil {
		return fmt.Errorf("failed to add network: %w", err)
	}
	return nil
}

// RPCErrorCode extracts the JSON-RPC error code, or 0
func RPCErrorCode(err error) int {
	var rpcErr rpc.Error
	if errors.As(err, &rpcErr) {
		return rpcErr.ErrorCode()
	}
	return 0
}
