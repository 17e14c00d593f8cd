package entities

import (
	"github.com/shopspring/decimal"
)

// TokenBalance is one holding of a wallet on a single network
type TokenBalance struct {
	Token   string          `json:"token"`
	Amount  decimal.Decimal `json:"amount"`
	Value   decimal.Decimal `json:"value"` // USD, amount * unit price at fetch time
	Logo    string          `json:"logo"`
	Network string          `json:"network"` // lowercase
}

// AccountInfo holds the best-effort identity of a wallet
type AccountInfo struct {
	Address              string  `json:"address"`
	ENSName              *string `json:"ens_name"`
	FarcasterName        *string `json:"farcaster_name"`
	FarcasterDisplayName *string `json:"farcaster_display_name"`
	Avatar               *string `json:"avatar"`
}

// WalletBalances is the result of one balance query
type WalletBalances struct {
	Tokens  []TokenBalance `json:"tokens"`
	Account AccountInfo    `json:"account"`
}

// NetworkBalances groups the holdings of one network
type NetworkBalances struct {
	ChainName  string          `json:"chain_name"`
	Balances   []TokenBalance  `json:"balances"`
	TotalValue decimal.Decimal `json:"total_value"`
}

// EmptyWalletBalances returns the degraded result for a failed balance query
func EmptyWalletBalances(address string) *WalletBalances {
	return &WalletBalances{
		Tokens:  []TokenBalance{},
		Account: AccountInfo{Address: address},
	}
}
