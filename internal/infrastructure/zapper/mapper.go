package zapper

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/bimakw/ratemybags/internal/domain/analytics"
	"github.com/bimakw/ratemybags/internal/domain/entities"
)

// DefaultLogo is shown for tokens without an image
const DefaultLogo = "https://storage.googleapis.com/zapper-fi-assets/tokens/ethereum/0x0000000000000000000000000000000000000000.png"

// mapResponse converts a query result into ranked balances and identity
func mapResponse(address string, data *portfolioData) *entities.WalletBalances {
	if data == nil {
		return entities.EmptyWalletBalances(address)
	}

	var edges []tokenEdge
	if p := data.PortfolioV2; p != nil && p.TokenBalances != nil && p.TokenBalances.ByToken != nil {
		edges = p.TokenBalances.ByToken.Edges
	}

	return &entities.WalletBalances{
		Tokens:  analytics.Rank(mapTokens(edges)),
		Account: mapAccount(address, data.Accounts),
	}
}

func mapTokens(edges []tokenEdge) []entities.TokenBalance {
	tokens := make([]entities.TokenBalance, 0, len(edges))
	for _, e := range edges {
		tokens = append(tokens, mapToken(e.Node))
	}
	return tokens
}

// mapToken values a holding as balance * price; a missing price values it at zero
func mapToken(n tokenNode) entities.TokenBalance {
	amount := decimal.Zero
	if n.Balance != nil {
		amount = *n.Balance
	}
	price := decimal.Zero
	if n.Price != nil {
		price = *n.Price
	}

	logo := DefaultLogo
	if n.ImgURLV2 != nil && *n.ImgURLV2 != "" {
		logo = *n.ImgURLV2
	}

	network := ""
	if n.Network != nil {
		network = strings.ToLower(n.Network.Name)
	}

	return entities.TokenBalance{
		Token:   n.Symbol,
		Amount:  amount,
		Value:   amount.Mul(price),
		Logo:    logo,
		Network: network,
	}
}

func mapAccount(address string, accounts []account) entities.AccountInfo {
	info := entities.AccountInfo{Address: address}
	if len(accounts) == 0 {
		return info
	}

	a := accounts[0]
	if a.ENSRecord != nil {
		info.ENSName = optional(a.ENSRecord.Name)
	}
	if fc := a.FarcasterProfile; fc != nil {
		info.FarcasterName = optional(fc.Username)
		if fc.Metadata != nil {
			info.FarcasterDisplayName = optional(fc.Metadata.DisplayName)
			info.Avatar = optional(fc.Metadata.ImageURL)
		}
	}
	return info
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
