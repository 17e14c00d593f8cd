// Package analytics turns raw wallet balances into the ranked, grouped and
// aggregated views shown for a portfolio.
package analytics

import (
	"sort"
	"unicode"
	"unicode/utf8"

	"github.com/shopspring/decimal"

	"github.com/bimakw/ratemybags/internal/domain/entities"
)

// DisplayLimit is the number of holdings shown in the portfolio table
const DisplayLimit = 10

var hundred = decimal.NewFromInt(100)

// RankedHolding is a holding prepared for display
type RankedHolding struct {
	entities.TokenBalance
	Percentage  decimal.Decimal `json:"percentage"`
	NetworkName string          `json:"network_name"`
}

// Rank returns a copy of tokens sorted by value, highest first.
// Equal values keep their upstream order.
func Rank(tokens []entities.TokenBalance) []entities.TokenBalance {
	ranked := make([]entities.TokenBalance, len(tokens))
	copy(ranked, tokens)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Value.GreaterThan(ranked[j].Value)
	})
	return ranked
}

// TotalValue sums the value of every holding
func TotalValue(tokens []entities.TokenBalance) decimal.Decimal {
	total := decimal.Zero
	for _, t := range tokens {
		total = total.Add(t.Value)
	}
	return total
}

// Allocation returns value as a percentage of total, or zero when total is zero
func Allocation(value, total decimal.Decimal) decimal.Decimal {
	if total.IsZero() {
		return decimal.Zero
	}
	return value.Mul(hundred).Div(total)
}

// TopHoldings ranks tokens and keeps the first limit entries. Percentages
// are relative to the subtotal of the kept entries.
func TopHoldings(tokens []entities.TokenBalance, limit int) []RankedHolding {
	ranked := Rank(tokens)
	if limit >= 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}

	subtotal := TotalValue(ranked)
	out := make([]RankedHolding, len(ranked))
	for i, t := range ranked {
		out[i] = RankedHolding{
			TokenBalance: t,
			Percentage:   Allocation(t.Value, subtotal).Round(2),
			NetworkName:  CapitalizeNetwork(t.Network),
		}
	}
	return out
}

// GroupByNetwork buckets holdings per network. Groups are ordered by total
// value, highest first; balances keep their input order inside a group.
func GroupByNetwork(tokens []entities.TokenBalance) []entities.NetworkBalances {
	index := make(map[string]int)
	groups := make([]entities.NetworkBalances, 0)

	for _, t := range tokens {
		i, ok := index[t.Network]
		if !ok {
			i = len(groups)
			index[t.Network] = i
			groups = append(groups, entities.NetworkBalances{
				ChainName:  CapitalizeNetwork(t.Network),
				Balances:   []entities.TokenBalance{},
				TotalValue: decimal.Zero,
			})
		}
		groups[i].Balances = append(groups[i].Balances, t)
		groups[i].TotalValue = groups[i].TotalValue.Add(t.Value)
	}

	sort.SliceStable(groups, func(i, j int) bool {
		return groups[i].TotalValue.GreaterThan(groups[j].TotalValue)
	})
	return groups
}

// CapitalizeNetwork upper-cases the first letter of a network name
func CapitalizeNetwork(network string) string {
	r, size := utf8.DecodeRuneInString(network)
	if r == utf8.RuneError {
		return network
	}
	return string(unicode.ToUpper(r)) + network[size:]
}
