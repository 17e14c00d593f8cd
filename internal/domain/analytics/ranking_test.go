package analytics

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bimakw/ratemybags/internal/domain/entities"
)

func balance(token string, value float64, network string) entities.TokenBalance {
	return entities.TokenBalance{
		Token:   token,
		Amount:  decimal.NewFromInt(1),
		Value:   decimal.NewFromFloat(value),
		Network: network,
	}
}

func tokensOf(holdings []RankedHolding) []string {
	out := make([]string, len(holdings))
	for i, h := range holdings {
		out[i] = h.Token
	}
	return out
}

func TestRank_SortsDescending(t *testing.T) {
	tokens := []entities.TokenBalance{
		balance("A", 10, "ethereum"),
		balance("B", 30, "ethereum"),
		balance("C", 20, "ethereum"),
	}

	ranked := Rank(tokens)

	require.Len(t, ranked, 3)
	assert.Equal(t, "B", ranked[0].Token)
	assert.Equal(t, "C", ranked[1].Token)
	assert.Equal(t, "A", ranked[2].Token)
	assert.Equal(t, "A", tokens[0].Token, "input must not be reordered")
}

func TestRank_StableOnTies(t *testing.T) {
	tokens := []entities.TokenBalance{
		balance("first", 5, "base"),
		balance("big", 50, "base"),
		balance("second", 5, "base"),
		balance("third", 5, "base"),
	}

	ranked := Rank(tokens)

	assert.Equal(t, []string{"big", "first", "second", "third"}, []string{
		ranked[0].Token, ranked[1].Token, ranked[2].Token, ranked[3].Token,
	})
}

func TestTopHoldings_PercentagesSumToHundred(t *testing.T) {
	tokens := make([]entities.TokenBalance, 0, 14)
	for i := 1; i <= 14; i++ {
		tokens = append(tokens, balance(string(rune('A'+i)), float64(i)*3.7, "ethereum"))
	}

	top := TopHoldings(tokens, DisplayLimit)

	require.Len(t, top, DisplayLimit)
	sum := decimal.Zero
	for _, h := range top {
		sum = sum.Add(h.Percentage)
	}
	assert.True(t, sum.Sub(decimal.NewFromInt(100)).Abs().LessThan(decimal.NewFromFloat(0.1)),
		"expected percentages to sum to ~100, got %s", sum)
}

func TestTopHoldings_ZeroTotal(t *testing.T) {
	tokens := []entities.TokenBalance{
		balance("A", 0, "ethereum"),
		balance("B", 0, "polygon"),
	}

	top := TopHoldings(tokens, DisplayLimit)

	require.Len(t, top, 2)
	for _, h := range top {
		assert.True(t, h.Percentage.IsZero(), "expected 0%% for %s, got %s", h.Token, h.Percentage)
	}
}

func TestTopHoldings_Empty(t *testing.T) {
	top := TopHoldings(nil, DisplayLimit)
	assert.Empty(t, top)
}

func TestTopHoldings_CapitalizesNetwork(t *testing.T) {
	top := TopHoldings([]entities.TokenBalance{balance("ETH", 1, "arbitrum")}, DisplayLimit)

	require.Len(t, top, 1)
	assert.Equal(t, "Arbitrum", top[0].NetworkName)
	assert.Equal(t, "arbitrum", top[0].Network)
}

func TestTopHoldings_Order(t *testing.T) {
	tokens := []entities.TokenBalance{
		balance("A", 10, "base"),
		balance("B", 30, "base"),
		balance("C", 20, "base"),
	}

	assert.Equal(t, []string{"B", "C", "A"}, tokensOf(TopHoldings(tokens, DisplayLimit)))
}

func TestAllocation(t *testing.T) {
	assert.True(t, Allocation(decimal.NewFromInt(25), decimal.NewFromInt(100)).Equal(decimal.NewFromInt(25)))
	assert.True(t, Allocation(decimal.NewFromInt(5), decimal.Zero).IsZero())
}

func TestGroupByNetwork(t *testing.T) {
	tokens := []entities.TokenBalance{
		balance("USDC", 10, "ethereum"),
		balance("DEGEN", 200, "base"),
		balance("ETH", 40, "ethereum"),
		balance("MATIC", 5, "polygon"),
	}

	groups := GroupByNetwork(tokens)

	require.Len(t, groups, 3)
	assert.Equal(t, "Base", groups[0].ChainName)
	assert.Equal(t, "Ethereum", groups[1].ChainName)
	assert.Equal(t, "Polygon", groups[2].ChainName)

	for _, g := range groups {
		assert.True(t, g.TotalValue.Equal(TotalValue(g.Balances)), "total mismatch for %s", g.ChainName)
	}
	assert.Equal(t, "USDC", groups[1].Balances[0].Token)
	assert.Equal(t, "ETH", groups[1].Balances[1].Token)
}

func TestCapitalizeNetwork(t *testing.T) {
	assert.Equal(t, "Ethereum", CapitalizeNetwork("ethereum"))
	assert.Equal(t, "", CapitalizeNetwork(""))
	assert.Equal(t, "Op mainnet", CapitalizeNetwork("op mainnet"))
}
