package analytics

import (
	"github.com/shopspring/decimal"

	"github.com/bimakw/ratemybags/internal/domain/entities"
)

// ChartSlices is the number of individually drawn holdings
const ChartSlices = 5

// OthersLabel names the bucket for every holding past ChartSlices
const OthersLabel = "Others"

// OthersColor is the fill of the Others bucket
const OthersColor = "#6B7280"

// ChartColors are assigned by slot position
var ChartColors = [ChartSlices]string{"#3B82F6", "#8B5CF6", "#EC4899", "#10B981", "#F59E0B"}

// ChartSlice is one segment of the allocation chart
type ChartSlice struct {
	Label      string          `json:"label"`
	Value      decimal.Decimal `json:"value"`
	Percentage decimal.Decimal `json:"percentage"`
	Color      string          `json:"color"`
}

// ChartSeries builds the allocation chart: the five largest holdings and,
// when more exist, one Others slice holding the rest. Shares are relative
// to the value of all holdings.
func ChartSeries(tokens []entities.TokenBalance) []ChartSlice {
	ranked := Rank(tokens)
	total := TotalValue(ranked)

	n := len(ranked)
	if n > ChartSlices {
		n = ChartSlices
	}

	series := make([]ChartSlice, 0, n+1)
	for i := 0; i < n; i++ {
		series = append(series, ChartSlice{
			Label:      ranked[i].Token,
			Value:      ranked[i].Value,
			Percentage: Allocation(ranked[i].Value, total).Round(2),
			Color:      ChartColors[i],
		})
	}

	if len(ranked) > ChartSlices {
		others := TotalValue(ranked[ChartSlices:])
		series = append(series, ChartSlice{
			Label:      OthersLabel,
			Value:      others,
			Percentage: Allocation(others, total).Round(2),
			Color:      OthersColor,
		})
	}

	return series
}
