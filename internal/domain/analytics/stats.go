package analytics

import (
	"github.com/shopspring/decimal"

	"github.com/bimakw/ratemybags/internal/domain/entities"
)

// AverageRating formats the mean rating with one decimal, "0.0" when empty.
// Halves round away from zero, so 7.25 is "7.3".
func AverageRating(ratings []int) string {
	if len(ratings) == 0 {
		return "0.0"
	}
	sum := 0
	for _, r := range ratings {
		sum += r
	}
	return decimal.NewFromInt(int64(sum)).
		Div(decimal.NewFromInt(int64(len(ratings)))).
		StringFixed(1)
}

// TotalReactions sums every reaction counter
func TotalReactions(counts entities.ReactionCounts) int {
	return counts.Total()
}

// Summary aggregates the community feedback of a portfolio
type Summary struct {
	AverageRating  string                  `json:"average_rating"`
	RatingCount    int                     `json:"rating_count"`
	Reactions      entities.ReactionCounts `json:"reactions"`
	TotalReactions int                     `json:"total_reactions"`
}

// Summarize builds the feedback summary from persisted rows
func Summarize(ratings []entities.Rating, reactions []entities.ReactionRecord) Summary {
	counts := entities.CountReactions(reactions)
	return Summary{
		AverageRating:  AverageRating(entities.RatingValues(ratings)),
		RatingCount:    len(ratings),
		Reactions:      counts,
		TotalReactions: TotalReactions(counts),
	}
}
