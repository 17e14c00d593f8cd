package entities

import (
	"encoding/json"
	"fmt"
)

// Reaction is one of the fixed reaction kinds a portfolio can receive
type Reaction int

const (
	ReactionPoop Reaction = iota
	ReactionFire
	ReactionDiamond
	ReactionThumbsUp
	ReactionClown

	// NumReactions is the size of the closed reaction set
	NumReactions = 5
)

var reactionEmoji = [NumReactions]string{"💩", "🔥", "💎", "👍", "🤡"}

// AllReactions returns every reaction in display order
func AllReactions() []Reaction {
	out := make([]Reaction, NumReactions)
	for i := range out {
		out[i] = Reaction(i)
	}
	return out
}

// ParseReaction maps an emoji to its reaction
func ParseReaction(emoji string) (Reaction, error) {
	for i, e := range reactionEmoji {
		if e == emoji {
			return Reaction(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownReaction, emoji)
}

// Valid reports whether r belongs to the reaction set
func (r Reaction) Valid() bool {
	return r >= 0 && int(r) < NumReactions
}

// Emoji returns the symbol of the reaction
func (r Reaction) Emoji() string {
	if !r.Valid() {
		return ""
	}
	return reactionEmoji[r]
}

func (r Reaction) String() string {
	return r.Emoji()
}

// MarshalText encodes the reaction as its emoji
func (r Reaction) MarshalText() ([]byte, error) {
	if !r.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownReaction, int(r))
	}
	return []byte(r.Emoji()), nil
}

// UnmarshalText decodes an emoji into a reaction
func (r *Reaction) UnmarshalText(text []byte) error {
	parsed, err := ParseReaction(string(text))
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

// ReactionCount pairs a reaction with its counter
type ReactionCount struct {
	Emoji string `json:"emoji"`
	Count int    `json:"count"`
}

// ReactionCounts holds one counter per reaction, indexed by Reaction
type ReactionCounts [NumReactions]int

// Add increments the counter of r by one
func (c *ReactionCounts) Add(r Reaction) {
	if !r.Valid() {
		return
	}
	c[r]++
}

// Get returns the counter of r
func (c ReactionCounts) Get(r Reaction) int {
	if !r.Valid() {
		return 0
	}
	return c[r]
}

// Total sums every counter
func (c ReactionCounts) Total() int {
	total := 0
	for _, n := range c {
		total += n
	}
	return total
}

// Entries lists the counters in display order
func (c ReactionCounts) Entries() []ReactionCount {
	out := make([]ReactionCount, NumReactions)
	for i, n := range c {
		out[i] = ReactionCount{Emoji: reactionEmoji[i], Count: n}
	}
	return out
}

func (c ReactionCounts) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.Entries())
}

func (c *ReactionCounts) UnmarshalJSON(data []byte) error {
	var entries []ReactionCount
	if err := json.Unmarshal(data, &entries); err != nil {
		return err
	}
	var counts ReactionCounts
	for _, e := range entries {
		r, err := ParseReaction(e.Emoji)
		if err != nil {
			return err
		}
		counts[r] = e.Count
	}
	*c = counts
	return nil
}

// CountReactions tallies persisted reaction rows, skipping unknown symbols
func CountReactions(records []ReactionRecord) ReactionCounts {
	var counts ReactionCounts
	for _, rec := range records {
		if r, err := ParseReaction(rec.Emoji); err == nil {
			counts.Add(r)
		}
	}
	return counts
}
