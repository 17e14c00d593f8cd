package entities

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestReactionCounts_Add(t *testing.T) {
	var counts ReactionCounts
	for i := 0; i < 3; i++ {
		counts.Add(ReactionFire)
	}

	if counts.Get(ReactionFire) != 3 {
		t.Errorf("expected 3 fire reactions, got %d", counts.Get(ReactionFire))
	}
	for _, r := range AllReactions() {
		if r != ReactionFire && counts.Get(r) != 0 {
			t.Errorf("expected 0 for %s, got %d", r, counts.Get(r))
		}
	}
	if counts.Total() != 3 {
		t.Errorf("expected total 3, got %d", counts.Total())
	}
}

func TestReactionCounts_AddIgnoresInvalid(t *testing.T) {
	var counts ReactionCounts
	counts.Add(Reaction(42))
	counts.Add(Reaction(-1))

	if counts.Total() != 0 {
		t.Errorf("expected total 0, got %d", counts.Total())
	}
}

func TestParseReaction(t *testing.T) {
	tests := []struct {
		emoji   string
		want    Reaction
		wantErr bool
	}{
		{"💩", ReactionPoop, false},
		{"🔥", ReactionFire, false},
		{"💎", ReactionDiamond, false},
		{"👍", ReactionThumbsUp, false},
		{"🤡", ReactionClown, false},
		{"🚀", 0, true},
		{"", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.emoji, func(t *testing.T) {
			got, err := ParseReaction(tt.emoji)
			if tt.wantErr {
				if !errors.Is(err, ErrUnknownReaction) {
					t.Errorf("expected ErrUnknownReaction, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestReactionCounts_JSON(t *testing.T) {
	var counts ReactionCounts
	counts.Add(ReactionDiamond)
	counts.Add(ReactionDiamond)
	counts.Add(ReactionClown)

	data, err := json.Marshal(counts)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	expected := `[{"emoji":"💩","count":0},{"emoji":"🔥","count":0},{"emoji":"💎","count":2},{"emoji":"👍","count":0},{"emoji":"🤡","count":1}]`
	if string(data) != expected {
		t.Errorf("expected %s, got %s", expected, data)
	}

	var decoded ReactionCounts
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if decoded != counts {
		t.Errorf("expected %v, got %v", counts, decoded)
	}
}

func TestCountReactions(t *testing.T) {
	records := []ReactionRecord{
		{Emoji: "🔥"},
		{Emoji: "🔥"},
		{Emoji: "👍"},
		{Emoji: "unknown"},
	}

	counts := CountReactions(records)
	if counts.Get(ReactionFire) != 2 {
		t.Errorf("expected 2 fire, got %d", counts.Get(ReactionFire))
	}
	if counts.Get(ReactionThumbsUp) != 1 {
		t.Errorf("expected 1 thumbs up, got %d", counts.Get(ReactionThumbsUp))
	}
	if counts.Total() != 3 {
		t.Errorf("expected total 3, got %d", counts.Total())
	}
}

func TestValidRating(t *testing.T) {
	for _, v := range []int{1, 5, 10} {
		if !ValidRating(v) {
			t.Errorf("expected %d to be valid", v)
		}
	}
	for _, v := range []int{0, 11, -3} {
		if ValidRating(v) {
			t.Errorf("expected %d to be invalid", v)
		}
	}
}
