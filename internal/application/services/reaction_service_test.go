package services

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/bimakw/ratemybags/internal/domain/entities"
	"github.com/bimakw/ratemybags/internal/testutil"
)

func setupReactionServiceTest() (*ReactionService, *testutil.MockReactionRepository) {
	portfolioRepo := testutil.NewMockPortfolioRepository()
	portfolioRepo.AddPortfolio(testutil.CreateTestPortfolio())
	reactionRepo := testutil.NewMockReactionRepository()

	return NewReactionService(portfolioRepo, reactionRepo, zap.NewNop()), reactionRepo
}

func TestReactionService_Submit(t *testing.T) {
	ctx := context.Background()

	for _, r := range entities.AllReactions() {
		t.Run(r.Emoji(), func(t *testing.T) {
			service, _ := setupReactionServiceTest()

			result, err := service.Submit(ctx, testutil.PortfolioID, ReactionInput{Emoji: r.Emoji()})
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if result.Data.Emoji != r.Emoji() {
				t.Errorf("expected %s, got %s", r.Emoji(), result.Data.Emoji)
			}
		})
	}
}

func TestReactionService_Submit_UnknownEmoji(t *testing.T) {
	service, reactionRepo := setupReactionServiceTest()

	_, err := service.Submit(context.Background(), testutil.PortfolioID, ReactionInput{Emoji: "🚀"})
	if !errors.Is(err, entities.ErrUnknownReaction) {
		t.Errorf("expected ErrUnknownReaction, got %v", err)
	}
	if len(reactionRepo.Calls) != 0 {
		t.Error("expected no insert for an unknown emoji")
	}
}

func TestReactionService_List(t *testing.T) {
	service, reactionRepo := setupReactionServiceTest()
	reactionRepo.AddReactions(
		testutil.CreateTestReaction(testutil.ReactionWithEmoji("🔥")),
		testutil.CreateTestReaction(testutil.ReactionWithEmoji("🔥")),
		testutil.CreateTestReaction(testutil.ReactionWithEmoji("🤡")),
		testutil.CreateTestReaction(testutil.ReactionWithEmoji("💎"), testutil.ReactionWithPortfolio(testutil.OtherPortfolioID)),
	)

	result, err := service.List(context.Background(), testutil.PortfolioID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Total != 3 {
		t.Errorf("expected 3 reactions, got %d", result.Total)
	}
	if result.Counts.Get(entities.ReactionFire) != 2 {
		t.Errorf("expected 2 fire, got %d", result.Counts.Get(entities.ReactionFire))
	}
	if result.Counts.Get(entities.ReactionDiamond) != 0 {
		t.Errorf("expected 0 diamond, got %d", result.Counts.Get(entities.ReactionDiamond))
	}
}
