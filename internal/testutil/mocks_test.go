package testutil

import (
	"context"
	"errors"
	"testing"

	"github.com/bimakw/ratemybags/internal/domain/entities"
)

func TestMockPortfolioRepository_GetOrCreate(t *testing.T) {
	repo := NewMockPortfolioRepository()
	ctx := context.Background()

	first, err := repo.GetOrCreate(ctx, AliceAddress)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := repo.GetOrCreate(ctx, AliceAddress)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if first.ID != second.ID {
		t.Errorf("expected same portfolio, got %s and %s", first.ID, second.ID)
	}

	other, _ := repo.GetOrCreate(ctx, BobAddress)
	if other.ID == first.ID {
		t.Error("expected distinct ids per wallet")
	}

	byID, err := repo.GetByID(ctx, first.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if byID == nil || byID.WalletAddress != AliceAddress {
		t.Errorf("expected Alice's portfolio, got %+v", byID)
	}

	// Test call tracking
	if len(repo.Calls) != 4 {
		t.Errorf("expected 4 calls, got %d", len(repo.Calls))
	}
}

func TestMockRatingRepository_ListByPortfolio(t *testing.T) {
	repo := NewMockRatingRepository()
	ctx := context.Background()

	repo.AddRatings(
		CreateTestRating(RatingWithValue(3)),
		CreateTestRating(RatingWithValue(9), RatingWithPortfolio(OtherPortfolioID)),
	)
	if err := repo.Add(ctx, &entities.Rating{PortfolioID: PortfolioID, Rating: 5}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	ratings, err := repo.ListByPortfolio(ctx, PortfolioID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(ratings) != 2 {
		t.Fatalf("expected 2 ratings, got %d", len(ratings))
	}
	if ratings[1].Rating != 5 {
		t.Errorf("expected insertion order, got %v", ratings)
	}
}

func TestMockMintRepository_Reservation(t *testing.T) {
	repo := NewMockMintRepository()
	ctx := context.Background()

	mint, err := repo.Reserve(ctx, PortfolioID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := repo.Reserve(ctx, PortfolioID); !errors.Is(err, entities.ErrAlreadyMinted) {
		t.Errorf("expected ErrAlreadyMinted, got %v", err)
	}

	mint.Status = entities.MintStatusMinted
	mint.TokenID = "1"
	if err := repo.Update(ctx, mint); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Completed mints survive a release
	_ = repo.Release(ctx, mint.ID)
	got, _ := repo.GetByPortfolio(ctx, PortfolioID)
	if !got.Minted() || got.TokenID != "1" {
		t.Errorf("unexpected mint %+v", got)
	}
}

func TestMockMintRepository_ReleasePending(t *testing.T) {
	repo := NewMockMintRepository()
	ctx := context.Background()

	mint, _ := repo.Reserve(ctx, PortfolioID)
	if err := repo.Release(ctx, mint.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got, _ := repo.GetByPortfolio(ctx, PortfolioID); got != nil {
		t.Errorf("expected released reservation, got %+v", got)
	}
	if _, err := repo.Reserve(ctx, PortfolioID); err != nil {
		t.Errorf("expected portfolio to be reservable again, got %v", err)
	}
}

func TestMockBalanceFetcher_DefaultsToEmpty(t *testing.T) {
	fetcher := NewMockBalanceFetcher()
	ctx := context.Background()

	b := fetcher.GetWalletBalances(ctx, AliceAddress)
	if len(b.Tokens) != 0 || b.Account.Address != AliceAddress {
		t.Errorf("expected empty balances, got %+v", b)
	}

	fetcher.SetBalances(AliceAddress, CreateTestWalletBalances(AliceAddress, 3))
	b = fetcher.GetWalletBalances(ctx, AliceAddress)
	if len(b.Tokens) != 3 {
		t.Errorf("expected 3 tokens, got %d", len(b.Tokens))
	}
	if fetcher.CallCount() != 2 {
		t.Errorf("expected 2 calls, got %d", fetcher.CallCount())
	}
}

func TestCreateTestWalletBalances(t *testing.T) {
	b := CreateTestWalletBalances(AliceAddress, 3)
	if b.Tokens[0].Token != "TKN1" {
		t.Errorf("unexpected first token %+v", b.Tokens[0])
	}
	if b.Tokens[0].Value.IntPart() != 300 || b.Tokens[2].Value.IntPart() != 100 {
		t.Errorf("expected descending values, got %v and %v", b.Tokens[0].Value, b.Tokens[2].Value)
	}
}

func TestPointerTo(t *testing.T) {
	intVal := 42
	ptr := PointerTo(intVal)
	if *ptr != 42 {
		t.Errorf("expected 42, got %d", *ptr)
	}

	strVal := "hello"
	strPtr := PointerTo(strVal)
	if *strPtr != "hello" {
		t.Errorf("expected hello, got %s", *strPtr)
	}
}
