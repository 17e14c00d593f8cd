package services

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/bimakw/ratemybags/internal/domain/entities"
	"github.com/bimakw/ratemybags/internal/testutil"
)

func setupRatingServiceTest() (*RatingService, *testutil.MockPortfolioRepository, *testutil.MockRatingRepository) {
	portfolioRepo := testutil.NewMockPortfolioRepository()
	portfolioRepo.AddPortfolio(testutil.CreateTestPortfolio())
	ratingRepo := testutil.NewMockRatingRepository()

	service := NewRatingService(portfolioRepo, ratingRepo, zap.NewNop())
	return service, portfolioRepo, ratingRepo
}

func TestRatingService_Submit(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		rating  int
		wantErr error
	}{
		{name: "lower bound", rating: 1},
		{name: "upper bound", rating: 10},
		{name: "below range", rating: 0, wantErr: entities.ErrInvalidRating},
		{name: "above range", rating: 11, wantErr: entities.ErrInvalidRating},
		{name: "negative", rating: -3, wantErr: entities.ErrInvalidRating},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service, _, ratingRepo := setupRatingServiceTest()

			result, err := service.Submit(ctx, testutil.PortfolioID, RatingInput{
				Rating:       tt.rating,
				RaterAddress: "0xABCDEF1234567890ABCDEF1234567890ABCDEF12",
			})

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("expected %v, got %v", tt.wantErr, err)
				}
				if len(ratingRepo.Calls) != 0 {
					t.Error("expected no insert for an invalid rating")
				}
				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if result.Data.Rating != tt.rating {
				t.Errorf("expected rating %d, got %d", tt.rating, result.Data.Rating)
			}
			if result.Data.ID == "" {
				t.Error("expected stored rating to have an id")
			}
			if result.Data.RaterAddress != "0xabcdef1234567890abcdef1234567890abcdef12" {
				t.Errorf("expected lowercase rater, got %s", result.Data.RaterAddress)
			}
		})
	}
}

func TestRatingService_Submit_UnknownPortfolio(t *testing.T) {
	service, _, _ := setupRatingServiceTest()

	_, err := service.Submit(context.Background(), testutil.OtherPortfolioID, RatingInput{Rating: 5})
	if !errors.Is(err, entities.ErrPortfolioNotFound) {
		t.Errorf("expected ErrPortfolioNotFound, got %v", err)
	}
}

func TestRatingService_Submit_RepositoryError(t *testing.T) {
	service, _, ratingRepo := setupRatingServiceTest()
	ratingRepo.AddFunc = func(ctx context.Context, rating *entities.Rating) error {
		return errors.New("insert failed")
	}

	_, err := service.Submit(context.Background(), testutil.PortfolioID, RatingInput{Rating: 5})
	if !errors.Is(err, entities.ErrPersistence) {
		t.Errorf("expected persistence error, got %v", err)
	}
}

func TestRatingService_List(t *testing.T) {
	service, _, ratingRepo := setupRatingServiceTest()
	ratingRepo.AddRatings(
		testutil.CreateTestRating(testutil.RatingWithValue(4)),
		testutil.CreateTestRating(testutil.RatingWithValue(7)),
		testutil.CreateTestRating(testutil.RatingWithValue(10)),
	)

	result, err := service.List(context.Background(), testutil.PortfolioID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Count != 3 {
		t.Errorf("expected 3 ratings, got %d", result.Count)
	}
	if result.AverageRating != "7.0" {
		t.Errorf("expected average 7.0, got %s", result.AverageRating)
	}
}
