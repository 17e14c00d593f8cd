package handlers

import (
	"encoding/json"
	"net/http"
	"testing"

	"go.uber.org/zap"

	"github.com/bimakw/ratemybags/internal/application/services"
	"github.com/bimakw/ratemybags/internal/testutil"
)

func TestRatingHandler_SubmitRating(t *testing.T) {
	path := "/portfolios/" + testutil.PortfolioID + "/ratings"

	tests := []struct {
		name       string
		seed       bool
		body       interface{}
		wantStatus int
	}{
		{"valid rating", true, map[string]interface{}{"rating": 8, "rater_address": testutil.BobAddress}, http.StatusCreated},
		{"anonymous rating", true, map[string]interface{}{"rating": 1}, http.StatusCreated},
		{"rating too high", true, map[string]interface{}{"rating": 11}, http.StatusBadRequest},
		{"rating zero", true, map[string]interface{}{"rating": 0}, http.StatusBadRequest},
		{"bad rater address", true, map[string]interface{}{"rating": 5, "rater_address": "0x12"}, http.StatusBadRequest},
		{"malformed body", true, "{not json", http.StatusBadRequest},
		{"unknown portfolio", false, map[string]interface{}{"rating": 5}, http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv()
			if tt.seed {
				env.seedPortfolio()
			}
			router := newRouter(NewRatingHandler(env.ratingService, zap.NewNop()))

			rec := doRequest(t, router, http.MethodPost, path, tt.body)

			if rec.Code != tt.wantStatus {
				t.Errorf("expected status %d, got %d: %s", tt.wantStatus, rec.Code, rec.Body.String())
			}
		})
	}
}

func TestRatingHandler_SubmitRating_Stores(t *testing.T) {
	env := newTestEnv()
	env.seedPortfolio()
	router := newRouter(NewRatingHandler(env.ratingService, zap.NewNop()))

	rec := doRequest(t, router, http.MethodPost, "/portfolios/"+testutil.PortfolioID+"/ratings",
		map[string]interface{}{"rating": 7, "rater_address": "0x2222222222222222222222222222222222222222"})
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d", rec.Code)
	}

	var response services.RatingResponse
	if err := json.NewDecoder(rec.Body).Decode(&response); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if response.Data.Rating != 7 {
		t.Errorf("expected rating 7, got %d", response.Data.Rating)
	}
	if response.Data.PortfolioID != testutil.PortfolioID {
		t.Errorf("expected portfolio %s, got %s", testutil.PortfolioID, response.Data.PortfolioID)
	}
}

func TestRatingHandler_ListRatings(t *testing.T) {
	t.Run("returns ratings with average", func(t *testing.T) {
		env := newTestEnv()
		env.seedPortfolio()
		env.ratings.AddRatings(
			testutil.CreateTestRating(testutil.RatingWithValue(4)),
			testutil.CreateTestRating(testutil.RatingWithValue(9)),
		)
		router := newRouter(NewRatingHandler(env.ratingService, zap.NewNop()))

		rec := doRequest(t, router, http.MethodGet, "/portfolios/"+testutil.PortfolioID+"/ratings", nil)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected status 200, got %d", rec.Code)
		}
		var response services.RatingListResponse
		if err := json.NewDecoder(rec.Body).Decode(&response); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		if response.Count != 2 {
			t.Errorf("expected 2 ratings, got %d", response.Count)
		}
		if response.AverageRating != "6.5" {
			t.Errorf("expected average 6.5, got %s", response.AverageRating)
		}
	})

	t.Run("rejects a malformed id", func(t *testing.T) {
		env := newTestEnv()
		router := newRouter(NewRatingHandler(env.ratingService, zap.NewNop()))

		rec := doRequest(t, router, http.MethodGet, "/portfolios/not-a-uuid/ratings", nil)

		if rec.Code != http.StatusBadRequest {
			t.Errorf("expected status 400, got %d", rec.Code)
		}
	})
}
