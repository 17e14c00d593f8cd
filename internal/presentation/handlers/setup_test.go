package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/bimakw/ratemybags/internal/application/services"
	"github.com/bimakw/ratemybags/internal/testutil"
)

const frameImageURL = "https://ratemybags.test/api/og"

type testEnv struct {
	portfolios *testutil.MockPortfolioRepository
	ratings    *testutil.MockRatingRepository
	reactions  *testutil.MockReactionRepository
	mints      *testutil.MockMintRepository
	balances   *testutil.MockBalanceFetcher
	minter     *testutil.MockMinter

	portfolioService *services.PortfolioService
	ratingService    *services.RatingService
	reactionService  *services.ReactionService
	mintService      *services.MintService
	frameService     *services.FrameService
}

func newTestEnv() *testEnv {
	env := &testEnv{
		portfolios: testutil.NewMockPortfolioRepository(),
		ratings:    testutil.NewMockRatingRepository(),
		reactions:  testutil.NewMockReactionRepository(),
		mints:      testutil.NewMockMintRepository(),
		balances:   testutil.NewMockBalanceFetcher(),
		minter:     testutil.NewMockMinter(),
	}
	logger := zap.NewNop()
	env.portfolioService = services.NewPortfolioService(env.portfolios, env.ratings, env.reactions, env.mints, env.balances, nil, time.Minute, logger)
	env.ratingService = services.NewRatingService(env.portfolios, env.ratings, logger)
	env.reactionService = services.NewReactionService(env.portfolios, env.reactions, logger)
	env.mintService = services.NewMintService(env.portfolioService, env.mints, env.minter, logger)
	env.frameService = services.NewFrameService(env.portfolios, env.ratingService, env.reactionService, frameImageURL, logger)
	return env
}

// seedPortfolio stores Alice's portfolio under testutil.PortfolioID
func (e *testEnv) seedPortfolio() {
	e.portfolios.AddPortfolio(testutil.CreateTestPortfolio())
}

type routeRegistrar interface {
	RegisterRoutes(r chi.Router)
}

func newRouter(handlers ...routeRegistrar) *chi.Mux {
	r := chi.NewRouter()
	for _, h := range handlers {
		h.RegisterRoutes(r)
	}
	return r
}

func doRequest(t *testing.T, h http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	switch b := body.(type) {
	case nil:
	case string:
		buf.WriteString(b)
	default:
		if err := json.NewEncoder(&buf).Encode(b); err != nil {
			t.Fatalf("failed to encode body: %v", err)
		}
	}

	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()

	var body map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode error body: %v", err)
	}
	return body["error"]
}
