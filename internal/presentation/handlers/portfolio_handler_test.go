package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/bimakw/ratemybags/internal/application/services"
	"github.com/bimakw/ratemybags/internal/domain/entities"
	"github.com/bimakw/ratemybags/internal/testutil"
)

func TestPortfolioHandler_GetPortfolio(t *testing.T) {
	t.Run("returns the portfolio view", func(t *testing.T) {
		env := newTestEnv()
		env.balances.SetBalances(testutil.AliceAddress, testutil.CreateTestWalletBalances(testutil.AliceAddress, 2))
		router := newRouter(NewPortfolioHandler(env.portfolioService, zap.NewNop()))

		rec := doRequest(t, router, http.MethodGet, "/wallets/"+testutil.AliceAddress+"/portfolio", nil)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
		}
		var response services.PortfolioViewResponse
		if err := json.NewDecoder(rec.Body).Decode(&response); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		if response.Data.Portfolio == nil || response.Data.Portfolio.WalletAddress != testutil.AliceAddress {
			t.Errorf("unexpected portfolio %+v", response.Data.Portfolio)
		}
		if len(response.Data.Holdings) != 2 {
			t.Errorf("expected 2 holdings, got %d", len(response.Data.Holdings))
		}
	})

	t.Run("lowercases the address", func(t *testing.T) {
		env := newTestEnv()
		router := newRouter(NewPortfolioHandler(env.portfolioService, zap.NewNop()))
		mixed := "0xABCDEFabcdef0123456789012345678901234567"

		rec := doRequest(t, router, http.MethodGet, "/wallets/"+mixed+"/portfolio", nil)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected status 200, got %d", rec.Code)
		}
		if p, _ := env.portfolios.GetByWallet(context.Background(), strings.ToLower(mixed)); p == nil {
			t.Error("expected portfolio stored under the lowercase address")
		}
	})

	t.Run("rejects a malformed address", func(t *testing.T) {
		env := newTestEnv()
		router := newRouter(NewPortfolioHandler(env.portfolioService, zap.NewNop()))

		for _, addr := range []string{"0x123", "1111111111111111111111111111111111111111ab", "0xZZ11111111111111111111111111111111111111"} {
			rec := doRequest(t, router, http.MethodGet, "/wallets/"+addr+"/portfolio", nil)
			if rec.Code != http.StatusBadRequest {
				t.Errorf("%s: expected status 400, got %d", addr, rec.Code)
			}
		}
	})

	t.Run("persistence failure is a 500", func(t *testing.T) {
		env := newTestEnv()
		env.portfolios.GetOrCreateFunc = func(ctx context.Context, walletAddress string) (*entities.Portfolio, error) {
			return nil, errors.New("connection refused")
		}
		router := newRouter(NewPortfolioHandler(env.portfolioService, zap.NewNop()))

		rec := doRequest(t, router, http.MethodGet, "/wallets/"+testutil.AliceAddress+"/portfolio", nil)

		if rec.Code != http.StatusInternalServerError {
			t.Fatalf("expected status 500, got %d", rec.Code)
		}
		if msg := decodeError(t, rec); !strings.Contains(msg, "connection refused") {
			t.Errorf("expected underlying error in message, got %q", msg)
		}
	})
}

func TestPortfolioHandler_GetNetworks(t *testing.T) {
	env := newTestEnv()
	env.balances.SetBalances(testutil.AliceAddress, &entities.WalletBalances{
		Account: entities.AccountInfo{Address: testutil.AliceAddress},
		Tokens: []entities.TokenBalance{
			testutil.CreateTestTokenBalance(testutil.BalanceWithToken("ETH"), testutil.BalanceWithNetwork("ethereum")),
			testutil.CreateTestTokenBalance(testutil.BalanceWithToken("USDC"), testutil.BalanceWithNetwork("base")),
		},
	})
	router := newRouter(NewPortfolioHandler(env.portfolioService, zap.NewNop()))

	rec := doRequest(t, router, http.MethodGet, "/wallets/"+testutil.AliceAddress+"/networks", nil)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	var response services.NetworkBalancesResponse
	if err := json.NewDecoder(rec.Body).Decode(&response); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(response.Data) != 2 {
		t.Errorf("expected 2 networks, got %d", len(response.Data))
	}

	rec = doRequest(t, router, http.MethodGet, "/wallets/nope/networks", nil)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected status 400, got %d", rec.Code)
	}
}
