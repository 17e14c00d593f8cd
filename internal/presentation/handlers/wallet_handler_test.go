package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"go.uber.org/zap"

	"github.com/bimakw/ratemybags/internal/application/services"
	"github.com/bimakw/ratemybags/internal/domain/entities"
	"github.com/bimakw/ratemybags/internal/infrastructure/ethereum"
	"github.com/bimakw/ratemybags/internal/testutil"
)

func TestWalletHandler_Connect(t *testing.T) {
	t.Run("connects and fetches the portfolio", func(t *testing.T) {
		env := newTestEnv()
		wallet := testutil.NewMockWalletProvider(testutil.AliceAddress)
		svc := services.NewWalletService(wallet, nil, 8453, env.portfolioService, zap.NewNop())
		router := newRouter(NewWalletHandler(svc, zap.NewNop()))

		rec := doRequest(t, router, http.MethodPost, "/wallets/connect", nil)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
		}
		var response services.ConnectResponse
		if err := json.NewDecoder(rec.Body).Decode(&response); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		if response.Data.Address != testutil.AliceAddress || response.Data.ChainID != 8453 {
			t.Errorf("unexpected response %+v", response.Data)
		}
	})

	tests := []struct {
		name       string
		wallet     services.WalletProvider
		wantStatus int
	}{
		{"no provider", nil, http.StatusServiceUnavailable},
		{"unsupported chain", &testutil.MockWalletProvider{
			EnsureChainFunc: func(ctx context.Context, chainID int64, chains ethereum.ChainLookup) error {
				return entities.ErrUnsupportedChain
			},
		}, http.StatusBadRequest},
		{"switch refused", &testutil.MockWalletProvider{
			EnsureChainFunc: func(ctx context.Context, chainID int64, chains ethereum.ChainLookup) error {
				return errors.New("user rejected")
			},
		}, http.StatusServiceUnavailable},
		{"accounts refused", &testutil.MockWalletProvider{
			RequestAccountsFunc: func(ctx context.Context) ([]string, error) {
				return nil, entities.NewConnectivityError("user rejected the request", nil)
			},
		}, http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv()
			svc := services.NewWalletService(tt.wallet, nil, 1, env.portfolioService, zap.NewNop())
			router := newRouter(NewWalletHandler(svc, zap.NewNop()))

			rec := doRequest(t, router, http.MethodPost, "/wallets/connect", nil)

			if rec.Code != tt.wantStatus {
				t.Errorf("expected status %d, got %d: %s", tt.wantStatus, rec.Code, rec.Body.String())
			}
		})
	}
}
