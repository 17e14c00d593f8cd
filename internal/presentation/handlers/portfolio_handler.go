package handlers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/bimakw/ratemybags/internal/application/services"
)

// PortfolioHandler serves the wallet-scoped read endpoints
type PortfolioHandler struct {
	service *services.PortfolioService
	logger  *zap.Logger
}

func NewPortfolioHandler(service *services.PortfolioService, logger *zap.Logger) *PortfolioHandler {
	return &PortfolioHandler{service: service, logger: logger}
}

func (h *PortfolioHandler) RegisterRoutes(r chi.Router) {
	r.Get("/wallets/{address}/portfolio", h.GetPortfolio)
	r.Get("/wallets/{address}/networks", h.GetNetworks)
}

// walletParam reads the {address} path parameter in its canonical
// lowercase form. It writes a 400 and reports false when the address is
// malformed.
func walletParam(w http.ResponseWriter, r *http.Request) (string, bool) {
	address := chi.URLParam(r, "address")
	if !isValidAddress(address) {
		respondError(w, http.StatusBadRequest, "Invalid wallet address format")
		return "", false
	}
	return strings.ToLower(address), true
}

// GetPortfolio returns the account overview, top holdings and social
// summary, creating the portfolio row on first view.
func (h *PortfolioHandler) GetPortfolio(w http.ResponseWriter, r *http.Request) {
	address, ok := walletParam(w, r)
	if !ok {
		return
	}

	view, err := h.service.GetPortfolioView(r.Context(), address)
	if err != nil {
		h.logger.Error("Portfolio view failed", zap.String("address", address), zap.Error(err))
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, view)
}

// GetNetworks returns balances grouped by network
func (h *PortfolioHandler) GetNetworks(w http.ResponseWriter, r *http.Request) {
	if address, ok := walletParam(w, r); ok {
		respondJSON(w, http.StatusOK, h.service.GetNetworkBalances(r.Context(), address))
	}
}
