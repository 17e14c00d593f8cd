package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/bimakw/ratemybags/internal/application/services"
)

// WalletHandler handles the wallet connect flow
type WalletHandler struct {
	service *services.WalletService
	logger  *zap.Logger
}

// NewWalletHandler creates a new wallet handler
func NewWalletHandler(service *services.WalletService, logger *zap.Logger) *WalletHandler {
	return &WalletHandler{
		service: service,
		logger:  logger,
	}
}

// RegisterRoutes registers the wallet routes
func (h *WalletHandler) RegisterRoutes(r chi.Router) {
	r.Post("/wallets/connect", h.Connect)
}

// Connect handles POST /api/v1/wallets/connect
func (h *WalletHandler) Connect(w http.ResponseWriter, r *http.Request) {
	response, err := h.service.Connect(r.Context())
	if err != nil {
		h.logger.Warn("Wallet connect failed", zap.Error(err))
		status, msg := errorStatus(err, "Failed to connect wallet")
		respondError(w, status, msg)
		return
	}

	respondJSON(w, http.StatusOK, response)
}
