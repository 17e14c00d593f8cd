package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/bimakw/ratemybags/internal/application/services"
)

// MintHandler handles snapshot metadata and minting
type MintHandler struct {
	service *services.MintService
	logger  *zap.Logger
}

// NewMintHandler creates a new mint handler
func NewMintHandler(service *services.MintService, logger *zap.Logger) *MintHandler {
	return &MintHandler{
		service: service,
		logger:  logger,
	}
}

// RegisterRoutes registers the mint routes
func (h *MintHandler) RegisterRoutes(r chi.Router) {
	r.Get("/portfolios/{id}/metadata", h.GetMetadata)
	r.Post("/portfolios/{id}/mint", h.Mint)
}

// GetMetadata handles GET /api/v1/portfolios/{id}/metadata
func (h *MintHandler) GetMetadata(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if !isValidPortfolioID(id) {
		respondError(w, http.StatusBadRequest, "Invalid portfolio id")
		return
	}

	response, err := h.service.TokenURI(r.Context(), id)
	if err != nil {
		status, msg := errorStatus(err, "Failed to build metadata")
		if status >= http.StatusInternalServerError {
			h.logger.Error("Failed to build metadata", zap.Error(err), zap.String("portfolio_id", id))
		}
		respondError(w, status, msg)
		return
	}

	respondJSON(w, http.StatusOK, response)
}

// Mint handles POST /api/v1/portfolios/{id}/mint. A failed transaction is
// still a 200 with success=false.
func (h *MintHandler) Mint(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if !isValidPortfolioID(id) {
		respondError(w, http.StatusBadRequest, "Invalid portfolio id")
		return
	}

	result, err := h.service.Mint(r.Context(), id)
	if err != nil {
		status, msg := errorStatus(err, "Failed to mint portfolio")
		if status >= http.StatusInternalServerError {
			h.logger.Error("Failed to mint portfolio", zap.Error(err), zap.String("portfolio_id", id))
		}
		respondError(w, status, msg)
		return
	}

	respondJSON(w, http.StatusOK, result)
}
