package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/bimakw/ratemybags/internal/application/services"
)

// ReactionHandler handles HTTP requests for portfolio reactions
type ReactionHandler struct {
	service *services.ReactionService
	logger  *zap.Logger
}

// NewReactionHandler creates a new reaction handler
func NewReactionHandler(service *services.ReactionService, logger *zap.Logger) *ReactionHandler {
	return &ReactionHandler{
		service: service,
		logger:  logger,
	}
}

// RegisterRoutes registers the reaction routes
func (h *ReactionHandler) RegisterRoutes(r chi.Router) {
	r.Get("/portfolios/{id}/reactions", h.ListReactions)
	r.Post("/portfolios/{id}/reactions", h.SubmitReaction)
}

// SubmitReaction handles POST /api/v1/portfolios/{id}/reactions
func (h *ReactionHandler) SubmitReaction(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if !isValidPortfolioID(id) {
		respondError(w, http.StatusBadRequest, "Invalid portfolio id")
		return
	}

	var in services.ReactionInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if in.ReactorAddress != "" && !isValidAddress(in.ReactorAddress) {
		respondError(w, http.StatusBadRequest, "Invalid reactor address format")
		return
	}

	response, err := h.service.Submit(r.Context(), id, in)
	if err != nil {
		status, msg := errorStatus(err, "Failed to submit reaction")
		if status >= http.StatusInternalServerError {
			h.logger.Error("Failed to submit reaction", zap.Error(err), zap.String("portfolio_id", id))
		}
		respondError(w, status, msg)
		return
	}

	respondJSON(w, http.StatusCreated, response)
}

// ListReactions handles GET /api/v1/portfolios/{id}/reactions
func (h *ReactionHandler) ListReactions(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if !isValidPortfolioID(id) {
		respondError(w, http.StatusBadRequest, "Invalid portfolio id")
		return
	}

	response, err := h.service.List(r.Context(), id)
	if err != nil {
		status, msg := errorStatus(err, "Failed to get reactions")
		if status >= http.StatusInternalServerError {
			h.logger.Error("Failed to get reactions", zap.Error(err), zap.String("portfolio_id", id))
		}
		respondError(w, status, msg)
		return
	}

	respondJSON(w, http.StatusOK, response)
}
