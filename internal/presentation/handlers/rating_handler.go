package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/bimakw/ratemybags/internal/application/services"
)

// RatingHandler handles HTTP requests for portfolio ratings
type RatingHandler struct {
	service *services.RatingService
	logger  *zap.Logger
}

// NewRatingHandler creates a new rating handler
func NewRatingHandler(service *services.RatingService, logger *zap.Logger) *RatingHandler {
	return &RatingHandler{
		service: service,
		logger:  logger,
	}
}

// RegisterRoutes registers the rating routes
func (h *RatingHandler) RegisterRoutes(r chi.Router) {
	r.Get("/portfolios/{id}/ratings", h.ListRatings)
	r.Post("/portfolios/{id}/ratings", h.SubmitRating)
}

// SubmitRating handles POST /api/v1/portfolios/{id}/ratings
func (h *RatingHandler) SubmitRating(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if !isValidPortfolioID(id) {
		respondError(w, http.StatusBadRequest, "Invalid portfolio id")
		return
	}

	var in services.RatingInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if in.RaterAddress != "" && !isValidAddress(in.RaterAddress) {
		respondError(w, http.StatusBadRequest, "Invalid rater address format")
		return
	}

	response, err := h.service.Submit(r.Context(), id, in)
	if err != nil {
		status, msg := errorStatus(err, "Failed to submit rating")
		if status >= http.StatusInternalServerError {
			h.logger.Error("Failed to submit rating", zap.Error(err), zap.String("portfolio_id", id))
		}
		respondError(w, status, msg)
		return
	}

	respondJSON(w, http.StatusCreated, response)
}

// ListRatings handles GET /api/v1/portfolios/{id}/ratings
func (h *RatingHandler) ListRatings(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if !isValidPortfolioID(id) {
		respondError(w, http.StatusBadRequest, "Invalid portfolio id")
		return
	}

	response, err := h.service.List(r.Context(), id)
	if err != nil {
		status, msg := errorStatus(err, "Failed to get ratings")
		if status >= http.StatusInternalServerError {
			h.logger.Error("Failed to get ratings", zap.Error(err), zap.String("portfolio_id", id))
		}
		respondError(w, status, msg)
		return
	}

	respondJSON(w, http.StatusOK, response)
}
