package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/bimakw/ratemybags/internal/application/services"
)

// FrameHandler responds to Farcaster frame button presses
type FrameHandler struct {
	service *services.FrameService
	logger  *zap.Logger
}

// NewFrameHandler creates a new frame handler
func NewFrameHandler(service *services.FrameService, logger *zap.Logger) *FrameHandler {
	return &FrameHandler{
		service: service,
		logger:  logger,
	}
}

// FrameRequest is the body posted by a frame client
type FrameRequest struct {
	UntrustedData struct {
		ButtonIndex int         `json:"buttonIndex"`
		FID         json.Number `json:"fid"`
	} `json:"untrustedData"`
	TrustedData struct {
		MessageBytes string `json:"messageBytes"`
	} `json:"trustedData"`
}

// RegisterRoutes registers the frame route. Every method is routed here so
// that non-POST requests get the JSON 405 body.
func (h *FrameHandler) RegisterRoutes(r chi.Router) {
	r.HandleFunc("/frames", h.HandleFrame)
}

// HandleFrame handles POST /api/frames
func (h *FrameHandler) HandleFrame(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		respondError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	var req FrameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid frame request")
		return
	}

	fid, err := req.UntrustedData.FID.Int64()
	if err != nil || fid == 0 || req.TrustedData.MessageBytes == "" {
		respondError(w, http.StatusBadRequest, "Invalid frame request")
		return
	}

	response, err := h.service.HandleAction(r.Context(), req.UntrustedData.ButtonIndex, fid, req.TrustedData.MessageBytes)
	if err != nil {
		if errors.Is(err, services.ErrInvalidFrameAction) {
			respondError(w, http.StatusBadRequest, "Invalid action")
			return
		}
		h.logger.Error("Frame error",
			zap.Error(err),
			zap.Int("button", req.UntrustedData.ButtonIndex),
			zap.Int64("fid", fid),
		)
		respondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	respondJSON(w, http.StatusOK, response)
}
