package handlers

import (
	"bytes"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/bimakw/ratemybags/internal/infrastructure/render"
)

// OGHandler serves the social preview image
type OGHandler struct {
	renderer *render.Renderer
	logger   *zap.Logger
}

// NewOGHandler creates a new preview image handler
func NewOGHandler(renderer *render.Renderer, logger *zap.Logger) *OGHandler {
	return &OGHandler{
		renderer: renderer,
		logger:   logger,
	}
}

// RegisterRoutes registers the preview image route
func (h *OGHandler) RegisterRoutes(r chi.Router) {
	r.Get("/og", h.GetImage)
}

// GetImage handles GET /api/og?address=&rating=&reactions=
func (h *OGHandler) GetImage(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	card := render.Card{
		Address:   q.Get("address"),
		Rating:    q.Get("rating"),
		Reactions: q.Get("reactions"),
	}

	var buf bytes.Buffer
	if err := h.renderer.WritePNG(&buf, card); err != nil {
		h.logger.Error("Failed to generate image", zap.Error(err))
		http.Error(w, "Failed to generate image", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.Header().Set("Cache-Control", "public, max-age=300")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}
