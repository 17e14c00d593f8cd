package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/bimakw/ratemybags/internal/domain/entities"
	"github.com/bimakw/ratemybags/internal/infrastructure/metrics"
	"github.com/bimakw/ratemybags/internal/infrastructure/realtime"
)

const (
	writeWait    = 10 * time.Second
	pongWait     = 60 * time.Second
	pingPeriod   = (pongWait * 9) / 10
	clientBuffer = 32
)

// ChangeSubscriber hands out subscriptions to portfolio change topics
type ChangeSubscriber interface {
	Subscribe(topic string, fn realtime.Handler[entities.ChangeEvent]) *realtime.Subscription
}

// PortfolioLookup resolves a portfolio id
type PortfolioLookup interface {
	GetPortfolio(ctx context.Context, portfolioID string) (*entities.Portfolio, error)
}

// RealtimeHandler streams portfolio changes over WebSocket
type RealtimeHandler struct {
	hub        ChangeSubscriber
	portfolios PortfolioLookup
	upgrader   websocket.Upgrader
	logger     *zap.Logger
}

// NewRealtimeHandler creates a new realtime handler
func NewRealtimeHandler(hub ChangeSubscriber, portfolios PortfolioLookup, logger *zap.Logger) *RealtimeHandler {
	return &RealtimeHandler{
		hub:        hub,
		portfolios: portfolios,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		logger: logger,
	}
}

// RegisterRoutes registers the realtime route
func (h *RealtimeHandler) RegisterRoutes(r chi.Router) {
	r.Get("/portfolios/{id}/events", h.Events)
}

// Events handles GET /api/v1/portfolios/{id}/events
func (h *RealtimeHandler) Events(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if !isValidPortfolioID(id) {
		respondError(w, http.StatusBadRequest, "Invalid portfolio id")
		return
	}

	if _, err := h.portfolios.GetPortfolio(r.Context(), id); err != nil {
		status, msg := errorStatus(err, "Failed to get portfolio")
		respondError(w, status, msg)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Debug("WebSocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	metrics.RealtimeClients.Inc()
	defer metrics.RealtimeClients.Dec()

	// Handlers run on the hub's dispatch goroutine and must not block
	events := make(chan entities.ChangeEvent, clientBuffer)
	var subs []*realtime.Subscription
	for _, topic := range entities.PortfolioTopics(id) {
		subs = append(subs, h.hub.Subscribe(topic, func(ev entities.ChangeEvent) {
			select {
			case events <- ev:
			default:
				h.logger.Warn("Realtime client too slow, dropping event",
					zap.String("portfolio_id", id),
					zap.String("table", ev.Table),
				)
			}
		}))
	}
	defer func() {
		for _, s := range subs {
			s.Unsubscribe()
		}
	}()

	h.logger.Debug("Realtime client connected", zap.String("portfolio_id", id))

	done := make(chan struct{})
	go readPump(conn, done)

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case ev := <-events:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteJSON(ev); err != nil {
				return
			}
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// readPump drains client frames so pongs and close frames are processed
func readPump(conn *websocket.Conn, done chan<- struct{}) {
	defer close(done)

	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := conn.NextReader(); err != nil {
			return
		}
	}
}
