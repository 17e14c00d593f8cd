package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/bimakw/ratemybags/internal/domain/entities"
	"github.com/bimakw/ratemybags/internal/infrastructure/realtime"
	"github.com/bimakw/ratemybags/internal/testutil"
)

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatal("condition not met before deadline")
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestRealtimeHandler_Events(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	env := newTestEnv()
	env.seedPortfolio()
	hub := realtime.NewHub[entities.ChangeEvent](16, zap.NewNop())
	go hub.Run(ctx)

	srv := httptest.NewServer(newRouter(NewRealtimeHandler(hub, env.portfolioService, zap.NewNop())))
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/portfolios/" + testutil.PortfolioID + "/events"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial failed: %v", err)
	}

	topic := entities.TopicFor(entities.TableRatings, testutil.PortfolioID)
	waitFor(t, func() bool { return hub.Subscribers(topic) == 1 })

	event := entities.ChangeEvent{
		Table:       entities.TableRatings,
		Operation:   "INSERT",
		PortfolioID: testutil.PortfolioID,
		Record:      json.RawMessage(`{"rating":9}`),
	}
	if err := hub.Publish(ctx, event.Topic(), event); err != nil {
		t.Fatalf("publish failed: %v", err)
	}
	// Another portfolio's events must not reach this client
	other := event
	other.PortfolioID = testutil.OtherPortfolioID
	if err := hub.Publish(ctx, other.Topic(), other); err != nil {
		t.Fatalf("publish failed: %v", err)
	}

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var got entities.ChangeEvent
	if err := conn.ReadJSON(&got); err != nil {
		t.Fatalf("read failed: %v", err)
	}
	if got.Table != entities.TableRatings || got.PortfolioID != testutil.PortfolioID {
		t.Errorf("unexpected event %+v", got)
	}

	conn.Close()
	waitFor(t, func() bool { return hub.Subscribers(topic) == 0 })
}

func TestRealtimeHandler_Events_Rejects(t *testing.T) {
	env := newTestEnv()
	hub := realtime.NewHub[entities.ChangeEvent](1, zap.NewNop())
	router := newRouter(NewRealtimeHandler(hub, env.portfolioService, zap.NewNop()))

	rec := doRequest(t, router, http.MethodGet, "/portfolios/abc/events", nil)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected status 400, got %d", rec.Code)
	}

	rec = doRequest(t, router, http.MethodGet, "/portfolios/"+testutil.PortfolioID+"/events", nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected status 404, got %d", rec.Code)
	}
}
