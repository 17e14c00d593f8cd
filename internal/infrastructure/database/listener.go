package database

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/bimakw/ratemybags/internal/domain/entities"
)

// Publisher receives decoded change events
type Publisher interface {
	Publish(ctx context.Context, topic string, event entities.ChangeEvent) error
}

// ChangeListener relays PostgreSQL notifications to a Publisher
type ChangeListener struct {
	listener *pq.Listener
	channel  string
	logger   *zap.Logger
}

// NewChangeListener opens a dedicated LISTEN connection
func NewChangeListener(dsn string, logger *zap.Logger) (*ChangeListener, error) {
	report := func(ev pq.ListenerEventType, err error) {
		if err != nil {
			logger.Warn("Change listener connection event",
				zap.Int("event", int(ev)),
				zap.Error(err),
			)
		}
	}

	l := pq.NewListener(dsn, time.Second, time.Minute, report)
	if err := l.Listen(NotifyChannel); err != nil {
		l.Close()
		return nil, fmt.Errorf("failed to listen on %s: %w", NotifyChannel, err)
	}

	logger.Info("Listening for portfolio changes", zap.String("channel", NotifyChannel))

	return &ChangeListener{
		listener: l,
		channel:  NotifyChannel,
		logger:   logger,
	}, nil
}

// Run forwards notifications until ctx is cancelled
func (c *ChangeListener) Run(ctx context.Context, pub Publisher) {
	ticker := time.NewTicker(90 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case n := <-c.listener.Notify:
			// nil after a reconnect
			if n == nil {
				continue
			}
			event, err := DecodeChangeEvent([]byte(n.Extra))
			if err != nil {
				c.logger.Warn("Dropping malformed notification", zap.Error(err))
				continue
			}
			if err := pub.Publish(ctx, event.Topic(), *event); err != nil {
				c.logger.Warn("Failed to publish change", zap.String("topic", event.Topic()), zap.Error(err))
			}
		case <-ticker.C:
			if err := c.listener.Ping(); err != nil {
				c.logger.Warn("Change listener ping failed", zap.Error(err))
			}
		}
	}
}

// Close stops listening
func (c *ChangeListener) Close() error {
	return c.listener.Close()
}

// DecodeChangeEvent parses a notification payload
func DecodeChangeEvent(payload []byte) (*entities.ChangeEvent, error) {
	var event entities.ChangeEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		return nil, fmt.Errorf("failed to decode change payload: %w", err)
	}
	if event.Table == "" || event.PortfolioID == "" {
		return nil, fmt.Errorf("change payload missing table or portfolio id")
	}
	return &event, nil
}
