package ethereum

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/bimakw/ratemybags/internal/infrastructure/realtime"
)

const chainTopic = "chain"

// ChainSource reports the current chain of a wallet
type ChainSource interface {
	ChainID(ctx context.Context) (int64, error)
}

// ChainWatcher polls a wallet and notifies subscribers when its network changes
type ChainWatcher struct {
	source   ChainSource
	interval time.Duration
	hub      *realtime.Hub[int64]
	logger   *zap.Logger
}

// NewChainWatcher creates a watcher polling every interval
func NewChainWatcher(source ChainSource, interval time.Duration, logger *zap.Logger) *ChainWatcher {
	if interval <= 0 {
		interval = 4 * time.Second
	}
	return &ChainWatcher{
		source:   source,
		interval: interval,
		hub:      realtime.NewHub[int64](8, logger),
		logger:   logger,
	}
}

// Subscribe registers fn for chain changes
func (w *ChainWatcher) Subscribe(fn func(chainID int64)) *realtime.Subscription {
	return w.hub.Subscribe(chainTopic, fn)
}

// Run polls until ctx is cancelled
func (w *ChainWatcher) Run(ctx context.Context) {
	go w.hub.Run(ctx)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	var last int64
	for {
		id, err := w.source.ChainID(ctx)
		if err != nil {
			w.logger.Debug("Chain poll failed", zap.Error(err))
		} else if id != last {
			if last != 0 {
				w.logger.Info("network_changed", zap.Int64("from", last), zap.Int64("to", id))
				if err := w.hub.Publish(ctx, chainTopic, id); err != nil {
					return
				}
			}
			last = id
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}
