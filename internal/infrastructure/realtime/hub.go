// Package realtime fans out change notifications to topic subscribers.
package realtime

import (
	"context"
	"sync"

	"go.uber.org/zap"
)

// Handler receives events for a topic
type Handler[T any] func(event T)

type envelope[T any] struct {
	topic string
	event T
}

// Hub delivers published events to subscribers. Every handler runs on a
// single dispatch goroutine, so events arrive in publish order and never
// concurrently.
type Hub[T any] struct {
	mu     sync.RWMutex
	subs   map[string]map[uint64]Handler[T]
	nextID uint64

	queue  chan envelope[T]
	done   chan struct{}
	once   sync.Once
	logger *zap.Logger
}

// NewHub creates a hub with the given queue capacity
func NewHub[T any](buffer int, logger *zap.Logger) *Hub[T] {
	return &Hub[T]{
		subs:   make(map[string]map[uint64]Handler[T]),
		queue:  make(chan envelope[T], buffer),
		done:   make(chan struct{}),
		logger: logger,
	}
}

// Run dispatches events until ctx is cancelled
func (h *Hub[T]) Run(ctx context.Context) {
	defer h.once.Do(func() { close(h.done) })

	for {
		select {
		case <-ctx.Done():
			return
		case env := <-h.queue:
			h.dispatch(env)
		}
	}
}

func (h *Hub[T]) dispatch(env envelope[T]) {
	h.mu.RLock()
	handlers := make([]Handler[T], 0, len(h.subs[env.topic]))
	for _, fn := range h.subs[env.topic] {
		handlers = append(handlers, fn)
	}
	h.mu.RUnlock()

	for _, fn := range handlers {
		h.safeCall(env.topic, fn, env.event)
	}
}

func (h *Hub[T]) safeCall(topic string, fn Handler[T], event T) {
	defer func() {
		if r := recover(); r != nil {
			h.logger.Error("Subscriber panicked",
				zap.String("topic", topic),
				zap.Any("panic", r),
			)
		}
	}()
	fn(event)
}

// Publish queues an event for a topic. It blocks while the queue is full
// and returns ctx.Err() if ctx ends first.
func (h *Hub[T]) Publish(ctx context.Context, topic string, event T) error {
	select {
	case h.queue <- envelope[T]{topic: topic, event: event}:
		return nil
	case <-h.done:
		return ErrHubClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Subscribe registers fn for a topic until the returned handle is cancelled
func (h *Hub[T]) Subscribe(topic string, fn Handler[T]) *Subscription {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.nextID++
	id := h.nextID
	if h.subs[topic] == nil {
		h.subs[topic] = make(map[uint64]Handler[T])
	}
	h.subs[topic][id] = fn

	return &Subscription{
		topic: topic,
		cancel: func() {
			h.mu.Lock()
			defer h.mu.Unlock()
			delete(h.subs[topic], id)
			if len(h.subs[topic]) == 0 {
				delete(h.subs, topic)
			}
		},
	}
}

// Subscribers returns the number of handlers registered for a topic
func (h *Hub[T]) Subscribers(topic string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs[topic])
}

// Subscription is a handle to a registered handler
type Subscription struct {
	topic  string
	once   sync.Once
	cancel func()
}

// Topic returns the subscribed topic
func (s *Subscription) Topic() string {
	return s.topic
}

// Unsubscribe removes the handler. Safe to call more than once.
func (s *Subscription) Unsubscribe() {
	s.once.Do(s.cancel)
}
