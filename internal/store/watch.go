// ABOUTME: In-memory fan-out change feed so the presentation layer re-renders without polling.
// ABOUTME: Publishes a room id on every append and busy-flag change; slow watchers drop.

package store

import (
	"context"
	"log/slog"
	"sync"

	"github.com/google/uuid"
)

// watcherBufferSize is the channel buffer for each subscriber.
const watcherBufferSize = 64

// Update signals that a room's log or busy flag changed.
type Update struct {
	RoomID string
}

// Watcher provides in-memory pub/sub for store updates. Subscribers receive
// every update; there is no per-room filtering because the presentation
// layer renders the whole room list anyway.
type Watcher struct {
	mu          sync.RWMutex
	subscribers map[string]chan Update
	logger      *slog.Logger
}

func newWatcher(logger *slog.Logger) *Watcher {
	return &Watcher{
		subscribers: make(map[string]chan Update),
		logger:      logger.With("component", "watcher"),
	}
}

// Subscribe registers a watcher and returns its channel plus a subscription
// id for later removal. The subscription is cleaned up automatically when
// ctx is cancelled.
func (w *Watcher) Subscribe(ctx context.Context) (<-chan Update, string) {
	subID := uuid.New().String()
	ch := make(chan Update, watcherBufferSize)

	w.mu.Lock()
	w.subscribers[subID] = ch
	w.mu.Unlock()

	go func() {
		<-ctx.Done()
		w.Unsubscribe(subID)
	}()

	return ch, subID
}

// Unsubscribe removes a subscription and closes its channel.
func (w *Watcher) Unsubscribe(subID string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	ch, ok := w.subscribers[subID]
	if !ok {
		return
	}
	delete(w.subscribers, subID)
	close(ch)
}

// publish sends an update to every subscriber. Non-blocking: updates are
// dropped for subscribers whose channels are full.
func (w *Watcher) publish(u Update) {
	w.mu.RLock()
	targets := make([]chan Update, 0, len(w.subscribers))
	for _, ch := range w.subscribers {
		targets = append(targets, ch)
	}
	w.mu.RUnlock()

	for _, ch := range targets {
		select {
		case ch <- u:
		default:
			w.logger.Debug("dropped update for slow watcher", "room_id", u.RoomID)
		}
	}
}

// Close shuts down the watcher and closes all subscriber channels.
func (w *Watcher) Close() {
	w.mu.Lock()
	defer w.mu.Unlock()

	for id, ch := range w.subscribers {
		close(ch)
		delete(w.subscribers, id)
	}
}
