package messaging

import (
	"context"
	"sync"

	"github.com/AtRiskMedia/tractstack-featured/internal/infrastructure/observability/logging"
)

// LocalBroadcaster fans settings events out to in-process handlers. It is the
// publisher used when no AMQP broker is configured, and the dispatch target
// of the AMQP subscriber when one is.
type LocalBroadcaster struct {
	handlers map[int]Handler
	nextID   int
	mu       sync.RWMutex
	logger   *logging.ChanneledLogger
}

func NewLocalBroadcaster(logger *logging.ChanneledLogger) *LocalBroadcaster {
	return &LocalBroadcaster{
		handlers: make(map[int]Handler),
		logger:   logger,
	}
}

// Subscribe registers h and returns a function that removes it
func (b *LocalBroadcaster) Subscribe(h Handler) func() {
	b.mu.Lock()
	id := b.nextID
	b.nextID++
	b.handlers[id] = h
	b.mu.Unlock()

	return func() {
		b.mu.Lock()
		delete(b.handlers, id)
		b.mu.Unlock()
	}
}

// Publish delivers the event to every handler. Handler errors are logged and
// do not stop delivery to the rest.
func (b *LocalBroadcaster) Publish(ctx context.Context, event SettingsEvent) error {
	b.mu.RLock()
	handlers := make([]Handler, 0, len(b.handlers))
	for _, h := range b.handlers {
		handlers = append(handlers, h)
	}
	b.mu.RUnlock()

	for _, h := range handlers {
		b.dispatch(ctx, h, event)
	}
	return nil
}

func (b *LocalBroadcaster) dispatch(ctx context.Context, h Handler, event SettingsEvent) {
	defer func() {
		if r := recover(); r != nil && b.logger != nil {
			b.logger.Messaging().Error("Panic recovered in settings event handler", "error", r, "eventId", event.ID)
		}
	}()

	if err := h(ctx, event); err != nil && b.logger != nil {
		b.logger.Messaging().Error("Settings event handler failed", "error", err, "eventId", event.ID, "type", event.Type)
	}
}

func (b *LocalBroadcaster) Close() error {
	b.mu.Lock()
	b.handlers = make(map[int]Handler)
	b.mu.Unlock()
	return nil
}
