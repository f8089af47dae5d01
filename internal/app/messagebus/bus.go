package messagebus

import (
	"github.com/burenotti/go_academy_backend/internal/domain"
	"log/slog"
	"sync"
)

type EventHandler func(event domain.Event) error

// MessageBus fans events out to their handlers in background goroutines.
// Handlers must be registered before the first PublishEvents call.
type MessageBus struct {
	logger   *slog.Logger
	handlers map[string][]EventHandler
	wg       sync.WaitGroup
}

func New(logger *slog.Logger) *MessageBus {
	return &MessageBus{
		logger:   logger,
		handlers: make(map[string][]EventHandler),
	}
}

func (b *MessageBus) Register(eventType string, handler EventHandler) {
	b.handlers[eventType] = append(b.handlers[eventType], handler)
}

// RegisterMany binds one handler to several event types.
func (b *MessageBus) RegisterMany(handler EventHandler, eventTypes ...string) {
	for _, t := range eventTypes {
		b.Register(t, handler)
	}
}

func (b *MessageBus) PublishEvents(events ...domain.Event) error {
	for _, event := range events {
		for _, handler := range b.handlers[event.Type()] {
			b.wg.Add(1)
			go func() {
				defer b.wg.Done()
				if err := handler(event); err != nil {
					b.logger.Error("failed to handle event", "type", event.Type(), "error", err)
				}
			}()
		}
	}
	return nil
}

// Close waits for the handlers still running.
func (b *MessageBus) Close() {
	b.wg.Wait()
}
