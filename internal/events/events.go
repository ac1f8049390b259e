package events

import (
	"errors"
	"sync"
	"time"

	"bookingagg/internal/models"
)

// Booking intake event types.
const (
	BookingAccepted = "booking.accepted"
	BookingRejected = "booking.rejected"
)

// Event describes one intake outcome.
type Event struct {
	Type      string
	Source    string
	Line      string
	Booking   models.Booking
	Err       error
	CreatedAt time.Time
}

// EventHandler reacts to an event.
type EventHandler func(event Event) error

// EventBus provides in-process pub/sub for events.
type EventBus struct {
	subscribers map[string][]EventHandler
	mu          sync.RWMutex
}

// NewEventBus constructs an empty bus.
func NewEventBus() *EventBus {
	return &EventBus{subscribers: make(map[string][]EventHandler)}
}

// Subscribe registers a handler for a given event type.
func (b *EventBus) Subscribe(eventType string, handler EventHandler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subscribers[eventType] = append(b.subscribers[eventType], handler)
}

// Publish runs every subscriber of the event type in registration order.
// All handlers run even if one fails; their errors are joined.
// A nil bus drops the event.
func (b *EventBus) Publish(event Event) error {
	if b == nil {
		return nil
	}

	b.mu.RLock()
	handlers := append([]EventHandler(nil), b.subscribers[event.Type]...)
	b.mu.RUnlock()

	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now()
	}

	var errs []error
	for _, handler := range handlers {
		if err := handler(event); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
