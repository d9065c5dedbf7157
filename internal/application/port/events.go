package port

import "github.com/bnema/omni/internal/domain/entity"

// EventPublisher broadcasts state changes. Delivery is fire-and-forget:
// Publish never blocks and never fails, even without listeners.
type EventPublisher interface {
	Publish(eventType entity.EventType)
}

// NopPublisher discards every event.
type NopPublisher struct{}

// Publish implements EventPublisher.
func (NopPublisher) Publish(entity.EventType) {}
