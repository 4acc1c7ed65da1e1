// Package events announces changes to the books to other systems.
package events

import (
	"context"
	"log/slog"
	"time"
)

// Event types.
const (
	TransactionAdded   = "transaction.added"
	TransactionDeleted = "transaction.deleted"
	SheetAdded         = "sheet.added"
	SheetDeleted       = "sheet.deleted"
	MemberAdded        = "member.added"
	UserRegistered     = "user.registered"
)

// Event is one domain change. Payload is encoded as JSON.
type Event struct {
	Type       string    `json:"type"`
	Tenant     string    `json:"tenant"`
	EntityID   string    `json:"entityId"`
	OccurredAt time.Time `json:"occurredAt"`
	Payload    any       `json:"payload,omitempty"`
}

// New builds an event stamped with the current time.
func New(eventType, tenant, entityID string, payload any) Event {
	return Event{
		Type:       eventType,
		Tenant:     tenant,
		EntityID:   entityID,
		OccurredAt: time.Now().UTC(),
		Payload:    payload,
	}
}

// Publisher delivers events.
type Publisher interface {
	Publish(ctx context.Context, e Event) error
	Close() error
}

// Nop discards every event.
type Nop struct{}

func (Nop) Publish(context.Context, Event) error { return nil }
func (Nop) Close() error                         { return nil }

// Notify publishes e and logs a failure instead of returning it.
func Notify(ctx context.Context, p Publisher, e Event) {
	if err := p.Publish(ctx, e); err != nil {
		slog.WarnContext(ctx, "Failed to publish event",
			"type", e.Type,
			"tenant", e.Tenant,
			"entity_id", e.EntityID,
			"error", err,
		)
	}
}
