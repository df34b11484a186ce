package audit

import (
	"context"
	"time"

	id "shopfront/pkg/domain"
)

// Event is emitted from domain logic to capture key storefront actions.
// Keep it transport-agnostic so stores and sinks can fan out.
type Event struct {
	Timestamp time.Time    `json:"timestamp"`
	UserID    id.UserID    `json:"user_id,omitempty"`
	Namespace id.Namespace `json:"namespace,omitempty"`
	Channel   id.ChannelID `json:"channel,omitempty"`
	Action    Action       `json:"action"`
	Detail    string       `json:"detail,omitempty"`
}

// Action names an auditable storefront event.
type Action string

const (
	// Catalog events
	ActionItemUpserted Action = "item_upserted"
	ActionItemDeleted  Action = "item_deleted"
	ActionItemRenamed  Action = "item_renamed"

	// Ticket events
	ActionTicketOpened Action = "ticket_opened"
	ActionTicketClosed Action = "ticket_closed"

	// Order events
	ActionOrderConfirmed Action = "order_confirmed"
	ActionOrderRejected  Action = "order_rejected"
)

// Store persists audit events.
type Store interface {
	Append(ctx context.Context, event Event) error
	ListByUser(ctx context.Context, userID id.UserID) ([]Event, error)
}

// Publisher is the seam services emit through. Implementations must not
// block domain operations on sink latency.
type Publisher interface {
	Emit(ctx context.Context, event Event) error
}
