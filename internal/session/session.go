// Package session owns the per-user shopping state: selected namespace,
// cart lines, and the bound ticket channel. State is process-owned and
// best-effort; it is reconstructible from user action and not required to
// survive a restart.
package session

import (
	"context"

	id "shopfront/pkg/domain"
)

// Line is one selected (item, category) pair. Quantity is represented by
// repetition, not a count field; the cart engine groups repeats for
// display and settlement.
type Line struct {
	Name     string `json:"name"`
	Category string `json:"category"`
}

// Session is the shopping state of one user.
type Session struct {
	UserID    id.UserID    `json:"user_id"`
	Namespace id.Namespace `json:"namespace,omitempty"`
	Cart      []Line       `json:"cart,omitempty"`
	TicketRef id.ChannelID `json:"ticket_ref,omitempty"`
}

// Table is the process-wide mapping from user identity to session.
//
// Invariants implementations must uphold:
//   - operations repeated with identical arguments are no-ops
//     (binding the same ticket twice, clearing an empty cart)
//   - no operation leaves a session with a non-empty cart but no
//     namespace
//   - SetNamespace resets the cart only when the namespace actually
//     changes
type Table interface {
	// GetOrCreate returns the user's session, creating an empty one on
	// first access.
	GetOrCreate(ctx context.Context, userID id.UserID) (Session, error)

	// SetNamespace selects the active catalog. Switching namespaces
	// drops the cart; re-selecting the current one preserves it.
	SetNamespace(ctx context.Context, userID id.UserID, ns id.Namespace) error

	// AppendLine adds a cart line without quantity coalescing. Fails if
	// the session has no namespace selected.
	AppendLine(ctx context.Context, userID id.UserID, line Line) error

	// ClearCart empties the cart, preserving namespace and ticket.
	ClearCart(ctx context.Context, userID id.UserID) error

	// BindTicket records the user's open shopping ticket.
	BindTicket(ctx context.Context, userID id.UserID, ref id.ChannelID) error

	// UnbindTicket drops the ticket binding if present.
	UnbindTicket(ctx context.Context, userID id.UserID) error

	// FindByTicket returns the session bound to the given ticket, or
	// sentinel.ErrNotFound if no user is bound to it.
	FindByTicket(ctx context.Context, ref id.ChannelID) (Session, error)
}
