// Package ticket owns the private-channel lifecycle: opening shopping
// tickets under the one-open-ticket-per-user invariant, opening
// independent order tickets, and closing with transcript-before-delete
// semantics.
package ticket

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"shopfront/internal/platform/audit"
	"shopfront/internal/platform/metrics"
	"shopfront/internal/session"
	id "shopfront/pkg/domain"
	dErrors "shopfront/pkg/domain-errors"
	"shopfront/pkg/platform/sentinel"
)

// defaultFileThreshold matches the inline-message limit of the platform:
// transcripts longer than this go to the sink as an attached file.
const defaultFileThreshold = 1900

type Lifecycle struct {
	table   session.Table
	gateway ChannelGateway
	sink    LogSink

	fileThreshold int
	logger        *slog.Logger
	audit         audit.Publisher
	metrics       *metrics.Metrics

	// receipts remembers the rendered receipt posted into each order
	// ticket so closing the ticket can attach it next to the transcript.
	// owners records who each ticket was created for; shopping tickets
	// are additionally bound in the session table.
	mu       sync.Mutex
	receipts map[id.ChannelID]string
	owners   map[id.ChannelID]id.UserID
}

type Option func(*Lifecycle)

func WithLogger(logger *slog.Logger) Option {
	return func(l *Lifecycle) { l.logger = logger }
}

func WithAuditPublisher(publisher audit.Publisher) Option {
	return func(l *Lifecycle) { l.audit = publisher }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(l *Lifecycle) { l.metrics = m }
}

// WithFileThreshold overrides the transcript length above which delivery
// switches from inline text to a file attachment.
func WithFileThreshold(n int) Option {
	return func(l *Lifecycle) {
		if n > 0 {
			l.fileThreshold = n
		}
	}
}

func New(table session.Table, gateway ChannelGateway, sink LogSink, opts ...Option) (*Lifecycle, error) {
	if table == nil {
		return nil, fmt.Errorf("session table is required")
	}
	if gateway == nil {
		return nil, fmt.Errorf("channel gateway is required")
	}
	if sink == nil {
		return nil, fmt.Errorf("log sink is required")
	}

	l := &Lifecycle{
		table:         table,
		gateway:       gateway,
		sink:          sink,
		fileThreshold: defaultFileThreshold,
		receipts:      make(map[id.ChannelID]string),
		owners:        make(map[id.ChannelID]id.UserID),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l, nil
}

// OpenShopping creates the user's private shopping channel and binds it
// in the session table, initializing the session to (namespace, empty
// cart).
//
// If the user already has a bound ticket that still resolves, the
// existing reference is returned together with sentinel.ErrAlreadyOpen
// so the caller can point the user at it. A bound reference that no
// longer resolves is cleared and replaced; without that reconciliation a
// channel deleted out-of-band would wedge the user forever.
func (l *Lifecycle) OpenShopping(ctx context.Context, userID id.UserID, ns id.Namespace) (id.ChannelID, error) {
	s, err := l.table.GetOrCreate(ctx, userID)
	if err != nil {
		return "", dErrors.Wrap(err, dErrors.CodeInternal, "failed to load session")
	}

	if !s.TicketRef.IsZero() {
		_, err := l.gateway.Resolve(ctx, s.TicketRef)
		switch {
		case err == nil:
			return s.TicketRef, sentinel.ErrAlreadyOpen
		case errors.Is(err, sentinel.ErrChannelGone):
			// Stale binding: the channel was deleted externally.
			if err := l.table.UnbindTicket(ctx, userID); err != nil {
				return "", dErrors.Wrap(err, dErrors.CodeInternal, "failed to clear stale ticket")
			}
			l.mu.Lock()
			delete(l.owners, s.TicketRef)
			l.mu.Unlock()
		default:
			return "", dErrors.Wrap(err, dErrors.CodeUnavailable, "failed to check existing ticket")
		}
	}

	name := channelName(ns, userID, "shop")
	topic := fmt.Sprintf("Private shop channel for %s on %s", userID, ns)
	ref, err := l.gateway.CreatePrivateChannel(ctx, userID, name, topic)
	if err != nil {
		return "", dErrors.Wrap(err, dErrors.CodeUnavailable, "failed to create shop channel")
	}

	if err := l.table.SetNamespace(ctx, userID, ns); err != nil {
		return "", err
	}
	if err := l.table.ClearCart(ctx, userID); err != nil {
		return "", dErrors.Wrap(err, dErrors.CodeInternal, "failed to reset cart")
	}
	if err := l.table.BindTicket(ctx, userID, ref); err != nil {
		return "", dErrors.Wrap(err, dErrors.CodeInternal, "failed to bind ticket")
	}

	l.mu.Lock()
	l.owners[ref] = userID
	l.mu.Unlock()

	welcome := fmt.Sprintf("Welcome %s! You are now shopping in %s.", userID, ns)
	if err := l.gateway.Post(ctx, ref, welcome); err != nil && l.logger != nil {
		l.logger.WarnContext(ctx, "failed to post welcome message", "channel", ref, "error", err)
	}

	if l.metrics != nil {
		l.metrics.TicketsOpened.Inc()
	}
	l.logAudit(ctx, audit.Event{
		UserID:    userID,
		Namespace: ns,
		Channel:   ref,
		Action:    audit.ActionTicketOpened,
	})
	return ref, nil
}

// OpenOrder creates an independent order-ticket channel, posts the frozen
// receipt into it, and remembers the receipt for transcript time. Order
// tickets are not bound in the session table; they coexist with a new
// shopping ticket.
func (l *Lifecycle) OpenOrder(ctx context.Context, userID id.UserID, ns id.Namespace, receipt string) (id.ChannelID, error) {
	name := channelName(ns, userID, "ticket")
	topic := fmt.Sprintf("Order ticket for %s on %s", userID, ns)
	ref, err := l.gateway.CreatePrivateChannel(ctx, userID, name, topic)
	if err != nil {
		return "", dErrors.Wrap(err, dErrors.CodeUnavailable, "failed to create order channel")
	}

	body := fmt.Sprintf("New order from %s:\n%s", userID, receipt)
	if err := l.gateway.Post(ctx, ref, body); err != nil {
		return "", dErrors.Wrap(err, dErrors.CodeUnavailable, "failed to post order receipt")
	}

	l.mu.Lock()
	l.receipts[ref] = receipt
	l.owners[ref] = userID
	l.mu.Unlock()

	if l.metrics != nil {
		l.metrics.TicketsOpened.Inc()
	}
	return ref, nil
}

// Close renders the channel's transcript, appends it to the log sink,
// and only then deletes the channel. A sink failure leaves the channel
// alive: closing must never silently lose the transcript.
func (l *Lifecycle) Close(ctx context.Context, ref id.ChannelID) error {
	name, err := l.gateway.Resolve(ctx, ref)
	if errors.Is(err, sentinel.ErrChannelGone) {
		return dErrors.New(dErrors.CodeNotFound, "ticket channel no longer exists")
	}
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeUnavailable, "failed to resolve ticket channel")
	}

	messages, err := l.gateway.History(ctx, ref)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeUnavailable, "failed to fetch ticket history")
	}

	transcript := RenderTranscript(name, messages)
	record := Record{ChannelName: name}
	if len(transcript) > l.fileThreshold {
		record.TranscriptFile = []byte(transcript)
		record.FileName = name + "-transcript.txt"
	} else {
		record.Transcript = transcript
	}

	l.mu.Lock()
	record.Receipt = l.receipts[ref]
	l.mu.Unlock()

	if err := l.sink.Append(ctx, record); err != nil {
		// Transcript not delivered: the channel must survive.
		return dErrors.Wrap(err, dErrors.CodeUnavailable, "transcript delivery failed; ticket left open")
	}

	if err := l.gateway.DeleteChannel(ctx, ref); err != nil {
		return dErrors.Wrap(err, dErrors.CodeUnavailable, "transcript delivered but channel deletion failed")
	}

	l.mu.Lock()
	delete(l.receipts, ref)
	delete(l.owners, ref)
	l.mu.Unlock()

	// Drop the session binding if this was someone's shopping ticket.
	if s, err := l.table.FindByTicket(ctx, ref); err == nil {
		if err := l.table.UnbindTicket(ctx, s.UserID); err != nil && l.logger != nil {
			l.logger.WarnContext(ctx, "failed to unbind closed ticket", "user_id", s.UserID, "error", err)
		}
	}

	if l.metrics != nil {
		l.metrics.TicketsClosed.Inc()
	}
	l.logAudit(ctx, audit.Event{
		Channel: ref,
		Action:  audit.ActionTicketClosed,
		Detail:  name,
	})
	return nil
}

// CloseOwned closes a ticket on behalf of the shopper who owns it.
// Ownership is established through the session binding for shopping
// tickets and the creation record for order tickets; a caller who owns
// neither is refused and the channel stays untouched. Operator surfaces
// that may close any ticket use Close directly.
func (l *Lifecycle) CloseOwned(ctx context.Context, userID id.UserID, ref id.ChannelID) error {
	owner, ok := l.ownerOf(ctx, ref)
	if !ok {
		return dErrors.New(dErrors.CodeNotFound, "no such ticket")
	}
	if owner != userID {
		return dErrors.New(dErrors.CodeForbidden, "ticket belongs to another user")
	}
	return l.Close(ctx, ref)
}

func (l *Lifecycle) ownerOf(ctx context.Context, ref id.ChannelID) (id.UserID, bool) {
	if s, err := l.table.FindByTicket(ctx, ref); err == nil {
		return s.UserID, true
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	owner, ok := l.owners[ref]
	return owner, ok
}

// Discard deletes a shopping channel without a transcript and clears its
// binding. Settlement uses this to tear down the shopping session after
// the order ticket has been opened; failure is reported to the caller
// but the order stands.
func (l *Lifecycle) Discard(ctx context.Context, ref id.ChannelID) error {
	if s, err := l.table.FindByTicket(ctx, ref); err == nil {
		if err := l.table.UnbindTicket(ctx, s.UserID); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to unbind shopping ticket")
		}
	}
	if err := l.gateway.DeleteChannel(ctx, ref); err != nil {
		return dErrors.Wrap(err, dErrors.CodeUnavailable, "failed to delete shop channel")
	}
	l.mu.Lock()
	delete(l.owners, ref)
	l.mu.Unlock()
	return nil
}

// Notify posts a message into a ticket channel. Settlement uses it to
// report best-effort failures (like a shop channel that would not
// delete) where the user will see them.
func (l *Lifecycle) Notify(ctx context.Context, ref id.ChannelID, content string) error {
	if err := l.gateway.Post(ctx, ref, content); err != nil {
		return dErrors.Wrap(err, dErrors.CodeUnavailable, "failed to post notification")
	}
	return nil
}

func (l *Lifecycle) logAudit(ctx context.Context, event audit.Event) {
	if l.logger != nil {
		l.logger.InfoContext(ctx, string(event.Action),
			"user_id", event.UserID,
			"channel", event.Channel,
			"log_type", "audit",
		)
	}
	if l.audit == nil {
		return
	}
	if err := l.audit.Emit(ctx, event); err != nil && l.logger != nil {
		l.logger.WarnContext(ctx, "failed to emit audit event", "action", event.Action, "error", err)
	}
}

// channelName derives the platform channel name the way the storefront
// has always named tickets: namespace, kind, then the owner, lowercased
// with spaces dashed.
func channelName(ns id.Namespace, userID id.UserID, kind string) string {
	raw := fmt.Sprintf("%s-%s-%s", ns, kind, userID)
	return strings.ReplaceAll(strings.ToLower(raw), " ", "-")
}
