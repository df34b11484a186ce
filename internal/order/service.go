// Package order settles carts into frozen receipts. Settlement is the
// single point where stock-keeping policy is enforced: prices are
// re-resolved live, stale lines reject the whole order, and nothing is
// decremented (stock follow-up is an administrative task).
package order

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"shopfront/internal/cart"
	"shopfront/internal/platform/audit"
	"shopfront/internal/platform/metrics"
	"shopfront/internal/session"
	"shopfront/internal/ticket"
	id "shopfront/pkg/domain"
	dErrors "shopfront/pkg/domain-errors"
)

// DefaultMinimum is the settlement floor in currency units.
const DefaultMinimum = 5.00

type Service struct {
	catalog cart.Cataloger
	table   session.Table
	tickets *ticket.Lifecycle

	minimum float64
	logger  *slog.Logger
	audit   audit.Publisher
	metrics *metrics.Metrics
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

func WithAuditPublisher(publisher audit.Publisher) Option {
	return func(s *Service) { s.audit = publisher }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// WithMinimum overrides the minimum order value.
func WithMinimum(v float64) Option {
	return func(s *Service) {
		if v >= 0 {
			s.minimum = v
		}
	}
}

func New(catalog cart.Cataloger, table session.Table, tickets *ticket.Lifecycle, opts ...Option) (*Service, error) {
	if catalog == nil {
		return nil, fmt.Errorf("catalog is required")
	}
	if table == nil {
		return nil, fmt.Errorf("session table is required")
	}
	if tickets == nil {
		return nil, fmt.Errorf("ticket lifecycle is required")
	}

	svc := &Service{
		catalog: catalog,
		table:   table,
		tickets: tickets,
		minimum: DefaultMinimum,
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc, nil
}

// Confirm validates the user's cart against the live catalog and settles
// it. On any failure the cart is left exactly as it was; on success the
// order ticket holds the frozen receipt, the cart is cleared, and the
// shopping channel is torn down.
func (s *Service) Confirm(ctx context.Context, userID id.UserID) (*Receipt, error) {
	start := time.Now()
	defer func() {
		if s.metrics != nil {
			s.metrics.SettlementSeconds.Observe(time.Since(start).Seconds())
		}
	}()

	sess, err := s.table.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load session")
	}
	if sess.Namespace == "" || len(sess.Cart) == 0 {
		return nil, dErrors.New(dErrors.CodeBadRequest, "nothing to confirm")
	}

	snap, err := s.catalog.Snapshot(ctx, sess.Namespace)
	if err != nil {
		return nil, err
	}

	// Same resolution as the cart view: grouped in insertion order,
	// priced at the current catalog, stale lines surfaced.
	lines, missing := cart.Resolve(snap, sess.Cart)
	if len(missing) > 0 {
		s.reject(ctx, userID, sess.Namespace, "stale_item")
		stale := &StaleItemError{Name: missing[0].Name, Category: missing[0].Category}
		return nil, dErrors.Wrap(stale, dErrors.CodeConflict, stale.Error())
	}

	var total float64
	for _, l := range lines {
		total += l.LineTotal
	}
	total = cart.RoundCents(total)
	if total < s.minimum {
		s.reject(ctx, userID, sess.Namespace, "below_minimum")
		below := &BelowMinimumError{Total: total, Minimum: s.minimum}
		return nil, dErrors.Wrap(below, dErrors.CodeBadRequest, below.Error())
	}

	receipt := &Receipt{
		ID:        uuid.NewString(),
		UserID:    userID,
		Namespace: sess.Namespace,
		Total:     total,
		CreatedAt: time.Now().UTC(),
	}
	for _, l := range lines {
		receipt.Lines = append(receipt.Lines, ReceiptLine{
			Name:      l.Name,
			Category:  l.Category,
			Quantity:  l.Quantity,
			UnitPrice: l.UnitPrice,
		})
	}

	// Open the order ticket before touching the cart: if the platform is
	// down the cart must survive for a retry.
	orderRef, err := s.tickets.OpenOrder(ctx, userID, sess.Namespace, receipt.Render())
	if err != nil {
		return nil, err
	}
	receipt.Channel = orderRef

	if err := s.table.ClearCart(ctx, userID); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to clear cart")
	}

	// Tear down the shopping channel. Best-effort: the order stands even
	// if the platform refuses the deletion, but the user gets told.
	if !sess.TicketRef.IsZero() {
		if err := s.tickets.Discard(ctx, sess.TicketRef); err != nil {
			if s.logger != nil {
				s.logger.WarnContext(ctx, "failed to delete shop channel after settlement",
					"user_id", userID, "channel", sess.TicketRef, "error", err)
			}
			_ = s.tickets.Notify(ctx, orderRef, "Failed to delete the shop channel; an admin can remove it manually.")
		}
	}

	if s.metrics != nil {
		s.metrics.OrdersConfirmed.Inc()
	}
	s.logAudit(ctx, audit.Event{
		UserID:    userID,
		Namespace: sess.Namespace,
		Channel:   orderRef,
		Action:    audit.ActionOrderConfirmed,
		Detail:    fmt.Sprintf("total $%.2f", total),
	})
	return receipt, nil
}

func (s *Service) reject(ctx context.Context, userID id.UserID, ns id.Namespace, reason string) {
	if s.metrics != nil {
		s.metrics.OrdersRejected.WithLabelValues(reason).Inc()
	}
	s.logAudit(ctx, audit.Event{
		UserID:    userID,
		Namespace: ns,
		Action:    audit.ActionOrderRejected,
		Detail:    reason,
	})
}

func (s *Service) logAudit(ctx context.Context, event audit.Event) {
	if s.logger != nil {
		s.logger.InfoContext(ctx, string(event.Action),
			"user_id", event.UserID,
			"namespace", event.Namespace,
			"detail", event.Detail,
			"log_type", "audit",
		)
	}
	if s.audit == nil {
		return
	}
	if err := s.audit.Emit(ctx, event); err != nil && s.logger != nil {
		s.logger.WarnContext(ctx, "failed to emit audit event", "action", event.Action, "error", err)
	}
}
