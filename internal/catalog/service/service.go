// Package service implements the administrative and browsing operations
// over catalog snapshots. Every mutation is a load-modify-save cycle
// serialized per namespace, so two admin edits in one process cannot lose
// each other's write.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"shopfront/internal/catalog/models"
	"shopfront/internal/catalog/store"
	"shopfront/internal/platform/audit"
	"shopfront/internal/platform/metrics"
	id "shopfront/pkg/domain"
	dErrors "shopfront/pkg/domain-errors"
)

type Service struct {
	store   store.Store
	allowed map[id.Namespace]struct{}
	order   []id.Namespace

	mu    sync.Mutex
	locks map[id.Namespace]*sync.Mutex

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

// New builds the catalog service over the given store. namespaces is the
// configured allow-list; operations on any other namespace are rejected.
func New(st store.Store, namespaces []string, opts ...Option) (*Service, error) {
	if st == nil {
		return nil, fmt.Errorf("catalog store is required")
	}
	if len(namespaces) == 0 {
		return nil, fmt.Errorf("at least one namespace is required")
	}

	svc := &Service{
		store:   st,
		allowed: make(map[id.Namespace]struct{}, len(namespaces)),
		locks:   make(map[id.Namespace]*sync.Mutex),
	}
	for _, raw := range namespaces {
		ns, err := id.ParseNamespace(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid namespace %q: %w", raw, err)
		}
		if _, dup := svc.allowed[ns]; dup {
			continue
		}
		svc.allowed[ns] = struct{}{}
		svc.order = append(svc.order, ns)
	}

	for _, opt := range opts {
		opt(svc)
	}
	return svc, nil
}

// Namespaces returns the served namespaces in configuration order.
func (s *Service) Namespaces() []id.Namespace {
	out := make([]id.Namespace, len(s.order))
	copy(out, s.order)
	return out
}

// Knows reports whether the namespace is served.
func (s *Service) Knows(ns id.Namespace) bool {
	_, ok := s.allowed[ns]
	return ok
}

func (s *Service) ensure(ns id.Namespace) error {
	if !s.Knows(ns) {
		return dErrors.New(dErrors.CodeNotFound, fmt.Sprintf("unknown namespace %q", ns))
	}
	return nil
}

// lockFor serializes edit flows per namespace. Lookups do not take the
// lock; settlement re-resolution covers the read side.
func (s *Service) lockFor(ns id.Namespace) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.locks[ns]
	if !ok {
		l = &sync.Mutex{}
		s.locks[ns] = l
	}
	return l
}

// Snapshot returns the current catalog of a namespace.
func (s *Service) Snapshot(ctx context.Context, ns id.Namespace) (models.Snapshot, error) {
	if err := s.ensure(ns); err != nil {
		return nil, err
	}
	snap, err := s.store.Load(ctx, ns)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load catalog")
	}
	return snap, nil
}

// Categories lists category names for browsing, sorted alphabetically.
func (s *Service) Categories(ctx context.Context, ns id.Namespace) ([]string, error) {
	snap, err := s.Snapshot(ctx, ns)
	if err != nil {
		return nil, err
	}
	return snap.Categories(), nil
}

// ItemView pairs an item with its name for ordered presentation.
type ItemView struct {
	Name string
	Item models.Item
}

// AvailableItems lists the items of one category that a shopper can buy.
// Items with no remaining stock are hidden from the shopper surface; the
// admin surface reads the raw snapshot instead.
func (s *Service) AvailableItems(ctx context.Context, ns id.Namespace, category string) ([]ItemView, error) {
	snap, err := s.Snapshot(ctx, ns)
	if err != nil {
		return nil, err
	}
	var out []ItemView
	for _, name := range snap.ItemNames(category) {
		item, _ := snap.Resolve(category, name)
		if item.Stock <= 0 {
			continue
		}
		out = append(out, ItemView{Name: name, Item: item})
	}
	return out, nil
}

// UpsertItem creates or replaces an item. Price and stock arrive as raw
// strings from the admin form; a validation failure leaves the store
// unmodified.
func (s *Service) UpsertItem(ctx context.Context, actor id.Actor, ns id.Namespace, category, name, price, stock, image string) error {
	if err := s.requireAdmin(actor); err != nil {
		return err
	}
	if err := s.ensure(ns); err != nil {
		return err
	}
	category, name = strings.TrimSpace(category), strings.TrimSpace(name)
	if category == "" || name == "" {
		return dErrors.New(dErrors.CodeInvalidInput, "category and item name are required")
	}
	item, err := models.NewItem(price, stock, image)
	if err != nil {
		return err
	}

	lock := s.lockFor(ns)
	lock.Lock()
	defer lock.Unlock()

	snap, err := s.store.Load(ctx, ns)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to load catalog")
	}
	snap.Upsert(category, name, item)
	if err := s.store.Save(ctx, ns, snap); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to save catalog")
	}

	if s.metrics != nil {
		s.metrics.ItemsUpserted.Inc()
	}
	s.logAudit(ctx, audit.Event{
		UserID:    actor.ID,
		Namespace: ns,
		Action:    audit.ActionItemUpserted,
		Detail:    category + "/" + name,
	})
	return nil
}

// EditItem updates an existing item, renaming it when newName differs.
// The rename is a delete of the old entry and an insert under the new
// name within one load-mutate-save cycle, so no caller observes both or
// neither.
func (s *Service) EditItem(ctx context.Context, actor id.Actor, ns id.Namespace, category, oldName, newName, price, stock, image string) error {
	if err := s.requireAdmin(actor); err != nil {
		return err
	}
	if err := s.ensure(ns); err != nil {
		return err
	}
	category = strings.TrimSpace(category)
	oldName, newName = strings.TrimSpace(oldName), strings.TrimSpace(newName)
	if newName == "" {
		newName = oldName
	}
	item, err := models.NewItem(price, stock, image)
	if err != nil {
		return err
	}

	lock := s.lockFor(ns)
	lock.Lock()
	defer lock.Unlock()

	snap, err := s.store.Load(ctx, ns)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to load catalog")
	}
	if _, ok := snap.Resolve(category, oldName); !ok {
		return dErrors.New(dErrors.CodeNotFound, fmt.Sprintf("item %s/%s not found", category, oldName))
	}

	renamed := oldName != newName
	if renamed {
		snap.Delete(category, oldName)
	}
	snap.Upsert(category, newName, item)
	if err := s.store.Save(ctx, ns, snap); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to save catalog")
	}

	if s.metrics != nil {
		s.metrics.ItemsUpserted.Inc()
	}
	action := audit.ActionItemUpserted
	detail := category + "/" + newName
	if renamed {
		action = audit.ActionItemRenamed
		detail = category + "/" + oldName + " -> " + newName
	}
	s.logAudit(ctx, audit.Event{
		UserID:    actor.ID,
		Namespace: ns,
		Action:    action,
		Detail:    detail,
	})
	return nil
}

// DeleteItem removes an item, pruning its category when it becomes empty.
// A missing item is reported as NotFound and the store stays untouched.
func (s *Service) DeleteItem(ctx context.Context, actor id.Actor, ns id.Namespace, category, name string) error {
	if err := s.requireAdmin(actor); err != nil {
		return err
	}
	if err := s.ensure(ns); err != nil {
		return err
	}

	lock := s.lockFor(ns)
	lock.Lock()
	defer lock.Unlock()

	snap, err := s.store.Load(ctx, ns)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to load catalog")
	}
	if !snap.Delete(category, name) {
		return dErrors.New(dErrors.CodeNotFound, fmt.Sprintf("item %s/%s not found", category, name))
	}
	if err := s.store.Save(ctx, ns, snap); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to save catalog")
	}

	if s.metrics != nil {
		s.metrics.ItemsDeleted.Inc()
	}
	s.logAudit(ctx, audit.Event{
		UserID:    actor.ID,
		Namespace: ns,
		Action:    audit.ActionItemDeleted,
		Detail:    category + "/" + name,
	})
	return nil
}

func (s *Service) requireAdmin(actor id.Actor) error {
	if !actor.Admin {
		return dErrors.New(dErrors.CodeForbidden, "catalog mutations require the admin capability")
	}
	return nil
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
