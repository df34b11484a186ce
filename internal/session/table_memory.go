package session

import (
	"context"
	"sync"

	id "shopfront/pkg/domain"
	dErrors "shopfront/pkg/domain-errors"
	"shopfront/pkg/platform/sentinel"
)

// InMemoryTable is the default SessionTable: a process-wide map guarded
// by a RWMutex. Entries are exclusively owned by the owning user's
// identity; returned sessions are copies so callers cannot alias state.
type InMemoryTable struct {
	mu       sync.RWMutex
	sessions map[id.UserID]*Session
}

func NewInMemoryTable() *InMemoryTable {
	return &InMemoryTable{sessions: make(map[id.UserID]*Session)}
}

func (t *InMemoryTable) GetOrCreate(_ context.Context, userID id.UserID) (Session, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.getOrCreateLocked(userID).clone(), nil
}

// clone copies the session including its cart so callers never alias the
// table's backing slice.
func (s *Session) clone() Session {
	out := *s
	if len(s.Cart) > 0 {
		out.Cart = make([]Line, len(s.Cart))
		copy(out.Cart, s.Cart)
	}
	return out
}

func (t *InMemoryTable) getOrCreateLocked(userID id.UserID) *Session {
	s, ok := t.sessions[userID]
	if !ok {
		s = &Session{UserID: userID}
		t.sessions[userID] = s
	}
	return s
}

func (t *InMemoryTable) SetNamespace(_ context.Context, userID id.UserID, ns id.Namespace) error {
	if ns == "" {
		return dErrors.New(dErrors.CodeInvalidInput, "namespace cannot be empty")
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	s := t.getOrCreateLocked(userID)
	if s.Namespace == ns {
		return nil
	}
	s.Namespace = ns
	s.Cart = nil
	return nil
}

func (t *InMemoryTable) AppendLine(_ context.Context, userID id.UserID, line Line) error {
	if line.Name == "" || line.Category == "" {
		return dErrors.New(dErrors.CodeInvalidInput, "cart line requires item name and category")
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	s := t.getOrCreateLocked(userID)
	if s.Namespace == "" {
		return dErrors.New(dErrors.CodeBadRequest, "select a catalog before adding to the cart")
	}
	s.Cart = append(s.Cart, line)
	return nil
}

func (t *InMemoryTable) ClearCart(_ context.Context, userID id.UserID) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.getOrCreateLocked(userID).Cart = nil
	return nil
}

func (t *InMemoryTable) BindTicket(_ context.Context, userID id.UserID, ref id.ChannelID) error {
	if ref.IsZero() {
		return dErrors.New(dErrors.CodeInvalidInput, "ticket reference cannot be empty")
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.getOrCreateLocked(userID).TicketRef = ref
	return nil
}

func (t *InMemoryTable) UnbindTicket(_ context.Context, userID id.UserID) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.getOrCreateLocked(userID).TicketRef = ""
	return nil
}

func (t *InMemoryTable) FindByTicket(_ context.Context, ref id.ChannelID) (Session, error) {
	if ref.IsZero() {
		return Session{}, sentinel.ErrNotFound
	}
	t.mu.RLock()
	defer t.mu.RUnlock()
	for _, s := range t.sessions {
		if s.TicketRef == ref {
			return s.clone(), nil
		}
	}
	return Session{}, sentinel.ErrNotFound
}
