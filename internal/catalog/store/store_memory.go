package store

import (
	"context"
	"sync"

	"shopfront/internal/catalog/models"
	id "shopfront/pkg/domain"
)

// InMemoryStore holds snapshots in process memory. It mirrors the file
// store's semantics (empty materialization, full overwrite) and backs
// unit tests and ephemeral deployments.
type InMemoryStore struct {
	mu        sync.RWMutex
	snapshots map[id.Namespace]models.Snapshot
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{snapshots: make(map[id.Namespace]models.Snapshot)}
}

func (s *InMemoryStore) Load(_ context.Context, ns id.Namespace) (models.Snapshot, error) {
	s.mu.RLock()
	snap, ok := s.snapshots[ns]
	s.mu.RUnlock()
	if !ok {
		s.mu.Lock()
		// Re-check under the write lock; another loader may have won.
		if snap, ok = s.snapshots[ns]; !ok {
			snap = models.Snapshot{}
			s.snapshots[ns] = snap
		}
		s.mu.Unlock()
	}
	return snap.Clone(), nil
}

func (s *InMemoryStore) Save(_ context.Context, ns id.Namespace, snap models.Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshots[ns] = snap.Clone()
	return nil
}
