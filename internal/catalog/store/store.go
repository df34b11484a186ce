// Package store persists catalog snapshots. Implementations are
// interface-driven to keep the domain logic testable and to allow
// swapping the file, in-memory, and postgres backends without rewiring
// business code.
package store

import (
	"context"

	"shopfront/internal/catalog/models"
	id "shopfront/pkg/domain"
)

// Store is the persistence contract for one catalog per namespace.
//
// Load returns the full snapshot for a namespace, materializing an empty
// store on first access. Save performs a full-snapshot overwrite; once it
// returns, no partial write is observable to other readers.
type Store interface {
	Load(ctx context.Context, ns id.Namespace) (models.Snapshot, error)
	Save(ctx context.Context, ns id.Namespace, snap models.Snapshot) error
}
