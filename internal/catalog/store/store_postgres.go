package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"shopfront/internal/catalog/models"
	id "shopfront/pkg/domain"
)

// PostgresStore persists catalogs in PostgreSQL, one row per item. Save
// keeps the contract of a full-snapshot overwrite by replacing the whole
// namespace inside a single transaction, so readers see either the old or
// the new snapshot and never a mix.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgres constructs a PostgreSQL-backed catalog store.
func NewPostgres(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// EnsureSchema creates the catalog table if it does not exist.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS catalog_items (
			namespace TEXT NOT NULL,
			category  TEXT NOT NULL,
			name      TEXT NOT NULL,
			price     DOUBLE PRECISION NOT NULL CHECK (price >= 0),
			stock     INTEGER NOT NULL CHECK (stock >= 0),
			image     TEXT NOT NULL DEFAULT '',
			PRIMARY KEY (namespace, category, name)
		)`)
	if err != nil {
		return fmt.Errorf("ensure catalog schema: %w", err)
	}
	return nil
}

func (s *PostgresStore) Load(ctx context.Context, ns id.Namespace) (models.Snapshot, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT category, name, price, stock, image
		   FROM catalog_items WHERE namespace = $1`, string(ns))
	if err != nil {
		return nil, fmt.Errorf("load catalog %s: %w", ns, err)
	}
	defer rows.Close()

	snap := models.Snapshot{}
	for rows.Next() {
		var category, name, image string
		var price float64
		var stock int
		if err := rows.Scan(&category, &name, &price, &stock, &image); err != nil {
			return nil, fmt.Errorf("scan catalog row: %w", err)
		}
		snap.Upsert(category, name, models.Item{Price: price, Stock: stock, Image: image})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate catalog rows: %w", err)
	}
	return snap, nil
}

func (s *PostgresStore) Save(ctx context.Context, ns id.Namespace, snap models.Snapshot) error {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("begin catalog save: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx,
		`DELETE FROM catalog_items WHERE namespace = $1`, string(ns)); err != nil {
		return fmt.Errorf("clear catalog %s: %w", ns, err)
	}

	for category, items := range snap {
		for name, item := range items {
			if _, err := tx.Exec(ctx,
				`INSERT INTO catalog_items (namespace, category, name, price, stock, image)
				 VALUES ($1, $2, $3, $4, $5, $6)`,
				string(ns), category, name, item.Price, item.Stock, item.Image); err != nil {
				return fmt.Errorf("insert catalog item %s/%s: %w", category, name, err)
			}
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit catalog save: %w", err)
	}
	return nil
}
