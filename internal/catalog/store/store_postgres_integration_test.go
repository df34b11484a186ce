//go:build integration

package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shopfront/internal/catalog/models"
	"shopfront/pkg/testutil/containers"
)

func TestPostgresStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	pc := containers.NewPostgresContainer(t)

	pg := NewPostgres(pc.Pool)
	require.NoError(t, pg.EnsureSchema(ctx))
	require.NoError(t, pg.EnsureSchema(ctx), "schema creation is idempotent")

	t.Run("fresh namespace loads empty", func(t *testing.T) {
		snap, err := pg.Load(ctx, "2b2t")
		require.NoError(t, err)
		assert.Empty(t, snap)
	})

	t.Run("save and reload", func(t *testing.T) {
		snap := models.Snapshot{}
		snap.Upsert("fruit", "apple", models.Item{Price: 2.5, Stock: 10, Image: "http://img"})
		snap.Upsert("tools", "pickaxe", models.Item{Price: 12, Stock: 1})
		require.NoError(t, pg.Save(ctx, "2b2t", snap))

		loaded, err := pg.Load(ctx, "2b2t")
		require.NoError(t, err)
		assert.Equal(t, snap, loaded)
	})

	t.Run("save overwrites the whole namespace", func(t *testing.T) {
		snap := models.Snapshot{}
		snap.Upsert("armor", "helmet", models.Item{Price: 8, Stock: 4})
		require.NoError(t, pg.Save(ctx, "2b2t", snap))

		loaded, err := pg.Load(ctx, "2b2t")
		require.NoError(t, err)
		assert.Equal(t, snap, loaded)
	})

	t.Run("namespaces are isolated", func(t *testing.T) {
		loaded, err := pg.Load(ctx, "constantiam")
		require.NoError(t, err)
		assert.Empty(t, loaded)
	})
}
