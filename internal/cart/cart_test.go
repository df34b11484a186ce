package cart

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shopfront/internal/catalog/models"
	"shopfront/internal/session"
	id "shopfront/pkg/domain"
	dErrors "shopfront/pkg/domain-errors"
	"shopfront/pkg/testutil"
)

// staticCatalog serves a fixed snapshot per namespace.
type staticCatalog struct {
	snap models.Snapshot
}

func (c *staticCatalog) Snapshot(_ context.Context, _ id.Namespace) (models.Snapshot, error) {
	return c.snap, nil
}

func testSnapshot() models.Snapshot {
	snap := models.Snapshot{}
	snap.Upsert("fruit", "apple", models.Item{Price: 2.50, Stock: 10})
	snap.Upsert("fruit", "banana", models.Item{Price: 1.25, Stock: 5})
	snap.Upsert("tools", "apple", models.Item{Price: 99.99, Stock: 1})
	return snap
}

func newTestEngine(t *testing.T) (*Engine, session.Table) {
	t.Helper()
	table := session.NewInMemoryTable()
	engine, err := New(&staticCatalog{snap: testSnapshot()}, table)
	require.NoError(t, err)
	return engine, table
}

func TestAddRequiresNamespace(t *testing.T) {
	ctx := context.Background()
	engine, _ := newTestEngine(t)

	err := engine.Add(ctx, "alice", "fruit", "apple")
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeBadRequest))
}

func TestAddDoesNotCheckStock(t *testing.T) {
	ctx := context.Background()
	engine, table := newTestEngine(t)
	require.NoError(t, table.SetNamespace(ctx, "alice", "2b2t"))

	// Eleven apples with ten in stock: carting is a soft reservation.
	for i := 0; i < 11; i++ {
		require.NoError(t, engine.Add(ctx, "alice", "fruit", "apple"))
	}

	view, err := engine.ViewCart(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, view.Lines, 1)
	assert.Equal(t, 11, view.Lines[0].Quantity)
}

func TestViewCartEmpty(t *testing.T) {
	ctx := context.Background()
	engine, _ := newTestEngine(t)

	view, err := engine.ViewCart(ctx, "alice")
	require.NoError(t, err)
	assert.Empty(t, view.Lines)
	assert.Zero(t, view.Total)
}

func TestViewCartGroupsAndTotals(t *testing.T) {
	ctx := context.Background()
	engine, table := newTestEngine(t)
	require.NoError(t, table.SetNamespace(ctx, "alice", "2b2t"))

	require.NoError(t, engine.Add(ctx, "alice", "fruit", "apple"))
	require.NoError(t, engine.Add(ctx, "alice", "fruit", "banana"))
	require.NoError(t, engine.Add(ctx, "alice", "fruit", "apple"))
	require.NoError(t, engine.Add(ctx, "alice", "tools", "apple"))

	view, err := engine.ViewCart(ctx, "alice")
	require.NoError(t, err)

	// Grouped by exact (name, category) pair, in insertion order of first
	// occurrence; the tools apple is a distinct line.
	require.Len(t, view.Lines, 3)
	assert.Equal(t, GroupedLine{Name: "apple", Category: "fruit", Quantity: 2, UnitPrice: 2.50, LineTotal: 5.00}, view.Lines[0])
	assert.Equal(t, GroupedLine{Name: "banana", Category: "fruit", Quantity: 1, UnitPrice: 1.25, LineTotal: 1.25}, view.Lines[1])
	assert.Equal(t, GroupedLine{Name: "apple", Category: "tools", Quantity: 1, UnitPrice: 99.99, LineTotal: 99.99}, view.Lines[2])
	assert.Equal(t, 106.24, view.Total)
	assert.Empty(t, view.Missing)
}

func TestViewCartExcludesMissingFromTotal(t *testing.T) {
	ctx := context.Background()
	catalog := &staticCatalog{snap: testSnapshot()}
	table := session.NewInMemoryTable()
	engine, err := New(catalog, table)
	require.NoError(t, err)

	testutil.Given(t, "a cart holding an apple and a banana", func(t *testing.T) {
		require.NoError(t, table.SetNamespace(ctx, "alice", "2b2t"))
		require.NoError(t, engine.Add(ctx, "alice", "fruit", "apple"))
		require.NoError(t, engine.Add(ctx, "alice", "fruit", "banana"))
	})

	testutil.When(t, "the banana is removed from the catalog", func(t *testing.T) {
		catalog.snap.Delete("fruit", "banana")
	})

	testutil.Then(t, "the view prices the apple and reports the banana separately", func(t *testing.T) {
		view, err := engine.ViewCart(ctx, "alice")
		require.NoError(t, err)
		require.Len(t, view.Lines, 1)
		assert.Equal(t, 2.50, view.Total)
		require.Len(t, view.Missing, 1)
		assert.Equal(t, session.Line{Name: "banana", Category: "fruit"}, view.Missing[0])
	})
}

// failingCatalog simulates a store outage.
type failingCatalog struct {
	err error
}

func (c *failingCatalog) Snapshot(_ context.Context, _ id.Namespace) (models.Snapshot, error) {
	return nil, c.err
}

func TestViewCartLogsCatalogFailure(t *testing.T) {
	ctx := context.Background()
	table := session.NewInMemoryTable()

	var buf bytes.Buffer
	log := slog.New(slog.NewTextHandler(&buf, nil))
	engine, err := New(&failingCatalog{err: errors.New("store offline")}, table, WithLogger(log))
	require.NoError(t, err)

	require.NoError(t, table.SetNamespace(ctx, "alice", "2b2t"))
	require.NoError(t, engine.Add(ctx, "alice", "fruit", "apple"))

	_, err = engine.ViewCart(ctx, "alice")
	require.Error(t, err)
	assert.Contains(t, buf.String(), "failed to load catalog for cart view")
	assert.Contains(t, buf.String(), "store offline")
}

func TestResolveRepricesAtCurrentCatalog(t *testing.T) {
	snap := testSnapshot()
	lines := []session.Line{
		{Name: "apple", Category: "fruit"},
		{Name: "apple", Category: "fruit"},
	}

	grouped, missing := Resolve(snap, lines)
	require.Empty(t, missing)
	require.Len(t, grouped, 1)
	assert.Equal(t, 5.00, grouped[0].LineTotal)

	// A price change between views is reflected immediately.
	snap.Upsert("fruit", "apple", models.Item{Price: 3.00, Stock: 10})
	grouped, _ = Resolve(snap, lines)
	assert.Equal(t, 6.00, grouped[0].LineTotal)
}

func TestRoundCents(t *testing.T) {
	assert.Equal(t, 5.00, RoundCents(4.999999999))
	assert.Equal(t, 4.99, RoundCents(4.9900000001))
	assert.Equal(t, 0.1, RoundCents(0.1))
	assert.Equal(t, 2.68, RoundCents(2.675000001))
}
