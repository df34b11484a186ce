package session

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRedisTable(t *testing.T) *RedisTable {
	t.Helper()
	srv := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: srv.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisTable(client)
}

func TestRedisTable(t *testing.T) {
	tableInvariants(t, newTestRedisTable(t))
}

func TestRedisTableSurvivesReconnection(t *testing.T) {
	ctx := context.Background()
	srv := miniredis.RunT(t)

	first := redis.NewClient(&redis.Options{Addr: srv.Addr()})
	table := NewRedisTable(first)
	require.NoError(t, table.SetNamespace(ctx, "alice", "2b2t"))
	require.NoError(t, table.AppendLine(ctx, "alice", Line{Name: "apple", Category: "fruit"}))
	require.NoError(t, first.Close())

	// A new client against the same server sees the same session, the way
	// a restarted process would.
	second := redis.NewClient(&redis.Options{Addr: srv.Addr()})
	defer second.Close()
	reopened := NewRedisTable(second)

	s, err := reopened.GetOrCreate(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, "2b2t", string(s.Namespace))
	assert.Len(t, s.Cart, 1)
}
