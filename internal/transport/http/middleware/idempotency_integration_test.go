//go:build integration

package middleware

import (
	"context"
	"testing"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	tcredis "github.com/testcontainers/testcontainers-go/modules/redis"
)

func TestRedisIdempotencyStore(t *testing.T) {
	ctx := context.Background()
	container, err := tcredis.Run(ctx, "redis:7-alpine")
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(ctx) })

	addr, err := container.ConnectionString(ctx)
	require.NoError(t, err)
	opts, err := redis.ParseURL(addr)
	require.NoError(t, err)
	client := redis.NewClient(opts)
	t.Cleanup(func() { _ = client.Close() })

	store := NewRedisIdempotencyStore(client)
	key := "idempotency:actor:POST /goals:k1"

	_, found, err := store.Check(ctx, key, "h1")
	require.NoError(t, err)
	require.False(t, found)

	require.NoError(t, store.Save(ctx, key, StoredResponse{Hash: "h1", Status: 201, Body: []byte(`{"success":true}`)}))
	got, found, err := store.Check(ctx, key, "h1")
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, 201, got.Status)
	require.JSONEq(t, `{"success":true}`, string(got.Body))

	_, _, err = store.Check(ctx, key, "h2")
	require.ErrorIs(t, err, ErrIdempotencyConflict)
	require.ErrorIs(t, store.Save(ctx, key, StoredResponse{Hash: "h2", Status: 201}), ErrIdempotencyConflict)
}
