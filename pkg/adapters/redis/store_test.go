package redis_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/aretw0/txtree/pkg/adapters/redis"
	"github.com/aretw0/txtree/pkg/document"
	"github.com/aretw0/txtree/pkg/ports"
	backend "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newClient(t *testing.T) (*miniredis.Miniredis, *backend.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := backend.NewClient(&backend.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func TestRedisStore_Contract(t *testing.T) {
	_, client := newClient(t)
	ports.RunSnapshotStoreContract(t, redis.NewFromClient(client))
}

func TestRedisStore_Prefix(t *testing.T) {
	mr, client := newClient(t)
	store := redis.NewFromClient(client, redis.WithPrefix("test:"))
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "handbook", &document.File{Root: document.Snapshot{Name: "handbook"}}))

	assert.True(t, mr.Exists("test:handbook"))
	assert.True(t, mr.Exists("test:index"))
	assert.False(t, mr.Exists(redis.DefaultPrefix+"handbook"))
}

func TestRedisStore_TTL_Expiration(t *testing.T) {
	mr, client := newClient(t)
	now := time.Now()
	store := redis.NewFromClient(client,
		redis.WithTTL(time.Second),
		redis.WithClock(func() time.Time { return now }),
	)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "handbook", &document.File{Root: document.Snapshot{Name: "handbook"}}))

	names, err := store.List(ctx)
	require.NoError(t, err)
	assert.Contains(t, names, "handbook")

	// Key expiry is driven by miniredis, index pruning by the store clock.
	mr.FastForward(2 * time.Second)
	now = now.Add(2 * time.Second)

	_, err = store.Load(ctx, "handbook")
	assert.ErrorIs(t, err, ports.ErrDocumentNotFound)

	names, err = store.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, names)
}

func TestRedisStore_NoTTLNeverPruned(t *testing.T) {
	_, client := newClient(t)
	now := time.Now()
	store := redis.NewFromClient(client, redis.WithClock(func() time.Time { return now }))
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "handbook", &document.File{Root: document.Snapshot{Name: "handbook"}}))
	now = now.Add(24 * 365 * time.Hour)

	names, err := store.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"handbook"}, names)
}

func TestRedisStore_Unavailable(t *testing.T) {
	mr, client := newClient(t)
	store := redis.NewFromClient(client)
	require.NoError(t, store.Ping(context.Background()))
	mr.Close()

	assert.Error(t, store.Ping(context.Background()))
	_, err := store.Load(context.Background(), "handbook")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ports.ErrDocumentNotFound)
}
