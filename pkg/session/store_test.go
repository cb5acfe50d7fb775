package session

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStoreRevocation(t *testing.T) {
	store := NewMemoryStore()
	defer store.Close()
	ctx := context.Background()

	revoked, err := store.IsRevoked(ctx, "token-1")
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, store.Revoke(ctx, "token-1", time.Minute))

	revoked, err = store.IsRevoked(ctx, "token-1")
	require.NoError(t, err)
	assert.True(t, revoked)

	// A non-positive TTL means the token already expired on its own.
	require.NoError(t, store.Revoke(ctx, "token-2", -time.Second))
	revoked, err = store.IsRevoked(ctx, "token-2")
	require.NoError(t, err)
	assert.False(t, revoked)
}

func TestMemoryStoreExpiry(t *testing.T) {
	store := NewMemoryStore()
	defer store.Close()
	ctx := context.Background()

	require.NoError(t, store.Revoke(ctx, "short", 10*time.Millisecond))
	time.Sleep(30 * time.Millisecond)

	revoked, err := store.IsRevoked(ctx, "short")
	require.NoError(t, err)
	assert.False(t, revoked)
}

func TestRedisStoreRevocation(t *testing.T) {
	mr := miniredis.RunT(t)

	store, err := NewRedisStore("redis://" + mr.Addr())
	require.NoError(t, err)
	defer store.Close()
	ctx := context.Background()

	require.NoError(t, store.Revoke(ctx, "token-1", time.Minute))

	revoked, err := store.IsRevoked(ctx, "token-1")
	require.NoError(t, err)
	assert.True(t, revoked)

	revoked, err = store.IsRevoked(ctx, "other")
	require.NoError(t, err)
	assert.False(t, revoked)

	// Entries disappear once their TTL elapses.
	mr.FastForward(2 * time.Minute)
	revoked, err = store.IsRevoked(ctx, "token-1")
	require.NoError(t, err)
	assert.False(t, revoked)
}
