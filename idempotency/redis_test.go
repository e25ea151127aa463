package idempotency

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRedisStore(t *testing.T) (*miniredis.Miniredis, *RedisStore) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := NewRedisClient(mr.Addr(), "", 0)
	t.Cleanup(func() { _ = client.Close() })
	return mr, NewRedisStore(client, time.Hour)
}

func TestRedisStore_Lifecycle(t *testing.T) {
	ctx := context.Background()
	mr, s := newTestRedisStore(t)

	ids, err := s.Begin(ctx, "checkout:u1:k1")
	require.NoError(t, err)
	assert.Nil(t, ids)
	assert.True(t, mr.Exists(keyPrefix+"checkout:u1:k1"))

	_, err = s.Begin(ctx, "checkout:u1:k1")
	assert.ErrorIs(t, err, ErrInFlight)

	require.NoError(t, s.Complete(ctx, "checkout:u1:k1", []string{"a"}))
	ids, err = s.Begin(ctx, "checkout:u1:k1")
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, ids)
}

func TestRedisStore_KeysExpire(t *testing.T) {
	ctx := context.Background()
	mr, s := newTestRedisStore(t)

	_, err := s.Begin(ctx, "k1")
	require.NoError(t, err)
	mr.FastForward(2 * time.Hour)

	ids, err := s.Begin(ctx, "k1")
	require.NoError(t, err)
	assert.Nil(t, ids)
}

func TestRedisStore_Release(t *testing.T) {
	ctx := context.Background()
	mr, s := newTestRedisStore(t)

	_, err := s.Begin(ctx, "k1")
	require.NoError(t, err)
	require.NoError(t, s.Release(ctx, "k1"))
	assert.False(t, mr.Exists(keyPrefix+"k1"))
}

func TestRedisStore_PendingUsesShortTTL(t *testing.T) {
	ctx := context.Background()
	mr, s := newTestRedisStore(t)

	_, err := s.Begin(ctx, "k1")
	require.NoError(t, err)
	assert.Equal(t, PendingTTL, mr.TTL(keyPrefix+"k1"))

	require.NoError(t, s.Complete(ctx, "k1", []string{"a"}))
	assert.Equal(t, time.Hour, mr.TTL(keyPrefix+"k1"))

	_, err = s.Begin(ctx, "k2")
	require.NoError(t, err)
	mr.FastForward(PendingTTL + time.Second)
	ids, err := s.Begin(ctx, "k2")
	require.NoError(t, err)
	assert.Nil(t, ids)
}
