package redis_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/formpilot/formpilot/pkg/adapters/redis"
)

func TestLocker_AcquireAndRelease(t *testing.T) {
	mr, client := newClient(t)
	locker := redis.NewLocker(client, "formpilot:")
	ctx := context.Background()

	unlock, err := locker.Lock(ctx, "session-1", 5*time.Second)
	require.NoError(t, err)
	assert.True(t, mr.Exists("formpilot:lock:session-1"))

	require.NoError(t, unlock(ctx))
	assert.False(t, mr.Exists("formpilot:lock:session-1"))
}

func TestLocker_BlocksUntilReleased(t *testing.T) {
	_, client := newClient(t)
	locker := redis.NewLocker(client, "formpilot:")
	ctx := context.Background()

	unlock, err := locker.Lock(ctx, "contested", 5*time.Second)
	require.NoError(t, err)

	// A second acquisition with a short deadline must time out while the
	// first holder is alive.
	shortCtx, cancel := context.WithTimeout(ctx, 300*time.Millisecond)
	defer cancel()
	_, err = locker.Lock(shortCtx, "contested", 5*time.Second)
	assert.ErrorIs(t, err, redis.ErrLockAcquire)

	require.NoError(t, unlock(ctx))

	// Now it succeeds promptly.
	unlock2, err := locker.Lock(ctx, "contested", 5*time.Second)
	require.NoError(t, err)
	require.NoError(t, unlock2(ctx))
}

func TestLocker_UnlockIsValueSafe(t *testing.T) {
	mr, client := newClient(t)
	locker := redis.NewLocker(client, "formpilot:")
	ctx := context.Background()

	unlock, err := locker.Lock(ctx, "expiring", 50*time.Millisecond)
	require.NoError(t, err)

	// Simulate expiry plus re-acquisition by someone else.
	mr.FastForward(100 * time.Millisecond)
	mr.Set("formpilot:lock:expiring", "someone-else")

	// Our stale unlock must not delete the new holder's lock.
	require.NoError(t, unlock(ctx))
	got, err := mr.Get("formpilot:lock:expiring")
	require.NoError(t, err)
	assert.Equal(t, "someone-else", got)
}
