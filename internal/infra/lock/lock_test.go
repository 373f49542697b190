package lock

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newLocker(t *testing.T, wait time.Duration) (*RedisLocker, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisLocker(client, 5*time.Second, wait), mr
}

func TestRedisLocker_ReleasesAfterRun(t *testing.T) {
	locker, mr := newLocker(t, time.Second)

	err := locker.WithProfessionalLock(context.Background(), 7, func(ctx context.Context) error {
		assert.True(t, mr.Exists("lock:professional:7"))
		return nil
	})

	require.NoError(t, err)
	assert.False(t, mr.Exists("lock:professional:7"))
}

func TestRedisLocker_TimesOutWhileHeld(t *testing.T) {
	locker, mr := newLocker(t, 60*time.Millisecond)
	require.NoError(t, mr.Set("lock:professional:7", "someone-else"))

	called := false
	err := locker.WithProfessionalLock(context.Background(), 7, func(ctx context.Context) error {
		called = true
		return nil
	})

	assert.ErrorIs(t, err, ErrLockTimeout)
	assert.False(t, called)
	got, _ := mr.Get("lock:professional:7")
	assert.Equal(t, "someone-else", got, "foreign lock must not be released")
}

func TestRedisLocker_SerializesSameProfessional(t *testing.T) {
	locker, _ := newLocker(t, 2*time.Second)

	var (
		inside  int32
		maxSeen int32
		wg      sync.WaitGroup
	)
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := locker.WithProfessionalLock(context.Background(), 7, func(ctx context.Context) error {
				n := atomic.AddInt32(&inside, 1)
				for {
					cur := atomic.LoadInt32(&maxSeen)
					if n <= cur || atomic.CompareAndSwapInt32(&maxSeen, cur, n) {
						break
					}
				}
				time.Sleep(10 * time.Millisecond)
				atomic.AddInt32(&inside, -1)
				return nil
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), maxSeen)
}

func TestRedisLocker_BackendDown(t *testing.T) {
	locker, mr := newLocker(t, time.Second)
	mr.Close()

	called := false
	err := locker.WithProfessionalLock(context.Background(), 7, func(ctx context.Context) error {
		called = true
		return nil
	})

	assert.ErrorIs(t, err, ErrLockUnavailable)
	assert.NotErrorIs(t, err, ErrLockTimeout)
	assert.False(t, called)
}

func TestNoopLocker(t *testing.T) {
	called := false
	err := NoopLocker{}.WithProfessionalLock(context.Background(), 1, func(ctx context.Context) error {
		called = true
		return nil
	})
	require.NoError(t, err)
	assert.True(t, called)
}
