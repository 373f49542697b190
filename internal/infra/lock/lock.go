package lock

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

var (
	// ErrLockTimeout блокировка специалиста не получена за отведённое время
	ErrLockTimeout = errors.New("lock: professional lock wait timed out")

	// ErrLockUnavailable Redis не ответил на попытку взять блокировку
	ErrLockUnavailable = errors.New("lock: lock backend unavailable")
)

const defaultRetryInterval = 25 * time.Millisecond

// ProfessionalLocker сериализует создание записей к одному специалисту
type ProfessionalLocker interface {
	WithProfessionalLock(ctx context.Context, professionalID int64, fn func(ctx context.Context) error) error
}

// RedisLocker блокировка на ключе lock:professional:<id> (SET NX + TTL)
// Ожидающий вызов опрашивает ключ до истечения wait, после чего возвращает ErrLockTimeout
// Ошибка Redis возвращается как ErrLockUnavailable, fn при этом не вызывается
type RedisLocker struct {
	client        *redis.Client
	ttl           time.Duration
	wait          time.Duration
	retryInterval time.Duration
}

func NewRedisLocker(client *redis.Client, ttl, wait time.Duration) *RedisLocker {
	return &RedisLocker{
		client:        client,
		ttl:           ttl,
		wait:          wait,
		retryInterval: defaultRetryInterval,
	}
}

func (l *RedisLocker) WithProfessionalLock(ctx context.Context, professionalID int64, fn func(ctx context.Context) error) error {
	key := fmt.Sprintf("lock:professional:%d", professionalID)
	token := uuid.NewString()

	if err := l.acquire(ctx, key, token); err != nil {
		return err
	}

	defer func() {
		// Освобождаем даже если ctx уже отменён
		releaseCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), time.Second)
		defer cancel()
		_ = l.release(releaseCtx, key, token)
	}()

	fnCtx, cancel := context.WithTimeout(ctx, l.ttl)
	defer cancel()

	return fn(fnCtx)
}

func (l *RedisLocker) acquire(ctx context.Context, key, token string) error {
	deadline := time.Now().Add(l.wait)

	for {
		ok, err := l.client.SetNX(ctx, key, token, l.ttl).Result()
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return ctxErr
			}
			return fmt.Errorf("%w: acquire %s: %w", ErrLockUnavailable, key, err)
		}
		if ok {
			return nil
		}
		if !time.Now().Before(deadline) {
			return ErrLockTimeout
		}

		timer := time.NewTimer(l.retryInterval)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}

var unlockScript = redis.NewScript(`
local val = redis.call("GET", KEYS[1])
if val == ARGV[1] then
  return redis.call("DEL", KEYS[1])
else
  return 0
end
`)

// release удаляет ключ, только если он всё ещё принадлежит этому владельцу
func (l *RedisLocker) release(ctx context.Context, key, token string) error {
	_, err := unlockScript.Run(ctx, l.client, []string{key}, token).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return fmt.Errorf("lock: release %s: %w", key, err)
	}
	return nil
}

// NoopLocker используется, когда Redis отключён: сериализацию обеспечивает БД
type NoopLocker struct{}

func (NoopLocker) WithProfessionalLock(ctx context.Context, _ int64, fn func(ctx context.Context) error) error {
	return fn(ctx)
}
