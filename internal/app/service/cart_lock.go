package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/NPNKhoa/CT250-backend-sub000/pkg/logger"
	appredis "github.com/NPNKhoa/CT250-backend-sub000/pkg/redis"
	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
)

// CartLocker serializes cart mutations and order placement per user.
// Lock blocks until the lock is held, the wait times out, or ctx is done;
// the latter two return ErrCartBusy. unlock must be called exactly once.
type CartLocker interface {
	Lock(ctx context.Context, userID uint) (unlock func(), err error)
}

// LocalCartLocker is an in-process CartLocker for single instance
// deployments and tests.
type LocalCartLocker struct {
	timeout time.Duration

	mu    sync.Mutex
	locks map[uint]chan struct{}
}

func NewLocalCartLocker(timeout time.Duration) *LocalCartLocker {
	return &LocalCartLocker{
		timeout: timeout,
		locks:   make(map[uint]chan struct{}),
	}
}

func (l *LocalCartLocker) slot(userID uint) chan struct{} {
	l.mu.Lock()
	defer l.mu.Unlock()
	ch, ok := l.locks[userID]
	if !ok {
		ch = make(chan struct{}, 1)
		l.locks[userID] = ch
	}
	return ch
}

func (l *LocalCartLocker) Lock(ctx context.Context, userID uint) (func(), error) {
	if l.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, l.timeout)
		defer cancel()
	}

	ch := l.slot(userID)
	select {
	case ch <- struct{}{}:
		var once sync.Once
		return func() { once.Do(func() { <-ch }) }, nil
	case <-ctx.Done():
		logger.Warn("Timed out waiting for cart lock", map[string]interface{}{
			"user_id": userID,
		})
		return nil, ErrCartBusy
	}
}

const redisLockRetry = 50 * time.Millisecond

// RedisCartLocker holds the lock as a redis key so that every API instance
// sees it. The key expires after ttl in case the holder dies.
type RedisCartLocker struct {
	client  goredis.UniversalClient
	ttl     time.Duration
	timeout time.Duration
	release func(ctx context.Context, key, token string) error
}

func NewRedisCartLocker(client goredis.UniversalClient, ttl, timeout time.Duration) *RedisCartLocker {
	l := &RedisCartLocker{client: client, ttl: ttl, timeout: timeout}
	l.release = func(ctx context.Context, key, token string) error {
		return appredis.ReleaseLock(ctx, l.client, key, token)
	}
	return l
}

func cartLockKey(userID uint) string {
	return fmt.Sprintf("cart:lock:%d", userID)
}

func (l *RedisCartLocker) Lock(ctx context.Context, userID uint) (func(), error) {
	if l.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, l.timeout)
		defer cancel()
	}

	key := cartLockKey(userID)
	token := uuid.NewString()

	for {
		ok, err := appredis.AcquireLock(ctx, l.client, key, token, l.ttl)
		if err != nil && ctx.Err() == nil {
			return nil, fmt.Errorf("acquire cart lock: %w", err)
		}
		if ok {
			return l.unlocker(userID, key, token), nil
		}

		select {
		case <-time.After(redisLockRetry):
		case <-ctx.Done():
			logger.Warn("Timed out waiting for cart lock", map[string]interface{}{
				"user_id": userID,
				"key":     key,
			})
			return nil, ErrCartBusy
		}
	}
}

// unlocker releases the key once. A failed release leaves the key until ttl,
// so the user's cart stays busy until then.
func (l *RedisCartLocker) unlocker(userID uint, key, token string) func() {
	var once sync.Once
	return func() {
		once.Do(func() {
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			if err := l.release(ctx, key, token); err != nil {
				logger.Warn("Failed to release cart lock", map[string]interface{}{
					"user_id": userID,
					"key":     key,
					"ttl":     l.ttl.String(),
					"error":   err.Error(),
				})
			}
		})
	}
}
