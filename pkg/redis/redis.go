package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/NPNKhoa/CT250-backend-sub000/config"
	"github.com/NPNKhoa/CT250-backend-sub000/pkg/logger"
	"github.com/redis/go-redis/v9"
)

var client *redis.Client

// ErrLockNotHeld is returned by ReleaseLock when the key expired or belongs to another holder.
var ErrLockNotHeld = errors.New("redis lock not held")

// releaseScript deletes the key only if it still holds our token.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// Init initializes Redis connection
func Init(cfg *config.RedisConfig) error {
	logger.Info("Initializing Redis connection", map[string]interface{}{
		"host": cfg.Host,
		"port": cfg.Port,
		"db":   cfg.DB,
	})

	client = redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		logger.Error("Failed to connect to Redis", err, map[string]interface{}{
			"host": cfg.Host,
			"port": cfg.Port,
		})
		return fmt.Errorf("failed to connect to Redis: %w", err)
	}

	logger.Info("Redis connection established successfully")
	return nil
}

// GetClient returns the Redis client instance
func GetClient() *redis.Client {
	return client
}

// Close closes the Redis connection
func Close() error {
	if client != nil {
		logger.Info("Closing Redis connection")
		return client.Close()
	}
	return nil
}

// AcquireLock sets key to token if it is absent, expiring after ttl.
// It reports false when someone else holds the key.
func AcquireLock(ctx context.Context, rdb redis.Cmdable, key, token string, ttl time.Duration) (bool, error) {
	ok, err := rdb.SetNX(ctx, key, token, ttl).Result()
	if err != nil {
		logger.Error("Failed to acquire redis lock", err, map[string]interface{}{
			"key": key,
		})
		return false, err
	}
	return ok, nil
}

// ReleaseLock deletes key if it still holds token.
func ReleaseLock(ctx context.Context, rdb redis.Scripter, key, token string) error {
	n, err := releaseScript.Run(ctx, rdb, []string{key}, token).Int64()
	if err != nil {
		logger.Error("Failed to release redis lock", err, map[string]interface{}{
			"key": key,
		})
		return err
	}
	if n == 0 {
		logger.Warn("Redis lock expired before release", map[string]interface{}{
			"key": key,
		})
		return ErrLockNotHeld
	}
	return nil
}
