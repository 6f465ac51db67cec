package lock

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/orris-inc/ticketflow/internal/shared/logger"
)

// releaseScript deletes the key only while it still holds our token, so an
// expired lock taken over by another owner is never released by us.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

const defaultRetryInterval = 25 * time.Millisecond

// RedisLocker takes locks with SET NX PX and releases them with a token check.
type RedisLocker struct {
	client        *redis.Client
	prefix        string
	ttl           time.Duration
	waitTimeout   time.Duration
	retryInterval time.Duration
	logger        logger.Interface
}

var _ Locker = (*RedisLocker)(nil)

func NewRedisLocker(client *redis.Client, ttl, waitTimeout time.Duration, log logger.Interface) *RedisLocker {
	return &RedisLocker{
		client:        client,
		prefix:        "ticketflow:lock:",
		ttl:           ttl,
		waitTimeout:   waitTimeout,
		retryInterval: defaultRetryInterval,
		logger:        log,
	}
}

func (l *RedisLocker) Lock(ctx context.Context, key string) (Unlock, error) {
	redisKey := l.prefix + key
	token := uuid.NewString()

	waitCtx := ctx
	if l.waitTimeout > 0 {
		var cancel context.CancelFunc
		waitCtx, cancel = context.WithTimeout(ctx, l.waitTimeout)
		defer cancel()
	}

	ticker := time.NewTicker(l.retryInterval)
	defer ticker.Stop()

	for {
		ok, err := l.client.SetNX(waitCtx, redisKey, token, l.ttl).Result()
		if err != nil && !errors.Is(err, context.DeadlineExceeded) {
			return nil, fmt.Errorf("failed to acquire lock %s: %w", key, err)
		}
		if ok {
			break
		}

		select {
		case <-ticker.C:
		case <-waitCtx.Done():
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			return nil, ErrLockTimeout
		}
	}

	released := false
	return func() {
		if released {
			return
		}
		released = true
		// the caller's context may already be cancelled
		if err := releaseScript.Run(context.Background(), l.client, []string{redisKey}, token).Err(); err != nil {
			l.logger.Warnw("failed to release lock", "key", key, "error", err)
		}
	}, nil
}
