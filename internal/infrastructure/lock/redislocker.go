package lock

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/florascan-inc/florascan/internal/shared/logger"
)

// releaseScript deletes the lock key only when the stored token matches,
// so a holder whose lease already expired cannot release a lease that was
// re-acquired by someone else.
const releaseScript = `
if redis.call("get", KEYS[1]) == ARGV[1] then
	return redis.call("del", KEYS[1])
else
	return 0
end`

// RedisLocker implements Locker on a single redis instance using
// SET NX with expiry. Each acquisition stores a random token so Release
// only removes leases this process actually holds.
type RedisLocker struct {
	client *redis.Client
	logger logger.Interface

	mu     sync.Mutex
	tokens map[string]string
}

func NewRedisLocker(client *redis.Client, log logger.Interface) *RedisLocker {
	return &RedisLocker{
		client: client,
		logger: log,
		tokens: make(map[string]string),
	}
}

func (l *RedisLocker) Acquire(ctx context.Context, name string, ttl time.Duration) (bool, error) {
	token := uuid.NewString()

	acquired, err := l.client.SetNX(ctx, name, token, ttl).Result()
	if err != nil {
		return false, fmt.Errorf("failed to acquire lock %q: %w", name, err)
	}
	if !acquired {
		return false, nil
	}

	l.mu.Lock()
	l.tokens[name] = token
	l.mu.Unlock()

	l.logger.Debugw("lock acquired", "lock", name, "ttl", ttl)
	return true, nil
}

func (l *RedisLocker) Release(ctx context.Context, name string) error {
	l.mu.Lock()
	token, ok := l.tokens[name]
	delete(l.tokens, name)
	l.mu.Unlock()

	if !ok {
		return nil
	}

	if err := l.client.Eval(ctx, releaseScript, []string{name}, token).Err(); err != nil {
		l.logger.Errorw("failed to release lock", "lock", name, "error", err)
		return fmt.Errorf("failed to release lock %q: %w", name, err)
	}

	l.logger.Debugw("lock released", "lock", name)
	return nil
}
