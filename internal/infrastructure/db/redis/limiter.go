package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	defaultMaxAttempts = 5
	defaultWindow      = 15 * time.Minute
	keyPrefix          = "auth:attempts:"
)

// INCR the counter and start the window on the first hit, atomically.
// Returns the count after increment.
var incrWindow = redis.NewScript(`
local c = redis.call("INCR", KEYS[1])
if c == 1 then
  redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
return c
`)

// AttemptLimiter is a fixed-window attempt counter backed by Redis.
// Key format: auth:attempts:<key>
type AttemptLimiter struct {
	client      *redis.Client
	maxAttempts int
	window      time.Duration
}

// NewAttemptLimiter allows maxAttempts per key within window. A nil client
// allows every attempt.
func NewAttemptLimiter(client *redis.Client, maxAttempts int, window time.Duration) *AttemptLimiter {
	if maxAttempts <= 0 {
		maxAttempts = defaultMaxAttempts
	}
	if window <= 0 {
		window = defaultWindow
	}
	return &AttemptLimiter{client: client, maxAttempts: maxAttempts, window: window}
}

// Allow counts one attempt against key and reports whether it is within the
// limit for the current window.
func (l *AttemptLimiter) Allow(ctx context.Context, key string) (bool, error) {
	if l.client == nil {
		return true, nil
	}
	n, err := incrWindow.Run(ctx, l.client, []string{l.key(key)}, l.window.Milliseconds()).Int64()
	if err != nil {
		return false, fmt.Errorf("attempt limiter: %w", err)
	}
	return n <= int64(l.maxAttempts), nil
}

// Reset clears the counter for key, e.g. after a successful login.
func (l *AttemptLimiter) Reset(ctx context.Context, key string) error {
	if l.client == nil {
		return nil
	}
	if err := l.client.Del(ctx, l.key(key)).Err(); err != nil {
		return fmt.Errorf("attempt limiter reset: %w", err)
	}
	return nil
}

func (l *AttemptLimiter) key(key string) string {
	return keyPrefix + key
}
