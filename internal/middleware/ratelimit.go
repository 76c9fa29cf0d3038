package middleware

import (
	"context"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// MemoryLimiter counts attempts per key inside a sliding window. It serves a
// single process; use RedisLimiter when several instances share the limit.
type MemoryLimiter struct {
	attempts    map[string][]time.Time
	mutex       sync.Mutex
	maxAttempts int
	window      time.Duration
	now         func() time.Time
	stop        chan struct{}
	stopOnce    sync.Once
}

// NewMemoryLimiter creates a limiter and starts its cleanup goroutine. Call Close to stop it.
func NewMemoryLimiter(maxAttempts int, window time.Duration) *MemoryLimiter {
	rl := &MemoryLimiter{
		attempts:    make(map[string][]time.Time),
		maxAttempts: maxAttempts,
		window:      window,
		now:         time.Now,
		stop:        make(chan struct{}),
	}

	go rl.cleanup()

	return rl
}

// Allow records an attempt for key and reports whether it is within the limit
func (rl *MemoryLimiter) Allow(_ context.Context, key string) (bool, error) {
	rl.mutex.Lock()
	defer rl.mutex.Unlock()

	now := rl.now()
	valid := rl.validAttempts(key, now)
	if len(valid) >= rl.maxAttempts {
		rl.attempts[key] = valid
		return false, nil
	}

	rl.attempts[key] = append(valid, now)
	return true, nil
}

// Reset forgets all attempts for key
func (rl *MemoryLimiter) Reset(_ context.Context, key string) error {
	rl.mutex.Lock()
	defer rl.mutex.Unlock()

	delete(rl.attempts, key)
	return nil
}

// RetryAfter returns the time until the next attempt for key is allowed
func (rl *MemoryLimiter) RetryAfter(_ context.Context, key string) (time.Duration, error) {
	rl.mutex.Lock()
	defer rl.mutex.Unlock()

	now := rl.now()
	valid := rl.validAttempts(key, now)
	if len(valid) < rl.maxAttempts || len(valid) == 0 {
		return 0, nil
	}
	// The oldest attempt in the window is the first to expire
	return valid[0].Add(rl.window).Sub(now), nil
}

// Close stops the cleanup goroutine
func (rl *MemoryLimiter) Close() {
	rl.stopOnce.Do(func() { close(rl.stop) })
}

func (rl *MemoryLimiter) validAttempts(key string, now time.Time) []time.Time {
	cutoff := now.Add(-rl.window)
	var valid []time.Time
	for _, attempt := range rl.attempts[key] {
		if attempt.After(cutoff) {
			valid = append(valid, attempt)
		}
	}
	return valid
}

// cleanup removes old entries periodically
func (rl *MemoryLimiter) cleanup() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-rl.stop:
			return
		case <-ticker.C:
			rl.prune()
		}
	}
}

func (rl *MemoryLimiter) prune() {
	rl.mutex.Lock()
	defer rl.mutex.Unlock()

	now := rl.now()
	for key := range rl.attempts {
		valid := rl.validAttempts(key, now)
		if len(valid) == 0 {
			delete(rl.attempts, key)
		} else {
			rl.attempts[key] = valid
		}
	}
}

// RedisClient is the part of the go-redis client RedisLimiter needs
type RedisClient interface {
	Eval(ctx context.Context, script string, keys []string, args ...interface{}) *redis.Cmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
	PTTL(ctx context.Context, key string) *redis.DurationCmd
}

// Fixed window counter: the first attempt starts the window, later ones only count.
const fixedWindowScript = `
local current = redis.call('INCR', KEYS[1])
if current == 1 then
	redis.call('PEXPIRE', KEYS[1], ARGV[1])
end
return current
`

// RedisLimiter shares attempt counts between server instances
type RedisLimiter struct {
	client      RedisClient
	prefix      string
	maxAttempts int
	window      time.Duration
}

func NewRedisLimiter(client RedisClient, maxAttempts int, window time.Duration) *RedisLimiter {
	return &RedisLimiter{
		client:      client,
		prefix:      "moviestore:limit:",
		maxAttempts: maxAttempts,
		window:      window,
	}
}

// Allow records an attempt for key and reports whether it is within the limit
func (rl *RedisLimiter) Allow(ctx context.Context, key string) (bool, error) {
	count, err := rl.client.Eval(ctx, fixedWindowScript, []string{rl.prefix + key}, rl.window.Milliseconds()).Int64()
	if err != nil {
		return false, fmt.Errorf("failed to count attempt: %w", err)
	}
	return count <= int64(rl.maxAttempts), nil
}

// Reset forgets all attempts for key
func (rl *RedisLimiter) Reset(ctx context.Context, key string) error {
	if err := rl.client.Del(ctx, rl.prefix+key).Err(); err != nil {
		return fmt.Errorf("failed to reset attempts: %w", err)
	}
	return nil
}

// RetryAfter returns the time left in the current window for key. It is zero
// when key has no open window.
func (rl *RedisLimiter) RetryAfter(ctx context.Context, key string) (time.Duration, error) {
	ttl, err := rl.client.PTTL(ctx, rl.prefix+key).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to read attempt window: %w", err)
	}
	// PTTL reports -1 and -2 for keys without expiry or missing keys
	if ttl < 0 {
		return 0, nil
	}
	return ttl, nil
}

// Limiter is implemented by MemoryLimiter and RedisLimiter
type Limiter interface {
	Allow(ctx context.Context, key string) (bool, error)
	Reset(ctx context.Context, key string) error
	RetryAfter(ctx context.Context, key string) (time.Duration, error)
}

// LoginRateLimit throttles POST requests per client IP. A failing limiter lets
// the request through.
func LoginRateLimit(limiter Limiter, logger zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// Only apply rate limiting to POST requests (login attempts)
			if r.Method != http.MethodPost {
				next.ServeHTTP(w, r)
				return
			}

			ip := getClientIP(r)
			key := "login:" + ip
			allowed, err := limiter.Allow(r.Context(), key)
			if err != nil {
				logger.Warn().Err(err).Str("ip", ip).Msg("login rate limiter unavailable")
			} else if !allowed {
				if wait, err := limiter.RetryAfter(r.Context(), key); err == nil && wait > 0 {
					w.Header().Set("Retry-After", strconv.Itoa(int(math.Ceil(wait.Seconds()))))
				}
				writeError(w, http.StatusTooManyRequests, "too many login attempts, please try again later")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
