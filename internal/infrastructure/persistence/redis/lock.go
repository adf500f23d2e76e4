package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/alem-hub/petquest/pkg/retry"
)

// releaseScript deletes the lock only if it is still owned by the caller.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// renewScript pushes the expiry forward only while the caller owns the lock.
var renewScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("PEXPIRE", KEYS[1], ARGV[2])
end
return 0
`)

// Lock is a single-key mutual exclusion lock. The TTL bounds how long a
// crashed owner can block others; a live owner renews it every TTL/3 until
// release, so long cycles keep the lock.
type Lock struct {
	client   redis.UniversalClient
	key      string
	ttl      time.Duration
	attempts int
	delay    time.Duration
}

// NewLock creates a lock on key.
func NewLock(client redis.UniversalClient, key string, ttl time.Duration) *Lock {
	if ttl <= 0 {
		ttl = TTLDistributedLock
	}
	return &Lock{
		client:   client,
		key:      key,
		ttl:      ttl,
		attempts: 50,
		delay:    20 * time.Millisecond,
	}
}

// WithRetry sets how often and how fast Acquire polls a busy lock.
func (l *Lock) WithRetry(attempts int, delay time.Duration) *Lock {
	l.attempts = attempts
	l.delay = delay
	return l
}

// Acquire blocks until the lock is taken, the attempts run out (ErrLockBusy)
// or ctx is done. The returned function stops renewal and releases the lock.
func (l *Lock) Acquire(ctx context.Context) (func(context.Context) error, error) {
	token := uuid.NewString()

	err := retry.Do(ctx, func(ctx context.Context) error {
		ok, err := l.client.SetNX(ctx, l.key, token, l.ttl).Result()
		if err != nil {
			return err
		}
		if !ok {
			return retry.Retryable(ErrLockBusy)
		}
		return nil
	},
		retry.WithMaxAttempts(l.attempts),
		retry.WithInitialDelay(l.delay),
		retry.WithMaxDelay(250*time.Millisecond),
	)
	if err != nil {
		return nil, fmt.Errorf("acquire %s: %w", l.key, err)
	}

	stop := l.keepAlive(ctx, token)

	release := func(ctx context.Context) error {
		stop()
		if err := releaseScript.Run(ctx, l.client, []string{l.key}, token).Err(); err != nil {
			return fmt.Errorf("release %s: %w", l.key, err)
		}
		return nil
	}
	return release, nil
}

// keepAlive renews the lock every TTL/3 until the returned stop is called or
// ownership is lost. Stop waits for the renewer to exit.
func (l *Lock) keepAlive(ctx context.Context, token string) (stop func()) {
	ctx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	done := make(chan struct{})

	go func() {
		defer close(done)

		ticker := time.NewTicker(max(l.ttl/3, time.Millisecond))
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				n, err := renewScript.Run(ctx, l.client, []string{l.key}, token, l.ttl.Milliseconds()).Int()
				if err != nil || n == 0 {
					return
				}
			}
		}
	}()

	return func() {
		cancel()
		<-done
	}
}
