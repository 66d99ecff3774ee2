package redisclient

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

var (
	ErrLockNotAcquired = errors.New("timeline lock not acquired")
)

const defaultPollInterval = 25 * time.Millisecond

// TimelineLocker is a Redis mutex over one booking timeline, shared by every
// api-server instance. Writers wait up to the configured wait time for it.
type TimelineLocker struct {
	client *redis.Client
	key    string
	ttl    time.Duration
	wait   time.Duration
	poll   time.Duration
}

// NewTimelineLocker creates a locker keyed by timeline name. ttl bounds how
// long a crashed holder can block others; wait bounds how long a caller
// retries before giving up with ErrLockNotAcquired.
func NewTimelineLocker(client *redis.Client, timeline string, ttl, wait time.Duration) *TimelineLocker {
	return &TimelineLocker{
		client: client,
		key:    fmt.Sprintf("lock:timeline:%s", timeline),
		ttl:    ttl,
		wait:   wait,
		poll:   defaultPollInterval,
	}
}

func (l *TimelineLocker) WithTimelineLock(ctx context.Context, fn func(ctx context.Context) error) error {
	token := uuid.NewString()

	if err := l.acquire(ctx, token); err != nil {
		return err
	}

	defer func() {
		// release on a fresh context so a cancelled request still frees the key
		releaseCtx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = l.release(releaseCtx, token)
	}()

	ctxWithTimeout, cancel := context.WithTimeout(ctx, l.ttl)
	defer cancel()

	return fn(ctxWithTimeout)
}

func (l *TimelineLocker) acquire(ctx context.Context, token string) error {
	deadline := time.Now().Add(l.wait)

	for {
		ok, err := l.client.SetNX(ctx, l.key, token, l.ttl).Result()
		if err != nil {
			return fmt.Errorf("acquire timeline lock: %w", err)
		}
		if ok {
			return nil
		}
		if !time.Now().Before(deadline) {
			return ErrLockNotAcquired
		}

		timer := time.NewTimer(l.poll)
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

func (l *TimelineLocker) release(ctx context.Context, token string) error {
	_, err := unlockScript.Run(ctx, l.client, []string{l.key}, token).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return fmt.Errorf("release timeline lock: %w", err)
	}
	return nil
}
