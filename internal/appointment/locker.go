package appointment

import (
	"context"
)

// Locker serializes writes on the salon timeline so a conflict check and the
// write that follows it cannot interleave with another writer.
type Locker interface {
	WithTimelineLock(ctx context.Context, fn func(ctx context.Context) error) error
}

// LocalLocker guards the timeline within a single process. Waiters give up
// when their context ends, like the Redis locker does.
type LocalLocker struct {
	sem chan struct{}
}

func NewLocalLocker() *LocalLocker {
	return &LocalLocker{sem: make(chan struct{}, 1)}
}

func (l *LocalLocker) WithTimelineLock(ctx context.Context, fn func(ctx context.Context) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	select {
	case l.sem <- struct{}{}:
	case <-ctx.Done():
		return ctx.Err()
	}
	defer func() { <-l.sem }()
	return fn(ctx)
}
