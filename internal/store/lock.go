package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gofrs/flock"
)

// DefaultLockTimeout bounds how long a run waits for another run to finish.
const DefaultLockTimeout = 5 * time.Second

// ErrLocked means another process kept the lock for the whole timeout.
var ErrLocked = errors.New("another autosync run holds the lock")

// WithLock runs fn while holding an exclusive lock on target+".lock".
func WithLock(ctx context.Context, target string, timeout time.Duration, fn func() error) error {
	lock := flock.New(target + ".lock")

	waitCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	ok, err := lock.TryLockContext(waitCtx, 100*time.Millisecond)
	switch {
	case ok:
	case err == nil, errors.Is(err, context.DeadlineExceeded):
		return fmt.Errorf("%w: %s", ErrLocked, lock.Path())
	default:
		return fmt.Errorf("locking %s: %w", lock.Path(), err)
	}
	defer lock.Unlock()

	return fn()
}
