// Package lock keeps two sendtoftrack runs from racing on the same
// plugin directory.
package lock

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"

	"github.com/steveyegge/sendtoftrack/internal/constants"
)

// DefaultTimeout bounds how long Acquire waits for another run to finish.
const DefaultTimeout = 5 * time.Second

// retryDelay is the poll interval while the lock is held elsewhere.
const retryDelay = 100 * time.Millisecond

// ErrHeld is returned when another process holds the lock past the timeout.
type ErrHeld struct {
	Path string
}

func (e *ErrHeld) Error() string {
	return fmt.Sprintf("lock held by another run: %s", e.Path)
}

// DefaultPath returns the lock file location in the OS temp directory.
func DefaultPath() string {
	return filepath.Join(os.TempDir(), constants.LockFileName)
}

// Acquire takes an exclusive advisory lock on path, retrying until timeout.
// The caller must Unlock the returned lock.
func Acquire(ctx context.Context, path string, timeout time.Duration) (*flock.Flock, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("creating lock directory: %w", err)
	}

	lock := flock.New(path)

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	locked, err := lock.TryLockContext(ctx, retryDelay)
	if err != nil && ctx.Err() == nil {
		return nil, fmt.Errorf("lock acquisition failed: %w", err)
	}
	if !locked {
		return nil, &ErrHeld{Path: path}
	}

	return lock, nil
}
