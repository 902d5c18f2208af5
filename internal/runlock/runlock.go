// Package runlock serializes graph-mutating runs across recroute processes
// with an advisory file lock.
package runlock

import (
	"errors"
	"fmt"

	"github.com/gofrs/flock"
)

// ErrBusy reports that another process holds the lock.
var ErrBusy = errors.New("another recroute run is in progress")

// Lock guards one reconfigure or launch at a time.
type Lock struct {
	path string
	lock *flock.Flock
}

// New returns an unlocked handle for path.
func New(path string) *Lock {
	return &Lock{path: path, lock: flock.New(path)}
}

// Path returns the lock file location.
func (l *Lock) Path() string {
	return l.path
}

// TryAcquire takes the lock without blocking.
func (l *Lock) TryAcquire() error {
	ok, err := l.lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return fmt.Errorf("%w (lock %s)", ErrBusy, l.path)
	}
	return nil
}

// Release drops the lock. Releasing an unheld lock is a no-op.
func (l *Lock) Release() error {
	if !l.lock.Locked() {
		return nil
	}
	if err := l.lock.Unlock(); err != nil {
		return fmt.Errorf("release lock: %w", err)
	}
	return nil
}

// Held reports whether this handle holds the lock.
func (l *Lock) Held() bool {
	return l.lock.Locked()
}

// Busy reports whether some other handle currently holds the lock at path.
func Busy(path string) (bool, error) {
	probe := flock.New(path)
	ok, err := probe.TryLock()
	if err != nil {
		return false, fmt.Errorf("probe lock: %w", err)
	}
	if !ok {
		return true, nil
	}
	if err := probe.Unlock(); err != nil {
		return false, fmt.Errorf("release probe lock: %w", err)
	}
	return false, nil
}
