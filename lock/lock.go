package lock

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
)

// FileName is the lock file created in the cache directory
const FileName = ".configs.lock"

// ErrLocked is returned when another process already holds the lock
var ErrLocked = errors.New("another configs run is in progress")

// SingleInstance guards a directory against concurrent runs
type SingleInstance struct {
	fileLock *flock.Flock
}

// NewSingleInstance prepares a lock file inside dir
func NewSingleInstance(dir string) *SingleInstance {
	return &SingleInstance{
		fileLock: flock.New(filepath.Join(dir, FileName)),
	}
}

// Path returns the lock file location
func (si *SingleInstance) Path() string {
	return si.fileLock.Path()
}

// Lock takes the lock without waiting
func (si *SingleInstance) Lock() error {
	if err := os.MkdirAll(filepath.Dir(si.fileLock.Path()), 0755); err != nil {
		return fmt.Errorf("failed to create lock directory: %w", err)
	}

	locked, err := si.fileLock.TryLock()
	if err != nil {
		return fmt.Errorf("failed to lock %s: %w", si.fileLock.Path(), err)
	}
	if !locked {
		return fmt.Errorf("%w (lock file: %s)", ErrLocked, si.fileLock.Path())
	}
	return nil
}

// Release drops the lock, it is safe to call when the lock is not held
func (si *SingleInstance) Release() error {
	if si.fileLock == nil {
		return nil
	}
	return si.fileLock.Unlock()
}
