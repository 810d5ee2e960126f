package filelock

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"syscall"
)

// ErrLocked is returned when the lock is held by a live process.
var ErrLocked = errors.New("lock already held")

// Suffix is appended to the guarded file's path to form the lock file path.
const Suffix = ".lock"

// Lock is an advisory process lock stored beside the file it guards. It
// keeps two processes apart, not two goroutines; Acquire is not
// reentrant.
type Lock struct {
	path string
	held bool
}

// New returns a lock guarding the file at path. The lock file itself
// lives at path + Suffix.
func New(path string) *Lock {
	return &Lock{path: path + Suffix}
}

// Path returns the lock file location.
func (l *Lock) Path() string {
	return l.path
}

// Acquire takes the lock, writing this process's ID into the lock file.
// A lock file left behind by a dead process is removed and retaken.
// Returns ErrLocked when a live process holds the lock.
func (l *Lock) Acquire() error {
	for range 2 {
		f, err := os.OpenFile(l.path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
		if err == nil {
			if _, werr := fmt.Fprintf(f, "%d\n", os.Getpid()); werr != nil {
				_ = f.Close()
				_ = os.Remove(l.path)
				return fmt.Errorf("write lock file: %w", werr)
			}
			if cerr := f.Close(); cerr != nil {
				_ = os.Remove(l.path)
				return fmt.Errorf("close lock file: %w", cerr)
			}
			l.held = true
			return nil
		}
		if !os.IsExist(err) {
			return err
		}

		if pid, ok := l.Owner(); ok && processAlive(pid) {
			return fmt.Errorf("%w: pid %d", ErrLocked, pid)
		}
		// Holder is gone or the file is garbage: clear it and retry.
		if err := os.Remove(l.path); err != nil && !os.IsNotExist(err) {
			return err
		}
	}
	return ErrLocked
}

// Release removes the lock file. Releasing a lock that was never
// acquired is a no-op.
func (l *Lock) Release() error {
	if !l.held {
		return nil
	}
	l.held = false
	if err := os.Remove(l.path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// Owner returns the process ID recorded in the lock file. ok is false
// when no lock file exists or its contents do not parse as a positive
// integer.
func (l *Lock) Owner() (pid int, ok bool) {
	data, err := os.ReadFile(l.path)
	if err != nil {
		return 0, false
	}
	pid, err = strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil || pid <= 0 {
		return 0, false
	}
	return pid, true
}

// processAlive probes pid with signal 0. EPERM counts as alive: the
// process exists even though it is not ours to signal.
func processAlive(pid int) bool {
	if pid <= 0 {
		return false
	}
	proc, err := os.FindProcess(pid)
	if err != nil {
		return false
	}
	err = proc.Signal(syscall.Signal(0))
	if err == nil {
		return true
	}
	if errors.Is(err, os.ErrProcessDone) {
		return false
	}
	var errno syscall.Errno
	return errors.As(err, &errno) && errno == syscall.EPERM
}
