package state

// TaskStatus is the lifecycle state of a single task. The string values are
// the stable encodings used in the state file; changing one breaks resume
// for existing runs.
type TaskStatus string

const (
	// StatusPending means the task has not started an attempt yet.
	StatusPending TaskStatus = "pending"
	// StatusRunning means the first attempt is in flight.
	StatusRunning TaskStatus = "running"
	// StatusRetrying means a second or later attempt is in flight.
	StatusRetrying TaskStatus = "retrying"
	// StatusDone means an attempt exited cleanly. Done tasks are never
	// re-run, not even on resume.
	StatusDone TaskStatus = "done"
	// StatusFailed means every allowed attempt was used without success.
	StatusFailed TaskStatus = "failed"
)

// ValidStatuses returns every known status in lifecycle order.
func ValidStatuses() []TaskStatus {
	return []TaskStatus{
		StatusPending,
		StatusRunning,
		StatusRetrying,
		StatusDone,
		StatusFailed,
	}
}

// IsValid reports whether s is a known status encoding.
func (s TaskStatus) IsValid() bool {
	switch s {
	case StatusPending, StatusRunning, StatusRetrying, StatusDone, StatusFailed:
		return true
	}
	return false
}

// IsTerminal reports whether s is a final state that no further attempt
// will change.
func (s TaskStatus) IsTerminal() bool {
	return s == StatusDone || s == StatusFailed
}

// String returns the stable encoding.
func (s TaskStatus) String() string {
	return string(s)
}
