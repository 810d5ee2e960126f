package state

import (
	"sync"
	"time"
)

// TaskResult records the outcome of a single task across its attempts.
//
// StartTime and EndTime are seconds since the Unix epoch; nil means the
// boundary has not been reached. StartTime is reset at the start of every
// attempt, while EndTime is only set when the task gives up for good.
// Output and Error hold the most recent attempt's combined output and
// failure reason.
type TaskResult struct {
	TaskID    string
	Status    TaskStatus
	Attempts  int
	StartTime *float64
	EndTime   *float64
	Output    string
	Error     string
}

// NewTaskResult returns a pending result with no attempts recorded.
func NewTaskResult(taskID string) TaskResult {
	return TaskResult{TaskID: taskID, Status: StatusPending}
}

// Duration returns the seconds between start and end, or 0 if either
// boundary is unset.
func (r TaskResult) Duration() float64 {
	if r.StartTime == nil || r.EndTime == nil {
		return 0
	}
	return *r.EndTime - *r.StartTime
}

// Now returns the wall clock as seconds since the Unix epoch.
func Now() float64 {
	return float64(time.Now().UnixNano()) / float64(time.Second)
}

// Time converts epoch seconds back to a time.Time.
func Time(epoch float64) time.Time {
	return time.Unix(0, int64(epoch*float64(time.Second)))
}

// ResultMap is a concurrency-safe map of task results keyed by task ID.
// Results are copied in and out, so a caller can mutate a returned value
// freely and publish it back with Set. Timestamp pointers are shared by
// those copies; assign a fresh pointer rather than writing through one.
type ResultMap struct {
	mu      sync.Mutex
	results map[string]TaskResult
}

// NewResultMap returns an empty map.
func NewResultMap() *ResultMap {
	return &ResultMap{results: make(map[string]TaskResult)}
}

// Get returns a copy of the result for taskID.
func (m *ResultMap) Get(taskID string) (TaskResult, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.results[taskID]
	return r, ok
}

// Set stores a copy of result, keyed by its TaskID.
func (m *ResultMap) Set(result TaskResult) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.results[result.TaskID] = result
}

// Len returns the number of tasks with a recorded result.
func (m *ResultMap) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.results)
}

// Snapshot returns an independent copy of the current contents, suitable
// for persisting while other goroutines keep writing.
func (m *ResultMap) Snapshot() map[string]TaskResult {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[string]TaskResult, len(m.results))
	for id, r := range m.results {
		out[id] = r
	}
	return out
}

// CountByStatus tallies results per status. Every known status appears in
// the returned map, zero-valued when absent.
func (m *ResultMap) CountByStatus() map[TaskStatus]int {
	m.mu.Lock()
	defer m.mu.Unlock()
	counts := make(map[TaskStatus]int, len(ValidStatuses()))
	for _, s := range ValidStatuses() {
		counts[s] = 0
	}
	for _, r := range m.results {
		counts[r.Status]++
	}
	return counts
}
