package state

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/Iron-Ham/taskflow/internal/logging"
)

// record is the wire form of a task result. Output and error text are not
// persisted: a resumed run only needs to know what already finished and
// how many attempts it took.
type record struct {
	Status    string   `json:"status"`
	Attempts  int      `json:"attempts"`
	StartTime *float64 `json:"start_time"`
	EndTime   *float64 `json:"end_time"`
}

// Store reads and writes the state file that carries task results between
// runs. Save and Clear are safe to call from concurrent task goroutines.
type Store struct {
	mu     sync.Mutex
	path   string
	logger *logging.Logger
}

// NewStore returns a store backed by the file at path.
func NewStore(path string, logger *logging.Logger) *Store {
	if logger == nil {
		logger = logging.NopLogger()
	}
	return &Store{path: path, logger: logger}
}

// Path returns the state file location.
func (s *Store) Path() string {
	return s.path
}

// Save writes a snapshot of results to the state file. The write is
// atomic: the snapshot lands in a temp file in the same directory and is
// renamed over the previous state, so a crash mid-write never leaves a
// truncated file behind.
func (s *Store) Save(results map[string]TaskResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	records := make(map[string]record, len(results))
	for id, r := range results {
		records[id] = record{
			Status:    string(r.Status),
			Attempts:  r.Attempts,
			StartTime: r.StartTime,
			EndTime:   r.EndTime,
		}
	}
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal state: %w", err)
	}
	data = append(data, '\n')
	if err := writeFileAtomic(s.path, data, 0o644); err != nil {
		return fmt.Errorf("write state: %w", err)
	}
	return nil
}

// Load reads the previous run's results. It never fails: a missing file
// means a fresh start, and an unreadable or corrupt one is logged and
// treated the same way. A single bad record discards the whole file, since
// partial state is worse than none.
func (s *Store) Load() map[string]TaskResult {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			s.logger.Info("no previous run")
			return map[string]TaskResult{}
		}
		s.logger.Warn("resume failed", "error", err)
		return map[string]TaskResult{}
	}

	var records map[string]record
	if err := json.Unmarshal(data, &records); err != nil {
		s.logger.Warn("resume failed", "error", err)
		return map[string]TaskResult{}
	}

	results := make(map[string]TaskResult, len(records))
	for id, rec := range records {
		status := TaskStatus(rec.Status)
		if !status.IsValid() {
			s.logger.Warn("resume failed", "error", fmt.Errorf("unknown status %q for task %s", rec.Status, id))
			return map[string]TaskResult{}
		}
		results[id] = TaskResult{
			TaskID:    id,
			Status:    status,
			Attempts:  rec.Attempts,
			StartTime: rec.StartTime,
			EndTime:   rec.EndTime,
		}
	}
	s.logger.Info("resumed tasks", "count", len(results))
	return results
}

// Clear removes the state file. A missing file is not an error.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

func writeFileAtomic(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp.*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	committed := false
	defer func() {
		_ = tmp.Close()
		if !committed {
			_ = os.Remove(tmpName)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		return err
	}
	if err := tmp.Chmod(perm); err != nil {
		return err
	}
	if err := tmp.Sync(); err != nil {
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		return err
	}
	committed = true
	return nil
}
