package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// RotationConfig controls log file rotation behavior.
type RotationConfig struct {
	// MaxSizeMB is the maximum size in megabytes before rotation.
	// Zero disables rotation.
	MaxSizeMB int

	// MaxBackups is the number of rotated files to keep.
	MaxBackups int
}

// DefaultRotationConfig returns sensible rotation defaults.
func DefaultRotationConfig() RotationConfig {
	return RotationConfig{
		MaxSizeMB:  10,
		MaxBackups: 3,
	}
}

// RotatingWriter is an io.Writer that rotates the underlying file when
// it exceeds a size threshold. Rotated files are renamed with numeric
// suffixes: flow.log.1 is the most recent backup, flow.log.2 the next,
// and so on up to MaxBackups.
type RotatingWriter struct {
	mu sync.Mutex

	filePath   string
	maxSizeB   int64
	maxBackups int

	file        *os.File
	currentSize int64
}

// NewRotatingWriter creates a writer that appends to the file at path,
// rotating it when it grows past config.MaxSizeMB.
func NewRotatingWriter(path string, config RotationConfig) (*RotatingWriter, error) {
	if config.MaxBackups < 0 {
		config.MaxBackups = 0
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create log directory: %w", err)
		}
	}

	w := &RotatingWriter{
		filePath:   path,
		maxSizeB:   int64(config.MaxSizeMB) * 1024 * 1024,
		maxBackups: config.MaxBackups,
	}

	if err := w.open(); err != nil {
		return nil, err
	}
	return w, nil
}

// open opens the log file for appending and records its current size.
// Caller must hold mu (or be the constructor).
func (w *RotatingWriter) open() error {
	file, err := os.OpenFile(w.filePath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}

	info, err := file.Stat()
	if err != nil {
		file.Close()
		return fmt.Errorf("failed to stat log file: %w", err)
	}

	w.file = file
	w.currentSize = info.Size()
	return nil
}

// Write appends p to the log file, rotating first if the write would
// push the file past the size threshold. A maxSizeB of 0 means the
// file grows without bound.
func (w *RotatingWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.file == nil {
		return 0, fmt.Errorf("writer is closed")
	}

	if w.maxSizeB > 0 && w.currentSize > 0 && w.currentSize+int64(len(p)) > w.maxSizeB {
		if err := w.rotate(); err != nil {
			if w.file == nil {
				return 0, err
			}
			// Rotation failure should not lose the log entry:
			// keep writing to the oversized file.
			n, werr := w.file.Write(p)
			w.currentSize += int64(n)
			return n, werr
		}
	}

	n, err := w.file.Write(p)
	w.currentSize += int64(n)
	return n, err
}

// rotate closes the current file, shifts existing backups up by one
// index, renames the current file to .1, and opens a fresh file.
// Caller must hold mu.
func (w *RotatingWriter) rotate() error {
	if err := w.file.Close(); err != nil {
		_ = w.open()
		return fmt.Errorf("failed to close log file for rotation: %w", err)
	}

	if w.maxBackups > 0 {
		// Delete the oldest backup, then shift the rest up.
		oldest := fmt.Sprintf("%s.%d", w.filePath, w.maxBackups)
		if err := os.Remove(oldest); err != nil && !os.IsNotExist(err) {
			_ = w.open()
			return fmt.Errorf("failed to remove oldest backup: %w", err)
		}

		for i := w.maxBackups - 1; i >= 1; i-- {
			src := fmt.Sprintf("%s.%d", w.filePath, i)
			dst := fmt.Sprintf("%s.%d", w.filePath, i+1)
			if err := os.Rename(src, dst); err != nil && !os.IsNotExist(err) {
				w.open()
				return fmt.Errorf("failed to shift backup %s: %w", src, err)
			}
		}

		if err := os.Rename(w.filePath, w.filePath+".1"); err != nil && !os.IsNotExist(err) {
			_ = w.open()
			return fmt.Errorf("failed to rename current log: %w", err)
		}
	} else {
		// No backups configured: discard the full file.
		if err := os.Remove(w.filePath); err != nil && !os.IsNotExist(err) {
			_ = w.open()
			return fmt.Errorf("failed to remove current log: %w", err)
		}
	}

	return w.open()
}

// Sync flushes the current file to disk.
func (w *RotatingWriter) Sync() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.file == nil {
		return nil
	}
	return w.file.Sync()
}

// Close closes the underlying file. Subsequent writes return an error.
func (w *RotatingWriter) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.file == nil {
		return nil
	}
	err := w.file.Close()
	w.file = nil
	return err
}

// CurrentSize returns the current size of the active log file in bytes.
func (w *RotatingWriter) CurrentSize() int64 {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.currentSize
}

// FilePath returns the path of the active log file.
func (w *RotatingWriter) FilePath() string {
	return w.filePath
}
