package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// Log level constants.
const (
	LevelDebug = "DEBUG"
	LevelInfo  = "INFO"
	LevelWarn  = "WARN"
	LevelError = "ERROR"
)

// logSink is the destination a Logger writes to. Both *os.File and
// *RotatingWriter satisfy it.
type logSink interface {
	io.Writer
	Sync() error
	Close() error
}

// Logger wraps slog.Logger with taskflow-specific functionality.
type Logger struct {
	logger *slog.Logger

	// sink is the underlying log destination, nil when logging to
	// stderr or discarding output.
	sink logSink

	// mu protects sink during Close operations.
	mu sync.Mutex

	// attrs are persistent attributes added to all log entries.
	attrs []slog.Attr
}

// NewLogger creates a logger that appends JSON entries to the file at
// path. If path is empty, logs go to stderr. The level parameter
// controls the minimum log level (DEBUG, INFO, WARN, ERROR).
func NewLogger(path string, level string) (*Logger, error) {
	var sink logSink
	var output io.Writer

	if path != "" {
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return nil, fmt.Errorf("failed to create log directory: %w", err)
			}
		}

		file, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
		if err != nil {
			return nil, fmt.Errorf("failed to open log file: %w", err)
		}
		sink = file
		output = file
	} else {
		output = os.Stderr
	}

	handler := slog.NewJSONHandler(output, &slog.HandlerOptions{
		Level: parseLevel(level),
	})

	return &Logger{
		logger: slog.New(handler),
		sink:   sink,
	}, nil
}

// NewLoggerWithRotation creates a logger backed by a size-rotating log
// file. Rotation settings come from config; see RotationConfig for the
// defaults.
func NewLoggerWithRotation(path string, level string, config RotationConfig) (*Logger, error) {
	writer, err := NewRotatingWriter(path, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create rotating writer: %w", err)
	}

	handler := slog.NewJSONHandler(writer, &slog.HandlerOptions{
		Level: parseLevel(level),
	})

	return &Logger{
		logger: slog.New(handler),
		sink:   writer,
	}, nil
}

// parseLevel converts a string level to slog.Level.
func parseLevel(level string) slog.Level {
	switch strings.ToUpper(level) {
	case LevelDebug:
		return slog.LevelDebug
	case LevelWarn:
		return slog.LevelWarn
	case LevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// WithTask returns a logger with the task ID attached to all entries.
func (l *Logger) WithTask(taskID string) *Logger {
	return l.withAttr(slog.String("task", taskID))
}

// WithLevel returns a logger with the execution level index attached to
// all entries. The attribute key avoids "level", which slog uses for
// the severity name.
func (l *Logger) WithLevel(level int) *Logger {
	return l.withAttr(slog.Int("run_level", level))
}

// With returns a logger with additional key-value pairs attached to all entries.
func (l *Logger) With(args ...any) *Logger {
	newAttrs := make([]slog.Attr, 0, len(args)/2)
	for i := 0; i+1 < len(args); i += 2 {
		key, ok := args[i].(string)
		if !ok {
			continue
		}
		newAttrs = append(newAttrs, slog.Any(key, args[i+1]))
	}

	attrs := make([]slog.Attr, 0, len(l.attrs)+len(newAttrs))
	attrs = append(attrs, l.attrs...)
	attrs = append(attrs, newAttrs...)

	return &Logger{
		logger: l.logger,
		sink:   l.sink,
		attrs:  attrs,
	}
}

// withAttr returns a copy of the logger with an additional persistent attribute.
func (l *Logger) withAttr(attr slog.Attr) *Logger {
	attrs := make([]slog.Attr, 0, len(l.attrs)+1)
	attrs = append(attrs, l.attrs...)
	attrs = append(attrs, attr)

	return &Logger{
		logger: l.logger,
		sink:   l.sink,
		attrs:  attrs,
	}
}

// Debug logs a debug-level message.
func (l *Logger) Debug(msg string, args ...any) {
	l.log(slog.LevelDebug, msg, args...)
}

// Info logs an info-level message.
func (l *Logger) Info(msg string, args ...any) {
	l.log(slog.LevelInfo, msg, args...)
}

// Warn logs a warning-level message.
func (l *Logger) Warn(msg string, args ...any) {
	l.log(slog.LevelWarn, msg, args...)
}

// Error logs an error-level message.
func (l *Logger) Error(msg string, args ...any) {
	l.log(slog.LevelError, msg, args...)
}

// log emits a log entry with persistent attributes and additional args.
func (l *Logger) log(level slog.Level, msg string, args ...any) {
	allArgs := make([]any, 0, len(l.attrs)*2+len(args))
	for _, attr := range l.attrs {
		allArgs = append(allArgs, attr.Key, attr.Value.Any())
	}
	allArgs = append(allArgs, args...)

	l.logger.Log(context.Background(), level, msg, allArgs...)
}

// Close flushes and closes the underlying log destination. Safe to call
// multiple times; only the first call has an effect.
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.sink == nil {
		return nil
	}

	if err := l.sink.Sync(); err != nil {
		l.sink.Close()
		l.sink = nil
		return fmt.Errorf("failed to sync log file: %w", err)
	}

	err := l.sink.Close()
	l.sink = nil
	if err != nil {
		return fmt.Errorf("failed to close log file: %w", err)
	}
	return nil
}

// NopLogger returns a logger that discards all output. Useful for tests.
func NopLogger() *Logger {
	handler := slog.NewJSONHandler(io.Discard, &slog.HandlerOptions{
		Level: slog.LevelError,
	})
	return &Logger{
		logger: slog.New(handler),
	}
}

// ParseLevel normalizes a log level string, falling back to INFO for
// unknown values.
func ParseLevel(level string) string {
	normalized := strings.ToUpper(strings.TrimSpace(level))
	switch normalized {
	case LevelDebug, LevelInfo, LevelWarn, LevelError:
		return normalized
	default:
		return LevelInfo
	}
}

// ValidLevels returns the list of valid log level strings.
func ValidLevels() []string {
	return []string{LevelDebug, LevelInfo, LevelWarn, LevelError}
}
