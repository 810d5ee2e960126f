// Package logging provides structured logging for taskflow runs.
//
// This package wraps Go's log/slog to provide JSON-formatted logs with
// context propagation support for debugging and post-hoc analysis. Every
// run appends to a single log file (flow.log by default) so a failed
// pipeline can be reconstructed after the fact.
//
// # Thread Safety
//
// All types in this package are safe for concurrent use. The [Logger] type
// uses Go's slog internally which is designed for concurrent access. The
// [RotatingWriter] type uses a mutex to protect file operations during
// rotation. Child loggers created via With* methods share the underlying
// writer safely.
//
// # Basic Usage
//
// Create a logger for a run:
//
//	logger, err := logging.NewLogger("flow.log", "INFO")
//	if err != nil {
//	    return err
//	}
//	defer logger.Close()
//
//	logger.Info("flow starting")
//	logger.Warn("resume failed", "error", err.Error())
//
// # Context Propagation
//
// Create child loggers with persistent context attributes:
//
//	taskLogger := logger.WithTask("build")
//	taskLogger.Info("task running", "attempt", 1)
//
// Output:
//
//	{"time":"...","level":"INFO","msg":"task running","task":"build","attempt":1}
//
// # Log Rotation
//
// For long pipelines, use rotation to prevent unbounded growth:
//
//	config := logging.RotationConfig{MaxSizeMB: 10, MaxBackups: 3}
//	logger, err := logging.NewLoggerWithRotation("flow.log", "INFO", config)
//
// Rotated files are named flow.log.1, flow.log.2, etc., where .1 is the
// most recent backup.
//
// # Testing
//
// For testing, use [NopLogger] to discard all log output.
package logging
