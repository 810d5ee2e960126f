package config

import (
	"fmt"
	"slices"
	"strings"
)

// ValidationError represents a single validation failure
type ValidationError struct {
	Field   string // The config field path (e.g., "run.max_workers")
	Value   any    // The invalid value
	Message string // Human-readable error description
}

// Error implements the error interface for ValidationError
func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s (got: %v)", e.Field, e.Message, e.Value)
}

// ValidationErrors is a collection of validation errors
type ValidationErrors []ValidationError

// Error implements the error interface for ValidationErrors
func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return ""
	}
	if len(e) == 1 {
		return e[0].Error()
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d validation errors:\n", len(e)))
	for i, err := range e {
		sb.WriteString(fmt.Sprintf("  %d. %s\n", i+1, err.Error()))
	}
	return sb.String()
}

// ValidLogLevels returns the list of valid log levels
func ValidLogLevels() []string {
	return []string{"debug", "info", "warn", "error"}
}

// Validate checks the Config for invalid values and returns all validation errors found
func (c *Config) Validate() []ValidationError {
	var errors []ValidationError

	errors = append(errors, c.validateRun()...)
	errors = append(errors, c.validateLogging()...)
	errors = append(errors, c.validateState()...)
	errors = append(errors, c.validateUI()...)

	return errors
}

// validateRun validates the RunConfig
func (c *Config) validateRun() []ValidationError {
	var errors []ValidationError

	const maxWorkersLimit = 256
	if c.Run.MaxWorkers < 1 {
		errors = append(errors, ValidationError{
			Field:   "run.max_workers",
			Value:   c.Run.MaxWorkers,
			Message: "must be at least 1",
		})
	}
	if c.Run.MaxWorkers > maxWorkersLimit {
		errors = append(errors, ValidationError{
			Field:   "run.max_workers",
			Value:   c.Run.MaxWorkers,
			Message: fmt.Sprintf("exceeds maximum of %d", maxWorkersLimit),
		})
	}

	const maxRetriesLimit = 100
	if c.Run.Retries < 0 {
		errors = append(errors, ValidationError{
			Field:   "run.retries",
			Value:   c.Run.Retries,
			Message: "must be non-negative",
		})
	}
	if c.Run.Retries > maxRetriesLimit {
		errors = append(errors, ValidationError{
			Field:   "run.retries",
			Value:   c.Run.Retries,
			Message: fmt.Sprintf("exceeds maximum of %d", maxRetriesLimit),
		})
	}

	if c.Run.TaskTimeoutSeconds < 0 {
		errors = append(errors, ValidationError{
			Field:   "run.task_timeout_seconds",
			Value:   c.Run.TaskTimeoutSeconds,
			Message: "must be non-negative (0 disables the timeout)",
		})
	}

	if c.Run.OnBlocked != "" && !IsValidOnBlockedPolicy(c.Run.OnBlocked) {
		errors = append(errors, ValidationError{
			Field:   "run.on_blocked",
			Value:   c.Run.OnBlocked,
			Message: fmt.Sprintf("must be one of: %s", strings.Join(ValidOnBlockedPolicies(), ", ")),
		})
	}

	return errors
}

// validateLogging validates the LoggingConfig
func (c *Config) validateLogging() []ValidationError {
	var errors []ValidationError

	if c.Logging.Level != "" && !slices.Contains(ValidLogLevels(), strings.ToLower(c.Logging.Level)) {
		errors = append(errors, ValidationError{
			Field:   "logging.level",
			Value:   c.Logging.Level,
			Message: fmt.Sprintf("must be one of: %s", strings.Join(ValidLogLevels(), ", ")),
		})
	}

	if c.Logging.Enabled && c.Logging.File == "" {
		errors = append(errors, ValidationError{
			Field:   "logging.file",
			Value:   c.Logging.File,
			Message: "must not be empty when logging is enabled",
		})
	}

	if c.Logging.MaxSizeMB < 0 {
		errors = append(errors, ValidationError{
			Field:   "logging.max_size_mb",
			Value:   c.Logging.MaxSizeMB,
			Message: "must be non-negative (0 disables rotation)",
		})
	}

	if c.Logging.MaxBackups < 0 {
		errors = append(errors, ValidationError{
			Field:   "logging.max_backups",
			Value:   c.Logging.MaxBackups,
			Message: "must be non-negative",
		})
	}

	return errors
}

// validateState validates the StateConfig
func (c *Config) validateState() []ValidationError {
	var errors []ValidationError

	if c.State.File == "" {
		errors = append(errors, ValidationError{
			Field:   "state.file",
			Value:   c.State.File,
			Message: "must not be empty",
		})
	}

	return errors
}

// validateUI validates the UIConfig
func (c *Config) validateUI() []ValidationError {
	var errors []ValidationError

	const minRefreshRate = 10   // 10ms minimum
	const maxRefreshRate = 5000 // 5 seconds maximum

	if c.UI.RefreshRateMs < minRefreshRate {
		errors = append(errors, ValidationError{
			Field:   "ui.refresh_rate_ms",
			Value:   c.UI.RefreshRateMs,
			Message: fmt.Sprintf("must be at least %dms", minRefreshRate),
		})
	}
	if c.UI.RefreshRateMs > maxRefreshRate {
		errors = append(errors, ValidationError{
			Field:   "ui.refresh_rate_ms",
			Value:   c.UI.RefreshRateMs,
			Message: fmt.Sprintf("exceeds maximum of %dms", maxRefreshRate),
		})
	}

	const maxOutputLinesLimit = 100000
	if c.UI.MaxOutputLines < 0 {
		errors = append(errors, ValidationError{
			Field:   "ui.max_output_lines",
			Value:   c.UI.MaxOutputLines,
			Message: "must be non-negative",
		})
	}
	if c.UI.MaxOutputLines > maxOutputLinesLimit {
		errors = append(errors, ValidationError{
			Field:   "ui.max_output_lines",
			Value:   c.UI.MaxOutputLines,
			Message: fmt.Sprintf("exceeds maximum of %d", maxOutputLinesLimit),
		})
	}

	return errors
}
