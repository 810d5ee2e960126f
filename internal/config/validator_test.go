package config

import (
	"strings"
	"testing"
)

func TestValidationError_Error(t *testing.T) {
	err := ValidationError{
		Field:   "run.max_workers",
		Value:   0,
		Message: "must be at least 1",
	}

	expected := "run.max_workers: must be at least 1 (got: 0)"
	if err.Error() != expected {
		t.Errorf("Error() = %q, want %q", err.Error(), expected)
	}
}

func TestValidationErrors_Error(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		var errs ValidationErrors
		if errs.Error() != "" {
			t.Errorf("Error() = %q, want empty string", errs.Error())
		}
	})

	t.Run("single error", func(t *testing.T) {
		errs := ValidationErrors{
			{Field: "run.retries", Value: -1, Message: "must be non-negative"},
		}
		expected := "run.retries: must be non-negative (got: -1)"
		if errs.Error() != expected {
			t.Errorf("Error() = %q, want %q", errs.Error(), expected)
		}
	})

	t.Run("multiple errors", func(t *testing.T) {
		errs := ValidationErrors{
			{Field: "run.retries", Value: -1, Message: "must be non-negative"},
			{Field: "run.max_workers", Value: 0, Message: "must be at least 1"},
		}
		msg := errs.Error()
		if !strings.HasPrefix(msg, "2 validation errors:") {
			t.Errorf("Error() should start with count, got %q", msg)
		}
		if !strings.Contains(msg, "run.retries") || !strings.Contains(msg, "run.max_workers") {
			t.Errorf("Error() should mention both fields, got %q", msg)
		}
	})
}

func TestValidate_Defaults(t *testing.T) {
	cfg := Default()

	errs := cfg.Validate()
	if len(errs) != 0 {
		t.Errorf("Default config should validate cleanly, got %d errors: %v", len(errs), ValidationErrors(errs))
	}
}

func TestValidate_Run(t *testing.T) {
	tests := []struct {
		name      string
		modify    func(*Config)
		wantField string
	}{
		{
			name:      "max_workers zero",
			modify:    func(c *Config) { c.Run.MaxWorkers = 0 },
			wantField: "run.max_workers",
		},
		{
			name:      "max_workers negative",
			modify:    func(c *Config) { c.Run.MaxWorkers = -5 },
			wantField: "run.max_workers",
		},
		{
			name:      "max_workers too large",
			modify:    func(c *Config) { c.Run.MaxWorkers = 1000 },
			wantField: "run.max_workers",
		},
		{
			name:      "retries negative",
			modify:    func(c *Config) { c.Run.Retries = -1 },
			wantField: "run.retries",
		},
		{
			name:      "retries too large",
			modify:    func(c *Config) { c.Run.Retries = 500 },
			wantField: "run.retries",
		},
		{
			name:      "timeout negative",
			modify:    func(c *Config) { c.Run.TaskTimeoutSeconds = -1 },
			wantField: "run.task_timeout_seconds",
		},
		{
			name:      "on_blocked invalid",
			modify:    func(c *Config) { c.Run.OnBlocked = "panic" },
			wantField: "run.on_blocked",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(cfg)

			errs := cfg.Validate()
			if len(errs) == 0 {
				t.Fatal("expected validation error, got none")
			}

			found := false
			for _, err := range errs {
				if err.Field == tt.wantField {
					found = true
				}
			}
			if !found {
				t.Errorf("expected error for field %q, got %v", tt.wantField, ValidationErrors(errs))
			}
		})
	}
}

func TestValidate_RunValidValues(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
	}{
		{
			name:   "timeout zero disables",
			modify: func(c *Config) { c.Run.TaskTimeoutSeconds = 0 },
		},
		{
			name:   "on_blocked abort",
			modify: func(c *Config) { c.Run.OnBlocked = "abort" },
		},
		{
			name:   "on_blocked empty falls back to default",
			modify: func(c *Config) { c.Run.OnBlocked = "" },
		},
		{
			name:   "max_workers one",
			modify: func(c *Config) { c.Run.MaxWorkers = 1 },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(cfg)

			errs := cfg.Validate()
			if len(errs) != 0 {
				t.Errorf("expected no validation errors, got %v", ValidationErrors(errs))
			}
		})
	}
}

func TestValidate_Logging(t *testing.T) {
	tests := []struct {
		name      string
		modify    func(*Config)
		wantField string
	}{
		{
			name:      "invalid level",
			modify:    func(c *Config) { c.Logging.Level = "verbose" },
			wantField: "logging.level",
		},
		{
			name:      "empty file while enabled",
			modify:    func(c *Config) { c.Logging.File = "" },
			wantField: "logging.file",
		},
		{
			name:      "negative max size",
			modify:    func(c *Config) { c.Logging.MaxSizeMB = -1 },
			wantField: "logging.max_size_mb",
		},
		{
			name:      "negative max backups",
			modify:    func(c *Config) { c.Logging.MaxBackups = -1 },
			wantField: "logging.max_backups",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(cfg)

			errs := cfg.Validate()
			if len(errs) == 0 {
				t.Fatal("expected validation error, got none")
			}
			if errs[0].Field != tt.wantField {
				t.Errorf("error field = %q, want %q", errs[0].Field, tt.wantField)
			}
		})
	}

	t.Run("empty file allowed when disabled", func(t *testing.T) {
		cfg := Default()
		cfg.Logging.Enabled = false
		cfg.Logging.File = ""

		errs := cfg.Validate()
		if len(errs) != 0 {
			t.Errorf("expected no validation errors, got %v", ValidationErrors(errs))
		}
	})

	t.Run("uppercase level accepted", func(t *testing.T) {
		cfg := Default()
		cfg.Logging.Level = "DEBUG"

		errs := cfg.Validate()
		if len(errs) != 0 {
			t.Errorf("expected no validation errors, got %v", ValidationErrors(errs))
		}
	})
}

func TestValidate_State(t *testing.T) {
	cfg := Default()
	cfg.State.File = ""

	errs := cfg.Validate()
	if len(errs) == 0 {
		t.Fatal("expected validation error for empty state file, got none")
	}
	if errs[0].Field != "state.file" {
		t.Errorf("error field = %q, want %q", errs[0].Field, "state.file")
	}
}

func TestValidate_UI(t *testing.T) {
	tests := []struct {
		name      string
		modify    func(*Config)
		wantField string
	}{
		{
			name:      "refresh rate too low",
			modify:    func(c *Config) { c.UI.RefreshRateMs = 5 },
			wantField: "ui.refresh_rate_ms",
		},
		{
			name:      "refresh rate too high",
			modify:    func(c *Config) { c.UI.RefreshRateMs = 10000 },
			wantField: "ui.refresh_rate_ms",
		},
		{
			name:      "negative output lines",
			modify:    func(c *Config) { c.UI.MaxOutputLines = -1 },
			wantField: "ui.max_output_lines",
		},
		{
			name:      "output lines too large",
			modify:    func(c *Config) { c.UI.MaxOutputLines = 200000 },
			wantField: "ui.max_output_lines",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(cfg)

			errs := cfg.Validate()
			if len(errs) == 0 {
				t.Fatal("expected validation error, got none")
			}
			if errs[0].Field != tt.wantField {
				t.Errorf("error field = %q, want %q", errs[0].Field, tt.wantField)
			}
		})
	}
}

func TestValidate_MultipleErrors(t *testing.T) {
	cfg := Default()
	cfg.Run.MaxWorkers = 0
	cfg.Run.Retries = -1
	cfg.Logging.Level = "loud"

	errs := cfg.Validate()
	if len(errs) != 3 {
		t.Errorf("expected 3 validation errors, got %d: %v", len(errs), ValidationErrors(errs))
	}
}
