package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

// Config represents the complete taskflow configuration
type Config struct {
	Run     RunConfig     `mapstructure:"run"`
	Logging LoggingConfig `mapstructure:"logging"`
	State   StateConfig   `mapstructure:"state"`
	UI      UIConfig      `mapstructure:"ui"`
}

// RunConfig controls pipeline execution behavior
type RunConfig struct {
	// MaxWorkers is the maximum number of tasks running concurrently
	// within a level (default: 4)
	MaxWorkers int `mapstructure:"max_workers"`
	// Retries is the number of retry attempts after a task's first
	// failure, so a task runs at most retries+1 times (default: 0)
	Retries int `mapstructure:"retries"`
	// TaskTimeoutSeconds is the per-attempt timeout in seconds
	// (default: 3600, 0 = no timeout)
	TaskTimeoutSeconds int `mapstructure:"task_timeout_seconds"`
	// OnBlocked controls what happens to tasks whose dependencies did
	// not finish successfully
	// Options: "skip" (record nothing and continue), "abort" (stop the run)
	OnBlocked string `mapstructure:"on_blocked"`
	// UsePty runs task commands under a pseudo-terminal so programs
	// that detect a TTY line-buffer their output (default: false)
	UsePty bool `mapstructure:"use_pty"`
}

// LoggingConfig controls debug logging behavior
type LoggingConfig struct {
	// Enabled controls whether run logging is enabled (default: true)
	Enabled bool `mapstructure:"enabled"`
	// Level is the log level: "debug", "info", "warn", "error" (default: "info")
	Level string `mapstructure:"level"`
	// File is the log file path (default: "flow.log")
	File string `mapstructure:"file"`
	// MaxSizeMB is the maximum log file size in megabytes before rotation (default: 10)
	MaxSizeMB int `mapstructure:"max_size_mb"`
	// MaxBackups is the number of backup log files to keep (default: 3)
	MaxBackups int `mapstructure:"max_backups"`
}

// StateConfig controls where run state is persisted
type StateConfig struct {
	// File is the state file path (default: "flow_state.json")
	File string `mapstructure:"file"`
}

// UIConfig controls the live dashboard shown by run --ui
type UIConfig struct {
	// RefreshRateMs is how often the dashboard redraws (in milliseconds)
	RefreshRateMs int `mapstructure:"refresh_rate_ms"`
	// MaxOutputLines limits how many lines of output are kept per task
	// for display
	MaxOutputLines int `mapstructure:"max_output_lines"`
}

// TaskTimeout returns the per-attempt timeout as a time.Duration (0 means disabled)
func (c *RunConfig) TaskTimeout() time.Duration {
	return time.Duration(c.TaskTimeoutSeconds) * time.Second
}

// RefreshRate returns the dashboard refresh rate as a time.Duration
func (c *UIConfig) RefreshRate() time.Duration {
	return time.Duration(c.RefreshRateMs) * time.Millisecond
}

// Default returns a Config with sensible default values
func Default() *Config {
	return &Config{
		Run: RunConfig{
			MaxWorkers:         4,
			Retries:            0,
			TaskTimeoutSeconds: 3600, // One hour per attempt
			OnBlocked:          "skip",
			UsePty:             false,
		},
		Logging: LoggingConfig{
			Enabled:    true,
			Level:      "info",
			File:       "flow.log",
			MaxSizeMB:  10,
			MaxBackups: 3,
		},
		State: StateConfig{
			File: "flow_state.json",
		},
		UI: UIConfig{
			RefreshRateMs:  100,
			MaxOutputLines: 1000,
		},
	}
}

// SetDefaults registers default values with viper
func SetDefaults() {
	defaults := Default()

	// Run defaults
	viper.SetDefault("run.max_workers", defaults.Run.MaxWorkers)
	viper.SetDefault("run.retries", defaults.Run.Retries)
	viper.SetDefault("run.task_timeout_seconds", defaults.Run.TaskTimeoutSeconds)
	viper.SetDefault("run.on_blocked", defaults.Run.OnBlocked)
	viper.SetDefault("run.use_pty", defaults.Run.UsePty)

	// Logging defaults
	viper.SetDefault("logging.enabled", defaults.Logging.Enabled)
	viper.SetDefault("logging.level", defaults.Logging.Level)
	viper.SetDefault("logging.file", defaults.Logging.File)
	viper.SetDefault("logging.max_size_mb", defaults.Logging.MaxSizeMB)
	viper.SetDefault("logging.max_backups", defaults.Logging.MaxBackups)

	// State defaults
	viper.SetDefault("state.file", defaults.State.File)

	// UI defaults
	viper.SetDefault("ui.refresh_rate_ms", defaults.UI.RefreshRateMs)
	viper.SetDefault("ui.max_output_lines", defaults.UI.MaxOutputLines)
}

// Load reads the configuration from viper into a Config struct and validates it
func Load() (*Config, error) {
	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	// Validate the configuration
	if errs := cfg.Validate(); len(errs) > 0 {
		return nil, ValidationErrors(errs)
	}

	return &cfg, nil
}

// Get returns the current configuration (convenience function)
func Get() *Config {
	cfg, err := Load()
	if err != nil {
		// Fall back to defaults if unmarshaling fails
		return Default()
	}
	return cfg
}

// ConfigDir returns the path to the user's config directory
func ConfigDir() string {
	// Check XDG_CONFIG_HOME first
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "taskflow")
	}
	// Fall back to ~/.config/taskflow
	home, err := os.UserHomeDir()
	if err != nil {
		return ".taskflow"
	}
	return filepath.Join(home, ".config", "taskflow")
}

// ConfigFile returns the path to the user-level config file
func ConfigFile() string {
	return filepath.Join(ConfigDir(), "config.yaml")
}

// ValidOnBlockedPolicies returns the list of valid on_blocked values
func ValidOnBlockedPolicies() []string {
	return []string{"skip", "abort"}
}

// IsValidOnBlockedPolicy checks if the given policy is valid
func IsValidOnBlockedPolicy(policy string) bool {
	for _, valid := range ValidOnBlockedPolicies() {
		if policy == valid {
			return true
		}
	}
	return false
}
