package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Iron-Ham/taskflow/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or modify taskflow configuration",
	Long: `View or modify taskflow configuration.

Without arguments, displays the current configuration.
Use subcommands to modify settings or create a config file.`,
	RunE: runConfigShow,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	RunE:  runConfigShow,
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Long: `Set a configuration value in the user's config file.

Keys use dot notation, e.g.:
  taskflow config set run.max_workers 8
  taskflow config set run.on_blocked abort
  taskflow config set logging.level debug

Valid keys:
  run.max_workers          - Max tasks running concurrently within a level
  run.retries              - Retry attempts after a task's first failure
  run.task_timeout_seconds - Per-attempt timeout in seconds (0 = none)
  run.on_blocked           - Policy for tasks with failed dependencies
                             Options: skip, abort
  run.use_pty              - Run commands under a pseudo-terminal (true/false)
  logging.enabled          - Write a run log (true/false)
  logging.level            - Log level: debug, info, warn, error
  logging.file             - Log file path
  logging.max_size_mb      - Log size before rotation (0 = no rotation)
  logging.max_backups      - Rotated log files to keep
  state.file               - State file path
  ui.refresh_rate_ms       - Dashboard refresh interval in milliseconds
  ui.max_output_lines      - Output lines kept per task in the dashboard`,
	Args: cobra.ExactArgs(2),
	RunE: runConfigSet,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a default config file",
	Long:  `Create a default config file at ~/.config/taskflow/config.yaml with all available options.`,
	RunE:  runConfigInit,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Show the config file path",
	RunE:  runConfigPath,
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configPathCmd)
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	cfg := config.Get()

	fmt.Println("Current configuration:")
	fmt.Println()

	// Show where config is being read from
	if viper.ConfigFileUsed() != "" {
		fmt.Printf("Config file: %s\n", viper.ConfigFileUsed())
	} else {
		fmt.Printf("Config file: (none - using defaults)\n")
	}
	fmt.Println()

	// Run settings
	fmt.Println("run:")
	fmt.Printf("  max_workers: %d\n", cfg.Run.MaxWorkers)
	fmt.Printf("  retries: %d\n", cfg.Run.Retries)
	fmt.Printf("  task_timeout_seconds: %d\n", cfg.Run.TaskTimeoutSeconds)
	fmt.Printf("  on_blocked: %s\n", cfg.Run.OnBlocked)
	fmt.Printf("  use_pty: %v\n", cfg.Run.UsePty)

	// Logging settings
	fmt.Println("logging:")
	fmt.Printf("  enabled: %v\n", cfg.Logging.Enabled)
	fmt.Printf("  level: %s\n", cfg.Logging.Level)
	fmt.Printf("  file: %s\n", cfg.Logging.File)
	fmt.Printf("  max_size_mb: %d\n", cfg.Logging.MaxSizeMB)
	fmt.Printf("  max_backups: %d\n", cfg.Logging.MaxBackups)

	// State settings
	fmt.Println("state:")
	fmt.Printf("  file: %s\n", cfg.State.File)

	// UI settings
	fmt.Println("ui:")
	fmt.Printf("  refresh_rate_ms: %d\n", cfg.UI.RefreshRateMs)
	fmt.Printf("  max_output_lines: %d\n", cfg.UI.MaxOutputLines)

	return nil
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	key := args[0]
	value := args[1]

	// Validate the key exists
	validKeys := map[string]string{
		"run.max_workers":          "int",
		"run.retries":              "int",
		"run.task_timeout_seconds": "int",
		"run.on_blocked":           "string",
		"run.use_pty":              "bool",
		"logging.enabled":          "bool",
		"logging.level":            "string",
		"logging.file":             "string",
		"logging.max_size_mb":      "int",
		"logging.max_backups":      "int",
		"state.file":               "string",
		"ui.refresh_rate_ms":       "int",
		"ui.max_output_lines":      "int",
	}

	keyType, ok := validKeys[key]
	if !ok {
		return fmt.Errorf("unknown configuration key: %s\nRun 'taskflow config set --help' to see valid keys", key)
	}

	// Validate the value based on type
	var typedValue interface{}
	switch keyType {
	case "string":
		switch key {
		case "run.on_blocked":
			if !config.IsValidOnBlockedPolicy(value) {
				return fmt.Errorf("invalid value for %s: %s\nValid options: %s",
					key, value, strings.Join(config.ValidOnBlockedPolicies(), ", "))
			}
		case "logging.level":
			if !slices.Contains(config.ValidLogLevels(), strings.ToLower(value)) {
				return fmt.Errorf("invalid value for %s: %s\nValid options: %s",
					key, value, strings.Join(config.ValidLogLevels(), ", "))
			}
		default:
			if value == "" {
				return fmt.Errorf("invalid value for %s: must not be empty", key)
			}
		}
		typedValue = value
	case "bool":
		if value != "true" && value != "false" {
			return fmt.Errorf("invalid value for %s: expected true or false", key)
		}
		typedValue = value == "true"
	case "int":
		intVal, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid value for %s: expected integer", key)
		}
		if intVal < 0 {
			return fmt.Errorf("invalid value for %s: must be non-negative", key)
		}
		typedValue = intVal
	}

	// Ensure config directory exists
	configDir := config.ConfigDir()
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	// Set the value in viper
	viper.Set(key, typedValue)

	// Write to config file
	configFile := config.ConfigFile()
	if err := viper.WriteConfigAs(configFile); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	fmt.Printf("Set %s = %v\n", key, typedValue)
	fmt.Printf("Config saved to %s\n", configFile)

	return nil
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	configDir := config.ConfigDir()
	configFile := config.ConfigFile()

	// Check if config file already exists
	if _, err := os.Stat(configFile); err == nil {
		return fmt.Errorf("config file already exists at %s\nUse 'taskflow config set' to modify values", configFile)
	}

	// Create config directory
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	// Generate a commented config file
	configContent := `# Taskflow Configuration
# See: https://github.com/Iron-Ham/taskflow

# Pipeline execution settings
run:
  # Maximum number of tasks running concurrently within a level
  max_workers: 4
  # Retry attempts after a task's first failure (a task runs at most retries+1 times)
  retries: 0
  # Per-attempt timeout in seconds (0 disables the timeout)
  task_timeout_seconds: 3600
  # What happens to tasks whose dependencies did not finish successfully
  # Options: skip, abort
  on_blocked: skip
  # Run commands under a pseudo-terminal so programs line-buffer their output
  use_pty: false

# Run log settings
logging:
  enabled: true
  # Log level: debug, info, warn, error
  level: info
  file: flow.log
  # Maximum log file size in megabytes before rotation (0 disables rotation)
  max_size_mb: 10
  # Number of rotated log files to keep
  max_backups: 3

# State persistence settings
state:
  file: flow_state.json

# Dashboard settings (taskflow run --ui)
ui:
  # How often the dashboard redraws, in milliseconds
  refresh_rate_ms: 100
  # Output lines kept per task for display
  max_output_lines: 1000
`

	if err := os.WriteFile(configFile, []byte(configContent), 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	fmt.Printf("Created config file at %s\n", configFile)
	fmt.Println("Edit this file to customize taskflow's behavior.")

	return nil
}

func runConfigPath(cmd *cobra.Command, args []string) error {
	configFile := config.ConfigFile()

	if viper.ConfigFileUsed() != "" {
		fmt.Printf("Active config: %s\n", viper.ConfigFileUsed())
	} else {
		fmt.Printf("Default path: %s (not created)\n", configFile)
	}

	// Also show config search paths
	fmt.Println("\nSearch paths:")
	fmt.Printf("  1. %s\n", filepath.Join(config.ConfigDir(), "config.yaml"))
	fmt.Printf("  2. $HOME/.config/taskflow/config.yaml\n")
	fmt.Printf("  3. ./config.yaml (current directory)\n")
	fmt.Println("\nEnvironment variables: TASKFLOW_* (e.g., TASKFLOW_RUN_MAX_WORKERS)")

	return nil
}
