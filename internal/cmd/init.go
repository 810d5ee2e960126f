package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Iron-Ham/taskflow/internal/pipeline"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a starter pipeline file",
	Long: `Create a pipeline.yaml in the current directory with a small
example pipeline to edit.`,
	RunE: runInit,
}

var initForce bool

func init() {
	rootCmd.AddCommand(initCmd)

	initCmd.Flags().BoolVarP(&initForce, "force", "f", false, "overwrite an existing pipeline file")
}

const starterPipeline = `# Tasks run in dependency order. Tasks without unfinished
# dependencies run concurrently.
tasks:
  - id: build
    run: make build

  - id: lint
    run: make lint

  - id: test
    run: make test
    depends_on: [build, lint]
`

func runInit(cmd *cobra.Command, args []string) error {
	path := pipeline.DefaultFileName

	if _, err := os.Stat(path); err == nil && !initForce {
		return fmt.Errorf("%s already exists (use --force to overwrite)", path)
	}

	if err := os.WriteFile(path, []byte(starterPipeline), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Created %s\n", path)
	fmt.Fprintln(cmd.OutOrStdout(), "Edit it, then run: taskflow run")
	return nil
}
