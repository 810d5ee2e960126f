package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Iron-Ham/taskflow/internal/pipeline"
	"github.com/Iron-Ham/taskflow/internal/plan"
)

var planCmd = &cobra.Command{
	Use:   "plan [pipeline-file]",
	Short: "Preview a pipeline's execution levels",
	Long: `Validate the pipeline file and print its execution plan without
running anything. Each level lists tasks that run concurrently; levels
run in order.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runPlan,
}

func init() {
	rootCmd.AddCommand(planCmd)
}

func runPlan(cmd *cobra.Command, args []string) error {
	path := pipeline.DefaultFileName
	if len(args) > 0 {
		path = args[0]
	}

	tasks, err := pipeline.Load(path)
	if err != nil {
		return err
	}

	p, err := plan.Compute(tasks)
	if err != nil {
		return err
	}

	fmt.Fprint(cmd.OutOrStdout(), p.String())
	return nil
}
