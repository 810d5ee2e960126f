package pipeline

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/Iron-Ham/taskflow/internal/errors"
)

// DefaultFileName is the default pipeline filename.
const DefaultFileName = "pipeline.yaml"

// Load reads and validates the pipeline file at path. Tasks are
// returned in file order.
func Load(path string) ([]Task, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NewPipelineError("failed to load pipeline", errors.ErrPipelineNotFound).WithPath(path)
		}
		return nil, errors.NewPipelineError("failed to load pipeline", err).WithPath(path)
	}

	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, errors.NewPipelineError("bad yaml", err).WithPath(path)
	}

	if len(doc.Tasks) == 0 {
		return nil, errors.NewPipelineError("failed to load pipeline", errors.ErrNoTasks).WithPath(path)
	}

	if err := Validate(doc.Tasks); err != nil {
		return nil, err
	}

	return doc.Tasks, nil
}

// Validate checks the task list for structural problems: tasks without
// an id or command, duplicate IDs, and dependencies on undefined tasks.
// Cycles are not detected here; they surface when the execution plan is
// computed.
func Validate(tasks []Task) error {
	seen := make(map[string]bool, len(tasks))
	for i, task := range tasks {
		if task.ID == "" || task.Run == "" {
			return errors.NewValidationError("task missing id or run").
				WithField(fmt.Sprintf("tasks[%d]", i))
		}
		if seen[task.ID] {
			return errors.NewValidationError(fmt.Sprintf("duplicate task: %s", task.ID))
		}
		seen[task.ID] = true
	}

	for _, task := range tasks {
		for _, dep := range task.DependsOn {
			if !seen[dep] {
				return errors.NewValidationError(fmt.Sprintf("task %s depends on missing %s", task.ID, dep))
			}
		}
	}

	return nil
}
