package pipeline

// Task is a single unit of work in a pipeline: a shell command plus the
// IDs of the tasks that must finish successfully before it may start.
type Task struct {
	// ID uniquely identifies the task within the pipeline.
	ID string `yaml:"id"`

	// Run is the shell command executed for this task.
	Run string `yaml:"run"`

	// DependsOn lists the IDs of tasks this task requires. A task runs
	// only after every listed task has finished successfully.
	DependsOn []string `yaml:"depends_on"`
}

// document is the on-disk shape of a pipeline file.
type document struct {
	Tasks []Task `yaml:"tasks"`
}

// IDs returns the task IDs in file order.
func IDs(tasks []Task) []string {
	ids := make([]string, len(tasks))
	for i, task := range tasks {
		ids[i] = task.ID
	}
	return ids
}

// Index returns a lookup table from task ID to task.
func Index(tasks []Task) map[string]Task {
	index := make(map[string]Task, len(tasks))
	for _, task := range tasks {
		index[task.ID] = task
	}
	return index
}
