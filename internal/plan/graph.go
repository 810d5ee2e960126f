package plan

import "github.com/Iron-Ham/taskflow/internal/pipeline"

// graph is the dependency graph derived from a task list: forward edges
// from each dependency to its dependents, plus per-task in-degree
// counts. Duplicate dependency declarations contribute duplicate edges,
// which keeps counts and decrements consistent.
type graph struct {
	ids        []string            // task IDs in file order
	deps       map[string][]string // task -> its declared dependencies
	dependents map[string][]string // dependency -> tasks that require it
	inDegree   map[string]int
}

// buildGraph constructs the dependency graph for tasks. It assumes the
// task list has already been validated: unique IDs, all dependencies
// defined.
func buildGraph(tasks []pipeline.Task) *graph {
	g := &graph{
		ids:        make([]string, 0, len(tasks)),
		deps:       make(map[string][]string, len(tasks)),
		dependents: make(map[string][]string),
		inDegree:   make(map[string]int, len(tasks)),
	}

	for _, task := range tasks {
		g.ids = append(g.ids, task.ID)
		g.deps[task.ID] = task.DependsOn
		g.inDegree[task.ID] = len(task.DependsOn)
		for _, dep := range task.DependsOn {
			g.dependents[dep] = append(g.dependents[dep], task.ID)
		}
	}

	return g
}

// inDegreeCopy returns a fresh copy of the in-degree map so the graph
// can be consumed by multiple passes.
func (g *graph) inDegreeCopy() map[string]int {
	counts := make(map[string]int, len(g.inDegree))
	for id, n := range g.inDegree {
		counts[id] = n
	}
	return counts
}
