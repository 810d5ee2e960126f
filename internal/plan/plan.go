// Package plan computes dependency-ordered execution plans for task
// pipelines. It builds a dependency graph, rejects cycles, and
// partitions tasks into levels of mutually independent work using
// Kahn's algorithm: level order is execution order, and everything
// within one level may run concurrently.
package plan

import (
	"fmt"
	"sort"
	"strings"

	"github.com/Iron-Ham/taskflow/internal/errors"
	"github.com/Iron-Ham/taskflow/internal/pipeline"
)

// Plan is an ordered sequence of execution levels. Every task appears
// in exactly one level, and all of a task's dependencies sit in
// strictly earlier levels. Task IDs within a level are sorted for
// deterministic output.
type Plan struct {
	Levels [][]string
}

// Compute builds the execution plan for tasks. It returns a PlanError
// wrapping ErrCycle (with the offending path) when the dependency graph
// contains a cycle, and a PlanError wrapping ErrUnresolvable if leveling
// stalls on an acyclic graph, which indicates an internal invariant
// violation rather than bad input.
func Compute(tasks []pipeline.Task) (*Plan, error) {
	g := buildGraph(tasks)

	// Acyclicity check: a cycle exists iff Kahn's algorithm cannot
	// process every task.
	if _, processed := g.reduce(); processed < len(g.ids) {
		planErr := errors.NewPlanError("cannot schedule tasks", errors.ErrCycle)
		if path := findCyclePath(g); len(path) > 0 {
			planErr = planErr.WithCyclePath(strings.Join(path, " -> "))
		}
		return nil, planErr
	}

	// Leveling pass over the now verified acyclic graph.
	inDegree := g.inDegreeCopy()
	scheduled := make(map[string]bool, len(g.ids))
	var levels [][]string

	for remaining := len(g.ids); remaining > 0; {
		var level []string
		for _, id := range g.ids {
			if !scheduled[id] && inDegree[id] == 0 {
				level = append(level, id)
			}
		}

		if len(level) == 0 {
			return nil, errors.NewPlanError("cannot schedule tasks", errors.ErrUnresolvable)
		}

		sort.Strings(level)
		levels = append(levels, level)

		for _, id := range level {
			scheduled[id] = true
			remaining--
			for _, dependent := range g.dependents[id] {
				inDegree[dependent]--
			}
		}
	}

	return &Plan{Levels: levels}, nil
}

// TaskCount returns the total number of tasks across all levels.
func (p *Plan) TaskCount() int {
	n := 0
	for _, level := range p.Levels {
		n += len(level)
	}
	return n
}

// LevelOf returns the level index containing the given task ID, or -1
// if the task is not in the plan.
func (p *Plan) LevelOf(id string) int {
	for i, level := range p.Levels {
		for _, taskID := range level {
			if taskID == id {
				return i
			}
		}
	}
	return -1
}

// String renders the plan one level per line, for preview output.
func (p *Plan) String() string {
	var sb strings.Builder
	for i, level := range p.Levels {
		fmt.Fprintf(&sb, "level %d: %s\n", i, strings.Join(level, ", "))
	}
	return sb.String()
}
