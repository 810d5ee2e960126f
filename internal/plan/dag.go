package plan

import "sort"

// reduce runs Kahn's algorithm to exhaustion and returns the resulting
// in-degree map along with the number of tasks processed. Tasks left
// with non-zero in-degree sit on (or behind) a dependency cycle.
func (g *graph) reduce() (map[string]int, int) {
	inDegree := g.inDegreeCopy()

	var queue []string
	for _, id := range g.ids {
		if inDegree[id] == 0 {
			queue = append(queue, id)
		}
	}

	processed := 0
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		processed++

		for _, dependent := range g.dependents[id] {
			inDegree[dependent]--
			if inDegree[dependent] == 0 {
				queue = append(queue, dependent)
			}
		}
	}

	return inDegree, processed
}

// findCyclePath finds one dependency cycle and returns it as a task ID
// path whose first and last elements match, e.g. [a b a]. The search
// starts only from tasks Kahn's algorithm could not process.
func findCyclePath(g *graph) []string {
	const (
		white = 0 // unvisited
		gray  = 1 // in current path
		black = 2 // finished
	)

	remaining, _ := g.reduce()

	color := make(map[string]int)
	parent := make(map[string]string)

	var cyclePath []string

	var dfs func(id string) bool
	dfs = func(id string) bool {
		color[id] = gray
		for _, dep := range g.deps[id] {
			if color[dep] == gray {
				// Found cycle: reconstruct path
				cyclePath = []string{dep}
				current := id
				for current != dep {
					cyclePath = append(cyclePath, current)
					current = parent[current]
				}
				cyclePath = append(cyclePath, dep)
				// Reverse to get forward order
				for i, j := 0, len(cyclePath)-1; i < j; i, j = i+1, j-1 {
					cyclePath[i], cyclePath[j] = cyclePath[j], cyclePath[i]
				}
				return true
			}
			if color[dep] == white {
				parent[dep] = id
				if dfs(dep) {
					return true
				}
			}
		}
		color[id] = black
		return false
	}

	// Deterministic starting order keeps the reported path stable.
	candidates := make([]string, 0, len(g.ids))
	for _, id := range g.ids {
		if remaining[id] > 0 {
			candidates = append(candidates, id)
		}
	}
	sort.Strings(candidates)

	for _, id := range candidates {
		if color[id] == white {
			if dfs(id) {
				return cyclePath
			}
		}
	}

	return nil
}
