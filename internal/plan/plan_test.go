package plan

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Iron-Ham/taskflow/internal/errors"
	"github.com/Iron-Ham/taskflow/internal/pipeline"
)

func task(id string, deps ...string) pipeline.Task {
	return pipeline.Task{ID: id, Run: "echo " + id, DependsOn: deps}
}

func TestCompute(t *testing.T) {
	tests := []struct {
		name       string
		tasks      []pipeline.Task
		wantLevels [][]string
	}{
		{
			name:       "single task",
			tasks:      []pipeline.Task{task("a")},
			wantLevels: [][]string{{"a"}},
		},
		{
			name: "independent tasks share a level",
			tasks: []pipeline.Task{
				task("b"),
				task("a"),
				task("c"),
			},
			wantLevels: [][]string{{"a", "b", "c"}},
		},
		{
			name: "linear chain",
			tasks: []pipeline.Task{
				task("a"),
				task("b", "a"),
				task("c", "b"),
			},
			wantLevels: [][]string{{"a"}, {"b"}, {"c"}},
		},
		{
			name: "diamond",
			tasks: []pipeline.Task{
				task("a"),
				task("b", "a"),
				task("c", "a"),
				task("d", "b", "c"),
			},
			wantLevels: [][]string{{"a"}, {"b", "c"}, {"d"}},
		},
		{
			name: "fan in",
			tasks: []pipeline.Task{
				task("a"),
				task("b"),
				task("c", "a", "b"),
			},
			wantLevels: [][]string{{"a", "b"}, {"c"}},
		},
		{
			name: "task placed by deepest dependency",
			tasks: []pipeline.Task{
				task("a"),
				task("b", "a"),
				task("c", "a", "b"),
			},
			wantLevels: [][]string{{"a"}, {"b"}, {"c"}},
		},
		{
			name: "duplicate dependency declarations",
			tasks: []pipeline.Task{
				task("a"),
				task("b", "a", "a"),
			},
			wantLevels: [][]string{{"a"}, {"b"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := Compute(tt.tasks)
			require.NoError(t, err)
			assert.Equal(t, tt.wantLevels, p.Levels)
		})
	}
}

func TestCompute_EveryTaskExactlyOnce(t *testing.T) {
	tasks := []pipeline.Task{
		task("a"),
		task("b", "a"),
		task("c", "a"),
		task("d", "b"),
		task("e", "b", "c"),
		task("f", "d", "e"),
	}

	p, err := Compute(tasks)
	require.NoError(t, err)

	seen := make(map[string]int)
	for _, level := range p.Levels {
		for _, id := range level {
			seen[id]++
		}
	}

	require.Len(t, seen, len(tasks))
	for _, task := range tasks {
		assert.Equal(t, 1, seen[task.ID], "task %s should appear exactly once", task.ID)
	}
}

func TestCompute_DependenciesInEarlierLevels(t *testing.T) {
	tasks := []pipeline.Task{
		task("a"),
		task("b", "a"),
		task("c", "a"),
		task("d", "b", "c"),
		task("e", "a", "d"),
	}

	p, err := Compute(tasks)
	require.NoError(t, err)

	for _, tk := range tasks {
		taskLevel := p.LevelOf(tk.ID)
		require.GreaterOrEqual(t, taskLevel, 0)
		for _, dep := range tk.DependsOn {
			depLevel := p.LevelOf(dep)
			assert.Less(t, depLevel, taskLevel,
				"dependency %s of %s should be in a strictly earlier level", dep, tk.ID)
		}
	}
}

func TestCompute_Cycle(t *testing.T) {
	t.Run("two task cycle", func(t *testing.T) {
		tasks := []pipeline.Task{
			task("a", "b"),
			task("b", "a"),
		}

		p, err := Compute(tasks)
		require.Error(t, err)
		assert.Nil(t, p)
		assert.True(t, errors.Is(err, errors.ErrCycle))

		var planErr *errors.PlanError
		require.True(t, errors.As(err, &planErr))
		assert.Equal(t, "a -> b -> a", planErr.CyclePath)
	})

	t.Run("self dependency", func(t *testing.T) {
		tasks := []pipeline.Task{
			task("loop", "loop"),
		}

		_, err := Compute(tasks)
		require.Error(t, err)
		assert.True(t, errors.Is(err, errors.ErrCycle))

		var planErr *errors.PlanError
		require.True(t, errors.As(err, &planErr))
		assert.Equal(t, "loop -> loop", planErr.CyclePath)
	})

	t.Run("cycle behind valid prefix", func(t *testing.T) {
		tasks := []pipeline.Task{
			task("setup"),
			task("a", "setup", "c"),
			task("b", "a"),
			task("c", "b"),
		}

		_, err := Compute(tasks)
		require.Error(t, err)
		assert.True(t, errors.Is(err, errors.ErrCycle))

		var planErr *errors.PlanError
		require.True(t, errors.As(err, &planErr))
		// The cycle is a -> c -> b -> a in dependency order.
		assert.Contains(t, planErr.CyclePath, " -> ")
	})
}

func TestPlan_TaskCount(t *testing.T) {
	p := &Plan{Levels: [][]string{{"a", "b"}, {"c"}}}
	assert.Equal(t, 3, p.TaskCount())

	empty := &Plan{}
	assert.Equal(t, 0, empty.TaskCount())
}

func TestPlan_LevelOf(t *testing.T) {
	p := &Plan{Levels: [][]string{{"a", "b"}, {"c"}}}

	assert.Equal(t, 0, p.LevelOf("a"))
	assert.Equal(t, 0, p.LevelOf("b"))
	assert.Equal(t, 1, p.LevelOf("c"))
	assert.Equal(t, -1, p.LevelOf("missing"))
}

func TestPlan_String(t *testing.T) {
	p := &Plan{Levels: [][]string{{"a", "b"}, {"c"}}}

	expected := "level 0: a, b\nlevel 1: c\n"
	assert.Equal(t, expected, p.String())
}
