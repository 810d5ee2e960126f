package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIDs(t *testing.T) {
	tasks := []Task{
		{ID: "b", Run: "echo b"},
		{ID: "a", Run: "echo a"},
	}

	assert.Equal(t, []string{"b", "a"}, IDs(tasks))
	assert.Empty(t, IDs(nil))
}

func TestIndex(t *testing.T) {
	tasks := []Task{
		{ID: "build", Run: "make build"},
		{ID: "test", Run: "make test", DependsOn: []string{"build"}},
	}

	index := Index(tasks)
	assert.Len(t, index, 2)
	assert.Equal(t, "make build", index["build"].Run)
	assert.Equal(t, []string{"build"}, index["test"].DependsOn)

	_, ok := index["missing"]
	assert.False(t, ok)
}
