// Package pipeline defines the task pipeline document and its loader.
//
// A pipeline is a YAML file listing shell tasks and the dependencies
// between them:
//
//	tasks:
//	  - id: build
//	    run: make build
//	  - id: test
//	    run: make test
//	    depends_on: [build]
//
// [Load] reads the file and validates its structure: every task needs
// an id and a run command, IDs must be unique, and every dependency
// must name a task defined in the same file. Dependency cycles are the
// planner's concern, not the loader's.
//
// # Usage
//
//	tasks, err := pipeline.Load("pipeline.yaml")
//	if err != nil {
//	    return err
//	}
package pipeline
