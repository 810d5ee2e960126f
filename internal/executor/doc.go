// Package executor runs planned tasks to completion.
//
// The pieces layer bottom-up. A [CommandRunner] is the capability
// boundary around "start a shell command, stream its output, respect the
// context": [ShellRunner] is the real one, and tests substitute fakes. A
// [Runner] drives one task through its retry loop to a terminal result. A
// [LevelExecutor] fans a level's tasks out across a bounded worker pool.
// The [Coordinator] owns the run: it computes the plan, restores state on
// resume, walks levels in order, withholds tasks whose dependencies did
// not finish, and settles the final outcome.
//
// Task failures are data, not errors: they land in the result map and the
// run [Summary]. Errors returned by [Coordinator.Run] mean the run could
// not start at all (bad graph, lock contention).
package executor
