// Package filelock guards the state file against concurrent runs.
//
// Two flows pointed at the same state file would interleave saves and
// corrupt each other's resume data. The filelock package prevents this
// with an advisory lock file beside the state file: a run acquires the
// lock before touching state and releases it on exit.
//
// # Architecture
//
// A [Lock] is a sibling file (<state file>.lock) holding the owning
// process ID. Acquisition creates the file exclusively; if it already
// exists, the recorded process is probed with signal 0 and the lock is
// stolen when that process is gone, so a crashed run never wedges the
// next one.
//
// # Basic Usage
//
//	lock := filelock.New("flow_state.json")
//
//	if err := lock.Acquire(); err != nil {
//		// another run is active
//	}
//	defer lock.Release()
//
// # Ownership
//
// [Lock.Owner] reports the process ID currently recorded in the lock
// file, whether or not that process is still alive.
package filelock
