// Package state tracks task results across runs.
//
// A run records each task's status, attempt count, and timing in a
// ResultMap, and a Store persists a snapshot of that map as JSON so an
// interrupted pipeline can resume without repeating finished work. Loading
// is forgiving: a missing or corrupt state file yields an empty map and a
// log entry, never an error.
//
// Timestamps are seconds since the Unix epoch, matching the on-disk
// format exactly.
package state
