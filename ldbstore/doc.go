// Package ldbstore implements a checkpoint store that keeps StateStore
// snapshots on disk in a LevelDB database.
//
// It allows a long-running solve to keep many named checkpoints in a single
// database rather than one snapshot file per checkpoint.
package ldbstore
