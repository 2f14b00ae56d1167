// Package rdbstore implements a checkpoint store that keeps StateStore
// snapshots in a RocksDB database.
//
// It has the same surface as ldbstore, for deployments that already run
// RocksDB or need its compaction and compression tuning.
package rdbstore
