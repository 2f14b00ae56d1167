package rdbstore

import (
	"bytes"

	"github.com/golang/glog"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	rocksdb "github.com/tecbot/gorocksdb"

	"github.com/timpalpant/go-cfr-arena"
)

const checkpointPrefix = "ckpt:"

// ErrNotFound is returned when a checkpoint does not exist.
var ErrNotFound = errors.New("checkpoint not found")

// Checkpoints is a collection of StateStore snapshots, keyed by name,
// in a RocksDB database.
type Checkpoints struct {
	path string

	db    *rocksdb.DB
	opts  *rocksdb.Options
	rOpts *rocksdb.ReadOptions
	wOpts *rocksdb.WriteOptions
}

// New opens (or creates) a checkpoint database at the given path.
// If opts is nil, default options that create the database if missing
// are used. The returned Checkpoints owns opts and destroys it on Close.
func New(path string, opts *rocksdb.Options) (*Checkpoints, error) {
	if opts == nil {
		opts = rocksdb.NewDefaultOptions()
		opts.SetCreateIfMissing(true)
	}

	db, err := rocksdb.OpenDb(opts, path)
	if err != nil {
		opts.Destroy()
		return nil, errors.Wrapf(err, "opening checkpoint db %s", path)
	}

	return &Checkpoints{
		path:  path,
		db:    db,
		opts:  opts,
		rOpts: rocksdb.NewDefaultReadOptions(),
		wOpts: rocksdb.NewDefaultWriteOptions(),
	}, nil
}

// Close implements io.Closer.
func (c *Checkpoints) Close() error {
	glog.V(1).Infof("Closing checkpoint db %s", c.path)
	c.db.Close()
	c.rOpts.Destroy()
	c.wOpts.Destroy()
	c.opts.Destroy()
	return nil
}

// Put writes a snapshot of store under the given key, replacing any
// existing checkpoint with that key.
func (c *Checkpoints) Put(key string, store arena.StateStore) error {
	var buf bytes.Buffer
	if err := store.Encode(&buf, arena.Gob); err != nil {
		return errors.Wrapf(err, "encoding checkpoint %s", key)
	}

	if err := c.db.Put(c.wOpts, []byte(checkpointPrefix+key), buf.Bytes()); err != nil {
		return errors.Wrapf(err, "writing checkpoint %s", key)
	}

	glog.V(1).Infof("Wrote checkpoint %s with %d trees (%d bytes)", key, store.Len(), buf.Len())
	return nil
}

// Save writes a snapshot of store under a new unique key and returns the key.
func (c *Checkpoints) Save(store arena.StateStore) (string, error) {
	key := uuid.New().String()
	if err := c.Put(key, store); err != nil {
		return "", err
	}

	return key, nil
}

// Get loads the checkpoint with the given key into a new StateStore.
func (c *Checkpoints) Get(key string) (arena.StateStore, error) {
	value, err := c.db.Get(c.rOpts, []byte(checkpointPrefix+key))
	if err != nil {
		return arena.StateStore{}, errors.Wrapf(err, "reading checkpoint %s", key)
	}
	defer value.Free()

	if !value.Exists() {
		return arena.StateStore{}, errors.Wrap(ErrNotFound, key)
	}

	store, err := arena.Decode(bytes.NewReader(value.Data()), arena.Gob)
	if err != nil {
		return arena.StateStore{}, errors.Wrapf(err, "decoding checkpoint %s", key)
	}

	return store, nil
}

// Delete removes the checkpoint with the given key, if it exists.
func (c *Checkpoints) Delete(key string) error {
	return c.db.Delete(c.wOpts, []byte(checkpointPrefix+key))
}

// Keys returns the keys of all checkpoints, in sorted order.
func (c *Checkpoints) Keys() ([]string, error) {
	it := c.db.NewIterator(c.rOpts)
	defer it.Close()

	prefix := []byte(checkpointPrefix)
	var result []string
	for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
		key := it.Key()
		result = append(result, string(key.Data()[len(prefix):]))
		key.Free()
	}

	if err := it.Err(); err != nil {
		return nil, err
	}

	return result, nil
}
