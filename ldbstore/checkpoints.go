package ldbstore

import (
	"bytes"

	"github.com/golang/glog"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/opt"
	"github.com/syndtr/goleveldb/leveldb/util"

	"github.com/timpalpant/go-cfr-arena"
)

const checkpointPrefix = "ckpt:"

// ErrNotFound is returned when a checkpoint does not exist.
var ErrNotFound = errors.New("checkpoint not found")

// Checkpoints is a collection of StateStore snapshots, keyed by name,
// in a LevelDB database.
type Checkpoints struct {
	path string

	db    *leveldb.DB
	rOpts *opt.ReadOptions
	wOpts *opt.WriteOptions
}

// New opens (or creates) a checkpoint database at the given path.
func New(path string, opts *opt.Options) (*Checkpoints, error) {
	db, err := leveldb.OpenFile(path, opts)
	if err != nil {
		return nil, errors.Wrapf(err, "opening checkpoint db %s", path)
	}

	return &Checkpoints{
		path: path,
		db:   db,
	}, nil
}

// Close implements io.Closer.
func (c *Checkpoints) Close() error {
	glog.V(1).Infof("Closing checkpoint db %s", c.path)
	return c.db.Close()
}

// Put writes a snapshot of store under the given key, replacing any
// existing checkpoint with that key.
func (c *Checkpoints) Put(key string, store arena.StateStore) error {
	var buf bytes.Buffer
	if err := store.Encode(&buf, arena.Gob); err != nil {
		return errors.Wrapf(err, "encoding checkpoint %s", key)
	}

	if err := c.db.Put([]byte(checkpointPrefix+key), buf.Bytes(), c.wOpts); err != nil {
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
	buf, err := c.db.Get([]byte(checkpointPrefix+key), c.rOpts)
	if err == leveldb.ErrNotFound {
		return arena.StateStore{}, errors.Wrap(ErrNotFound, key)
	} else if err != nil {
		return arena.StateStore{}, errors.Wrapf(err, "reading checkpoint %s", key)
	}

	store, err := arena.Decode(bytes.NewReader(buf), arena.Gob)
	if err != nil {
		return arena.StateStore{}, errors.Wrapf(err, "decoding checkpoint %s", key)
	}

	return store, nil
}

// Delete removes the checkpoint with the given key, if it exists.
func (c *Checkpoints) Delete(key string) error {
	return c.db.Delete([]byte(checkpointPrefix+key), c.wOpts)
}

// Keys returns the keys of all checkpoints, in sorted order.
func (c *Checkpoints) Keys() ([]string, error) {
	iter := c.db.NewIterator(util.BytesPrefix([]byte(checkpointPrefix)), c.rOpts)
	defer iter.Release()

	var result []string
	for iter.Next() {
		result = append(result, string(iter.Key()[len(checkpointPrefix):]))
	}

	if err := iter.Error(); err != nil {
		return nil, err
	}

	return result, nil
}
