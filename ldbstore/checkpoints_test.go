package ldbstore

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/syndtr/goleveldb/leveldb/opt"

	"github.com/timpalpant/go-cfr-arena"
	"github.com/timpalpant/go-cfr-arena/kuhn"
)

func newTestCheckpoints(t *testing.T) *Checkpoints {
	c, err := New(t.TempDir(), &opt.Options{})
	if err != nil {
		t.Fatal(err)
	}

	t.Cleanup(func() { c.Close() })
	return c
}

func TestCheckpoints_PutGet(t *testing.T) {
	c := newTestCheckpoints(t)
	store := arena.NewStateStore()
	kuhn.Build(store, 0)
	kuhn.Build(store, 1)

	if err := c.Put("iter-100", store); err != nil {
		t.Fatal(err)
	}

	loaded, err := c.Get("iter-100")
	if err != nil {
		t.Fatal(err)
	}

	if loaded.Len() != 2 {
		t.Errorf("expected 2 trees, got %d", loaded.Len())
	}

	for i, state := range loaded.States() {
		if state.Len() != 59 {
			t.Errorf("tree %d: expected 59 nodes, got %d", i, state.Len())
		}
	}

	if loaded.TraversalLen(1) != 1 {
		t.Errorf("expected root traversal state, got %d", loaded.TraversalLen(1))
	}
}

func TestCheckpoints_Save(t *testing.T) {
	c := newTestCheckpoints(t)
	store := arena.NewStateStore()
	kuhn.Build(store, 0)

	key, err := c.Save(store)
	if err != nil {
		t.Fatal(err)
	}

	other, err := c.Save(store)
	if err != nil {
		t.Fatal(err)
	}

	if key == other {
		t.Errorf("expected unique keys, got %s twice", key)
	}

	keys, err := c.Keys()
	if err != nil {
		t.Fatal(err)
	}

	if len(keys) != 2 {
		t.Errorf("expected 2 keys, got %v", keys)
	}

	if _, err := c.Get(key); err != nil {
		t.Error(err)
	}
}

func TestCheckpoints_NotFound(t *testing.T) {
	c := newTestCheckpoints(t)
	store := arena.NewStateStore()
	store.NewState(kuhn.StartingGameState(), 0)
	if err := c.Put("a", store); err != nil {
		t.Fatal(err)
	}

	if err := c.Delete("a"); err != nil {
		t.Fatal(err)
	}

	_, err := c.Get("a")
	if errors.Cause(err) != ErrNotFound {
		t.Errorf("expected ErrNotFound, got %v", err)
	}

	keys, err := c.Keys()
	if err != nil {
		t.Fatal(err)
	}

	if len(keys) != 0 {
		t.Errorf("expected no keys, got %v", keys)
	}
}
