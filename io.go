package arena

import (
	"bufio"
	"encoding/gob"
	"encoding/json"
	"io"
	"os"
	"path/filepath"

	"github.com/golang/glog"
	"github.com/pkg/errors"
)

// Format is the encoding of a StateStore snapshot.
type Format int

const (
	// JSON is a human-readable snapshot document.
	JSON Format = iota
	// Gob is a compact binary snapshot.
	Gob
)

func (f Format) String() string {
	switch f {
	case JSON:
		return "json"
	case Gob:
		return "gob"
	default:
		return "unknown"
	}
}

// FormatForPath returns the snapshot format implied by a file extension:
// Gob for ".gob" and JSON for anything else.
func FormatForPath(path string) Format {
	if filepath.Ext(path) == ".gob" {
		return Gob
	}

	return JSON
}

// snapshot is the persisted form of a StateStore.
type snapshot struct {
	CFRStates       []*CFRState        `json:"cfr_states"`
	TraversalStates [][]TraversalState `json:"traversal_states"`
}

// validate checks that every tree is present and that every cursor names
// a node of the tree in its player's slot.
func (doc *snapshot) validate() error {
	for i, state := range doc.CFRStates {
		if state == nil {
			return errors.Errorf("snapshot tree %d is null", i)
		}
	}

	for player, stack := range doc.TraversalStates {
		for depth, ts := range stack {
			if ts.NodeIdx < 0 {
				return errors.Errorf("player %d: traversal state %d names node %d", player, depth, ts.NodeIdx)
			}

			if player < len(doc.CFRStates) && ts.NodeIdx >= doc.CFRStates[player].Len() {
				return errors.Errorf("player %d: traversal state %d names node %d, tree has %d nodes",
					player, depth, ts.NodeIdx, doc.CFRStates[player].Len())
			}
		}
	}

	return nil
}

// Encode writes a snapshot of the store to w.
//
// Regret matchers are not written; see CFRState.AttachRegretMatchers.
func (s StateStore) Encode(w io.Writer, f Format) error {
	doc := snapshot{
		CFRStates:       s.inner.cfrStates,
		TraversalStates: s.inner.traversalStates,
	}

	switch f {
	case JSON:
		return json.NewEncoder(w).Encode(doc)
	case Gob:
		return gob.NewEncoder(w).Encode(doc)
	default:
		return errors.Errorf("unsupported snapshot format %v", f)
	}
}

// Decode reads a snapshot written by Encode into a new, unshared store.
func Decode(r io.Reader, f Format) (StateStore, error) {
	var doc snapshot
	switch f {
	case JSON:
		dec := json.NewDecoder(r)
		if err := dec.Decode(&doc); err != nil {
			return StateStore{}, errors.Wrap(err, "decoding json snapshot")
		}

		var trailing json.RawMessage
		if err := dec.Decode(&trailing); err != io.EOF {
			return StateStore{}, errors.New("unexpected data after json snapshot")
		}
	case Gob:
		if err := gob.NewDecoder(r).Decode(&doc); err != nil {
			return StateStore{}, errors.Wrap(err, "decoding gob snapshot")
		}
	default:
		return StateStore{}, errors.Errorf("unsupported snapshot format %v", f)
	}

	if err := doc.validate(); err != nil {
		return StateStore{}, err
	}

	return StateStore{inner: &stateStoreInternal{
		cfrStates:       doc.CFRStates,
		traversalStates: doc.TraversalStates,
	}}, nil
}

// SaveToFile writes a snapshot of the store to path, in the format implied
// by its extension. The write is not atomic.
func (s StateStore) SaveToFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "creating snapshot file")
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	if err := s.Encode(w, FormatForPath(path)); err != nil {
		return errors.Wrapf(err, "writing snapshot to %s", path)
	}

	if err := w.Flush(); err != nil {
		return errors.Wrapf(err, "writing snapshot to %s", path)
	}

	if err := f.Close(); err != nil {
		return errors.Wrapf(err, "closing snapshot %s", path)
	}

	glog.V(1).Infof("Saved %d trees to %s", s.Len(), path)
	return nil
}

// LoadFromFile reads a snapshot written by SaveToFile into a new store.
// The loaded trees have no regret matchers attached.
func LoadFromFile(path string) (StateStore, error) {
	f, err := os.Open(path)
	if err != nil {
		return StateStore{}, errors.Wrap(err, "opening snapshot file")
	}
	defer f.Close()

	s, err := Decode(bufio.NewReader(f), FormatForPath(path))
	if err != nil {
		return StateStore{}, errors.Wrapf(err, "loading snapshot %s", path)
	}

	glog.V(1).Infof("Loaded %d trees from %s", s.Len(), path)
	return s, nil
}
