// Command cfrsnapshot inspects, merges, and converts StateStore snapshots.
//
// Each input (a snapshot path, or a checkpoint key for the database
// backends) is loaded and merged, in order, into a single store. A summary
// of every tree is printed, and the merged store can be written back out
// or one of its trees exported to Graphviz.
//
//	cfrsnapshot -out merged.gob solve-0.json solve-1.json
//	cfrsnapshot -backend leveldb -db ./ckpt -dot tree.dot iter-1000
package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/golang/glog"
	"github.com/pkg/errors"
	"github.com/syndtr/goleveldb/leveldb/opt"

	"github.com/timpalpant/go-cfr-arena"
	"github.com/timpalpant/go-cfr-arena/internal/config"
	"github.com/timpalpant/go-cfr-arena/kuhn"
	"github.com/timpalpant/go-cfr-arena/ldbstore"
	"github.com/timpalpant/go-cfr-arena/rdbstore"
	"github.com/timpalpant/go-cfr-arena/tree"
)

// snapshotStore reads and writes whole-store snapshots by key.
type snapshotStore interface {
	Get(key string) (arena.StateStore, error)
	Put(key string, store arena.StateStore) error
	Close() error
}

type fileStore struct{}

func (fileStore) Get(path string) (arena.StateStore, error) {
	return arena.LoadFromFile(path)
}

func (fileStore) Put(path string, store arena.StateStore) error {
	return store.SaveToFile(path)
}

func (fileStore) Close() error { return nil }

func main() {
	configPath := flag.String("config", "", "Optional config file")
	backend := flag.String("backend", config.BackendFile, "Snapshot backend: file, leveldb, or rocksdb")
	dbPath := flag.String("db", "", "Checkpoint database directory")
	output := flag.String("out", "", "Write the merged store to this path or key")
	dotOutput := flag.String("dot", "", "Write a tree to this file in DOT format")
	dotTree := flag.Int("dot_tree", 0, "Tree to write with -dot")
	seedKuhn := flag.Bool("kuhn", false, "Seed the store with a Kuhn poker tree per player")
	flag.Parse()

	cfg, err := config.Setup(*configPath)
	if err != nil {
		glog.Exitf("Failed to load configuration: %v", err)
	}

	// Flags given explicitly take precedence over the config file and environment.
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "backend":
			cfg.Backend = *backend
		case "db":
			cfg.DBPath = *dbPath
		case "out":
			cfg.Output = *output
		case "dot":
			cfg.DotOutput = *dotOutput
		case "dot_tree":
			cfg.DotTree = *dotTree
		case "kuhn":
			cfg.SeedKuhn = *seedKuhn
		}
	})
	cfg.Inputs = append(cfg.Inputs, flag.Args()...)

	if err := cfg.Validate(); err != nil {
		glog.Exitf("Invalid configuration: %v", err)
	}

	snapshots, err := openSnapshotStore(cfg)
	if err != nil {
		glog.Exitf("Failed to open %s backend: %v", cfg.Backend, err)
	}
	defer snapshots.Close()

	store, err := loadStore(snapshots, cfg.SeedKuhn, cfg.Inputs)
	if err != nil {
		glog.Exitf("%v", err)
	}

	printSummary(os.Stdout, store)

	if cfg.Output != "" {
		if err := snapshots.Put(cfg.Output, store); err != nil {
			glog.Exitf("Failed to write %s: %v", cfg.Output, err)
		}
		glog.Infof("Wrote %d trees to %s", store.Len(), cfg.Output)
	}

	if cfg.DotOutput != "" {
		if err := writeDOT(cfg.DotOutput, store, cfg.DotTree); err != nil {
			glog.Exitf("Failed to write %s: %v", cfg.DotOutput, err)
		}
	}
}

func openSnapshotStore(cfg *config.Config) (snapshotStore, error) {
	switch cfg.Backend {
	case config.BackendLevelDB:
		return ldbstore.New(cfg.DBPath, &opt.Options{})
	case config.BackendRocksDB:
		return rdbstore.New(cfg.DBPath, nil)
	default:
		return fileStore{}, nil
	}
}

// loadStore builds the store to operate on: Kuhn poker trees for both
// players if seedKuhn is set, followed by each input merged in order.
func loadStore(snapshots snapshotStore, seedKuhn bool, inputs []string) (arena.StateStore, error) {
	store := arena.NewStateStore()
	if seedKuhn {
		for player := 0; player < 2; player++ {
			kuhn.Build(store, player)
		}
	}

	for _, input := range inputs {
		loaded, err := snapshots.Get(input)
		if err != nil {
			return arena.StateStore{}, errors.Wrapf(err, "loading %s", input)
		}

		store.MergeFrom(loaded)
	}

	return store, nil
}

func printSummary(w io.Writer, store arena.StateStore) {
	fmt.Fprintf(w, "%d trees\n", store.Len())
	for i, state := range store.States() {
		gs := state.StartingGameState()
		fmt.Fprintf(w, "tree %d: %d nodes (%d reachable), %d chance, %d terminal, depth %d, players %v, stacks %v, blinds %g/%g, ante %g\n",
			i, state.Len(), tree.CountNodes(state), tree.CountChanceNodes(state),
			tree.CountTerminalNodes(state), tree.MaxDepth(state), tree.CountPlayerNodes(state),
			gs.Stacks, gs.SmallBlind, gs.BigBlind, gs.Ante)
		if top, ok := store.PeekTraversal(i); ok {
			fmt.Fprintf(w, "  traversal stack %d: depth %d, top %+v\n", i, store.TraversalLen(i), top)
		}
	}
}

func writeDOT(path string, store arena.StateStore, treeIdx int) error {
	state, ok := store.State(treeIdx)
	if !ok {
		return errors.Errorf("tree %d not found in store of %d trees", treeIdx, store.Len())
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := tree.WriteDOT(f, state); err != nil {
		return err
	}

	return f.Close()
}
