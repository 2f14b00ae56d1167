package kuhn

import (
	"path/filepath"
	"testing"

	"github.com/timpalpant/go-cfr-arena"
	"github.com/timpalpant/go-cfr-arena/tree"
)

func TestPoker_GameTree(t *testing.T) {
	store := arena.NewStateStore()
	state := Build(store, 0)

	// Root, 1 + 3 deal nodes, and 9 nodes for each of the 6 deals.
	nNodes := tree.CountNodes(state)
	if nNodes != 59 {
		t.Errorf("expected %d nodes, got %d", 59, nNodes)
	}

	if state.Len() != nNodes {
		t.Errorf("expected all %d arena nodes to be reachable, got %d", state.Len(), nNodes)
	}

	nTerminal := tree.CountTerminalNodes(state)
	if nTerminal != 30 {
		t.Errorf("expected %d terminal nodes, got %d", 30, nTerminal)
	}

	nChance := tree.CountChanceNodes(state)
	if nChance != 4 {
		t.Errorf("expected %d chance nodes, got %d", 4, nChance)
	}

	players := tree.CountPlayerNodes(state)
	if players[0] != 12 || players[1] != 12 {
		t.Errorf("expected 12 decision points per player, got %v", players)
	}

	if depth := tree.MaxDepth(state); depth != 6 {
		t.Errorf("expected depth %d, got %d", 6, depth)
	}
}

func TestPoker_TraversalStackUnwound(t *testing.T) {
	store := arena.NewStateStore()
	Build(store, 0)

	if store.TraversalLen(0) != 1 {
		t.Errorf("expected only the root traversal state, got %d", store.TraversalLen(0))
	}

	// The tree can be walked again from the root.
	_, cursor := store.PushTraversal(0)
	if cursor != arena.NewRootTraversalState(0) {
		t.Errorf("expected root cursor, got %+v", cursor)
	}
}

func TestPoker_Utilities(t *testing.T) {
	store := arena.NewStateStore()
	state := Build(store, 0)

	var total float32
	tree.Visit(state, func(node *arena.Node, depth int) {
		if node.Data.IsTerminal() {
			total += node.Data.Terminal.TotalUtility
			if node.GetCount(0) != 1 {
				t.Errorf("terminal node %d: expected count 1, got %d", node.Idx, node.GetCount(0))
			}
		}
	})

	// The game is zero-sum over all deals with uniform play.
	if total != 0 {
		t.Errorf("expected total utility 0, got %v", total)
	}

	// P0 holds the King, P1 the Jack; bet, call.
	path := []int{0, int(King), int(Jack), BetEdge, BetEdge}
	idx := 0
	for _, edge := range path {
		node, _ := state.Get(idx)
		child, ok := node.GetChild(edge)
		if !ok {
			t.Fatalf("node %d: expected child at edge %d", idx, edge)
		}
		idx = child
	}

	node, _ := state.Get(idx)
	if !node.Data.IsTerminal() || node.Data.Terminal.TotalUtility != 2.0 {
		t.Errorf("expected terminal utility 2, got %v", node.Data)
	}
}

func TestPoker_ChanceCounts(t *testing.T) {
	store := arena.NewStateStore()
	state := Build(store, 0)

	root, _ := state.Get(0)
	dealIdx, _ := root.GetChild(0)
	deal, _ := state.Get(dealIdx)
	if !deal.Data.IsChance() || deal.NumChildren() != 3 {
		t.Fatalf("expected chance node with 3 children, got %v with %d", deal.Data, deal.NumChildren())
	}

	for edge, child := range deal.IterChildren() {
		if deal.GetCount(edge) != 1 {
			t.Errorf("card %d: expected count 1, got %d", edge, deal.GetCount(edge))
		}

		p1Deal, _ := state.Get(child)
		if _, ok := p1Deal.GetChild(edge); ok {
			t.Errorf("card %d dealt to both players", edge)
		}
	}
}

func TestPoker_PerPlayerTrees(t *testing.T) {
	store := arena.NewStateStore()
	for player := 0; player < 2; player++ {
		Build(store, player)
	}

	if store.Len() != 2 {
		t.Errorf("expected 2 trees, got %d", store.Len())
	}

	path := filepath.Join(t.TempDir(), "kuhn.gob")
	if err := store.SaveToFile(path); err != nil {
		t.Fatal(err)
	}

	loaded, err := arena.LoadFromFile(path)
	if err != nil {
		t.Fatal(err)
	}

	for i, state := range loaded.States() {
		if n := tree.CountNodes(state); n != 59 {
			t.Errorf("tree %d: expected %d nodes, got %d", i, 59, n)
		}

		if !state.StartingGameState().Equal(StartingGameState()) {
			t.Errorf("tree %d: unexpected starting game state %+v", i, state.StartingGameState())
		}
	}
}

func TestPoker_BuildOutOfOrder(t *testing.T) {
	store := arena.NewStateStore()
	func() {
		defer func() {
			if r := recover(); r == nil {
				t.Error("expected panic building player 1 tree first")
			}
		}()

		Build(store, 1)
	}()

	if store.Len() != 0 || store.TraversalLen(1) != 0 {
		t.Errorf("store was modified: %d trees, %d traversal states",
			store.Len(), store.TraversalLen(1))
	}

	// Player 0 can still be built afterwards.
	state := Build(store, 0)
	if n := tree.CountNodes(state); n != 59 {
		t.Errorf("expected %d nodes, got %d", 59, n)
	}
}

func TestPokerNode_InfoSetKey(t *testing.T) {
	_, deals := NewGame().Children()
	_, hands := deals[int(Queen)].Children()
	_, actions := hands[0].Children()
	if key := actions[BetEdge].InfoSetKey(1); key != "J-rrb" {
		t.Errorf("expected J-rrb, got %s", key)
	}
}
