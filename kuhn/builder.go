package kuhn

import (
	"fmt"

	"github.com/golang/glog"

	"github.com/timpalpant/go-cfr-arena"
)

// Build expands the complete Kuhn Poker game tree into a new tree in store
// and returns it.
//
// The walk is driven entirely by the player's traversal stack: a cursor is
// pushed before descending into a child and popped when backtracking, with
// ChosenChildIdx recording the edge being explored. Every chance edge and
// terminal node visited has its count incremented. When Build returns the
// player's stack holds only its root cursor.
//
// Trees are addressed by player, so the new tree must land in slot player:
// Build panics, leaving store untouched, unless store.Len() == player.
func Build(store arena.StateStore, player int) *arena.CFRState {
	if store.Len() != player {
		panic(fmt.Errorf("cannot build tree for player %d in store with %d trees", player, store.Len()))
	}

	state, _ := store.NewState(StartingGameState(), player)
	b := &builder{
		store:  store,
		state:  state,
		player: player,
		// The arena root has a single edge, to the first deal.
		path: []*PokerNode{nil},
	}

	b.run()
	glog.V(1).Infof("Built Kuhn poker tree with %d nodes for player %d", state.Len(), player)
	return state
}

type builder struct {
	store  arena.StateStore
	state  *arena.CFRState
	player int
	// Game position of each working cursor on the traversal stack,
	// nil for the arena root.
	path []*PokerNode
}

func (b *builder) run() {
	for len(b.path) > 0 {
		cursor, _ := b.store.PeekTraversal(b.player)
		edge, child, ok := b.nextChild(cursor.ChosenChildIdx)
		if !ok {
			b.backtrack()
			continue
		}

		b.descend(cursor, edge, child)
	}
}

// nextChild returns the first edge >= from leaving the current position.
func (b *builder) nextChild(from int) (int, PokerNode, bool) {
	current := b.path[len(b.path)-1]
	if current == nil {
		if from == 0 {
			return 0, NewGame(), true
		}

		return 0, PokerNode{}, false
	}

	edges, children := current.Children()
	for i, edge := range edges {
		if edge >= from {
			return edge, children[i], true
		}
	}

	return 0, PokerNode{}, false
}

func (b *builder) descend(cursor arena.TraversalState, edge int, child PokerNode) {
	b.store.UpdateTraversal(b.player, cursor.MoveTo(cursor.NodeIdx, edge))

	parent, _ := b.state.Get(cursor.NodeIdx)
	if parent.Data.IsChance() {
		parent.IncrementCount(edge)
	}

	childIdx := b.state.ChildOrAdd(cursor.NodeIdx, edge, child.NodeData())
	if child.IsTerminal() {
		node, _ := b.state.Get(childIdx)
		node.IncrementCount(0)
	}

	b.store.PushTraversal(b.player)
	b.store.UpdateTraversal(b.player, arena.NewTraversalState(childIdx, 0, b.player))
	b.path = append(b.path, &child)
}

func (b *builder) backtrack() {
	b.path = b.path[:len(b.path)-1]
	b.store.PopTraversal(b.player)
	if len(b.path) == 0 {
		return
	}

	parent, _ := b.store.PeekTraversal(b.player)
	b.store.UpdateTraversal(b.player, parent.MoveTo(parent.NodeIdx, parent.ChosenChildIdx+1))
}
