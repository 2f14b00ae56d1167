package arena

import (
	"fmt"

	"github.com/golang/glog"
)

type stateStoreInternal struct {
	// The game trees being solved, conventionally one per player.
	cfrStates []*CFRState
	// The current place in the tree of each player, used as a stack.
	// The bottom entry is a permanent root cursor.
	traversalStates [][]TraversalState
}

// StateStore holds all CFR trees and traversal cursors for a single game
// that is being solved. Since all players use the same store, it enables
// reuse of the trees and regret matchers of all players.
//
// A StateStore is a handle: copies of it share the same underlying storage,
// and a mutation through any copy is visible through all of them.
// StateStore is not safe for concurrent use; confine each store to a single
// goroutine or synchronize externally.
type StateStore struct {
	inner *stateStoreInternal
}

// NewStateStore returns an empty store.
func NewStateStore() StateStore {
	return StateStore{inner: &stateStoreInternal{}}
}

// SameStorage reports whether s and other are handles to the same store.
func (s StateStore) SameStorage(other StateStore) bool {
	return s.inner == other.inner
}

// Len returns the number of trees in the store.
func (s StateStore) Len() int {
	return len(s.inner.cfrStates)
}

func (s StateStore) IsEmpty() bool {
	return s.Len() == 0
}

// TraversalLen returns the depth of the given player's traversal stack,
// or 0 if the player has none.
func (s StateStore) TraversalLen(playerIdx int) int {
	if playerIdx < 0 || playerIdx >= len(s.inner.traversalStates) {
		return 0
	}

	return len(s.inner.traversalStates[playerIdx])
}

// PeekTraversal returns a copy of the top of the player's traversal stack.
func (s StateStore) PeekTraversal(playerIdx int) (TraversalState, bool) {
	if playerIdx < 0 || playerIdx >= len(s.inner.traversalStates) {
		return TraversalState{}, false
	}

	stack := s.inner.traversalStates[playerIdx]
	if len(stack) == 0 {
		return TraversalState{}, false
	}

	return stack[len(stack)-1], true
}

// State returns the tree at slot i.
func (s StateStore) State(i int) (*CFRState, bool) {
	if i < 0 || i >= len(s.inner.cfrStates) {
		return nil, false
	}

	return s.inner.cfrStates[i], true
}

// States returns all trees in the store, in slot order.
func (s StateStore) States() []*CFRState {
	return append([]*CFRState(nil), s.inner.cfrStates...)
}

// NewState appends a new tree for the given starting configuration and
// seeds the player's traversal stack with a permanent root cursor followed
// by a working copy of it. It returns the new tree and the working cursor.
func (s StateStore) NewState(gs GameState, playerIdx int) (*CFRState, TraversalState) {
	if playerIdx < 0 {
		panic(fmt.Errorf("invalid player index %d", playerIdx))
	}

	state := NewCFRState(gs)
	s.inner.cfrStates = append(s.inner.cfrStates, state)

	for len(s.inner.traversalStates) <= playerIdx {
		s.inner.traversalStates = append(s.inner.traversalStates, nil)
	}

	root := NewRootTraversalState(playerIdx)
	s.inner.traversalStates[playerIdx] = append(s.inner.traversalStates[playerIdx], root, root)

	glog.V(2).Infof("Created tree %d for player %d", len(s.inner.cfrStates)-1, playerIdx)
	return state, root
}

// PushTraversal pushes a copy of the top of the player's traversal stack
// and returns it along with the player's tree (the tree in slot playerIdx).
//
// It panics if the player has no traversal stack or tree.
func (s StateStore) PushTraversal(playerIdx int) (*CFRState, TraversalState) {
	stack := s.mustStack(playerIdx)
	if len(stack) == 0 {
		panic(fmt.Errorf("no traversal state found for player %d", playerIdx))
	}

	if playerIdx >= len(s.inner.cfrStates) {
		panic(fmt.Errorf("no tree found for player %d", playerIdx))
	}

	top := stack[len(stack)-1]
	s.inner.traversalStates[playerIdx] = append(stack, top)
	return s.inner.cfrStates[playerIdx], top
}

// UpdateTraversal replaces the top of the player's traversal stack, recording
// the walk's movement. The permanent root cursor cannot be replaced.
func (s StateStore) UpdateTraversal(playerIdx int, ts TraversalState) {
	stack := s.mustStack(playerIdx)
	if len(stack) <= 1 {
		panic(fmt.Errorf("no working traversal state to update for player %d", playerIdx))
	}

	stack[len(stack)-1] = ts
}

// PopTraversal removes the top of the player's traversal stack.
//
// It panics if the stack is empty or holds only the permanent root cursor.
func (s StateStore) PopTraversal(playerIdx int) {
	stack := s.mustStack(playerIdx)
	switch len(stack) {
	case 0:
		panic(fmt.Errorf("no traversal state to pop for player %d", playerIdx))
	case 1:
		panic(fmt.Errorf("cannot pop root traversal state for player %d", playerIdx))
	}

	s.inner.traversalStates[playerIdx] = stack[:len(stack)-1]
}

func (s StateStore) mustStack(playerIdx int) []TraversalState {
	if playerIdx < 0 || playerIdx >= len(s.inner.traversalStates) {
		panic(fmt.Errorf("traversal state for player %d not found", playerIdx))
	}

	return s.inner.traversalStates[playerIdx]
}

// MergeFrom appends all trees and traversal stacks of other onto s, in order.
//
// Slots are neither renumbered nor deduplicated. Merged trees are shared
// with other; traversal stacks are copied.
func (s StateStore) MergeFrom(other StateStore) {
	nTrees, nStacks := other.Len(), len(other.inner.traversalStates)
	s.inner.cfrStates = append(s.inner.cfrStates, other.inner.cfrStates...)
	for _, stack := range other.inner.traversalStates {
		s.inner.traversalStates = append(s.inner.traversalStates,
			append([]TraversalState(nil), stack...))
	}

	glog.V(1).Infof("Merged %d trees and %d traversal stacks, store now has %d trees",
		nTrees, nStacks, s.Len())
}
