package arena

import (
	"fmt"

	"github.com/golang/glog"
	"github.com/pkg/errors"
)

// CFRState is a single game tree: an arena of Nodes addressed by position,
// plus the starting configuration the tree was built from.
//
// Nodes are only ever appended, and edges are set at most once.
// A *CFRState is a handle; all holders observe the same arena.
type CFRState struct {
	startingGameState GameState
	nodes             []Node
}

// NewCFRState returns a tree containing only the root node.
func NewCFRState(gs GameState) *CFRState {
	return &CFRState{
		startingGameState: gs.clone(),
		nodes:             []Node{NewRootNode()},
	}
}

func (s *CFRState) StartingGameState() GameState {
	return s.startingGameState
}

// Len returns the number of nodes in the arena.
func (s *CFRState) Len() int {
	return len(s.nodes)
}

// Get returns the node at arena position idx.
//
// The returned pointer is only valid until the next node is added.
func (s *CFRState) Get(idx int) (*Node, bool) {
	if idx < 0 || idx >= len(s.nodes) {
		return nil, false
	}

	return &s.nodes[idx], true
}

// Add appends a new node reached from parentIdx via edge, links the
// parent's edge to it, and returns its position.
// It panics if the parent does not exist or the edge is already set.
func (s *CFRState) Add(parentIdx, edge int, data NodeData) int {
	if parentIdx < 0 || parentIdx >= len(s.nodes) {
		panic(fmt.Errorf("parent node %d not found in tree of %d nodes", parentIdx, len(s.nodes)))
	}

	idx := len(s.nodes)
	s.nodes[parentIdx].SetChild(edge, idx)
	s.nodes = append(s.nodes, NewNode(idx, parentIdx, edge, data))
	return idx
}

// ChildOrAdd returns the child of parentIdx at edge, adding it with the
// given data if the edge has not been explored yet.
func (s *CFRState) ChildOrAdd(parentIdx, edge int, data NodeData) int {
	parent, ok := s.Get(parentIdx)
	if !ok {
		panic(fmt.Errorf("parent node %d not found in tree of %d nodes", parentIdx, len(s.nodes)))
	}

	if child, ok := parent.GetChild(edge); ok {
		return child
	}

	return s.Add(parentIdx, edge, data)
}

// AttachRegretMatchers calls newMatcher for every player node that does not
// currently hold a RegretMatcher and attaches the result. It returns the
// number of matchers attached.
//
// Trees loaded from a snapshot have no regret matchers, so this must be
// done before resuming a solve.
func (s *CFRState) AttachRegretMatchers(newMatcher func(node *Node) RegretMatcher) int {
	n := 0
	for i := range s.nodes {
		node := &s.nodes[i]
		if !node.Data.IsPlayer() || node.Data.Player.HasRegretMatcher() {
			continue
		}

		node.Data.Player.RegretMatcher = newMatcher(node)
		n++
	}

	glog.V(2).Infof("Attached %d regret matchers to tree of %d nodes", n, len(s.nodes))
	return n
}

// validate checks the structural invariants of a decoded arena.
func (s *CFRState) validate() error {
	if len(s.nodes) == 0 {
		return errors.New("tree has no root node")
	}

	for i := range s.nodes {
		node := &s.nodes[i]
		if node.Idx != i {
			return errors.Errorf("node at position %d has idx %d", i, node.Idx)
		}

		if node.Data.IsRoot() != (i == 0) {
			return errors.Errorf("node %d: root node must be unique and at position 0, got %v", i, node.Data)
		}

		if node.Data.IsPlayer() && node.Data.Player == nil {
			return errors.Errorf("node %d: player node without player data", i)
		}

		if node.Data.IsTerminal() && node.Data.Terminal == nil {
			return errors.Errorf("node %d: terminal node without terminal data", i)
		}

		if node.parent < 0 || node.parent >= len(s.nodes) {
			return errors.Errorf("node %d: parent %d out of range", i, node.parent)
		}

		for edge, child := range node.IterChildren() {
			if child <= 0 || child >= len(s.nodes) {
				return errors.Errorf("node %d: edge %d points to %d, out of range", i, edge, child)
			}
		}
	}

	return nil
}
