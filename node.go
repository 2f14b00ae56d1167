package arena

import (
	"fmt"
	"iter"
	"math"
)

// NumEdges is the width of every node's edge table. An edge label is a card
// identifier (0-51) for chance nodes and an action identifier for player nodes.
//
// A fixed width keeps each node's children contiguous in memory at the cost
// of some overhead for nodes with few children.
const NumEdges = 52

const noChild = -1

// NodeType is the type of node in an extensive-form game tree.
type NodeType uint8

const (
	// RootNode is the unique node at arena position 0, representing the
	// start of the game before any cards are dealt or forced bets posted.
	// Traversals start here and follow edge 0 to the first real event.
	RootNode NodeType = iota
	// ChanceNode represents the dealing of a single card. Each edge label
	// is a card, and its count is the number of times that card was dealt.
	ChanceNode
	// PlayerNode is a decision point for one player.
	PlayerNode
	// TerminalNode is a leaf. Edge 0 is reserved for bookkeeping counts.
	TerminalNode
)

var nodeTypeStr = [...]string{
	"Root",
	"Chance",
	"Player",
	"Terminal",
}

func (t NodeType) String() string {
	if int(t) < len(nodeTypeStr) {
		return nodeTypeStr[t]
	}

	return fmt.Sprintf("NodeType(%d)", uint8(t))
}

// PlayerData is the payload of a PlayerNode.
type PlayerData struct {
	// RegretMatcher is transient: it is never persisted and is always nil
	// after a node is decoded. See CFRState.AttachRegretMatchers.
	RegretMatcher RegretMatcher
	PlayerIdx     int
}

func (pd *PlayerData) HasRegretMatcher() bool {
	return pd.RegretMatcher != nil
}

// TerminalData is the payload of a TerminalNode.
type TerminalData struct {
	TotalUtility float32 `json:"total_utility"`
}

func NewTerminalData(totalUtility float32) TerminalData {
	return TerminalData{TotalUtility: totalUtility}
}

// NodeData is the variant payload of a Node. Exactly one of Player or
// Terminal is set, and only when Type is PlayerNode or TerminalNode.
type NodeData struct {
	Type     NodeType
	Player   *PlayerData
	Terminal *TerminalData
}

func RootNodeData() NodeData {
	return NodeData{Type: RootNode}
}

func ChanceNodeData() NodeData {
	return NodeData{Type: ChanceNode}
}

func PlayerNodeData(pd PlayerData) NodeData {
	return NodeData{Type: PlayerNode, Player: &pd}
}

func TerminalNodeData(td TerminalData) NodeData {
	return NodeData{Type: TerminalNode, Terminal: &td}
}

func (d NodeData) IsRoot() bool     { return d.Type == RootNode }
func (d NodeData) IsChance() bool   { return d.Type == ChanceNode }
func (d NodeData) IsPlayer() bool   { return d.Type == PlayerNode }
func (d NodeData) IsTerminal() bool { return d.Type == TerminalNode }

// String implements fmt.Stringer.
func (d NodeData) String() string {
	return d.Type.String()
}

// Node is a single vertex of a CFRState arena. Nodes refer to each other
// by arena position rather than by pointer.
type Node struct {
	Idx  int
	Data NodeData

	parent         int
	parentChildIdx int

	children [NumEdges]int32
	count    [NumEdges]uint32
}

// NewRootNode returns the root node. The root is its own parent.
func NewRootNode() Node {
	n := Node{
		Idx:            0,
		Data:           RootNodeData(),
		parent:         0,
		parentChildIdx: noChild,
	}
	n.clearChildren()
	return n
}

// NewNode creates a node at arena position idx, reached from parent via
// edge parentChildIdx. It does not insert the node into an arena or link the
// parent's edge; see CFRState.Add.
func NewNode(idx, parent, parentChildIdx int, data NodeData) Node {
	n := Node{
		Idx:            idx,
		Data:           data,
		parent:         parent,
		parentChildIdx: parentChildIdx,
	}
	n.clearChildren()
	return n
}

func (n *Node) clearChildren() {
	for i := range n.children {
		n.children[i] = noChild
	}
}

// Parent returns the arena position of this node's parent.
func (n *Node) Parent() (int, bool) {
	return n.parent, n.parent != noChild
}

// ParentChildIdx returns the edge label used to reach this node from
// its parent. The root has none.
func (n *Node) ParentChildIdx() (int, bool) {
	return n.parentChildIdx, n.parentChildIdx != noChild
}

// SetChild links edge to the node at arena position child.
// Edges are write-once: it panics if the edge is already set.
func (n *Node) SetChild(edge, child int) {
	checkEdge(edge)
	if child < 0 || child > math.MaxInt32 {
		panic(fmt.Errorf("node %d: child %d out of range for edge %d", n.Idx, child, edge))
	}

	if n.children[edge] != noChild {
		panic(fmt.Errorf("node %d: edge %d already points to %d, cannot set to %d",
			n.Idx, edge, n.children[edge], child))
	}

	n.children[edge] = int32(child)
}

// GetChild returns the arena position of the child at edge, if set.
func (n *Node) GetChild(edge int) (int, bool) {
	checkEdge(edge)
	c := n.children[edge]
	return int(c), c != noChild
}

// IncrementCount increments the visit count of edge.
// Terminal nodes have no real edges, so only edge 0 may be counted.
func (n *Node) IncrementCount(edge int) {
	checkEdge(edge)
	if edge != 0 && n.Data.IsTerminal() {
		panic(fmt.Errorf("node %d: cannot increment count of edge %d on terminal node", n.Idx, edge))
	}

	n.count[edge]++
}

func (n *Node) GetCount(edge int) uint32 {
	checkEdge(edge)
	return n.count[edge]
}

// NumChildren returns the number of edges that have been set.
func (n *Node) NumChildren() int {
	total := 0
	for _, c := range n.children {
		if c != noChild {
			total++
		}
	}

	return total
}

// IterChildren yields (edge, child) for every set edge, in edge order.
//
// It is intended for visualization and debugging rather than traversal.
func (n *Node) IterChildren() iter.Seq2[int, int] {
	return func(yield func(int, int) bool) {
		for edge, c := range n.children {
			if c == noChild {
				continue
			}

			if !yield(edge, int(c)) {
				return
			}
		}
	}
}

func checkEdge(edge int) {
	if edge < 0 || edge >= NumEdges {
		panic(fmt.Errorf("edge %d out of range [0, %d)", edge, NumEdges))
	}
}
