package tree

import (
	"bufio"
	"fmt"
	"io"

	"github.com/timpalpant/go-cfr-arena"
)

// WriteDOT writes the tree in Graphviz DOT format. Edges are labeled with
// their edge label and visit count.
func WriteDOT(w io.Writer, state *arena.CFRState) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintln(bw, "digraph cfr {")
	fmt.Fprintln(bw, "  node [fontname=\"Helvetica\"];")

	Visit(state, func(node *arena.Node, depth int) {
		fmt.Fprintf(bw, "  n%d [label=%q, shape=%s];\n", node.Idx, nodeLabel(node), nodeShape(node))
		for edge, child := range node.IterChildren() {
			fmt.Fprintf(bw, "  n%d -> n%d [label=\"%d (%d)\"];\n",
				node.Idx, child, edge, node.GetCount(edge))
		}
	})

	fmt.Fprintln(bw, "}")
	return bw.Flush()
}

func nodeLabel(node *arena.Node) string {
	switch node.Data.Type {
	case arena.PlayerNode:
		return fmt.Sprintf("%d: Player %d", node.Idx, node.Data.Player.PlayerIdx)
	case arena.TerminalNode:
		return fmt.Sprintf("%d: %g (%d)", node.Idx, node.Data.Terminal.TotalUtility, node.GetCount(0))
	default:
		return fmt.Sprintf("%d: %v", node.Idx, node.Data)
	}
}

func nodeShape(node *arena.Node) string {
	switch node.Data.Type {
	case arena.ChanceNode:
		return "diamond"
	case arena.TerminalNode:
		return "box"
	default:
		return "ellipse"
	}
}
