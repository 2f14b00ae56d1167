// Package tree implements diagnostic walks over a CFRState arena.
package tree

import (
	"github.com/timpalpant/go-cfr-arena"
)

// Visit calls visitor for every node reachable from the root of state, in
// depth-first order with children in edge order. depth is 0 at the root.
func Visit(state *arena.CFRState, visitor func(node *arena.Node, depth int)) {
	visit(state, 0, 0, visitor)
}

func visit(state *arena.CFRState, idx, depth int, visitor func(node *arena.Node, depth int)) {
	node, ok := state.Get(idx)
	if !ok {
		return
	}

	visitor(node, depth)
	for _, child := range node.IterChildren() {
		visit(state, child, depth+1, visitor)
	}
}

func CountNodes(state *arena.CFRState) int {
	total := 0
	Visit(state, func(node *arena.Node, depth int) { total++ })
	return total
}

func CountTerminalNodes(state *arena.CFRState) int {
	total := 0
	Visit(state, func(node *arena.Node, depth int) {
		if node.Data.IsTerminal() {
			total++
		}
	})

	return total
}

func CountChanceNodes(state *arena.CFRState) int {
	total := 0
	Visit(state, func(node *arena.Node, depth int) {
		if node.Data.IsChance() {
			total++
		}
	})

	return total
}

// CountPlayerNodes returns the number of decision points for each player.
func CountPlayerNodes(state *arena.CFRState) map[int]int {
	result := make(map[int]int)
	Visit(state, func(node *arena.Node, depth int) {
		if node.Data.IsPlayer() {
			result[node.Data.Player.PlayerIdx]++
		}
	})

	return result
}

// MaxDepth returns the number of edges on the longest path from the root.
func MaxDepth(state *arena.CFRState) int {
	result := 0
	Visit(state, func(node *arena.Node, depth int) {
		if depth > result {
			result = depth
		}
	})

	return result
}
