package arena

// TraversalState is a cursor into a CFRState tree: the node a walk is at,
// the edge it chose there, and the player doing the walking.
type TraversalState struct {
	NodeIdx        int `json:"node_idx"`
	ChosenChildIdx int `json:"chosen_child_idx"`
	PlayerIdx      int `json:"player_idx"`
}

func NewTraversalState(nodeIdx, chosenChildIdx, playerIdx int) TraversalState {
	return TraversalState{
		NodeIdx:        nodeIdx,
		ChosenChildIdx: chosenChildIdx,
		PlayerIdx:      playerIdx,
	}
}

// NewRootTraversalState returns a cursor at the root, about to follow edge 0.
func NewRootTraversalState(playerIdx int) TraversalState {
	return NewTraversalState(0, 0, playerIdx)
}

// MoveTo returns a copy of the cursor positioned at nodeIdx with the given
// edge chosen.
func (ts TraversalState) MoveTo(nodeIdx, chosenChildIdx int) TraversalState {
	ts.NodeIdx = nodeIdx
	ts.ChosenChildIdx = chosenChildIdx
	return ts
}
