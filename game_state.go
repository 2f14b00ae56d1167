package arena

// GameState is the starting configuration of a hand that a CFRState tree
// is built from. The arena stores it verbatim.
type GameState struct {
	Stacks     []float32 `json:"stacks"`
	BigBlind   float32   `json:"big_blind"`
	SmallBlind float32   `json:"small_blind"`
	Ante       float32   `json:"ante"`
	DealerIdx  int       `json:"dealer_idx"`
}

// NewStartingGameState returns the configuration for a hand with the given
// player stacks, forced bets, and dealer position.
func NewStartingGameState(stacks []float32, bigBlind, smallBlind, ante float32, dealerIdx int) GameState {
	return GameState{
		Stacks:     append([]float32(nil), stacks...),
		BigBlind:   bigBlind,
		SmallBlind: smallBlind,
		Ante:       ante,
		DealerIdx:  dealerIdx,
	}
}

func (gs GameState) NumPlayers() int {
	return len(gs.Stacks)
}

func (gs GameState) Equal(other GameState) bool {
	if len(gs.Stacks) != len(other.Stacks) {
		return false
	}

	for i, s := range gs.Stacks {
		if s != other.Stacks[i] {
			return false
		}
	}

	return gs.BigBlind == other.BigBlind &&
		gs.SmallBlind == other.SmallBlind &&
		gs.Ante == other.Ante &&
		gs.DealerIdx == other.DealerIdx
}

func (gs GameState) clone() GameState {
	gs.Stacks = append([]float32(nil), gs.Stacks...)
	return gs
}
