// Package kuhn implements the game tree of Kuhn Poker, adapted from:
// https://justinsermeno.com/posts/cfr/.
//
// Chance nodes are labeled by the card dealt and player nodes by the
// action taken, so the game maps directly onto an arena edge table.
package kuhn

import (
	"fmt"

	"github.com/timpalpant/go-cfr-arena"
)

const (
	chance  = -1
	player0 = 0
	player1 = 1
)

type Action byte

const (
	Random Action = 'r'
	Check  Action = 'c'
	Bet    Action = 'b'
)

// Edge labels of player actions.
const (
	CheckEdge = iota
	BetEdge
)

var actionEdges = [...]Action{
	CheckEdge: Check,
	BetEdge:   Bet,
}

type Card int

const (
	Jack Card = iota
	Queen
	King
)

var cardStr = [...]string{
	"J",
	"Q",
	"K",
}

func (c Card) String() string {
	return cardStr[c]
}

// StartingGameState is the configuration every Kuhn poker hand starts from:
// two players, each antes 1 chip from a stack of 2.
func StartingGameState() arena.GameState {
	return arena.NewStartingGameState([]float32{2.0, 2.0}, 0.0, 0.0, 1.0, 0)
}

// PokerNode is a position in a hand of Kuhn Poker.
type PokerNode struct {
	player  int
	history string

	// Private card held by either player.
	p0Card, p1Card Card
}

// NewGame returns the first chance node of the hand, which deals player 0's card.
func NewGame() PokerNode {
	return PokerNode{player: chance}
}

// String implements fmt.Stringer.
func (k PokerNode) String() string {
	return fmt.Sprintf("Player %v's turn. History: %5s [Cards: P0 - %s, P1 - %s]",
		k.player, k.history, k.p0Card, k.p1Card)
}

func (k PokerNode) IsTerminal() bool {
	return (k.history == "rrcc" || k.history == "rrcbc" ||
		k.history == "rrcbb" || k.history == "rrbc" || k.history == "rrbb")
}

func (k PokerNode) IsChance() bool {
	return k.player == chance
}

// Player returns the acting player. At a terminal node this is the player
// whose turn it would be, i.e. not the last player to act.
func (k PokerNode) Player() int {
	return k.player
}

// Utility returns the payoff of a terminal node for the given player.
func (k PokerNode) Utility(player int) float32 {
	cardPlayer := k.playerCard(player)
	cardOpponent := k.playerCard(1 - player)

	if k.history == "rrcbc" || k.history == "rrbc" {
		// Last player folded. The current player wins.
		if k.player == player {
			return 1.0
		}

		return -1.0
	} else if k.history == "rrcc" {
		// Showdown with no bets.
		if cardPlayer > cardOpponent {
			return 1.0
		}

		return -1.0
	}

	// Showdown with 1 bet.
	if k.history != "rrcbb" && k.history != "rrbb" {
		panic("unexpected history: " + k.history)
	}

	if cardPlayer > cardOpponent {
		return 2.0
	}

	return -2.0
}

// InfoSetKey identifies what the given player knows at this node.
func (k PokerNode) InfoSetKey(player int) string {
	return k.playerCard(player).String() + "-" + k.history
}

// NodeData returns the arena payload of this node. Terminal utilities are
// from player 0's point of view.
func (k PokerNode) NodeData() arena.NodeData {
	switch {
	case k.IsTerminal():
		return arena.TerminalNodeData(arena.NewTerminalData(k.Utility(player0)))
	case k.IsChance():
		return arena.ChanceNodeData()
	default:
		return arena.PlayerNodeData(arena.PlayerData{PlayerIdx: k.player})
	}
}

func (k PokerNode) playerCard(player int) Card {
	if player == player0 {
		return k.p0Card
	}

	return k.p1Card
}

// Children returns the edge labels leaving this node and the node each leads
// to, in edge order. Chance edges are cards; player edges are CheckEdge and BetEdge.
func (k PokerNode) Children() ([]int, []PokerNode) {
	if k.IsTerminal() {
		return nil, nil
	}

	switch len(k.history) {
	case 0:
		return buildP0Deals()
	case 1:
		return buildP1Deals(k)
	default:
		return buildActions(k)
	}
}

func buildP0Deals() ([]int, []PokerNode) {
	var edges []int
	var result []PokerNode
	for _, card := range []Card{Jack, Queen, King} {
		child := PokerNode{
			player:  chance,
			history: string(rune(Random)),
			p0Card:  card,
		}

		edges = append(edges, int(card))
		result = append(result, child)
	}

	return edges, result
}

func buildP1Deals(parent PokerNode) ([]int, []PokerNode) {
	var edges []int
	var result []PokerNode
	for _, card := range []Card{Jack, Queen, King} {
		if card == parent.p0Card {
			continue // Both players can't be dealt the same card.
		}

		child := parent
		child.player = player0
		child.p1Card = card
		child.history += string(rune(Random))
		edges = append(edges, int(card))
		result = append(result, child)
	}

	return edges, result
}

func buildActions(parent PokerNode) ([]int, []PokerNode) {
	var edges []int
	var result []PokerNode
	for edge, choice := range actionEdges {
		child := parent
		child.player = 1 - parent.player
		child.history += string(rune(choice))
		edges = append(edges, edge)
		result = append(result, child)
	}

	return edges, result
}
