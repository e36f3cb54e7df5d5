package hanabi

import (
	"fmt"

	"github.com/timpalpant/hanabi/cards"
)

// MoveType is the kind of move a player performed.
type MoveType uint8

const (
	MoveInvalid MoveType = iota
	MovePlay
	MoveDiscard
	MoveRevealColor
	MoveRevealRank
	MoveDeal
)

var moveTypeStr = [...]string{
	"Invalid",
	"Play",
	"Discard",
	"RevealColor",
	"RevealRank",
	"Deal",
}

func (t MoveType) String() string {
	if int(t) >= len(moveTypeStr) {
		return "Invalid"
	}
	return moveTypeStr[t]
}

// Move is a single action. Only the fields relevant to Type are
// meaningful; the rest are -1.
//
// Play and Discard act on CardIndex in the acting player's hand.
// RevealColor and RevealRank hint the player TargetOffset seats after the
// acting player. Deal gives the (Color, Rank) card to a player.
type Move struct {
	Type         MoveType `json:"type"`
	CardIndex    int8     `json:"card_index"`
	TargetOffset int8     `json:"target_offset"`
	Color        int8     `json:"color"`
	Rank         int8     `json:"rank"`
}

func NewPlayMove(cardIndex int) Move {
	return Move{Type: MovePlay, CardIndex: int8(cardIndex), TargetOffset: -1, Color: -1, Rank: -1}
}

func NewDiscardMove(cardIndex int) Move {
	return Move{Type: MoveDiscard, CardIndex: int8(cardIndex), TargetOffset: -1, Color: -1, Rank: -1}
}

func NewRevealColorMove(targetOffset, color int) Move {
	return Move{Type: MoveRevealColor, CardIndex: -1, TargetOffset: int8(targetOffset), Color: int8(color), Rank: -1}
}

func NewRevealRankMove(targetOffset, rank int) Move {
	return Move{Type: MoveRevealRank, CardIndex: -1, TargetOffset: int8(targetOffset), Color: -1, Rank: int8(rank)}
}

func NewDealMove(color, rank int) Move {
	return Move{Type: MoveDeal, CardIndex: -1, TargetOffset: -1, Color: int8(color), Rank: int8(rank)}
}

var invalidMove = Move{Type: MoveInvalid, CardIndex: -1, TargetOffset: -1, Color: -1, Rank: -1}

// String implements Stringer. Ranks display one-based, as on the cards.
func (m Move) String() string {
	switch m.Type {
	case MovePlay:
		return fmt.Sprintf("(Play %d)", m.CardIndex)
	case MoveDiscard:
		return fmt.Sprintf("(Discard %d)", m.CardIndex)
	case MoveRevealColor:
		return fmt.Sprintf("(Reveal player +%d color %s)", m.TargetOffset, cards.ColorName(int(m.Color)))
	case MoveRevealRank:
		return fmt.Sprintf("(Reveal player +%d rank %d)", m.TargetOffset, m.Rank+1)
	case MoveDeal:
		return fmt.Sprintf("(Deal %s%d)", cards.ColorName(int(m.Color)), m.Rank+1)
	default:
		return "(Invalid)"
	}
}

// MaxMoves returns the size of the dense move-UID space: discards, then
// plays, then reveal-color hints, then reveal-rank hints. Policy networks
// use this as their action dimension.
func (g *Game) MaxMoves() int {
	return 2*g.params.HandSize +
		(g.params.NumPlayers-1)*g.params.NumColors +
		(g.params.NumPlayers-1)*g.params.NumRanks
}

// GetMoveUID maps a move to its UID in [0, MaxMoves()).
// Deal and invalid moves map to -1.
func (g *Game) GetMoveUID(m Move) int {
	handSize := g.params.HandSize
	switch m.Type {
	case MoveDiscard:
		return int(m.CardIndex)
	case MovePlay:
		return handSize + int(m.CardIndex)
	case MoveRevealColor:
		return 2*handSize +
			(int(m.TargetOffset)-1)*g.params.NumColors + int(m.Color)
	case MoveRevealRank:
		return 2*handSize +
			(g.params.NumPlayers-1)*g.params.NumColors +
			(int(m.TargetOffset)-1)*g.params.NumRanks + int(m.Rank)
	default:
		return -1
	}
}

// GetMove is the inverse of GetMoveUID. Out-of-range UIDs decode to an
// invalid move.
func (g *Game) GetMove(uid int) Move {
	handSize := g.params.HandSize
	numColors := g.params.NumColors
	numRanks := g.params.NumRanks
	numHintable := g.params.NumPlayers - 1

	switch {
	case uid < 0:
		return invalidMove
	case uid < handSize:
		return NewDiscardMove(uid)
	case uid < 2*handSize:
		return NewPlayMove(uid - handSize)
	case uid < 2*handSize+numHintable*numColors:
		uid -= 2 * handSize
		return NewRevealColorMove(uid/numColors+1, uid%numColors)
	case uid < 2*handSize+numHintable*(numColors+numRanks):
		uid -= 2*handSize + numHintable*numColors
		return NewRevealRankMove(uid/numRanks+1, uid%numRanks)
	default:
		return invalidMove
	}
}
