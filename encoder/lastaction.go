package encoder

import (
	"fmt"

	"github.com/timpalpant/hanabi"
	"github.com/timpalpant/hanabi/cards"
)

// encodeLastAction serializes the most recent non-deal move in fixed field
// order: acting player, move kind, hint target, revealed color, revealed
// rank, reveal outcome bitmask, played/discarded position, the card
// itself, and the two play-outcome flags. Fields not relevant to the move
// kind stay zero, but their ranges are always reserved. If no player has
// acted yet the whole section stays zero.
func encodeLastAction(game *hanabi.Game, obs *hanabi.Observation, buf []float32) int {
	numPlayers := game.NumPlayers()
	handSize := game.HandSize()

	lastMove := obs.LastNonDealMove()
	if lastMove == nil {
		return LastActionSectionLength(game)
	}

	moveType := lastMove.Move.Type
	isReveal := moveType == hanabi.MoveRevealColor || moveType == hanabi.MoveRevealRank
	isPlayOrDiscard := moveType == hanabi.MovePlay || moveType == hanabi.MoveDiscard

	// Acting player. At a terminal state the last mover can be the
	// observer itself, so player 0 is allowed here.
	offset := 0
	buf[offset+int(lastMove.Player)] = 1
	offset += numPlayers

	switch moveType {
	case hanabi.MovePlay:
		buf[offset] = 1
	case hanabi.MoveDiscard:
		buf[offset+1] = 1
	case hanabi.MoveRevealColor:
		buf[offset+2] = 1
	case hanabi.MoveRevealRank:
		buf[offset+3] = 1
	default:
		panic(fmt.Errorf("unexpected move %v in history", lastMove.Move))
	}
	offset += 4

	if isReveal {
		target := (int(lastMove.Player) + int(lastMove.Move.TargetOffset)) % numPlayers
		buf[offset+target] = 1
	}
	offset += numPlayers

	if moveType == hanabi.MoveRevealColor {
		buf[offset+int(lastMove.Move.Color)] = 1
	}
	offset += game.NumColors()

	if moveType == hanabi.MoveRevealRank {
		buf[offset+int(lastMove.Move.Rank)] = 1
	}
	offset += game.NumRanks()

	if isReveal {
		for i := 0; i < handSize; i++ {
			if lastMove.RevealBitmask&(1<<uint(i)) != 0 {
				buf[offset+i] = 1
			}
		}
	}
	offset += handSize

	if isPlayOrDiscard {
		buf[offset+int(lastMove.Move.CardIndex)] = 1
	}
	offset += handSize

	if isPlayOrDiscard {
		if lastMove.Color < 0 || lastMove.Rank < 0 {
			panic(fmt.Errorf("history item %v is missing its card identity", lastMove))
		}
		card := cards.NewCard(int(lastMove.Color), int(lastMove.Rank))
		buf[offset+card.Index(game.NumRanks())] = 1
	}
	offset += bitsPerCard(game)

	if moveType == hanabi.MovePlay {
		if lastMove.Scored {
			buf[offset] = 1
		}
		if lastMove.InformationToken {
			buf[offset+1] = 1
		}
	}
	offset += 2

	return offset
}
