package encoder

import (
	"fmt"

	"github.com/timpalpant/hanabi"
)

// encodeHands one-hots the card identity of every visible hand slot. The
// observer's own cards are skipped (left zero) unless showOwnCards is set;
// a concealed card that still carries a valid identity means the engine
// leaked hidden state, and is fatal. Hands shorter than the configured
// hand size leave their trailing slots zero, and set the per-player
// missing-card flag after all hands.
func encodeHands(game *hanabi.Game, obs *hanabi.Observation, buf []float32, showOwnCards bool) int {
	bits := bitsPerCard(game)
	numRanks := game.NumRanks()
	handSize := game.HandSize()

	if len(obs.Hands) != game.NumPlayers() {
		panic(fmt.Errorf("observation has %d hands, expected %d", len(obs.Hands), game.NumPlayers()))
	}

	offset := 0
	for player, hand := range obs.Hands {
		for _, card := range hand.Cards {
			if player == 0 && !showOwnCards {
				if card.Valid() {
					panic(fmt.Errorf("concealed own card has identity %v", card))
				}
			} else {
				if !card.Valid() {
					panic(fmt.Errorf("player %d holds an invalid card", player))
				}
				buf[offset+card.Index(numRanks)] = 1
			}
			offset += bits
		}

		// Leave the bits for absent cards empty.
		offset += (handSize - hand.Len()) * bits
	}

	for player, hand := range obs.Hands {
		if hand.Len() < handSize {
			buf[offset+player] = 1
		}
	}
	offset += len(obs.Hands)

	return offset
}

// encodeBoard writes the deck size, information token, and life token
// thermometers, and one-hots the top played rank of each color's firework.
// For example, 2 of 3 life tokens remaining encodes as 110.
func encodeBoard(game *hanabi.Game, obs *hanabi.Observation, buf []float32) int {
	offset := 0
	for i := 0; i < obs.DeckSize; i++ {
		buf[offset+i] = 1
	}
	offset += game.MaxDeckSize() - game.NumPlayers()*game.HandSize()

	for c := 0; c < game.NumColors(); c++ {
		if obs.Fireworks[c] > 0 {
			buf[offset+obs.Fireworks[c]-1] = 1
		}
		offset += game.NumRanks()
	}

	for i := 0; i < obs.InformationTokens; i++ {
		buf[offset+i] = 1
	}
	offset += game.MaxInformationTokens()

	for i := 0; i < obs.LifeTokens; i++ {
		buf[offset+i] = 1
	}
	offset += game.MaxLifeTokens()

	return offset
}

// encodeDiscards writes one thermometer per identity, color-major, sized
// by that identity's instance count. In a standard game each color's
// block is 3+2+2+2+1 slots; two discarded R1s and one R5 encode as
//
//	1100000001
func encodeDiscards(game *hanabi.Game, obs *hanabi.Observation, buf []float32) int {
	numRanks := game.NumRanks()

	discardCounts := make([]int, game.NumColors()*numRanks)
	for _, card := range obs.DiscardPile {
		discardCounts[card.Index(numRanks)]++
	}

	offset := 0
	for c := 0; c < game.NumColors(); c++ {
		for r := 0; r < numRanks; r++ {
			numDiscarded := discardCounts[c*numRanks+r]
			for i := 0; i < numDiscarded; i++ {
				buf[offset+i] = 1
			}
			offset += game.NumberCardInstances(c, r)
		}
	}

	return offset
}
