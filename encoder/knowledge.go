package encoder

import (
	"github.com/timpalpant/hanabi"
	"github.com/timpalpant/hanabi/cards"
)

// encodeCardKnowledge serializes what every player publicly knows about
// each of their own hand slots. Per slot: an indicator per identity that
// both the plausible-color and plausible-rank sets still admit, then a
// one-hot of the directly-hinted color and rank, if any were said.
//
// For example, after a slot was revealed to be green, in a standard game:
//
//	R    Y    G    W    B
//	0000000000111110000000000   only green identities are possible
//	00100                       color was directly revealed to be green
//	00000                       rank was never directly revealed
//
// Hands shorter than the configured hand size skip their trailing slots,
// leaving them zero.
func encodeCardKnowledge(game *hanabi.Game, obs *hanabi.Observation, buf []float32) int {
	bits := bitsPerCard(game)
	numColors := game.NumColors()
	numRanks := game.NumRanks()
	handSize := game.HandSize()

	offset := 0
	for _, hand := range obs.Hands {
		for _, knowledge := range hand.Knowledge {
			for color := 0; color < numColors; color++ {
				if !knowledge.ColorPlausible(color) {
					continue
				}
				for rank := 0; rank < numRanks; rank++ {
					if knowledge.RankPlausible(rank) {
						buf[offset+cards.NewCard(color, rank).Index(numRanks)] = 1
					}
				}
			}
			offset += bits

			if knowledge.ColorHinted() {
				buf[offset+knowledge.Color()] = 1
			}
			offset += numColors

			if knowledge.RankHinted() {
				buf[offset+knowledge.Rank()] = 1
			}
			offset += numRanks
		}

		offset += (handSize - hand.Len()) * perCardKnowledgeLength(game)
	}

	return offset
}
