package encoder

import (
	"fmt"

	"github.com/timpalpant/hanabi"
	"github.com/timpalpant/hanabi/cards"
	"github.com/timpalpant/hanabi/internal/f32"
)

// computeCardCount returns how many copies of each identity remain unseen:
// the full deck composition minus the discard pile and the cards settled
// on the fireworks. Cards in players' hands are not subtracted; they are
// exactly what the beliefs reason about.
func computeCardCount(game *hanabi.Game, obs *hanabi.Observation) []int {
	numRanks := game.NumRanks()

	cardCount := make([]int, game.NumColors()*numRanks)
	totalCount := 0
	for color := 0; color < game.NumColors(); color++ {
		for rank := 0; rank < numRanks; rank++ {
			n := game.NumberCardInstances(color, rank)
			cardCount[cards.NewCard(color, rank).Index(numRanks)] = n
			totalCount += n
		}
	}

	for _, card := range obs.DiscardPile {
		cardCount[card.Index(numRanks)]--
		totalCount--
	}

	// Fireworks[c] successfully played cards imply ranks 0..Fireworks[c]-1
	// of that color are on the board.
	for c, fireworks := range obs.Fireworks {
		for rank := 0; rank < fireworks; rank++ {
			cardCount[cards.NewCard(c, rank).Index(numRanks)]--
			totalCount--
		}
	}

	totalHandSize := 0
	for _, hand := range obs.Hands {
		totalHandSize += hand.Len()
	}
	if totalCount != obs.DeckSize+totalHandSize {
		panic(fmt.Errorf("%d cards remain, expected %d (deck %d + hands %d)",
			totalCount, obs.DeckSize+totalHandSize, obs.DeckSize, totalHandSize))
	}

	return cardCount
}

// encodeV0Belief writes the single-pass belief into buf: the card
// knowledge section with each occupied slot's identity block weighted by
// the remaining card counts and normalized to sum to 1. The hinted-color
// and hinted-rank sub-blocks pass through unchanged.
func encodeV0Belief(game *hanabi.Game, obs *hanabi.Observation, buf []float32) int {
	return encodeV0BeliefWithCount(game, obs, buf, computeCardCount(game, obs))
}

func encodeV0BeliefWithCount(game *hanabi.Game, obs *hanabi.Observation, buf []float32, cardCount []int) int {
	n := encodeCardKnowledge(game, obs, buf)

	bits := bitsPerCard(game)
	perCard := perCardKnowledgeLength(game)
	handSize := game.HandSize()

	for player, hand := range obs.Hands {
		for cardIdx := 0; cardIdx < hand.Len(); cardIdx++ {
			block := buf[(player*handSize+cardIdx)*perCard:][:bits]

			var total float32
			for i, count := range cardCount {
				block[i] *= float32(count)
				total += block[i]
			}
			if total <= 0 {
				panic(fmt.Errorf("player %d card %d: no plausible identity remains", player, cardIdx))
			}
			for i := range block {
				block[i] /= total
			}
		}
	}

	return n
}

// encodeV1Belief writes the iteratively refined belief into buf. Where V0
// treats slots independently, V1 models that a copy one slot probably
// holds is not available to the others: each iteration computes, per
// identity, the count not yet committed to any slot, proposes
// max(0, uncommitted+current) masked by the slot's plausibility, then
// blends the proposal in at 10% and renormalizes.
//
// The uncommitted count deliberately subtracts every slot's mass,
// including the slot being updated, with that slot's own mass added back
// in the proposal. It approximates leave-one-out exclusion; trained agents
// depend on the fixed point of this exact arithmetic.
func encodeV1Belief(game *hanabi.Game, obs *hanabi.Observation, buf []float32) int {
	return refineBelief(game, obs, buf, 100, 0.1)
}

func refineBelief(game *hanabi.Game, obs *hanabi.Observation, buf []float32, numIters int, weight float32) int {
	bits := bitsPerCard(game)
	perCard := perCardKnowledgeLength(game)
	handSize := game.HandSize()

	knowledge := make([]float32, CardKnowledgeSectionLength(game))
	encodeCardKnowledge(game, obs, knowledge)

	cardCount := computeCardCount(game, obs)
	belief := make([]float32, len(knowledge))
	encodeV0BeliefWithCount(game, obs, belief, cardCount)

	// Proposals are computed for the whole buffer against the frozen
	// current belief, then blended in. The two buffers are never aliased:
	// a slot blended early must not perturb the proposals of later slots
	// within the same iteration.
	proposal := make([]float32, len(belief))
	copy(proposal, belief)
	totalCards := make([]float32, len(cardCount))

	for step := 0; step < numIters; step++ {
		// Count the copies of each identity not yet claimed by any
		// slot's belief mass.
		for i, count := range cardCount {
			totalCards[i] = float32(count)
		}
		for player, hand := range obs.Hands {
			for cardIdx := 0; cardIdx < hand.Len(); cardIdx++ {
				block := belief[(player*handSize+cardIdx)*perCard:][:bits]
				f32.AxpyUnitary(-1, block, totalCards)
			}
		}

		// Propose, masked by what the hints still allow.
		for player, hand := range obs.Hands {
			for cardIdx := 0; cardIdx < hand.Len(); cardIdx++ {
				base := (player*handSize + cardIdx) * perCard
				for i := 0; i < bits; i++ {
					p := totalCards[i] + belief[base+i]
					if p < 0 {
						p = 0
					}
					proposal[base+i] = p * knowledge[base+i]
				}
			}
		}

		// Blend the proposals in and renormalize each slot.
		for player, hand := range obs.Hands {
			for cardIdx := 0; cardIdx < hand.Len(); cardIdx++ {
				block := belief[(player*handSize+cardIdx)*perCard:][:bits]
				f32.ScalUnitary(1-weight, block)
				f32.AxpyUnitary(weight, proposal[(player*handSize+cardIdx)*perCard:][:bits], block)

				total := f32.Sum(block)
				if total <= 0 {
					panic(fmt.Errorf("player %d card %d: belief mass vanished", player, cardIdx))
				}
				for i := range block {
					block[i] /= total
				}
			}
		}
	}

	copy(buf, belief)
	return len(belief)
}
