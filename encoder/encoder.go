// Package encoder serializes Hanabi observations into the flat []float32
// feature vectors consumed by learning agents, and estimates per-slot
// beliefs about concealed cards.
//
// The output buffer is partitioned into contiguous sections (hands, board,
// discards, last action, card knowledge) whose lengths depend only on the
// game configuration. Every section encoder must write exactly the number
// of slots its length function predicts; a mismatch means a corrupted
// observation or a layout bug and panics rather than producing features
// that silently poison training.
package encoder

import (
	"fmt"

	"github.com/timpalpant/hanabi"
)

// Encoder encodes observations of games with a fixed configuration.
// Encoders are stateless and safe for concurrent use.
type Encoder struct {
	game *hanabi.Game
}

func NewEncoder(game *hanabi.Game) *Encoder {
	return &Encoder{game: game}
}

// Shape returns the total length of encoded observations. Callers must
// size model input tensors to exactly this.
func (e *Encoder) Shape() int {
	length := HandsSectionLength(e.game) +
		BoardSectionLength(e.game) +
		DiscardSectionLength(e.game) +
		LastActionSectionLength(e.game)
	if e.game.ObservationType() != hanabi.Minimal {
		length += CardKnowledgeSectionLength(e.game)
	}
	return length
}

// Encode serializes the observation into a freshly allocated buffer of
// exactly Shape() values: hands, board, discards, last action, and (in
// full detail mode) the belief-normalized card knowledge section.
//
// If showOwnCards is true the observer's own cards must carry their true
// identities (as during training data generation, where the engine knows
// them); otherwise they must be invalid.
func (e *Encoder) Encode(obs *hanabi.Observation, showOwnCards bool) []float32 {
	buf := make([]float32, e.Shape())

	offset := 0
	n := encodeHands(e.game, obs, buf[offset:offset+HandsSectionLength(e.game)], showOwnCards)
	assertSectionLength("hands", n, HandsSectionLength(e.game))
	offset += n

	n = encodeBoard(e.game, obs, buf[offset:offset+BoardSectionLength(e.game)])
	assertSectionLength("board", n, BoardSectionLength(e.game))
	offset += n

	n = encodeDiscards(e.game, obs, buf[offset:offset+DiscardSectionLength(e.game)])
	assertSectionLength("discards", n, DiscardSectionLength(e.game))
	offset += n

	n = encodeLastAction(e.game, obs, buf[offset:offset+LastActionSectionLength(e.game)])
	assertSectionLength("last action", n, LastActionSectionLength(e.game))
	offset += n

	if e.game.ObservationType() != hanabi.Minimal {
		n = encodeV0Belief(e.game, obs, buf[offset:offset+CardKnowledgeSectionLength(e.game)])
		assertSectionLength("card knowledge", n, CardKnowledgeSectionLength(e.game))
		offset += n
	}

	if offset != len(buf) {
		panic(fmt.Errorf("encoded %d values, expected %d", offset, len(buf)))
	}
	return buf
}

// EncodeLastAction serializes just the last-action section.
func (e *Encoder) EncodeLastAction(obs *hanabi.Observation) []float32 {
	buf := make([]float32, LastActionSectionLength(e.game))
	n := encodeLastAction(e.game, obs, buf)
	assertSectionLength("last action", n, len(buf))
	return buf
}

// EncodeV0Belief returns the single-pass belief: per hand slot, the
// plausible identities weighted by remaining card counts and normalized
// to a probability distribution. Output length is
// players × hand size × colors × ranks.
func (e *Encoder) EncodeV0Belief(obs *hanabi.Observation) []float32 {
	buf := make([]float32, CardKnowledgeSectionLength(e.game))
	n := encodeV0Belief(e.game, obs, buf)
	assertSectionLength("card knowledge", n, len(buf))
	return e.ExtractBelief(buf)
}

// EncodeV1Belief returns the iteratively refined belief, which accounts
// for the copies of each identity the other slots are already believed to
// hold. Same shape as EncodeV0Belief.
func (e *Encoder) EncodeV1Belief(obs *hanabi.Observation) []float32 {
	buf := make([]float32, CardKnowledgeSectionLength(e.game))
	n := encodeV1Belief(e.game, obs, buf)
	assertSectionLength("card knowledge", n, len(buf))
	return e.ExtractBelief(buf)
}

// EncodeHandMask returns the raw 0/1 plausibility mask per hand slot,
// with the hint sub-blocks stripped. Same shape as EncodeV0Belief.
func (e *Encoder) EncodeHandMask(obs *hanabi.Observation) []float32 {
	buf := make([]float32, CardKnowledgeSectionLength(e.game))
	encodeCardKnowledge(e.game, obs, buf)
	return e.ExtractBelief(buf)
}

// EncodeCardCount returns the remaining unseen copies of each identity,
// in identity index order.
func (e *Encoder) EncodeCardCount(obs *hanabi.Observation) []float32 {
	cardCount := computeCardCount(e.game, obs)
	result := make([]float32, len(cardCount))
	for i, n := range cardCount {
		result[i] = float32(n)
	}
	return result
}

// EncodeOwnHand classifies each of the observer's own cards against the
// fireworks: playable now, already obsolete, or not yet playable. The
// output is fixed at 5 slots of 3 values; trailing slots beyond the
// actual hand stay zero. The cards must carry their true identities.
func (e *Encoder) EncodeOwnHand(obs *hanabi.Observation) []float32 {
	buf := make([]float32, OwnHandLength)
	encodeOwnHand(e.game, obs, buf)
	return buf
}

// ExtractBelief slices the identity blocks out of a card-knowledge shaped
// buffer (the knowledge mask or either belief variant), dropping the
// directly-hinted color/rank sub-blocks. Output length is
// players × hand size × colors × ranks.
func (e *Encoder) ExtractBelief(encoding []float32) []float32 {
	bits := bitsPerCard(e.game)
	perCard := perCardKnowledgeLength(e.game)
	numSlots := e.game.NumPlayers() * e.game.HandSize()
	if len(encoding) != numSlots*perCard {
		panic(fmt.Errorf("belief extraction input has %d values, expected %d",
			len(encoding), numSlots*perCard))
	}

	belief := make([]float32, numSlots*bits)
	for i := 0; i < numSlots; i++ {
		copy(belief[i*bits:(i+1)*bits], encoding[i*perCard:i*perCard+bits])
	}
	return belief
}

func assertSectionLength(section string, got, expected int) {
	if got != expected {
		panic(fmt.Errorf("%s section wrote %d values, expected %d", section, got, expected))
	}
}
