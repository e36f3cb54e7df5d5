package encoder

import (
	"fmt"

	"github.com/timpalpant/hanabi"
)

// The own-hand status output is hard-coded to 5 slots whatever the
// configured hand size, so the tensor shape is stable across player
// counts. Each slot is a one-hot over the three playability categories.
const (
	ownHandSlots   = 5
	bitsPerOwnCard = 3

	// OwnHandLength is the length of every EncodeOwnHand result.
	OwnHandLength = ownHandSlots * bitsPerOwnCard
)

// encodeOwnHand classifies each card of the observer's hand against the
// fireworks: rank equal to the color's firework height is playable now,
// below it is already obsolete, above it is not yet playable. Unlike
// concealed encoding, the cards here must carry their true identities.
func encodeOwnHand(game *hanabi.Game, obs *hanabi.Observation, buf []float32) int {
	offset := 0
	for _, card := range obs.Hands[0].Cards {
		if !card.Valid() {
			panic(fmt.Errorf("own hand status requires revealed cards, got %v", card))
		}

		firework := obs.Fireworks[card.Color]
		switch {
		case int(card.Rank) == firework:
			buf[offset] = 1
		case int(card.Rank) < firework:
			buf[offset+1] = 1
		default:
			buf[offset+2] = 1
		}
		offset += bitsPerOwnCard
	}

	return offset
}
