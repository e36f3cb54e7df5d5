// Package cards defines the card identity and per-slot knowledge types
// shared by the game model and the observation encoders.
package cards

import "fmt"

// Card identifies a card type by its (color, rank) pair, independent of
// which physical copy it is. A player's own cards are Invalid from that
// player's point of view until revealed.
type Card struct {
	Color int8 `json:"color"`
	Rank  int8 `json:"rank"`
}

// Invalid is the concealed/unknown card.
var Invalid = Card{Color: -1, Rank: -1}

func NewCard(color, rank int) Card {
	return Card{Color: int8(color), Rank: int8(rank)}
}

// Valid returns whether the card's identity is known.
func (c Card) Valid() bool {
	return c.Color >= 0 && c.Rank >= 0
}

// Index returns the canonical flat index of this card's identity:
// color*numRanks + rank. All encoder sections order identities this way.
func (c Card) Index(numRanks int) int {
	return int(c.Color)*numRanks + int(c.Rank)
}

// CardFromIndex is the inverse of Card.Index.
func CardFromIndex(index, numRanks int) Card {
	return Card{Color: int8(index / numRanks), Rank: int8(index % numRanks)}
}

var colorStr = "RYGWB"

// ColorName returns the single-letter name of the given color.
func ColorName(color int) string {
	if color < 0 || color >= len(colorStr) {
		return "?"
	}
	return string(colorStr[color])
}

// String implements Stringer. Ranks are displayed one-based, as on the
// physical cards.
func (c Card) String() string {
	if !c.Valid() {
		return "XX"
	}
	return fmt.Sprintf("%s%d", ColorName(int(c.Color)), c.Rank+1)
}
