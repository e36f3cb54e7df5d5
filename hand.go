package hanabi

import (
	"strings"

	"github.com/timpalpant/hanabi/cards"
)

// Hand is one player's ordered card slots paired with the knowledge
// accumulated about each slot. Cards and Knowledge are always the same
// length; a hand shorter than the configured hand size means the deck
// ran out.
type Hand struct {
	Cards     []cards.Card      `json:"cards"`
	Knowledge []cards.Knowledge `json:"knowledge"`
}

// NewHand returns an empty hand with capacity for handSize slots.
func NewHand(handSize int) Hand {
	return Hand{
		Cards:     make([]cards.Card, 0, handSize),
		Knowledge: make([]cards.Knowledge, 0, handSize),
	}
}

func (h Hand) Len() int {
	return len(h.Cards)
}

// AddCard appends a newly dealt card with blank knowledge.
func (h *Hand) AddCard(card cards.Card, knowledge cards.Knowledge) {
	h.Cards = append(h.Cards, card)
	h.Knowledge = append(h.Knowledge, knowledge)
}

// RemoveFromHand removes and returns the card at the given slot.
// Higher slots shift down, as when a played or discarded card leaves
// a real hand.
func (h *Hand) RemoveFromHand(index int) cards.Card {
	card := h.Cards[index]
	h.Cards = append(h.Cards[:index], h.Cards[index+1:]...)
	h.Knowledge = append(h.Knowledge[:index], h.Knowledge[index+1:]...)
	return card
}

// Clone returns a deep copy of the hand.
func (h Hand) Clone() Hand {
	return Hand{
		Cards:     append([]cards.Card(nil), h.Cards...),
		Knowledge: append([]cards.Knowledge(nil), h.Knowledge...),
	}
}

// String implements Stringer, e.g. "R1 Y3 XX".
func (h Hand) String() string {
	var sb strings.Builder
	for i, card := range h.Cards {
		if i > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(card.String())
	}
	return sb.String()
}
