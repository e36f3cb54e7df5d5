package model

import (
	"bytes"
	"reflect"
	"testing"

	"github.com/timpalpant/hanabi"
	"github.com/timpalpant/hanabi/cards"
)

func testGame(t *testing.T) *hanabi.Game {
	t.Helper()
	game, err := hanabi.NewGame(hanabi.GameParams{})
	if err != nil {
		t.Fatal(err)
	}
	return game
}

// concealedHand returns a hand of n unknown cards with blank knowledge.
func concealedHand(game *hanabi.Game, n int) hanabi.Hand {
	hand := hanabi.NewHand(n)
	for i := 0; i < n; i++ {
		hand.AddCard(cards.Invalid, cards.NewKnowledge(game.NumColors(), game.NumRanks()))
	}
	return hand
}

// visibleHand returns a hand holding the given cards with blank knowledge.
func visibleHand(game *hanabi.Game, held []cards.Card) hanabi.Hand {
	hand := hanabi.NewHand(len(held))
	for _, card := range held {
		hand.AddCard(card, cards.NewKnowledge(game.NumColors(), game.NumRanks()))
	}
	return hand
}

var partnerCards = []cards.Card{
	cards.NewCard(0, 0), cards.NewCard(0, 0), cards.NewCard(1, 1),
	cards.NewCard(2, 2), cards.NewCard(4, 4),
}

// trueHand is the identity behind the observer's concealed slots.
var trueHand = []cards.Card{
	cards.NewCard(3, 0), cards.NewCard(3, 1), cards.NewCard(3, 2),
	cards.NewCard(3, 3), cards.NewCard(4, 0),
}

// freshDeal is the first observation of a standard 2-player game: ten
// cards dealt, nothing played or hinted yet.
func freshDeal(game *hanabi.Game) *hanabi.Observation {
	return &hanabi.Observation{
		DeckSize:          40,
		InformationTokens: 8,
		LifeTokens:        3,
		Hands: []hanabi.Hand{
			concealedHand(game, 5),
			visibleHand(game, partnerCards),
		},
		Fireworks: []int{0, 0, 0, 0, 0},
	}
}

func TestSampleRoundTrip(t *testing.T) {
	game := testGame(t)
	obs := freshDeal(game)
	s := NewSample(obs, trueHand, 2.5)

	buf, err := s.MarshalBinary()
	if err != nil {
		t.Fatal(err)
	}

	var decoded Sample
	if err := decoded.UnmarshalBinary(buf); err != nil {
		t.Fatal(err)
	}

	if !reflect.DeepEqual(&decoded, s) {
		t.Errorf("decoded sample = %+v, expected %+v", &decoded, s)
	}

	// The embedded observation must still decode, to the same bytes.
	var embedded hanabi.Observation
	if err := embedded.UnmarshalBinary(decoded.Observation); err != nil {
		t.Fatal(err)
	}
	reencoded, err := embedded.MarshalBinary()
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(reencoded, s.Observation) {
		t.Errorf("embedded observation does not round-trip")
	}
}

func TestSampleCopiesHand(t *testing.T) {
	game := testGame(t)
	held := append([]cards.Card(nil), trueHand...)
	s := NewSample(freshDeal(game), held, 1.0)

	held[0] = cards.NewCard(0, 0)
	if s.Hand[0] != trueHand[0] {
		t.Errorf("sample hand aliases the caller's slice")
	}
}

func TestSampleUnmarshalTruncated(t *testing.T) {
	game := testGame(t)
	s := NewSample(freshDeal(game), trueHand, 1.0)
	buf, err := s.MarshalBinary()
	if err != nil {
		t.Fatal(err)
	}

	for n := 0; n < len(buf); n++ {
		var decoded Sample
		if err := decoded.UnmarshalBinary(buf[:n]); err == nil {
			t.Errorf("unmarshal of %d/%d bytes: expected error", n, len(buf))
		}
	}
}
