package encoder

import (
	"testing"

	"github.com/timpalpant/hanabi"
)

func mustGame(t *testing.T, params hanabi.GameParams) *hanabi.Game {
	t.Helper()
	game, err := hanabi.NewGame(params)
	if err != nil {
		t.Fatal(err)
	}
	return game
}

func TestSectionLengthsStandardTwoPlayer(t *testing.T) {
	game := mustGame(t, hanabi.GameParams{})

	testCases := []struct {
		section  string
		length   int
		expected int
	}{
		// 2*5*25 + 2.
		{"hands", HandsSectionLength(game), 252},
		// (50-10) + 25 + 8 + 3.
		{"board", BoardSectionLength(game), 76},
		{"discards", DiscardSectionLength(game), 50},
		// 2 + 4 + 2 + 5 + 5 + 5 + 5 + 25 + 2.
		{"last action", LastActionSectionLength(game), 55},
		// 2*5*(25+5+5).
		{"card knowledge", CardKnowledgeSectionLength(game), 350},
	}
	for _, tc := range testCases {
		if tc.length != tc.expected {
			t.Errorf("%s section length = %d, expected %d", tc.section, tc.length, tc.expected)
		}
	}

	e := NewEncoder(game)
	if e.Shape() != 783 {
		t.Errorf("shape = %d, expected 783", e.Shape())
	}
}

func TestShapeSumsSections(t *testing.T) {
	testCases := []hanabi.GameParams{
		{},
		{NumPlayers: 3},
		{NumPlayers: 4},
		{NumPlayers: 5},
		{NumColors: 3, NumRanks: 4},
		{NumColors: 1, NumRanks: 1, MaxInformationTokens: 3, MaxLifeTokens: 1},
	}
	for _, params := range testCases {
		game := mustGame(t, params)
		e := NewEncoder(game)

		expected := HandsSectionLength(game) + BoardSectionLength(game) +
			DiscardSectionLength(game) + LastActionSectionLength(game) +
			CardKnowledgeSectionLength(game)
		if e.Shape() != expected {
			t.Errorf("params %+v: shape = %d, expected %d", params, e.Shape(), expected)
		}
	}
}

func TestShapeMinimal(t *testing.T) {
	game := mustGame(t, hanabi.GameParams{ObservationType: hanabi.Minimal})
	e := NewEncoder(game)

	// 783 minus the 350 card knowledge slots.
	if e.Shape() != 433 {
		t.Errorf("minimal shape = %d, expected 433", e.Shape())
	}
}
