package hanabi

import (
	"testing"
)

func TestNewGameDefaults(t *testing.T) {
	game, err := NewGame(GameParams{})
	if err != nil {
		t.Fatal(err)
	}

	if game.NumColors() != 5 {
		t.Errorf("default colors = %d, expected 5", game.NumColors())
	}
	if game.NumRanks() != 5 {
		t.Errorf("default ranks = %d, expected 5", game.NumRanks())
	}
	if game.NumPlayers() != 2 {
		t.Errorf("default players = %d, expected 2", game.NumPlayers())
	}
	if game.HandSize() != 5 {
		t.Errorf("default hand size = %d, expected 5", game.HandSize())
	}
	if game.MaxInformationTokens() != 8 {
		t.Errorf("default information tokens = %d, expected 8", game.MaxInformationTokens())
	}
	if game.MaxLifeTokens() != 3 {
		t.Errorf("default life tokens = %d, expected 3", game.MaxLifeTokens())
	}
	if game.ObservationType() != CardKnowledge {
		t.Errorf("default observation type = %v, expected CardKnowledge", game.ObservationType())
	}
}

func TestNewGameHandSizeDefault(t *testing.T) {
	testCases := []struct {
		players  int
		handSize int
	}{
		{2, 5},
		{3, 5},
		{4, 4},
		{5, 4},
	}
	for _, tc := range testCases {
		game, err := NewGame(GameParams{NumPlayers: tc.players})
		if err != nil {
			t.Fatal(err)
		}
		if game.HandSize() != tc.handSize {
			t.Errorf("%d players: hand size = %d, expected %d",
				tc.players, game.HandSize(), tc.handSize)
		}
	}
}

func TestNewGameValidation(t *testing.T) {
	testCases := []GameParams{
		{NumColors: 6},
		{NumColors: -1},
		{NumRanks: 6},
		{NumPlayers: 1},
		{NumPlayers: 6},
		{HandSize: 6},
		{MaxInformationTokens: -1},
		{MaxLifeTokens: -1},
	}
	for _, params := range testCases {
		if _, err := NewGame(params); err == nil {
			t.Errorf("params %+v: expected validation error, got none", params)
		}
	}
}

func TestNumberCardInstances(t *testing.T) {
	game, err := NewGame(GameParams{})
	if err != nil {
		t.Fatal(err)
	}

	testCases := []struct {
		color, rank int
		expected    int
	}{
		{0, 0, 3},
		{0, 1, 2},
		{0, 2, 2},
		{0, 3, 2},
		{0, 4, 1},
		{4, 0, 3},
		{5, 0, 0},
		{0, 5, 0},
		{-1, 0, 0},
	}
	for _, tc := range testCases {
		if got := game.NumberCardInstances(tc.color, tc.rank); got != tc.expected {
			t.Errorf("instances of (%d,%d) = %d, expected %d",
				tc.color, tc.rank, got, tc.expected)
		}
	}
}

func TestMaxDeckSize(t *testing.T) {
	game, err := NewGame(GameParams{})
	if err != nil {
		t.Fatal(err)
	}
	if game.CardsPerColor() != 10 {
		t.Errorf("cards per color = %d, expected 10", game.CardsPerColor())
	}
	if game.MaxDeckSize() != 50 {
		t.Errorf("max deck size = %d, expected 50", game.MaxDeckSize())
	}

	small, err := NewGame(GameParams{NumColors: 3, NumRanks: 4})
	if err != nil {
		t.Fatal(err)
	}
	// Per color: 3 + 2 + 2 + 1.
	if small.CardsPerColor() != 8 {
		t.Errorf("cards per color = %d, expected 8", small.CardsPerColor())
	}
	if small.MaxDeckSize() != 24 {
		t.Errorf("max deck size = %d, expected 24", small.MaxDeckSize())
	}
}
