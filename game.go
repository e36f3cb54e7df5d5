// Package hanabi models the observable state of the cooperative card game
// Hanabi: the immutable game configuration, hands, moves, and the
// observation snapshots consumed by the feature encoders in package encoder.
//
// The rules engine itself (dealing, turn resolution, hint legality) lives
// outside this module. Everything here is a read-only value contract
// describing what one player can see.
package hanabi

import (
	"github.com/pkg/errors"
)

// ObservationType selects how much detail Encode emits.
type ObservationType uint8

const (
	// CardKnowledge appends the per-slot card knowledge/belief section
	// to the encoded observation. This is the default.
	CardKnowledge ObservationType = iota
	// Minimal omits the card knowledge section.
	Minimal
)

// GameParams configures a Game. Zero-valued fields take the standard
// defaults: 5 colors, 5 ranks, 2 players, 8 information tokens, 3 life
// tokens, and a hand size of 5 for 2-3 players or 4 for 4-5 players.
type GameParams struct {
	NumColors            int             `json:"colors"`
	NumRanks             int             `json:"ranks"`
	NumPlayers           int             `json:"players"`
	HandSize             int             `json:"hand_size"`
	MaxInformationTokens int             `json:"max_information_tokens"`
	MaxLifeTokens        int             `json:"max_life_tokens"`
	ObservationType      ObservationType `json:"observation_type"`
}

// Game is an immutable game configuration, fixed for the length of an
// episode. All encoding section lengths are functions of the Game alone,
// never of runtime state.
type Game struct {
	params GameParams
}

// NewGame applies defaults to the zero-valued fields of params, validates
// the result, and freezes it into a Game.
func NewGame(params GameParams) (*Game, error) {
	if params.NumColors == 0 {
		params.NumColors = 5
	}
	if params.NumRanks == 0 {
		params.NumRanks = 5
	}
	if params.NumPlayers == 0 {
		params.NumPlayers = 2
	}
	if params.HandSize == 0 {
		if params.NumPlayers <= 3 {
			params.HandSize = 5
		} else {
			params.HandSize = 4
		}
	}
	if params.MaxInformationTokens == 0 {
		params.MaxInformationTokens = 8
	}
	if params.MaxLifeTokens == 0 {
		params.MaxLifeTokens = 3
	}

	if params.NumColors < 1 || params.NumColors > 5 {
		return nil, errors.Errorf("hanabi: number of colors must be 1-5, got %d", params.NumColors)
	}
	if params.NumRanks < 1 || params.NumRanks > 5 {
		return nil, errors.Errorf("hanabi: number of ranks must be 1-5, got %d", params.NumRanks)
	}
	if params.NumPlayers < 2 || params.NumPlayers > 5 {
		return nil, errors.Errorf("hanabi: number of players must be 2-5, got %d", params.NumPlayers)
	}
	if params.HandSize < 1 || params.HandSize > 5 {
		return nil, errors.Errorf("hanabi: hand size must be 1-5, got %d", params.HandSize)
	}
	if params.MaxInformationTokens < 0 {
		return nil, errors.Errorf("hanabi: max information tokens must be >= 0, got %d", params.MaxInformationTokens)
	}
	if params.MaxLifeTokens < 1 {
		return nil, errors.Errorf("hanabi: max life tokens must be >= 1, got %d", params.MaxLifeTokens)
	}

	return &Game{params: params}, nil
}

func (g *Game) NumColors() int  { return g.params.NumColors }
func (g *Game) NumRanks() int   { return g.params.NumRanks }
func (g *Game) NumPlayers() int { return g.params.NumPlayers }
func (g *Game) HandSize() int   { return g.params.HandSize }

func (g *Game) MaxInformationTokens() int { return g.params.MaxInformationTokens }
func (g *Game) MaxLifeTokens() int        { return g.params.MaxLifeTokens }

// ObservationType returns the configured observation detail mode.
func (g *Game) ObservationType() ObservationType { return g.params.ObservationType }

// NumberCardInstances returns how many physical copies of the (color, rank)
// identity the deck contains: 3 of the lowest rank, 1 of the highest,
// 2 of everything in between.
func (g *Game) NumberCardInstances(color, rank int) int {
	if color < 0 || color >= g.params.NumColors || rank < 0 || rank >= g.params.NumRanks {
		return 0
	}

	switch rank {
	case 0:
		return 3
	case g.params.NumRanks - 1:
		return 1
	default:
		return 2
	}
}

// CardsPerColor returns the number of physical cards of one color.
func (g *Game) CardsPerColor() int {
	n := 0
	for rank := 0; rank < g.params.NumRanks; rank++ {
		n += g.NumberCardInstances(0, rank)
	}
	return n
}

// MaxDeckSize returns the total number of physical cards in the deck.
func (g *Game) MaxDeckSize() int {
	return g.params.NumColors * g.CardsPerColor()
}
