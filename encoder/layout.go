package encoder

import (
	"github.com/timpalpant/hanabi"
)

// bitsPerCard is the number of slots a one-hot card identity occupies.
func bitsPerCard(game *hanabi.Game) int {
	return game.NumColors() * game.NumRanks()
}

// perCardKnowledgeLength is the number of slots one hand slot occupies in
// the card knowledge section: the plausible-identity block followed by the
// directly-hinted color and rank blocks.
func perCardKnowledgeLength(game *hanabi.Game) int {
	return bitsPerCard(game) + game.NumColors() + game.NumRanks()
}

// HandsSectionLength returns the length of the hands section: a one-hot
// card identity per hand slot, plus one bit per player flagging a hand
// that is missing a card.
func HandsSectionLength(game *hanabi.Game) int {
	return game.NumPlayers()*game.HandSize()*bitsPerCard(game) +
		game.NumPlayers()
}

// BoardSectionLength returns the length of the board section: deck size
// thermometer, fireworks one-hot per color, then information and life
// token thermometers. The deck thermometer excludes the initial deals,
// which are always drawn before the first turn.
func BoardSectionLength(game *hanabi.Game) int {
	return game.MaxDeckSize() - game.NumPlayers()*game.HandSize() +
		game.NumColors()*game.NumRanks() +
		game.MaxInformationTokens() +
		game.MaxLifeTokens()
}

// DiscardSectionLength returns the length of the discard section: one
// thermometer per identity, sized by how many copies the deck holds.
func DiscardSectionLength(game *hanabi.Game) int {
	return game.MaxDeckSize()
}

// LastActionSectionLength returns the length of the last-action section.
// Every field's range is always reserved, whatever the move kind.
func LastActionSectionLength(game *hanabi.Game) int {
	return game.NumPlayers() + // acting player
		4 + // move type (play, discard, reveal color, reveal rank)
		game.NumPlayers() + // target player (if reveal)
		game.NumColors() + // color (if reveal color)
		game.NumRanks() + // rank (if reveal rank)
		game.HandSize() + // reveal outcome (if reveal)
		game.HandSize() + // position (if play or discard)
		bitsPerCard(game) + // card (if play or discard)
		2 // play scored, play gave an information token
}

// CardKnowledgeSectionLength returns the length of the card knowledge
// section, which is also the shape of the belief buffers.
func CardKnowledgeSectionLength(game *hanabi.Game) int {
	return game.NumPlayers() * game.HandSize() * perCardKnowledgeLength(game)
}
