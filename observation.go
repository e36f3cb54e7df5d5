package hanabi

import (
	"crypto/md5"
	"fmt"
	"strings"

	"github.com/pkg/errors"
	"github.com/timpalpant/go-cfr"

	"github.com/timpalpant/hanabi/cards"
)

// HistoryItem records one resolved move: the move itself, who made it
// (observer-relative), and its outcome. Color/Rank carry the identity of a
// played or discarded card, RevealBitmask the hand slots a hint touched,
// DealToPlayer the recipient of a deal. Fields not relevant to the move
// kind are -1 (or 0 for the bitmask).
type HistoryItem struct {
	Move             Move  `json:"move"`
	Player           int8  `json:"player"`
	Scored           bool  `json:"scored"`
	InformationToken bool  `json:"information_token"`
	Color            int8  `json:"color"`
	Rank             int8  `json:"rank"`
	RevealBitmask    uint8 `json:"reveal_bitmask"`
	DealToPlayer     int8  `json:"deal_to_player"`
}

// String implements Stringer, e.g. "<(Play 0) by player 1 scored R2>".
func (h HistoryItem) String() string {
	var sb strings.Builder
	sb.WriteByte('<')
	sb.WriteString(h.Move.String())
	fmt.Fprintf(&sb, " by player %d", h.Player)
	if h.Scored {
		sb.WriteString(" scored")
	}
	if h.InformationToken {
		sb.WriteString(" info_token")
	}
	if h.Color >= 0 && h.Rank >= 0 {
		sb.WriteByte(' ')
		sb.WriteString(cards.NewCard(int(h.Color), int(h.Rank)).String())
	}
	if h.RevealBitmask != 0 {
		sb.WriteString(" reveal ")
		first := true
		for i := 0; i < 8; i++ {
			if h.RevealBitmask&(1<<uint(i)) != 0 {
				if !first {
					sb.WriteByte(',')
				}
				fmt.Fprintf(&sb, "%d", i)
				first = false
			}
		}
	}
	sb.WriteByte('>')
	return sb.String()
}

// Observation is the game state visible to one player: all hands rotated
// so that index 0 is the observer (whose own cards are invalid unless an
// engine deliberately exposes them), the public board state, and the move
// history with the most recent move first.
//
// Observations are read-only value contracts produced by a rules engine;
// nothing in this module mutates one after construction.
type Observation struct {
	CurrentPlayerOffset int           `json:"current_player_offset"`
	DeckSize            int           `json:"deck_size"`
	InformationTokens   int           `json:"information_tokens"`
	LifeTokens          int           `json:"life_tokens"`
	Hands               []Hand        `json:"hands"`
	DiscardPile         []cards.Card  `json:"discard_pile"`
	Fireworks           []int         `json:"fireworks"`
	LastMoves           []HistoryItem `json:"last_moves"`
}

// LastNonDealMove returns the most recent move that was not a deal, or nil
// if no player has acted yet.
func (o *Observation) LastNonDealMove() *HistoryItem {
	for i := range o.LastMoves {
		if o.LastMoves[i].Move.Type != MoveDeal {
			return &o.LastMoves[i]
		}
	}
	return nil
}

// Clone returns a deep copy of the observation.
func (o *Observation) Clone() *Observation {
	result := *o
	result.Hands = make([]Hand, len(o.Hands))
	for i, h := range o.Hands {
		result.Hands[i] = h.Clone()
	}
	result.DiscardPile = append([]cards.Card(nil), o.DiscardPile...)
	result.Fireworks = append([]int(nil), o.Fireworks...)
	result.LastMoves = append([]HistoryItem(nil), o.LastMoves...)
	return &result
}

const historyItemSize = 11 // 5 move bytes + player + flags + color + rank + bitmask + deal target

// MarshalBinary implements encoding.BinaryMarshaler. The layout is
// length-prefixed with fixed field order so that equal observations
// produce equal bytes.
func (o *Observation) MarshalBinary() ([]byte, error) {
	// Doing extra work to exactly size the buffer (and avoid any additional
	// allocations) ends up being faster than letting it auto-size.
	bufSize := 4 + 1 // header + number of hands
	for _, hand := range o.Hands {
		bufSize += 1 + 6*hand.Len()
	}
	bufSize += 1 + 2*len(o.DiscardPile)
	bufSize += 1 + len(o.Fireworks)
	bufSize += 1 + historyItemSize*len(o.LastMoves)

	buf := make([]byte, 0, bufSize)
	buf = append(buf, uint8(o.CurrentPlayerOffset), uint8(o.DeckSize),
		uint8(o.InformationTokens), uint8(o.LifeTokens))

	buf = append(buf, uint8(len(o.Hands)))
	for _, hand := range o.Hands {
		buf = append(buf, uint8(hand.Len()))
		for i, card := range hand.Cards {
			buf = append(buf, byte(card.Color), byte(card.Rank))
			buf = hand.Knowledge[i].AppendBinary(buf)
		}
	}

	buf = append(buf, uint8(len(o.DiscardPile)))
	for _, card := range o.DiscardPile {
		buf = append(buf, byte(card.Color), byte(card.Rank))
	}

	buf = append(buf, uint8(len(o.Fireworks)))
	for _, n := range o.Fireworks {
		buf = append(buf, uint8(n))
	}

	buf = append(buf, uint8(len(o.LastMoves)))
	for _, item := range o.LastMoves {
		var flags uint8
		if item.Scored {
			flags |= 0x1
		}
		if item.InformationToken {
			flags |= 0x2
		}
		buf = append(buf, uint8(item.Move.Type), byte(item.Move.CardIndex),
			byte(item.Move.TargetOffset), byte(item.Move.Color), byte(item.Move.Rank),
			byte(item.Player), flags, byte(item.Color), byte(item.Rank),
			item.RevealBitmask, byte(item.DealToPlayer))
	}

	return buf, nil
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler, the inverse of
// MarshalBinary. Truncated input returns an error rather than panicking.
func (o *Observation) UnmarshalBinary(buf []byte) error {
	if len(buf) < 5 {
		return errors.Errorf("truncated observation: %d bytes", len(buf))
	}
	o.CurrentPlayerOffset = int(buf[0])
	o.DeckSize = int(buf[1])
	o.InformationTokens = int(buf[2])
	o.LifeTokens = int(buf[3])
	nHands := int(buf[4])
	buf = buf[5:]

	o.Hands = make([]Hand, nHands)
	for i := 0; i < nHands; i++ {
		if len(buf) < 1 {
			return errors.Errorf("truncated observation: missing hand %d", i)
		}
		n := int(buf[0])
		buf = buf[1:]
		if len(buf) < 6*n {
			return errors.Errorf("truncated observation: hand %d needs %d bytes, have %d", i, 6*n, len(buf))
		}

		hand := NewHand(n)
		for j := 0; j < n; j++ {
			card := cards.Card{Color: int8(buf[0]), Rank: int8(buf[1])}
			hand.AddCard(card, cards.KnowledgeFromBinary(buf[2:6]))
			buf = buf[6:]
		}
		o.Hands[i] = hand
	}

	if len(buf) < 1 {
		return errors.New("truncated observation: missing discard pile")
	}
	nDiscards := int(buf[0])
	buf = buf[1:]
	if len(buf) < 2*nDiscards {
		return errors.Errorf("truncated observation: discard pile needs %d bytes, have %d", 2*nDiscards, len(buf))
	}
	o.DiscardPile = make([]cards.Card, nDiscards)
	for i := 0; i < nDiscards; i++ {
		o.DiscardPile[i] = cards.Card{Color: int8(buf[0]), Rank: int8(buf[1])}
		buf = buf[2:]
	}

	if len(buf) < 1 {
		return errors.New("truncated observation: missing fireworks")
	}
	nColors := int(buf[0])
	buf = buf[1:]
	if len(buf) < nColors {
		return errors.Errorf("truncated observation: fireworks needs %d bytes, have %d", nColors, len(buf))
	}
	o.Fireworks = make([]int, nColors)
	for i := 0; i < nColors; i++ {
		o.Fireworks[i] = int(buf[i])
	}
	buf = buf[nColors:]

	if len(buf) < 1 {
		return errors.New("truncated observation: missing history")
	}
	nMoves := int(buf[0])
	buf = buf[1:]
	if len(buf) < historyItemSize*nMoves {
		return errors.Errorf("truncated observation: history needs %d bytes, have %d", historyItemSize*nMoves, len(buf))
	}
	o.LastMoves = make([]HistoryItem, nMoves)
	for i := 0; i < nMoves; i++ {
		o.LastMoves[i] = HistoryItem{
			Move: Move{
				Type:         MoveType(buf[0]),
				CardIndex:    int8(buf[1]),
				TargetOffset: int8(buf[2]),
				Color:        int8(buf[3]),
				Rank:         int8(buf[4]),
			},
			Player:           int8(buf[5]),
			Scored:           buf[6]&0x1 != 0,
			InformationToken: buf[6]&0x2 != 0,
			Color:            int8(buf[7]),
			Rank:             int8(buf[8]),
			RevealBitmask:    buf[9],
			DealToPlayer:     int8(buf[10]),
		}
		buf = buf[historyItemSize:]
	}

	return nil
}

// Key implements cfr.InfoSet. Equal observations yield equal keys.
func (o *Observation) Key() string {
	buf, _ := o.MarshalBinary()
	// Hash into a smaller bitstring since observations repeat often
	// as map keys. We'll hope for no collisions :)
	hash := md5.Sum(buf)
	return string(hash[:])
}

var _ cfr.InfoSet = &Observation{}
