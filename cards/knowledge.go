package cards

import (
	"encoding/json"
	"strings"
)

// Knowledge tracks what one hand slot's card could be, given the hints
// received so far: a plausibility bitmask over colors, another over ranks,
// and the color/rank values a hint directly named, if any.
//
// The plausible sets only ever shrink. A card identity is plausible iff
// both its color bit and its rank bit are set. Directly-hinted values are
// tracked separately from plausibility: they record what was said, not
// what can be inferred.
//
// Colors and ranks are limited to 8 each so the masks fit in a uint8.
type Knowledge struct {
	colorPlausible uint8
	rankPlausible  uint8
	hintedColor    int8
	hintedRank     int8
}

// NewKnowledge returns blank knowledge for a game with the given color and
// rank counts: everything plausible, nothing hinted.
func NewKnowledge(numColors, numRanks int) Knowledge {
	return Knowledge{
		colorPlausible: uint8(1<<uint(numColors)) - 1,
		rankPlausible:  uint8(1<<uint(numRanks)) - 1,
		hintedColor:    -1,
		hintedRank:     -1,
	}
}

// ColorPlausible returns whether the slot's card could have the given color.
func (k Knowledge) ColorPlausible(color int) bool {
	return k.colorPlausible&(1<<uint(color)) != 0
}

// RankPlausible returns whether the slot's card could have the given rank.
func (k Knowledge) RankPlausible(rank int) bool {
	return k.rankPlausible&(1<<uint(rank)) != 0
}

// Plausible returns whether the given identity remains possible:
// both the color and the rank must be individually plausible.
func (k Knowledge) Plausible(c Card) bool {
	return k.ColorPlausible(int(c.Color)) && k.RankPlausible(int(c.Rank))
}

// ColorHinted returns whether a hint directly named this slot's color.
func (k Knowledge) ColorHinted() bool {
	return k.hintedColor >= 0
}

// Color returns the directly-hinted color, or -1 if none was given.
func (k Knowledge) Color() int {
	return int(k.hintedColor)
}

// RankHinted returns whether a hint directly named this slot's rank.
func (k Knowledge) RankHinted() bool {
	return k.hintedRank >= 0
}

// Rank returns the directly-hinted rank, or -1 if none was given.
func (k Knowledge) Rank() int {
	return int(k.hintedRank)
}

// ApplyIsColorHint records that a hint named this slot's color, pinning the
// plausible color set to exactly that color.
func (k *Knowledge) ApplyIsColorHint(color int) {
	k.hintedColor = int8(color)
	k.colorPlausible = 1 << uint(color)
}

// ApplyIsNotColorHint records that a hint for the given color did not touch
// this slot.
func (k *Knowledge) ApplyIsNotColorHint(color int) {
	k.colorPlausible &^= 1 << uint(color)
}

// ApplyIsRankHint records that a hint named this slot's rank.
func (k *Knowledge) ApplyIsRankHint(rank int) {
	k.hintedRank = int8(rank)
	k.rankPlausible = 1 << uint(rank)
}

// ApplyIsNotRankHint records that a hint for the given rank did not touch
// this slot.
func (k *Knowledge) ApplyIsNotRankHint(rank int) {
	k.rankPlausible &^= 1 << uint(rank)
}

// String implements Stringer. Plausible colors print as their letters,
// plausible ranks one-based, a '|' separating directly-hinted values,
// e.g. "RY12|R-".
func (k Knowledge) String() string {
	var sb strings.Builder
	for c := 0; c < 8; c++ {
		if k.ColorPlausible(c) {
			sb.WriteString(ColorName(c))
		}
	}
	for r := 0; r < 8; r++ {
		if k.RankPlausible(r) {
			sb.WriteByte(byte('1' + r))
		}
	}
	sb.WriteByte('|')
	if k.ColorHinted() {
		sb.WriteString(ColorName(k.Color()))
	} else {
		sb.WriteByte('-')
	}
	if k.RankHinted() {
		sb.WriteByte(byte('1' + k.hintedRank))
	} else {
		sb.WriteByte('-')
	}
	return sb.String()
}

type knowledgeJSON struct {
	ColorMask uint8 `json:"color_mask"`
	RankMask  uint8 `json:"rank_mask"`
	Color     int8  `json:"color"`
	Rank      int8  `json:"rank"`
}

// MarshalJSON implements json.Marshaler. The wire form carries the raw
// plausibility masks and the hinted values (-1 when not hinted).
func (k Knowledge) MarshalJSON() ([]byte, error) {
	return json.Marshal(knowledgeJSON{
		ColorMask: k.colorPlausible,
		RankMask:  k.rankPlausible,
		Color:     k.hintedColor,
		Rank:      k.hintedRank,
	})
}

// UnmarshalJSON implements json.Unmarshaler.
func (k *Knowledge) UnmarshalJSON(buf []byte) error {
	var kj knowledgeJSON
	if err := json.Unmarshal(buf, &kj); err != nil {
		return err
	}
	k.colorPlausible = kj.ColorMask
	k.rankPlausible = kj.RankMask
	k.hintedColor = kj.Color
	k.hintedRank = kj.Rank
	return nil
}

// AppendBinary appends the 4-byte fixed encoding of k to buf.
func (k Knowledge) AppendBinary(buf []byte) []byte {
	return append(buf, k.colorPlausible, k.rankPlausible,
		byte(k.hintedColor), byte(k.hintedRank))
}

// KnowledgeFromBinary decodes the 4-byte encoding produced by AppendBinary.
func KnowledgeFromBinary(buf []byte) Knowledge {
	return Knowledge{
		colorPlausible: buf[0],
		rankPlausible:  buf[1],
		hintedColor:    int8(buf[2]),
		hintedRank:     int8(buf[3]),
	}
}
