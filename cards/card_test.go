package cards

import (
	"encoding/json"
	"testing"
)

func TestCardIndexRoundTrip(t *testing.T) {
	numRanks := 5
	for color := 0; color < 5; color++ {
		for rank := 0; rank < numRanks; rank++ {
			card := NewCard(color, rank)
			idx := card.Index(numRanks)
			if expected := color*numRanks + rank; idx != expected {
				t.Errorf("card %v has index %d, expected %d", card, idx, expected)
			}
			if got := CardFromIndex(idx, numRanks); got != card {
				t.Errorf("index %d decodes to %v, expected %v", idx, got, card)
			}
		}
	}
}

func TestCardValid(t *testing.T) {
	if Invalid.Valid() {
		t.Error("Invalid card reports Valid() == true")
	}
	if !NewCard(0, 0).Valid() {
		t.Error("card (0,0) reports Valid() == false")
	}
}

func TestCardString(t *testing.T) {
	testCases := []struct {
		card     Card
		expected string
	}{
		{NewCard(0, 0), "R1"},
		{NewCard(2, 4), "G5"},
		{NewCard(4, 1), "B2"},
		{Invalid, "XX"},
	}
	for _, tc := range testCases {
		if tc.card.String() != tc.expected {
			t.Errorf("card %+v prints as %q, expected %q", tc.card, tc.card, tc.expected)
		}
	}
}

func TestKnowledgeInitiallyAllPlausible(t *testing.T) {
	k := NewKnowledge(5, 5)
	for c := 0; c < 5; c++ {
		if !k.ColorPlausible(c) {
			t.Errorf("fresh knowledge: color %d not plausible", c)
		}
	}
	for r := 0; r < 5; r++ {
		if !k.RankPlausible(r) {
			t.Errorf("fresh knowledge: rank %d not plausible", r)
		}
	}
	if k.ColorHinted() || k.RankHinted() {
		t.Errorf("fresh knowledge reports hints: %v", k)
	}
}

func TestKnowledgeColorHint(t *testing.T) {
	k := NewKnowledge(5, 5)
	k.ApplyIsColorHint(2)
	if !k.ColorHinted() || k.Color() != 2 {
		t.Errorf("after color hint, hinted color is %d, expected 2", k.Color())
	}
	for c := 0; c < 5; c++ {
		if k.ColorPlausible(c) != (c == 2) {
			t.Errorf("after color hint 2, color %d plausible = %v", c, k.ColorPlausible(c))
		}
	}
	// Ranks are untouched by a color hint.
	for r := 0; r < 5; r++ {
		if !k.RankPlausible(r) {
			t.Errorf("after color hint, rank %d no longer plausible", r)
		}
	}
}

func TestKnowledgeNegativeHintsNarrow(t *testing.T) {
	k := NewKnowledge(5, 5)
	k.ApplyIsNotRankHint(0)
	k.ApplyIsNotRankHint(3)
	for r := 0; r < 5; r++ {
		expected := r != 0 && r != 3
		if k.RankPlausible(r) != expected {
			t.Errorf("rank %d plausible = %v, expected %v", r, k.RankPlausible(r), expected)
		}
	}
	if k.RankHinted() {
		t.Error("negative hints must not set the direct-hint flag")
	}

	// Plausible requires both axes.
	if k.Plausible(NewCard(1, 3)) {
		t.Error("card with excluded rank still plausible")
	}
	if !k.Plausible(NewCard(1, 1)) {
		t.Error("unexcluded card not plausible")
	}
}

func TestKnowledgeJSONRoundTrip(t *testing.T) {
	k := NewKnowledge(5, 5)
	k.ApplyIsColorHint(1)
	k.ApplyIsNotRankHint(4)

	buf, err := json.Marshal(k)
	if err != nil {
		t.Fatal(err)
	}
	var got Knowledge
	if err := json.Unmarshal(buf, &got); err != nil {
		t.Fatal(err)
	}
	if got != k {
		t.Errorf("round-tripped knowledge %v, expected %v", got, k)
	}
}

func TestKnowledgeBinaryRoundTrip(t *testing.T) {
	k := NewKnowledge(3, 4)
	k.ApplyIsRankHint(2)
	buf := k.AppendBinary(nil)
	if len(buf) != 4 {
		t.Errorf("binary knowledge is %d bytes, expected 4", len(buf))
	}
	if got := KnowledgeFromBinary(buf); got != k {
		t.Errorf("round-tripped knowledge %v, expected %v", got, k)
	}
}
