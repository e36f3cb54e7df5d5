package model

import (
	"encoding/binary"
	"encoding/gob"
	"math"

	"github.com/pkg/errors"
	"github.com/timpalpant/go-cfr/deepcfr"

	"github.com/timpalpant/hanabi"
	"github.com/timpalpant/hanabi/cards"
)

// Sample is a single example collected for belief training: the
// observation one player faced (with their own hand concealed), the
// hand they were actually holding, and an importance weight.
type Sample struct {
	Observation []byte
	Hand        []cards.Card
	Weight      float32
}

var _ deepcfr.Sample = &Sample{}

// NewSample pairs obs with the true identities behind its concealed
// own-hand slots.
func NewSample(obs *hanabi.Observation, hand []cards.Card, weight float32) *Sample {
	buf, err := obs.MarshalBinary()
	if err != nil {
		panic(err)
	}

	result := &Sample{
		Observation: buf,
		Hand:        make([]cards.Card, len(hand)),
		Weight:      weight,
	}
	copy(result.Hand, hand)
	return result
}

// MarshalBinary implements encoding.BinaryMarshaler.
func (s *Sample) MarshalBinary() ([]byte, error) {
	// Observation bytes prefixed by length, then the hand, then the weight.
	nBytes := 4 + len(s.Observation) + 1 + 2*len(s.Hand) + 4
	result := make([]byte, 0, nBytes)

	var u32 [4]byte
	binary.LittleEndian.PutUint32(u32[:], uint32(len(s.Observation)))
	result = append(result, u32[:]...)
	result = append(result, s.Observation...)

	result = append(result, byte(len(s.Hand)))
	for _, card := range s.Hand {
		result = append(result, byte(card.Color), byte(card.Rank))
	}

	binary.LittleEndian.PutUint32(u32[:], math.Float32bits(s.Weight))
	result = append(result, u32[:]...)
	return result, nil
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler.
func (s *Sample) UnmarshalBinary(buf []byte) error {
	if len(buf) < 4 {
		return errors.Errorf("truncated sample: %d bytes", len(buf))
	}
	nObsBytes := int(binary.LittleEndian.Uint32(buf))
	buf = buf[4:]
	if len(buf) < nObsBytes+1 {
		return errors.Errorf("truncated sample: observation needs %d bytes, have %d",
			nObsBytes, len(buf))
	}

	// UnmarshalBinary must copy the data it wishes to keep.
	s.Observation = make([]byte, nObsBytes)
	copy(s.Observation, buf)
	buf = buf[nObsBytes:]

	nCards := int(buf[0])
	buf = buf[1:]
	if len(buf) != 2*nCards+4 {
		return errors.Errorf("truncated sample: hand needs %d bytes, have %d",
			2*nCards+4, len(buf))
	}

	s.Hand = make([]cards.Card, nCards)
	for i := range s.Hand {
		s.Hand[i] = cards.Card{Color: int8(buf[0]), Rank: int8(buf[1])}
		buf = buf[2:]
	}

	s.Weight = math.Float32frombits(binary.LittleEndian.Uint32(buf))
	return nil
}

func init() {
	gob.Register(&Sample{})
}
