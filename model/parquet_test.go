package model

import (
	"bytes"
	"io"
	"os"
	"reflect"
	"strings"
	"testing"

	"github.com/parquet-go/parquet-go"
	"github.com/timpalpant/go-cfr/deepcfr"

	"github.com/timpalpant/hanabi/encoder"
)

func TestBuildBeliefRows(t *testing.T) {
	game := testGame(t)
	obs := freshDeal(game)
	samples := []deepcfr.Sample{NewSample(obs, trueHand, 1.5)}

	rows, err := BuildBeliefRows(game, samples)
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 1 {
		t.Fatalf("built %d rows, expected 1", len(rows))
	}

	enc := encoder.NewEncoder(game)
	row := rows[0]
	if !bytes.Equal(row.Key, []byte(obs.Key())) {
		t.Errorf("row key does not match the observation key")
	}
	if !reflect.DeepEqual(row.X, enc.Encode(obs, false)) {
		t.Errorf("row features differ from a direct encode")
	}
	if len(row.Belief) != game.NumPlayers()*game.HandSize()*game.NumColors()*game.NumRanks() {
		t.Errorf("row belief has %d values", len(row.Belief))
	}
	if len(row.OwnHand) != encoder.OwnHandLength {
		t.Errorf("row ownhand has %d values, expected %d", len(row.OwnHand), encoder.OwnHandLength)
	}
	if row.SampleWeight != 1.5 {
		t.Errorf("row weight = %v, expected 1.5", row.SampleWeight)
	}
}

func TestWriteBeliefParquet(t *testing.T) {
	game := testGame(t)
	obs := freshDeal(game)
	samples := []deepcfr.Sample{
		NewSample(obs, trueHand, 1),
		NewSample(obs, trueHand, 2),
	}
	rows, err := BuildBeliefRows(game, samples)
	if err != nil {
		t.Fatal(err)
	}

	dir := t.TempDir()
	path, err := WriteBeliefParquet(dir, rows)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasSuffix(path, ".parquet") {
		t.Errorf("output path %v is not a .parquet file", path)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	stat, err := f.Stat()
	if err != nil {
		t.Fatal(err)
	}
	pf, err := parquet.OpenFile(f, stat.Size())
	if err != nil {
		t.Fatal(err)
	}

	reader := parquet.NewGenericReader[BeliefRow](pf)
	defer reader.Close()
	decoded := make([]BeliefRow, len(rows)+1)
	n, err := reader.Read(decoded)
	if err != nil && err != io.EOF {
		t.Fatal(err)
	}
	if n != len(rows) {
		t.Fatalf("read %d rows, expected %d", n, len(rows))
	}

	for i := range rows {
		if !reflect.DeepEqual(decoded[i], rows[i]) {
			t.Errorf("row %d does not round-trip", i)
		}
	}
}
