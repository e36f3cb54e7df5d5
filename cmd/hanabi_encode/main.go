// Build belief-training datasets from a stream of observed Hanabi
// positions: read JSONL observations with their true hands, keep a
// uniform reservoir subsample, and export encoded feature batches as
// .npz archives and optionally a Parquet file.
package main

import (
	"bufio"
	"encoding/json"
	"flag"
	"net/http"
	_ "net/http/pprof"
	"os"
	"runtime"

	"github.com/golang/glog"
	"github.com/pkg/errors"
	"github.com/timpalpant/go-cfr/deepcfr"

	"github.com/timpalpant/hanabi"
	"github.com/timpalpant/hanabi/cards"
	"github.com/timpalpant/hanabi/model"
)

type RunParams struct {
	Input      string
	OutputDir  string
	ParquetDir string
	BatchSize  int
	MaxWorkers int
	MaxSamples int

	Game    hanabi.GameParams
	Minimal bool
}

// record is one line of the input stream: what the player saw, what
// they actually held, and an optional importance weight.
type record struct {
	Observation *hanabi.Observation `json:"observation"`
	Hand        []cards.Card        `json:"hand"`
	Weight      float32             `json:"weight"`
}

func main() {
	var params RunParams
	flag.StringVar(&params.Input, "input", "",
		"JSONL file of observations to encode (default stdin)")
	flag.StringVar(&params.OutputDir, "output_dir", "training-data",
		"Output directory for .npz batches")
	flag.StringVar(&params.ParquetDir, "parquet_dir", "",
		"Also write the encoded samples as a Parquet file into this directory")
	flag.IntVar(&params.BatchSize, "batch_size", 4096,
		"Number of samples per .npz batch")
	flag.IntVar(&params.MaxWorkers, "max_workers", runtime.NumCPU(),
		"Maximum number of concurrent batch writers")
	flag.IntVar(&params.MaxSamples, "max_samples", 1000000,
		"Maximum number of samples to keep in the reservoir")
	flag.IntVar(&params.Game.NumColors, "game.colors", 0,
		"Number of card colors (0 for the standard game)")
	flag.IntVar(&params.Game.NumRanks, "game.ranks", 0,
		"Number of card ranks (0 for the standard game)")
	flag.IntVar(&params.Game.NumPlayers, "game.players", 0,
		"Number of players (0 for the standard game)")
	flag.IntVar(&params.Game.HandSize, "game.hand_size", 0,
		"Cards per hand (0 for the standard game)")
	flag.IntVar(&params.Game.MaxInformationTokens, "game.information_tokens", 0,
		"Maximum information tokens (0 for the standard game)")
	flag.IntVar(&params.Game.MaxLifeTokens, "game.life_tokens", 0,
		"Maximum life tokens (0 for the standard game)")
	flag.BoolVar(&params.Minimal, "game.minimal", false,
		"Encode without the card knowledge section")
	flag.Parse()

	go http.ListenAndServe("localhost:4123", nil)

	if params.Minimal {
		params.Game.ObservationType = hanabi.Minimal
	}
	game, err := hanabi.NewGame(params.Game)
	if err != nil {
		glog.Fatal(err)
	}

	buffer := deepcfr.NewReservoirBuffer(params.MaxSamples, params.MaxWorkers)
	n, err := collectSamples(params.Input, buffer)
	if err != nil {
		glog.Fatal(err)
	}
	glog.Infof("Keeping %d of %d observations", buffer.Len(), n)

	samples := buffer.GetSamples()
	if err := os.MkdirAll(params.OutputDir, 0o755); err != nil {
		glog.Fatal(err)
	}
	if err := model.SaveTrainingData(game, samples, params.OutputDir,
		params.BatchSize, params.MaxWorkers); err != nil {
		glog.Fatal(err)
	}

	if params.ParquetDir != "" {
		rows, err := model.BuildBeliefRows(game, samples)
		if err != nil {
			glog.Fatal(err)
		}
		path, err := model.WriteBeliefParquet(params.ParquetDir, rows)
		if err != nil {
			glog.Fatal(err)
		}
		glog.Infof("Wrote %d rows to %v", len(rows), path)
	}
}

func collectSamples(input string, buffer *deepcfr.ReservoirBuffer) (int, error) {
	f := os.Stdin
	if input != "" {
		var err error
		f, err = os.Open(input)
		if err != nil {
			return 0, err
		}
		defer f.Close()
	}

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 1024*1024), 1024*1024)
	n := 0
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		rec := record{Weight: 1}
		if err := json.Unmarshal(line, &rec); err != nil {
			return n, errors.Wrapf(err, "parsing line %d", n+1)
		}
		if rec.Observation == nil {
			return n, errors.Errorf("line %d has no observation", n+1)
		}
		if len(rec.Observation.Hands) == 0 {
			return n, errors.Errorf("line %d observation has no hands", n+1)
		}
		if len(rec.Hand) != rec.Observation.Hands[0].Len() {
			return n, errors.Errorf("line %d hand has %d cards, observation holds %d",
				n+1, len(rec.Hand), rec.Observation.Hands[0].Len())
		}

		buffer.AddSample(model.NewSample(rec.Observation, rec.Hand, rec.Weight))
		n++
		if n%100000 == 0 {
			glog.V(1).Infof("Collected %d observations", n)
		}
	}

	return n, scanner.Err()
}
