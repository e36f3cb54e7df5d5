package model

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/parquet-go/parquet-go"
	"github.com/parquet-go/parquet-go/compress/zstd"
	"github.com/pkg/errors"
	"github.com/timpalpant/go-cfr/deepcfr"

	"github.com/timpalpant/hanabi"
	"github.com/timpalpant/hanabi/encoder"
)

// BeliefRow is one encoded training sample in columnar form, for
// engines that prefer Parquet over .npz batches. The float columns are
// dictionary-encoded; feature vectors are mostly zeros and ones.
type BeliefRow struct {
	Key          []byte    `parquet:"key"`
	X            []float32 `parquet:"x,dict"`
	Belief       []float32 `parquet:"belief,dict"`
	OwnHand      []float32 `parquet:"ownhand,dict"`
	SampleWeight float32   `parquet:"sample_weight"`
}

// BuildBeliefRows encodes the given samples into Parquet rows carrying
// the same tensors as the .npz batches, keyed by observation.
func BuildBeliefRows(game *hanabi.Game, samples []deepcfr.Sample) ([]BeliefRow, error) {
	enc := encoder.NewEncoder(game)
	rows := make([]BeliefRow, 0, len(samples))
	for i, s := range samples {
		sample := s.(*Sample)
		var obs hanabi.Observation
		if err := obs.UnmarshalBinary(sample.Observation); err != nil {
			return nil, errors.Wrapf(err, "decoding sample %d", i)
		}

		revealed := obs.Clone()
		revealed.Hands[0].Cards = sample.Hand
		rows = append(rows, BeliefRow{
			Key:          []byte(obs.Key()),
			X:            enc.Encode(&obs, false),
			Belief:       enc.EncodeV1Belief(&obs),
			OwnHand:      enc.EncodeOwnHand(revealed),
			SampleWeight: sample.Weight,
		})
	}

	return rows, nil
}

// WriteBeliefParquet writes rows into outDir as a single Parquet file,
// staged through a tmp file so that readers never observe a partial
// write. The final file path is returned.
func WriteBeliefParquet(outDir string, rows []BeliefRow) (string, error) {
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return "", errors.Wrap(err, "creating output dir")
	}

	name := fmt.Sprintf("beliefs_%d.parquet", time.Now().UnixNano())
	finalPath := filepath.Join(outDir, name)
	tmpPath := finalPath + ".tmp"
	_ = os.Remove(tmpPath)

	if err := parquet.WriteFile(tmpPath, rows,
		parquet.Compression(&zstd.Codec{Level: zstd.SpeedBetterCompression}),
		parquet.KeyValueMetadata("schema", "belief_row_v1"),
	); err != nil {
		_ = os.Remove(tmpPath)
		return "", errors.Wrap(err, "writing parquet")
	}

	if err := os.Rename(tmpPath, finalPath); err != nil {
		_ = os.Remove(tmpPath)
		return "", errors.Wrap(err, "renaming parquet")
	}

	return finalPath, nil
}
