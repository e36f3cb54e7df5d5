package model

import (
	"fmt"
	"math/rand"
	"path/filepath"
	"sync"
	"time"

	"github.com/golang/glog"
	"github.com/timpalpant/go-cfr/deepcfr"

	"github.com/timpalpant/hanabi"
	"github.com/timpalpant/hanabi/encoder"
	"github.com/timpalpant/hanabi/model/npyio"
)

// SaveTrainingData encodes the given samples with the game's encoder
// and writes them as fixed-size .npz batches within the given directory.
func SaveTrainingData(game *hanabi.Game, samples []deepcfr.Sample, directory string, batchSize int, maxNumWorkers int) error {
	collected := make([]*Sample, len(samples))
	for i, s := range samples {
		collected[i] = s.(*Sample)
	}

	// Normalize sample weights to have mean 1.
	// Only the relative weights matter for correctness in expectation.
	normalizeSampleWeights(collected)
	rand.Shuffle(len(collected), func(i, j int) {
		collected[i], collected[j] = collected[j], collected[i]
	})

	// Write each batch as npz within the given directory.
	glog.V(1).Infof("Writing batches to %v", directory)
	enc := encoder.NewEncoder(game)
	var wg sync.WaitGroup
	var mu sync.Mutex
	sem := make(chan struct{}, maxNumWorkers)
	start := time.Now()
	var retErr error
	for batchNum := 0; batchNum*batchSize < len(collected); batchNum++ {
		sem <- struct{}{}
		wg.Add(1)
		go func(batchNum int) {
			defer func() { <-sem }()
			defer wg.Done()

			batchStart := batchNum * batchSize
			batchEnd := min(batchStart+batchSize, len(collected))
			batch := collected[batchStart:batchEnd]
			batchName := fmt.Sprintf("batch_%08d.npz", batchNum)
			batchFilename := filepath.Join(directory, batchName)
			glog.V(2).Infof("Saving batch %d (%d samples) to %v",
				batchNum, len(batch), batchFilename)
			if err := saveBatch(game, enc, batch, batchFilename); err != nil {
				mu.Lock()
				defer mu.Unlock()
				if retErr == nil {
					retErr = err
				}
			}
		}(batchNum)
	}

	wg.Wait()

	elapsed := time.Since(start)
	sps := float64(len(collected)) / elapsed.Seconds()
	glog.V(1).Infof("Finished saving training data (took: %v, %.1f samples/sec)", elapsed, sps)
	return retErr
}

func saveBatch(game *hanabi.Game, enc *encoder.Encoder, batch []*Sample, filename string) error {
	nSamples := len(batch)
	beliefLen := game.NumPlayers() * game.HandSize() * game.NumColors() * game.NumRanks()

	features := make([]float32, 0, nSamples*enc.Shape())
	beliefs := make([]float32, 0, nSamples*beliefLen)
	ownHands := make([]float32, 0, nSamples*encoder.OwnHandLength)
	sampleWeights := make([]float32, 0, nSamples)

	for _, sample := range batch {
		var obs hanabi.Observation
		if err := obs.UnmarshalBinary(sample.Observation); err != nil {
			return err
		}

		features = append(features, enc.Encode(&obs, false)...)
		beliefs = append(beliefs, enc.EncodeV1Belief(&obs)...)

		// The sample's true hand stands in for the concealed slots so
		// that the own-hand target can be computed.
		revealed := obs.Clone()
		revealed.Hands[0].Cards = sample.Hand
		ownHands = append(ownHands, enc.EncodeOwnHand(revealed)...)

		sampleWeights = append(sampleWeights, sample.Weight)
	}

	return npyio.MakeNPZ(filename, map[string]npyio.Array{
		"x":             {Data: features, Cols: enc.Shape()},
		"belief":        {Data: beliefs, Cols: beliefLen},
		"ownhand":       {Data: ownHands, Cols: encoder.OwnHandLength},
		"sample_weight": {Data: sampleWeights},
	})
}

func normalizeSampleWeights(samples []*Sample) {
	var mean float32
	for _, s := range samples {
		mean += s.Weight / float32(len(samples))
	}

	for _, s := range samples {
		s.Weight /= mean
	}
}
