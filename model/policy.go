// Package model implements the training-data and inference layers
// around the observation encoder: samples collected for belief
// training, their export as .npz and Parquet batches, and an ONNX
// policy network that predicts a distribution over move UIDs from the
// encoded observation.
package model

import (
	"expvar"
	"os"
	"sync"

	"github.com/golang/glog"
	"github.com/hashicorp/golang-lru"
	"github.com/pkg/errors"
	ort "github.com/yalue/onnxruntime_go"

	"github.com/timpalpant/hanabi"
	"github.com/timpalpant/hanabi/encoder"
	"github.com/timpalpant/hanabi/internal/f32"
)

const maxPredictionBatchSize = 4096

var (
	samplesPredicted = expvar.NewInt("num_predicted_samples")
	batchesPredicted = expvar.NewInt("num_predicted_batches")
)

var (
	ortInitOnce sync.Once
	ortInitErr  error
)

var reqPool = sync.Pool{
	New: func() interface{} {
		return &predictionRequest{
			resultCh: make(chan []float32, 1),
		}
	},
}

// Policy evaluates a trained ONNX policy network over encoded
// observations. Predictions may be requested from many goroutines
// concurrently; a background handler batches pending requests into
// single session runs.
type Policy struct {
	game    *hanabi.Game
	enc     *encoder.Encoder
	session *ort.DynamicAdvancedSession
	reqCh   chan *predictionRequest
}

// LoadPolicy loads the ONNX network at the given path. The runtime
// shared library is located via ORT_SHARED_LIBRARY_PATH if set.
func LoadPolicy(game *hanabi.Game, modelPath string) (*Policy, error) {
	ortInitOnce.Do(func() {
		if p := os.Getenv("ORT_SHARED_LIBRARY_PATH"); p != "" {
			ort.SetSharedLibraryPath(p)
		}
		ortInitErr = ort.InitializeEnvironment()
	})
	if ortInitErr != nil {
		return nil, errors.Wrap(ortInitErr, "initializing onnxruntime")
	}

	options, err := ort.NewSessionOptions()
	if err != nil {
		return nil, err
	}
	defer options.Destroy()
	// Keep the session single-threaded; throughput comes from batching.
	options.SetIntraOpNumThreads(1)
	options.SetInterOpNumThreads(1)

	session, err := ort.NewDynamicAdvancedSession(modelPath,
		[]string{"x"}, []string{"policy"}, options)
	if err != nil {
		return nil, errors.Wrapf(err, "loading %v", modelPath)
	}

	p := &Policy{
		game:    game,
		enc:     encoder.NewEncoder(game),
		session: session,
		reqCh:   make(chan *predictionRequest, 1),
	}
	go p.bgPredictionHandler()
	return p, nil
}

// Predict returns the network's distribution over the game's move UIDs
// for the given observation.
func (p *Policy) Predict(obs *hanabi.Observation) []float32 {
	req := reqPool.Get().(*predictionRequest)
	req.x = p.enc.Encode(obs, false)

	p.reqCh <- req
	prediction := <-req.resultCh
	reqPool.Put(req)

	glog.V(3).Infof("Predicted policy: %v", prediction)
	return normalizePolicy(prediction)
}

func (p *Policy) Close() {
	close(p.reqCh)
	// TODO: Wait for final batch, if there is one.
	p.session.Destroy()
}

// normalizePolicy clips negative logits and renormalizes in place,
// falling back to uniform if no mass remains.
func normalizePolicy(prediction []float32) []float32 {
	makePositive(prediction)
	total := f32.Sum(prediction)

	if total > 0 {
		for i := range prediction {
			prediction[i] /= total
		}
	} else { // Uniform probability.
		for i := range prediction {
			prediction[i] = 1.0 / float32(len(prediction))
		}
	}

	return prediction
}

func makePositive(v []float32) {
	for i := range v {
		if v[i] < 0 {
			v[i] = 0.0
		}
	}
}

type predictionRequest struct {
	x        []float32
	resultCh chan []float32
}

// Handles prediction requests, attempting to batch all pending requests.
func (p *Policy) bgPredictionHandler() {
	// No buffer here because we are collecting batches and we want the batch to be as
	// large as possible until we are ready to process it.
	buildCh := make(chan []*predictionRequest)
	defer close(buildCh)
	go p.handleBatchBuilding(buildCh)

	for {
		// Wait for first request so we know we have at least one.
		req, ok := <-p.reqCh
		if !ok {
			return
		}

		// Drain any additional requests as long as we're waiting for a build spot.
		batch := []*predictionRequest{req}
	Loop:
		for {
			select {
			case req, ok := <-p.reqCh:
				if !ok {
					buildCh <- batch
					return
				}

				batch = append(batch, req)
				if len(batch) >= maxPredictionBatchSize {
					buildCh <- batch
					break Loop
				}
			case buildCh <- batch:
				break Loop
			}
		}
	}
}

func (p *Policy) handleBatchBuilding(batchCh chan []*predictionRequest) {
	outputCh := make(chan *batchPredictionRequest, 1)
	defer close(outputCh)
	go p.handleBatchPredictions(outputCh)

	shape := p.enc.Shape()
	for batch := range batchCh {
		x := pool.alloc(len(batch) * shape)
		for i, req := range batch {
			copy(x[i*shape:(i+1)*shape], req.x)
		}

		input, err := ort.NewTensor(ort.NewShape(int64(len(batch)), int64(shape)), x)
		if err != nil {
			glog.Fatal(err)
		}

		output, err := ort.NewEmptyTensor[float32](
			ort.NewShape(int64(len(batch)), int64(p.game.MaxMoves())))
		if err != nil {
			glog.Fatal(err)
		}

		outputCh <- &batchPredictionRequest{
			x:      input,
			policy: output,
			buf:    x,
			batch:  batch,
		}
	}
}

type batchPredictionRequest struct {
	x      *ort.Tensor[float32]
	policy *ort.Tensor[float32]
	buf    []float32
	batch  []*predictionRequest
}

func (p *Policy) handleBatchPredictions(reqCh chan *batchPredictionRequest) {
	nOut := p.game.MaxMoves()
	for req := range reqCh {
		if err := p.session.Run([]ort.Value{req.x}, []ort.Value{req.policy}); err != nil {
			glog.Fatal(err)
		}

		data := req.policy.GetData()
		for i, r := range req.batch {
			result := make([]float32, nOut)
			copy(result, data[i*nOut:(i+1)*nOut])
			r.resultCh <- result
		}

		samplesPredicted.Add(int64(len(req.batch)))
		batchesPredicted.Add(1)

		req.x.Destroy()
		req.policy.Destroy()
		pool.free(req.buf)
	}
}

var (
	cacheHits    = expvar.NewInt("predictions/cache_hits")
	cacheMisses  = expvar.NewInt("predictions/cache_misses")
	cacheHitRate = expvar.NewFloat("predictions/cache_hit_rate")
	cacheSize    = expvar.NewInt("predictions/cache_size")
)

// PredictorPolicy memoizes network predictions for repeated
// observations behind an LRU cache keyed by Observation.Key.
type PredictorPolicy struct {
	model     *Policy
	cache     *lru.Cache
	cacheSize int
}

func NewPredictorPolicy(model *Policy, cacheSize int) *PredictorPolicy {
	cache, err := lru.New(cacheSize)
	if err != nil {
		panic(err)
	}

	return &PredictorPolicy{
		model:     model,
		cache:     cache,
		cacheSize: cacheSize,
	}
}

// GetPolicy returns the distribution over move UIDs for obs,
// consulting the cache first.
func (pp *PredictorPolicy) GetPolicy(obs *hanabi.Observation) []float32 {
	key := obs.Key()
	cached, ok := pp.cache.Get(key)
	if ok {
		cacheHits.Add(1)
		cacheHitRate.Set(float64(cacheHits.Value()) / float64(cacheHits.Value()+cacheMisses.Value()))
		return cached.([]float32)
	}

	cacheMisses.Add(1)
	cacheHitRate.Set(float64(cacheHits.Value()) / float64(cacheHits.Value()+cacheMisses.Value()))
	p := pp.model.Predict(obs)
	pp.cache.Add(key, p)
	cacheSize.Set(int64(pp.cache.Len()))
	return p
}

func (pp *PredictorPolicy) Close() {
	pp.model.Close()
}
