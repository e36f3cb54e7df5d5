package model

import (
	"sync"
)

// pool recycles batch input buffers between the building and prediction
// stages of the background pipeline.
var pool = &floatSlicePool{}

type floatSlicePool struct {
	mx   sync.Mutex
	pool [][]float32
}

func (p *floatSlicePool) alloc(n int) []float32 {
	p.mx.Lock()

	if len(p.pool) > 0 {
		m := len(p.pool)
		next := p.pool[m-1]
		p.pool = p.pool[:m-1]
		p.mx.Unlock()
		return append(next, make([]float32, n)...)
	}

	p.mx.Unlock()
	return make([]float32, n)
}

func (p *floatSlicePool) free(s []float32) {
	p.mx.Lock()
	if cap(s) > 0 {
		p.pool = append(p.pool, s[:0])
	}
	p.mx.Unlock()
}
