package discover

import (
	"sync"

	"gonum.org/v1/gonum/mat"
)

// densePool recycles coefficient buffers across concurrent threshold
// evaluations so an ensemble allocates only as many as run at once.
type densePool struct {
	pool       sync.Pool
	rows, cols int
}

func newDensePool(rows, cols int) *densePool {
	return &densePool{
		rows: rows,
		cols: cols,
		pool: sync.Pool{
			New: func() interface{} {
				return mat.NewDense(rows, cols, nil)
			},
		},
	}
}

func (p *densePool) Get() *mat.Dense {
	return p.pool.Get().(*mat.Dense)
}

func (p *densePool) Put(d *mat.Dense) {
	r, c := d.Dims()
	if r == p.rows && c == p.cols {
		d.Zero()
		p.pool.Put(d)
	}
}
