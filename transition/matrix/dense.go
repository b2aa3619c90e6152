// Package matrix provides the small dense-matrix primitive the transition
// package's 3-opt local search needs to hold pairwise transition costs
// between cycle positions. Row-major, with bounds-checked,
// error-returning accessors.
package matrix

import "fmt"

// Dense is a row-major dense matrix of float64 entries.
type Dense struct {
	rows, cols int
	data       []float64
}

// NewDense allocates a zero-valued rows x cols matrix.
func NewDense(rows, cols int) *Dense {
	return &Dense{rows: rows, cols: cols, data: make([]float64, rows*cols)}
}

// Rows returns the row count.
func (d *Dense) Rows() int { return d.rows }

// Cols returns the column count.
func (d *Dense) Cols() int { return d.cols }

// At returns the entry at (r,c), or an error if out of bounds.
func (d *Dense) At(r, c int) (float64, error) {
	if r < 0 || r >= d.rows || c < 0 || c >= d.cols {
		return 0, fmt.Errorf("matrix: index (%d,%d) out of bounds for %dx%d matrix", r, c, d.rows, d.cols)
	}
	return d.data[r*d.cols+c], nil
}

// Set writes the entry at (r,c), or returns an error if out of bounds.
func (d *Dense) Set(r, c int, v float64) error {
	if r < 0 || r >= d.rows || c < 0 || c >= d.cols {
		return fmt.Errorf("matrix: index (%d,%d) out of bounds for %dx%d matrix", r, c, d.rows, d.cols)
	}
	d.data[r*d.cols+c] = v
	return nil
}

// Clone returns a deep copy of d.
func (d *Dense) Clone() *Dense {
	cp := &Dense{rows: d.rows, cols: d.cols, data: make([]float64, len(d.data))}
	copy(cp.data, d.data)
	return cp
}
