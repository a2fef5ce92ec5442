package dynamo

import "fmt"

// Kernel is a small correlation stencil centred at (Rows/2, Cols/2). Row
// offsets run along x and column offsets along y.
type Kernel struct {
	Rows, Cols int
	W          []float64
}

// DefaultKernel is the 3x3 Laplacian with diagonal coupling from
// https://www.karlsims.com/rd.html.
func DefaultKernel() *Kernel {
	return &Kernel{
		Rows: 3,
		Cols: 3,
		W: []float64{
			0.05, 0.2, 0.05,
			0.2, -1, 0.2,
			0.05, 0.2, 0.05,
		},
	}
}

// NewKernel copies a rectangular, odd-sized weight matrix.
func NewKernel(rows [][]float64) (*Kernel, error) {
	if len(rows) == 0 || len(rows[0]) == 0 {
		return nil, fmt.Errorf("%w: empty kernel", ErrInvalidInput)
	}
	r, c := len(rows), len(rows[0])
	if r%2 == 0 || c%2 == 0 {
		return nil, fmt.Errorf("%w: kernel %dx%d must have odd sides", ErrInvalidInput, r, c)
	}
	k := &Kernel{Rows: r, Cols: c, W: make([]float64, 0, r*c)}
	for i, row := range rows {
		if len(row) != c {
			return nil, fmt.Errorf("%w: kernel row %d has %d columns, want %d", ErrInvalidInput, i, len(row), c)
		}
		k.W = append(k.W, row...)
	}
	return k, nil
}

func (k *Kernel) At(i, j int) float64 { return k.W[i*k.Cols+j] }

// Center returns the row and column of the stencil origin.
func (k *Kernel) Center() (int, int) { return k.Rows / 2, k.Cols / 2 }

func (k *Kernel) Sum() float64 {
	s := 0.0
	for _, w := range k.W {
		s += w
	}
	return s
}

func (k *Kernel) Clone() *Kernel {
	c := &Kernel{Rows: k.Rows, Cols: k.Cols, W: make([]float64, len(k.W))}
	copy(c.W, k.W)
	return c
}

// Matrix returns the weights as rows, the shape NewKernel accepts.
func (k *Kernel) Matrix() [][]float64 {
	out := make([][]float64, k.Rows)
	for i := range out {
		out[i] = make([]float64, k.Cols)
		copy(out[i], k.W[i*k.Cols:(i+1)*k.Cols])
	}
	return out
}

func (k *Kernel) validate() error {
	if k.Rows <= 0 || k.Cols <= 0 || k.Rows%2 == 0 || k.Cols%2 == 0 {
		return fmt.Errorf("%w: kernel %dx%d", ErrInvalidInput, k.Rows, k.Cols)
	}
	if len(k.W) != k.Rows*k.Cols {
		return fmt.Errorf("%w: kernel has %d weights, want %d", ErrInvalidInput, len(k.W), k.Rows*k.Cols)
	}
	return nil
}
