package initcond

import (
	"fmt"

	"github.com/san-kum/rdsim/internal/dynamo"
)

// Point is a canvas coordinate in pixels.
type Point struct {
	X, Y int
}

// FromStrokes rasterises two sets of drawn points onto the grid. Canvas
// pixels are mapped to cells by integer division by scale. Cells hit only by
// uPoints get U=1, cells hit only by vPoints get V=1 and cells hit by both
// are split evenly. Points that land outside the grid are dropped.
func FromStrokes(dims []int, uPoints, vPoints []Point, scale int) (*dynamo.Field, error) {
	w, h, err := checkDims(dims)
	if err != nil {
		return nil, err
	}
	if scale < 1 {
		return nil, fmt.Errorf("%w: scale %d", dynamo.ErrInvalidInput, scale)
	}

	f := dynamo.NewField(w, h)
	cell := func(p Point) (int, bool) {
		if p.X < 0 || p.Y < 0 {
			return 0, false
		}
		x, y := p.X/scale, p.Y/scale
		if x >= w || y >= h {
			return 0, false
		}
		return f.Index(x, y), true
	}

	for _, p := range uPoints {
		if i, ok := cell(p); ok {
			f.U[i] = 1
		}
	}
	for _, p := range vPoints {
		i, ok := cell(p)
		if !ok {
			continue
		}
		if f.U[i] != 0 {
			f.U[i] = 0.5
			f.V[i] = 0.5
		} else {
			f.V[i] = 1
		}
	}
	return f, nil
}
