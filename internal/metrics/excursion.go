package metrics

import (
	"math"

	"github.com/san-kum/rdsim/internal/dynamo"
)

// Excursion tracks how far any concentration strays outside [0, 1] during a
// run. The integrator never clamps, so a non-zero value flags a step size or
// rate combination that is numerically unstable.
type Excursion struct {
	name    string
	max     float64
	samples int
}

func NewExcursion() *Excursion {
	return &Excursion{
		name: "excursion",
	}
}

func (e *Excursion) Name() string {
	return e.name
}

func (e *Excursion) Observe(step int, f *dynamo.Field) {
	e.samples++
	e.scan(f.U)
	e.scan(f.V)
}

func (e *Excursion) scan(plane []float32) {
	for _, v := range plane {
		d := 0.0
		switch {
		case v < 0:
			d = -float64(v)
		case v > 1:
			d = float64(v) - 1
		case v != v:
			d = math.Inf(1)
		}
		if d > e.max {
			e.max = d
		}
	}
}

func (e *Excursion) Value() float64 {
	return e.max
}

func (e *Excursion) Reset() {
	e.max = 0
	e.samples = 0
}
