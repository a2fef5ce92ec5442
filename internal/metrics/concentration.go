package metrics

import (
	"gonum.org/v1/gonum/floats"

	"github.com/san-kum/rdsim/internal/dynamo"
)

// MeanV is the mean V concentration of the last observed state.
type MeanV struct {
	name string
	last float64
	buf  []float64
}

func NewMeanV() *MeanV { return &MeanV{name: "mean_v"} }

func (m *MeanV) Name() string { return m.name }

func (m *MeanV) Observe(step int, f *dynamo.Field) {
	m.last = m.mean(f.V)
}

func (m *MeanV) Value() float64 { return m.last }

func (m *MeanV) Reset() { m.last = 0 }

func (m *MeanV) mean(plane []float32) float64 {
	if len(plane) == 0 {
		return 0
	}
	if cap(m.buf) < len(plane) {
		m.buf = make([]float64, len(plane))
	}
	x := m.buf[:len(plane)]
	for i, v := range plane {
		x[i] = float64(v)
	}
	return floats.Sum(x) / float64(len(x))
}
