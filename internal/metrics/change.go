package metrics

import (
	"math"

	"github.com/san-kum/rdsim/internal/dynamo"
)

// Change is the largest per-cell |dV| between the last two observed states.
// Values near zero mean the pattern has settled.
type Change struct {
	name    string
	prev    []float32
	last    float64
	samples int
}

func NewChange() *Change {
	return &Change{name: "change"}
}

func (c *Change) Name() string { return c.name }

func (c *Change) Observe(step int, f *dynamo.Field) {
	if len(c.prev) != len(f.V) {
		c.prev = make([]float32, len(f.V))
		c.samples = 0
	}
	if c.samples > 0 {
		c.last = 0
		for i, v := range f.V {
			c.last = math.Max(c.last, math.Abs(float64(v-c.prev[i])))
		}
	}
	copy(c.prev, f.V)
	c.samples++
}

func (c *Change) Value() float64 { return c.last }

func (c *Change) Reset() {
	c.last = 0
	c.samples = 0
}
