// Package initcond builds starting fields for a run.
package initcond

import (
	"fmt"
	"math/rand/v2"
	"sort"
	"time"

	"github.com/san-kum/rdsim/internal/dynamo"
)

const (
	NoiseMean   = 0.5
	NoiseStdDev = 0.2
)

// Generator fills a zeroed w x h field.
type Generator func(f *dynamo.Field, rng *rand.Rand)

var generators = map[string]Generator{
	"clump": Clump,
	"noise": Noise,
}

// NewRNG returns a deterministic PCG generator for the seed.
func NewRNG(seed int64) *rand.Rand {
	return rand.New(rand.NewPCG(uint64(seed), 0))
}

// Modes lists the named presets accepted by Generate.
func Modes() []string {
	names := make([]string, 0, len(generators))
	for name := range generators {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Generate builds the initial field for dims = (width, height) using a named
// preset. A nil rng is seeded from the clock.
func Generate(dims []int, mode string, rng *rand.Rand) (*dynamo.Field, error) {
	w, h, err := checkDims(dims)
	if err != nil {
		return nil, err
	}
	gen, ok := generators[mode]
	if !ok {
		return nil, fmt.Errorf("%w: initial condition %q (available: %v)", dynamo.ErrUnsupportedMode, mode, Modes())
	}
	if rng == nil {
		rng = NewRNG(time.Now().UnixNano())
	}
	f := dynamo.NewField(w, h)
	gen(f, rng)
	return f, nil
}

func checkDims(dims []int) (int, int, error) {
	if len(dims) != 2 {
		return 0, 0, fmt.Errorf("%w: dims %v, want (width, height)", dynamo.ErrInvalidInput, dims)
	}
	if dims[0] <= 0 || dims[1] <= 0 {
		return 0, 0, fmt.Errorf("%w: dims %v must be positive", dynamo.ErrInvalidInput, dims)
	}
	return dims[0], dims[1], nil
}

// ClumpSide is the side of the seeded square for a grid of the given width.
func ClumpSide(w int) int {
	side := w / 20
	if side < 1 {
		side = 1
	}
	return side
}

// Clump sets U to 1 everywhere and seeds V with a centred square of ones.
func Clump(f *dynamo.Field, _ *rand.Rand) {
	for i := range f.U {
		f.U[i] = 1
		f.V[i] = 0
	}
	side := ClumpSide(f.W)
	x0 := f.W/2 - side/2
	y0 := f.H/2 - side/2
	for x := max(x0, 0); x < min(x0+side, f.W); x++ {
		for y := max(y0, 0); y < min(y0+side, f.H); y++ {
			f.V[f.Index(x, y)] = 1
		}
	}
}

// Noise draws both species from N(0.5, 0.2) clamped to [0, 1].
func Noise(f *dynamo.Field, rng *rand.Rand) {
	for i := range f.U {
		f.U[i] = clamp01(NoiseMean + NoiseStdDev*rng.NormFloat64())
		f.V[i] = clamp01(NoiseMean + NoiseStdDev*rng.NormFloat64())
	}
}

func clamp01(v float64) float32 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return float32(v)
}
