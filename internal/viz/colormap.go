package viz

import (
	"fmt"
	"image/color"
	"math"
	"sort"

	"github.com/mazznoer/colorgrad"

	"github.com/san-kum/rdsim/internal/dynamo"
)

const paletteSize = 256

var gradients = map[string]func() colorgrad.Gradient{
	"inferno": colorgrad.Inferno,
	"viridis": colorgrad.Viridis,
	"magma":   colorgrad.Magma,
	"plasma":  colorgrad.Plasma,
	"turbo":   colorgrad.Turbo,
}

// DefaultColormap is used when no name is given.
const DefaultColormap = "inferno"

// Colormap maps a concentration in [Min, Max] onto a 256 entry palette.
// Values outside the range saturate at the ends.
type Colormap struct {
	Name     string
	Min, Max float64
	palette  color.Palette
}

func ColormapNames() []string {
	names := make([]string, 0, len(gradients))
	for name := range gradients {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// NewColormap builds a colormap over [0, 1].
func NewColormap(name string) (*Colormap, error) {
	if name == "" {
		name = DefaultColormap
	}
	grad, ok := gradients[name]
	if !ok {
		return nil, fmt.Errorf("%w: colormap %q (available: %v)", dynamo.ErrUnsupportedMode, name, ColormapNames())
	}

	cm := &Colormap{Name: name, Min: 0, Max: 1, palette: make(color.Palette, paletteSize)}
	for i, c := range grad().Colors(paletteSize) {
		cm.palette[i] = color.RGBAModel.Convert(c)
	}
	return cm, nil
}

// WithRange returns a copy of cm spanning [lo, hi].
func (cm *Colormap) WithRange(lo, hi float64) *Colormap {
	out := *cm
	out.Min, out.Max = lo, hi
	return &out
}

// AutoRange returns a copy of cm spanning the finite values of planes.
// NaN and infinite cells are skipped so a diverged cell cannot flatten the
// rest of the frame. Without finite values the range is [0, 1].
func (cm *Colormap) AutoRange(planes ...[]float32) *Colormap {
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, plane := range planes {
		for _, v := range plane {
			x := float64(v)
			if math.IsNaN(x) || math.IsInf(x, 0) {
				continue
			}
			lo = math.Min(lo, x)
			hi = math.Max(hi, x)
		}
	}
	if lo > hi {
		return cm.WithRange(0, 1)
	}
	return cm.WithRange(lo, hi)
}

func (cm *Colormap) Palette() color.Palette { return cm.palette }

// Index returns the palette index for v.
func (cm *Colormap) Index(v float64) uint8 {
	span := cm.Max - cm.Min
	if span <= 0 || math.IsNaN(v) {
		return 0
	}
	t := (v - cm.Min) / span
	switch {
	case t <= 0:
		return 0
	case t >= 1:
		return paletteSize - 1
	}
	return uint8(t * (paletteSize - 1))
}

func (cm *Colormap) At(v float64) color.RGBA {
	return cm.palette[cm.Index(v)].(color.RGBA)
}
