// Package sweep runs a grid of Gray–Scott rate combinations from one
// initial field and stores the final frame of each run.
package sweep

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/rdsim/internal/config"
	"github.com/san-kum/rdsim/internal/dynamo"
)

// Range is an inclusive linspace.
type Range struct {
	Min float64 `yaml:"min"`
	Max float64 `yaml:"max"`
	N   int     `yaml:"n"`
}

// Linspace returns n evenly spaced values from lo to hi inclusive.
func Linspace(lo, hi float64, n int) []float64 {
	if n <= 0 {
		return nil
	}
	if n == 1 {
		return []float64{lo}
	}
	out := make([]float64, n)
	step := (hi - lo) / float64(n-1)
	for i := range out {
		out[i] = lo + float64(i)*step
	}
	out[n-1] = hi
	return out
}

func (r Range) Values() []float64 { return Linspace(r.Min, r.Max, r.N) }

type Spec struct {
	Base      *config.Config `yaml:"base"`
	Ru        Range          `yaml:"ru"`
	Rv        Range          `yaml:"rv"`
	F         Range          `yaml:"f"`
	K         Range          `yaml:"k"`
	Workers   int            `yaml:"workers"`
	OutDir    string         `yaml:"out_dir"`
	Index     string         `yaml:"index"`
	IndexPath string         `yaml:"index_path"`
	// Resume skips points whose output file already exists.
	Resume bool `yaml:"resume"`
}

// DefaultSpec is a 12^4 grid around the mitosis regime on a 100x100
// periodic clump.
func DefaultSpec() *Spec {
	base := config.DefaultConfig()
	base.Name = "sweep"
	base.Width, base.Height = 100, 100
	base.Init = "clump"
	base.Boundary = "periodic"

	return &Spec{
		Base:    base,
		Ru:      Range{Min: 0.7, Max: 0.9, N: 12},
		Rv:      Range{Min: 0.1, Max: 0.3, N: 12},
		F:       Range{Min: 0.034, Max: 0.046, N: 12},
		K:       Range{Min: 0.061, Max: 0.065, N: 12},
		Workers: 10,
		OutDir:  "database",
		Index:   "memory",
	}
}

// LoadSpec reads a YAML sweep spec on top of DefaultSpec.
func LoadSpec(path string) (*Spec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	spec := DefaultSpec()
	if err := yaml.Unmarshal(data, spec); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return spec, nil
}

func (s *Spec) Validate() error {
	if s.Base == nil {
		return fmt.Errorf("%w: sweep has no base config", dynamo.ErrInvalidInput)
	}
	for name, r := range map[string]Range{"ru": s.Ru, "rv": s.Rv, "f": s.F, "k": s.K} {
		if r.N < 1 {
			return &dynamo.ParamError{Name: name + ".n", Value: r.N, Err: dynamo.ErrInvalidParameter}
		}
	}
	if s.OutDir == "" {
		return fmt.Errorf("%w: sweep has no output directory", dynamo.ErrInvalidInput)
	}
	return nil
}

// Point is one rate combination.
type Point struct {
	Ru, Rv, F, K float64
}

func (p Point) String() string {
	return fmt.Sprintf("ru=%g rv=%g f=%g k=%g", p.Ru, p.Rv, p.F, p.K)
}

// Points is the cartesian product of the ranges, varying k fastest.
func (s *Spec) Points() []Point {
	ru, rv, f, k := s.Ru.Values(), s.Rv.Values(), s.F.Values(), s.K.Values()
	out := make([]Point, 0, len(ru)*len(rv)*len(f)*len(k))
	for _, a := range ru {
		for _, b := range rv {
			for _, c := range f {
				for _, d := range k {
					out = append(out, Point{Ru: a, Rv: b, F: c, K: d})
				}
			}
		}
	}
	return out
}

func formatRate(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// Key identifies a point as "{ru}_{rv}_{f}_{k}" with shortest round-trip
// formatting.
func Key(p Point) string {
	return formatRate(p.Ru) + "_" + formatRate(p.Rv) + "_" + formatRate(p.F) + "_" + formatRate(p.K)
}

func FileName(p Point) string { return Key(p) + ".npy" }
