package dynamo

import "fmt"

// Species selects one of the two reactants.
type Species int

const (
	U Species = iota
	V
)

// NumSpecies is the number of reactants carried by a Field.
const NumSpecies = 2

func (s Species) String() string {
	switch s {
	case U:
		return "u"
	case V:
		return "v"
	}
	return fmt.Sprintf("species(%d)", int(s))
}

// ParseSpecies accepts "u"/"v" or "0"/"1".
func ParseSpecies(s string) (Species, error) {
	switch s {
	case "u", "U", "0":
		return U, nil
	case "v", "V", "1":
		return V, nil
	}
	return 0, fmt.Errorf("%w: species %q", ErrInvalidInput, s)
}

// Field holds the concentrations of both species on a W x H grid. Each plane
// is stored x-major: the value for (x, y) lives at index x*H + y.
type Field struct {
	W, H int
	U    []float32
	V    []float32
}

// NewField allocates a zeroed field.
func NewField(w, h int) *Field {
	return &Field{W: w, H: h, U: make([]float32, w*h), V: make([]float32, w*h)}
}

// Index returns the plane offset of (x, y).
func (f *Field) Index(x, y int) int { return x*f.H + y }

// Plane returns the backing slice for a species.
func (f *Field) Plane(s Species) []float32 {
	if s == V {
		return f.V
	}
	return f.U
}

func (f *Field) At(x, y int, s Species) float32 {
	return f.Plane(s)[x*f.H+y]
}

func (f *Field) Set(x, y int, s Species, v float32) {
	f.Plane(s)[x*f.H+y] = v
}

// Shape reports (W, H, species).
func (f *Field) Shape() [3]int { return [3]int{f.W, f.H, NumSpecies} }

func (f *Field) Clone() *Field {
	c := &Field{W: f.W, H: f.H, U: make([]float32, len(f.U)), V: make([]float32, len(f.V))}
	copy(c.U, f.U)
	copy(c.V, f.V)
	return c
}

// Validate checks that both planes match the declared grid size.
func (f *Field) Validate() error {
	if f == nil {
		return fmt.Errorf("%w: nil field", ErrShape)
	}
	if f.W <= 0 || f.H <= 0 {
		return fmt.Errorf("%w: grid %dx%d", ErrShape, f.W, f.H)
	}
	n := f.W * f.H
	if len(f.U) != n || len(f.V) != n {
		return fmt.Errorf("%w: planes %d/%d, want %d", ErrShape, len(f.U), len(f.V), n)
	}
	return nil
}

// Dense returns the field as a C-ordered (W, H, 2) array.
func (f *Field) Dense() []float32 {
	out := make([]float32, len(f.U)*NumSpecies)
	for i := range f.U {
		out[2*i] = f.U[i]
		out[2*i+1] = f.V[i]
	}
	return out
}

// FromDense builds a field from a C-ordered (W, H, 2) array.
func FromDense(data []float32, shape []int) (*Field, error) {
	if len(shape) != 3 {
		return nil, fmt.Errorf("%w: rank %d, want 3", ErrShape, len(shape))
	}
	if shape[2] != NumSpecies {
		return nil, fmt.Errorf("%w: %d species, want %d", ErrShape, shape[2], NumSpecies)
	}
	w, h := shape[0], shape[1]
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("%w: grid %dx%d", ErrShape, w, h)
	}
	if len(data) != w*h*NumSpecies {
		return nil, fmt.Errorf("%w: %d values for shape %v", ErrShape, len(data), shape)
	}
	f := NewField(w, h)
	for i := range f.U {
		f.U[i] = data[2*i]
		f.V[i] = data[2*i+1]
	}
	return f, nil
}
