package dynamo

import "fmt"

// Boundary decides what the stencil reads outside the grid. For a row
// a b c d the modes extend it as:
//
//	FixedZero    0 0 | a b c d | 0 0
//	Reflect      b a | a b c d | d c
//	NearestEdge  a a | a b c d | d d
//	Mirror       c b | a b c d | c b
//	Periodic     c d | a b c d | a b
type Boundary int

const (
	FixedZero Boundary = iota
	Reflect
	NearestEdge
	Mirror
	Periodic
)

var boundaryNames = map[Boundary]string{
	FixedZero:   "fixed-zero",
	Reflect:     "reflect",
	NearestEdge: "nearest-edge",
	Mirror:      "mirror",
	Periodic:    "periodic",
}

var boundaryAliases = map[string]Boundary{
	"fixed-zero":   FixedZero,
	"constant":     FixedZero,
	"zero":         FixedZero,
	"reflect":      Reflect,
	"nearest-edge": NearestEdge,
	"nearest":      NearestEdge,
	"mirror":       Mirror,
	"periodic":     Periodic,
	"wrap":         Periodic,
}

func (b Boundary) String() string {
	if s, ok := boundaryNames[b]; ok {
		return s
	}
	return fmt.Sprintf("boundary(%d)", int(b))
}

// Valid reports whether b is one of the known modes.
func (b Boundary) Valid() bool {
	_, ok := boundaryNames[b]
	return ok
}

// ParseBoundary accepts the canonical names and the scipy.ndimage aliases.
func ParseBoundary(s string) (Boundary, error) {
	b, ok := boundaryAliases[s]
	if !ok {
		return 0, fmt.Errorf("%w: boundary %q", ErrUnsupportedMode, s)
	}
	return b, nil
}

// BoundaryNames lists the canonical mode names.
func BoundaryNames() []string {
	return []string{"fixed-zero", "reflect", "nearest-edge", "mirror", "periodic"}
}

// MapIndex folds a possibly out-of-range index i into [0, n) according to b.
// It returns -1 when the cell reads as zero.
func (b Boundary) MapIndex(i, n int) int {
	if i >= 0 && i < n {
		return i
	}
	switch b {
	case Reflect:
		period := 2 * n
		m := ((i % period) + period) % period
		if m >= n {
			m = period - 1 - m
		}
		return m
	case NearestEdge:
		if i < 0 {
			return 0
		}
		return n - 1
	case Mirror:
		if n == 1 {
			return 0
		}
		period := 2*n - 2
		m := ((i % period) + period) % period
		if m >= n {
			m = period - m
		}
		return m
	case Periodic:
		return ((i % n) + n) % n
	}
	return -1
}
