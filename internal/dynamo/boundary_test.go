package dynamo

import (
	"errors"
	"testing"
)

func TestBoundary_MapIndex(t *testing.T) {
	// Extension of a b c d (indices 0..3) two cells to each side.
	tests := []struct {
		mode  Boundary
		left  [2]int // indices for i = -2, -1
		right [2]int // indices for i = 4, 5
	}{
		{FixedZero, [2]int{-1, -1}, [2]int{-1, -1}},
		{Reflect, [2]int{1, 0}, [2]int{3, 2}},
		{NearestEdge, [2]int{0, 0}, [2]int{3, 3}},
		{Mirror, [2]int{2, 1}, [2]int{2, 1}},
		{Periodic, [2]int{2, 3}, [2]int{0, 1}},
	}

	for _, tt := range tests {
		t.Run(tt.mode.String(), func(t *testing.T) {
			got := [2]int{tt.mode.MapIndex(-2, 4), tt.mode.MapIndex(-1, 4)}
			if got != tt.left {
				t.Errorf("left extension = %v, want %v", got, tt.left)
			}
			got = [2]int{tt.mode.MapIndex(4, 4), tt.mode.MapIndex(5, 4)}
			if got != tt.right {
				t.Errorf("right extension = %v, want %v", got, tt.right)
			}
			for i := 0; i < 4; i++ {
				if m := tt.mode.MapIndex(i, 4); m != i {
					t.Errorf("in-range index %d mapped to %d", i, m)
				}
			}
		})
	}
}

func TestBoundary_MapIndexFarOffsets(t *testing.T) {
	for _, b := range []Boundary{Reflect, Mirror, Periodic, NearestEdge} {
		for _, n := range []int{1, 2, 3, 5} {
			for i := -3 * n; i < 4*n; i++ {
				m := b.MapIndex(i, n)
				if m < 0 || m >= n {
					t.Fatalf("%s: MapIndex(%d, %d) = %d out of range", b, i, n, m)
				}
			}
		}
	}
}

func TestParseBoundary(t *testing.T) {
	tests := []struct {
		in   string
		want Boundary
	}{
		{"fixed-zero", FixedZero},
		{"constant", FixedZero},
		{"reflect", Reflect},
		{"nearest", NearestEdge},
		{"nearest-edge", NearestEdge},
		{"mirror", Mirror},
		{"wrap", Periodic},
		{"periodic", Periodic},
	}
	for _, tt := range tests {
		got, err := ParseBoundary(tt.in)
		if err != nil {
			t.Fatalf("ParseBoundary(%q): %v", tt.in, err)
		}
		if got != tt.want {
			t.Errorf("ParseBoundary(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}

	if _, err := ParseBoundary("toroidal"); !errors.Is(err, ErrUnsupportedMode) {
		t.Errorf("expected ErrUnsupportedMode, got %v", err)
	}
}
