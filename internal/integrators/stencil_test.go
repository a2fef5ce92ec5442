package integrators

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/san-kum/rdsim/internal/dynamo"
)

func uniformPlane(n int, v float32) []float32 {
	p := make([]float32, n)
	for i := range p {
		p[i] = v
	}
	return p
}

func randomPlane(n int, seed uint64) []float32 {
	r := rand.New(rand.NewPCG(seed, 0))
	p := make([]float32, n)
	for i := range p {
		p[i] = r.Float32()
	}
	return p
}

func TestUniformFieldHasNoCurvature(t *testing.T) {
	const w, h = 7, 5
	src := uniformPlane(w*h, 0.8)
	dst := make([]float32, w*h)

	for _, b := range []dynamo.Boundary{dynamo.Periodic, dynamo.Reflect, dynamo.NearestEdge, dynamo.Mirror} {
		Convolve(dst, src, w, h, dynamo.DefaultKernel(), b)
		for i, v := range dst {
			if math.Abs(float64(v)) > 1e-6 {
				t.Fatalf("%s: laplacian[%d] = %g, want 0", b, i, v)
			}
		}
	}
}

func TestFixedZeroPullsEdgesDown(t *testing.T) {
	const w, h = 4, 4
	src := uniformPlane(w*h, 1)
	dst := make([]float32, w*h)
	Convolve(dst, src, w, h, dynamo.DefaultKernel(), dynamo.FixedZero)

	// corner misses 3 corners (0.05) and 2 edges (0.2)
	corner := -(3*0.05 + 2*0.2)
	if math.Abs(float64(dst[0])-corner) > 1e-6 {
		t.Errorf("corner = %g, want %g", dst[0], corner)
	}
	centre := dst[1*h+1]
	if math.Abs(float64(centre)) > 1e-6 {
		t.Errorf("interior = %g, want 0", centre)
	}
}

func TestFixedZeroAndPeriodicDifferOnlyNearEdges(t *testing.T) {
	const w, h = 9, 11
	src := randomPlane(w*h, 11)
	zero := make([]float32, w*h)
	wrap := make([]float32, w*h)

	k := dynamo.DefaultKernel()
	Convolve(zero, src, w, h, k, dynamo.FixedZero)
	Convolve(wrap, src, w, h, k, dynamo.Periodic)

	edgeDiffers := false
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			i := x*h + y
			interior := x > 0 && x < w-1 && y > 0 && y < h-1
			if interior && zero[i] != wrap[i] {
				t.Fatalf("interior cell (%d,%d) differs: %g vs %g", x, y, zero[i], wrap[i])
			}
			if !interior && zero[i] != wrap[i] {
				edgeDiffers = true
			}
		}
	}
	if !edgeDiffers {
		t.Error("expected edge cells to differ between boundary modes")
	}
}

func TestConvolveIsCorrelation(t *testing.T) {
	k, err := dynamo.NewKernel([][]float64{
		{1, 2, 3},
		{4, 5, 6},
		{7, 8, 9},
	})
	if err != nil {
		t.Fatal(err)
	}
	src := make([]float32, 9)
	src[1*3+1] = 1
	dst := make([]float32, 9)
	Convolve(dst, src, 3, 3, k, dynamo.FixedZero)

	for x := 0; x < 3; x++ {
		for y := 0; y < 3; y++ {
			want := k.At(2-x, 2-y)
			if float64(dst[x*3+y]) != want {
				t.Errorf("dst(%d,%d) = %g, want %g", x, y, dst[x*3+y], want)
			}
		}
	}
}

func TestBoundaryModesOnSingleRow(t *testing.T) {
	// 1-D kernel along y picks the left neighbour: out[y] = src[y-1].
	k, _ := dynamo.NewKernel([][]float64{{1, 0, 0}})
	src := []float32{1, 2, 3, 4}
	tests := []struct {
		b    dynamo.Boundary
		want float32
	}{
		{dynamo.FixedZero, 0},
		{dynamo.Reflect, 1},
		{dynamo.NearestEdge, 1},
		{dynamo.Mirror, 2},
		{dynamo.Periodic, 4},
	}
	dst := make([]float32, 4)
	for _, tt := range tests {
		Convolve(dst, src, 1, 4, k, tt.b)
		if dst[0] != tt.want {
			t.Errorf("%s: out[0] = %g, want %g", tt.b, dst[0], tt.want)
		}
		if dst[3] != 3 {
			t.Errorf("%s: out[3] = %g, want 3", tt.b, dst[3])
		}
	}
}

func TestKernelLargerThanGrid(t *testing.T) {
	rows := make([][]float64, 5)
	for i := range rows {
		rows[i] = []float64{1, 1, 1, 1, 1}
	}
	k, _ := dynamo.NewKernel(rows)
	src := []float32{1, 2, 3, 4}
	dst := make([]float32, 4)
	Convolve(dst, src, 2, 2, k, dynamo.Periodic)

	// offsets -2..2 fold onto the own row 3 times and the other row twice
	if dst[0] != 9*1+6*2+6*3+4*4 {
		t.Errorf("dst[0] = %g, want 55", dst[0])
	}
	var total float32
	for _, v := range dst {
		total += v
	}
	if total != 25*10 {
		t.Errorf("periodic stencil must count every source cell 25 times, total %g", total)
	}
}
