package integrators

import "github.com/san-kum/rdsim/internal/dynamo"

// Stencil correlates a w x h plane with a kernel. Boundary handling is
// resolved once into per-offset index maps so the inner loop only does
// lookups and multiply-adds. Apply uses scratch owned by the Stencil; use
// ApplyCols with per-goroutine scratch to share one Stencil.
type Stencil struct {
	w, h   int
	kernel *dynamo.Kernel
	xmap   [][]int
	ymap   [][]int
	acc    []float64
}

func NewStencil(w, h int, k *dynamo.Kernel, b dynamo.Boundary) *Stencil {
	if k == nil {
		k = dynamo.DefaultKernel()
	}
	cx, cy := k.Center()
	s := &Stencil{
		w:      w,
		h:      h,
		kernel: k,
		xmap:   make([][]int, k.Rows),
		ymap:   make([][]int, k.Cols),
		acc:    make([]float64, h),
	}
	for i := range s.xmap {
		s.xmap[i] = offsetMap(i-cx, w, b)
	}
	for j := range s.ymap {
		s.ymap[j] = offsetMap(j-cy, h, b)
	}
	return s
}

func offsetMap(off, n int, b dynamo.Boundary) []int {
	m := make([]int, n)
	for i := range m {
		m[i] = b.MapIndex(i+off, n)
	}
	return m
}

// Apply writes the correlation of src with the kernel into dst. Cells mapped
// to -1 read as zero.
func (s *Stencil) Apply(dst, src []float32) {
	s.ApplyCols(dst, src, 0, s.w, s.acc)
}

// ApplyCols is Apply restricted to columns [lo, hi). acc is scratch of
// length h; concurrent calls need their own acc and disjoint column ranges.
func (s *Stencil) ApplyCols(dst, src []float32, lo, hi int, acc []float64) {
	h, k := s.h, s.kernel
	for x := lo; x < hi; x++ {
		for y := range acc {
			acc[y] = 0
		}
		for i := 0; i < k.Rows; i++ {
			xi := s.xmap[i][x]
			if xi < 0 {
				continue
			}
			row := src[xi*h : (xi+1)*h]
			for j := 0; j < k.Cols; j++ {
				wt := k.W[i*k.Cols+j]
				if wt == 0 {
					continue
				}
				ym := s.ymap[j]
				for y, yj := range ym {
					if yj >= 0 {
						acc[y] += wt * float64(row[yj])
					}
				}
			}
		}
		out := dst[x*h : (x+1)*h]
		for y, v := range acc {
			out[y] = float32(v)
		}
	}
}

// Convolve is a one-shot helper around Stencil.Apply.
func Convolve(dst, src []float32, w, h int, k *dynamo.Kernel, b dynamo.Boundary) {
	NewStencil(w, h, k, b).Apply(dst, src)
}
