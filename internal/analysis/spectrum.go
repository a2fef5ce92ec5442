package analysis

import (
	"math"
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"

	"github.com/san-kum/rdsim/internal/dynamo"
)

// Spectrum returns the 2D power spectrum of a w x h plane (x-major) with its
// mean removed, indexed [kx][ky].
func Spectrum(plane []float32, w, h int) [][]float64 {
	if w*h == 0 || len(plane) != w*h {
		return nil
	}
	var mean float64
	for _, v := range plane {
		mean += float64(v)
	}
	mean /= float64(len(plane))

	grid := make([][]float64, w)
	for x := range grid {
		grid[x] = make([]float64, h)
		for y := range grid[x] {
			grid[x][y] = float64(plane[x*h+y]) - mean
		}
	}

	coeffs := fft.FFT2Real(grid)
	power := make([][]float64, w)
	for x := range power {
		power[x] = make([]float64, h)
		for y := range power[x] {
			a := cmplx.Abs(coeffs[x][y])
			power[x][y] = a * a
		}
	}
	return power
}

// signedFreq folds DFT bin k of an n-point transform to [-n/2, n/2].
func signedFreq(k, n int) int {
	if k > n/2 {
		return k - n
	}
	return k
}

// DominantWavelength returns the spacing in cells of the strongest spatial
// mode of species s, or 0 for a uniform field.
func DominantWavelength(f *dynamo.Field, s dynamo.Species) float64 {
	power := Spectrum(f.Plane(s), f.W, f.H)
	if power == nil {
		return 0
	}

	best, bx, by := 0.0, 0, 0
	for x := range power {
		for y := range power[x] {
			if x == 0 && y == 0 {
				continue
			}
			if power[x][y] > best*(1+1e-9) {
				best, bx, by = power[x][y], x, y
			}
		}
	}
	if best < 1e-12 {
		return 0
	}

	fx := float64(signedFreq(bx, f.W)) / float64(f.W)
	fy := float64(signedFreq(by, f.H)) / float64(f.H)
	return 1 / math.Hypot(fx, fy)
}

// RadialProfile averages the power spectrum over rings of integer radius in
// frequency-bin units. Index 0 is the mean-removed DC term.
func RadialProfile(power [][]float64) []float64 {
	w := len(power)
	if w == 0 {
		return nil
	}
	h := len(power[0])
	n := int(math.Hypot(float64(w/2), float64(h/2))) + 1
	sum := make([]float64, n)
	count := make([]int, n)
	for x := range power {
		for y := range power[x] {
			r := int(math.Round(math.Hypot(float64(signedFreq(x, w)), float64(signedFreq(y, h)))))
			if r >= n {
				continue
			}
			sum[r] += power[x][y]
			count[r]++
		}
	}
	for i := range sum {
		if count[i] > 0 {
			sum[i] /= float64(count[i])
		}
	}
	return sum
}
