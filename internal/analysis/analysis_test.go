package analysis

import (
	"context"
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/san-kum/rdsim/internal/dynamo"
	"github.com/san-kum/rdsim/internal/initcond"
)

func TestStats(t *testing.T) {
	f := dynamo.NewField(2, 2)
	copy(f.U, []float32{0, 1, 0, 1})
	copy(f.V, []float32{0.25, 0.25, 0.25, 0.25})

	u := Stats(f, dynamo.U)
	require.InDelta(t, 0.5, u.Mean, 1e-12)
	require.InDelta(t, 0.5, u.Std, 1e-12)
	require.Equal(t, 0.0, u.Min)
	require.Equal(t, 1.0, u.Max)

	v := Stats(f, dynamo.V)
	require.InDelta(t, 0.25, v.Mean, 1e-7)
	require.InDelta(t, 0.0, v.Std, 1e-7)
}

func TestSeriesStats(t *testing.T) {
	ts := dynamo.NewTimeSeries(1, 2, 0.5, 2)
	a, b := dynamo.NewField(1, 2), dynamo.NewField(1, 2)
	copy(b.V, []float32{1, 0})
	ts.Append(0, a)
	ts.Append(10, b)

	stats := SeriesStats(ts)
	require.Len(t, stats, 2)
	require.Equal(t, 10, stats[1].Step)
	require.InDelta(t, 5.0, stats[1].Time, 1e-12)
	require.InDelta(t, 0.5, stats[1].V.Mean, 1e-12)
	require.Equal(t, []float64{0, 0.5}, MeanSeries(ts, dynamo.V))
}

func TestDominantWavelength(t *testing.T) {
	tests := []struct {
		name   string
		w, h   int
		fn     func(x, y int) float64
		expect float64
	}{
		{"stripes along x", 32, 32, func(x, y int) float64 { return math.Sin(2 * math.Pi * float64(x) / 8) }, 8},
		{"stripes along y", 16, 40, func(x, y int) float64 { return math.Cos(2 * math.Pi * float64(y) / 10) }, 10},
		{"uniform", 8, 8, func(x, y int) float64 { return 0.3 }, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := dynamo.NewField(tt.w, tt.h)
			for x := 0; x < tt.w; x++ {
				for y := 0; y < tt.h; y++ {
					f.Set(x, y, dynamo.V, float32(0.5+0.25*tt.fn(x, y)))
				}
			}
			require.InDelta(t, tt.expect, DominantWavelength(f, dynamo.V), 1e-6)
		})
	}
}

func TestRadialProfile(t *testing.T) {
	f := dynamo.NewField(16, 16)
	for x := 0; x < 16; x++ {
		for y := 0; y < 16; y++ {
			f.Set(x, y, dynamo.U, float32(math.Sin(2*math.Pi*float64(x)/4)))
		}
	}
	profile := RadialProfile(Spectrum(f.U, 16, 16))
	require.NotEmpty(t, profile)

	peak := 0
	for r := range profile {
		if profile[r] > profile[peak] {
			peak = r
		}
	}
	require.Equal(t, 4, peak)
}

func TestSpectrumRejectsBadShape(t *testing.T) {
	require.Nil(t, Spectrum(make([]float32, 5), 2, 2))
}

func smallRun() (*dynamo.Field, dynamo.Params) {
	f0, _ := initcond.Generate([]int{20, 20}, "clump", nil)
	p := dynamo.DefaultParams()
	p.Ru, p.Rv, p.F, p.K = 1.0, 0.5, 0.055, 0.062
	p.NSteps, p.SliceStep = 40, 10
	p.Boundary = dynamo.Periodic
	return f0, p
}

func TestFeedScan(t *testing.T) {
	f0, p := smallRun()
	points, err := FeedScan(context.Background(), f0, p, 0.02, 0.06, 5, 2)
	require.NoError(t, err)
	require.Len(t, points, 5)
	require.InDelta(t, 0.02, points[0].F, 1e-12)
	require.InDelta(t, 0.06, points[4].F, 1e-12)
	for i := 1; i < len(points); i++ {
		require.Greater(t, points[i].F, points[i-1].F)
	}

	plot := FeedScanToASCII(points, 20, 5)
	require.Equal(t, 5, strings.Count(plot, "\n"))
	require.Contains(t, plot, "•")

	_, err = FeedScan(context.Background(), f0, p, 0, 1, 0, 1)
	require.True(t, errors.Is(err, dynamo.ErrInvalidParameter))
}

func TestDivergence(t *testing.T) {
	f0, p := smallRun()
	rate, err := Divergence(context.Background(), f0, p, 1e-3)
	require.NoError(t, err)
	require.False(t, math.IsNaN(rate))

	_, err = Divergence(context.Background(), f0, p, 0)
	require.True(t, errors.Is(err, dynamo.ErrInvalidParameter))
}

func TestPhasePortrait(t *testing.T) {
	f0, p := smallRun()
	ts, err := evolve(f0, p)
	require.NoError(t, err)

	portrait := GeneratePhasePortrait(ts)
	require.Len(t, portrait.Points, ts.Len())
	require.InDelta(t, 1.0, portrait.Points[0].X, 1e-6)

	out := PhasePortraitToASCII(portrait, 30, 10)
	require.Equal(t, 10, strings.Count(out, "\n"))
	require.Nil(t, GeneratePhasePortrait(nil))
}
