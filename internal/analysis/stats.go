package analysis

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/san-kum/rdsim/internal/dynamo"
)

// Summary describes one species plane.
type Summary struct {
	Mean float64 `json:"mean"`
	Std  float64 `json:"std"`
	Min  float64 `json:"min"`
	Max  float64 `json:"max"`
}

// FrameStats summarises both species of a retained frame.
type FrameStats struct {
	Step int     `json:"step"`
	Time float64 `json:"time"`
	U    Summary `json:"u"`
	V    Summary `json:"v"`
}

func toFloat64(plane []float32) []float64 {
	out := make([]float64, len(plane))
	for i, v := range plane {
		out[i] = float64(v)
	}
	return out
}

func summarize(plane []float32) Summary {
	if len(plane) == 0 {
		return Summary{}
	}
	x := toFloat64(plane)
	mean, std := stat.PopMeanStdDev(x, nil)
	return Summary{
		Mean: mean,
		Std:  std,
		Min:  floats.Min(x),
		Max:  floats.Max(x),
	}
}

// Stats summarises one species of f. Std is the population deviation.
func Stats(f *dynamo.Field, s dynamo.Species) Summary {
	return summarize(f.Plane(s))
}

func SeriesStats(ts *dynamo.TimeSeries) []FrameStats {
	out := make([]FrameStats, ts.Len())
	for i := range out {
		f := ts.Frame(i)
		out[i] = FrameStats{
			Step: ts.Steps[i],
			Time: ts.Time(i),
			U:    Stats(f, dynamo.U),
			V:    Stats(f, dynamo.V),
		}
	}
	return out
}

// MeanSeries returns the mean of species s for every retained frame.
func MeanSeries(ts *dynamo.TimeSeries, s dynamo.Species) []float64 {
	out := make([]float64, ts.Len())
	for i := range out {
		out[i] = floats.Sum(toFloat64(ts.Slice(i, s))) / float64(ts.W*ts.H)
	}
	return out
}
