package dynamo

import "fmt"

// TimeSeries is the decimated output of one run. Frame i is the state after
// Steps[i] updates; frame 0 is always the initial field.
type TimeSeries struct {
	W, H   int
	Dt     float64
	Frames []*Field
	Steps  []int
}

// NewTimeSeries starts a series with room for n frames.
func NewTimeSeries(w, h int, dt float64, n int) *TimeSeries {
	return &TimeSeries{
		W:      w,
		H:      h,
		Dt:     dt,
		Frames: make([]*Field, 0, n),
		Steps:  make([]int, 0, n),
	}
}

// Append adds a frame recorded at the given step.
func (ts *TimeSeries) Append(step int, f *Field) {
	ts.Frames = append(ts.Frames, f)
	ts.Steps = append(ts.Steps, step)
}

func (ts *TimeSeries) Len() int { return len(ts.Frames) }

func (ts *TimeSeries) Frame(i int) *Field { return ts.Frames[i] }

// Final returns the last retained frame.
func (ts *TimeSeries) Final() *Field {
	if len(ts.Frames) == 0 {
		return nil
	}
	return ts.Frames[len(ts.Frames)-1]
}

// Time returns the simulated time of frame i.
func (ts *TimeSeries) Time(i int) float64 { return float64(ts.Steps[i]) * ts.Dt }

// Slice returns the (x, y) plane of one species for one frame without copying.
func (ts *TimeSeries) Slice(frame int, s Species) []float32 {
	return ts.Frames[frame].Plane(s)
}

func (ts *TimeSeries) At(x, y, frame int, s Species) float32 {
	return ts.Frames[frame].At(x, y, s)
}

// Shape reports (W, H, frames, species).
func (ts *TimeSeries) Shape() []int {
	return []int{ts.W, ts.H, len(ts.Frames), NumSpecies}
}

// Dense lays the series out as a C-ordered (W, H, frames, 2) array.
func (ts *TimeSeries) Dense() []float32 {
	n := len(ts.Frames)
	out := make([]float32, ts.W*ts.H*n*NumSpecies)
	for t, f := range ts.Frames {
		for i := range f.U {
			base := (i*n + t) * NumSpecies
			out[base] = f.U[i]
			out[base+1] = f.V[i]
		}
	}
	return out
}

// SeriesFromDense rebuilds a series from a (W, H, frames, 2) array. Step
// indices are assumed evenly spaced by sliceStep.
func SeriesFromDense(data []float32, shape []int, dt float64, sliceStep int) (*TimeSeries, error) {
	if len(shape) != 4 {
		return nil, fmt.Errorf("%w: rank %d, want 4", ErrShape, len(shape))
	}
	w, h, n, s := shape[0], shape[1], shape[2], shape[3]
	if s != NumSpecies {
		return nil, fmt.Errorf("%w: %d species, want %d", ErrShape, s, NumSpecies)
	}
	if w <= 0 || h <= 0 || n <= 0 {
		return nil, fmt.Errorf("%w: shape %v", ErrShape, shape)
	}
	if len(data) != w*h*n*s {
		return nil, fmt.Errorf("%w: %d values for shape %v", ErrShape, len(data), shape)
	}
	if sliceStep < 1 {
		sliceStep = 1
	}
	ts := NewTimeSeries(w, h, dt, n)
	for t := 0; t < n; t++ {
		f := NewField(w, h)
		for i := range f.U {
			base := (i*n + t) * NumSpecies
			f.U[i] = data[base]
			f.V[i] = data[base+1]
		}
		ts.Append(t*sliceStep, f)
	}
	return ts, nil
}
