package dynamo

import "fmt"

const (
	DefaultDt        = 1.0
	DefaultNSteps    = 5000
	DefaultSliceStep = 50
)

// ProgressFunc receives the number of updates applied so far and the total
// number the run will apply.
type ProgressFunc func(step, total int)

// Params holds the physical and numeric inputs of one run. Params are read
// only during a run; copy them before handing them to another goroutine.
type Params struct {
	Ru, Rv float64
	F, K   float64
	Dt     float64

	NSteps    int
	SliceStep int

	Boundary Boundary
	Kernel   *Kernel

	// ProgressEvery is the cadence of Progress calls in steps; 0 disables.
	ProgressEvery int
	Progress      ProgressFunc
}

// DefaultParams mirrors the reference solver defaults. Rates are left at
// zero and must be chosen by the caller.
func DefaultParams() Params {
	return Params{
		Dt:        DefaultDt,
		NSteps:    DefaultNSteps,
		SliceStep: DefaultSliceStep,
		Boundary:  FixedZero,
		Kernel:    DefaultKernel(),
	}
}

// Validate fails fast on configurations the integrator cannot run.
func (p Params) Validate() error {
	if p.NSteps <= 0 {
		return &ParamError{Name: "nsteps", Value: p.NSteps, Err: ErrInvalidParameter}
	}
	if p.SliceStep <= 0 {
		return &ParamError{Name: "slicestep", Value: p.SliceStep, Err: ErrInvalidParameter}
	}
	if p.ProgressEvery < 0 {
		return &ParamError{Name: "progress_every", Value: p.ProgressEvery, Err: ErrInvalidParameter}
	}
	if !p.Boundary.Valid() {
		return fmt.Errorf("%w: boundary %d", ErrUnsupportedMode, int(p.Boundary))
	}
	if p.Kernel != nil {
		if err := p.Kernel.validate(); err != nil {
			return err
		}
	}
	return nil
}

// Warnings lists values outside the ranges where Gray–Scott patterns are
// usually found. They are advisory only.
func (p Params) Warnings() []string {
	var out []string
	check := func(name string, v, lo, hi float64) {
		if v < lo || v > hi {
			out = append(out, fmt.Sprintf("%s=%g outside [%g, %g]", name, v, lo, hi))
		}
	}
	check("ru", p.Ru, 0, 1)
	check("rv", p.Rv, 0, 1)
	check("f", p.F, 0, 0.1)
	check("k", p.K, 0, 0.1)
	return out
}

// Frames returns how many frames a run with these parameters retains.
func (p Params) Frames() int {
	if p.NSteps <= 0 || p.SliceStep <= 0 {
		return 0
	}
	return (p.NSteps + p.SliceStep - 1) / p.SliceStep
}

// LastKept returns the step of the last retained frame.
func (p Params) LastKept() int {
	if p.NSteps <= 0 || p.SliceStep <= 0 {
		return 0
	}
	return (p.NSteps - 1) / p.SliceStep * p.SliceStep
}
