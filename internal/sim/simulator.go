package sim

import (
	"context"

	"github.com/san-kum/rdsim/internal/compute"
	"github.com/san-kum/rdsim/internal/dynamo"
	"github.com/san-kum/rdsim/internal/integrators"
)

type Simulator struct {
	newStepper StepperFactory
	metrics    []Metric
	observers  []Observer
}

// New returns a simulator using the Gray–Scott explicit Euler step.
func New() *Simulator {
	return NewWithStepper(func(w, h int, p dynamo.Params) Stepper {
		return integrators.NewGrayScott(w, h, p)
	})
}

// NewSerial steps on the calling goroutine, for runs that are already
// spread over workers.
func NewSerial() *Simulator {
	return NewWithStepper(func(w, h int, p dynamo.Params) Stepper {
		return integrators.NewGrayScottWith(w, h, p, compute.NewSerialBackend())
	})
}

func NewWithStepper(fn StepperFactory) *Simulator {
	return &Simulator{
		newStepper: fn,
		metrics:    make([]Metric, 0),
		observers:  make([]Observer, 0),
	}
}

func (s *Simulator) AddMetric(m Metric)     { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o Observer) { s.observers = append(s.observers, o) }

// Evolve runs the default simulator and returns the decimated series.
func Evolve(ctx context.Context, f0 *dynamo.Field, p dynamo.Params) (*dynamo.TimeSeries, error) {
	res, err := New().Run(ctx, f0, p)
	if res == nil {
		return nil, err
	}
	return res.Series, err
}

// Run integrates f0 for p.NSteps time indices: frame 0 is a copy of f0 and
// p.NSteps-1 updates follow. Only steps that are multiples of p.SliceStep are
// kept. Invalid input fails before any work is done. On cancellation the
// frames kept so far are returned together with ctx.Err().
func (s *Simulator) Run(ctx context.Context, f0 *dynamo.Field, p dynamo.Params) (*Result, error) {
	if err := f0.Validate(); err != nil {
		return nil, err
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if p.Kernel == nil {
		p.Kernel = dynamo.DefaultKernel()
	}

	w, h := f0.W, f0.H
	total := p.NSteps - 1
	result := &Result{
		Series:  dynamo.NewTimeSeries(w, h, p.Dt, p.Frames()),
		Metrics: make(map[string]float64),
	}

	for _, m := range s.metrics {
		m.Reset()
	}

	pool := NewFieldPool(w, h)
	x := pool.GetAndCopy(f0)
	kept := true
	result.Series.Append(0, x)
	s.notify(0, x)

	var stepper Stepper
	if total > 0 {
		stepper = s.newStepper(w, h, p)
	}

	for step := 1; step <= total; step++ {
		select {
		case <-ctx.Done():
			s.collect(result)
			return result, ctx.Err()
		default:
		}

		next := pool.Get()
		stepper.Step(next, x)
		if !kept {
			pool.Put(x)
		}
		x = next
		kept = step%p.SliceStep == 0
		if kept {
			result.Series.Append(step, x)
		}
		result.StepsTaken++
		s.notify(step, x)

		if p.Progress != nil && p.ProgressEvery > 0 && step%p.ProgressEvery == 0 {
			p.Progress(step, total)
		}
	}

	s.collect(result)
	return result, nil
}

func (s *Simulator) notify(step int, f *dynamo.Field) {
	for _, m := range s.metrics {
		m.Observe(step, f)
	}
	for _, o := range s.observers {
		o.OnStep(step, f)
	}
}

func (s *Simulator) collect(r *Result) {
	for _, m := range s.metrics {
		r.Metrics[m.Name()] = m.Value()
	}
}
