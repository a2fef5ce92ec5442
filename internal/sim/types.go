package sim

import "github.com/san-kum/rdsim/internal/dynamo"

// Stepper advances src by one time step into dst.
type Stepper interface {
	Step(dst, src *dynamo.Field)
}

// StepperFactory builds a stepper for one run on a w x h grid.
type StepperFactory func(w, h int, p dynamo.Params) Stepper

// Metric accumulates a scalar over the states of a run.
type Metric interface {
	Name() string
	Observe(step int, f *dynamo.Field)
	Value() float64
	Reset()
}

// Observer sees every state of a run, including step 0. The field is only
// valid for the duration of the call.
type Observer interface {
	OnStep(step int, f *dynamo.Field)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(step int, f *dynamo.Field)

func (fn ObserverFunc) OnStep(step int, f *dynamo.Field) { fn(step, f) }

type Result struct {
	Series     *dynamo.TimeSeries
	Metrics    map[string]float64
	StepsTaken int
}
