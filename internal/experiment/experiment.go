package experiment

import (
	"context"
	"fmt"

	"github.com/san-kum/rdsim/internal/config"
	"github.com/san-kum/rdsim/internal/dynamo"
	"github.com/san-kum/rdsim/internal/initcond"
	"github.com/san-kum/rdsim/internal/sim"
)

// Experiment couples a config with the initial field and parameters it
// resolves to.
type Experiment struct {
	cfg       *config.Config
	field     *dynamo.Field
	params    dynamo.Params
	simulator *sim.Simulator
}

func New(cfg *config.Config) *Experiment {
	return &Experiment{cfg: cfg}
}

// Setup builds the initial condition and parameters. A nil field uses the
// config's init mode seeded with cfg.Seed.
func (e *Experiment) Setup(field *dynamo.Field, metrics []sim.Metric) error {
	p, err := e.cfg.Params()
	if err != nil {
		return err
	}
	if err := p.Validate(); err != nil {
		return err
	}

	if field == nil {
		field, err = initcond.Generate(e.cfg.Dims(), e.cfg.Init, initcond.NewRNG(e.cfg.Seed))
		if err != nil {
			return err
		}
	}

	e.field = field
	e.params = p
	e.simulator = sim.New()
	for _, m := range metrics {
		e.simulator.AddMetric(m)
	}
	return nil
}

func (e *Experiment) Run(ctx context.Context, progress dynamo.ProgressFunc) (*sim.Result, error) {
	if e.simulator == nil {
		return nil, fmt.Errorf("experiment not setup")
	}
	p := e.params
	p.Progress = progress
	return e.simulator.Run(ctx, e.field, p)
}

func (e *Experiment) Params() dynamo.Params { return e.params }

func (e *Experiment) Field() *dynamo.Field { return e.field }

// GetSimulator returns the underlying simulator for adding observers
func (e *Experiment) GetSimulator() *sim.Simulator {
	return e.simulator
}
