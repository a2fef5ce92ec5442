package automation

import (
	"context"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/rdsim/internal/config"
	"github.com/san-kum/rdsim/internal/dynamo"
	"github.com/san-kum/rdsim/internal/experiment"
	"github.com/san-kum/rdsim/internal/initcond"
	"github.com/san-kum/rdsim/internal/metrics"
	"github.com/san-kum/rdsim/internal/sim"
)

// Scenario defines a scripted simulation sequence
type Scenario struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Steps       []ScenarioStep `yaml:"steps"`
}

// ScenarioStep is a single run in a scenario. Set holds config keys that
// override the preset, for example:
//
//	- preset: mitosis
//	  set: {nsteps: 2000, f: 0.03}
//	  continue: true
type ScenarioStep struct {
	Preset string `yaml:"preset"`
	// Continue starts from the final frame of the previous step instead
	// of the config's initial condition.
	Continue bool      `yaml:"continue"`
	SaveAs   string    `yaml:"save_as"`
	Set      yaml.Node `yaml:"set"`
}

// Config resolves the step to a full config.
func (s ScenarioStep) Config() (*config.Config, error) {
	cfg := config.DefaultConfig()
	if s.Preset != "" {
		cfg = config.GetPreset(s.Preset)
		if cfg == nil {
			return nil, fmt.Errorf("%w: preset %q", dynamo.ErrUnsupportedMode, s.Preset)
		}
	}
	if !s.Set.IsZero() {
		if err := s.Set.Decode(cfg); err != nil {
			return nil, err
		}
	}
	if s.SaveAs != "" {
		cfg.Name = s.SaveAs
	}
	return cfg, nil
}

// LoadScenario loads a scenario from a YAML file
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if len(scenario.Steps) == 0 {
		return nil, fmt.Errorf("%w: scenario %s has no steps", dynamo.ErrInvalidInput, path)
	}

	return &scenario, nil
}

// StepResult is the outcome of one scenario step.
type StepResult struct {
	Index  int
	Config *config.Config
	Result *sim.Result
}

// RunScenario executes all steps in order. onStep, if set, is called before
// each step starts. Results of completed steps are returned with the error
// of the step that failed.
func RunScenario(ctx context.Context, scenario *Scenario, onStep func(i int, cfg *config.Config)) ([]StepResult, error) {
	results := make([]StepResult, 0, len(scenario.Steps))
	registry := experiment.NewRegistry()

	var prev *dynamo.Field
	for i, step := range scenario.Steps {
		cfg, err := step.Config()
		if err != nil {
			return results, fmt.Errorf("step %d: %w", i+1, err)
		}

		var field *dynamo.Field
		if step.Continue {
			if prev == nil {
				return results, fmt.Errorf("step %d: %w: nothing to continue from", i+1, dynamo.ErrInvalidInput)
			}
			if prev.W != cfg.Width || prev.H != cfg.Height {
				return results, fmt.Errorf("step %d: %w: previous frame is %dx%d, config wants %dx%d",
					i+1, dynamo.ErrShape, prev.W, prev.H, cfg.Width, cfg.Height)
			}
			field = prev.Clone()
		}

		if onStep != nil {
			onStep(i, cfg)
		}

		exp := experiment.New(cfg)
		if err := exp.Setup(field, registry.DefaultMetrics()); err != nil {
			return results, fmt.Errorf("step %d setup: %w", i+1, err)
		}

		result, err := exp.Run(ctx, nil)
		if err != nil {
			return results, fmt.Errorf("step %d run: %w", i+1, err)
		}

		results = append(results, StepResult{Index: i, Config: cfg, Result: result})
		prev = result.Series.Final()
	}

	return results, nil
}

// perturb shifts v by up to ±amp and keeps it a valid concentration.
func perturb(v float32, r, amp float64) float32 {
	return min(max(v+float32((r*2-1)*amp), 0), 1)
}

// MonteCarloConfig perturbs one initial condition with uniform noise,
// clamped to [0, 1], and runs every trial to the end.
type MonteCarloConfig struct {
	Base         *config.Config
	Perturbation float64
	NumTrials    int
	Seed         int64
	Workers      int
	// Tolerance is the excursion outside [0, 1] still counted as stable.
	Tolerance float64
}

// MonteCarloResult holds statistics from Monte Carlo runs
type MonteCarloResult struct {
	TrialID   int
	MeanV     float64
	Excursion float64
	Stable    bool
}

// RunMonteCarlo executes the trials on an ensemble and returns them in
// trial order.
func RunMonteCarlo(ctx context.Context, cfg *MonteCarloConfig) ([]MonteCarloResult, error) {
	if cfg.NumTrials < 1 {
		return nil, &dynamo.ParamError{Name: "trials", Value: cfg.NumTrials, Err: dynamo.ErrInvalidParameter}
	}
	p, err := cfg.Base.Params()
	if err != nil {
		return nil, err
	}
	p.SliceStep = max(1, p.NSteps-1)

	base, err := initcond.Generate(cfg.Base.Dims(), cfg.Base.Init, initcond.NewRNG(cfg.Base.Seed))
	if err != nil {
		return nil, err
	}

	rng := initcond.NewRNG(cfg.Seed)
	jobs := make([]sim.Job, cfg.NumTrials)
	for trial := range jobs {
		f := base.Clone()
		for i := range f.U {
			f.U[i] = perturb(f.U[i], rng.Float64(), cfg.Perturbation)
			f.V[i] = perturb(f.V[i], rng.Float64(), cfg.Perturbation)
		}
		jobs[trial] = sim.Job{ID: fmt.Sprintf("trial %d", trial), Field: f, Params: p}
	}

	ensemble := sim.NewEnsemble(cfg.Workers, func() *sim.Simulator {
		s := sim.NewSerial()
		s.AddMetric(metrics.NewMeanV())
		s.AddMetric(metrics.NewExcursion())
		return s
	})
	runs, err := ensemble.Run(ctx, jobs, nil)
	if err != nil {
		return nil, err
	}

	results := make([]MonteCarloResult, 0, len(runs))
	for trial, r := range runs {
		if r.Err != nil {
			return nil, fmt.Errorf("%s: %w", r.Job.ID, r.Err)
		}
		exc := r.Result.Metrics["excursion"]
		results = append(results, MonteCarloResult{
			TrialID:   trial,
			MeanV:     r.Result.Metrics["mean_v"],
			Excursion: exc,
			Stable:    exc <= cfg.Tolerance,
		})
	}
	return results, nil
}
