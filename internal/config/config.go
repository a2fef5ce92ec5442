package config

import (
	"fmt"
	"os"

	"github.com/san-kum/rdsim/internal/dynamo"
	"gopkg.in/yaml.v3"
)

const (
	DefaultWidth    = 128
	DefaultHeight   = 128
	DefaultInit     = "clump"
	DefaultRu       = 1.0
	DefaultRv       = 0.5
	DefaultF        = 0.055
	DefaultK        = 0.062
	DefaultBoundary = "periodic"
)

type Config struct {
	Name          string      `yaml:"name"`
	Width         int         `yaml:"width"`
	Height        int         `yaml:"height"`
	Init          string      `yaml:"init"`
	Seed          int64       `yaml:"seed"`
	Ru            float64     `yaml:"ru"`
	Rv            float64     `yaml:"rv"`
	F             float64     `yaml:"f"`
	K             float64     `yaml:"k"`
	Dt            float64     `yaml:"dt"`
	NSteps        int         `yaml:"nsteps"`
	SliceStep     int         `yaml:"slicestep"`
	Boundary      string      `yaml:"boundary"`
	Kernel        [][]float64 `yaml:"kernel,omitempty"`
	ProgressEvery int         `yaml:"progress_every"`
}

func DefaultConfig() *Config {
	return &Config{
		Name:      "default",
		Width:     DefaultWidth,
		Height:    DefaultHeight,
		Init:      DefaultInit,
		Ru:        DefaultRu,
		Rv:        DefaultRv,
		F:         DefaultF,
		K:         DefaultK,
		Dt:        dynamo.DefaultDt,
		NSteps:    dynamo.DefaultNSteps,
		SliceStep: dynamo.DefaultSliceStep,
		Boundary:  DefaultBoundary,
	}
}

// Load reads a YAML config on top of DefaultConfig.
func Load(path string) (*Config, error) {
	return LoadOnto(path, DefaultConfig())
}

// LoadOnto reads a YAML config over base, so keys missing from the file
// keep base's values. base is modified and returned.
func LoadOnto(path string, base *Config) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(data, base); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return base, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Dims returns the grid shape in the (W, H) form the generators take.
func (c *Config) Dims() []int {
	return []int{c.Width, c.Height}
}

// Params converts the config to integrator parameters. Boundary names and
// kernels are checked here; step counts are left to Params.Validate.
func (c *Config) Params() (dynamo.Params, error) {
	p := dynamo.DefaultParams()
	p.Ru, p.Rv, p.F, p.K = c.Ru, c.Rv, c.F, c.K
	p.Dt = c.Dt
	p.NSteps = c.NSteps
	p.SliceStep = c.SliceStep
	p.ProgressEvery = c.ProgressEvery

	b, err := dynamo.ParseBoundary(c.Boundary)
	if err != nil {
		return p, err
	}
	p.Boundary = b

	if len(c.Kernel) > 0 {
		k, err := dynamo.NewKernel(c.Kernel)
		if err != nil {
			return p, err
		}
		p.Kernel = k
	}
	return p, nil
}
