package optim

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/san-kum/rdsim/internal/config"
	"github.com/san-kum/rdsim/internal/dynamo"
	"github.com/san-kum/rdsim/internal/experiment"
)

// setters are the config fields a grid search may vary.
var setters = map[string]func(*config.Config, float64){
	"ru": func(c *config.Config, v float64) { c.Ru = v },
	"rv": func(c *config.Config, v float64) { c.Rv = v },
	"f":  func(c *config.Config, v float64) { c.F = v },
	"k":  func(c *config.Config, v float64) { c.K = v },
	"dt": func(c *config.Config, v float64) { c.Dt = v },
}

func ParamNames() []string {
	names := make([]string, 0, len(setters))
	for name := range setters {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Best is the winning grid point.
type Best struct {
	Params    map[string]float64
	Value     float64
	Evaluated int
}

type GridSearch struct {
	paramNames []string
	ranges     [][]float64
	maximize   bool
}

func NewGridSearch(params []string, ranges [][]float64) (*GridSearch, error) {
	if len(params) == 0 || len(params) != len(ranges) {
		return nil, fmt.Errorf("%w: %d params with %d ranges", dynamo.ErrInvalidInput, len(params), len(ranges))
	}
	for i, name := range params {
		if _, ok := setters[name]; !ok {
			return nil, fmt.Errorf("%w: parameter %q (available: %v)", dynamo.ErrUnsupportedMode, name, ParamNames())
		}
		if len(ranges[i]) == 0 {
			return nil, &dynamo.ParamError{Name: name, Value: 0, Err: dynamo.ErrInvalidParameter}
		}
	}
	return &GridSearch{paramNames: params, ranges: ranges}, nil
}

// Maximize makes Search prefer larger metric values.
func (g *GridSearch) Maximize() *GridSearch {
	g.maximize = true
	return g
}

// Search runs base once per grid point and returns the point with the
// smallest (or largest) value of metricName. NaN results never win.
func (g *GridSearch) Search(ctx context.Context, base *config.Config, metricName string) (Best, error) {
	registry := experiment.NewRegistry()
	if _, err := registry.GetMetric(metricName); err != nil {
		return Best{}, err
	}

	best := Best{Value: math.Inf(1)}
	if g.maximize {
		best.Value = math.Inf(-1)
	}

	err := g.searchRecursive(ctx, 0, make(map[string]float64), func(params map[string]float64) error {
		cfg := *base
		for name, v := range params {
			setters[name](&cfg, v)
		}

		m, _ := registry.GetMetric(metricName)
		exp := experiment.New(&cfg)
		if err := exp.Setup(nil, nil); err != nil {
			return err
		}
		exp.GetSimulator().AddMetric(m)

		result, err := exp.Run(ctx, nil)
		if err != nil {
			return err
		}
		best.Evaluated++

		val := result.Metrics[metricName]
		if math.IsNaN(val) {
			return nil
		}
		if (g.maximize && val > best.Value) || (!g.maximize && val < best.Value) {
			best.Value = val
			best.Params = make(map[string]float64, len(params))
			for k, v := range params {
				best.Params[k] = v
			}
		}
		return nil
	})
	return best, err
}

func (g *GridSearch) searchRecursive(ctx context.Context, depth int, current map[string]float64, eval func(map[string]float64) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if depth == len(g.paramNames) {
		return eval(current)
	}

	paramName := g.paramNames[depth]
	for _, val := range g.ranges[depth] {
		current[paramName] = val
		if err := g.searchRecursive(ctx, depth+1, current, eval); err != nil {
			return err
		}
	}
	delete(current, paramName)
	return nil
}
