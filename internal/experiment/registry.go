package experiment

import (
	"fmt"
	"sort"

	"github.com/san-kum/rdsim/internal/dynamo"
	"github.com/san-kum/rdsim/internal/initcond"
	"github.com/san-kum/rdsim/internal/metrics"
	"github.com/san-kum/rdsim/internal/sim"
)

type Registry struct {
	metrics map[string]func() sim.Metric
}

func NewRegistry() *Registry {
	r := &Registry{
		metrics: make(map[string]func() sim.Metric),
	}

	r.metrics["excursion"] = func() sim.Metric { return metrics.NewExcursion() }
	r.metrics["mean_v"] = func() sim.Metric { return metrics.NewMeanV() }
	r.metrics["change"] = func() sim.Metric { return metrics.NewChange() }

	return r
}

func (r *Registry) GetMetric(name string) (sim.Metric, error) {
	fn, ok := r.metrics[name]
	if !ok {
		return nil, fmt.Errorf("%w: metric %q", dynamo.ErrUnsupportedMode, name)
	}
	return fn(), nil
}

func (r *Registry) ListMetrics() []string {
	names := make([]string, 0, len(r.metrics))
	for name := range r.metrics {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (r *Registry) ListInitModes() []string { return initcond.Modes() }

func (r *Registry) ListBoundaries() []string { return dynamo.BoundaryNames() }

func (r *Registry) DefaultMetrics() []sim.Metric {
	out := make([]sim.Metric, 0, len(r.metrics))
	for _, name := range r.ListMetrics() {
		m, _ := r.GetMetric(name)
		out = append(out, m)
	}
	return out
}
