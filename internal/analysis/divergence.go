package analysis

import (
	"context"
	"math"

	"github.com/san-kum/rdsim/internal/dynamo"
	"github.com/san-kum/rdsim/internal/sim"
)

// Divergence estimates how fast a perturbation of size eps added to V at the
// grid centre grows, by running the original and perturbed fields side by
// side. It returns ln(|dV(T)| / |dV(0)|) / T, with T the simulated time. A
// positive value means the pattern is sensitive to its initial condition.
func Divergence(ctx context.Context, f0 *dynamo.Field, p dynamo.Params, eps float64) (float64, error) {
	if err := f0.Validate(); err != nil {
		return 0, err
	}
	if eps <= 0 {
		return 0, &dynamo.ParamError{Name: "eps", Value: eps, Err: dynamo.ErrInvalidParameter}
	}
	// keep only the first and last states
	p.SliceStep = max(1, p.NSteps-1)

	perturbed := f0.Clone()
	i := perturbed.Index(f0.W/2, f0.H/2)
	perturbed.V[i] += float32(eps)
	d0 := separation(f0, perturbed)
	if d0 == 0 {
		return 0, nil
	}

	jobs := []sim.Job{
		{ID: "base", Field: f0, Params: p},
		{ID: "perturbed", Field: perturbed, Params: p},
	}
	results, err := sim.NewEnsemble(2, nil).Run(ctx, jobs, nil)
	if err != nil {
		return 0, err
	}
	for _, r := range results {
		if r.Err != nil {
			return 0, r.Err
		}
	}

	t := float64(p.NSteps-1) * p.Dt
	if t == 0 {
		return 0, nil
	}
	d := separation(results[0].Result.Series.Final(), results[1].Result.Series.Final())
	if d == 0 {
		return math.Inf(-1), nil
	}
	return math.Log(d/d0) / t, nil
}

func separation(a, b *dynamo.Field) float64 {
	sum := 0.0
	for i := range a.V {
		d := float64(a.V[i] - b.V[i])
		sum += d * d
	}
	return math.Sqrt(sum)
}
