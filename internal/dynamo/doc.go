// Package dynamo provides the shared data model for reaction–diffusion runs.
//
// The package defines the values that flow between the initial condition
// generators, the integrator and every consumer of a run:
//
//   - [Field]: concentrations of both species at one instant
//   - [TimeSeries]: decimated sequence of fields produced by one run
//   - [Kernel]: discrete Laplacian stencil
//   - [Boundary]: out-of-grid policy for the stencil
//   - [Params]: physical and numeric parameters of one run
//
// # Example
//
//	f0, _ := initcond.Generate([]int{100, 100}, "clump", nil)
//	p := dynamo.DefaultParams()
//	p.Ru, p.Rv, p.F, p.K = 1.0, 0.5, 0.055, 0.062
//	ts, _ := sim.New().Run(ctx, f0, p)
//
// # Thread Safety
//
// Fields and kernels are never mutated once handed to the integrator, so a
// finished [TimeSeries] may be read from any number of goroutines.
package dynamo
