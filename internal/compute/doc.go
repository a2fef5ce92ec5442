// Package compute provides the execution backends the integrators use to
// spread one update over several cores.
//
// The package selects a backend at start up:
//
//   - cpu: splits the grid into column bands, one goroutine each
//   - serial: runs on the calling goroutine
//
// Runs that already execute in parallel, such as sweeps, should use the
// serial backend for each job:
//
//	stepper := integrators.NewGrayScottWith(w, h, p, compute.NewSerialBackend())
//
// Bands narrower than MinBand columns are not split further.
package compute
