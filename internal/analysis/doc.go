// Package analysis provides pattern analysis tools for reaction–diffusion runs.
//
// The package includes tools for characterizing a run:
//
//   - [Stats] and [SeriesStats]: per-frame concentration summaries
//   - [Spectrum] and [DominantWavelength]: spatial frequency content
//   - [FeedScan]: feed-rate sweep recording the settled state
//   - [Divergence]: growth rate of a small perturbation
//   - [GeneratePhasePortrait]: mean U against mean V over time
//
// # Pattern Scale
//
// The dominant wavelength is the spacing of spots or stripes in cells:
//
//	lambda := analysis.DominantWavelength(ts.Final(), dynamo.V)
//	if lambda > 0 {
//	    // Field has a periodic structure
//	}
package analysis
