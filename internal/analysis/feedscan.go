package analysis

import (
	"context"
	"fmt"
	"strings"

	"github.com/san-kum/rdsim/internal/dynamo"
	"github.com/san-kum/rdsim/internal/sim"
)

// ScanPoint is the settled state reached for one feed rate.
type ScanPoint struct {
	F          float64
	MeanV      float64
	Wavelength float64
}

// FeedScan sweeps the feed rate over [fMin, fMax] in steps points, running
// every value from f0 with the remaining parameters of p. Runs execute on
// an ensemble of workers. The result is ordered by feed rate.
func FeedScan(ctx context.Context, f0 *dynamo.Field, p dynamo.Params, fMin, fMax float64, steps, workers int) ([]ScanPoint, error) {
	if steps < 1 {
		return nil, &dynamo.ParamError{Name: "steps", Value: steps, Err: dynamo.ErrInvalidParameter}
	}
	// keep only the first and last states
	p.SliceStep = max(1, p.NSteps-1)

	jobs := make([]sim.Job, steps)
	for i := range jobs {
		jp := p
		jp.F = fMin
		if steps > 1 {
			jp.F = fMin + float64(i)*(fMax-fMin)/float64(steps-1)
		}
		jobs[i] = sim.Job{ID: fmt.Sprintf("f=%g", jp.F), Field: f0, Params: jp}
	}

	results, err := sim.NewEnsemble(workers, nil).Run(ctx, jobs, nil)
	if err != nil {
		return nil, err
	}

	out := make([]ScanPoint, 0, steps)
	for _, r := range results {
		if r.Err != nil {
			return nil, fmt.Errorf("%s: %w", r.Job.ID, r.Err)
		}
		final := r.Result.Series.Final()
		out = append(out, ScanPoint{
			F:          r.Job.Params.F,
			MeanV:      Stats(final, dynamo.V).Mean,
			Wavelength: DominantWavelength(final, dynamo.V),
		})
	}
	return out, nil
}

// FeedScanToASCII plots mean V against feed rate.
func FeedScanToASCII(data []ScanPoint, width, height int) string {
	if len(data) == 0 || width <= 0 || height <= 0 {
		return ""
	}

	minVal, maxVal := data[0].MeanV, data[0].MeanV
	for _, p := range data {
		minVal = min(minVal, p.MeanV)
		maxVal = max(maxVal, p.MeanV)
	}
	if maxVal == minVal {
		maxVal = minVal + 1
	}

	canvas := make([][]rune, height)
	for i := range canvas {
		canvas[i] = []rune(strings.Repeat(" ", width))
	}

	for i, p := range data {
		col := min(i*width/len(data), width-1)
		row := height - 1 - int((p.MeanV-minVal)/(maxVal-minVal)*float64(height-1))
		if row >= 0 && row < height {
			canvas[row][col] = '•'
		}
	}

	var sb strings.Builder
	for _, row := range canvas {
		sb.WriteString(string(row))
		sb.WriteRune('\n')
	}
	return sb.String()
}
