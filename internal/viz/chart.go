package viz

import (
	"fmt"
	"io"

	"github.com/wcharczuk/go-chart/v2"

	"github.com/san-kum/rdsim/internal/analysis"
	"github.com/san-kum/rdsim/internal/dynamo"
)

// WriteStatsChart renders mean U and mean V against simulated time as PNG.
func WriteStatsChart(w io.Writer, stats []analysis.FrameStats, width, height int) error {
	if len(stats) < 2 {
		return fmt.Errorf("%w: need at least 2 frames to chart, got %d", dynamo.ErrInvalidInput, len(stats))
	}

	t := make([]float64, len(stats))
	u := make([]float64, len(stats))
	v := make([]float64, len(stats))
	for i, st := range stats {
		t[i], u[i], v[i] = st.Time, st.U.Mean, st.V.Mean
	}

	graph := chart.Chart{
		Width:  width,
		Height: height,
		XAxis: chart.XAxis{
			Name:  "time",
			Style: chart.Style{FontSize: 10.0},
		},
		YAxis: chart.YAxis{
			Name:  "mean concentration",
			Style: chart.Style{FontSize: 10.0},
			Range: &chart.ContinuousRange{Min: 0, Max: 1},
		},
		Series: []chart.Series{
			chart.ContinuousSeries{
				Name:    "U",
				XValues: t,
				YValues: u,
				Style:   chart.Style{StrokeColor: chart.ColorGreen, StrokeWidth: 2.0},
			},
			chart.ContinuousSeries{
				Name:    "V",
				XValues: t,
				YValues: v,
				Style:   chart.Style{StrokeColor: chart.ColorRed, StrokeWidth: 2.0},
			},
		},
	}
	graph.Elements = []chart.Renderable{chart.Legend(&graph)}

	return graph.Render(chart.PNG, w)
}
