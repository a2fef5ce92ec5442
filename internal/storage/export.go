package storage

import (
	"encoding/json"
	"io"

	"github.com/san-kum/rdsim/internal/dynamo"
)

type ExportData struct {
	Meta   RunMetadata `json:"meta"`
	Shape  []int       `json:"shape"`
	Steps  []int       `json:"steps"`
	Times  []float64   `json:"times"`
	FinalU [][]float32 `json:"final_u"`
	FinalV [][]float32 `json:"final_v"`
}

// ExportJSON writes the metadata, frame timing and final frame of a run.
// Planes are written as [x][y].
func ExportJSON(w io.Writer, meta RunMetadata, ts *dynamo.TimeSeries) error {
	data := ExportData{
		Meta:  meta,
		Shape: ts.Shape(),
		Steps: ts.Steps,
		Times: make([]float64, ts.Len()),
	}
	for i := range data.Times {
		data.Times[i] = ts.Time(i)
	}

	if final := ts.Final(); final != nil {
		data.FinalU = rows(final, dynamo.U)
		data.FinalV = rows(final, dynamo.V)
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

func rows(f *dynamo.Field, s dynamo.Species) [][]float32 {
	plane := f.Plane(s)
	out := make([][]float32, f.W)
	for x := range out {
		out[x] = plane[x*f.H : (x+1)*f.H]
	}
	return out
}
