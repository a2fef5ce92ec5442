package analysis

import (
	"context"

	"github.com/san-kum/rdsim/internal/dynamo"
	"github.com/san-kum/rdsim/internal/sim"
)

func evolve(f0 *dynamo.Field, p dynamo.Params) (*dynamo.TimeSeries, error) {
	return sim.Evolve(context.Background(), f0, p)
}
