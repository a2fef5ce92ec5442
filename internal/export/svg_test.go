package export

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/rdsim/internal/analysis"
	"github.com/san-kum/rdsim/internal/dynamo"
	"github.com/san-kum/rdsim/internal/viz"
)

func TestFrameToSVG(t *testing.T) {
	cm, err := viz.NewColormap("viridis")
	require.NoError(t, err)

	f := dynamo.NewField(4, 3)
	f.Set(1, 2, dynamo.V, 1)
	f.Set(3, 0, dynamo.V, 0.5)

	var buf bytes.Buffer
	require.NoError(t, FrameToSVG(&buf, f, dynamo.V, cm, 10))
	out := buf.String()

	assert.True(t, strings.HasPrefix(out, "<?xml"))
	assert.Contains(t, out, `width="40" height="30"`)
	// background plus the two non-zero cells
	assert.Equal(t, 3, strings.Count(out, "<rect"))
	assert.Contains(t, out, `<rect x="10.0" y="20.0" width="10.0" height="10.0"`)
	top := cm.At(1)
	assert.Contains(t, out, fmt.Sprintf("#%02x%02x%02x", top.R, top.G, top.B))
}

func TestFrameToSVGNil(t *testing.T) {
	cm, _ := viz.NewColormap("")
	err := FrameToSVG(&bytes.Buffer{}, nil, dynamo.V, cm, 1)
	assert.True(t, errors.Is(err, dynamo.ErrInvalidInput))
}

func TestCanvasToSVG(t *testing.T) {
	c := viz.NewCanvas(2, 1)
	c.Set(0, 0)
	c.Set(3, 3)
	out := CanvasToSVG(c, 2)
	assert.Equal(t, 2, strings.Count(out, "<circle"))
	assert.Contains(t, out, `width="8" height="8"`)
	assert.Empty(t, CanvasToSVG(nil, 1))
}

func TestPhasePortraitToSVG(t *testing.T) {
	ts := dynamo.NewTimeSeries(2, 2, 1, 3)
	for i := 0; i < 3; i++ {
		f := dynamo.NewField(2, 2)
		for j := range f.U {
			f.U[j] = 1 - 0.1*float32(i)
			f.V[j] = 0.1 * float32(i)
		}
		ts.Append(i, f)
	}
	out := PhasePortraitToSVG(analysis.GeneratePhasePortrait(ts), 100, 50, "#ff00ff")
	assert.Contains(t, out, `stroke="#ff00ff"`)
	assert.Equal(t, 2, strings.Count(out, " L"))
	assert.Empty(t, PhasePortraitToSVG(nil, 100, 50, "#fff"))
}
