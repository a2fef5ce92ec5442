package gui

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/rdsim/internal/dynamo"
	"github.com/san-kum/rdsim/internal/initcond"
)

func TestLineIsConnected(t *testing.T) {
	cases := []struct{ a, b initcond.Point }{
		{initcond.Point{X: 0, Y: 0}, initcond.Point{X: 5, Y: 0}},
		{initcond.Point{X: 0, Y: 0}, initcond.Point{X: 0, Y: -4}},
		{initcond.Point{X: 1, Y: 1}, initcond.Point{X: 4, Y: 3}},
		{initcond.Point{X: 7, Y: 2}, initcond.Point{X: 1, Y: 9}},
		{initcond.Point{X: 3, Y: 3}, initcond.Point{X: 3, Y: 3}},
	}
	for _, tc := range cases {
		pts := line(tc.a, tc.b)
		require.NotEmpty(t, pts)
		assert.Equal(t, tc.a, pts[0])
		assert.Equal(t, tc.b, pts[len(pts)-1])
		assert.Len(t, pts, abs(tc.b.X-tc.a.X)+abs(tc.b.Y-tc.a.Y)+1)
		for i := 1; i < len(pts); i++ {
			d := abs(pts[i].X-pts[i-1].X) + abs(pts[i].Y-pts[i-1].Y)
			assert.Equal(t, 1, d, "points %v and %v are not adjacent", pts[i-1], pts[i])
		}
	}
}

func TestStrokesField(t *testing.T) {
	var st Strokes
	st.Begin(dynamo.U, initcond.Point{X: 0, Y: 0})
	st.Extend(dynamo.U, initcond.Point{X: 8, Y: 0})
	st.End()
	st.Extend(dynamo.V, initcond.Point{X: 0, Y: 4})
	st.End()
	require.False(t, st.Empty())
	assert.Len(t, st.U, 9)
	assert.Len(t, st.V, 1)

	f, err := st.Field(3, 3, 4)
	require.NoError(t, err)
	assert.Equal(t, float32(1), f.At(0, 0, dynamo.U))
	assert.Equal(t, float32(1), f.At(2, 0, dynamo.U))
	assert.Equal(t, float32(1), f.At(0, 1, dynamo.V))
	assert.Equal(t, float32(0), f.At(1, 1, dynamo.U))

	st.Clear()
	assert.True(t, st.Empty())
}

func TestStrokesSwitchingSpeciesStartsNewStroke(t *testing.T) {
	var st Strokes
	st.Extend(dynamo.U, initcond.Point{X: 0, Y: 0})
	st.Extend(dynamo.V, initcond.Point{X: 5, Y: 0})
	assert.Len(t, st.U, 1)
	assert.Len(t, st.V, 1)
}

func TestStrokesBadScale(t *testing.T) {
	var st Strokes
	_, err := st.Field(4, 4, 0)
	assert.ErrorIs(t, err, dynamo.ErrInvalidInput)
}
