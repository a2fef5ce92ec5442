package dynamo

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFieldDenseLayout(t *testing.T) {
	f := NewField(2, 3)
	f.Set(1, 2, V, 0.75)
	f.Set(0, 1, U, 0.25)

	d := f.Dense()
	require.Len(t, d, 2*3*2)
	require.Equal(t, float32(0.75), d[(1*3+2)*2+1])
	require.Equal(t, float32(0.25), d[(0*3+1)*2+0])

	back, err := FromDense(d, []int{2, 3, 2})
	require.NoError(t, err)
	require.Equal(t, f.U, back.U)
	require.Equal(t, f.V, back.V)
}

func TestFromDenseShapeErrors(t *testing.T) {
	cases := map[string][]int{
		"rank 2":      {4, 4},
		"rank 4":      {4, 4, 1, 2},
		"one species": {4, 4, 1},
		"three":       {4, 4, 3},
		"zero width":  {0, 4, 2},
	}
	for name, shape := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := FromDense(make([]float32, 32), shape)
			require.ErrorIs(t, err, ErrShape)
		})
	}

	_, err := FromDense(make([]float32, 5), []int{2, 2, 2})
	require.ErrorIs(t, err, ErrShape, "value count must match the shape")
}

func TestFieldValidate(t *testing.T) {
	var nilField *Field
	require.ErrorIs(t, nilField.Validate(), ErrShape)

	f := NewField(3, 3)
	require.NoError(t, f.Validate())

	f.V = f.V[:4]
	require.ErrorIs(t, f.Validate(), ErrShape)
}

func TestFieldCloneIsIndependent(t *testing.T) {
	f := NewField(2, 2)
	c := f.Clone()
	c.Set(0, 0, U, 1)
	require.Zero(t, f.At(0, 0, U))
}

func TestTimeSeriesDenseRoundTrip(t *testing.T) {
	ts := NewTimeSeries(2, 2, 0.5, 3)
	for i := 0; i < 3; i++ {
		f := NewField(2, 2)
		f.Set(1, 0, U, float32(i))
		f.Set(0, 1, V, float32(10+i))
		ts.Append(i*4, f)
	}

	require.Equal(t, []int{2, 2, 3, 2}, ts.Shape())
	d := ts.Dense()
	// (x=1, y=0) -> cell 2; frame 2; species U
	require.Equal(t, float32(2), d[(2*3+2)*2])

	back, err := SeriesFromDense(d, ts.Shape(), 0.5, 4)
	require.NoError(t, err)
	require.Equal(t, 3, back.Len())
	require.Equal(t, []int{0, 4, 8}, back.Steps)
	require.Equal(t, float32(11), back.At(0, 1, 1, V))
	require.InDelta(t, 4.0, back.Time(2), 1e-12)
}

func TestKernel(t *testing.T) {
	k := DefaultKernel()
	require.InDelta(t, 0.0, k.Sum(), 1e-12, "default kernel has zero sum")
	require.Equal(t, -1.0, k.At(1, 1))

	_, err := NewKernel([][]float64{{1, 2}, {3, 4}})
	require.ErrorIs(t, err, ErrInvalidInput)

	_, err = NewKernel([][]float64{{1, 2, 3}, {1}, {1, 2, 3}})
	require.ErrorIs(t, err, ErrInvalidInput)

	k2, err := NewKernel(k.Matrix())
	require.NoError(t, err)
	require.Equal(t, k.W, k2.W)
}

func TestParamsValidate(t *testing.T) {
	p := DefaultParams()
	require.NoError(t, p.Validate())
	require.Equal(t, 100, p.Frames())

	p.NSteps = 0
	err := p.Validate()
	require.ErrorIs(t, err, ErrInvalidParameter)
	var pe *ParamError
	require.True(t, errors.As(err, &pe))
	require.Equal(t, "nsteps", pe.Name)

	p = DefaultParams()
	p.SliceStep = -1
	require.ErrorIs(t, p.Validate(), ErrInvalidParameter)

	p = DefaultParams()
	p.Boundary = Boundary(42)
	require.ErrorIs(t, p.Validate(), ErrUnsupportedMode)
}

func TestParamsWarnings(t *testing.T) {
	p := DefaultParams()
	p.Ru, p.Rv, p.F, p.K = 1.0, 0.5, 0.055, 0.062
	require.Empty(t, p.Warnings())

	p.F = 0.3
	require.Len(t, p.Warnings(), 1)
}

func TestParamsLastKept(t *testing.T) {
	cases := []struct {
		nsteps, slice, want int
	}{
		{5000, 50, 4950},
		{12, 5, 10},
		{11, 5, 10},
		{10, 5, 5},
		{3, 5, 0},
		{1, 1, 0},
	}
	for _, c := range cases {
		p := DefaultParams()
		p.NSteps, p.SliceStep = c.nsteps, c.slice
		require.Equal(t, c.want, p.LastKept(), "nsteps=%d slicestep=%d", c.nsteps, c.slice)
		require.Equal(t, p.Frames()-1, p.LastKept()/c.slice)
	}
}
