package integrators

import (
	"math"
	"testing"

	"github.com/san-kum/rdsim/internal/compute"
	"github.com/san-kum/rdsim/internal/dynamo"
)

func params(ru, rv, f, k, dt float64) dynamo.Params {
	p := dynamo.DefaultParams()
	p.Ru, p.Rv, p.F, p.K, p.Dt = ru, rv, f, k, dt
	return p
}

func TestStepIsIdentityWithoutRatesOrReaction(t *testing.T) {
	const w, h = 6, 6
	src := dynamo.NewField(w, h)
	copy(src.U, randomPlane(w*h, 3))

	g := NewGrayScott(w, h, params(0, 0, 0, 0, 1))
	dst := dynamo.NewField(w, h)
	g.Step(dst, src)

	for i := range src.U {
		if dst.U[i] != src.U[i] || dst.V[i] != 0 {
			t.Fatalf("cell %d changed: u %g->%g v %g", i, src.U[i], dst.U[i], dst.V[i])
		}
	}
}

func TestStepChangesOnlyThroughReaction(t *testing.T) {
	const w, h = 5, 4
	src := dynamo.NewField(w, h)
	copy(src.U, randomPlane(w*h, 5))
	copy(src.V, randomPlane(w*h, 6))

	dt := 0.5
	g := NewGrayScott(w, h, params(0, 0, 0, 0, dt))
	dst := dynamo.NewField(w, h)
	g.Step(dst, src)

	for i := range src.U {
		u, v := float64(src.U[i]), float64(src.V[i])
		r := u * v * v
		if math.Abs(float64(dst.U[i])-(u-dt*r)) > 1e-6 {
			t.Errorf("u[%d] = %g, want %g", i, dst.U[i], u-dt*r)
		}
		if math.Abs(float64(dst.V[i])-(v+dt*r)) > 1e-6 {
			t.Errorf("v[%d] = %g, want %g", i, dst.V[i], v+dt*r)
		}
	}
}

func TestStepUsesPreUpdateState(t *testing.T) {
	src := dynamo.NewField(1, 1)
	src.U[0], src.V[0] = 0.8, 0.4

	p := params(0.2, 0.1, 0.04, 0.06, 1)
	p.Boundary = dynamo.Periodic
	g := NewGrayScott(1, 1, p)
	dst := dynamo.NewField(1, 1)
	g.Step(dst, src)

	u, v := 0.8, 0.4
	r := u * v * v
	wantU := u + (-r + 0.04*(1-u))
	wantV := v + (r - 0.1*v)
	if math.Abs(float64(dst.U[0])-wantU) > 1e-6 {
		t.Errorf("u = %g, want %g", dst.U[0], wantU)
	}
	if math.Abs(float64(dst.V[0])-wantV) > 1e-6 {
		t.Errorf("v = %g, want %g", dst.V[0], wantV)
	}
}

func TestStepDoesNotClamp(t *testing.T) {
	src := dynamo.NewField(3, 3)
	for i := range src.U {
		src.U[i], src.V[i] = 1, 1
	}
	g := NewGrayScott(3, 3, params(0, 0, 0, 0, 10))
	dst := dynamo.NewField(3, 3)
	g.Step(dst, src)
	if dst.V[0] <= 1 || dst.U[0] >= 0 {
		t.Errorf("expected excursion outside [0,1], got u=%g v=%g", dst.U[0], dst.V[0])
	}
}

func TestParallelStepMatchesSerial(t *testing.T) {
	const w, h = 70, 40
	src := dynamo.NewField(w, h)
	copy(src.U, randomPlane(w*h, 11))
	copy(src.V, randomPlane(w*h, 12))

	p := params(1, 0.5, 0.055, 0.062, 1)
	p.Boundary = dynamo.Periodic
	serial := NewGrayScottWith(w, h, p, compute.NewSerialBackend())
	parallel := NewGrayScottWith(w, h, p, compute.NewCPUBackendN(4))

	a, b := src.Clone(), src.Clone()
	na, nb := dynamo.NewField(w, h), dynamo.NewField(w, h)
	for step := 0; step < 5; step++ {
		serial.Step(na, a)
		parallel.Step(nb, b)
		a, na = na, a
		b, nb = nb, b
	}
	for i := range a.U {
		if a.U[i] != b.U[i] || a.V[i] != b.V[i] {
			t.Fatalf("cell %d differs: serial (%g, %g) parallel (%g, %g)", i, a.U[i], a.V[i], b.U[i], b.V[i])
		}
	}
}
