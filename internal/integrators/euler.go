package integrators

import (
	"github.com/san-kum/rdsim/internal/compute"
	"github.com/san-kum/rdsim/internal/dynamo"
)

// GrayScott advances a field by one explicit Euler step of
//
//	dU/dt = ru*lap(U) - U*V^2 + f*(1-U)
//	dV/dt = rv*lap(V) + U*V^2 - (f+k)*V
//
// Both species are updated from the same pre-step state.
type GrayScott struct {
	ru, rv, f, k, dt float64

	stencil    *Stencil
	lapU, lapV []float32

	backend compute.Backend
	acc     [][]float64
}

// NewGrayScott uses the active compute backend.
func NewGrayScott(w, h int, p dynamo.Params) *GrayScott {
	return NewGrayScottWith(w, h, p, compute.GetBackend())
}

func NewGrayScottWith(w, h int, p dynamo.Params, b compute.Backend) *GrayScott {
	acc := make([][]float64, b.Workers())
	for i := range acc {
		acc[i] = make([]float64, h)
	}
	return &GrayScott{
		ru:      p.Ru,
		rv:      p.Rv,
		f:       p.F,
		k:       p.K,
		dt:      p.Dt,
		stencil: NewStencil(w, h, p.Kernel, p.Boundary),
		lapU:    make([]float32, w*h),
		lapV:    make([]float32, w*h),
		backend: b,
		acc:     acc,
	}
}

// Step writes the successor of src into dst. dst must not alias src.
// Column bands are independent, so the result does not depend on the
// backend.
func (g *GrayScott) Step(dst, src *dynamo.Field) {
	h := src.H
	g.backend.Range(src.W, func(worker, lo, hi int) {
		acc := g.acc[worker]
		g.stencil.ApplyCols(g.lapU, src.U, lo, hi, acc)
		g.stencil.ApplyCols(g.lapV, src.V, lo, hi, acc)
		g.react(dst, src, lo*h, hi*h)
	})
}

func (g *GrayScott) react(dst, src *dynamo.Field, from, to int) {
	feed, loss, dt := g.f, g.f+g.k, g.dt
	for i := from; i < to; i++ {
		u := float64(src.U[i])
		v := float64(src.V[i])
		uvv := u * v * v
		dst.U[i] = float32(u + dt*(g.ru*float64(g.lapU[i])-uvv+feed*(1-u)))
		dst.V[i] = float32(v + dt*(g.rv*float64(g.lapV[i])+uvv-loss*v))
	}
}
