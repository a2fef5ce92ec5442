package sim

import (
	"sync"

	"github.com/san-kum/rdsim/internal/dynamo"
)

// FieldPool recycles fields of one grid size. Fields returned by Get have
// undefined contents.
type FieldPool struct {
	pool sync.Pool
	w, h int
}

func NewFieldPool(w, h int) *FieldPool {
	return &FieldPool{
		w: w,
		h: h,
		pool: sync.Pool{
			New: func() interface{} {
				return dynamo.NewField(w, h)
			},
		},
	}
}

func (p *FieldPool) Get() *dynamo.Field {
	return p.pool.Get().(*dynamo.Field)
}

func (p *FieldPool) Put(f *dynamo.Field) {
	if f != nil && f.W == p.w && f.H == p.h && len(f.U) == p.w*p.h {
		p.pool.Put(f)
	}
}

func (p *FieldPool) GetAndCopy(src *dynamo.Field) *dynamo.Field {
	dst := p.Get()
	copy(dst.U, src.U)
	copy(dst.V, src.V)
	return dst
}
