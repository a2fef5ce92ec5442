//go:build ebiten

package gui

import (
	"github.com/hajimehoshi/ebiten/v2"

	"github.com/san-kum/rdsim/internal/dynamo"
	"github.com/san-kum/rdsim/internal/viz"
)

// GridPainter uploads one species of a field into a reusable image.
type GridPainter struct {
	w, h int
	img  *ebiten.Image
	buf  []byte
}

func NewGridPainter(w, h int) *GridPainter {
	return &GridPainter{w: w, h: h, img: ebiten.NewImage(w, h), buf: make([]byte, 4*w*h)}
}

// Blit colours species s of f and draws it scaled onto dst.
func (gp *GridPainter) Blit(dst *ebiten.Image, f *dynamo.Field, s dynamo.Species, cm *viz.Colormap, scale int) {
	if f.W != gp.w || f.H != gp.h {
		return
	}
	fillRGBA(gp.buf, f, s, cm)
	gp.img.WritePixels(gp.buf)

	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(float64(scale), float64(scale))
	dst.DrawImage(gp.img, op)
}

// fillRGBA writes row-major pixels; the field itself is x-major.
func fillRGBA(buf []byte, f *dynamo.Field, s dynamo.Species, cm *viz.Colormap) {
	plane := f.Plane(s)
	for y := 0; y < f.H; y++ {
		for x := 0; x < f.W; x++ {
			c := cm.At(float64(plane[f.Index(x, y)]))
			i := 4 * (y*f.W + x)
			buf[i], buf[i+1], buf[i+2], buf[i+3] = c.R, c.G, c.B, 255
		}
	}
}
