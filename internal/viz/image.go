package viz

import (
	"fmt"
	"image"
	"image/color"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/san-kum/rdsim/internal/dynamo"
)

// FrameImage draws species s of f with one palette entry per cell, so
// pixel (x, y) is cell (x, y). scale repeats each cell scale times along
// both axes.
func FrameImage(f *dynamo.Field, s dynamo.Species, cm *Colormap, scale int) *image.Paletted {
	scale = max(scale, 1)
	img := image.NewPaletted(image.Rect(0, 0, f.W*scale, f.H*scale), cm.Palette())
	plane := f.Plane(s)
	for x := 0; x < f.W; x++ {
		for y := 0; y < f.H; y++ {
			idx := cm.Index(float64(plane[f.Index(x, y)]))
			for dx := 0; dx < scale; dx++ {
				for dy := 0; dy < scale; dy++ {
					img.SetColorIndex(x*scale+dx, y*scale+dy, idx)
				}
			}
		}
	}
	return img
}

// FrameRGBA draws species s of f as true colour.
func FrameRGBA(f *dynamo.Field, s dynamo.Species, cm *Colormap) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, f.W, f.H))
	plane := f.Plane(s)
	for x := 0; x < f.W; x++ {
		for y := 0; y < f.H; y++ {
			img.SetRGBA(x, y, cm.At(float64(plane[f.Index(x, y)])))
		}
	}
	return img
}

// Blend shows both species at once: U drives green and V drives magenta.
func Blend(f *dynamo.Field) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, f.W, f.H))
	for x := 0; x < f.W; x++ {
		for y := 0; y < f.H; y++ {
			i := f.Index(x, y)
			u, v := to8(f.U[i]), to8(f.V[i])
			img.SetRGBA(x, y, color.RGBA{R: v, G: u, B: v, A: 255})
		}
	}
	return img
}

func to8(v float32) uint8 {
	switch {
	case v <= 0 || v != v:
		return 0
	case v >= 1:
		return 255
	}
	return uint8(v * 255)
}

// Scale enlarges img by an integer factor without smoothing.
func Scale(img image.Image, factor int) *image.RGBA {
	b := img.Bounds()
	factor = max(factor, 1)
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx()*factor, b.Dy()*factor))
	draw.NearestNeighbor.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
	return dst
}

// Label writes text in the top left corner of img.
func Label(img draw.Image, text string) {
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(color.White),
		Face: basicfont.Face7x13,
		Dot:  fixed.P(2, 12),
	}
	d.DrawString(text)
}

func frameLabel(ts *dynamo.TimeSeries, i int, s dynamo.Species) string {
	return fmt.Sprintf("%s t=%g", s, ts.Time(i))
}
