package viz

import (
	"strings"

	"github.com/san-kum/rdsim/internal/dynamo"
)

// Braille Patterns: 2x4 dots
// 1 4
// 2 5
// 3 6
// 7 8
//
// Unicode offset 0x2800
var pixelMap = [4][2]int{
	{0x1, 0x8},
	{0x2, 0x10},
	{0x4, 0x20},
	{0x40, 0x80},
}

type Canvas struct {
	Width, Height int
	Grid          [][]rune
}

func NewCanvas(w, h int) *Canvas {
	c := &Canvas{
		Width:  w,
		Height: h,
		Grid:   make([][]rune, h),
	}
	for i := range c.Grid {
		c.Grid[i] = make([]rune, w)
		for j := range c.Grid[i] {
			c.Grid[i][j] = 0x2800 // Empty braille char
		}
	}
	return c
}

// Set lights the dot at (x, y) where x,y are in "sub-pixel" coordinates.
// The canvas size in sub-pixels is (Width*2) x (Height*4).
func (c *Canvas) Set(x, y int) {
	// Early bounds check for negative coordinates
	if x < 0 || y < 0 {
		return
	}

	col := x / 2
	row := y / 4
	if col >= c.Width || row >= c.Height {
		return
	}

	subX := x % 2
	subY := y % 4

	c.Grid[row][col] |= rune(pixelMap[subY][subX])
}

func (c *Canvas) String() string {
	var b strings.Builder
	for _, row := range c.Grid {
		b.WriteString(string(row) + "\n")
	}
	return b.String()
}

// RenderBraille marks every cell of species s above threshold, fitting the
// grid into a w x h character canvas.
func RenderBraille(f *dynamo.Field, s dynamo.Species, threshold float64, w, h int) *Canvas {
	c := NewCanvas(w, h)
	if f == nil || w <= 0 || h <= 0 {
		return c
	}
	plane := f.Plane(s)
	subW, subH := w*2, h*4
	for px := 0; px < subW; px++ {
		x := px * f.W / subW
		for py := 0; py < subH; py++ {
			y := py * f.H / subH
			if float64(plane[f.Index(x, y)]) > threshold {
				c.Set(px, py)
			}
		}
	}
	return c
}
