package gui

import (
	"github.com/san-kum/rdsim/internal/dynamo"
	"github.com/san-kum/rdsim/internal/initcond"
)

// Strokes collects what the user has drawn, in canvas pixels. Consecutive
// points of a drag are joined so fast mouse movement leaves no gaps.
type Strokes struct {
	U, V []initcond.Point

	last    initcond.Point
	drawing bool
	species dynamo.Species
}

// Begin starts a new stroke for species s at p.
func (st *Strokes) Begin(s dynamo.Species, p initcond.Point) {
	st.species = s
	st.drawing = true
	st.last = p
	st.add(p)
}

// Extend continues the current stroke to p. Without a stroke in progress it
// starts one.
func (st *Strokes) Extend(s dynamo.Species, p initcond.Point) {
	if !st.drawing || st.species != s {
		st.Begin(s, p)
		return
	}
	for _, q := range line(st.last, p)[1:] {
		st.add(q)
	}
	st.last = p
}

func (st *Strokes) End() { st.drawing = false }

func (st *Strokes) Clear() {
	st.U, st.V = nil, nil
	st.drawing = false
}

func (st *Strokes) Empty() bool { return len(st.U) == 0 && len(st.V) == 0 }

// Field rasterises the strokes onto a w x h grid drawn at scale pixels per
// cell.
func (st *Strokes) Field(w, h, scale int) (*dynamo.Field, error) {
	return initcond.FromStrokes([]int{w, h}, st.U, st.V, scale)
}

func (st *Strokes) add(p initcond.Point) {
	if st.species == dynamo.U {
		st.U = append(st.U, p)
	} else {
		st.V = append(st.V, p)
	}
}

// line returns a 4-connected Bresenham segment from a to b inclusive.
func line(a, b initcond.Point) []initcond.Point {
	dx, dy := abs(b.X-a.X), -abs(b.Y-a.Y)
	sx, sy := 1, 1
	if a.X > b.X {
		sx = -1
	}
	if a.Y > b.Y {
		sy = -1
	}

	pts := []initcond.Point{a}
	e := dx + dy
	for p := a; p != b; {
		if e2 := 2 * e; (e2 >= dy && p.X != b.X) || p.Y == b.Y {
			e += dy
			p.X += sx
		} else {
			e += dx
			p.Y += sy
		}
		pts = append(pts, p)
	}
	return pts
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
