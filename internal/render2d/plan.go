// Package render2d draws weave patterns onto a flat canvas.
//
// Rendering is split in two steps: a pure planning step that turns Params and
// a viewport size into thread geometry, and a drawing step that strokes the
// planned geometry onto a gg context.
package render2d

import (
	"math"

	"weave-studio/internal/params"
	"weave-studio/pkg/geometry"
)

// OverdrawCells is the number of extra cells planned beyond the viewport so
// no seam shows at the edges while panning or resizing.
const OverdrawCells = 2

// Ribbon proportions, as fractions of the thread size.
const (
	LiftFraction   = 0.12 // perpendicular offset at a crossing
	RibbonFraction = 0.6  // ribbon width
	ShadowFraction = 0.08 // shadow offset
)

// Thread identifies the axis a thread runs along.
type Thread int

const (
	Weft Thread = iota // horizontal
	Warp               // vertical
)

func (t Thread) String() string {
	if t == Warp {
		return "warp"
	}
	return "weft"
}

// Extent returns how many warp (column) and weft (row) threads cover a
// width x height viewport at the given thread size, including the overdraw
// margin. count*threadSize >= dimension always holds.
func Extent(width, height int, threadSize float64) (warpCount, weftCount int) {
	if threadSize <= 0 {
		return 0, 0
	}
	warpCount = int(math.Ceil(float64(width)/threadSize)) + OverdrawCells
	weftCount = int(math.Ceil(float64(height)/threadSize)) + OverdrawCells
	return warpCount, weftCount
}

// origin returns the grid index of the first visible cell along one axis and
// its screen coordinate, which lies in (-threadSize, 0].
func origin(pan, threadSize float64) (first int, start float64) {
	first = int(math.Floor(-pan / threadSize))
	start = float64(first)*threadSize + pan
	return first, start
}

// Segment is one stroked piece of a thread.
type Segment struct {
	Thread Thread
	geometry.Segment
}

// Cell is a single crossing and the line segments drawn for it.
type Cell struct {
	Row, Col int
	Origin   geometry.Point2D // top-left corner on screen
	WarpOver bool
	Segments []Segment
}

// Frame is the planned line geometry for one viewport.
type Frame struct {
	Width, Height        int
	ThreadSize           float64
	WarpCount, WeftCount int
	Cells                []Cell // row-major
}

// Cell returns the cell at the given grid coordinate, if it was planned.
func (f Frame) Cell(row, col int) (Cell, bool) {
	for _, c := range f.Cells {
		if c.Row == row && c.Col == col {
			return c, true
		}
	}
	return Cell{}, false
}

// PlanLines lays out the simple line variant. The thread on top is drawn as
// one full segment across the cell; the thread below is broken into two
// segments leaving a gap of a third of the cell around the crossing.
func PlanLines(p params.Params, width, height int) Frame {
	t := p.Zoom
	warpCount, weftCount := Extent(width, height, t)
	firstCol, x0 := origin(p.PanX, t)
	firstRow, y0 := origin(p.PanY, t)

	f := Frame{
		Width:      width,
		Height:     height,
		ThreadSize: t,
		WarpCount:  warpCount,
		WeftCount:  weftCount,
		Cells:      make([]Cell, 0, warpCount*weftCount),
	}

	for i := 0; i < weftCount; i++ {
		for j := 0; j < warpCount; j++ {
			row, col := firstRow+i, firstCol+j
			x := x0 + float64(j)*t
			y := y0 + float64(i)*t
			over := p.IsWarpOver(row, col)

			cell := Cell{
				Row:      row,
				Col:      col,
				Origin:   geometry.NewPoint2D(x, y),
				WarpOver: over,
			}
			midX, midY := x+t/2, y+t/2
			if over {
				cell.Segments = []Segment{
					seg(Weft, x, midY, x+t/3, midY),
					seg(Weft, x+2*t/3, midY, x+t, midY),
					seg(Warp, midX, y, midX, y+t),
				}
			} else {
				cell.Segments = []Segment{
					seg(Warp, midX, y, midX, y+t/3),
					seg(Warp, midX, y+2*t/3, midX, y+t),
					seg(Weft, x, midY, x+t, midY),
				}
			}
			f.Cells = append(f.Cells, cell)
		}
	}
	return f
}

func seg(th Thread, x1, y1, x2, y2 float64) Segment {
	return Segment{
		Thread:  th,
		Segment: geometry.Segment{From: geometry.NewPoint2D(x1, y1), To: geometry.NewPoint2D(x2, y2)},
	}
}

// Ribbon is one full thread line of the ribbon variant.
type Ribbon struct {
	Thread Thread
	Index  int // grid row for weft, grid column for warp

	// Points holds the lead-in edge point, one point per crossing and the
	// lead-out edge point. Crossing points are lifted perpendicular to the
	// thread.
	Points []geometry.Point2D

	// Over[i] reports whether this thread is on top at crossing i, which
	// sits at Points[i+1].
	Over []bool
}

// PlanRibbons lays out one ribbon per weft row and per warp column covering
// the viewport. At each crossing the thread on top is lifted toward the
// negative axis by LiftFraction of the thread size and the one below is pushed
// the other way.
func PlanRibbons(p params.Params, width, height int) (weft, warp []Ribbon) {
	t := p.Zoom
	lift := LiftFraction * t
	warpCount, weftCount := Extent(width, height, t)
	firstCol, x0 := origin(p.PanX, t)
	firstRow, y0 := origin(p.PanY, t)

	offset := func(top bool) float64 {
		if top {
			return -lift
		}
		return lift
	}

	weft = make([]Ribbon, 0, weftCount)
	for i := 0; i < weftCount; i++ {
		row := firstRow + i
		y := y0 + float64(i)*t + t/2
		r := Ribbon{
			Thread: Weft,
			Index:  row,
			Points: make([]geometry.Point2D, 0, warpCount+2),
			Over:   make([]bool, 0, warpCount),
		}
		r.Points = append(r.Points, geometry.NewPoint2D(x0, y))
		for j := 0; j < warpCount; j++ {
			top := !p.IsWarpOver(row, firstCol+j)
			x := x0 + float64(j)*t + t/2
			r.Points = append(r.Points, geometry.NewPoint2D(x, y+offset(top)))
			r.Over = append(r.Over, top)
		}
		r.Points = append(r.Points, geometry.NewPoint2D(x0+float64(warpCount)*t, y))
		weft = append(weft, r)
	}

	warp = make([]Ribbon, 0, warpCount)
	for j := 0; j < warpCount; j++ {
		col := firstCol + j
		x := x0 + float64(j)*t + t/2
		r := Ribbon{
			Thread: Warp,
			Index:  col,
			Points: make([]geometry.Point2D, 0, weftCount+2),
			Over:   make([]bool, 0, weftCount),
		}
		r.Points = append(r.Points, geometry.NewPoint2D(x, y0))
		for i := 0; i < weftCount; i++ {
			top := p.IsWarpOver(firstRow+i, col)
			y := y0 + float64(i)*t + t/2
			r.Points = append(r.Points, geometry.NewPoint2D(x+offset(top), y))
			r.Over = append(r.Over, top)
		}
		r.Points = append(r.Points, geometry.NewPoint2D(x, y0+float64(weftCount)*t))
		warp = append(warp, r)
	}
	return weft, warp
}
