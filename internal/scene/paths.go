// Package scene builds the 3D thread geometry of a woven grid and renders a
// shaded preview of it.
package scene

import (
	"image/color"

	"weave-studio/internal/params"

	"gonum.org/v1/gonum/spatial/r3"
)

// Kind identifies the axis a thread runs along.
type Kind int

const (
	Weft Kind = iota // along X, one per row
	Warp             // along Z, one per column
)

func (k Kind) String() string {
	if k == Warp {
		return "warp"
	}
	return "weft"
}

// Path is the sampled centre line of one thread.
type Path struct {
	Kind   Kind
	Index  int
	Color  color.NRGBA
	Points []r3.Vec
}

// ThreadPaths samples the crossing rule along every thread. Each thread gets
// GridSize+1 points, one per intersection including the closing edge. The grid
// is centred on the origin in the XZ plane; at a crossing the thread on top is
// raised to +Height and the one below lowered to -Height.
func ThreadPaths(p params.Params) (weft, warp []Path) {
	n := p.GridSize
	s := p.Spacing
	half := float64(n) * s / 2

	weft = make([]Path, 0, n)
	for row := 0; row < n; row++ {
		pts := make([]r3.Vec, 0, n+1)
		z := float64(row)*s - half
		for col := 0; col <= n; col++ {
			y := p.Height
			if p.IsWarpOver(row, col) {
				y = -p.Height
			}
			pts = append(pts, r3.Vec{X: float64(col)*s - half, Y: y, Z: z})
		}
		weft = append(weft, Path{Kind: Weft, Index: row, Color: p.WeftColor, Points: pts})
	}

	warp = make([]Path, 0, n)
	for col := 0; col < n; col++ {
		pts := make([]r3.Vec, 0, n+1)
		x := float64(col)*s - half
		for row := 0; row <= n; row++ {
			y := -p.Height
			if p.IsWarpOver(row, col) {
				y = p.Height
			}
			pts = append(pts, r3.Vec{X: x, Y: y, Z: float64(row)*s - half})
		}
		warp = append(warp, Path{Kind: Warp, Index: col, Color: p.WarpColor, Points: pts})
	}
	return weft, warp
}
