package geometry

import "github.com/gogpu/gg"

// CatmullRom converts a uniform Catmull-Rom spline through points into
// cubic Bézier pieces, one per consecutive pair. The end tangents are taken
// from a mirrored neighbour so the curve starts and ends on the first and last
// points.
func CatmullRom(points []Point2D) []gg.CubicBez {
	if len(points) < 2 {
		return nil
	}
	n := len(points)
	at := func(i int) gg.Point {
		switch {
		case i < 0:
			return points[0].GG().Mul(2).Sub(points[1].GG())
		case i >= n:
			return points[n-1].GG().Mul(2).Sub(points[n-2].GG())
		default:
			return points[i].GG()
		}
	}

	curves := make([]gg.CubicBez, 0, n-1)
	for i := 0; i < n-1; i++ {
		p0, p1, p2, p3 := at(i-1), at(i), at(i+1), at(i+2)
		curves = append(curves, gg.NewCubicBez(
			p1,
			p1.Add(p2.Sub(p0).Mul(1.0/6)),
			p2.Sub(p3.Sub(p1).Mul(1.0/6)),
			p2,
		))
	}
	return curves
}
