package scene

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/spatial/r3"
)

// arcLengthDivisions is the sample count of the arc-length lookup table.
const arcLengthDivisions = 200

// Curve is an open centripetal Catmull-Rom spline through a set of points.
// Point takes the spline parameter; PointAt and TangentAt take a fraction of
// the arc length.
type Curve struct {
	points  []r3.Vec
	lengths []float64 // cumulative length at i/arcLengthDivisions
}

// NewCurve builds a curve through points. At least two points are required
// for a non-degenerate curve.
func NewCurve(points []r3.Vec) *Curve {
	c := &Curve{points: points}
	c.lengths = make([]float64, arcLengthDivisions+1)
	if len(points) < 2 {
		return c
	}
	prev := c.Point(0)
	for i := 1; i <= arcLengthDivisions; i++ {
		cur := c.Point(float64(i) / arcLengthDivisions)
		c.lengths[i] = c.lengths[i-1] + r3.Norm(r3.Sub(cur, prev))
		prev = cur
	}
	return c
}

// Length returns the approximate arc length.
func (c *Curve) Length() float64 {
	return c.lengths[len(c.lengths)-1]
}

// Point evaluates the spline at parameter t in [0, 1].
func (c *Curve) Point(t float64) r3.Vec {
	n := len(c.points)
	switch n {
	case 0:
		return r3.Vec{}
	case 1:
		return c.points[0]
	}

	p := float64(n-1) * t
	seg := int(math.Floor(p))
	w := p - float64(seg)
	if seg >= n-1 {
		seg, w = n-2, 1
	}
	if seg < 0 {
		seg, w = 0, 0
	}

	var p0, p3 r3.Vec
	if seg > 0 {
		p0 = c.points[seg-1]
	} else {
		p0 = r3.Add(c.points[0], r3.Sub(c.points[0], c.points[1]))
	}
	p1, p2 := c.points[seg], c.points[seg+1]
	if seg+2 < n {
		p3 = c.points[seg+2]
	} else {
		p3 = r3.Add(c.points[n-1], r3.Sub(c.points[n-1], c.points[n-2]))
	}

	// Centripetal parameterisation: knot spacing is the square root of the
	// chord length.
	dt0 := math.Pow(r3.Norm2(r3.Sub(p1, p0)), 0.25)
	dt1 := math.Pow(r3.Norm2(r3.Sub(p2, p1)), 0.25)
	dt2 := math.Pow(r3.Norm2(r3.Sub(p3, p2)), 0.25)
	if dt1 < 1e-4 {
		dt1 = 1
	}
	if dt0 < 1e-4 {
		dt0 = dt1
	}
	if dt2 < 1e-4 {
		dt2 = dt1
	}

	return r3.Vec{
		X: nonuniformCatmullRom(p0.X, p1.X, p2.X, p3.X, dt0, dt1, dt2, w),
		Y: nonuniformCatmullRom(p0.Y, p1.Y, p2.Y, p3.Y, dt0, dt1, dt2, w),
		Z: nonuniformCatmullRom(p0.Z, p1.Z, p2.Z, p3.Z, dt0, dt1, dt2, w),
	}
}

// nonuniformCatmullRom evaluates one coordinate of the segment between x1
// and x2 as a cubic Hermite polynomial.
func nonuniformCatmullRom(x0, x1, x2, x3, dt0, dt1, dt2, t float64) float64 {
	t1 := (x1-x0)/dt0 - (x2-x0)/(dt0+dt1) + (x2-x1)/dt1
	t2 := (x2-x1)/dt1 - (x3-x1)/(dt1+dt2) + (x3-x2)/dt2
	t1 *= dt1
	t2 *= dt1

	c0 := x1
	c1 := t1
	c2 := -3*x1 + 3*x2 - 2*t1 - t2
	c3 := 2*x1 - 2*x2 + t1 + t2
	return c0 + c1*t + c2*t*t + c3*t*t*t
}

// paramAt maps an arc-length fraction u to the spline parameter.
func (c *Curve) paramAt(u float64) float64 {
	total := c.Length()
	if total == 0 {
		return u
	}
	target := u * total
	// First index whose cumulative length reaches target.
	i := sort.SearchFloat64s(c.lengths, target)
	if i <= 0 {
		return 0
	}
	if i > arcLengthDivisions {
		return 1
	}
	before, after := c.lengths[i-1], c.lengths[i]
	frac := 0.0
	if seg := after - before; seg > 0 {
		frac = (target - before) / seg
	}
	return (float64(i-1) + frac) / arcLengthDivisions
}

// PointAt returns the point at arc-length fraction u in [0, 1].
func (c *Curve) PointAt(u float64) r3.Vec {
	return c.Point(c.paramAt(u))
}

// TangentAt returns the unit tangent at arc-length fraction u.
func (c *Curve) TangentAt(u float64) r3.Vec {
	const delta = 1e-4
	t := c.paramAt(u)
	t1 := math.Max(0, t-delta)
	t2 := math.Min(1, t+delta)
	d := r3.Sub(c.Point(t2), c.Point(t1))
	if r3.Norm(d) == 0 {
		return r3.Vec{X: 1}
	}
	return r3.Unit(d)
}
