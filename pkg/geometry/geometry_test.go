package geometry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatmullRomPassesThroughPoints(t *testing.T) {
	pts := []Point2D{{X: 0, Y: 0}, {X: 10, Y: 4}, {X: 20, Y: -4}, {X: 30, Y: 0}}
	curves := CatmullRom(pts)
	require.Len(t, curves, 3)

	for i, c := range curves {
		assert.Equal(t, pts[i].GG(), c.Eval(0))
		p := c.Eval(1)
		assert.InDelta(t, pts[i+1].X, p.X, 1e-9)
		assert.InDelta(t, pts[i+1].Y, p.Y, 1e-9)
	}
}

func TestCatmullRomStraightLine(t *testing.T) {
	pts := []Point2D{{X: 0, Y: 2}, {X: 5, Y: 2}, {X: 10, Y: 2}}
	for _, c := range CatmullRom(pts) {
		for _, tt := range []float64{0.25, 0.5, 0.75} {
			assert.InDelta(t, 2, c.Eval(tt).Y, 1e-9)
		}
	}
	assert.Nil(t, CatmullRom(pts[:1]))
}

func TestCatmullRomTangentsAreContinuous(t *testing.T) {
	pts := []Point2D{{X: 0, Y: 0}, {X: 10, Y: 6}, {X: 20, Y: -6}, {X: 30, Y: 0}}
	curves := CatmullRom(pts)
	for i := 0; i+1 < len(curves); i++ {
		in := curves[i].P3.Sub(curves[i].P2)
		out := curves[i+1].P1.Sub(curves[i+1].P0)
		assert.InDelta(t, in.X, out.X, 1e-9)
		assert.InDelta(t, in.Y, out.Y, 1e-9)
	}
}

func TestCatmullRomHalvesMeetAtMidpoint(t *testing.T) {
	c := CatmullRom([]Point2D{{X: 0, Y: 0}, {X: 6, Y: 3}})[0]
	left, right := c.Subdivide()
	mid := c.Eval(0.5)
	assert.InDelta(t, mid.X, left.P3.X, 1e-9)
	assert.InDelta(t, mid.Y, left.P3.Y, 1e-9)
	assert.Equal(t, left.P3, right.P0)
}

func TestPointConversion(t *testing.T) {
	p := NewPoint2D(1.5, -2).Add(NewPoint2D(0.5, 1))
	assert.Equal(t, Point2D{X: 2, Y: -1}, p)
	g := p.GG()
	assert.Equal(t, 2.0, g.X)
	assert.Equal(t, -1.0, g.Y)
}
