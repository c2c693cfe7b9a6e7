// Package geometry provides basic 2D geometric types used by the renderers.
package geometry

import "github.com/gogpu/gg"

// Point2D represents a 2D point with floating-point coordinates.
type Point2D struct {
	X, Y float64
}

// NewPoint2D creates a new Point2D.
func NewPoint2D(x, y float64) Point2D {
	return Point2D{X: x, Y: y}
}

// Add returns the sum of two points.
func (p Point2D) Add(other Point2D) Point2D {
	return Point2D{X: p.X + other.X, Y: p.Y + other.Y}
}

// GG converts the point for the gg path API.
func (p Point2D) GG() gg.Point {
	return gg.Pt(p.X, p.Y)
}

// Segment is a straight line between two points.
type Segment struct {
	From, To Point2D
}
