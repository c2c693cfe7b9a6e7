package scene

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// Tube tessellation defaults.
const (
	TubularSegments = 64
	RadialSegments  = 8
)

// Mesh is an indexed triangle mesh. Indices holds three entries per triangle.
type Mesh struct {
	Vertices []r3.Vec
	Normals  []r3.Vec
	Indices  []uint32
}

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int {
	return len(m.Vertices)
}

// TriangleCount returns the number of triangles.
func (m *Mesh) TriangleCount() int {
	return len(m.Indices) / 3
}

// Triangle returns the vertex indices of triangle i.
func (m *Mesh) Triangle(i int) (a, b, c uint32) {
	return m.Indices[3*i], m.Indices[3*i+1], m.Indices[3*i+2]
}

// Tube sweeps a circle of the given radius along the curve. Cross sections
// are oriented with parallel-transport frames so the tube does not twist.
// The result has (tubular+1)*(radial+1) vertices and tubular*radial*2
// triangles; the seam column is duplicated so every ring is closed.
func Tube(c *Curve, tubular int, radius float64, radial int) *Mesh {
	normals, binormals := frames(c, tubular)

	m := &Mesh{
		Vertices: make([]r3.Vec, 0, (tubular+1)*(radial+1)),
		Normals:  make([]r3.Vec, 0, (tubular+1)*(radial+1)),
		Indices:  make([]uint32, 0, tubular*radial*6),
	}

	for i := 0; i <= tubular; i++ {
		center := c.PointAt(float64(i) / float64(tubular))
		n, b := normals[i], binormals[i]
		for j := 0; j <= radial; j++ {
			v := float64(j) / float64(radial) * 2 * math.Pi
			dir := r3.Unit(r3.Add(r3.Scale(-math.Cos(v), n), r3.Scale(math.Sin(v), b)))
			m.Normals = append(m.Normals, dir)
			m.Vertices = append(m.Vertices, r3.Add(center, r3.Scale(radius, dir)))
		}
	}

	ring := uint32(radial + 1)
	for j := uint32(1); j <= uint32(tubular); j++ {
		for i := uint32(1); i <= uint32(radial); i++ {
			a := ring*(j-1) + (i - 1)
			b := ring*j + (i - 1)
			cc := ring*j + i
			d := ring*(j-1) + i
			m.Indices = append(m.Indices, a, b, d, b, cc, d)
		}
	}
	return m
}

// frames computes a normal and binormal per tube ring. The first normal is
// perpendicular to the tangent along its smallest component; later frames
// rotate the previous one by the turn between consecutive tangents.
func frames(c *Curve, segments int) (normals, binormals []r3.Vec) {
	tangents := make([]r3.Vec, segments+1)
	for i := range tangents {
		tangents[i] = c.TangentAt(float64(i) / float64(segments))
	}
	normals = make([]r3.Vec, segments+1)
	binormals = make([]r3.Vec, segments+1)

	t0 := tangents[0]
	axis := r3.Vec{X: 1}
	minComp := math.Abs(t0.X)
	if math.Abs(t0.Y) <= minComp {
		minComp = math.Abs(t0.Y)
		axis = r3.Vec{Y: 1}
	}
	if math.Abs(t0.Z) <= minComp {
		axis = r3.Vec{Z: 1}
	}
	side := r3.Unit(r3.Cross(t0, axis))
	normals[0] = r3.Cross(t0, side)
	binormals[0] = r3.Cross(t0, normals[0])

	for i := 1; i <= segments; i++ {
		normals[i] = normals[i-1]
		turn := r3.Cross(tangents[i-1], tangents[i])
		if r3.Norm(turn) > 1e-9 {
			cos := math.Max(-1, math.Min(1, r3.Dot(tangents[i-1], tangents[i])))
			rot := r3.NewRotation(math.Acos(cos), r3.Unit(turn))
			normals[i] = rot.Rotate(normals[i])
		}
		binormals[i] = r3.Cross(tangents[i], normals[i])
	}
	return normals, binormals
}
