package scene

import (
	"image"
	"image/color"
	"log"
	"math"
	"sort"
	"sync"

	"weave-studio/internal/params"
	"weave-studio/pkg/colorutil"

	"github.com/gogpu/gg"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r3"
)

// sceneScaleDivisor maps the zoom control to the scene scale (zoom/50).
const sceneScaleDivisor = 50

// Camera is a perspective camera looking straight down the -Y axis with
// screen up along -Z.
type Camera struct {
	Position r3.Vec
	FOV      float64 // vertical field of view in radians
	Distance float64 // height above the XZ plane
}

// DefaultCamera returns the camera of the 3D view: 20 units above the
// origin with a 50° field of view.
func DefaultCamera() Camera {
	return Camera{
		Position: r3.Vec{Y: 20},
		FOV:      50 * math.Pi / 180,
		Distance: 20,
	}
}

// viewMatrix returns the 4x4 transform from scene coordinates to camera
// coordinates for a scene scaled by scale.
func (c Camera) viewMatrix(scale float64) *mat.Dense {
	// Rotating +90° about X undoes the camera's -90° pitch.
	rot := mat.NewDense(4, 4, []float64{
		1, 0, 0, 0,
		0, 0, -1, 0,
		0, 1, 0, 0,
		0, 0, 0, 1,
	})
	trans := mat.NewDense(4, 4, []float64{
		1, 0, 0, -c.Position.X,
		0, 1, 0, -c.Position.Y,
		0, 0, 1, -c.Position.Z,
		0, 0, 0, 1,
	})
	scl := mat.NewDense(4, 4, []float64{
		scale, 0, 0, 0,
		0, scale, 0, 0,
		0, 0, scale, 0,
		0, 0, 0, 1,
	})
	var view mat.Dense
	view.Mul(rot, trans)
	view.Mul(&view, scl)
	return &view
}

// Light is a directional light shining from Position toward the origin.
type Light struct {
	Position  r3.Vec
	Intensity float64
}

// Lighting is the light rig of the preview.
type Lighting struct {
	Ambient     float64
	Directional []Light
}

// DefaultLighting returns ambient 0.6 plus a key light and a fill light.
func DefaultLighting() Lighting {
	return Lighting{
		Ambient: 0.6,
		Directional: []Light{
			{Position: r3.Vec{X: 10, Y: 10, Z: 5}, Intensity: 0.8},
			{Position: r3.Vec{X: -10, Y: 10, Z: -5}, Intensity: 0.4},
		},
	}
}

// Intensity returns the Lambert intensity for a surface normal.
func (l Lighting) Intensity(normal r3.Vec) float64 {
	v := l.Ambient
	for _, d := range l.Directional {
		if ndl := r3.Dot(normal, r3.Unit(d.Position)); ndl > 0 {
			v += ndl * d.Intensity
		}
	}
	return v
}

// Renderer draws a shaded preview of the scene for the current parameters.
// Scenes come from a Cache, and the last frame is kept so repeated refreshes
// with unchanged inputs are free.
type Renderer struct {
	Camera     Camera
	Lighting   Lighting
	Background color.NRGBA

	cache *Cache

	mu       sync.Mutex
	lastKey  frameKey
	lastImg  image.Image
	lastTris int
}

type frameKey struct {
	scene         uint64
	zoom          float64
	panX, panY    float64
	width, height int
}

// NewRenderer creates a scene renderer backed by cache. A nil cache gets a
// private one.
func NewRenderer(cache *Cache) *Renderer {
	if cache == nil {
		cache = NewCache()
	}
	return &Renderer{
		Camera:     DefaultCamera(),
		Lighting:   DefaultLighting(),
		Background: colorutil.White,
		cache:      cache,
	}
}

// Cache returns the scene cache used by the renderer.
func (r *Renderer) Cache() *Cache {
	return r.cache
}

// projected is a triangle in screen space ready for painting.
type projected struct {
	pts   [3]gg.Point
	depth float64
	col   color.NRGBA
}

// Render implements the 2D renderer interface for the 3D preview.
func (r *Renderer) Render(p params.Params, width, height int) image.Image {
	if width <= 0 || height <= 0 {
		return image.NewNRGBA(image.Rect(0, 0, 0, 0))
	}
	p = Resolve(p, width, height)
	s := r.cache.Get(p)

	key := frameKey{scene: s.Key, zoom: p.Zoom, panX: p.PanX, panY: p.PanY, width: width, height: height}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.lastImg != nil && r.lastKey == key {
		return r.lastImg
	}

	tris := r.project(s, p, width, height)
	sort.Slice(tris, func(i, j int) bool { return tris[i].depth > tris[j].depth })

	dc := gg.NewContext(width, height)
	defer dc.Close()
	dc.ClearWithColor(gg.FromColor(r.Background))
	dc.SetLineWidth(0.5)
	for _, t := range tris {
		dc.SetColor(t.col)
		dc.MoveTo(t.pts[0].X, t.pts[0].Y)
		dc.LineTo(t.pts[1].X, t.pts[1].Y)
		dc.LineTo(t.pts[2].X, t.pts[2].Y)
		dc.ClosePath()
		// The hairline stroke hides anti-aliasing seams between neighbours.
		if err := dc.FillPreserve(); err != nil {
			log.Printf("Scene: fill triangle: %v", err)
		}
		if err := dc.Stroke(); err != nil {
			log.Printf("Scene: stroke triangle: %v", err)
		}
	}

	r.lastKey = key
	r.lastImg = dc.Image()
	r.lastTris = len(tris)
	return r.lastImg
}

// LastTriangleCount returns how many triangles the last frame painted after
// culling.
func (r *Renderer) LastTriangleCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.lastTris
}

// project transforms, culls and shades every triangle of the scene.
func (r *Renderer) project(s *Scene, p params.Params, width, height int) []projected {
	scale := p.Zoom / sceneScaleDivisor
	view := r.Camera.viewMatrix(scale)
	var m [3][4]float64
	for i := 0; i < 3; i++ {
		for j := 0; j < 4; j++ {
			m[i][j] = view.At(i, j)
		}
	}
	focal := float64(height) / 2 / math.Tan(r.Camera.FOV/2)
	cx := float64(width)/2 + p.PanX
	cy := float64(height)/2 + p.PanY
	// Camera position in unscaled scene coordinates, for back-face tests.
	eye := r3.Scale(1/scale, r.Camera.Position)

	var out []projected
	for _, th := range s.Threads {
		mesh := th.Mesh
		screen := make([]gg.Point, len(mesh.Vertices))
		depth := make([]float64, len(mesh.Vertices))
		for i, v := range mesh.Vertices {
			x := m[0][0]*v.X + m[0][1]*v.Y + m[0][2]*v.Z + m[0][3]
			y := m[1][0]*v.X + m[1][1]*v.Y + m[1][2]*v.Z + m[1][3]
			z := m[2][0]*v.X + m[2][1]*v.Y + m[2][2]*v.Z + m[2][3]
			d := -z
			if d < 1e-6 {
				d = 1e-6
			}
			screen[i] = gg.Point{X: cx + focal*x/d, Y: cy - focal*y/d}
			depth[i] = d
		}

		for t := 0; t < mesh.TriangleCount(); t++ {
			a, b, c := mesh.Triangle(t)
			va, vb, vc := mesh.Vertices[a], mesh.Vertices[b], mesh.Vertices[c]
			centroid := r3.Scale(1.0/3, r3.Add(va, r3.Add(vb, vc)))
			n := r3.Add(mesh.Normals[a], r3.Add(mesh.Normals[b], mesh.Normals[c]))
			if r3.Norm(n) == 0 {
				continue
			}
			n = r3.Unit(n)
			if r3.Dot(n, r3.Sub(eye, centroid)) <= 0 {
				continue
			}
			out = append(out, projected{
				pts:   [3]gg.Point{screen[a], screen[b], screen[c]},
				depth: (depth[a] + depth[b] + depth[c]) / 3,
				col:   colorutil.Shade(th.Color, math.Min(1.2, r.Lighting.Intensity(n))),
			})
		}
	}
	return out
}
