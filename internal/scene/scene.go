package scene

import (
	"image/color"
	"log"
	"math"
	"sync"
	"time"

	"weave-studio/internal/params"
)

// Thread is one tessellated thread of the scene.
type Thread struct {
	Kind  Kind
	Index int
	Color color.NRGBA
	Mesh  *Mesh
}

// Scene is the full set of thread meshes for one parameter bundle.
type Scene struct {
	Key     uint64 // params.Params.SceneKey of the source parameters
	Threads []Thread
}

// TriangleCount returns the total number of triangles in the scene.
func (s *Scene) TriangleCount() int {
	n := 0
	for _, t := range s.Threads {
		n += t.Mesh.TriangleCount()
	}
	return n
}

// Build tessellates one tube per thread, weft threads first. Each thread is a
// single continuous curve through all of its crossings.
func Build(p params.Params) *Scene {
	weft, warp := ThreadPaths(p)
	s := &Scene{
		Key:     p.SceneKey(),
		Threads: make([]Thread, 0, len(weft)+len(warp)),
	}
	for _, group := range [][]Path{weft, warp} {
		for _, path := range group {
			curve := NewCurve(path.Points)
			s.Threads = append(s.Threads, Thread{
				Kind:  path.Kind,
				Index: path.Index,
				Color: path.Color,
				Mesh:  Tube(curve, TubularSegments, p.Thickness, RadialSegments),
			})
		}
	}
	return s
}

// Cache memoizes the most recently built scene. Parameter changes that do not
// alter the SceneKey, such as zoom and pan, reuse the cached scene.
type Cache struct {
	mu     sync.Mutex
	scene  *Scene
	builds int
}

// NewCache creates an empty scene cache.
func NewCache() *Cache {
	return &Cache{}
}

// Get returns the scene for p, building it when the key changed.
func (c *Cache) Get(p params.Params) *Scene {
	key := p.SceneKey()

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.scene != nil && c.scene.Key == key {
		return c.scene
	}

	start := time.Now()
	c.scene = Build(p)
	c.builds++
	log.Printf("Scene: built %d threads (%d triangles) in %s",
		len(c.scene.Threads), c.scene.TriangleCount(), time.Since(start).Round(time.Millisecond))
	return c.scene
}

// Builds returns how many times the cache rebuilt its scene.
func (c *Cache) Builds() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.builds
}

// Invalidate drops the cached scene.
func (c *Cache) Invalidate() {
	c.mu.Lock()
	c.scene = nil
	c.mu.Unlock()
}

// GridSizeFor returns the number of threads per axis needed to cover a
// width x height viewport with the default camera, plus a margin of two
// threads. The result is clamped to the grid size range.
func GridSizeFor(width, height int, zoom, spacing float64) int {
	if width <= 0 || height <= 0 || spacing <= 0 || zoom <= 0 {
		return int(params.GridSizeRange.Default)
	}
	cam := DefaultCamera()
	scale := zoom / sceneScaleDivisor
	visibleH := 2 * cam.Distance * math.Tan(cam.FOV/2) / scale
	visibleW := visibleH * float64(width) / float64(height)
	n := int(math.Ceil(math.Max(visibleW, visibleH)/spacing)) + 2
	return int(params.GridSizeRange.Clamp(float64(n)))
}

// Resolve fills in the grid size when AutoGrid is set.
func Resolve(p params.Params, width, height int) params.Params {
	if !p.AutoGrid {
		return p
	}
	return p.WithGridSize(GridSizeFor(width, height, p.Zoom, p.Spacing))
}
