package export

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"weave-studio/internal/scene"
	"weave-studio/pkg/colorutil"
)

// materialName returns the MTL material used by threads of kind k.
func materialName(k scene.Kind) string {
	return k.String()
}

// WriteOBJ writes the scene as Wavefront OBJ. Each thread becomes an object
// with its own vertices and normals; faces reference them with 1-based
// global indices. When mtlLib is non-empty a mtllib line is emitted and
// threads use the "weft" and "warp" materials.
func WriteOBJ(w io.Writer, s *scene.Scene, mtlLib string) error {
	ew := &errWriter{w: w}
	ew.printf("# weave-studio scene: %d threads, %d triangles\n", len(s.Threads), s.TriangleCount())
	if mtlLib != "" {
		ew.printf("mtllib %s\n", mtlLib)
	}

	base := 1
	for _, th := range s.Threads {
		ew.printf("o %s_%d\n", th.Kind, th.Index)
		if mtlLib != "" {
			ew.printf("usemtl %s\n", materialName(th.Kind))
		}
		for _, v := range th.Mesh.Vertices {
			ew.printf("v %.6f %.6f %.6f\n", v.X, v.Y, v.Z)
		}
		for _, n := range th.Mesh.Normals {
			ew.printf("vn %.6f %.6f %.6f\n", n.X, n.Y, n.Z)
		}
		for i := 0; i < th.Mesh.TriangleCount(); i++ {
			a, b, c := th.Mesh.Triangle(i)
			ia, ib, ic := base+int(a), base+int(b), base+int(c)
			ew.printf("f %d//%d %d//%d %d//%d\n", ia, ia, ib, ib, ic, ic)
		}
		base += th.Mesh.VertexCount()
	}
	return ew.err
}

// WriteMTL writes one diffuse material per thread kind, taking the color of
// the first thread of that kind.
func WriteMTL(w io.Writer, s *scene.Scene) error {
	ew := &errWriter{w: w}
	seen := map[scene.Kind]bool{}
	for _, th := range s.Threads {
		if seen[th.Kind] {
			continue
		}
		seen[th.Kind] = true
		r, g, b, a := colorutil.Floats(th.Color)
		ew.printf("newmtl %s\n", materialName(th.Kind))
		ew.printf("Ka 0.000 0.000 0.000\n")
		ew.printf("Kd %.3f %.3f %.3f\n", r, g, b)
		ew.printf("Ks 0.000 0.000 0.000\n")
		ew.printf("d %.3f\n", a)
		ew.printf("illum 1\n\n")
	}
	return ew.err
}

// SaveScene writes s to an .obj file and its materials to a sibling .mtl file.
func SaveScene(path string, s *scene.Scene) error {
	f, err := FormatFromPath(path)
	if err != nil {
		return err
	}
	if f != FormatOBJ {
		return fmt.Errorf("%s scene: %w", f, ErrUnsupportedFormat)
	}

	mtlPath := strings.TrimSuffix(path, filepath.Ext(path)) + ".mtl"
	if err := writeFile(mtlPath, func(w io.Writer) error { return WriteMTL(w, s) }); err != nil {
		return err
	}
	return writeFile(path, func(w io.Writer) error {
		return WriteOBJ(w, s, filepath.Base(mtlPath))
	})
}

// errWriter keeps the first write error so formatting code can skip checks.
type errWriter struct {
	w   io.Writer
	err error
}

func (e *errWriter) printf(format string, args ...interface{}) {
	if e.err != nil {
		return
	}
	_, e.err = fmt.Fprintf(e.w, format, args...)
}
