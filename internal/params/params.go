// Package params defines the immutable render parameter bundle shared by the
// control surface and the renderers.
package params

import (
	"encoding/binary"
	"hash/fnv"
	"image/color"
	"math"

	"weave-studio/internal/weave"
	"weave-studio/pkg/colorutil"
)

// Range describes the bounds of a numeric control.
type Range struct {
	Min, Max, Step, Default float64
}

// Clamp limits v to [Min, Max] and snaps it to the nearest Step above Min.
func (r Range) Clamp(v float64) float64 {
	if math.IsNaN(v) {
		return r.Default
	}
	v = math.Max(r.Min, math.Min(r.Max, v))
	if r.Step > 0 {
		v = r.Min + math.Round((v-r.Min)/r.Step)*r.Step
		v = math.Min(r.Max, v)
	}
	// Drop the float noise of the step arithmetic so 0.05 stays 0.05.
	return math.Round(v*1e9) / 1e9
}

// Ranges of the user-adjustable controls.
var (
	ZoomRange      = Range{Min: 5, Max: 50, Step: 1, Default: 20}
	SpacingRange   = Range{Min: 0.1, Max: 2, Step: 0.05, Default: 0.5}
	ThicknessRange = Range{Min: 0.01, Max: 0.3, Step: 0.01, Default: 0.05}
	HeightRange    = Range{Min: 0, Max: 0.5, Step: 0.01, Default: 0.1}
	GridSizeRange  = Range{Min: 2, Max: 64, Step: 1, Default: 20}
)

// Default thread colors.
var (
	DefaultWeftColor = colorutil.MustParse("steelblue")
	DefaultWarpColor = colorutil.MustParse("goldenrod")
)

// Params is the full set of values a render pass depends on. Values are
// passed by copy; the With methods return modified copies.
type Params struct {
	Zoom      float64 // thread size in pixels (2D) and scene scale zoom/50 (3D)
	Weave     weave.Type
	Spacing   float64 // distance between threads in the 3D scene
	Thickness float64 // tube radius in the 3D scene
	Height    float64 // vertical displacement at a crossing in the 3D scene
	GridSize  int     // threads per axis in the 3D scene
	AutoGrid  bool    // derive GridSize from the viewport
	WeftColor color.NRGBA
	WarpColor color.NRGBA
	Rules     weave.Rules

	// PanX and PanY shift the view in pixels.
	PanX, PanY float64
}

// Default returns the startup parameters.
func Default() Params {
	return Params{
		Zoom:      ZoomRange.Default,
		Weave:     weave.Plain,
		Spacing:   SpacingRange.Default,
		Thickness: ThicknessRange.Default,
		Height:    HeightRange.Default,
		GridSize:  int(GridSizeRange.Default),
		WeftColor: DefaultWeftColor,
		WarpColor: DefaultWarpColor,
		Rules:     weave.DefaultRules,
	}
}

// Clamp returns p with every ranged value limited to its Range.
func (p Params) Clamp() Params {
	p.Zoom = ZoomRange.Clamp(p.Zoom)
	p.Spacing = SpacingRange.Clamp(p.Spacing)
	p.Thickness = ThicknessRange.Clamp(p.Thickness)
	p.Height = HeightRange.Clamp(p.Height)
	p.GridSize = int(GridSizeRange.Clamp(float64(p.GridSize)))
	p.Rules = p.Rules.Normalized()
	return p
}

// IsWarpOver applies the configured rules to the selected weave.
func (p Params) IsWarpOver(row, col int) bool {
	return p.Rules.IsWarpOver(row, col, p.Weave)
}

// WithZoom sets the thread size in pixels, clamped to ZoomRange.
func (p Params) WithZoom(zoom float64) Params {
	p.Zoom = ZoomRange.Clamp(zoom)
	return p
}

// WithWeave selects the weave type.
func (p Params) WithWeave(t weave.Type) Params {
	p.Weave = t
	return p
}

// WithSpacing sets the 3D thread spacing, clamped to SpacingRange.
func (p Params) WithSpacing(v float64) Params {
	p.Spacing = SpacingRange.Clamp(v)
	return p
}

// WithThickness sets the tube radius, clamped to ThicknessRange.
func (p Params) WithThickness(v float64) Params {
	p.Thickness = ThicknessRange.Clamp(v)
	return p
}

// WithHeight sets the crossing displacement, clamped to HeightRange.
func (p Params) WithHeight(v float64) Params {
	p.Height = HeightRange.Clamp(v)
	return p
}

// WithGridSize sets the threads per axis, clamped to GridSizeRange.
func (p Params) WithGridSize(n int) Params {
	p.GridSize = int(GridSizeRange.Clamp(float64(n)))
	return p
}

// WithAutoGrid makes the grid size follow the viewport.
func (p Params) WithAutoGrid(auto bool) Params {
	p.AutoGrid = auto
	return p
}

// WithColors sets the weft and warp thread colors.
func (p Params) WithColors(weft, warp color.NRGBA) Params {
	p.WeftColor = weft
	p.WarpColor = warp
	return p
}

// WithRules sets the interlacing rules after normalizing them.
func (p Params) WithRules(r weave.Rules) Params {
	p.Rules = r.Normalized()
	return p
}

// WithPan sets the view offset in pixels.
func (p Params) WithPan(x, y float64) Params {
	p.PanX, p.PanY = x, y
	return p
}

// SceneKey hashes every field the 3D thread set depends on: weave, rules,
// spacing, thickness, height, grid size and colors. Zoom and pan only move the
// camera and are excluded.
func (p Params) SceneKey() uint64 {
	h := newKeyHash()
	h.int(int(p.Weave))
	h.rules(p.Rules)
	h.float(p.Spacing)
	h.float(p.Thickness)
	h.float(p.Height)
	h.int(p.GridSize)
	h.color(p.WeftColor)
	h.color(p.WarpColor)
	return h.sum()
}

type keyHash struct {
	buf []byte
}

func newKeyHash() *keyHash {
	return &keyHash{buf: make([]byte, 0, 96)}
}

func (h *keyHash) int(v int) {
	h.buf = binary.LittleEndian.AppendUint64(h.buf, uint64(int64(v)))
}

func (h *keyHash) float(v float64) {
	h.buf = binary.LittleEndian.AppendUint64(h.buf, math.Float64bits(v))
}

func (h *keyHash) color(c color.NRGBA) {
	h.buf = append(h.buf, c.R, c.G, c.B, c.A)
}

func (h *keyHash) rules(r weave.Rules) {
	r = r.Normalized()
	h.int(int(r.Twill))
	h.int(r.SatinStep)
	h.int(int(r.Fallback))
}

func (h *keyHash) sum() uint64 {
	f := fnv.New64a()
	_, _ = f.Write(h.buf)
	return f.Sum64()
}
