package render2d

import (
	"image"
	"image/color"
	"image/draw"
	"log"
	"math"

	"weave-studio/internal/params"
	"weave-studio/pkg/colorutil"
	"weave-studio/pkg/geometry"

	"github.com/gogpu/gg"
)

// RibbonOptions configures the ribbon variant.
type RibbonOptions struct {
	Background color.NRGBA
	Shadow     color.NRGBA
	// ShadowBlur is the Gaussian blur radius of the shadow layer as a fraction
	// of the thread size. Zero disables blurring.
	ShadowBlur float64
	// EdgeShade darkens the ribbon border; the core is drawn at full color.
	EdgeShade float64
}

// DefaultRibbonOptions returns the options used by the application.
func DefaultRibbonOptions() RibbonOptions {
	return RibbonOptions{
		Background: colorutil.Background,
		Shadow:     colorutil.Shadow,
		ShadowBlur: 0.15,
		EdgeShade:  0.7,
	}
}

// RibbonRenderer draws every thread as one continuous Bézier ribbon over a
// blurred drop shadow.
type RibbonRenderer struct {
	Options RibbonOptions
}

// NewRibbonRenderer creates a RibbonRenderer with default options.
func NewRibbonRenderer() *RibbonRenderer {
	return &RibbonRenderer{Options: DefaultRibbonOptions()}
}

// Render implements Renderer.
func (r *RibbonRenderer) Render(p params.Params, width, height int) image.Image {
	if width <= 0 || height <= 0 {
		return image.NewNRGBA(image.Rect(0, 0, 0, 0))
	}
	weft, warp := PlanRibbons(p, width, height)
	t := p.Zoom
	ribbonWidth := RibbonFraction * t

	base := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(base, base.Bounds(), image.NewUniform(r.Options.Background), image.Point{}, draw.Src)

	shadow := r.shadowLayer(weft, warp, width, height, t)
	draw.Draw(base, base.Bounds(), shadow, image.Point{}, draw.Over)

	dc := gg.NewContextForImage(base)
	defer dc.Close()
	dc.SetLineCap(gg.LineCapButt)

	for _, rb := range weft {
		r.strokeRibbon(dc, geometry.CatmullRom(rb.Points), p.WeftColor, ribbonWidth)
	}
	for _, rb := range warp {
		r.strokeRibbon(dc, geometry.CatmullRom(rb.Points), p.WarpColor, ribbonWidth)
	}

	// Weft pieces that lie on top are drawn again over the warp.
	for _, rb := range weft {
		curves := geometry.CatmullRom(rb.Points)
		for i, top := range rb.Over {
			if top {
				r.strokeRibbon(dc, crossingPiece(curves, i+1), p.WeftColor, ribbonWidth)
			}
		}
	}
	return dc.Image()
}

// strokeRibbon draws curves as a two-tone ribbon: a darker border under a
// narrower full-color core.
func (r *RibbonRenderer) strokeRibbon(dc *gg.Context, curves []gg.CubicBez, c color.NRGBA, width float64) {
	if len(curves) == 0 {
		return
	}
	passes := []struct {
		col   color.NRGBA
		width float64
	}{
		{colorutil.Shade(c, r.Options.EdgeShade), width},
		{c, width * 0.7},
	}
	for _, pass := range passes {
		dc.SetColor(pass.col)
		dc.SetLineWidth(pass.width)
		tracePath(dc, curves)
		if err := dc.Stroke(); err != nil {
			log.Printf("render2d: stroke ribbon: %v", err)
		}
	}
}

// shadowLayer renders every ribbon offset down and right in the shadow color
// and blurs the result.
func (r *RibbonRenderer) shadowLayer(weft, warp []Ribbon, width, height int, t float64) image.Image {
	dc := gg.NewContext(width, height)
	defer dc.Close()
	dc.SetColor(r.Options.Shadow)
	dc.SetLineWidth(RibbonFraction * t)
	dc.SetLineCap(gg.LineCapButt)

	off := geometry.NewPoint2D(ShadowFraction*t, ShadowFraction*t)
	for _, group := range [][]Ribbon{weft, warp} {
		for _, rb := range group {
			pts := make([]geometry.Point2D, len(rb.Points))
			for i, pt := range rb.Points {
				pts[i] = pt.Add(off)
			}
			tracePath(dc, geometry.CatmullRom(pts))
		}
	}
	if err := dc.Stroke(); err != nil {
		log.Printf("render2d: stroke shadow: %v", err)
	}

	img := dc.Image()
	radius := int(math.Round(r.Options.ShadowBlur * t))
	if radius < 1 {
		return img
	}
	blurred, err := BlurImage(img, radius)
	if err != nil {
		log.Printf("render2d: shadow blur failed, using sharp shadow: %v", err)
		return img
	}
	return blurred
}

func tracePath(dc *gg.Context, curves []gg.CubicBez) {
	dc.MoveTo(curves[0].P0.X, curves[0].P0.Y)
	for _, c := range curves {
		dc.CubicTo(c.P1.X, c.P1.Y, c.P2.X, c.P2.Y, c.P3.X, c.P3.Y)
	}
}

// crossingPiece returns the part of a ribbon around point k: the second half
// of the curve ending at k and the first half of the curve starting there.
func crossingPiece(curves []gg.CubicBez, k int) []gg.CubicBez {
	var piece []gg.CubicBez
	if k-1 >= 0 && k-1 < len(curves) {
		_, right := curves[k-1].Subdivide()
		piece = append(piece, right)
	}
	if k < len(curves) {
		left, _ := curves[k].Subdivide()
		piece = append(piece, left)
	}
	return piece
}
