package canvas

import (
	"image"
	"image/color"
	"log"
	"math"

	"weave-studio/internal/params"

	"github.com/gogpu/gg"
)

// RepeatColor outlines one pattern repeat on the 2D views.
var RepeatColor = color.NRGBA{R: 0xD0, G: 0x20, B: 0x20, A: 0xC0}

// RepeatLines returns the pixel positions of the repeat boundaries inside a
// width x height view. Cell (0, 0) sits at the pan offset, so boundaries fall
// on multiples of the repeat size from there.
func RepeatLines(p params.Params, width, height int) (xs, ys []float64) {
	if p.Zoom <= 0 {
		return nil, nil
	}
	rows, cols := p.Rules.Period(p.Weave)
	return boundaries(p.PanX, float64(cols)*p.Zoom, width), boundaries(p.PanY, float64(rows)*p.Zoom, height)
}

func boundaries(offset, step float64, limit int) []float64 {
	if step <= 0 {
		return nil
	}
	start := offset - math.Floor(offset/step)*step
	var out []float64
	for v := start; v <= float64(limit); v += step {
		out = append(out, v)
	}
	return out
}

// DrawRepeat returns a copy of img with the repeat boundaries dashed on top.
func DrawRepeat(img image.Image, p params.Params) image.Image {
	b := img.Bounds()
	xs, ys := RepeatLines(p, b.Dx(), b.Dy())

	dc := gg.NewContextForImage(img)
	defer dc.Close()
	dc.SetColor(RepeatColor)
	dc.SetLineWidth(1.5)
	dc.SetDash(6, 4)
	for _, x := range xs {
		dc.MoveTo(x, 0)
		dc.LineTo(x, float64(b.Dy()))
	}
	for _, y := range ys {
		dc.MoveTo(0, y)
		dc.LineTo(float64(b.Dx()), y)
	}
	if err := dc.Stroke(); err != nil {
		log.Printf("Canvas: stroke repeat overlay: %v", err)
	}
	return dc.Image()
}
