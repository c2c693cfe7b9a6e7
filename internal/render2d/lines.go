package render2d

import (
	"image"
	"image/color"
	"log"

	"weave-studio/internal/params"
	"weave-studio/pkg/colorutil"

	"github.com/gogpu/gg"
)

// Renderer produces one frame for the given parameters and viewport size.
type Renderer interface {
	Render(p params.Params, width, height int) image.Image
}

// LineOptions configures the line variant.
type LineOptions struct {
	Background  color.NRGBA
	Stroke      color.NRGBA
	StrokeWidth float64
}

// DefaultLineOptions returns a gray canvas with black 3px strokes.
func DefaultLineOptions() LineOptions {
	return LineOptions{
		Background:  colorutil.Background,
		Stroke:      colorutil.Black,
		StrokeWidth: 3,
	}
}

// LineRenderer draws the simple line variant.
type LineRenderer struct {
	Options LineOptions
}

// NewLineRenderer creates a LineRenderer with default options.
func NewLineRenderer() *LineRenderer {
	return &LineRenderer{Options: DefaultLineOptions()}
}

// Render implements Renderer.
func (r *LineRenderer) Render(p params.Params, width, height int) image.Image {
	if width <= 0 || height <= 0 {
		return image.NewNRGBA(image.Rect(0, 0, 0, 0))
	}
	frame := PlanLines(p, width, height)

	dc := gg.NewContext(width, height)
	defer dc.Close()
	dc.ClearWithColor(gg.FromColor(r.Options.Background))
	dc.SetLineWidth(r.Options.StrokeWidth)
	dc.SetLineCap(gg.LineCapButt)

	// Each thread direction is one path.
	dc.SetColor(r.Options.Stroke)
	for _, th := range []Thread{Weft, Warp} {
		for _, cell := range frame.Cells {
			for _, s := range cell.Segments {
				if s.Thread != th {
					continue
				}
				dc.MoveTo(s.From.X, s.From.Y)
				dc.LineTo(s.To.X, s.To.Y)
			}
		}
		if err := dc.Stroke(); err != nil {
			log.Printf("render2d: stroke %s lines: %v", th, err)
		}
	}
	return dc.Image()
}
