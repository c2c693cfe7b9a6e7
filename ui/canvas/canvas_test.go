package canvas

import (
	"image/color"
	"testing"

	"weave-studio/internal/app"
	"weave-studio/internal/params"
	"weave-studio/internal/weave"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRepeatLines(t *testing.T) {
	p := params.Default().WithZoom(10).WithWeave(weave.Satin)
	xs, ys := RepeatLines(p, 120, 60)
	assert.Equal(t, []float64{0, 50, 100}, xs)
	assert.Equal(t, []float64{0, 50}, ys)

	// Panning shifts the boundaries modulo the repeat size.
	xs, _ = RepeatLines(p.WithPan(-12, 0), 120, 60)
	assert.Equal(t, []float64{38, 88}, xs)

	xs, ys = RepeatLines(params.Default().WithZoom(20), 50, 50)
	assert.Equal(t, []float64{0, 40}, xs)
	assert.Equal(t, []float64{0, 40}, ys)
}

func TestDrawRepeatKeepsSize(t *testing.T) {
	test.NewApp()
	state := app.NewState(nil)
	wc := New(state, app.NewRenderers())
	base := wc.Render(80, 60)
	over := DrawRepeat(base, state.Params())
	assert.Equal(t, base.Bounds(), over.Bounds())

	// The boundary at x=40 is drawn in the overlay color.
	c := color.NRGBAModel.Convert(over.At(40, 5)).(color.NRGBA)
	assert.Greater(t, c.R, c.G)
}

func TestCanvasDragPans(t *testing.T) {
	test.NewApp()
	state := app.NewState(nil)
	wc := New(state, app.NewRenderers())

	wc.Dragged(&fyne.DragEvent{Dragged: fyne.Delta{DX: 10, DY: -4}})
	wc.Dragged(&fyne.DragEvent{Dragged: fyne.Delta{DX: 5, DY: 0}})
	wc.DragEnd()

	p := state.Params()
	assert.Equal(t, 15.0, p.PanX)
	assert.Equal(t, -4.0, p.PanY)
}

func TestCanvasWheelZooms(t *testing.T) {
	test.NewApp()
	state := app.NewState(nil)
	wc := New(state, app.NewRenderers())
	start := state.Params().Zoom

	wc.Scrolled(&fyne.ScrollEvent{Scrolled: fyne.Delta{DY: 3}})
	assert.Equal(t, start+1, state.Params().Zoom)
	wc.Scrolled(&fyne.ScrollEvent{Scrolled: fyne.Delta{DY: -1}})
	wc.Scrolled(&fyne.ScrollEvent{Scrolled: fyne.Delta{DY: -1}})
	assert.Equal(t, start-1, state.Params().Zoom)

	for i := 0; i < 100; i++ {
		wc.ZoomIn()
	}
	assert.Equal(t, params.ZoomRange.Max, state.Params().Zoom)
}

func TestCanvasRenderFollowsMode(t *testing.T) {
	test.NewApp()
	state := app.NewState(nil)
	wc := New(state, app.NewRenderers())

	rendered := 0
	wc.OnRendered(func(w, h int) { rendered++ })
	img := wc.draw(64, 48)
	require.NotNil(t, img)
	assert.Same(t, img, wc.LastImage())
	assert.Equal(t, 1, rendered)

	state.SetMode(app.ModeScene)
	img = wc.Render(64, 48)
	corner := color.NRGBAModel.Convert(img.At(0, 0)).(color.NRGBA)
	assert.Equal(t, color.NRGBA{R: 255, G: 255, B: 255, A: 255}, corner)

	wc.SetShowRepeat(true)
	assert.True(t, wc.ShowRepeat())
}
