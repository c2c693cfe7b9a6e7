// Package canvas provides the weave view: a raster that re-renders the current
// parameters at its pixel size, zooms on the wheel and pans on drag.
package canvas

import (
	"image"
	"sync"

	"weave-studio/internal/app"
	"weave-studio/internal/params"

	"fyne.io/fyne/v2"
	fynecanvas "fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/widget"
)

// WeaveCanvas displays the weave for the application state.
type WeaveCanvas struct {
	widget.BaseWidget

	state     *app.State
	renderers *app.Renderers
	raster    *fynecanvas.Raster

	mu         sync.Mutex
	pixelScale float64 // raster pixels per fyne unit, updated on draw
	last       image.Image
	showRepeat bool

	onRendered func(width, height int)
}

// New creates a canvas that redraws whenever the parameters or the mode
// change.
func New(state *app.State, renderers *app.Renderers) *WeaveCanvas {
	wc := &WeaveCanvas{
		state:      state,
		renderers:  renderers,
		pixelScale: 1,
	}
	wc.raster = fynecanvas.NewRaster(wc.draw)
	wc.raster.ScaleMode = fynecanvas.ImageScalePixels
	wc.raster.SetMinSize(fyne.NewSize(320, 240))

	refresh := func(interface{}) { wc.raster.Refresh() }
	state.On(app.EventParamsChanged, refresh)
	state.On(app.EventModeChanged, refresh)

	wc.ExtendBaseWidget(wc)
	return wc
}

// CreateRenderer implements fyne.Widget.
func (wc *WeaveCanvas) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(wc.raster)
}

// draw is the raster callback; w and h are in device pixels.
func (wc *WeaveCanvas) draw(w, h int) image.Image {
	if size := wc.Size(); size.Width > 0 && w > 0 {
		wc.mu.Lock()
		wc.pixelScale = float64(w) / float64(size.Width)
		wc.mu.Unlock()
	}

	img := wc.Render(w, h)

	wc.mu.Lock()
	wc.last = img
	cb := wc.onRendered
	wc.mu.Unlock()
	if cb != nil {
		cb(w, h)
	}
	return img
}

// Render draws the current state at the given size, including the repeat
// overlay when it is enabled.
func (wc *WeaveCanvas) Render(w, h int) image.Image {
	p := wc.state.Params()
	mode := wc.state.Mode()
	img := wc.renderers.For(mode).Render(p, w, h)

	wc.mu.Lock()
	overlay := wc.showRepeat
	wc.mu.Unlock()
	if overlay && mode != app.ModeScene && w > 0 && h > 0 {
		img = DrawRepeat(img, p)
	}
	return img
}

// LastImage returns the most recently displayed frame, or nil.
func (wc *WeaveCanvas) LastImage() image.Image {
	wc.mu.Lock()
	defer wc.mu.Unlock()
	return wc.last
}

// SetShowRepeat toggles the repeat outline on the 2D views.
func (wc *WeaveCanvas) SetShowRepeat(show bool) {
	wc.mu.Lock()
	wc.showRepeat = show
	wc.mu.Unlock()
	wc.raster.Refresh()
}

// ShowRepeat reports whether the repeat outline is shown.
func (wc *WeaveCanvas) ShowRepeat() bool {
	wc.mu.Lock()
	defer wc.mu.Unlock()
	return wc.showRepeat
}

// OnRendered sets a callback invoked after each frame with its pixel size.
func (wc *WeaveCanvas) OnRendered(callback func(width, height int)) {
	wc.mu.Lock()
	wc.onRendered = callback
	wc.mu.Unlock()
}

// Dragged pans the view by the drag distance in pixels.
func (wc *WeaveCanvas) Dragged(ev *fyne.DragEvent) {
	wc.mu.Lock()
	scale := wc.pixelScale
	wc.mu.Unlock()

	dx := float64(ev.Dragged.DX) * scale
	dy := float64(ev.Dragged.DY) * scale
	wc.state.Update(func(p params.Params) params.Params {
		return p.WithPan(p.PanX+dx, p.PanY+dy)
	})
}

// DragEnd implements fyne.Draggable.
func (wc *WeaveCanvas) DragEnd() {}

// Scrolled zooms with the mouse wheel.
func (wc *WeaveCanvas) Scrolled(ev *fyne.ScrollEvent) {
	if ev.Scrolled.DY > 0 {
		wc.ZoomIn()
	} else if ev.Scrolled.DY < 0 {
		wc.ZoomOut()
	}
}

// ZoomIn increases the zoom by one step.
func (wc *WeaveCanvas) ZoomIn() {
	wc.zoomBy(params.ZoomRange.Step)
}

// ZoomOut decreases the zoom by one step.
func (wc *WeaveCanvas) ZoomOut() {
	wc.zoomBy(-params.ZoomRange.Step)
}

func (wc *WeaveCanvas) zoomBy(delta float64) {
	wc.state.Update(func(p params.Params) params.Params {
		return p.WithZoom(p.Zoom + delta)
	})
}
