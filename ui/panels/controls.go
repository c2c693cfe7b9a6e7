// Package panels provides the control panel of the main window.
package panels

import (
	"fmt"
	"image/color"
	"strings"

	"weave-studio/internal/app"
	"weave-studio/internal/config"
	"weave-studio/internal/params"
	"weave-studio/internal/weave"
	"weave-studio/pkg/colorutil"

	"fyne.io/fyne/v2"
	fynecanvas "fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"
)

// Slider keys.
const (
	SliderZoom      = "zoom"
	SliderSpacing   = "spacing"
	SliderThickness = "thickness"
	SliderHeight    = "height"
	SliderGrid      = "grid"
)

// rangeControl binds one slider to a Params field.
type rangeControl struct {
	title  string
	format string
	rng    params.Range
	get    func(params.Params) float64
	set    func(params.Params, float64) params.Params

	slider *widget.Slider
	label  *widget.Label
}

func (rc *rangeControl) text(v float64) string {
	return fmt.Sprintf("%s: "+rc.format, rc.title, v)
}

// ControlPanel holds the sliders, weave buttons, color controls and mode
// switch.
type ControlPanel struct {
	state     *app.State
	window    fyne.Window
	container fyne.CanvasObject

	controls     map[string]*rangeControl
	weaveButtons map[weave.Type]*widget.Button
	presetSelect *widget.Select
	modeRadio    *widget.RadioGroup
	autoCheck    *widget.Check
	weftSwatch   *fynecanvas.Rectangle
	warpSwatch   *fynecanvas.Rectangle
	draftLabel   *widget.Label
}

// NewControlPanel creates the panel and keeps it in sync with state.
func NewControlPanel(state *app.State, window fyne.Window) *ControlPanel {
	cp := &ControlPanel{
		state:        state,
		window:       window,
		controls:     make(map[string]*rangeControl),
		weaveButtons: make(map[weave.Type]*widget.Button),
	}

	// Weave buttons
	weaveBox := container.NewGridWithColumns(2)
	for _, t := range weave.Types() {
		t := t
		btn := widget.NewButton(t.Label(), func() {
			state.Update(func(p params.Params) params.Params { return p.WithWeave(t) })
		})
		cp.weaveButtons[t] = btn
		weaveBox.Add(btn)
	}
	cp.draftLabel = widget.NewLabel("")
	cp.draftLabel.TextStyle = fyne.TextStyle{Monospace: true}

	// View controls
	viewBox := container.NewVBox(cp.addRange(SliderZoom, "Zoom", "%.0f", params.ZoomRange,
		func(p params.Params) float64 { return p.Zoom },
		func(p params.Params, v float64) params.Params { return p.WithZoom(v) })...)

	modeLabels := make([]string, 0, len(app.Modes()))
	for _, m := range app.Modes() {
		modeLabels = append(modeLabels, m.Label())
	}
	cp.modeRadio = widget.NewRadioGroup(modeLabels, func(selected string) {
		for _, m := range app.Modes() {
			if m.Label() == selected {
				state.SetMode(m)
			}
		}
	})
	cp.modeRadio.Horizontal = true
	cp.modeRadio.Required = true
	viewBox.Add(cp.modeRadio)

	// 3D scene controls
	sceneBox := container.NewVBox()
	for _, objs := range [][]fyne.CanvasObject{
		cp.addRange(SliderSpacing, "Spacing", "%.2f", params.SpacingRange,
			func(p params.Params) float64 { return p.Spacing },
			func(p params.Params, v float64) params.Params { return p.WithSpacing(v) }),
		cp.addRange(SliderThickness, "Thickness", "%.2f", params.ThicknessRange,
			func(p params.Params) float64 { return p.Thickness },
			func(p params.Params, v float64) params.Params { return p.WithThickness(v) }),
		cp.addRange(SliderHeight, "Height", "%.2f", params.HeightRange,
			func(p params.Params) float64 { return p.Height },
			func(p params.Params, v float64) params.Params { return p.WithHeight(v) }),
		cp.addRange(SliderGrid, "Grid Size", "%.0f", params.GridSizeRange,
			func(p params.Params) float64 { return float64(p.GridSize) },
			func(p params.Params, v float64) params.Params { return p.WithGridSize(int(v)) }),
	} {
		sceneBox.Objects = append(sceneBox.Objects, objs...)
	}
	cp.autoCheck = widget.NewCheck("Fit grid to view", func(checked bool) {
		state.Update(func(p params.Params) params.Params { return p.WithAutoGrid(checked) })
	})
	sceneBox.Add(cp.autoCheck)

	// Colors
	cp.weftSwatch = swatch()
	cp.warpSwatch = swatch()
	weftBtn := widget.NewButton("Weft Color...", func() { cp.pickColor(true) })
	warpBtn := widget.NewButton("Warp Color...", func() { cp.pickColor(false) })
	cp.presetSelect = widget.NewSelect(state.Config().PresetNames(), func(name string) {
		if err := state.ApplyPreset(name); err != nil {
			dialog.ShowError(err, cp.window)
		}
	})
	cp.presetSelect.PlaceHolder = "Color preset"
	colorBox := container.NewVBox(
		cp.presetSelect,
		container.NewBorder(nil, nil, cp.weftSwatch, nil, weftBtn),
		container.NewBorder(nil, nil, cp.warpSwatch, nil, warpBtn),
	)

	cp.container = container.NewVScroll(container.NewVBox(
		widget.NewCard("Weave", "", container.NewVBox(weaveBox, cp.draftLabel)),
		widget.NewCard("View", "", viewBox),
		widget.NewCard("Threads", "", colorBox),
		widget.NewCard("3D Scene", "", sceneBox),
	))

	state.On(app.EventParamsChanged, func(interface{}) { cp.Sync() })
	state.On(app.EventModeChanged, func(interface{}) { cp.Sync() })
	state.On(app.EventConfigChanged, func(data interface{}) {
		if cfg, ok := data.(*config.Config); ok {
			cp.presetSelect.Options = cfg.PresetNames()
			cp.presetSelect.Refresh()
		}
	})
	cp.Sync()
	return cp
}

func swatch() *fynecanvas.Rectangle {
	r := fynecanvas.NewRectangle(color.Transparent)
	r.SetMinSize(fyne.NewSize(24, 24))
	r.StrokeColor = colorutil.Black
	r.StrokeWidth = 1
	return r
}

// addRange creates a labelled slider and returns its widgets.
func (cp *ControlPanel) addRange(key, title, format string, rng params.Range,
	get func(params.Params) float64, set func(params.Params, float64) params.Params) []fyne.CanvasObject {

	rc := &rangeControl{title: title, format: format, rng: rng, get: get, set: set}
	rc.label = widget.NewLabel(rc.text(rng.Default))
	rc.slider = widget.NewSlider(rng.Min, rng.Max)
	rc.slider.Step = rng.Step
	rc.slider.Value = rng.Default
	rc.slider.OnChanged = func(v float64) {
		rc.label.SetText(rc.text(rng.Clamp(v)))
		cp.state.Update(func(p params.Params) params.Params { return set(p, v) })
	}
	cp.controls[key] = rc
	return []fyne.CanvasObject{rc.label, rc.slider}
}

// Container returns the panel container.
func (cp *ControlPanel) Container() fyne.CanvasObject {
	return cp.container
}

// Slider returns the slider registered under key, or nil.
func (cp *ControlPanel) Slider(key string) *widget.Slider {
	if rc, ok := cp.controls[key]; ok {
		return rc.slider
	}
	return nil
}

// WeaveButton returns the button selecting t, or nil.
func (cp *ControlPanel) WeaveButton(t weave.Type) *widget.Button {
	return cp.weaveButtons[t]
}

// Sync copies the current state into the widgets. Setting a widget to the
// value already in the state does not emit another change.
func (cp *ControlPanel) Sync() {
	p := cp.state.Params()

	for _, rc := range cp.controls {
		v := rc.get(p)
		if rc.slider.Value != v {
			rc.slider.SetValue(v)
		}
		rc.label.SetText(rc.text(v))
	}
	// The grid slider keeps the manual value while the view decides the size.
	if p.AutoGrid {
		cp.controls[SliderGrid].label.SetText("Grid Size: auto")
	}
	if cp.autoCheck.Checked != p.AutoGrid {
		cp.autoCheck.SetChecked(p.AutoGrid)
	}

	for t, btn := range cp.weaveButtons {
		imp := widget.MediumImportance
		if t == p.Weave {
			imp = widget.HighImportance
		}
		if btn.Importance != imp {
			btn.Importance = imp
			btn.Refresh()
		}
	}
	cp.draftLabel.SetText(strings.TrimSuffix(p.Rules.Repeat(p.Weave).String(), "\n"))

	if label := cp.state.Mode().Label(); cp.modeRadio.Selected != label {
		cp.modeRadio.SetSelected(label)
	}

	cp.weftSwatch.FillColor = p.WeftColor
	cp.weftSwatch.Refresh()
	cp.warpSwatch.FillColor = p.WarpColor
	cp.warpSwatch.Refresh()
}

// pickColor opens the color picker for the weft or warp thread.
func (cp *ControlPanel) pickColor(weft bool) {
	p := cp.state.Params()
	title, current := "Weft Color", p.WeftColor
	if !weft {
		title, current = "Warp Color", p.WarpColor
	}

	picker := dialog.NewColorPicker(title, "Choose the "+strings.ToLower(title), func(c color.Color) {
		chosen := colorutil.ToNRGBA(c)
		cp.state.Update(func(p params.Params) params.Params {
			if weft {
				return p.WithColors(chosen, p.WarpColor)
			}
			return p.WithColors(p.WeftColor, chosen)
		})
	}, cp.window)
	picker.Advanced = true
	picker.SetColor(current)
	picker.Show()
}
