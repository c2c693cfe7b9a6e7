package panels

import (
	"testing"

	"weave-studio/internal/app"
	"weave-studio/internal/params"
	"weave-studio/internal/weave"

	"fyne.io/fyne/v2/test"
	"fyne.io/fyne/v2/widget"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPanel(t *testing.T) (*ControlPanel, *app.State) {
	t.Helper()
	a := test.NewApp()
	t.Cleanup(a.Quit)
	state := app.NewState(nil)
	cp := NewControlPanel(state, a.NewWindow("test"))
	require.NotNil(t, cp.Container())
	return cp, state
}

func TestWeaveButtonsSelectWeave(t *testing.T) {
	cp, state := newPanel(t)
	assert.Equal(t, widget.HighImportance, cp.WeaveButton(weave.Plain).Importance)

	test.Tap(cp.WeaveButton(weave.Twill))
	assert.Equal(t, weave.Twill, state.Params().Weave)
	assert.Equal(t, widget.HighImportance, cp.WeaveButton(weave.Twill).Importance)
	assert.Equal(t, widget.MediumImportance, cp.WeaveButton(weave.Plain).Importance)
	assert.Equal(t, "XX..\nX..X\n..XX\n.XX.", cp.draftLabel.Text)
}

func TestSlidersUpdateState(t *testing.T) {
	cp, state := newPanel(t)

	cp.Slider(SliderZoom).SetValue(33)
	assert.Equal(t, 33.0, state.Params().Zoom)

	cp.Slider(SliderSpacing).SetValue(1.25)
	assert.InDelta(t, 1.25, state.Params().Spacing, 1e-9)

	cp.Slider(SliderGrid).SetValue(8)
	assert.Equal(t, 8, state.Params().GridSize)

	assert.Nil(t, cp.Slider("nope"))
}

func TestSyncFollowsExternalChanges(t *testing.T) {
	cp, state := newPanel(t)

	state.Update(func(p params.Params) params.Params {
		return p.WithZoom(12).WithThickness(0.2).WithAutoGrid(true)
	})
	assert.Equal(t, 12.0, cp.Slider(SliderZoom).Value)
	assert.InDelta(t, 0.2, cp.Slider(SliderThickness).Value, 1e-9)
	assert.True(t, cp.autoCheck.Checked)
	assert.Equal(t, "Grid Size: auto", cp.controls[SliderGrid].label.Text)
	assert.Equal(t, "Zoom: 12", cp.controls[SliderZoom].label.Text)

	state.SetMode(app.ModeRibbons)
	assert.Equal(t, "Ribbons", cp.modeRadio.Selected)
}

func TestModeRadioSetsMode(t *testing.T) {
	cp, state := newPanel(t)
	cp.modeRadio.SetSelected(app.ModeScene.Label())
	assert.Equal(t, app.ModeScene, state.Mode())
}

func TestPresetSelectAppliesColors(t *testing.T) {
	cp, state := newPanel(t)
	cp.presetSelect.SetSelected("Tartan")

	p := state.Params()
	assert.Equal(t, uint8(139), p.WeftColor.R, "darkred weft")
	assert.Equal(t, uint8(100), p.WarpColor.G, "darkgreen warp")
	assert.Equal(t, p.WeftColor, cp.weftSwatch.FillColor)
}

func TestAutoGridCheck(t *testing.T) {
	cp, state := newPanel(t)
	cp.autoCheck.SetChecked(true)
	assert.True(t, state.Params().AutoGrid)
	cp.autoCheck.SetChecked(false)
	assert.False(t, state.Params().AutoGrid)
	assert.Equal(t, "Grid Size: 20", cp.controls[SliderGrid].label.Text)
}
