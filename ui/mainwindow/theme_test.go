package mainwindow

import (
	"image/color"
	"testing"

	"weave-studio/internal/params"
	"weave-studio/pkg/colorutil"

	"fyne.io/fyne/v2/theme"
	"github.com/stretchr/testify/assert"
)

func TestThemeAccentsFollowThreadColors(t *testing.T) {
	th := NewWeaveTheme(params.DefaultWeftColor, params.DefaultWarpColor)
	assert.Equal(t, params.DefaultWeftColor, th.Color(theme.ColorNamePrimary, theme.VariantLight))

	focus := th.Color(theme.ColorNameFocus, theme.VariantDark).(color.NRGBA)
	assert.Equal(t, uint8(0x80), focus.A)
	assert.Equal(t, params.DefaultWarpColor.R, focus.R)

	red := NewWeaveTheme(colorutil.MustParse("darkred"), colorutil.MustParse("darkgreen"))
	assert.Equal(t, uint8(139), red.Color(theme.ColorNamePrimary, theme.VariantLight).(color.NRGBA).R)
}

func TestThemeBackgroundsFollowVariant(t *testing.T) {
	th := NewWeaveTheme(params.DefaultWeftColor, params.DefaultWarpColor)
	light := th.Color(theme.ColorNameBackground, theme.VariantLight)
	dark := th.Color(theme.ColorNameBackground, theme.VariantDark)
	assert.Equal(t, linenLoom.background, light)
	assert.Equal(t, walnutLoom.background, dark)
	assert.NotEqual(t, theme.DefaultTheme().Color(theme.ColorNameBackground, theme.VariantLight), light)
	assert.Equal(t, walnutLoom.surface, th.Color(theme.ColorNameInputBackground, theme.VariantDark))

	// Colors the loom does not cover come from the default theme.
	assert.Equal(t,
		theme.DefaultTheme().Color(theme.ColorNameError, theme.VariantLight),
		th.Color(theme.ColorNameError, theme.VariantLight))
}

func TestThemeSizes(t *testing.T) {
	th := NewWeaveTheme(params.DefaultWeftColor, params.DefaultWarpColor)
	assert.Equal(t, float32(5), th.Size(theme.SizeNamePadding))
	assert.Equal(t, float32(3), th.Size(theme.SizeNameInputRadius))
	assert.Equal(t, theme.DefaultTheme().Size(theme.SizeNameText), th.Size(theme.SizeNameText))
}
