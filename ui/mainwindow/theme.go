package mainwindow

import (
	"image/color"

	"weave-studio/pkg/colorutil"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/theme"
)

// loom holds the cloth tones behind the widgets for one variant.
type loom struct {
	background, surface, header, separator color.NRGBA
}

var (
	linenLoom = loom{
		background: color.NRGBA{R: 0xFA, G: 0xF0, B: 0xE6, A: 0xFF},
		surface:    color.NRGBA{R: 0xF2, G: 0xE6, B: 0xD6, A: 0xFF},
		header:     color.NRGBA{R: 0xEA, G: 0xDC, B: 0xC6, A: 0xFF},
		separator:  color.NRGBA{R: 0xD6, G: 0xC6, B: 0xAE, A: 0xFF},
	}
	walnutLoom = loom{
		background: color.NRGBA{R: 0x24, G: 0x1F, B: 0x1A, A: 0xFF},
		surface:    color.NRGBA{R: 0x31, G: 0x2A, B: 0x23, A: 0xFF},
		header:     color.NRGBA{R: 0x3B, G: 0x33, B: 0x2A, A: 0xFF},
		separator:  color.NRGBA{R: 0x52, G: 0x47, B: 0x3B, A: 0xFF},
	}
)

// WeaveTheme dresses the default fyne theme as cloth on a loom: the accents
// come from the weft and warp colors and the backgrounds are linen (light)
// or walnut (dark).
type WeaveTheme struct {
	weft, warp color.NRGBA
}

var _ fyne.Theme = (*WeaveTheme)(nil)

// NewWeaveTheme builds a theme accented with the given thread colors.
func NewWeaveTheme(weft, warp color.NRGBA) *WeaveTheme {
	weft.A, warp.A = 0xFF, 0xFF
	return &WeaveTheme{weft: weft, warp: warp}
}

func (t *WeaveTheme) palette(variant fyne.ThemeVariant) loom {
	if variant == theme.VariantDark {
		return walnutLoom
	}
	return linenLoom
}

func (t *WeaveTheme) Color(name fyne.ThemeColorName, variant fyne.ThemeVariant) color.Color {
	l := t.palette(variant)
	switch name {
	case theme.ColorNamePrimary:
		return t.weft
	case theme.ColorNameFocus:
		return withAlpha(t.warp, 0x80)
	case theme.ColorNameSelection:
		return withAlpha(t.warp, 0x50)
	case theme.ColorNameHover:
		return withAlpha(t.weft, 0x28)
	case theme.ColorNamePressed:
		return withAlpha(t.weft, 0x48)
	case theme.ColorNameScrollBar:
		return withAlpha(colorutil.Shade(t.weft, 0.7), 0xC0)
	case theme.ColorNameBackground:
		return l.background
	case theme.ColorNameButton, theme.ColorNameInputBackground,
		theme.ColorNameMenuBackground, theme.ColorNameOverlayBackground:
		return l.surface
	case theme.ColorNameHeaderBackground:
		return l.header
	case theme.ColorNameSeparator, theme.ColorNameInputBorder:
		return l.separator
	default:
		return theme.DefaultTheme().Color(name, variant)
	}
}

func withAlpha(c color.NRGBA, a uint8) color.NRGBA {
	c.A = a
	return c
}

func (t *WeaveTheme) Font(style fyne.TextStyle) fyne.Resource {
	return theme.DefaultTheme().Font(style)
}

func (t *WeaveTheme) Icon(name fyne.ThemeIconName) fyne.Resource {
	return theme.DefaultTheme().Icon(name)
}

// Size tightens the panel spacing so all sliders fit beside the canvas.
func (t *WeaveTheme) Size(name fyne.ThemeSizeName) float32 {
	switch name {
	case theme.SizeNamePadding:
		return 5
	case theme.SizeNameInnerPadding:
		return 6
	case theme.SizeNameInputRadius, theme.SizeNameSelectionRadius:
		return 3
	case theme.SizeNameSeparatorThickness:
		return 2
	case theme.SizeNameScrollBar:
		return 14
	default:
		return theme.DefaultTheme().Size(name)
	}
}
