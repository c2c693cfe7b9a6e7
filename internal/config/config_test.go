package config

import (
	"os"
	"path/filepath"
	"testing"

	"weave-studio/internal/params"
	"weave-studio/internal/weave"
	"weave-studio/pkg/colorutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, text string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(text), 0o644))
	return path
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.Equal(t, params.Default(), cfg.Params())
}

func TestDefaultValidates(t *testing.T) {
	require.NoError(t, Default().Validate())
	assert.Equal(t, []string{"Classic", "Denim", "Linen", "Tartan", "Charcoal"}, Default().PresetNames())
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
[defaults]
mode = "ribbons"
weave = "Satin"
zoom = 33
grid_size = 12
weft_color = "#ff0000"

[rules]
twill = "falling"
satin_step = 3
fallback = "under"

[server]
addr = "127.0.0.1:9000"
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "ribbons", cfg.Defaults.Mode)
	assert.Equal(t, weave.Satin, cfg.Defaults.Weave)
	assert.Equal(t, "127.0.0.1:9000", cfg.Server.Addr)
	assert.Equal(t, 4096, cfg.Server.MaxWidth)
	// No [[preset]] entries keeps the built-in list.
	assert.Len(t, cfg.Presets, 5)

	p := cfg.Params()
	assert.Equal(t, 33.0, p.Zoom)
	assert.Equal(t, 12, p.GridSize)
	assert.Equal(t, params.SpacingRange.Default, p.Spacing)
	assert.Equal(t, colorutil.MustParse("red"), p.WeftColor)
	assert.Equal(t, params.DefaultWarpColor, p.WarpColor)
	assert.Equal(t, weave.Rules{Twill: weave.TwillFalling, SatinStep: 3, Fallback: weave.FallbackUnder}, p.Rules)
}

func TestParamsAreClamped(t *testing.T) {
	cfg, err := Parse(`
[defaults]
zoom = 500
thickness = 0
grid_size = 1000
`)
	require.NoError(t, err)
	p := cfg.Params()
	assert.Equal(t, params.ZoomRange.Max, p.Zoom)
	assert.Equal(t, params.ThicknessRange.Min, p.Thickness)
	assert.Equal(t, int(params.GridSizeRange.Max), p.GridSize)
}

func TestPresetsReplaceBuiltins(t *testing.T) {
	cfg, err := Parse(`
[[preset]]
name = "Sea"
weft = "teal"
warp = "#fafafa"

[[preset]]
name = "Sand"
weft = "wheat"
warp = "sienna"
`)
	require.NoError(t, err)
	assert.Equal(t, []string{"Sea", "Sand"}, cfg.PresetNames())

	sea, ok := cfg.Preset("sea")
	require.True(t, ok)
	weft, warp, err := sea.Colors()
	require.NoError(t, err)
	assert.Equal(t, colorutil.MustParse("teal"), weft)
	assert.Equal(t, colorutil.MustParse("#fafafa"), warp)

	_, ok = cfg.Preset("Classic")
	assert.False(t, ok)
}

func TestValidation(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{"satin step", "[rules]\nsatin_step = 4\n"},
		{"mode", "[defaults]\nmode = \"wireframe\"\n"},
		{"default color", "[defaults]\nwarp_color = \"notacolor\"\n"},
		{"preset color", "[[preset]]\nname = \"x\"\nweft = \"red\"\nwarp = \"#12\"\n"},
		{"preset name", "[[preset]]\nweft = \"red\"\nwarp = \"blue\"\n"},
		{"duplicate preset", "[[preset]]\nname = \"a\"\nweft = \"red\"\nwarp = \"blue\"\n[[preset]]\nname = \"a\"\nweft = \"red\"\nwarp = \"blue\"\n"},
		{"server", "[server]\nmax_width = -1\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.text)
			assert.ErrorIs(t, err, ErrInvalidConfig)
		})
	}

	_, err := Parse("[rules]\nsatin_step = 5\n")
	assert.ErrorIs(t, err, weave.ErrInvalidRules)
}

func TestNormalizeMode(t *testing.T) {
	for in, want := range map[string]string{
		"":        "lines",
		"Lines":   "lines",
		"ribbons": "ribbons",
		" 3D ":    "scene",
		"scene":   "scene",
	} {
		got, err := NormalizeMode(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := NormalizeMode("wireframe")
	assert.Error(t, err)

	cfg, err := Parse("[defaults]\nmode = \"3d\"\n")
	require.NoError(t, err)
	assert.Equal(t, "3d", cfg.Defaults.Mode)
}

func TestDecodeErrors(t *testing.T) {
	_, err := Parse("[rules]\ntwill = \"sideways\"\n")
	assert.Error(t, err)

	_, err = Parse("[defaults]\nweave = \"jacquard\"\n")
	assert.Error(t, err)

	_, err = Load(writeConfig(t, "this is = not toml ["))
	assert.Error(t, err)
}

func TestDefaultPath(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg")
	assert.Equal(t, filepath.Join("/tmp/xdg", "weave-studio", "config.toml"), DefaultPath())
}

func TestExampleConfigLoads(t *testing.T) {
	cfg, err := Load(filepath.Join("..", "..", "config.example.toml"))
	require.NoError(t, err)
	assert.Equal(t, []string{"Classic", "Denim", "Indigo"}, cfg.PresetNames())
	assert.Equal(t, weave.DefaultRules, cfg.Rules.Weave())
	assert.Equal(t, params.Default().Zoom, cfg.Params().Zoom)
}
