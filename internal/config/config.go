// Package config loads the read-only TOML configuration: startup defaults,
// interlacing rule choices and color presets.
package config

import (
	"errors"
	"fmt"
	"image/color"
	"log"
	"os"
	"path/filepath"
	"strings"

	"weave-studio/internal/params"
	"weave-studio/internal/weave"
	"weave-studio/pkg/colorutil"

	"github.com/BurntSushi/toml"
)

const (
	appDir     = "weave-studio"
	configFile = "config.toml"
)

// ErrInvalidConfig is wrapped by all validation errors.
var ErrInvalidConfig = errors.New("invalid config")

// Config is the decoded configuration file.
type Config struct {
	Defaults Defaults `toml:"defaults"`
	Rules    Rules    `toml:"rules"`
	Presets  []Preset `toml:"preset"`
	Server   Server   `toml:"server"`
}

// Defaults are the startup values of the controls.
type Defaults struct {
	Mode      string     `toml:"mode"`
	Weave     weave.Type `toml:"weave"`
	Zoom      float64    `toml:"zoom"`
	Spacing   float64    `toml:"spacing"`
	Thickness float64    `toml:"thickness"`
	Height    float64    `toml:"height"`
	GridSize  int        `toml:"grid_size"`
	AutoGrid  bool       `toml:"auto_grid"`
	WeftColor string     `toml:"weft_color"`
	WarpColor string     `toml:"warp_color"`
}

// Rules mirrors weave.Rules with TOML names.
type Rules struct {
	Twill     weave.TwillDirection `toml:"twill"`
	SatinStep int                  `toml:"satin_step"`
	Fallback  weave.Fallback       `toml:"fallback"`
}

// Weave converts the section to weave.Rules.
func (r Rules) Weave() weave.Rules {
	return weave.Rules{Twill: r.Twill, SatinStep: r.SatinStep, Fallback: r.Fallback}.Normalized()
}

// Preset is a named weft/warp color pair.
type Preset struct {
	Name string `toml:"name"`
	Weft string `toml:"weft"`
	Warp string `toml:"warp"`
}

// Colors parses the preset's colors.
func (p Preset) Colors() (weft, warp color.NRGBA, err error) {
	if weft, err = colorutil.Parse(p.Weft); err != nil {
		return weft, warp, fmt.Errorf("preset %q weft: %w", p.Name, err)
	}
	if warp, err = colorutil.Parse(p.Warp); err != nil {
		return weft, warp, fmt.Errorf("preset %q warp: %w", p.Name, err)
	}
	return weft, warp, nil
}

// Server holds the render service settings.
type Server struct {
	Addr      string `toml:"addr"`
	MaxWidth  int    `toml:"max_width"`
	MaxHeight int    `toml:"max_height"`
}

// Default returns the built-in configuration.
func Default() *Config {
	p := params.Default()
	return &Config{
		Defaults: Defaults{
			Mode:      "lines",
			Weave:     p.Weave,
			Zoom:      p.Zoom,
			Spacing:   p.Spacing,
			Thickness: p.Thickness,
			Height:    p.Height,
			GridSize:  p.GridSize,
			WeftColor: colorutil.Hex(p.WeftColor),
			WarpColor: colorutil.Hex(p.WarpColor),
		},
		Rules: Rules{
			Twill:     weave.DefaultRules.Twill,
			SatinStep: weave.DefaultRules.SatinStep,
			Fallback:  weave.DefaultRules.Fallback,
		},
		Presets: []Preset{
			{Name: "Classic", Weft: "steelblue", Warp: "goldenrod"},
			{Name: "Denim", Weft: "white", Warp: "#1f3a60"},
			{Name: "Linen", Weft: "linen", Warp: "tan"},
			{Name: "Tartan", Weft: "darkred", Warp: "darkgreen"},
			{Name: "Charcoal", Weft: "dimgray", Warp: "gainsboro"},
		},
		Server: Server{
			Addr:      ":8080",
			MaxWidth:  4096,
			MaxHeight: 4096,
		},
	}
}

// DefaultPath returns $XDG_CONFIG_HOME/weave-studio/config.toml, falling back
// to ~/.config when the user config directory is unknown.
func DefaultPath() string {
	configDir, err := os.UserConfigDir()
	if err != nil {
		configDir = filepath.Join(os.Getenv("HOME"), ".config")
	}
	return filepath.Join(configDir, appDir, configFile)
}

// Load reads the configuration at path on top of the built-in defaults. A
// missing file is not an error. Keys in the file replace defaults; a file
// with [[preset]] entries replaces the whole preset list.
func Load(path string) (*Config, error) {
	cfg := Default()
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}

	builtin := cfg.Presets
	cfg.Presets = nil
	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return nil, fmt.Errorf("load config %s: %w", path, err)
	}
	for _, key := range md.Undecoded() {
		log.Printf("Config: ignoring unknown key %q in %s", key.String(), path)
	}
	if len(cfg.Presets) == 0 {
		cfg.Presets = builtin
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("load config %s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes a configuration from TOML text, for tests and embedded
// configs.
func Parse(text string) (*Config, error) {
	cfg := Default()
	builtin := cfg.Presets
	cfg.Presets = nil
	if _, err := toml.Decode(text, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if len(cfg.Presets) == 0 {
		cfg.Presets = builtin
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// NormalizeMode maps a render mode name to "lines", "ribbons" or "scene".
// The empty string means "lines" and "3d" is accepted for "scene".
func NormalizeMode(s string) (string, error) {
	switch m := strings.ToLower(strings.TrimSpace(s)); m {
	case "", "lines":
		return "lines", nil
	case "ribbons":
		return m, nil
	case "scene", "3d":
		return "scene", nil
	default:
		return "", fmt.Errorf("unknown render mode %q", s)
	}
}

// Validate checks rules, colors, presets and server limits.
func (c *Config) Validate() error {
	if err := c.Rules.Weave().Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if !c.Defaults.Weave.Known() {
		return fmt.Errorf("%w: weave %d", ErrInvalidConfig, int(c.Defaults.Weave))
	}
	if _, err := NormalizeMode(c.Defaults.Mode); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	for _, s := range []string{c.Defaults.WeftColor, c.Defaults.WarpColor} {
		if _, err := colorutil.Parse(s); err != nil {
			return fmt.Errorf("%w: defaults: %w", ErrInvalidConfig, err)
		}
	}

	seen := make(map[string]bool, len(c.Presets))
	for i, p := range c.Presets {
		if p.Name == "" {
			return fmt.Errorf("%w: preset %d has no name", ErrInvalidConfig, i)
		}
		if seen[p.Name] {
			return fmt.Errorf("%w: duplicate preset %q", ErrInvalidConfig, p.Name)
		}
		seen[p.Name] = true
		if _, _, err := p.Colors(); err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
		}
	}

	if c.Server.MaxWidth < 0 || c.Server.MaxHeight < 0 {
		return fmt.Errorf("%w: negative server limits", ErrInvalidConfig)
	}
	return nil
}

// Params returns the startup render parameters, clamped to their ranges.
// Colors that fail to parse keep the built-in defaults.
func (c *Config) Params() params.Params {
	d := c.Defaults
	p := params.Default()
	p.Weave = d.Weave
	p.Zoom = d.Zoom
	p.Spacing = d.Spacing
	p.Thickness = d.Thickness
	p.Height = d.Height
	p.GridSize = d.GridSize
	p.AutoGrid = d.AutoGrid
	if col, err := colorutil.Parse(d.WeftColor); err == nil {
		p.WeftColor = col
	}
	if col, err := colorutil.Parse(d.WarpColor); err == nil {
		p.WarpColor = col
	}
	p.Rules = c.Rules.Weave()
	return p.Clamp()
}

// Preset returns the preset with the given name, ignoring case.
func (c *Config) Preset(name string) (Preset, bool) {
	for _, p := range c.Presets {
		if strings.EqualFold(p.Name, name) {
			return p, true
		}
	}
	return Preset{}, false
}

// PresetNames lists preset names in file order.
func (c *Config) PresetNames() []string {
	names := make([]string, len(c.Presets))
	for i, p := range c.Presets {
		names[i] = p.Name
	}
	return names
}
