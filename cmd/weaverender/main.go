// Command weaverender renders a weave to an image, exports the 3D scene as
// OBJ, or prints the weave draft.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"weave-studio/internal/app"
	"weave-studio/internal/config"
	"weave-studio/internal/export"
	"weave-studio/internal/params"
	"weave-studio/internal/scene"
	"weave-studio/internal/version"
	"weave-studio/internal/weave"
	"weave-studio/pkg/colorutil"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

type options struct {
	mode       string
	weave      string
	zoom       float64
	spacing    float64
	thickness  float64
	height     float64
	grid       int
	auto       bool
	weft       string
	warp       string
	preset     string
	width      int
	imgHeight  int
	rows, cols int
	out        string
	configPath string
	version    bool
}

func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("weaverender", flag.ContinueOnError)
	fs.SetOutput(stderr)

	var o options
	fs.StringVar(&o.mode, "mode", "", "Output: lines, ribbons, scene, obj or draft (default from -o extension)")
	fs.StringVar(&o.weave, "weave", "", "Weave: plain, twill, satin or basket")
	fs.Float64Var(&o.zoom, "zoom", 0, "Thread size in pixels (5-50)")
	fs.Float64Var(&o.spacing, "spacing", 0, "3D thread spacing (0.1-2)")
	fs.Float64Var(&o.thickness, "thickness", 0, "3D thread radius (0.01-0.3)")
	fs.Float64Var(&o.height, "height", 0, "3D crossing displacement (0-0.5)")
	fs.IntVar(&o.grid, "grid", 0, "3D threads per axis (2-64)")
	fs.BoolVar(&o.auto, "auto", false, "Derive the 3D grid size from the image size")
	fs.StringVar(&o.weft, "weft", "", "Weft color (hex or color name)")
	fs.StringVar(&o.warp, "warp", "", "Warp color (hex or color name)")
	fs.StringVar(&o.preset, "preset", "", "Color preset name from the config")
	fs.IntVar(&o.width, "w", 800, "Image width")
	fs.IntVar(&o.imgHeight, "h", 600, "Image height")
	fs.IntVar(&o.rows, "rows", 0, "Draft rows (default one repeat)")
	fs.IntVar(&o.cols, "cols", 0, "Draft columns (default one repeat)")
	fs.StringVar(&o.out, "o", "", "Output file (.png, .tif or .obj); draft prints to stdout")
	fs.StringVar(&o.configPath, "config", config.DefaultPath(), "Config file")
	fs.BoolVar(&o.version, "version", false, "Print version and exit")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	if o.version {
		fmt.Fprintln(stdout, version.String())
		return 0
	}

	set := map[string]bool{}
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })

	if err := render(o, set, stdout); err != nil {
		fmt.Fprintf(stderr, "weaverender: %v\n", err)
		return 1
	}
	return 0
}

func render(o options, set map[string]bool, stdout io.Writer) error {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return err
	}
	p, err := buildParams(o, set, cfg)
	if err != nil {
		return err
	}

	mode := strings.ToLower(o.mode)
	if mode == "" {
		mode = modeForOutput(o.out, cfg.Defaults.Mode)
	}

	switch mode {
	case "draft":
		rows, cols := p.Rules.Period(p.Weave)
		if o.rows > 0 {
			rows = o.rows
		}
		if o.cols > 0 {
			cols = o.cols
		}
		d := p.Rules.Draft(p.Weave, rows, cols)
		if o.out == "" {
			_, err := io.WriteString(stdout, d.String())
			return err
		}
		return os.WriteFile(o.out, []byte(d.String()), 0o644)

	case "obj":
		if o.out == "" {
			return fmt.Errorf("obj output needs -o")
		}
		p = scene.Resolve(p, o.width, o.imgHeight)
		s := scene.Build(p)
		if err := export.SaveScene(o.out, s); err != nil {
			return err
		}
		fmt.Fprintf(stdout, "Wrote %s: %d threads, %d triangles\n", o.out, len(s.Threads), s.TriangleCount())
		return nil
	}

	m, err := app.ParseMode(mode)
	if err != nil {
		return err
	}
	if o.out == "" {
		return fmt.Errorf("%s output needs -o", m)
	}
	if o.width <= 0 || o.imgHeight <= 0 {
		return fmt.Errorf("invalid image size %dx%d", o.width, o.imgHeight)
	}
	img := app.NewRenderers().For(m).Render(p, o.width, o.imgHeight)
	if err := export.SaveImage(o.out, img); err != nil {
		return err
	}
	fmt.Fprintf(stdout, "Wrote %s: %s %s, %dx%d\n", o.out, p.Weave, m, o.width, o.imgHeight)
	return nil
}

// modeForOutput picks obj for .obj files and the configured mode otherwise.
func modeForOutput(out, fallback string) string {
	if f, err := export.FormatFromPath(out); err == nil && f == export.FormatOBJ {
		return "obj"
	}
	if out == "" {
		return "draft"
	}
	return fallback
}

// buildParams overlays the flags that were set on the configured defaults.
func buildParams(o options, set map[string]bool, cfg *config.Config) (params.Params, error) {
	p := cfg.Params()
	if set["weave"] {
		t, err := weave.ParseType(o.weave)
		if err != nil {
			return p, err
		}
		p = p.WithWeave(t)
	}
	if set["zoom"] {
		p = p.WithZoom(o.zoom)
	}
	if set["spacing"] {
		p = p.WithSpacing(o.spacing)
	}
	if set["thickness"] {
		p = p.WithThickness(o.thickness)
	}
	if set["height"] {
		p = p.WithHeight(o.height)
	}
	if set["grid"] {
		p = p.WithGridSize(o.grid)
	}
	if set["auto"] {
		p = p.WithAutoGrid(o.auto)
	}

	weft, warp := p.WeftColor, p.WarpColor
	if o.preset != "" {
		preset, ok := cfg.Preset(o.preset)
		if !ok {
			return p, fmt.Errorf("unknown preset %q (have %s)", o.preset, strings.Join(cfg.PresetNames(), ", "))
		}
		var err error
		if weft, warp, err = preset.Colors(); err != nil {
			return p, err
		}
	}
	var err error
	if o.weft != "" {
		if weft, err = colorutil.Parse(o.weft); err != nil {
			return p, fmt.Errorf("weft: %w", err)
		}
	}
	if o.warp != "" {
		if warp, err = colorutil.Parse(o.warp); err != nil {
			return p, fmt.Errorf("warp: %w", err)
		}
	}
	return p.WithColors(weft, warp), nil
}
