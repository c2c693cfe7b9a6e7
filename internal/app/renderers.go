package app

import (
	"weave-studio/internal/render2d"
	"weave-studio/internal/scene"
)

// Renderers holds one renderer per mode. The scene renderer keeps its own
// scene cache, so a Renderers value should live as long as its view.
type Renderers struct {
	Lines   *render2d.LineRenderer
	Ribbons *render2d.RibbonRenderer
	Scene   *scene.Renderer
}

// NewRenderers creates the default renderer set.
func NewRenderers() *Renderers {
	return &Renderers{
		Lines:   render2d.NewLineRenderer(),
		Ribbons: render2d.NewRibbonRenderer(),
		Scene:   scene.NewRenderer(scene.NewCache()),
	}
}

// For returns the renderer that draws mode m.
func (r *Renderers) For(m Mode) render2d.Renderer {
	switch m {
	case ModeRibbons:
		return r.Ribbons
	case ModeScene:
		return r.Scene
	default:
		return r.Lines
	}
}
