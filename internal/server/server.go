// Package server exposes the renderers over HTTP.
package server

import (
	"bytes"
	"fmt"
	"log"
	"net/http"
	"strings"

	"weave-studio/internal/app"
	"weave-studio/internal/config"
	"weave-studio/internal/export"
	"weave-studio/internal/params"
	"weave-studio/internal/scene"
	"weave-studio/internal/version"
	"weave-studio/internal/weave"
	"weave-studio/pkg/colorutil"

	"github.com/gin-gonic/gin"
)

// Default image size when the query gives none.
const (
	defaultWidth  = 800
	defaultHeight = 600
)

// Query holds the render parameters accepted by every endpoint. Zero values
// mean "use the configured default"; Height and Auto are pointers because
// zero and false are valid requests for them.
type Query struct {
	Mode      string   `form:"mode" binding:"omitempty,oneof=lines ribbons scene"`
	Weave     string   `form:"weave" binding:"omitempty,oneof=plain twill satin basket"`
	Zoom      float64  `form:"zoom" binding:"omitempty,gte=5,lte=50"`
	Spacing   float64  `form:"spacing" binding:"omitempty,gte=0.1,lte=2"`
	Thickness float64  `form:"thickness" binding:"omitempty,gte=0.01,lte=0.3"`
	Height    *float64 `form:"height" binding:"omitempty,gte=0,lte=0.5"`
	Grid      int      `form:"grid" binding:"omitempty,gte=2,lte=64"`
	Auto      *bool    `form:"auto"`
	Weft      string   `form:"weft"`
	Warp      string   `form:"warp"`
	Preset    string   `form:"preset"`
	Rows      int      `form:"rows" binding:"omitempty,gte=1,lte=256"`
	Cols      int      `form:"cols" binding:"omitempty,gte=1,lte=256"`

	ImageWidth  int `form:"w" binding:"omitempty,gte=1"`
	ImageHeight int `form:"h" binding:"omitempty,gte=1"`
}

// Server renders weaves on request.
type Server struct {
	cfg       *config.Config
	renderers *app.Renderers
	cache     *scene.Cache
}

// New creates a server using cfg for defaults, presets and size limits.
func New(cfg *config.Config) *Server {
	if cfg == nil {
		cfg = config.Default()
	}
	r := app.NewRenderers()
	return &Server{cfg: cfg, renderers: r, cache: r.Scene.Cache()}
}

// Router builds the gin engine with all routes.
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())

	r.GET("/healthz", s.health)
	r.GET("/render.png", s.renderImage(export.FormatPNG))
	r.GET("/render.tiff", s.renderImage(export.FormatTIFF))
	r.GET("/scene.obj", s.sceneOBJ)
	r.GET("/draft", s.draft)
	return r
}

// Run serves on the configured address until the listener fails.
func (s *Server) Run() error {
	addr := s.cfg.Server.Addr
	log.Printf("Server: listening on %s", addr)
	return s.Router().Run(addr)
}

func badRequest(c *gin.Context, err error) {
	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "version": version.Version})
}

// resolve binds the query and merges it over the configured defaults.
func (s *Server) resolve(c *gin.Context) (Query, params.Params, error) {
	var q Query
	if err := c.ShouldBindQuery(&q); err != nil {
		return q, params.Params{}, err
	}
	p, err := s.apply(q, s.cfg.Params())
	return q, p, err
}

func (s *Server) apply(q Query, p params.Params) (params.Params, error) {
	if q.Weave != "" {
		t, err := weave.ParseType(q.Weave)
		if err != nil {
			return p, err
		}
		p = p.WithWeave(t)
	}
	if q.Zoom != 0 {
		p = p.WithZoom(q.Zoom)
	}
	if q.Spacing != 0 {
		p = p.WithSpacing(q.Spacing)
	}
	if q.Thickness != 0 {
		p = p.WithThickness(q.Thickness)
	}
	if q.Height != nil {
		p = p.WithHeight(*q.Height)
	}
	if q.Grid != 0 {
		p = p.WithGridSize(q.Grid)
	}
	if q.Auto != nil {
		p = p.WithAutoGrid(*q.Auto)
	}

	if q.Preset != "" {
		preset, ok := s.cfg.Preset(q.Preset)
		if !ok {
			return p, fmt.Errorf("unknown preset %q", q.Preset)
		}
		weft, warp, err := preset.Colors()
		if err != nil {
			return p, err
		}
		p = p.WithColors(weft, warp)
	}
	weft, warp := p.WeftColor, p.WarpColor
	var err error
	if q.Weft != "" {
		if weft, err = colorutil.Parse(q.Weft); err != nil {
			return p, fmt.Errorf("weft: %w", err)
		}
	}
	if q.Warp != "" {
		if warp, err = colorutil.Parse(q.Warp); err != nil {
			return p, fmt.Errorf("warp: %w", err)
		}
	}
	return p.WithColors(weft, warp), nil
}

// size returns the requested image size after checking the server limits.
func (s *Server) size(q Query) (int, int, error) {
	w, h := q.ImageWidth, q.ImageHeight
	if w == 0 {
		w = defaultWidth
	}
	if h == 0 {
		h = defaultHeight
	}
	lim := s.cfg.Server
	if (lim.MaxWidth > 0 && w > lim.MaxWidth) || (lim.MaxHeight > 0 && h > lim.MaxHeight) {
		return 0, 0, fmt.Errorf("image size %dx%d exceeds limit %dx%d", w, h, lim.MaxWidth, lim.MaxHeight)
	}
	return w, h, nil
}

func (s *Server) renderImage(format export.Format) gin.HandlerFunc {
	contentType := "image/png"
	if format == export.FormatTIFF {
		contentType = "image/tiff"
	}
	return func(c *gin.Context) {
		q, p, err := s.resolve(c)
		if err != nil {
			badRequest(c, err)
			return
		}
		w, h, err := s.size(q)
		if err != nil {
			badRequest(c, err)
			return
		}
		mode, err := app.ParseMode(q.Mode)
		if err != nil {
			badRequest(c, err)
			return
		}

		img := s.renderers.For(mode).Render(p, w, h)
		var buf bytes.Buffer
		if err := export.WriteImage(&buf, img, format); err != nil {
			log.Printf("Server: encode %s: %v", format, err)
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.Data(http.StatusOK, contentType, buf.Bytes())
	}
}

func (s *Server) sceneOBJ(c *gin.Context) {
	q, p, err := s.resolve(c)
	if err != nil {
		badRequest(c, err)
		return
	}
	if p.AutoGrid {
		w, h, err := s.size(q)
		if err != nil {
			badRequest(c, err)
			return
		}
		p = scene.Resolve(p, w, h)
	}

	var buf bytes.Buffer
	if err := export.WriteOBJ(&buf, s.cache.Get(p), ""); err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Data(http.StatusOK, "model/obj", buf.Bytes())
}

// draftResponse is the JSON form of a weave draft.
type draftResponse struct {
	Weave string   `json:"weave"`
	Rows  int      `json:"rows"`
	Cols  int      `json:"cols"`
	Draft []string `json:"draft"`
	// WarpOver counts the crossings with the warp on top.
	WarpOver int `json:"warp_over"`
}

func (s *Server) draft(c *gin.Context) {
	q, p, err := s.resolve(c)
	if err != nil {
		badRequest(c, err)
		return
	}
	rows, cols := p.Rules.Period(p.Weave)
	if q.Rows != 0 {
		rows = q.Rows
	}
	if q.Cols != 0 {
		cols = q.Cols
	}

	d := p.Rules.Draft(p.Weave, rows, cols)
	lines := strings.Split(strings.TrimSuffix(d.String(), "\n"), "\n")
	c.JSON(http.StatusOK, draftResponse{
		Weave: p.Weave.String(),
		Rows:  rows,
		Cols:  cols,
		Draft: lines,

		WarpOver: d.WarpOverCount(),
	})
}
