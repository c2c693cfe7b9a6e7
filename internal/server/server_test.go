package server

import (
	"bytes"
	"encoding/json"
	"image/png"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"weave-studio/internal/config"
	"weave-studio/internal/params"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/tiff"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func get(t *testing.T, s *Server, url string) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, url, nil)
	s.Router().ServeHTTP(w, req)
	return w
}

func errorBody(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body["error"]
}

func TestHealth(t *testing.T) {
	w := get(t, New(nil), "/healthz")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"ok"`)
}

func TestRenderPNG(t *testing.T) {
	w := get(t, New(nil), "/render.png?w=120&h=80&weave=twill&zoom=10")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "image/png", w.Header().Get("Content-Type"))

	img, err := png.Decode(bytes.NewReader(w.Body.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, 120, img.Bounds().Dx())
	assert.Equal(t, 80, img.Bounds().Dy())
}

func TestRenderTIFFRibbons(t *testing.T) {
	w := get(t, New(nil), "/render.tiff?w=64&h=48&mode=ribbons&weft=crimson&warp=%23ffffff")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "image/tiff", w.Header().Get("Content-Type"))

	img, err := tiff.Decode(bytes.NewReader(w.Body.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, 64, img.Bounds().Dx())
}

func TestRenderScene(t *testing.T) {
	w := get(t, New(nil), "/render.png?w=64&h=64&mode=scene&grid=4")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
}

func TestBadRequests(t *testing.T) {
	s := New(nil)
	tests := []struct {
		url  string
		want string
	}{
		{"/render.png?zoom=500", "Zoom"},
		{"/render.png?zoom=1", "Zoom"},
		{"/render.png?weave=jacquard", "Weave"},
		{"/render.png?mode=wireframe", "Mode"},
		{"/render.png?grid=1000", "Grid"},
		{"/render.png?weft=notacolor", "weft"},
		{"/render.png?preset=nope", "preset"},
		{"/render.png?w=100000", "exceeds limit"},
		{"/render.png?w=abc", ""},
		{"/draft?rows=0&cols=-1", "Cols"},
	}
	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			w := get(t, s, tt.url)
			require.Equal(t, http.StatusBadRequest, w.Code)
			msg := errorBody(t, w)
			assert.NotEmpty(t, msg)
			assert.Contains(t, msg, tt.want)
		})
	}
}

func TestDraft(t *testing.T) {
	w := get(t, New(nil), "/draft?weave=twill")
	require.Equal(t, http.StatusOK, w.Code)

	var resp draftResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "twill", resp.Weave)
	assert.Equal(t, 4, resp.Rows)
	assert.Equal(t, 4, resp.Cols)
	assert.Equal(t, []string{"XX..", "X..X", "..XX", ".XX."}, resp.Draft)
	assert.Equal(t, 8, resp.WarpOver)

	w = get(t, New(nil), "/draft?weave=plain&rows=1&cols=6")
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, []string{"X.X.X."}, resp.Draft)
	assert.Equal(t, 3, resp.WarpOver)
}

func TestDraftUsesConfiguredRules(t *testing.T) {
	cfg, err := config.Parse("[rules]\ntwill = \"falling\"\n")
	require.NoError(t, err)
	w := get(t, New(cfg), "/draft?weave=twill")

	var resp draftResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, []string{"X..X", "XX..", ".XX.", "..XX"}, resp.Draft)
}

func TestSceneOBJ(t *testing.T) {
	w := get(t, New(nil), "/scene.obj?grid=2")
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Equal(t, 4, strings.Count(body, "\no "))
	assert.NotContains(t, body, "mtllib")
	// Two weft and two warp tubes of 64x8 quads.
	assert.Equal(t, 4*64*8*2, strings.Count(body, "\nf "))
}

func TestPresetQuery(t *testing.T) {
	s := New(nil)
	q := Query{Preset: "linen"}
	p, err := s.apply(q, s.cfg.Params())
	require.NoError(t, err)
	weft, warp, err := s.cfg.Presets[2].Colors()
	require.NoError(t, err)
	assert.Equal(t, weft, p.WeftColor)
	assert.Equal(t, warp, p.WarpColor)
}

func resolveQuery(t *testing.T, s *Server, rawQuery string) params.Params {
	t.Helper()
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, "/draft?"+rawQuery, nil)
	_, p, err := s.resolve(c)
	require.NoError(t, err)
	return p
}

func TestExplicitZeroAndFalseOverrideConfig(t *testing.T) {
	cfg, err := config.Parse("[defaults]\nheight = 0.3\nauto_grid = true\n")
	require.NoError(t, err)
	s := New(cfg)

	p := resolveQuery(t, s, "weave=satin")
	assert.InDelta(t, 0.3, p.Height, 1e-9)
	assert.True(t, p.AutoGrid)

	p = resolveQuery(t, s, "height=0&auto=false")
	assert.Equal(t, 0.0, p.Height)
	assert.False(t, p.AutoGrid)

	p = resolveQuery(t, New(nil), "auto=true&height=0.25")
	assert.True(t, p.AutoGrid)
	assert.InDelta(t, 0.25, p.Height, 1e-9)
}

func TestHeightOutOfRangeIsRejected(t *testing.T) {
	w := get(t, New(nil), "/draft?height=0.6")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, errorBody(t, w), "Height")
}
