package params

import (
	"math"
	"testing"

	"weave-studio/internal/weave"
	"weave-studio/pkg/colorutil"

	"github.com/stretchr/testify/assert"
)

func TestRangeClamp(t *testing.T) {
	tests := []struct {
		name string
		r    Range
		in   float64
		want float64
	}{
		{name: "below min", r: ZoomRange, in: 1, want: 5},
		{name: "above max", r: ZoomRange, in: 500, want: 50},
		{name: "snaps to step", r: ZoomRange, in: 20.4, want: 20},
		{name: "fraction step", r: SpacingRange, in: 0.52, want: 0.5},
		{name: "nan uses default", r: HeightRange, in: math.NaN(), want: 0.1},
		{name: "zero in range", r: HeightRange, in: 0, want: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, tt.r.Clamp(tt.in), 1e-9)
		})
	}
}

func TestDefaultIsClamped(t *testing.T) {
	p := Default()
	assert.Equal(t, p, p.Clamp())
	assert.Equal(t, 20.0, p.Zoom)
	assert.Equal(t, weave.Plain, p.Weave)
	assert.Equal(t, 20, p.GridSize)
}

func TestWithMethodsCopy(t *testing.T) {
	base := Default()
	changed := base.WithZoom(35).WithWeave(weave.Satin).WithGridSize(1000).WithPan(3, 4)

	assert.Equal(t, 20.0, base.Zoom)
	assert.Equal(t, weave.Plain, base.Weave)
	assert.Equal(t, 35.0, changed.Zoom)
	assert.Equal(t, weave.Satin, changed.Weave)
	assert.Equal(t, 64, changed.GridSize)
	assert.Equal(t, 3.0, changed.PanX)
}

func TestSceneKey(t *testing.T) {
	base := Default()

	assert.Equal(t, base.SceneKey(), base.WithZoom(40).SceneKey(), "zoom does not affect the scene")
	assert.Equal(t, base.SceneKey(), base.WithPan(100, -50).SceneKey(), "pan does not affect the scene")
	assert.Equal(t, base.SceneKey(), base.WithRules(weave.Rules{}).SceneKey(), "normalized rules hash alike")

	changes := map[string]Params{
		"weave":     base.WithWeave(weave.Twill),
		"spacing":   base.WithSpacing(1),
		"thickness": base.WithThickness(0.2),
		"height":    base.WithHeight(0.3),
		"grid":      base.WithGridSize(10),
		"color":     base.WithColors(colorutil.White, base.WarpColor),
		"rules":     base.WithRules(weave.Rules{Twill: weave.TwillFalling}),
	}
	for name, p := range changes {
		assert.NotEqual(t, base.SceneKey(), p.SceneKey(), name)
	}
}

func TestIsWarpOverUsesRules(t *testing.T) {
	p := Default().WithWeave(weave.Twill)
	assert.True(t, p.IsWarpOver(0, 1))
	assert.False(t, p.WithRules(weave.Rules{Twill: weave.TwillFalling}).IsWarpOver(0, 1))
}
