package life

import (
	"strings"
	"testing"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/plus3/shaderdemos/app"
	"github.com/plus3/shaderdemos/ecs"
	"github.com/plus3/shaderdemos/render"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newLifeApp(t *testing.T, cfg Config) (*app.App, *GridDispatcher) {
	t.Helper()
	a := app.NewHeadless(app.DefaultWindow())
	var calls int
	a.Pipelines.CompileWGSL = fakeWGSL(&calls, false)

	cfg.Software = true
	d := NewGridDispatcher(a.Pipelines)
	a.AddPlugins(Plugin{Config: cfg, Dispatcher: d})
	return a, d
}

func smallConfig() Config {
	cfg := DefaultConfig()
	cfg.Width, cfg.Height = 64, 64
	return cfg
}

func singleton[T any](t *testing.T, a *app.App) *T {
	t.Helper()
	var v *T
	require.True(t, a.Storage.ReadSingleton(&v))
	return v
}

func TestPluginRunsSimulation(t *testing.T) {
	a, d := newLifeApp(t, smallConfig())

	require.NoError(t, a.Step(1.0/60))
	assert.Equal(t, StageInit, *singleton[Stage](t, a))
	assert.Equal(t, uint64(404), singleton[LivingCells](t, a).Count)

	require.NoError(t, a.Step(1.0/60))
	living := singleton[LivingCells](t, a)
	assert.Equal(t, StageUpdate, *singleton[Stage](t, a))
	assert.Equal(t, uint64(d.Grid().Living()), living.Count)
	assert.Equal(t, uint64(1), living.Generation)
	assert.Equal(t, uint64(1), living.Frame)

	wx, wy := d.Workgroups()
	assert.Equal(t, 8, wx)
	assert.Equal(t, 8, wy)
}

func TestPluginClickPaintsWhilePaused(t *testing.T) {
	cfg := smallConfig()
	cfg.Density = 0
	cfg.Paused = true
	a, _ := newLifeApp(t, cfg)

	require.NoError(t, a.Step(1.0/60))
	require.NoError(t, a.Step(1.0/60))
	require.Zero(t, singleton[LivingCells](t, a).Count)

	a.Input().SetCursor(640, 360)
	a.Input().PressMouse(ebiten.MouseButtonLeft)
	require.NoError(t, a.Step(1.0/60))

	living := singleton[LivingCells](t, a)
	assert.Equal(t, uint64(52), living.Count)
	assert.Zero(t, living.Generation)
	assert.Len(t, singleton[BindGroup](t, a).Clicks, 1)
	assert.Empty(t, singleton[PendingClicks](t, a).Points, "the render pass drains clicks")

	require.NoError(t, a.Step(1.0/60))
	assert.Empty(t, singleton[BindGroup](t, a).Clicks)
	assert.Equal(t, uint64(52), singleton[LivingCells](t, a).Count, "held button does not repaint")
}

func TestPluginKeepsClicksUntilDrawn(t *testing.T) {
	cfg := smallConfig()
	cfg.Density = 0
	cfg.Paused = true
	a, _ := newLifeApp(t, cfg)

	require.NoError(t, a.Step(1.0/60))
	require.NoError(t, a.Step(1.0/60))
	require.Equal(t, StageUpdate, *singleton[Stage](t, a))

	a.Input().SetCursor(640, 360)
	a.Input().PressMouse(ebiten.MouseButtonLeft)
	a.Update(1.0 / 60)
	a.Input().ReleaseMouse(ebiten.MouseButtonLeft)
	a.Update(1.0 / 60)
	require.Len(t, singleton[PendingClicks](t, a).Points, 1)

	require.NoError(t, a.Draw(nil, 1.0/60))
	assert.Equal(t, uint64(52), singleton[LivingCells](t, a).Count)
	assert.Empty(t, singleton[PendingClicks](t, a).Points)
}

func TestPluginEvolvesOncePerUpdate(t *testing.T) {
	a, _ := newLifeApp(t, smallConfig())
	generation := func() uint64 { return singleton[LivingCells](t, a).Generation }

	require.NoError(t, a.Step(1.0/60))
	require.NoError(t, a.Step(1.0/60))
	require.Equal(t, uint64(1), generation())

	require.NoError(t, a.Draw(nil, 1.0/60))
	require.NoError(t, a.Draw(nil, 1.0/60))
	assert.Equal(t, uint64(1), generation(), "draws without an update do not evolve")

	a.Update(1.0 / 60)
	a.Update(1.0 / 60)
	require.NoError(t, a.Draw(nil, 1.0/60))
	assert.Equal(t, uint64(2), generation())
}

func TestPluginCapturedPointerIgnored(t *testing.T) {
	cfg := smallConfig()
	cfg.Density = 0
	a, _ := newLifeApp(t, cfg)

	a.Input().Captured = true
	a.Input().PressMouse(ebiten.MouseButtonLeft)
	require.NoError(t, a.Step(1.0/60))
	assert.Zero(t, singleton[LivingCells](t, a).Count)
}

func TestPluginStepOnce(t *testing.T) {
	cfg := smallConfig()
	cfg.Paused = true
	a, _ := newLifeApp(t, cfg)

	require.NoError(t, a.Step(1.0/60))
	require.NoError(t, a.Step(1.0/60))
	assert.Zero(t, singleton[LivingCells](t, a).Generation)

	a.Input().Press(ebiten.KeyS)
	require.NoError(t, a.Step(1.0/60))
	assert.Equal(t, uint64(1), singleton[LivingCells](t, a).Generation)
	assert.False(t, singleton[Controls](t, a).StepOnce)

	require.NoError(t, a.Step(1.0/60))
	assert.Equal(t, uint64(1), singleton[LivingCells](t, a).Generation)
}

func TestPluginPauseAndReseed(t *testing.T) {
	a, _ := newLifeApp(t, smallConfig())
	for range 3 {
		require.NoError(t, a.Step(1.0/60))
	}

	a.Input().Press(ebiten.KeySpace)
	require.NoError(t, a.Step(1.0/60))
	assert.True(t, singleton[Controls](t, a).Paused)
	generation := singleton[LivingCells](t, a).Generation

	a.Input().Release(ebiten.KeySpace)
	a.Input().Press(ebiten.KeyR)
	require.NoError(t, a.Step(1.0/60))

	controls := singleton[Controls](t, a)
	assert.NotZero(t, controls.Seed)
	assert.Equal(t, StageInit, *singleton[Stage](t, a))
	assert.Zero(t, singleton[LivingCells](t, a).Generation)
	assert.NotZero(t, generation)
	assert.Equal(t, controls.Seed, singleton[BindGroup](t, a).Seed)
}

func TestPluginHUD(t *testing.T) {
	a, _ := newLifeApp(t, smallConfig())
	for range 3 {
		require.NoError(t, a.Step(1.0/60))
	}

	var labels []string
	for label := range ecs.NewView[hudView](a.Storage).Values() {
		labels = append(labels, label.Text.Value)
	}
	require.Len(t, labels, 1)
	assert.True(t, strings.HasPrefix(labels[0], "Living cells: "), labels[0])
	assert.Contains(t, labels[0], "(update)")
}

func TestPluginSpritesFollowFrontBuffer(t *testing.T) {
	a, _ := newLifeApp(t, smallConfig())
	require.NoError(t, a.Step(1.0/60))

	type spriteView struct {
		*render.Sprite
	}
	var sprites []*render.Sprite
	for v := range ecs.NewView[spriteView](a.Storage).Values() {
		sprites = append(sprites, v.Sprite)
	}
	require.Len(t, sprites, 1)
	assert.Same(t, singleton[Image](t, a), sprites[0].Source)
	assert.Equal(t, render.Vec2{X: 64, Y: 64}, sprites[0].Size)
}

func TestPluginRejectsInvalidConfig(t *testing.T) {
	a := app.NewHeadless(app.DefaultWindow())
	assert.Panics(t, func() {
		a.AddPlugins(Plugin{Config: Config{Width: 10, Height: 8, Density: 0.1}})
	})
}

func TestPluginDefaults(t *testing.T) {
	a := app.NewHeadless(app.DefaultWindow())
	a.AddPlugins(Plugin{})
	assert.Equal(t, DefaultConfig(), *singleton[Config](t, a))
	assert.NotNil(t, a.Graph.Node(NodeLabel))
	order, err := a.Graph.Order()
	require.NoError(t, err)
	assert.Equal(t, []string{NodeLabel, ReadbackLabel, render.CameraDriverLabel}, order)
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
		ok     bool
	}{
		{"default", func(*Config) {}, true},
		{"zero width", func(c *Config) { c.Width = 0 }, false},
		{"not workgroup aligned", func(c *Config) { c.Height = 100 }, false},
		{"too large", func(c *Config) { c.Width = 1 << 17 }, false},
		{"density above one", func(c *Config) { c.Density = 1.5 }, false},
		{"negative brush", func(c *Config) { c.BrushRadius = -1 }, false},
		{"negative readback", func(c *Config) { c.ReadbackInterval = -1 }, false},
		{"readback disabled", func(c *Config) { c.ReadbackInterval = 0 }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(&cfg)
			err := cfg.Validate()
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, ErrInvalidConfig)
			}
		})
	}
}

func TestDescriptors(t *testing.T) {
	initDesc, updateDesc := Descriptors(true)
	assert.Equal(t, render.WGSL, initDesc.Language)
	assert.Equal(t, "init", initDesc.EntryPoint)
	assert.Equal(t, "update", updateDesc.EntryPoint)
	assert.Equal(t, initDesc.Source, updateDesc.Source)

	initDesc, updateDesc = Descriptors(false)
	assert.Equal(t, render.Kage, initDesc.Language)
	assert.Contains(t, string(updateDesc.Source), "func Fragment")
}
