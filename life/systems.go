package life

import (
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/plus3/shaderdemos/app"
	"github.com/plus3/shaderdemos/ecs"
	"github.com/plus3/shaderdemos/render"
)

// SetupSystem allocates the simulation textures and spawns the sprite and
// the HUD label. It runs once at startup.
type SetupSystem struct {
	Config ecs.Singleton[Config]
	Image  ecs.Singleton[Image]

	textures render.TextureAllocator
}

func (s *SetupSystem) Execute(frame *ecs.UpdateFrame) {
	cfg := s.Config.MustGet()
	frame.Storage.AddSingleton(NewImage(s.textures, cfg.Width, cfg.Height))
	img := s.Image.MustGet()

	frame.Commands.Spawn(
		render.NewTransform(0, 0),
		render.Sprite{Source: img, Size: render.Vec2{X: float64(cfg.Width), Y: float64(cfg.Height)}},
	)
	frame.Commands.Spawn(
		render.NewText(hudText(0, 0, StageLoading), 40, 10, 10),
		HUD{},
	)
	app.Logger().Info("life world created", "width", cfg.Width, "height", cfg.Height, "density", cfg.Density)
}

// ClickSystem turns left clicks into clip-space brush positions.
type ClickSystem struct {
	Input  ecs.Singleton[app.Input]
	Window ecs.Singleton[app.Window]
	Config ecs.Singleton[Config]
	Clicks ecs.Singleton[PendingClicks]
}

func (s *ClickSystem) Execute(*ecs.UpdateFrame) {
	in := s.Input.MustGet()
	if in.Captured {
		return
	}
	pressed := in.MouseJustPressed(ebiten.MouseButtonLeft)
	if s.Config.MustGet().PaintOnDrag {
		pressed = in.MousePressed(ebiten.MouseButtonLeft)
	}
	if !pressed {
		return
	}

	w := s.Window.MustGet()
	x, y := in.Cursor()
	clip := render.CursorToClip(x, y, w.Width, w.Height)
	app.Logger().Debug("user clicked", "x", x, "y", y, "clip", clip)
	s.Clicks.MustGet().Push(clip)
}

// ControlSystem maps Space to pause, S to a single step while paused and R
// to a reseed.
type ControlSystem struct {
	Input    ecs.Singleton[app.Input]
	Controls ecs.Singleton[Controls]
}

func (s *ControlSystem) Execute(*ecs.UpdateFrame) {
	in := s.Input.MustGet()
	c := s.Controls.MustGet()
	if in.JustPressed(ebiten.KeySpace) {
		c.TogglePause()
	}
	if in.JustPressed(ebiten.KeyS) {
		c.Step()
	}
	if in.JustPressed(ebiten.KeyR) {
		c.Reseed()
	}
	if !c.Paused {
		c.Tick = true
	}
}

// TogglePause pauses or resumes the simulation.
func (c *Controls) TogglePause() {
	c.Paused = !c.Paused
	app.Logger().Info("life paused", "paused", c.Paused)
}

// Step requests a single generation. It does nothing while running.
func (c *Controls) Step() {
	if c.Paused {
		c.StepOnce = true
	}
}

// Evolve reports whether the next update pass computes a generation.
func (c *Controls) Evolve() bool {
	return (c.Tick && !c.Paused) || c.StepOnce
}

// Evolved consumes the requests satisfied by a computed generation.
func (c *Controls) Evolved() {
	c.Tick = false
	c.StepOnce = false
}

// Reseed requests a reset with the next seed.
func (c *Controls) Reseed() {
	c.Seed = hash(c.Seed + 1)
	c.Reset = true
	app.Logger().Info("life reseeded", "seed", c.Seed)
}

// PrepareBindGroupSystem snapshots the textures, clicks and controls into
// BindGroup before the render graph runs. It drains PendingClicks, so clicks
// from every update since the last drawn frame are painted once.
type PrepareBindGroupSystem struct {
	Config   ecs.Singleton[Config]
	Image    ecs.Singleton[Image]
	Clicks   ecs.Singleton[PendingClicks]
	Controls ecs.Singleton[Controls]
	Bind     ecs.Singleton[BindGroup]
}

func (s *PrepareBindGroupSystem) Execute(*ecs.UpdateFrame) {
	img := s.Image.Get()
	if img == nil || img.Front == nil {
		panic("life: simulation image missing")
	}
	cfg := s.Config.MustGet()
	controls := s.Controls.MustGet()
	w, h := img.Size()

	bind := s.Bind.MustGet()
	bind.Front = img.Front
	bind.Back = img.Back
	bind.Seed = cfg.Seed ^ controls.Seed
	bind.Density = cfg.Density
	bind.BrushRadius = cfg.BrushRadius
	bind.Evolve = controls.Evolve()
	bind.Clicks = bind.Clicks[:0]

	pending := s.Clicks.MustGet()
	points := pending.Points
	if len(points) > MaxClicks {
		app.Logger().Debug("dropping clicks", "pending", len(points), "max", MaxClicks)
		points = points[:MaxClicks]
	}
	for _, p := range points {
		bind.Clicks = append(bind.Clicks, ClipToCell(p, w, h))
	}
	pending.Clear()
}

type hudView struct {
	*render.Text
	*HUD
}

// HUDSystem writes the living cell count into the HUD label.
type HUDSystem struct {
	Labels ecs.Query[hudView]
	Living ecs.Singleton[LivingCells]
	Stage  ecs.Singleton[Stage]
}

func (s *HUDSystem) Execute(*ecs.UpdateFrame) {
	living := s.Living.MustGet()
	stage := s.Stage.MustGet()
	for label := range s.Labels.Values() {
		label.Text.Value = hudText(living.Count, living.Generation, *stage)
	}
}

func hudText(count, generation uint64, stage Stage) string {
	return fmt.Sprintf("Living cells: %d\nGeneration %d (%s)", count, generation, stage)
}
