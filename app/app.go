// Package app hosts plugins on top of the ecs package and drives them from
// an Ebitengine game loop or from headless Step calls.
package app

import (
	"errors"
	"fmt"
	"reflect"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/plus3/shaderdemos/ecs"
	"github.com/plus3/shaderdemos/render"
)

// Schedule names a group of systems that run together once per frame.
type Schedule int

const (
	// Startup runs once before the first frame.
	Startup Schedule = iota
	// First runs at the start of every frame: time, event buffers and
	// per-frame clean up.
	First
	// PreUpdate collects input.
	PreUpdate
	Update
	PostUpdate
	// Render runs before the render graph, once per drawn frame.
	Render

	scheduleCount
)

func (s Schedule) String() string {
	switch s {
	case Startup:
		return "Startup"
	case First:
		return "First"
	case PreUpdate:
		return "PreUpdate"
	case Update:
		return "Update"
	case PostUpdate:
		return "PostUpdate"
	case Render:
		return "Render"
	default:
		return fmt.Sprintf("Schedule(%d)", int(s))
	}
}

// AppExit requests the loop to stop after the current frame.
type AppExit struct{}

// App owns the world, its schedules, the render graph and the pipeline cache.
type App struct {
	Registry  *ecs.ComponentRegistry
	Storage   *ecs.Storage
	Graph     *render.Graph
	Pipelines *render.PipelineCache
	// Textures allocates simulation textures: GPU images when windowed,
	// memory textures when headless.
	Textures render.TextureAllocator

	window    Window
	schedules [scheduleCount]*ecs.Scheduler
	plugins   map[reflect.Type]bool
	finishers []Finisher
	overlays  []Overlay
	cleanups  []func()
	events    map[reflect.Type]bool

	input      *ecs.Singleton[Input]
	screen     *ecs.Singleton[render.Screen]
	exitEvents *ecs.EventReader[AppExit]

	started bool
	exiting bool
	frame   uint64
}

// New creates an app that renders through Ebitengine.
func New(window Window) *App {
	a := newApp(window, render.NewImageTexture)
	a.AddSystems(PreUpdate, &InputSystem{source: ebitenInput{}})
	return a
}

// NewHeadless creates an app with memory textures and no input device.
// Drive it with Step.
func NewHeadless(window Window) *App {
	a := newApp(window, render.NewMemoryTexture)
	a.AddSystems(PreUpdate, &InputSystem{})
	return a
}

func newApp(window Window, textures render.TextureAllocator) *App {
	registry := ecs.NewComponentRegistry()
	render.RegisterComponents(registry)
	storage := ecs.NewStorage(registry)

	a := &App{
		Registry:  registry,
		Storage:   storage,
		Graph:     render.NewGraph(),
		Pipelines: render.NewPipelineCache(),
		Textures:  textures,
		window:    window,
		plugins:   make(map[reflect.Type]bool),
		events:    make(map[reflect.Type]bool),
	}
	for i := range a.schedules {
		a.schedules[i] = ecs.NewScheduler(storage)
	}

	storage.AddSingleton(window)
	storage.AddSingleton(Time{})
	storage.AddSingleton(render.DefaultCamera())
	a.input = ecs.NewSingleton[Input](storage)
	a.screen = ecs.NewSingleton(storage, render.Screen{Width: window.Width, Height: window.Height})

	a.AddSystems(First, &TimeSystem{})
	AddEvent[AppExit](a)
	a.exitEvents = ecs.NewEventReader[AppExit](storage)

	if err := a.Graph.AddNode(render.CameraDriverLabel, render.NewCameraDriverNode()); err != nil {
		panic(err)
	}
	return a
}

// AddPlugins builds each plugin immediately. Adding the same plugin type
// twice panics.
func (a *App) AddPlugins(plugins ...Plugin) *App {
	for _, p := range plugins {
		t := reflect.TypeOf(p)
		if _, isFunc := p.(PluginFunc); !isFunc {
			if a.plugins[t] {
				panic("plugin " + t.String() + " added twice")
			}
			a.plugins[t] = true
		}
		p.Build(a)
		if f, ok := p.(Finisher); ok {
			a.finishers = append(a.finishers, f)
		}
		Logger().Debug("plugin built", "plugin", t.String())
	}
	return a
}

// AddSystems appends systems to schedule.
func (a *App) AddSystems(schedule Schedule, systems ...ecs.System) *App {
	s := a.schedules[schedule]
	for _, system := range systems {
		s.Register(system)
	}
	return a
}

// Scheduler returns the scheduler behind schedule.
func (a *App) Scheduler(schedule Schedule) *ecs.Scheduler {
	return a.schedules[schedule]
}

// AddEvent registers Events[T] and the system that advances its buffers at
// the start of every frame. Registering the same type twice is a no-op.
func AddEvent[T any](a *App) {
	t := reflect.TypeFor[T]()
	if a.events[t] {
		return
	}
	a.events[t] = true
	ecs.NewSingleton[ecs.Events[T]](a.Storage)
	a.AddSystems(First, &ecs.EventUpdateSystem[T]{})
}

// AddOverlay adds a UI layer drawn after the render graph.
func (a *App) AddOverlay(o Overlay) *App {
	a.overlays = append(a.overlays, o)
	return a
}

// OnExit registers fn to run when Run returns.
func (a *App) OnExit(fn func()) {
	a.cleanups = append(a.cleanups, fn)
}

// Exit asks the loop to stop after the current frame.
func (a *App) Exit() {
	ecs.NewSingleton[ecs.Events[AppExit]](a.Storage).Get().Send(AppExit{})
}

// Exiting reports whether an AppExit event has been seen.
func (a *App) Exiting() bool {
	return a.exiting
}

// Window returns the window configuration the app was created with.
func (a *App) Window() Window {
	return a.window
}

// Input returns the input snapshot. Headless tests drive it directly.
func (a *App) Input() *Input {
	return a.input.Get()
}

// Frame returns the number of completed frames.
func (a *App) Frame() uint64 {
	return a.frame
}

func (a *App) startup() {
	if a.started {
		return
	}
	a.started = true
	for _, f := range a.finishers {
		f.Finish(a)
	}
	a.schedules[Startup].Once(0)
	Logger().Info("app started", "systems", a.systemCount(), "render_nodes", a.Graph.Len())
}

func (a *App) systemCount() int {
	n := 0
	for _, s := range a.schedules {
		n += s.Len()
	}
	return n
}

// Update runs the First, PreUpdate, Update and PostUpdate schedules once.
// Ebitengine calls it at TPS, possibly several times between two Draw calls.
func (a *App) Update(dt float64) {
	a.startup()
	for _, schedule := range []Schedule{First, PreUpdate, Update, PostUpdate} {
		a.schedules[schedule].Once(dt)
	}
	for range a.exitEvents.Read() {
		a.exiting = true
	}
	a.input.Get().EndFrame()
}

// Draw runs the Render schedule and the render graph into target, which may
// be nil when headless.
func (a *App) Draw(target *ebiten.Image, dt float64) error {
	screen := a.screen.Get()
	screen.Image = target
	if target != nil {
		b := target.Bounds()
		screen.Width, screen.Height = b.Dx(), b.Dy()
	}

	a.Pipelines.ProcessQueue()
	a.schedules[Render].Once(dt)
	err := a.Graph.Run(&render.Context{
		Storage: a.Storage,
		Target:  target,
		Frame:   a.frame,
	})
	a.frame++
	return err
}

// Step runs one headless frame: the update schedules, the Render schedule
// and the render graph without a target.
func (a *App) Step(dt float64) error {
	a.Update(dt)
	return a.Draw(nil, dt)
}

// Run opens the window and blocks until the app exits.
func (a *App) Run() error {
	ebiten.SetWindowSize(a.window.Width, a.window.Height)
	ebiten.SetWindowTitle(a.window.Title)
	if a.window.Resizable {
		ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	}
	ebiten.SetTPS(a.window.TPS)

	defer func() {
		for i := len(a.cleanups) - 1; i >= 0; i-- {
			a.cleanups[i]()
		}
	}()

	err := ebiten.RunGame(&game{app: a})
	if errors.Is(err, ebiten.Termination) {
		return nil
	}
	return err
}

// game adapts App to ebiten.Game.
type game struct {
	app *App
	err error
}

func (g *game) Update() error {
	a := g.app
	if g.err != nil {
		return g.err
	}
	if a.exiting {
		return ebiten.Termination
	}

	for _, o := range a.overlays {
		o.BeginFrame()
	}
	a.Update(1 / float64(a.window.TPS))
	for _, o := range a.overlays {
		o.EndFrame()
	}
	return nil
}

func (g *game) Draw(screen *ebiten.Image) {
	a := g.app
	if err := a.Draw(screen, 1/float64(a.window.TPS)); err != nil && g.err == nil {
		Logger().Error("render graph failed", "err", err)
		g.err = err
	}
	for _, o := range a.overlays {
		o.Draw(screen)
	}
}

func (g *game) Layout(outsideWidth, outsideHeight int) (int, int) {
	for _, o := range g.app.overlays {
		o.Layout(outsideWidth, outsideHeight)
	}
	var window *Window
	if g.app.Storage.ReadSingleton(&window) {
		window.Width, window.Height = outsideWidth, outsideHeight
	}
	return outsideWidth, outsideHeight
}
