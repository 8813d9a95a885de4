package debugui

import (
	ebitenbackend "github.com/AllenDang/cimgui-go/backend/ebiten-backend"
	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/plus3/shaderdemos/app"
	"github.com/plus3/shaderdemos/ecs"
)

// Backend wraps the Ebitengine Dear ImGui backend as an app.Overlay.
type Backend struct {
	*ebitenbackend.EbitenBackend
}

// NewBackend creates the ImGui context for a window of the given size.
// Settings are not persisted to imgui.ini.
func NewBackend(title string, width, height int) *Backend {
	b := ebitenbackend.NewEbitenBackend()
	b.CreateWindow(title, width, height)
	imgui.CurrentIO().SetIniFilename("")
	return &Backend{EbitenBackend: b}
}

func (b *Backend) BeginFrame() { b.EbitenBackend.BeginFrame() }
func (b *Backend) EndFrame() { b.EbitenBackend.EndFrame() }
func (b *Backend) Draw(screen *ebiten.Image) { b.EbitenBackend.Draw(screen) }
func (b *Backend) Layout(width, height int) { b.EbitenBackend.Layout(width, height) }

// Plugin installs the ImGui overlay, the ImguiSystem and the built-in
// debug windows.
type Plugin struct {
	// Overlay replaces the ImGui backend. Headless apps pass their own.
	Overlay app.Overlay
	// Items are extra windows drawn alongside the built-in ones.
	Items []ImguiItem
	// HidePanels skips the built-in windows.
	HidePanels bool

	capture func() (mouse, keyboard bool)
}

func (p Plugin) Build(a *app.App) {
	ecs.RegisterComponent[ImguiItem](a.Registry)
	ecs.NewSingleton[ImguiInputState](a.Storage)
	a.AddSystems(app.PreUpdate, &ImguiSystem{capture: p.capture})

	overlay := p.Overlay
	if overlay == nil {
		w := a.Window()
		overlay = NewBackend(w.Title, w.Width, w.Height)
	}
	a.AddOverlay(overlay)

	if !p.HidePanels {
		for _, item := range Panels(a) {
			a.Storage.Spawn(item)
		}
	}
	for _, item := range p.Items {
		a.Storage.Spawn(item)
	}
}

// Panels returns the built-in windows: performance, archetypes with their
// entities, and the singleton inspector.
func Panels(a *app.App) []ImguiItem {
	perf := NewPerformancePanel(a)
	archetypes := NewArchetypeViewer(a.Storage)
	entities := NewEntityInspector(a.Storage)
	singletons := NewSingletonInspector(a.Storage)

	return []ImguiItem{
		{Render: perf.Render},
		{Render: func() {
			archetypes.Render()
			entities.Render(archetypes.Selected())
		}},
		{Render: singletons.Render},
	}
}
