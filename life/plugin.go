package life

import (
	"github.com/plus3/shaderdemos/app"
	"github.com/plus3/shaderdemos/ecs"
	"github.com/plus3/shaderdemos/render"
)

// Plugin adds the Game of Life simulation to an app.
type Plugin struct {
	Config Config
	// Dispatcher overrides the dispatcher chosen from Config.Software.
	Dispatcher Dispatcher
}

func (p Plugin) config() Config {
	if p.Config == (Config{}) {
		return DefaultConfig()
	}
	return p.Config
}

func (p Plugin) Build(a *app.App) {
	cfg := p.config()
	if err := cfg.Validate(); err != nil {
		panic(err)
	}

	ecs.RegisterComponent[HUD](a.Registry)
	a.Storage.AddSingleton(cfg)
	a.Storage.AddSingleton(PendingClicks{})
	a.Storage.AddSingleton(Controls{Paused: cfg.Paused})
	a.Storage.AddSingleton(LivingCells{})
	a.Storage.AddSingleton(StageLoading)
	a.Storage.AddSingleton(BindGroup{})

	a.AddSystems(app.Startup, &SetupSystem{textures: a.Textures})
	a.AddSystems(app.Update, &ClickSystem{}, &ControlSystem{})
	a.AddSystems(app.PostUpdate, &HUDSystem{})
	a.AddSystems(app.Render, &PrepareBindGroupSystem{})

	dispatcher := p.Dispatcher
	if dispatcher == nil {
		if cfg.Software {
			dispatcher = NewGridDispatcher(a.Pipelines)
		} else {
			dispatcher = NewShaderDispatcher(a.Pipelines)
		}
	}

	g := a.Graph
	mustGraph(g.AddNode(NodeLabel, NewNode(a.Pipelines, dispatcher)))
	mustGraph(g.AddNode(ReadbackLabel, NewReadbackNode(cfg.Width, cfg.Height, cfg.ReadbackInterval)))
	mustGraph(g.AddNodeEdge(NodeLabel, ReadbackLabel))
	mustGraph(g.AddNodeEdge(ReadbackLabel, render.CameraDriverLabel))
}

// Finish queues the init and update pipelines once the pipeline cache is
// final.
func (p Plugin) Finish(a *app.App) {
	initDesc, updateDesc := Descriptors(p.config().Software)
	a.Storage.AddSingleton(Pipeline{
		Init:   a.Pipelines.Queue(initDesc),
		Update: a.Pipelines.Queue(updateDesc),
	})
}

func mustGraph(err error) {
	if err != nil {
		panic(err)
	}
}
