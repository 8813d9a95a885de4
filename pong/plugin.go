package pong

import (
	"github.com/plus3/shaderdemos/app"
	"github.com/plus3/shaderdemos/ecs"
)

// Plugin adds the paddle game to an app.
type Plugin struct {
	Config Config
	// Sound overrides the speaker output built when Config.Sound is set.
	Sound Sound
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

	r := a.Registry
	ecs.RegisterComponent[Paddle](r)
	ecs.RegisterComponent[Ball](r)
	ecs.RegisterComponent[Velocity](r)
	ecs.RegisterComponent[Collider](r)
	ecs.RegisterComponent[Wall](r)
	ecs.RegisterComponent[Scoreboard](r)

	a.Storage.AddSingleton(cfg)
	a.Storage.AddSingleton(Score{})
	a.Storage.AddSingleton(RespawnTimer{})
	app.AddEvent[CollisionEvent](a)

	a.AddSystems(app.Startup, &SetupSystem{})
	a.AddSystems(app.Update,
		&VelocitySystem{},
		&DampSystem{},
		&PaddleSystem{},
		&CollisionSystem{},
		&MissSystem{},
		&RespawnSystem{},
		&BallColorSystem{},
	)
	a.AddSystems(app.PostUpdate,
		&ScoreboardSystem{},
		&SoundSystem{sound: p.sound(a, cfg)},
	)
}

func (p Plugin) sound(a *app.App, cfg Config) Sound {
	if p.Sound != nil {
		return p.Sound
	}
	if !cfg.Sound {
		return nil
	}
	s := NewBeepSound(cfg.Volume)
	if err := s.Init(); err != nil {
		app.Logger().Warn("audio disabled", "err", err)
		return nil
	}
	a.OnExit(s.Close)
	return s
}
