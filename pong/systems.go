package pong

import (
	"fmt"
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/plus3/shaderdemos/app"
	"github.com/plus3/shaderdemos/ecs"
	"github.com/plus3/shaderdemos/render"
)

var (
	paddleColor = color.RGBA{R: 76, G: 76, B: 178, A: 255}
	wallColor   = color.RGBA{R: 90, G: 90, B: 90, A: 255}
	white       = color.RGBA{R: 255, G: 255, B: 255, A: 255}
)

// SetupSystem spawns the paddle, the ball, the walls and the scoreboard.
type SetupSystem struct {
	Config ecs.Singleton[Config]
}

func (s *SetupSystem) Execute(frame *ecs.UpdateFrame) {
	cfg := s.Config.MustGet()

	frame.Commands.Spawn(
		Paddle{}, Velocity{}, Collider{},
		render.NewTransform(0, cfg.PaddleY),
		render.Sprite{Color: paddleColor, Size: cfg.PaddleSize},
	)
	frame.Commands.Spawn(
		Ball{}, Velocity{Y: -cfg.BallSpeed},
		render.NewTransform(0, 0),
		render.Sprite{Color: white, Shape: render.ShapeCircle, Size: cfg.BallSize, Z: 1},
	)

	w, h, t := cfg.Arena.X, cfg.Arena.Y, cfg.WallThickness
	walls := []struct {
		side WallSide
		pos  render.Vec2
		size render.Vec2
	}{
		{WallLeft, render.Vec2{X: -w / 2, Y: 0}, render.Vec2{X: t, Y: h + t}},
		{WallRight, render.Vec2{X: w / 2, Y: 0}, render.Vec2{X: t, Y: h + t}},
		{WallTop, render.Vec2{X: 0, Y: h / 2}, render.Vec2{X: w + t, Y: t}},
	}
	for _, wall := range walls {
		frame.Commands.Spawn(
			Wall{Side: wall.side}, Collider{},
			render.NewTransform(wall.pos.X, wall.pos.Y),
			render.Sprite{Color: wallColor, Size: wall.size},
		)
	}

	frame.Commands.Spawn(Scoreboard{}, render.NewText(scoreText(Score{}), 32, 10, 10))
}

type moverView struct {
	*render.Transform
	*Velocity
}

// VelocitySystem integrates positions.
type VelocitySystem struct {
	Movers ecs.Query[moverView]
}

func (s *VelocitySystem) Execute(frame *ecs.UpdateFrame) {
	for m := range s.Movers.Values() {
		m.Translation.X += m.Velocity.X * frame.DeltaTime
		m.Translation.Y += m.Velocity.Y * frame.DeltaTime
	}
}

type paddleView struct {
	*render.Transform
	*render.Sprite
	*Velocity
	*Paddle
}

// DampSystem bleeds off paddle velocity.
type DampSystem struct {
	Config  ecs.Singleton[Config]
	Paddles ecs.Query[paddleView]
}

func (s *DampSystem) Execute(frame *ecs.UpdateFrame) {
	k := s.Config.MustGet().PaddleDamping * frame.DeltaTime
	for p := range s.Paddles.Values() {
		p.Velocity.X -= p.Velocity.X * k
		p.Velocity.Y -= p.Velocity.Y * k
	}
}

// PaddleSystem accelerates the paddle with Left/Right or A/D and keeps it
// between the walls.
type PaddleSystem struct {
	Config  ecs.Singleton[Config]
	Input   ecs.Singleton[app.Input]
	Paddles ecs.Query[paddleView]
}

func (s *PaddleSystem) Execute(*ecs.UpdateFrame) {
	cfg := s.Config.MustGet()
	in := s.Input.MustGet()

	var dir float64
	if in.Pressed(ebiten.KeyLeft) || in.Pressed(ebiten.KeyA) {
		dir--
	}
	if in.Pressed(ebiten.KeyRight) || in.Pressed(ebiten.KeyD) {
		dir++
	}

	inner := cfg.Arena.X/2 - cfg.WallThickness/2
	for p := range s.Paddles.Values() {
		p.Velocity.X += dir * cfg.PaddleAccel

		half := p.Sprite.WorldSize(p.Transform).X / 2
		limit := inner - half
		if x := p.Translation.X; x < -limit || x > limit {
			p.Translation.X = math.Max(-limit, math.Min(limit, x))
			p.Velocity.X = 0
		}
	}
}

type ballView struct {
	*render.Transform
	*render.Sprite
	*Velocity
	*Ball
}

type colliderView struct {
	*render.Transform
	*render.Sprite
	*Collider
	Paddle   *Paddle   `ecs:"optional"`
	Velocity *Velocity `ecs:"optional"`
}

// CollisionSystem bounces balls off colliders. Paddle hits score.
type CollisionSystem struct {
	Config    ecs.Singleton[Config]
	Score     ecs.Singleton[Score]
	Balls     ecs.Query[ballView]
	Colliders ecs.Query[colliderView]
	Events    ecs.EventWriter[CollisionEvent]
}

func (s *CollisionSystem) Execute(*ecs.UpdateFrame) {
	cfg := s.Config.MustGet()
	score := s.Score.MustGet()

	for ball := range s.Balls.Values() {
		if ball.Sprite.Hidden {
			continue
		}
		ballSize := ball.Sprite.WorldSize(ball.Transform)
		for c := range s.Colliders.Values() {
			side, hit := Collide(ball.Translation, ballSize, c.Translation, c.Sprite.WorldSize(c.Transform))
			if !hit || !Reflect(ball.Velocity, side) {
				continue
			}

			kind := HitWall
			if c.Paddle != nil {
				kind = HitPaddle
				score.Current++
				score.Best = max(score.Best, score.Current)
				if c.Velocity != nil {
					ball.Velocity.X += c.Velocity.X * cfg.PaddleSpin
				}
			}
			s.Events.Send(CollisionEvent{Kind: kind, Side: side})
		}
	}
}

// MissSystem hides a ball that fell below the arena, resets the score and
// starts the respawn timer.
type MissSystem struct {
	Config  ecs.Singleton[Config]
	Score   ecs.Singleton[Score]
	Respawn ecs.Singleton[RespawnTimer]
	Balls   ecs.Query[ballView]
}

func (s *MissSystem) Execute(*ecs.UpdateFrame) {
	cfg := s.Config.MustGet()
	floor := -cfg.Arena.Y/2 - cfg.BallSize.Y
	for ball := range s.Balls.Values() {
		if ball.Sprite.Hidden || ball.Translation.Y >= floor {
			continue
		}
		score := s.Score.MustGet()
		app.Logger().Info("ball missed", "score", score.Current, "best", score.Best)
		score.Misses++
		score.Current = 0

		*ball.Velocity = Velocity{}
		ball.Sprite.Hidden = true

		r := s.Respawn.MustGet()
		r.Timer = app.NewTimer(cfg.RespawnDelay, app.Once)
		r.Active = true
	}
}

// RespawnSystem returns the ball to the centre when the respawn timer ends.
type RespawnSystem struct {
	Config  ecs.Singleton[Config]
	Respawn ecs.Singleton[RespawnTimer]
	Balls   ecs.Query[ballView]
}

func (s *RespawnSystem) Execute(frame *ecs.UpdateFrame) {
	r := s.Respawn.MustGet()
	if !r.Active || !r.Timer.Tick(frame.DeltaTime).JustFinished() {
		return
	}
	r.Active = false

	speed := s.Config.MustGet().BallSpeed
	for ball := range s.Balls.Values() {
		ball.Translation = render.Vec2{}
		*ball.Velocity = Velocity{Y: -speed}
		ball.Sprite.Hidden = false
	}
}

// BallColor returns the rainbow colour for elapsed seconds: the hue turns
// 60 degrees per second.
func BallColor(elapsed float64) color.RGBA {
	r, g, b := colorful.Hsl(math.Mod(elapsed*60, 360), 1, 0.5).Clamped().RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 255}
}

// BallColorSystem cycles the ball colour.
type BallColorSystem struct {
	Time  ecs.Singleton[app.Time]
	Balls ecs.Query[ballView]
}

func (s *BallColorSystem) Execute(*ecs.UpdateFrame) {
	c := BallColor(s.Time.MustGet().Elapsed)
	for ball := range s.Balls.Values() {
		ball.Sprite.Color = c
	}
}

type scoreboardView struct {
	*render.Text
	*Scoreboard
}

// ScoreboardSystem renders Score into the scoreboard label.
type ScoreboardSystem struct {
	Score  ecs.Singleton[Score]
	Labels ecs.Query[scoreboardView]
}

func (s *ScoreboardSystem) Execute(*ecs.UpdateFrame) {
	value := scoreText(*s.Score.MustGet())
	for label := range s.Labels.Values() {
		label.Text.Value = value
	}
}

func scoreText(score Score) string {
	return fmt.Sprintf("Score: %d  Best: %d  Misses: %d", score.Current, score.Best, score.Misses)
}

// SoundSystem plays a blip for every collision.
type SoundSystem struct {
	Collisions ecs.EventReader[CollisionEvent]

	sound Sound
}

func (s *SoundSystem) Execute(*ecs.UpdateFrame) {
	for ev := range s.Collisions.Read() {
		if s.sound != nil {
			s.sound.Blip(ev.Kind)
		}
	}
}
