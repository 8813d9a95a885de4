package pong

import (
	"github.com/plus3/shaderdemos/app"
)

type Paddle struct{}

type Ball struct{}

// Velocity in world units per second.
type Velocity struct {
	X, Y float64
}

// Collider marks entities the ball bounces off.
type Collider struct{}

type WallSide int

const (
	WallLeft WallSide = iota
	WallRight
	WallTop
)

type Wall struct {
	Side WallSide
}

// Scoreboard marks the score label.
type Scoreboard struct{}

// CollisionKind tells paddle hits from wall hits.
type CollisionKind int

const (
	HitWall CollisionKind = iota
	HitPaddle
)

func (k CollisionKind) String() string {
	if k == HitPaddle {
		return "paddle"
	}
	return "wall"
}

// CollisionEvent is sent whenever the ball bounces.
type CollisionEvent struct {
	Kind CollisionKind
	Side Collision
}

// Score counts paddle hits since the last miss.
type Score struct {
	Current int
	Best    int
	Misses  int
}

// RespawnTimer delays the ball's return after a miss.
type RespawnTimer struct {
	Timer  app.Timer
	Active bool
}
