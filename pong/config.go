// Package pong is a paddle-and-ball toy: a keyboard driven paddle keeps a
// rainbow ball inside a three-walled arena.
package pong

import (
	"errors"
	"fmt"

	"github.com/plus3/shaderdemos/render"
)

var ErrInvalidConfig = errors.New("pong: invalid config")

// Config sizes are in world units, speeds in units per second.
type Config struct {
	Arena      render.Vec2
	PaddleSize render.Vec2
	PaddleY    float64
	// PaddleAccel is added to the paddle velocity every update a direction
	// key is held.
	PaddleAccel float64
	// PaddleDamping is the fraction of paddle velocity lost per second.
	PaddleDamping float64
	// PaddleSpin is the fraction of paddle velocity passed to the ball.
	PaddleSpin    float64
	BallSize      render.Vec2
	BallSpeed     float64
	WallThickness float64
	// RespawnDelay is the pause in seconds after a miss.
	RespawnDelay float64
	Sound        bool
	Volume       float64
}

// DefaultConfig returns a 900x600 arena with the paddle near the floor.
func DefaultConfig() Config {
	return Config{
		Arena:         render.Vec2{X: 900, Y: 600},
		PaddleSize:    render.Vec2{X: 120, Y: 20},
		PaddleY:       -250,
		PaddleAccel:   10,
		PaddleDamping: 0.9,
		PaddleSpin:    0.5,
		BallSize:      render.Vec2{X: 20, Y: 20},
		BallSpeed:     200,
		WallThickness: 10,
		RespawnDelay:  1,
		Volume:        0.3,
	}
}

func (c Config) Validate() error {
	switch {
	case c.Arena.X <= 0 || c.Arena.Y <= 0:
		return fmt.Errorf("%w: arena %vx%v", ErrInvalidConfig, c.Arena.X, c.Arena.Y)
	case c.PaddleSize.X <= 0 || c.PaddleSize.Y <= 0 || c.BallSize.X <= 0 || c.BallSize.Y <= 0:
		return fmt.Errorf("%w: sizes must be positive", ErrInvalidConfig)
	case c.PaddleSize.X >= c.Arena.X-2*c.WallThickness:
		return fmt.Errorf("%w: paddle wider than the arena", ErrInvalidConfig)
	case c.PaddleY <= -c.Arena.Y/2 || c.PaddleY >= c.Arena.Y/2:
		return fmt.Errorf("%w: paddle outside the arena", ErrInvalidConfig)
	case c.BallSpeed <= 0:
		return fmt.Errorf("%w: ball speed must be positive", ErrInvalidConfig)
	case c.PaddleDamping < 0 || c.RespawnDelay < 0 || c.WallThickness < 0:
		return fmt.Errorf("%w: negative damping, delay or wall thickness", ErrInvalidConfig)
	case c.Volume < 0 || c.Volume > 1:
		return fmt.Errorf("%w: volume %v outside [0, 1]", ErrInvalidConfig, c.Volume)
	}
	return nil
}
