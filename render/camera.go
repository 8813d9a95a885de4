package render

import (
	"image/color"
	"math"
)

// Vec2 is a 2D vector in world or clip units.
type Vec2 struct {
	X, Y float64
}

func (v Vec2) Add(o Vec2) Vec2             { return Vec2{v.X + o.X, v.Y + o.Y} }
func (v Vec2) Sub(o Vec2) Vec2             { return Vec2{v.X - o.X, v.Y - o.Y} }
func (v Vec2) Mul(o Vec2) Vec2             { return Vec2{v.X * o.X, v.Y * o.Y} }
func (v Vec2) Scale(s float64) Vec2        { return Vec2{v.X * s, v.Y * s} }
func (v Vec2) Length() float64             { return math.Hypot(v.X, v.Y) }
func (v Vec2) Distance(o Vec2) float64     { return v.Sub(o).Length() }
func (v Vec2) IsZero() bool                { return v.X == 0 && v.Y == 0 }
func (v Vec2) Lerp(o Vec2, t float64) Vec2 { return v.Add(o.Sub(v).Scale(t)) }

// Camera2D maps a y-up world onto the window. Position is the world point at
// the centre of the window; Scale is world units per window pixel.
type Camera2D struct {
	Position Vec2
	Scale    float64
	Clear    color.RGBA
}

// DefaultCamera looks at the origin at one world unit per pixel.
func DefaultCamera() Camera2D {
	return Camera2D{
		Scale: 1,
		Clear: color.RGBA{A: 0xff},
	}
}

func (c *Camera2D) scale() float64 {
	if c.Scale == 0 {
		return 1
	}
	return c.Scale
}

// CursorToClip converts a window pixel position to clip space, where both
// axes span [-1, 1] and y points up.
func CursorToClip(x, y float64, width, height int) Vec2 {
	return Vec2{
		X: x/float64(width)*2 - 1,
		Y: -(y/float64(height)*2 - 1),
	}
}

// ClipToWorld converts a clip-space point to world coordinates for a window
// of the given size.
func (c *Camera2D) ClipToWorld(clip Vec2, width, height int) Vec2 {
	s := c.scale()
	return Vec2{
		X: clip.X*float64(width)/2*s + c.Position.X,
		Y: clip.Y*float64(height)/2*s + c.Position.Y,
	}
}

// CursorToWorld is CursorToClip followed by ClipToWorld.
func (c *Camera2D) CursorToWorld(x, y float64, width, height int) Vec2 {
	return c.ClipToWorld(CursorToClip(x, y, width, height), width, height)
}

// WorldToScreen converts a world point to window pixels.
func (c *Camera2D) WorldToScreen(world Vec2, width, height int) Vec2 {
	s := c.scale()
	return Vec2{
		X: (world.X-c.Position.X)/s + float64(width)/2,
		Y: float64(height)/2 - (world.Y-c.Position.Y)/s,
	}
}

// Transform places an entity in the world. Translation is the centre of the
// entity; Scale multiplies its drawn size.
type Transform struct {
	Translation Vec2
	Scale       Vec2
}

// NewTransform returns a transform at (x, y) with unit scale.
func NewTransform(x, y float64) Transform {
	return Transform{Translation: Vec2{x, y}, Scale: Vec2{1, 1}}
}
