package pong

import (
	"math"

	"github.com/plus3/shaderdemos/render"
)

// Collision is the side of b that a hit.
type Collision int

const (
	Left Collision = iota
	Right
	Top
	Bottom
	Inside
)

func (c Collision) String() string {
	switch c {
	case Left:
		return "left"
	case Right:
		return "right"
	case Top:
		return "top"
	case Bottom:
		return "bottom"
	default:
		return "inside"
	}
}

// Collide tests two centred axis-aligned boxes. When they overlap it
// returns the side of b that a hit, choosing the axis with the shallower
// penetration; a box fully inside the other on both axes reports Inside.
func Collide(aPos, aSize, bPos, bSize render.Vec2) (Collision, bool) {
	aMin, aMax := aPos.Sub(aSize.Scale(0.5)), aPos.Add(aSize.Scale(0.5))
	bMin, bMax := bPos.Sub(bSize.Scale(0.5)), bPos.Add(bSize.Scale(0.5))

	if !(aMin.X < bMax.X && aMax.X > bMin.X && aMin.Y < bMax.Y && aMax.Y > bMin.Y) {
		return Inside, false
	}

	xSide, xDepth := Inside, math.Inf(-1)
	switch {
	case aMin.X < bMin.X && aMax.X > bMin.X && aMax.X < bMax.X:
		xSide, xDepth = Left, bMin.X-aMax.X
	case aMin.X > bMin.X && aMin.X < bMax.X && aMax.X > bMax.X:
		xSide, xDepth = Right, aMin.X-bMax.X
	}

	ySide, yDepth := Inside, math.Inf(-1)
	switch {
	case aMin.Y < bMin.Y && aMax.Y > bMin.Y && aMax.Y < bMax.Y:
		ySide, yDepth = Bottom, bMin.Y-aMax.Y
	case aMin.Y > bMin.Y && aMin.Y < bMax.Y && aMax.Y > bMax.Y:
		ySide, yDepth = Top, aMin.Y-bMax.Y
	}

	if math.Abs(yDepth) < math.Abs(xDepth) {
		return ySide, true
	}
	return xSide, true
}

// Reflect bounces v off side when v moves into it and reports whether it
// did.
func Reflect(v *Velocity, side Collision) bool {
	switch {
	case side == Left && v.X > 0, side == Right && v.X < 0:
		v.X = -v.X
	case side == Top && v.Y < 0, side == Bottom && v.Y > 0:
		v.Y = -v.Y
	default:
		return false
	}
	return true
}
