package render

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// Shape selects how an image-less sprite is drawn.
type Shape int

const (
	ShapeRect Shape = iota
	ShapeCircle
)

// ImageSource supplies a sprite image that may change from frame to frame,
// such as the front buffer of a double-buffered texture.
type ImageSource interface {
	Current() *ebiten.Image
}

// Sprite is a drawable component. It draws Image (or the image of Source)
// when set, otherwise a solid Shape in Color.
//
// Size is the drawn size in world units before the transform scale is
// applied. A zero Size means the image bounds, or one unit for shapes.
type Sprite struct {
	Image  *ebiten.Image
	Source ImageSource
	Color  color.RGBA
	Shape  Shape
	Size   Vec2
	Z      float64
	Hidden bool
}

// CurrentImage returns the image to draw this frame, or nil for shapes.
func (s *Sprite) CurrentImage() *ebiten.Image {
	if s.Source != nil {
		if img := s.Source.Current(); img != nil {
			return img
		}
	}
	return s.Image
}

// WorldSize returns the drawn size in world units.
func (s *Sprite) WorldSize(t *Transform) Vec2 {
	size := s.Size
	if size.IsZero() {
		if img := s.CurrentImage(); img != nil {
			b := img.Bounds()
			size = Vec2{float64(b.Dx()), float64(b.Dy())}
		} else {
			size = Vec2{1, 1}
		}
	}
	if t != nil {
		scale := t.Scale
		if scale.IsZero() {
			scale = Vec2{1, 1}
		}
		size = size.Mul(scale)
	}
	return size
}

// drawSprite renders s centred on t.Translation.
func drawSprite(dst *ebiten.Image, cam *Camera2D, t *Transform, s *Sprite) {
	b := dst.Bounds()
	w, h := b.Dx(), b.Dy()

	size := s.WorldSize(t).Scale(1 / cam.scale())
	center := cam.WorldToScreen(t.Translation, w, h)
	topLeft := center.Sub(size.Scale(0.5))

	if img := s.CurrentImage(); img != nil {
		ib := img.Bounds()
		op := &ebiten.DrawImageOptions{}
		op.GeoM.Scale(size.X/float64(ib.Dx()), size.Y/float64(ib.Dy()))
		op.GeoM.Translate(topLeft.X, topLeft.Y)
		if s.Color.A != 0 {
			op.ColorScale.ScaleWithColor(s.Color)
		}
		dst.DrawImage(img, op)
		return
	}

	switch s.Shape {
	case ShapeCircle:
		r := min(size.X, size.Y) / 2
		vector.DrawFilledCircle(dst, float32(center.X), float32(center.Y), float32(r), s.Color, true)
	default:
		vector.DrawFilledRect(dst, float32(topLeft.X), float32(topLeft.Y), float32(size.X), float32(size.Y), s.Color, false)
	}
}
