package render

import (
	"bytes"
	"fmt"
	"image/color"
	"sync"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"golang.org/x/image/font/gofont/goregular"
)

// Text is a screen-space UI label. Position is in window pixels from the top
// left corner.
type Text struct {
	Value    string
	Size     float64
	Color    color.RGBA
	Position Vec2
	Align    text.Align
	Z        float64
}

// NewText returns a white, left-aligned label.
func NewText(value string, size float64, x, y float64) Text {
	return Text{
		Value:    value,
		Size:     size,
		Color:    color.RGBA{0xff, 0xff, 0xff, 0xff},
		Position: Vec2{x, y},
	}
}

var (
	fontOnce   sync.Once
	fontSource *text.GoTextFaceSource
	fontErr    error
)

// Face returns the Go Regular face at size.
func Face(size float64) (*text.GoTextFace, error) {
	fontOnce.Do(func() {
		fontSource, fontErr = text.NewGoTextFaceSource(bytes.NewReader(goregular.TTF))
		if fontErr != nil {
			fontErr = fmt.Errorf("load go regular: %w", fontErr)
		}
	})
	if fontErr != nil {
		return nil, fontErr
	}
	return &text.GoTextFace{Source: fontSource, Size: size}, nil
}

func drawText(dst *ebiten.Image, t *Text) error {
	if t.Value == "" {
		return nil
	}
	face, err := Face(t.Size)
	if err != nil {
		return err
	}

	op := &text.DrawOptions{}
	op.GeoM.Translate(t.Position.X, t.Position.Y)
	op.ColorScale.ScaleWithColor(t.Color)
	op.PrimaryAlign = t.Align
	op.LineSpacing = t.Size * 1.25
	text.Draw(dst, t.Value, face, op)
	return nil
}
