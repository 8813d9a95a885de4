package render

import (
	"image"

	"github.com/hajimehoshi/ebiten/v2"
)

// Texture is the part of an image the simulation pipeline touches. Both
// *ebiten.Image and *MemoryTexture satisfy it.
type Texture interface {
	Bounds() image.Rectangle
	ReadPixels(pixels []byte)
	WritePixels(pixels []byte)
}

// TextureAllocator creates a w*h RGBA texture.
type TextureAllocator func(w, h int) Texture

// NewImageTexture allocates a GPU image.
func NewImageTexture(w, h int) Texture {
	return ebiten.NewImage(w, h)
}

// NewMemoryTexture allocates a CPU-side texture. It is used when no graphics
// device is available.
func NewMemoryTexture(w, h int) Texture {
	return &MemoryTexture{RGBA: image.NewRGBA(image.Rect(0, 0, w, h))}
}

// MemoryTexture is an RGBA texture kept in main memory.
type MemoryTexture struct {
	*image.RGBA
}

// ReadPixels copies the texture into pixels, which must hold w*h*4 bytes.
func (t *MemoryTexture) ReadPixels(pixels []byte) {
	copy(pixels, t.Pix)
}

// WritePixels replaces the texture contents with pixels.
func (t *MemoryTexture) WritePixels(pixels []byte) {
	copy(t.Pix, pixels)
}

// Deallocate releases the pixels. The texture is empty afterwards.
func (t *MemoryTexture) Deallocate() {
	t.RGBA = &image.RGBA{}
}

// TextureSize returns the size of t in pixels.
func TextureSize(t Texture) (int, int) {
	b := t.Bounds()
	return b.Dx(), b.Dy()
}

// AsImage returns t as an *ebiten.Image, or nil if it is not one.
func AsImage(t Texture) *ebiten.Image {
	img, _ := t.(*ebiten.Image)
	return img
}
