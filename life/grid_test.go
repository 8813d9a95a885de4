package life

import (
	"testing"

	"github.com/plus3/shaderdemos/render"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHash(t *testing.T) {
	assert.Equal(t, uint32(1739749167), hash(0))
	assert.Equal(t, uint32(150776505), hash(1))
	assert.Equal(t, uint32(2635180628), hash(42))
	assert.Equal(t, uint32(1245582), cellNoise(3, 5, 0))
}

func TestRandomize(t *testing.T) {
	g := NewGrid(64, 64)
	g.Randomize(0, 0.1)
	assert.Equal(t, 404, g.Living())

	other := NewGrid(64, 64)
	other.Randomize(7, 0.1)
	assert.NotEqual(t, g.cells, other.cells, "seeds select different cells")

	g.Randomize(0, 0)
	assert.Zero(t, g.Living())
	g.Randomize(0, 1)
	assert.Equal(t, 64*64, g.Living())
}

func TestStepStillLifeAndOscillator(t *testing.T) {
	g := NewGrid(8, 8)
	for _, c := range [][2]int{{1, 1}, {2, 1}, {1, 2}, {2, 2}} {
		g.Set(c[0], c[1], true)
	}
	g.Set(5, 3, true)
	g.Set(5, 4, true)
	g.Set(5, 5, true)

	g.Step()
	assert.True(t, g.Alive(1, 1), "block is stable")
	assert.True(t, g.Alive(2, 2))
	assert.True(t, g.Alive(4, 4), "blinker turns horizontal")
	assert.True(t, g.Alive(6, 4))
	assert.False(t, g.Alive(5, 3))
	assert.Equal(t, 7, g.Living())

	g.Step()
	assert.True(t, g.Alive(5, 3))
	assert.True(t, g.Alive(5, 5))
	assert.False(t, g.Alive(4, 4))
}

func TestEdgesAreDead(t *testing.T) {
	g := NewGrid(8, 8)
	// Half of this blinker's vertical phase falls outside the grid.
	g.Set(0, 0, true)
	g.Set(1, 0, true)
	g.Set(2, 0, true)
	g.Step()

	assert.False(t, g.Alive(-1, 0))
	assert.True(t, g.Alive(1, 0))
	assert.True(t, g.Alive(1, 1))
	assert.False(t, g.Alive(1, 7), "no wrap around")
	assert.Equal(t, 2, g.Living())
}

func TestPaint(t *testing.T) {
	g := NewGrid(64, 64)
	g.Paint([]Point{{X: 4, Y: 4}}, 1.6)
	assert.Equal(t, 12, g.Living())

	g = NewGrid(64, 64)
	g.Paint([]Point{{X: 32, Y: 32}}, 4)
	assert.Equal(t, 52, g.Living())

	g = NewGrid(8, 8)
	g.Paint([]Point{{X: 0, Y: 0}}, 1)
	assert.Equal(t, 1, g.Living(), "brush is clipped to the grid")
	assert.True(t, g.Alive(0, 0))
}

func TestClipToCell(t *testing.T) {
	tests := []struct {
		clip render.Vec2
		want Point
	}{
		{render.Vec2{X: 0, Y: 0}, Point{X: 640, Y: 360}},
		{render.Vec2{X: -1, Y: 1}, Point{X: 0, Y: 0}},
		{render.Vec2{X: 1, Y: -1}, Point{X: 1280, Y: 720}},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ClipToCell(tt.clip, 1280, 720))
	}
}

func TestPixelRoundTrip(t *testing.T) {
	g := NewGrid(16, 8)
	g.Randomize(3, 0.5)

	pixels := make([]byte, 16*8*4)
	g.WritePixels(pixels)
	assert.Equal(t, uint64(g.Living()), CountLiving(pixels))
	assert.Equal(t, byte(255), pixels[3], "pixels are opaque")

	loaded := NewGrid(16, 8)
	loaded.Load(pixels)
	assert.Equal(t, g.cells, loaded.cells)
}

func TestCountLivingNeedsSaturatedRed(t *testing.T) {
	pixels := []byte{
		255, 255, 255, 255,
		254, 0, 0, 255,
		0, 0, 0, 255,
		255, 0, 0, 0,
	}
	assert.Equal(t, uint64(2), CountLiving(pixels))
}

func TestNoisePixels(t *testing.T) {
	pixels := NoisePixels(8, 8, 9)
	require.Len(t, pixels, 8*8*4)
	for y := range 8 {
		for x := range 8 {
			i := (y*8 + x) * 4
			got := uint32(pixels[i])<<16 | uint32(pixels[i+1])<<8 | uint32(pixels[i+2])
			assert.Equal(t, cellNoise(x, y, 9), got)
			assert.Equal(t, byte(255), pixels[i+3])
		}
	}
}
