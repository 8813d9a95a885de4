package life

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/plus3/shaderdemos/render"
)

// Image is the double-buffered simulation texture. Passes read Front and
// write Back, then Swap. The sprite always shows Front.
type Image struct {
	Front render.Texture
	Back  render.Texture
	swaps uint64
}

// NewImage allocates both textures filled with opaque black.
func NewImage(alloc render.TextureAllocator, w, h int) Image {
	img := Image{Front: alloc(w, h), Back: alloc(w, h)}
	black := make([]byte, w*h*4)
	for i := 3; i < len(black); i += 4 {
		black[i] = 255
	}
	img.Front.WritePixels(black)
	img.Back.WritePixels(black)
	return img
}

// Current returns the front texture when it is a GPU image.
func (i *Image) Current() *ebiten.Image {
	if i.Front == nil {
		return nil
	}
	return render.AsImage(i.Front)
}

// Swap exchanges the textures.
func (i *Image) Swap() {
	i.Front, i.Back = i.Back, i.Front
	i.swaps++
}

// Swaps returns how many times the buffers have been swapped.
func (i *Image) Swaps() uint64 {
	return i.swaps
}

// Size returns the texture size.
func (i *Image) Size() (int, int) {
	return render.TextureSize(i.Front)
}

// PendingClicks holds clicks in clip space until a render pass consumes
// them.
type PendingClicks struct {
	Points []render.Vec2
}

func (p *PendingClicks) Push(clip render.Vec2) {
	p.Points = append(p.Points, clip)
}

func (p *PendingClicks) Clear() {
	p.Points = p.Points[:0]
}

// Stage is the pipeline progression of the simulation node.
type Stage int

const (
	StageLoading Stage = iota
	StageInit
	StageUpdate
)

func (s Stage) String() string {
	switch s {
	case StageLoading:
		return "loading"
	case StageInit:
		return "init"
	case StageUpdate:
		return "update"
	default:
		return "unknown"
	}
}

// LivingCells is the result of the last readback.
type LivingCells struct {
	Count uint64
	// Generation counts evolving update passes since the last init.
	Generation uint64
	// Frame is the render frame of the last readback.
	Frame uint64
}

// Controls are user requests consumed by the simulation node.
type Controls struct {
	Paused   bool
	StepOnce bool
	Reset    bool
	Seed     uint32
	// Tick is set by every running update and cleared when a generation is
	// computed, so generations advance at most once per update.
	Tick bool
}

// Pipeline holds the queued init and update pipelines.
type Pipeline struct {
	Init   render.PipelineID
	Update render.PipelineID
}

// BindGroup is the per-frame input of a pass.
type BindGroup struct {
	Front       render.Texture
	Back        render.Texture
	Clicks      []Point
	Seed        uint32
	Density     float64
	BrushRadius float64
	// Evolve is false for paint-only passes while paused.
	Evolve bool
}

// HUD marks the living cells label.
type HUD struct{}
