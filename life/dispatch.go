package life

import (
	"errors"
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/plus3/shaderdemos/render"
)

var (
	ErrPipelineNotReady = errors.New("life: pipeline not ready")
	ErrNotGPUTexture    = errors.New("life: texture is not a GPU image")
)

// Pass selects the program a dispatch runs.
type Pass int

const (
	PassInit Pass = iota
	PassUpdate
)

func (p Pass) String() string {
	if p == PassInit {
		return "init"
	}
	return "update"
}

// Dispatcher runs one pass from bind.Front into bind.Back.
type Dispatcher interface {
	Dispatch(pass Pass, pipeline render.PipelineID, bind *BindGroup) error
}

// ShaderDispatcher runs the Kage programs on the GPU.
type ShaderDispatcher struct {
	Pipelines *render.PipelineCache

	noise     *ebiten.Image
	noiseSeed uint32
}

func NewShaderDispatcher(pipelines *render.PipelineCache) *ShaderDispatcher {
	return &ShaderDispatcher{Pipelines: pipelines}
}

func (d *ShaderDispatcher) Dispatch(pass Pass, pipeline render.PipelineID, bind *BindGroup) error {
	shader := d.Pipelines.Shader(pipeline)
	if shader == nil {
		return fmt.Errorf("%w: %s pass", ErrPipelineNotReady, pass)
	}
	dst := render.AsImage(bind.Back)
	if dst == nil {
		return fmt.Errorf("%w: back buffer", ErrNotGPUTexture)
	}
	w, h := render.TextureSize(bind.Back)

	op := &ebiten.DrawRectShaderOptions{Uniforms: brushUniforms(bind)}
	switch pass {
	case PassInit:
		op.Uniforms["Density"] = float32(bind.Density)
		op.Images[0] = d.noiseImage(w, h, bind.Seed)
	case PassUpdate:
		src := render.AsImage(bind.Front)
		if src == nil {
			return fmt.Errorf("%w: front buffer", ErrNotGPUTexture)
		}
		evolve := 0
		if bind.Evolve {
			evolve = 1
		}
		op.Uniforms["Evolve"] = evolve
		op.Images[0] = src
	}
	dst.DrawRectShader(w, h, shader, op)
	return nil
}

func (d *ShaderDispatcher) noiseImage(w, h int, seed uint32) *ebiten.Image {
	if d.noise != nil && d.noiseSeed == seed {
		if b := d.noise.Bounds(); b.Dx() == w && b.Dy() == h {
			return d.noise
		}
	}
	if d.noise != nil {
		d.noise.Deallocate()
	}
	d.noise = ebiten.NewImage(w, h)
	d.noise.WritePixels(NoisePixels(w, h, seed))
	d.noiseSeed = seed
	return d.noise
}

func brushUniforms(bind *BindGroup) map[string]any {
	clicks := make([]float32, MaxClicks*2)
	n := min(len(bind.Clicks), MaxClicks)
	for i, c := range bind.Clicks[:n] {
		clicks[i*2] = float32(c.X)
		clicks[i*2+1] = float32(c.Y)
	}
	return map[string]any{
		"Clicks":      clicks,
		"ClickCount":  n,
		"BrushRadius": float32(bind.BrushRadius),
	}
}

// NoisePixels packs the 24-bit cell noise for seed into the RGB channels of
// opaque RGBA pixels.
func NoisePixels(w, h int, seed uint32) []byte {
	pixels := make([]byte, w*h*4)
	for y := range h {
		for x := range w {
			n := cellNoise(x, y, seed)
			i := (y*w + x) * 4
			pixels[i] = byte(n >> 16)
			pixels[i+1] = byte(n >> 8)
			pixels[i+2] = byte(n)
			pixels[i+3] = 255
		}
	}
	return pixels
}

// GridDispatcher runs the passes on a CPU Grid, sized in workgroups of the
// compiled compute module.
type GridDispatcher struct {
	Pipelines *render.PipelineCache

	grid   *Grid
	pixels []byte
	groups [2]int
}

func NewGridDispatcher(pipelines *render.PipelineCache) *GridDispatcher {
	return &GridDispatcher{Pipelines: pipelines}
}

// Grid returns the grid of the last dispatch, or nil before the first.
func (d *GridDispatcher) Grid() *Grid {
	return d.grid
}

// Workgroups returns the workgroup counts of the last dispatch.
func (d *GridDispatcher) Workgroups() (int, int) {
	return d.groups[0], d.groups[1]
}

func (d *GridDispatcher) Dispatch(pass Pass, pipeline render.PipelineID, bind *BindGroup) error {
	if state := d.Pipelines.State(pipeline); state != render.PipelineOk {
		return fmt.Errorf("%w: %s pass is %s", ErrPipelineNotReady, pass, state)
	}

	w, h := render.TextureSize(bind.Back)
	wg := d.Pipelines.Workgroup(pipeline)
	wx, wy := int(wg[0]), int(wg[1])
	if wx == 0 || wy == 0 {
		wx, wy = WorkgroupSize, WorkgroupSize
	}
	if w%wx != 0 || h%wy != 0 {
		return fmt.Errorf("life: %dx%d grid does not divide into %dx%d workgroups", w, h, wx, wy)
	}
	d.groups = [2]int{w / wx, h / wy}

	if d.grid == nil || d.grid.width != w || d.grid.height != h {
		d.grid = NewGrid(w, h)
		d.pixels = make([]byte, w*h*4)
	}

	switch pass {
	case PassInit:
		d.grid.Randomize(bind.Seed, bind.Density)
		d.grid.Paint(bind.Clicks, bind.BrushRadius)
	case PassUpdate:
		bind.Front.ReadPixels(d.pixels)
		d.grid.Load(d.pixels)
		d.grid.Paint(bind.Clicks, bind.BrushRadius)
		if bind.Evolve {
			d.grid.Step()
		}
	}
	d.grid.WritePixels(d.pixels)
	bind.Back.WritePixels(d.pixels)
	return nil
}
