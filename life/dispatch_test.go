package life

import (
	"testing"

	"github.com/plus3/shaderdemos/render"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func wgslCache(t *testing.T, workgroup [3]uint32) (*render.PipelineCache, render.PipelineID, render.PipelineID) {
	t.Helper()
	cache := render.NewPipelineCache()
	cache.CompileWGSL = func(string) (*render.ComputeModule, error) {
		return &render.ComputeModule{
			Workgroups: map[string][3]uint32{"init": workgroup, "update": workgroup},
		}, nil
	}
	initDesc, updateDesc := Descriptors(true)
	initID, updateID := cache.Queue(initDesc), cache.Queue(updateDesc)
	cache.ProcessQueue()
	return cache, initID, updateID
}

func TestGridDispatcherPasses(t *testing.T) {
	cache, initID, updateID := wgslCache(t, [3]uint32{8, 8, 1})
	img := NewImage(render.NewMemoryTexture, 16, 8)
	d := NewGridDispatcher(cache)

	bind := &BindGroup{Front: img.Front, Back: img.Back, Density: 1}
	require.NoError(t, d.Dispatch(PassInit, initID, bind))
	img.Swap()

	pixels := make([]byte, 16*8*4)
	img.Front.ReadPixels(pixels)
	assert.Equal(t, uint64(16*8), CountLiving(pixels))
	wx, wy := d.Workgroups()
	assert.Equal(t, 2, wx)
	assert.Equal(t, 1, wy)

	bind = &BindGroup{Front: img.Front, Back: img.Back, Evolve: true}
	require.NoError(t, d.Dispatch(PassUpdate, updateID, bind))
	img.Swap()
	img.Front.ReadPixels(pixels)
	assert.Equal(t, uint64(4), CountLiving(pixels), "a full grid keeps only its corners")
}

func TestGridDispatcherRequiresReadyPipeline(t *testing.T) {
	cache := render.NewPipelineCache()
	initDesc, _ := Descriptors(true)
	id := cache.Queue(initDesc)

	img := NewImage(render.NewMemoryTexture, 8, 8)
	d := NewGridDispatcher(cache)
	err := d.Dispatch(PassInit, id, &BindGroup{Front: img.Front, Back: img.Back})
	assert.ErrorIs(t, err, ErrPipelineNotReady)
}

func TestGridDispatcherWorkgroupAlignment(t *testing.T) {
	cache, initID, _ := wgslCache(t, [3]uint32{16, 16, 1})
	img := NewImage(render.NewMemoryTexture, 24, 16)
	d := NewGridDispatcher(cache)
	err := d.Dispatch(PassInit, initID, &BindGroup{Front: img.Front, Back: img.Back})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "workgroups")
}

func TestShaderDispatcherNeedsCompiledShader(t *testing.T) {
	img := NewImage(render.NewMemoryTexture, 8, 8)
	d := NewShaderDispatcher(render.NewPipelineCache())
	err := d.Dispatch(PassUpdate, 0, &BindGroup{Front: img.Front, Back: img.Back})
	assert.ErrorIs(t, err, ErrPipelineNotReady)
}

func TestBrushUniforms(t *testing.T) {
	clicks := make([]Point, MaxClicks+2)
	clicks[1] = Point{X: 3, Y: 4}
	u := brushUniforms(&BindGroup{Clicks: clicks, BrushRadius: 2})

	assert.Equal(t, MaxClicks, u["ClickCount"])
	assert.Equal(t, float32(2), u["BrushRadius"])
	packed := u["Clicks"].([]float32)
	require.Len(t, packed, MaxClicks*2)
	assert.Equal(t, []float32{3, 4}, packed[2:4])
}

func TestImageSwap(t *testing.T) {
	img := NewImage(render.NewMemoryTexture, 4, 4)
	front, back := img.Front, img.Back
	img.Swap()
	assert.Same(t, back, img.Front)
	assert.Same(t, front, img.Back)
	assert.Nil(t, img.Current(), "memory textures have no GPU image")

	w, h := img.Size()
	assert.Equal(t, 4, w)
	assert.Equal(t, 4, h)

	pixels := make([]byte, 4*4*4)
	img.Front.ReadPixels(pixels)
	assert.Zero(t, CountLiving(pixels))
	assert.Equal(t, byte(255), pixels[3])
}
