package life

import (
	"errors"
	"image"
	"testing"

	"github.com/plus3/shaderdemos/ecs"
	"github.com/plus3/shaderdemos/render"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type dispatch struct {
	pass   Pass
	evolve bool
	clicks int
}

type recordingDispatcher struct {
	calls []dispatch
	err   error
}

func (d *recordingDispatcher) Dispatch(pass Pass, _ render.PipelineID, bind *BindGroup) error {
	d.calls = append(d.calls, dispatch{pass: pass, evolve: bind.Evolve, clicks: len(bind.Clicks)})
	return d.err
}

func fakeWGSL(calls *int, fail bool) func(string) (*render.ComputeModule, error) {
	return func(string) (*render.ComputeModule, error) {
		*calls++
		if fail {
			return nil, errors.New("expected ')'")
		}
		return &render.ComputeModule{
			Workgroups: map[string][3]uint32{"init": {8, 8, 1}, "update": {8, 8, 1}},
		}, nil
	}
}

func newNodeWorld(t *testing.T, cache *render.PipelineCache) *ecs.Storage {
	t.Helper()
	storage := ecs.NewStorage(ecs.NewComponentRegistry())
	initDesc, updateDesc := Descriptors(true)
	storage.AddSingleton(Pipeline{Init: cache.Queue(initDesc), Update: cache.Queue(updateDesc)})
	storage.AddSingleton(NewImage(render.NewMemoryTexture, 16, 16))
	storage.AddSingleton(BindGroup{Evolve: true})
	storage.AddSingleton(Controls{})
	storage.AddSingleton(LivingCells{})
	storage.AddSingleton(StageLoading)
	return storage
}

func TestNodeStages(t *testing.T) {
	var calls int
	cache := render.NewPipelineCache()
	cache.CompileWGSL = fakeWGSL(&calls, false)
	storage := newNodeWorld(t, cache)
	d := &recordingDispatcher{}
	node := NewNode(cache, d)
	ctx := &render.Context{Storage: storage}

	node.Update(storage)
	require.NoError(t, node.Run(ctx))
	assert.Equal(t, StageLoading, node.Stage())
	assert.Empty(t, d.calls, "nothing runs while loading")

	cache.ProcessQueue()
	assert.Equal(t, 1, calls, "init and update share one module")

	node.Update(storage)
	require.NoError(t, node.Run(ctx))
	assert.Equal(t, StageInit, node.Stage())

	node.Update(storage)
	require.NoError(t, node.Run(ctx))
	assert.Equal(t, StageUpdate, node.Stage())

	var stage *Stage
	require.True(t, storage.ReadSingleton(&stage))
	assert.Equal(t, StageUpdate, *stage)

	assert.Equal(t, []dispatch{
		{pass: PassInit, evolve: true},
		{pass: PassUpdate, evolve: true},
	}, d.calls)

	var img *Image
	require.True(t, storage.ReadSingleton(&img))
	assert.Equal(t, uint64(2), img.Swaps())

	var living *LivingCells
	require.True(t, storage.ReadSingleton(&living))
	assert.Equal(t, uint64(1), living.Generation)
}

func TestNodePausedSkipsWithoutClicks(t *testing.T) {
	var calls int
	cache := render.NewPipelineCache()
	cache.CompileWGSL = fakeWGSL(&calls, false)
	storage := newNodeWorld(t, cache)
	cache.ProcessQueue()

	d := &recordingDispatcher{}
	node := NewNode(cache, d)
	ctx := &render.Context{Storage: storage}
	for range 2 {
		node.Update(storage)
		require.NoError(t, node.Run(ctx))
	}
	require.Equal(t, StageUpdate, node.Stage())

	var bind *BindGroup
	require.True(t, storage.ReadSingleton(&bind))
	bind.Evolve = false
	d.calls = nil

	node.Update(storage)
	require.NoError(t, node.Run(ctx))
	assert.Empty(t, d.calls)

	bind.Clicks = []Point{{X: 2, Y: 2}}
	node.Update(storage)
	require.NoError(t, node.Run(ctx))
	assert.Equal(t, []dispatch{{pass: PassUpdate, clicks: 1}}, d.calls)

	var living *LivingCells
	require.True(t, storage.ReadSingleton(&living))
	assert.Equal(t, uint64(0), living.Generation, "paint-only passes do not evolve")
}

func TestNodeReset(t *testing.T) {
	var calls int
	cache := render.NewPipelineCache()
	cache.CompileWGSL = fakeWGSL(&calls, false)
	storage := newNodeWorld(t, cache)
	cache.ProcessQueue()

	node := NewNode(cache, &recordingDispatcher{})
	ctx := &render.Context{Storage: storage}
	for range 3 {
		node.Update(storage)
		require.NoError(t, node.Run(ctx))
	}
	require.Equal(t, StageUpdate, node.Stage())

	var controls *Controls
	require.True(t, storage.ReadSingleton(&controls))
	controls.Reseed()

	node.Update(storage)
	assert.Equal(t, StageInit, node.Stage())
	assert.False(t, controls.Reset)
}

func TestNodePanicsOnFailedPipeline(t *testing.T) {
	var calls int
	cache := render.NewPipelineCache()
	cache.CompileWGSL = fakeWGSL(&calls, true)
	storage := newNodeWorld(t, cache)
	cache.ProcessQueue()

	node := NewNode(cache, &recordingDispatcher{})
	assert.Panics(t, func() { node.Update(storage) })
}

func TestNodePanicsOnMissingResource(t *testing.T) {
	storage := ecs.NewStorage(ecs.NewComponentRegistry())
	node := NewNode(render.NewPipelineCache(), &recordingDispatcher{})
	assert.PanicsWithValue(t, "life: missing resource life.Pipeline", func() {
		node.Update(storage)
	})
}

func TestNodeReturnsDispatchErrors(t *testing.T) {
	var calls int
	cache := render.NewPipelineCache()
	cache.CompileWGSL = fakeWGSL(&calls, false)
	storage := newNodeWorld(t, cache)
	cache.ProcessQueue()

	d := &recordingDispatcher{err: ErrPipelineNotReady}
	node := NewNode(cache, d)
	node.Update(storage)
	err := node.Run(&render.Context{Storage: storage})
	assert.ErrorIs(t, err, ErrPipelineNotReady)

	var img *Image
	require.True(t, storage.ReadSingleton(&img))
	assert.Zero(t, img.Swaps(), "failed passes do not swap")
}

func TestReadbackNode(t *testing.T) {
	storage := ecs.NewStorage(ecs.NewComponentRegistry())
	img := NewImage(render.NewMemoryTexture, 8, 8)
	g := NewGrid(8, 8)
	g.Set(1, 1, true)
	g.Set(2, 5, true)
	pixels := make([]byte, 8*8*4)
	g.WritePixels(pixels)
	img.Front.WritePixels(pixels)
	storage.AddSingleton(img)
	storage.AddSingleton(LivingCells{})

	node := NewReadbackNode(8, 8, 2)
	var living *LivingCells
	require.True(t, storage.ReadSingleton(&living))

	for frame := range uint64(4) {
		node.Update(storage)
		require.NoError(t, node.Run(&render.Context{Storage: storage, Frame: frame}))
	}
	assert.Equal(t, uint64(2), living.Count)
	assert.Equal(t, uint64(2), living.Frame, "only even frames read back")
	assert.Equal(t, render.Unmapped, node.buffer.State())
}

func TestReadbackNodeDisabled(t *testing.T) {
	storage := ecs.NewStorage(ecs.NewComponentRegistry())
	storage.AddSingleton(NewImage(render.NewMemoryTexture, 8, 8))
	storage.AddSingleton(LivingCells{Count: 9})

	node := NewReadbackNode(8, 8, 0)
	node.Update(storage)
	require.NoError(t, node.Run(&render.Context{Storage: storage}))

	var living *LivingCells
	require.True(t, storage.ReadSingleton(&living))
	assert.Equal(t, uint64(9), living.Count)
}

func TestReadbackNodeSizeMismatch(t *testing.T) {
	storage := ecs.NewStorage(ecs.NewComponentRegistry())
	storage.AddSingleton(NewImage(render.NewMemoryTexture, 8, 8))
	storage.AddSingleton(LivingCells{})

	node := NewReadbackNode(16, 16, 1)
	node.Update(storage)
	err := node.Run(&render.Context{Storage: storage})
	assert.ErrorIs(t, err, render.ErrSizeMismatch)
}

// releasedTexture reports its size to the first caller and reads as released
// afterwards.
type releasedTexture struct {
	render.Texture
	sized int
}

func (r *releasedTexture) Bounds() image.Rectangle {
	r.sized++
	if r.sized > 1 {
		return image.Rectangle{}
	}
	return r.Texture.Bounds()
}

func TestReadbackNodePanicsWhenMapFails(t *testing.T) {
	storage := ecs.NewStorage(ecs.NewComponentRegistry())
	img := NewImage(render.NewMemoryTexture, 8, 8)
	img.Front = &releasedTexture{Texture: img.Front}
	storage.AddSingleton(img)
	storage.AddSingleton(LivingCells{})

	node := NewReadbackNode(8, 8, 1)
	node.Update(storage)
	assert.PanicsWithValue(t,
		"life readback: map failed: render: copy source was released before the map completed: source is now 0x0",
		func() { _ = node.Run(&render.Context{Storage: storage}) })
	assert.Equal(t, render.Unmapped, node.buffer.State())
}
