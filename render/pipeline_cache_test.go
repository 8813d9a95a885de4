package render_test

import (
	"errors"
	"testing"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/plus3/shaderdemos/render"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFakeCache(wgslCalls *int) *render.PipelineCache {
	cache := render.NewPipelineCache()
	cache.CompileKage = func(src []byte) (*ebiten.Shader, error) {
		if string(src) == "bad" {
			return nil, errors.New("syntax error")
		}
		return nil, nil
	}
	cache.CompileWGSL = func(src string) (*render.ComputeModule, error) {
		*wgslCalls++
		return &render.ComputeModule{
			SPIRV:      []byte{0x03, 0x02, 0x23, 0x07},
			Workgroups: map[string][3]uint32{"init": {8, 8, 1}, "update": {8, 8, 1}},
		}, nil
	}
	return cache
}

func TestPipelineCacheLifecycle(t *testing.T) {
	var calls int
	cache := newFakeCache(&calls)

	ok := cache.Queue(render.PipelineDescriptor{Label: "ok", Language: render.Kage, Source: []byte("package main")})
	bad := cache.Queue(render.PipelineDescriptor{Label: "bad", Language: render.Kage, Source: []byte("bad")})

	assert.Equal(t, render.PipelineQueued, cache.State(ok))
	assert.Equal(t, 2, cache.Stats().Queued)

	assert.Equal(t, 2, cache.ProcessQueue())
	assert.Equal(t, 0, cache.ProcessQueue())

	assert.Equal(t, render.PipelineOk, cache.State(ok))
	assert.NoError(t, cache.Err(ok))
	assert.Equal(t, render.PipelineErr, cache.State(bad))
	assert.ErrorContains(t, cache.Err(bad), "syntax error")
	assert.ErrorContains(t, cache.Err(bad), `"bad"`)

	stats := cache.Stats()
	assert.Equal(t, 2, stats.Pipelines)
	assert.Equal(t, 1, stats.Failed)
	assert.Equal(t, 0, stats.Queued)
}

func TestPipelineCacheSharesWGSLModules(t *testing.T) {
	var calls int
	cache := newFakeCache(&calls)
	src := []byte("@compute @workgroup_size(8, 8, 1) fn init() {}")

	initID := cache.Queue(render.PipelineDescriptor{Label: "init", Language: render.WGSL, Source: src, EntryPoint: "init"})
	updateID := cache.Queue(render.PipelineDescriptor{Label: "update", Language: render.WGSL, Source: src, EntryPoint: "update"})
	missing := cache.Queue(render.PipelineDescriptor{Label: "paint", Language: render.WGSL, Source: src, EntryPoint: "paint"})
	cache.ProcessQueue()

	assert.Equal(t, 1, calls)
	assert.Equal(t, render.PipelineOk, cache.State(initID))
	assert.Equal(t, render.PipelineOk, cache.State(updateID))
	assert.Equal(t, [3]uint32{8, 8, 1}, cache.Workgroup(updateID))
	assert.Equal(t, cache.SPIRV(initID), cache.SPIRV(updateID))
	assert.NotEmpty(t, cache.SPIRV(initID))

	assert.Equal(t, render.PipelineErr, cache.State(missing))
	assert.ErrorIs(t, cache.Err(missing), render.ErrMissingEntryPoint)

	stats := cache.Stats()
	assert.Equal(t, 1, stats.Modules)
	assert.Equal(t, 2, stats.ModuleHits)
	assert.Equal(t, 1, stats.ModuleMisses)
}

func TestPipelineCacheUnknownIds(t *testing.T) {
	cache := render.NewPipelineCache()

	assert.Equal(t, render.PipelineErr, cache.State(42))
	assert.ErrorIs(t, cache.Err(42), render.ErrUnknownPipeline)
	assert.Nil(t, cache.Shader(-1))
	assert.Nil(t, cache.SPIRV(3))
	_, ok := cache.Descriptor(7)
	assert.False(t, ok)
}

func TestPipelineCacheRejectsUnknownLanguage(t *testing.T) {
	cache := render.NewPipelineCache()
	id := cache.Queue(render.PipelineDescriptor{Label: "hlsl", Language: render.ShaderLanguage(9)})
	cache.ProcessQueue()

	assert.ErrorIs(t, cache.Err(id), render.ErrUnsupportedShading)
	desc, ok := cache.Descriptor(id)
	require.True(t, ok)
	assert.Equal(t, "hlsl", desc.Label)
}
