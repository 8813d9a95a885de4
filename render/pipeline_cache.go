package render

import (
	"errors"
	"fmt"
	"hash/fnv"
	"sync"

	"github.com/gogpu/naga"
	"github.com/gogpu/naga/ir"
	"github.com/gogpu/naga/spirv"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/plus3/shaderdemos/internal/logging"
)

var (
	ErrUnknownPipeline    = errors.New("render: unknown pipeline id")
	ErrMissingEntryPoint  = errors.New("render: entry point not found")
	ErrNotComputeEntry    = errors.New("render: entry point is not a compute shader")
	ErrUnsupportedShading = errors.New("render: unsupported shader language")
)

// ShaderLanguage selects the compiler used for a pipeline.
type ShaderLanguage int

const (
	// Kage fragment programs run through Ebitengine.
	Kage ShaderLanguage = iota
	// WGSL compute modules are compiled to SPIR-V.
	WGSL
)

func (l ShaderLanguage) String() string {
	switch l {
	case Kage:
		return "kage"
	case WGSL:
		return "wgsl"
	default:
		return fmt.Sprintf("ShaderLanguage(%d)", int(l))
	}
}

// PipelineDescriptor describes a pipeline to queue. EntryPoint is only used
// for WGSL modules.
type PipelineDescriptor struct {
	Label      string
	Language   ShaderLanguage
	Source     []byte
	EntryPoint string
}

// PipelineID identifies a queued pipeline.
type PipelineID int

// PipelineState is the compilation state of a queued pipeline.
type PipelineState int

const (
	PipelineQueued PipelineState = iota
	PipelineOk
	PipelineErr
)

func (s PipelineState) String() string {
	switch s {
	case PipelineQueued:
		return "queued"
	case PipelineOk:
		return "ok"
	case PipelineErr:
		return "err"
	default:
		return fmt.Sprintf("PipelineState(%d)", int(s))
	}
}

// ComputeModule is a WGSL module lowered and compiled to SPIR-V.
type ComputeModule struct {
	SPIRV []byte
	// Workgroups maps compute entry point names to their workgroup size.
	Workgroups map[string][3]uint32
	stages     map[string]ir.ShaderStage
}

// CompileWGSL parses, validates and compiles source.
func CompileWGSL(source string) (*ComputeModule, error) {
	ast, err := naga.Parse(source)
	if err != nil {
		return nil, err
	}
	module, err := naga.LowerWithSource(ast, source)
	if err != nil {
		return nil, fmt.Errorf("lower: %w", err)
	}
	issues, err := naga.Validate(module)
	if err != nil {
		return nil, fmt.Errorf("validate: %w", err)
	}
	if len(issues) > 0 {
		return nil, fmt.Errorf("validate: %w", issues[0])
	}
	code, err := naga.GenerateSPIRV(module, spirv.Options{Version: spirv.Version1_3})
	if err != nil {
		return nil, err
	}

	out := &ComputeModule{
		SPIRV:      code,
		Workgroups: make(map[string][3]uint32),
		stages:     make(map[string]ir.ShaderStage),
	}
	for _, ep := range module.EntryPoints {
		out.stages[ep.Name] = ep.Stage
		if ep.Stage == ir.StageCompute {
			out.Workgroups[ep.Name] = ep.Workgroup
		}
	}
	return out, nil
}

type cachedPipeline struct {
	desc      PipelineDescriptor
	state     PipelineState
	err       error
	shader    *ebiten.Shader
	module    *ComputeModule
	workgroup [3]uint32
}

// PipelineCache compiles pipelines off the hot path. Pipelines are queued at
// setup and compiled by ProcessQueue, which the host calls once per frame;
// render nodes poll State until the pipeline they need is Ok.
//
// WGSL modules are compiled once per distinct source and shared between
// entry points.
type PipelineCache struct {
	// CompileKage and CompileWGSL default to ebiten.NewShader and CompileWGSL.
	CompileKage func(src []byte) (*ebiten.Shader, error)
	CompileWGSL func(src string) (*ComputeModule, error)

	mu        sync.RWMutex
	pipelines []*cachedPipeline
	queue     []PipelineID
	modules   map[uint64]*ComputeModule
	hits      int
	misses    int
}

// NewPipelineCache creates an empty cache using the real compilers.
func NewPipelineCache() *PipelineCache {
	return &PipelineCache{
		CompileKage: ebiten.NewShader,
		CompileWGSL: CompileWGSL,
		modules:     make(map[uint64]*ComputeModule),
	}
}

// Queue records desc for compilation and returns its id.
func (c *PipelineCache) Queue(desc PipelineDescriptor) PipelineID {
	c.mu.Lock()
	defer c.mu.Unlock()

	id := PipelineID(len(c.pipelines))
	c.pipelines = append(c.pipelines, &cachedPipeline{desc: desc})
	c.queue = append(c.queue, id)
	return id
}

// ProcessQueue compiles every queued pipeline and returns how many were
// processed. Compile failures move the pipeline to PipelineErr.
func (c *PipelineCache) ProcessQueue() int {
	c.mu.Lock()
	queue := c.queue
	c.queue = nil
	c.mu.Unlock()

	for _, id := range queue {
		c.compile(id)
	}
	return len(queue)
}

func (c *PipelineCache) compile(id PipelineID) {
	c.mu.RLock()
	p := c.pipelines[id]
	c.mu.RUnlock()

	var (
		shader    *ebiten.Shader
		module    *ComputeModule
		workgroup [3]uint32
		err       error
	)

	switch p.desc.Language {
	case Kage:
		shader, err = c.CompileKage(p.desc.Source)
	case WGSL:
		module, err = c.computeModule(p.desc.Source)
		if err == nil {
			workgroup, err = module.entry(p.desc.EntryPoint)
		}
	default:
		err = fmt.Errorf("%w: %v", ErrUnsupportedShading, p.desc.Language)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if err != nil {
		p.state = PipelineErr
		p.err = fmt.Errorf("pipeline %q: %w", p.desc.Label, err)
		logging.Logger().Error("pipeline compile failed", "label", p.desc.Label, "err", err)
		return
	}
	p.state = PipelineOk
	p.shader = shader
	p.module = module
	p.workgroup = workgroup
	logging.Logger().Debug("pipeline ready", "label", p.desc.Label, "language", p.desc.Language)
}

func (c *PipelineCache) computeModule(source []byte) (*ComputeModule, error) {
	h := fnv.New64a()
	h.Write(source)
	key := h.Sum64()

	c.mu.Lock()
	module, ok := c.modules[key]
	if ok {
		c.hits++
	} else {
		c.misses++
	}
	c.mu.Unlock()
	if ok {
		return module, nil
	}

	module, err := c.CompileWGSL(string(source))
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.modules[key] = module
	c.mu.Unlock()
	return module, nil
}

func (m *ComputeModule) entry(name string) ([3]uint32, error) {
	if m.stages != nil {
		stage, ok := m.stages[name]
		if !ok {
			return [3]uint32{}, fmt.Errorf("%w: %q", ErrMissingEntryPoint, name)
		}
		if stage != ir.StageCompute {
			return [3]uint32{}, fmt.Errorf("%w: %q", ErrNotComputeEntry, name)
		}
	}
	size, ok := m.Workgroups[name]
	if !ok {
		return [3]uint32{}, fmt.Errorf("%w: %q", ErrMissingEntryPoint, name)
	}
	return size, nil
}

func (c *PipelineCache) get(id PipelineID) *cachedPipeline {
	if id < 0 || int(id) >= len(c.pipelines) {
		return nil
	}
	return c.pipelines[id]
}

// State returns the compilation state of id. Unknown ids report PipelineErr.
func (c *PipelineCache) State(id PipelineID) PipelineState {
	c.mu.RLock()
	defer c.mu.RUnlock()
	p := c.get(id)
	if p == nil {
		return PipelineErr
	}
	return p.state
}

// Err returns the compile error of id, if any.
func (c *PipelineCache) Err(id PipelineID) error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	p := c.get(id)
	if p == nil {
		return fmt.Errorf("%w: %d", ErrUnknownPipeline, id)
	}
	return p.err
}

// Shader returns the compiled Kage shader of id, or nil.
func (c *PipelineCache) Shader(id PipelineID) *ebiten.Shader {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if p := c.get(id); p != nil {
		return p.shader
	}
	return nil
}

// SPIRV returns the SPIR-V module backing a WGSL pipeline, or nil.
func (c *PipelineCache) SPIRV(id PipelineID) []byte {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if p := c.get(id); p != nil && p.module != nil {
		return p.module.SPIRV
	}
	return nil
}

// Workgroup returns the workgroup size of a WGSL compute pipeline.
func (c *PipelineCache) Workgroup(id PipelineID) [3]uint32 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if p := c.get(id); p != nil {
		return p.workgroup
	}
	return [3]uint32{}
}

// Descriptor returns the descriptor id was queued with.
func (c *PipelineCache) Descriptor(id PipelineID) (PipelineDescriptor, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if p := c.get(id); p != nil {
		return p.desc, true
	}
	return PipelineDescriptor{}, false
}

// PipelineCacheStats reports cache occupancy.
type PipelineCacheStats struct {
	Pipelines    int
	Queued       int
	Failed       int
	Modules      int
	ModuleHits   int
	ModuleMisses int
}

// Stats returns a snapshot of the cache counters.
func (c *PipelineCache) Stats() PipelineCacheStats {
	c.mu.RLock()
	defer c.mu.RUnlock()

	stats := PipelineCacheStats{
		Pipelines:    len(c.pipelines),
		Queued:       len(c.queue),
		Modules:      len(c.modules),
		ModuleHits:   c.hits,
		ModuleMisses: c.misses,
	}
	for _, p := range c.pipelines {
		if p.state == PipelineErr {
			stats.Failed++
		}
	}
	return stats
}
