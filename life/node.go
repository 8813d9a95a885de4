package life

import (
	"context"
	"fmt"

	"github.com/plus3/shaderdemos/app"
	"github.com/plus3/shaderdemos/ecs"
	"github.com/plus3/shaderdemos/render"
)

const (
	NodeLabel     = "life_state"
	ReadbackLabel = "life_readback"
)

// Node drives the simulation through StageLoading, StageInit and
// StageUpdate. It panics when a pipeline fails to compile or a required
// resource is missing.
type Node struct {
	pipelines  *render.PipelineCache
	dispatcher Dispatcher
	stage      Stage

	pipeline *Pipeline
	bind     *BindGroup
	image    *Image
	controls *Controls
	living   *LivingCells
	current  *Stage
}

func NewNode(pipelines *render.PipelineCache, dispatcher Dispatcher) *Node {
	return &Node{pipelines: pipelines, dispatcher: dispatcher}
}

// Stage returns the node's current stage.
func (n *Node) Stage() Stage {
	return n.stage
}

func mustRead[T any](storage *ecs.Storage) *T {
	var v *T
	if !storage.ReadSingleton(&v) {
		var zero T
		panic(fmt.Sprintf("life: missing resource %T", zero))
	}
	return v
}

func (n *Node) Update(storage *ecs.Storage) {
	n.pipeline = mustRead[Pipeline](storage)
	n.bind = mustRead[BindGroup](storage)
	n.image = mustRead[Image](storage)
	n.controls = mustRead[Controls](storage)
	n.living = mustRead[LivingCells](storage)
	n.current = mustRead[Stage](storage)

	for _, id := range []render.PipelineID{n.pipeline.Init, n.pipeline.Update} {
		if n.pipelines.State(id) == render.PipelineErr {
			panic(n.pipelines.Err(id))
		}
	}

	reset := n.controls.Reset
	n.controls.Reset = false
	if reset {
		n.living.Generation = 0
	}

	switch n.stage {
	case StageLoading:
		if n.pipelines.State(n.pipeline.Init) == render.PipelineOk {
			n.setStage(StageInit)
		}
	case StageInit:
		if !reset && n.pipelines.State(n.pipeline.Update) == render.PipelineOk {
			n.setStage(StageUpdate)
		}
	case StageUpdate:
		if reset {
			n.setStage(StageInit)
		}
	}
	*n.current = n.stage
}

func (n *Node) setStage(stage Stage) {
	if stage != n.stage {
		app.Logger().Debug("life stage", "from", n.stage, "to", stage)
	}
	n.stage = stage
}

func (n *Node) Run(ctx *render.Context) error {
	var err error
	switch n.stage {
	case StageLoading:
		return nil
	case StageInit:
		err = n.dispatcher.Dispatch(PassInit, n.pipeline.Init, n.bind)
	case StageUpdate:
		if !n.bind.Evolve && len(n.bind.Clicks) == 0 {
			return nil
		}
		err = n.dispatcher.Dispatch(PassUpdate, n.pipeline.Update, n.bind)
		if err == nil && n.bind.Evolve {
			n.living.Generation++
			n.controls.Evolved()
		}
	}
	if err != nil {
		return err
	}
	n.image.Swap()
	return nil
}

// ReadbackNode copies the front texture into a readback buffer every
// interval frames, blocks until the map completes and counts living cells.
type ReadbackNode struct {
	interval int
	buffer   *render.ReadbackBuffer

	image  *Image
	living *LivingCells
}

// NewReadbackNode creates a node for a w*h texture. interval <= 0 disables
// it.
func NewReadbackNode(w, h, interval int) *ReadbackNode {
	return &ReadbackNode{
		interval: interval,
		buffer:   render.NewReadbackBuffer(w, h),
	}
}

func (n *ReadbackNode) Update(storage *ecs.Storage) {
	n.image = mustRead[Image](storage)
	n.living = mustRead[LivingCells](storage)
}

func (n *ReadbackNode) Run(ctx *render.Context) error {
	if n.interval <= 0 || ctx.Frame%uint64(n.interval) != 0 {
		return nil
	}
	if err := n.buffer.CopyFromTexture(n.image.Front); err != nil {
		return fmt.Errorf("life readback: %w", err)
	}

	data, err := n.buffer.MapReadBlocking(context.Background())
	if err != nil {
		panic(fmt.Sprintf("life readback: map failed: %v", err))
	}
	n.living.Count = CountLiving(data)
	n.living.Frame = ctx.Frame
	return n.buffer.Unmap()
}
