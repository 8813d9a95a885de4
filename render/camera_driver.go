package render

import (
	"sort"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/plus3/shaderdemos/ecs"
)

// CameraDriverLabel is the graph label of the node that draws the world.
const CameraDriverLabel = "camera_driver"

// Screen describes the current render target. The host updates it every
// frame before the graph runs.
type Screen struct {
	Image  *ebiten.Image
	Width  int
	Height int
}

type spriteView struct {
	*Transform
	*Sprite
}

type textView struct {
	*Text
}

// CameraDriverNode clears the target to the camera clear colour and draws
// every sprite in Z order followed by every text label.
type CameraDriverNode struct {
	sprites *ecs.View[spriteView]
	texts   *ecs.View[textView]
	storage *ecs.Storage
	camera  Camera2D
	drawn   int
}

// NewCameraDriverNode creates the node.
func NewCameraDriverNode() *CameraDriverNode {
	return &CameraDriverNode{camera: DefaultCamera()}
}

// Update binds the node's views and snapshots the camera.
func (n *CameraDriverNode) Update(storage *ecs.Storage) {
	if n.storage != storage {
		n.storage = storage
		n.sprites = ecs.NewView[spriteView](storage)
		n.texts = ecs.NewView[textView](storage)
	}

	var cam *Camera2D
	if storage.ReadSingleton(&cam) {
		n.camera = *cam
	} else {
		n.camera = DefaultCamera()
	}
}

// Drawn returns how many sprites and labels the last Run drew.
func (n *CameraDriverNode) Drawn() int {
	return n.drawn
}

// Run draws into ctx.Target. It does nothing when there is no target.
func (n *CameraDriverNode) Run(ctx *Context) error {
	n.drawn = 0
	if ctx.Target == nil || n.sprites == nil {
		return nil
	}

	ctx.Target.Fill(n.camera.Clear)

	sprites := make([]spriteView, 0, 16)
	for item := range n.sprites.Values() {
		if !item.Sprite.Hidden {
			sprites = append(sprites, item)
		}
	}
	sort.SliceStable(sprites, func(i, j int) bool {
		return sprites[i].Sprite.Z < sprites[j].Sprite.Z
	})
	for _, item := range sprites {
		drawSprite(ctx.Target, &n.camera, item.Transform, item.Sprite)
		n.drawn++
	}

	labels := make([]*Text, 0, 4)
	for item := range n.texts.Values() {
		labels = append(labels, item.Text)
	}
	sort.SliceStable(labels, func(i, j int) bool {
		return labels[i].Z < labels[j].Z
	})
	for _, label := range labels {
		if err := drawText(ctx.Target, label); err != nil {
			return err
		}
		n.drawn++
	}
	return nil
}

// RegisterComponents registers the drawable component types.
func RegisterComponents(registry *ecs.ComponentRegistry) {
	ecs.RegisterComponent[Transform](registry)
	ecs.RegisterComponent[Sprite](registry)
	ecs.RegisterComponent[Text](registry)
}
