package app

import "github.com/hajimehoshi/ebiten/v2"

// Overlay is a UI layer with its own frame lifecycle, drawn on top of the
// render graph output. BeginFrame and EndFrame bracket the update
// schedules so systems can submit widgets in between.
type Overlay interface {
	BeginFrame()
	EndFrame()
	Draw(screen *ebiten.Image)
	Layout(width, height int)
}
