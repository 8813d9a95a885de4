package life

import (
	_ "embed"

	"github.com/plus3/shaderdemos/render"
)

//go:embed shaders/life_init.kage
var initKage []byte

//go:embed shaders/life_update.kage
var updateKage []byte

//go:embed shaders/game_of_life.wgsl
var gameOfLifeWGSL []byte

// Descriptors returns the init and update pipelines for the chosen backend:
// Kage fragment shaders for GPU dispatch, or the WGSL compute module whose
// workgroup size drives the CPU dispatch.
func Descriptors(software bool) (initDesc, updateDesc render.PipelineDescriptor) {
	if software {
		initDesc = render.PipelineDescriptor{
			Label:      "life_init_compute",
			Language:   render.WGSL,
			Source:     gameOfLifeWGSL,
			EntryPoint: "init",
		}
		updateDesc = initDesc
		updateDesc.Label = "life_update_compute"
		updateDesc.EntryPoint = "update"
		return initDesc, updateDesc
	}

	initDesc = render.PipelineDescriptor{
		Label:    "life_init",
		Language: render.Kage,
		Source:   initKage,
	}
	updateDesc = render.PipelineDescriptor{
		Label:    "life_update",
		Language: render.Kage,
		Source:   updateKage,
	}
	return initDesc, updateDesc
}
