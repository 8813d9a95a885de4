package main

import (
	"fmt"

	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/plus3/shaderdemos/app"
	"github.com/plus3/shaderdemos/debugui"
	"github.com/plus3/shaderdemos/life"
)

func lifeWindow(a *app.App) debugui.ImguiItem {
	return debugui.ImguiItem{
		Render: func() {
			var (
				stage    *life.Stage
				cells    *life.LivingCells
				controls *life.Controls
				cfg      *life.Config
			)
			if !a.Storage.ReadSingleton(&controls) || !a.Storage.ReadSingleton(&cells) {
				return
			}
			a.Storage.ReadSingleton(&stage)
			a.Storage.ReadSingleton(&cfg)

			imgui.SetNextWindowPosV(imgui.NewVec2(860, 10), imgui.CondOnce, imgui.NewVec2(0, 0))
			imgui.SetNextWindowSizeV(imgui.NewVec2(260, 200), imgui.CondOnce)
			if !imgui.BeginV("Life", nil, imgui.WindowFlagsNone) {
				imgui.End()
				return
			}

			if stage != nil {
				imgui.Text(fmt.Sprintf("Stage: %s", stage))
			}
			imgui.Text(fmt.Sprintf("Living cells: %d", cells.Count))
			imgui.Text(fmt.Sprintf("Generation: %d", cells.Generation))
			if cfg != nil {
				imgui.Text(fmt.Sprintf("Grid: %dx%d", cfg.Width, cfg.Height))
			}
			imgui.Separator()

			label := "Pause"
			if controls.Paused {
				label = "Resume"
			}
			if imgui.Button(label) {
				controls.TogglePause()
			}
			imgui.SameLine()
			if imgui.Button("Step") {
				controls.Step()
			}
			imgui.SameLine()
			if imgui.Button("Reseed") {
				controls.Reseed()
			}
			imgui.End()
		},
	}
}
