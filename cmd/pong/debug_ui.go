package main

import (
	"fmt"

	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/plus3/shaderdemos/app"
	"github.com/plus3/shaderdemos/debugui"
	"github.com/plus3/shaderdemos/pong"
)

func pongWindow(a *app.App) debugui.ImguiItem {
	return debugui.ImguiItem{
		Render: func() {
			var (
				score   *pong.Score
				respawn *pong.RespawnTimer
			)
			if !a.Storage.ReadSingleton(&score) {
				return
			}
			a.Storage.ReadSingleton(&respawn)

			imgui.SetNextWindowPosV(imgui.NewVec2(860, 10), imgui.CondOnce, imgui.NewVec2(0, 0))
			imgui.SetNextWindowSizeV(imgui.NewVec2(220, 150), imgui.CondOnce)
			if !imgui.BeginV("Pong", nil, imgui.WindowFlagsNone) {
				imgui.End()
				return
			}

			imgui.Text(fmt.Sprintf("Score: %d", score.Current))
			imgui.Text(fmt.Sprintf("Best: %d", score.Best))
			imgui.Text(fmt.Sprintf("Misses: %d", score.Misses))
			if respawn != nil && respawn.Active {
				imgui.Text(fmt.Sprintf("Respawn in %.1fs", respawn.Timer.Remaining()))
			}
			if imgui.Button("Reset score") {
				*score = pong.Score{}
			}
			imgui.End()
		},
	}
}
