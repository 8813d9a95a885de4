// Command life runs Conway's Game of Life on the GPU. Click to paint cells,
// Space pauses, S steps while paused and R reseeds.
package main

import (
	"flag"
	"log"
	"os"

	"github.com/plus3/shaderdemos/app"
	"github.com/plus3/shaderdemos/debugui"
	"github.com/plus3/shaderdemos/internal/cli"
	"github.com/plus3/shaderdemos/life"
)

func main() {
	def := life.DefaultConfig()
	width := flag.Int("width", def.Width, "Grid width in cells, a multiple of 8.")
	height := flag.Int("height", def.Height, "Grid height in cells, a multiple of 8.")
	density := flag.Float64("density", def.Density, "Fraction of cells seeded alive.")
	seed := flag.Uint("seed", 0, "Seed for the initial noise.")
	brush := flag.Float64("brush", def.BrushRadius, "Brush radius in cells.")
	drag := flag.Bool("drag", false, "Paint while the mouse button is held.")
	readback := flag.Int("readback", def.ReadbackInterval, "Frames between living cell counts, 0 to disable.")
	software := flag.Bool("software", false, "Simulate on the CPU instead of Kage shaders.")
	paused := flag.Bool("paused", false, "Start paused.")
	debug := flag.Bool("debug", false, "Show the debug windows.")
	verbose := flag.Bool("v", false, "Log at debug level.")
	profileMode := flag.String("profile", "", "Write a cpu or mem profile to the working directory.")
	flag.Parse()

	cli.SetupLogging(os.Stderr, *verbose)

	cfg := life.Config{
		Width:            *width,
		Height:           *height,
		Density:          *density,
		Seed:             uint32(*seed),
		BrushRadius:      *brush,
		ReadbackInterval: *readback,
		Software:         *software,
		PaintOnDrag:      *drag,
		Paused:           *paused,
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	err := cli.Profiled(*profileMode, ".", func() error {
		return run(cfg, *debug)
	})
	if err != nil {
		log.Fatalf("Game of Life exited: %v", err)
	}
}

func run(cfg life.Config, debug bool) error {
	window := app.DefaultWindow()
	window.Title = "Game of Life"
	window.Width, window.Height = cfg.Width, cfg.Height

	a := app.New(window)
	a.AddPlugins(
		app.DiagnosticsPlugin{Interval: 5},
		life.Plugin{Config: cfg},
	)
	if debug {
		a.AddPlugins(debugui.Plugin{Items: []debugui.ImguiItem{lifeWindow(a)}})
	}
	return a.Run()
}
