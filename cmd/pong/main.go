// Command pong runs the paddle game. Left/Right or A/D move the paddle.
package main

import (
	"flag"
	"log"
	"os"

	"github.com/plus3/shaderdemos/app"
	"github.com/plus3/shaderdemos/debugui"
	"github.com/plus3/shaderdemos/internal/cli"
	"github.com/plus3/shaderdemos/pong"
)

func main() {
	def := pong.DefaultConfig()
	speed := flag.Float64("speed", def.BallSpeed, "Initial ball speed in units per second.")
	accel := flag.Float64("accel", def.PaddleAccel, "Paddle acceleration per update.")
	sound := flag.Bool("sound", true, "Play a blip on every bounce.")
	volume := flag.Float64("volume", def.Volume, "Blip volume between 0 and 1.")
	debug := flag.Bool("debug", false, "Show the debug windows.")
	verbose := flag.Bool("v", false, "Log at debug level.")
	profileMode := flag.String("profile", "", "Write a cpu or mem profile to the working directory.")
	flag.Parse()

	cli.SetupLogging(os.Stderr, *verbose)

	cfg := def
	cfg.BallSpeed = *speed
	cfg.PaddleAccel = *accel
	cfg.Sound = *sound
	cfg.Volume = *volume
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	err := cli.Profiled(*profileMode, ".", func() error {
		return run(cfg, *debug)
	})
	if err != nil {
		log.Fatalf("Pong exited: %v", err)
	}
}

func run(cfg pong.Config, debug bool) error {
	window := app.DefaultWindow()
	window.Title = "Pong"
	window.Width, window.Height = int(cfg.Arena.X)+100, int(cfg.Arena.Y)+100

	a := app.New(window)
	a.AddPlugins(
		app.DiagnosticsPlugin{Interval: 5},
		pong.Plugin{Config: cfg},
	)
	if debug {
		a.AddPlugins(debugui.Plugin{Items: []debugui.ImguiItem{pongWindow(a)}})
	}
	return a.Run()
}
