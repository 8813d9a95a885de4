// Command lifeterm runs the Game of Life on the CPU grid and draws it in the
// terminal. Click or drag to paint cells.
package main

import (
	"flag"
	"io"
	"log"
	"os"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/plus3/shaderdemos/internal/cli"
	"github.com/plus3/shaderdemos/life"
)

func main() {
	density := flag.Float64("density", 0.2, "Fraction of cells seeded alive.")
	seed := flag.Uint("seed", 0, "Seed for the initial noise.")
	brush := flag.Float64("brush", 1.5, "Brush radius in cells.")
	tps := flag.Int("tps", 15, "Generations per second.")
	logFile := flag.String("log", "", "Write logs to this file; the terminal is busy.")
	verbose := flag.Bool("v", false, "Log at debug level.")
	flag.Parse()

	var logOut io.Writer = io.Discard
	if *logFile != "" {
		f, err := os.Create(*logFile)
		if err != nil {
			log.Fatalf("Failed to open log file: %v", err)
		}
		defer f.Close()
		logOut = f
	}
	cli.SetupLogging(logOut, *verbose)

	screen, err := tcell.NewScreen()
	if err != nil {
		log.Fatalf("Failed to create screen: %v", err)
	}
	if err := screen.Init(); err != nil {
		log.Fatalf("Failed to initialize screen: %v", err)
	}
	screen.EnableMouse()
	screen.HideCursor()

	cfg := life.DefaultConfig()
	cfg.Width, cfg.Height = gridSize(screen.Size())
	cfg.Density = *density
	cfg.Seed = uint32(*seed)
	cfg.BrushRadius = *brush
	cfg.Software = true
	cfg.PaintOnDrag = true
	if err := cfg.Validate(); err != nil {
		screen.Fini()
		log.Fatalf("Invalid configuration: %v", err)
	}

	term := NewTerminal(screen, cfg)
	err = run(screen, term, time.Second/time.Duration(max(*tps, 1)))
	screen.Fini()
	if err != nil {
		log.Fatalf("lifeterm exited: %v", err)
	}
}

func run(screen tcell.Screen, term *Terminal, interval time.Duration) error {
	events := make(chan tcell.Event, 64)
	go func() {
		for {
			ev := screen.PollEvent()
			if ev == nil {
				return
			}
			events <- ev
		}
	}()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case ev := <-events:
			if !term.Handle(ev) {
				return nil
			}
		case <-ticker.C:
			if err := term.Step(interval.Seconds()); err != nil {
				return err
			}
		}
	}
}
