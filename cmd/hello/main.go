// Command hello greets a random person every second.
package main

import (
	"flag"
	"log"
	"os"

	"github.com/plus3/shaderdemos/app"
	"github.com/plus3/shaderdemos/hello"
	"github.com/plus3/shaderdemos/internal/cli"
)

func main() {
	interval := flag.Float64("interval", 1, "Seconds between greetings.")
	seed := flag.Uint64("seed", 42, "Seed for picking names.")
	verbose := flag.Bool("v", false, "Log at debug level.")
	flag.Parse()

	cli.SetupLogging(os.Stderr, *verbose)

	window := app.DefaultWindow()
	window.Title = "Hello"

	a := app.New(window)
	a.AddPlugins(hello.Plugin{Interval: *interval, Seed: *seed})
	if err := a.Run(); err != nil {
		log.Fatalf("hello exited: %v", err)
	}
}
