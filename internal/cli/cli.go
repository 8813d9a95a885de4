// Package cli holds the start-up plumbing shared by the binaries under cmd.
package cli

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/pkg/profile"
	"github.com/plus3/shaderdemos/app"
)

// NewLogger returns a text logger writing to w at info level, or debug when
// verbose is set.
func NewLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// SetupLogging installs a logger for the app and its plugins.
func SetupLogging(w io.Writer, verbose bool) {
	app.SetLogger(NewLogger(w, verbose))
}

type nopStopper struct{}

func (nopStopper) Stop() {}

// StartProfile starts a profile of the given mode writing into dir. Mode is
// "", "cpu" or "mem"; the empty mode profiles nothing. The caller must Stop
// the result before exit.
func StartProfile(mode, dir string) (interface{ Stop() }, error) {
	var kind func(*profile.Profile)
	switch mode {
	case "":
		return nopStopper{}, nil
	case "cpu":
		kind = profile.CPUProfile
	case "mem":
		kind = profile.MemProfileAllocs
	default:
		return nil, fmt.Errorf("unknown profile mode %q", mode)
	}
	return profile.Start(kind, profile.ProfilePath(dir), profile.NoShutdownHook, profile.Quiet), nil
}

// Profiled runs fn under a profile of the given mode and stops the profile
// before returning, whether fn fails or not.
func Profiled(mode, dir string, fn func() error) error {
	prof, err := StartProfile(mode, dir)
	if err != nil {
		return err
	}
	defer prof.Stop()
	return fn()
}
