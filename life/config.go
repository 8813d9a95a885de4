// Package life implements Conway's Game of Life as an app plugin. The
// simulation lives in a pair of textures that double as the visible sprite;
// render nodes move it through init and update passes and read it back to
// count living cells.
package life

import (
	"errors"
	"fmt"
)

const (
	// WorkgroupSize is the compute workgroup edge; grid sizes must be a
	// multiple of it.
	WorkgroupSize = 8
	// MaxClicks bounds the brush centres applied in one pass.
	MaxClicks = 16
)

var ErrInvalidConfig = errors.New("life: invalid config")

// Config controls the simulation.
type Config struct {
	Width  int
	Height int
	// Density is the fraction of cells seeded alive.
	Density float64
	Seed    uint32
	// BrushRadius is the radius, in cells, painted alive around a click.
	BrushRadius float64
	// ReadbackInterval is the number of frames between living cell counts.
	// Zero disables the readback.
	ReadbackInterval int
	// Software runs the passes on the CPU grid instead of Kage shaders.
	Software bool
	// PaintOnDrag paints while the left button is held instead of only on
	// the press.
	PaintOnDrag bool
	Paused      bool
}

// DefaultConfig returns a 1280x720 grid seeded at 10% density.
func DefaultConfig() Config {
	return Config{
		Width:            1280,
		Height:           720,
		Density:          0.1,
		BrushRadius:      4,
		ReadbackInterval: 1,
	}
}

// Validate reports the first invalid field.
func (c Config) Validate() error {
	switch {
	case c.Width <= 0 || c.Height <= 0:
		return fmt.Errorf("%w: size %dx%d", ErrInvalidConfig, c.Width, c.Height)
	case c.Width%WorkgroupSize != 0 || c.Height%WorkgroupSize != 0:
		return fmt.Errorf("%w: size %dx%d is not a multiple of %d", ErrInvalidConfig, c.Width, c.Height, WorkgroupSize)
	case c.Width > 1<<16 || c.Height > 1<<16:
		return fmt.Errorf("%w: size %dx%d exceeds 65536", ErrInvalidConfig, c.Width, c.Height)
	case c.Density < 0 || c.Density > 1:
		return fmt.Errorf("%w: density %v outside [0, 1]", ErrInvalidConfig, c.Density)
	case c.BrushRadius < 0:
		return fmt.Errorf("%w: negative brush radius", ErrInvalidConfig)
	case c.ReadbackInterval < 0:
		return fmt.Errorf("%w: negative readback interval", ErrInvalidConfig)
	}
	return nil
}
