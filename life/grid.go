package life

import (
	"math"

	"github.com/plus3/shaderdemos/render"
)

// hash is the integer hash shared by the shaders and Grid.
func hash(value uint32) uint32 {
	state := value
	state ^= 2747636419
	state *= 2654435769
	state ^= state >> 16
	state *= 2654435769
	state ^= state >> 16
	state *= 2654435769
	return state
}

// cellNoise returns the 24-bit noise value of cell (x, y) for seed.
func cellNoise(x, y int, seed uint32) uint32 {
	return hash((uint32(y)<<16|uint32(x))^seed) >> 8
}

// seeded reports whether cell (x, y) starts alive.
func seeded(x, y int, seed uint32, density float64) bool {
	return float64(cellNoise(x, y, seed))/16777215 > 1-density
}

// Point is a cell-space position. Cell (x, y) covers [x, x+1) x [y, y+1)
// with y growing downwards.
type Point struct {
	X, Y float64
}

// ClipToCell maps a clip-space position onto a w*h grid.
func ClipToCell(clip render.Vec2, w, h int) Point {
	return Point{
		X: (clip.X + 1) / 2 * float64(w),
		Y: (1 - clip.Y) / 2 * float64(h),
	}
}

// inBrush reports whether the centre of cell (x, y) lies within radius of c.
func inBrush(x, y int, c Point, radius float64) bool {
	return math.Hypot(float64(x)+0.5-c.X, float64(y)+0.5-c.Y) <= radius
}

// Grid is the CPU implementation of the simulation. It follows the shaders
// cell for cell and backs the software dispatcher.
type Grid struct {
	width, height int
	cells         []bool
	scratch       []bool
}

// NewGrid returns an all-dead grid.
func NewGrid(w, h int) *Grid {
	return &Grid{
		width:   w,
		height:  h,
		cells:   make([]bool, w*h),
		scratch: make([]bool, w*h),
	}
}

// Size returns the grid dimensions.
func (g *Grid) Size() (int, int) {
	return g.width, g.height
}

// Alive reports whether (x, y) is alive. Cells outside the grid are dead.
func (g *Grid) Alive(x, y int) bool {
	if x < 0 || y < 0 || x >= g.width || y >= g.height {
		return false
	}
	return g.cells[y*g.width+x]
}

// Set changes one cell. Out of range coordinates are ignored.
func (g *Grid) Set(x, y int, alive bool) {
	if x < 0 || y < 0 || x >= g.width || y >= g.height {
		return
	}
	g.cells[y*g.width+x] = alive
}

// Randomize reseeds every cell.
func (g *Grid) Randomize(seed uint32, density float64) {
	for y := range g.height {
		for x := range g.width {
			g.cells[y*g.width+x] = seeded(x, y, seed, density)
		}
	}
}

// Paint sets every cell within radius of a click alive.
func (g *Grid) Paint(clicks []Point, radius float64) {
	for _, c := range clicks {
		x0 := max(int(math.Floor(c.X-radius)), 0)
		x1 := min(int(math.Ceil(c.X+radius)), g.width-1)
		y0 := max(int(math.Floor(c.Y-radius)), 0)
		y1 := min(int(math.Ceil(c.Y+radius)), g.height-1)
		for y := y0; y <= y1; y++ {
			for x := x0; x <= x1; x++ {
				if inBrush(x, y, c, radius) {
					g.cells[y*g.width+x] = true
				}
			}
		}
	}
}

// Step advances one generation with the B3/S23 rule.
func (g *Grid) Step() {
	for y := range g.height {
		for x := range g.width {
			n := g.neighbours(x, y)
			alive := g.cells[y*g.width+x]
			g.scratch[y*g.width+x] = n == 3 || (alive && n == 2)
		}
	}
	g.cells, g.scratch = g.scratch, g.cells
}

func (g *Grid) neighbours(x, y int) int {
	n := 0
	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			if (dx != 0 || dy != 0) && g.Alive(x+dx, y+dy) {
				n++
			}
		}
	}
	return n
}

// Living returns the number of live cells.
func (g *Grid) Living() int {
	n := 0
	for _, alive := range g.cells {
		if alive {
			n++
		}
	}
	return n
}

// Load replaces the grid from RGBA pixels: a cell is alive when its red
// channel is above half.
func (g *Grid) Load(pixels []byte) {
	for i := range g.cells {
		g.cells[i] = pixels[i*4] > 127
	}
}

// WritePixels renders the grid as opaque white (alive) and black (dead)
// RGBA pixels. pixels must hold w*h*4 bytes.
func (g *Grid) WritePixels(pixels []byte) {
	for i, alive := range g.cells {
		var v byte
		if alive {
			v = 255
		}
		pixels[i*4] = v
		pixels[i*4+1] = v
		pixels[i*4+2] = v
		pixels[i*4+3] = 255
	}
}

// CountLiving counts RGBA pixels whose red channel is saturated.
func CountLiving(pixels []byte) uint64 {
	var n uint64
	for i := 0; i < len(pixels); i += 4 {
		if pixels[i] == 255 {
			n++
		}
	}
	return n
}
