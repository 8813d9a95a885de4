package main

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/plus3/shaderdemos/app"
	"github.com/plus3/shaderdemos/life"
)

var cellStyle = tcell.StyleDefault.Foreground(tcell.ColorLightGreen).Background(tcell.ColorBlack)

// gridSize fits a grid into a terminal of cols x rows characters. Every
// character shows two cells stacked vertically and the last row holds the
// status line.
func gridSize(cols, rows int) (int, int) {
	w := cols - cols%life.WorkgroupSize
	h := (rows - 1) * 2
	h -= h % life.WorkgroupSize
	return max(w, life.WorkgroupSize), max(h, life.WorkgroupSize)
}

// Terminal drives a headless life app from terminal input and draws the
// front buffer with half-block characters.
type Terminal struct {
	screen tcell.Screen
	app    *app.App
	pixels []byte
	width  int
	height int
}

func NewTerminal(screen tcell.Screen, cfg life.Config) *Terminal {
	window := app.DefaultWindow()
	window.Title = "lifeterm"
	window.Width, window.Height = cfg.Width, cfg.Height
	window.ExitOnEscape = false

	a := app.NewHeadless(window)
	a.AddPlugins(life.Plugin{Config: cfg})

	return &Terminal{
		screen: screen,
		app:    a,
		pixels: make([]byte, cfg.Width*cfg.Height*4),
		width:  cfg.Width,
		height: cfg.Height,
	}
}

// Handle applies one terminal event. It returns false when the user asked
// to quit.
func (t *Terminal) Handle(ev tcell.Event) bool {
	in := t.app.Input()
	switch ev := ev.(type) {
	case *tcell.EventKey:
		switch ev.Key() {
		case tcell.KeyEscape, tcell.KeyCtrlC:
			return false
		case tcell.KeyRune:
			if ev.Rune() == 'q' {
				return false
			}
			t.control(ev.Rune())
		}

	case *tcell.EventMouse:
		x, y := ev.Position()
		in.SetCursor(float64(x)+0.5, float64(y*2)+0.5)
		if ev.Buttons()&tcell.Button1 != 0 {
			in.PressMouse(app.MouseLeft)
		} else {
			in.ReleaseMouse(app.MouseLeft)
		}

	case *tcell.EventResize:
		t.screen.Sync()
	}
	return true
}

// control maps space, s and r onto the simulation controls. Terminals report
// no key-up, so keys act on the controls directly.
func (t *Terminal) control(r rune) {
	var controls *life.Controls
	if !t.app.Storage.ReadSingleton(&controls) {
		return
	}
	switch r {
	case ' ':
		controls.TogglePause()
	case 's':
		controls.Step()
	case 'r':
		controls.Reseed()
	}
}

// Step advances the app one frame and redraws the screen.
func (t *Terminal) Step(dt float64) error {
	if err := t.app.Step(dt); err != nil {
		return err
	}
	t.draw()
	return nil
}

func (t *Terminal) alive(x, y int) bool {
	return t.pixels[(y*t.width+x)*4] == 0xff
}

func (t *Terminal) draw() {
	var img *life.Image
	if !t.app.Storage.ReadSingleton(&img) {
		return
	}
	img.Front.ReadPixels(t.pixels)

	t.screen.Clear()
	for row := 0; row < t.height/2; row++ {
		for x := 0; x < t.width; x++ {
			top, bottom := t.alive(x, row*2), t.alive(x, row*2+1)
			var r rune
			switch {
			case top && bottom:
				r = '█'
			case top:
				r = '▀'
			case bottom:
				r = '▄'
			default:
				r = ' '
			}
			t.screen.SetContent(x, row, r, nil, cellStyle)
		}
	}

	for i, r := range t.status() {
		t.screen.SetContent(i, t.height/2, r, nil, tcell.StyleDefault.Reverse(true))
	}
	t.screen.Show()
}

func (t *Terminal) status() string {
	var (
		cells    *life.LivingCells
		controls *life.Controls
	)
	t.app.Storage.ReadSingleton(&cells)
	t.app.Storage.ReadSingleton(&controls)

	state := "running"
	if controls != nil && controls.Paused {
		state = "paused"
	}
	var count, gen uint64
	if cells != nil {
		count, gen = cells.Count, cells.Generation
	}
	return fmt.Sprintf(" %s  gen %d  cells %d  [space] pause [s] step [r] reseed [q] quit ", state, gen, count)
}
