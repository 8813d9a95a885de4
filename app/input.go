package app

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/plus3/shaderdemos/ecs"
)

// Key and MouseButton are Ebitengine's input codes.
type (
	Key         = ebiten.Key
	MouseButton = ebiten.MouseButton
)

// MouseLeft is the primary mouse button.
const MouseLeft = ebiten.MouseButtonLeft

// Input is the keyboard and mouse snapshot for the current frame.
type Input struct {
	keys        map[ebiten.Key]bool
	justKeys    map[ebiten.Key]bool
	buttons     map[ebiten.MouseButton]bool
	justButtons map[ebiten.MouseButton]bool
	CursorX     float64
	CursorY     float64
	WheelY      float64

	// Captured is set when an overlay owns the pointer this frame.
	Captured bool
}

func (in *Input) init() {
	if in.keys == nil {
		in.keys = make(map[ebiten.Key]bool)
		in.justKeys = make(map[ebiten.Key]bool)
		in.buttons = make(map[ebiten.MouseButton]bool)
		in.justButtons = make(map[ebiten.MouseButton]bool)
	}
}

// Pressed reports whether k is held.
func (in *Input) Pressed(k ebiten.Key) bool { return in.keys[k] }

// JustPressed reports whether k went down this frame.
func (in *Input) JustPressed(k ebiten.Key) bool { return in.justKeys[k] }

// MousePressed reports whether b is held.
func (in *Input) MousePressed(b ebiten.MouseButton) bool { return in.buttons[b] }

// MouseJustPressed reports whether b went down this frame.
func (in *Input) MouseJustPressed(b ebiten.MouseButton) bool { return in.justButtons[b] }

// Cursor returns the cursor position in window pixels.
func (in *Input) Cursor() (float64, float64) {
	return in.CursorX, in.CursorY
}

// Press marks k as held and just pressed if it was up.
func (in *Input) Press(k ebiten.Key) {
	in.init()
	if !in.keys[k] {
		in.justKeys[k] = true
	}
	in.keys[k] = true
}

// Release marks k as up.
func (in *Input) Release(k ebiten.Key) {
	in.init()
	delete(in.keys, k)
	delete(in.justKeys, k)
}

// PressMouse marks b as held and just pressed if it was up.
func (in *Input) PressMouse(b ebiten.MouseButton) {
	in.init()
	if !in.buttons[b] {
		in.justButtons[b] = true
	}
	in.buttons[b] = true
}

// ReleaseMouse marks b as up.
func (in *Input) ReleaseMouse(b ebiten.MouseButton) {
	in.init()
	delete(in.buttons, b)
	delete(in.justButtons, b)
}

// SetCursor moves the cursor.
func (in *Input) SetCursor(x, y float64) {
	in.CursorX, in.CursorY = x, y
}

// EndFrame clears the just-pressed state. Held keys and buttons stay held.
func (in *Input) EndFrame() {
	clear(in.justKeys)
	clear(in.justButtons)
	in.WheelY = 0
}

func (in *Input) reset() {
	in.init()
	clear(in.keys)
	clear(in.justKeys)
	clear(in.buttons)
	clear(in.justButtons)
}

// InputSource fills an Input from a device.
type InputSource interface {
	Collect(in *Input)
}

var mouseButtons = []ebiten.MouseButton{
	ebiten.MouseButtonLeft,
	ebiten.MouseButtonRight,
	ebiten.MouseButtonMiddle,
}

type ebitenInput struct{}

func (ebitenInput) Collect(in *Input) {
	in.reset()
	for _, k := range inpututil.AppendPressedKeys(nil) {
		in.keys[k] = true
	}
	for _, k := range inpututil.AppendJustPressedKeys(nil) {
		in.justKeys[k] = true
	}
	for _, b := range mouseButtons {
		if ebiten.IsMouseButtonPressed(b) {
			in.buttons[b] = true
		}
		if inpututil.IsMouseButtonJustPressed(b) {
			in.justButtons[b] = true
		}
	}
	x, y := ebiten.CursorPosition()
	in.CursorX, in.CursorY = float64(x), float64(y)
	_, in.WheelY = ebiten.Wheel()
}

// InputSystem refreshes Input from the device and turns Escape into
// AppExit when the window asks for it.
type InputSystem struct {
	Input  ecs.Singleton[Input]
	Window ecs.Singleton[Window]
	Exit   ecs.EventWriter[AppExit]

	source InputSource
}

func (s *InputSystem) Execute(frame *ecs.UpdateFrame) {
	in := s.Input.Get()
	if s.source != nil {
		s.source.Collect(in)
	}
	if w := s.Window.Get(); w != nil && w.ExitOnEscape && in.JustPressed(ebiten.KeyEscape) {
		Logger().Info("escape pressed, exiting")
		s.Exit.Send(AppExit{})
	}
}
