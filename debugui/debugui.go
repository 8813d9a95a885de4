// Package debugui draws Dear ImGui debug windows over an app. Widgets are
// entities carrying an ImguiItem; the overlay owns the ImGui frame and
// reports pointer capture back to the app so clicks on a window do not reach
// the world underneath.
package debugui

import (
	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/plus3/shaderdemos/app"
	"github.com/plus3/shaderdemos/ecs"
)

// ImguiItem is a component that holds a Dear ImGui render function.
// Attach this to entities that should render ImGui widgets each frame.
type ImguiItem struct {
	Render func()
}

// ImguiInputState tracks Dear ImGui's input capture state as a singleton component.
type ImguiInputState struct {
	WantCaptureMouse    bool
	WantCaptureKeyboard bool
}

// ImguiSystem queues every ImguiItem render function and publishes the
// capture state to ImguiInputState and app.Input.
type ImguiSystem struct {
	Items      ecs.Query[struct{ *ImguiItem }]
	InputState ecs.Singleton[ImguiInputState]
	Input      ecs.Singleton[app.Input]

	capture func() (mouse, keyboard bool)
}

func imguiCapture() (bool, bool) {
	io := imgui.CurrentIO()
	return io.WantCaptureMouse(), io.WantCaptureKeyboard()
}

// Execute updates input state and defers all ImGui render functions.
func (s *ImguiSystem) Execute(frame *ecs.UpdateFrame) {
	capture := s.capture
	if capture == nil {
		capture = imguiCapture
	}

	state := s.InputState.Get()
	state.WantCaptureMouse, state.WantCaptureKeyboard = capture()
	if in := s.Input.Get(); in != nil {
		in.Captured = state.WantCaptureMouse
	}

	for item := range s.Items.Values() {
		if item.Render != nil {
			frame.Commands.Defer(item.Render)
		}
	}
}
