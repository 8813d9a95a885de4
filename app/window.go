package app

// Window describes the host window. The copy stored as a singleton tracks
// the current layout size.
type Window struct {
	Title     string
	Width     int
	Height    int
	Resizable bool
	// TPS is the fixed update rate.
	TPS int
	// ExitOnEscape sends AppExit when Escape is pressed.
	ExitOnEscape bool
}

// DefaultWindow returns a 1280x720 resizable window updating at 60 TPS.
func DefaultWindow() Window {
	return Window{
		Title:        "shaderdemos",
		Width:        1280,
		Height:       720,
		Resizable:    true,
		TPS:          60,
		ExitOnEscape: true,
	}
}
