package app

import (
	"log/slog"

	"github.com/plus3/shaderdemos/internal/logging"
)

// SetLogger configures the logger used by the app and its plugins.
// Passing nil restores the silent default.
func SetLogger(l *slog.Logger) {
	logging.SetLogger(l)
}

// Logger returns the current logger.
func Logger() *slog.Logger {
	return logging.Logger()
}
