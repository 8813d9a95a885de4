package app

// Plugin adds resources, systems and render nodes to an App.
type Plugin interface {
	Build(app *App)
}

// Finisher is implemented by plugins that need a second pass once every
// plugin has been built, right before the first frame.
type Finisher interface {
	Finish(app *App)
}

// PluginFunc adapts a function to Plugin. Function plugins may be added
// more than once.
type PluginFunc func(app *App)

// Build calls f.
func (f PluginFunc) Build(app *App) {
	f(app)
}
