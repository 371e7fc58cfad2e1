package settings

// Window is a browsing context with its own settings registry. A window
// with a parent runs inside a frame of that parent.
type Window struct {
	Name     string
	Settings *Registry
	Parent   *Window
}

// NewWindow returns a top-level window.
func NewWindow(name string, reg *Registry) *Window {
	if reg == nil {
		reg = &Registry{}
	}
	return &Window{Name: name, Settings: reg}
}

// Frame returns a window nested inside w.
func (w *Window) Frame(name string, reg *Registry) *Window {
	child := NewWindow(name, reg)
	child.Parent = w
	return child
}

// Framed reports whether w runs inside another window.
func (w *Window) Framed() bool {
	return w != nil && w.Parent != nil
}

// Top returns the outermost window.
func (w *Window) Top() *Window {
	for w.Parent != nil {
		w = w.Parent
	}
	return w
}

// Source returns the window whose settings configure widgets running in w.
// Widgets inside a frame are configured by their embedder, so a framed
// window defers to its direct parent.
func (w *Window) Source() *Window {
	if w.Framed() {
		return w.Parent
	}
	return w
}

// Lookup resolves uuid from the source window's settings.
func (w *Window) Lookup(uuid string) (Record, bool) {
	if w == nil {
		return Record{}, false
	}
	return w.Source().Settings.Lookup(uuid)
}
