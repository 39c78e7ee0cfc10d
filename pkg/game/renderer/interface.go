package renderer

// Renderer defines the interface for frame drawing backends.
// Implementations can include TUI (terminal) or a recording backend for
// tests; backends draw a prebuilt frame and never reach back into game
// state.
type Renderer interface {
	// Init initializes the renderer (colors, etc.)
	Init()

	// ViewportSize returns the current grid viewport dimensions in cells.
	ViewportSize() (w, h int)

	// Draw renders a complete frame.
	Draw(f *Frame)
}
