// Package renderer builds immutable render frames from navigation state
// and cached room snapshots, and defines the backend interface that
// draws them.
package renderer

import (
	"roomview/pkg/game/client"
	"roomview/pkg/game/world"
)

// CellView is one visible grid cell: its terrain and the object drawn on
// top of it, if any.
type CellView struct {
	Terrain   world.Terrain
	Kind      world.ObjectKind
	HasObject bool
}

// Header carries the session-level status shown above the grid.
type Header struct {
	Server   string
	Username string
	Conn     client.ConnState

	// Owned marks the displayed room as belonging to the user.
	Owned bool
}

// Frame is a complete, immutable description of one redraw. It is built
// fresh from navigation state and the cache, handed to a backend, and
// discarded; backends never mutate it.
type Frame struct {
	Key      world.RoomKey
	Header   Header
	GameTime int64

	// Loading is set when no snapshot exists yet; the grid is empty.
	Loading bool

	// Visible sub-grid, row-major Width×Height, offset within the room.
	Width, Height    int
	OffsetX, OffsetY int
	Cells            []CellView

	// Cursor position in visible-grid coordinates.
	CursorX, CursorY int

	// Info panel lines when inspecting; nil otherwise.
	Info []string

	// Status is the banner line, "" when there is nothing to report.
	Status string
}

// CellAt returns the visible cell at (x, y) in frame coordinates.
func (f *Frame) CellAt(x, y int) CellView {
	if x < 0 || x >= f.Width || y < 0 || y >= f.Height {
		return CellView{Terrain: world.TerrainWall}
	}
	return f.Cells[y*f.Width+x]
}

// ContainsRoomCell reports whether a room coordinate is inside the
// visible region.
func (f *Frame) ContainsRoomCell(x, y int) bool {
	return x >= f.OffsetX && x < f.OffsetX+f.Width &&
		y >= f.OffsetY && y < f.OffsetY+f.Height
}
