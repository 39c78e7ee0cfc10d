// Package nav owns the navigation state: selected shard and room, cursor
// position, viewport offset and UI mode. Only the session's event loop
// mutates it; rendering reads it.
package nav

import (
	"roomview/pkg/game/world"
)

// Mode is the current UI mode.
type Mode int

const (
	// ModeNormal is free cursor movement.
	ModeNormal Mode = iota
	// ModeInspecting shows the info panel for the object at the cursor.
	ModeInspecting
)

// State is the authoritative navigation record.
type State struct {
	Shard string
	Room  string

	// ViewportX/Y is the top-left room coordinate of the visible sub-grid.
	ViewportX, ViewportY int

	// CursorX/Y is the cursor position within the room grid.
	CursorX, CursorY int

	Mode Mode
}

// NewState starts navigation at the given room in normal mode, cursor
// and viewport at the origin.
func NewState(key world.RoomKey) *State {
	return &State{Shard: key.Shard, Room: key.Room}
}

// Key returns the room key currently navigated to.
func (s *State) Key() world.RoomKey {
	return world.RoomKey{Shard: s.Shard, Room: s.Room}
}

// MoveCursor shifts the cursor by (dx, dy), clamped to room bounds, and
// scrolls the viewport by the minimal amount needed to keep the cursor
// visible in a viewW×viewH viewport.
func (s *State) MoveCursor(dx, dy, viewW, viewH int) {
	s.CursorX = clamp(s.CursorX+dx, 0, world.RoomSize-1)
	s.CursorY = clamp(s.CursorY+dy, 0, world.RoomSize-1)
	s.EnsureCursorVisible(viewW, viewH)
}

// EnsureCursorVisible scrolls the viewport minimally so the cursor is
// inside it, then clamps the viewport to room bounds.
func (s *State) EnsureCursorVisible(viewW, viewH int) {
	if viewW > world.RoomSize {
		viewW = world.RoomSize
	}
	if viewH > world.RoomSize {
		viewH = world.RoomSize
	}
	if viewW < 1 || viewH < 1 {
		return
	}

	if s.CursorX < s.ViewportX {
		s.ViewportX = s.CursorX
	} else if s.CursorX >= s.ViewportX+viewW {
		s.ViewportX = s.CursorX - viewW + 1
	}
	if s.CursorY < s.ViewportY {
		s.ViewportY = s.CursorY
	} else if s.CursorY >= s.ViewportY+viewH {
		s.ViewportY = s.CursorY - viewH + 1
	}

	s.ViewportX = clamp(s.ViewportX, 0, world.RoomSize-viewW)
	s.ViewportY = clamp(s.ViewportY, 0, world.RoomSize-viewH)
}

// ToggleInspect flips between normal and inspecting mode. Entering
// inspect mode requires an object at the cursor; leaving it never does.
func (s *State) ToggleInspect(objectAtCursor bool) {
	switch s.Mode {
	case ModeNormal:
		if objectAtCursor {
			s.Mode = ModeInspecting
		}
	case ModeInspecting:
		s.Mode = ModeNormal
	}
}

// SwitchRoom moves navigation to another room in the current shard,
// resetting cursor, viewport and mode.
func (s *State) SwitchRoom(room string) {
	s.Room = room
	s.reset()
}

// SwitchShard moves navigation to another shard and its default room,
// resetting cursor, viewport and mode.
func (s *State) SwitchShard(shard, room string) {
	s.Shard = shard
	s.Room = room
	s.reset()
}

func (s *State) reset() {
	s.CursorX, s.CursorY = 0, 0
	s.ViewportX, s.ViewportY = 0, 0
	s.Mode = ModeNormal
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
