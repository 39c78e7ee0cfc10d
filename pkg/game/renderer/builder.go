package renderer

import (
	"errors"
	"fmt"

	"roomview/pkg/game/cache"
	"roomview/pkg/game/client"
	"roomview/pkg/game/nav"
	"roomview/pkg/game/world"
)

// Build combines navigation state and the cache entry for the current
// room into a frame sized viewW×viewH. Pure: no I/O, no mutation of its
// inputs, identical inputs yield identical frames.
func Build(st *nav.State, entry *cache.Entry, viewW, viewH int, hdr Header) *Frame {
	f := &Frame{
		Key:    st.Key(),
		Header: hdr,
	}

	var snap *world.Snapshot
	if entry != nil {
		snap = entry.Snapshot
		f.Status = statusMessage(entry)
	}
	if snap == nil {
		f.Loading = true
		if f.Status == "" {
			f.Status = "loading " + f.Key.String() + "..."
		}
		return f
	}

	f.GameTime = snap.GameTime
	f.Width = min(viewW, world.RoomSize)
	f.Height = min(viewH, world.RoomSize)
	if f.Width < 1 || f.Height < 1 {
		f.Width, f.Height = 0, 0
		return f
	}

	// The builder re-clamps rather than trusting the caller, so a frame
	// never references cells outside the room.
	f.OffsetX = clamp(st.ViewportX, 0, world.RoomSize-f.Width)
	f.OffsetY = clamp(st.ViewportY, 0, world.RoomSize-f.Height)

	f.Cells = make([]CellView, f.Width*f.Height)
	for y := 0; y < f.Height; y++ {
		for x := 0; x < f.Width; x++ {
			rx, ry := f.OffsetX+x, f.OffsetY+y
			cell := CellView{Terrain: snap.Terrain.At(rx, ry)}
			if obj, ok := snap.TopObjectAt(rx, ry); ok {
				cell.Kind = obj.Kind
				cell.HasObject = true
			}
			f.Cells[y*f.Width+x] = cell
		}
	}

	f.CursorX = clamp(st.CursorX-f.OffsetX, 0, f.Width-1)
	f.CursorY = clamp(st.CursorY-f.OffsetY, 0, f.Height-1)

	if st.Mode == nav.ModeInspecting {
		f.Info = buildInfo(snap, st.CursorX, st.CursorY)
	}
	return f
}

func buildInfo(snap *world.Snapshot, x, y int) []string {
	objs := snap.ObjectsAt(x, y)
	if len(objs) == 0 {
		return []string{"nothing at the cursor"}
	}
	var lines []string
	for i, o := range objs {
		if i > 0 {
			lines = append(lines, "")
		}
		lines = append(lines, FormatObject(o)...)
	}
	return lines
}

// statusMessage turns a cache entry's error into the banner text. Stale
// data keeps rendering underneath; the banner only ever adds a line.
func statusMessage(entry *cache.Entry) string {
	err := entry.LastError
	switch {
	case err == nil:
		return ""
	case errors.Is(err, client.ErrAuth):
		return "authentication failed - check token"
	case errors.Is(err, client.ErrNotFound):
		return "room not found"
	case errors.Is(err, client.ErrRateLimited):
		return "rate limited - retrying shortly"
	default:
		return fmt.Sprintf("fetch failed: %v", err)
	}
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

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
