package client

import (
	"encoding/json"
	"fmt"
	"time"

	"roomview/pkg/game/world"
)

// RoomUpdate is one live delta for a room: partial per-object payloads
// keyed by object ID. A null payload removes the object; payloads for
// known objects patch their attributes field-wise.
type RoomUpdate struct {
	Key      world.RoomKey
	GameTime int64
	Objects  map[string]json.RawMessage
}

// Merge applies a room update to a snapshot and returns the merged copy.
// The input snapshot is never modified, so views handed out earlier stay
// consistent.
func Merge(snap *world.Snapshot, upd RoomUpdate) (*world.Snapshot, error) {
	if snap == nil {
		snap = world.NewSnapshot(upd.Key)
	}
	out := snap.Clone()
	if upd.GameTime > 0 {
		out.GameTime = upd.GameTime
	}
	out.FetchedAt = time.Now()

	for id, raw := range upd.Objects {
		if isJSONNull(raw) {
			delete(out.Objects, id)
			continue
		}
		var patch map[string]any
		if err := json.Unmarshal(raw, &patch); err != nil {
			return nil, fmt.Errorf("decoding update for object %s: %w", id, err)
		}

		existing, ok := out.Objects[id]
		if !ok {
			patch["_id"] = id
			o := objectFromAttrs(patch)
			out.Objects[id] = o
			continue
		}

		for k, v := range patch {
			if v == nil {
				delete(existing.Attrs, k)
				continue
			}
			existing.Attrs[k] = v
		}
		// Re-derive identity fields the patch may have moved.
		updated := objectFromAttrs(existing.Attrs)
		updated.ID = id
		if updated.Kind == "" {
			updated.Kind = existing.Kind
		}
		if _, ok := existing.Attrs["x"]; !ok {
			updated.X = existing.X
		}
		if _, ok := existing.Attrs["y"]; !ok {
			updated.Y = existing.Y
		}
		out.Objects[id] = updated
	}
	return out, nil
}

func isJSONNull(raw json.RawMessage) bool {
	return len(raw) == 0 || string(raw) == "null"
}
