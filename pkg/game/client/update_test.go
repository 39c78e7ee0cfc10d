package client

import (
	"encoding/json"
	"testing"

	"roomview/pkg/game/world"
)

func snapshotWithCreep(t *testing.T) *world.Snapshot {
	t.Helper()
	key := world.RoomKey{Shard: "shard0", Room: "W1N1"}
	snap := world.NewSnapshot(key)
	snap.GameTime = 100
	snap.Objects["c1"] = world.Object{
		ID: "c1", Kind: world.KindCreep, X: 5, Y: 5,
		Attrs: map[string]any{"_id": "c1", "type": "creep", "x": float64(5), "y": float64(5), "hits": float64(100)},
	}
	return snap
}

func TestMerge_PatchesKnownObject(t *testing.T) {
	snap := snapshotWithCreep(t)

	merged, err := Merge(snap, RoomUpdate{
		Key:      snap.Key,
		GameTime: 101,
		Objects: map[string]json.RawMessage{
			"c1": json.RawMessage(`{"x":6,"hits":90}`),
		},
	})
	if err != nil {
		t.Fatalf("Merge error: %v", err)
	}

	c := merged.Objects["c1"]
	if c.X != 6 || c.Y != 5 {
		t.Errorf("patched creep at (%d,%d), want (6,5)", c.X, c.Y)
	}
	if c.Kind != world.KindCreep {
		t.Errorf("patched creep kind = %q, want creep", c.Kind)
	}
	if hits, _ := c.AttrInt("hits"); hits != 90 {
		t.Errorf("patched hits = %d, want 90", hits)
	}
	if merged.GameTime != 101 {
		t.Errorf("GameTime = %d, want 101", merged.GameTime)
	}

	// Original must be untouched.
	if snap.Objects["c1"].X != 5 {
		t.Error("Merge mutated the input snapshot")
	}
}

func TestMerge_NullRemovesObject(t *testing.T) {
	snap := snapshotWithCreep(t)
	merged, err := Merge(snap, RoomUpdate{
		Key:     snap.Key,
		Objects: map[string]json.RawMessage{"c1": json.RawMessage(`null`)},
	})
	if err != nil {
		t.Fatalf("Merge error: %v", err)
	}
	if _, ok := merged.Objects["c1"]; ok {
		t.Error("object still present after null update, want removed")
	}
	if _, ok := snap.Objects["c1"]; !ok {
		t.Error("Merge removed the object from the input snapshot")
	}
}

func TestMerge_InsertsNewObject(t *testing.T) {
	snap := snapshotWithCreep(t)
	merged, err := Merge(snap, RoomUpdate{
		Key: snap.Key,
		Objects: map[string]json.RawMessage{
			"t1": json.RawMessage(`{"type":"tower","x":30,"y":31,"energy":500}`),
		},
	})
	if err != nil {
		t.Fatalf("Merge error: %v", err)
	}
	tower, ok := merged.Objects["t1"]
	if !ok {
		t.Fatal("new object missing after merge")
	}
	if tower.Kind != world.KindTower || tower.X != 30 || tower.Y != 31 {
		t.Errorf("new object decoded as %+v", tower)
	}
}

func TestMerge_NilSnapshotStartsEmpty(t *testing.T) {
	key := world.RoomKey{Room: "W2N2"}
	merged, err := Merge(nil, RoomUpdate{
		Key:     key,
		Objects: map[string]json.RawMessage{"a": json.RawMessage(`{"type":"source","x":1,"y":1}`)},
	})
	if err != nil {
		t.Fatalf("Merge error: %v", err)
	}
	if merged.Key != key {
		t.Errorf("merged.Key = %v, want %v", merged.Key, key)
	}
	if len(merged.Objects) != 1 {
		t.Errorf("len(Objects) = %d, want 1", len(merged.Objects))
	}
}

func TestParseRoomChannel(t *testing.T) {
	key, ok := parseRoomChannel("room:shard0/W1N1")
	if !ok || key != (world.RoomKey{Shard: "shard0", Room: "W1N1"}) {
		t.Errorf("parseRoomChannel(room:shard0/W1N1) = %v, %v", key, ok)
	}
	key, ok = parseRoomChannel("room:W1N1")
	if !ok || key != (world.RoomKey{Room: "W1N1"}) {
		t.Errorf("parseRoomChannel(room:W1N1) = %v, %v", key, ok)
	}
	if _, ok := parseRoomChannel("console:u1"); ok {
		t.Error("parseRoomChannel(console:u1) ok = true, want false")
	}
}

func TestSocketURL(t *testing.T) {
	got, err := socketURL("https://screeps.com")
	if err != nil {
		t.Fatalf("socketURL error: %v", err)
	}
	if got != "wss://screeps.com/socket/websocket" {
		t.Errorf("socketURL = %q", got)
	}
}
