package tui

import (
	"bytes"
	"strings"
	"testing"

	"roomview/pkg/game/cache"
	"roomview/pkg/game/nav"
	"roomview/pkg/game/renderer"
	"roomview/pkg/game/world"
)

func drawFrame(t *testing.T, f *renderer.Frame) string {
	t.Helper()
	var buf bytes.Buffer
	r := NewPlain(&buf)
	r.Init()
	r.Draw(f)
	return buf.String()
}

func TestDraw_HintsComeFromBindings(t *testing.T) {
	st := nav.NewState(world.RoomKey{Shard: "shard0", Room: "W1N1"})
	out := drawFrame(t, renderer.Build(st, nil, 10, 10, renderer.Header{}))

	// Every hint segment is derived from the bindings table, so the
	// help line cannot drift from what the keys actually do.
	for _, want := range []string{
		"h/j/k/l/arrows: cursor",
		"H/J/K/L: adjacent room",
		"tab: next shard",
		"enter/i: inspect",
		"r: refresh",
		"ctrl_c/escape/q: quit",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("hint line missing %q", want)
		}
	}
}

func TestDraw_LoadingFrame(t *testing.T) {
	st := nav.NewState(world.RoomKey{Shard: "shard0", Room: "W1N1"})
	out := drawFrame(t, renderer.Build(st, nil, 10, 10, renderer.Header{}))

	if !strings.Contains(out, "Loading room state...") {
		t.Error("loading frame output has no loading line")
	}
	if !strings.Contains(out, "shard0/W1N1") {
		t.Error("header missing the room id")
	}
}

func TestDraw_GridAndStatus(t *testing.T) {
	st := nav.NewState(world.RoomKey{Shard: "shard0", Room: "W1N1"})
	snap := world.NewSnapshot(st.Key())
	snap.GameTime = 777
	snap.Objects["s1"] = world.Object{ID: "s1", Kind: world.KindSpawn, X: 1, Y: 1}

	f := renderer.Build(st, &cache.Entry{Snapshot: snap}, 10, 5, renderer.Header{Username: "op"})
	f.Status = "room not found"
	out := drawFrame(t, f)

	if !strings.Contains(out, renderer.ObjectSymbol(world.KindSpawn)) {
		t.Error("grid output missing the spawn symbol")
	}
	if !strings.Contains(out, "tick 777") {
		t.Error("header missing the game time")
	}
	if !strings.Contains(out, "room not found") {
		t.Error("status banner missing from output")
	}
}
