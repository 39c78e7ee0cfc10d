package world

import "testing"

func TestParseRoomName_RoundTrip(t *testing.T) {
	names := []string{"W0N0", "E0S0", "W12N3", "E7S41", "W59N59"}
	for _, name := range names {
		c, err := ParseRoomName(name)
		if err != nil {
			t.Fatalf("ParseRoomName(%q) error: %v", name, err)
		}
		if got := c.String(); got != name {
			t.Errorf("ParseRoomName(%q).String() = %q, want %q", name, got, name)
		}
	}
}

func TestParseRoomName_Invalid(t *testing.T) {
	names := []string{"", "W1", "X1N1", "W1X1", "WN", "W1N", "room"}
	for _, name := range names {
		if _, err := ParseRoomName(name); err == nil {
			t.Errorf("ParseRoomName(%q) error = nil, want error", name)
		}
	}
}

func TestNeighborRoom_CrossesAxis(t *testing.T) {
	cases := []struct {
		name   string
		dx, dy int
		want   string
	}{
		{"W0N0", 1, 0, "E0N0"},
		{"E0N0", -1, 0, "W0N0"},
		{"W5N0", 0, 1, "W5S0"},
		{"W5S0", 0, -1, "W5N0"},
		{"W12N3", 1, 0, "W11N3"},
		{"E7S41", 0, 1, "E7S42"},
	}
	for _, c := range cases {
		got, err := NeighborRoom(c.name, c.dx, c.dy)
		if err != nil {
			t.Fatalf("NeighborRoom(%q, %d, %d) error: %v", c.name, c.dx, c.dy, err)
		}
		if got != c.want {
			t.Errorf("NeighborRoom(%q, %d, %d) = %q, want %q", c.name, c.dx, c.dy, got, c.want)
		}
	}
}

func TestTerrainGrid_OutOfRangeIsWall(t *testing.T) {
	var g TerrainGrid
	if got := g.At(-1, 0); got != TerrainWall {
		t.Errorf("At(-1, 0) = %v, want TerrainWall", got)
	}
	if got := g.At(0, RoomSize); got != TerrainWall {
		t.Errorf("At(0, RoomSize) = %v, want TerrainWall", got)
	}
	if got := g.At(3, 4); got != TerrainPlain {
		t.Errorf("At(3, 4) = %v, want TerrainPlain", got)
	}
}

func TestSnapshot_TopObjectAt(t *testing.T) {
	s := NewSnapshot(RoomKey{Shard: "shard0", Room: "W1N1"})
	s.Objects["a"] = Object{ID: "a", Kind: KindRoad, X: 10, Y: 10}
	s.Objects["b"] = Object{ID: "b", Kind: KindCreep, X: 10, Y: 10}

	top, ok := s.TopObjectAt(10, 10)
	if !ok {
		t.Fatal("TopObjectAt(10, 10) ok = false, want true")
	}
	if top.Kind != KindCreep {
		t.Errorf("TopObjectAt(10, 10).Kind = %q, want creep over road", top.Kind)
	}

	if _, ok := s.TopObjectAt(0, 0); ok {
		t.Error("TopObjectAt(0, 0) ok = true, want false on empty cell")
	}
}

func TestSnapshot_CloneIsIndependent(t *testing.T) {
	s := NewSnapshot(RoomKey{Room: "W1N1"})
	s.Objects["a"] = Object{ID: "a", Kind: KindSpawn, X: 1, Y: 2, Attrs: map[string]any{"energy": float64(300)}}

	c := s.Clone()
	c.Objects["b"] = Object{ID: "b", Kind: KindCreep}
	delete(c.Objects["a"].Attrs, "energy")

	if _, ok := s.Objects["b"]; ok {
		t.Error("adding to clone leaked into the original object map")
	}
	if _, ok := s.Objects["a"].Attrs["energy"]; !ok {
		t.Error("mutating clone attrs leaked into the original")
	}
}
