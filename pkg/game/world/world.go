// Package world holds the room data model: keys, terrain grids, game
// objects and snapshots as retrieved from the game service.
package world

import (
	"fmt"
	"sort"
	"time"
)

// RoomSize is the fixed side length of a room grid.
const RoomSize = 50

// FallbackRoom is used when switching to a shard where the user owns no
// room and the service reports no start room.
const FallbackRoom = "W0N0"

// RoomKey identifies a room within a shard. Keys compare by value.
type RoomKey struct {
	Shard string
	Room  string
}

func (k RoomKey) String() string {
	if k.Shard == "" {
		return k.Room
	}
	return k.Shard + "/" + k.Room
}

// Terrain represents the kind of a single terrain cell
type Terrain uint8

// Terrain kinds
const (
	TerrainPlain Terrain = iota
	TerrainWall
	TerrainSwamp
)

// TerrainGrid is the full terrain of one room, indexed [y][x].
type TerrainGrid [RoomSize][RoomSize]Terrain

// At returns the terrain at the given coordinates, or TerrainWall for
// out-of-range coordinates so callers never index outside the room.
func (g *TerrainGrid) At(x, y int) Terrain {
	if x < 0 || x >= RoomSize || y < 0 || y >= RoomSize {
		return TerrainWall
	}
	return g[y][x]
}

// ObjectKind is the service-side type tag of a game object.
type ObjectKind string

// Object kinds known to the client. The set is open: unrecognized tags
// still flow through rendering with fallback formatting.
const (
	KindCreep            ObjectKind = "creep"
	KindSource           ObjectKind = "source"
	KindMineral          ObjectKind = "mineral"
	KindController       ObjectKind = "controller"
	KindSpawn            ObjectKind = "spawn"
	KindExtension        ObjectKind = "extension"
	KindRoad             ObjectKind = "road"
	KindConstructedWall  ObjectKind = "constructedWall"
	KindRampart          ObjectKind = "rampart"
	KindStorage          ObjectKind = "storage"
	KindTerminal         ObjectKind = "terminal"
	KindTower            ObjectKind = "tower"
	KindContainer        ObjectKind = "container"
	KindLink             ObjectKind = "link"
	KindLab              ObjectKind = "lab"
	KindObserver         ObjectKind = "observer"
	KindExtractor        ObjectKind = "extractor"
	KindKeeperLair       ObjectKind = "keeperLair"
	KindPowerBank        ObjectKind = "powerBank"
	KindPowerSpawn       ObjectKind = "powerSpawn"
	KindNuker            ObjectKind = "nuker"
	KindPortal           ObjectKind = "portal"
	KindResource         ObjectKind = "energy"
	KindTombstone        ObjectKind = "tombstone"
	KindConstructionSite ObjectKind = "constructionSite"
)

// Object is one game object in a room. Attrs carries the kind-specific
// payload fields as delivered by the service.
type Object struct {
	ID    string
	Kind  ObjectKind
	X, Y  int
	Attrs map[string]any
}

// AttrString returns a string attribute, or "" when absent.
func (o Object) AttrString(name string) string {
	s, _ := o.Attrs[name].(string)
	return s
}

// AttrInt returns a numeric attribute as an int. JSON numbers decode as
// float64, so both forms are accepted.
func (o Object) AttrInt(name string) (int, bool) {
	switch v := o.Attrs[name].(type) {
	case float64:
		return int(v), true
	case int:
		return v, true
	}
	return 0, false
}

// Snapshot is the last-known state of one room: terrain, objects and the
// game time it was retrieved at. Once handed to the cache a snapshot is
// read-only; updates produce a new snapshot via Clone.
type Snapshot struct {
	Key       RoomKey
	Terrain   TerrainGrid
	Objects   map[string]Object
	GameTime  int64
	FetchedAt time.Time
}

// NewSnapshot creates an empty snapshot for a room.
func NewSnapshot(key RoomKey) *Snapshot {
	return &Snapshot{
		Key:     key,
		Objects: make(map[string]Object),
	}
}

// Clone returns a copy of the snapshot with its own object map, so the
// copy can be modified without touching the original.
func (s *Snapshot) Clone() *Snapshot {
	c := *s
	c.Objects = make(map[string]Object, len(s.Objects))
	for id, o := range s.Objects {
		attrs := make(map[string]any, len(o.Attrs))
		for k, v := range o.Attrs {
			attrs[k] = v
		}
		o.Attrs = attrs
		c.Objects[id] = o
	}
	return &c
}

// ObjectsAt returns the objects on one cell, ordered by ID so repeated
// calls over identical snapshots are deterministic.
func (s *Snapshot) ObjectsAt(x, y int) []Object {
	var out []Object
	for _, o := range s.Objects {
		if o.X == x && o.Y == y {
			out = append(out, o)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// TopObjectAt returns the object drawn on top of a cell, if any.
// Structures sit under creeps, creeps under dropped resources, matching
// the draw precedence used by the renderer.
func (s *Snapshot) TopObjectAt(x, y int) (Object, bool) {
	objs := s.ObjectsAt(x, y)
	if len(objs) == 0 {
		return Object{}, false
	}
	best := objs[0]
	for _, o := range objs[1:] {
		if drawPrecedence(o.Kind) > drawPrecedence(best.Kind) {
			best = o
		}
	}
	return best, true
}

func drawPrecedence(k ObjectKind) int {
	switch k {
	case KindRoad, KindRampart:
		return 0
	case KindCreep:
		return 2
	case KindResource, KindTombstone:
		return 3
	default:
		return 1
	}
}

func (o Object) String() string {
	return fmt.Sprintf("%s %s at (%d,%d)", o.Kind, o.ID, o.X, o.Y)
}
