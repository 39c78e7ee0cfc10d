package renderer

import "roomview/pkg/game/world"

// Map symbols for room objects
const (
	SymbolUnknown = "?"
	SymbolSwamp   = "~"
	SymbolWall    = "█"
	SymbolPlain   = " "
)

var objectSymbols = map[world.ObjectKind]string{
	world.KindContainer:        "B",
	world.KindController:       "C",
	world.KindCreep:            "⚬",
	world.KindExtension:        "E",
	world.KindExtractor:        "X",
	world.KindKeeperLair:       "K",
	world.KindLab:              "L",
	world.KindLink:             "I",
	world.KindMineral:          "M",
	world.KindNuker:            "N",
	world.KindObserver:         "O",
	world.KindPortal:           "P",
	world.KindPowerBank:        "B",
	world.KindPowerSpawn:       "R",
	world.KindRampart:          "[",
	world.KindResource:         ".",
	world.KindRoad:             "-",
	world.KindSource:           "S",
	world.KindSpawn:            "P",
	world.KindStorage:          "O",
	world.KindTerminal:         "T",
	world.KindTower:            "♜",
	world.KindTombstone:        "⚰",
	world.KindConstructedWall:  "W",
	world.KindConstructionSite: "▫",
}

// ObjectSymbol returns the map symbol for an object kind. Unrecognized
// kinds render as SymbolUnknown rather than failing.
func ObjectSymbol(kind world.ObjectKind) string {
	if s, ok := objectSymbols[kind]; ok {
		return s
	}
	return SymbolUnknown
}

// TerrainSymbol returns the map symbol for a terrain kind.
func TerrainSymbol(t world.Terrain) string {
	switch t {
	case world.TerrainWall:
		return SymbolWall
	case world.TerrainSwamp:
		return SymbolSwamp
	default:
		return SymbolPlain
	}
}
