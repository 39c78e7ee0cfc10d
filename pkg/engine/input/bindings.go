package input

import "sort"

// Action represents a high-level intent of the operator.
type Action int

const (
	ActionNone Action = iota

	// Cursor movement within the room grid
	ActionCursorUp
	ActionCursorDown
	ActionCursorLeft
	ActionCursorRight

	// Room/shard navigation
	ActionRoomNorth
	ActionRoomSouth
	ActionRoomWest
	ActionRoomEast
	ActionNextShard

	// Meta / UI
	ActionInspect
	ActionRefresh
	ActionQuit
)

// bindings maps raw key codes to actions. Multiple codes may point to
// the same Action.
var bindings = map[string]Action{
	// Cursor (arrows, Vim)
	"arrow_up":    ActionCursorUp,
	"k":           ActionCursorUp,
	"arrow_down":  ActionCursorDown,
	"j":           ActionCursorDown,
	"arrow_left":  ActionCursorLeft,
	"h":           ActionCursorLeft,
	"arrow_right": ActionCursorRight,
	"l":           ActionCursorRight,

	// Adjacent rooms (shifted Vim keys)
	"K": ActionRoomNorth,
	"J": ActionRoomSouth,
	"H": ActionRoomWest,
	"L": ActionRoomEast,

	// Shard cycling
	"tab": ActionNextShard,

	// Inspect the object under the cursor
	"i":     ActionInspect,
	"enter": ActionInspect,

	// Manual refresh
	"r": ActionRefresh,

	// Quit
	"q":      ActionQuit,
	"escape": ActionQuit,
	"ctrl_c": ActionQuit,
}

// MapToAction applies the bindings to a key code. Total: unrecognized
// codes map to ActionNone so the event loop never stalls on a key.
func MapToAction(code string) Action {
	if act, ok := bindings[code]; ok {
		return act
	}
	return ActionNone
}

// ActionName returns a human-friendly name for an action.
func ActionName(a Action) string {
	switch a {
	case ActionCursorUp:
		return "Cursor Up"
	case ActionCursorDown:
		return "Cursor Down"
	case ActionCursorLeft:
		return "Cursor Left"
	case ActionCursorRight:
		return "Cursor Right"
	case ActionRoomNorth:
		return "Room North"
	case ActionRoomSouth:
		return "Room South"
	case ActionRoomWest:
		return "Room West"
	case ActionRoomEast:
		return "Room East"
	case ActionNextShard:
		return "Next Shard"
	case ActionInspect:
		return "Inspect"
	case ActionRefresh:
		return "Refresh"
	case ActionQuit:
		return "Quit"
	default:
		return "None"
	}
}

// GetBindingsByAction returns the current bindings grouped by action.
func GetBindingsByAction() map[Action][]string {
	result := make(map[Action][]string)
	for code, act := range bindings {
		result[act] = append(result[act], code)
	}
	// Ensure stable ordering of codes within each action so UI doesn't flicker.
	for act, codes := range result {
		sort.Strings(codes)
		result[act] = codes
	}
	return result
}
