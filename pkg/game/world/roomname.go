package world

import (
	"fmt"
	"strconv"
)

// RoomCoord is a room position on the world map. The axes follow the
// service convention: E0 is x=0, W0 is x=-1, S0 is y=0, N0 is y=-1, so
// names and coordinates round-trip without a gap at the origin.
type RoomCoord struct {
	X, Y int
}

// ParseRoomName parses names like "W12N3" or "E0S7".
func ParseRoomName(name string) (RoomCoord, error) {
	var c RoomCoord
	if len(name) < 4 {
		return c, fmt.Errorf("room name %q too short", name)
	}

	i := 1
	for i < len(name) && name[i] >= '0' && name[i] <= '9' {
		i++
	}
	if i == 1 || i >= len(name) {
		return c, fmt.Errorf("malformed room name %q", name)
	}
	xNum, err := strconv.Atoi(name[1:i])
	if err != nil {
		return c, fmt.Errorf("malformed room name %q: %w", name, err)
	}
	yNum, err := strconv.Atoi(name[i+1:])
	if err != nil {
		return c, fmt.Errorf("malformed room name %q: %w", name, err)
	}

	switch name[0] {
	case 'W', 'w':
		c.X = -xNum - 1
	case 'E', 'e':
		c.X = xNum
	default:
		return c, fmt.Errorf("room name %q: expected W or E", name)
	}
	switch name[i] {
	case 'N', 'n':
		c.Y = -yNum - 1
	case 'S', 's':
		c.Y = yNum
	default:
		return c, fmt.Errorf("room name %q: expected N or S", name)
	}
	return c, nil
}

func (c RoomCoord) String() string {
	var h, v string
	if c.X < 0 {
		h = "W" + strconv.Itoa(-c.X-1)
	} else {
		h = "E" + strconv.Itoa(c.X)
	}
	if c.Y < 0 {
		v = "N" + strconv.Itoa(-c.Y-1)
	} else {
		v = "S" + strconv.Itoa(c.Y)
	}
	return h + v
}

// Shift returns the room dx rooms east and dy rooms south of c.
func (c RoomCoord) Shift(dx, dy int) RoomCoord {
	return RoomCoord{X: c.X + dx, Y: c.Y + dy}
}

// NeighborRoom computes the name of the room adjacent to name, dx rooms
// east and dy rooms south. Crossing the axis works: east of W0N0 is E0N0.
func NeighborRoom(name string, dx, dy int) (string, error) {
	c, err := ParseRoomName(name)
	if err != nil {
		return "", err
	}
	return c.Shift(dx, dy).String(), nil
}
