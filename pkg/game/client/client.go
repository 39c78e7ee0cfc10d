// Package client talks to the remote game service: the HTTP API for room
// snapshots and account info, and the websocket stream for live room
// updates.
package client

import (
	"context"
	"errors"

	"github.com/zyedidia/generic/mapset"

	"roomview/pkg/game/world"
)

// Fetch error kinds. Wrapped errors match with errors.Is.
var (
	// ErrNetwork covers transport failures and server-side errors;
	// transient, retried on the next periodic refresh.
	ErrNetwork = errors.New("network error")
	// ErrAuth means the token was rejected. Fatal at startup, afterwards
	// surfaced as a persistent banner.
	ErrAuth = errors.New("authentication failed")
	// ErrNotFound means the room or shard does not exist.
	ErrNotFound = errors.New("room not found")
	// ErrRateLimited means the service asked us to slow down.
	ErrRateLimited = errors.New("rate limited")
)

// UserInfo is the account profile resolved at startup.
type UserInfo struct {
	ID       string
	Username string

	// OwnedRooms maps shard name to the rooms the user owns there,
	// used as shard-switch defaults.
	OwnedRooms map[string][]string

	owned *mapset.Set[world.RoomKey]
}

// OwnsRoom reports whether the account owns the room. The header uses
// this to mark the user's own rooms.
func (u *UserInfo) OwnsRoom(key world.RoomKey) bool {
	if u == nil {
		return false
	}
	if u.owned == nil {
		set := mapset.New[world.RoomKey]()
		for shard, rooms := range u.OwnedRooms {
			for _, room := range rooms {
				set.Put(world.RoomKey{Shard: shard, Room: room})
			}
		}
		u.owned = &set
	}
	return u.owned.Has(key)
}

// DefaultRoomIn returns the user's room on the given shard, or the fixed
// fallback when none is owned there.
func (u *UserInfo) DefaultRoomIn(shard string) string {
	if u != nil {
		if rooms := u.OwnedRooms[shard]; len(rooms) > 0 {
			return rooms[0]
		}
	}
	return world.FallbackRoom
}

// Service is the room-fetching interface the session consumes. The HTTP
// API implements it; tests substitute fakes.
type Service interface {
	// FetchRoom retrieves the current snapshot of one room.
	FetchRoom(ctx context.Context, key world.RoomKey) (*world.Snapshot, error)

	// StartRoom resolves the user's start room. With an empty shard the
	// service picks one; otherwise the room is resolved within that shard.
	StartRoom(ctx context.Context, shard string) (world.RoomKey, error)

	// Me fetches the account profile for the configured token.
	Me(ctx context.Context) (*UserInfo, error)
}

// ConnState describes the live-update connection for the status header.
type ConnState int

const (
	ConnPolling ConnState = iota
	ConnAuthenticating
	ConnConnected
	ConnDisconnected
	ConnError
)

func (s ConnState) String() string {
	switch s {
	case ConnPolling:
		return "polling"
	case ConnAuthenticating:
		return "authenticating"
	case ConnConnected:
		return "connected"
	case ConnDisconnected:
		return "disconnected"
	case ConnError:
		return "error"
	default:
		return "unknown"
	}
}
