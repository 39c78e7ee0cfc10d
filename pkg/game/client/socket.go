package client

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"roomview/pkg/game/world"
)

const socketPath = "/socket/websocket"

// SocketEvent is one event from the live-update stream: either a room
// update or a connection state change, never both.
type SocketEvent struct {
	Update *RoomUpdate
	State  ConnState
}

// Subscriber maintains a websocket subscription for live room updates.
// Events are delivered on a channel so the session consumes them on its
// own goroutine; the subscriber never touches shared state.
type Subscriber struct {
	conn   *websocket.Conn
	events chan SocketEvent
}

// DialSubscriber connects the live-update socket and authenticates. The
// server URL is the same base the HTTP API uses.
func DialSubscriber(server, token string) (*Subscriber, error) {
	wsURL, err := socketURL(server)
	if err != nil {
		return nil, err
	}
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: dialing %s: %v", ErrNetwork, wsURL, err)
	}

	s := &Subscriber{
		conn:   conn,
		events: make(chan SocketEvent, 16),
	}
	if err := conn.WriteJSON(map[string]string{"auth": token}); err != nil {
		conn.Close()
		return nil, fmt.Errorf("%w: sending auth: %v", ErrNetwork, err)
	}
	s.events <- SocketEvent{State: ConnAuthenticating}
	go s.readLoop()
	return s, nil
}

func socketURL(server string) (string, error) {
	if server == "" {
		server = DefaultServer
	}
	u, err := url.Parse(server)
	if err != nil {
		return "", fmt.Errorf("parsing server url: %w", err)
	}
	switch u.Scheme {
	case "https":
		u.Scheme = "wss"
	case "http":
		u.Scheme = "ws"
	default:
		return "", fmt.Errorf("server url %q: unsupported scheme %q", server, u.Scheme)
	}
	u.Path = strings.TrimRight(u.Path, "/") + socketPath
	return u.String(), nil
}

// Events returns the stream of socket events. The channel is closed when
// the connection drops.
func (s *Subscriber) Events() <-chan SocketEvent {
	return s.events
}

// Subscribe starts live updates for a room.
func (s *Subscriber) Subscribe(key world.RoomKey) error {
	return s.writeControl("subscribe", key)
}

// Unsubscribe stops live updates for a room.
func (s *Subscriber) Unsubscribe(key world.RoomKey) error {
	return s.writeControl("unsubscribe", key)
}

func (s *Subscriber) writeControl(verb string, key world.RoomKey) error {
	err := s.conn.WriteJSON(map[string]string{verb: roomChannel(key)})
	if err != nil {
		return fmt.Errorf("%w: %s %s: %v", ErrNetwork, verb, key, err)
	}
	return nil
}

// Close tears the connection down; the read loop ends shortly after.
func (s *Subscriber) Close() error {
	return s.conn.Close()
}

func roomChannel(key world.RoomKey) string {
	if key.Shard == "" {
		return "room:" + key.Room
	}
	return "room:" + key.Shard + "/" + key.Room
}

// parseRoomChannel is the inverse of roomChannel.
func parseRoomChannel(channel string) (world.RoomKey, bool) {
	name, ok := strings.CutPrefix(channel, "room:")
	if !ok {
		return world.RoomKey{}, false
	}
	if shard, room, ok := strings.Cut(name, "/"); ok {
		return world.RoomKey{Shard: shard, Room: room}, true
	}
	return world.RoomKey{Room: name}, true
}

type socketFrame struct {
	Event    string                     `json:"event"`
	Status   string                     `json:"status"`
	Channel  string                     `json:"channel"`
	GameTime int64                      `json:"gameTime"`
	Objects  map[string]json.RawMessage `json:"objects"`
}

func (s *Subscriber) readLoop() {
	defer close(s.events)
	for {
		var frame socketFrame
		if err := s.conn.ReadJSON(&frame); err != nil {
			s.deliver(SocketEvent{State: ConnDisconnected})
			return
		}
		switch frame.Event {
		case "auth":
			if frame.Status == "ok" {
				s.deliver(SocketEvent{State: ConnConnected})
			} else {
				s.deliver(SocketEvent{State: ConnError})
				s.conn.Close()
				return
			}
		case "room":
			key, ok := parseRoomChannel(frame.Channel)
			if !ok {
				continue
			}
			s.deliver(SocketEvent{Update: &RoomUpdate{
				Key:      key,
				GameTime: frame.GameTime,
				Objects:  frame.Objects,
			}})
		default:
			// Heartbeats and unknown events are ignored.
		}
	}
}

// deliver drops events when the session has stopped draining, so a slow
// or quitting consumer never wedges the read loop.
func (s *Subscriber) deliver(ev SocketEvent) {
	select {
	case s.events <- ev:
	case <-time.After(time.Second):
	}
}
