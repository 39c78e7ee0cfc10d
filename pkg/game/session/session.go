// Package session runs the event loop: one goroutine multiplexing key
// input, fetch completions, live socket events and the periodic refresh
// ticker. All navigation and cache mutation happens here, one event per
// iteration, each followed by a single render pass.
package session

import (
	"errors"
	"log"
	"sort"
	"time"

	"roomview/pkg/engine/input"
	"roomview/pkg/game/cache"
	"roomview/pkg/game/client"
	"roomview/pkg/game/fetch"
	"roomview/pkg/game/nav"
	"roomview/pkg/game/renderer"
	"roomview/pkg/game/world"
)

// DefaultRefreshInterval matches the rough cadence of game ticks.
const DefaultRefreshInterval = 5 * time.Second

// Config wires a session together.
type Config struct {
	Service  client.Service
	Renderer renderer.Renderer

	// Keys delivers decoded key codes; closing it ends the session.
	Keys <-chan string

	// Socket optionally delivers live-update events.
	Socket <-chan client.SocketEvent

	// Subscriber, when set, has its room subscription moved as the
	// session navigates.
	Subscriber *client.Subscriber

	Start  world.RoomKey
	User   *client.UserInfo
	Server string

	RefreshInterval time.Duration

	// Debugf, when set, receives chatty per-event lines. Warnings and
	// errors are always logged; this only gates the debug level.
	Debugf func(format string, args ...any)
}

// Session owns all mutable view state for one run of the client.
type Session struct {
	nav   *nav.State
	cache *cache.Cache
	coord *fetch.Coordinator
	rend  renderer.Renderer

	keys   <-chan string
	socket <-chan client.SocketEvent
	sub    *client.Subscriber

	user     *client.UserInfo
	shards   []string
	server   string
	interval time.Duration

	conn client.ConnState

	// authFailed stops periodic refresh; explicit navigation still
	// fetches, and a later success clears it.
	authFailed bool

	done bool
	now  func() time.Time
	dbg  func(format string, args ...any)
}

// New builds a session positioned at the start room.
func New(cfg Config) *Session {
	interval := cfg.RefreshInterval
	if interval <= 0 {
		interval = DefaultRefreshInterval
	}
	c := cache.New(cache.DefaultCapacity)
	s := &Session{
		nav:      nav.NewState(cfg.Start),
		cache:    c,
		coord:    fetch.New(c, cfg.Service),
		rend:     cfg.Renderer,
		keys:     cfg.Keys,
		socket:   cfg.Socket,
		sub:      cfg.Subscriber,
		user:     cfg.User,
		server:   cfg.Server,
		interval: interval,
		conn:     client.ConnPolling,
		now:      time.Now,
		dbg:      cfg.Debugf,
	}
	s.shards = shardList(cfg.User, cfg.Start.Shard)
	return s
}

// shardList collects the shards the user can cycle through: every shard
// they own a room on, plus the one they started in.
func shardList(user *client.UserInfo, start string) []string {
	seen := map[string]bool{}
	var shards []string
	add := func(shard string) {
		if shard != "" && !seen[shard] {
			seen[shard] = true
			shards = append(shards, shard)
		}
	}
	if user != nil {
		owned := make([]string, 0, len(user.OwnedRooms))
		for shard := range user.OwnedRooms {
			owned = append(owned, shard)
		}
		sort.Strings(owned)
		for _, shard := range owned {
			add(shard)
		}
	}
	add(start)
	return shards
}

// Run drives the loop until quit or input close. Exactly one event is
// processed per iteration, then one frame is built and drawn.
func (s *Session) Run() {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.request(s.nav.Key())
	s.draw()

	for !s.done {
		select {
		case code, ok := <-s.keys:
			if !ok {
				s.done = true
				continue
			}
			s.handleAction(input.MapToAction(code))
		case res := <-s.coord.Results():
			s.applyResult(res)
		case ev, ok := <-s.socket:
			if !ok {
				s.socket = nil
				s.conn = client.ConnDisconnected
			} else {
				s.applySocket(ev)
			}
		case <-ticker.C:
			s.periodicRefresh()
		}
		s.draw()
	}

	// Let in-flight fetches complete and be discarded.
	s.coord.Drain()
}

func (s *Session) draw() {
	w, h := s.rend.ViewportSize()
	entry, _ := s.cache.Entry(s.nav.Key())
	frame := renderer.Build(s.nav, entry, w, h, renderer.Header{
		Server:   s.server,
		Username: s.username(),
		Conn:     s.conn,
		Owned:    s.user.OwnsRoom(s.nav.Key()),
	})
	s.rend.Draw(frame)
}

func (s *Session) username() string {
	if s.user == nil {
		return ""
	}
	return s.user.Username
}

func (s *Session) handleAction(a input.Action) {
	switch a {
	case input.ActionCursorUp:
		s.moveCursor(0, -1)
	case input.ActionCursorDown:
		s.moveCursor(0, 1)
	case input.ActionCursorLeft:
		s.moveCursor(-1, 0)
	case input.ActionCursorRight:
		s.moveCursor(1, 0)
	case input.ActionRoomNorth:
		s.stepRoom(0, -1)
	case input.ActionRoomSouth:
		s.stepRoom(0, 1)
	case input.ActionRoomWest:
		s.stepRoom(-1, 0)
	case input.ActionRoomEast:
		s.stepRoom(1, 0)
	case input.ActionNextShard:
		s.nextShard()
	case input.ActionInspect:
		s.nav.ToggleInspect(s.objectAtCursor())
	case input.ActionRefresh:
		s.request(s.nav.Key())
	case input.ActionQuit:
		s.done = true
	case input.ActionNone:
		// Unrecognized keys are defined no-ops.
	}
}

func (s *Session) moveCursor(dx, dy int) {
	w, h := s.rend.ViewportSize()
	s.nav.MoveCursor(dx, dy, w, h)
}

func (s *Session) objectAtCursor() bool {
	snap := s.cache.Get(s.nav.Key())
	if snap == nil {
		return false
	}
	_, ok := snap.TopObjectAt(s.nav.CursorX, s.nav.CursorY)
	return ok
}

// stepRoom navigates to the adjacent room, dx rooms east and dy rooms
// south of the current one.
func (s *Session) stepRoom(dx, dy int) {
	next, err := world.NeighborRoom(s.nav.Room, dx, dy)
	if err != nil {
		log.Printf("cannot step from room %q: %v", s.nav.Room, err)
		return
	}
	s.moveSubscription(s.nav.Key(), world.RoomKey{Shard: s.nav.Shard, Room: next})
	s.nav.SwitchRoom(next)
	s.request(s.nav.Key())
}

// nextShard cycles to the following shard, landing on the user's owned
// room there, or the fixed fallback.
func (s *Session) nextShard() {
	if len(s.shards) < 2 {
		return
	}
	idx := 0
	for i, shard := range s.shards {
		if shard == s.nav.Shard {
			idx = (i + 1) % len(s.shards)
			break
		}
	}
	next := s.shards[idx]
	room := world.FallbackRoom
	if s.user != nil {
		room = s.user.DefaultRoomIn(next)
	}
	s.moveSubscription(s.nav.Key(), world.RoomKey{Shard: next, Room: room})
	s.nav.SwitchShard(next, room)
	s.request(s.nav.Key())
}

func (s *Session) moveSubscription(from, to world.RoomKey) {
	if s.sub == nil || from == to {
		return
	}
	if err := s.sub.Unsubscribe(from); err != nil {
		log.Printf("unsubscribe %s: %v", from, err)
	}
	if err := s.sub.Subscribe(to); err != nil {
		log.Printf("subscribe %s: %v", to, err)
	}
}

func (s *Session) debugf(format string, args ...any) {
	if s.dbg != nil {
		s.dbg(format, args...)
	}
}

func (s *Session) request(key world.RoomKey) {
	if s.coord.Request(key) {
		s.debugf("fetch started for %s", key)
	}
}

// applyResult folds a fetch completion into the cache. Results for
// since-abandoned keys are absorbed the same way; they never move
// navigation.
func (s *Session) applyResult(res fetch.Result) {
	s.cache.CompleteFetch(res.Key, res.Snapshot, res.Err)
	if res.Err == nil {
		s.debugf("fetched %s at tick %d", res.Key, res.Snapshot.GameTime)
		s.authFailed = false
		return
	}
	log.Printf("fetch %s failed: %v", res.Key, res.Err)
	switch {
	case errors.Is(res.Err, client.ErrAuth):
		s.authFailed = true
	case errors.Is(res.Err, client.ErrRateLimited):
		// Sit out the next periodic tick for this key.
		s.cache.SetRetryAfter(res.Key, s.now().Add(s.interval*3/2))
	}
}

func (s *Session) applySocket(ev client.SocketEvent) {
	if ev.Update == nil {
		s.conn = ev.State
		return
	}
	key := ev.Update.Key
	merged, err := client.Merge(s.cache.Get(key), *ev.Update)
	if err != nil {
		log.Printf("merging update for %s: %v", key, err)
		return
	}
	s.cache.Refresh(key, merged)
	s.debugf("live update for %s at tick %d", key, merged.GameTime)
}

// periodicRefresh requests the current room, leaning on the
// coordinator's dedup when a fetch is already outstanding. Keys that
// came back not-found are not retried automatically, rate-limited keys
// sit out their delay, and nothing is retried after an auth failure.
func (s *Session) periodicRefresh() {
	if s.authFailed {
		return
	}
	key := s.nav.Key()
	if entry, ok := s.cache.Entry(key); ok {
		if errors.Is(entry.LastError, client.ErrNotFound) {
			return
		}
		if s.now().Before(entry.RetryAfter) {
			return
		}
	}
	s.request(key)
}
