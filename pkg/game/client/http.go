package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"roomview/pkg/game/world"
)

// DefaultServer is the official API endpoint.
const DefaultServer = "https://screeps.com"

const requestTimeout = 10 * time.Second

// API is the HTTP game-service client. Safe for concurrent use; fetch
// goroutines share one instance.
type API struct {
	base  string
	token string
	http  *http.Client
}

// NewAPI creates a client for the given server base URL and auth token.
func NewAPI(server, token string) (*API, error) {
	if server == "" {
		server = DefaultServer
	}
	u, err := url.Parse(server)
	if err != nil {
		return nil, fmt.Errorf("parsing server url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("server url %q: unsupported scheme %q", server, u.Scheme)
	}
	return &API{
		base:  strings.TrimRight(u.String(), "/"),
		token: token,
		http:  &http.Client{Timeout: requestTimeout},
	}, nil
}

// Server returns the base URL the client talks to.
func (a *API) Server() string { return a.base }

func (a *API) get(ctx context.Context, path string, query url.Values, out any) error {
	u := a.base + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("%w: building request: %v", ErrNetwork, err)
	}
	req.Header.Set("X-Token", a.token)
	req.Header.Set("Accept", "application/json")

	resp, err := a.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: GET %s: %v", ErrNetwork, path, err)
	}
	defer resp.Body.Close()

	if err := statusError(resp.StatusCode, path); err != nil {
		// Drain so the connection can be reused.
		io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return err
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decoding %s response: %v", ErrNetwork, path, err)
	}
	return nil
}

func statusError(code int, path string) error {
	switch {
	case code == http.StatusOK:
		return nil
	case code == http.StatusUnauthorized || code == http.StatusForbidden:
		return fmt.Errorf("%w: GET %s returned %d", ErrAuth, path, code)
	case code == http.StatusNotFound:
		return fmt.Errorf("%w: GET %s", ErrNotFound, path)
	case code == http.StatusTooManyRequests:
		return fmt.Errorf("%w: GET %s", ErrRateLimited, path)
	default:
		return fmt.Errorf("%w: GET %s returned %d", ErrNetwork, path, code)
	}
}

// Me fetches the account profile, including owned rooms per shard.
func (a *API) Me(ctx context.Context) (*UserInfo, error) {
	var body struct {
		ID       string              `json:"_id"`
		Username string              `json:"username"`
		Rooms    map[string][]string `json:"rooms"`
	}
	if err := a.get(ctx, "/api/auth/me", nil, &body); err != nil {
		return nil, err
	}
	if body.Username == "" {
		return nil, fmt.Errorf("%w: profile response had no username", ErrAuth)
	}
	return &UserInfo{
		ID:         body.ID,
		Username:   body.Username,
		OwnedRooms: body.Rooms,
	}, nil
}

// StartRoom resolves the user's start room, optionally within one shard.
func (a *API) StartRoom(ctx context.Context, shard string) (world.RoomKey, error) {
	q := url.Values{}
	if shard != "" {
		q.Set("shard", shard)
	}
	var body struct {
		Room  []string `json:"room"`
		Shard []string `json:"shard"`
	}
	if err := a.get(ctx, "/api/user/world-start-room", q, &body); err != nil {
		return world.RoomKey{}, err
	}
	if len(body.Room) == 0 {
		return world.RoomKey{}, fmt.Errorf("%w: start room response had no room", ErrNotFound)
	}
	key := world.RoomKey{Shard: shard, Room: body.Room[0]}
	if key.Shard == "" && len(body.Shard) > 0 {
		key.Shard = body.Shard[0]
	}
	return key, nil
}

// FetchRoom retrieves terrain and objects for one room and combines them
// into a snapshot.
func (a *API) FetchRoom(ctx context.Context, key world.RoomKey) (*world.Snapshot, error) {
	terrain, err := a.roomTerrain(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("fetching %s terrain: %w", key, err)
	}
	objects, gameTime, err := a.roomObjects(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("fetching %s objects: %w", key, err)
	}

	snap := world.NewSnapshot(key)
	snap.Terrain = *terrain
	snap.GameTime = gameTime
	snap.FetchedAt = time.Now()
	for _, o := range objects {
		snap.Objects[o.ID] = o
	}
	return snap, nil
}

func roomQuery(key world.RoomKey) url.Values {
	q := url.Values{}
	q.Set("room", key.Room)
	if key.Shard != "" {
		q.Set("shard", key.Shard)
	}
	return q
}

func (a *API) roomTerrain(ctx context.Context, key world.RoomKey) (*world.TerrainGrid, error) {
	q := roomQuery(key)
	q.Set("encoded", "1")
	var body struct {
		Terrain []struct {
			Terrain string `json:"terrain"`
		} `json:"terrain"`
	}
	if err := a.get(ctx, "/api/game/room-terrain", q, &body); err != nil {
		return nil, err
	}
	if len(body.Terrain) == 0 {
		return nil, fmt.Errorf("%w: empty terrain response for %s", ErrNotFound, key)
	}
	return DecodeTerrain(body.Terrain[0].Terrain)
}

// DecodeTerrain parses the encoded terrain string: one digit per cell in
// row-major order, bit 0 = wall, bit 1 = swamp.
func DecodeTerrain(encoded string) (*world.TerrainGrid, error) {
	if len(encoded) != world.RoomSize*world.RoomSize {
		return nil, fmt.Errorf("%w: terrain string has %d cells, want %d",
			ErrNetwork, len(encoded), world.RoomSize*world.RoomSize)
	}
	var grid world.TerrainGrid
	for i := 0; i < len(encoded); i++ {
		d := encoded[i] - '0'
		if d > 3 {
			return nil, fmt.Errorf("%w: bad terrain digit %q at %d", ErrNetwork, encoded[i], i)
		}
		x, y := i%world.RoomSize, i/world.RoomSize
		switch {
		case d&1 != 0:
			grid[y][x] = world.TerrainWall
		case d&2 != 0:
			grid[y][x] = world.TerrainSwamp
		default:
			grid[y][x] = world.TerrainPlain
		}
	}
	return &grid, nil
}

func (a *API) roomObjects(ctx context.Context, key world.RoomKey) ([]world.Object, int64, error) {
	var body struct {
		GameTime int64             `json:"gameTime"`
		Objects  []json.RawMessage `json:"objects"`
	}
	if err := a.get(ctx, "/api/game/room-objects", roomQuery(key), &body); err != nil {
		return nil, 0, err
	}

	objects := make([]world.Object, 0, len(body.Objects))
	for _, raw := range body.Objects {
		o, err := decodeObject(raw)
		if err != nil {
			// A malformed object should not lose the whole room.
			continue
		}
		objects = append(objects, o)
	}
	return objects, body.GameTime, nil
}

// decodeObject turns an object payload into a world.Object, pulling the
// identity fields out and keeping the rest as attributes.
func decodeObject(raw json.RawMessage) (world.Object, error) {
	var attrs map[string]any
	if err := json.Unmarshal(raw, &attrs); err != nil {
		return world.Object{}, err
	}
	o := objectFromAttrs(attrs)
	if o.ID == "" {
		return world.Object{}, fmt.Errorf("object payload without _id")
	}
	return o, nil
}

func objectFromAttrs(attrs map[string]any) world.Object {
	o := world.Object{Attrs: attrs}
	o.ID, _ = attrs["_id"].(string)
	if kind, ok := attrs["type"].(string); ok {
		o.Kind = world.ObjectKind(kind)
	}
	if x, ok := attrs["x"].(float64); ok {
		o.X = int(x)
	}
	if y, ok := attrs["y"].(float64); ok {
		o.Y = int(y)
	}
	return o
}
