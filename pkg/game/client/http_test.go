package client

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"roomview/pkg/game/world"
)

func testAPI(t *testing.T, handler http.HandlerFunc) *API {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	api, err := NewAPI(srv.URL, "test-token")
	if err != nil {
		t.Fatalf("NewAPI error: %v", err)
	}
	return api
}

func TestStatusError_Mapping(t *testing.T) {
	cases := []struct {
		code int
		want error
	}{
		{http.StatusUnauthorized, ErrAuth},
		{http.StatusForbidden, ErrAuth},
		{http.StatusNotFound, ErrNotFound},
		{http.StatusTooManyRequests, ErrRateLimited},
		{http.StatusInternalServerError, ErrNetwork},
		{http.StatusBadGateway, ErrNetwork},
	}
	for _, c := range cases {
		err := statusError(c.code, "/api/test")
		if !errors.Is(err, c.want) {
			t.Errorf("statusError(%d) = %v, want errors.Is %v", c.code, err, c.want)
		}
	}
	if err := statusError(http.StatusOK, "/api/test"); err != nil {
		t.Errorf("statusError(200) = %v, want nil", err)
	}
}

func TestMe_SendsTokenAndParsesProfile(t *testing.T) {
	var gotToken string
	api := testAPI(t, func(w http.ResponseWriter, r *http.Request) {
		gotToken = r.Header.Get("X-Token")
		w.Write([]byte(`{"_id":"u1","username":"operator","rooms":{"shard0":["W1N1"]}}`))
	})

	info, err := api.Me(context.Background())
	if err != nil {
		t.Fatalf("Me error: %v", err)
	}
	if gotToken != "test-token" {
		t.Errorf("X-Token header = %q, want %q", gotToken, "test-token")
	}
	if info.Username != "operator" {
		t.Errorf("Username = %q, want %q", info.Username, "operator")
	}
	if got := info.DefaultRoomIn("shard0"); got != "W1N1" {
		t.Errorf("DefaultRoomIn(shard0) = %q, want W1N1", got)
	}
	if got := info.DefaultRoomIn("shard3"); got != world.FallbackRoom {
		t.Errorf("DefaultRoomIn(shard3) = %q, want fallback %q", got, world.FallbackRoom)
	}
}

func TestOwnsRoom(t *testing.T) {
	info := &UserInfo{OwnedRooms: map[string][]string{
		"shard0": {"W1N1", "W2N1"},
	}}
	if !info.OwnsRoom(world.RoomKey{Shard: "shard0", Room: "W2N1"}) {
		t.Error("OwnsRoom missed an owned room")
	}
	if info.OwnsRoom(world.RoomKey{Shard: "shard1", Room: "W1N1"}) {
		t.Error("OwnsRoom matched the wrong shard")
	}
	var nilInfo *UserInfo
	if nilInfo.OwnsRoom(world.RoomKey{Shard: "shard0", Room: "W1N1"}) {
		t.Error("nil UserInfo claims room ownership")
	}
}

func TestStartRoom_UsesResponseShard(t *testing.T) {
	api := testAPI(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"room":["E4S67"],"shard":["shard2"]}`))
	})
	key, err := api.StartRoom(context.Background(), "")
	if err != nil {
		t.Fatalf("StartRoom error: %v", err)
	}
	want := world.RoomKey{Shard: "shard2", Room: "E4S67"}
	if key != want {
		t.Errorf("StartRoom = %v, want %v", key, want)
	}
}

func TestFetchRoom_CombinesTerrainAndObjects(t *testing.T) {
	terrain := strings.Repeat("0", world.RoomSize*world.RoomSize)
	// Put a wall at (1,0) and a swamp at (2,0).
	terrain = "010" + terrain[3:]
	terrain = terrain[:2] + "2" + terrain[3:]

	api := testAPI(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/game/room-terrain":
			w.Write([]byte(`{"terrain":[{"terrain":"` + terrain + `"}]}`))
		case "/api/game/room-objects":
			w.Write([]byte(`{"gameTime":7155,"objects":[
				{"_id":"c1","type":"creep","x":10,"y":12,"name":"harvester1"},
				{"_id":"s1","type":"spawn","x":20,"y":20,"energy":300}
			]}`))
		default:
			http.NotFound(w, r)
		}
	})

	key := world.RoomKey{Shard: "shard0", Room: "W1N1"}
	snap, err := api.FetchRoom(context.Background(), key)
	if err != nil {
		t.Fatalf("FetchRoom error: %v", err)
	}
	if snap.GameTime != 7155 {
		t.Errorf("GameTime = %d, want 7155", snap.GameTime)
	}
	if got := snap.Terrain.At(1, 0); got != world.TerrainWall {
		t.Errorf("Terrain.At(1, 0) = %v, want wall", got)
	}
	if got := snap.Terrain.At(2, 0); got != world.TerrainSwamp {
		t.Errorf("Terrain.At(2, 0) = %v, want swamp", got)
	}
	if len(snap.Objects) != 2 {
		t.Fatalf("len(Objects) = %d, want 2", len(snap.Objects))
	}
	creep := snap.Objects["c1"]
	if creep.Kind != world.KindCreep || creep.X != 10 || creep.Y != 12 {
		t.Errorf("creep decoded as %+v", creep)
	}
	if got := creep.AttrString("name"); got != "harvester1" {
		t.Errorf(`creep AttrString("name") = %q, want "harvester1"`, got)
	}
}

func TestFetchRoom_NotFound(t *testing.T) {
	api := testAPI(t, func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})
	_, err := api.FetchRoom(context.Background(), world.RoomKey{Room: "W99N99"})
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("FetchRoom on 404 = %v, want errors.Is ErrNotFound", err)
	}
}

func TestDecodeTerrain_RejectsBadLength(t *testing.T) {
	if _, err := DecodeTerrain("012"); err == nil {
		t.Error("DecodeTerrain on short string error = nil, want error")
	}
}
