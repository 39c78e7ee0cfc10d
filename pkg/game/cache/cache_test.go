package cache

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"roomview/pkg/game/world"
)

var testKey = world.RoomKey{Shard: "shard0", Room: "W1N1"}

func TestBeginFetch_Deduplicates(t *testing.T) {
	c := New(0)
	now := time.Now()

	if !c.BeginFetch(testKey, now) {
		t.Fatal("first BeginFetch = false, want true")
	}
	if c.BeginFetch(testKey, now) {
		t.Error("second BeginFetch before CompleteFetch = true, want false")
	}

	c.CompleteFetch(testKey, world.NewSnapshot(testKey), nil)

	if !c.BeginFetch(testKey, now) {
		t.Error("BeginFetch after CompleteFetch = false, want true")
	}
}

func TestCompleteFetch_FailurePreservesStaleSnapshot(t *testing.T) {
	c := New(0)
	snap := world.NewSnapshot(testKey)
	snap.GameTime = 12345

	c.BeginFetch(testKey, time.Now())
	c.CompleteFetch(testKey, snap, nil)

	c.BeginFetch(testKey, time.Now())
	c.CompleteFetch(testKey, nil, errors.New("connection reset"))

	if got := c.Get(testKey); got != snap {
		t.Errorf("Get after failed refresh = %v, want the stale snapshot", got)
	}
	e, ok := c.Entry(testKey)
	if !ok {
		t.Fatal("Entry missing after failed refresh")
	}
	if e.LastError == nil {
		t.Error("LastError = nil after failed refresh, want set")
	}
	if e.InFlight {
		t.Error("InFlight = true after CompleteFetch, want false")
	}
}

func TestCompleteFetch_SuccessClearsError(t *testing.T) {
	c := New(0)

	c.BeginFetch(testKey, time.Now())
	c.CompleteFetch(testKey, nil, errors.New("boom"))

	c.BeginFetch(testKey, time.Now())
	c.CompleteFetch(testKey, world.NewSnapshot(testKey), nil)

	e, _ := c.Entry(testKey)
	if e.LastError != nil {
		t.Errorf("LastError after successful refresh = %v, want nil", e.LastError)
	}
}

func TestCompleteFetch_SurvivesEviction(t *testing.T) {
	c := New(2)
	c.BeginFetch(testKey, time.Now())

	// Push enough other rooms through to evict testKey's entry.
	for i := 0; i < 4; i++ {
		k := world.RoomKey{Shard: "shard0", Room: fmt.Sprintf("W%dN0", i+2)}
		c.BeginFetch(k, time.Now())
		c.CompleteFetch(k, world.NewSnapshot(k), nil)
	}

	snap := world.NewSnapshot(testKey)
	c.CompleteFetch(testKey, snap, nil)
	if got := c.Get(testKey); got != snap {
		t.Errorf("Get after completion of evicted key = %v, want recreated entry", got)
	}
}

func TestRefresh_ClearsError(t *testing.T) {
	c := New(0)
	c.BeginFetch(testKey, time.Now())
	c.CompleteFetch(testKey, nil, errors.New("boom"))

	snap := world.NewSnapshot(testKey)
	c.Refresh(testKey, snap)

	if got := c.Get(testKey); got != snap {
		t.Errorf("Get after Refresh = %v, want the refreshed snapshot", got)
	}
	e, _ := c.Entry(testKey)
	if e.LastError != nil {
		t.Errorf("LastError after Refresh = %v, want nil", e.LastError)
	}
}
