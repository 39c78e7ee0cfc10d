// Package fetch issues asynchronous room fetches against the game
// service and delivers results back as events. Completion is always
// observed on the results channel, never as a callback, so all cache
// mutation stays on the session's event path.
package fetch

import (
	"context"
	"time"

	"roomview/pkg/game/cache"
	"roomview/pkg/game/client"
	"roomview/pkg/game/world"
)

const fetchTimeout = 15 * time.Second

// Result is the completion event of one fetch.
type Result struct {
	Key      world.RoomKey
	Snapshot *world.Snapshot
	Err      error
}

// Coordinator starts fetches and funnels their completions into one
// ordered channel.
type Coordinator struct {
	cache   *cache.Cache
	svc     client.Service
	results chan Result
}

// New creates a coordinator delivering results on a buffered channel.
func New(c *cache.Cache, svc client.Service) *Coordinator {
	return &Coordinator{
		cache:   c,
		svc:     svc,
		results: make(chan Result, 16),
	}
}

// Results is the completion event stream consumed by the session.
func (f *Coordinator) Results() <-chan Result {
	return f.results
}

// Request starts a fetch for key unless one is already in flight, and
// reports whether a fetch was started. Must be called from the session
// goroutine: it goes through the cache's in-flight gate.
func (f *Coordinator) Request(key world.RoomKey) bool {
	if !f.cache.BeginFetch(key, time.Now()) {
		return false
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()
		snap, err := f.svc.FetchRoom(ctx, key)
		f.results <- Result{Key: key, Snapshot: snap, Err: err}
	}()
	return true
}

// Drain discards any results still arriving after the session stops
// consuming them, so in-flight fetches complete without blocking.
func (f *Coordinator) Drain() {
	go func() {
		for range f.results {
		}
	}()
}
