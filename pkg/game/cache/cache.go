// Package cache holds the most recently retrieved snapshot per room and
// tracks in-flight fetches so duplicate requests are suppressed.
//
// The cache is not safe for concurrent use. All calls must happen on the
// session's event-processing goroutine; fetch goroutines deliver results
// as events rather than writing here directly.
package cache

import (
	"time"

	lru "github.com/zyedidia/generic/cache"

	"roomview/pkg/game/world"
)

// DefaultCapacity bounds the number of rooms kept resident. Long sessions
// hopping across many rooms evict least recently viewed entries first.
const DefaultCapacity = 64

// Entry is the cache record for one room key.
type Entry struct {
	Snapshot    *world.Snapshot
	InFlight    bool
	LastError   error
	LastAttempt time.Time

	// RetryAfter suppresses periodic refresh for this key until the
	// given time. Set after a rate-limited fetch.
	RetryAfter time.Time
}

// Cache stores room snapshots keyed by RoomKey with an LRU bound.
type Cache struct {
	entries *lru.Cache[world.RoomKey, *Entry]
}

// New creates a cache bounded to capacity rooms.
func New(capacity int) *Cache {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Cache{entries: lru.New[world.RoomKey, *Entry](capacity)}
}

// Get returns the cached snapshot for key if one exists, however stale.
func (c *Cache) Get(key world.RoomKey) *world.Snapshot {
	e, ok := c.entries.Get(key)
	if !ok {
		return nil
	}
	return e.Snapshot
}

// Entry returns the full cache record for key.
func (c *Cache) Entry(key world.RoomKey) (*Entry, bool) {
	return c.entries.Get(key)
}

// BeginFetch marks a fetch in flight for key and reports whether the
// caller should actually start one. A second call before CompleteFetch
// returns false: duplicates are suppressed, never queued.
func (c *Cache) BeginFetch(key world.RoomKey, now time.Time) bool {
	e, ok := c.entries.Get(key)
	if !ok {
		e = &Entry{}
		c.entries.Put(key, e)
	}
	if e.InFlight {
		return false
	}
	e.InFlight = true
	e.LastAttempt = now
	return true
}

// CompleteFetch records the outcome of a fetch for key. A successful
// fetch replaces the snapshot and clears any previous error; a failed one
// keeps whatever snapshot is already present, so a stale-but-usable view
// survives a bad refresh. The in-flight mark is cleared either way.
//
// The entry is recreated if it was evicted while the fetch ran.
func (c *Cache) CompleteFetch(key world.RoomKey, snap *world.Snapshot, err error) {
	e, ok := c.entries.Get(key)
	if !ok {
		e = &Entry{}
		c.entries.Put(key, e)
	}
	e.InFlight = false
	if err != nil {
		e.LastError = err
		return
	}
	e.Snapshot = snap
	e.LastError = nil
	e.RetryAfter = time.Time{}
}

// Refresh replaces the snapshot for key outside the fetch protocol. Used
// by the live update stream, which implies a healthy connection, so any
// stale error banner is cleared.
func (c *Cache) Refresh(key world.RoomKey, snap *world.Snapshot) {
	e, ok := c.entries.Get(key)
	if !ok {
		e = &Entry{}
		c.entries.Put(key, e)
	}
	e.Snapshot = snap
	e.LastError = nil
}

// SetRetryAfter delays the next periodic refresh of key until t.
func (c *Cache) SetRetryAfter(key world.RoomKey, t time.Time) {
	if e, ok := c.entries.Get(key); ok {
		e.RetryAfter = t
	}
}
