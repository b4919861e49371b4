// internal/presence/tracker.go
package presence

import (
	"sort"
	"sync"
	"time"
)

// Entry records a recently active user. Entries are advisory, live only in
// memory, and disappear on process restart.
type Entry struct {
	UserID       int64     `json:"userId"`
	Username     string    `json:"username"`
	LastActiveAt time.Time `json:"lastActiveAt"`
}

// Tracker is a registry of active user sessions, keyed by user ID with at
// most one entry per user. All access goes through a single mutex: request
// handlers touch it on login/logout and the periodic sweep iterates it, so
// every operation needs the same exclusion.
type Tracker struct {
	mu      sync.Mutex
	entries map[int64]Entry
	ttl     time.Duration
}

// NewTracker creates a Tracker whose entries expire ttl after their last
// activity.
func NewTracker(ttl time.Duration) *Tracker {
	return &Tracker{
		entries: make(map[int64]Entry),
		ttl:     ttl,
	}
}

// Touch refreshes the entry for userID, inserting it if absent.
func (t *Tracker) Touch(userID int64, username string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.entries[userID] = Entry{
		UserID:       userID,
		Username:     username,
		LastActiveAt: time.Now().UTC(),
	}
}

// Remove deletes the entry for userID. Removing an absent entry is a no-op.
func (t *Tracker) Remove(userID int64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.entries, userID)
}

// Sweep removes every entry whose last activity is at least the TTL before
// now, and returns how many were removed.
func (t *Tracker) Sweep(now time.Time) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	removed := 0
	for id, entry := range t.entries {
		if now.Sub(entry.LastActiveAt) >= t.ttl {
			delete(t.entries, id)
			removed++
		}
	}
	return removed
}

// Snapshot returns a copy of the current entries, ordered by user ID.
func (t *Tracker) Snapshot() []Entry {
	t.mu.Lock()
	defer t.mu.Unlock()
	entries := make([]Entry, 0, len(t.entries))
	for _, entry := range t.entries {
		entries = append(entries, entry)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].UserID < entries[j].UserID })
	return entries
}
