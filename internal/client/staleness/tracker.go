// Package staleness tracks which users edited their plan after the last
// allocation run for the active month.
//
// Every mark is stamped with a logical version. A generation request captures
// the version before it is sent; when the response arrives only marks at or
// below the captured version are cleared, so an edit that lands while the
// request is in flight keeps its warning.
package staleness

import (
	"slices"
	"sync"
)

// Version is a logical clock value local to one Tracker.
type Version uint64

// Tracker is a set of user names with version stamps. It is safe for
// concurrent use.
type Tracker struct {
	mu      sync.Mutex
	version Version
	dirty   map[string]Version
}

func NewTracker() *Tracker {
	return &Tracker{dirty: make(map[string]Version)}
}

// MarkDirty adds name to the set. Marking an already dirty name refreshes
// its stamp.
func (t *Tracker) MarkDirty(name string) {
	if name == "" {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.version++
	t.dirty[name] = t.version
}

// Capture returns the current version. Marks made after this call compare
// greater than the returned value.
func (t *Tracker) Capture() Version {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.version
}

// ClearBefore removes every mark stamped at or before v and returns the
// removed names.
func (t *Tracker) ClearBefore(v Version) []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	var removed []string
	for name, stamp := range t.dirty {
		if stamp <= v {
			removed = append(removed, name)
			delete(t.dirty, name)
		}
	}
	slices.Sort(removed)
	return removed
}

// Clear empties the set.
func (t *Tracker) Clear() {
	t.mu.Lock()
	defer t.mu.Unlock()
	clear(t.dirty)
}

// Replace swaps the set for names, as reported by the server.
func (t *Tracker) Replace(names []string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	clear(t.dirty)
	for _, n := range names {
		if n == "" {
			continue
		}
		t.version++
		t.dirty[n] = t.version
	}
}

// Snapshot returns the dirty names in sorted order.
func (t *Tracker) Snapshot() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	names := make([]string, 0, len(t.dirty))
	for n := range t.dirty {
		names = append(names, n)
	}
	slices.Sort(names)
	return names
}

// Contains reports whether name is dirty.
func (t *Tracker) Contains(name string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	_, ok := t.dirty[name]
	return ok
}

// ShowBanner reports whether the regeneration warning must be displayed.
func (t *Tracker) ShowBanner() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.dirty) > 0
}
