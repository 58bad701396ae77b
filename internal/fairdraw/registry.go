package fairdraw

import "sync"

// Registry owns the active drawers, one mutex-guarded entry per match, so
// concurrent draw requests for the same match are serialized while different
// matches proceed independently. Entries are not durable state: a missing
// drawer is rebuilt from the committed seed and the ledger length via Replay.
type Registry struct {
	mu      sync.Mutex
	entries map[string]*drawerEntry
}

type drawerEntry struct {
	mu     sync.Mutex
	drawer *NumberDrawer
}

func NewRegistry() *Registry {
	return &Registry{entries: make(map[string]*drawerEntry)}
}

func (r *Registry) entry(matchID string) *drawerEntry {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry, ok := r.entries[matchID]
	if !ok {
		entry = &drawerEntry{}
		r.entries[matchID] = entry
	}

	return entry
}

// Do runs fn with exclusive access to the match's drawer. When no drawer is
// registered, rebuild is called under the match's lock to reconstruct one; a
// rebuild error aborts the call and leaves the entry empty.
//
// fn receives an invalidate callback for when the drawer's in-memory state
// has diverged from the ledger (a failed write after the drawer advanced).
// Calling it clears the drawer under the entry lock already held, so the next
// Do on the match rebuilds from the ledger and no concurrent caller can see
// the diverged state.
func (r *Registry) Do(matchID string, rebuild func() (*NumberDrawer, error), fn func(drawer *NumberDrawer, invalidate func()) error) error {
	entry := r.entry(matchID)

	entry.mu.Lock()
	defer entry.mu.Unlock()

	if entry.drawer == nil {
		drawer, err := rebuild()
		if err != nil {
			return err
		}

		entry.drawer = drawer
	}

	invalidated := false

	err := fn(entry.drawer, func() { invalidated = true })
	if invalidated {
		entry.drawer = nil
	}

	return err
}

// Set registers a drawer for a match, replacing any existing one.
func (r *Registry) Set(matchID string, drawer *NumberDrawer) {
	entry := r.entry(matchID)

	entry.mu.Lock()
	entry.drawer = drawer
	entry.mu.Unlock()
}

// Drop forgets the match's drawer, typically when the match finishes. The
// sequence stays recoverable through Replay. The entry lock is taken before
// the entry is removed, so a Do in flight finishes first and a waiter that
// already holds the entry pointer finds the drawer cleared and rebuilds.
func (r *Registry) Drop(matchID string) {
	r.mu.Lock()
	entry, ok := r.entries[matchID]
	if ok {
		delete(r.entries, matchID)
	}
	r.mu.Unlock()

	if !ok {
		return
	}

	entry.mu.Lock()
	entry.drawer = nil
	entry.mu.Unlock()
}
