package agent

import "sync"

// SessionContext keeps a bounded list of entity names generated earlier in
// the process lifetime, used to ground later generations. When full, the
// oldest entries are evicted first.
type SessionContext struct {
	mu         sync.Mutex
	maxEntries int
	entries    []string
}

func NewSessionContext(maxEntries int) *SessionContext {
	if maxEntries < 1 {
		maxEntries = 1
	}
	return &SessionContext{maxEntries: maxEntries}
}

// Append adds names to the context, deduplicating against current entries
// and evicting the oldest entries beyond capacity.
func (sc *SessionContext) Append(names ...string) {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	for _, name := range names {
		if name == "" || sc.containsLocked(name) {
			continue
		}
		sc.entries = append(sc.entries, name)
	}

	if overflow := len(sc.entries) - sc.maxEntries; overflow > 0 {
		sc.entries = sc.entries[overflow:]
	}
}

// Snapshot returns a copy of the current entries, oldest first.
func (sc *SessionContext) Snapshot() []string {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	out := make([]string, len(sc.entries))
	copy(out, sc.entries)
	return out
}

// Clear drops all entries.
func (sc *SessionContext) Clear() {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	sc.entries = nil
}

func (sc *SessionContext) containsLocked(name string) bool {
	for _, entry := range sc.entries {
		if entry == name {
			return true
		}
	}
	return false
}
