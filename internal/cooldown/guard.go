// Package cooldown gates repeat feedback submissions from the same device.
//
// The guard is advisory, per-device protection: it mirrors the client-local
// "last submitted" timestamp and is defeatable by clearing storage or
// switching devices. That is a documented weakness of the design, not a bug —
// there is no server-enforced uniqueness on submissions.
package cooldown

import (
	"sync"
	"time"
)

// DefaultWindow is the minimum wait between submissions from one device.
// Overridable via COOLDOWN_WINDOW.
const DefaultWindow = 10 * time.Second

// Store is the key-value abstraction holding the last-submission timestamp
// per device key. Injected so tests can supply a fake; state-machine logic
// never touches ambient storage directly.
type Store interface {
	Get(key string) (time.Time, bool)
	Set(key string, t time.Time)
	Clear(key string)
}

type Guard struct {
	store  Store
	window time.Duration
	now    func() time.Time
}

func New(store Store, window time.Duration) *Guard {
	if window <= 0 {
		window = DefaultWindow
	}
	return &Guard{store: store, window: window, now: time.Now}
}

// IsBlocked reports whether the device submitted within the window. The check
// happens only at submission time: a cooled-down user can still browse the
// wizard freely.
func (g *Guard) IsBlocked(key string) bool {
	last, ok := g.store.Get(key)
	if !ok {
		return false
	}
	return g.now().Sub(last) < g.window
}

// Record overwrites the stored timestamp with the current time. Called exactly
// once, immediately after a successful persist.
func (g *Guard) Record(key string) {
	g.store.Set(key, g.now())
}

func (g *Guard) Window() time.Duration {
	return g.window
}

// MemoryStore keeps cooldown timestamps in process memory, which matches the
// advisory semantics of client-local storage: lost on restart, scoped to one
// deployment.
type MemoryStore struct {
	mu   sync.Mutex
	last map[string]time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{last: make(map[string]time.Time)}
}

func (s *MemoryStore) Get(key string) (time.Time, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.last[key]
	return t, ok
}

func (s *MemoryStore) Set(key string, t time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.last[key] = t
}

func (s *MemoryStore) Clear(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.last, key)
}
