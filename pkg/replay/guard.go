package replay

import (
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

// Guard remembers inbound message ids inside a sliding window so a
// captured message cannot be replayed. Safe for concurrent use.
type Guard struct {
	mu        sync.Mutex
	seen      map[string]time.Time
	window    time.Duration
	clock     clockwork.Clock
	lastSweep time.Time
}

// NewGuard creates a guard with the given detection window. A zero
// clock defaults to the wall clock.
func NewGuard(window time.Duration, clock clockwork.Clock) *Guard {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Guard{
		seen:      make(map[string]time.Time),
		window:    window,
		clock:     clock,
		lastSweep: clock.Now(),
	}
}

// Observe records a message id and reports whether it is the first
// occurrence within the window. A second occurrence returns false.
func (g *Guard) Observe(messageID string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	now := g.clock.Now()
	g.sweep(now)

	if seenAt, ok := g.seen[messageID]; ok && now.Sub(seenAt) < g.window {
		return false
	}
	g.seen[messageID] = now
	return true
}

// sweep drops ids older than the window. Runs inline at most once per
// window rather than on a background ticker, so an idle guard costs
// nothing.
func (g *Guard) sweep(now time.Time) {
	if now.Sub(g.lastSweep) < g.window {
		return
	}
	for id, seenAt := range g.seen {
		if now.Sub(seenAt) >= g.window {
			delete(g.seen, id)
		}
	}
	g.lastSweep = now
}

// Len returns the number of ids currently remembered
func (g *Guard) Len() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.seen)
}
