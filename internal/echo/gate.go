package echo

import (
	"context"
	"sync"
	"time"
)

// Gate is the echo-suppression flag with a deferred reset.
//
// The gate stays raised while any run is executing or any run's grace timer
// is pending, so a short run finishing inside a longer one cannot lower the
// flag early.
type Gate struct {
	grace time.Duration

	mu      sync.Mutex
	running int
	timers  map[*time.Timer]struct{}
}

// NewGate returns a lowered gate. grace is the delay between the end of a
// run and the release of its hold; zero releases immediately.
func NewGate(grace time.Duration) *Gate {
	return &Gate{
		grace:  grace,
		timers: make(map[*time.Timer]struct{}),
	}
}

// Grace returns the configured reset delay.
func (g *Gate) Grace() time.Duration {
	return g.grace
}

// Raised reports whether remote-originated local writes may currently be
// echoing through the change feed.
func (g *Gate) Raised() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.running > 0 || len(g.timers) > 0
}

// Run raises the gate, calls fn with a context tagged [OriginRemote] and
// schedules the release of its hold after the grace delay. The release is
// scheduled even if fn panics.
func (g *Gate) Run(ctx context.Context, fn func(ctx context.Context) error) error {
	g.acquire()
	defer g.scheduleRelease()

	return fn(WithOrigin(ctx, OriginRemote))
}

// Close drops every pending grace hold. Runs still executing keep the gate
// raised until they return. A timer that already fired and is waiting for
// the lock finds itself forgotten and does nothing.
func (g *Gate) Close() {
	g.mu.Lock()
	defer g.mu.Unlock()

	for t := range g.timers {
		t.Stop()
		delete(g.timers, t)
	}
}

func (g *Gate) acquire() {
	g.mu.Lock()
	g.running++
	g.mu.Unlock()
}

// scheduleRelease turns the hold of a finished run into a grace timer.
func (g *Gate) scheduleRelease() {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.running--
	if g.grace <= 0 {
		return
	}

	var t *time.Timer
	t = time.AfterFunc(g.grace, func() { g.release(&t) })
	g.timers[t] = struct{}{}
}

// release forgets the timer *tp. tp is read under the lock, which the
// scheduling goroutine holds while assigning it.
func (g *Gate) release(tp **time.Timer) {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.timers, *tp)
}
