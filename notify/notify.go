// Package notify decides when a hotlist change is worth surfacing to the
// out-of-scope desktop-notification collaborator. It tracks one debounced
// gate per buffer so a burst of highlight/private-message activity produces
// a single notification rather than one per incoming line.
package notify

import (
	"sync"
	"time"
)

// Gate debounces "this buffer just became notification-worthy" signals.
type Gate struct {
	mu        sync.Mutex
	cooldown  time.Duration
	lastFired map[string]time.Time
	active    map[string]bool
}

// NewGate creates a Gate with the given minimum time between repeat
// notifications for the same buffer.
func NewGate(cooldown time.Duration) *Gate {
	return &Gate{
		cooldown:  cooldown,
		lastFired: make(map[string]time.Time),
		active:    make(map[string]bool),
	}
}

// Event pairs a buffer pointer with the notification decision the session
// observed for it in one turn, queued for the renderer to drain.
type Event struct {
	Buffer string
	Result Result
}

// Result is the outcome of observing one buffer's hotlist counters.
type Result struct {
	// ShouldNotify is true the moment a buffer crosses into
	// notification-worthy state (private or highlight count > 0) having not
	// already been active, respecting cooldown.
	ShouldNotify bool
	// ShouldClear is true the moment a previously-active buffer's private
	// and highlight counts both return to zero — the collaborator should
	// dismiss any notification it is showing for this buffer.
	ShouldClear bool
}

// Observe records a buffer's current private and highlight hotlist counts
// at time t and reports whether the desktop-
// notification collaborator should fire or clear a notification.
func (g *Gate) Observe(buffer string, private, highlight int32, t time.Time) Result {
	g.mu.Lock()
	defer g.mu.Unlock()

	worthy := private > 0 || highlight > 0
	wasActive := g.active[buffer]

	if !worthy {
		if wasActive {
			g.active[buffer] = false
			return Result{ShouldClear: true}
		}
		return Result{}
	}

	g.active[buffer] = true
	if wasActive {
		return Result{}
	}

	if last, ok := g.lastFired[buffer]; ok && t.Sub(last) < g.cooldown {
		return Result{}
	}
	g.lastFired[buffer] = t
	return Result{ShouldNotify: true}
}
