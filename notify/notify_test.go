package notify_test

import (
	"testing"
	"time"

	"github.com/mickamy/weechat-tui/notify"
)

func TestObserveFiresOnceOnCrossing(t *testing.T) {
	t.Parallel()
	g := notify.NewGate(10 * time.Second)
	now := time.Now()

	r := g.Observe("#chan", 0, 0, now)
	if r.ShouldNotify || r.ShouldClear {
		t.Fatalf("got %+v, want no-op for quiet buffer", r)
	}

	r = g.Observe("#chan", 1, 0, now.Add(time.Millisecond))
	if !r.ShouldNotify {
		t.Fatal("expected ShouldNotify on crossing into private-message state")
	}

	r = g.Observe("#chan", 2, 0, now.Add(2*time.Millisecond))
	if r.ShouldNotify {
		t.Fatal("expected no repeat notification while still active")
	}
}

func TestObserveRespectsCooldownAfterClear(t *testing.T) {
	t.Parallel()
	g := notify.NewGate(time.Second)
	now := time.Now()

	g.Observe("#chan", 1, 0, now)
	r := g.Observe("#chan", 0, 0, now.Add(10*time.Millisecond))
	if !r.ShouldClear {
		t.Fatal("expected ShouldClear once counts return to zero")
	}

	// Re-crossing within cooldown is suppressed.
	r = g.Observe("#chan", 1, 0, now.Add(20*time.Millisecond))
	if r.ShouldNotify {
		t.Fatal("expected cooldown to suppress immediate re-notification")
	}

	// After cooldown elapses, notification fires again.
	r = g.Observe("#chan", 0, 0, now.Add(30*time.Millisecond))
	if !r.ShouldClear {
		t.Fatal("expected clear before re-arming")
	}
	r = g.Observe("#chan", 1, 0, now.Add(2*time.Second))
	if !r.ShouldNotify {
		t.Fatal("expected notification after cooldown elapsed")
	}
}

func TestObserveHighlightAloneCounts(t *testing.T) {
	t.Parallel()
	g := notify.NewGate(time.Second)
	r := g.Observe("#chan", 0, 3, time.Now())
	if !r.ShouldNotify {
		t.Fatal("expected highlight count alone to trigger notification")
	}
}

func TestObserveIndependentPerBuffer(t *testing.T) {
	t.Parallel()
	g := notify.NewGate(time.Second)
	now := time.Now()
	r1 := g.Observe("#a", 1, 0, now)
	r2 := g.Observe("#b", 1, 0, now)
	if !r1.ShouldNotify || !r2.ShouldNotify {
		t.Fatalf("expected independent gates per buffer, got %+v / %+v", r1, r2)
	}
}
