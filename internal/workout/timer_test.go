package workout

import (
	"context"
	"testing"
	"time"
)

// fakeClock is a controllable Clock for timer tests.
type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time          { return c.now }
func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2025, 4, 9, 10, 0, 0, 0, time.UTC)}
}

// TestTimerElapsed verifies elapsed time tracks the wall clock.
func TestTimerElapsed(t *testing.T) {
	clock := newFakeClock()
	timer := StartTimer(clock.Now)

	if got := timer.ElapsedSeconds(); got != 0 {
		t.Errorf("elapsed at start = %d, want 0", got)
	}

	clock.Advance(90 * time.Second)
	if got := timer.ElapsedSeconds(); got != 90 {
		t.Errorf("elapsed = %d, want 90", got)
	}
}

// TestTimerSuspension verifies elapsed time is recomputed from the anchor,
// so a 60-second suspension with no ticks still advances elapsed by 60.
func TestTimerSuspension(t *testing.T) {
	clock := newFakeClock()
	timer := StartTimer(clock.Now)

	clock.Advance(300 * time.Second)
	before := timer.ElapsedSeconds()

	// Suspension: wall clock advances, no tick ever fires.
	clock.Advance(60 * time.Second)

	if got := timer.ElapsedSeconds(); got != before+60 {
		t.Errorf("elapsed after suspension = %d, want %d", got, before+60)
	}
}

// TestTimerTicksStop verifies the tick channel closes when the context is
// cancelled.
func TestTimerTicksStop(t *testing.T) {
	timer := StartTimer(nil)
	ctx, cancel := context.WithCancel(context.Background())
	ticks := timer.Ticks(ctx)
	cancel()

	select {
	case _, ok := <-ticks:
		if ok {
			// A buffered tick may arrive first; the channel must still close.
			if _, ok := <-ticks; ok {
				t.Error("tick channel still open after cancel")
			}
		}
	case <-time.After(2 * time.Second):
		t.Error("tick channel did not close after cancel")
	}
}
