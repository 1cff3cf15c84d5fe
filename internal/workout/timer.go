package workout

import (
	"context"
	"time"
)

// Clock supplies the current time. Injected so tests can simulate
// suspension without sleeping.
type Clock func() time.Time

// Timer measures elapsed session time against a wall-clock anchor.
//
// Elapsed time is always now − anchor, never an accumulated tick count, so a
// suspended process (backgrounded app, stopped ticker) loses nothing: the
// next read recomputes from the anchor. Ticks exist purely for display
// refresh and carry the same recomputed value.
type Timer struct {
	clock  Clock
	anchor time.Time
}

// StartTimer anchors a new timer at the current wall-clock time.
// A nil clock uses time.Now.
func StartTimer(clock Clock) *Timer {
	if clock == nil {
		clock = time.Now
	}
	return &Timer{clock: clock, anchor: clock()}
}

// ElapsedSeconds returns whole seconds since the anchor. This is the
// authoritative value; ticks are cosmetic.
func (t *Timer) ElapsedSeconds() int {
	return int(t.clock().Sub(t.anchor) / time.Second)
}

// StartedAt returns the wall-clock anchor.
func (t *Timer) StartedAt() time.Time {
	return t.anchor
}

// Ticks emits the current elapsed seconds on a one-second cadence until the
// context is cancelled. Missed or delayed ticks are harmless — every value
// is recomputed from the anchor.
func (t *Timer) Ticks(ctx context.Context) <-chan int {
	out := make(chan int, 1)
	go func() {
		defer close(out)
		ticker := time.NewTicker(time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				select {
				case out <- t.ElapsedSeconds():
				default: // slow consumer: drop, next tick recomputes anyway
				}
			}
		}
	}()
	return out
}
