package live

import (
	"sync"
	"testing"
	"time"
)

// manualClock is a virtual clock: timers fire only when a test advances
// time, so drain and flush loops run without wall-clock sleeps.
type manualClock struct {
	mu     sync.Mutex
	now    time.Time
	timers []*manualTimer
}

type manualTimer struct {
	clock   *manualClock
	when    time.Time
	fn      func()
	stopped bool
	fired   bool
}

func newManualClock() *manualClock {
	return &manualClock{now: time.Unix(1700000000, 0)}
}

func (c *manualClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *manualClock) AfterFunc(d time.Duration, fn func()) Timer {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := &manualTimer{clock: c, when: c.now.Add(d), fn: fn}
	c.timers = append(c.timers, t)
	return t
}

func (t *manualTimer) Stop() bool {
	t.clock.mu.Lock()
	defer t.clock.mu.Unlock()
	if t.fired || t.stopped {
		return false
	}
	t.stopped = true
	return true
}

// Advance moves time forward by d, firing due timers in order. Timers
// scheduled by a firing callback fire too if they fall inside the window.
func (c *manualClock) Advance(d time.Duration) {
	c.mu.Lock()
	target := c.now.Add(d)
	for {
		var next *manualTimer
		for _, t := range c.timers {
			if t.fired || t.stopped || t.when.After(target) {
				continue
			}
			if next == nil || t.when.Before(next.when) {
				next = t
			}
		}
		if next == nil {
			break
		}
		if next.when.After(c.now) {
			c.now = next.when
		}
		next.fired = true
		fn := next.fn
		c.mu.Unlock()
		fn()
		c.mu.Lock()
	}
	c.now = target
	c.mu.Unlock()
}

func TestManualClock_FiresInOrderAndHonorsStop(t *testing.T) {
	clk := newManualClock()

	var fired []int
	clk.AfterFunc(30*time.Millisecond, func() { fired = append(fired, 3) })
	clk.AfterFunc(10*time.Millisecond, func() { fired = append(fired, 1) })
	stopped := clk.AfterFunc(20*time.Millisecond, func() { fired = append(fired, 2) })

	if !stopped.Stop() {
		t.Fatalf("Stop on pending timer = false, want true")
	}
	clk.Advance(50 * time.Millisecond)

	if len(fired) != 2 || fired[0] != 1 || fired[1] != 3 {
		t.Fatalf("fired = %v, want [1 3]", fired)
	}
	if stopped.Stop() {
		t.Fatalf("Stop on stopped timer = true, want false")
	}
}

func TestManualClock_RescheduledTimersFireWithinWindow(t *testing.T) {
	clk := newManualClock()

	count := 0
	var tick func()
	tick = func() {
		count++
		if count < 4 {
			clk.AfterFunc(10*time.Millisecond, tick)
		}
	}
	clk.AfterFunc(10*time.Millisecond, tick)

	clk.Advance(40 * time.Millisecond)
	if count != 4 {
		t.Fatalf("count = %d, want 4", count)
	}
}
