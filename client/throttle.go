package client

import (
	"sync"
	"time"
)

// DefaultThrottleDelay is the pause inserted after each lookup completes
// before the next queued lookup may start.
const DefaultThrottleDelay = 300 * time.Millisecond

type settlement struct {
	value any
	err   error
}

type job struct {
	fn   func() (any, error)
	done chan settlement
}

// Throttle is a single-lane serialization queue for outbound metadata
// lookups. Jobs run strictly one at a time in FIFO order, with a fixed
// minimum delay after each completion, success or failure alike. Each caller
// receives its own settlement; one job's failure never propagates to its
// queue siblings and never stalls the lane.
type Throttle struct {
	jobs  chan job
	delay time.Duration

	// sleep is swappable so tests can observe pacing without real waits.
	sleep func(time.Duration)

	closeOnce sync.Once
}

// NewThrottle creates a throttle with the given post-completion delay and
// starts its worker loop.
func NewThrottle(delay time.Duration) *Throttle {
	if delay <= 0 {
		delay = DefaultThrottleDelay
	}
	t := &Throttle{
		jobs:  make(chan job, 64),
		delay: delay,
		sleep: time.Sleep,
	}
	go t.run()
	return t
}

func (t *Throttle) run() {
	for j := range t.jobs {
		value, err := j.fn()
		// Settle before pacing: the caller gets its result immediately,
		// only the next job waits out the delay.
		j.done <- settlement{value: value, err: err}
		t.sleep(t.delay)
	}
}

// Enqueue appends fn to the lane and blocks until it has run, returning its
// result. Callers wanting asynchrony wrap Enqueue in their own goroutine.
func (t *Throttle) Enqueue(fn func() (any, error)) (any, error) {
	done := make(chan settlement, 1)
	t.jobs <- job{fn: fn, done: done}
	s := <-done
	return s.value, s.err
}

// Close stops the worker once queued jobs drain. Enqueue after Close panics.
func (t *Throttle) Close() {
	t.closeOnce.Do(func() { close(t.jobs) })
}
