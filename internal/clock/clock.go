// Package clock provides the wall-clock and monotonic-clock abstractions
// used throughout the core so that tests can advance time deterministically
// instead of racing the real clock.
package clock

import (
	"time"

	"github.com/jonboulle/clockwork"
)

// Clock is the time source consumed by the storage engine, the ping maker
// and the timespan/timing-distribution metric kinds. Now returns wall-clock
// time suitable for ISO-8601 serialization; MonotonicNanos returns a
// monotonically increasing nanosecond count anchored at process start,
// suitable for measuring elapsed durations even if the wall clock is
// stepped backwards by NTP.
type Clock interface {
	Now() time.Time
	MonotonicNanos() uint64
}

// realClock backs production use. It wraps clockwork.Clock for Now() so the
// fake variant below stays a drop-in replacement, and derives
// MonotonicNanos from time.Since against a pinned start instant: Go's
// runtime clock reading underlying time.Time already carries a monotonic
// component, so Sub() between two readings is immune to wall-clock steps.
type realClock struct {
	inner clockwork.Clock
	start time.Time
}

// New returns the production Clock, anchored to the instant it is
// constructed. Construct exactly one per process; the monotonic origin is
// otherwise meaningless to compare across instances.
func New() Clock {
	cw := clockwork.NewRealClock()
	return &realClock{inner: cw, start: cw.Now()}
}

func (c *realClock) Now() time.Time {
	return c.inner.Now()
}

func (c *realClock) MonotonicNanos() uint64 {
	d := c.inner.Now().Sub(c.start)
	if d < 0 {
		return 0
	}
	return uint64(d.Nanoseconds())
}

// Fake is a controllable Clock for tests, backed by clockwork.FakeClock.
// Advance moves both the wall clock and the monotonic reading forward by
// the same amount, matching how the real clock behaves absent NTP steps.
type Fake struct {
	inner clockwork.FakeClock
	start time.Time
}

// NewFake returns a Fake clock started at the given wall-clock instant.
func NewFake(start time.Time) *Fake {
	return &Fake{inner: clockwork.NewFakeClockAt(start), start: start}
}

func (f *Fake) Now() time.Time {
	return f.inner.Now()
}

func (f *Fake) MonotonicNanos() uint64 {
	d := f.inner.Now().Sub(f.start)
	if d < 0 {
		return 0
	}
	return uint64(d.Nanoseconds())
}

// Advance moves the fake clock forward by d.
func (f *Fake) Advance(d time.Duration) {
	f.inner.Advance(d)
}
