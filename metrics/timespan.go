package metrics

import (
	"sync"

	"github.com/wlach/glean/dispatcher"
	"github.com/wlach/glean/internal/clock"
	"github.com/wlach/glean/metricdata"
	"github.com/wlach/glean/metricerr"
	"github.com/wlach/glean/metricval"
	"github.com/wlach/glean/storage"
)

// timespanState is the in-memory timer state that sits alongside (and is
// not itself part of) the stored value: whether a timer is currently
// running, and if so, the monotonic instant it started at. Shared via
// pointer so every copy of a Timespan value sees the same running timer.
type timespanState struct {
	mu             sync.Mutex
	running        bool
	startMonotonic uint64
}

// Timespan is the Timespan metric kind (spec.md §4.2, invariant 7) and its
// state machine:
//
//	Idle --start--> Running
//	Running --stop--> Stored
//	Running --cancel--> Idle
//	Stored --start--> Stored    (InvalidState, no change)
//	Stored --set_raw--> Stored  (InvalidState, no change)
//	Idle --set_raw--> Stored
//
// "Stored" here means a value is already present in the underlying store;
// it is read directly from the storage engine rather than tracked as
// separate local state, so an external clear (ping collection, lifetime
// reset) is immediately visible as a transition back to Idle.
type Timespan struct {
	base
	unit  metricval.TimeUnit
	state *timespanState
}

// NewTimespan constructs a Timespan metric with the given declared time
// unit.
func NewTimespan(data metricdata.CommonMetricData, unit metricval.TimeUnit, engine *storage.Engine, d *dispatcher.Dispatcher, clk clock.Clock) Timespan {
	return Timespan{base: newBase(data, metricval.TypeTimespan, engine, d, clk), unit: unit, state: &timespanState{}}
}

func (m Timespan) hasStoredValue() bool {
	for _, store := range m.data.SendInPings {
		if _, ok := m.engine.SnapshotMetric(m.keyFor(store)); ok {
			return true
		}
	}
	return false
}

// Start begins timing. A second start on an already-running timer, or any
// start while a value is already stored, records InvalidState and leaves
// the existing state untouched.
func (m Timespan) Start() {
	m.submit(func() {
		m.state.mu.Lock()
		defer m.state.mu.Unlock()
		if m.state.running || m.hasStoredValue() {
			m.recordError(metricerr.InvalidState)
			return
		}
		m.state.running = true
		m.state.startMonotonic = m.clock.MonotonicNanos()
	})
}

// Stop ends timing, converts the elapsed duration to the declared unit and
// records it. Stopping without a running timer records InvalidState.
func (m Timespan) Stop() {
	m.submit(func() {
		m.state.mu.Lock()
		defer m.state.mu.Unlock()
		if !m.state.running {
			m.recordError(metricerr.InvalidState)
			return
		}
		elapsed := m.clock.MonotonicNanos() - m.state.startMonotonic
		m.state.running = false
		m.recordToAllStores(func(metricval.Value, bool) metricval.Value {
			return metricval.Timespan{Nanos: elapsed, Unit: m.unit}
		})
	})
}

// Cancel discards the running timer without recording anything. Canceling
// without a running timer is a no-op.
func (m Timespan) Cancel() {
	m.submit(func() {
		m.state.mu.Lock()
		defer m.state.mu.Unlock()
		m.state.running = false
	})
}

// SetRaw stores nanos directly without needing start/stop, as long as no
// timer is running and no value is already stored; otherwise it records
// InvalidState and leaves the state untouched.
func (m Timespan) SetRaw(nanos uint64) {
	m.submit(func() {
		m.state.mu.Lock()
		defer m.state.mu.Unlock()
		if m.state.running || m.hasStoredValue() {
			m.recordError(metricerr.InvalidState)
			return
		}
		m.recordToAllStores(func(metricval.Value, bool) metricval.Value {
			return metricval.Timespan{Nanos: nanos, Unit: m.unit}
		})
	})
}

// TestGetValue is the test-only reader; it returns the elapsed time already
// converted to the declared unit.
func (m Timespan) TestGetValue(store string) (uint64, bool) {
	v, ok := m.snapshotIn(store)
	if !ok {
		return 0, false
	}
	t := v.(metricval.Timespan)
	return t.Unit.Truncate(t.Nanos), true
}

// TestGetNumRecordedErrors returns how many times kind was recorded
// against this metric in store.
func (m Timespan) TestGetNumRecordedErrors(store string, kind metricerr.ErrorKind) int32 {
	return m.numRecordedErrors(store, kind)
}
