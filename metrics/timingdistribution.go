package metrics

import (
	"sync"

	"github.com/wlach/glean/dispatcher"
	"github.com/wlach/glean/histogram"
	"github.com/wlach/glean/internal/clock"
	"github.com/wlach/glean/metricdata"
	"github.com/wlach/glean/metricerr"
	"github.com/wlach/glean/metricval"
	"github.com/wlach/glean/storage"
)

// TimerId identifies one outstanding timer started on a TimingDistribution.
// TimingDistribution, unlike Timespan, allows many timers running
// concurrently (spec.md §4.2).
type TimerId uint64

// timingState tracks outstanding timers, keyed by TimerId, and the next ID
// to hand out.
type timingState struct {
	mu      sync.Mutex
	nextID  TimerId
	running map[TimerId]uint64 // TimerId -> start monotonic nanos
}

// TimingDistribution is the TimingDistribution metric kind (spec.md §4.2):
// an exponential-bucket histogram fed by start/stop_and_accumulate pairs.
type TimingDistribution struct {
	base
	state *timingState
}

// NewTimingDistribution constructs a TimingDistribution metric.
func NewTimingDistribution(data metricdata.CommonMetricData, engine *storage.Engine, d *dispatcher.Dispatcher, clk clock.Clock) TimingDistribution {
	return TimingDistribution{
		base:  newBase(data, metricval.TypeTimingDistribution, engine, d, clk),
		state: &timingState{running: map[TimerId]uint64{}},
	}
}

// Start begins a new timer and returns its TimerId.
func (m TimingDistribution) Start() TimerId {
	m.state.mu.Lock()
	defer m.state.mu.Unlock()
	m.state.nextID++
	id := m.state.nextID
	m.state.running[id] = m.clock.MonotonicNanos()
	return id
}

// StopAndAccumulate ends the timer identified by id and accumulates its
// elapsed duration into the histogram. An unknown id (already stopped,
// cancelled, or never issued) records InvalidState. A sample outside the
// histogram's representable range records InvalidOverflow and is dropped.
func (m TimingDistribution) StopAndAccumulate(id TimerId) {
	m.state.mu.Lock()
	start, ok := m.state.running[id]
	if ok {
		delete(m.state.running, id)
	}
	m.state.mu.Unlock()

	if !ok {
		m.submit(func() { m.recordError(metricerr.InvalidState) })
		return
	}
	elapsed := m.clock.MonotonicNanos() - start
	m.submit(func() {
		if _, ok := histogram.BucketIndex(elapsed); !ok {
			m.recordError(metricerr.InvalidOverflow)
			return
		}
		m.recordToAllStores(func(current metricval.Value, present bool) metricval.Value {
			var h *histogram.Histogram
			if present {
				h = current.(metricval.TimingDistribution).Histogram.Clone()
			} else {
				h = &histogram.Histogram{}
			}
			_ = h.Accumulate(elapsed)
			return metricval.TimingDistribution{Histogram: h}
		})
	})
}

// Cancel discards the timer identified by id without accumulating
// anything. An unknown id is a no-op.
func (m TimingDistribution) Cancel(id TimerId) {
	m.state.mu.Lock()
	defer m.state.mu.Unlock()
	delete(m.state.running, id)
}

// TestGetValue is the test-only reader, returning the accumulated
// histogram.
func (m TimingDistribution) TestGetValue(store string) (*histogram.Histogram, bool) {
	v, ok := m.snapshotIn(store)
	if !ok {
		return nil, false
	}
	return v.(metricval.TimingDistribution).Histogram, true
}

// TestGetNumRecordedErrors returns how many times kind was recorded
// against this metric in store.
func (m TimingDistribution) TestGetNumRecordedErrors(store string, kind metricerr.ErrorKind) int32 {
	return m.numRecordedErrors(store, kind)
}
