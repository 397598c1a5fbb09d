package metrics

import (
	"github.com/wlach/glean/dispatcher"
	"github.com/wlach/glean/internal/clock"
	"github.com/wlach/glean/metricdata"
	"github.com/wlach/glean/metricerr"
	"github.com/wlach/glean/metricval"
	"github.com/wlach/glean/storage"
)

// Counter is the Counter metric kind (spec.md §4.2, invariant 4): a
// non-negative accumulated total.
type Counter struct{ base }

// NewCounter constructs a Counter metric.
func NewCounter(data metricdata.CommonMetricData, engine *storage.Engine, d *dispatcher.Dispatcher, clk clock.Clock) Counter {
	return Counter{newBase(data, metricval.TypeCounter, engine, d, clk)}
}

// Add adds amount to the stored total. A non-positive amount records
// InvalidValue and leaves the stored value unchanged (invariant 4).
func (m Counter) Add(amount int32) {
	m.submit(func() {
		if amount <= 0 {
			m.recordError(metricerr.InvalidValue)
			return
		}
		m.recordToAllStores(addCounterMerge(amount))
	})
}

// TestGetValue is the test-only reader.
func (m Counter) TestGetValue(store string) (int32, bool) {
	v, ok := m.snapshotIn(store)
	if !ok {
		return 0, false
	}
	return int32(v.(metricval.Counter)), true
}

// TestGetNumRecordedErrors returns how many times kind was recorded
// against this metric in store.
func (m Counter) TestGetNumRecordedErrors(store string, kind metricerr.ErrorKind) int32 {
	return m.numRecordedErrors(store, kind)
}
