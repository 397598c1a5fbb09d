package metrics

import (
	"time"

	"github.com/wlach/glean/dispatcher"
	"github.com/wlach/glean/internal/clock"
	"github.com/wlach/glean/metricdata"
	"github.com/wlach/glean/metricval"
	"github.com/wlach/glean/storage"
)

// Datetime is the Datetime metric kind (spec.md §4.2): set(datetime?),
// where absence means "now" from the wall clock. Values are stored to a
// declared precision and serialized in ISO-8601 with timezone offset.
type Datetime struct {
	base
	precision metricval.DatetimePrecision
}

// NewDatetime constructs a Datetime metric with the given declared
// precision.
func NewDatetime(data metricdata.CommonMetricData, precision metricval.DatetimePrecision, engine *storage.Engine, d *dispatcher.Dispatcher, clk clock.Clock) Datetime {
	return Datetime{base: newBase(data, metricval.TypeDatetime, engine, d, clk), precision: precision}
}

// Set stores instant (or the wall clock's current time, if instant is nil),
// keeping its original offset and the metric's declared precision. The
// instant is stored as given; truncation to the precision is applied when
// the value is read back or serialized.
func (m Datetime) Set(instant *time.Time) {
	value := m.clock.Now()
	if instant != nil {
		value = *instant
	}
	m.submit(func() {
		m.recordToAllStores(func(metricval.Value, bool) metricval.Value {
			return metricval.Datetime{Instant: value, Offset: value.Location(), Precision: m.precision}
		})
	})
}

// TestGetValue is the test-only reader. It returns the value already
// shifted into its recorded offset and truncated to the declared
// precision, matching what ping serialization would emit.
func (m Datetime) TestGetValue(store string) (time.Time, bool) {
	v, ok := m.snapshotIn(store)
	if !ok {
		return time.Time{}, false
	}
	d := v.(metricval.Datetime)
	loc := d.Offset
	if loc == nil {
		loc = time.UTC
	}
	return d.Precision.Truncate(d.Instant.In(loc)), true
}
