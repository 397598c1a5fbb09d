package metrics

import (
	"github.com/wlach/glean/dispatcher"
	"github.com/wlach/glean/internal/clock"
	"github.com/wlach/glean/metricdata"
	"github.com/wlach/glean/metricval"
	"github.com/wlach/glean/storage"
)

// Boolean is the Boolean metric kind (spec.md §4.2): set(bool), overwrite.
type Boolean struct{ base }

// NewBoolean constructs a Boolean metric.
func NewBoolean(data metricdata.CommonMetricData, engine *storage.Engine, d *dispatcher.Dispatcher, clk clock.Clock) Boolean {
	return Boolean{newBase(data, metricval.TypeBoolean, engine, d, clk)}
}

// Set overwrites the stored value.
func (m Boolean) Set(value bool) {
	m.submit(func() {
		m.recordToAllStores(func(metricval.Value, bool) metricval.Value {
			return metricval.Boolean(value)
		})
	})
}

// TestGetValue is the test-only reader.
func (m Boolean) TestGetValue(store string) (bool, bool) {
	v, ok := m.snapshotIn(store)
	if !ok {
		return false, false
	}
	return bool(v.(metricval.Boolean)), true
}
