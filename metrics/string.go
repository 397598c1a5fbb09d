package metrics

import (
	"github.com/wlach/glean/dispatcher"
	"github.com/wlach/glean/internal/clock"
	"github.com/wlach/glean/metricdata"
	"github.com/wlach/glean/metricerr"
	"github.com/wlach/glean/metricval"
	"github.com/wlach/glean/storage"
)

// maxStringListEntries is the cap on StringList entries (invariant 6).
const maxStringListEntries = 20

// String is the String metric kind (spec.md §4.2, invariant 5).
type String struct{ base }

// NewString constructs a String metric.
func NewString(data metricdata.CommonMetricData, engine *storage.Engine, d *dispatcher.Dispatcher, clk clock.Clock) String {
	return String{newBase(data, metricval.TypeString, engine, d, clk)}
}

// Set overwrites the stored value, truncating to 100 bytes on a UTF-8 char
// boundary and recording InvalidValue if truncation occurred.
func (m String) Set(value string) {
	m.submit(func() {
		truncated, wasTruncated := metricval.TruncateUTF8(value, metricval.MaxStringBytes)
		if wasTruncated {
			m.recordError(metricerr.InvalidValue)
		}
		m.recordToAllStores(func(metricval.Value, bool) metricval.Value {
			return metricval.String(truncated)
		})
	})
}

// TestGetValue is the test-only reader.
func (m String) TestGetValue(store string) (string, bool) {
	v, ok := m.snapshotIn(store)
	if !ok {
		return "", false
	}
	return string(v.(metricval.String)), true
}

// TestGetNumRecordedErrors returns how many times kind was recorded
// against this metric in store.
func (m String) TestGetNumRecordedErrors(store string, kind metricerr.ErrorKind) int32 {
	return m.numRecordedErrors(store, kind)
}
