package metrics

import (
	"github.com/wlach/glean/dispatcher"
	"github.com/wlach/glean/internal/clock"
	"github.com/wlach/glean/metricdata"
	"github.com/wlach/glean/metricerr"
	"github.com/wlach/glean/metricval"
	"github.com/wlach/glean/storage"
)

// StringList is the StringList metric kind (spec.md §4.2, invariants 5-6):
// add(str) appends, set(vec) replaces, both bounded to 20 entries of at
// most 100 bytes each.
type StringList struct{ base }

// NewStringList constructs a StringList metric.
func NewStringList(data metricdata.CommonMetricData, engine *storage.Engine, d *dispatcher.Dispatcher, clk clock.Clock) StringList {
	return StringList{newBase(data, metricval.TypeStringList, engine, d, clk)}
}

func truncateEntry(m base, s string) string {
	truncated, wasTruncated := metricval.TruncateUTF8(s, metricval.MaxStringBytes)
	if wasTruncated {
		m.recordError(metricerr.InvalidValue)
	}
	return truncated
}

// Add appends one entry, truncating it per invariant 5. If the list is
// already at the 20-entry cap, the entry is dropped and InvalidValue is
// recorded instead (invariant 6).
func (m StringList) Add(value string) {
	m.submit(func() {
		entry := truncateEntry(m.base, value)
		recordedOverflow := false
		m.recordToAllStores(func(current metricval.Value, present bool) metricval.Value {
			var list metricval.StringList
			if present {
				list = current.(metricval.StringList)
			}
			if len(list) >= maxStringListEntries {
				recordedOverflow = true
				return list
			}
			out := make(metricval.StringList, len(list)+1)
			copy(out, list)
			out[len(list)] = entry
			return out
		})
		if recordedOverflow {
			m.recordError(metricerr.InvalidValue)
		}
	})
}

// Set replaces the stored list with values, each truncated per invariant 5
// and the whole list capped at 20 entries (invariant 6); entries past the
// cap are dropped and InvalidValue is recorded once.
func (m StringList) Set(values []string) {
	m.submit(func() {
		out := make(metricval.StringList, 0, len(values))
		overflowed := false
		for _, v := range values {
			if len(out) >= maxStringListEntries {
				overflowed = true
				break
			}
			out = append(out, truncateEntry(m.base, v))
		}
		if overflowed {
			m.recordError(metricerr.InvalidValue)
		}
		m.recordToAllStores(func(metricval.Value, bool) metricval.Value {
			return out
		})
	})
}

// TestGetValue is the test-only reader.
func (m StringList) TestGetValue(store string) ([]string, bool) {
	v, ok := m.snapshotIn(store)
	if !ok {
		return nil, false
	}
	list := v.(metricval.StringList)
	out := make([]string, len(list))
	copy(out, list)
	return out, true
}

// TestGetNumRecordedErrors returns how many times kind was recorded
// against this metric in store.
func (m StringList) TestGetNumRecordedErrors(store string, kind metricerr.ErrorKind) int32 {
	return m.numRecordedErrors(store, kind)
}
