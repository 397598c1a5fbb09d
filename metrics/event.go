package metrics

import (
	"github.com/wlach/glean/dispatcher"
	"github.com/wlach/glean/internal/clock"
	"github.com/wlach/glean/metricdata"
	"github.com/wlach/glean/metricval"
	"github.com/wlach/glean/storage"
)

// DefaultMaxEvents is the per-(ping,store) flush threshold used when a
// core instance doesn't override it (SPEC_FULL.md §4.2, resolving spec.md
// §9's open question).
const DefaultMaxEvents = 500

// OnEventsThreshold is invoked, still on the dispatcher's worker goroutine,
// whenever one store's event vector reaches maxEvents — the core instance
// uses it to request that the ping named after that store be sent, if such
// a ping is registered (spec.md §4.2).
type OnEventsThreshold func(store string)

// Event is the Event metric kind (spec.md §4.2): an append-only list of
// occurrences, one vector per store.
type Event struct {
	base
	maxEvents int
	onFull    OnEventsThreshold
}

// NewEvent constructs an Event metric. maxEvents <= 0 means DefaultMaxEvents.
func NewEvent(data metricdata.CommonMetricData, maxEvents int, onFull OnEventsThreshold, engine *storage.Engine, d *dispatcher.Dispatcher, clk clock.Clock) Event {
	if maxEvents <= 0 {
		maxEvents = DefaultMaxEvents
	}
	return Event{base: newBase(data, metricval.TypeEvent, engine, d, clk), maxEvents: maxEvents, onFull: onFull}
}

// Record appends one occurrence to every store in send_in_pings. If a
// store's vector reaches maxEvents as a result, onFull is invoked for that
// store.
func (m Event) Record(timestampNanos uint64, extras map[string]string) {
	m.submit(func() {
		if m.data.Disabled {
			return
		}
		rec := metricval.EventRecord{
			TimestampNanos: timestampNanos,
			Category:       m.data.Category,
			Name:           m.data.Name,
			Extras:         extras,
		}
		for _, store := range m.data.SendInPings {
			var length int
			m.engine.Record(m.keyFor(store), func(current metricval.Value, present bool) metricval.Value {
				var list metricval.Event
				if present {
					list = current.(metricval.Event)
				}
				out := make(metricval.Event, len(list)+1)
				copy(out, list)
				out[len(list)] = rec
				length = len(out)
				return out
			})
			if length >= m.maxEvents && m.onFull != nil {
				m.onFull(store)
			}
		}
	})
}

// TestGetValue is the test-only reader.
func (m Event) TestGetValue(store string) ([]metricval.EventRecord, bool) {
	v, ok := m.snapshotIn(store)
	if !ok {
		return nil, false
	}
	list := v.(metricval.Event)
	out := make([]metricval.EventRecord, len(list))
	copy(out, list)
	return out, true
}
