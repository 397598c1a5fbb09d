// Package metrics implements the ten metric kinds described in spec.md
// §4.2 (Boolean, Counter, String, StringList, Uuid, Datetime, Timespan,
// TimingDistribution, Event, Labeled) on top of package storage's
// record/snapshot_metric primitives and package dispatcher's single-writer
// queue.
//
// Every recording verb is submitted as a dispatcher.Task so calls from any
// host thread serialize onto the one worker goroutine that also owns the
// storage engine (spec.md §5). Test-only readers (test_get_value_*,
// test_has_value_*, test_get_num_recorded_errors_*) call Fence first so
// they observe every previously-submitted recording, matching the
// synchronous test-mode guarantee spec.md §9 calls for.
package metrics

import (
	"math"

	"github.com/wlach/glean/dispatcher"
	"github.com/wlach/glean/internal/clock"
	"github.com/wlach/glean/metricdata"
	"github.com/wlach/glean/metricerr"
	"github.com/wlach/glean/metricval"
	"github.com/wlach/glean/storage"
)

// base is embedded by every concrete metric type. It carries the common
// wiring (CommonMetricData, the storage engine, the dispatcher, the clock)
// and the helpers every kind's recording verbs build on.
type base struct {
	data       metricdata.CommonMetricData
	typeTag    metricval.TypeTag
	engine     *storage.Engine
	dispatcher *dispatcher.Dispatcher
	clock      clock.Clock
}

func newBase(data metricdata.CommonMetricData, typeTag metricval.TypeTag, engine *storage.Engine, d *dispatcher.Dispatcher, clk clock.Clock) base {
	return base{data: data, typeTag: typeTag, engine: engine, dispatcher: d, clock: clk}
}

// keyFor returns this metric's storage key within a single store.
func (b base) keyFor(store string) storage.Key {
	return storage.Key{
		Lifetime:   b.data.Lifetime,
		Store:      store,
		Type:       b.typeTag,
		Identifier: b.data.Identifier(),
	}
}

// recordToAllStores applies merge under this metric's key in every store
// listed in send_in_pings, per invariant 3 ("written to every store in
// send_in_pings under its declared lifetime"). A disabled metric has no
// side effects at all (invariant 2).
func (b base) recordToAllStores(merge storage.MergeFunc) {
	if b.data.Disabled {
		return
	}
	for _, store := range b.data.SendInPings {
		b.engine.Record(b.keyFor(store), merge)
	}
}

// recordError increments the reserved glean.error.<kind> counter in every
// store this metric reports to, under the same lifetime (invariant 8:
// "carried in the same pings as the offending metric"). Error counters are
// themselves ordinary Counters (spec.md §3 invariant 8), so the merge is
// the same saturating-add Counter uses.
func (b base) recordError(kind metricerr.ErrorKind) {
	if b.data.Disabled {
		return
	}
	key := func(store string) storage.Key {
		return storage.Key{
			Lifetime:   b.data.Lifetime,
			Store:      store,
			Type:       metricval.TypeCounter,
			Identifier: kind.Identifier(b.data.Identifier()),
		}
	}
	for _, store := range b.data.SendInPings {
		b.engine.Record(key(store), addCounterMerge(1))
	}
}

// numRecordedErrors is the test-only reader for a metric's own recorded
// error count in one store (test_get_num_recorded_errors_*). It fences the
// dispatcher first so every prior recording call is guaranteed visible.
func (b base) numRecordedErrors(store string, kind metricerr.ErrorKind) int32 {
	b.dispatcher.Fence()
	key := storage.Key{
		Lifetime:   b.data.Lifetime,
		Store:      store,
		Type:       metricval.TypeCounter,
		Identifier: kind.Identifier(b.data.Identifier()),
	}
	v, ok := b.engine.SnapshotMetric(key)
	if !ok {
		return 0
	}
	return int32(v.(metricval.Counter))
}

// snapshotIn is the shared test-only value reader: fence, then read this
// metric's own key in store, reporting absence via ok (test_has_value_*,
// test_get_value_*).
func (b base) snapshotIn(store string) (metricval.Value, bool) {
	b.dispatcher.Fence()
	return b.engine.SnapshotMetric(b.keyFor(store))
}

// submit runs t on the dispatcher's single worker goroutine, serializing it
// with every other recording call across every metric instance.
func (b base) submit(t dispatcher.Task) {
	b.dispatcher.Submit(t)
}

// addCounterMerge returns a MergeFunc that adds amount to the current
// Counter value (or starts at amount if absent). Shared by Counter and
// error-counter accounting.
func addCounterMerge(amount int32) storage.MergeFunc {
	return func(current metricval.Value, present bool) metricval.Value {
		if !present {
			return metricval.Counter(amount)
		}
		sum := int64(current.(metricval.Counter)) + int64(amount)
		if sum > math.MaxInt32 {
			sum = math.MaxInt32
		}
		return metricval.Counter(sum)
	}
}
