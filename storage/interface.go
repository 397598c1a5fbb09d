// Package storage implements the embedded, lifetime-partitioned key/value
// engine described in spec.md §4.1: a single in-memory map guarded by a
// mutex, persisted to a gob-encoded file via temp-file-then-rename, with
// atomic record/snapshot/snapshot-and-clear primitives.
//
// It is grounded on prometheus-pushgateway's storage.DiskMetricStore
// (_examples/prometheus-pushgateway/storage/diskmetricstore.go): the same
// sync.RWMutex-guarded map, the same persist()/restore() gob
// temp-file-then-os.Rename pair, the same "corrupted entry is logged and
// skipped, not fatal" policy (see WriteRequest's analog, MergeFunc,
// below). Unlike DiskMetricStore, this package has no internal goroutine:
// DiskMetricStore fuses channel-serialization with persistence scheduling
// in one loop() goroutine, but spec.md specifies the single-writer queue
// as its own component (§4.5, package dispatcher) with its own tests and
// its own pre-init buffering behavior — so here the engine is a plain
// guarded data structure, called synchronously. Recording reaches it from
// tasks running on package dispatcher's worker; startup code in package
// core, ping collection and the test-only readers call it directly, which
// its own mutex makes safe.
package storage

import (
	"github.com/wlach/glean/metricdata"
	"github.com/wlach/glean/metricval"
)

// MergeFunc computes a metric's new stored value given its current value
// (and whether one was present at all). It must be pure and deterministic;
// it encapsulates the per-kind semantics (Counter merges by addition,
// Boolean by overwrite, Event by append, etc. — see package metrics).
type MergeFunc func(current metricval.Value, present bool) metricval.Value

// Snapshot is the result of collecting a store: metrics grouped by type
// tag, then by metric identifier, matching the "metrics" object shape in
// spec.md §4.3.
type Snapshot struct {
	// Metrics[typeTag][identifier] = payload ready for JSON encoding.
	Metrics map[metricval.TypeTag]map[string]interface{}
}

// Empty reports whether the snapshot has no data at all, used to implement
// collect()'s "None when the ping has no data" rule (spec.md §4.3).
func (s Snapshot) Empty() bool {
	return len(s.Metrics) == 0
}

// LifetimeCounts reports how many live entries exist per lifetime, for
// tests and for the core instance's "retain values at Application/User
// lifetime across collection" property (spec.md §8).
type LifetimeCounts map[metricdata.Lifetime]int
