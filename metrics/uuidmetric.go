package metrics

import (
	gouuid "github.com/google/uuid"

	"github.com/wlach/glean/dispatcher"
	"github.com/wlach/glean/internal/clock"
	"github.com/wlach/glean/internal/idgen"
	"github.com/wlach/glean/metricdata"
	"github.com/wlach/glean/metricval"
	"github.com/wlach/glean/storage"
)

// UUID is the Uuid metric kind (spec.md §4.2): set(uuid), generate_and_set.
type UUID struct {
	base
	ids idgen.Source
}

// NewUUID constructs a Uuid metric. ids supplies generate_and_set's random
// values; pass idgen.New() in production and an idgen.Fixed in tests.
func NewUUID(data metricdata.CommonMetricData, engine *storage.Engine, d *dispatcher.Dispatcher, clk clock.Clock, ids idgen.Source) UUID {
	return UUID{base: newBase(data, metricval.TypeUUID, engine, d, clk), ids: ids}
}

// Set overwrites the stored value.
func (m UUID) Set(value gouuid.UUID) {
	m.submit(func() {
		m.recordToAllStores(func(metricval.Value, bool) metricval.Value {
			return metricval.UUID(value)
		})
	})
}

// GenerateAndSet generates a fresh UUIDv4 and stores it, returning the
// value generated.
func (m UUID) GenerateAndSet() gouuid.UUID {
	id := m.ids.NewV4()
	m.submit(func() {
		m.recordToAllStores(func(metricval.Value, bool) metricval.Value {
			return metricval.UUID(id)
		})
	})
	return id
}

// TestGetValue is the test-only reader.
func (m UUID) TestGetValue(store string) (gouuid.UUID, bool) {
	v, ok := m.snapshotIn(store)
	if !ok {
		return gouuid.Nil, false
	}
	return gouuid.UUID(v.(metricval.UUID)), true
}
