package glean

import (
	"fmt"
	"sync"

	"github.com/wlach/glean/metricdata"
)

// metricRegistry enforces the identifier-uniqueness invariant
// metricdata.CommonMetricData.New's doc comment defers to package core:
// two metric instances sharing "category.name" would silently merge their
// storage, which only a broken code generator (or a hand-written FFI
// binding) could produce.
type metricRegistry struct {
	mu   sync.Mutex
	seen map[string]bool
}

func newMetricRegistry() *metricRegistry {
	return &metricRegistry{seen: map[string]bool{}}
}

// claim panics if data's identifier was already registered on this
// instance, otherwise marks it taken. Every ffi new_*_metric entry point
// calls this before constructing the concrete metrics.* value.
func (r *metricRegistry) claim(data metricdata.CommonMetricData) {
	id := data.Identifier()
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.seen[id] {
		panic(fmt.Sprintf("glean: duplicate metric identifier %q", id))
	}
	r.seen[id] = true
}

// release frees id for reuse, so a later claim of the same identifier
// succeeds. It is reached only through ReleaseMetricIdentifier; the ffi
// destroy_*_metric entry points do not call it, so destroying a metric
// handle leaves its identifier claimed.
func (r *metricRegistry) release(data metricdata.CommonMetricData) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.seen, data.Identifier())
}

// ClaimMetricIdentifier registers data's identifier as taken, panicking on
// a duplicate (spec.md §1 Non-goals: the code generator guarantees
// well-formed, unique calls, so a collision here means the binding itself
// is broken).
func (g *Glean) ClaimMetricIdentifier(data metricdata.CommonMetricData) {
	g.registry.claim(data)
}

// ReleaseMetricIdentifier frees data's identifier for reuse.
func (g *Glean) ReleaseMetricIdentifier(data metricdata.CommonMetricData) {
	g.registry.release(data)
}
