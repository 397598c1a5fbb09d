package glean

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
)

func TestCollectorDescribeAndCollect(t *testing.T) {
	g := newTestInstance(t)
	reg := prometheus.NewRegistry()
	if err := reg.Register(g.Collector()); err != nil {
		t.Fatalf("Register: %v", err)
	}

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("Gather: %v", err)
	}
	names := map[string]bool{}
	for _, f := range families {
		names[f.GetName()] = true
	}
	for _, want := range []string{"glean_dispatcher_queue_depth", "glean_preinit_overflow_total", "glean_storage_errors_total"} {
		if !names[want] {
			t.Errorf("expected %s among gathered metric families, got %v", want, names)
		}
	}
}
