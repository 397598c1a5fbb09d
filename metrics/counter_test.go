package metrics

import (
	"testing"

	"github.com/wlach/glean/metricerr"
)

func TestCounterAddsAcrossCalls(t *testing.T) {
	e, d, clk := newTestRig()
	defer d.Shutdown()
	m := NewCounter(testData("clicks"), e, d, clk)

	m.Add(1)
	m.Add(2)
	v, ok := m.TestGetValue("metrics")
	if !ok || v != 3 {
		t.Fatalf("TestGetValue() = %v, %v; want 3, true", v, ok)
	}
}

func TestCounterNonPositiveAddRecordsInvalidValue(t *testing.T) {
	e, d, clk := newTestRig()
	defer d.Shutdown()
	m := NewCounter(testData("clicks"), e, d, clk)

	m.Add(1)
	m.Add(0)
	m.Add(-5)

	v, ok := m.TestGetValue("metrics")
	if !ok || v != 1 {
		t.Fatalf("TestGetValue() = %v, %v; want 1, true (non-positive adds must not mutate)", v, ok)
	}
	if got := m.TestGetNumRecordedErrors("metrics", metricerr.InvalidValue); got != 2 {
		t.Fatalf("TestGetNumRecordedErrors() = %d, want 2", got)
	}
}
