package metrics

import (
	"testing"
	"time"

	"github.com/wlach/glean/metricerr"
	"github.com/wlach/glean/metricval"
)

func TestTimespanStartStopRecordsElapsed(t *testing.T) {
	e, d, clk := newTestRig()
	defer d.Shutdown()
	m := NewTimespan(testData("load_time"), metricval.Millisecond, e, d, clk)

	m.Start()
	d.Fence()
	clk.Advance(250 * time.Millisecond)
	m.Stop()

	got, ok := m.TestGetValue("metrics")
	if !ok {
		t.Fatal("expected a value to be present")
	}
	if got != 250 {
		t.Fatalf("TestGetValue() = %d, want 250", got)
	}
}

func TestTimespanSecondStartOnRunningTimerRecordsInvalidState(t *testing.T) {
	e, d, clk := newTestRig()
	defer d.Shutdown()
	m := NewTimespan(testData("load_time"), metricval.Millisecond, e, d, clk)

	m.Start()
	m.Start()

	if got := m.TestGetNumRecordedErrors("metrics", metricerr.InvalidState); got != 1 {
		t.Fatalf("TestGetNumRecordedErrors() = %d, want 1", got)
	}
}

func TestTimespanCancelDiscardsTimer(t *testing.T) {
	e, d, clk := newTestRig()
	defer d.Shutdown()
	m := NewTimespan(testData("load_time"), metricval.Millisecond, e, d, clk)

	m.Start()
	m.Cancel()

	if _, ok := m.TestGetValue("metrics"); ok {
		t.Fatal("expected no stored value after cancel")
	}
}

func TestTimespanSetRawOnIdleStores(t *testing.T) {
	e, d, clk := newTestRig()
	defer d.Shutdown()
	m := NewTimespan(testData("load_time"), metricval.Nanosecond, e, d, clk)

	m.SetRaw(12345)
	got, ok := m.TestGetValue("metrics")
	if !ok || got != 12345 {
		t.Fatalf("TestGetValue() = %d, %v; want 12345, true", got, ok)
	}
}

func TestTimespanStartAfterStoredRecordsInvalidState(t *testing.T) {
	e, d, clk := newTestRig()
	defer d.Shutdown()
	m := NewTimespan(testData("load_time"), metricval.Nanosecond, e, d, clk)

	m.SetRaw(1)
	m.Start()

	if got := m.TestGetNumRecordedErrors("metrics", metricerr.InvalidState); got != 1 {
		t.Fatalf("TestGetNumRecordedErrors() = %d, want 1", got)
	}
}
