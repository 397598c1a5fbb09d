package metrics

import (
	"testing"
	"time"

	"github.com/wlach/glean/metricval"
)

func TestDatetimeSetExplicitInstant(t *testing.T) {
	e, d, clk := newTestRig()
	defer d.Shutdown()
	m := NewDatetime(testData("install_date"), metricval.PrecisionSecond, e, d, clk)

	want := time.Date(2025, 6, 15, 10, 30, 45, 0, time.UTC)
	m.Set(&want)

	got, ok := m.TestGetValue("metrics")
	if !ok {
		t.Fatal("expected a value to be present")
	}
	if !got.Equal(want) {
		t.Fatalf("TestGetValue() = %v, want %v", got, want)
	}
}

func TestDatetimeSetNilUsesWallClock(t *testing.T) {
	e, d, clk := newTestRig()
	defer d.Shutdown()
	m := NewDatetime(testData("install_date"), metricval.PrecisionSecond, e, d, clk)

	m.Set(nil)
	got, ok := m.TestGetValue("metrics")
	if !ok {
		t.Fatal("expected a value to be present")
	}
	if !got.Equal(clk.Now().Truncate(time.Second)) {
		t.Fatalf("TestGetValue() = %v, want the fake clock's current time", got)
	}
}

func TestDatetimeTruncatesToDeclaredPrecision(t *testing.T) {
	e, d, clk := newTestRig()
	defer d.Shutdown()
	m := NewDatetime(testData("install_date"), metricval.PrecisionDay, e, d, clk)

	instant := time.Date(2025, 6, 15, 10, 30, 45, 0, time.UTC)
	m.Set(&instant)

	got, _ := m.TestGetValue("metrics")
	want := time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("TestGetValue() = %v, want %v", got, want)
	}
}
