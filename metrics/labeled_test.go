package metrics

import (
	"testing"

	"github.com/wlach/glean/metricdata"
	"github.com/wlach/glean/metricerr"
)

func TestLabeledGetRoutesToDistinctSubMetrics(t *testing.T) {
	e, d, clk := newTestRig()
	defer d.Shutdown()
	l := NewLabeled(testData("button_tapped"), func(data metricdata.CommonMetricData) Counter {
		return NewCounter(data, e, d, clk)
	}, e, d, clk)

	l.Get("ok").Add(1)
	l.Get("cancel").Add(1)

	if v, ok := l.Get("ok").TestGetValue("metrics"); !ok || v != 1 {
		t.Fatalf("label ok = %v, %v; want 1, true", v, ok)
	}
	if v, ok := l.Get("cancel").TestGetValue("metrics"); !ok || v != 1 {
		t.Fatalf("label cancel = %v, %v; want 1, true", v, ok)
	}
}

func TestLabeledInvalidLabelFallsBackToOther(t *testing.T) {
	e, d, clk := newTestRig()
	defer d.Shutdown()
	l := NewLabeled(testData("button_tapped"), func(data metricdata.CommonMetricData) Counter {
		return NewCounter(data, e, d, clk)
	}, e, d, clk)

	l.Get("Not Valid!").Add(1)
	other := l.Get(otherLabel)

	v, ok := other.TestGetValue("metrics")
	if !ok || v != 1 {
		t.Fatalf("__other__ = %v, %v; want 1, true", v, ok)
	}
	// The invalid_label error is recorded against the labeled metric's own
	// identifier, not against the "__other__" sub-metric's.
	parent := NewCounter(testData("button_tapped"), e, d, clk)
	if got := parent.TestGetNumRecordedErrors("metrics", metricerr.InvalidLabel); got != 1 {
		t.Fatalf("TestGetNumRecordedErrors() = %d, want 1", got)
	}
}

func TestLabeledCapsAt16DistinctLabels(t *testing.T) {
	e, d, clk := newTestRig()
	defer d.Shutdown()
	l := NewLabeled(testData("button_tapped"), func(data metricdata.CommonMetricData) Counter {
		return NewCounter(data, e, d, clk)
	}, e, d, clk)

	labels := []string{
		"l0", "l1", "l2", "l3", "l4", "l5", "l6", "l7",
		"l8", "l9", "l10", "l11", "l12", "l13", "l14", "l15", "l16",
	}
	for _, label := range labels {
		l.Get(label).Add(1)
	}

	other := l.Get(otherLabel)
	v, ok := other.TestGetValue("metrics")
	if !ok || v != 1 {
		t.Fatalf("__other__ = %v, %v; want 1, true (the 17th label overflows)", v, ok)
	}
}
