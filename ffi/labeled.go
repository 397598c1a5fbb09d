package ffi

import (
	"github.com/wlach/glean/metricdata"
	"github.com/wlach/glean/metricerr"
	"github.com/wlach/glean/metrics"
)

// Labeled metrics are exposed over cgo the same way glean-core's own FFI
// does it: one handle for the Labeled[T] adapter itself, and a separate
// per-label handle — of the wrapped kind's own registry — returned by
// *_get. The host never needs a generic handle type; it only ever sees
// "a boolean/counter/string handle", which the existing
// booleanHandles/counterHandles/stringHandles already serve.
var (
	labeledBooleanHandles = NewHandles[metrics.Labeled[metrics.Boolean]]()
	labeledCounterHandles = NewHandles[metrics.Labeled[metrics.Counter]]()
	labeledStringHandles  = NewHandles[metrics.Labeled[metrics.String]]()
)

// NewLabeledBoolean constructs a Labeled[Boolean] adapter and returns its
// handle.
func NewLabeledBoolean(instanceHandle Handle, args MetricArgs) (Handle, *metricerr.ExternError) {
	g, err := resolveInstance(instanceHandle)
	if err != nil {
		return 0, err
	}
	data := args.commonData()
	g.ClaimMetricIdentifier(data)
	factory := func(labelData metricdata.CommonMetricData) metrics.Boolean {
		return metrics.NewBoolean(labelData, g.Engine(), g.Dispatcher(), g.Clock())
	}
	l := metrics.NewLabeled[metrics.Boolean](data, factory, g.Engine(), g.Dispatcher(), g.Clock())
	return labeledBooleanHandles.Insert(l), nil
}

// LabeledBooleanGet resolves label against the Labeled[Boolean] adapter
// behind handle and returns a fresh boolean metric handle for it.
func LabeledBooleanGet(handle Handle, label string) (Handle, *metricerr.ExternError) {
	l, ok := labeledBooleanHandles.Get(handle)
	if !ok {
		return 0, metricerr.Newf(metricerr.HandleError, "unknown labeled_boolean metric handle %d", handle)
	}
	sub := l.Get(label)
	return booleanHandles.Insert(&sub), nil
}

// DestroyLabeledBoolean releases a Labeled[Boolean] adapter handle.
func DestroyLabeledBoolean(handle Handle) {
	labeledBooleanHandles.Destroy(handle)
}

// NewLabeledCounter constructs a Labeled[Counter] adapter and returns its
// handle.
func NewLabeledCounter(instanceHandle Handle, args MetricArgs) (Handle, *metricerr.ExternError) {
	g, err := resolveInstance(instanceHandle)
	if err != nil {
		return 0, err
	}
	data := args.commonData()
	g.ClaimMetricIdentifier(data)
	factory := func(labelData metricdata.CommonMetricData) metrics.Counter {
		return metrics.NewCounter(labelData, g.Engine(), g.Dispatcher(), g.Clock())
	}
	l := metrics.NewLabeled[metrics.Counter](data, factory, g.Engine(), g.Dispatcher(), g.Clock())
	return labeledCounterHandles.Insert(l), nil
}

// LabeledCounterGet resolves label against the Labeled[Counter] adapter
// behind handle and returns a fresh counter metric handle for it.
func LabeledCounterGet(handle Handle, label string) (Handle, *metricerr.ExternError) {
	l, ok := labeledCounterHandles.Get(handle)
	if !ok {
		return 0, metricerr.Newf(metricerr.HandleError, "unknown labeled_counter metric handle %d", handle)
	}
	sub := l.Get(label)
	return counterHandles.Insert(&sub), nil
}

// DestroyLabeledCounter releases a Labeled[Counter] adapter handle.
func DestroyLabeledCounter(handle Handle) {
	labeledCounterHandles.Destroy(handle)
}

// NewLabeledString constructs a Labeled[String] adapter and returns its
// handle.
func NewLabeledString(instanceHandle Handle, args MetricArgs) (Handle, *metricerr.ExternError) {
	g, err := resolveInstance(instanceHandle)
	if err != nil {
		return 0, err
	}
	data := args.commonData()
	g.ClaimMetricIdentifier(data)
	factory := func(labelData metricdata.CommonMetricData) metrics.String {
		return metrics.NewString(labelData, g.Engine(), g.Dispatcher(), g.Clock())
	}
	l := metrics.NewLabeled[metrics.String](data, factory, g.Engine(), g.Dispatcher(), g.Clock())
	return labeledStringHandles.Insert(l), nil
}

// LabeledStringGet resolves label against the Labeled[String] adapter
// behind handle and returns a fresh string metric handle for it.
func LabeledStringGet(handle Handle, label string) (Handle, *metricerr.ExternError) {
	l, ok := labeledStringHandles.Get(handle)
	if !ok {
		return 0, metricerr.Newf(metricerr.HandleError, "unknown labeled_string metric handle %d", handle)
	}
	sub := l.Get(label)
	return stringHandles.Insert(&sub), nil
}

// DestroyLabeledString releases a Labeled[String] adapter handle.
func DestroyLabeledString(handle Handle) {
	labeledStringHandles.Destroy(handle)
}
