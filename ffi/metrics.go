package ffi

import (
	"time"

	gouuid "github.com/google/uuid"

	"github.com/wlach/glean/histogram"
	"github.com/wlach/glean/internal/idgen"
	"github.com/wlach/glean/metricdata"
	"github.com/wlach/glean/metricerr"
	"github.com/wlach/glean/metrics"
	"github.com/wlach/glean/metricval"
)

// Each metric kind gets its own handle registry: a cgo caller never sees a
// Go pointer, only the uint64 Handle NewBoolean/NewCounter/... returns.
var (
	booleanHandles            = NewHandles[metrics.Boolean]()
	counterHandles            = NewHandles[metrics.Counter]()
	stringHandles             = NewHandles[metrics.String]()
	stringListHandles         = NewHandles[metrics.StringList]()
	uuidHandles               = NewHandles[metrics.UUID]()
	datetimeHandles           = NewHandles[metrics.Datetime]()
	timespanHandles           = NewHandles[metrics.Timespan]()
	timingDistributionHandles = NewHandles[metrics.TimingDistribution]()
	eventHandles              = NewHandles[metrics.Event]()
)

// MetricArgs is the common constructor payload every new_*_metric entry
// point in cmd/glean-ffi decodes from its C arguments before calling one
// of the functions below (spec.md §6).
type MetricArgs struct {
	Name        string
	Category    string
	SendInPings []string
	Lifetime    metricdata.Lifetime
	Disabled    bool
}

func (a MetricArgs) commonData() metricdata.CommonMetricData {
	return metricdata.New(a.Name, a.Category, a.SendInPings, a.Lifetime, a.Disabled)
}

// NewBoolean constructs a Boolean metric against instanceHandle and
// returns its handle.
func NewBoolean(instanceHandle Handle, args MetricArgs) (Handle, *metricerr.ExternError) {
	g, err := resolveInstance(instanceHandle)
	if err != nil {
		return 0, err
	}
	data := args.commonData()
	g.ClaimMetricIdentifier(data)
	m := metrics.NewBoolean(data, g.Engine(), g.Dispatcher(), g.Clock())
	return booleanHandles.Insert(&m), nil
}

// BooleanSet calls Set on the Boolean metric behind handle.
func BooleanSet(handle Handle, value bool) *metricerr.ExternError {
	m, ok := booleanHandles.Get(handle)
	if !ok {
		return metricerr.Newf(metricerr.HandleError, "unknown boolean metric handle %d", handle)
	}
	m.Set(value)
	return nil
}

// BooleanTestGetValue is the test-only reader for a Boolean metric.
func BooleanTestGetValue(handle Handle, store string) (bool, bool, *metricerr.ExternError) {
	m, ok := booleanHandles.Get(handle)
	if !ok {
		return false, false, metricerr.Newf(metricerr.HandleError, "unknown boolean metric handle %d", handle)
	}
	v, present := m.TestGetValue(store)
	return v, present, nil
}

// DestroyBoolean releases a Boolean metric handle.
func DestroyBoolean(handle Handle) {
	booleanHandles.Destroy(handle)
}

// NewCounter constructs a Counter metric and returns its handle.
func NewCounter(instanceHandle Handle, args MetricArgs) (Handle, *metricerr.ExternError) {
	g, err := resolveInstance(instanceHandle)
	if err != nil {
		return 0, err
	}
	data := args.commonData()
	g.ClaimMetricIdentifier(data)
	m := metrics.NewCounter(data, g.Engine(), g.Dispatcher(), g.Clock())
	return counterHandles.Insert(&m), nil
}

// CounterAdd calls Add on the Counter metric behind handle.
func CounterAdd(handle Handle, amount int32) *metricerr.ExternError {
	m, ok := counterHandles.Get(handle)
	if !ok {
		return metricerr.Newf(metricerr.HandleError, "unknown counter metric handle %d", handle)
	}
	m.Add(amount)
	return nil
}

// CounterTestGetValue is the test-only reader for a Counter metric.
func CounterTestGetValue(handle Handle, store string) (int32, bool, *metricerr.ExternError) {
	m, ok := counterHandles.Get(handle)
	if !ok {
		return 0, false, metricerr.Newf(metricerr.HandleError, "unknown counter metric handle %d", handle)
	}
	v, present := m.TestGetValue(store)
	return v, present, nil
}

// CounterTestGetNumRecordedErrors is the test-only error reader for a
// Counter metric.
func CounterTestGetNumRecordedErrors(handle Handle, store string, kind metricerr.ErrorKind) (int32, *metricerr.ExternError) {
	m, ok := counterHandles.Get(handle)
	if !ok {
		return 0, metricerr.Newf(metricerr.HandleError, "unknown counter metric handle %d", handle)
	}
	return m.TestGetNumRecordedErrors(store, kind), nil
}

// DestroyCounter releases a Counter metric handle.
func DestroyCounter(handle Handle) {
	counterHandles.Destroy(handle)
}

// NewString constructs a String metric and returns its handle.
func NewString(instanceHandle Handle, args MetricArgs) (Handle, *metricerr.ExternError) {
	g, err := resolveInstance(instanceHandle)
	if err != nil {
		return 0, err
	}
	data := args.commonData()
	g.ClaimMetricIdentifier(data)
	m := metrics.NewString(data, g.Engine(), g.Dispatcher(), g.Clock())
	return stringHandles.Insert(&m), nil
}

// StringSet calls Set on the String metric behind handle.
func StringSet(handle Handle, value string) *metricerr.ExternError {
	m, ok := stringHandles.Get(handle)
	if !ok {
		return metricerr.Newf(metricerr.HandleError, "unknown string metric handle %d", handle)
	}
	m.Set(value)
	return nil
}

// StringTestGetValue is the test-only reader for a String metric.
func StringTestGetValue(handle Handle, store string) (string, bool, *metricerr.ExternError) {
	m, ok := stringHandles.Get(handle)
	if !ok {
		return "", false, metricerr.Newf(metricerr.HandleError, "unknown string metric handle %d", handle)
	}
	v, present := m.TestGetValue(store)
	return v, present, nil
}

// StringTestGetNumRecordedErrors is the test-only error reader for a
// String metric.
func StringTestGetNumRecordedErrors(handle Handle, store string, kind metricerr.ErrorKind) (int32, *metricerr.ExternError) {
	m, ok := stringHandles.Get(handle)
	if !ok {
		return 0, metricerr.Newf(metricerr.HandleError, "unknown string metric handle %d", handle)
	}
	return m.TestGetNumRecordedErrors(store, kind), nil
}

// DestroyString releases a String metric handle.
func DestroyString(handle Handle) {
	stringHandles.Destroy(handle)
}

// NewStringList constructs a StringList metric and returns its handle.
func NewStringList(instanceHandle Handle, args MetricArgs) (Handle, *metricerr.ExternError) {
	g, err := resolveInstance(instanceHandle)
	if err != nil {
		return 0, err
	}
	data := args.commonData()
	g.ClaimMetricIdentifier(data)
	m := metrics.NewStringList(data, g.Engine(), g.Dispatcher(), g.Clock())
	return stringListHandles.Insert(&m), nil
}

// StringListAdd calls Add on the StringList metric behind handle.
func StringListAdd(handle Handle, value string) *metricerr.ExternError {
	m, ok := stringListHandles.Get(handle)
	if !ok {
		return metricerr.Newf(metricerr.HandleError, "unknown string_list metric handle %d", handle)
	}
	m.Add(value)
	return nil
}

// StringListSet calls Set on the StringList metric behind handle.
func StringListSet(handle Handle, values []string) *metricerr.ExternError {
	m, ok := stringListHandles.Get(handle)
	if !ok {
		return metricerr.Newf(metricerr.HandleError, "unknown string_list metric handle %d", handle)
	}
	m.Set(values)
	return nil
}

// StringListTestGetValue is the test-only reader for a StringList metric.
func StringListTestGetValue(handle Handle, store string) ([]string, bool, *metricerr.ExternError) {
	m, ok := stringListHandles.Get(handle)
	if !ok {
		return nil, false, metricerr.Newf(metricerr.HandleError, "unknown string_list metric handle %d", handle)
	}
	v, present := m.TestGetValue(store)
	return v, present, nil
}

// StringListTestGetNumRecordedErrors is the test-only error reader for a
// StringList metric.
func StringListTestGetNumRecordedErrors(handle Handle, store string, kind metricerr.ErrorKind) (int32, *metricerr.ExternError) {
	m, ok := stringListHandles.Get(handle)
	if !ok {
		return 0, metricerr.Newf(metricerr.HandleError, "unknown string_list metric handle %d", handle)
	}
	return m.TestGetNumRecordedErrors(store, kind), nil
}

// DestroyStringList releases a StringList metric handle.
func DestroyStringList(handle Handle) {
	stringListHandles.Destroy(handle)
}

// NewUUID constructs a Uuid metric and returns its handle.
func NewUUID(instanceHandle Handle, args MetricArgs) (Handle, *metricerr.ExternError) {
	g, err := resolveInstance(instanceHandle)
	if err != nil {
		return 0, err
	}
	data := args.commonData()
	g.ClaimMetricIdentifier(data)
	m := metrics.NewUUID(data, g.Engine(), g.Dispatcher(), g.Clock(), idgen.New())
	return uuidHandles.Insert(&m), nil
}

// UUIDSet calls Set on the Uuid metric behind handle.
func UUIDSet(handle Handle, value gouuid.UUID) *metricerr.ExternError {
	m, ok := uuidHandles.Get(handle)
	if !ok {
		return metricerr.Newf(metricerr.HandleError, "unknown uuid metric handle %d", handle)
	}
	m.Set(value)
	return nil
}

// UUIDGenerateAndSet calls GenerateAndSet on the Uuid metric behind handle.
func UUIDGenerateAndSet(handle Handle) (gouuid.UUID, *metricerr.ExternError) {
	m, ok := uuidHandles.Get(handle)
	if !ok {
		return gouuid.Nil, metricerr.Newf(metricerr.HandleError, "unknown uuid metric handle %d", handle)
	}
	return m.GenerateAndSet(), nil
}

// UUIDTestGetValue is the test-only reader for a Uuid metric.
func UUIDTestGetValue(handle Handle, store string) (gouuid.UUID, bool, *metricerr.ExternError) {
	m, ok := uuidHandles.Get(handle)
	if !ok {
		return gouuid.Nil, false, metricerr.Newf(metricerr.HandleError, "unknown uuid metric handle %d", handle)
	}
	v, present := m.TestGetValue(store)
	return v, present, nil
}

// DestroyUUID releases a Uuid metric handle.
func DestroyUUID(handle Handle) {
	uuidHandles.Destroy(handle)
}

// NewDatetime constructs a Datetime metric and returns its handle.
func NewDatetime(instanceHandle Handle, args MetricArgs, precision metricval.DatetimePrecision) (Handle, *metricerr.ExternError) {
	g, err := resolveInstance(instanceHandle)
	if err != nil {
		return 0, err
	}
	data := args.commonData()
	g.ClaimMetricIdentifier(data)
	m := metrics.NewDatetime(data, precision, g.Engine(), g.Dispatcher(), g.Clock())
	return datetimeHandles.Insert(&m), nil
}

// DatetimeSet calls Set on the Datetime metric behind handle. instant may
// be nil, meaning "now".
func DatetimeSet(handle Handle, instant *time.Time) *metricerr.ExternError {
	m, ok := datetimeHandles.Get(handle)
	if !ok {
		return metricerr.Newf(metricerr.HandleError, "unknown datetime metric handle %d", handle)
	}
	m.Set(instant)
	return nil
}

// DatetimeTestGetValue is the test-only reader for a Datetime metric.
func DatetimeTestGetValue(handle Handle, store string) (time.Time, bool, *metricerr.ExternError) {
	m, ok := datetimeHandles.Get(handle)
	if !ok {
		return time.Time{}, false, metricerr.Newf(metricerr.HandleError, "unknown datetime metric handle %d", handle)
	}
	v, present := m.TestGetValue(store)
	return v, present, nil
}

// DestroyDatetime releases a Datetime metric handle.
func DestroyDatetime(handle Handle) {
	datetimeHandles.Destroy(handle)
}

// NewTimespan constructs a Timespan metric and returns its handle.
func NewTimespan(instanceHandle Handle, args MetricArgs, unit metricval.TimeUnit) (Handle, *metricerr.ExternError) {
	g, err := resolveInstance(instanceHandle)
	if err != nil {
		return 0, err
	}
	data := args.commonData()
	g.ClaimMetricIdentifier(data)
	m := metrics.NewTimespan(data, unit, g.Engine(), g.Dispatcher(), g.Clock())
	return timespanHandles.Insert(&m), nil
}

// TimespanStart calls Start on the Timespan metric behind handle.
func TimespanStart(handle Handle) *metricerr.ExternError {
	m, ok := timespanHandles.Get(handle)
	if !ok {
		return metricerr.Newf(metricerr.HandleError, "unknown timespan metric handle %d", handle)
	}
	m.Start()
	return nil
}

// TimespanStop calls Stop on the Timespan metric behind handle.
func TimespanStop(handle Handle) *metricerr.ExternError {
	m, ok := timespanHandles.Get(handle)
	if !ok {
		return metricerr.Newf(metricerr.HandleError, "unknown timespan metric handle %d", handle)
	}
	m.Stop()
	return nil
}

// TimespanCancel calls Cancel on the Timespan metric behind handle.
func TimespanCancel(handle Handle) *metricerr.ExternError {
	m, ok := timespanHandles.Get(handle)
	if !ok {
		return metricerr.Newf(metricerr.HandleError, "unknown timespan metric handle %d", handle)
	}
	m.Cancel()
	return nil
}

// TimespanSetRaw calls SetRaw on the Timespan metric behind handle.
func TimespanSetRaw(handle Handle, nanos uint64) *metricerr.ExternError {
	m, ok := timespanHandles.Get(handle)
	if !ok {
		return metricerr.Newf(metricerr.HandleError, "unknown timespan metric handle %d", handle)
	}
	m.SetRaw(nanos)
	return nil
}

// TimespanTestGetValue is the test-only reader for a Timespan metric.
func TimespanTestGetValue(handle Handle, store string) (uint64, bool, *metricerr.ExternError) {
	m, ok := timespanHandles.Get(handle)
	if !ok {
		return 0, false, metricerr.Newf(metricerr.HandleError, "unknown timespan metric handle %d", handle)
	}
	v, present := m.TestGetValue(store)
	return v, present, nil
}

// TimespanTestGetNumRecordedErrors is the test-only error reader for a
// Timespan metric.
func TimespanTestGetNumRecordedErrors(handle Handle, store string, kind metricerr.ErrorKind) (int32, *metricerr.ExternError) {
	m, ok := timespanHandles.Get(handle)
	if !ok {
		return 0, metricerr.Newf(metricerr.HandleError, "unknown timespan metric handle %d", handle)
	}
	return m.TestGetNumRecordedErrors(store, kind), nil
}

// DestroyTimespan releases a Timespan metric handle.
func DestroyTimespan(handle Handle) {
	timespanHandles.Destroy(handle)
}

// NewTimingDistribution constructs a TimingDistribution metric and returns
// its handle.
func NewTimingDistribution(instanceHandle Handle, args MetricArgs) (Handle, *metricerr.ExternError) {
	g, err := resolveInstance(instanceHandle)
	if err != nil {
		return 0, err
	}
	data := args.commonData()
	g.ClaimMetricIdentifier(data)
	m := metrics.NewTimingDistribution(data, g.Engine(), g.Dispatcher(), g.Clock())
	return timingDistributionHandles.Insert(&m), nil
}

// TimingDistributionStart calls Start on the TimingDistribution metric
// behind handle.
func TimingDistributionStart(handle Handle) (metrics.TimerId, *metricerr.ExternError) {
	m, ok := timingDistributionHandles.Get(handle)
	if !ok {
		return 0, metricerr.Newf(metricerr.HandleError, "unknown timing_distribution metric handle %d", handle)
	}
	return m.Start(), nil
}

// TimingDistributionStopAndAccumulate calls StopAndAccumulate on the
// TimingDistribution metric behind handle.
func TimingDistributionStopAndAccumulate(handle Handle, timer metrics.TimerId) *metricerr.ExternError {
	m, ok := timingDistributionHandles.Get(handle)
	if !ok {
		return metricerr.Newf(metricerr.HandleError, "unknown timing_distribution metric handle %d", handle)
	}
	m.StopAndAccumulate(timer)
	return nil
}

// TimingDistributionCancel calls Cancel on the TimingDistribution metric
// behind handle.
func TimingDistributionCancel(handle Handle, timer metrics.TimerId) *metricerr.ExternError {
	m, ok := timingDistributionHandles.Get(handle)
	if !ok {
		return metricerr.Newf(metricerr.HandleError, "unknown timing_distribution metric handle %d", handle)
	}
	m.Cancel(timer)
	return nil
}

// TimingDistributionTestGetValue is the test-only reader for a
// TimingDistribution metric.
func TimingDistributionTestGetValue(handle Handle, store string) (*histogram.Histogram, bool, *metricerr.ExternError) {
	m, ok := timingDistributionHandles.Get(handle)
	if !ok {
		return nil, false, metricerr.Newf(metricerr.HandleError, "unknown timing_distribution metric handle %d", handle)
	}
	v, present := m.TestGetValue(store)
	return v, present, nil
}

// TimingDistributionTestGetNumRecordedErrors is the test-only error reader
// for a TimingDistribution metric.
func TimingDistributionTestGetNumRecordedErrors(handle Handle, store string, kind metricerr.ErrorKind) (int32, *metricerr.ExternError) {
	m, ok := timingDistributionHandles.Get(handle)
	if !ok {
		return 0, metricerr.Newf(metricerr.HandleError, "unknown timing_distribution metric handle %d", handle)
	}
	return m.TestGetNumRecordedErrors(store, kind), nil
}

// DestroyTimingDistribution releases a TimingDistribution metric handle.
func DestroyTimingDistribution(handle Handle) {
	timingDistributionHandles.Destroy(handle)
}

// NewEvent constructs an Event metric and returns its handle. Its onFull
// callback is always the owning instance's OnEventsThreshold, so reaching
// maxEvents on a store reliably requests that store's ping be sent
// (spec.md §4.2).
func NewEvent(instanceHandle Handle, args MetricArgs, maxEvents int) (Handle, *metricerr.ExternError) {
	g, err := resolveInstance(instanceHandle)
	if err != nil {
		return 0, err
	}
	if maxEvents <= 0 {
		maxEvents = g.MaxEventsPerPing()
	}
	data := args.commonData()
	g.ClaimMetricIdentifier(data)
	m := metrics.NewEvent(data, maxEvents, g.OnEventsThreshold(), g.Engine(), g.Dispatcher(), g.Clock())
	return eventHandles.Insert(&m), nil
}

// EventRecord calls Record on the Event metric behind handle.
func EventRecord(handle Handle, timestampNanos uint64, extras map[string]string) *metricerr.ExternError {
	m, ok := eventHandles.Get(handle)
	if !ok {
		return metricerr.Newf(metricerr.HandleError, "unknown event metric handle %d", handle)
	}
	m.Record(timestampNanos, extras)
	return nil
}

// EventTestGetValue is the test-only reader for an Event metric.
func EventTestGetValue(handle Handle, store string) ([]metricval.EventRecord, bool, *metricerr.ExternError) {
	m, ok := eventHandles.Get(handle)
	if !ok {
		return nil, false, metricerr.Newf(metricerr.HandleError, "unknown event metric handle %d", handle)
	}
	v, present := m.TestGetValue(store)
	return v, present, nil
}

// DestroyEvent releases an Event metric handle.
func DestroyEvent(handle Handle) {
	eventHandles.Destroy(handle)
}
