// Command glean-ffi builds the cgo static-library boundary spec.md §6
// describes: every //export entry point here does only C string/struct
// marshaling and immediately delegates to package ffi, which carries the
// actual logic and is unit tested without cgo at all — the same thin-shim
// shape prometheus-pushgateway's own main.go uses, delegating to package
// storage and package handler rather than inlining their logic (see
// _examples/prometheus-pushgateway/main.go).
//
// Build with `go build -buildmode=c-archive` to produce the static library
// a host binding (Kotlin/Swift/Python/...) links against.
package main

/*
#include <stdint.h>
#include <stdlib.h>

typedef struct {
	int32_t code;
	char* message;
} ExternError;
*/
import "C"

import (
	"encoding/json"
	"time"
	"unsafe"

	glean "github.com/wlach/glean/core"
	"github.com/wlach/glean/ffi"
	"github.com/wlach/glean/histogram"
	"github.com/wlach/glean/metricdata"
	"github.com/wlach/glean/metricerr"
	"github.com/wlach/glean/metrics"
	"github.com/wlach/glean/metricval"
	"github.com/wlach/glean/pingmaker"
)

func main() {} // required by -buildmode=c-archive; never actually run.

func cstr(s string) *C.char { return C.CString(s) }

func goStr(s *C.char) string {
	if s == nil {
		return ""
	}
	return C.GoString(s)
}

// setError writes err into out, if out is non-nil. A nil err clears the
// out-parameter to the zero/success state (spec.md §6: "code 0 means
// success").
func setError(out *C.ExternError, err *metricerr.ExternError) {
	if out == nil {
		return
	}
	if err == nil {
		out.code = 0
		out.message = nil
		return
	}
	out.code = C.int32_t(metricerr.Code(err))
	out.message = cstr(err.Error())
}

//export glean_free_str
func glean_free_str(s *C.char) {
	C.free(unsafe.Pointer(s))
}

//export glean_enable_logging
func glean_enable_logging(enabled C.int) {
	// Logging verbosity is controlled by the go-kit logger passed into
	// glean.Config at initialize time (spec.md §5, ambient logging
	// stack); this toggle exists for binding parity with the FFI
	// contract and is a no-op beyond that.
	_ = enabled
}

//export glean_initialize
func glean_initialize(dataPath, applicationID, telemetrySDKBuild *C.char, uploadEnabled C.int, out *C.ExternError) C.uint64_t {
	handle, err := ffi.Initialize(glean.Config{
		DataPath:          goStr(dataPath),
		ApplicationID:     goStr(applicationID),
		TelemetrySDKBuild: goStr(telemetrySDKBuild),
		UploadEnabled:     uploadEnabled != 0,
	})
	setError(out, err)
	return C.uint64_t(handle)
}

//export glean_destroy
func glean_destroy(handle C.uint64_t) {
	ffi.Destroy(ffi.Handle(handle))
}

//export glean_on_ready_to_send_pings
func glean_on_ready_to_send_pings(handle C.uint64_t, out *C.ExternError) {
	setError(out, ffi.OnReadyToSendPings(ffi.Handle(handle)))
}

//export glean_is_upload_enabled
func glean_is_upload_enabled(handle C.uint64_t, out *C.ExternError) C.int {
	enabled, err := ffi.IsUploadEnabled(ffi.Handle(handle))
	setError(out, err)
	return boolToC(enabled)
}

//export glean_set_upload_enabled
func glean_set_upload_enabled(handle C.uint64_t, enabled C.int, out *C.ExternError) {
	setError(out, ffi.SetUploadEnabled(ffi.Handle(handle), enabled != 0))
}

//export glean_register_ping_type
func glean_register_ping_type(handle C.uint64_t, name *C.char, includeClientID, sendIfEmpty C.int, out *C.ExternError) {
	setError(out, ffi.RegisterPingType(ffi.Handle(handle), pingTypeFromC(name, includeClientID, sendIfEmpty)))
}

//export glean_send_ping_by_name
func glean_send_ping_by_name(handle C.uint64_t, name *C.char, out *C.ExternError) C.int {
	wrote, err := ffi.SendPingByName(ffi.Handle(handle), goStr(name))
	setError(out, err)
	return boolToC(wrote)
}

//export glean_send_ping
func glean_send_ping(handle C.uint64_t, name *C.char, includeClientID, sendIfEmpty C.int, out *C.ExternError) C.int {
	wrote, err := ffi.SendPing(ffi.Handle(handle), pingTypeFromC(name, includeClientID, sendIfEmpty))
	setError(out, err)
	return boolToC(wrote)
}

//export glean_ping_collect
func glean_ping_collect(handle C.uint64_t, name *C.char, includeClientID, sendIfEmpty C.int, out *C.ExternError) *C.char {
	body, produced, err := ffi.PingCollect(ffi.Handle(handle), pingTypeFromC(name, includeClientID, sendIfEmpty))
	setError(out, err)
	if !produced {
		return nil
	}
	return cstr(body)
}

//export glean_set_experiment_active
func glean_set_experiment_active(handle C.uint64_t, experimentID, branch *C.char, out *C.ExternError) {
	setError(out, ffi.SetExperimentActive(ffi.Handle(handle), goStr(experimentID), goStr(branch), nil))
}

//export glean_set_experiment_inactive
func glean_set_experiment_inactive(handle C.uint64_t, experimentID *C.char, out *C.ExternError) {
	setError(out, ffi.SetExperimentInactive(ffi.Handle(handle), goStr(experimentID)))
}

//export glean_experiment_test_is_active
func glean_experiment_test_is_active(handle C.uint64_t, experimentID *C.char, out *C.ExternError) C.int {
	active, err := ffi.ExperimentTestIsActive(ffi.Handle(handle), goStr(experimentID))
	setError(out, err)
	return boolToC(active)
}

//export glean_experiment_test_get_data
func glean_experiment_test_get_data(handle C.uint64_t, experimentID *C.char, out *C.ExternError) *C.char {
	data, ok, err := ffi.ExperimentTestGetData(ffi.Handle(handle), goStr(experimentID))
	setError(out, err)
	if !ok {
		return nil
	}
	encoded, jsonErr := json.Marshal(data)
	if jsonErr != nil {
		return nil
	}
	return cstr(string(encoded))
}

//export glean_new_boolean_metric
func glean_new_boolean_metric(handle C.uint64_t, args *C.char, out *C.ExternError) C.uint64_t {
	h, err := ffi.NewBoolean(ffi.Handle(handle), metricArgsFromJSON(args))
	setError(out, err)
	return C.uint64_t(h)
}

//export glean_boolean_set
func glean_boolean_set(handle C.uint64_t, value C.int, out *C.ExternError) {
	setError(out, ffi.BooleanSet(ffi.Handle(handle), value != 0))
}

//export glean_boolean_test_get_value
func glean_boolean_test_get_value(handle C.uint64_t, store *C.char, out *C.ExternError) C.int {
	v, _, err := ffi.BooleanTestGetValue(ffi.Handle(handle), goStr(store))
	setError(out, err)
	return boolToC(v)
}

//export glean_boolean_test_has_value
func glean_boolean_test_has_value(handle C.uint64_t, store *C.char, out *C.ExternError) C.int {
	_, present, err := ffi.BooleanTestGetValue(ffi.Handle(handle), goStr(store))
	setError(out, err)
	return boolToC(present)
}

//export glean_destroy_boolean_metric
func glean_destroy_boolean_metric(handle C.uint64_t) {
	ffi.DestroyBoolean(ffi.Handle(handle))
}

//export glean_new_counter_metric
func glean_new_counter_metric(handle C.uint64_t, args *C.char, out *C.ExternError) C.uint64_t {
	h, err := ffi.NewCounter(ffi.Handle(handle), metricArgsFromJSON(args))
	setError(out, err)
	return C.uint64_t(h)
}

//export glean_counter_add
func glean_counter_add(handle C.uint64_t, amount C.int32_t, out *C.ExternError) {
	setError(out, ffi.CounterAdd(ffi.Handle(handle), int32(amount)))
}

//export glean_counter_test_get_value
func glean_counter_test_get_value(handle C.uint64_t, store *C.char, out *C.ExternError) C.int32_t {
	v, _, err := ffi.CounterTestGetValue(ffi.Handle(handle), goStr(store))
	setError(out, err)
	return C.int32_t(v)
}

//export glean_counter_test_has_value
func glean_counter_test_has_value(handle C.uint64_t, store *C.char, out *C.ExternError) C.int {
	_, present, err := ffi.CounterTestGetValue(ffi.Handle(handle), goStr(store))
	setError(out, err)
	return boolToC(present)
}

//export glean_counter_test_get_num_recorded_errors
func glean_counter_test_get_num_recorded_errors(handle C.uint64_t, store *C.char, kind C.int32_t, out *C.ExternError) C.int32_t {
	v, err := ffi.CounterTestGetNumRecordedErrors(ffi.Handle(handle), goStr(store), metricerr.ErrorKind(kind))
	setError(out, err)
	return C.int32_t(v)
}

//export glean_destroy_counter_metric
func glean_destroy_counter_metric(handle C.uint64_t) {
	ffi.DestroyCounter(ffi.Handle(handle))
}

//export glean_new_string_metric
func glean_new_string_metric(handle C.uint64_t, args *C.char, out *C.ExternError) C.uint64_t {
	h, err := ffi.NewString(ffi.Handle(handle), metricArgsFromJSON(args))
	setError(out, err)
	return C.uint64_t(h)
}

//export glean_string_set
func glean_string_set(handle C.uint64_t, value *C.char, out *C.ExternError) {
	setError(out, ffi.StringSet(ffi.Handle(handle), goStr(value)))
}

//export glean_string_test_get_value
func glean_string_test_get_value(handle C.uint64_t, store *C.char, out *C.ExternError) *C.char {
	v, _, err := ffi.StringTestGetValue(ffi.Handle(handle), goStr(store))
	setError(out, err)
	return cstr(v)
}

//export glean_string_test_has_value
func glean_string_test_has_value(handle C.uint64_t, store *C.char, out *C.ExternError) C.int {
	_, present, err := ffi.StringTestGetValue(ffi.Handle(handle), goStr(store))
	setError(out, err)
	return boolToC(present)
}

//export glean_string_test_get_num_recorded_errors
func glean_string_test_get_num_recorded_errors(handle C.uint64_t, store *C.char, kind C.int32_t, out *C.ExternError) C.int32_t {
	v, err := ffi.StringTestGetNumRecordedErrors(ffi.Handle(handle), goStr(store), metricerr.ErrorKind(kind))
	setError(out, err)
	return C.int32_t(v)
}

//export glean_destroy_string_metric
func glean_destroy_string_metric(handle C.uint64_t) {
	ffi.DestroyString(ffi.Handle(handle))
}

//export glean_new_stringlist_metric
func glean_new_stringlist_metric(handle C.uint64_t, args *C.char, out *C.ExternError) C.uint64_t {
	h, err := ffi.NewStringList(ffi.Handle(handle), metricArgsFromJSON(args))
	setError(out, err)
	return C.uint64_t(h)
}

//export glean_stringlist_add
func glean_stringlist_add(handle C.uint64_t, value *C.char, out *C.ExternError) {
	setError(out, ffi.StringListAdd(ffi.Handle(handle), goStr(value)))
}

//export glean_stringlist_set
func glean_stringlist_set(handle C.uint64_t, valuesJSON *C.char, out *C.ExternError) {
	var values []string
	if err := json.Unmarshal([]byte(goStr(valuesJSON)), &values); err != nil {
		setError(out, metricerr.New(metricerr.Utf8Error, err))
		return
	}
	setError(out, ffi.StringListSet(ffi.Handle(handle), values))
}

//export glean_stringlist_test_get_value
func glean_stringlist_test_get_value(handle C.uint64_t, store *C.char, out *C.ExternError) *C.char {
	v, _, err := ffi.StringListTestGetValue(ffi.Handle(handle), goStr(store))
	setError(out, err)
	encoded, _ := json.Marshal(v)
	return cstr(string(encoded))
}

//export glean_stringlist_test_has_value
func glean_stringlist_test_has_value(handle C.uint64_t, store *C.char, out *C.ExternError) C.int {
	_, present, err := ffi.StringListTestGetValue(ffi.Handle(handle), goStr(store))
	setError(out, err)
	return boolToC(present)
}

//export glean_stringlist_test_get_num_recorded_errors
func glean_stringlist_test_get_num_recorded_errors(handle C.uint64_t, store *C.char, kind C.int32_t, out *C.ExternError) C.int32_t {
	v, err := ffi.StringListTestGetNumRecordedErrors(ffi.Handle(handle), goStr(store), metricerr.ErrorKind(kind))
	setError(out, err)
	return C.int32_t(v)
}

//export glean_destroy_stringlist_metric
func glean_destroy_stringlist_metric(handle C.uint64_t) {
	ffi.DestroyStringList(ffi.Handle(handle))
}

//export glean_new_uuid_metric
func glean_new_uuid_metric(handle C.uint64_t, args *C.char, out *C.ExternError) C.uint64_t {
	h, err := ffi.NewUUID(ffi.Handle(handle), metricArgsFromJSON(args))
	setError(out, err)
	return C.uint64_t(h)
}

//export glean_uuid_generate_and_set
func glean_uuid_generate_and_set(handle C.uint64_t, out *C.ExternError) *C.char {
	v, err := ffi.UUIDGenerateAndSet(ffi.Handle(handle))
	setError(out, err)
	return cstr(v.String())
}

//export glean_uuid_test_get_value
func glean_uuid_test_get_value(handle C.uint64_t, store *C.char, out *C.ExternError) *C.char {
	v, _, err := ffi.UUIDTestGetValue(ffi.Handle(handle), goStr(store))
	setError(out, err)
	return cstr(v.String())
}

//export glean_uuid_test_has_value
func glean_uuid_test_has_value(handle C.uint64_t, store *C.char, out *C.ExternError) C.int {
	_, present, err := ffi.UUIDTestGetValue(ffi.Handle(handle), goStr(store))
	setError(out, err)
	return boolToC(present)
}

//export glean_destroy_uuid_metric
func glean_destroy_uuid_metric(handle C.uint64_t) {
	ffi.DestroyUUID(ffi.Handle(handle))
}

//export glean_new_datetime_metric
func glean_new_datetime_metric(handle C.uint64_t, args *C.char, precision C.int32_t, out *C.ExternError) C.uint64_t {
	h, err := ffi.NewDatetime(ffi.Handle(handle), metricArgsFromJSON(args), metricval.DatetimePrecision(precision))
	setError(out, err)
	return C.uint64_t(h)
}

// glean_datetime_set takes unixNanos as the instant to set, or 0 to mean
// "now" (ffi.DatetimeSet's nil instant).
//export glean_datetime_set
func glean_datetime_set(handle C.uint64_t, unixNanos C.int64_t, out *C.ExternError) {
	var instant *time.Time
	if unixNanos != 0 {
		t := time.Unix(0, int64(unixNanos)).UTC()
		instant = &t
	}
	setError(out, ffi.DatetimeSet(ffi.Handle(handle), instant))
}

//export glean_datetime_test_get_value
func glean_datetime_test_get_value(handle C.uint64_t, store *C.char, out *C.ExternError) *C.char {
	v, _, err := ffi.DatetimeTestGetValue(ffi.Handle(handle), goStr(store))
	setError(out, err)
	return cstr(v.Format(time.RFC3339Nano))
}

//export glean_datetime_test_has_value
func glean_datetime_test_has_value(handle C.uint64_t, store *C.char, out *C.ExternError) C.int {
	_, present, err := ffi.DatetimeTestGetValue(ffi.Handle(handle), goStr(store))
	setError(out, err)
	return boolToC(present)
}

//export glean_destroy_datetime_metric
func glean_destroy_datetime_metric(handle C.uint64_t) {
	ffi.DestroyDatetime(ffi.Handle(handle))
}

//export glean_new_timespan_metric
func glean_new_timespan_metric(handle C.uint64_t, args *C.char, unit C.int32_t, out *C.ExternError) C.uint64_t {
	h, err := ffi.NewTimespan(ffi.Handle(handle), metricArgsFromJSON(args), metricval.TimeUnit(unit))
	setError(out, err)
	return C.uint64_t(h)
}

//export glean_timespan_start
func glean_timespan_start(handle C.uint64_t, out *C.ExternError) {
	setError(out, ffi.TimespanStart(ffi.Handle(handle)))
}

//export glean_timespan_stop
func glean_timespan_stop(handle C.uint64_t, out *C.ExternError) {
	setError(out, ffi.TimespanStop(ffi.Handle(handle)))
}

//export glean_timespan_cancel
func glean_timespan_cancel(handle C.uint64_t, out *C.ExternError) {
	setError(out, ffi.TimespanCancel(ffi.Handle(handle)))
}

//export glean_timespan_test_get_value
func glean_timespan_test_get_value(handle C.uint64_t, store *C.char, out *C.ExternError) C.uint64_t {
	v, _, err := ffi.TimespanTestGetValue(ffi.Handle(handle), goStr(store))
	setError(out, err)
	return C.uint64_t(v)
}

//export glean_timespan_test_has_value
func glean_timespan_test_has_value(handle C.uint64_t, store *C.char, out *C.ExternError) C.int {
	_, present, err := ffi.TimespanTestGetValue(ffi.Handle(handle), goStr(store))
	setError(out, err)
	return boolToC(present)
}

//export glean_timespan_test_get_num_recorded_errors
func glean_timespan_test_get_num_recorded_errors(handle C.uint64_t, store *C.char, kind C.int32_t, out *C.ExternError) C.int32_t {
	v, err := ffi.TimespanTestGetNumRecordedErrors(ffi.Handle(handle), goStr(store), metricerr.ErrorKind(kind))
	setError(out, err)
	return C.int32_t(v)
}

//export glean_destroy_timespan_metric
func glean_destroy_timespan_metric(handle C.uint64_t) {
	ffi.DestroyTimespan(ffi.Handle(handle))
}

//export glean_new_timing_distribution_metric
func glean_new_timing_distribution_metric(handle C.uint64_t, args *C.char, out *C.ExternError) C.uint64_t {
	h, err := ffi.NewTimingDistribution(ffi.Handle(handle), metricArgsFromJSON(args))
	setError(out, err)
	return C.uint64_t(h)
}

//export glean_timing_distribution_start
func glean_timing_distribution_start(handle C.uint64_t, out *C.ExternError) C.uint64_t {
	id, err := ffi.TimingDistributionStart(ffi.Handle(handle))
	setError(out, err)
	return C.uint64_t(id)
}

//export glean_timing_distribution_stop_and_accumulate
func glean_timing_distribution_stop_and_accumulate(handle, timer C.uint64_t, out *C.ExternError) {
	setError(out, ffi.TimingDistributionStopAndAccumulate(ffi.Handle(handle), metrics.TimerId(timer)))
}

//export glean_timing_distribution_cancel
func glean_timing_distribution_cancel(handle, timer C.uint64_t, out *C.ExternError) {
	setError(out, ffi.TimingDistributionCancel(ffi.Handle(handle), metrics.TimerId(timer)))
}

// timingDistributionJSON is the JSON wire shape glean_timing_distribution_test_get_value
// returns: histogram.Histogram keeps its bucket counts unexported, so the
// cgo boundary gets sum/count/buckets instead of the Go value directly.
type timingDistributionJSON struct {
	Sum     uint64             `json:"sum"`
	Count   uint64             `json:"count"`
	Buckets []histogram.Bucket `json:"buckets"`
}

//export glean_timing_distribution_test_get_value
func glean_timing_distribution_test_get_value(handle C.uint64_t, store *C.char, out *C.ExternError) *C.char {
	h, present, err := ffi.TimingDistributionTestGetValue(ffi.Handle(handle), goStr(store))
	setError(out, err)
	if !present {
		return nil
	}
	encoded, jsonErr := json.Marshal(timingDistributionJSON{Sum: h.Sum, Count: h.Count, Buckets: h.Buckets()})
	if jsonErr != nil {
		return nil
	}
	return cstr(string(encoded))
}

//export glean_timing_distribution_test_has_value
func glean_timing_distribution_test_has_value(handle C.uint64_t, store *C.char, out *C.ExternError) C.int {
	_, present, err := ffi.TimingDistributionTestGetValue(ffi.Handle(handle), goStr(store))
	setError(out, err)
	return boolToC(present)
}

//export glean_timing_distribution_test_get_num_recorded_errors
func glean_timing_distribution_test_get_num_recorded_errors(handle C.uint64_t, store *C.char, kind C.int32_t, out *C.ExternError) C.int32_t {
	v, err := ffi.TimingDistributionTestGetNumRecordedErrors(ffi.Handle(handle), goStr(store), metricerr.ErrorKind(kind))
	setError(out, err)
	return C.int32_t(v)
}

//export glean_destroy_timing_distribution_metric
func glean_destroy_timing_distribution_metric(handle C.uint64_t) {
	ffi.DestroyTimingDistribution(ffi.Handle(handle))
}

//export glean_new_event_metric
func glean_new_event_metric(handle C.uint64_t, args *C.char, maxEvents C.int32_t, out *C.ExternError) C.uint64_t {
	h, err := ffi.NewEvent(ffi.Handle(handle), metricArgsFromJSON(args), int(maxEvents))
	setError(out, err)
	return C.uint64_t(h)
}

//export glean_event_record
func glean_event_record(handle C.uint64_t, timestampNanos C.uint64_t, out *C.ExternError) {
	setError(out, ffi.EventRecord(ffi.Handle(handle), uint64(timestampNanos), nil))
}

//export glean_event_test_get_value
func glean_event_test_get_value(handle C.uint64_t, store *C.char, out *C.ExternError) *C.char {
	v, _, err := ffi.EventTestGetValue(ffi.Handle(handle), goStr(store))
	setError(out, err)
	encoded, _ := json.Marshal(v)
	return cstr(string(encoded))
}

//export glean_event_test_has_value
func glean_event_test_has_value(handle C.uint64_t, store *C.char, out *C.ExternError) C.int {
	_, present, err := ffi.EventTestGetValue(ffi.Handle(handle), goStr(store))
	setError(out, err)
	return boolToC(present)
}

//export glean_destroy_event_metric
func glean_destroy_event_metric(handle C.uint64_t) {
	ffi.DestroyEvent(ffi.Handle(handle))
}

//export glean_new_labeled_boolean_metric
func glean_new_labeled_boolean_metric(handle C.uint64_t, args *C.char, out *C.ExternError) C.uint64_t {
	h, err := ffi.NewLabeledBoolean(ffi.Handle(handle), metricArgsFromJSON(args))
	setError(out, err)
	return C.uint64_t(h)
}

//export glean_labeled_boolean_get
func glean_labeled_boolean_get(handle C.uint64_t, label *C.char, out *C.ExternError) C.uint64_t {
	sub, err := ffi.LabeledBooleanGet(ffi.Handle(handle), goStr(label))
	setError(out, err)
	return C.uint64_t(sub)
}

//export glean_destroy_labeled_boolean_metric
func glean_destroy_labeled_boolean_metric(handle C.uint64_t) {
	ffi.DestroyLabeledBoolean(ffi.Handle(handle))
}

//export glean_new_labeled_string_metric
func glean_new_labeled_string_metric(handle C.uint64_t, args *C.char, out *C.ExternError) C.uint64_t {
	h, err := ffi.NewLabeledString(ffi.Handle(handle), metricArgsFromJSON(args))
	setError(out, err)
	return C.uint64_t(h)
}

//export glean_labeled_string_get
func glean_labeled_string_get(handle C.uint64_t, label *C.char, out *C.ExternError) C.uint64_t {
	sub, err := ffi.LabeledStringGet(ffi.Handle(handle), goStr(label))
	setError(out, err)
	return C.uint64_t(sub)
}

//export glean_destroy_labeled_string_metric
func glean_destroy_labeled_string_metric(handle C.uint64_t) {
	ffi.DestroyLabeledString(ffi.Handle(handle))
}

//export glean_new_labeled_counter_metric
func glean_new_labeled_counter_metric(handle C.uint64_t, args *C.char, out *C.ExternError) C.uint64_t {
	h, err := ffi.NewLabeledCounter(ffi.Handle(handle), metricArgsFromJSON(args))
	setError(out, err)
	return C.uint64_t(h)
}

//export glean_labeled_counter_get
func glean_labeled_counter_get(handle C.uint64_t, label *C.char, out *C.ExternError) C.uint64_t {
	sub, err := ffi.LabeledCounterGet(ffi.Handle(handle), goStr(label))
	setError(out, err)
	return C.uint64_t(sub)
}

//export glean_destroy_labeled_counter_metric
func glean_destroy_labeled_counter_metric(handle C.uint64_t) {
	ffi.DestroyLabeledCounter(ffi.Handle(handle))
}

func boolToC(b bool) C.int {
	if b {
		return 1
	}
	return 0
}

func pingTypeFromC(name *C.char, includeClientID, sendIfEmpty C.int) pingmaker.PingType {
	return pingmaker.PingType{
		Name:            goStr(name),
		IncludeClientID: includeClientID != 0,
		SendIfEmpty:     sendIfEmpty != 0,
	}
}

// metricArgsFromJSON builds the common metric-construction arguments. It
// does not parse args as JSON: the whole string is taken verbatim as the
// metric name, with no category, the single store "metrics", Ping
// lifetime, and the metric enabled.
func metricArgsFromJSON(args *C.char) ffi.MetricArgs {
	return ffi.MetricArgs{Name: goStr(args), SendInPings: []string{"metrics"}, Lifetime: metricdata.Ping}
}
