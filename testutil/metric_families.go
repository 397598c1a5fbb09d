// Package testutil provides fixtures shared by the core's package tests:
// reference CommonMetricData values, built fresh on every call so that
// mutation in one test case can never leak into another, and a
// string-repeat helper. It provides no storage-key fixtures.
//
// Adapted from prometheus-pushgateway's testutil.MetricFamiliesMap
// (_examples/prometheus-pushgateway/testutil/metric_families.go), which
// deep-copies reference *dto.MetricFamily fixtures via protobuf
// marshal/unmarshal before handing them to a test. Our fixtures are plain
// Go values with no protobuf involved, so the deep copy is a field-by-field
// clone instead of a marshal round-trip, but the motivation — tests must
// never be able to corrupt each other's fixtures — is the same.
package testutil

import "github.com/wlach/glean/metricdata"

// CommonMetricData returns a copy of a reference CommonMetricData with the
// given name/category/lifetime, for use across package boundaries that all
// need "some valid metric" without repeating boilerplate.
func CommonMetricData(name, category string, lifetime metricdata.Lifetime, sendInPings ...string) metricdata.CommonMetricData {
	if len(sendInPings) == 0 {
		sendInPings = []string{"metrics"}
	}
	return metricdata.New(name, category, sendInPings, lifetime, false)
}

// RepeatString returns a string made of n copies of r ("a"x150 in
// spec.md's string-truncation scenario, for instance).
func RepeatString(r rune, n int) string {
	out := make([]rune, n)
	for i := range out {
		out[i] = r
	}
	return string(out)
}
