package metricval

import (
	"testing"
	"time"

	"github.com/wlach/glean/histogram"
)

func TestCounterPayload(t *testing.T) {
	var c Counter = 3
	if c.Payload() != int32(3) {
		t.Errorf("Payload() = %v, want 3", c.Payload())
	}
	if c.Type() != TypeCounter {
		t.Errorf("Type() = %v, want %v", c.Type(), TypeCounter)
	}
}

func TestStringListPayloadIsIndependentCopy(t *testing.T) {
	l := StringList{"a", "b"}
	p := l.Payload().([]string)
	p[0] = "mutated"
	if l[0] == "mutated" {
		t.Fatal("Payload() must return an independent copy")
	}
}

func TestTimespanPayload(t *testing.T) {
	ts := Timespan{Nanos: 3_000_000, Unit: Millisecond}
	p := ts.Payload().(map[string]interface{})
	if p["value"] != uint64(3) {
		t.Errorf("value = %v, want 3", p["value"])
	}
	if p["time_unit"] != "millisecond" {
		t.Errorf("time_unit = %v, want millisecond", p["time_unit"])
	}
}

func TestDatetimeTruncationIdempotent(t *testing.T) {
	instant := time.Date(2026, 3, 4, 12, 34, 56, 789000000, time.UTC)
	d := Datetime{Instant: instant, Offset: time.UTC, Precision: PrecisionSecond}
	first := d.Payload()
	second := d.Payload()
	if first != second {
		t.Fatalf("Payload() not idempotent: %v != %v", first, second)
	}
}

func TestTimingDistributionPayloadShape(t *testing.T) {
	h := &histogram.Histogram{}
	_ = h.Accumulate(1_500_000)
	td := TimingDistribution{Histogram: h}
	p := td.Payload().(map[string]interface{})
	if p["count"] != uint64(1) {
		t.Errorf("count = %v, want 1", p["count"])
	}
	values := p["values"].(map[string]uint64)
	if len(values) != 1 {
		t.Errorf("len(values) = %d, want 1", len(values))
	}
}

func TestEventPayloadOmitsEmptyExtras(t *testing.T) {
	e := Event{{TimestampNanos: 1, Category: "ui", Name: "click"}}
	p := e.Payload().([]interface{})
	entry := p[0].(map[string]interface{})
	if _, ok := entry["extra"]; ok {
		t.Error("extra key should be omitted when there are no extras")
	}
}
