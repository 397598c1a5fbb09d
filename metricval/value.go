// Package metricval implements the metric value union described in
// spec.md §3: a discriminated variant over the concrete per-kind payloads,
// with canonical JSON serialization for ping assembly.
//
// Canonical JSON here means: UTF-8, object keys sorted lexicographically,
// no insignificant whitespace, booleans lowercase, numbers without
// trailing zeros. encoding/json already satisfies every one of those
// properties for map[string]interface{} and the Go types below (Go sorts
// map keys when marshaling, and its number/bool formatting already matches
// the contract) — no third-party canonical-JSON encoder in the example
// pack does anything encoding/json doesn't already do for these shapes, so
// this is the one place the ambient "prefer a pack library" rule yields to
// stdlib: see DESIGN.md.
package metricval

import (
	"bytes"
	"encoding/gob"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/wlach/glean/histogram"
)

// MaxStringBytes is the truncation limit shared by String payloads and any
// other bounded-UTF-8 field in the data model, such as an experiment
// branch name (spec.md invariant 5).
const MaxStringBytes = 100

// TruncateUTF8 truncates s to at most maxBytes bytes without splitting a
// multi-byte rune, walking back from maxBytes to the nearest rune
// boundary. The second return reports whether truncation occurred.
func TruncateUTF8(s string, maxBytes int) (string, bool) {
	if len(s) <= maxBytes {
		return s, false
	}
	cut := maxBytes
	for cut > 0 && !isUTF8Boundary(s, cut) {
		cut--
	}
	return s[:cut], true
}

func isUTF8Boundary(s string, i int) bool {
	if i == 0 || i == len(s) {
		return true
	}
	return s[i]&0xC0 != 0x80
}

// TypeTag names a metric kind for storage keys and the "metrics" object in
// a ping payload (spec.md §4.3: "metrics": {"<type>": {...}}).
type TypeTag string

const (
	TypeBoolean            TypeTag = "boolean"
	TypeCounter            TypeTag = "counter"
	TypeString             TypeTag = "string"
	TypeStringList         TypeTag = "string_list"
	TypeUUID               TypeTag = "uuid"
	TypeDatetime           TypeTag = "datetime"
	TypeTimespan           TypeTag = "timespan"
	TypeTimingDistribution TypeTag = "timing_distribution"
	TypeEvent              TypeTag = "event"
)

// Value is the tagged-union interface every concrete payload satisfies.
type Value interface {
	Type() TypeTag
	// Payload returns the value in the shape ping serialization should
	// emit it in (a plain Go value encodable by encoding/json).
	Payload() interface{}
}

// Boolean is the Boolean metric kind's stored payload.
type Boolean bool

func (Boolean) Type() TypeTag      { return TypeBoolean }
func (b Boolean) Payload() interface{} { return bool(b) }

// Counter is the Counter metric kind's stored payload: a non-negative
// accumulated total (spec.md invariant 4).
type Counter int32

func (Counter) Type() TypeTag      { return TypeCounter }
func (c Counter) Payload() interface{} { return int32(c) }

// String is the String metric kind's stored payload, already truncated to
// 100 bytes on a UTF-8 char boundary (spec.md invariant 5).
type String string

func (String) Type() TypeTag      { return TypeString }
func (s String) Payload() interface{} { return string(s) }

// StringList is the StringList metric kind's stored payload, already
// capped at 20 entries (spec.md invariant 6).
type StringList []string

func (StringList) Type() TypeTag { return TypeStringList }
func (l StringList) Payload() interface{} {
	out := make([]string, len(l))
	copy(out, l)
	return out
}

// UUID is the Uuid metric kind's stored payload.
type UUID uuid.UUID

func (UUID) Type() TypeTag      { return TypeUUID }
func (u UUID) Payload() interface{} { return uuid.UUID(u).String() }

// Datetime is the Datetime metric kind's stored payload: the instant as
// recorded, plus its Offset and declared Precision. Payload shifts the
// instant into Offset and truncates it to Precision (spec.md §4.2).
type Datetime struct {
	Instant   time.Time
	Offset    *time.Location
	Precision DatetimePrecision
}

func (Datetime) Type() TypeTag { return TypeDatetime }
func (d Datetime) Payload() interface{} {
	loc := d.Offset
	if loc == nil {
		loc = time.UTC
	}
	shifted := d.Instant.In(loc)
	truncated := d.Precision.Truncate(shifted)
	return truncated.Format(time.RFC3339Nano)
}

// gobDatetime is Datetime's wire shape: encoding/gob has no registered
// codec for *time.Location, so the offset is reduced to the zone name and
// signed seconds-east-of-UTC that time.FixedZone needs to reconstruct it.
type gobDatetime struct {
	Instant       time.Time
	ZoneName      string
	OffsetSeconds int
	Precision     DatetimePrecision
}

// GobEncode implements gob.GobEncoder.
func (d Datetime) GobEncode() ([]byte, error) {
	loc := d.Offset
	if loc == nil {
		loc = time.UTC
	}
	name, offset := d.Instant.In(loc).Zone()
	gd := gobDatetime{Instant: d.Instant, ZoneName: name, OffsetSeconds: offset, Precision: d.Precision}
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(gd); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// GobDecode implements gob.GobDecoder.
func (d *Datetime) GobDecode(data []byte) error {
	var gd gobDatetime
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&gd); err != nil {
		return err
	}
	d.Instant = gd.Instant
	d.Offset = time.FixedZone(gd.ZoneName, gd.OffsetSeconds)
	d.Precision = gd.Precision
	return nil
}

// Timespan is the Timespan metric kind's stored payload: an elapsed
// duration already converted to Unit with truncation (spec.md §4.2).
type Timespan struct {
	Nanos uint64
	Unit  TimeUnit
}

func (Timespan) Type() TypeTag { return TypeTimespan }
func (t Timespan) Payload() interface{} {
	return map[string]interface{}{
		"value":     t.Unit.Truncate(t.Nanos),
		"time_unit": timeUnitName(t.Unit),
	}
}

func timeUnitName(u TimeUnit) string {
	switch u {
	case Nanosecond:
		return "nanosecond"
	case Microsecond:
		return "microsecond"
	case Millisecond:
		return "millisecond"
	case Second:
		return "second"
	case Minute:
		return "minute"
	case Hour:
		return "hour"
	case Day:
		return "day"
	default:
		return "nanosecond"
	}
}

// TimingDistribution is the TimingDistribution metric kind's stored
// payload: an exponential-bucket histogram (package histogram).
type TimingDistribution struct {
	Histogram *histogram.Histogram
}

func (TimingDistribution) Type() TypeTag { return TypeTimingDistribution }
func (t TimingDistribution) Payload() interface{} {
	values := map[string]uint64{}
	for _, b := range t.Histogram.Buckets() {
		values[formatBucketKey(b.Lower)] = b.Count
	}
	return map[string]interface{}{
		"sum":    t.Histogram.Sum,
		"count":  t.Histogram.Count,
		"values": values,
	}
}

func formatBucketKey(lower float64) string {
	buf, _ := json.Marshal(uint64(lower))
	return string(buf)
}

// EventRecord is one recorded event occurrence.
type EventRecord struct {
	TimestampNanos uint64
	Category       string
	Name           string
	Extras         map[string]string
}

// Event is the Event metric kind's stored payload: an append-only list of
// occurrences (spec.md §4.2).
type Event []EventRecord

func (Event) Type() TypeTag { return TypeEvent }
func (e Event) Payload() interface{} {
	out := make([]interface{}, len(e))
	for i, rec := range e {
		entry := map[string]interface{}{
			"timestamp": rec.TimestampNanos,
			"category":  rec.Category,
			"name":      rec.Name,
		}
		if len(rec.Extras) > 0 {
			entry["extra"] = rec.Extras
		}
		out[i] = entry
	}
	return out
}

// Experiment is the experiment-annotation payload stored in
// ping_info.experiments (spec.md §4.3, §4.4).
type Experiment struct {
	Branch string
	Extra  map[string]string
}

func (e Experiment) Payload() interface{} {
	m := map[string]interface{}{"branch": e.Branch}
	if len(e.Extra) > 0 {
		m["extra"] = e.Extra
	}
	return m
}
