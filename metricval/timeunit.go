package metricval

import "time"

// TimeUnit is the declared resolution a Timespan metric truncates to.
type TimeUnit int

const (
	Nanosecond TimeUnit = iota
	Microsecond
	Millisecond
	Second
	Minute
	Hour
	Day
)

// Duration returns the unit as a time.Duration multiplier, so that
// nanos/Duration() gives the truncated count in this unit.
func (u TimeUnit) Duration() time.Duration {
	switch u {
	case Nanosecond:
		return time.Nanosecond
	case Microsecond:
		return time.Microsecond
	case Millisecond:
		return time.Millisecond
	case Second:
		return time.Second
	case Minute:
		return time.Minute
	case Hour:
		return time.Hour
	case Day:
		return 24 * time.Hour
	default:
		return time.Nanosecond
	}
}

// Truncate converts a nanosecond duration to this unit, truncating
// (rounding toward zero), per spec.md §4.2 ("convert to declared time
// unit with truncation").
func (u TimeUnit) Truncate(nanos uint64) uint64 {
	d := uint64(u.Duration())
	if d == 0 {
		return nanos
	}
	return nanos / d
}

// DatetimePrecision is the resolution a Datetime metric stores to.
type DatetimePrecision int

const (
	PrecisionNanosecond DatetimePrecision = iota
	PrecisionMicrosecond
	PrecisionMillisecond
	PrecisionSecond
	PrecisionMinute
	PrecisionHour
	PrecisionDay
)

// Truncate truncates t to this precision. Per the resolved open question
// in SPEC_FULL.md §4.2, truncation is applied *after* t has already been
// shifted into its recorded offset (the caller is responsible for that
// shift), so that two snapshots of an unmodified value are byte-identical
// regardless of what offset the reader later re-renders it in.
func (p DatetimePrecision) Truncate(t time.Time) time.Time {
	switch p {
	case PrecisionNanosecond:
		return t
	case PrecisionMicrosecond:
		return t.Truncate(time.Microsecond)
	case PrecisionMillisecond:
		return t.Truncate(time.Millisecond)
	case PrecisionSecond:
		return t.Truncate(time.Second)
	case PrecisionMinute:
		return t.Truncate(time.Minute)
	case PrecisionHour:
		return t.Truncate(time.Hour)
	case PrecisionDay:
		y, m, d := t.Date()
		return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
	default:
		return t
	}
}
