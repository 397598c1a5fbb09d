// Package histogram implements the fixed, exponentially-spaced bucket
// scheme used by the TimingDistribution metric kind (spec.md §3, §4.2).
//
// It is adapted from the bucket/boundary idiom in
// prometheus-pushgateway's histogram/prometheus_model.go (itself converting
// a Prometheus dto.Histogram into boundary/count pairs for the pushgateway
// status UI):
// we keep the "bucket has a lower bound, an upper bound, and a count" shape
// and the log-scale boundary derivation, but drop the sparse span/offset
// wire encoding that package used for Prometheus's unbounded native
// histograms, because a TimingDistribution's range is fixed by spec
// (1ns .. 10min, 100 buckets) and a dense array is both simpler and exact.
package histogram

import (
	"bytes"
	"encoding/gob"
	"errors"
	"math"
)

const (
	// MinNanos is the lower bound of the configured range, inclusive.
	MinNanos uint64 = 1
	// MaxNanos is the upper bound of the configured range, inclusive:
	// ten minutes.
	MaxNanos uint64 = 10 * 60 * 1e9
	// NumBuckets is the fixed bucket count (spec.md §4.2).
	NumBuckets = 100
)

// ErrOverflow is returned by Accumulate when a sample falls outside
// [MinNanos, MaxNanos]; the caller records an InvalidOverflow error and
// must not add the sample to Count/Sum.
var ErrOverflow = errors.New("histogram: sample out of range")

// logMin/logMax/logStep are precomputed once: bucket i covers
// [exp(logMin+i*logStep), exp(logMin+(i+1)*logStep)).
var (
	logMin  = math.Log(float64(MinNanos))
	logMax  = math.Log(float64(MaxNanos))
	logStep = (logMax - logMin) / NumBuckets
)

// Bucket describes one bucket's boundaries, half-open [Lower, Upper).
type Bucket struct {
	Lower, Upper float64
	Count        uint64
}

// Histogram accumulates nanosecond samples into NumBuckets fixed
// exponential buckets. The zero value is ready to use.
type Histogram struct {
	counts [NumBuckets]uint64
	Sum    uint64
	Count  uint64
}

// gobHistogram mirrors Histogram with an exported bucket array, since
// encoding/gob cannot see unexported fields; it is the wire shape used to
// persist a TimingDistribution in package storage.
type gobHistogram struct {
	Counts [NumBuckets]uint64
	Sum    uint64
	Count  uint64
}

// GobEncode implements gob.GobEncoder.
func (h Histogram) GobEncode() ([]byte, error) {
	var buf bytes.Buffer
	gh := gobHistogram{Counts: h.counts, Sum: h.Sum, Count: h.Count}
	if err := gob.NewEncoder(&buf).Encode(gh); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// GobDecode implements gob.GobDecoder.
func (h *Histogram) GobDecode(data []byte) error {
	var gh gobHistogram
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&gh); err != nil {
		return err
	}
	h.counts = gh.Counts
	h.Sum = gh.Sum
	h.Count = gh.Count
	return nil
}

// BucketIndex returns the bucket a sample of nanos would land in, or
// (0, false) if nanos is outside the configured range.
func BucketIndex(nanos uint64) (int, bool) {
	if nanos < MinNanos || nanos > MaxNanos {
		return 0, false
	}
	if nanos == MaxNanos {
		return NumBuckets - 1, true
	}
	idx := int((math.Log(float64(nanos)) - logMin) / logStep)
	if idx < 0 {
		idx = 0
	}
	if idx >= NumBuckets {
		idx = NumBuckets - 1
	}
	return idx, true
}

// Accumulate adds one sample. It returns ErrOverflow (without modifying h)
// if nanos falls outside the configured range.
func (h *Histogram) Accumulate(nanos uint64) error {
	idx, ok := BucketIndex(nanos)
	if !ok {
		return ErrOverflow
	}
	h.counts[idx]++
	h.Sum += nanos
	h.Count++
	return nil
}

// Merge folds other into h, for combining a snapshot read with a
// concurrently-recorded accumulation closure in the storage engine.
func (h *Histogram) Merge(other *Histogram) {
	if other == nil {
		return
	}
	for i, c := range other.counts {
		h.counts[i] += c
	}
	h.Sum += other.Sum
	h.Count += other.Count
}

// Clone returns a deep copy, used by the storage engine's merge closures
// which must never mutate the value they were handed.
func (h *Histogram) Clone() *Histogram {
	clone := *h
	return &clone
}

// Buckets returns the non-empty buckets in ascending order, for ping
// serialization (spec.md §4.3 emits "metrics" without zero-filled noise).
func (h *Histogram) Buckets() []Bucket {
	var out []Bucket
	for i, c := range h.counts {
		if c == 0 {
			continue
		}
		out = append(out, Bucket{
			Lower: math.Exp(logMin + float64(i)*logStep),
			Upper: math.Exp(logMin + float64(i+1)*logStep),
			Count: c,
		})
	}
	return out
}
