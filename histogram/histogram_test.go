package histogram

import "testing"

func TestAccumulateWithinRange(t *testing.T) {
	h := &Histogram{}
	if err := h.Accumulate(1_000_000); err != nil {
		t.Fatalf("Accumulate() error = %v", err)
	}
	if h.Count != 1 || h.Sum != 1_000_000 {
		t.Fatalf("Count/Sum = %d/%d, want 1/1000000", h.Count, h.Sum)
	}
}

func TestAccumulateOverflow(t *testing.T) {
	h := &Histogram{}
	if err := h.Accumulate(MaxNanos + 1); err != ErrOverflow {
		t.Fatalf("Accumulate() error = %v, want ErrOverflow", err)
	}
	if h.Count != 0 {
		t.Fatal("overflow must not mutate the histogram")
	}
}

func TestBucketIndexMonotonic(t *testing.T) {
	prev := -1
	for _, n := range []uint64{1, 10, 100, 1000, 1_000_000, 1_000_000_000, MaxNanos} {
		idx, ok := BucketIndex(n)
		if !ok {
			t.Fatalf("BucketIndex(%d) not ok", n)
		}
		if idx < prev {
			t.Fatalf("bucket index decreased: %d then %d", prev, idx)
		}
		prev = idx
	}
}

func TestMergeSumsCounts(t *testing.T) {
	a := &Histogram{}
	b := &Histogram{}
	_ = a.Accumulate(1000)
	_ = b.Accumulate(2000)
	a.Merge(b)
	if a.Count != 2 || a.Sum != 3000 {
		t.Fatalf("Count/Sum after merge = %d/%d, want 2/3000", a.Count, a.Sum)
	}
}

func TestBucketsOmitsEmpty(t *testing.T) {
	h := &Histogram{}
	_ = h.Accumulate(5_000_000)
	buckets := h.Buckets()
	if len(buckets) != 1 {
		t.Fatalf("len(Buckets()) = %d, want 1", len(buckets))
	}
	if buckets[0].Count != 1 {
		t.Fatalf("bucket count = %d, want 1", buckets[0].Count)
	}
}

func TestCloneIsIndependent(t *testing.T) {
	h := &Histogram{}
	_ = h.Accumulate(42)
	clone := h.Clone()
	_ = h.Accumulate(42)
	if clone.Count != 1 {
		t.Fatalf("clone.Count = %d, want 1 (unaffected by later accumulate)", clone.Count)
	}
}
