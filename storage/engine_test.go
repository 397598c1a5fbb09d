package storage

import (
	"bytes"
	"encoding/binary"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/wlach/glean/metricdata"
	"github.com/wlach/glean/metricval"
)

func counterKey(id string) Key {
	return Key{Lifetime: metricdata.Ping, Store: "metrics", Type: metricval.TypeCounter, Identifier: id}
}

func addCounter(e *Engine, key Key, amount int32) {
	e.Record(key, func(current metricval.Value, present bool) metricval.Value {
		if !present {
			return metricval.Counter(amount)
		}
		return current.(metricval.Counter) + metricval.Counter(amount)
	})
}

func TestRecordAndSnapshotMetric(t *testing.T) {
	e := New("", nil)
	key := counterKey("ui.click")
	addCounter(e, key, 1)
	addCounter(e, key, 2)

	v, ok := e.SnapshotMetric(key)
	if !ok {
		t.Fatal("expected a value to be present")
	}
	if v.(metricval.Counter) != 3 {
		t.Fatalf("value = %v, want 3", v)
	}
}

func TestSnapshotGroupsByTypeAndIdentifier(t *testing.T) {
	e := New("", nil)
	addCounter(e, counterKey("ui.click"), 1)
	addCounter(e, counterKey("ui.scroll"), 4)

	snap := e.Snapshot("metrics", false)
	byID, ok := snap.Metrics[metricval.TypeCounter]
	if !ok {
		t.Fatal("expected counter metrics in snapshot")
	}
	if byID["ui.click"] != int32(1) || byID["ui.scroll"] != int32(4) {
		t.Fatalf("unexpected snapshot contents: %#v", byID)
	}
}

func TestSnapshotWithClearRemovesPingLifetimeOnly(t *testing.T) {
	e := New("", nil)
	pingKey := counterKey("ui.click")
	appKey := Key{Lifetime: metricdata.Application, Store: "metrics", Type: metricval.TypeCounter, Identifier: "app.boots"}
	addCounter(e, pingKey, 1)
	addCounter(e, appKey, 1)

	_ = e.Snapshot("metrics", true)

	if _, ok := e.SnapshotMetric(pingKey); ok {
		t.Error("Ping-lifetime entry should have been cleared")
	}
	if _, ok := e.SnapshotMetric(appKey); !ok {
		t.Error("Application-lifetime entry must survive a Ping-lifetime clear")
	}
}

func TestSnapshotRoundTripsToEmpty(t *testing.T) {
	e := New("", nil)
	addCounter(e, counterKey("ui.click"), 1)

	first := e.Snapshot("metrics", true)
	if first.Empty() {
		t.Fatal("first snapshot should not be empty")
	}

	second := e.Snapshot("metrics", true)
	if !second.Empty() {
		t.Fatal("second snapshot should be empty after the Ping-lifetime clear")
	}
}

func TestPersistAndRestoreRoundTrip(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "glean.db")

	e := New(file, nil)
	addCounter(e, counterKey("ui.click"), 5)
	if err := e.Persist(); err != nil {
		t.Fatalf("Persist() error = %v", err)
	}

	e2 := New(file, nil)
	v, ok := e2.SnapshotMetric(counterKey("ui.click"))
	if !ok {
		t.Fatal("expected restored value to be present")
	}
	if v.(metricval.Counter) != 5 {
		t.Fatalf("restored value = %v, want 5", v)
	}
}

func TestRestoreIgnoresForeignFile(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "glean.db")
	if err := os.WriteFile(file, []byte("not a glean-core file"), 0o644); err != nil {
		t.Fatal(err)
	}

	e := New(file, nil)
	if counts := e.LifetimeCounts(); len(counts) != 0 {
		t.Fatalf("expected empty store for a foreign file, got %#v", counts)
	}
}

func TestNextSeqMonotonicAndPersisted(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "glean.db")

	e := New(file, nil)
	if got := e.NextSeq("metrics"); got != 1 {
		t.Fatalf("first NextSeq() = %d, want 1", got)
	}
	if got := e.NextSeq("metrics"); got != 2 {
		t.Fatalf("second NextSeq() = %d, want 2", got)
	}
	if err := e.Persist(); err != nil {
		t.Fatal(err)
	}

	e2 := New(file, nil)
	if got := e2.CurrentSeq("metrics"); got != 2 {
		t.Fatalf("restored seq = %d, want 2", got)
	}
}

func TestLastEndTimeRoundTripsThroughPersistence(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "glean.db")

	e := New(file, nil)
	if _, ok := e.LastEndTime("metrics"); ok {
		t.Fatal("expected no last end_time before the first collection")
	}
	want := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	e.SetLastEndTime("metrics", want)
	if err := e.Persist(); err != nil {
		t.Fatal(err)
	}

	e2 := New(file, nil)
	got, ok := e2.LastEndTime("metrics")
	if !ok || !got.Equal(want) {
		t.Fatalf("LastEndTime() = %v, %v; want %v, true", got, ok, want)
	}
}

func TestRestoreSkipsOnlyTheCorruptedEntry(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "glean.db")

	e := New(file, nil)
	addCounter(e, counterKey("ui.click"), 1)
	addCounter(e, counterKey("ui.scroll"), 2)
	if err := e.Persist(); err != nil {
		t.Fatalf("Persist() error = %v", err)
	}

	data, err := os.ReadFile(file)
	if err != nil {
		t.Fatal(err)
	}

	// Corrupt the payload of the second frame (the first entry after the
	// header) in place, without touching its length prefix, so the reader
	// can still find the start of the next frame.
	r := bytes.NewReader(data[5:])
	var lenPrefix [4]byte
	if _, err := io.ReadFull(r, lenPrefix[:]); err != nil {
		t.Fatal(err)
	}
	headerLen := binary.BigEndian.Uint32(lenPrefix[:])
	corruptOffset := 5 + 4 + int(headerLen) + 4 // magic+version, header len prefix + header, first entry's len prefix
	for i := corruptOffset; i < corruptOffset+4 && i < len(data); i++ {
		data[i] ^= 0xff
	}
	if err := os.WriteFile(file, data, 0o644); err != nil {
		t.Fatal(err)
	}

	e2 := New(file, nil)
	counts := e2.LifetimeCounts()
	if counts[metricdata.Ping] != 1 {
		t.Fatalf("expected exactly one surviving entry after one corrupted frame, got %#v", counts)
	}
}

func TestClearLifetimeOnlyAffectsThatLifetime(t *testing.T) {
	e := New("", nil)
	appKey := Key{Lifetime: metricdata.Application, Store: "metrics", Type: metricval.TypeCounter, Identifier: "app.boots"}
	userKey := Key{Lifetime: metricdata.User, Store: "metrics", Type: metricval.TypeCounter, Identifier: "user.id"}
	addCounter(e, appKey, 1)
	addCounter(e, userKey, 1)

	e.ClearLifetime(metricdata.Application)

	if _, ok := e.SnapshotMetric(appKey); ok {
		t.Error("Application entry should have been cleared")
	}
	if _, ok := e.SnapshotMetric(userKey); !ok {
		t.Error("User entry must survive an Application-lifetime clear")
	}
}
