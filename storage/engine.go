package storage

import (
	"bytes"
	"encoding/binary"
	"encoding/gob"
	"fmt"
	"io"
	"os"
	"path"
	"sort"
	"sync"
	"time"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/google/uuid"

	"github.com/wlach/glean/metricdata"
	"github.com/wlach/glean/metricval"
)

// magic identifies a glean-core persistence file; version is bumped any
// time the gob schema below changes incompatibly (spec.md invariant 9).
var magic = [4]byte{'g', 'l', 'n', 's'}

const version byte = 1

// Engine is the embedded key/value store described in spec.md §4.1. The
// zero value is not ready to use; construct with New.
type Engine struct {
	mu              sync.RWMutex // protects values, seqs, pingTimes
	values          map[Key]metricval.Value
	seqs            map[string]uint64    // per-ping sequence numbers (User lifetime)
	pingTimes       map[string]time.Time // per-ping last collection end_time (User lifetime)
	persistenceFile string
	logger          log.Logger
}

// New returns an Engine ready to use. If persistenceFile is non-empty and
// already exists, its contents are loaded synchronously before New
// returns, matching NewDiskMetricStore's restore-on-construct behavior.
func New(persistenceFile string, logger log.Logger) *Engine {
	if logger == nil {
		logger = log.NewNopLogger()
	}
	e := &Engine{
		values:          map[Key]metricval.Value{},
		seqs:            map[string]uint64{},
		pingTimes:       map[string]time.Time{},
		persistenceFile: persistenceFile,
		logger:          logger,
	}
	if err := e.restore(); err != nil {
		level.Error(logger).Log("msg", "could not load persisted metrics", "err", err)
	}
	return e
}

// Record atomically reads the current value at key (or its absence),
// passes it to merge, and writes back whatever merge returns. This is the
// only write path into the engine; every per-kind recording verb in
// package metrics composes on top of it (spec.md §4.1 "record").
func (e *Engine) Record(key Key, merge MergeFunc) {
	e.mu.Lock()
	defer e.mu.Unlock()

	current, present := e.values[key]
	e.values[key] = merge(current, present)
}

// SnapshotMetric reads a single value, reporting absence via the second
// return ("snapshot_metric" in spec.md §4.1). It is used by test-only
// readers (test_get_value_*, test_has_value_*).
func (e *Engine) SnapshotMetric(key Key) (metricval.Value, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	v, ok := e.values[key]
	return v, ok
}

// Clear removes the entry at the given key, used by set_upload_enabled(false)
// to drop the stored client_id.
func (e *Engine) Clear(key Key) {
	e.mu.Lock()
	defer e.mu.Unlock()
	delete(e.values, key)
}

// ClearAll wipes every stored metric value, used by set_upload_enabled(false)
// and by New when upload is disabled at startup. Application-lifetime
// clearing on process start uses ClearLifetime instead.
func (e *Engine) ClearAll() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.values = map[Key]metricval.Value{}
}

// ClearLifetime removes every entry at the given lifetime, regardless of
// store, used on process start to erase Application-lifetime data
// (spec.md §3, "Lifetime").
func (e *Engine) ClearLifetime(lifetime metricdata.Lifetime) {
	e.mu.Lock()
	defer e.mu.Unlock()
	for k := range e.values {
		if k.Lifetime == lifetime {
			delete(e.values, k)
		}
	}
}

// Snapshot collects a ping (store) per spec.md §4.1 "snapshot": one nested
// object per metric kind found across all three lifetimes, in canonical
// order (User, Application, Ping; then lexicographic identifier). If
// clearPingLifetime is true, every Ping-lifetime entry under store is
// deleted in the same critical section — the exactly-once-inclusion
// guarantee spec.md calls out.
func (e *Engine) Snapshot(store string, clearPingLifetime bool) Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()

	type match struct {
		key Key
		val metricval.Value
	}
	var matches []match
	for k, v := range e.values {
		if k.Store == store {
			matches = append(matches, match{k, v})
		}
	}
	sort.Slice(matches, func(i, j int) bool {
		if matches[i].key.Lifetime != matches[j].key.Lifetime {
			return matches[i].key.Lifetime.Less(matches[j].key.Lifetime)
		}
		return matches[i].key.Identifier < matches[j].key.Identifier
	})

	out := Snapshot{Metrics: map[metricval.TypeTag]map[string]interface{}{}}
	for _, m := range matches {
		byID, ok := out.Metrics[m.key.Type]
		if !ok {
			byID = map[string]interface{}{}
			out.Metrics[m.key.Type] = byID
		}
		byID[m.key.Identifier] = m.val.Payload()
	}

	if clearPingLifetime {
		for k := range e.values {
			if k.Store == store && k.Lifetime == metricdata.Ping {
				delete(e.values, k)
			}
		}
	}
	return out
}

// NextSeq increments and returns the sequence number for pingName,
// persisted under User lifetime so it survives restarts (spec.md §4.3).
func (e *Engine) NextSeq(pingName string) uint64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.seqs[pingName]++
	return e.seqs[pingName]
}

// CurrentSeq returns the last-issued sequence number without incrementing
// it, for tests.
func (e *Engine) CurrentSeq(pingName string) uint64 {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.seqs[pingName]
}

// LastEndTime returns the end_time recorded the last time pingName was
// collected, for use as the next collection's start_time (spec.md §4.3).
func (e *Engine) LastEndTime(pingName string) (time.Time, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	t, ok := e.pingTimes[pingName]
	return t, ok
}

// SetLastEndTime records end_time as the most recent collection instant
// for pingName.
func (e *Engine) SetLastEndTime(pingName string, end time.Time) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.pingTimes[pingName] = end
}

// LifetimeCounts reports live entry counts per lifetime across the whole
// engine (every store), for tests.
func (e *Engine) LifetimeCounts() LifetimeCounts {
	e.mu.RLock()
	defer e.mu.RUnlock()
	counts := LifetimeCounts{}
	for k := range e.values {
		counts[k.Lifetime]++
	}
	return counts
}

// gobEntry is the on-disk representation of one (key, value) pair. Values
// are round-tripped through metricval's exported payload types; gob needs
// concrete, registered types to decode into an interface, so concrete
// per-kind persisted structs are registered in persist_codec.go.
type gobEntry struct {
	Key   Key
	Value metricval.Value
}

// gobHeader carries the document-level state that isn't itself subject to
// the "skip the bad one, keep the rest" entry policy below: the per-ping
// sequence counters and last-collection end_times.
type gobHeader struct {
	Seqs      map[string]uint64
	PingTimes map[string]time.Time
}

// writeFrame gob-encodes v into its own buffer and writes it to w as a
// 4-byte big-endian length prefix followed by the encoded bytes, so every
// frame can be skipped over even if its payload turns out to be
// undecodable.
func writeFrame(w io.Writer, v interface{}) error {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(v); err != nil {
		return err
	}
	var lenPrefix [4]byte
	binary.BigEndian.PutUint32(lenPrefix[:], uint32(buf.Len()))
	if _, err := w.Write(lenPrefix[:]); err != nil {
		return err
	}
	_, err := w.Write(buf.Bytes())
	return err
}

// readFrame reads one writeFrame-encoded frame from r, returning its raw
// (still gob-encoded) payload.
func readFrame(r *bytes.Reader) ([]byte, error) {
	var lenPrefix [4]byte
	if _, err := io.ReadFull(r, lenPrefix[:]); err != nil {
		return nil, err
	}
	n := binary.BigEndian.Uint32(lenPrefix[:])
	payload := make([]byte, n)
	if _, err := io.ReadFull(r, payload); err != nil {
		return nil, fmt.Errorf("truncated frame: %w", err)
	}
	return payload, nil
}

// persist writes the engine's full state to persistenceFile via a
// temp-file-then-rename, exactly as DiskMetricStore's persist() does, so
// the file on disk is never observed half-written. Every entry is encoded
// as its own independently-decodable frame (spec.md §4.1's corruption
// policy: one bad entry must not cost the rest of the store), rather than
// one gob stream covering the whole document.
func (e *Engine) persist() error {
	if e.persistenceFile == "" {
		return nil
	}
	e.mu.RLock()
	header := gobHeader{Seqs: map[string]uint64{}, PingTimes: map[string]time.Time{}}
	for name, seq := range e.seqs {
		header.Seqs[name] = seq
	}
	for name, t := range e.pingTimes {
		header.PingTimes[name] = t
	}
	entries := make([]gobEntry, 0, len(e.values))
	for k, v := range e.values {
		entries = append(entries, gobEntry{Key: k, Value: v})
	}
	e.mu.RUnlock()

	var buf bytes.Buffer
	buf.Write(magic[:])
	buf.WriteByte(version)
	if err := writeFrame(&buf, header); err != nil {
		return err
	}
	for _, entry := range entries {
		if err := writeFrame(&buf, entry); err != nil {
			return err
		}
	}

	f, err := os.CreateTemp(path.Dir(e.persistenceFile), path.Base(e.persistenceFile)+".tmp-"+uuid.NewString())
	if err != nil {
		return err
	}
	tmpName := f.Name()
	if _, err := f.Write(buf.Bytes()); err != nil {
		f.Close()
		os.Remove(tmpName)
		return err
	}
	if err := f.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	return os.Rename(tmpName, e.persistenceFile)
}

// Persist exposes persist for the core instance to call on shutdown and
// after ping collection.
func (e *Engine) Persist() error {
	return e.persist()
}

// restore loads persisted state, per spec.md invariant 9: a bad magic or
// an unsupported version is logged and the store starts empty rather than
// failing construction. Every entry frame is decoded independently: a
// decode error on one entry is logged and that entry is treated as absent,
// while every other frame in the document still loads, since each frame's
// length prefix lets the reader skip straight to the next one regardless
// of whether the current payload decoded cleanly.
func (e *Engine) restore() error {
	if e.persistenceFile == "" {
		return nil
	}
	data, err := os.ReadFile(e.persistenceFile)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return err
	}
	if len(data) < 5 || [4]byte{data[0], data[1], data[2], data[3]} != magic {
		level.Warn(e.logger).Log("msg", "persistence file missing glean-core magic prefix, starting empty")
		return nil
	}
	if data[4] != version {
		level.Warn(e.logger).Log("msg", "persistence file has unsupported version, starting empty", "version", data[4])
		return nil
	}

	r := bytes.NewReader(data[5:])

	headerPayload, err := readFrame(r)
	if err != nil {
		level.Error(e.logger).Log("msg", "storage corruption detected reading header, starting empty", "err", err)
		return nil
	}
	var header gobHeader
	if err := gob.NewDecoder(bytes.NewReader(headerPayload)).Decode(&header); err != nil {
		level.Error(e.logger).Log("msg", "storage corruption detected decoding header, continuing without sequence/end-time state", "err", err)
		header = gobHeader{}
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	for name, seq := range header.Seqs {
		e.seqs[name] = seq
	}
	for name, t := range header.PingTimes {
		e.pingTimes[name] = t
	}

	for {
		entryPayload, err := readFrame(r)
		if err == io.EOF {
			break
		}
		if err != nil {
			level.Error(e.logger).Log("msg", "storage corruption detected, remaining entries lost", "err", err)
			break
		}
		var entry gobEntry
		if err := gob.NewDecoder(bytes.NewReader(entryPayload)).Decode(&entry); err != nil {
			level.Error(e.logger).Log("msg", "storage corruption detected in one entry, skipping it", "err", err)
			continue
		}
		e.values[entry.Key] = entry.Value
	}
	return nil
}
