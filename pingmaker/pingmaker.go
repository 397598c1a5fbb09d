// Package pingmaker implements ping assembly and on-disk queuing, per
// spec.md §4.3: collect() turns a store's snapshot into the canonical JSON
// ping payload, and store_ping writes it to the pending-pings directory.
//
// store_ping's temp-file-then-rename write is grounded directly on the
// teacher's storage.DiskMetricStore.persist()
// (_examples/prometheus-pushgateway/storage/diskmetricstore.go): the same
// os.CreateTemp-then-os.Rename pair, so a reader of the pending-pings
// directory never observes a half-written file. doc_id generation uses
// package idgen (itself wired from google/uuid, as used for ids across the
// broader example pack).
package pingmaker

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/wlach/glean/internal/clock"
	"github.com/wlach/glean/internal/idgen"
	"github.com/wlach/glean/metricval"
	"github.com/wlach/glean/storage"
)

// PingType describes one registered ping (spec.md §4.4 "register_ping_type").
type PingType struct {
	Name            string
	IncludeClientID bool
	SendIfEmpty     bool
}

// ClientInfo supplies the client_info section's contents (spec.md §4.3).
// AppFields holds the binding-supplied "app_*" entries verbatim.
type ClientInfo struct {
	TelemetrySDKBuild string
	ClientID          *uuid.UUID
	AppFields         map[string]interface{}
}

// Maker assembles and queues pings for one core instance.
type Maker struct {
	engine   *storage.Engine
	clock    clock.Clock
	ids      idgen.Source
	dataPath string
}

// New returns a Maker backed by engine, writing pending pings under
// dataPath/pending_pings.
func New(engine *storage.Engine, clk clock.Clock, ids idgen.Source, dataPath string) *Maker {
	return &Maker{engine: engine, clock: clk, ids: ids, dataPath: dataPath}
}

// Collect snapshots ping.Name from storage (clearing its Ping-lifetime
// entries in the same atomic step) and returns the canonical JSON payload.
// ok is false when the ping has no data and ping.SendIfEmpty is false
// (spec.md §4.3 "returns ... None").
func (m *Maker) Collect(ping PingType, clientInfo ClientInfo, experiments map[string]metricval.Experiment) (body []byte, ok bool, err error) {
	snap := m.engine.Snapshot(ping.Name, true)

	events := extractEvents(snap)
	metricsEmpty := len(snap.Metrics) == 0

	if metricsEmpty && len(events) == 0 && !ping.SendIfEmpty {
		return nil, false, nil
	}

	end := m.clock.Now()
	start, hadPrevious := m.engine.LastEndTime(ping.Name)
	if !hadPrevious {
		start = end
	}
	m.engine.SetLastEndTime(ping.Name, end)
	seq := m.engine.NextSeq(ping.Name)

	pingInfo := map[string]interface{}{
		"seq":             seq,
		"start_time":      start.Format(time.RFC3339Nano),
		"end_time":        end.Format(time.RFC3339Nano),
		"seq_duration_ms": end.Sub(start).Milliseconds(),
	}
	if len(experiments) > 0 {
		exp := make(map[string]interface{}, len(experiments))
		for name, e := range experiments {
			exp[name] = e.Payload()
		}
		pingInfo["experiments"] = exp
	}

	clientInfoPayload := map[string]interface{}{
		"telemetry_sdk_build": clientInfo.TelemetrySDKBuild,
	}
	if ping.IncludeClientID && clientInfo.ClientID != nil {
		clientInfoPayload["client_id"] = clientInfo.ClientID.String()
	}
	for k, v := range clientInfo.AppFields {
		clientInfoPayload[k] = v
	}

	payload := map[string]interface{}{
		"ping_info":   pingInfo,
		"client_info": clientInfoPayload,
	}
	if !metricsEmpty {
		payload["metrics"] = snap.Metrics
	}
	if len(events) > 0 {
		payload["events"] = events
	}

	body, err = json.Marshal(payload)
	return body, true, err
}

// extractEvents pulls the Event kind's per-identifier vectors out of
// snap.Metrics (deleting the "event" entry, since spec.md §4.3's payload
// shape keeps "events" as its own top-level array, not nested under
// "metrics") and merges them into one timestamp-ordered list.
func extractEvents(snap storage.Snapshot) []interface{} {
	byID, ok := snap.Metrics[metricval.TypeEvent]
	if !ok {
		return nil
	}
	delete(snap.Metrics, metricval.TypeEvent)

	type timestamped struct {
		ts  uint64
		val interface{}
	}
	var all []timestamped
	for _, payload := range byID {
		for _, entry := range payload.([]interface{}) {
			m := entry.(map[string]interface{})
			all = append(all, timestamped{ts: m["timestamp"].(uint64), val: entry})
		}
	}
	sort.SliceStable(all, func(i, j int) bool { return all[i].ts < all[j].ts })

	out := make([]interface{}, len(all))
	for i, e := range all {
		out[i] = e.val
	}
	return out
}

// NewDocID generates a fresh document ID for store_ping.
func (m *Maker) NewDocID() string {
	return m.ids.NewV4().String()
}

// StorePing writes body to dataPath/pending_pings/docID via a
// temp-file-then-rename, so the file is never observed half-written.
func (m *Maker) StorePing(docID string, body []byte) error {
	dir := filepath.Join(m.dataPath, "pending_pings")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(dir, docID+".tmp-*")
	if err != nil {
		return err
	}
	tmpName := f.Name()
	if _, err := f.Write(body); err != nil {
		f.Close()
		os.Remove(tmpName)
		return err
	}
	if err := f.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	return os.Rename(tmpName, filepath.Join(dir, docID))
}
