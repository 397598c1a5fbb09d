package glean

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/wlach/glean/metricdata"
	"github.com/wlach/glean/metrics"
	"github.com/wlach/glean/pingmaker"
)

func testMetricData(name string) metricdata.CommonMetricData {
	return metricdata.New(name, "ui", []string{"metrics"}, metricdata.Ping, false)
}

func newTestInstance(t *testing.T) *Glean {
	t.Helper()
	g, err := New(Config{
		DataPath:          t.TempDir(),
		ApplicationID:     "org.example.test",
		UploadEnabled:     true,
		TelemetrySDKBuild: "glean-core-test",
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	g.OnReadyToSendPings()
	t.Cleanup(g.Shutdown)
	return g
}

func TestNewCreatesDataDirectories(t *testing.T) {
	dataPath := t.TempDir()
	g, err := New(Config{DataPath: dataPath, ApplicationID: "org.example.test", UploadEnabled: true})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer g.Shutdown()

	for _, dir := range []string{"db", "pending_pings", "events"} {
		if _, err := os.Stat(filepath.Join(dataPath, dir)); err != nil {
			t.Errorf("expected %s to exist: %v", dir, err)
		}
	}
}

func TestNewGeneratesClientID(t *testing.T) {
	g := newTestInstance(t)
	g.Fence()
	if _, ok := g.Engine().SnapshotMetric(clientInfoKey); !ok {
		t.Fatal("expected client_id to be generated on first run with upload enabled")
	}
}

func TestNewWithUploadDisabledHasNoClientID(t *testing.T) {
	g, err := New(Config{DataPath: t.TempDir(), ApplicationID: "org.example.test", UploadEnabled: false})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer g.Shutdown()
	g.OnReadyToSendPings()
	g.Fence()
	if _, ok := g.Engine().SnapshotMetric(clientInfoKey); ok {
		t.Fatal("expected no client_id when upload is disabled at startup")
	}
}

func TestIsUploadEnabledReflectsConstructorConfig(t *testing.T) {
	g := newTestInstance(t)
	if !g.IsUploadEnabled() {
		t.Fatal("expected upload enabled")
	}
}

func TestSetUploadEnabledFalseClearsClientID(t *testing.T) {
	g := newTestInstance(t)
	g.SetUploadEnabled(false)
	g.Fence()
	if g.IsUploadEnabled() {
		t.Fatal("expected upload disabled immediately")
	}
	if _, ok := g.Engine().SnapshotMetric(clientInfoKey); ok {
		t.Fatal("expected client_id cleared after disabling upload")
	}
}

func TestSetUploadEnabledFalseQueuesDeletionRequestPing(t *testing.T) {
	g := newTestInstance(t)
	g.SetUploadEnabled(false)
	g.Fence()

	entries, err := os.ReadDir(filepath.Join(g.dataPath, "pending_pings"))
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected exactly one pending ping, got %d", len(entries))
	}
}

func TestSetUploadEnabledTrueRegeneratesClientID(t *testing.T) {
	g := newTestInstance(t)
	g.SetUploadEnabled(false)
	g.Fence()
	g.SetUploadEnabled(true)
	g.Fence()
	if _, ok := g.Engine().SnapshotMetric(clientInfoKey); !ok {
		t.Fatal("expected client_id to be regenerated after re-enabling upload")
	}
}

func TestRegisterAndGetPingType(t *testing.T) {
	g := newTestInstance(t)
	if _, ok := g.GetPingByName("deletion-request"); !ok {
		t.Fatal("expected deletion-request to be auto-registered")
	}
	if _, ok := g.GetPingByName("custom"); ok {
		t.Fatal("expected custom ping to not yet be registered")
	}
	g.RegisterPingType(pingmaker.PingType{Name: "custom"})
	if _, ok := g.GetPingByName("custom"); !ok {
		t.Fatal("expected custom ping to be registered")
	}
}

func TestSendPingByNameUnknownPingErrors(t *testing.T) {
	g := newTestInstance(t)
	if _, err := g.SendPingByName("nope"); err == nil {
		t.Fatal("expected an error for an unregistered ping name")
	}
}

func TestSendPingByNameEmptyPingWithoutSendIfEmptySkips(t *testing.T) {
	g := newTestInstance(t)
	g.RegisterPingType(pingmaker.PingType{Name: "metrics"})

	wrote, err := g.SendPingByName("metrics")
	if err != nil {
		t.Fatalf("SendPingByName: %v", err)
	}
	if wrote {
		t.Fatal("expected no ping to be written for an empty, non-send-if-empty ping")
	}
}

func TestSendPingByNameWritesAValidJSONDocument(t *testing.T) {
	g := newTestInstance(t)
	wrote, err := g.SendPingByName("deletion-request")
	if err != nil {
		t.Fatalf("SendPingByName: %v", err)
	}
	if !wrote {
		t.Fatal("expected deletion-request (send_if_empty) to always produce a ping")
	}

	entries, err := os.ReadDir(filepath.Join(g.dataPath, "pending_pings"))
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected exactly one pending ping, got %d", len(entries))
	}
	body, err := os.ReadFile(filepath.Join(g.dataPath, "pending_pings", entries[0].Name()))
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	var doc map[string]interface{}
	if err := json.Unmarshal(body, &doc); err != nil {
		t.Fatalf("ping body is not valid JSON: %v", err)
	}
	if _, ok := doc["ping_info"]; !ok {
		t.Error("expected ping_info in payload")
	}
	if _, ok := doc["client_info"]; !ok {
		t.Error("expected client_info in payload")
	}
}

func TestSendPingWritesAPingNotInTheRegistry(t *testing.T) {
	g := newTestInstance(t)
	wrote, err := g.SendPing(pingmaker.PingType{Name: "adhoc", SendIfEmpty: true})
	if err != nil {
		t.Fatalf("SendPing: %v", err)
	}
	if !wrote {
		t.Fatal("expected a send_if_empty ping to be written even though it was never registered")
	}
	if _, ok := g.GetPingByName("adhoc"); ok {
		t.Fatal("SendPing must not register the ping as a side effect")
	}
}

func TestPingCollectProducesABodyWithoutQueuingIt(t *testing.T) {
	g := newTestInstance(t)
	body, produced, err := g.PingCollect(pingmaker.PingType{Name: "adhoc", SendIfEmpty: true})
	if err != nil {
		t.Fatalf("PingCollect: %v", err)
	}
	if !produced {
		t.Fatal("expected a send_if_empty ping to produce a body")
	}
	var doc map[string]interface{}
	if err := json.Unmarshal([]byte(body), &doc); err != nil {
		t.Fatalf("collected body is not valid JSON: %v", err)
	}

	entries, err := os.ReadDir(filepath.Join(g.dataPath, "pending_pings"))
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("expected ping_collect to leave pending_pings empty, found %d entries", len(entries))
	}
}

func TestPingCollectEmptyWithoutSendIfEmptyProducesNothing(t *testing.T) {
	g := newTestInstance(t)
	_, produced, err := g.PingCollect(pingmaker.PingType{Name: "metrics"})
	if err != nil {
		t.Fatalf("PingCollect: %v", err)
	}
	if produced {
		t.Fatal("expected no body for an empty, non-send-if-empty ping")
	}
}

func TestOnEventsThresholdQueuesTheNamedPingWhenRegistered(t *testing.T) {
	g := newTestInstance(t)
	g.RegisterPingType(pingmaker.PingType{Name: "events", SendIfEmpty: true})

	onFull := g.OnEventsThreshold()
	onFull("events")
	g.Fence()

	entries, err := os.ReadDir(filepath.Join(g.dataPath, "pending_pings"))
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected the events ping to have been queued, got %d pending pings", len(entries))
	}
}

func TestEventMetricReachingMaxEventsTriggersAPingSend(t *testing.T) {
	g := newTestInstance(t)
	g.RegisterPingType(pingmaker.PingType{Name: "metrics", SendIfEmpty: true})

	data := metricdata.New("tapped", "ui", []string{"metrics"}, metricdata.Ping, false)
	event := metrics.NewEvent(data, 1, g.OnEventsThreshold(), g.Engine(), g.Dispatcher(), g.Clock())
	event.Record(0, nil)
	g.Fence()
	// The threshold callback submits the ping send as a new task, queued
	// behind the first fence; a second fence waits for it.
	g.Fence()

	entries, err := os.ReadDir(filepath.Join(g.dataPath, "pending_pings"))
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected reaching maxEvents to queue a ping, got %d pending pings", len(entries))
	}
}
