// Package glean implements the core instance described in spec.md §4.4:
// lifecycle, the upload-enabled flag, the ping registry, experiment
// annotations, and dispatch of recording through the single-writer
// dispatcher. It is the object every FFI handle and every metric kind
// ultimately talks to.
package glean

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/wlach/glean/dispatcher"
	"github.com/wlach/glean/internal/clock"
	"github.com/wlach/glean/internal/idgen"
	"github.com/wlach/glean/metricdata"
	"github.com/wlach/glean/metrics"
	"github.com/wlach/glean/metricval"
	"github.com/wlach/glean/pingmaker"
	"github.com/wlach/glean/storage"
)

// deletionRequestPing is the internally-registered ping submitted whenever
// upload is disabled (spec.md §4.4, §8 scenario 6).
const deletionRequestPing = "deletion-request"

// maxActiveExperiments caps simultaneously active experiment annotations
// (spec.md §4.4).
const maxActiveExperiments = 100

// Config configures a new core instance (spec.md §4.4 "new").
type Config struct {
	DataPath          string
	ApplicationID     string
	UploadEnabled     bool
	TelemetrySDKBuild string
	// MaxEventsPerPing overrides the Event kind's default flush threshold
	// (SPEC_FULL.md §4.2 expansion); 0 means metrics.DefaultMaxEvents.
	MaxEventsPerPing int
	Logger           log.Logger
}

// Glean is the core instance. Construct with New.
type Glean struct {
	applicationID     string
	dataPath          string
	telemetrySDKBuild string
	maxEventsPerPing  int
	logger            log.Logger

	engine     *storage.Engine
	dispatcher *dispatcher.Dispatcher
	clock      clock.Clock
	ids        idgen.Source
	maker      *pingmaker.Maker

	uploadEnabled atomic.Bool
	storageErrors atomic.Uint64

	pingsMu sync.RWMutex
	pings   map[string]pingmaker.PingType

	experimentsMu sync.Mutex
	experiments   map[string]metricval.Experiment

	registry *metricRegistry
}

// clientInfoKey is the reserved storage key client_id lives under: a User
// lifetime value outside any single ping's store, so it survives restarts
// and can be read by every ping regardless of which stores the host
// actually declares.
var clientInfoKey = storage.Key{
	Lifetime:   metricdata.User,
	Store:      "__client_info__",
	Type:       metricval.TypeUUID,
	Identifier: "client_id",
}

// New constructs a core instance: it creates the data directories, loads
// persisted state, clears Application-lifetime data (spec.md §3), and —
// if upload is disabled at startup — clears all stored data too (spec.md
// §4.4 "new").
func New(cfg Config) (*Glean, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = log.NewNopLogger()
	}
	for _, dir := range []string{cfg.DataPath, filepath.Join(cfg.DataPath, "db"), filepath.Join(cfg.DataPath, "pending_pings"), filepath.Join(cfg.DataPath, "events")} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("glean: creating %s: %w", dir, err)
		}
	}

	engine := storage.New(filepath.Join(cfg.DataPath, "db", "glean.db"), logger)
	engine.ClearLifetime(metricdata.Application)
	clk := clock.New()
	ids := idgen.New()

	g := &Glean{
		applicationID:     cfg.ApplicationID,
		dataPath:          cfg.DataPath,
		telemetrySDKBuild: cfg.TelemetrySDKBuild,
		maxEventsPerPing:  cfg.MaxEventsPerPing,
		logger:            logger,
		engine:            engine,
		dispatcher:        dispatcher.New(logger),
		clock:             clk,
		ids:               ids,
		maker:             pingmaker.New(engine, clk, ids, cfg.DataPath),
		pings:             map[string]pingmaker.PingType{},
		experiments:       map[string]metricval.Experiment{},
		registry:          newMetricRegistry(),
	}
	g.RegisterPingType(pingmaker.PingType{Name: deletionRequestPing, SendIfEmpty: true})

	g.uploadEnabled.Store(cfg.UploadEnabled)
	if !cfg.UploadEnabled {
		engine.ClearAll()
	} else if _, ok := engine.SnapshotMetric(clientInfoKey); !ok {
		engine.Record(clientInfoKey, func(metricval.Value, bool) metricval.Value {
			return metricval.UUID(ids.NewV4())
		})
	}

	return g, nil
}

// ApplicationID returns the application ID this instance was constructed
// with.
func (g *Glean) ApplicationID() string { return g.applicationID }

// Dispatcher exposes the single-writer dispatcher metric kinds are
// constructed against.
func (g *Glean) Dispatcher() *dispatcher.Dispatcher { return g.dispatcher }

// Engine exposes the storage engine metric kinds are constructed against.
func (g *Glean) Engine() *storage.Engine { return g.engine }

// Clock exposes the clock metric kinds are constructed against.
func (g *Glean) Clock() clock.Clock { return g.clock }

// IDSource exposes the UUID source Uuid metrics and doc_id generation use.
func (g *Glean) IDSource() idgen.Source { return g.ids }

// MaxEventsPerPing returns the configured Event flush threshold, or 0 to
// mean "use metrics.DefaultMaxEvents".
func (g *Glean) MaxEventsPerPing() int { return g.maxEventsPerPing }

// OnReadyToSendPings signals that deferred pings queued before
// initialization completed may now flow (spec.md §4.4, §4.5).
func (g *Glean) OnReadyToSendPings() {
	g.dispatcher.OnReady()
}

// IsUploadEnabled reports the current upload-enabled flag. It is a plain
// atomic load, readable from any thread without going through the
// dispatcher (spec.md §5, "the upload-enabled flag is atomic").
func (g *Glean) IsUploadEnabled() bool {
	return g.uploadEnabled.Load()
}

// SetUploadEnabled transitions the upload-enabled flag (spec.md §4.4). The
// flag itself flips immediately and atomically; the heavier
// erase/submit/regenerate work for the transition is submitted to the
// dispatcher so it serializes with every other recording/ping operation.
func (g *Glean) SetUploadEnabled(enabled bool) {
	was := g.uploadEnabled.Swap(enabled)
	if was == enabled {
		return
	}
	if !enabled {
		g.dispatcher.Submit(func() {
			g.engine.ClearAll()
			g.engine.Clear(clientInfoKey)
			g.experimentsMu.Lock()
			g.experiments = map[string]metricval.Experiment{}
			g.experimentsMu.Unlock()
			if _, _, err := g.sendPingByNameLocked(deletionRequestPing); err != nil {
				level.Error(g.logger).Log("msg", "failed to queue deletion-request ping", "err", err)
				g.storageErrors.Add(1)
			}
		})
		return
	}
	g.dispatcher.Submit(func() {
		g.engine.Record(clientInfoKey, func(metricval.Value, bool) metricval.Value {
			return metricval.UUID(g.ids.NewV4())
		})
	})
}

// RegisterPingType registers a ping so SendPingByName can resolve it.
func (g *Glean) RegisterPingType(ping pingmaker.PingType) {
	g.pingsMu.Lock()
	defer g.pingsMu.Unlock()
	g.pings[ping.Name] = ping
}

// GetPingByName returns the registered ping named name, if any.
func (g *Glean) GetPingByName(name string) (pingmaker.PingType, bool) {
	g.pingsMu.RLock()
	defer g.pingsMu.RUnlock()
	p, ok := g.pings[name]
	return p, ok
}

// SendPingByName collects and queues the named ping, returning true if a
// ping file was written (spec.md §4.4). It blocks until the dispatcher has
// processed the send, since the result is part of its contract.
func (g *Glean) SendPingByName(name string) (bool, error) {
	var wrote bool
	var sendErr error
	g.doSync(func() {
		wrote, _, sendErr = g.sendPingByNameLocked(name)
	})
	return wrote, sendErr
}

// SendPing collects and queues ping directly, without resolving it from
// the ping registry first — spec.md §6 "send_ping", as distinct from
// send_ping_by_name which looks up a previously registered ping by name.
func (g *Glean) SendPing(ping pingmaker.PingType) (bool, error) {
	var wrote bool
	var sendErr error
	g.doSync(func() {
		wrote, _, sendErr = g.sendPingLocked(ping)
	})
	return wrote, sendErr
}

// PingCollect builds and returns ping's JSON body without queuing it for
// upload (spec.md §6 "ping_collect"): the same metric snapshot and
// Ping-lifetime clear collection performs, but nothing is written to the
// pending-pings directory.
func (g *Glean) PingCollect(ping pingmaker.PingType) (string, bool, error) {
	var body []byte
	var produced bool
	var collectErr error
	g.doSync(func() {
		body, produced, collectErr = g.collectLocked(ping)
	})
	return string(body), produced, collectErr
}

// sendPingByNameLocked performs one send, assuming it is already running
// on the dispatcher's worker goroutine.
func (g *Glean) sendPingByNameLocked(name string) (wrote bool, docID string, err error) {
	ping, ok := g.GetPingByName(name)
	if !ok {
		return false, "", fmt.Errorf("glean: unknown ping %q", name)
	}
	return g.sendPingLocked(ping)
}

// collectLocked builds ping's JSON body, assuming it is already running on
// the dispatcher's worker goroutine.
func (g *Glean) collectLocked(ping pingmaker.PingType) (body []byte, produced bool, err error) {
	clientInfo := pingmaker.ClientInfo{
		TelemetrySDKBuild: g.telemetrySDKBuild,
		AppFields:         map[string]interface{}{"app_id": g.applicationID},
	}
	if v, ok := g.engine.SnapshotMetric(clientInfoKey); ok {
		id := uuid.UUID(v.(metricval.UUID))
		clientInfo.ClientID = &id
	}

	g.experimentsMu.Lock()
	experiments := make(map[string]metricval.Experiment, len(g.experiments))
	for k, v := range g.experiments {
		experiments[k] = v
	}
	g.experimentsMu.Unlock()

	return g.maker.Collect(ping, clientInfo, experiments)
}

// sendPingLocked collects ping and, if it produced a body, writes and
// persists it, assuming it is already running on the dispatcher's worker
// goroutine.
func (g *Glean) sendPingLocked(ping pingmaker.PingType) (wrote bool, docID string, err error) {
	body, produced, err := g.collectLocked(ping)
	if err != nil {
		return false, "", err
	}
	if !produced {
		return false, "", nil
	}

	docID = g.maker.NewDocID()
	if err := g.maker.StorePing(docID, body); err != nil {
		return false, "", err
	}
	if err := g.engine.Persist(); err != nil {
		g.storageErrors.Add(1)
		level.Error(g.logger).Log("msg", "failed to persist storage after ping collection", "err", err)
	}
	return true, docID, nil
}

// OnEventsThreshold returns the callback every Event metric is constructed
// with: when one store's vector reaches max_events, the instance requests
// that store's ping be sent (spec.md §4.2). The request is submitted to the
// dispatcher rather than sent with SendPingByName's synchronous doSync,
// since Event.Record itself runs as a task on the dispatcher's single
// worker goroutine — blocking that goroutine on a task it would itself have
// to drain to unblock would deadlock.
func (g *Glean) OnEventsThreshold() metrics.OnEventsThreshold {
	return func(store string) {
		g.dispatcher.Submit(func() {
			if _, _, err := g.sendPingByNameLocked(store); err != nil {
				level.Error(g.logger).Log("msg", "failed to send ping after reaching max_events", "ping", store, "err", err)
			}
		})
	}
}

// doSync runs fn on the dispatcher's worker goroutine and blocks until it
// completes, the same synchronous happens-before pattern Fence uses.
func (g *Glean) doSync(fn func()) {
	done := make(chan struct{})
	g.dispatcher.Submit(func() {
		fn()
		close(done)
	})
	<-done
}

// Fence blocks until every task submitted before it has completed, for
// test-only readers composed outside any single metric kind.
func (g *Glean) Fence() {
	g.dispatcher.Fence()
}

// Shutdown persists storage and stops the dispatcher.
func (g *Glean) Shutdown() {
	g.dispatcher.Shutdown()
	if err := g.engine.Persist(); err != nil {
		level.Error(g.logger).Log("msg", "failed to persist storage on shutdown", "err", err)
	}
}

// Collector returns the self-instrumentation prometheus.Collector
// (SPEC_FULL.md §4.4 expansion): internal health gauges/counters for the
// host process's own metrics registry, never part of a ping payload.
func (g *Glean) Collector() prometheus.Collector {
	return newSelfCollector(g)
}
