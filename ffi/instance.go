// Package ffi is the Go-side implementation behind the cgo boundary
// described in spec.md §6. Every exported entry point in cmd/glean-ffi is a
// thin cgo shim: C string marshaling and ExternError-by-out-parameter
// plumbing live there, while the actual logic — resolving a handle,
// calling into package core or package metrics, translating a returned Go
// error into an ExternError — lives here so it can be unit tested without
// cgo at all.
package ffi

import (
	glean "github.com/wlach/glean/core"
	"github.com/wlach/glean/metricerr"
	"github.com/wlach/glean/metricval"
	"github.com/wlach/glean/pingmaker"
)

var instances = NewHandles[glean.Glean]()

// Initialize constructs a core instance and returns its handle
// (spec.md §6 "initialize").
func Initialize(cfg glean.Config) (Handle, *metricerr.ExternError) {
	g, err := glean.New(cfg)
	if err != nil {
		return 0, metricerr.New(metricerr.IoError, err)
	}
	return instances.Insert(g), nil
}

// Destroy shuts down and releases the instance behind handle. Destroying
// an unknown handle is a no-op (spec.md §6 invariant: "destroy is
// idempotent").
func Destroy(handle Handle) {
	if g, ok := instances.Get(handle); ok {
		g.Shutdown()
	}
	instances.Destroy(handle)
}

func resolveInstance(handle Handle) (*glean.Glean, *metricerr.ExternError) {
	g, ok := instances.Get(handle)
	if !ok {
		return nil, metricerr.Newf(metricerr.HandleError, "unknown glean instance handle %d", handle)
	}
	return g, nil
}

// OnReadyToSendPings lets deferred pings queued before initialization
// completed begin flowing (spec.md §6, §4.5).
func OnReadyToSendPings(handle Handle) *metricerr.ExternError {
	g, err := resolveInstance(handle)
	if err != nil {
		return err
	}
	g.OnReadyToSendPings()
	return nil
}

// IsUploadEnabled reports the instance's current upload-enabled flag.
func IsUploadEnabled(handle Handle) (bool, *metricerr.ExternError) {
	g, err := resolveInstance(handle)
	if err != nil {
		return false, err
	}
	return g.IsUploadEnabled(), nil
}

// SetUploadEnabled flips the instance's upload-enabled flag.
func SetUploadEnabled(handle Handle, enabled bool) *metricerr.ExternError {
	g, err := resolveInstance(handle)
	if err != nil {
		return err
	}
	g.SetUploadEnabled(enabled)
	return nil
}

// RegisterPingType registers ping with the instance.
func RegisterPingType(handle Handle, ping pingmaker.PingType) *metricerr.ExternError {
	g, err := resolveInstance(handle)
	if err != nil {
		return err
	}
	g.RegisterPingType(ping)
	return nil
}

// SendPingByName collects and queues the named ping, reporting whether a
// ping file was written.
func SendPingByName(handle Handle, name string) (bool, *metricerr.ExternError) {
	g, err := resolveInstance(handle)
	if err != nil {
		return false, err
	}
	wrote, sendErr := g.SendPingByName(name)
	if sendErr != nil {
		return false, metricerr.New(metricerr.StorageError, sendErr)
	}
	return wrote, nil
}

// SendPing collects and queues ping directly, reporting whether a ping file
// was written (spec.md §6 "send_ping").
func SendPing(handle Handle, ping pingmaker.PingType) (bool, *metricerr.ExternError) {
	g, err := resolveInstance(handle)
	if err != nil {
		return false, err
	}
	wrote, sendErr := g.SendPing(ping)
	if sendErr != nil {
		return false, metricerr.New(metricerr.StorageError, sendErr)
	}
	return wrote, nil
}

// PingCollect builds and returns ping's JSON body without queuing it
// (spec.md §6 "ping_collect"). The second return reports whether a body was
// produced at all (a ping with no data and send_if_empty=false produces
// none).
func PingCollect(handle Handle, ping pingmaker.PingType) (string, bool, *metricerr.ExternError) {
	g, err := resolveInstance(handle)
	if err != nil {
		return "", false, err
	}
	body, produced, collectErr := g.PingCollect(ping)
	if collectErr != nil {
		return "", false, metricerr.New(metricerr.StorageError, collectErr)
	}
	return body, produced, nil
}

// SetExperimentActive annotates experimentID as active.
func SetExperimentActive(handle Handle, experimentID, branch string, extra map[string]string) *metricerr.ExternError {
	g, err := resolveInstance(handle)
	if err != nil {
		return err
	}
	g.SetExperimentActive(experimentID, branch, extra)
	return nil
}

// SetExperimentInactive removes experimentID's annotation.
func SetExperimentInactive(handle Handle, experimentID string) *metricerr.ExternError {
	g, err := resolveInstance(handle)
	if err != nil {
		return err
	}
	g.SetExperimentInactive(experimentID)
	return nil
}

// ExperimentTestIsActive is the test-only reader for whether experimentID
// is active.
func ExperimentTestIsActive(handle Handle, experimentID string) (bool, *metricerr.ExternError) {
	g, err := resolveInstance(handle)
	if err != nil {
		return false, err
	}
	return g.TestIsExperimentActive(experimentID), nil
}

// ExperimentTestGetData is the test-only reader for experimentID's
// annotation.
func ExperimentTestGetData(handle Handle, experimentID string) (metricval.Experiment, bool, *metricerr.ExternError) {
	g, err := resolveInstance(handle)
	if err != nil {
		return metricval.Experiment{}, false, err
	}
	data, ok := g.TestGetExperimentData(experimentID)
	return data, ok, nil
}
