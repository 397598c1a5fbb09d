package metrics

import (
	"time"

	"github.com/wlach/glean/dispatcher"
	"github.com/wlach/glean/internal/clock"
	"github.com/wlach/glean/metricdata"
	"github.com/wlach/glean/storage"
)

// newTestRig returns a fresh, ready-to-use storage engine and dispatcher
// for one test case, plus a fake clock started at a fixed instant.
func newTestRig() (*storage.Engine, *dispatcher.Dispatcher, *clock.Fake) {
	e := storage.New("", nil)
	d := dispatcher.New(nil)
	d.OnReady()
	fake := clock.NewFake(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	return e, d, fake
}

func testData(name string) metricdata.CommonMetricData {
	return metricdata.New(name, "ui", []string{"metrics"}, metricdata.Ping, false)
}
