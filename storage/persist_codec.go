package storage

import (
	"encoding/gob"

	"github.com/wlach/glean/metricval"
)

// gob needs every concrete type that will cross an interface boundary
// (metricval.Value here) registered up front, the same way
// DiskMetricStore relies on encoding/gob's built-in knowledge of
// *dto.MetricFamily — our union has no single concrete wire type, so each
// variant is registered explicitly.
func init() {
	gob.Register(metricval.Boolean(false))
	gob.Register(metricval.Counter(0))
	gob.Register(metricval.String(""))
	gob.Register(metricval.StringList(nil))
	gob.Register(metricval.UUID{})
	gob.Register(metricval.Datetime{})
	gob.Register(metricval.Timespan{})
	gob.Register(metricval.TimingDistribution{})
	gob.Register(metricval.Event(nil))
}
