package metrics

import (
	"regexp"
	"sync"

	"github.com/wlach/glean/dispatcher"
	"github.com/wlach/glean/internal/clock"
	"github.com/wlach/glean/metricdata"
	"github.com/wlach/glean/metricerr"
	"github.com/wlach/glean/storage"
)

// maxDistinctLabels caps how many distinct labels one Labeled metric will
// track; the 17th distinct label (and every invalid label) is folded into
// otherLabel (spec.md §4.2).
const maxDistinctLabels = 16

// otherLabel is the sentinel every invalid or overflowing label maps to.
const otherLabel = "__other__"

// labelGrammar is the regular-language rule a label must satisfy to be
// tracked under its own identifier (spec.md §4.2).
var labelGrammar = regexp.MustCompile(`^[a-z_][a-z0-9_-]{0,29}(\.[a-z_][a-z0-9_-]{0,29})*$`)

// LabeledFactory builds the per-label sub-metric of kind T for a given
// CommonMetricData whose identifier already encodes "category.name/label".
type LabeledFactory[T any] func(data metricdata.CommonMetricData) T

// Labeled adapts any metric kind T into a family of per-label sub-metrics
// (spec.md §4.2, "Labeled metric (adapter)"). Get is safe for concurrent
// use from any thread; it performs no storage I/O itself — it only
// allocates/validates the label and then returns the sub-metric, whose own
// recording verbs go through the dispatcher exactly as an unlabeled
// metric's would.
type Labeled[T any] struct {
	data       metricdata.CommonMetricData
	factory    LabeledFactory[T]
	engine     *storage.Engine
	dispatcher *dispatcher.Dispatcher
	clock      clock.Clock

	mu   sync.Mutex
	seen map[string]struct{}
}

// NewLabeled constructs a Labeled adapter over factory, which must build a
// sub-metric of the wrapped inner kind.
func NewLabeled[T any](data metricdata.CommonMetricData, factory LabeledFactory[T], engine *storage.Engine, d *dispatcher.Dispatcher, clk clock.Clock) *Labeled[T] {
	return &Labeled[T]{
		data:       data,
		factory:    factory,
		engine:     engine,
		dispatcher: d,
		clock:      clk,
		seen:       map[string]struct{}{},
	}
}

// Get returns the sub-metric for label, substituting the otherLabel
// sentinel (and recording InvalidLabel) if label fails the label grammar
// or the metric has already seen maxDistinctLabels other distinct labels.
func (l *Labeled[T]) Get(label string) T {
	resolved := l.resolve(label)
	labeledData := l.data
	labeledData.Name = l.data.Name + "/" + resolved
	return l.factory(labeledData)
}

func (l *Labeled[T]) resolve(label string) string {
	if !labelGrammar.MatchString(label) {
		l.recordInvalidLabel()
		return otherLabel
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.seen[label]; ok {
		return label
	}
	if len(l.seen) >= maxDistinctLabels {
		l.recordInvalidLabelLocked()
		return otherLabel
	}
	l.seen[label] = struct{}{}
	return label
}

func (l *Labeled[T]) recordInvalidLabel() {
	l.dispatcher.Submit(func() {
		newBase(l.data, "", l.engine, l.dispatcher, l.clock).recordError(metricerr.InvalidLabel)
	})
}

func (l *Labeled[T]) recordInvalidLabelLocked() {
	l.recordInvalidLabel()
}
