package glean

import "github.com/wlach/glean/metricval"

// SetExperimentActive annotates experimentID as active with branch and
// extra, truncating branch per invariant 5 (spec.md §4.4). Once
// maxActiveExperiments distinct experiments are active, further
// annotations are dropped rather than silently evicting an existing one.
func (g *Glean) SetExperimentActive(experimentID, branch string, extra map[string]string) {
	truncatedBranch, _ := metricval.TruncateUTF8(branch, metricval.MaxStringBytes)
	g.dispatcher.Submit(func() {
		g.experimentsMu.Lock()
		defer g.experimentsMu.Unlock()
		if _, active := g.experiments[experimentID]; !active && len(g.experiments) >= maxActiveExperiments {
			return
		}
		g.experiments[experimentID] = metricval.Experiment{Branch: truncatedBranch, Extra: extra}
	})
}

// SetExperimentInactive removes experimentID's annotation, if any
// (spec.md §4.4).
func (g *Glean) SetExperimentInactive(experimentID string) {
	g.dispatcher.Submit(func() {
		g.experimentsMu.Lock()
		defer g.experimentsMu.Unlock()
		delete(g.experiments, experimentID)
	})
}

// TestIsExperimentActive is the test-only reader for whether experimentID
// is currently annotated active. It fences the dispatcher first so every
// prior annotation call is guaranteed visible.
func (g *Glean) TestIsExperimentActive(experimentID string) bool {
	g.dispatcher.Fence()
	g.experimentsMu.Lock()
	defer g.experimentsMu.Unlock()
	_, ok := g.experiments[experimentID]
	return ok
}

// TestGetExperimentData is the test-only reader for experimentID's
// annotation.
func (g *Glean) TestGetExperimentData(experimentID string) (metricval.Experiment, bool) {
	g.dispatcher.Fence()
	g.experimentsMu.Lock()
	defer g.experimentsMu.Unlock()
	e, ok := g.experiments[experimentID]
	return e, ok
}
