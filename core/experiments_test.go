package glean

import (
	"strings"
	"testing"
)

func TestSetExperimentActiveAndInactive(t *testing.T) {
	g := newTestInstance(t)

	if g.TestIsExperimentActive("exp-1") {
		t.Fatal("expected no experiment active before SetExperimentActive")
	}

	g.SetExperimentActive("exp-1", "branch-a", map[string]string{"k": "v"})
	if !g.TestIsExperimentActive("exp-1") {
		t.Fatal("expected exp-1 to be active")
	}
	data, ok := g.TestGetExperimentData("exp-1")
	if !ok {
		t.Fatal("expected experiment data to be present")
	}
	if data.Branch != "branch-a" || data.Extra["k"] != "v" {
		t.Errorf("unexpected experiment data: %+v", data)
	}

	g.SetExperimentInactive("exp-1")
	if g.TestIsExperimentActive("exp-1") {
		t.Fatal("expected exp-1 to be inactive after SetExperimentInactive")
	}
}

func TestSetExperimentActiveTruncatesBranch(t *testing.T) {
	g := newTestInstance(t)
	long := strings.Repeat("a", 150)

	g.SetExperimentActive("exp-1", long, nil)
	data, ok := g.TestGetExperimentData("exp-1")
	if !ok {
		t.Fatal("expected experiment data to be present")
	}
	if len(data.Branch) != 100 {
		t.Errorf("expected branch truncated to 100 bytes, got %d", len(data.Branch))
	}
}

func TestSetExperimentActiveCapsAtMaxActive(t *testing.T) {
	g := newTestInstance(t)

	for i := 0; i < maxActiveExperiments+5; i++ {
		g.SetExperimentActive(experimentName(i), "branch", nil)
	}
	g.Fence()

	count := 0
	for i := 0; i < maxActiveExperiments+5; i++ {
		if g.TestIsExperimentActive(experimentName(i)) {
			count++
		}
	}
	if count != maxActiveExperiments {
		t.Errorf("expected exactly %d active experiments, got %d", maxActiveExperiments, count)
	}
}

func experimentName(i int) string {
	return "exp-" + string(rune('a'+i%26)) + string(rune(i))
}
