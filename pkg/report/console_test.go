package report

import (
	"strings"
	"testing"
	"time"

	"github.com/openinfer/pieflow/pkg/types"
)

func sampleReport() *types.RunReport {
	base := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	return &types.RunReport{
		Workflow:  "newsroom",
		RunID:     "run_ab12cd34",
		Completed: true,
		WallTime:  3 * time.Second,
		Results: []types.NodeResult{
			{ID: "editor", Status: types.StatusSuccess, StartedAt: base.Add(time.Second), EndedAt: base.Add(3 * time.Second), Duration: 2 * time.Second},
			{ID: "reporter", Status: types.StatusSuccess, StartedAt: base, EndedAt: base.Add(time.Second), Duration: time.Second},
		},
	}
}

func TestSummaryTable(t *testing.T) {
	t.Parallel()

	var buf strings.Builder
	c := &Console{Out: &buf}
	c.Summary(sampleReport())
	out := buf.String()

	for _, want := range []string{"newsroom", "run_ab12cd34", "reporter", "editor", "Total Wall-clock Time: 3.00s", "Completed Successfully"} {
		if !strings.Contains(out, want) {
			t.Fatalf("summary missing %q:\n%s", want, out)
		}
	}
	// Rows are ordered by start time.
	if strings.Index(out, "reporter") > strings.Index(out, "editor") {
		t.Fatalf("expected reporter row before editor row:\n%s", out)
	}
}

func TestSummaryNamesFailedNode(t *testing.T) {
	t.Parallel()

	rep := sampleReport()
	rep.Completed = false
	rep.FailedNode = "editor"

	var buf strings.Builder
	c := &Console{Out: &buf}
	c.Summary(rep)
	if !strings.Contains(buf.String(), "failed node: editor") {
		t.Fatalf("expected aborted banner naming editor:\n%s", buf.String())
	}
}

func TestProgressLines(t *testing.T) {
	t.Parallel()

	var buf strings.Builder
	c := &Console{Out: &buf, Preview: 5}

	c.NodeSubmitted("reporter")
	c.NodeFinished(&types.NodeResult{ID: "reporter", Status: types.StatusSuccess, Output: "a very long output", Duration: time.Second})
	c.NodeFinished(&types.NodeResult{ID: "editor", Status: types.StatusFailed, Diagnostic: "engine said no"})
	c.NodeFinished(&types.NodeResult{ID: "laggard", Status: types.StatusTimeout})

	out := buf.String()
	for _, want := range []string{"➤ [Start] reporter", "✅ [Done] reporter", "a ver...", "❌ [Failed] editor: engine said no", "⏰ [Timeout] laggard"} {
		if !strings.Contains(out, want) {
			t.Fatalf("progress output missing %q:\n%s", want, out)
		}
	}
}
