// Package report renders scheduler progress and the post-run summary for
// the console. It consumes the run outcome surface; it never touches
// scheduler state.
package report

import (
	"fmt"
	"io"
	"sort"
	"text/tabwriter"

	"github.com/openinfer/pieflow/pkg/types"
)

// Console streams per-node progress lines as events arrive and prints a
// summary table after the run.
type Console struct {
	Out io.Writer
	// Preview truncates streamed node outputs; 0 means print in full.
	Preview int
}

// NodeSubmitted implements scheduler.Events.
func (c *Console) NodeSubmitted(id string) {
	fmt.Fprintf(c.Out, "➤ [Start] %s\n", id)
}

// NodeFinished implements scheduler.Events.
func (c *Console) NodeFinished(res *types.NodeResult) {
	switch res.Status {
	case types.StatusSuccess:
		fmt.Fprintf(c.Out, "✅ [Done] %s (%.2fs)\n", res.ID, res.Duration.Seconds())
		if res.Output != "" {
			fmt.Fprintf(c.Out, "   >> %s\n", c.preview(res.Output))
		}
	case types.StatusTimeout:
		fmt.Fprintf(c.Out, "⏰ [Timeout] %s (%.2fs)\n", res.ID, res.Duration.Seconds())
	default:
		fmt.Fprintf(c.Out, "❌ [%s] %s: %s\n", res.Status, res.ID, res.Diagnostic)
	}
}

func (c *Console) preview(s string) string {
	if c.Preview <= 0 || len(s) <= c.Preview {
		return s
	}
	return s[:c.Preview] + "..."
}

// Summary prints the per-node table and total wall time for a finished run.
func (c *Console) Summary(rep *types.RunReport) {
	fmt.Fprintf(c.Out, "\nWorkflow Execution Summary: %s\n", rep.Workflow)
	fmt.Fprintf(c.Out, "Run ID: %s\n\n", rep.RunID)

	results := make([]types.NodeResult, len(rep.Results))
	copy(results, rep.Results)
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].StartedAt.Before(results[j].StartedAt)
	})

	w := tabwriter.NewWriter(c.Out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NODE\tSTART\tEND\tDURATION\tSTATUS")
	for _, res := range results {
		fmt.Fprintf(w, "%s\t%s\t%s\t%.2fs\t%s\n",
			res.ID,
			res.StartedAt.Format("15:04:05"),
			res.EndedAt.Format("15:04:05"),
			res.Duration.Seconds(),
			res.Status,
		)
	}
	w.Flush()

	fmt.Fprintf(c.Out, "\nTotal Wall-clock Time: %.2fs\n", rep.WallTime.Seconds())
	if rep.Completed {
		fmt.Fprintln(c.Out, "=== Workflow Completed Successfully! ===")
	} else if rep.FailedNode != "" {
		fmt.Fprintf(c.Out, "=== Workflow Aborted (failed node: %s) ===\n", rep.FailedNode)
	}
}
