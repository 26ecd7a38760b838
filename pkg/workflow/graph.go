package workflow

import "github.com/openinfer/pieflow/pkg/types"

// IDSet is a set of node ids.
type IDSet map[string]struct{}

// NewIDSet builds a set from ids.
func NewIDSet(ids ...string) IDSet {
	s := make(IDSet, len(ids))
	for _, id := range ids {
		s[id] = struct{}{}
	}
	return s
}

// Graph is the read-only dependency view over a workflow. Readiness is a
// pure function of the caller's pending/completed sets so the scheduler can
// re-evaluate it cheaply after every completion event.
type Graph struct {
	wf *types.Workflow
}

// NewGraph builds the dependency view for a workflow.
func NewGraph(wf *types.Workflow) *Graph {
	return &Graph{wf: wf}
}

// Ready returns the pending node ids whose dependencies are all completed,
// in workflow declaration order. A node with no dependencies is ready
// immediately; a node referencing an id that never completes is simply never
// returned — the scheduler turns that into a deadlock report.
func (g *Graph) Ready(pending, completed IDSet) []string {
	var ready []string
	for i := range g.wf.Nodes {
		n := &g.wf.Nodes[i]
		if _, ok := pending[n.ID]; !ok {
			continue
		}
		if allIn(n.Dependencies, completed) {
			ready = append(ready, n.ID)
		}
	}
	return ready
}

// Unmet maps each pending node id to the dependency ids keeping it from
// becoming ready. Used to name culprits in deadlock reports.
func (g *Graph) Unmet(pending, completed IDSet) map[string][]string {
	unmet := make(map[string][]string)
	for i := range g.wf.Nodes {
		n := &g.wf.Nodes[i]
		if _, ok := pending[n.ID]; !ok {
			continue
		}
		var missing []string
		for _, dep := range n.Dependencies {
			if _, done := completed[dep]; !done {
				missing = append(missing, dep)
			}
		}
		if len(missing) > 0 {
			unmet[n.ID] = missing
		}
	}
	return unmet
}

// Empty reports whether the run is finished: nothing pending, nothing in
// flight.
func Empty(pending, running IDSet) bool {
	return len(pending) == 0 && len(running) == 0
}

func allIn(ids []string, set IDSet) bool {
	for _, id := range ids {
		if _, ok := set[id]; !ok {
			return false
		}
	}
	return true
}
