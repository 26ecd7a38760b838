package workflow

import (
	"fmt"
	"strings"

	"github.com/openinfer/pieflow/pkg/types"
)

// Validate checks dependency references eagerly: every dependency id must
// name a node in the same workflow, no node may depend on itself, and the
// graph must be acyclic.
//
// The scheduler does not require this pass — an unresolvable graph surfaces
// as a deadlock report at run time — but validating up front gives the exact
// culprit before any engine call is made.
func Validate(wf *types.Workflow) error {
	ids := NewIDSet(wf.IDs()...)

	var problems []string
	for i := range wf.Nodes {
		n := &wf.Nodes[i]
		for _, dep := range n.Dependencies {
			if dep == n.ID {
				problems = append(problems, fmt.Sprintf("node %q depends on itself", n.ID))
				continue
			}
			if _, ok := ids[dep]; !ok {
				problems = append(problems, fmt.Sprintf("node %q depends on unknown node %q", n.ID, dep))
			}
		}
	}

	if cycle := findCycle(wf); len(cycle) > 0 {
		problems = append(problems, fmt.Sprintf("dependency cycle: %s", strings.Join(cycle, " -> ")))
	}

	if len(problems) > 0 {
		return fmt.Errorf("workflow %s: %s", wf.Name, strings.Join(problems, "; "))
	}
	return nil
}

// findCycle runs a DFS over the dependency edges and returns one cycle as a
// node id path, or nil. Unknown dependency ids are skipped here; they are
// reported separately.
func findCycle(wf *types.Workflow) []string {
	const (
		white = 0
		grey  = 1
		black = 2
	)
	color := make(map[string]int, len(wf.Nodes))

	var stack []string
	var cycle []string

	var visit func(id string) bool
	visit = func(id string) bool {
		color[id] = grey
		stack = append(stack, id)
		n := wf.Node(id)
		for _, dep := range n.Dependencies {
			if wf.Node(dep) == nil {
				continue
			}
			switch color[dep] {
			case white:
				if visit(dep) {
					return true
				}
			case grey:
				for i, s := range stack {
					if s == dep {
						cycle = append(append(cycle, stack[i:]...), dep)
						return true
					}
				}
			}
		}
		stack = stack[:len(stack)-1]
		color[id] = black
		return false
	}

	for _, id := range wf.IDs() {
		if color[id] == white && visit(id) {
			return cycle
		}
	}
	return nil
}
