// Package workflow loads workflow documents and answers readiness questions
// over their dependency graphs.
package workflow

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/openinfer/pieflow/pkg/types"
)

// Load reads a workflow document from path. Documents may be YAML or JSON;
// YAML is a superset of JSON, so both parse through the same decoder.
//
// Load rejects structural problems (missing ids, duplicate ids, missing
// images) but does not check dependency references; see Validate.
func Load(path string) (*types.Workflow, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve workflow path: %w", err)
	}

	data, err := os.ReadFile(abs)
	if err != nil {
		return nil, fmt.Errorf("read workflow: %w", err)
	}

	var wf types.Workflow
	if err := yaml.Unmarshal(data, &wf); err != nil {
		return nil, fmt.Errorf("parse workflow: %w", err)
	}

	if wf.Name == "" {
		wf.Name = filepath.Base(abs)
	}
	if len(wf.Nodes) == 0 {
		return nil, fmt.Errorf("workflow %s has no nodes", wf.Name)
	}

	seen := make(map[string]struct{}, len(wf.Nodes))
	for i := range wf.Nodes {
		n := &wf.Nodes[i]
		if n.ID == "" {
			return nil, fmt.Errorf("workflow %s: node %d has no id", wf.Name, i)
		}
		if _, dup := seen[n.ID]; dup {
			return nil, fmt.Errorf("workflow %s: duplicate node id %q", wf.Name, n.ID)
		}
		seen[n.ID] = struct{}{}
		if n.Image == "" {
			return nil, fmt.Errorf("workflow %s: node %q has no image", wf.Name, n.ID)
		}
	}

	wf.Dir = filepath.Dir(abs)
	return &wf, nil
}
