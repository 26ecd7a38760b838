package engine

import (
	"encoding/json"
	"fmt"

	"github.com/openinfer/pieflow/pkg/types"
)

// TaskID derives the engine-facing identifier for a node within a run. The
// same derivation applied to a dependency id yields that dependency's task
// id, which is how the engine correlates lineage across tasks.
func TaskID(runID, nodeID string) string {
	return runID + "_" + nodeID
}

// PayloadBuilder constructs the JSON input handed to an agent. Two wire
// shapes exist: lineage-based, where the agent fetches its parents' outputs
// from the engine by task id, and content-passing, where resolved upstream
// outputs are embedded directly.
type PayloadBuilder interface {
	Build(runID string, node *types.Node, upstream map[string]string) ([]byte, error)
}

// Payload modes accepted by ForMode.
const (
	ModeLineage = "lineage"
	ModeContent = "content"
)

// ForMode returns the builder for a configured payload mode.
func ForMode(mode string) (PayloadBuilder, error) {
	switch mode {
	case ModeLineage:
		return LineagePayload{}, nil
	case ModeContent, "":
		return ContentPayload{}, nil
	default:
		return nil, fmt.Errorf("unknown payload mode %q", mode)
	}
}

// LineagePayload sends the node's task id, its parents' task ids, and the
// free-text instruction. The engine resolves parent outputs itself.
type LineagePayload struct{}

func (LineagePayload) Build(runID string, node *types.Node, _ map[string]string) ([]byte, error) {
	parents := make([]string, 0, len(node.Dependencies))
	for _, dep := range node.Dependencies {
		parents = append(parents, TaskID(runID, dep))
	}
	return json.Marshal(struct {
		TaskID        string   `json:"task_id"`
		ParentTaskIDs []string `json:"parent_task_ids"`
		Prompt        string   `json:"prompt"`
	}{
		TaskID:        TaskID(runID, node.ID),
		ParentTaskIDs: parents,
		Prompt:        node.Instruction,
	})
}

// ContentPayload embeds the node's config and the resolved upstream outputs
// directly in the agent input.
type ContentPayload struct{}

func (ContentPayload) Build(runID string, node *types.Node, upstream map[string]string) ([]byte, error) {
	ctx := node.Config
	if ctx == nil {
		ctx = map[string]string{}
	}
	if upstream == nil {
		upstream = map[string]string{}
	}
	return json.Marshal(struct {
		RunID           string            `json:"run_id"`
		NodeID          string            `json:"node_id"`
		InputContext    map[string]string `json:"input_context"`
		UpstreamResults map[string]string `json:"upstream_results"`
	}{
		RunID:           runID,
		NodeID:          node.ID,
		InputContext:    ctx,
		UpstreamResults: upstream,
	})
}
