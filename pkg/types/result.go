package types

import "time"

// NodeStatus is the terminal state of one node execution.
type NodeStatus string

const (
	StatusSuccess   NodeStatus = "Success"
	StatusFailed    NodeStatus = "Failed"
	StatusTimeout   NodeStatus = "Timeout"
	StatusException NodeStatus = "Exception"
)

// NodeResult records one node's execution outcome. Output holds the
// normalized engine output on success; Diagnostic holds the engine's error
// text otherwise.
type NodeResult struct {
	ID         string        `json:"id"`
	Status     NodeStatus    `json:"status"`
	Output     string        `json:"output,omitempty"`
	Diagnostic string        `json:"diagnostic,omitempty"`
	StartedAt  time.Time     `json:"startedAt"`
	EndedAt    time.Time     `json:"endedAt"`
	Duration   time.Duration `json:"duration"`
}

// RunReport is the run-level outcome surface. Results are in completion
// arrival order; results collected before a failure are retained.
type RunReport struct {
	Workflow   string        `json:"workflow"`
	RunID      string        `json:"runId"`
	Completed  bool          `json:"completed"`
	FailedNode string        `json:"failedNode,omitempty"`
	Results    []NodeResult  `json:"results"`
	WallTime   time.Duration `json:"wallTime"`
}

// Result returns the recorded result for a node id, or nil.
func (r *RunReport) Result(id string) *NodeResult {
	for i := range r.Results {
		if r.Results[i].ID == id {
			return &r.Results[i]
		}
	}
	return nil
}
