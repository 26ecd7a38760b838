// Package engine talks to the external inference engine: building task
// payloads, submitting them, and cleaning the raw output it returns.
package engine

import "context"

// Task is one unit of work handed to the engine.
type Task struct {
	// TaskID namespaces the node under the current run so concurrent runs
	// over the same workflow do not collide inside the engine.
	TaskID string
	// Artifact is the absolute path of the agent image to submit.
	Artifact string
	// Input is the JSON payload passed to the agent.
	Input []byte
}

// RawResult is the engine's unprocessed response.
type RawResult struct {
	Stdout string
	Stderr string
	Code   int
}

// Client submits one task and returns one result. This is the only seam the
// scheduler needs; tests substitute a fake.
type Client interface {
	Submit(ctx context.Context, task Task) (*RawResult, error)
}
