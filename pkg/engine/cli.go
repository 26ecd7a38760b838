package engine

import (
	"context"

	"github.com/openinfer/pieflow/pkg/exec"
)

// DefaultBinary is the engine CLI looked up on PATH when no binary is
// configured.
const DefaultBinary = "pie-cli"

// CLIClient submits tasks through the engine's command line client:
//
//	pie-cli submit <artifact> -- --input <json>
//
// The CLI connects to a running `pie serve` instance and streams the agent's
// output to stdout.
type CLIClient struct {
	Binary    string
	MaxOutput int
}

// Submit runs one engine invocation to completion under ctx.
func (c *CLIClient) Submit(ctx context.Context, task Task) (*RawResult, error) {
	binary := c.Binary
	if binary == "" {
		binary = DefaultBinary
	}

	runner := &exec.Runner{
		MaxOutput: c.MaxOutput,
		// Keep the engine client's own logging out of the agent output.
		Env: map[string]string{"RUST_LOG": "error"},
	}

	res, err := runner.Run(ctx, binary, "submit", task.Artifact, "--", "--input", string(task.Input))
	if err != nil {
		return nil, err
	}
	return &RawResult{Stdout: res.Stdout, Stderr: res.Stderr, Code: res.Code}, nil
}
