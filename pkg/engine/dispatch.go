package engine

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/openinfer/pieflow/pkg/exec"
	"github.com/openinfer/pieflow/pkg/types"
)

// ErrArtifactNotFound reports a node whose image path does not exist. The
// check happens before the engine is invoked so a missing artifact never
// surfaces as an opaque engine error.
var ErrArtifactNotFound = errors.New("artifact not found")

// Dispatcher executes exactly one node against the engine and returns a
// normalized result. It holds no shared scheduler state and has no side
// effects beyond the single engine invocation.
type Dispatcher struct {
	Client  Client
	Payload PayloadBuilder
	Rules   []Rule
	// Timeout bounds a single engine call. Zero means no bound.
	Timeout time.Duration
}

// Request carries everything Dispatch needs for one node.
type Request struct {
	RunID    string
	Node     *types.Node
	BaseDir  string
	Upstream map[string]string
}

// Dispatch runs one node. The returned result always carries a terminal
// status; engine errors are reported in the result, not as a Go error.
func (d *Dispatcher) Dispatch(ctx context.Context, req Request) *types.NodeResult {
	res := &types.NodeResult{ID: req.Node.ID, StartedAt: time.Now()}
	finish := func(status types.NodeStatus) *types.NodeResult {
		res.EndedAt = time.Now()
		res.Duration = res.EndedAt.Sub(res.StartedAt)
		res.Status = status
		return res
	}

	artifact := req.Node.Image
	if !filepath.IsAbs(artifact) {
		artifact = filepath.Join(req.BaseDir, artifact)
	}
	if _, err := os.Stat(artifact); err != nil {
		res.Diagnostic = fmt.Sprintf("%v: %s", ErrArtifactNotFound, artifact)
		return finish(types.StatusFailed)
	}

	input, err := d.Payload.Build(req.RunID, req.Node, req.Upstream)
	if err != nil {
		res.Diagnostic = fmt.Sprintf("build payload: %v", err)
		return finish(types.StatusException)
	}

	if d.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.Timeout)
		defer cancel()
	}

	raw, err := d.Client.Submit(ctx, Task{
		TaskID:   TaskID(req.RunID, req.Node.ID),
		Artifact: artifact,
		Input:    input,
	})
	switch {
	case errors.Is(err, exec.ErrTimeout) || errors.Is(err, context.DeadlineExceeded):
		res.Diagnostic = fmt.Sprintf("engine call exceeded %s", d.Timeout)
		return finish(types.StatusTimeout)
	case err != nil:
		res.Diagnostic = err.Error()
		return finish(types.StatusException)
	case raw.Code != 0:
		res.Diagnostic = raw.Stderr
		return finish(types.StatusFailed)
	}

	rules := d.Rules
	if rules == nil {
		rules = DefaultRules
	}
	res.Output = NormalizeWith(rules, raw.Stdout)
	return finish(types.StatusSuccess)
}
