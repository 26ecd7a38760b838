package engine

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/openinfer/pieflow/pkg/exec"
	"github.com/openinfer/pieflow/pkg/types"
)

type stubClient struct {
	raw  *RawResult
	err  error
	task Task
}

func (s *stubClient) Submit(_ context.Context, task Task) (*RawResult, error) {
	s.task = task
	return s.raw, s.err
}

func writeArtifact(t *testing.T, name string) string {
	t.Helper()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, name), []byte("\x00asm"), 0o644); err != nil {
		t.Fatalf("write artifact: %v", err)
	}
	return dir
}

func TestDispatchSuccessNormalizesOutput(t *testing.T) {
	t.Parallel()

	client := &stubClient{raw: &RawResult{Stdout: "Inferlet launched with ID: 1\nCompleted: fresh news"}}
	d := &Dispatcher{Client: client, Payload: LineagePayload{}}
	dir := writeArtifact(t, "news.wasm")

	res := d.Dispatch(context.Background(), Request{
		RunID:   "run_t1",
		Node:    &types.Node{ID: "news", Image: "news.wasm", Instruction: "report"},
		BaseDir: dir,
	})

	if res.Status != types.StatusSuccess {
		t.Fatalf("expected success, got %s (%s)", res.Status, res.Diagnostic)
	}
	if res.Output != "fresh news" {
		t.Fatalf("expected normalized output, got %q", res.Output)
	}
	if client.task.TaskID != "run_t1_news" {
		t.Fatalf("unexpected task id %q", client.task.TaskID)
	}
	if !filepath.IsAbs(client.task.Artifact) {
		t.Fatalf("expected absolute artifact path, got %q", client.task.Artifact)
	}
}

func TestDispatchArtifactNotFound(t *testing.T) {
	t.Parallel()

	client := &stubClient{raw: &RawResult{}}
	d := &Dispatcher{Client: client, Payload: LineagePayload{}}

	res := d.Dispatch(context.Background(), Request{
		RunID:   "run_t2",
		Node:    &types.Node{ID: "ghost", Image: "missing.wasm"},
		BaseDir: t.TempDir(),
	})

	if res.Status != types.StatusFailed {
		t.Fatalf("expected failed, got %s", res.Status)
	}
	if !strings.Contains(res.Diagnostic, "artifact not found") {
		t.Fatalf("expected artifact diagnostic, got %q", res.Diagnostic)
	}
	if client.task.TaskID != "" {
		t.Fatalf("engine must not be invoked for a missing artifact")
	}
}

func TestDispatchEngineFailureCapturesStderr(t *testing.T) {
	t.Parallel()

	client := &stubClient{raw: &RawResult{Stderr: "Connection refused", Code: 1}}
	d := &Dispatcher{Client: client, Payload: LineagePayload{}}
	dir := writeArtifact(t, "a.wasm")

	res := d.Dispatch(context.Background(), Request{
		RunID:   "run_t3",
		Node:    &types.Node{ID: "a", Image: "a.wasm"},
		BaseDir: dir,
	})

	if res.Status != types.StatusFailed {
		t.Fatalf("expected failed, got %s", res.Status)
	}
	if res.Diagnostic != "Connection refused" {
		t.Fatalf("expected verbatim stderr, got %q", res.Diagnostic)
	}
}

func TestDispatchTimeout(t *testing.T) {
	t.Parallel()

	client := &stubClient{err: exec.ErrTimeout}
	d := &Dispatcher{Client: client, Payload: LineagePayload{}, Timeout: 10 * time.Millisecond}
	dir := writeArtifact(t, "slow.wasm")

	res := d.Dispatch(context.Background(), Request{
		RunID:   "run_t4",
		Node:    &types.Node{ID: "slow", Image: "slow.wasm"},
		BaseDir: dir,
	})

	if res.Status != types.StatusTimeout {
		t.Fatalf("expected timeout, got %s (%s)", res.Status, res.Diagnostic)
	}
}

func TestDispatchSpawnErrorIsException(t *testing.T) {
	t.Parallel()

	client := &stubClient{err: errors.New("executable file not found in $PATH")}
	d := &Dispatcher{Client: client, Payload: LineagePayload{}}
	dir := writeArtifact(t, "b.wasm")

	res := d.Dispatch(context.Background(), Request{
		RunID:   "run_t5",
		Node:    &types.Node{ID: "b", Image: "b.wasm"},
		BaseDir: dir,
	})

	if res.Status != types.StatusException {
		t.Fatalf("expected exception, got %s", res.Status)
	}
	if !strings.Contains(res.Diagnostic, "not found") {
		t.Fatalf("expected spawn diagnostic, got %q", res.Diagnostic)
	}
}
