package workflow

import (
	"os"
	"path/filepath"
	"testing"
)

func writeWorkflow(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write workflow: %v", err)
	}
	return path
}

func TestLoadJSONWorkflow(t *testing.T) {
	t.Parallel()

	path := writeWorkflow(t, "demo.json", `{
  "name": "demo",
  "nodes": [
    {"id": "start", "image": "agents/start.wasm", "instruction": "go"},
    {"id": "finish", "image": "agents/finish.wasm", "dependencies": ["start"], "config": {"k": "v"}}
  ]
}`)

	wf, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if wf.Name != "demo" {
		t.Fatalf("expected name demo, got %q", wf.Name)
	}
	if len(wf.Nodes) != 2 {
		t.Fatalf("expected 2 nodes, got %d", len(wf.Nodes))
	}
	if wf.Dir != filepath.Dir(path) {
		t.Fatalf("expected dir %q, got %q", filepath.Dir(path), wf.Dir)
	}
	finish := wf.Node("finish")
	if finish == nil || len(finish.Dependencies) != 1 || finish.Dependencies[0] != "start" {
		t.Fatalf("unexpected finish node: %+v", finish)
	}
	if finish.Config["k"] != "v" {
		t.Fatalf("expected config k=v, got %v", finish.Config)
	}
}

func TestLoadYAMLWorkflow(t *testing.T) {
	t.Parallel()

	path := writeWorkflow(t, "demo.yaml", `
name: newsroom
nodes:
  - id: reporter
    image: agents/news.wasm
    instruction: gather headlines
  - id: editor
    image: agents/merge.wasm
    dependencies: [reporter]
    instruction: summarize
`)

	wf, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if wf.Name != "newsroom" {
		t.Fatalf("expected name newsroom, got %q", wf.Name)
	}
	if wf.Node("editor").Instruction != "summarize" {
		t.Fatalf("unexpected editor node: %+v", wf.Node("editor"))
	}
}

func TestLoadDefaultsNameToFilename(t *testing.T) {
	t.Parallel()

	path := writeWorkflow(t, "untitled.json", `{"nodes": [{"id": "a", "image": "a.wasm"}]}`)
	wf, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if wf.Name != "untitled.json" {
		t.Fatalf("expected filename fallback, got %q", wf.Name)
	}
}

func TestLoadRejectsBadDocuments(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		content string
	}{
		{"no nodes", `{"name": "x", "nodes": []}`},
		{"missing id", `{"name": "x", "nodes": [{"image": "a.wasm"}]}`},
		{"duplicate id", `{"name": "x", "nodes": [{"id": "a", "image": "a.wasm"}, {"id": "a", "image": "b.wasm"}]}`},
		{"missing image", `{"name": "x", "nodes": [{"id": "a"}]}`},
	}

	for _, tc := range cases {
		path := writeWorkflow(t, "bad.json", tc.content)
		if _, err := Load(path); err == nil {
			t.Errorf("%s: expected error", tc.name)
		}
	}
}

func TestLoadMissingFile(t *testing.T) {
	t.Parallel()

	if _, err := Load(filepath.Join(t.TempDir(), "nope.json")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}
