package types

// Workflow is a named, ordered collection of nodes. It is loaded once and
// treated as read-only for the lifetime of a run; all mutable run state is
// derived from it by the scheduler.
type Workflow struct {
	Name  string `yaml:"name" json:"name"`
	Nodes []Node `yaml:"nodes" json:"nodes"`

	// Dir is the directory the workflow document was loaded from. Node
	// images are resolved relative to it.
	Dir string `yaml:"-" json:"-"`
}

// Node describes one schedulable unit of work: a WASM agent image plus the
// instruction or config payload handed to the engine, and the ids of the
// upstream nodes whose outputs it consumes.
type Node struct {
	ID           string            `yaml:"id" json:"id"`
	Dependencies []string          `yaml:"dependencies,omitempty" json:"dependencies,omitempty"`
	Image        string            `yaml:"image" json:"image"`
	Instruction  string            `yaml:"instruction,omitempty" json:"instruction,omitempty"`
	Config       map[string]string `yaml:"config,omitempty" json:"config,omitempty"`
}

// Node returns the node with the given id, or nil.
func (w *Workflow) Node(id string) *Node {
	for i := range w.Nodes {
		if w.Nodes[i].ID == id {
			return &w.Nodes[i]
		}
	}
	return nil
}

// IDs returns node ids in declaration order.
func (w *Workflow) IDs() []string {
	ids := make([]string, 0, len(w.Nodes))
	for i := range w.Nodes {
		ids = append(ids, w.Nodes[i].ID)
	}
	return ids
}
