package scheduler

import (
	"errors"
	"fmt"
)

// Lifecycle-invariant violations. Neither can occur while the scheduler's
// pending/running/completed bookkeeping holds; they indicate a defect and
// abort the run loudly instead of being tolerated.
var (
	ErrDuplicateWrite    = errors.New("duplicate result write")
	ErrMissingDependency = errors.New("missing dependency result")
)

// ResultStore is the append-only map of completed node outputs. It is
// written and read only by the scheduler loop goroutine, so it needs no
// locking of its own; completed results reach workers by value through the
// dispatch request.
type ResultStore struct {
	entries map[string]string
}

// NewResultStore returns an empty store.
func NewResultStore() *ResultStore {
	return &ResultStore{entries: make(map[string]string)}
}

// Put records a node's normalized output. Each id may be written once.
func (s *ResultStore) Put(nodeID, content string) error {
	if _, exists := s.entries[nodeID]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateWrite, nodeID)
	}
	s.entries[nodeID] = content
	return nil
}

// Upstream resolves the outputs for exactly the given dependency ids. It is
// only called for nodes whose dependencies are all completed, so an absent
// id is a defect, not a normal error path.
func (s *ResultStore) Upstream(deps []string) (map[string]string, error) {
	out := make(map[string]string, len(deps))
	for _, dep := range deps {
		content, ok := s.entries[dep]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrMissingDependency, dep)
		}
		out[dep] = content
	}
	return out, nil
}

// Get returns a stored output.
func (s *ResultStore) Get(nodeID string) (string, bool) {
	content, ok := s.entries[nodeID]
	return content, ok
}

// Len returns the number of stored results.
func (s *ResultStore) Len() int {
	return len(s.entries)
}
