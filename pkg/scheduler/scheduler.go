// Package scheduler owns the run lifecycle: it pulls ready nodes from the
// dependency graph, dispatches them to the engine under a bounded worker
// cap, collects completions as they arrive, and decides run-level success.
package scheduler

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/openinfer/pieflow/pkg/engine"
	"github.com/openinfer/pieflow/pkg/types"
	"github.com/openinfer/pieflow/pkg/workflow"
)

// DefaultWorkers bounds concurrent engine calls when no cap is configured.
// The engine serves many tasks from scarce accelerator resources; unbounded
// submission would only contend against it.
const DefaultWorkers = 4

// ErrDeadlock reports pending work that can never become ready. The error
// text names each stuck node and its unmet dependencies, which also covers
// dependencies on ids that do not exist in the workflow.
var ErrDeadlock = errors.New("workflow deadlock")

// Events receives scheduler progress. Implementations must not block; the
// console reporter in pkg/report is the usual sink.
type Events interface {
	NodeSubmitted(id string)
	NodeFinished(res *types.NodeResult)
}

type noopEvents struct{}

func (noopEvents) NodeSubmitted(string)           {}
func (noopEvents) NodeFinished(*types.NodeResult) {}

// Options configures a run.
type Options struct {
	Client  engine.Client
	Payload engine.PayloadBuilder
	Rules   []engine.Rule
	Workers int
	// Timeout bounds each individual engine call, not the whole run.
	Timeout time.Duration
	Logger  *slog.Logger
	Events  Events
	// RunID overrides the generated id; tests use this for determinism.
	RunID string
}

// Scheduler executes one workflow once.
type Scheduler struct {
	wf      *types.Workflow
	graph   *workflow.Graph
	disp    *engine.Dispatcher
	store   *ResultStore
	workers int
	runID   string
	logger  *slog.Logger
	events  Events
}

// New prepares a scheduler for one run over wf.
func New(wf *types.Workflow, opts Options) (*Scheduler, error) {
	if wf == nil || len(wf.Nodes) == 0 {
		return nil, errors.New("workflow has no nodes")
	}
	if opts.Client == nil {
		return nil, errors.New("engine client is required")
	}
	if opts.Payload == nil {
		opts.Payload = engine.ContentPayload{}
	}
	if opts.Workers <= 0 {
		opts.Workers = DefaultWorkers
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Events == nil {
		opts.Events = noopEvents{}
	}
	if opts.RunID == "" {
		opts.RunID = NewRunID()
	}

	return &Scheduler{
		wf:    wf,
		graph: workflow.NewGraph(wf),
		disp: &engine.Dispatcher{
			Client:  opts.Client,
			Payload: opts.Payload,
			Rules:   opts.Rules,
			Timeout: opts.Timeout,
		},
		store:   NewResultStore(),
		workers: opts.Workers,
		runID:   opts.RunID,
		logger:  opts.Logger.With("run", opts.RunID),
		events:  opts.Events,
	}, nil
}

// NewRunID generates a run identifier in the run_<8 hex> form the engine
// sees inside task ids.
func NewRunID() string {
	id := uuid.New()
	return "run_" + hex.EncodeToString(id[:4])
}

// RunID returns the identifier for this run.
func (s *Scheduler) RunID() string { return s.runID }

// Store exposes the collected results, e.g. for final reporting.
func (s *Scheduler) Store() *ResultStore { return s.store }

type completion struct {
	nodeID string
	result *types.NodeResult
}

// Run drives the workflow to completion or first failure. The returned
// report is non-nil in every case and retains every result collected before
// a failure; the error is nil only when all nodes completed.
//
// All shared state (the three id sets and the result store) is mutated
// exclusively on this goroutine as completion events are dequeued; workers
// only ever write to the completion channel.
func (s *Scheduler) Run(ctx context.Context) (*types.RunReport, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	pending := workflow.NewIDSet(s.wf.IDs()...)
	running := workflow.IDSet{}
	completed := workflow.IDSet{}

	completions := make(chan completion, len(s.wf.Nodes))
	slots := s.workers
	start := time.Now()
	report := &types.RunReport{Workflow: s.wf.Name, RunID: s.runID}

	s.logger.Info("run started", "workflow", s.wf.Name, "nodes", len(s.wf.Nodes), "workers", s.workers)

	for !workflow.Empty(pending, running) {
		for _, id := range s.graph.Ready(pending, completed) {
			if slots == 0 {
				break
			}
			node := s.wf.Node(id)
			upstream, err := s.store.Upstream(node.Dependencies)
			if err != nil {
				// Lifecycle invariant broken; fail loudly.
				report.WallTime = time.Since(start)
				return report, err
			}

			slots--
			delete(pending, id)
			running[id] = struct{}{}
			s.events.NodeSubmitted(id)
			s.logger.Debug("node submitted", "node", id)

			req := engine.Request{RunID: s.runID, Node: node, BaseDir: s.wf.Dir, Upstream: upstream}
			go func() {
				completions <- completion{nodeID: req.Node.ID, result: s.disp.Dispatch(ctx, req)}
			}()
		}

		if len(running) == 0 {
			// Nothing in flight and nothing became ready: pending work can
			// never run.
			report.WallTime = time.Since(start)
			return report, s.deadlockError(pending, completed)
		}

		c := <-completions
		delete(running, c.nodeID)
		slots++
		report.Results = append(report.Results, *c.result)
		s.events.NodeFinished(c.result)

		if c.result.Status != types.StatusSuccess {
			s.logger.Error("node failed", "node", c.nodeID, "status", c.result.Status, "diagnostic", c.result.Diagnostic)
			cancel()
			s.drain(running, completions, report)
			report.FailedNode = c.nodeID
			report.WallTime = time.Since(start)
			return report, fmt.Errorf("node %s %s: %s", c.nodeID, strings.ToLower(string(c.result.Status)), c.result.Diagnostic)
		}

		if err := s.store.Put(c.nodeID, c.result.Output); err != nil {
			report.WallTime = time.Since(start)
			return report, err
		}
		completed[c.nodeID] = struct{}{}
		s.logger.Info("node completed", "node", c.nodeID, "duration", c.result.Duration)
	}

	report.Completed = true
	report.WallTime = time.Since(start)
	s.logger.Info("run completed", "wallTime", report.WallTime)
	return report, nil
}

// drain collects the remaining in-flight completions after the run context
// has been cancelled so no worker goroutine outlives the run. Their results
// are still recorded; cancellation usually surfaces them as Exception.
func (s *Scheduler) drain(running workflow.IDSet, completions chan completion, report *types.RunReport) {
	for len(running) > 0 {
		c := <-completions
		delete(running, c.nodeID)
		report.Results = append(report.Results, *c.result)
		s.events.NodeFinished(c.result)
	}
}

func (s *Scheduler) deadlockError(pending, completed workflow.IDSet) error {
	unmet := s.graph.Unmet(pending, completed)
	var parts []string
	for _, id := range s.wf.IDs() {
		if missing, ok := unmet[id]; ok {
			parts = append(parts, fmt.Sprintf("%s waiting on [%s]", id, strings.Join(missing, ", ")))
		}
	}
	return fmt.Errorf("%w: %s", ErrDeadlock, strings.Join(parts, "; "))
}
