// Package engine turns a plan into a result. It orders tasks
// topologically, builds a context map for each dispatch from the task's
// listed dependencies, and routes every task exactly once: domain
// targets through their coordinator, capability targets straight to the
// named cross-cutting capability.
//
// The engine is strict about plan integrity: a dependency id that names
// no task in the plan, a dependency cycle, or a target with no
// registered handler aborts the run. Everything else recovers locally
// and the run completes.
package engine

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"nion/internal/capability"
	"nion/internal/coordinator"
	"nion/internal/planner"
	"nion/internal/registry"
	"nion/internal/types"
)

var (
	// ErrUnknownDomain means a task targets a domain with no registered
	// coordinator. No safe default exists, so the run aborts.
	ErrUnknownDomain = errors.New("unknown domain target")
	// ErrUnknownCapability means a task targets a direct capability the
	// engine cannot dispatch.
	ErrUnknownCapability = errors.New("unknown capability target")
	// ErrUnsatisfiablePlan means the plan has a dependency cycle or a
	// dependency id that names no task in the plan.
	ErrUnsatisfiablePlan = errors.New("unsatisfiable plan")
)

// Engine executes plans. One engine instance serves one run at a time;
// concurrent runs each own their own instance.
type Engine struct {
	planner      *planner.Planner
	coordinators *coordinator.Set
	retrieval    *capability.KnowledgeRetrieval
	evaluation   capability.Evaluation
	logger       *zap.Logger
	parallel     bool
}

// Option configures an Engine.
type Option func(*Engine)

// WithParallel lets independent tasks in the same dependency layer run
// concurrently.
func WithParallel() Option {
	return func(e *Engine) { e.parallel = true }
}

// New wires an engine over the planning and coordination tiers.
func New(pl *planner.Planner, coords *coordinator.Set, retrieval *capability.KnowledgeRetrieval, logger *zap.Logger, opts ...Option) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	e := &Engine{
		planner:      pl,
		coordinators: coords,
		retrieval:    retrieval,
		logger:       logger,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// ProcessMessage plans and executes one message end to end.
func (e *Engine) ProcessMessage(ctx context.Context, msg *types.Message) (*types.Result, error) {
	plan, err := e.planner.Plan(ctx, msg)
	if err != nil {
		return nil, err
	}

	executed, err := e.Execute(ctx, plan)
	if err != nil {
		return nil, err
	}

	return &types.Result{Message: msg, Plan: plan, ExecutedTasks: executed}, nil
}

// Execute dispatches every plan task exactly once in dependency order
// and returns the tasks in dispatch order.
func (e *Engine) Execute(ctx context.Context, plan *types.Plan) ([]*types.Task, error) {
	if err := validatePlan(plan); err != nil {
		return nil, err
	}

	done := make(map[string]*types.Task, len(plan.Tasks))
	var doneMu sync.Mutex
	executed := make([]*types.Task, 0, len(plan.Tasks))

	remaining := len(plan.Tasks)
	for remaining > 0 {
		// One layer: every not-yet-dispatched task whose dependencies
		// are all complete. Plan order is preserved within a layer.
		var layer []*types.Task
		for _, task := range plan.Tasks {
			if _, ok := done[task.ID]; ok {
				continue
			}
			if depsSatisfied(task, done) {
				layer = append(layer, task)
			}
		}
		if len(layer) == 0 {
			// Only reachable with a dependency cycle; validatePlan already
			// rejects unknown ids.
			return nil, fmt.Errorf("%w: dependency cycle among remaining tasks", ErrUnsatisfiablePlan)
		}

		if e.parallel && len(layer) > 1 {
			g, gctx := errgroup.WithContext(ctx)
			for _, task := range layer {
				g.Go(func() error {
					return e.dispatch(gctx, task, plan.Message, snapshotDeps(task, done, &doneMu))
				})
			}
			if err := g.Wait(); err != nil {
				return nil, err
			}
		} else {
			for _, task := range layer {
				if err := e.dispatch(ctx, task, plan.Message, snapshotDeps(task, done, &doneMu)); err != nil {
					return nil, err
				}
			}
		}

		doneMu.Lock()
		for _, task := range layer {
			done[task.ID] = task
		}
		doneMu.Unlock()
		executed = append(executed, layer...)
		remaining -= len(layer)
	}

	return executed, nil
}

// validatePlan rejects plans with forward or dangling dependency ids.
func validatePlan(plan *types.Plan) error {
	ids := make(map[string]bool, len(plan.Tasks))
	for _, task := range plan.Tasks {
		ids[task.ID] = true
	}
	for _, task := range plan.Tasks {
		for _, dep := range task.DependsOn {
			if !ids[dep] {
				return fmt.Errorf("%w: task %s depends on unknown task %s", ErrUnsatisfiablePlan, task.ID, dep)
			}
		}
	}
	return nil
}

func depsSatisfied(task *types.Task, done map[string]*types.Task) bool {
	for _, dep := range task.DependsOn {
		if _, ok := done[dep]; !ok {
			return false
		}
	}
	return true
}

// snapshotDeps copies the completed dependency tasks for one dispatch so
// context building only ever reads finalized outputs.
func snapshotDeps(task *types.Task, done map[string]*types.Task, mu *sync.Mutex) []*types.Task {
	mu.Lock()
	defer mu.Unlock()
	deps := make([]*types.Task, 0, len(task.DependsOn))
	for _, id := range task.DependsOn {
		if dep, ok := done[id]; ok {
			deps = append(deps, dep)
		}
	}
	return deps
}

// dispatch routes one task to its handler with a freshly built context.
func (e *Engine) dispatch(ctx context.Context, task *types.Task, msg *types.Message, deps []*types.Task) error {
	tc := buildContext(msg, deps)

	switch task.Target.Kind {
	case types.TargetDomain:
		coord, ok := e.coordinators.For(task.Target.Name)
		if !ok {
			return fmt.Errorf("%w: %s (task %s)", ErrUnknownDomain, task.Target.Name, task.ID)
		}
		coord.Coordinate(task, msg.Content, msg.Project, tc)
		return nil

	case types.TargetCapability:
		return e.runCapability(ctx, task, msg, tc)

	default:
		return fmt.Errorf("%w: unrecognized target kind %q (task %s)", ErrUnknownCapability, task.Target.Kind, task.ID)
	}
}

// runCapability executes a directly-routed cross-cutting capability and
// attaches output and status to the task itself; no subtask is created.
func (e *Engine) runCapability(_ context.Context, task *types.Task, msg *types.Message, tc types.Context) error {
	task.Status = types.TaskInProgress

	switch task.Target.Name {
	case registry.CapKnowledgeRetrieval:
		task.Output = e.retrieval.Execute(capability.Request{
			Content: msg.Content,
			Project: msg.Project,
			Context: tc,
		})

	case registry.CapEvaluation:
		content := strings.Join(tc[types.CtxResponse], "\n")
		if content == "" {
			content = "No content to evaluate"
		}
		task.Output = e.evaluation.Execute(capability.Request{
			Content: content,
			Project: msg.Project,
			Context: tc,
		})

	default:
		task.Status = types.TaskFailed
		return fmt.Errorf("%w: %s (task %s)", ErrUnknownCapability, task.Target.Name, task.ID)
	}

	task.Status = types.TaskCompleted
	return nil
}

// buildContext files each listed dependency's output under the context
// key its purpose text names. Domain-routed dependencies contribute
// their first subtask's output; capability-routed ones contribute their
// own output directly.
func buildContext(msg *types.Message, deps []*types.Task) types.Context {
	tc := types.Context{
		types.CtxSenderName: {msg.Sender.Name},
		types.CtxSource:     {msg.Source},
		types.CtxCCList:     {},
	}

	for _, dep := range deps {
		output := dep.Output
		if dep.Target.Kind == types.TargetDomain {
			if len(dep.Subtasks) == 0 {
				continue
			}
			output = dep.Subtasks[0].Output
		}

		purpose := strings.ToLower(dep.Purpose)
		switch {
		case strings.Contains(purpose, "action item"):
			tc[types.CtxActionItems] = output
		case strings.Contains(purpose, "risk"):
			tc[types.CtxRisks] = output
		// Knowledge is matched before decision: retrieval purposes like
		// "Retrieve relevant context for decision" belong under
		// knowledge, not decisions.
		case strings.Contains(purpose, "knowledge") || strings.Contains(purpose, "context"):
			tc[types.CtxKnowledge] = output
		case strings.Contains(purpose, "decision"):
			tc[types.CtxDecisions] = output
		case strings.Contains(purpose, "response"):
			tc[types.CtxResponse] = output
		}
	}
	return tc
}
