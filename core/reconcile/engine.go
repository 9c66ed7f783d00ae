package reconcile

import (
	"context"
	"fmt"
	"sort"
	"time"

	"refsync/core/errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Engine runs the fetch, compare, order and dispatch cycle for one adapter.
// It keeps no state between runs.
type Engine[A, B comparable] struct {
	adapter Adapter[A, B]
	logger  *zap.Logger
}

// NewEngine creates an engine for the given adapter.
func NewEngine[A, B comparable](adapter Adapter[A, B], logger *zap.Logger) *Engine[A, B] {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine[A, B]{adapter: adapter, logger: logger}
}

// Plan fetches both sides and decides one action per key without executing anything.
// Actions targeting a side the adapter cannot write fail the plan before any
// write happens.
func (e *Engine[A, B]) Plan(ctx context.Context) (*Plan[A, B], error) {
	name := e.adapter.Name()

	itemsA, err := e.adapter.FetchA(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch side A for %s: %w", name, err)
	}
	e.logger.Debug("Fetched side A", zap.String("sync", name), zap.Int("count", len(itemsA)))

	itemsB, err := e.adapter.FetchB(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch side B for %s: %w", name, err)
	}
	e.logger.Debug("Fetched side B", zap.String("sync", name), zap.Int("count", len(itemsB)))

	keys := buildUnion(itemsA, itemsB)

	if pre, ok := e.adapter.(Preprocessor[A, B]); ok {
		keys, err = pre.Preprocess(ctx, itemsA, itemsB, keys)
		if err != nil {
			return nil, fmt.Errorf("failed to preprocess %s: %w", name, err)
		}
	}

	plan := &Plan[A, B]{
		Sync:    name,
		Keys:    keys,
		Actions: make([]Action[A, B], 0, len(keys)),
	}
	plan.Summary.Total = len(keys)

	for _, key := range keys {
		action := e.adapter.Compare(key, itemsA[key], itemsB[key])
		if action.Key == "" {
			action.Key = key
		}
		if err := e.checkDirection(action); err != nil {
			return nil, err
		}
		plan.Actions = append(plan.Actions, action)
		countAction(&plan.Summary, action)
	}

	return plan, nil
}

// Apply dispatches the actions of a plan in order.
// It stops at the first failing action; actions already executed are not rolled back.
func (e *Engine[A, B]) Apply(ctx context.Context, plan *Plan[A, B], opts Options) (*Report, error) {
	report := &Report{
		RunID:     opts.RunID,
		Sync:      plan.Sync,
		StartedAt: time.Now(),
		DryRun:    opts.DryRun,
		Summary:   plan.Summary,
		Conflicts: []string{},
	}
	if report.RunID == "" {
		report.RunID = uuid.NewString()
	}
	l := e.logger.With(zap.String("run_id", report.RunID), zap.String("sync", plan.Sync))

	defer func() {
		report.FinishedAt = time.Now()
	}()

	for _, action := range plan.Actions {
		if action.Type == ActionMerge {
			if opts.DryRun {
				report.Conflicts = append(report.Conflicts, action.Key)
				continue
			}
			resolved, err := e.resolveMerge(ctx, action)
			if err != nil {
				return report, err
			}
			if resolved.Type == ActionMerge {
				l.Warn("Unresolved conflict", zap.String("key", action.Key), zap.String("reason", action.Reason))
				report.Conflicts = append(report.Conflicts, action.Key)
				continue
			}
			action = resolved
		}

		if action.Type == ActionIgnore || action.Target == TargetNone {
			continue
		}

		l.Debug("Dispatching action",
			zap.String("key", action.Key),
			zap.String("action", string(action.Type)),
			zap.String("target", string(action.Target)),
			zap.String("reason", action.Reason),
		)

		if opts.DryRun {
			continue
		}

		if err := e.dispatch(ctx, action); err != nil {
			return report, err
		}
		report.Executed++
	}

	return report, nil
}

// Run plans and applies in one call.
func (e *Engine[A, B]) Run(ctx context.Context, opts Options) (*Plan[A, B], *Report, error) {
	plan, err := e.Plan(ctx)
	if err != nil {
		return nil, nil, err
	}

	report, err := e.Apply(ctx, plan, opts)
	return plan, report, err
}

func (e *Engine[A, B]) dispatch(ctx context.Context, action Action[A, B]) error {
	if err := e.checkDirection(action); err != nil {
		return err
	}

	var err error
	switch action.Target {
	case TargetA:
		err = e.adapter.(ExecutorA[A, B]).ExecuteA(ctx, action)
	case TargetB:
		err = e.adapter.(ExecutorB[A, B]).ExecuteB(ctx, action)
	}
	if err != nil {
		return fmt.Errorf("failed to %s key %s on side %s: %w", action.Type, action.Key, action.Target, err)
	}
	return nil
}

func (e *Engine[A, B]) resolveMerge(ctx context.Context, action Action[A, B]) (Action[A, B], error) {
	merger, ok := e.adapter.(Merger[A, B])
	if !ok {
		return action, nil
	}

	resolved, err := merger.ResolveMerge(ctx, action)
	if err != nil {
		return action, fmt.Errorf("failed to resolve merge for key %s: %w", action.Key, err)
	}
	if resolved.Key == "" {
		resolved.Key = action.Key
	}
	return resolved, nil
}

// checkDirection fails for actions aimed at a side without an executor.
func (e *Engine[A, B]) checkDirection(action Action[A, B]) error {
	if action.Type == ActionIgnore || action.Type == ActionMerge {
		return nil
	}

	supported := true
	switch action.Target {
	case TargetA:
		_, supported = e.adapter.(ExecutorA[A, B])
	case TargetB:
		_, supported = e.adapter.(ExecutorB[A, B])
	}
	if supported {
		return nil
	}

	return &errors.UnsupportedDirectionError{
		Sync:   e.adapter.Name(),
		Target: string(action.Target),
		Action: string(action.Type),
		Key:    action.Key,
	}
}

// buildUnion returns the sorted union of keys from both sides.
func buildUnion[A, B any](itemsA map[string]A, itemsB map[string]B) []string {
	union := make(map[string]struct{}, len(itemsA)+len(itemsB))
	for key := range itemsA {
		union[key] = struct{}{}
	}
	for key := range itemsB {
		union[key] = struct{}{}
	}

	keys := make([]string, 0, len(union))
	for key := range union {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

func countAction[A, B comparable](summary *Summary, action Action[A, B]) {
	switch action.Type {
	case ActionIgnore:
		summary.Ignored++
	case ActionMerge:
		summary.Merges++
	case ActionPush:
		if action.Target == TargetA {
			summary.PushA++
		} else {
			summary.PushB++
		}
		if action.IsCreate() {
			summary.Creates++
		}
	case ActionDelete:
		if action.Target == TargetA {
			summary.DeleteA++
		} else {
			summary.DeleteB++
		}
	}
}
