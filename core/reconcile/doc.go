// Package reconcile provides the generic two-sided sync engine.
//
// A run walks a fixed sequence of states:
//
//	FETCH_A -> FETCH_B -> PREPROCESS -> COMPARE (per key) -> ORDER -> DISPATCH (per action)
//
// Side A and side B are fetched as keyed maps, the union of their keys is
// optionally reordered by a Preprocessor (TopoSort keeps parents ahead of
// children), and Compare decides one Action per key. Dispatch hands every
// non-IGNORE action to the executor for its target side.
//
// # Architecture
//
// 1. Engine: owns the state sequence. It is stateless across runs; whatever a
// sync needs to remember lives in the destination records themselves.
//
// 2. Adapter: the sync-specific half (fetching, comparison). Executors, the
// preprocessing hook and merge resolution are optional capability interfaces
// checked at runtime. Dispatching to a side without an executor fails with
// errors.ErrUnsupportedDirection.
//
// 3. Policies: OneWayByVersion and TwoWayByTimestamp are pure decision
// functions adapters call from Compare. "force" always pushes to side B.
//
// # Usage Example
//
//	engine := reconcile.NewEngine[*zotero.Item, *notion.Page](refs, logger)
//
//	plan, err := engine.Plan(ctx)
//	report, err := engine.Apply(ctx, plan, reconcile.Options{DryRun: dryRun})
//
// # Conflicts
//
// MERGE actions are never written implicitly. Adapters implementing Merger
// may turn them into a push; anything left as MERGE is listed in
// Report.Conflicts.
package reconcile
