package reconcile

import (
	"context"
)

// Adapter defines the sync-specific half of a reconciliation.
// A is the origin side, B the destination side. Both sides must be keyed by
// the same logical join key.
type Adapter[A, B comparable] interface {
	// Name returns the unique name of this sync (e.g., "refs", "collections").
	Name() string

	// FetchA loads every record of side A indexed by join key.
	FetchA(ctx context.Context) (map[string]A, error)

	// FetchB loads every record of side B indexed by join key.
	FetchB(ctx context.Context) (map[string]B, error)

	// Compare decides the action for one key. Absent records are passed as the
	// zero value. The engine fills in Key when the adapter leaves it empty.
	Compare(key string, a A, b B) Action[A, B]
}

// Preprocessor is implemented by adapters that need auxiliary lookups or a
// specific dispatch order. The returned slice replaces keys.
type Preprocessor[A, B comparable] interface {
	Preprocess(ctx context.Context, itemsA map[string]A, itemsB map[string]B, keys []string) ([]string, error)
}

// ExecutorA is implemented by syncs that can write to side A.
type ExecutorA[A, B comparable] interface {
	ExecuteA(ctx context.Context, action Action[A, B]) error
}

// ExecutorB is implemented by syncs that can write to side B.
type ExecutorB[A, B comparable] interface {
	ExecuteB(ctx context.Context, action Action[A, B]) error
}

// Merger settles MERGE actions. The returned action is dispatched in place of
// the original; returning a MERGE again leaves the key reported as a conflict.
type Merger[A, B comparable] interface {
	ResolveMerge(ctx context.Context, action Action[A, B]) (Action[A, B], error)
}

// Recorder persists the outcome of a run. err is the error the run stopped
// with, nil on success. The engine never reads records back.
type Recorder interface {
	Record(ctx context.Context, report *Report, err error) error
}
