package reconcile

import "time"

// ActionType represents the kind of mutation decided for a key.
type ActionType string

const (
	// ActionIgnore leaves both sides untouched.
	ActionIgnore ActionType = "IGNORE"
	// ActionPush writes the newer record onto the target side.
	ActionPush ActionType = "PUSH"
	// ActionDelete removes the record from the target side.
	ActionDelete ActionType = "DELETE"
	// ActionMerge flags a key changed on both sides. No field-level merge is performed.
	ActionMerge ActionType = "MERGE"
)

// Target names the side an action is executed against.
type Target string

const (
	TargetNone Target = ""
	TargetA    Target = "A"
	TargetB    Target = "B"
)

// Action is the reconciliation output for a single key.
// Origin and Destination hold the zero value when the record is absent on that side.
type Action[A, B comparable] struct {
	// Type specifies the action to perform.
	Type ActionType `json:"type"`

	// Target is the side the action writes to.
	Target Target `json:"target"`

	// Key is the join key shared by both sides.
	Key string `json:"key"`

	// Reason explains why this action was decided.
	Reason string `json:"reason"`

	Origin      A `json:"-"`
	Destination B `json:"-"`
}

// IsCreate reports whether a push creates a record that does not exist yet on
// its target side.
func (a Action[A, B]) IsCreate() bool {
	if a.Type != ActionPush {
		return false
	}
	var zeroA A
	var zeroB B
	switch a.Target {
	case TargetA:
		return a.Origin == zeroA
	case TargetB:
		return a.Destination == zeroB
	}
	return false
}

// Plan contains the ordered keys and the actions decided for them.
type Plan[A, B comparable] struct {
	// Sync is the name of the adapter that produced the plan.
	Sync string `json:"sync"`

	// Keys is the dispatch order produced by preprocessing.
	Keys []string `json:"keys"`

	// Actions holds one action per key, in dispatch order.
	Actions []Action[A, B] `json:"actions"`

	// Summary provides aggregate counts.
	Summary Summary `json:"summary"`
}

// Summary provides aggregate statistics for a plan.
type Summary struct {
	// Total is the number of keys in the union of both sides.
	Total int `json:"total"`

	PushA   int `json:"push_a"`
	PushB   int `json:"push_b"`
	DeleteA int `json:"delete_a"`
	DeleteB int `json:"delete_b"`

	// Creates counts pushes creating a record on their target side.
	Creates int `json:"creates"`

	Merges  int `json:"merges"`
	Ignored int `json:"ignored"`
}

// Options controls how a plan is applied.
type Options struct {
	// DryRun prevents execution of any mutations if true.
	DryRun bool

	// RunID identifies the run in logs and reports. Generated when empty.
	RunID string
}

// Report describes the outcome of applying a plan.
type Report struct {
	RunID      string    `json:"run_id"`
	Sync       string    `json:"sync"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
	DryRun     bool      `json:"dry_run"`
	Summary    Summary   `json:"summary"`

	// Executed counts actions dispatched to an executor.
	Executed int `json:"executed"`

	// Conflicts lists keys left as MERGE because no resolver settled them.
	Conflicts []string `json:"conflicts"`
}
