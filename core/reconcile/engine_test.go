package reconcile

import (
	"context"
	"fmt"
	"testing"
	"time"

	"refsync/core/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mirrorSync is an in-memory one-way sync from origins to records.
type mirrorSync struct {
	origins  map[string]*origin
	records  map[string]*record
	force    bool
	parents  map[string]string
	fetchErr error
	execErr  map[string]error
	executed []string
}

func newMirrorSync(origins ...*origin) *mirrorSync {
	s := &mirrorSync{
		origins: map[string]*origin{},
		records: map[string]*record{},
		parents: map[string]string{},
		execErr: map[string]error{},
	}
	for _, o := range origins {
		s.origins[o.key] = o
	}
	return s
}

func (s *mirrorSync) Name() string { return "mirror" }

func (s *mirrorSync) FetchA(ctx context.Context) (map[string]*origin, error) {
	if s.fetchErr != nil {
		return nil, s.fetchErr
	}
	out := make(map[string]*origin, len(s.origins))
	for k, v := range s.origins {
		out[k] = v
	}
	return out, nil
}

func (s *mirrorSync) FetchB(ctx context.Context) (map[string]*record, error) {
	out := make(map[string]*record, len(s.records))
	for k, v := range s.records {
		copied := *v
		out[k] = &copied
	}
	return out, nil
}

func (s *mirrorSync) Preprocess(ctx context.Context, a map[string]*origin, b map[string]*record, keys []string) ([]string, error) {
	return TopoSort(keys, func(key string) []string {
		var kids []string
		for child, parent := range s.parents {
			if parent == key {
				kids = append(kids, child)
			}
		}
		return kids
	})
}

func (s *mirrorSync) Compare(key string, a *origin, b *record) Action[*origin, *record] {
	return OneWayByVersion(a, b, s.force)
}

func (s *mirrorSync) ExecuteB(ctx context.Context, action Action[*origin, *record]) error {
	if err := s.execErr[action.Key]; err != nil {
		return err
	}
	s.executed = append(s.executed, action.Key)
	switch action.Type {
	case ActionDelete:
		delete(s.records, action.Key)
	case ActionPush:
		if parent := s.parents[action.Key]; parent != "" {
			if _, ok := s.records[parent]; !ok {
				return fmt.Errorf("parent %s not pushed yet", parent)
			}
		}
		synced := time.Now()
		s.records[action.Key] = &record{key: action.Key, version: action.Origin.version, syncedAt: &synced, modified: synced}
	}
	return nil
}

// bothWays is a two-way sync writing to both sides.
type bothWays struct {
	mirrorSync
	pulled   []string
	resolver func(Action[*origin, *record]) Action[*origin, *record]
}

func (s *bothWays) Compare(key string, a *origin, b *record) Action[*origin, *record] {
	return TwoWayByTimestamp(a, b, s.force)
}

func (s *bothWays) ExecuteA(ctx context.Context, action Action[*origin, *record]) error {
	s.pulled = append(s.pulled, action.Key)
	return nil
}

type resolvingSync struct {
	bothWays
}

func (s *resolvingSync) ResolveMerge(ctx context.Context, action Action[*origin, *record]) (Action[*origin, *record], error) {
	return s.resolver(action), nil
}

func TestEngine_PushThenIdempotent(t *testing.T) {
	sync := newMirrorSync(&origin{key: "a", version: 1}, &origin{key: "b", version: 2})
	engine := NewEngine[*origin, *record](sync, nil)

	plan, report, err := engine.Run(context.Background(), Options{})
	require.NoError(t, err)
	assert.Equal(t, 2, plan.Summary.PushB)
	assert.Equal(t, 2, plan.Summary.Creates)
	assert.Equal(t, 2, report.Executed)
	assert.NotEmpty(t, report.RunID)

	second, report, err := engine.Run(context.Background(), Options{})
	require.NoError(t, err)
	for _, action := range second.Actions {
		assert.Equal(t, ActionIgnore, action.Type, action.Key)
	}
	assert.Equal(t, 0, report.Executed)
}

func TestEngine_VersionIncreaseAndDeletion(t *testing.T) {
	sync := newMirrorSync(&origin{key: "a", version: 1}, &origin{key: "b", version: 1})
	engine := NewEngine[*origin, *record](sync, nil)
	_, _, err := engine.Run(context.Background(), Options{})
	require.NoError(t, err)

	sync.origins["a"].version = 2
	delete(sync.origins, "b")

	plan, err := engine.Plan(context.Background())
	require.NoError(t, err)

	byKey := map[string]Action[*origin, *record]{}
	for _, action := range plan.Actions {
		byKey[action.Key] = action
	}
	assert.Equal(t, ActionPush, byKey["a"].Type)
	assert.False(t, byKey["a"].IsCreate())
	assert.Equal(t, ActionDelete, byKey["b"].Type)
	assert.Equal(t, 1, plan.Summary.DeleteB)

	_, err = engine.Apply(context.Background(), plan, Options{})
	require.NoError(t, err)
	assert.NotContains(t, sync.records, "b")
	assert.Equal(t, 2, sync.records["a"].version)
}

func TestEngine_ForceRepushes(t *testing.T) {
	sync := newMirrorSync(&origin{key: "a", version: 1})
	engine := NewEngine[*origin, *record](sync, nil)
	_, _, err := engine.Run(context.Background(), Options{})
	require.NoError(t, err)

	sync.force = true
	_, report, err := engine.Run(context.Background(), Options{})
	require.NoError(t, err)
	assert.Equal(t, 1, report.Executed)
}

func TestEngine_ParentsDispatchedFirst(t *testing.T) {
	sync := newMirrorSync(
		&origin{key: "leaf", version: 1},
		&origin{key: "mid", version: 1},
		&origin{key: "root", version: 1},
	)
	sync.parents = map[string]string{"leaf": "mid", "mid": "root"}
	engine := NewEngine[*origin, *record](sync, nil)

	plan, _, err := engine.Run(context.Background(), Options{})
	require.NoError(t, err)
	assert.Equal(t, []string{"root", "mid", "leaf"}, plan.Keys)
	assert.Equal(t, []string{"root", "mid", "leaf"}, sync.executed)
}

func TestEngine_DryRun(t *testing.T) {
	sync := newMirrorSync(&origin{key: "a", version: 1})
	engine := NewEngine[*origin, *record](sync, nil)

	_, report, err := engine.Run(context.Background(), Options{DryRun: true})
	require.NoError(t, err)
	assert.True(t, report.DryRun)
	assert.Equal(t, 0, report.Executed)
	assert.Empty(t, sync.records)
}

func TestEngine_Errors(t *testing.T) {
	t.Run("FetchError", func(t *testing.T) {
		sync := newMirrorSync()
		sync.fetchErr = fmt.Errorf("origin down")
		engine := NewEngine[*origin, *record](sync, nil)

		_, _, err := engine.Run(context.Background(), Options{})
		assert.ErrorContains(t, err, "origin down")
	})

	t.Run("ExecuteErrorStopsRun", func(t *testing.T) {
		sync := newMirrorSync(&origin{key: "a", version: 1}, &origin{key: "b", version: 1})
		sync.execErr["a"] = fmt.Errorf("write failed")
		engine := NewEngine[*origin, *record](sync, nil)

		_, report, err := engine.Run(context.Background(), Options{})
		assert.ErrorContains(t, err, "key a")
		assert.Equal(t, 0, report.Executed)
		assert.Empty(t, sync.executed)
	})

	t.Run("UnsupportedDirection", func(t *testing.T) {
		sync := newMirrorSync(&origin{key: "a", version: 1})
		synced := *at(10)
		sync.records["a"] = &record{key: "a", version: 1, syncedAt: &synced, modified: *at(20)}

		engine := NewEngine[*origin, *record](&oneWayTwoWayCompare{mirrorSync: sync}, nil)

		_, err := engine.Plan(context.Background())
		assert.ErrorIs(t, err, errors.ErrUnsupportedDirection)
	})
}

// oneWayTwoWayCompare pairs a two-way policy with a sync that only writes B.
type oneWayTwoWayCompare struct {
	*mirrorSync
}

func (s *oneWayTwoWayCompare) Compare(key string, a *origin, b *record) Action[*origin, *record] {
	return TwoWayByTimestamp(a, b, false)
}

func TestEngine_TwoWay(t *testing.T) {
	newSync := func() *bothWays {
		s := &bothWays{mirrorSync: *newMirrorSync(&origin{key: "a", version: 2})}
		synced := *at(10)
		s.records["a"] = &record{key: "a", version: 1, syncedAt: &synced, modified: *at(20)}
		return s
	}

	t.Run("ConflictReported", func(t *testing.T) {
		sync := newSync()
		engine := NewEngine[*origin, *record](sync, nil)

		plan, report, err := engine.Run(context.Background(), Options{})
		require.NoError(t, err)
		assert.Equal(t, 1, plan.Summary.Merges)
		assert.Equal(t, []string{"a"}, report.Conflicts)
		assert.Equal(t, 0, report.Executed)
	})

	t.Run("ConflictResolved", func(t *testing.T) {
		sync := &resolvingSync{bothWays: *newSync()}
		sync.resolver = func(action Action[*origin, *record]) Action[*origin, *record] {
			action.Type, action.Target = ActionPush, TargetA
			return action
		}
		engine := NewEngine[*origin, *record](sync, nil)

		_, report, err := engine.Run(context.Background(), Options{})
		require.NoError(t, err)
		assert.Empty(t, report.Conflicts)
		assert.Equal(t, []string{"a"}, sync.pulled)
	})

	t.Run("PullWhenOnlyBChanged", func(t *testing.T) {
		sync := newSync()
		sync.origins["a"].version = 1
		engine := NewEngine[*origin, *record](sync, nil)

		plan, report, err := engine.Run(context.Background(), Options{})
		require.NoError(t, err)
		assert.Equal(t, 1, plan.Summary.PushA)
		assert.Equal(t, 1, report.Executed)
		assert.Equal(t, []string{"a"}, sync.pulled)
	})
}
