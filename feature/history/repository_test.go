package history

import (
	"context"
	"errors"
	"testing"
	"time"

	"refsync/core/database"
	"refsync/core/reconcile"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

func newRepository(t *testing.T) *Repository {
	t.Helper()
	db, err := database.Connect(database.Config{Driver: database.DriverSQLite, Name: ":memory:"})
	require.NoError(t, err)
	repo := NewRepository(db)
	require.NoError(t, repo.Migrate(context.Background()))
	return repo
}

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("Failed to open mock sql db: %v", err)
	}

	dialector := mysql.New(mysql.Config{
		Conn:                      db,
		SkipInitializeWithVersion: true,
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to open gorm db: %v", err)
	}

	return gormDB, mock
}

func report(id, sync string, started time.Time) *reconcile.Report {
	return &reconcile.Report{
		RunID:      id,
		Sync:       sync,
		StartedAt:  started,
		FinishedAt: started.Add(3 * time.Second),
		Summary: reconcile.Summary{
			Total: 7, PushA: 1, PushB: 2, DeleteB: 1, Creates: 2, Merges: 1, Ignored: 2,
		},
		Executed:  4,
		Conflicts: []string{"k1"},
	}
}

func TestFromReport(t *testing.T) {
	started := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

	run := FromReport(report("r1", "refs", started), nil)
	assert.Equal(t, "r1", run.ID)
	assert.Equal(t, "refs", run.Sync)
	assert.Equal(t, 3, run.Pushed)
	assert.Equal(t, 2, run.Created)
	assert.Equal(t, 1, run.Deleted)
	assert.Equal(t, 1, run.Merged)
	assert.Equal(t, 2, run.Ignored)
	assert.Equal(t, 4, run.Executed)
	assert.Equal(t, 1, run.Conflicts)
	assert.Equal(t, 3*time.Second, run.Duration())
	assert.False(t, run.Failed())

	failed := FromReport(report("r2", "refs", started), errors.New("boom"))
	assert.Equal(t, "boom", failed.Error)
	assert.True(t, failed.Failed())
}

func TestRecordAndList(t *testing.T) {
	repo := newRepository(t)
	ctx := context.Background()
	base := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

	require.NoError(t, repo.Record(ctx, report("a", "refs", base), nil))
	require.NoError(t, repo.Record(ctx, report("b", "collections", base.Add(time.Hour)), nil))
	require.NoError(t, repo.Record(ctx, report("c", "markdown", base.Add(2*time.Hour)), errors.New("offline")))

	runs, err := repo.List(ctx, 0)
	require.NoError(t, err)
	require.Len(t, runs, 3)
	assert.Equal(t, []string{"c", "b", "a"}, []string{runs[0].ID, runs[1].ID, runs[2].ID})
	assert.Equal(t, "offline", runs[0].Error)
	assert.Equal(t, "markdown", runs[0].Sync)

	limited, err := repo.List(ctx, 2)
	require.NoError(t, err)
	require.Len(t, limited, 2)
	assert.Equal(t, "c", limited[0].ID)
}

func TestRecordDuplicateID(t *testing.T) {
	repo := newRepository(t)
	ctx := context.Background()
	r := report("same", "refs", time.Now())

	require.NoError(t, repo.Record(ctx, r, nil))
	assert.ErrorContains(t, repo.Record(ctx, r, nil), "failed to record run same")
}

func TestMigrateIsRepeatable(t *testing.T) {
	repo := newRepository(t)
	assert.NoError(t, repo.Migrate(context.Background()))
}

func TestRecordInsertError(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `sync_runs`").WillReturnError(errors.New("read only"))
	mock.ExpectRollback()

	err := repo.Record(context.Background(), report("x", "refs", time.Now()), nil)
	assert.ErrorContains(t, err, "read only")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListQueryError(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewRepository(db)

	mock.ExpectQuery("SELECT \\* FROM `sync_runs` ORDER BY started_at DESC").WillReturnError(errors.New("gone"))

	_, err := repo.List(context.Background(), 5)
	assert.ErrorContains(t, err, "failed to list runs: gone")
	assert.NoError(t, mock.ExpectationsWereMet())
}
