package library

import (
	"context"
	"fmt"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"refsync/core/reconcile"
	"refsync/core/zotero"

	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type recorded struct {
	report *reconcile.Report
	err    error
}

type memoryRecorder struct {
	runs []recorded
}

func (r *memoryRecorder) Record(_ context.Context, report *reconcile.Report, err error) error {
	r.runs = append(r.runs, recorded{report: report, err: err})
	return nil
}

func newTestApp(lib *fakeLibrary) (*fiber.App, *fakeWorkspace, *memoryRecorder) {
	w := newFakeWorkspace()
	w.addDatabase("refs", RefsSchema("cols"), page("p-a", "A", 1))
	w.addDatabase("cols", CollectionsSchema())

	recorder := &memoryRecorder{}
	svc := NewService(w, lib, Options{Database: "refs", CollectionsDatabase: "cols"}, recorder, zap.NewNop())

	app := fiber.New()
	NewFeature(svc).handler.RegisterRoutes(app)
	return app, w, recorder
}

func TestHandleSyncRefs(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		executed int
		upserts  int
	}{
		{"no body", "", 0, 0},
		{"force", `{"force":true}`, 1, 1},
		{"force dry run", `{"force":true,"dry_run":true}`, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app, w, recorder := newTestApp(&fakeLibrary{items: []*zotero.Item{item("A", 1, "Title")}})

			req := httptest.NewRequest("POST", "/sync/refs", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")
			resp, err := app.Test(req, 2000)
			require.NoError(t, err)
			assert.Equal(t, 200, resp.StatusCode)

			var report reconcile.Report
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&report))
			assert.Equal(t, "refs", report.Sync)
			assert.NotEmpty(t, report.RunID)
			assert.Equal(t, tt.executed, report.Executed)
			assert.Len(t, w.upserts, tt.upserts)
			for _, u := range w.upserts {
				assert.Equal(t, "refs", u.database)
				assert.Contains(t, u.page.Properties, FieldCollectionRefs)
			}

			require.Len(t, recorder.runs, 1)
			assert.Equal(t, report.RunID, recorder.runs[0].report.RunID)
		})
	}
}

func TestHandleSyncCollections(t *testing.T) {
	app, w, _ := newTestApp(&fakeLibrary{collections: []*zotero.Collection{collection("C", 1, "Papers", "")}})

	resp, err := app.Test(httptest.NewRequest("POST", "/sync/collections", nil), 2000)
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)
	require.Len(t, w.upserts, 1)
	assert.Equal(t, "cols", w.upserts[0].database)
}

func TestHandleSyncFailure(t *testing.T) {
	app, _, recorder := newTestApp(&fakeLibrary{err: fmt.Errorf("library unavailable")})

	resp, err := app.Test(httptest.NewRequest("POST", "/sync/refs", nil), 2000)
	require.NoError(t, err)
	assert.Equal(t, 500, resp.StatusCode)

	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "library unavailable")
	assert.Empty(t, recorder.runs)
}

func TestHandleSyncBadBody(t *testing.T) {
	app, _, _ := newTestApp(&fakeLibrary{})

	req := httptest.NewRequest("POST", "/sync/refs", strings.NewReader("{"))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, 2000)
	require.NoError(t, err)
	assert.Equal(t, 400, resp.StatusCode)
}

func TestFeatureEnabled(t *testing.T) {
	assert.False(t, NewFeature(NewService(nil, nil, Options{}, nil, nil)).IsEnabled())
	assert.True(t, NewFeature(NewService(nil, nil, Options{Database: "refs"}, nil, nil)).IsEnabled())
	assert.Equal(t, "sync", NewFeature(NewService(nil, nil, Options{}, nil, nil)).Name())
}
