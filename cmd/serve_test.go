package cmd

import (
	"bytes"
	"errors"
	"net/http/httptest"
	"testing"
	"time"

	"refsync/core/middleware/auth"
	"refsync/core/middleware/rayid"
	"refsync/core/server"
	"refsync/feature/history"

	"github.com/gofiber/fiber/v2"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type pingFeature struct {
	enabled bool
	err     error
}

func (f *pingFeature) Name() string    { return "ping" }
func (f *pingFeature) IsEnabled() bool { return f.enabled }
func (f *pingFeature) Load(app fiber.Router) error {
	if f.err != nil {
		return f.err
	}
	app.Get("/ping", func(c *fiber.Ctx) error { return c.SendString("pong") })
	return nil
}

func TestNewServer(t *testing.T) {
	app, err := newServer(server.Config{ApiKey: "secret"}, zap.NewNop(), &pingFeature{enabled: true})
	require.NoError(t, err)

	tests := []struct {
		name   string
		path   string
		key    string
		status int
	}{
		{"health without key", HealthPath, "", fiber.StatusOK},
		{"feature without key", "/ping", "", fiber.StatusUnauthorized},
		{"feature with key", "/ping", "secret", fiber.StatusOK},
		{"unknown route", "/nothing", "secret", fiber.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", tt.path, nil)
			if tt.key != "" {
				req.Header.Set(auth.Header, tt.key)
			}
			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, tt.status, resp.StatusCode)
			assert.NotEmpty(t, resp.Header.Get(rayid.Header))
		})
	}
}

func TestNewServerSkipsDisabledFeatures(t *testing.T) {
	app, err := newServer(server.Config{}, zap.NewNop(), &pingFeature{enabled: false})
	require.NoError(t, err)

	resp, err := app.Test(httptest.NewRequest("GET", "/ping", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestNewServerLoadError(t *testing.T) {
	_, err := newServer(server.Config{}, zap.NewNop(), &pingFeature{enabled: true, err: errors.New("broken")})
	assert.ErrorContains(t, err, "failed to load feature ping: broken")
}

func TestPrintRuns(t *testing.T) {
	started := time.Now().Add(-2 * time.Hour)
	runs := []history.Run{
		{ID: "a", Sync: "refs", StartedAt: started, FinishedAt: started.Add(1500 * time.Millisecond), Pushed: 1200},
		{ID: "b", Sync: "markdown", StartedAt: started, FinishedAt: started, Error: "offline"},
		{ID: "c", Sync: "collections", StartedAt: started, FinishedAt: started, DryRun: true},
	}

	var out bytes.Buffer
	cmd := &cobra.Command{}
	cmd.SetOut(&out)
	require.NoError(t, printRuns(cmd, runs))

	text := out.String()
	assert.Contains(t, text, "STARTED")
	assert.Contains(t, text, "2 hours ago")
	assert.Contains(t, text, "1,200")
	assert.Contains(t, text, "1.5s")
	assert.Contains(t, text, "offline")
	assert.Contains(t, text, "dry run")
}

func TestArgAt(t *testing.T) {
	assert.Equal(t, "db", argAt([]string{"db"}, 0))
	assert.Equal(t, "", argAt([]string{"db"}, 1))
	assert.Equal(t, "", argAt(nil, 0))
}

func TestCommandTree(t *testing.T) {
	for _, path := range [][]string{
		{"sync", "refs"},
		{"sync", "collections"},
		{"sync", "markdown"},
		{"template"},
		{"export"},
		{"serve"},
		{"history"},
		{"config"},
	} {
		c, _, err := RootCmd.Find(path)
		require.NoError(t, err, path)
		assert.Equal(t, path[len(path)-1], c.Name())
	}

	refs, _, _ := RootCmd.Find([]string{"sync", "refs"})
	assert.NotNil(t, refs.Flags().Lookup("force"))
	assert.NotNil(t, refs.Flags().Lookup("collections"))

	md, _, _ := RootCmd.Find([]string{"sync", "markdown"})
	assert.Equal(t, "skip", md.Flags().Lookup("on-conflict").DefValue)
}
