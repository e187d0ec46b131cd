package cli

import (
	"bytes"
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nbelyaev/linewatch/internal/api"
	"github.com/nbelyaev/linewatch/internal/config"
	"github.com/nbelyaev/linewatch/internal/devserver"
	"github.com/nbelyaev/linewatch/internal/poller"
	"github.com/nbelyaev/linewatch/internal/registry"
	"github.com/nbelyaev/linewatch/internal/service"
	"github.com/nbelyaev/linewatch/internal/stream"
)

// newTestApp wires a full App against the stub backend.
func newTestApp(t *testing.T) (*App, *bytes.Buffer) {
	t.Helper()

	ts := httptest.NewServer(devserver.New(devserver.DemoFixture()).Handler())
	t.Cleanup(ts.Close)

	cfg := config.Default()
	cfg.APIBase = ts.URL
	cfg.PollIntervalMs = 50

	client := api.NewClient(cfg)
	reg := registry.NewRegistry(nil)
	monitor := service.NewMonitorService(client, reg, nil, nil, nil)

	var out bytes.Buffer
	app := &App{
		Config:  cfg,
		Monitor: monitor,
		Scanner: poller.New(client, time.Duration(cfg.PollIntervalMs)*time.Millisecond),
		Stream:  stream.NewClient(cfg, nil, nil),
		Out:     &out,
	}
	return app, &out
}

func runCommand(t *testing.T, app *App, args ...string) error {
	t.Helper()
	root := NewRootCmd(app)
	root.SetArgs(args)
	root.SetOut(app.Out.(*bytes.Buffer))
	root.SetErr(app.Out.(*bytes.Buffer))

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	return root.ExecuteContext(ctx)
}

func TestConflictsCommand_ListsDetectedConflicts(t *testing.T) {
	app, out := newTestApp(t)

	require.NoError(t, runCommand(t, app, "conflicts"))
	assert.Contains(t, out.String(), "conflict_14_3")
	assert.Contains(t, out.String(), "CRITICAL")
	assert.Contains(t, out.String(), "Линия А")
}

func TestConflictsCommand_SeverityFilter(t *testing.T) {
	app, out := newTestApp(t)

	require.NoError(t, runCommand(t, app, "conflicts", "--severity", "low"))
	assert.Contains(t, out.String(), "No conflicts")

	require.Error(t, runCommand(t, app, "conflicts", "--severity", "apocalyptic"))
}

func TestConflictsCommand_CSVToStdout(t *testing.T) {
	app, out := newTestApp(t)

	require.NoError(t, runCommand(t, app, "conflicts", "--csv", "-"))
	assert.Contains(t, out.String(), "id,severity,status")
	assert.Contains(t, out.String(), "conflict_14_3,critical,new")
}

func TestConflictShowCommand(t *testing.T) {
	app, out := newTestApp(t)

	require.NoError(t, runCommand(t, app, "conflicts", "show", "conflict_14_3"))
	assert.Contains(t, out.String(), "Йогурт 2%")
	assert.Contains(t, out.String(), "05-12-2025..07-12-2025")

	assert.Error(t, runCommand(t, app, "conflicts", "show", "missing"))
}

func TestAckAndResolveCommands(t *testing.T) {
	app, out := newTestApp(t)

	require.NoError(t, runCommand(t, app, "ack", "conflict_14_3"))
	assert.Contains(t, out.String(), "Acknowledged conflict_14_3")

	require.NoError(t, runCommand(t, app, "resolve", "conflict_14_3", "--notes", "shifted plan"))
	assert.Contains(t, out.String(), "Resolved conflict_14_3")

	// Resolved is terminal for ack.
	err := runCommand(t, app, "ack", "conflict_14_3")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already resolved")
}

func TestAckCommand_UnknownID(t *testing.T) {
	app, _ := newTestApp(t)
	err := runCommand(t, app, "ack", "nope")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestScanCommand_RunsToCompletion(t *testing.T) {
	app, out := newTestApp(t)

	require.NoError(t, runCommand(t, app, "scan"))
	assert.Contains(t, out.String(), "started")
	assert.Contains(t, out.String(), "completed")
	assert.Contains(t, out.String(), "conflicts detected")
}

func TestScanCommand_NoWait(t *testing.T) {
	app, out := newTestApp(t)

	require.NoError(t, runCommand(t, app, "scan", "--no-wait"))
	assert.Contains(t, out.String(), "started")
	assert.NotContains(t, out.String(), "completed")
}

func TestLinesCommand(t *testing.T) {
	app, out := newTestApp(t)

	require.NoError(t, runCommand(t, app, "lines"))
	assert.Contains(t, out.String(), "Линия А")
	assert.Contains(t, out.String(), "Линия Б")
}

func TestJobsCommand(t *testing.T) {
	app, out := newTestApp(t)

	require.NoError(t, runCommand(t, app, "scan", "--no-wait"))
	require.NoError(t, runCommand(t, app, "jobs"))
	assert.Regexp(t, "pending|running|completed", out.String())
}
