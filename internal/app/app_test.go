package app

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dtg01100/touch-settings/internal/config"
	"github.com/dtg01100/touch-settings/internal/schema"
)

func newTestApp(t *testing.T) *App {
	t.Helper()
	cfg := config.NewWithDefaults(filepath.Join(t.TempDir(), "config.yaml"))
	cfg.DataDir = t.TempDir()
	a, err := New(cfg, Devices{}, nil)
	require.NoError(t, err)
	return a
}

func TestNew_RegistersDomains(t *testing.T) {
	a := newTestApp(t)
	assert.Equal(t, []string{"camera", "glue", "robot"}, a.Registry.Names())
	for _, p := range a.Registry.All() {
		assert.NotEmpty(t, p.Title())
		assert.NotEmpty(t, p.Tabs())
	}
}

func TestNew_FilesLandInDataDir(t *testing.T) {
	ctx := context.Background()
	a := newTestApp(t)

	for _, name := range a.Registry.Names() {
		p, err := a.Registry.Get(name)
		require.NoError(t, err)
		require.NoError(t, p.Reset(ctx))
	}
	_, err := a.GlueTypes.Add(ctx, "Epoxy", "")
	require.NoError(t, err)

	for _, f := range []string{"camera.json", "glue.yaml", "glue-types.yaml", "robot-config.yaml", "robot-calibration.yaml"} {
		_, err := os.Stat(filepath.Join(a.Config.DataDir, f))
		assert.NoError(t, err, f)
	}
}

func TestNew_ApplyPersists(t *testing.T) {
	ctx := context.Background()
	a := newTestApp(t)

	p, err := a.Registry.Get("glue")
	require.NoError(t, err)
	require.NoError(t, p.Apply(ctx, schema.Values{"fan_speed": 42.0}))

	again, err := New(a.Config, Devices{}, nil)
	require.NoError(t, err)
	p, err = again.Registry.Get("glue")
	require.NoError(t, err)
	values, err := p.Fetch(ctx)
	require.NoError(t, err)
	assert.Equal(t, 42.0, values["fan_speed"])
}

func TestPreflightChecks_Pass(t *testing.T) {
	a := newTestApp(t)

	results := a.PreflightChecks(context.Background())
	require.Len(t, results, 6)
	assert.True(t, AllPassed(results), FormatResults(results))
	assert.False(t, HasCriticalFailure(results))
	assert.Equal(t, "Data Directory", results[1].Name)
	assert.Equal(t, "Robot Settings", results[4].Name)
}

func TestPreflightChecks_CorruptFile(t *testing.T) {
	a := newTestApp(t)
	require.NoError(t, os.WriteFile(filepath.Join(a.Config.DataDir, "glue.yaml"), []byte("fan_speed: [\n"), 0o644))

	results := a.PreflightChecks(context.Background())
	assert.False(t, AllPassed(results))
	assert.False(t, HasCriticalFailure(results), "a corrupt settings file is not critical")

	out := FormatResults(results)
	assert.Contains(t, out, "⚠ FAIL (optional)")
	assert.Contains(t, out, "touch-settings reset glue")
}

func TestPreflightChecks_DataDirNotWritable(t *testing.T) {
	a := newTestApp(t)
	blocker := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(blocker, nil, 0o644))
	a.Config.DataDir = filepath.Join(blocker, "data")

	results := a.PreflightChecks(context.Background())
	require.Len(t, results, 3)
	assert.True(t, HasCriticalFailure(results))
	assert.Contains(t, FormatResults(results), "✗ FAIL (critical)")
	assert.Contains(t, results[2].Message, "Skipped")
}

func TestPreflightChecks_InvalidConfig(t *testing.T) {
	a := newTestApp(t)
	a.Config.Log.Level = "loud"

	results := a.PreflightChecks(context.Background())
	assert.False(t, results[0].Passed)
	assert.True(t, HasCriticalFailure(results))
}
