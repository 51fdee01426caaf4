package store

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/dtg01100/touch-settings/internal/errors"
	"github.com/dtg01100/touch-settings/internal/movement"
	"github.com/dtg01100/touch-settings/internal/plugins"
	"github.com/dtg01100/touch-settings/internal/plugins/camera"
	"github.com/dtg01100/touch-settings/internal/plugins/glue"
	"github.com/dtg01100/touch-settings/internal/plugins/robot"
)

var (
	_ plugins.Service[glue.Settings]   = (*Document[glue.Settings])(nil)
	_ plugins.Service[camera.Settings] = (*Document[camera.Settings])(nil)
)

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{in: "yaml", want: YAML},
		{in: ".yml", want: YAML},
		{in: "JSON", want: JSON},
		{in: ".toml", wantErr: true},
		{in: "", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFormat(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, apperrors.ErrValidation)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	f, err := FormatFromPath("/tmp/export/robot.json")
	require.NoError(t, err)
	assert.Equal(t, JSON, f)
}

func TestEncodeDecode(t *testing.T) {
	in := glue.Defaults()
	in.GlueType = "Epoxy"

	for _, f := range []Format{YAML, JSON} {
		t.Run(string(f), func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, Encode(&buf, f, in))

			out := glue.Defaults()
			require.NoError(t, Decoder(&buf, f)(&out))
			if diff := cmp.Diff(in, out); diff != "" {
				t.Errorf("round trip mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestDecoder_KeepsMissingFields(t *testing.T) {
	out := glue.Defaults()
	require.NoError(t, Decoder(strings.NewReader("fan_speed: 75\n"), YAML)(&out))
	assert.Equal(t, 75.0, out.FanSpeed)
	assert.Equal(t, glue.Defaults().PumpSpeed, out.PumpSpeed)

	require.NoError(t, Decoder(strings.NewReader(""), YAML)(&out), "empty YAML documents are accepted")
	assert.Error(t, Decoder(strings.NewReader("{"), JSON)(&out))
}

func TestDocument_MissingFileLoadsDefaults(t *testing.T) {
	dir := t.TempDir()
	doc := NewDocument(dir, "glue", YAML, glue.Defaults, nil)

	assert.Equal(t, filepath.Join(dir, "glue.yaml"), doc.Path())
	assert.False(t, doc.Exists())

	rec, err := doc.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, glue.Defaults(), rec)
}

func TestDocument_SaveLoadWithBackup(t *testing.T) {
	ctx := context.Background()
	dir := filepath.Join(t.TempDir(), "nested", "data")
	doc := NewDocument(dir, "glue", YAML, glue.Defaults, nil)

	first := glue.Defaults()
	first.FanSpeed = 10
	require.NoError(t, doc.Save(ctx, first))
	assert.True(t, doc.Exists())
	_, err := os.Stat(doc.Path() + ".bak")
	assert.True(t, os.IsNotExist(err), "first save has nothing to back up")

	second := first
	second.FanSpeed = 20
	require.NoError(t, doc.Save(ctx, second))

	got, err := doc.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, 20.0, got.FanSpeed)

	require.NoError(t, doc.Restore())
	got, err = doc.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, 10.0, got.FanSpeed)

	assert.ErrorIs(t, doc.Restore(), apperrors.ErrRepository)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	for _, e := range entries {
		assert.NotContains(t, e.Name(), ".tmp-", "temp files are renamed away")
	}
}

func TestDocument_PartialFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "glue.yaml"), []byte("spray_width: 3.5\n"), 0o644))

	rec, err := NewDocument(dir, "glue", YAML, glue.Defaults, nil).Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3.5, rec.SprayWidth)
	assert.Equal(t, glue.Defaults().GlueType, rec.GlueType)
}

func TestDocument_CorruptFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "glue.yaml"), []byte("spray_width: [\n"), 0o644))

	rec, err := NewDocument(dir, "glue", YAML, glue.Defaults, nil).Load(context.Background())
	assert.ErrorIs(t, err, apperrors.ErrRepository)
	assert.Equal(t, glue.Defaults(), rec)
}

func TestDocument_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	doc := NewDocument(t.TempDir(), "glue", YAML, glue.Defaults, nil)

	assert.ErrorIs(t, doc.Save(ctx, glue.Defaults()), apperrors.ErrRepository)
	assert.False(t, doc.Exists())
	_, err := doc.Load(ctx)
	assert.ErrorIs(t, err, apperrors.ErrRepository)
}

func TestDocument_CameraJSON(t *testing.T) {
	ctx := context.Background()
	doc := NewDocument(t.TempDir(), "camera", JSON, camera.Defaults, nil)

	rec := camera.Defaults()
	rec.Core.Width = 1920
	rec.AreaPoints = []camera.Point{{10, 20}, {30, 40}}
	require.NoError(t, doc.Save(ctx, rec))

	data, err := os.ReadFile(doc.Path())
	require.NoError(t, err)
	assert.Contains(t, string(data), `"Brightness Control"`)

	got, err := doc.Load(ctx)
	require.NoError(t, err)
	if diff := cmp.Diff(rec, got); diff != "" {
		t.Errorf("camera document mismatch (-want +got):\n%s", diff)
	}
}

func TestDocument_RobotMovementGroups(t *testing.T) {
	ctx := context.Background()
	doc := NewDocument(t.TempDir(), "robot_config", YAML, robot.DefaultConfig, nil)
	assert.Equal(t, "robot-config.yaml", filepath.Base(doc.Path()))

	rec := robot.DefaultConfig()
	rec.MovementGroups["HOME_POS"] = movement.MovementGroup{
		Velocity: 20, Acceleration: 30, Iterations: 1,
		Position: movement.StringPtr("[1.000, 2.000, 3.000, 0.000, 0.000, 0.000]"),
		Points:   []string{},
	}
	rec.NegX = false
	require.NoError(t, doc.Save(ctx, rec))

	got, err := doc.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, rec.MovementGroups["HOME_POS"], got.MovementGroups["HOME_POS"])
	assert.Len(t, got.MovementGroups, len(rec.MovementGroups))
	assert.Equal(t, robot.Direction(false), got.NegX)
	assert.Equal(t, robot.Direction(true), got.PosX)
}

func TestGlueTypes(t *testing.T) {
	ctx := context.Background()
	s := NewGlueTypes(t.TempDir(), nil)

	types, err := s.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, types)

	epoxy, err := s.Add(ctx, "  Epoxy ", "two part")
	require.NoError(t, err)
	assert.Equal(t, "Epoxy", epoxy.Name)
	assert.Len(t, epoxy.ID, 36)

	_, err = s.Add(ctx, "epoxy", "")
	assert.ErrorIs(t, err, apperrors.ErrValidation, "names are unique regardless of case")
	_, err = s.Add(ctx, "Type A", "")
	assert.ErrorIs(t, err, apperrors.ErrValidation)
	_, err = s.Add(ctx, " ", "")
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	hotmelt, err := s.Add(ctx, "Hotmelt", "")
	require.NoError(t, err)

	require.NoError(t, s.Update(ctx, epoxy.ID, "Epoxy 2K", "slow cure"))
	assert.ErrorIs(t, s.Update(ctx, epoxy.ID, "hotmelt", ""), apperrors.ErrValidation)
	assert.ErrorIs(t, s.Update(ctx, "missing", "X", ""), apperrors.ErrValidation)

	types, err = s.List(ctx)
	require.NoError(t, err)
	want := []glue.GlueType{
		{ID: epoxy.ID, Name: "Epoxy 2K", Description: "slow cure"},
		{ID: hotmelt.ID, Name: "Hotmelt", Description: ""},
	}
	if diff := cmp.Diff(want, types); diff != "" {
		t.Errorf("List() mismatch (-want +got):\n%s", diff)
	}

	require.NoError(t, s.Remove(ctx, epoxy.ID))
	assert.ErrorIs(t, s.Remove(ctx, epoxy.ID), apperrors.ErrValidation)

	reopened := NewGlueTypes(filepath.Dir(s.Path()), nil)
	types, err = reopened.List(ctx)
	require.NoError(t, err)
	require.Len(t, types, 1)
	assert.Equal(t, "Hotmelt", types[0].Name)
}
