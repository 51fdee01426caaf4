package movement

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dtg01100/touch-settings/internal/logging"
)

func keyRune(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func sampleGroups() map[string]MovementGroup {
	return map[string]MovementGroup{
		"HOME_POS": {Velocity: 20, Acceleration: 30, Iterations: 1, Position: StringPtr("[1.000, 2.000, 3.000, 0.000, 0.000, 0.000]")},
		"JOG":      {Velocity: 5, Acceleration: 5, Iterations: 1},
		"NOZZLE CLEAN": {
			Velocity: 50, Acceleration: 40, Iterations: 3,
			Points: []string{"[0.000, 0.000, 0.000, 0.000, 0.000, 0.000]", "[10.000, 0.000, 0.000, 0.000, 0.000, 0.000]"},
		},
		"CUSTOM": {Velocity: 1, Acceleration: 2, Points: []string{"[1, 1, 1, 1, 1, 1]"}},
	}
}

type changeLog struct {
	keys   []string
	values []any
}

func (c *changeLog) record(k string, v any) {
	c.keys = append(c.keys, k)
	c.values = append(c.values, v)
}

func TestEditor_LoadOrderAndValues(t *testing.T) {
	e := NewEditor()
	e.Load(sampleGroups())

	assert.Equal(t, []string{"HOME_POS", "JOG", "NOZZLE CLEAN", "CUSTOM"}, e.Names())
	assert.Equal(t, MultiPosition, e.Group("CUSTOM").Definition().Type, "unknown groups are inferred")
	assert.NotNil(t, e.Group("NOZZLE CLEAN").Iterations())
	assert.Nil(t, e.Group("HOME_POS").Iterations())

	values := e.Values()
	require.Len(t, values, 4)
	assert.Equal(t, 20, values["HOME_POS"].Velocity)
	require.NotNil(t, values["HOME_POS"].Position)
	assert.Equal(t, "[1.000, 2.000, 3.000, 0.000, 0.000, 0.000]", *values["HOME_POS"].Position)
	assert.Equal(t, 1, values["JOG"].Iterations, "groups without iterations report 1")
	assert.Nil(t, values["JOG"].Position)
	assert.Empty(t, values["JOG"].Points)
	assert.Equal(t, 3, values["NOZZLE CLEAN"].Iterations)
	assert.Len(t, values["NOZZLE CLEAN"].Points, 2)
	assert.Nil(t, values["NOZZLE CLEAN"].Position)
}

func TestEditor_ReloadIsIdempotent(t *testing.T) {
	e := NewEditor()
	e.Load(sampleGroups())
	first := e.Values()
	home := e.Group("HOME_POS")

	e.Load(sampleGroups())

	assert.Len(t, e.Names(), 4)
	assert.Same(t, home, e.Group("HOME_POS"), "existing editors are reused")
	assert.Equal(t, first, e.Values())
}

func TestEditor_IncrementalLoad(t *testing.T) {
	e := NewEditor()
	e.Load(map[string]MovementGroup{"JOG": {Velocity: 5}})
	e.Load(map[string]MovementGroup{
		"LOGIN_POS": {Velocity: 7, Position: StringPtr("[0, 0, 0, 0, 0, 0]")},
		"JOG":       {Velocity: 9},
	})

	assert.Equal(t, []string{"JOG", "LOGIN_POS"}, e.Names(), "new groups are appended")
	assert.Equal(t, 9, e.Values()["JOG"].Velocity)
}

func TestEditor_LoadIsSilent(t *testing.T) {
	e := NewEditor()
	var log changeLog
	e.OnValueChanged(log.record)

	e.Load(sampleGroups())
	e.Load(map[string]MovementGroup{"HOME_POS": {Velocity: 99, Position: StringPtr("[5, 5, 5, 5, 5, 5]")}})

	assert.Empty(t, log.keys)
}

func TestEditor_LoadKeepsPositionWhenNil(t *testing.T) {
	e := NewEditor()
	e.Load(sampleGroups())
	e.Load(map[string]MovementGroup{"HOME_POS": {Velocity: 1}})

	assert.Equal(t, "[1.000, 2.000, 3.000, 0.000, 0.000, 0.000]", e.Group("HOME_POS").Position())
}

func TestEditor_ValueChangedKeys(t *testing.T) {
	e := NewEditor()
	e.Load(sampleGroups())
	var log changeLog
	e.OnValueChanged(log.record)

	e.Update(keyRune('+'))
	e.Update(tea.KeyMsg{Type: tea.KeyDown})
	e.Update(keyRune('-'))

	assert.Equal(t, []string{"HOME_POS.velocity", "HOME_POS.acceleration"}, log.keys)
	assert.Equal(t, []any{21, 29}, log.values)
}

func TestEditor_FocusCrossesGroups(t *testing.T) {
	e := NewEditor()
	e.Load(sampleGroups())

	e.Update(tea.KeyMsg{Type: tea.KeyDown})
	assert.Equal(t, "HOME_POS", e.Focused())
	e.Update(tea.KeyMsg{Type: tea.KeyDown})
	assert.Equal(t, "JOG", e.Focused())
	assert.Equal(t, 0, e.Group("JOG").Focused())

	e.Update(tea.KeyMsg{Type: tea.KeyUp})
	assert.Equal(t, "HOME_POS", e.Focused())
	assert.Equal(t, 1, e.Group("HOME_POS").Focused())

	e.Update(tea.KeyMsg{Type: tea.KeyUp})
	e.Update(tea.KeyMsg{Type: tea.KeyUp})
	assert.Equal(t, "HOME_POS", e.Focused(), "focus stops at the first group")
}

func TestEditor_EditSinglePosition(t *testing.T) {
	e := NewEditor()
	e.Load(map[string]MovementGroup{"HOME_POS": {Position: StringPtr("")}})
	var log changeLog
	e.OnValueChanged(log.record)

	e.Update(keyRune('e'))
	require.True(t, e.Capturing())
	assert.Contains(t, e.View(), "Edit Position - HOME_POS")

	e.Update(keyRune('+'))
	e.Update(tea.KeyMsg{Type: tea.KeyEnter})

	require.False(t, e.Capturing())
	want := "[0.100, 0.000, 0.000, 0.000, 0.000, 0.000]"
	assert.Equal(t, want, e.Group("HOME_POS").Position())
	assert.Equal(t, []string{"HOME_POS.position"}, log.keys)
	assert.Equal(t, []any{want}, log.values)
}

func TestEditor_CancelledDialogChangesNothing(t *testing.T) {
	e := NewEditor()
	e.Load(sampleGroups())
	var log changeLog
	e.OnValueChanged(log.record)

	e.Update(keyRune('e'))
	e.Update(keyRune('+'))
	e.Update(tea.KeyMsg{Type: tea.KeyEsc})

	assert.False(t, e.Capturing())
	assert.Empty(t, log.keys)
	assert.Equal(t, "[1.000, 2.000, 3.000, 0.000, 0.000, 0.000]", e.Group("HOME_POS").Position())
}

func TestEditor_MalformedPositionEditsFromZero(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(logging.NewHandler(&buf, slog.LevelDebug, false))
	e := NewEditor(WithLogger(logger))
	e.Load(map[string]MovementGroup{"HOME_POS": {Position: StringPtr("[1, 2]")}})

	e.Update(keyRune('e'))
	require.True(t, e.Capturing())
	assert.Equal(t, Position{}, e.Group("HOME_POS").Dialog().Position())
	assert.Contains(t, buf.String(), "malformed position")
}

func TestGroupEditor_Points(t *testing.T) {
	def := Definition{Name: "TOOL CHANGER", Type: MultiPosition, HasTrajectoryExecution: true}
	g := NewGroupEditor(def, nil)
	var log changeLog
	g.OnChange(log.record)

	g.RemoveSelectedPoint()
	assert.Empty(t, log.keys, "remove without selection is a no-op")

	g.AddPoint("[1, 0, 0, 0, 0, 0]")
	g.AddPoint("[2, 0, 0, 0, 0, 0]")
	assert.Equal(t, 1, g.SelectedPoint())

	g.SelectPoint(0)
	g.RemoveSelectedPoint()
	assert.Equal(t, []string{"[2, 0, 0, 0, 0, 0]"}, g.Points())
	require.Len(t, log.values, 3)
	assert.Equal(t, []string{"[2, 0, 0, 0, 0, 0]"}, log.values[2], "emissions carry the whole list")

	g.SetPosition("[9, 9, 9, 9, 9, 9]")
	assert.Len(t, log.keys, 3, "SetPosition is ignored by multi-position groups")
}

func TestGroupEditor_AddAndEditPointThroughDialog(t *testing.T) {
	g := NewGroupEditor(Definition{Name: "SLOT 0 PICKUP", Type: MultiPosition}, nil)

	g.Update(keyRune('a'))
	require.True(t, g.Capturing())
	g.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, []string{Position{}.String()}, g.Points())

	g.Update(keyRune('e'))
	require.True(t, g.Capturing())
	assert.Equal(t, "Edit Point 0 - SLOT 0 PICKUP", g.Dialog().Title())
	g.Update(tea.KeyMsg{Type: tea.KeyDown})
	g.Update(keyRune('+'))
	g.Update(tea.KeyMsg{Type: tea.KeyEnter})

	assert.Equal(t, []string{"[0.000, 0.100, 0.000, 0.000, 0.000, 0.000]"}, g.Points())
}

func TestEditor_Actions(t *testing.T) {
	e := NewEditor()
	e.Load(sampleGroups())

	type doneMsg struct{ name string }
	var requested []string
	e.OnSetCurrent(func(name string) tea.Cmd {
		requested = append(requested, "set:"+name)
		return func() tea.Msg { return doneMsg{name} }
	})
	e.OnMoveTo(func(name string) tea.Cmd {
		requested = append(requested, "move:"+name)
		return nil
	})
	e.OnExecuteTrajectory(func(name string) tea.Cmd {
		requested = append(requested, "exec:"+name)
		return nil
	})

	cmd := e.Update(keyRune('c'))
	require.NotNil(t, cmd)
	assert.Equal(t, doneMsg{"HOME_POS"}, cmd())

	e.Update(keyRune('m'))
	e.Update(keyRune('x'))
	assert.Equal(t, []string{"set:HOME_POS", "move:HOME_POS"}, requested, "single groups cannot execute")

	e.Update(tea.KeyMsg{Type: tea.KeyDown})
	e.Update(tea.KeyMsg{Type: tea.KeyDown})
	require.Equal(t, "JOG", e.Focused())
	e.Update(keyRune('c'))
	assert.Len(t, requested, 2, "velocity-only groups have no actions")

	assert.True(t, e.Group("NOZZLE CLEAN").RequestAction(ActionExecuteTrajectory))
	assert.False(t, e.Group("CUSTOM").RequestAction(ActionExecuteTrajectory))
	assert.Equal(t, "exec:NOZZLE CLEAN", requested[len(requested)-1])
}

func TestEditor_View(t *testing.T) {
	e := NewEditor()
	assert.Equal(t, "No movement groups", e.View())

	e.Load(sampleGroups())
	e.SetSize(80, 0)
	view := e.View()
	for _, name := range []string{"HOME_POS", "JOG", "NOZZLE CLEAN", "Iterations", "Points"} {
		assert.True(t, strings.Contains(view, name), "view missing %q", name)
	}

	e.SetSize(80, 10)
	assert.NotEmpty(t, e.View())
}
