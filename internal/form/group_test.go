package form

import (
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/go-cmp/cmp"

	apperrors "github.com/dtg01100/touch-settings/internal/errors"
	"github.com/dtg01100/touch-settings/internal/schema"
)

func robotGroup() schema.SettingGroup {
	return schema.NewGroup("Robot",
		schema.NewField("speed", "Speed", schema.WidgetSpinBox, schema.WithRange(0, 1000), schema.WithDefault(10)),
		schema.NewField("name", "Name", schema.WidgetLineEdit, schema.WithDefault("Robot")),
	)
}

func TestGroup_RoundTrip(t *testing.T) {
	g, err := NewGroup(robotGroup())
	if err != nil {
		t.Fatalf("NewGroup() error: %v", err)
	}

	g.SetValues(schema.Values{"speed": 42, "name": "HAL"})
	want := schema.Values{"speed": 42.0, "name": "HAL"}
	if diff := cmp.Diff(want, g.Values()); diff != "" {
		t.Errorf("Values() mismatch (-want +got):\n%s", diff)
	}
}

func TestGroup_UnknownKeysIgnored(t *testing.T) {
	g, err := NewGroup(robotGroup())
	if err != nil {
		t.Fatalf("NewGroup() error: %v", err)
	}

	g.SetValues(schema.Values{"speed": 5, "unknown_key": 999})
	want := schema.Values{"speed": 5.0, "name": "Robot"}
	if diff := cmp.Diff(want, g.Values()); diff != "" {
		t.Errorf("Values() mismatch (-want +got):\n%s", diff)
	}
}

func TestGroup_SetValuesIsSilent(t *testing.T) {
	g, err := NewGroup(robotGroup())
	if err != nil {
		t.Fatalf("NewGroup() error: %v", err)
	}
	calls := 0
	g.OnChange(func(string, any) { calls++ })

	g.SetValues(schema.Values{"speed": 500, "name": "X"})
	if calls != 0 {
		t.Errorf("SetValues triggered %d change events", calls)
	}
}

func TestGroup_ReEmitsChanges(t *testing.T) {
	g, err := NewGroup(robotGroup())
	if err != nil {
		t.Fatalf("NewGroup() error: %v", err)
	}
	var gotKey string
	var gotValue any
	g.OnChange(func(k string, v any) { gotKey, gotValue = k, v })

	g.Focus(0)
	g.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'+'}})

	if gotKey != "speed" || gotValue != 11.0 {
		t.Errorf("change = (%q, %v), want (speed, 11)", gotKey, gotValue)
	}
}

func TestGroup_SpanningLayoutRenders(t *testing.T) {
	def := schema.NewGroup("Marker",
		schema.NewField("a", "A", schema.WidgetSpinBox),
		schema.NewField("b", "B", schema.WidgetIntList, schema.WithRange(0, 255), schema.WithDefault("1,2")),
	)
	g, err := NewGroup(def)
	if err != nil {
		t.Fatalf("NewGroup() error: %v", err)
	}

	view := g.View(80)
	if !strings.Contains(view, "Marker") {
		t.Errorf("View() missing title: %q", view)
	}
	values := g.Values()
	for _, k := range []string{"a", "b"} {
		if _, ok := values[k]; !ok {
			t.Errorf("Values() missing %q", k)
		}
	}
}

func TestGroup_Errors(t *testing.T) {
	dup := schema.NewGroup("Dup",
		schema.NewField("a", "A", schema.WidgetSpinBox),
		schema.NewField("a", "A again", schema.WidgetSpinBox),
	)
	if _, err := NewGroup(dup); !errors.Is(err, apperrors.ErrDuplicateKey) {
		t.Errorf("NewGroup(dup) error = %v, want ErrDuplicateKey", err)
	}

	bad := schema.NewGroup("Bad", schema.NewField("a", "A", schema.WidgetType(77)))
	if _, err := NewGroup(bad); !errors.Is(err, apperrors.ErrUnknownWidget) {
		t.Errorf("NewGroup(bad) error = %v, want ErrUnknownWidget", err)
	}
}

func TestGroup_Focus(t *testing.T) {
	g, err := NewGroup(robotGroup())
	if err != nil {
		t.Fatalf("NewGroup() error: %v", err)
	}
	if g.Focused() != -1 {
		t.Errorf("Focused() = %d, want -1", g.Focused())
	}
	g.Focus(1)
	if g.Focused() != 1 {
		t.Errorf("Focused() = %d, want 1", g.Focused())
	}
	g.Blur()
	if g.Focused() != -1 || g.Capturing() {
		t.Error("Blur() should clear focus")
	}
	if diff := cmp.Diff([]string{"speed", "name"}, g.Keys()); diff != "" {
		t.Errorf("Keys() mismatch (-want +got):\n%s", diff)
	}
}
