package schema

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	apperrors "github.com/dtg01100/touch-settings/internal/errors"
)

func TestParseWidgetType(t *testing.T) {
	tests := []struct {
		tag     string
		want    WidgetType
		wantErr bool
	}{
		{"spinbox", WidgetSpinBox, false},
		{"double_spinbox", WidgetDoubleSpinBox, false},
		{"line_edit", WidgetLineEdit, false},
		{"combo", WidgetCombo, false},
		{"int_list", WidgetIntList, false},
		{"toggle", WidgetToggle, false},
		{" Combo ", WidgetCombo, false},
		{"slider", 0, true},
		{"", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.tag, func(t *testing.T) {
			got, err := ParseWidgetType(tt.tag)
			if tt.wantErr {
				if !errors.Is(err, apperrors.ErrUnknownWidget) {
					t.Errorf("ParseWidgetType(%q) error = %v, want ErrUnknownWidget", tt.tag, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseWidgetType(%q) unexpected error: %v", tt.tag, err)
			}
			if got != tt.want {
				t.Errorf("ParseWidgetType(%q) = %v, want %v", tt.tag, got, tt.want)
			}
			if got.String() != tt.want.String() {
				t.Errorf("String() = %q", got.String())
			}
		})
	}
}

func TestNewFieldDefaults(t *testing.T) {
	got := NewField("speed", "Speed", WidgetDoubleSpinBox)
	want := SettingField{
		Key:        "speed",
		Label:      "Speed",
		WidgetType: WidgetDoubleSpinBox,
		MinVal:     0,
		MaxVal:     100,
		Step:       1,
		Decimals:   2,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("NewField() mismatch (-want +got):\n%s", diff)
	}
}

func TestNewFieldOptions(t *testing.T) {
	got := NewField("x", "X", WidgetDoubleSpinBox,
		WithRange(-2000, 2000),
		WithStep(0.1),
		WithDecimals(3),
		WithSuffix(" mm"),
		WithStepOptions(0.1, 1, 10),
		WithDefault(0.0),
	)
	if got.MinVal != -2000 || got.MaxVal != 2000 {
		t.Errorf("range = [%g, %g], want [-2000, 2000]", got.MinVal, got.MaxVal)
	}
	if got.Step != 0.1 || got.Decimals != 3 || got.Suffix != " mm" {
		t.Errorf("unexpected step/decimals/suffix: %+v", got)
	}
	if diff := cmp.Diff([]float64{0.1, 1, 10}, got.StepOptions); diff != "" {
		t.Errorf("StepOptions mismatch (-want +got):\n%s", diff)
	}
}

func TestGroupIndependence(t *testing.T) {
	a := NewGroup("A")
	b := NewGroup("B")
	a.Add(NewField("speed", "Speed", WidgetSpinBox))

	if len(a.Fields) != 1 {
		t.Errorf("len(a.Fields) = %d, want 1", len(a.Fields))
	}
	if len(b.Fields) != 0 {
		t.Errorf("len(b.Fields) = %d, want 0", len(b.Fields))
	}

	shared := make([]SettingField, 1, 8)
	shared[0] = NewField("one", "One", WidgetSpinBox)
	c := NewGroup("C", shared...)
	d := NewGroup("D", shared...)
	c.Add(NewField("two", "Two", WidgetSpinBox))
	c.Fields[0].Label = "changed"

	if len(d.Fields) != 1 || d.Fields[0].Label != "One" {
		t.Errorf("groups built from one slice alias each other: %+v", d.Fields)
	}
}

func TestFieldValidate(t *testing.T) {
	tests := []struct {
		name    string
		field   SettingField
		wantErr *apperrors.AppError
	}{
		{"valid spinbox", NewField("a", "A", WidgetSpinBox, WithDefault(10)), nil},
		{"empty key", NewField("", "A", WidgetSpinBox), apperrors.ErrInvalidSchema},
		{"unknown widget", NewField("a", "A", WidgetType(42)), apperrors.ErrUnknownWidget},
		{"combo without choices", NewField("a", "A", WidgetCombo), apperrors.ErrInvalidSchema},
		{"combo with choices", NewField("a", "A", WidgetCombo, WithChoices("x")), nil},
		{"default above max", NewField("a", "A", WidgetSpinBox, WithDefault(101)), apperrors.ErrInvalidSchema},
		{"default not numeric", NewField("a", "A", WidgetDoubleSpinBox, WithDefault("fast")), apperrors.ErrInvalidSchema},
		{"min above max", NewField("a", "A", WidgetSpinBox, WithRange(5, 1)), apperrors.ErrInvalidSchema},
		{"zero step", NewField("a", "A", WidgetSpinBox, WithStep(0)), apperrors.ErrInvalidSchema},
		{"bad step option", NewField("a", "A", WidgetSpinBox, WithStepOptions(1, -5)), apperrors.ErrInvalidSchema},
		{"int list string default", NewField("a", "A", WidgetIntList, WithDefault("0,1,2")), nil},
		{"toggle bad default", NewField("a", "A", WidgetToggle, WithDefault("maybe")), apperrors.ErrInvalidSchema},
		{"toggle default", NewField("a", "A", WidgetToggle, WithDefault(true)), nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.field.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("Validate() unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateGroupsDuplicateKeys(t *testing.T) {
	g1 := NewGroup("One", NewField("speed", "Speed", WidgetSpinBox))
	g2 := NewGroup("Two", NewField("speed", "Speed again", WidgetSpinBox))

	if err := ValidateGroups(g1); err != nil {
		t.Fatalf("ValidateGroups(g1) unexpected error: %v", err)
	}
	if err := ValidateGroups(g1, g2); !errors.Is(err, apperrors.ErrDuplicateKey) {
		t.Errorf("ValidateGroups(g1, g2) = %v, want ErrDuplicateKey", err)
	}
	if err := ValidateTabs(Tab{Title: "a", Groups: []SettingGroup{g1}}, Tab{Title: "b", Groups: []SettingGroup{g2}}); !errors.Is(err, apperrors.ErrDuplicateKey) {
		t.Errorf("ValidateTabs() = %v, want ErrDuplicateKey", err)
	}
}

func TestDefaultValues(t *testing.T) {
	g := NewGroup("G",
		NewField("speed", "Speed", WidgetSpinBox, WithDefault(10)),
		NewField("name", "Name", WidgetLineEdit, WithDefault("Robot")),
		NewField("blank", "Blank", WidgetLineEdit),
	)
	want := Values{"speed": 10, "name": "Robot"}
	if diff := cmp.Diff(want, DefaultValues(g)); diff != "" {
		t.Errorf("DefaultValues() mismatch (-want +got):\n%s", diff)
	}
}
