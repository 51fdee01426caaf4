package schema

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestValuesClone(t *testing.T) {
	orig := Values{"ids": []int{1, 2}, "speed": 10.0}
	clone := orig.Clone()
	clone["ids"].([]int)[0] = 99
	clone["speed"] = 20.0

	if orig["ids"].([]int)[0] != 1 {
		t.Error("Clone shares int list backing array")
	}
	if orig["speed"] != 10.0 {
		t.Error("Clone shares map")
	}
	if Values(nil).Clone() != nil {
		t.Error("Clone of nil should be nil")
	}
}

func TestValuesMergeKeysOnly(t *testing.T) {
	v := Values{"b": 1.0, "a": "x"}
	v.Merge(Values{"c": true, "a": "y"})

	if diff := cmp.Diff([]string{"a", "b", "c"}, v.Keys()); diff != "" {
		t.Errorf("Keys() mismatch (-want +got):\n%s", diff)
	}
	if v["a"] != "y" {
		t.Errorf("Merge did not overwrite: a = %v", v["a"])
	}
	if diff := cmp.Diff(Values{"c": true}, v.Only("c", "missing")); diff != "" {
		t.Errorf("Only() mismatch (-want +got):\n%s", diff)
	}
}

func TestFieldCoerce(t *testing.T) {
	tests := []struct {
		name    string
		field   SettingField
		raw     string
		want    any
		wantErr bool
	}{
		{"spinbox", NewField("s", "S", WidgetSpinBox, WithRange(0, 1000)), "42", 42.0, false},
		{"spinbox out of range", NewField("s", "S", WidgetSpinBox), "500", nil, true},
		{"double", NewField("d", "D", WidgetDoubleSpinBox), " 2.5 ", 2.5, false},
		{"not a number", NewField("d", "D", WidgetDoubleSpinBox), "fast", nil, true},
		{"toggle", NewField("t", "T", WidgetToggle), "true", true, false},
		{"toggle invalid", NewField("t", "T", WidgetToggle), "maybe", nil, true},
		{"combo", NewField("c", "C", WidgetCombo, WithChoices("a", "b")), "b", "b", false},
		{"combo invalid", NewField("c", "C", WidgetCombo, WithChoices("a", "b")), "z", nil, true},
		{"int list", NewField("l", "L", WidgetIntList), "[1, 2;3]", []int{1, 2, 3}, false},
		{"int list empty", NewField("l", "L", WidgetIntList), "", []int{}, false},
		{"int list invalid", NewField("l", "L", WidgetIntList), "1,x", nil, true},
		{"line edit", NewField("n", "N", WidgetLineEdit), "HAL", "HAL", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.field.Coerce(tt.raw)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Coerce(%q) error = %v, wantErr %v", tt.raw, err, tt.wantErr)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Coerce(%q) mismatch (-want +got):\n%s", tt.raw, diff)
			}
		})
	}
}

const groupsDoc = `
- title: Motion
  fields:
    - key: speed
      label: Speed
      widget_type: spinbox
      max_val: 1000
      default: 10
    - key: required_ids
      label: Required IDs
      widget_type: int_list
      max_val: 255
      default: "0,1,2"
    - key: mode
      label: Mode
      widget_type: combo
      choices: [fast, slow]
`

func TestLoadGroupsYAML(t *testing.T) {
	groups, err := LoadGroupsYAML([]byte(groupsDoc))
	if err != nil {
		t.Fatalf("LoadGroupsYAML() error: %v", err)
	}
	if len(groups) != 1 || len(groups[0].Fields) != 3 {
		t.Fatalf("unexpected groups: %+v", groups)
	}

	speed := groups[0].Fields[0]
	if speed.WidgetType != WidgetSpinBox {
		t.Errorf("WidgetType = %v, want spinbox", speed.WidgetType)
	}
	if speed.MaxVal != 1000 || speed.Step != 1 || speed.Decimals != 2 {
		t.Errorf("defaults not applied: %+v", speed)
	}
	if diff := cmp.Diff([]string{"speed", "required_ids", "mode"}, groups[0].Keys()); diff != "" {
		t.Errorf("Keys() mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadGroupsYAMLRejectsUnknownWidget(t *testing.T) {
	doc := `
- title: Bad
  fields:
    - key: a
      label: A
      widget_type: slider
`
	if _, err := LoadGroupsYAML([]byte(doc)); err == nil {
		t.Error("LoadGroupsYAML() should reject an unknown widget type")
	}
}

func TestTabsYAMLRoundTrip(t *testing.T) {
	tabs := []Tab{{
		Title: "Core",
		Groups: []SettingGroup{NewGroup("Frame",
			NewField("width", "Width", WidgetSpinBox, WithRange(0, 4000), WithDefault(1280)),
			NewField("flip", "Flip", WidgetToggle),
		)},
	}}

	data, err := MarshalTabsYAML(tabs)
	if err != nil {
		t.Fatalf("MarshalTabsYAML() error: %v", err)
	}
	got, err := LoadTabsYAML(data)
	if err != nil {
		t.Fatalf("LoadTabsYAML() error: %v", err)
	}
	if got[0].Groups[0].Fields[1].WidgetType != WidgetToggle {
		t.Errorf("widget type lost in round trip: %+v", got[0].Groups[0].Fields[1])
	}
	if got[0].Fields()[0].Key != "width" {
		t.Errorf("Fields()[0] = %+v", got[0].Fields()[0])
	}
}
