// Package schema describes settings forms declaratively: typed fields,
// named groups of fields and the tabs that stack them.
//
// Schema values are plain data. They are built by a plugin's schema
// factory (or loaded from YAML) and handed to the form layer, which never
// mutates them.
package schema

import (
	"fmt"
	"strings"

	"github.com/spf13/cast"
	"gopkg.in/yaml.v3"

	apperrors "github.com/dtg01100/touch-settings/internal/errors"
)

// WidgetType selects the control a field is rendered with.
type WidgetType int

const (
	// WidgetSpinBox is an integer touch spin box.
	WidgetSpinBox WidgetType = iota + 1
	// WidgetDoubleSpinBox is a decimal touch spin box.
	WidgetDoubleSpinBox
	// WidgetLineEdit is free-form text.
	WidgetLineEdit
	// WidgetCombo is a selection from a fixed list of choices.
	WidgetCombo
	// WidgetIntList is an editable ordered list of integers.
	WidgetIntList
	// WidgetToggle is a boolean on/off switch.
	WidgetToggle
)

var widgetTags = map[WidgetType]string{
	WidgetSpinBox:       "spinbox",
	WidgetDoubleSpinBox: "double_spinbox",
	WidgetLineEdit:      "line_edit",
	WidgetCombo:         "combo",
	WidgetIntList:       "int_list",
	WidgetToggle:        "toggle",
}

// WidgetTypes returns every known widget type in declaration order.
func WidgetTypes() []WidgetType {
	return []WidgetType{
		WidgetSpinBox,
		WidgetDoubleSpinBox,
		WidgetLineEdit,
		WidgetCombo,
		WidgetIntList,
		WidgetToggle,
	}
}

// String returns the schema tag of the widget type.
func (w WidgetType) String() string {
	if tag, ok := widgetTags[w]; ok {
		return tag
	}
	return fmt.Sprintf("WidgetType(%d)", int(w))
}

// Valid reports whether w is one of the known widget types.
func (w WidgetType) Valid() bool {
	_, ok := widgetTags[w]
	return ok
}

// Numeric reports whether the widget carries numeric bounds.
func (w WidgetType) Numeric() bool {
	return w == WidgetSpinBox || w == WidgetDoubleSpinBox || w == WidgetIntList
}

// ParseWidgetType converts a schema tag into a WidgetType.
// Unknown tags are rejected with an ErrUnknownWidget error.
func ParseWidgetType(tag string) (WidgetType, error) {
	tag = strings.TrimSpace(strings.ToLower(tag))
	for w, t := range widgetTags {
		if t == tag {
			return w, nil
		}
	}
	return 0, apperrors.NewUnknownWidgetError("", tag)
}

// MarshalYAML encodes the widget type as its tag.
func (w WidgetType) MarshalYAML() (interface{}, error) {
	return w.String(), nil
}

// UnmarshalYAML decodes a widget type from its tag.
func (w *WidgetType) UnmarshalYAML(node *yaml.Node) error {
	var tag string
	if err := node.Decode(&tag); err != nil {
		return err
	}
	parsed, err := ParseWidgetType(tag)
	if err != nil {
		return err
	}
	*w = parsed
	return nil
}

// MarshalText encodes the widget type as its tag for JSON.
func (w WidgetType) MarshalText() ([]byte, error) {
	return []byte(w.String()), nil
}

// UnmarshalText decodes a widget type from its tag for JSON.
func (w *WidgetType) UnmarshalText(text []byte) error {
	parsed, err := ParseWidgetType(string(text))
	if err != nil {
		return err
	}
	*w = parsed
	return nil
}

// SettingField describes one configurable value.
type SettingField struct {
	Key        string     `json:"key" yaml:"key"`
	Label      string     `json:"label" yaml:"label"`
	WidgetType WidgetType `json:"widget_type" yaml:"widget_type"`
	Default    any        `json:"default,omitempty" yaml:"default,omitempty"`

	// Numeric constraints, ignored by text, combo and toggle fields.
	MinVal      float64   `json:"min_val" yaml:"min_val"`
	MaxVal      float64   `json:"max_val" yaml:"max_val"`
	Step        float64   `json:"step" yaml:"step"`
	Decimals    int       `json:"decimals" yaml:"decimals"`
	Suffix      string    `json:"suffix,omitempty" yaml:"suffix,omitempty"`
	StepOptions []float64 `json:"step_options,omitempty" yaml:"step_options,omitempty"`

	Choices []string `json:"choices,omitempty" yaml:"choices,omitempty"`
}

// FieldOption customizes a field built by NewField.
type FieldOption func(*SettingField)

// WithRange sets the inclusive numeric bounds.
func WithRange(min, max float64) FieldOption {
	return func(f *SettingField) {
		f.MinVal = min
		f.MaxVal = max
	}
}

// WithStep sets the default increment.
func WithStep(step float64) FieldOption {
	return func(f *SettingField) { f.Step = step }
}

// WithDecimals sets the display precision.
func WithDecimals(decimals int) FieldOption {
	return func(f *SettingField) { f.Decimals = decimals }
}

// WithSuffix sets the unit appended to the displayed value.
func WithSuffix(suffix string) FieldOption {
	return func(f *SettingField) { f.Suffix = suffix }
}

// WithStepOptions sets the step sizes offered as quick-select pills.
func WithStepOptions(steps ...float64) FieldOption {
	return func(f *SettingField) { f.StepOptions = append([]float64(nil), steps...) }
}

// WithChoices sets the allowed values of a combo field.
func WithChoices(choices ...string) FieldOption {
	return func(f *SettingField) { f.Choices = append([]string(nil), choices...) }
}

// WithDefault sets the initial value.
func WithDefault(v any) FieldOption {
	return func(f *SettingField) { f.Default = v }
}

// NewField builds a field with the standard numeric defaults
// (range 0..100, step 1, two decimals) and applies opts on top.
func NewField(key, label string, wt WidgetType, opts ...FieldOption) SettingField {
	f := SettingField{
		Key:        key,
		Label:      label,
		WidgetType: wt,
		MinVal:     0,
		MaxVal:     100,
		Step:       1,
		Decimals:   2,
	}
	for _, opt := range opts {
		opt(&f)
	}
	return f
}

// UnmarshalYAML decodes a field, filling attributes the document omits
// with the same defaults NewField uses.
func (f *SettingField) UnmarshalYAML(node *yaml.Node) error {
	type plain SettingField
	p := plain(NewField("", "", 0))
	if err := node.Decode(&p); err != nil {
		return err
	}
	*f = SettingField(p)
	return nil
}

// Validate checks the field's invariants.
func (f SettingField) Validate() error {
	if strings.TrimSpace(f.Key) == "" {
		return apperrors.NewInvalidSchemaError(fmt.Sprintf("field %q has an empty key", f.Label), nil)
	}
	if !f.WidgetType.Valid() {
		return apperrors.NewUnknownWidgetError(f.Key, f.WidgetType.String())
	}

	switch f.WidgetType {
	case WidgetCombo:
		if len(f.Choices) == 0 {
			return f.invalid("combo has no choices")
		}
	case WidgetSpinBox, WidgetDoubleSpinBox, WidgetIntList:
		if f.MinVal > f.MaxVal {
			return f.invalid(fmt.Sprintf("min %g is above max %g", f.MinVal, f.MaxVal))
		}
		if f.WidgetType != WidgetIntList {
			if f.Step <= 0 {
				return f.invalid(fmt.Sprintf("step %g must be positive", f.Step))
			}
			for _, s := range f.StepOptions {
				if s <= 0 {
					return f.invalid(fmt.Sprintf("step option %g must be positive", s))
				}
			}
			if f.Default != nil {
				d, err := cast.ToFloat64E(f.Default)
				if err != nil {
					return f.invalid(fmt.Sprintf("default %v is not numeric", f.Default))
				}
				if d < f.MinVal || d > f.MaxVal {
					return f.invalid(fmt.Sprintf("default %g is outside [%g, %g]", d, f.MinVal, f.MaxVal))
				}
			}
		}
		if f.Decimals < 0 {
			return f.invalid("decimals must not be negative")
		}
	case WidgetToggle:
		if f.Default != nil {
			if _, err := cast.ToBoolE(f.Default); err != nil {
				return f.invalid(fmt.Sprintf("default %v is not a boolean", f.Default))
			}
		}
	}
	return nil
}

func (f SettingField) invalid(details string) error {
	return apperrors.NewInvalidSchemaError(fmt.Sprintf("field %q: %s", f.Key, details), nil)
}

// SettingGroup is a titled, ordered sequence of fields.
type SettingGroup struct {
	Title  string         `json:"title" yaml:"title"`
	Fields []SettingField `json:"fields" yaml:"fields"`
}

// NewGroup builds a group that owns a private copy of fields.
func NewGroup(title string, fields ...SettingField) SettingGroup {
	owned := make([]SettingField, len(fields))
	copy(owned, fields)
	return SettingGroup{Title: title, Fields: owned}
}

// Add appends a field to the group.
func (g *SettingGroup) Add(field SettingField) {
	g.Fields = append(g.Fields, field)
}

// Keys returns the field keys in declaration order.
func (g SettingGroup) Keys() []string {
	keys := make([]string, len(g.Fields))
	for i, f := range g.Fields {
		keys[i] = f.Key
	}
	return keys
}

// Field returns the field with the given key.
func (g SettingGroup) Field(key string) (SettingField, bool) {
	for _, f := range g.Fields {
		if f.Key == key {
			return f, true
		}
	}
	return SettingField{}, false
}

// Validate checks every field and key uniqueness within the group.
func (g SettingGroup) Validate() error {
	return ValidateGroups(g)
}

// ValidateGroups checks every field of groups and that keys are unique
// across all of them, as required within one form.
func ValidateGroups(groups ...SettingGroup) error {
	seen := make(map[string]bool)
	for _, g := range groups {
		for _, f := range g.Fields {
			if err := f.Validate(); err != nil {
				return err
			}
			if seen[f.Key] {
				return apperrors.NewDuplicateKeyError(f.Key)
			}
			seen[f.Key] = true
		}
	}
	return nil
}

// Tab is a titled stack of groups.
type Tab struct {
	Title  string         `json:"title" yaml:"title"`
	Groups []SettingGroup `json:"groups" yaml:"groups"`
}

// Fields returns every field of the tab in order.
func (t Tab) Fields() []SettingField {
	var fields []SettingField
	for _, g := range t.Groups {
		fields = append(fields, g.Fields...)
	}
	return fields
}

// ValidateTabs checks tabs that together make up one form.
func ValidateTabs(tabs ...Tab) error {
	var groups []SettingGroup
	for _, t := range tabs {
		groups = append(groups, t.Groups...)
	}
	return ValidateGroups(groups...)
}

// DefaultValues returns the flat defaults of every field in groups.
// Fields without a default are omitted.
func DefaultValues(groups ...SettingGroup) Values {
	values := make(Values)
	for _, g := range groups {
		for _, f := range g.Fields {
			if f.Default != nil {
				values[f.Key] = f.Default
			}
		}
	}
	return values
}
