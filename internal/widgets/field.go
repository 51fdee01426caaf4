// Package widgets implements the interactive controls settings forms are
// built from. Every control separates programmatic updates (SetValue, which
// never notifies) from user actions (which notify OnChange handlers with the
// field key and the new value).
package widgets

import (
	tea "github.com/charmbracelet/bubbletea"

	apperrors "github.com/dtg01100/touch-settings/internal/errors"
	"github.com/dtg01100/touch-settings/internal/schema"
)

// ChangeFunc receives a user-driven change of one field.
type ChangeFunc func(key string, value any)

// Field is a live control bound to one schema field.
type Field interface {
	// Key returns the schema key of the field.
	Key() string
	// Kind returns the widget type the control renders.
	Kind() schema.WidgetType
	// Value returns the current value in its flat map representation.
	Value() any
	// SetValue replaces the value without notifying change handlers.
	SetValue(v any)
	// OnChange registers a handler for user-driven changes.
	OnChange(fn ChangeFunc)
	// Update handles a bubbletea message while the field has focus.
	Update(msg tea.Msg) tea.Cmd
	// View renders the control.
	View(focused bool) string
}

// Focusable is implemented by controls that track keyboard focus themselves.
type Focusable interface {
	Focus() tea.Cmd
	Blur()
}

// Capturer is implemented by controls that can open an inline editor.
// While Capturing returns true the control consumes navigation keys.
type Capturer interface {
	Capturing() bool
}

// TextEntry is implemented by controls that take printable characters
// while focused, so single-key shortcuts must not intercept them.
type TextEntry interface {
	EntersText() bool
}

// emitter fans a change out to registered handlers.
type emitter struct {
	key      string
	handlers []ChangeFunc
}

// Key returns the field key.
func (e *emitter) Key() string {
	return e.key
}

// OnChange registers fn for user-driven changes.
func (e *emitter) OnChange(fn ChangeFunc) {
	if fn != nil {
		e.handlers = append(e.handlers, fn)
	}
}

func (e *emitter) emit(value any) {
	for _, h := range e.handlers {
		h(e.key, value)
	}
}

// Constructor builds a control for a schema field.
type Constructor func(f schema.SettingField) (Field, error)

var registry = map[schema.WidgetType]Constructor{
	schema.WidgetSpinBox:       newSpinField,
	schema.WidgetDoubleSpinBox: newSpinField,
	schema.WidgetLineEdit:      newLineEditField,
	schema.WidgetCombo:         newComboField,
	schema.WidgetIntList:       newIntListField,
	schema.WidgetToggle:        newToggleField,
}

// New builds the control for f. Unknown widget types are rejected.
func New(f schema.SettingField) (Field, error) {
	ctor, ok := registry[f.WidgetType]
	if !ok {
		return nil, apperrors.NewUnknownWidgetError(f.Key, f.WidgetType.String())
	}
	return ctor(f)
}

func newSpinField(f schema.SettingField) (Field, error) {
	decimals := f.Decimals
	if f.WidgetType == schema.WidgetSpinBox {
		decimals = 0
	}
	initial := 0.0
	if f.Default != nil {
		if d, ok := toFloat(f.Default); ok {
			initial = d
		}
	}
	s := NewTouchSpinBox(f.Key, SpinOptions{
		Min:         f.MinVal,
		Max:         f.MaxVal,
		Initial:     initial,
		Step:        f.Step,
		Decimals:    decimals,
		Suffix:      f.Suffix,
		StepOptions: f.StepOptions,
	})
	s.kind = f.WidgetType
	return s, nil
}

func newLineEditField(f schema.SettingField) (Field, error) {
	initial := ""
	if f.Default != nil {
		initial = toString(f.Default)
	}
	l := NewLineEdit(f.Key, initial)
	l.SetPlaceholder(f.Label)
	return l, nil
}

func newComboField(f schema.SettingField) (Field, error) {
	c := NewCombo(f.Key, f.Choices)
	if f.Default != nil {
		c.SetValue(f.Default)
	}
	return c, nil
}

func newIntListField(f schema.SettingField) (Field, error) {
	l := NewIntList(f.Key, int(f.MinVal), int(f.MaxVal))
	if f.Default != nil {
		l.SetIDs(f.Default)
	}
	return l, nil
}

func newToggleField(f schema.SettingField) (Field, error) {
	t := NewToggle(f.Key, false)
	if f.Default != nil {
		t.SetValue(f.Default)
	}
	return t, nil
}
