package widgets

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/dtg01100/touch-settings/internal/schema"
	"github.com/dtg01100/touch-settings/internal/tui/components"
)

type intListKeyMap struct {
	Next   key.Binding
	Prev   key.Binding
	Add    key.Binding
	Edit   key.Binding
	Remove key.Binding
	Commit key.Binding
	Cancel key.Binding
}

var intListKeys = intListKeyMap{
	Next:   key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→", "next id")),
	Prev:   key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←", "previous id")),
	Add:    key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add")),
	Edit:   key.NewBinding(key.WithKeys("e", "enter"), key.WithHelp("e", "edit")),
	Remove: key.NewBinding(key.WithKeys("d", "x", "delete"), key.WithHelp("d", "remove")),
	Commit: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "apply")),
	Cancel: key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
}

// IntList is an ordered list of integers bounded by [min, max].
// Every user mutation notifies handlers with the complete list.
type IntList struct {
	emitter

	min      int
	max      int
	ids      []int
	selected int

	// entry is the inline spin box used to add or edit an item.
	entry     *TouchSpinBox
	editIndex int
}

// NewIntList builds an empty list.
func NewIntList(key string, min, max int) *IntList {
	if min > max {
		min, max = max, min
	}
	return &IntList{
		emitter:   emitter{key: key},
		min:       min,
		max:       max,
		ids:       []int{},
		selected:  -1,
		editIndex: -1,
	}
}

// Kind implements Field.
func (l *IntList) Kind() schema.WidgetType {
	return schema.WidgetIntList
}

// IDs returns a copy of the current list.
func (l *IntList) IDs() []int {
	return append([]int{}, l.ids...)
}

// Value returns the current list as []int.
func (l *IntList) Value() any {
	return l.IDs()
}

// SetValue is SetIDs.
func (l *IntList) SetValue(v any) {
	l.SetIDs(v)
}

// SetIDs replaces the list without notifying. source may be an integer
// slice, a []any or []float64 of numbers, or a string of integers
// separated by commas, semicolons or whitespace. Tokens that are not
// integers or fall outside [min, max] are dropped; order is preserved.
func (l *IntList) SetIDs(source any) {
	var ids []int
	keep := func(n int) {
		if n >= l.min && n <= l.max {
			ids = append(ids, n)
		}
	}

	switch src := source.(type) {
	case nil:
	case string:
		for _, tok := range strings.FieldsFunc(strings.Trim(strings.TrimSpace(src), "[]"), isSeparator) {
			if n, ok := parseIntToken(tok); ok {
				keep(n)
			}
		}
	case []int:
		for _, n := range src {
			keep(n)
		}
	case []float64:
		for _, f := range src {
			if f == float64(int(f)) {
				keep(int(f))
			}
		}
	case []any:
		for _, item := range src {
			if s, ok := item.(string); ok {
				if n, ok := parseIntToken(s); ok {
					keep(n)
				}
				continue
			}
			if f, ok := toFloat(item); ok && f == float64(int(f)) {
				keep(int(f))
			}
		}
	default:
		return
	}

	if ids == nil {
		ids = []int{}
	}
	l.ids = ids
	l.selected = -1
	l.closeEntry()
}

func isSeparator(r rune) bool {
	return r == ',' || r == ';' || r == ' ' || r == '\t' || r == '\n' || r == '\r'
}

func (l *IntList) clampID(n int) int {
	if n < l.min {
		return l.min
	}
	if n > l.max {
		return l.max
	}
	return n
}

// Append adds n, clamped into range, at the end and selects it.
func (l *IntList) Append(n int) {
	l.ids = append(l.ids, l.clampID(n))
	l.selected = len(l.ids) - 1
	l.emit(l.IDs())
}

// Replace sets the element at index to n, clamped into range.
func (l *IntList) Replace(index, n int) error {
	if index < 0 || index >= len(l.ids) {
		return fmt.Errorf("index %d out of range [0, %d)", index, len(l.ids))
	}
	l.ids[index] = l.clampID(n)
	l.emit(l.IDs())
	return nil
}

// Select marks the element at index as selected. An out-of-range index
// clears the selection.
func (l *IntList) Select(index int) {
	if index < 0 || index >= len(l.ids) {
		l.selected = -1
		return
	}
	l.selected = index
}

// Selected returns the selected index or -1.
func (l *IntList) Selected() int {
	return l.selected
}

// Remove deletes the selected element. Without a selection it does nothing.
func (l *IntList) Remove() {
	if l.selected < 0 || l.selected >= len(l.ids) {
		return
	}
	l.ids = append(l.ids[:l.selected], l.ids[l.selected+1:]...)
	if l.selected >= len(l.ids) {
		l.selected = len(l.ids) - 1
	}
	l.emit(l.IDs())
}

// Capturing reports whether the inline entry editor is open.
func (l *IntList) Capturing() bool {
	return l.entry != nil
}

func (l *IntList) openEntry(index int) {
	initial := float64(l.min)
	if index >= 0 {
		initial = float64(l.ids[index])
	}
	l.entry = NewTouchSpinBox(l.key+".entry", SpinOptions{
		Min:         float64(l.min),
		Max:         float64(l.max),
		Initial:     initial,
		Step:        1,
		StepOptions: []float64{1, 10},
	})
	l.editIndex = index
}

func (l *IntList) closeEntry() {
	l.entry = nil
	l.editIndex = -1
}

// Update handles selection, add, edit and remove keys, and the inline
// entry editor while it is open.
func (l *IntList) Update(msg tea.Msg) tea.Cmd {
	km, ok := msg.(tea.KeyMsg)
	if !ok {
		return nil
	}

	if l.entry != nil {
		switch {
		case key.Matches(km, intListKeys.Commit):
			n := int(l.entry.Float())
			index := l.editIndex
			l.closeEntry()
			if index >= 0 {
				_ = l.Replace(index, n)
			} else {
				l.Append(n)
			}
		case key.Matches(km, intListKeys.Cancel):
			l.closeEntry()
		default:
			l.entry.Update(km)
		}
		return nil
	}

	switch {
	case key.Matches(km, intListKeys.Next):
		if len(l.ids) > 0 {
			l.Select(min(l.selected+1, len(l.ids)-1))
		}
	case key.Matches(km, intListKeys.Prev):
		if l.selected > 0 {
			l.Select(l.selected - 1)
		}
	case key.Matches(km, intListKeys.Add):
		l.openEntry(-1)
	case key.Matches(km, intListKeys.Edit):
		if l.selected >= 0 {
			l.openEntry(l.selected)
		}
	case key.Matches(km, intListKeys.Remove):
		l.Remove()
	}
	return nil
}

// View renders the items as chips with the selection highlighted.
func (l *IntList) View(focused bool) string {
	var b strings.Builder
	if len(l.ids) == 0 {
		b.WriteString(components.Styles.Deselected.Render("(empty)"))
	}
	for i, n := range l.ids {
		if i > 0 {
			b.WriteString(" ")
		}
		label := strconv.Itoa(n)
		if focused && i == l.selected {
			b.WriteString(components.Styles.PillActive.Render(label))
		} else {
			b.WriteString(components.Styles.Pill.Render(label))
		}
	}

	if l.entry != nil {
		action := "add"
		if l.editIndex >= 0 {
			action = "edit"
		}
		b.WriteString("\n")
		b.WriteString(components.Styles.InputLabel.Render(action + ": "))
		b.WriteString(l.entry.View(true))
		b.WriteString(components.Styles.HelpText.Render("  enter apply • esc cancel"))
	} else if focused {
		b.WriteString("\n")
		b.WriteString(components.Styles.HelpText.Render("←/→ select • a add • e edit • d remove"))
	}
	return b.String()
}
