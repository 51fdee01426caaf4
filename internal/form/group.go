package form

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	apperrors "github.com/dtg01100/touch-settings/internal/errors"
	"github.com/dtg01100/touch-settings/internal/schema"
	"github.com/dtg01100/touch-settings/internal/tui/components"
	"github.com/dtg01100/touch-settings/internal/widgets"
)

// Group renders one schema group and owns its controls.
type Group struct {
	title    string
	defs     []schema.SettingField
	fields   []widgets.Field
	byKey    map[string]widgets.Field
	cells    []Cell
	focus    int
	handlers []widgets.ChangeFunc
}

// NewGroup builds a control for every field of def.
func NewGroup(def schema.SettingGroup) (*Group, error) {
	g := &Group{
		title: def.Title,
		defs:  append([]schema.SettingField(nil), def.Fields...),
		byKey: make(map[string]widgets.Field, len(def.Fields)),
		cells: Layout(def.Fields),
		focus: -1,
	}
	for _, fd := range def.Fields {
		if _, dup := g.byKey[fd.Key]; dup {
			return nil, apperrors.NewDuplicateKeyError(fd.Key)
		}
		w, err := widgets.New(fd)
		if err != nil {
			return nil, err
		}
		w.OnChange(g.emit)
		g.fields = append(g.fields, w)
		g.byKey[fd.Key] = w
	}
	return g, nil
}

func (g *Group) emit(key string, value any) {
	for _, h := range g.handlers {
		h(key, value)
	}
}

// OnChange registers fn for user changes of any field in the group.
func (g *Group) OnChange(fn widgets.ChangeFunc) {
	if fn != nil {
		g.handlers = append(g.handlers, fn)
	}
}

// Title returns the group title.
func (g *Group) Title() string {
	return g.title
}

// Keys returns the field keys in declaration order.
func (g *Group) Keys() []string {
	keys := make([]string, len(g.defs))
	for i, d := range g.defs {
		keys[i] = d.Key
	}
	return keys
}

// Len returns the number of fields.
func (g *Group) Len() int {
	return len(g.fields)
}

// Field returns the control for key.
func (g *Group) Field(key string) (widgets.Field, bool) {
	f, ok := g.byKey[key]
	return f, ok
}

// Cells returns the grid layout of the group.
func (g *Group) Cells() []Cell {
	return append([]Cell(nil), g.cells...)
}

// SetValues pushes every known key of values into its control without
// notifying. Unknown keys are ignored.
func (g *Group) SetValues(values schema.Values) {
	for k, v := range values {
		if f, ok := g.byKey[k]; ok {
			f.SetValue(v)
		}
	}
}

// Values returns one entry per field.
func (g *Group) Values() schema.Values {
	values := make(schema.Values, len(g.fields))
	for _, f := range g.fields {
		values[f.Key()] = f.Value()
	}
	return values
}

// Focused returns the focused field index or -1.
func (g *Group) Focused() int {
	return g.focus
}

// Focus moves focus to the i-th field. An out-of-range index blurs the group.
func (g *Group) Focus(i int) tea.Cmd {
	if g.focus >= 0 && g.focus < len(g.fields) {
		if f, ok := g.fields[g.focus].(widgets.Focusable); ok {
			f.Blur()
		}
	}
	if i < 0 || i >= len(g.fields) {
		g.focus = -1
		return nil
	}
	g.focus = i
	if f, ok := g.fields[i].(widgets.Focusable); ok {
		return f.Focus()
	}
	return nil
}

// Blur removes focus from the group.
func (g *Group) Blur() {
	g.Focus(-1)
}

// Capturing reports whether the focused control has an inline editor open.
func (g *Group) Capturing() bool {
	if g.focus < 0 {
		return false
	}
	c, ok := g.fields[g.focus].(widgets.Capturer)
	return ok && c.Capturing()
}

// EntersText reports whether the focused control takes typed characters.
func (g *Group) EntersText() bool {
	if g.focus < 0 {
		return false
	}
	t, ok := g.fields[g.focus].(widgets.TextEntry)
	return ok && t.EntersText()
}

// Update forwards msg to the focused control.
func (g *Group) Update(msg tea.Msg) tea.Cmd {
	if g.focus < 0 {
		return nil
	}
	return g.fields[g.focus].Update(msg)
}

// View renders the group as a titled box of width columns.
func (g *Group) View(width int) string {
	inner := width - 4
	if inner < 20 {
		inner = 20
	}
	colWidth := inner / Columns

	rows := make([][]string, Rows(g.cells))
	for i, c := range g.cells {
		w := colWidth * c.Span
		label := components.Styles.InputLabel.Render(g.defs[i].Label)
		if i == g.focus {
			label = components.Styles.Selected.Render("▸ " + g.defs[i].Label)
		}
		cell := lipgloss.NewStyle().Width(w).PaddingBottom(1).Render(
			label + "\n" + g.fields[i].View(i == g.focus),
		)
		rows[c.Row] = append(rows[c.Row], cell)
	}

	lines := make([]string, 0, len(rows)+1)
	lines = append(lines, components.Styles.GroupTitle.Render(g.title))
	for _, r := range rows {
		lines = append(lines, lipgloss.JoinHorizontal(lipgloss.Top, r...))
	}
	body := strings.Join(lines, "\n")
	return components.Styles.GroupBox.Width(inner).Render(body)
}
