package movement

import (
	"log/slog"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/dtg01100/touch-settings/internal/logging"
)

// ActionFunc handles a motion request for the named group.
type ActionFunc func(name string) tea.Cmd

// Option configures an Editor.
type Option func(*Editor)

// WithDefinitions replaces the default group definitions.
func WithDefinitions(defs []Definition) Option {
	return func(e *Editor) {
		e.defs = append([]Definition(nil), defs...)
	}
}

// WithLogger sets the logger used for warnings and action traces.
func WithLogger(l *slog.Logger) Option {
	return func(e *Editor) {
		if l != nil {
			e.logger = l
		}
	}
}

type editorKeyMap struct {
	Up   key.Binding
	Down key.Binding
}

var editorKeys = editorKeyMap{
	Up:   key.NewBinding(key.WithKeys("up"), key.WithHelp("↑", "previous")),
	Down: key.NewBinding(key.WithKeys("down"), key.WithHelp("↓", "next")),
}

// Editor hosts one GroupEditor per named movement group.
type Editor struct {
	defs   []Definition
	logger *slog.Logger

	names  []string
	groups map[string]*GroupEditor
	focus  int

	viewport viewport.Model
	width    int
	height   int

	onChange     []func(key string, value any)
	onSetCurrent []ActionFunc
	onMoveTo     []ActionFunc
	onExecute    []ActionFunc
	pending      []tea.Cmd
}

// NewEditor returns an empty editor. Groups appear on Load.
func NewEditor(opts ...Option) *Editor {
	e := &Editor{
		defs:     DefaultDefinitions(),
		logger:   logging.Discard(),
		groups:   make(map[string]*GroupEditor),
		viewport: viewport.New(0, 0),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *Editor) definition(name string, g MovementGroup) Definition {
	for _, d := range e.defs {
		if d.Name == name {
			return d
		}
	}
	return InferDefinition(name, g)
}

// Load pushes groups into the editor without notifying. Names seen for the
// first time get a new GroupEditor; known names are updated in place.
func (e *Editor) Load(groups map[string]MovementGroup) {
	var fresh []string
	for name := range groups {
		if _, ok := e.groups[name]; !ok {
			fresh = append(fresh, name)
		}
	}
	SortNames(fresh, e.defs)
	for _, name := range fresh {
		ge := NewGroupEditor(e.definition(name, groups[name]), e.logger)
		e.connect(ge)
		e.groups[name] = ge
		e.names = append(e.names, name)
	}
	for name, g := range groups {
		e.groups[name].Load(g)
	}
	e.refresh()
}

func (e *Editor) connect(ge *GroupEditor) {
	name := ge.Name()
	ge.OnChange(func(field string, value any) {
		for _, fn := range e.onChange {
			fn(name+"."+field, value)
		}
	})
	ge.OnAction(func(a Action) {
		var handlers []ActionFunc
		switch a {
		case ActionSetCurrent:
			handlers = e.onSetCurrent
		case ActionMoveTo:
			handlers = e.onMoveTo
		case ActionExecuteTrajectory:
			handlers = e.onExecute
		}
		for _, h := range handlers {
			if cmd := h(name); cmd != nil {
				e.pending = append(e.pending, cmd)
			}
		}
	})
}

// Values returns one MovementGroup per known group.
func (e *Editor) Values() map[string]MovementGroup {
	out := make(map[string]MovementGroup, len(e.groups))
	for name, ge := range e.groups {
		out[name] = ge.Values()
	}
	return out
}

// Group returns the editor of the named group, or nil.
func (e *Editor) Group(name string) *GroupEditor {
	return e.groups[name]
}

// Names returns group names in display order.
func (e *Editor) Names() []string {
	return append([]string(nil), e.names...)
}

// OnValueChanged registers fn for user-driven changes. Keys have the form
// "GROUP.field".
func (e *Editor) OnValueChanged(fn func(key string, value any)) {
	if fn != nil {
		e.onChange = append(e.onChange, fn)
	}
}

// OnSetCurrent registers a Set Current handler.
func (e *Editor) OnSetCurrent(fn ActionFunc) {
	if fn != nil {
		e.onSetCurrent = append(e.onSetCurrent, fn)
	}
}

// OnMoveTo registers a Move To handler.
func (e *Editor) OnMoveTo(fn ActionFunc) {
	if fn != nil {
		e.onMoveTo = append(e.onMoveTo, fn)
	}
}

// OnExecuteTrajectory registers an Execute Trajectory handler.
func (e *Editor) OnExecuteTrajectory(fn ActionFunc) {
	if fn != nil {
		e.onExecute = append(e.onExecute, fn)
	}
}

// Focused returns the name of the focused group, or "" when empty.
func (e *Editor) Focused() string {
	if e.focus < 0 || e.focus >= len(e.names) {
		return ""
	}
	return e.names[e.focus]
}

// Capturing reports whether a pose dialog is open.
func (e *Editor) Capturing() bool {
	if ge := e.Group(e.Focused()); ge != nil {
		return ge.Capturing()
	}
	return false
}

// SetSize sets the area available to the editor.
func (e *Editor) SetSize(width, height int) {
	e.width, e.height = width, height
	e.viewport.Width = width
	e.viewport.Height = height
	e.refresh()
}

// Update routes keys to the focused group. Up and down leave a group once
// its first or last control is passed.
func (e *Editor) Update(msg tea.Msg) tea.Cmd {
	ge := e.Group(e.Focused())
	if ge == nil {
		return nil
	}
	var cmds []tea.Cmd
	if km, ok := msg.(tea.KeyMsg); ok && !ge.Capturing() {
		switch {
		case key.Matches(km, editorKeys.Down):
			if !ge.FocusNext() && e.focus < len(e.names)-1 {
				e.focus++
				e.Group(e.Focused()).FocusFirst()
			}
			e.refresh()
			return nil
		case key.Matches(km, editorKeys.Up):
			if !ge.FocusPrev() && e.focus > 0 {
				e.focus--
				e.Group(e.Focused()).FocusLast()
			}
			e.refresh()
			return nil
		case km.String() == "pgdown", km.String() == "pgup":
			var cmd tea.Cmd
			e.viewport, cmd = e.viewport.Update(msg)
			return cmd
		}
	}
	cmds = append(cmds, ge.Update(msg))
	cmds = append(cmds, e.pending...)
	e.pending = nil
	e.refresh()
	return tea.Batch(cmds...)
}

func (e *Editor) render() (string, int) {
	var b strings.Builder
	focusLine := 0
	for i, name := range e.names {
		if i == e.focus {
			focusLine = strings.Count(b.String(), "\n")
		}
		b.WriteString(e.groups[name].View(e.width, i == e.focus))
		b.WriteString("\n")
	}
	return b.String(), focusLine
}

func (e *Editor) refresh() {
	content, focusLine := e.render()
	e.viewport.SetContent(content)
	if e.viewport.Height <= 0 {
		return
	}
	if focusLine < e.viewport.YOffset || focusLine >= e.viewport.YOffset+e.viewport.Height {
		e.viewport.SetYOffset(focusLine)
	}
}

// View renders all groups, scrolled to the focused one when sized.
func (e *Editor) View() string {
	if ge := e.Group(e.Focused()); ge != nil && ge.Capturing() {
		return ge.Dialog().View()
	}
	if len(e.names) == 0 {
		return "No movement groups"
	}
	if e.viewport.Height <= 0 {
		content, _ := e.render()
		return content
	}
	return e.viewport.View()
}

// SortedNames returns the names of groups in m in registry order.
func SortedNames(m map[string]MovementGroup, defs []Definition) []string {
	names := make([]string, 0, len(m))
	for n := range m {
		names = append(names, n)
	}
	sort.Strings(names)
	SortNames(names, defs)
	return names
}
