package form

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	apperrors "github.com/dtg01100/touch-settings/internal/errors"
	"github.com/dtg01100/touch-settings/internal/logging"
	"github.com/dtg01100/touch-settings/internal/schema"
	"github.com/dtg01100/touch-settings/internal/tui/components"
	"github.com/dtg01100/touch-settings/internal/widgets"
)

// Mapper converts a domain model into a flat value map.
type Mapper func(model any) (schema.Values, error)

// SaveFunc receives the snapshot of a save request. It may return a
// command that performs the save.
type SaveFunc func(values schema.Values) tea.Cmd

// ValueChangedFunc receives every user change together with the name of
// the view that produced it.
type ValueChangedFunc func(key string, value any, component string)

// RawWidget is content hosted in a tab outside the schema system.
type RawWidget interface {
	Update(msg tea.Msg) tea.Cmd
	View() string
}

// Sizer is implemented by raw widgets that lay themselves out.
type Sizer interface {
	SetSize(width, height int)
}

// LoadedMsg carries the result of LoadCmd.
type LoadedMsg struct {
	Component string
	Model     any
	Err       error
}

// SavedMsg reports the outcome of a save performed by a SaveFunc command.
type SavedMsg struct {
	Component string
	Err       error
}

// Option configures a SettingsView.
type Option func(*SettingsView)

// WithMapper sets the function Load uses to turn a model into values.
func WithMapper(m Mapper) Option {
	return func(v *SettingsView) { v.mapper = m }
}

// WithLogger sets the view's logger.
func WithLogger(l *slog.Logger) Option {
	return func(v *SettingsView) {
		if l != nil {
			v.logger = l
		}
	}
}

type tab struct {
	title  string
	groups []*Group
	raw    RawWidget
	focus  int
}

func (t *tab) fieldCount() int {
	n := 0
	for _, g := range t.groups {
		n += g.Len()
	}
	return n
}

// locate maps a flat field index to its group and index within the group.
func (t *tab) locate(i int) (*Group, int) {
	for _, g := range t.groups {
		if i < g.Len() {
			return g, i
		}
		i -= g.Len()
	}
	return nil, -1
}

func (t *tab) focusField(i int) tea.Cmd {
	for _, g := range t.groups {
		g.Blur()
	}
	t.focus = i
	if g, j := t.locate(i); g != nil {
		return g.Focus(j)
	}
	return nil
}

func (t *tab) focusedGroup() *Group {
	g, _ := t.locate(t.focus)
	return g
}

type viewKeyMap struct {
	Save    key.Binding
	NextTab key.Binding
	PrevTab key.Binding
	Up      key.Binding
	Down    key.Binding
}

var viewKeys = viewKeyMap{
	Save:    key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "save")),
	NextTab: key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next tab")),
	PrevTab: key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "prev tab")),
	Up:      key.NewBinding(key.WithKeys("up"), key.WithHelp("↑", "previous field")),
	Down:    key.NewBinding(key.WithKeys("down"), key.WithHelp("↓", "next field")),
}

// SettingsView is a tabbed form. Tabs hold schema groups or a raw widget.
// Values flow in through SetValues and Load and out through Values, change
// handlers and save handlers. The view performs no I/O of its own.
type SettingsView struct {
	component string
	mapper    Mapper
	logger    *slog.Logger

	tabs   []*tab
	active int
	keys   map[string]bool

	onSave    []SaveFunc
	onChange  []ValueChangedFunc
	onError   []func(error)
	onLoaded  []func(model any)
	loading   bool
	status    string
	statusErr bool

	width    int
	height   int
	viewport viewport.Model
}

// NewSettingsView builds an empty view named component.
func NewSettingsView(component string, opts ...Option) *SettingsView {
	v := &SettingsView{
		component: component,
		logger:    logging.Discard(),
		keys:      make(map[string]bool),
		viewport:  viewport.New(0, 0),
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Component returns the name passed to NewSettingsView.
func (v *SettingsView) Component() string {
	return v.component
}

// AddTab adds a tab stacking one group renderer per group. Keys must be
// unique across the whole view; on error the view is left unchanged.
func (v *SettingsView) AddTab(title string, groups ...schema.SettingGroup) error {
	seen := make(map[string]bool)
	for _, g := range groups {
		for _, f := range g.Fields {
			if v.keys[f.Key] || seen[f.Key] {
				return apperrors.NewDuplicateKeyError(f.Key)
			}
			seen[f.Key] = true
		}
	}

	t := &tab{title: title, focus: -1}
	for _, def := range groups {
		g, err := NewGroup(def)
		if err != nil {
			return err
		}
		g.OnChange(v.fieldChanged)
		t.groups = append(t.groups, g)
	}
	for k := range seen {
		v.keys[k] = true
	}
	v.tabs = append(v.tabs, t)
	if len(v.tabs) == 1 {
		v.activate(0)
	}
	return nil
}

// AddRawTab adds a tab hosting w. It contributes no fields.
func (v *SettingsView) AddRawTab(title string, w RawWidget) {
	v.tabs = append(v.tabs, &tab{title: title, raw: w, focus: -1})
	if s, ok := w.(Sizer); ok && v.width > 0 {
		s.SetSize(v.width, v.bodyHeight())
	}
	if len(v.tabs) == 1 {
		v.activate(0)
	}
}

// Tabs returns the tab titles in order.
func (v *SettingsView) Tabs() []string {
	titles := make([]string, len(v.tabs))
	for i, t := range v.tabs {
		titles[i] = t.title
	}
	return titles
}

// ActiveTab returns the index of the shown tab.
func (v *SettingsView) ActiveTab() int {
	return v.active
}

// SetActiveTab shows the i-th tab.
func (v *SettingsView) SetActiveTab(i int) tea.Cmd {
	if i < 0 || i >= len(v.tabs) {
		return nil
	}
	return v.activate(i)
}

func (v *SettingsView) activate(i int) tea.Cmd {
	if v.active < len(v.tabs) {
		for _, g := range v.tabs[v.active].groups {
			g.Blur()
		}
	}
	v.active = i
	v.viewport.GotoTop()
	t := v.tabs[i]
	if t.raw == nil && t.fieldCount() > 0 {
		if t.focus < 0 {
			t.focus = 0
		}
		return t.focusField(t.focus)
	}
	return nil
}

// Field returns the control registered for key in any schema tab.
func (v *SettingsView) Field(key string) (widgets.Field, bool) {
	for _, t := range v.tabs {
		for _, g := range t.groups {
			if f, ok := g.Field(key); ok {
				return f, true
			}
		}
	}
	return nil, false
}

// SetValues pushes values into every group without notifying. Raw tabs
// are not touched.
func (v *SettingsView) SetValues(values schema.Values) {
	for _, t := range v.tabs {
		for _, g := range t.groups {
			g.SetValues(values)
		}
	}
}

// Values merges the values of every group.
func (v *SettingsView) Values() schema.Values {
	values := make(schema.Values, len(v.keys))
	for _, t := range v.tabs {
		for _, g := range t.groups {
			values.Merge(g.Values())
		}
	}
	return values
}

// Load maps model through the view's mapper and applies the result.
func (v *SettingsView) Load(model any) error {
	if v.mapper == nil {
		return apperrors.NewNoMapperError(v.component)
	}
	values, err := v.mapper(model)
	if err != nil {
		return err
	}
	v.SetValues(values)
	return nil
}

// LoadCmd runs fetch off the UI loop. The view keeps its current values
// until the resulting LoadedMsg arrives; a failed fetch is reported
// through OnError and the status line.
func (v *SettingsView) LoadCmd(ctx context.Context, fetch func(context.Context) (any, error)) tea.Cmd {
	v.loading = true
	v.setStatus("Loading…", false)
	component := v.component
	return func() tea.Msg {
		model, err := fetch(ctx)
		return LoadedMsg{Component: component, Model: model, Err: err}
	}
}

// Loading reports whether a LoadCmd result is pending.
func (v *SettingsView) Loading() bool {
	return v.loading
}

// Save sends a snapshot of the current values to every save handler and
// returns the batch of their commands.
func (v *SettingsView) Save() tea.Cmd {
	snapshot := v.Values()
	v.logger.Info("save requested", "fields", len(snapshot))
	var cmds []tea.Cmd
	for _, h := range v.onSave {
		if cmd := h(snapshot.Clone()); cmd != nil {
			cmds = append(cmds, cmd)
		}
	}
	return tea.Batch(cmds...)
}

// OnSave registers a save handler.
func (v *SettingsView) OnSave(fn SaveFunc) {
	if fn != nil {
		v.onSave = append(v.onSave, fn)
	}
}

// OnValueChanged registers a handler for user changes of any field.
func (v *SettingsView) OnValueChanged(fn ValueChangedFunc) {
	if fn != nil {
		v.onChange = append(v.onChange, fn)
	}
}

// OnError registers a handler for reported errors.
func (v *SettingsView) OnError(fn func(error)) {
	if fn != nil {
		v.onError = append(v.onError, fn)
	}
}

// OnLoaded registers a handler called after a LoadCmd result was applied.
func (v *SettingsView) OnLoaded(fn func(model any)) {
	if fn != nil {
		v.onLoaded = append(v.onLoaded, fn)
	}
}

// EmitChange notifies value-changed handlers as if a field had changed.
// Raw widgets use it to publish their own edits.
func (v *SettingsView) EmitChange(key string, value any) {
	v.fieldChanged(key, value)
}

func (v *SettingsView) fieldChanged(key string, value any) {
	v.logger.Debug("field changed", "key", key, "value", value)
	for _, h := range v.onChange {
		h(key, value, v.component)
	}
}

// ReportError shows err in the status line and passes it to error handlers.
func (v *SettingsView) ReportError(err error) {
	if err == nil {
		return
	}
	v.logger.Error("settings error", "err", err)
	v.setStatus(apperrors.Summary(err), true)
	for _, h := range v.onError {
		h(err)
	}
}

// SetStatus shows an informational message in the status line.
func (v *SettingsView) SetStatus(text string) {
	v.setStatus(text, false)
}

// Status returns the status line text and whether it is an error.
func (v *SettingsView) Status() (string, bool) {
	return v.status, v.statusErr
}

func (v *SettingsView) setStatus(text string, isErr bool) {
	v.status = text
	v.statusErr = isErr
}

// Capturing reports whether the active tab is consuming navigation keys,
// such as an open inline editor or dialog.
func (v *SettingsView) Capturing() bool {
	if v.active >= len(v.tabs) {
		return false
	}
	t := v.tabs[v.active]
	if t.raw != nil {
		c, ok := t.raw.(widgets.Capturer)
		return ok && c.Capturing()
	}
	if g := t.focusedGroup(); g != nil {
		return g.Capturing()
	}
	return false
}

// EntersText reports whether the focused control of the active tab takes
// typed characters.
func (v *SettingsView) EntersText() bool {
	t := v.activeTab()
	if t == nil {
		return false
	}
	if t.raw != nil {
		e, ok := t.raw.(widgets.TextEntry)
		return ok && e.EntersText()
	}
	if g := t.focusedGroup(); g != nil {
		return g.EntersText()
	}
	return false
}

// SetSize sets the area available to the view.
func (v *SettingsView) SetSize(width, height int) {
	v.width = width
	v.height = height
	v.viewport.Width = width
	v.viewport.Height = v.bodyHeight()
	for _, t := range v.tabs {
		if s, ok := t.raw.(Sizer); ok {
			s.SetSize(width, v.bodyHeight())
		}
	}
}

func (v *SettingsView) bodyHeight() int {
	h := v.height - 3
	if h < 1 {
		h = 1
	}
	return h
}

// Init implements tea.Model.
func (v *SettingsView) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (v *SettingsView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case LoadedMsg:
		if msg.Component != v.component {
			return v, nil
		}
		v.applyLoaded(msg)
		return v, nil

	case SavedMsg:
		if msg.Component != v.component {
			return v, nil
		}
		if msg.Err != nil {
			v.ReportError(msg.Err)
		} else {
			v.setStatus("Saved", false)
		}
		return v, nil

	case tea.WindowSizeMsg:
		v.SetSize(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		return v, v.handleKey(msg)

	case tea.MouseMsg:
		return v, v.handleMouse(msg)
	}

	// Results of raw tab commands may arrive after the user switched tabs.
	var cmds []tea.Cmd
	for _, t := range v.tabs {
		if t.raw != nil {
			cmds = append(cmds, t.raw.Update(msg))
		}
	}
	return v, tea.Batch(cmds...)
}

func (v *SettingsView) applyLoaded(msg LoadedMsg) {
	v.loading = false
	if msg.Err != nil {
		v.ReportError(msg.Err)
		return
	}
	if err := v.Load(msg.Model); err != nil {
		v.ReportError(err)
		return
	}
	v.setStatus("Loaded", false)
	for _, h := range v.onLoaded {
		h(msg.Model)
	}
}

func (v *SettingsView) activeTab() *tab {
	if v.active < len(v.tabs) {
		return v.tabs[v.active]
	}
	return nil
}

// handleMouse sends pointer input to the active tab only.
func (v *SettingsView) handleMouse(msg tea.MouseMsg) tea.Cmd {
	t := v.activeTab()
	if t == nil {
		return nil
	}
	if t.raw != nil {
		return t.raw.Update(msg)
	}
	if g := t.focusedGroup(); g != nil {
		return g.Update(msg)
	}
	return nil
}

func (v *SettingsView) handleKey(msg tea.KeyMsg) tea.Cmd {
	t := v.activeTab()
	if t == nil {
		return nil
	}

	if v.Capturing() {
		if t.raw != nil {
			return t.raw.Update(msg)
		}
		return t.focusedGroup().Update(msg)
	}

	switch {
	case key.Matches(msg, viewKeys.Save):
		return v.Save()
	case key.Matches(msg, viewKeys.NextTab):
		if len(v.tabs) > 1 {
			return v.activate((v.active + 1) % len(v.tabs))
		}
		return nil
	case key.Matches(msg, viewKeys.PrevTab):
		if len(v.tabs) > 1 {
			return v.activate((v.active - 1 + len(v.tabs)) % len(v.tabs))
		}
		return nil
	}

	if t.raw != nil {
		return t.raw.Update(msg)
	}

	switch {
	case key.Matches(msg, viewKeys.Down):
		if t.focus < t.fieldCount()-1 {
			cmd := t.focusField(t.focus + 1)
			v.scrollToFocus(t)
			return cmd
		}
		return nil
	case key.Matches(msg, viewKeys.Up):
		if t.focus > 0 {
			cmd := t.focusField(t.focus - 1)
			v.scrollToFocus(t)
			return cmd
		}
		return nil
	case msg.String() == "pgup" || msg.String() == "pgdown":
		var cmd tea.Cmd
		v.viewport, cmd = v.viewport.Update(msg)
		return cmd
	}

	if g := t.focusedGroup(); g != nil {
		return g.Update(msg)
	}
	return nil
}

// scrollToFocus keeps the focused group inside the viewport.
func (v *SettingsView) scrollToFocus(t *tab) {
	if v.height == 0 {
		return
	}
	focused := t.focusedGroup()
	line := 0
	for _, g := range t.groups {
		if g == focused {
			break
		}
		line += lipgloss.Height(g.View(v.contentWidth()))
	}
	if line < v.viewport.YOffset || line >= v.viewport.YOffset+v.viewport.Height {
		v.viewport.SetYOffset(line)
	}
}

func (v *SettingsView) contentWidth() int {
	if v.width > 0 {
		return v.width
	}
	return 80
}

// View implements tea.Model.
func (v *SettingsView) View() string {
	var b strings.Builder
	b.WriteString(v.renderTabs())
	b.WriteString("\n")

	t := v.activeTab()
	var body string
	switch {
	case t == nil:
		body = components.Styles.Deselected.Render("No settings")
	case t.raw != nil:
		body = t.raw.View()
	default:
		parts := make([]string, len(t.groups))
		for i, g := range t.groups {
			parts[i] = g.View(v.contentWidth())
		}
		body = lipgloss.JoinVertical(lipgloss.Left, parts...)
		if v.height > 0 {
			v.viewport.SetContent(body)
			body = v.viewport.View()
		}
	}
	b.WriteString(body)
	b.WriteString("\n")
	b.WriteString(v.renderStatus())
	return b.String()
}

func (v *SettingsView) renderTabs() string {
	parts := make([]string, len(v.tabs))
	for i, t := range v.tabs {
		if i == v.active {
			parts[i] = components.Styles.TabActive.Render(t.title)
		} else {
			parts[i] = components.Styles.Tab.Render(t.title)
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Bottom, parts...)
}

func (v *SettingsView) renderStatus() string {
	switch {
	case v.status == "":
		return components.Styles.HelpText.Render(fmt.Sprintf("%s • ctrl+s save", v.component))
	case v.statusErr:
		return components.RenderError(v.status)
	default:
		return components.RenderInfo(v.status)
	}
}
