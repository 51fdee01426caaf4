package movement

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/dtg01100/touch-settings/internal/logging"
	"github.com/dtg01100/touch-settings/internal/tui/components"
	"github.com/dtg01100/touch-settings/internal/widgets"
)

// Action is a motion request a group forwards to its owner.
type Action int

const (
	// ActionSetCurrent asks for the robot's current pose to be stored.
	ActionSetCurrent Action = iota + 1
	// ActionMoveTo asks for the robot to move to the stored pose.
	ActionMoveTo
	// ActionExecuteTrajectory asks for the point list to be run.
	ActionExecuteTrajectory
)

// String returns the action label.
func (a Action) String() string {
	switch a {
	case ActionSetCurrent:
		return "Set Current"
	case ActionMoveTo:
		return "Move To"
	case ActionExecuteTrajectory:
		return "Execute"
	default:
		return fmt.Sprintf("Action(%d)", int(a))
	}
}

// ChangeFunc receives a user-driven change of one group field.
type ChangeFunc func(field string, value any)

type groupKeyMap struct {
	Edit       key.Binding
	Add        key.Binding
	Remove     key.Binding
	NextPoint  key.Binding
	PrevPoint  key.Binding
	SetCurrent key.Binding
	MoveTo     key.Binding
	Execute    key.Binding
}

var groupKeys = groupKeyMap{
	Edit:       key.NewBinding(key.WithKeys("e", "enter"), key.WithHelp("e", "edit")),
	Add:        key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add point")),
	Remove:     key.NewBinding(key.WithKeys("d", "delete"), key.WithHelp("d", "remove point")),
	NextPoint:  key.NewBinding(key.WithKeys("j"), key.WithHelp("j", "next point")),
	PrevPoint:  key.NewBinding(key.WithKeys("k"), key.WithHelp("k", "previous point")),
	SetCurrent: key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "set current")),
	MoveTo:     key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "move to")),
	Execute:    key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "execute")),
}

const (
	targetNone   = -2
	targetAppend = -1
)

// GroupEditor edits one movement group.
type GroupEditor struct {
	def    Definition
	logger *slog.Logger

	velocity     *widgets.TouchSpinBox
	acceleration *widgets.TouchSpinBox
	iterations   *widgets.TouchSpinBox

	position string
	points   []string
	selected int

	focus  int
	dialog *PositionEditor
	// target is targetNone, targetAppend, or the point index under edit.
	// Single-position groups use targetAppend for their position.
	target int

	onChange []ChangeFunc
	onAction func(Action)
}

// NewGroupEditor builds the controls selected by def.
func NewGroupEditor(def Definition, logger *slog.Logger) *GroupEditor {
	if logger == nil {
		logger = logging.Discard()
	}
	g := &GroupEditor{
		def:      def,
		logger:   logger,
		selected: -1,
		target:   targetNone,
	}
	percent := widgets.SpinOptions{Min: 0, Max: 1000, Step: 1, Suffix: " %", StepOptions: []float64{1, 5, 10, 50}}
	g.velocity = widgets.NewTouchSpinBox("velocity", percent)
	g.acceleration = widgets.NewTouchSpinBox("acceleration", percent)
	g.velocity.OnChange(g.forwardInt)
	g.acceleration.OnChange(g.forwardInt)
	if def.HasIterations {
		g.iterations = widgets.NewTouchSpinBox("iterations", widgets.SpinOptions{
			Min: 1, Max: 100, Initial: 1, Step: 1, StepOptions: []float64{1},
		})
		g.iterations.OnChange(g.forwardInt)
	}
	return g
}

func (g *GroupEditor) forwardInt(field string, value any) {
	if f, ok := value.(float64); ok {
		g.emit(field, int(f))
	}
}

func (g *GroupEditor) emit(field string, value any) {
	for _, fn := range g.onChange {
		fn(field, value)
	}
}

// OnChange registers fn for user-driven changes. Field names are velocity,
// acceleration, iterations, position and points.
func (g *GroupEditor) OnChange(fn ChangeFunc) {
	if fn != nil {
		g.onChange = append(g.onChange, fn)
	}
}

// OnAction sets the receiver of action requests.
func (g *GroupEditor) OnAction(fn func(Action)) {
	g.onAction = fn
}

// Definition returns the definition the editor was built from.
func (g *GroupEditor) Definition() Definition {
	return g.def
}

// Name returns the group name.
func (g *GroupEditor) Name() string {
	return g.def.Name
}

// Velocity returns the velocity control.
func (g *GroupEditor) Velocity() *widgets.TouchSpinBox { return g.velocity }

// Acceleration returns the acceleration control.
func (g *GroupEditor) Acceleration() *widgets.TouchSpinBox { return g.acceleration }

// Iterations returns the iterations control, or nil when the group has none.
func (g *GroupEditor) Iterations() *widgets.TouchSpinBox { return g.iterations }

// Load pushes group values into the controls without notifying. A nil
// position leaves the displayed position untouched.
func (g *GroupEditor) Load(group MovementGroup) {
	g.velocity.SetFloat(float64(group.Velocity))
	g.acceleration.SetFloat(float64(group.Acceleration))
	if g.iterations != nil {
		g.iterations.SetFloat(float64(group.Iterations))
	}
	if g.def.Type == SinglePosition && group.Position != nil {
		g.position = *group.Position
	}
	if g.def.Type == MultiPosition {
		g.points = append([]string{}, group.Points...)
		g.selected = -1
	}
}

// Values reads the current control state.
func (g *GroupEditor) Values() MovementGroup {
	out := MovementGroup{
		Velocity:     int(g.velocity.Float()),
		Acceleration: int(g.acceleration.Float()),
		Iterations:   1,
		Points:       []string{},
	}
	if g.iterations != nil {
		out.Iterations = int(g.iterations.Float())
	}
	if g.def.Type == SinglePosition && g.position != "" {
		out.Position = StringPtr(g.position)
	}
	if g.def.Type == MultiPosition {
		out.Points = append(out.Points, g.points...)
	}
	return out
}

// Position returns the displayed single position, or "" when unset.
func (g *GroupEditor) Position() string {
	return g.position
}

// Points returns a copy of the point list.
func (g *GroupEditor) Points() []string {
	return append([]string{}, g.points...)
}

// SetPosition stores pos as the single position and notifies. It is the
// fulfilment path of a Set Current request.
func (g *GroupEditor) SetPosition(pos string) {
	if g.def.Type != SinglePosition {
		return
	}
	g.position = pos
	g.emit("position", pos)
}

// AddPoint appends pos, selects it and notifies with the whole list.
func (g *GroupEditor) AddPoint(pos string) {
	if g.def.Type != MultiPosition {
		return
	}
	g.points = append(g.points, pos)
	g.selected = len(g.points) - 1
	g.emit("points", g.Points())
}

// UpdatePoint replaces the point at i and notifies with the whole list.
func (g *GroupEditor) UpdatePoint(i int, pos string) bool {
	if i < 0 || i >= len(g.points) {
		return false
	}
	g.points[i] = pos
	g.emit("points", g.Points())
	return true
}

// RemoveSelectedPoint removes the selected point. Nothing happens when no
// point is selected.
func (g *GroupEditor) RemoveSelectedPoint() {
	if g.selected < 0 || g.selected >= len(g.points) {
		return
	}
	g.points = append(g.points[:g.selected], g.points[g.selected+1:]...)
	if g.selected >= len(g.points) {
		g.selected = len(g.points) - 1
	}
	g.emit("points", g.Points())
}

// SelectPoint selects the point at i; an out-of-range index clears the selection.
func (g *GroupEditor) SelectPoint(i int) {
	if i < 0 || i >= len(g.points) {
		g.selected = -1
		return
	}
	g.selected = i
}

// SelectedPoint returns the selected index or -1.
func (g *GroupEditor) SelectedPoint() int {
	return g.selected
}

// Supports reports whether the group offers a.
func (g *GroupEditor) Supports(a Action) bool {
	switch a {
	case ActionSetCurrent, ActionMoveTo:
		return g.def.Type != VelocityOnly
	case ActionExecuteTrajectory:
		return g.def.Type == MultiPosition && g.def.HasTrajectoryExecution
	}
	return false
}

// RequestAction forwards a to the action receiver. It reports false when the
// group does not offer a.
func (g *GroupEditor) RequestAction(a Action) bool {
	if !g.Supports(a) {
		return false
	}
	g.logger.Debug("movement action requested", "group", g.def.Name, "action", a.String())
	if g.onAction != nil {
		g.onAction(a)
	}
	return true
}

// OpenPositionEditor opens the pose dialog for the single position.
func (g *GroupEditor) OpenPositionEditor() bool {
	if g.def.Type != SinglePosition {
		return false
	}
	g.openDialog(fmt.Sprintf("Edit Position - %s", g.def.Name), g.position, targetAppend)
	return true
}

// OpenAddPoint opens the pose dialog for a new point.
func (g *GroupEditor) OpenAddPoint() bool {
	if g.def.Type != MultiPosition {
		return false
	}
	g.openDialog(fmt.Sprintf("Add Point - %s", g.def.Name), "", targetAppend)
	return true
}

// OpenEditPoint opens the pose dialog for the selected point.
func (g *GroupEditor) OpenEditPoint() bool {
	if g.def.Type != MultiPosition || g.selected < 0 {
		return false
	}
	g.openDialog(fmt.Sprintf("Edit Point %d - %s", g.selected, g.def.Name), g.points[g.selected], g.selected)
	return true
}

func (g *GroupEditor) openDialog(title, current string, target int) {
	if strings.TrimSpace(current) != "" {
		if _, err := ParsePosition(current); err != nil {
			g.logger.Warn("malformed position, editing from zero", "group", g.def.Name, "position", current, "err", err)
		}
	}
	g.dialog = NewPositionEditor(title, ParsePositionOrZero(current))
	g.target = target
}

// Dialog returns the open pose dialog, or nil.
func (g *GroupEditor) Dialog() *PositionEditor {
	return g.dialog
}

func (g *GroupEditor) closeDialog() {
	d, target := g.dialog, g.target
	g.dialog, g.target = nil, targetNone
	if d.State() != Accepted {
		return
	}
	pos := d.Position().String()
	switch {
	case g.def.Type == SinglePosition:
		g.SetPosition(pos)
	case target == targetAppend:
		g.AddPoint(pos)
	default:
		g.UpdatePoint(target, pos)
	}
}

// Capturing reports whether the pose dialog is open.
func (g *GroupEditor) Capturing() bool {
	return g.dialog != nil
}

func (g *GroupEditor) controls() []*widgets.TouchSpinBox {
	out := []*widgets.TouchSpinBox{g.velocity, g.acceleration}
	if g.iterations != nil {
		out = append(out, g.iterations)
	}
	return out
}

// Focused returns the index of the focused numeric control.
func (g *GroupEditor) Focused() int {
	return g.focus
}

// FocusFirst focuses the first control.
func (g *GroupEditor) FocusFirst() { g.focus = 0 }

// FocusLast focuses the last control.
func (g *GroupEditor) FocusLast() { g.focus = len(g.controls()) - 1 }

// FocusNext moves focus down. It reports false at the last control.
func (g *GroupEditor) FocusNext() bool {
	if g.focus >= len(g.controls())-1 {
		return false
	}
	g.focus++
	return true
}

// FocusPrev moves focus up. It reports false at the first control.
func (g *GroupEditor) FocusPrev() bool {
	if g.focus <= 0 {
		return false
	}
	g.focus--
	return true
}

// Update handles the group's keys while it has focus.
func (g *GroupEditor) Update(msg tea.Msg) tea.Cmd {
	if g.dialog != nil {
		cmd := g.dialog.Update(msg)
		if g.dialog.State() != Editing {
			g.closeDialog()
		}
		return cmd
	}
	km, ok := msg.(tea.KeyMsg)
	if !ok {
		return g.controls()[g.focus].Update(msg)
	}
	switch {
	case key.Matches(km, groupKeys.Edit):
		if !g.OpenPositionEditor() {
			g.OpenEditPoint()
		}
	case key.Matches(km, groupKeys.Add):
		g.OpenAddPoint()
	case key.Matches(km, groupKeys.Remove):
		g.RemoveSelectedPoint()
	case key.Matches(km, groupKeys.NextPoint):
		if len(g.points) > 0 {
			g.SelectPoint(min(g.selected+1, len(g.points)-1))
		}
	case key.Matches(km, groupKeys.PrevPoint):
		if g.selected > 0 {
			g.SelectPoint(g.selected - 1)
		}
	case key.Matches(km, groupKeys.SetCurrent):
		g.RequestAction(ActionSetCurrent)
	case key.Matches(km, groupKeys.MoveTo):
		g.RequestAction(ActionMoveTo)
	case key.Matches(km, groupKeys.Execute):
		g.RequestAction(ActionExecuteTrajectory)
	default:
		return g.controls()[g.focus].Update(msg)
	}
	return nil
}

// View renders the group box. focused is false when another group has focus.
func (g *GroupEditor) View(width int, focused bool) string {
	if g.dialog != nil {
		return g.dialog.View()
	}
	labels := []string{"Velocity", "Acceleration", "Iterations"}
	var rows []string
	for i, c := range g.controls() {
		label := components.Styles.InputLabel.Render(fmt.Sprintf("%-13s", labels[i]))
		rows = append(rows, label+" "+c.View(focused && i == g.focus))
	}

	switch g.def.Type {
	case SinglePosition:
		pos := g.position
		if pos == "" {
			pos = components.Styles.Disabled.Render("No position set")
		}
		rows = append(rows, "", components.Styles.InputLabel.Render("Position"), pos)
	case MultiPosition:
		rows = append(rows, "", components.Styles.InputLabel.Render("Points"))
		if len(g.points) == 0 {
			rows = append(rows, components.Styles.Disabled.Render("No points"))
		}
		for i, p := range g.points {
			line := fmt.Sprintf("%2d  %s", i, p)
			if i == g.selected {
				line = components.Styles.Selected.Render("▸ " + line)
			} else {
				line = "  " + line
			}
			rows = append(rows, line)
		}
	}

	if help := g.actionHelp(); help != "" && focused {
		rows = append(rows, "", components.Styles.HelpText.Render(help))
	}

	box := components.Styles.GroupBox
	if width > 4 {
		box = box.Width(width - 2)
	}
	body := lipgloss.JoinVertical(lipgloss.Left, append([]string{components.Styles.GroupTitle.Render(g.def.Name)}, rows...)...)
	return box.Render(body)
}

func (g *GroupEditor) actionHelp() string {
	var parts []string
	switch g.def.Type {
	case SinglePosition:
		parts = append(parts, "e edit")
	case MultiPosition:
		parts = append(parts, "a add", "e edit", "d remove", "j/k select")
	}
	for _, a := range []Action{ActionSetCurrent, ActionMoveTo, ActionExecuteTrajectory} {
		if !g.Supports(a) {
			continue
		}
		k := map[Action]string{ActionSetCurrent: "c", ActionMoveTo: "m", ActionExecuteTrajectory: "x"}[a]
		parts = append(parts, k+" "+strings.ToLower(a.String()))
	}
	return strings.Join(parts, " • ")
}
