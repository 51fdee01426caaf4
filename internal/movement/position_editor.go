package movement

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/dtg01100/touch-settings/internal/tui/components"
	"github.com/dtg01100/touch-settings/internal/widgets"
)

// EditorState is the lifecycle of a PositionEditor.
type EditorState int

const (
	// Editing means the editor is open.
	Editing EditorState = iota
	// Accepted means the user confirmed the pose.
	Accepted
	// Cancelled means the user dismissed the editor.
	Cancelled
)

var axisOptions = [6]widgets.SpinOptions{
	{Min: -2000, Max: 2000, Step: 0.1, Decimals: 3, Suffix: " mm", StepOptions: []float64{0.1, 1, 10}},
	{Min: -2000, Max: 2000, Step: 0.1, Decimals: 3, Suffix: " mm", StepOptions: []float64{0.1, 1, 10}},
	{Min: -2000, Max: 2000, Step: 0.1, Decimals: 3, Suffix: " mm", StepOptions: []float64{0.1, 1, 10}},
	{Min: -180, Max: 180, Step: 1, Decimals: 2, Suffix: " °", StepOptions: []float64{1, 5, 10}},
	{Min: -180, Max: 180, Step: 1, Decimals: 2, Suffix: " °", StepOptions: []float64{1, 5, 10}},
	{Min: -180, Max: 180, Step: 1, Decimals: 2, Suffix: " °", StepOptions: []float64{1, 5, 10}},
}

type dialogKeyMap struct {
	Up     key.Binding
	Down   key.Binding
	Accept key.Binding
	Cancel key.Binding
}

var dialogKeys = dialogKeyMap{
	Up:     key.NewBinding(key.WithKeys("up", "shift+tab"), key.WithHelp("↑", "previous axis")),
	Down:   key.NewBinding(key.WithKeys("down", "tab"), key.WithHelp("↓", "next axis")),
	Accept: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "ok")),
	Cancel: key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
}

// PositionEditor edits a pose with one touch spin box per axis.
type PositionEditor struct {
	title string
	spins [6]*widgets.TouchSpinBox
	focus int
	state EditorState
}

// NewPositionEditor opens an editor initialised with p. Values outside an
// axis range are clamped.
func NewPositionEditor(title string, p Position) *PositionEditor {
	e := &PositionEditor{title: title}
	for i, opts := range axisOptions {
		opts.Initial = p[i]
		e.spins[i] = widgets.NewTouchSpinBox(Axes[i], opts)
	}
	return e
}

// Title returns the dialog title.
func (e *PositionEditor) Title() string {
	return e.title
}

// Spin returns the control of the i-th axis.
func (e *PositionEditor) Spin(i int) *widgets.TouchSpinBox {
	return e.spins[i]
}

// Position returns the pose currently shown.
func (e *PositionEditor) Position() Position {
	var p Position
	for i, s := range e.spins {
		p[i] = s.Float()
	}
	return p
}

// State returns the editor state.
func (e *PositionEditor) State() EditorState {
	return e.state
}

// Accept closes the editor keeping the pose.
func (e *PositionEditor) Accept() {
	e.state = Accepted
}

// Cancel closes the editor discarding the pose.
func (e *PositionEditor) Cancel() {
	e.state = Cancelled
}

// Focused returns the index of the focused axis.
func (e *PositionEditor) Focused() int {
	return e.focus
}

// Update moves between axes, adjusts the focused axis and handles
// accept and cancel.
func (e *PositionEditor) Update(msg tea.Msg) tea.Cmd {
	if e.state != Editing {
		return nil
	}
	if km, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(km, dialogKeys.Accept):
			e.Accept()
			return nil
		case key.Matches(km, dialogKeys.Cancel):
			e.Cancel()
			return nil
		case key.Matches(km, dialogKeys.Down):
			e.focus = (e.focus + 1) % len(e.spins)
			return nil
		case key.Matches(km, dialogKeys.Up):
			e.focus = (e.focus - 1 + len(e.spins)) % len(e.spins)
			return nil
		}
	}
	return e.spins[e.focus].Update(msg)
}

// View renders translation axes on the left and rotation axes on the right.
func (e *PositionEditor) View() string {
	cell := func(i int) string {
		label := components.Styles.InputLabel.Render(Axes[i])
		if i == e.focus {
			label = components.Styles.Selected.Render("▸ " + Axes[i])
		}
		return lipgloss.NewStyle().Width(44).PaddingBottom(1).Render(label + "\n" + e.spins[i].View(i == e.focus))
	}
	left := lipgloss.JoinVertical(lipgloss.Left, cell(0), cell(1), cell(2))
	right := lipgloss.JoinVertical(lipgloss.Left, cell(3), cell(4), cell(5))

	body := lipgloss.JoinVertical(lipgloss.Left,
		components.Styles.GroupTitle.Render(e.title),
		"",
		lipgloss.JoinHorizontal(lipgloss.Top, left, "  ", right),
		components.Styles.HelpText.Render("↑/↓ axis • +/- adjust • [/] step • enter ok • esc cancel"),
	)
	return components.Styles.Box.Render(body)
}
