package widgets

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/dtg01100/touch-settings/internal/schema"
	"github.com/dtg01100/touch-settings/internal/tui/components"
)

// LineEdit is a single-line free text control.
type LineEdit struct {
	emitter
	input textinput.Model
}

// NewLineEdit builds a text control holding initial.
func NewLineEdit(key, initial string) *LineEdit {
	ti := textinput.New()
	ti.Prompt = ""
	ti.CharLimit = 256
	ti.Width = 28
	ti.SetValue(initial)
	return &LineEdit{emitter: emitter{key: key}, input: ti}
}

// SetPlaceholder sets the text shown while the control is empty.
func (l *LineEdit) SetPlaceholder(p string) {
	l.input.Placeholder = p
}

// Kind implements Field.
func (l *LineEdit) Kind() schema.WidgetType {
	return schema.WidgetLineEdit
}

// Value returns the current text.
func (l *LineEdit) Value() any {
	return l.input.Value()
}

// Text returns the current text.
func (l *LineEdit) Text() string {
	return l.input.Value()
}

// SetValue replaces the text without notifying.
func (l *LineEdit) SetValue(v any) {
	l.input.SetValue(toString(v))
}

// Input replaces the text as a user edit, notifying on change.
func (l *LineEdit) Input(text string) {
	if text == l.input.Value() {
		return
	}
	l.input.SetValue(text)
	l.emit(text)
}

// Focus implements Focusable.
func (l *LineEdit) Focus() tea.Cmd {
	return l.input.Focus()
}

// Blur implements Focusable.
func (l *LineEdit) Blur() {
	l.input.Blur()
}

// EntersText implements TextEntry.
func (l *LineEdit) EntersText() bool {
	return l.input.Focused()
}

// Update forwards keystrokes to the text input and notifies on every change.
func (l *LineEdit) Update(msg tea.Msg) tea.Cmd {
	before := l.input.Value()
	var cmd tea.Cmd
	l.input, cmd = l.input.Update(msg)
	if after := l.input.Value(); after != before {
		l.emit(after)
	}
	return cmd
}

// View renders the text input.
func (l *LineEdit) View(focused bool) string {
	style := components.Styles.Input
	if focused {
		style = components.Styles.InputFocus
	}
	return style.Render(l.input.View())
}

type choiceKeyMap struct {
	Next key.Binding
	Prev key.Binding
}

var choiceKeys = choiceKeyMap{
	Next: key.NewBinding(key.WithKeys("right", "l", "enter", " "), key.WithHelp("→", "next")),
	Prev: key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←", "previous")),
}

// Combo selects one string from a fixed list of choices.
type Combo struct {
	emitter
	choices []string
	index   int
}

// NewCombo builds a combo with no selection.
func NewCombo(key string, choices []string) *Combo {
	return &Combo{
		emitter: emitter{key: key},
		choices: append([]string(nil), choices...),
		index:   -1,
	}
}

// Kind implements Field.
func (c *Combo) Kind() schema.WidgetType {
	return schema.WidgetCombo
}

// Choices returns the selectable strings.
func (c *Combo) Choices() []string {
	return append([]string(nil), c.choices...)
}

// Value returns the selected string, or "" when nothing is selected.
func (c *Combo) Value() any {
	return c.Text()
}

// Text returns the selected string, or "" when nothing is selected.
func (c *Combo) Text() string {
	if c.index < 0 || c.index >= len(c.choices) {
		return ""
	}
	return c.choices[c.index]
}

// Index returns the selected index or -1.
func (c *Combo) Index() int {
	return c.index
}

// SetValue selects the choice equal to v without notifying. Values that
// are not among the choices leave the selection unchanged.
func (c *Combo) SetValue(v any) {
	if i := c.find(toString(v)); i >= 0 {
		c.index = i
	}
}

// SetChoices replaces the choices without notifying. The current
// selection is kept when it is still offered.
func (c *Combo) SetChoices(choices []string) {
	current := c.Text()
	c.choices = append([]string(nil), choices...)
	c.index = c.find(current)
}

func (c *Combo) find(text string) int {
	for i, choice := range c.choices {
		if choice == text {
			return i
		}
	}
	return -1
}

// Select chooses the i-th entry as a user action.
func (c *Combo) Select(i int) {
	if i < 0 || i >= len(c.choices) || i == c.index {
		return
	}
	c.index = i
	c.emit(c.choices[i])
}

// Next selects the following choice, wrapping around.
func (c *Combo) Next() {
	if len(c.choices) == 0 {
		return
	}
	c.Select((c.index + 1) % len(c.choices))
}

// Prev selects the preceding choice, wrapping around.
func (c *Combo) Prev() {
	if len(c.choices) == 0 {
		return
	}
	i := c.index - 1
	if i < 0 {
		i = len(c.choices) - 1
	}
	c.Select(i)
}

// Update cycles through the choices.
func (c *Combo) Update(msg tea.Msg) tea.Cmd {
	if km, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(km, choiceKeys.Next):
			c.Next()
		case key.Matches(km, choiceKeys.Prev):
			c.Prev()
		}
	}
	return nil
}

// View renders "‹ choice ›".
func (c *Combo) View(focused bool) string {
	text := c.Text()
	if text == "" {
		text = "—"
	}
	style := components.Styles.Input
	if focused {
		style = components.Styles.InputFocus
	}
	return style.Render("‹ " + text + " ›")
}

// Toggle is a boolean switch.
type Toggle struct {
	emitter
	on bool
}

// NewToggle builds a switch in the given state.
func NewToggle(key string, on bool) *Toggle {
	return &Toggle{emitter: emitter{key: key}, on: on}
}

// Kind implements Field.
func (t *Toggle) Kind() schema.WidgetType {
	return schema.WidgetToggle
}

// Value returns the state as a bool.
func (t *Toggle) Value() any {
	return t.on
}

// On reports the current state.
func (t *Toggle) On() bool {
	return t.on
}

// SetValue sets the state without notifying. Values that cannot be read
// as a boolean are ignored.
func (t *Toggle) SetValue(v any) {
	if b, ok := toBool(v); ok {
		t.on = b
	}
}

// Set changes the state as a user action.
func (t *Toggle) Set(on bool) {
	if on == t.on {
		return
	}
	t.on = on
	t.emit(on)
}

// Toggle flips the state as a user action.
func (t *Toggle) Toggle() {
	t.Set(!t.on)
}

var toggleKey = key.NewBinding(key.WithKeys(" ", "enter", "x"), key.WithHelp("space", "toggle"))

// Update flips the switch on space, enter or x.
func (t *Toggle) Update(msg tea.Msg) tea.Cmd {
	if km, ok := msg.(tea.KeyMsg); ok && key.Matches(km, toggleKey) {
		t.Toggle()
	}
	return nil
}

// View renders the switch state.
func (t *Toggle) View(focused bool) string {
	label := components.Styles.StatusInactive.Render("○ OFF")
	if t.on {
		label = components.Styles.StatusActive.Render("● ON")
	}
	if focused {
		return components.Styles.Selected.Render("[") + label + components.Styles.Selected.Render("]")
	}
	return " " + label + " "
}
