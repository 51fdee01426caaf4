package widgets

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/dtg01100/touch-settings/internal/schema"
	"github.com/dtg01100/touch-settings/internal/tui/components"
)

// SpinOptions configures a TouchSpinBox.
type SpinOptions struct {
	Min      float64
	Max      float64
	Initial  float64
	Step     float64
	Decimals int
	Suffix   string
	// StepOptions are offered as quick-select pills when there is more than one.
	StepOptions []float64
}

type spinKeyMap struct {
	Increment key.Binding
	Decrement key.Binding
	NextStep  key.Binding
	PrevStep  key.Binding
}

var spinKeys = spinKeyMap{
	Increment: key.NewBinding(key.WithKeys("+", "=", "right", "l"), key.WithHelp("+", "increase")),
	Decrement: key.NewBinding(key.WithKeys("-", "_", "left", "h"), key.WithHelp("-", "decrease")),
	NextStep:  key.NewBinding(key.WithKeys("]"), key.WithHelp("]", "larger step")),
	PrevStep:  key.NewBinding(key.WithKeys("["), key.WithHelp("[", "smaller step")),
}

// TouchSpinBox is a bounded numeric control with coarse increment and
// decrement actions and optional selectable step sizes.
type TouchSpinBox struct {
	emitter
	kind schema.WidgetType

	min      float64
	max      float64
	value    float64
	decimals int
	suffix   string

	step        float64
	stepOptions []float64
}

// NewTouchSpinBox builds a spin box. An out-of-range initial value is clamped.
func NewTouchSpinBox(key string, opts SpinOptions) *TouchSpinBox {
	lo, hi := opts.Min, opts.Max
	if lo > hi {
		lo, hi = hi, lo
	}
	s := &TouchSpinBox{
		emitter:     emitter{key: key},
		min:         lo,
		max:         hi,
		decimals:    opts.Decimals,
		suffix:      opts.Suffix,
		stepOptions: append([]float64(nil), opts.StepOptions...),
	}
	s.kind = schema.WidgetDoubleSpinBox
	if s.decimals == 0 {
		s.kind = schema.WidgetSpinBox
	}
	s.step = opts.Step
	if s.step <= 0 {
		if len(s.stepOptions) > 0 {
			s.step = s.stepOptions[0]
		} else {
			s.step = 1
		}
	}
	s.value = s.normalize(opts.Initial, s.decimals)
	return s
}

// Kind implements Field.
func (s *TouchSpinBox) Kind() schema.WidgetType {
	return s.kind
}

// Value returns the current value as a float64.
func (s *TouchSpinBox) Value() any {
	return s.value
}

// Float returns the current value.
func (s *TouchSpinBox) Float() float64 {
	return s.value
}

// SetValue clamps v into range and stores it without notifying.
// Non-numeric input is ignored.
func (s *TouchSpinBox) SetValue(v any) {
	if f, ok := toFloat(v); ok {
		s.SetFloat(f)
	}
}

// SetFloat clamps v into range and stores it without notifying.
func (s *TouchSpinBox) SetFloat(v float64) {
	s.value = s.normalize(v, s.decimals)
}

// Clear resets the value to the minimum without notifying.
func (s *TouchSpinBox) Clear() {
	s.SetFloat(s.min)
}

// Increment adds the current step. Handlers are notified only when the
// value actually changes.
func (s *TouchSpinBox) Increment() {
	s.nudge(s.step)
}

// Decrement subtracts the current step. Handlers are notified only when
// the value actually changes.
func (s *TouchSpinBox) Decrement() {
	s.nudge(-s.step)
}

func (s *TouchSpinBox) nudge(delta float64) {
	places := s.decimals
	if p := precisionOf(s.step); p > places {
		places = p
	}
	next := s.normalize(s.value+delta, places)
	if next == s.value {
		return
	}
	s.value = next
	s.emit(s.value)
}

func (s *TouchSpinBox) normalize(v float64, places int) float64 {
	return clamp(roundTo(v, places), s.min, s.max)
}

// Min returns the lower bound.
func (s *TouchSpinBox) Min() float64 { return s.min }

// Max returns the upper bound.
func (s *TouchSpinBox) Max() float64 { return s.max }

// CurrentStep returns the step used by Increment and Decrement.
func (s *TouchSpinBox) CurrentStep() float64 {
	return s.step
}

// StepOptions returns the selectable step sizes.
func (s *TouchSpinBox) StepOptions() []float64 {
	return append([]float64(nil), s.stepOptions...)
}

// SelectStep makes step the current step if it is one of the options.
// The value is left untouched.
func (s *TouchSpinBox) SelectStep(step float64) bool {
	for _, opt := range s.stepOptions {
		if opt == step {
			s.step = step
			return true
		}
	}
	return false
}

// SelectStepIndex selects the i-th step option.
func (s *TouchSpinBox) SelectStepIndex(i int) bool {
	if i < 0 || i >= len(s.stepOptions) {
		return false
	}
	s.step = s.stepOptions[i]
	return true
}

func (s *TouchSpinBox) stepIndex() int {
	for i, opt := range s.stepOptions {
		if opt == s.step {
			return i
		}
	}
	return -1
}

// ShowsStepPills reports whether step pills are rendered.
func (s *TouchSpinBox) ShowsStepPills() bool {
	return len(s.stepOptions) > 1
}

// CanIncrement reports whether the increase action is enabled.
func (s *TouchSpinBox) CanIncrement() bool {
	return s.value < s.max
}

// CanDecrement reports whether the decrease action is enabled.
func (s *TouchSpinBox) CanDecrement() bool {
	return s.value > s.min
}

// Text returns the value formatted to the configured precision with the suffix.
func (s *TouchSpinBox) Text() string {
	return strconv.FormatFloat(s.value, 'f', s.decimals, 64) + s.suffix
}

// Update handles increment, decrement and step selection keys and the
// mouse wheel.
func (s *TouchSpinBox) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, spinKeys.Increment):
			s.Increment()
		case key.Matches(msg, spinKeys.Decrement):
			s.Decrement()
		case key.Matches(msg, spinKeys.NextStep):
			if s.ShowsStepPills() {
				s.SelectStepIndex(s.stepIndex() + 1)
			}
		case key.Matches(msg, spinKeys.PrevStep):
			if s.ShowsStepPills() {
				if i := s.stepIndex(); i > 0 {
					s.SelectStepIndex(i - 1)
				} else if i < 0 {
					s.SelectStepIndex(0)
				}
			}
		}
	case tea.MouseMsg:
		if msg.Action != tea.MouseActionPress {
			return nil
		}
		switch msg.Button {
		case tea.MouseButtonWheelUp:
			s.Increment()
		case tea.MouseButtonWheelDown:
			s.Decrement()
		}
	}
	return nil
}

// View renders "− value +" followed by the step pills.
func (s *TouchSpinBox) View(focused bool) string {
	minus := components.Styles.SpinButton.Render("−")
	if !s.CanDecrement() {
		minus = components.Styles.Disabled.Render("−")
	}
	plus := components.Styles.SpinButton.Render("+")
	if !s.CanIncrement() {
		plus = components.Styles.Disabled.Render("+")
	}

	valueStyle := components.Styles.Input
	if focused {
		valueStyle = components.Styles.InputFocus
	}
	parts := []string{minus, " ", valueStyle.Render(s.Text()), " ", plus}

	if s.ShowsStepPills() {
		current := s.stepIndex()
		pills := make([]string, len(s.stepOptions))
		for i, opt := range s.stepOptions {
			label := strconv.FormatFloat(opt, 'f', -1, 64)
			if i == current {
				pills[i] = components.Styles.PillActive.Render(label)
			} else {
				pills[i] = components.Styles.Pill.Render(label)
			}
		}
		parts = append(parts, "  ", strings.Join(pills, " "))
	}
	return lipgloss.JoinHorizontal(lipgloss.Center, parts...)
}
