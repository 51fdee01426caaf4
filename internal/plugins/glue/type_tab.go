package glue

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	apperrors "github.com/dtg01100/touch-settings/internal/errors"
	"github.com/dtg01100/touch-settings/internal/logging"
	"github.com/dtg01100/touch-settings/internal/tui/components"
)

const typeRequestTimeout = 10 * time.Second

type tabMode int

const (
	modeList tabMode = iota
	modeForm
	modeConfirm
)

// typesMsg carries the custom type list after a request.
type typesMsg struct {
	types  []GlueType
	notice string
	err    error
}

type typeKeyMap struct {
	Up     key.Binding
	Down   key.Binding
	Add    key.Binding
	Edit   key.Binding
	Remove key.Binding
	Cancel key.Binding
	Left   key.Binding
	Right  key.Binding
	Yes    key.Binding
	No     key.Binding
	Enter  key.Binding
}

var typeKeys = typeKeyMap{
	Up:     key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
	Down:   key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
	Add:    key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add")),
	Edit:   key.NewBinding(key.WithKeys("e", "enter"), key.WithHelp("e", "edit")),
	Remove: key.NewBinding(key.WithKeys("d", "delete"), key.WithHelp("d", "remove")),
	Cancel: key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
	Left:   key.NewBinding(key.WithKeys("left", "h")),
	Right:  key.NewBinding(key.WithKeys("right", "l")),
	Yes:    key.NewBinding(key.WithKeys("y")),
	No:     key.NewBinding(key.WithKeys("n")),
	Enter:  key.NewBinding(key.WithKeys("enter")),
}

// TypeTab lists the built-in and custom glue types and edits the custom
// ones.
type TypeTab struct {
	svc    TypeService
	logger *slog.Logger

	types  []GlueType
	cursor int
	mode   tabMode

	form        *huh.Form
	formTitle   string
	editingID   string
	name        string
	description string

	confirmYes bool

	status    string
	statusErr bool
	width     int

	onChange []func([]GlueType)
}

// NewTypeTab returns the glue types tab backed by svc.
func NewTypeTab(svc TypeService, logger *slog.Logger) *TypeTab {
	if logger == nil {
		logger = logging.Discard()
	}
	return &TypeTab{svc: svc, logger: logger}
}

// OnTypesChanged registers fn to receive the custom list whenever it is
// replaced.
func (t *TypeTab) OnTypesChanged(fn func([]GlueType)) {
	if fn != nil {
		t.onChange = append(t.onChange, fn)
	}
}

// Types returns the custom glue types.
func (t *TypeTab) Types() []GlueType {
	return append([]GlueType(nil), t.types...)
}

// LoadTypes replaces the custom list without touching the service.
func (t *TypeTab) LoadTypes(types []GlueType) {
	t.types = append([]GlueType(nil), types...)
	if t.cursor >= t.rowCount() {
		t.cursor = t.rowCount() - 1
	}
	for _, fn := range t.onChange {
		fn(t.Types())
	}
}

// Status returns the last notice and whether it is an error.
func (t *TypeTab) Status() (string, bool) {
	return t.status, t.statusErr
}

// Capturing implements widgets.Capturer.
func (t *TypeTab) Capturing() bool {
	return t.mode != modeList
}

// SetSize implements form.Sizer.
func (t *TypeTab) SetSize(width, _ int) {
	t.width = width
	if t.form != nil {
		t.form = t.form.WithWidth(width)
	}
}

func (t *TypeTab) rowCount() int {
	return len(BuiltinTypes) + len(t.types)
}

// Select moves the cursor to row i. Built-in rows come first.
func (t *TypeTab) Select(i int) {
	if i >= 0 && i < t.rowCount() {
		t.cursor = i
	}
}

// Selected returns the custom type under the cursor.
func (t *TypeTab) Selected() (GlueType, bool) {
	i := t.cursor - len(BuiltinTypes)
	if i < 0 || i >= len(t.types) {
		return GlueType{}, false
	}
	return t.types[i], true
}

func (t *TypeTab) request(notice string, fn func(ctx context.Context) error) tea.Cmd {
	svc := t.svc
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), typeRequestTimeout)
		defer cancel()
		if fn != nil {
			if err := fn(ctx); err != nil {
				return typesMsg{err: err}
			}
		}
		types, err := svc.List(ctx)
		return typesMsg{types: types, notice: notice, err: err}
	}
}

// Load fetches the custom types.
func (t *TypeTab) Load() tea.Cmd {
	return t.request("", nil)
}

// OpenAdd opens the form for a new type.
func (t *TypeTab) OpenAdd() tea.Cmd {
	t.editingID = ""
	t.name, t.description = "", ""
	return t.openForm("Add Custom Glue Type")
}

// OpenEdit opens the form for the selected custom type. Built-in rows are
// read-only.
func (t *TypeTab) OpenEdit() tea.Cmd {
	gt, ok := t.Selected()
	if !ok {
		return nil
	}
	t.editingID = gt.ID
	t.name, t.description = gt.Name, gt.Description
	return t.openForm("Edit Custom Glue Type")
}

func (t *TypeTab) openForm(title string) tea.Cmd {
	t.mode = modeForm
	t.formTitle = title
	t.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("name").
				Title("Name").
				Placeholder("e.g. Epoxy 2024").
				Value(&t.name).
				Validate(func(s string) error {
					return t.validate(s)
				}),
			huh.NewInput().
				Key("description").
				Title("Description").
				Placeholder("Optional description").
				Value(&t.description),
		).Title(title),
	).WithShowHelp(false).WithTheme(components.FormTheme())
	if t.width > 0 {
		t.form = t.form.WithWidth(t.width)
	}
	return t.form.Init()
}

func (t *TypeTab) validate(name string) error {
	err := ValidateTypeName(name, t.editingID, t.types)
	if appErr := apperrors.GetAppError(err); appErr != nil {
		// Show only the reason inside the form.
		return fmt.Errorf("%s", strings.TrimPrefix(appErr.Message, "name: "))
	}
	return err
}

// Submit applies the form contents. An invalid name keeps the form open
// and leaves the list untouched.
func (t *TypeTab) Submit(name, description string) tea.Cmd {
	if t.mode != modeForm {
		return nil
	}
	if err := ValidateTypeName(name, t.editingID, t.types); err != nil {
		t.setStatus(apperrors.Summary(err), true)
		t.name, t.description = name, description
		return t.openForm(t.formTitle)
	}
	name = strings.TrimSpace(name)
	description = strings.TrimSpace(description)
	id := t.editingID
	t.closeForm()

	if id == "" {
		t.logger.Info("adding glue type", "name", name)
		return t.request(fmt.Sprintf("Added %q", name), func(ctx context.Context) error {
			_, err := t.svc.Add(ctx, name, description)
			return err
		})
	}
	t.logger.Info("updating glue type", "id", id, "name", name)
	return t.request(fmt.Sprintf("Updated %q", name), func(ctx context.Context) error {
		return t.svc.Update(ctx, id, name, description)
	})
}

func (t *TypeTab) closeForm() {
	t.mode = modeList
	t.form = nil
	t.editingID = ""
}

// RequestRemove asks for confirmation to remove the selected custom type.
func (t *TypeTab) RequestRemove() bool {
	if _, ok := t.Selected(); !ok {
		return false
	}
	t.mode = modeConfirm
	t.confirmYes = false
	return true
}

// ConfirmRemove answers the pending removal.
func (t *TypeTab) ConfirmRemove(yes bool) tea.Cmd {
	if t.mode != modeConfirm {
		return nil
	}
	t.mode = modeList
	gt, ok := t.Selected()
	if !yes || !ok {
		return nil
	}
	t.logger.Info("removing glue type", "id", gt.ID, "name", gt.Name)
	return t.request(fmt.Sprintf("Removed %q", gt.Name), func(ctx context.Context) error {
		return t.svc.Remove(ctx, gt.ID)
	})
}

func (t *TypeTab) setStatus(text string, isErr bool) {
	t.status = text
	t.statusErr = isErr
}

// Update implements form.RawWidget.
func (t *TypeTab) Update(msg tea.Msg) tea.Cmd {
	if m, ok := msg.(typesMsg); ok {
		if m.err != nil {
			t.logger.Error("glue type request failed", "err", m.err)
			t.setStatus(apperrors.Summary(m.err), true)
			return nil
		}
		t.LoadTypes(m.types)
		if m.notice != "" {
			t.setStatus(m.notice, false)
		}
		return nil
	}

	switch t.mode {
	case modeForm:
		return t.updateForm(msg)
	case modeConfirm:
		if km, ok := msg.(tea.KeyMsg); ok {
			return t.updateConfirm(km)
		}
		return nil
	}

	km, ok := msg.(tea.KeyMsg)
	if !ok {
		return nil
	}
	switch {
	case key.Matches(km, typeKeys.Up):
		t.Select(t.cursor - 1)
	case key.Matches(km, typeKeys.Down):
		t.Select(t.cursor + 1)
	case key.Matches(km, typeKeys.Add):
		return t.OpenAdd()
	case key.Matches(km, typeKeys.Edit):
		return t.OpenEdit()
	case key.Matches(km, typeKeys.Remove):
		t.RequestRemove()
	}
	return nil
}

func (t *TypeTab) updateForm(msg tea.Msg) tea.Cmd {
	if km, ok := msg.(tea.KeyMsg); ok && key.Matches(km, typeKeys.Cancel) {
		t.closeForm()
		return nil
	}
	model, cmd := t.form.Update(msg)
	if f, ok := model.(*huh.Form); ok {
		t.form = f
	}
	switch t.form.State {
	case huh.StateCompleted:
		return tea.Batch(cmd, t.Submit(t.name, t.description))
	case huh.StateAborted:
		t.closeForm()
		return nil
	}
	return cmd
}

func (t *TypeTab) updateConfirm(km tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(km, typeKeys.Left), key.Matches(km, typeKeys.Right):
		t.confirmYes = !t.confirmYes
	case key.Matches(km, typeKeys.Yes):
		return t.ConfirmRemove(true)
	case key.Matches(km, typeKeys.No), key.Matches(km, typeKeys.Cancel):
		return t.ConfirmRemove(false)
	case key.Matches(km, typeKeys.Enter):
		return t.ConfirmRemove(t.confirmYes)
	}
	return nil
}

// View implements form.RawWidget.
func (t *TypeTab) View() string {
	var b strings.Builder
	b.WriteString(components.Styles.GroupTitle.Render("Glue Types") + "\n")

	nameWidth := lipgloss.Width("Name")
	for _, n := range TypeNames(t.types) {
		nameWidth = max(nameWidth, lipgloss.Width(n))
	}
	header := fmt.Sprintf("  %-*s  %s", nameWidth, "Name", "Description")
	b.WriteString(components.Styles.InputLabel.Render(header) + "\n")

	row := 0
	line := func(name, desc string, builtin bool) {
		text := fmt.Sprintf("%-*s  %s", nameWidth, name, desc)
		switch {
		case row == t.cursor && t.mode != modeForm:
			b.WriteString(components.Styles.MenuSelected.Render("▸ " + text))
		case builtin:
			b.WriteString("  " + components.Styles.Deselected.Italic(true).Render(text))
		default:
			b.WriteString("  " + components.Styles.Normal.Render(text))
		}
		b.WriteString("\n")
		row++
	}
	for _, n := range BuiltinTypes {
		line(n, "Built-in", true)
	}
	for _, gt := range t.types {
		line(gt.Name, gt.Description, false)
	}

	switch t.mode {
	case modeForm:
		b.WriteString("\n" + t.form.View())
		b.WriteString("\n" + components.HelpBar(max(t.width, 40), []components.HelpItem{
			{Key: "enter", Desc: "next/save"},
			{Key: "esc", Desc: "cancel"},
		}))
	case modeConfirm:
		gt, _ := t.Selected()
		no, yes := components.NewButton("Cancel"), components.NewButton("Remove")
		no.Focus, yes.Focus = !t.confirmYes, t.confirmYes
		b.WriteString("\n" + components.RenderWarning(fmt.Sprintf("Remove '%s'? This cannot be undone.", gt.Name)))
		b.WriteString("\n" + lipgloss.JoinHorizontal(lipgloss.Top, no.Render(), " ", yes.Render()))
	default:
		if t.status != "" {
			if t.statusErr {
				b.WriteString("\n" + components.RenderError(t.status))
			} else {
				b.WriteString("\n" + components.RenderSuccess(t.status))
			}
		}
		b.WriteString("\n" + components.HelpBar(max(t.width, 40), []components.HelpItem{
			{Key: "a", Desc: "add"},
			{Key: "e", Desc: "edit"},
			{Key: "d", Desc: "remove"},
		}))
	}
	return b.String()
}
