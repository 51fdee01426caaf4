package screens

import (
	"context"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/dtg01100/touch-settings/internal/form"
	"github.com/dtg01100/touch-settings/internal/plugins"
	"github.com/dtg01100/touch-settings/internal/tui/components"
)

// SettingsScreen hosts the form of one settings domain.
type SettingsScreen struct {
	ctx    context.Context
	plugin plugins.Plugin
	view   *form.SettingsView
	width  int
	height int
	goBack bool
}

// NewSettingsScreen creates the screen for p. ctx bounds its loads.
func NewSettingsScreen(ctx context.Context, p plugins.Plugin) *SettingsScreen {
	return &SettingsScreen{
		ctx:    ctx,
		plugin: p,
		view:   p.View(),
	}
}

// Plugin returns the hosted plugin.
func (s *SettingsScreen) Plugin() plugins.Plugin {
	return s.plugin
}

// SetSize sets the screen dimensions.
func (s *SettingsScreen) SetSize(width, height int) {
	s.width = width
	s.height = height
	// title, blank line and help bar
	s.view.SetSize(width-2, height-4)
}

// Init loads the record into the form.
func (s *SettingsScreen) Init() tea.Cmd {
	return s.plugin.LoadCmd(s.ctx)
}

// Update handles screen updates.
func (s *SettingsScreen) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok && msg.String() == "esc" && !s.view.Capturing() {
		s.goBack = true
		return s, nil
	}
	_, cmd := s.view.Update(msg)
	return s, cmd
}

// ShouldGoBack returns true if the screen should go back to the main menu.
func (s *SettingsScreen) ShouldGoBack() bool {
	return s.goBack
}

// ResetGoBack resets the go back state.
func (s *SettingsScreen) ResetGoBack() {
	s.goBack = false
}

// Capturing reports whether the form is consuming keys such as q.
func (s *SettingsScreen) Capturing() bool {
	return s.view.Capturing()
}

// EntersText reports whether a focused text field takes typed characters.
func (s *SettingsScreen) EntersText() bool {
	return s.view.EntersText()
}

// State summarizes the form for the status indicator.
func (s *SettingsScreen) State() string {
	if s.view.Loading() {
		return "loading"
	}
	text, isErr := s.view.Status()
	switch {
	case isErr:
		return "error"
	case text == "Saved":
		return "saved"
	case text == "Loaded":
		return "loaded"
	default:
		return "idle"
	}
}

// View renders the screen.
func (s *SettingsScreen) View() string {
	var b strings.Builder

	title := components.StatusIndicator(s.State()) + " " +
		components.Styles.Title.Render(s.plugin.Title())
	b.WriteString(lipgloss.NewStyle().Width(s.width).Render(title))
	b.WriteString("\n\n")

	b.WriteString(s.view.View())

	b.WriteString("\n")
	b.WriteString(components.HelpBar(s.width, []components.HelpItem{
		{Key: "tab", Desc: "next tab"},
		{Key: "↑/↓", Desc: "field"},
		{Key: "ctrl+s", Desc: "save"},
		{Key: "Esc", Desc: "back"},
	}))

	return b.String()
}
