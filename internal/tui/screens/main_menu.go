// Package screens holds the domain menu and the settings screen.
package screens

import (
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/dtg01100/touch-settings/internal/plugins"
	"github.com/dtg01100/touch-settings/internal/tui/components"
)

// QuitTarget is the navigation target of the Quit entry.
const QuitTarget = "quit"

// MainMenuScreen lists the settings domains.
type MainMenuScreen struct {
	menu             *components.Menu
	targets          map[string]string
	width            int
	height           int
	navigate         bool
	navigationTarget string
}

// NewMainMenuScreen creates a menu with one entry per plugin. Entries get
// the number keys 1 to 9 in registration order.
func NewMainMenuScreen(ps []plugins.Plugin) *MainMenuScreen {
	items := make([]components.MenuItem, 0, len(ps)+1)
	targets := make(map[string]string, len(ps)+1)
	for i, p := range ps {
		k := ""
		if i < 9 {
			k = strconv.Itoa(i + 1)
		}
		items = append(items, components.MenuItem{
			Label:       p.Title(),
			Description: p.Description(),
			Key:         k,
		})
		if k != "" {
			targets[k] = p.Name()
		}
		targets["#"+strconv.Itoa(i)] = p.Name()
	}
	items = append(items, components.MenuItem{
		Label:       "Quit",
		Description: "Exit the application",
		Key:         "Q",
	})
	targets["q"] = QuitTarget

	return &MainMenuScreen{
		menu:    components.NewMenu(items),
		targets: targets,
	}
}

func (s *MainMenuScreen) SetSize(width, height int) {
	s.width = width
	s.height = height
	s.menu.SetWidth(width - 8)
}

func (s *MainMenuScreen) Init() tea.Cmd {
	return nil
}

// Update moves the cursor or records a navigation request.
func (s *MainMenuScreen) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		key := strings.ToLower(msg.String())
		switch key {
		case "up", "k":
			s.menu.Up()
		case "down", "j":
			s.menu.Down()
		case "enter", " ":
			s.selectCurrent()
		default:
			s.jump(key)
		}
	}
	return s, nil
}

func (s *MainMenuScreen) jump(key string) {
	if target, ok := s.targets[key]; ok {
		s.navigationTarget = target
		s.navigate = true
	}
}

// selectCurrent navigates to the entry under the cursor. The last entry quits.
func (s *MainMenuScreen) selectCurrent() {
	if s.menu.Cursor == len(s.menu.Items)-1 {
		s.jump("q")
		return
	}
	s.jump("#" + strconv.Itoa(s.menu.Cursor))
}

// ShouldNavigate reports a pending navigation request.
func (s *MainMenuScreen) ShouldNavigate() bool {
	return s.navigate
}

// GetNavigationTarget returns the plugin name to open, or QuitTarget.
func (s *MainMenuScreen) GetNavigationTarget() string {
	return s.navigationTarget
}

func (s *MainMenuScreen) ResetNavigation() {
	s.navigate = false
	s.navigationTarget = ""
}

func (s *MainMenuScreen) View() string {
	var b strings.Builder

	b.WriteString("\n")

	title := components.Styles.Title.Render("Settings")
	b.WriteString(lipgloss.NewStyle().
		Width(s.width).
		Align(lipgloss.Center).
		Render(title))
	b.WriteString("\n\n")

	b.WriteString(lipgloss.NewStyle().
		Width(s.width).
		Align(lipgloss.Center).
		Render(s.menu.Render()))

	b.WriteString("\n\n")
	b.WriteString(components.HelpBar(s.width, []components.HelpItem{
		{Key: "↑/↓", Desc: "navigate"},
		{Key: "Enter", Desc: "select"},
		{Key: "1-9", Desc: "quick jump"},
		{Key: "?", Desc: "help"},
		{Key: "q", Desc: "quit"},
	}))

	return b.String()
}
