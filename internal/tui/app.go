// Package tui provides the terminal user interface for touch-settings.
package tui

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/dtg01100/touch-settings/internal/app"
	"github.com/dtg01100/touch-settings/internal/config"
	"github.com/dtg01100/touch-settings/internal/logging"
	"github.com/dtg01100/touch-settings/internal/tui/components"
	"github.com/dtg01100/touch-settings/internal/tui/screens"
)

// Version is set at build time via ldflags.
var Version = "dev"

// Screen represents a TUI screen in the application.
type Screen int

const (
	ScreenMain Screen = iota
	ScreenSettings
	ScreenHelp
)

// String returns the string representation of a screen.
func (s Screen) String() string {
	switch s {
	case ScreenMain:
		return "Main Menu"
	case ScreenSettings:
		return "Settings"
	case ScreenHelp:
		return "Help"
	default:
		return "Unknown"
	}
}

// Options configures the TUI.
type Options struct {
	Config  *config.Config
	Devices app.Devices
	Logger  *slog.Logger
	// Context bounds record loads and saves. Defaults to Background.
	Context context.Context
}

// AppInitError is sent when app initialization fails.
type AppInitError struct {
	Err error
}

// AppInitDone is sent when the settings domains are ready.
type AppInitDone struct {
	App *app.App
}

// ConfigReloadedMsg carries a configuration changed on disk.
type ConfigReloadedMsg struct {
	Config *config.Config
}

// ConfigErrorMsg reports a configuration file that failed to reload.
type ConfigErrorMsg struct {
	Err error
}

// App is the main TUI application model.
type App struct {
	currentScreen  Screen
	previousScreen Screen
	width          int
	height         int
	showHelp       bool
	initError      error
	notice         string

	// Help screen scroll state
	helpScrollY    int
	helpContentLen int

	mainMenu *screens.MainMenuScreen
	settings map[string]*screens.SettingsScreen
	order    []string
	active   string

	opts   Options
	deps   *app.App
	logger *slog.Logger
}

// NewApp creates a new TUI application. The settings domains are built by
// the command returned from Init.
func NewApp(opts Options) *App {
	if opts.Context == nil {
		opts.Context = context.Background()
	}
	if opts.Logger == nil {
		opts.Logger = logging.Discard()
	}
	if opts.Config != nil {
		components.SetTheme(opts.Config.UI.Theme)
	}
	return &App{
		currentScreen:  ScreenMain,
		previousScreen: ScreenMain,
		mainMenu:       screens.NewMainMenuScreen(nil),
		settings:       make(map[string]*screens.SettingsScreen),
		opts:           opts,
		logger:         logging.For(opts.Logger, "tui"),
	}
}

// Init initializes the application.
func (a *App) Init() tea.Cmd {
	return a.initializeServices
}

// initializeServices builds the settings domains.
func (a *App) initializeServices() tea.Msg {
	if a.opts.Config == nil {
		return AppInitError{Err: fmt.Errorf("no configuration loaded")}
	}
	deps, err := app.New(a.opts.Config, a.opts.Devices, a.opts.Logger)
	if err != nil {
		return AppInitError{Err: err}
	}
	return AppInitDone{App: deps}
}

func (a *App) servicesReady(deps *app.App) tea.Cmd {
	a.deps = deps
	ps := deps.Registry.All()
	a.mainMenu = screens.NewMainMenuScreen(ps)
	a.mainMenu.SetSize(a.width, a.height)
	a.order = a.order[:0]
	for _, p := range ps {
		s := screens.NewSettingsScreen(a.opts.Context, p)
		s.SetSize(a.width, a.height-2)
		a.settings[p.Name()] = s
		a.order = append(a.order, p.Name())
	}

	start := a.opts.Config.UI.StartScreen
	if _, ok := a.settings[start]; ok {
		return a.open(start)
	}
	return nil
}

// open switches to the settings screen of the named domain and reloads it.
func (a *App) open(name string) tea.Cmd {
	s, ok := a.settings[name]
	if !ok {
		return nil
	}
	a.active = name
	a.currentScreen = ScreenSettings
	a.logger.Debug("screen opened", "domain", name)
	return s.Init()
}

func (a *App) activeSettings() *screens.SettingsScreen {
	return a.settings[a.active]
}

func (a *App) capturing() bool {
	s := a.activeSettings()
	return a.currentScreen == ScreenSettings && s != nil && s.Capturing()
}

func (a *App) enteringText() bool {
	s := a.activeSettings()
	return a.currentScreen == ScreenSettings && s != nil && s.EntersText()
}

func (a *App) applyConfig(cfg *config.Config) {
	components.SetTheme(cfg.UI.Theme)
	if err := logging.SetLevel(cfg.Log.Level); err != nil {
		a.logger.Warn("ignoring log level", "error", err)
	}
	if a.deps != nil && cfg.DataPath() != a.deps.Config.DataPath() {
		a.notice = "data_dir changed, restart to use it"
	} else {
		a.notice = "Configuration reloaded"
	}
	a.opts.Config = cfg
	a.logger.Info("configuration reloaded", "theme", cfg.UI.Theme, "log_level", cfg.Log.Level)
}

// Update handles application updates.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}
		if a.initError != nil {
			if msg.String() == "q" || msg.String() == "esc" {
				return a, tea.Quit
			}
			return a, nil
		}
		if a.showHelp {
			return a, a.updateHelp(msg)
		}
		if msg.String() == "?" && !a.capturing() && !a.enteringText() {
			a.previousScreen = a.currentScreen
			a.currentScreen = ScreenHelp
			a.showHelp = true
			a.helpScrollY = 0
			return a, nil
		}
		if msg.String() == "q" && a.currentScreen == ScreenMain {
			return a, tea.Quit
		}
		return a, a.updateCurrent(msg)

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.mainMenu.SetSize(a.width, a.height)
		for _, s := range a.settings {
			s.SetSize(a.width, a.height-2)
		}
		return a, nil

	case AppInitError:
		a.initError = msg.Err
		a.logger.Error("initialization failed", "error", msg.Err)
		return a, nil

	case AppInitDone:
		return a, a.servicesReady(msg.App)

	case ConfigReloadedMsg:
		a.applyConfig(msg.Config)
		return a, nil

	case ConfigErrorMsg:
		a.notice = "Configuration not reloaded: " + msg.Err.Error()
		a.logger.Warn("configuration reload failed", "error", msg.Err)
		return a, nil

	case tea.MouseMsg:
		if a.currentScreen != ScreenSettings || a.initError != nil {
			return a, nil
		}
		if s := a.activeSettings(); s != nil {
			_, cmd := s.Update(msg)
			return a, cmd
		}
		return a, nil
	}

	// Load and save results may arrive after the user left the screen.
	for _, name := range a.order {
		_, cmd := a.settings[name].Update(msg)
		cmds = append(cmds, cmd)
	}
	return a, tea.Batch(cmds...)
}

func (a *App) updateHelp(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "up", "k":
		if a.helpScrollY > 0 {
			a.helpScrollY--
		}
	case "down", "j":
		maxScroll := a.helpContentLen - (a.height - 6)
		if maxScroll > 0 && a.helpScrollY < maxScroll {
			a.helpScrollY++
		}
	case "esc", "q", "?":
		a.currentScreen = a.previousScreen
		a.showHelp = false
	}
	return nil
}

func (a *App) updateCurrent(msg tea.KeyMsg) tea.Cmd {
	switch a.currentScreen {
	case ScreenMain:
		_, cmd := a.mainMenu.Update(msg)
		if a.mainMenu.ShouldNavigate() {
			target := a.mainMenu.GetNavigationTarget()
			a.mainMenu.ResetNavigation()
			if target == screens.QuitTarget {
				return tea.Quit
			}
			return a.open(target)
		}
		return cmd

	case ScreenSettings:
		s := a.activeSettings()
		if s == nil {
			a.currentScreen = ScreenMain
			return nil
		}
		_, cmd := s.Update(msg)
		if s.ShouldGoBack() {
			s.ResetGoBack()
			a.currentScreen = ScreenMain
			a.active = ""
		}
		return cmd
	}
	return nil
}

// View renders the application.
func (a *App) View() string {
	if a.width == 0 || a.height == 0 {
		return "Loading..."
	}

	if a.initError != nil {
		return a.renderInitError()
	}

	headerHeight := 1
	statusHeight := 1
	contentHeight := a.height - headerHeight - statusHeight

	var content string
	switch a.currentScreen {
	case ScreenMain:
		content = a.mainMenu.View()
	case ScreenSettings:
		if s := a.activeSettings(); s != nil {
			content = s.View()
		}
	case ScreenHelp:
		content = a.renderHelp()
	}

	contentBox := lipgloss.NewStyle().
		Width(a.width).
		Height(contentHeight).
		Render(content)

	return lipgloss.JoinVertical(lipgloss.Left,
		a.renderHeader(),
		contentBox,
		a.renderStatusBar(),
	)
}

func (a *App) renderHeader() string {
	return components.TitleBar(a.width, "Touch Settings", Version)
}

func (a *App) screenTitle() string {
	if a.currentScreen == ScreenSettings {
		if s := a.activeSettings(); s != nil {
			return s.Plugin().Title()
		}
	}
	return a.currentScreen.String()
}

func (a *App) renderStatusBar() string {
	var statusText string
	switch {
	case a.showHelp:
		statusText = "Press Esc or q to close help"
	case a.currentScreen == ScreenSettings:
		statusText = fmt.Sprintf("Screen: %s | ?: Help | Esc: Back", a.screenTitle())
	default:
		statusText = fmt.Sprintf("Screen: %s | ?: Help | q: Quit", a.screenTitle())
	}
	if a.notice != "" {
		statusText += " | " + a.notice
	}
	return components.StatusBar(a.width, statusText)
}

func writeKeys(b *strings.Builder, title string, items []components.HelpItem) {
	b.WriteString(components.Styles.Subtitle.Render(title) + "\n")
	for _, item := range items {
		line := fmt.Sprintf("  %s  %s",
			components.Styles.MenuKey.Render(item.Key),
			components.Styles.Normal.Render(item.Desc))
		b.WriteString(line + "\n")
	}
	b.WriteString("\n")
}

// renderHelp renders the help screen.
func (a *App) renderHelp() string {
	var b strings.Builder

	b.WriteString(components.Styles.Title.Render("Help & Keybindings") + "\n\n")

	writeKeys(&b, "Global Keybindings", []components.HelpItem{
		{Key: "↑/k", Desc: "Move up"},
		{Key: "↓/j", Desc: "Move down"},
		{Key: "Enter", Desc: "Select/confirm"},
		{Key: "Esc", Desc: "Go back/cancel"},
		{Key: "q", Desc: "Quit (from main menu)"},
		{Key: "Ctrl+C", Desc: "Force quit"},
		{Key: "?", Desc: "Toggle this help screen"},
	})

	var pages []components.HelpItem
	for i, name := range a.order {
		p := a.settings[name].Plugin()
		pages = append(pages, components.HelpItem{
			Key:  fmt.Sprintf("%d", i+1),
			Desc: p.Title() + ": " + strings.Join(p.View().Tabs(), ", "),
		})
	}
	if len(pages) > 0 {
		writeKeys(&b, "Settings Pages", pages)
	}

	writeKeys(&b, "Settings Forms", []components.HelpItem{
		{Key: "Tab", Desc: "Next tab"},
		{Key: "Shift+Tab", Desc: "Previous tab"},
		{Key: "↑/↓", Desc: "Previous/next field"},
		{Key: "←/→", Desc: "Adjust value"},
		{Key: "Enter", Desc: "Edit list or confirm"},
		{Key: "Ctrl+S", Desc: "Save"},
	})

	writeKeys(&b, "Movement Groups", []components.HelpItem{
		{Key: "c", Desc: "Set current position"},
		{Key: "m", Desc: "Move to position"},
		{Key: "x", Desc: "Execute trajectory"},
	})

	lines := strings.Split(b.String(), "\n")
	a.helpContentLen = len(lines)

	availableHeight := a.height - 6
	if availableHeight < 1 {
		availableHeight = 1
	}

	startLine := a.helpScrollY
	if startLine < 0 {
		startLine = 0
	}
	if startLine > len(lines) {
		startLine = len(lines)
	}
	endLine := startLine + availableHeight
	if endLine > len(lines) {
		endLine = len(lines)
	}

	visibleContent := strings.Join(lines[startLine:endLine], "\n")

	maxScroll := len(lines) - availableHeight
	if maxScroll > 0 {
		scrollInfo := fmt.Sprintf("\n\n[%d/%d] ↑/↓ to scroll", startLine+1, maxScroll+1)
		visibleContent += components.Styles.HelpText.Render(scrollInfo)
	}

	return components.Styles.Border.
		Width(a.width - 4).
		Render(visibleContent)
}

// renderInitError renders the initialization error screen.
func (a *App) renderInitError() string {
	center := lipgloss.NewStyle().Width(a.width).Align(lipgloss.Center)
	var b strings.Builder

	b.WriteString(center.Render(components.Styles.Title.Render("Initialization Error")))
	b.WriteString("\n\n")

	errorMsg := fmt.Sprintf("Failed to initialize application:\n\n%s", components.Truncate(a.initError.Error(), a.width*4))
	b.WriteString(center.Render(components.RenderError(errorMsg)))
	b.WriteString("\n\n")

	b.WriteString(center.Render(components.Styles.Subtitle.Render("Possible solutions:")))
	b.WriteString("\n\n")

	suggestions := []string{
		"• Check the data_dir setting in the configuration file",
		"• Verify you have write permissions for the data directory",
		"• Run 'touch-settings reset <domain>' to restore a corrupt settings file",
	}
	for _, suggestion := range suggestions {
		b.WriteString(center.Render(suggestion))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(center.Render(components.Styles.HelpText.Render("Press q or Ctrl+C to quit")))

	return b.String()
}

// Run starts the TUI application and watches the configuration file for
// theme and log level changes.
func Run(opts Options) error {
	model := NewApp(opts)
	programOpts := []tea.ProgramOption{tea.WithAltScreen()}
	if opts.Config != nil && opts.Config.UI.Mouse {
		programOpts = append(programOpts, tea.WithMouseCellMotion())
	}
	if opts.Context != nil {
		programOpts = append(programOpts, tea.WithContext(opts.Context))
	}
	p := tea.NewProgram(model, programOpts...)

	if opts.Config != nil {
		opts.Config.Watch(
			func(c *config.Config) { p.Send(ConfigReloadedMsg{Config: c}) },
			func(err error) { p.Send(ConfigErrorMsg{Err: err}) },
		)
	}

	_, err := p.Run()
	return err
}

var _ tea.Model = (*App)(nil)

