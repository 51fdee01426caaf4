package components

import (
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

// Palette names the colors every style is built from.
type Palette struct {
	Primary       lipgloss.Color
	PrimaryBright lipgloss.Color
	Accent        lipgloss.Color
	Background    lipgloss.Color
	Surface       lipgloss.Color
	Text          lipgloss.Color
	TextMuted     lipgloss.Color
	TextBright    lipgloss.Color
	Success       lipgloss.Color
	Warning       lipgloss.Color
	Error         lipgloss.Color
	Info          lipgloss.Color
}

// palettes maps ui.theme names to colors. Names missing here use "default".
var palettes = map[string]Palette{
	"default": {
		Primary: "62", PrimaryBright: "75", Accent: "86",
		Background: "235", Surface: "236",
		Text: "252", TextMuted: "243", TextBright: "15",
		Success: "82", Warning: "214", Error: "196", Info: "117",
	},
	"charm": {
		Primary: "#7571F9", PrimaryBright: "#9F9CFF", Accent: "#02BF87",
		Background: "#1A1A1A", Surface: "#2A2A2A",
		Text: "#DDDADA", TextMuted: "#6C6C6C", TextBright: "#FFFDF5",
		Success: "#02BA84", Warning: "#F2C94C", Error: "#FF4672", Info: "#8A8AFF",
	},
	"dracula": {
		Primary: "#6272A4", PrimaryBright: "#BD93F9", Accent: "#8BE9FD",
		Background: "#282A36", Surface: "#44475A",
		Text: "#F8F8F2", TextMuted: "#6272A4", TextBright: "#FFFFFF",
		Success: "#50FA7B", Warning: "#FFB86C", Error: "#FF5555", Info: "#8BE9FD",
	},
	"catppuccin": {
		Primary: "#8839EF", PrimaryBright: "#CBA6F7", Accent: "#94E2D5",
		Background: "#1E1E2E", Surface: "#313244",
		Text: "#CDD6F4", TextMuted: "#7F849C", TextBright: "#FFFFFF",
		Success: "#A6E3A1", Warning: "#FAB387", Error: "#F38BA8", Info: "#89DCEB",
	},
	"base16": {
		Primary: "4", PrimaryBright: "12", Accent: "6",
		Background: "0", Surface: "8",
		Text: "7", TextMuted: "8", TextBright: "15",
		Success: "2", Warning: "3", Error: "1", Info: "14",
	},
}

// StyleSet holds the styles shared by screens and controls.
type StyleSet struct {
	Title      lipgloss.Style
	Subtitle   lipgloss.Style
	Normal     lipgloss.Style
	Selected   lipgloss.Style
	Deselected lipgloss.Style

	Error   lipgloss.Style
	Success lipgloss.Style
	Warning lipgloss.Style
	Info    lipgloss.Style

	Border     lipgloss.Style
	HelpText   lipgloss.Style
	StatusLine lipgloss.Style
	Header     lipgloss.Style
	Box        lipgloss.Style

	MenuItem     lipgloss.Style
	MenuSelected lipgloss.Style
	MenuKey      lipgloss.Style

	Button      lipgloss.Style
	ButtonFocus lipgloss.Style

	Input      lipgloss.Style
	InputFocus lipgloss.Style
	InputLabel lipgloss.Style

	StatusActive   lipgloss.Style
	StatusInactive lipgloss.Style
	StatusError    lipgloss.Style

	// Touch controls.
	SpinButton lipgloss.Style
	Disabled   lipgloss.Style
	Pill       lipgloss.Style
	PillActive lipgloss.Style
	GroupBox   lipgloss.Style
	GroupTitle lipgloss.Style
	Tab        lipgloss.Style
	TabActive  lipgloss.Style
}

// NewStyleSet builds every style from p.
func NewStyleSet(p Palette) StyleSet {
	fg := func(c lipgloss.Color) lipgloss.Style { return lipgloss.NewStyle().Foreground(c) }
	rounded := func(c lipgloss.Color) lipgloss.Style {
		return lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(c)
	}

	return StyleSet{
		Title:      lipgloss.NewStyle().Bold(true).Foreground(p.TextBright).Background(p.Primary).Padding(0, 2),
		Subtitle:   fg(p.TextMuted).Italic(true),
		Normal:     fg(p.Text),
		Selected:   fg(p.Accent).Bold(true),
		Deselected: fg(p.TextMuted),

		Error:   fg(p.Error),
		Success: fg(p.Success),
		Warning: fg(p.Warning),
		Info:    fg(p.Info),

		Border:     rounded(p.Primary).Padding(0, 1),
		HelpText:   fg(p.TextMuted).Italic(true),
		StatusLine: lipgloss.NewStyle().Foreground(p.TextBright).Background(p.Surface).Padding(0, 1),
		Header:     lipgloss.NewStyle().Bold(true).Foreground(p.TextBright).Background(p.Primary).Padding(0, 1),
		Box:        rounded(p.Primary).Padding(1, 2),

		MenuItem:     fg(p.Text),
		MenuSelected: fg(p.Accent).Bold(true),
		MenuKey:      fg(p.PrimaryBright).Bold(true),

		Button:      rounded(p.TextMuted).Foreground(p.Text).Background(p.Surface).Padding(0, 2),
		ButtonFocus: rounded(p.Accent).Bold(true).Foreground(p.TextBright).Background(p.Primary).Padding(0, 2),

		Input:      lipgloss.NewStyle().Foreground(p.Text).Background(p.Surface).Padding(0, 1),
		InputFocus: lipgloss.NewStyle().Foreground(p.TextBright).Background(p.Primary).Padding(0, 1),
		InputLabel: fg(p.Text).Bold(true),

		StatusActive:   fg(p.Success),
		StatusInactive: fg(p.TextMuted),
		StatusError:    fg(p.Error),

		SpinButton: lipgloss.NewStyle().Bold(true).Foreground(p.TextBright).Background(p.Primary).Padding(0, 1),
		Disabled:   lipgloss.NewStyle().Foreground(p.TextMuted).Background(p.Surface).Padding(0, 1),
		Pill:       fg(p.TextMuted).Padding(0, 1),
		PillActive: lipgloss.NewStyle().Bold(true).Foreground(p.Background).Background(p.Accent).Padding(0, 1),
		GroupBox:   rounded(p.TextMuted).Padding(0, 1),
		GroupTitle: fg(p.PrimaryBright).Bold(true),
		Tab:        fg(p.TextMuted).Padding(0, 2),
		TabActive:  lipgloss.NewStyle().Bold(true).Foreground(p.TextBright).Background(p.Primary).Padding(0, 2),
	}
}

// Styles is the active style set. SetTheme replaces it.
var Styles = NewStyleSet(palettes["default"])

var activeTheme = "default"

// SetTheme switches the styles and dialog forms to the named theme.
// Unknown names select "default".
func SetTheme(name string) {
	p, ok := palettes[name]
	if !ok {
		name, p = "default", palettes["default"]
	}
	activeTheme = name
	Styles = NewStyleSet(p)
}

// Theme returns the active theme name.
func Theme() string {
	return activeTheme
}

// FormTheme returns the huh theme matching the active theme.
func FormTheme() *huh.Theme {
	switch activeTheme {
	case "charm":
		return huh.ThemeCharm()
	case "dracula":
		return huh.ThemeDracula()
	case "catppuccin":
		return huh.ThemeCatppuccin()
	default:
		return huh.ThemeBase16()
	}
}
