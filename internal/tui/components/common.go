// Package components provides the shared look of the terminal interface:
// themes, the menu, bars and status markers.
package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// MenuItem is one entry of a Menu. Key is the shortcut shown in brackets.
type MenuItem struct {
	Label       string
	Description string
	Key         string
}

// Menu is a vertical list with a cursor.
type Menu struct {
	Items    []MenuItem
	Cursor   int
	Width    int
	ShowKeys bool
}

// NewMenu returns a menu showing shortcut keys.
func NewMenu(items []MenuItem) *Menu {
	return &Menu{Items: items, ShowKeys: true}
}

// SetWidth limits rendered lines to width cells. Zero means unlimited.
func (m *Menu) SetWidth(width int) {
	m.Width = width
}

func (m *Menu) Up() {
	if m.Cursor > 0 {
		m.Cursor--
	}
}

func (m *Menu) Down() {
	if m.Cursor < len(m.Items)-1 {
		m.Cursor++
	}
}

// Selected returns the item under the cursor, or a zero item for an empty menu.
func (m *Menu) Selected() MenuItem {
	if m.Cursor >= 0 && m.Cursor < len(m.Items) {
		return m.Items[m.Cursor]
	}
	return MenuItem{}
}

func (m *Menu) Render() string {
	var b strings.Builder

	for i, item := range m.Items {
		cursor, label := "  ", Styles.MenuItem.Render(item.Label)
		if i == m.Cursor {
			cursor, label = Styles.MenuSelected.Render("▸ "), Styles.MenuSelected.Render(item.Label)
		}
		var key string
		if m.ShowKeys && item.Key != "" {
			key = Styles.MenuKey.Render("[" + item.Key + "] ")
		}

		line := cursor + key + label
		if m.Width > 0 {
			line = lipgloss.NewStyle().MaxWidth(m.Width).Render(line)
		}
		b.WriteString(line + "\n")

		if item.Description != "" {
			desc := Truncate(item.Description, m.Width-4)
			b.WriteString(Styles.Subtitle.Render("    "+desc) + "\n")
		}
	}

	return b.String()
}

// Button is a bordered label that can hold focus.
type Button struct {
	Label string
	Focus bool
}

func NewButton(label string) *Button {
	return &Button{Label: label}
}

func (b *Button) Render() string {
	if b.Focus {
		return Styles.ButtonFocus.Render(b.Label)
	}
	return Styles.Button.Render(b.Label)
}

// HelpItem is one key hint of a HelpBar.
type HelpItem struct {
	Key  string
	Desc string
}

// HelpBar renders key hints on one line no wider than width.
func HelpBar(width int, items []HelpItem) string {
	parts := make([]string, 0, len(items))
	for _, item := range items {
		parts = append(parts, Styles.MenuKey.Render(item.Key)+Styles.HelpText.Render(" "+item.Desc))
	}
	content := strings.Join(parts, Styles.HelpText.Render(" • "))
	return Styles.StatusLine.Width(width).MaxWidth(width).Render(content)
}

// TitleBar renders the application name on the left and the version and
// global keys on the right.
func TitleBar(width int, title, version string) string {
	left := Styles.Header.Render(title)
	right := Styles.Subtitle.Render("v" + version + "  [?] Help  [q] Quit")

	padding := width - lipgloss.Width(left) - lipgloss.Width(right)
	if padding < 1 {
		return lipgloss.NewStyle().MaxWidth(width).Render(left)
	}
	return left + strings.Repeat(" ", padding) + right
}

// StatusBar renders the bottom status line.
func StatusBar(width int, text string) string {
	return Styles.StatusLine.Width(width).MaxWidth(width).Render(text)
}

// StatusIndicator returns the marker for a settings screen state:
// ● saved or loaded, ✗ failed, ○ otherwise.
func StatusIndicator(state string) string {
	switch state {
	case "saved", "loaded":
		return Styles.StatusActive.Render("●")
	case "failed", "error":
		return Styles.StatusError.Render("✗")
	default:
		return Styles.StatusInactive.Render("○")
	}
}

// Truncate shortens text to maxLen runes, ending in "..." when cut.
// A non-positive maxLen leaves text unchanged.
func Truncate(text string, maxLen int) string {
	if maxLen <= 0 {
		return text
	}
	runes := []rune(text)
	if len(runes) <= maxLen {
		return text
	}
	if maxLen <= 3 {
		return string(runes[:maxLen])
	}
	return string(runes[:maxLen-3]) + "..."
}

func RenderError(text string) string {
	return Styles.Error.Render("✗ " + text)
}

func RenderSuccess(text string) string {
	return Styles.Success.Render("✓ " + text)
}

func RenderWarning(text string) string {
	return Styles.Warning.Render("⚠ " + text)
}

func RenderInfo(text string) string {
	return Styles.Info.Render("ℹ " + text)
}
