// Package plugins wires settings domains to forms and persistence.
//
// A plugin owns a record type, a schema, a service that loads and saves the
// record, and a mapper between the record and the flat value map. Base does
// the model and controller work every domain shares: it keeps the last
// loaded record as the merge base for saves, applies loaded records to the
// form and turns save requests into service calls.
package plugins

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/dtg01100/touch-settings/internal/form"
	"github.com/dtg01100/touch-settings/internal/schema"
)

// Service loads and saves one settings record.
type Service[T any] interface {
	Load(ctx context.Context) (T, error)
	Save(ctx context.Context, record T) error
}

// Plugin is a settings domain as seen by the TUI and the command line.
type Plugin interface {
	// Name is the stable identifier used on the command line.
	Name() string
	// Title is the display name.
	Title() string
	// Description is a one-line summary for menus.
	Description() string
	// Tabs returns the schema tabs of the form.
	Tabs() []schema.Tab
	// View returns the form. It is built once per plugin.
	View() *form.SettingsView
	// LoadCmd loads the record off the UI loop and applies it to the form.
	LoadCmd(ctx context.Context) tea.Cmd
	// Fetch loads the record and returns its flat values.
	Fetch(ctx context.Context) (schema.Values, error)
	// Apply loads the record, applies values onto it and saves it.
	Apply(ctx context.Context, values schema.Values) error
	// Reset saves the default record.
	Reset(ctx context.Context) error
	// Export loads the full record, including data outside the form.
	Export(ctx context.Context) (any, error)
	// Import decodes a full record over the current one and saves it.
	// decode receives a pointer to the record.
	Import(ctx context.Context, decode func(v any) error) error
}

// TabSpec describes one tab of a plugin form: schema groups or a raw widget.
type TabSpec struct {
	Title  string
	Groups []schema.SettingGroup
	Raw    form.RawWidget
}

// SchemaTab returns a tab spec stacking groups.
func SchemaTab(title string, groups ...schema.SettingGroup) TabSpec {
	return TabSpec{Title: title, Groups: groups}
}

// RawTab returns a tab spec hosting w.
func RawTab(title string, w form.RawWidget) TabSpec {
	return TabSpec{Title: title, Raw: w}
}
