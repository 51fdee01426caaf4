package glue

import (
	"context"
	"log/slog"
	"slices"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/dtg01100/touch-settings/internal/logging"
	"github.com/dtg01100/touch-settings/internal/plugins"
	"github.com/dtg01100/touch-settings/internal/widgets"
)

// Name identifies the glue domain on the command line.
const Name = "glue"

// Plugin is the glue settings plugin.
type Plugin struct {
	*plugins.Base[Settings]
	types *TypeTab
}

// New returns the glue plugin saving settings through svc and glue types
// through types.
func New(svc plugins.Service[Settings], types TypeService, logger *slog.Logger) (*Plugin, error) {
	if logger == nil {
		logger = logging.Discard()
	}
	p := &Plugin{types: NewTypeTab(types, logger.With("component", "glue-types"))}

	specs := []plugins.TabSpec{}
	for _, t := range Tabs() {
		specs = append(specs, plugins.SchemaTab(t.Title, t.Groups...))
	}
	specs = append(specs, plugins.RawTab("Glue Types", p.types))

	base, err := plugins.NewBase(plugins.Info{
		Name:        Name,
		Title:       "Glue",
		Description: "Spray, pump, generator and ramp parameters",
	}, svc, plugins.StructMapper[Settings]{}, Defaults, specs,
		plugins.WithLogger[Settings](logger),
		plugins.WithAfterLoad(p.offerGlueType),
	)
	if err != nil {
		return nil, err
	}
	p.Base = base
	p.types.OnTypesChanged(p.setTypeChoices)
	return p, nil
}

// TypeTab returns the glue types tab.
func (p *Plugin) TypeTab() *TypeTab { return p.types }

// LoadCmd loads the settings and the custom glue types.
func (p *Plugin) LoadCmd(ctx context.Context) tea.Cmd {
	return tea.Batch(p.Base.LoadCmd(ctx), p.types.Load())
}

// Load loads the settings and the custom glue types synchronously.
func (p *Plugin) Load(ctx context.Context) error {
	types, err := p.types.svc.List(ctx)
	if err != nil {
		p.View().ReportError(err)
		return err
	}
	p.types.LoadTypes(types)
	return p.Base.Load(ctx)
}

func (p *Plugin) combo() *widgets.Combo {
	f, ok := p.View().Field("glue_type")
	if !ok {
		return nil
	}
	c, _ := f.(*widgets.Combo)
	return c
}

func (p *Plugin) setTypeChoices(types []GlueType) {
	c := p.combo()
	if c == nil {
		return
	}
	c.SetChoices(TypeNames(types))
	if c.Text() == "" {
		c.SetValue(p.Current().GlueType)
	}
}

// offerGlueType keeps a loaded glue type selectable when the custom list
// has not arrived yet or no longer holds it.
func (p *Plugin) offerGlueType(s Settings) {
	c := p.combo()
	if c == nil || s.GlueType == "" {
		return
	}
	if !slices.Contains(c.Choices(), s.GlueType) {
		c.SetChoices(append(c.Choices(), s.GlueType))
	}
	c.SetValue(s.GlueType)
}
