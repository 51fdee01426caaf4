package camera

import (
	"log/slog"

	"github.com/dtg01100/touch-settings/internal/logging"
	"github.com/dtg01100/touch-settings/internal/plugins"
)

// Name identifies the camera domain on the command line.
const Name = "camera"

// Plugin is the camera settings plugin.
type Plugin struct {
	*plugins.Base[Settings]
	actions *ActionsTab
}

// New returns the camera plugin saving through svc and sending requests
// through actions.
func New(svc plugins.Service[Settings], actions Actions, logger *slog.Logger) (*Plugin, error) {
	if logger == nil {
		logger = logging.Discard()
	}
	if actions == nil {
		actions = &LogActions{Logger: logger.With("component", "camera-actions")}
	}
	tab := NewActionsTab(actions)

	specs := make([]plugins.TabSpec, 0, len(Tabs())+1)
	for _, t := range Tabs() {
		specs = append(specs, plugins.SchemaTab(t.Title, t.Groups...))
	}
	specs = append(specs, plugins.RawTab("Actions", tab))

	base, err := plugins.NewBase(plugins.Info{
		Name:        Name,
		Title:       "Camera",
		Description: "Capture, contour detection, calibration and brightness control",
	}, svc, plugins.StructMapper[Settings]{}, Defaults, specs, plugins.WithLogger[Settings](logger))
	if err != nil {
		return nil, err
	}

	tab.OnDone(func(label string, err error) {
		if err != nil {
			base.View().ReportError(err)
			return
		}
		base.View().SetStatus(label + " requested")
	})
	return &Plugin{Base: base, actions: tab}, nil
}

// ActionsTab returns the requests tab.
func (p *Plugin) ActionsTab() *ActionsTab { return p.actions }
