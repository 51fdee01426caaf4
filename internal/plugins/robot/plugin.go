package robot

import (
	"log/slog"

	"github.com/dtg01100/touch-settings/internal/logging"
	"github.com/dtg01100/touch-settings/internal/movement"
	"github.com/dtg01100/touch-settings/internal/plugins"
)

// Name identifies the robot domain on the command line.
const Name = "robot"

// Plugin is the robot settings plugin.
type Plugin struct {
	*plugins.Base[Settings]
	movement *MovementTab
}

// New returns the robot plugin. motion may be nil, in which case a
// simulated controller is used.
func New(svc plugins.Service[Settings], motion Motion, logger *slog.Logger) (*Plugin, error) {
	if logger == nil {
		logger = logging.Discard()
	}
	if motion == nil {
		motion = NewSimulatedMotion(movement.Position{}, logger.With("component", "simulated-motion"))
	}
	p := &Plugin{movement: newMovementTab(motion, logger.With("component", "movement"))}

	tabs := Tabs()
	specs := []plugins.TabSpec{
		plugins.SchemaTab(tabs[0].Title, tabs[0].Groups...),
		plugins.SchemaTab(tabs[1].Title, tabs[1].Groups...),
		plugins.RawTab("Movement Groups", p.movement),
		plugins.SchemaTab(tabs[2].Title, tabs[2].Groups...),
	}

	base, err := plugins.NewBase(plugins.Info{
		Name:        Name,
		Title:       "Robot",
		Description: "Controller, motion limits, movement groups and calibration",
	}, svc, plugins.StructMapper[Settings]{}, Defaults, specs,
		plugins.WithLogger[Settings](logger),
		plugins.WithAfterLoad(func(s Settings) {
			p.movement.Load(s.MovementGroups)
		}),
		plugins.WithBeforeSave(func(s Settings) (Settings, error) {
			if len(p.movement.Names()) > 0 {
				s.MovementGroups = p.movement.Values()
			}
			return s, nil
		}),
	)
	if err != nil {
		return nil, err
	}
	p.Base = base

	p.movement.OnValueChanged(base.View().EmitChange)
	p.movement.report = func(status string, err error) {
		if err != nil {
			base.View().ReportError(err)
			return
		}
		base.View().SetStatus(status)
	}
	return p, nil
}

// Movement returns the movement groups tab.
func (p *Plugin) Movement() *MovementTab { return p.movement }
