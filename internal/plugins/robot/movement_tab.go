package robot

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	apperrors "github.com/dtg01100/touch-settings/internal/errors"
	"github.com/dtg01100/touch-settings/internal/movement"
)

// MotionTimeout bounds one request to the robot controller.
const MotionTimeout = 2 * time.Minute

type currentPositionMsg struct {
	group string
	pos   movement.Position
	err   error
}

type motionDoneMsg struct {
	status string
	err    error
}

// MovementTab hosts the movement group editor and carries its requests to
// the robot controller.
type MovementTab struct {
	*movement.Editor
	motion Motion
	logger *slog.Logger
	report func(status string, err error)
}

func newMovementTab(motion Motion, logger *slog.Logger) *MovementTab {
	t := &MovementTab{
		Editor: movement.NewEditor(movement.WithLogger(logger)),
		motion: motion,
		logger: logger,
	}
	t.OnSetCurrent(t.setCurrent)
	t.OnMoveTo(t.moveTo)
	t.OnExecuteTrajectory(t.execute)
	return t
}

func (t *MovementTab) notify(status string, err error) {
	if err != nil {
		t.logger.Error("movement request failed", "err", err)
	}
	if t.report != nil {
		t.report(status, err)
	}
}

func run(fn func(ctx context.Context) error, status string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), MotionTimeout)
		defer cancel()
		return motionDoneMsg{status: status, err: fn(ctx)}
	}
}

func (t *MovementTab) setCurrent(name string) tea.Cmd {
	motion := t.motion
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), MotionTimeout)
		defer cancel()
		pos, err := motion.CurrentPosition(ctx)
		return currentPositionMsg{group: name, pos: pos, err: err}
	}
}

// target returns the pose Move To should reach: the single position, or
// the selected trajectory point.
func (t *MovementTab) target(g *movement.GroupEditor) (movement.Position, error) {
	raw := g.Position()
	if g.Definition().Type == movement.MultiPosition {
		i := g.SelectedPoint()
		if i < 0 {
			return movement.Position{}, apperrors.NewValidationError(g.Name(), "select a point first")
		}
		raw = g.Points()[i]
	}
	return movement.ParsePosition(raw)
}

func (t *MovementTab) moveTo(name string) tea.Cmd {
	g := t.Group(name)
	if g == nil {
		return nil
	}
	pos, err := t.target(g)
	if err != nil {
		t.notify("", err)
		return nil
	}
	v := g.Values()
	motion := t.motion
	return run(func(ctx context.Context) error {
		return motion.MoveTo(ctx, name, pos, v.Velocity, v.Acceleration)
	}, fmt.Sprintf("Moved to %s", name))
}

func (t *MovementTab) execute(name string) tea.Cmd {
	g := t.Group(name)
	if g == nil {
		return nil
	}
	v := g.Values()
	points := make([]movement.Position, 0, len(v.Points))
	for i, raw := range v.Points {
		p, err := movement.ParsePosition(raw)
		if err != nil {
			t.notify("", fmt.Errorf("point %d: %w", i+1, err))
			return nil
		}
		points = append(points, p)
	}
	if len(points) == 0 {
		t.notify("", apperrors.NewValidationError(name, "trajectory has no points"))
		return nil
	}
	motion := t.motion
	return run(func(ctx context.Context) error {
		return motion.ExecuteTrajectory(ctx, name, points, v.Velocity, v.Acceleration, v.Iterations)
	}, fmt.Sprintf("Executed %s", name))
}

// Update implements form.RawWidget.
func (t *MovementTab) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case currentPositionMsg:
		if msg.err != nil {
			t.notify("", msg.err)
			return nil
		}
		g := t.Group(msg.group)
		if g == nil {
			return nil
		}
		if g.Definition().Type == movement.MultiPosition {
			g.AddPoint(msg.pos.String())
		} else {
			g.SetPosition(msg.pos.String())
		}
		t.notify(fmt.Sprintf("Captured position for %s", msg.group), nil)
		return nil
	case motionDoneMsg:
		t.notify(msg.status, msg.err)
		return nil
	}
	return t.Editor.Update(msg)
}
