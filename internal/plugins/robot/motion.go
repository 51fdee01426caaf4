package robot

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/dtg01100/touch-settings/internal/logging"
	"github.com/dtg01100/touch-settings/internal/movement"
)

// Motion is the robot controller as seen by the movement groups tab.
type Motion interface {
	// CurrentPosition reads the tool position.
	CurrentPosition(ctx context.Context) (movement.Position, error)
	// MoveTo moves to pos with the group's motion parameters.
	MoveTo(ctx context.Context, group string, pos movement.Position, velocity, acceleration int) error
	// ExecuteTrajectory runs points in order iterations times.
	ExecuteTrajectory(ctx context.Context, group string, points []movement.Position, velocity, acceleration, iterations int) error
}

// SimulatedMotion is a Motion that moves instantly and only logs. It is
// used when no controller is attached.
type SimulatedMotion struct {
	logger *slog.Logger

	mu      sync.Mutex
	current movement.Position
	moves   int
}

// NewSimulatedMotion returns a simulated controller resting at start.
func NewSimulatedMotion(start movement.Position, logger *slog.Logger) *SimulatedMotion {
	if logger == nil {
		logger = logging.Discard()
	}
	return &SimulatedMotion{logger: logger, current: start}
}

// CurrentPosition implements Motion.
func (m *SimulatedMotion) CurrentPosition(context.Context) (movement.Position, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.current, nil
}

// MoveTo implements Motion.
func (m *SimulatedMotion) MoveTo(ctx context.Context, group string, pos movement.Position, velocity, acceleration int) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if velocity <= 0 {
		return fmt.Errorf("%s: velocity must be positive", group)
	}
	m.mu.Lock()
	m.current = pos
	m.moves++
	m.mu.Unlock()
	m.logger.Info("move", "group", group, "position", pos.String(), "velocity", velocity, "acceleration", acceleration)
	return nil
}

// ExecuteTrajectory implements Motion.
func (m *SimulatedMotion) ExecuteTrajectory(ctx context.Context, group string, points []movement.Position, velocity, acceleration, iterations int) error {
	if len(points) == 0 {
		return fmt.Errorf("%s: trajectory has no points", group)
	}
	for i := 0; i < max(iterations, 1); i++ {
		for _, p := range points {
			if err := m.MoveTo(ctx, group, p, velocity, acceleration); err != nil {
				return err
			}
		}
	}
	return nil
}

// Moves returns the number of moves performed.
func (m *SimulatedMotion) Moves() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.moves
}
