// Package movement edits named robot motion groups: velocity and
// acceleration, an optional iteration count, and either one 6-DOF
// position or an ordered list of trajectory points.
//
// The editor never moves the robot. Set Current, Move To and Execute
// Trajectory are forwarded to registered handlers as bare requests.
package movement

import (
	"fmt"
	"sort"
)

// GroupType selects which controls a movement group gets.
type GroupType int

const (
	// SinglePosition groups hold one position.
	SinglePosition GroupType = iota + 1
	// MultiPosition groups hold an ordered list of points.
	MultiPosition
	// VelocityOnly groups hold only velocity and acceleration.
	VelocityOnly
)

var groupTypeTags = map[GroupType]string{
	SinglePosition: "single_position",
	MultiPosition:  "multi_position",
	VelocityOnly:   "velocity_only",
}

// String returns the type tag.
func (t GroupType) String() string {
	if s, ok := groupTypeTags[t]; ok {
		return s
	}
	return fmt.Sprintf("GroupType(%d)", int(t))
}

// Definition describes the controls of one named group.
type Definition struct {
	Name                   string
	Type                   GroupType
	HasIterations          bool
	HasTrajectoryExecution bool
}

// DefaultDefinitions returns the known movement groups in display order.
func DefaultDefinitions() []Definition {
	return []Definition{
		{Name: "LOGIN_POS", Type: SinglePosition},
		{Name: "HOME_POS", Type: SinglePosition},
		{Name: "CALIBRATION_POS", Type: SinglePosition},
		{Name: "JOG", Type: VelocityOnly},
		{Name: "NOZZLE CLEAN", Type: MultiPosition, HasIterations: true, HasTrajectoryExecution: true},
		{Name: "TOOL CHANGER", Type: MultiPosition, HasTrajectoryExecution: true},
		{Name: "SLOT 0 PICKUP", Type: MultiPosition, HasTrajectoryExecution: true},
		{Name: "SLOT 0 DROPOFF", Type: MultiPosition, HasTrajectoryExecution: true},
		{Name: "SLOT 1 PICKUP", Type: MultiPosition, HasTrajectoryExecution: true},
		{Name: "SLOT 1 DROPOFF", Type: MultiPosition, HasTrajectoryExecution: true},
		{Name: "SLOT 4 PICKUP", Type: MultiPosition, HasTrajectoryExecution: true},
		{Name: "SLOT 4 DROPOFF", Type: MultiPosition, HasTrajectoryExecution: true},
	}
}

// InferDefinition derives a definition from the shape of a group that has
// no registered definition.
func InferDefinition(name string, g MovementGroup) Definition {
	switch {
	case g.Position != nil:
		return Definition{Name: name, Type: SinglePosition}
	case len(g.Points) > 0:
		return Definition{Name: name, Type: MultiPosition}
	default:
		return Definition{Name: name, Type: VelocityOnly}
	}
}

// MovementGroup is the runtime value of one group.
type MovementGroup struct {
	Velocity     int      `json:"velocity" yaml:"velocity" mapstructure:"velocity"`
	Acceleration int      `json:"acceleration" yaml:"acceleration" mapstructure:"acceleration"`
	Iterations   int      `json:"iterations" yaml:"iterations" mapstructure:"iterations"`
	Position     *string  `json:"position,omitempty" yaml:"position,omitempty" mapstructure:"position"`
	Points       []string `json:"points" yaml:"points" mapstructure:"points"`
}

// Clone returns a deep copy of g.
func (g MovementGroup) Clone() MovementGroup {
	out := g
	if g.Position != nil {
		p := *g.Position
		out.Position = &p
	}
	out.Points = append([]string{}, g.Points...)
	return out
}

// StringPtr returns a pointer to s.
func StringPtr(s string) *string {
	return &s
}

// SortNames orders group names by their index in defs, then by name.
// Names without a definition sort after all defined ones.
func SortNames(names []string, defs []Definition) {
	index := make(map[string]int, len(defs))
	for i, d := range defs {
		index[d.Name] = i
	}
	rank := func(n string) int {
		if i, ok := index[n]; ok {
			return i
		}
		return len(defs)
	}
	sort.SliceStable(names, func(a, b int) bool {
		ra, rb := rank(names[a]), rank(names[b])
		if ra != rb {
			return ra < rb
		}
		return names[a] < names[b]
	})
}
