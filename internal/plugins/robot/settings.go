// Package robot provides the robot configuration and calibration settings
// domain together with its movement groups.
package robot

import (
	"github.com/dtg01100/touch-settings/internal/movement"
)

// Direction is a jog offset direction flag. Forms show it as "True" or
// "False".
type Direction bool

// String returns "True" or "False".
func (d Direction) String() string {
	if d {
		return "True"
	}
	return "False"
}

// GlobalMotion holds the global motion limits.
type GlobalMotion struct {
	GlobalVelocity     int `flat:"global_velocity" yaml:"global_velocity" json:"global_velocity"`
	GlobalAcceleration int `flat:"global_acceleration" yaml:"global_acceleration" json:"global_acceleration"`
	EmergencyDecel     int `flat:"emergency_decel" yaml:"emergency_decel" json:"emergency_decel"`
	MaxJogStep         int `flat:"max_jog_step" yaml:"max_jog_step" json:"max_jog_step"`
}

// OffsetDirection maps each jog direction to whether the offset applies.
type OffsetDirection struct {
	PosX Direction `flat:"offset_pos_x" yaml:"pos_x" json:"pos_x"`
	NegX Direction `flat:"offset_neg_x" yaml:"neg_x" json:"neg_x"`
	PosY Direction `flat:"offset_pos_y" yaml:"pos_y" json:"pos_y"`
	NegY Direction `flat:"offset_neg_y" yaml:"neg_y" json:"neg_y"`
}

// SafetyLimits bounds the workspace in millimetres and degrees.
type SafetyLimits struct {
	XMin  int `flat:"safety_x_min" yaml:"x_min" json:"x_min"`
	XMax  int `flat:"safety_x_max" yaml:"x_max" json:"x_max"`
	YMin  int `flat:"safety_y_min" yaml:"y_min" json:"y_min"`
	YMax  int `flat:"safety_y_max" yaml:"y_max" json:"y_max"`
	ZMin  int `flat:"safety_z_min" yaml:"z_min" json:"z_min"`
	ZMax  int `flat:"safety_z_max" yaml:"z_max" json:"z_max"`
	RxMin int `flat:"safety_rx_min" yaml:"rx_min" json:"rx_min"`
	RxMax int `flat:"safety_rx_max" yaml:"rx_max" json:"rx_max"`
	RyMin int `flat:"safety_ry_min" yaml:"ry_min" json:"ry_min"`
	RyMax int `flat:"safety_ry_max" yaml:"ry_max" json:"ry_max"`
	RzMin int `flat:"safety_rz_min" yaml:"rz_min" json:"rz_min"`
	RzMax int `flat:"safety_rz_max" yaml:"rz_max" json:"rz_max"`
}

// Config is the persisted robot configuration.
type Config struct {
	RobotIP    string  `flat:"robot_ip" yaml:"robot_ip" json:"robot_ip"`
	RobotTool  int     `flat:"robot_tool" yaml:"robot_tool" json:"robot_tool"`
	RobotUser  int     `flat:"robot_user" yaml:"robot_user" json:"robot_user"`
	TCPXOffset float64 `flat:"tcp_x_offset" yaml:"tcp_x_offset" json:"tcp_x_offset"`
	TCPYOffset float64 `flat:"tcp_y_offset" yaml:"tcp_y_offset" json:"tcp_y_offset"`

	TCPXStepDistance float64 `flat:"tcp_x_step_distance" yaml:"tcp_x_step_distance" json:"tcp_x_step_distance"`
	TCPXStepOffset   float64 `flat:"tcp_x_step_offset" yaml:"tcp_x_step_offset" json:"tcp_x_step_offset"`
	TCPYStepDistance float64 `flat:"tcp_y_step_distance" yaml:"tcp_y_step_distance" json:"tcp_y_step_distance"`
	TCPYStepOffset   float64 `flat:"tcp_y_step_offset" yaml:"tcp_y_step_offset" json:"tcp_y_step_offset"`

	GlobalMotion    `flat:",squash" yaml:"global_motion_settings" json:"global_motion_settings"`
	OffsetDirection `flat:",squash" yaml:"offset_direction_map" json:"offset_direction_map"`
	SafetyLimits    `flat:",squash" yaml:"safety_limits" json:"safety_limits"`

	MovementGroups map[string]movement.MovementGroup `flat:"-" yaml:"movement_groups" json:"movement_groups"`
}

// Calibration holds the camera to robot calibration parameters.
type Calibration struct {
	MinStepMM         float64 `flat:"calib_min_step_mm" yaml:"min_step_mm" json:"min_step_mm"`
	MaxStepMM         float64 `flat:"calib_max_step_mm" yaml:"max_step_mm" json:"max_step_mm"`
	TargetErrorMM     float64 `flat:"calib_target_error_mm" yaml:"target_error_mm" json:"target_error_mm"`
	MaxErrorRef       float64 `flat:"calib_max_error_ref" yaml:"max_error_ref" json:"max_error_ref"`
	K                 float64 `flat:"calib_k" yaml:"k" json:"k"`
	DerivativeScaling float64 `flat:"calib_derivative_scaling" yaml:"derivative_scaling" json:"derivative_scaling"`
	ZTarget           int     `flat:"calib_z_target" yaml:"z_target" json:"z_target"`
	RequiredIDs       []int   `flat:"calib_required_ids" yaml:"required_ids" json:"required_ids"`
}

// Settings is what the robot form edits: the configuration and the
// calibration, persisted separately.
type Settings struct {
	Config      `flat:",squash" yaml:"config" json:"config"`
	Calibration `flat:",squash" yaml:"calibration" json:"calibration"`
}

// DefaultMovementGroups returns one group per known definition.
func DefaultMovementGroups() map[string]movement.MovementGroup {
	groups := make(map[string]movement.MovementGroup)
	for _, def := range movement.DefaultDefinitions() {
		g := movement.MovementGroup{Velocity: 100, Acceleration: 100, Points: []string{}}
		if def.HasIterations {
			g.Iterations = 1
		}
		groups[def.Name] = g
	}
	return groups
}

// DefaultConfig returns the factory robot configuration.
func DefaultConfig() Config {
	return Config{
		RobotIP:          "192.168.58.2",
		TCPXStepDistance: 50,
		TCPXStepOffset:   0.1,
		TCPYStepDistance: 50,
		TCPYStepOffset:   0.1,
		GlobalMotion: GlobalMotion{
			GlobalVelocity:     100,
			GlobalAcceleration: 100,
			EmergencyDecel:     500,
			MaxJogStep:         50,
		},
		OffsetDirection: OffsetDirection{PosX: true, NegX: true, PosY: true, NegY: true},
		SafetyLimits: SafetyLimits{
			XMin: -500, XMax: 500,
			YMin: -500, YMax: 500,
			ZMin: 100, ZMax: 800,
			RxMin: 170, RxMax: 180,
			RyMin: -10, RyMax: 10,
			RzMin: -180, RzMax: 180,
		},
		MovementGroups: DefaultMovementGroups(),
	}
}

// DefaultCalibration returns the factory calibration parameters.
func DefaultCalibration() Calibration {
	return Calibration{
		MinStepMM:         0.1,
		MaxStepMM:         25,
		TargetErrorMM:     0.25,
		MaxErrorRef:       100,
		K:                 2,
		DerivativeScaling: 0.5,
		ZTarget:           300,
		RequiredIDs:       []int{0, 1, 2, 3, 4, 5, 6, 8},
	}
}

// Defaults returns the factory robot settings.
func Defaults() Settings {
	return Settings{Config: DefaultConfig(), Calibration: DefaultCalibration()}
}
