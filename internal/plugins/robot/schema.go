package robot

import (
	"github.com/dtg01100/touch-settings/internal/schema"
)

var directionChoices = []string{"True", "False"}

func spin(key, label string, def, lo, hi float64, suffix string, steps ...float64) schema.SettingField {
	return schema.NewField(key, label, schema.WidgetSpinBox,
		schema.WithDefault(def), schema.WithRange(lo, hi), schema.WithSuffix(suffix),
		schema.WithStep(1), schema.WithStepOptions(steps...))
}

func double(key, label string, def, lo, hi float64, decimals int, suffix string, steps ...float64) schema.SettingField {
	return schema.NewField(key, label, schema.WidgetDoubleSpinBox,
		schema.WithDefault(def), schema.WithRange(lo, hi), schema.WithDecimals(decimals),
		schema.WithSuffix(suffix), schema.WithStep(steps[0]), schema.WithStepOptions(steps...))
}

func direction(key, label string) schema.SettingField {
	return schema.NewField(key, label, schema.WidgetCombo,
		schema.WithChoices(directionChoices...), schema.WithDefault("True"))
}

// InfoGroup identifies the controller and the tool.
func InfoGroup() schema.SettingGroup {
	return schema.NewGroup("Robot Information",
		schema.NewField("robot_ip", "IP Address", schema.WidgetLineEdit, schema.WithDefault("192.168.58.2")),
		spin("robot_tool", "Tool Number", 0, 0, 10, "", 1),
		spin("robot_user", "User Number", 0, 0, 10, "", 1),
		double("tcp_x_offset", "TCP X Offset", 0, -1000, 1000, 3, " mm", 0.001, 0.01, 0.1, 1),
		double("tcp_y_offset", "TCP Y Offset", 0, -1000, 1000, 3, " mm", 0.001, 0.01, 0.1, 1),
	)
}

// GlobalMotionGroup holds the global motion limits.
func GlobalMotionGroup() schema.SettingGroup {
	return schema.NewGroup("Global Motion Settings",
		spin("global_velocity", "Global Velocity", 100, 1, 1000, " mm/s", 1, 5, 10, 50),
		spin("global_acceleration", "Global Acceleration", 100, 1, 1000, " mm/s²", 1, 5, 10, 50),
		spin("emergency_decel", "Emergency Deceleration", 500, 1, 1000, " mm/s²", 1, 5, 10, 50),
		spin("max_jog_step", "Max Jog Step", 50, 1, 100, " mm", 1, 5, 10),
	)
}

// TCPStepGroup holds the jog step sizes.
func TCPStepGroup() schema.SettingGroup {
	return schema.NewGroup("TCP Step Settings",
		double("tcp_x_step_distance", "X Step Distance", 50, 0, 200, 1, " mm", 0.1, 1, 5, 10),
		double("tcp_x_step_offset", "X Step Offset", 0.1, 0, 10, 3, "", 0.001, 0.01, 0.1),
		double("tcp_y_step_distance", "Y Step Distance", 50, 0, 200, 1, " mm", 0.1, 1, 5, 10),
		double("tcp_y_step_offset", "Y Step Offset", 0.1, 0, 10, 3, "", 0.001, 0.01, 0.1),
	)
}

// OffsetDirectionGroup maps jog directions to offsets.
func OffsetDirectionGroup() schema.SettingGroup {
	return schema.NewGroup("Offset Direction Map",
		direction("offset_pos_x", "+X Direction"),
		direction("offset_neg_x", "-X Direction"),
		direction("offset_pos_y", "+Y Direction"),
		direction("offset_neg_y", "-Y Direction"),
	)
}

// AdaptiveGroup tunes the adaptive calibration moves.
func AdaptiveGroup() schema.SettingGroup {
	return schema.NewGroup("Adaptive Movement",
		double("calib_min_step_mm", "Min Step", 0.1, 0, 10, 2, " mm", 0.01, 0.1, 1),
		double("calib_max_step_mm", "Max Step", 25, 0, 100, 1, " mm", 0.1, 1, 5),
		double("calib_target_error_mm", "Target Error", 0.25, 0, 10, 2, " mm", 0.01, 0.1, 1),
		double("calib_max_error_ref", "Max Error Reference", 100, 0, 1000, 1, " mm", 1, 5, 10, 50),
		double("calib_k", "Responsiveness (k)", 2, 0.1, 10, 1, "", 0.1, 0.5, 1),
		double("calib_derivative_scaling", "Derivative Scaling", 0.5, 0, 2, 2, "", 0.01, 0.1, 0.5),
	)
}

// MarkerGroup configures marker detection during calibration.
func MarkerGroup() schema.SettingGroup {
	return schema.NewGroup("Marker Detection",
		spin("calib_z_target", "Z Target Height", 300, 0, 1000, " mm", 1, 10, 50),
		schema.NewField("calib_required_ids", "Required IDs", schema.WidgetIntList,
			schema.WithRange(0, 255), schema.WithDefault("0,1,2,3,4,5,6,8")),
	)
}

// SafetyGroup bounds the workspace.
func SafetyGroup() schema.SettingGroup {
	mm := []float64{1, 10, 50, 100}
	deg := []float64{1, 5, 10}
	return schema.NewGroup("Safety Limits",
		spin("safety_x_min", "X Min", -500, -1000, 1000, " mm", mm...),
		spin("safety_x_max", "X Max", 500, -1000, 1000, " mm", mm...),
		spin("safety_y_min", "Y Min", -500, -1000, 1000, " mm", mm...),
		spin("safety_y_max", "Y Max", 500, -1000, 1000, " mm", mm...),
		spin("safety_z_min", "Z Min", 100, 0, 1000, " mm", mm...),
		spin("safety_z_max", "Z Max", 800, 0, 1000, " mm", mm...),
		spin("safety_rx_min", "RX Min", 170, -180, 180, " °", deg...),
		spin("safety_rx_max", "RX Max", 180, -180, 180, " °", deg...),
		spin("safety_ry_min", "RY Min", -10, -180, 180, " °", deg...),
		spin("safety_ry_max", "RY Max", 10, -180, 180, " °", deg...),
		spin("safety_rz_min", "RZ Min", -180, -180, 180, " °", deg...),
		spin("safety_rz_max", "RZ Max", 180, -180, 180, " °", deg...),
	)
}

// Tabs returns the schema tabs of the robot form. The movement groups tab
// sits between Safety and Calibration.
func Tabs() []schema.Tab {
	return []schema.Tab{
		{Title: "General", Groups: []schema.SettingGroup{InfoGroup(), GlobalMotionGroup(), TCPStepGroup(), OffsetDirectionGroup()}},
		{Title: "Safety", Groups: []schema.SettingGroup{SafetyGroup()}},
		{Title: "Calibration", Groups: []schema.SettingGroup{AdaptiveGroup(), MarkerGroup()}},
	}
}
