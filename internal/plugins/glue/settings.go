// Package glue provides the glue dispensing settings domain and the
// catalogue of glue types.
package glue

import (
	"github.com/dtg01100/touch-settings/internal/schema"
)

// Settings is the glue dispensing record.
type Settings struct {
	SprayWidth     float64 `flat:"spray_width" yaml:"spray_width" json:"spray_width"`
	SprayingHeight float64 `flat:"spraying_height" yaml:"spraying_height" json:"spraying_height"`
	FanSpeed       float64 `flat:"fan_speed" yaml:"fan_speed" json:"fan_speed"`
	RzAngle        int     `flat:"rz_angle" yaml:"rz_angle" json:"rz_angle"`
	SprayOn        bool    `flat:"spray_on" yaml:"spray_on" json:"spray_on"`

	PumpSpeed        float64 `flat:"pump_speed" yaml:"pump_speed" json:"pump_speed"`
	PumpReverseTime  float64 `flat:"pump_reverse_time" yaml:"pump_reverse_time" json:"pump_reverse_time"`
	PumpSpeedReverse float64 `flat:"pump_speed_reverse" yaml:"pump_speed_reverse" json:"pump_speed_reverse"`

	GeneratorGlueDelay int     `flat:"generator_glue_delay" yaml:"generator_glue_delay" json:"generator_glue_delay"`
	GeneratorTimeout   float64 `flat:"generator_timeout" yaml:"generator_timeout" json:"generator_timeout"`
	GlueType           string  `flat:"glue_type" yaml:"glue_type" json:"glue_type"`

	TimeBeforeMotion    float64 `flat:"time_before_motion" yaml:"time_before_motion" json:"time_before_motion"`
	TimeBeforeStop      int     `flat:"time_before_stop" yaml:"time_before_stop" json:"time_before_stop"`
	ReachStartThreshold int     `flat:"reach_start_threshold" yaml:"reach_start_threshold" json:"reach_start_threshold"`
	ReachEndThreshold   int     `flat:"reach_end_threshold" yaml:"reach_end_threshold" json:"reach_end_threshold"`

	InitialRampSpeed         float64 `flat:"initial_ramp_speed" yaml:"initial_ramp_speed" json:"initial_ramp_speed"`
	ForwardRampSteps         int     `flat:"forward_ramp_steps" yaml:"forward_ramp_steps" json:"forward_ramp_steps"`
	ReverseRampSteps         int     `flat:"reverse_ramp_steps" yaml:"reverse_ramp_steps" json:"reverse_ramp_steps"`
	InitialRampSpeedDuration int     `flat:"initial_ramp_speed_duration" yaml:"initial_ramp_speed_duration" json:"initial_ramp_speed_duration"`
}

// Defaults returns the factory glue settings.
func Defaults() Settings {
	return Settings{
		SprayWidth:               8,
		SprayingHeight:           10,
		FanSpeed:                 50,
		RzAngle:                  0,
		PumpSpeed:                1000,
		PumpReverseTime:          1,
		PumpSpeedReverse:         1000,
		GeneratorGlueDelay:       1,
		GeneratorTimeout:         5,
		GlueType:                 BuiltinTypes[0],
		TimeBeforeMotion:         1,
		TimeBeforeStop:           1,
		ReachStartThreshold:      1,
		ReachEndThreshold:        1,
		InitialRampSpeed:         5000,
		ForwardRampSteps:         1,
		ReverseRampSteps:         1,
		InitialRampSpeedDuration: 1,
	}
}

func double(key, label string, def, max float64, suffix string, steps ...float64) schema.SettingField {
	return schema.NewField(key, label, schema.WidgetDoubleSpinBox,
		schema.WithDefault(def), schema.WithRange(0, max), schema.WithDecimals(1),
		schema.WithSuffix(suffix), schema.WithStep(steps[0]), schema.WithStepOptions(steps...))
}

func spin(key, label string, def, min, max float64, suffix string) schema.SettingField {
	return schema.NewField(key, label, schema.WidgetSpinBox,
		schema.WithDefault(def), schema.WithRange(min, max), schema.WithSuffix(suffix),
		schema.WithStep(1), schema.WithStepOptions(1, 5, 10))
}

// SprayGroup describes the spray head.
func SprayGroup() schema.SettingGroup {
	return schema.NewGroup("Spray Settings",
		double("spray_width", "Spray Width", 8, 100, " mm", 0.1, 1, 5),
		double("spraying_height", "Spraying Height", 10, 100, " mm", 0.1, 1, 5),
		double("fan_speed", "Fan Speed", 50, 100, " %", 1, 5, 10),
		spin("rz_angle", "RZ Angle", 0, -180, 180, " °"),
		schema.NewField("spray_on", "Spray On", schema.WidgetToggle, schema.WithDefault(false)),
	)
}

// PumpGroup describes the glue pump.
func PumpGroup() schema.SettingGroup {
	return schema.NewGroup("Pump Settings",
		double("pump_speed", "Pump Speed", 1000, 10000, " rpm", 10, 50, 100),
		double("pump_reverse_time", "Pump Reverse Time", 1, 60, " s", 0.1, 1, 5),
		double("pump_speed_reverse", "Pump Speed Reverse", 1000, 10000, " rpm", 10, 50, 100),
	)
}

// GeneratorGroup describes the generator. choices are the selectable glue
// type names.
func GeneratorGroup(choices []string) schema.SettingGroup {
	return schema.NewGroup("Generator Settings",
		spin("generator_glue_delay", "Generator-Glue Delay", 1, 0, 100, " ms"),
		double("generator_timeout", "Generator Timeout", 5, 60, " s", 0.1, 1, 5),
		schema.NewField("glue_type", "Glue Type", schema.WidgetCombo,
			schema.WithChoices(choices...), schema.WithDefault(BuiltinTypes[0])),
	)
}

// TimingGroup describes motion timing.
func TimingGroup() schema.SettingGroup {
	return schema.NewGroup("Timing Settings",
		double("time_before_motion", "Time Before Motion", 1, 60, " s", 0.1, 1, 5),
		spin("time_before_stop", "Time Before Stop", 1, 0, 100, " s"),
		spin("reach_start_threshold", "Reach Start Threshold", 1, 0, 100, ""),
		spin("reach_end_threshold", "Reach End Threshold", 1, 0, 100, ""),
	)
}

// RampGroup describes the pump ramp.
func RampGroup() schema.SettingGroup {
	return schema.NewGroup("Ramp Settings",
		double("initial_ramp_speed", "Initial Ramp Speed", 5000, 10000, " rpm", 100, 500, 1000),
		spin("forward_ramp_steps", "Forward Ramp Steps", 1, 0, 100, ""),
		spin("reverse_ramp_steps", "Reverse Ramp Steps", 1, 0, 100, ""),
		spin("initial_ramp_speed_duration", "Initial Ramp Speed Duration", 1, 0, 100, " ms"),
	)
}

// Tabs returns the glue form layout with the built-in glue types offered.
func Tabs() []schema.Tab {
	return []schema.Tab{
		{Title: "General", Groups: []schema.SettingGroup{SprayGroup(), PumpGroup(), GeneratorGroup(TypeNames(nil))}},
		{Title: "Timing", Groups: []schema.SettingGroup{TimingGroup(), RampGroup()}},
	}
}
