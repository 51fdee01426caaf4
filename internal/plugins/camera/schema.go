package camera

import (
	"github.com/dtg01100/touch-settings/internal/schema"
)

// ThresholdTypes are the binarisation modes offered for preprocessing.
var ThresholdTypes = []string{"binary", "binary_inv", "trunc", "tozero", "tozero_inv"}

// ArucoDictionaries are the marker dictionaries offered for detection.
var ArucoDictionaries = []string{
	"DICT_4X4_50", "DICT_4X4_100", "DICT_4X4_250", "DICT_4X4_1000",
	"DICT_5X5_50", "DICT_5X5_100", "DICT_5X5_250", "DICT_5X5_1000",
	"DICT_6X6_50", "DICT_6X6_100", "DICT_6X6_250", "DICT_6X6_1000",
	"DICT_ARUCO_ORIGINAL",
}

func spin(key, label string, def, lo, hi float64, suffix string, steps ...float64) schema.SettingField {
	opts := []schema.FieldOption{schema.WithDefault(def), schema.WithRange(lo, hi), schema.WithSuffix(suffix)}
	if len(steps) > 0 {
		opts = append(opts, schema.WithStep(steps[0]), schema.WithStepOptions(steps...))
	}
	return schema.NewField(key, label, schema.WidgetSpinBox, opts...)
}

func double(key, label string, def, lo, hi float64, decimals int, suffix string, steps ...float64) schema.SettingField {
	opts := []schema.FieldOption{
		schema.WithDefault(def), schema.WithRange(lo, hi),
		schema.WithDecimals(decimals), schema.WithSuffix(suffix),
	}
	if len(steps) > 0 {
		opts = append(opts, schema.WithStep(steps[0]), schema.WithStepOptions(steps...))
	}
	return schema.NewField(key, label, schema.WidgetDoubleSpinBox, opts...)
}

func toggle(key, label string, def bool) schema.SettingField {
	return schema.NewField(key, label, schema.WidgetToggle, schema.WithDefault(def))
}

// CoreGroup describes the capture device.
func CoreGroup() schema.SettingGroup {
	return schema.NewGroup("Camera",
		spin("index", "Camera Index", 0, 0, 10, "", 1),
		spin("width", "Width", 1280, 160, 4096, " px", 1, 10, 100),
		spin("height", "Height", 720, 120, 2160, " px", 1, 10, 100),
		spin("skip_frames", "Skip Frames", 30, 0, 300, "", 1, 5, 10),
		spin("capture_position_offset", "Capture Position Offset", -4, -100, 100, " mm", 1, 5, 10),
	)
}

// ContourGroup describes contour detection.
func ContourGroup() schema.SettingGroup {
	return schema.NewGroup("Contour Detection",
		toggle("contour_detection", "Contour Detection", true),
		toggle("draw_contours", "Draw Contours", true),
		spin("threshold", "Threshold", 150, 0, 255, "", 1, 5, 10),
		spin("threshold_pickup_area", "Threshold Pickup Area", 200, 0, 255, "", 1, 5, 10),
		double("epsilon", "Epsilon", 0.05, 0, 1, 3, "", 0.001, 0.01, 0.1),
		double("min_contour_area", "Min Contour Area", 1000, 0, 100_000_000, 1, " px²", 100, 1000, 10_000),
		double("max_contour_area", "Max Contour Area", 10_000_000, 0, 100_000_000, 1, " px²", 10_000, 100_000, 1_000_000),
	)
}

// PreprocessingGroup describes the filters applied before detection.
func PreprocessingGroup() schema.SettingGroup {
	return schema.NewGroup("Preprocessing",
		toggle("gaussian_blur", "Gaussian Blur", true),
		spin("blur_kernel_size", "Blur Kernel Size", 3, 1, 31, "", 2),
		schema.NewField("threshold_type", "Threshold Type", schema.WidgetCombo,
			schema.WithChoices(ThresholdTypes...), schema.WithDefault("binary_inv")),
		toggle("dilate_enabled", "Dilate", true),
		spin("dilate_kernel_size", "Dilate Kernel Size", 3, 1, 31, "", 2),
		spin("dilate_iterations", "Dilate Iterations", 2, 0, 20, "", 1),
		toggle("erode_enabled", "Erode", true),
		spin("erode_kernel_size", "Erode Kernel Size", 3, 1, 31, "", 2),
		spin("erode_iterations", "Erode Iterations", 4, 0, 20, "", 1),
	)
}

// CalibrationGroup describes chessboard calibration.
func CalibrationGroup() schema.SettingGroup {
	return schema.NewGroup("Calibration",
		spin("chessboard_width", "Chessboard Width", 32, 2, 100, "", 1),
		spin("chessboard_height", "Chessboard Height", 20, 2, 100, "", 1),
		double("square_size_mm", "Square Size", 25, 1, 500, 1, " mm", 0.1, 1, 5),
		spin("calibration_skip_frames", "Skip Frames", 30, 0, 300, "", 1, 5, 10),
	)
}

// BrightnessGroup describes the brightness controller.
func BrightnessGroup() schema.SettingGroup {
	return schema.NewGroup("Brightness Control",
		toggle("brightness_auto", "Auto Adjust", true),
		double("brightness_kp", "Kp", 0, 0, 10, 3, "", 0.001, 0.01, 0.1),
		double("brightness_ki", "Ki", 0.2, 0, 10, 3, "", 0.001, 0.01, 0.1),
		double("brightness_kd", "Kd", 0.05, 0, 10, 3, "", 0.001, 0.01, 0.1),
		double("target_brightness", "Target Brightness", 200, 0, 255, 1, "", 1, 5, 10),
	)
}

// ArucoGroup describes marker detection.
func ArucoGroup() schema.SettingGroup {
	return schema.NewGroup("ArUco",
		toggle("aruco_enabled", "Enable Detection", false),
		schema.NewField("aruco_dictionary", "Dictionary", schema.WidgetCombo,
			schema.WithChoices(ArucoDictionaries...), schema.WithDefault("DICT_4X4_1000")),
		toggle("aruco_flip_image", "Flip Image", false),
	)
}

// Tabs returns the camera form layout.
func Tabs() []schema.Tab {
	return []schema.Tab{
		{Title: "Core", Groups: []schema.SettingGroup{CoreGroup()}},
		{Title: "Detection", Groups: []schema.SettingGroup{ContourGroup(), PreprocessingGroup()}},
		{Title: "Calibration", Groups: []schema.SettingGroup{CalibrationGroup()}},
		{Title: "Brightness", Groups: []schema.SettingGroup{BrightnessGroup()}},
		{Title: "ArUco", Groups: []schema.SettingGroup{ArucoGroup()}},
	}
}
