// Package camera provides the camera vision settings domain.
package camera

import (
	"encoding/json"
	"fmt"
)

// Core holds capture device parameters.
type Core struct {
	Index                 int `flat:"index" yaml:"index"`
	Width                 int `flat:"width" yaml:"width"`
	Height                int `flat:"height" yaml:"height"`
	SkipFrames            int `flat:"skip_frames" yaml:"skip_frames"`
	CapturePositionOffset int `flat:"capture_position_offset" yaml:"capture_position_offset"`
}

// Contour holds contour detection parameters.
type Contour struct {
	ContourDetection    bool    `flat:"contour_detection" yaml:"contour_detection"`
	DrawContours        bool    `flat:"draw_contours" yaml:"draw_contours"`
	Threshold           int     `flat:"threshold" yaml:"threshold"`
	ThresholdPickupArea int     `flat:"threshold_pickup_area" yaml:"threshold_pickup_area"`
	Epsilon             float64 `flat:"epsilon" yaml:"epsilon"`
	MinContourArea      float64 `flat:"min_contour_area" yaml:"min_contour_area"`
	MaxContourArea      float64 `flat:"max_contour_area" yaml:"max_contour_area"`
}

// Preprocessing holds image filters applied before detection.
type Preprocessing struct {
	GaussianBlur     bool   `flat:"gaussian_blur" yaml:"gaussian_blur"`
	BlurKernelSize   int    `flat:"blur_kernel_size" yaml:"blur_kernel_size"`
	ThresholdType    string `flat:"threshold_type" yaml:"threshold_type"`
	DilateEnabled    bool   `flat:"dilate_enabled" yaml:"dilate_enabled"`
	DilateKernelSize int    `flat:"dilate_kernel_size" yaml:"dilate_kernel_size"`
	DilateIterations int    `flat:"dilate_iterations" yaml:"dilate_iterations"`
	ErodeEnabled     bool   `flat:"erode_enabled" yaml:"erode_enabled"`
	ErodeKernelSize  int    `flat:"erode_kernel_size" yaml:"erode_kernel_size"`
	ErodeIterations  int    `flat:"erode_iterations" yaml:"erode_iterations"`
}

// Calibration holds chessboard calibration parameters.
type Calibration struct {
	ChessboardWidth       int     `flat:"chessboard_width" yaml:"chessboard_width"`
	ChessboardHeight      int     `flat:"chessboard_height" yaml:"chessboard_height"`
	SquareSizeMM          float64 `flat:"square_size_mm" yaml:"square_size_mm"`
	CalibrationSkipFrames int     `flat:"calibration_skip_frames" yaml:"calibration_skip_frames"`
}

// Point is a pixel coordinate.
type Point [2]int

// Brightness holds the automatic brightness controller.
type Brightness struct {
	BrightnessAuto   bool    `flat:"brightness_auto" yaml:"brightness_auto"`
	BrightnessKp     float64 `flat:"brightness_kp" yaml:"brightness_kp"`
	BrightnessKi     float64 `flat:"brightness_ki" yaml:"brightness_ki"`
	BrightnessKd     float64 `flat:"brightness_kd" yaml:"brightness_kd"`
	TargetBrightness float64 `flat:"target_brightness" yaml:"target_brightness"`
	// AreaPoints are the corners of the measured area. They are edited on
	// the camera preview, not in the form.
	AreaPoints []Point `flat:"-" yaml:"brightness_area_points"`
}

// Aruco holds marker detection parameters.
type Aruco struct {
	ArucoEnabled    bool   `flat:"aruco_enabled" yaml:"aruco_enabled"`
	ArucoDictionary string `flat:"aruco_dictionary" yaml:"aruco_dictionary"`
	ArucoFlipImage  bool   `flat:"aruco_flip_image" yaml:"aruco_flip_image"`
}

// Settings is the camera settings record.
type Settings struct {
	Core          `flat:",squash" yaml:"core"`
	Contour       `flat:",squash" yaml:"contour"`
	Preprocessing `flat:",squash" yaml:"preprocessing"`
	Calibration   `flat:",squash" yaml:"calibration"`
	Brightness    `flat:",squash" yaml:"brightness"`
	Aruco         `flat:",squash" yaml:"aruco"`
}

// MaxAreaPoints is the number of brightness area corners persisted.
const MaxAreaPoints = 4

// Defaults returns the factory camera settings.
func Defaults() Settings {
	return Settings{
		Core: Core{Index: 0, Width: 1280, Height: 720, SkipFrames: 30, CapturePositionOffset: -4},
		Contour: Contour{
			ContourDetection: true, DrawContours: true,
			Threshold: 150, ThresholdPickupArea: 200,
			Epsilon: 0.05, MinContourArea: 1000, MaxContourArea: 10_000_000,
		},
		Preprocessing: Preprocessing{
			GaussianBlur: true, BlurKernelSize: 3, ThresholdType: "binary_inv",
			DilateEnabled: true, DilateKernelSize: 3, DilateIterations: 2,
			ErodeEnabled: true, ErodeKernelSize: 3, ErodeIterations: 4,
		},
		Calibration: Calibration{ChessboardWidth: 32, ChessboardHeight: 20, SquareSizeMM: 25, CalibrationSkipFrames: 30},
		Brightness: Brightness{
			BrightnessAuto: true, BrightnessKp: 0, BrightnessKi: 0.2, BrightnessKd: 0.05,
			TargetBrightness: 200, AreaPoints: []Point{},
		},
		Aruco: Aruco{ArucoEnabled: false, ArucoDictionary: "DICT_4X4_1000", ArucoFlipImage: false},
	}
}

// The persisted camera document groups settings under human-readable
// section and key names.
type document struct {
	Index                 *int     `json:"Index,omitempty"`
	Width                 *int     `json:"Width,omitempty"`
	Height                *int     `json:"Height,omitempty"`
	SkipFrames            *int     `json:"Skip frames,omitempty"`
	CapturePositionOffset *int     `json:"Capture position offset,omitempty"`
	ContourDetection      *bool    `json:"Contour detection,omitempty"`
	DrawContours          *bool    `json:"Draw contours,omitempty"`
	Threshold             *int     `json:"Threshold,omitempty"`
	ThresholdPickupArea   *int     `json:"Threshold pickup area,omitempty"`
	Epsilon               *float64 `json:"Epsilon,omitempty"`
	MinContourArea        *float64 `json:"Min contour area,omitempty"`
	MaxContourArea        *float64 `json:"Max contour area,omitempty"`

	Preprocessing *preprocessingDoc `json:"Preprocessing,omitempty"`
	Calibration   *calibrationDoc   `json:"Calibration,omitempty"`
	Brightness    map[string]any    `json:"Brightness Control,omitempty"`
	Aruco         *arucoDoc         `json:"Aruco,omitempty"`
}

type preprocessingDoc struct {
	GaussianBlur     *bool   `json:"Gaussian blur,omitempty"`
	BlurKernelSize   *int    `json:"Blur kernel size,omitempty"`
	ThresholdType    *string `json:"Threshold type,omitempty"`
	DilateEnabled    *bool   `json:"Dilate enabled,omitempty"`
	DilateKernelSize *int    `json:"Dilate kernel size,omitempty"`
	DilateIterations *int    `json:"Dilate iterations,omitempty"`
	ErodeEnabled     *bool   `json:"Erode enabled,omitempty"`
	ErodeKernelSize  *int    `json:"Erode kernel size,omitempty"`
	ErodeIterations  *int    `json:"Erode iterations,omitempty"`
}

type calibrationDoc struct {
	ChessboardWidth  *int     `json:"Chessboard width,omitempty"`
	ChessboardHeight *int     `json:"Chessboard height,omitempty"`
	SquareSizeMM     *float64 `json:"Square size (mm),omitempty"`
	SkipFrames       *int     `json:"Skip frames,omitempty"`
}

type arucoDoc struct {
	Enabled    *bool   `json:"Enable detection,omitempty"`
	Dictionary *string `json:"Dictionary,omitempty"`
	FlipImage  *bool   `json:"Flip image,omitempty"`
}

func areaPointKey(i int) string {
	return fmt.Sprintf("Brightness area point %d", i)
}

// MarshalJSON writes the nested camera document.
func (s Settings) MarshalJSON() ([]byte, error) {
	bri := map[string]any{
		"Enable auto adjust": s.BrightnessAuto,
		"Kp":                 s.BrightnessKp,
		"Ki":                 s.BrightnessKi,
		"Kd":                 s.BrightnessKd,
		"Target brightness":  s.TargetBrightness,
	}
	for i, p := range s.AreaPoints {
		if i == MaxAreaPoints {
			break
		}
		bri[areaPointKey(i+1)] = []int{p[0], p[1]}
	}
	doc := document{
		Index: &s.Index, Width: &s.Width, Height: &s.Height,
		SkipFrames: &s.SkipFrames, CapturePositionOffset: &s.CapturePositionOffset,
		ContourDetection: &s.ContourDetection, DrawContours: &s.DrawContours,
		Threshold: &s.Threshold, ThresholdPickupArea: &s.ThresholdPickupArea,
		Epsilon: &s.Epsilon, MinContourArea: &s.MinContourArea, MaxContourArea: &s.MaxContourArea,
		Preprocessing: &preprocessingDoc{
			GaussianBlur: &s.GaussianBlur, BlurKernelSize: &s.BlurKernelSize, ThresholdType: &s.ThresholdType,
			DilateEnabled: &s.DilateEnabled, DilateKernelSize: &s.DilateKernelSize, DilateIterations: &s.DilateIterations,
			ErodeEnabled: &s.ErodeEnabled, ErodeKernelSize: &s.ErodeKernelSize, ErodeIterations: &s.ErodeIterations,
		},
		Calibration: &calibrationDoc{
			ChessboardWidth: &s.ChessboardWidth, ChessboardHeight: &s.ChessboardHeight,
			SquareSizeMM: &s.SquareSizeMM, SkipFrames: &s.CalibrationSkipFrames,
		},
		Brightness: bri,
		Aruco:      &arucoDoc{Enabled: &s.ArucoEnabled, Dictionary: &s.ArucoDictionary, FlipImage: &s.ArucoFlipImage},
	}
	return json.Marshal(doc)
}

// UnmarshalJSON reads the nested camera document. Missing keys take their
// default value.
func (s *Settings) UnmarshalJSON(data []byte) error {
	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return err
	}
	out := Defaults()
	set(&out.Index, doc.Index)
	set(&out.Width, doc.Width)
	set(&out.Height, doc.Height)
	set(&out.SkipFrames, doc.SkipFrames)
	set(&out.CapturePositionOffset, doc.CapturePositionOffset)
	set(&out.ContourDetection, doc.ContourDetection)
	set(&out.DrawContours, doc.DrawContours)
	set(&out.Threshold, doc.Threshold)
	set(&out.ThresholdPickupArea, doc.ThresholdPickupArea)
	set(&out.Epsilon, doc.Epsilon)
	set(&out.MinContourArea, doc.MinContourArea)
	set(&out.MaxContourArea, doc.MaxContourArea)

	if p := doc.Preprocessing; p != nil {
		set(&out.GaussianBlur, p.GaussianBlur)
		set(&out.BlurKernelSize, p.BlurKernelSize)
		set(&out.ThresholdType, p.ThresholdType)
		set(&out.DilateEnabled, p.DilateEnabled)
		set(&out.DilateKernelSize, p.DilateKernelSize)
		set(&out.DilateIterations, p.DilateIterations)
		set(&out.ErodeEnabled, p.ErodeEnabled)
		set(&out.ErodeKernelSize, p.ErodeKernelSize)
		set(&out.ErodeIterations, p.ErodeIterations)
	}
	if c := doc.Calibration; c != nil {
		set(&out.ChessboardWidth, c.ChessboardWidth)
		set(&out.ChessboardHeight, c.ChessboardHeight)
		set(&out.SquareSizeMM, c.SquareSizeMM)
		set(&out.CalibrationSkipFrames, c.SkipFrames)
	}
	if a := doc.Aruco; a != nil {
		set(&out.ArucoEnabled, a.Enabled)
		set(&out.ArucoDictionary, a.Dictionary)
		set(&out.ArucoFlipImage, a.FlipImage)
	}
	if err := out.Brightness.fromDocument(doc.Brightness); err != nil {
		return err
	}
	*s = out
	return nil
}

func (b *Brightness) fromDocument(m map[string]any) error {
	if m == nil {
		return nil
	}
	decode := func(key string, dst any) error {
		raw, ok := m[key]
		if !ok {
			return nil
		}
		buf, err := json.Marshal(raw)
		if err != nil {
			return err
		}
		if err := json.Unmarshal(buf, dst); err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		return nil
	}
	for key, dst := range map[string]any{
		"Enable auto adjust": &b.BrightnessAuto,
		"Kp":                 &b.BrightnessKp,
		"Ki":                 &b.BrightnessKi,
		"Kd":                 &b.BrightnessKd,
		"Target brightness":  &b.TargetBrightness,
	} {
		if err := decode(key, dst); err != nil {
			return err
		}
	}
	b.AreaPoints = []Point{}
	for i := 1; i <= MaxAreaPoints; i++ {
		var pt []int
		if err := decode(areaPointKey(i), &pt); err != nil {
			return err
		}
		if len(pt) >= 2 {
			b.AreaPoints = append(b.AreaPoints, Point{pt[0], pt[1]})
		}
	}
	return nil
}

func set[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}
