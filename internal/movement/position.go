package movement

import (
	"fmt"
	"strconv"
	"strings"

	apperrors "github.com/dtg01100/touch-settings/internal/errors"
)

// Axes are the coordinate names of a Position in order.
var Axes = [6]string{"X", "Y", "Z", "RX", "RY", "RZ"}

// Position is a 6-DOF pose: translation in millimetres and rotation in degrees.
type Position [6]float64

// ParsePosition reads "[x, y, z, rx, ry, rz]". Brackets and surrounding
// spaces are optional; exactly six numbers are required.
func ParsePosition(s string) (Position, error) {
	var p Position
	body := strings.Trim(s, "[] ")
	if body == "" {
		return p, apperrors.NewValidationError("position", "empty position")
	}
	parts := strings.Split(body, ",")
	if len(parts) != len(p) {
		return p, apperrors.NewValidationError("position", fmt.Sprintf("expected 6 values, got %d", len(parts)))
	}
	for i, part := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
		if err != nil {
			return Position{}, apperrors.NewValidationError("position", fmt.Sprintf("%s is not a number: %q", Axes[i], strings.TrimSpace(part)))
		}
		p[i] = v
	}
	return p, nil
}

// ParsePositionOrZero is ParsePosition with the zero pose as fallback for
// malformed input.
func ParsePositionOrZero(s string) Position {
	p, err := ParsePosition(s)
	if err != nil {
		return Position{}
	}
	return p
}

// String formats the pose with three decimals per coordinate.
func (p Position) String() string {
	parts := make([]string, len(p))
	for i, v := range p {
		parts[i] = strconv.FormatFloat(v, 'f', 3, 64)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}
