package widgets

import (
	"math"
	"strconv"
	"strings"

	"github.com/spf13/cast"
)

func toFloat(v any) (float64, bool) {
	f, err := cast.ToFloat64E(v)
	if err != nil || math.IsNaN(f) {
		return 0, false
	}
	return f, true
}

func toBool(v any) (bool, bool) {
	b, err := cast.ToBoolE(v)
	if err != nil {
		return false, false
	}
	return b, true
}

func toString(v any) string {
	return cast.ToString(v)
}

// parseIntToken parses one decimal integer token. Tokens are always read
// in base 10 so that "010" means ten.
func parseIntToken(tok string) (int, bool) {
	tok = strings.TrimSpace(tok)
	if tok == "" {
		return 0, false
	}
	n, err := strconv.Atoi(tok)
	if err != nil {
		f, ferr := strconv.ParseFloat(tok, 64)
		if ferr != nil || f != math.Trunc(f) {
			return 0, false
		}
		return int(f), true
	}
	return n, true
}

// roundTo rounds v to the given number of decimal places.
func roundTo(v float64, places int) float64 {
	if places < 0 {
		places = 0
	}
	if places > 9 {
		places = 9
	}
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}

// precisionOf returns the number of decimals needed to represent step.
func precisionOf(step float64) int {
	s := strconv.FormatFloat(step, 'f', -1, 64)
	if i := strings.IndexByte(s, '.'); i >= 0 {
		return len(s) - i - 1
	}
	return 0
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
