package columns

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

/*
	Default total order over rendered values.

	Two numeric values compare numerically, two non-numeric values
	compare lexicographically on their textual form, and a numeric
	value always sorts before a non-numeric one (keeps the order
	transitive for mixed columns). Returns -1, 0 or 1.
*/
func DefaultCompare(a interface{}, b interface{}) int {
	aNum, aIsNum := asNumber(a)
	bNum, bIsNum := asNumber(b)

	switch {
	case aIsNum && bIsNum:
		return compareFloat64s(aNum, bNum)
	case aIsNum:
		return -1
	case bIsNum:
		return 1
	}

	return strings.Compare(asText(a), asText(b))
}

func compareFloat64s(a float64, b float64) int {
	if a < b {
		return -1
	}
	if a > b {
		return 1
	}
	return 0
}

// plain decimal notation only; no hex, no inf, no underscores
var decimalPattern = regexp.MustCompile(`^[+-]?(\d+(\.\d*)?|\.\d+)([eE][+-]?\d+)?$`)

func asNumber(value interface{}) (float64, bool) {
	var f float64
	switch v := value.(type) {
	case int:
		f = float64(v)
	case int8:
		f = float64(v)
	case int16:
		f = float64(v)
	case int32:
		f = float64(v)
	case int64:
		f = float64(v)
	case uint:
		f = float64(v)
	case uint8:
		f = float64(v)
	case uint16:
		f = float64(v)
	case uint32:
		f = float64(v)
	case uint64:
		f = float64(v)
	case float32:
		f = float64(v)
	case float64:
		f = v
	case string:
		trimmed := strings.TrimSpace(v)
		if !decimalPattern.MatchString(trimmed) {
			return 0, false
		}
		parsed, err := strconv.ParseFloat(trimmed, 64)
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		return 0, false
	}

	// NaN has no place in a total order
	if math.IsNaN(f) {
		return 0, false
	}
	return f, true
}

func asText(value interface{}) string {
	if value == nil {
		return ""
	}
	if s, ok := value.(string); ok {
		return s
	}
	return fmt.Sprint(value)
}

// Text is the textual form of a rendered value, as used for filtering
func Text(value interface{}) string {
	return asText(value)
}
