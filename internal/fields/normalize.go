package fields

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"
)

var leadingNumber = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?`)

// NormalizeAmount converts a French-formatted amount ("1 234,56") to a float.
// Whitespace is removed (including no-break spaces), the first decimal comma
// becomes a point and the longest leading numeric prefix is parsed, so
// trailing currency symbols are ignored. ok is false when no number is found.
func NormalizeAmount(raw string) (float64, bool) {
	cleaned := strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) || r == '\ufeff' {
			return -1
		}
		return r
	}, raw)
	cleaned = strings.Replace(cleaned, ",", ".", 1)

	match := leadingNumber.FindString(cleaned)
	if match == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(match, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
