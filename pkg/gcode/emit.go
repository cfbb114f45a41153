package gcode

import (
	"fmt"
	"strings"
)

// Coordinates are formatted with three decimals throughout, and words
// on a motion line always appear in X, Z, F order. Emitters append to
// line slices through these helpers only, so the ordering cannot drift
// per call site.

func f3(v float64) string {
	return fmt.Sprintf("%.3f", v)
}

// G0Line builds a rapid move. Either coordinate may be nil to omit the
// word; both nil yields an empty string.
func G0Line(x, z *float64) string {
	parts := []string{"G0"}
	if x != nil {
		parts = append(parts, "X"+f3(*x))
	}
	if z != nil {
		parts = append(parts, "Z"+f3(*z))
	}
	if len(parts) == 1 {
		return ""
	}
	return strings.Join(parts, " ")
}

// appendG0 appends a rapid move when at least one axis word is given.
func appendG0(lines []string, x, z *float64) []string {
	if line := G0Line(x, z); line != "" {
		lines = append(lines, line)
	}
	return lines
}

// G1Line builds a feed move. The feed word is appended only when
// feed > 0.
func G1Line(x, z *float64, feed float64) string {
	parts := []string{"G1"}
	if x != nil {
		parts = append(parts, "X"+f3(*x))
	}
	if z != nil {
		parts = append(parts, "Z"+f3(*z))
	}
	if feed > 0 {
		parts = append(parts, "F"+f3(feed))
	}
	return strings.Join(parts, " ")
}

func fptr(v float64) *float64 { return &v }

// asciiReplacements transliterates the characters the post-processor's
// target controller cannot display.
var asciiReplacements = strings.NewReplacer(
	"ä", "ae", "ö", "oe", "ü", "ue",
	"Ä", "Ae", "Ö", "Oe", "Ü", "Ue",
	"ß", "ss", "°", "deg", "µ", "u",
)

// SanitizeText maps program text to the controller-safe character set:
// umlauts and similar are transliterated, any remaining non-ASCII rune
// becomes '?'.
func SanitizeText(s string) string {
	s = asciiReplacements.Replace(s)
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r > 127 {
			b.WriteRune('?')
		} else {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// SanitizeComment prepares free text for embedding in a parenthetical
// comment: parentheses are stripped (they would terminate the comment)
// and whitespace runs collapse to single spaces. Character-set mapping
// is not done here; the assembler runs SanitizeText over every line.
func SanitizeComment(s string) string {
	s = strings.ReplaceAll(s, "(", "")
	s = strings.ReplaceAll(s, ")", "")
	return strings.Join(strings.Fields(s), " ")
}
