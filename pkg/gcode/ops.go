// Package gcode turns toolpath polylines and pass plans into ordered
// motion-command lines. Every emitter is a pure function of its inputs:
// identical operations, settings and state produce byte-identical line
// sequences, which the generated programs rely on for golden diffing.
//
// A line is either a parenthetical comment or a bare command line.
// Line numbering and character-set sanitization are assembler concerns
// (package program), not emitter concerns.
package gcode

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/chazu/lathestep/pkg/contour"
)

// OpType tags the kind of machining operation.
type OpType string

const (
	OpProgramHeader OpType = "program_header"
	OpFace          OpType = "face"
	OpContour       OpType = "contour"
	OpTurn          OpType = "turn"
	OpBore          OpType = "bore"
	OpThread        OpType = "thread"
	OpGroove        OpType = "groove"
	OpDrill         OpType = "drill"
	OpKeyway        OpType = "keyway"
	OpAbspanen      OpType = "abspanen"
)

// RequiredKeys lists the parameters each operation type must carry.
// The assembler validates these up front so a missing parameter is
// reported with its operation index instead of producing a broken
// program.
var RequiredKeys = map[OpType][]string{
	OpProgramHeader: {},
	OpFace:          {"depth_max", "feed", "spindle", "tool"},
	OpContour:       {}, // geometry only, no machining parameters
	OpTurn:          {"feed", "safe_z", "tool"},
	OpBore:          {"feed", "safe_z", "tool"},
	OpThread:        {"pitch", "length", "major_diameter", "spindle", "tool"},
	OpGroove:        {"feed", "safe_z", "tool"},
	OpDrill:         {"feed", "safe_z", "mode", "tool"},
	OpKeyway:        {"depth_per_pass", "feed", "safe_z", "tool"},
	OpAbspanen:      {"depth_per_pass", "tool"},
}

// Params is the named parameter mapping of an operation. Values come
// from an external editor or script surface and may be numbers,
// strings, or booleans; accessors degrade malformed values to the
// caller's default instead of failing.
type Params map[string]any

// Has reports whether a key is present and non-empty.
func (p Params) Has(key string) bool {
	v, ok := p[key]
	if !ok || v == nil {
		return false
	}
	if s, isStr := v.(string); isStr && s == "" {
		return false
	}
	return true
}

// Float returns the parameter as a float64, or def when absent or
// unparsable.
func (p Params) Float(key string, def float64) float64 {
	v, ok := p[key]
	if !ok {
		return def
	}
	f, ok := toFloat(v)
	if !ok {
		return def
	}
	return f
}

// Int returns the parameter as an int, or def when absent or
// unparsable.
func (p Params) Int(key string, def int) int {
	v, ok := p[key]
	if !ok {
		return def
	}
	f, ok := toFloat(v)
	if !ok {
		return def
	}
	return int(f)
}

// Bool returns the parameter as a bool, or def when absent.
// Numeric values follow the non-zero convention.
func (p Params) Bool(key string, def bool) bool {
	v, ok := p[key]
	if !ok {
		return def
	}
	switch b := v.(type) {
	case bool:
		return b
	case string:
		switch strings.ToLower(strings.TrimSpace(b)) {
		case "true", "yes", "on", "1":
			return true
		case "false", "no", "off", "0":
			return false
		}
		return def
	default:
		if f, okf := toFloat(v); okf {
			return f != 0
		}
	}
	return def
}

// Str returns the parameter as a string, or def when absent.
func (p Params) Str(key, def string) string {
	v, ok := p[key]
	if !ok || v == nil {
		return def
	}
	if s, isStr := v.(string); isStr {
		return s
	}
	return fmt.Sprintf("%v", v)
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case bool:
		if n {
			return 1, true
		}
		return 0, true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return 0, false
		}
		return f, true
	}
	return 0, false
}

// Operation is the boundary shape shared with the external editor
// surface: a type tag, a parameter mapping, and the resulting polyline.
// The emitter reads Params and Path; it never owns the lifecycle.
type Operation struct {
	Type   OpType
	Params Params
	Path   []contour.Point
}

// Require checks that the given parameters are present and non-empty.
func Require(p Params, keys []string, opLabel string) error {
	for _, key := range keys {
		if !p.Has(key) {
			return fmt.Errorf("operation %s: required parameter %q is missing or empty", opLabel, key)
		}
	}
	return nil
}

// RequirePositive checks that the given parameters parse as positive
// numbers.
func RequirePositive(p Params, keys []string, opLabel string) error {
	for _, key := range keys {
		v := p.Float(key, 0)
		if v <= 0 {
			return fmt.Errorf("operation %s: parameter %q must be > 0 (got %v)", opLabel, key, p[key])
		}
	}
	return nil
}

// ToolNumber extracts the tool number, supporting legacy key spellings.
func ToolNumber(p Params) int {
	for _, key := range []string{"tool", "toolno", "tool_number"} {
		if p.Has(key) {
			return p.Int(key, 0)
		}
	}
	return 0
}

// RequireTool validates that a tool number is present and positive.
func RequireTool(p Params, opLabel string) (int, error) {
	n := ToolNumber(p)
	if n <= 0 {
		return 0, fmt.Errorf("operation %s: tool number missing or invalid", opLabel)
	}
	return n, nil
}

// ForOperation dispatches an operation to its emitter and prepends the
// optional step comment. Program-header operations carry no motion of
// their own.
func ForOperation(op *Operation, set *Settings, st *State) ([]string, error) {
	var lines []string
	var err error

	switch op.Type {
	case OpProgramHeader:
		lines = nil
	case OpContour:
		lines, err = ContourCycle(op, set, st)
	case OpFace:
		lines, err = Face(op, set, st)
	case OpTurn:
		lines, err = Turn(op, set, st)
	case OpBore:
		lines, err = Bore(op, set, st)
	case OpDrill:
		lines, err = Drill(op, set, st)
	case OpGroove:
		lines, err = Groove(op, set, st)
	case OpThread:
		lines, err = Thread(op, set, st)
	case OpKeyway:
		lines, err = Keyway(op, set, st)
	case OpAbspanen:
		lines, err = Abspanen(op, set, st)
	default:
		lines = nil
	}
	if err != nil {
		return nil, err
	}

	if comment := strings.TrimSpace(SanitizeComment(op.Params.Str("comment", ""))); comment != "" {
		lines = append([]string{fmt.Sprintf("(STEP: %s)", comment)}, lines...)
	}
	return lines, nil
}
