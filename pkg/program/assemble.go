// Package program assembles complete machine programs from an ordered
// operation list: the modal preamble, per-step framing with toolchange
// parking, the operation bodies from package gcode, and the footer.
// Output is a plain line list; rendering to text is the caller's job.
package program

import (
	"fmt"
	"strings"

	"github.com/chazu/lathestep/pkg/gcode"
)

// Program is one complete job: machine settings plus the ordered
// operations.
type Program struct {
	Name       string
	Settings   gcode.Settings
	Operations []*gcode.Operation
}

// ValidationError reports a parameter problem with its operation
// index, so the editor surface can point at the offending step.
type ValidationError struct {
	Index int
	Op    gcode.OpType
	Err   error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("step %d (%s): %v", e.Index+1, e.Op, e.Err)
}

func (e *ValidationError) Unwrap() error { return e.Err }

// Validate checks every operation's required parameters up front and
// returns all problems, not just the first.
func Validate(p *Program) []error {
	var errs []error
	for i, op := range p.Operations {
		keys, ok := gcode.RequiredKeys[op.Type]
		if !ok {
			errs = append(errs, &ValidationError{Index: i, Op: op.Type,
				Err: fmt.Errorf("unknown operation type")})
			continue
		}
		if err := gcode.Require(op.Params, keys, string(op.Type)); err != nil {
			errs = append(errs, &ValidationError{Index: i, Op: op.Type, Err: err})
		}
	}
	return errs
}

// Generate assembles the full program line list. Operations are
// emitted in order with a step comment each; before an operation that
// needs a different tool, the turret is parked at the toolchange
// position when one is configured.
func Generate(p *Program) ([]string, error) {
	if errs := Validate(p); len(errs) > 0 {
		return nil, errs[0]
	}

	set := &p.Settings
	st := gcode.NewState()

	lines := []string{"%"}
	if name := gcode.SanitizeComment(p.Name); name != "" {
		lines = append(lines, fmt.Sprintf("(Programm: %s)", name))
	}
	for _, h := range set.HeaderLines {
		lines = append(lines, gcode.SanitizeText(h))
	}
	lines = append(lines,
		"G18 G7 G90 G40 G80",
		"G21",
		"G95",
		"G54",
	)
	lines = append(lines, stockComments(set)...)

	for i, op := range p.Operations {
		if op.Type == gcode.OpProgramHeader {
			continue
		}
		title := op.Params.Str("title", string(op.Type))
		lines = append(lines, fmt.Sprintf("(Step %d: %s)", i+1, gcode.SanitizeComment(title)))

		if tool := gcode.ToolNumber(op.Params); tool > 0 && tool != st.CurrentTool {
			if x, z, ok := set.SafePosition(); ok && st.CurrentTool != 0 {
				lines = append(lines, "G0 X"+fmt.Sprintf("%.3f", x)+" Z"+fmt.Sprintf("%.3f", z))
			}
			lines = gcode.MoveToToolchange(lines, set)
		}

		body, err := gcode.ForOperation(op, set, st)
		if err != nil {
			return nil, &ValidationError{Index: i, Op: op.Type, Err: err}
		}
		lines = append(lines, body...)
	}

	for _, f := range set.FooterLines {
		lines = append(lines, gcode.SanitizeText(f))
	}
	lines = append(lines, "M5", "M9", "M30", "%")

	for i, l := range lines {
		lines[i] = gcode.SanitizeText(l)
	}
	if set.EmitLineNumbers {
		lines = NumberLines(lines)
	}
	return lines, nil
}

// stockComments documents the safety-relevant setup values at the top
// of the program, so an operator can check them against the chucked
// part before cycle start.
func stockComments(set *gcode.Settings) []string {
	var lines []string
	add := func(label string, v *float64) {
		if v != nil {
			lines = append(lines, fmt.Sprintf("(%s = %.3f)", label, *v))
		}
	}
	add("Rohteil XA", set.XA)
	add("Rohteil XI", set.XI)
	add("Rohteil ZA", set.ZA)
	add("Rohteil ZI", set.ZI)
	if set.XRA != 0 {
		lines = append(lines, fmt.Sprintf("(Rueckzug XRA = %.3f)", set.XRA))
	}
	if set.ZRA != 0 {
		lines = append(lines, fmt.Sprintf("(Rueckzug ZRA = %.3f)", set.ZRA))
	}
	if set.XRI != 0 {
		lines = append(lines, fmt.Sprintf("(Rueckzug XRI = %.3f)", set.XRI))
	}
	if set.ZRI != 0 {
		lines = append(lines, fmt.Sprintf("(Rueckzug ZRI = %.3f)", set.ZRI))
	}
	return lines
}

// NumberLines prefixes motion and comment lines with N numbers in
// steps of ten. Program delimiters and lines that already carry a
// block number keep their text unchanged.
func NumberLines(lines []string) []string {
	out := make([]string, 0, len(lines))
	n := 10
	for _, l := range lines {
		trimmed := strings.TrimSpace(l)
		if trimmed == "%" || strings.HasPrefix(trimmed, "N") {
			out = append(out, l)
			continue
		}
		out = append(out, fmt.Sprintf("N%d %s", n, l))
		n += 10
	}
	return out
}

// Render joins the assembled lines into the final program text with a
// trailing newline.
func Render(lines []string) string {
	return strings.Join(lines, "\n") + "\n"
}
