package gcode

import "fmt"

// Keyway emits the parameter block and subroutine call for broaching a
// keyway with repeated axial strokes. The motion itself lives in an
// external named subroutine on the controller; the operation only
// binds its parameters and calls it.
func Keyway(op *Operation, set *Settings, st *State) ([]string, error) {
	p := op.Params
	if err := Require(p, RequiredKeys[OpKeyway], string(OpKeyway)); err != nil {
		return nil, err
	}
	if err := RequirePositive(p, []string{"depth_per_pass", "feed"}, string(OpKeyway)); err != nil {
		return nil, err
	}
	toolNum, err := RequireTool(p, string(OpKeyway))
	if err != nil {
		return nil, err
	}

	routine := SanitizeComment(p.Str("routine", "keyway_c"))

	lines := []string{"(NUT STOSSEN)"}
	lines = AppendToolAndSpindle(lines, toolNum, 0, set, st)
	lines = append(lines, "M5") // spindle must stand still for broaching

	assign := func(name string, v float64) {
		lines = append(lines, fmt.Sprintf("#<_%s> = %s", name, f3(v)))
	}
	assign("mode", float64(p.Int("mode", 0)))
	assign("start_x", p.Float("start_x", 0))
	assign("start_z", p.Float("start_z", 0))
	assign("depth_total", p.Float("depth_total", 0))
	assign("depth_per_pass", p.Float("depth_per_pass", 0))
	assign("length", p.Float("length", 0))
	assign("feed", p.Float("feed", 0))
	assign("retract", p.Float("retract", 0.5))
	assign("safe_z", p.Float("safe_z", 2.0))

	lines = append(lines, fmt.Sprintf("o<%s> call", routine))
	return lines, nil
}
