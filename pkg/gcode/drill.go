package gcode

import "fmt"

// Drill cycle modes, matching the editor's numeric encoding.
const (
	DrillSimple  = 1 // G81
	DrillDwell   = 2 // G82
	DrillPeck    = 3 // G83, full retract
	DrillChip    = 4 // G73, chip-break retract
	DrillTapping = 5 // G84
)

// Drill emits an axial drilling cycle on the spindle centerline. The
// canned cycles are plane-modal, so the emitter switches to G17 for
// the cycle and restores G18 after cancelling it.
func Drill(op *Operation, set *Settings, st *State) ([]string, error) {
	p := op.Params
	if err := Require(p, RequiredKeys[OpDrill], string(OpDrill)); err != nil {
		return nil, err
	}
	if err := RequirePositive(p, []string{"feed"}, string(OpDrill)); err != nil {
		return nil, err
	}
	toolNum, err := RequireTool(p, string(OpDrill))
	if err != nil {
		return nil, err
	}

	mode := p.Int("mode", DrillSimple)
	depthZ := p.Float("depth_z", 0)
	safeZ := p.Float("safe_z", 2.0)
	retractZ := p.Float("retract_z", safeZ)
	feed := p.Float("feed", 0.1)
	dwell := p.Float("dwell", 0)
	peck := p.Float("peck_depth", 0)

	switch mode {
	case DrillDwell:
		if dwell <= 0 {
			return nil, fmt.Errorf("operation %s: mode %d requires a positive dwell", OpDrill, mode)
		}
	case DrillPeck, DrillChip:
		if peck <= 0 {
			return nil, fmt.Errorf("operation %s: mode %d requires a positive peck_depth", OpDrill, mode)
		}
	case DrillSimple, DrillTapping:
	default:
		return nil, fmt.Errorf("operation %s: unknown drill mode %d", OpDrill, mode)
	}

	lines := []string{"(BOHREN)"}
	lines = AppendToolAndSpindle(lines, toolNum, p.Int("spindle", 0), set, st)
	lines = AppendCoolant(lines, p)

	lines = appendG0(lines, fptr(0), fptr(safeZ))
	lines = append(lines, "G17")

	r := "R" + f3(retractZ)
	z := "Z" + f3(depthZ)
	f := "F" + f3(feed)
	switch mode {
	case DrillSimple:
		lines = append(lines, fmt.Sprintf("G81 %s %s %s", z, r, f))
	case DrillDwell:
		lines = append(lines, fmt.Sprintf("G82 %s %s P%s %s", z, r, f3(dwell), f))
	case DrillPeck:
		lines = append(lines, fmt.Sprintf("G83 %s %s Q%s %s", z, r, f3(peck), f))
	case DrillChip:
		lines = append(lines, fmt.Sprintf("G73 %s %s Q%s %s", z, r, f3(peck), f))
	case DrillTapping:
		lines = append(lines, fmt.Sprintf("G84 %s %s %s", z, r, f))
	}

	lines = append(lines, "G80", "G18")
	lines = appendG0(lines, nil, fptr(safeZ))
	return lines, nil
}
