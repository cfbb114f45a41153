package gcode

import "fmt"

// ContourCycle emits a contour as a canned roughing/finishing cycle:
// a G71 header referencing a numbered block range, the contour blocks
// themselves (one numbered motion line per polyline point), and a G70
// finishing call over the same range. Block numbers are allocated from
// the program state so multiple contours in one program never collide.
func ContourCycle(op *Operation, set *Settings, st *State) ([]string, error) {
	p := op.Params
	lines := []string{"(KONTUR)"}
	if name := SanitizeComment(p.Str("name", "")); name != "" {
		lines = append(lines, fmt.Sprintf("(Kontur: %s)", name))
	}

	path := op.Path
	if len(path) < 2 {
		return append(lines, "(Keine Konturpunkte definiert)"), nil
	}

	// A contour without machining parameters is geometry only, kept in
	// the program for reference by other operations.
	toolNum := ToolNumber(p)
	if toolNum == 0 {
		return append(lines, "(Nur Geometrie, keine Bearbeitung)"), nil
	}
	if err := RequirePositive(p, []string{"rough_depth", "rough_feed"}, string(OpContour)); err != nil {
		return nil, err
	}

	side := Side(p.Int("side", 0))
	roughDepth := p.Float("rough_depth", 0)
	roughFeed := p.Float("rough_feed", 0)
	finishFeed := p.Float("finish_feed", roughFeed)
	retract := p.Float("retract", 0.5)
	allowX := p.Float("finish_allow_x", 0)
	allowZ := p.Float("finish_allow_z", 0)
	safeZ := p.Float("safe_z", set.SafeZ(side, path))

	lines = AppendToolAndSpindle(lines, toolNum, p.Int("spindle", 0), set, st)
	lines = AppendCoolant(lines, p)

	// Cycle start position: the configured retract planes, falling
	// back to the contour entry point at the clearance plane.
	cfg := set.RetractFor(side)
	startX, startZ := path[0].X, safeZ
	if rx, rz := cfg.Resolve(side.External(), path[0].X, path[0].Z); rx != nil || rz != nil {
		if rx != nil {
			startX = *rx
		}
		if rz != nil {
			startZ = *rz
		}
	}
	lines = appendG0(lines, fptr(startX), fptr(startZ))

	first, last := st.NextBlockRange(len(path))
	lines = append(lines, fmt.Sprintf("G71 P%d Q%d D%s R%s I%s K%s F%s",
		first, last, f3(roughDepth), f3(retract), f3(allowX), f3(allowZ), f3(roughFeed)))

	for i, pt := range path {
		word := "G1"
		if i == 0 {
			word = "G0"
		}
		lines = append(lines, fmt.Sprintf("N%d %s X%s Z%s", first+i*blockStep, word, f3(pt.X), f3(pt.Z)))
	}

	lines = append(lines, fmt.Sprintf("G70 P%d Q%d F%s", first, last, f3(finishFeed)))
	lines = appendG0(lines, fptr(startX), fptr(startZ))
	return lines, nil
}
