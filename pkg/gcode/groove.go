package gcode

import "strconv"

// Groove emits a grooving or parting cut along the operation's
// polyline. When the plunge crosses below reduced_feed_start_x the
// feed and spindle speed drop to their reduced values, so the cut
// slows down before the web breaks. The feed word is emitted only on
// moves where the active feed changes.
func Groove(op *Operation, set *Settings, st *State) ([]string, error) {
	p := op.Params
	if err := Require(p, RequiredKeys[OpGroove], string(OpGroove)); err != nil {
		return nil, err
	}
	if err := RequirePositive(p, []string{"feed"}, string(OpGroove)); err != nil {
		return nil, err
	}
	toolNum, err := RequireTool(p, string(OpGroove))
	if err != nil {
		return nil, err
	}

	lines := []string{"(EINSTECHEN)"}
	path := op.Path
	if len(path) == 0 {
		return append(lines, "(Keine Konturpunkte definiert)"), nil
	}

	feed := p.Float("feed", 0.1)
	reducedFeed := p.Float("reduced_feed", 0)
	reducedStartX := p.Float("reduced_feed_start_x", 0)
	spindle := p.Int("spindle", 0)
	reducedRPM := p.Int("reduced_rpm", 0)
	safeZ := p.Float("safe_z", set.SafeZ(Side(p.Int("side", 0)), path))
	retractX := p.Float("retract_x", path[0].X)

	lines = AppendToolAndSpindle(lines, toolNum, spindle, set, st)
	lines = AppendCoolant(lines, p)

	lines = appendG0(lines, fptr(path[0].X), fptr(safeZ))
	lines = appendG0(lines, nil, fptr(path[0].Z))

	reduceActive := false
	shouldReduce := func(x float64) bool {
		return reducedFeed > 0 && reducedStartX > 0 && x <= reducedStartX
	}

	activeFeed := 0.0
	for _, pt := range path[1:] {
		if !reduceActive && shouldReduce(pt.X) {
			reduceActive = true
			lines = append(lines, "(Reduzierter Vorschub)")
			if reducedRPM > 0 {
				lines = append(lines, "S"+strconv.Itoa(reducedRPM))
			}
		}
		want := feed
		if reduceActive {
			want = reducedFeed
		}
		emitFeed := 0.0
		if want != activeFeed {
			emitFeed = want
			activeFeed = want
		}
		lines = append(lines, G1Line(fptr(pt.X), fptr(pt.Z), emitFeed))
	}

	lines = appendG0(lines, fptr(retractX), nil)
	lines = appendG0(lines, nil, fptr(safeZ))
	if reduceActive && reducedRPM > 0 && spindle > 0 {
		lines = append(lines, "S"+strconv.Itoa(spindle))
	}
	return lines, nil
}
