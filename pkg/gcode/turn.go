package gcode

// Turn traces an external longitudinal profile: rapid above the entry
// point at the clearance plane, feed to depth, then feed along the
// polyline. Roughing the stock down to the profile is the stock-removal
// operation's job; Turn cuts the programmed path as-is.
func Turn(op *Operation, set *Settings, st *State) ([]string, error) {
	return tracedOperation(op, set, st, OpTurn, "(LAENGSDREHEN)", SideExternal)
}

// Bore is the internal counterpart of Turn.
func Bore(op *Operation, set *Settings, st *State) ([]string, error) {
	return tracedOperation(op, set, st, OpBore, "(AUSDREHEN)", SideInternal)
}

func tracedOperation(op *Operation, set *Settings, st *State, typ OpType, header string, defaultSide Side) ([]string, error) {
	p := op.Params
	if err := Require(p, RequiredKeys[typ], string(typ)); err != nil {
		return nil, err
	}
	if err := RequirePositive(p, []string{"feed"}, string(typ)); err != nil {
		return nil, err
	}
	toolNum, err := RequireTool(p, string(typ))
	if err != nil {
		return nil, err
	}

	lines := []string{header}
	if len(op.Path) == 0 {
		return append(lines, "(Keine Konturpunkte definiert)"), nil
	}

	side := Side(p.Int("side", int(defaultSide)))
	feed := p.Float("feed", 0.2)
	safeZ := p.Float("safe_z", set.SafeZ(side, op.Path))

	lines = AppendToolAndSpindle(lines, toolNum, p.Int("spindle", 0), set, st)
	lines = AppendCoolant(lines, p)

	compOn, compOff := NoseCompensation(set, toolNum, side)
	lines = append(lines, compOn...)
	lines = append(lines, tracePath(op.Path, feed, safeZ, PauseCfg{})...)
	lines = append(lines, compOff...)
	return lines, nil
}
