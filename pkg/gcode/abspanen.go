package gcode

import (
	"fmt"

	"github.com/chazu/lathestep/pkg/contour"
	"github.com/chazu/lathestep/pkg/slicer"
)

// Abspanen strategy selectors. The numeric values are the legacy
// editor encoding.
const (
	StrategyNone      = ""
	StrategyParallelX = "parallel_x"
	StrategyParallelZ = "parallel_z"
	StrategyRadial    = "radial"
)

func sliceStrategy(p Params) string {
	if v, ok := p["slice_strategy"]; ok {
		if s, isStr := v.(string); isStr {
			switch s {
			case StrategyParallelX, StrategyParallelZ, StrategyRadial:
				return s
			}
			return StrategyNone
		}
	}
	switch p.Int("slice_strategy", 0) {
	case 1:
		return StrategyParallelX
	case 2:
		return StrategyParallelZ
	case 3:
		return StrategyRadial
	}
	return StrategyNone
}

// Abspanen emits the stock-removal operation: band- or offset-based
// roughing of a contour, optionally followed by a finishing pass along
// the final profile. Mode 0 roughs, mode 1 finishes, mode 2 does both.
// Requesting roughing without a slice strategy yields a single warning
// comment and no motion.
func Abspanen(op *Operation, set *Settings, st *State) ([]string, error) {
	lines := []string{"(ABSPANEN)"}
	path := op.Path
	if len(path) == 0 {
		return append(lines, "(Keine Konturpunkte definiert)"), nil
	}

	p := op.Params
	if err := Require(p, RequiredKeys[OpAbspanen], string(OpAbspanen)); err != nil {
		return nil, err
	}
	if err := RequirePositive(p, []string{"depth_per_pass"}, string(OpAbspanen)); err != nil {
		return nil, err
	}
	toolNum, err := RequireTool(p, string(OpAbspanen))
	if err != nil {
		return nil, err
	}

	side := Side(p.Int("side", 0))
	mode := p.Int("mode", 0)
	feed := p.Float("feed", 0.2)
	depth := p.Float("depth_per_pass", 0)
	strategy := sliceStrategy(p)

	if strategy == StrategyNone && mode != 1 {
		return append(lines, "(Warnung: keine Schruppstrategie gewaehlt, keine Bewegung erzeugt)"), nil
	}

	lines = AppendToolAndSpindle(lines, toolNum, p.Int("spindle", 0), set, st)
	lines = AppendCoolant(lines, p)

	safeZ := p.Float("safe_z", set.SafeZ(side, path))
	minX, maxX, _ := slicer.BoundsX(path)
	stock, haveStock := set.StockX(side)
	if !haveStock {
		// Fall back to the path's own extreme on the machined side.
		if side.External() {
			stock = maxX
		} else {
			stock = minX
		}
	}

	opts := RoughOptions{
		External:      side.External(),
		Stock:         stock,
		Step:          depth,
		SafeZ:         safeZ,
		Feed:          feed,
		AllowUndercut: p.Bool("allow_undercut", false),
		LeadoutLength: p.Float("leadout_length", 0),
		Retract:       set.RetractFor(side),
	}
	if mode != 1 {
		opts.Pause = pauseFromParams(p)
	}

	if mode != 1 {
		switch strategy {
		case StrategyParallelX:
			// Cuts run parallel to X, stepping along Z from the stock
			// face toward the far end of the contour.
			zMin, zMax, _ := slicer.BoundsZ(path)
			zStock, zTarget := zMax, zMin
			if !side.External() {
				zStock, zTarget = zMin, zMax
			}
			opts.Stock = zStock
			opts.Target = zTarget
			opts.StartX = stock
			lines = append(lines, RoughParallelZ(path, opts)...)
		case StrategyParallelZ:
			// Cuts run parallel to Z, stepping along X from the stock
			// diameter toward the contour.
			if side.External() {
				opts.Target = minX
			} else {
				opts.Target = maxX
			}
			lines = append(lines, RoughParallelX(path, opts)...)
		case StrategyRadial:
			lines = append(lines, roughRadial(path, stock, depth, feed, safeZ, opts.Pause)...)
		}
	}

	if mode == 1 || mode == 2 {
		lines = append(lines, finishContourPass(path, set, toolNum, side, p.Float("finish_feed", feed), safeZ)...)
	}
	return lines, nil
}

// roughRadial removes stock with profile-parallel passes: the contour
// is offset toward the stock in depth-per-pass steps and each offset
// copy is traced at feed. The final offset is always exactly zero, so
// the last pass runs on the programmed contour.
func roughRadial(path []contour.Point, stock, depth, feed, safeZ float64, pause PauseCfg) []string {
	lines := []string{"(Schruppen konturparallel)"}
	offsets := slicer.RadialOffsets(stock, path, depth)
	for _, off := range offsets {
		lines = append(lines, fmt.Sprintf("(Zustellung %s)", f3(off)))
		shifted := slicer.OffsetPath(path, stock, off)
		lines = append(lines, tracePath(shifted, feed, safeZ, pause)...)
	}
	return lines
}

// tracePath runs one pass along a polyline: rapid above the entry,
// feed down to it, then feed point to point, retracting to the
// clearance plane afterwards.
func tracePath(path []contour.Point, feed, safeZ float64, pause PauseCfg) []string {
	if len(path) == 0 {
		return nil
	}
	lines := appendG0(nil, fptr(path[0].X), fptr(safeZ))
	lines = append(lines, G1Line(nil, fptr(path[0].Z), feed))
	for i := 1; i < len(path); i++ {
		lines = AppendFeedMove(lines, path[i-1], path[i], feed, pause)
	}
	return appendG0(lines, nil, fptr(safeZ))
}

// finishContourPass traces the programmed contour once at finishing
// feed, with cutter compensation when the tool table knows the tool's
// nose radius.
func finishContourPass(path []contour.Point, set *Settings, toolNum int, side Side, feed, safeZ float64) []string {
	lines := []string{"(Schlichtschnitt Kontur)"}
	compOn, compOff := NoseCompensation(set, toolNum, side)
	lines = append(lines, compOn...)
	lines = append(lines, tracePath(path, feed, safeZ, PauseCfg{})...)
	lines = append(lines, compOff...)
	return lines
}
