package gcode

import (
	"fmt"
	"math"

	"github.com/chazu/lathestep/pkg/contour"
)

// Face emits a move-based facing operation: roughing passes across the
// face with an even per-pass depth, followed by a finishing contour at
// the final Z, optionally with a chamfered or square outer edge. The
// finishing allowance is the stock left on the face after roughing.
func Face(op *Operation, set *Settings, st *State) ([]string, error) {
	p := op.Params
	if err := Require(p, RequiredKeys[OpFace], string(OpFace)); err != nil {
		return nil, err
	}
	if err := RequirePositive(p, []string{"depth_max", "feed", "spindle"}, string(OpFace)); err != nil {
		return nil, err
	}
	toolNum, err := RequireTool(p, string(OpFace))
	if err != nil {
		return nil, err
	}

	mode := p.Int("mode", 2) // 0 rough, 1 finish, 2 both
	startX := p.Float("start_x", 0)
	startZ := p.Float("start_z", 0)
	endX := p.Float("end_x", 0)
	endZ := p.Float("end_z", 0)
	allowZ := p.Float("finish_allow_z", 0)
	depthMax := p.Float("depth_max", 0)
	retract := p.Float("retract", 1.0)
	feed := p.Float("feed", 0.2)
	finishFeed := p.Float("finish_feed", feed)

	lines := []string{"(PLANEN)"}
	lines = AppendToolAndSpindle(lines, toolNum, p.Int("spindle", 0), set, st)
	lines = AppendCoolant(lines, p)

	roughEndZ := endZ + allowZ
	if mode == 0 || mode == 2 {
		lines = append(lines, faceRoughPasses(p, startX, startZ, endX, roughEndZ, depthMax, retract, feed)...)
	}

	if mode == 1 || mode == 2 {
		lines = append(lines, faceFinishPass(p, set, toolNum, startX, endX, endZ, retract, finishFeed)...)
	}

	lines = appendG0(lines, nil, fptr(startZ+retract))
	lines = appendG0(lines, fptr(startX), nil)
	return lines, nil
}

// faceRoughPasses distributes the stock between startZ and roughEndZ
// over ceil(total/depthMax) passes of equal depth, so no pass exceeds
// the maximum and the last pass is not a sliver.
func faceRoughPasses(p Params, startX, startZ, endX, roughEndZ, depthMax, retract, feed float64) []string {
	total := startZ - roughEndZ
	if total <= 1e-9 {
		return []string{"(Kein Schruppaufmass an der Planflaeche)"}
	}

	n := int(math.Ceil(total/depthMax - 1e-9))
	if n < 1 {
		n = 1
	}
	depth := total / float64(n)
	pause := pauseFromParams(p)
	outward := p.Int("rough_direction", 0) == 1

	lines := []string{fmt.Sprintf("(Schruppen Planflaeche: %d Schnitte a %s)", n, f3(depth))}
	for i := 1; i <= n; i++ {
		z := startZ - depth*float64(i)
		from, to := startX, endX
		if outward {
			from, to = endX, startX
		}
		lines = appendG0(lines, fptr(from), fptr(z+retract))
		lines = append(lines, G1Line(nil, fptr(z), feed))
		lines = AppendFeedMove(lines,
			contour.Point{X: from, Z: z},
			contour.Point{X: to, Z: z},
			feed, pause)
		lines = appendG0(lines, nil, fptr(z+retract))
	}
	return lines
}

// faceFinishPass traces the finished face at endZ. Edge type 1 breaks
// the outer corner with a chamfer of the given leg size; the chamfer
// starts above the face and lands on it with the diameter reduced by
// twice the leg.
func faceFinishPass(p Params, set *Settings, toolNum int, startX, endX, endZ, retract, feed float64) []string {
	edgeType := p.Int("edge_type", 0)
	edgeSize := p.Float("edge_size", 0)
	inward := p.Int("finish_direction", 0) == 0

	pts := []contour.Point{{X: startX, Z: endZ}, {X: endX, Z: endZ}}
	if edgeType == 1 && edgeSize > 0 {
		pts = []contour.Point{
			{X: startX, Z: endZ - edgeSize},
			{X: startX - 2*edgeSize, Z: endZ},
			{X: endX, Z: endZ},
		}
	}
	if !inward {
		for i, j := 0, len(pts)-1; i < j; i, j = i+1, j-1 {
			pts[i], pts[j] = pts[j], pts[i]
		}
	}

	side := Side(p.Int("side", 0))
	compOn, compOff := NoseCompensation(set, toolNum, side)

	lines := []string{"(Schlichten Planflaeche)"}
	lines = append(lines, compOn...)
	lines = appendG0(lines, fptr(pts[0].X), fptr(endZ+retract))
	lines = append(lines, G1Line(nil, fptr(pts[0].Z), feed))
	for _, pt := range pts[1:] {
		lines = append(lines, G1Line(fptr(pt.X), fptr(pt.Z), feed))
	}
	lines = appendG0(lines, nil, fptr(endZ+retract))
	lines = append(lines, compOff...)
	return lines
}
