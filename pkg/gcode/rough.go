package gcode

import (
	"fmt"
	"math"

	"github.com/chazu/lathestep/pkg/contour"
	"github.com/chazu/lathestep/pkg/slicer"
)

// RoughOptions parameterizes the band-based roughing emitters.
type RoughOptions struct {
	External bool

	// Stepping-axis walk: stock boundary, final target, per-pass step.
	Stock, Target, Step float64

	SafeZ float64
	Feed  float64

	// StartX is the clearance X the parallel-X cuts feed in from.
	// Used by RoughParallelZ only.
	StartX float64

	AllowUndercut bool
	LeadoutLength float64

	Pause   PauseCfg
	Retract RetractCfg
}

const undercutEps = 1e-6

// RoughParallelX removes stock in X-stepped bands, each cut feeding
// along Z at the band's cutting edge. After every cut the tool closes
// up to the contour and leads out along it before retracting, so the
// pass does not leave a step mark where it meets the profile.
func RoughParallelX(path []contour.Point, o RoughOptions) []string {
	lines := []string{"(Schruppen parallel Z)"}

	segs := slicer.FromPolyline(path)
	if len(segs) == 0 {
		return append(lines, "(Keine Kontur fuer Schruppen definiert)")
	}

	minX, maxX, _ := slicer.BoundsX(path)
	zDir := slicer.InferZDir(path)
	passes := slicer.PlanParallelX(path, o.External, o.Stock, o.Target, o.Step)

	currentX, currentZ := o.Stock, o.SafeZ
	if rx, rz := o.Retract.Resolve(o.External, currentX, currentZ); rx != nil || rz != nil {
		// Park Z first so the X move cannot drag across the face.
		lines = appendG0(lines, nil, rz)
		lines = appendG0(lines, rx, nil)
		if rx != nil {
			currentX = *rx
		}
		if rz != nil {
			currentZ = *rz
		}
	}

	for i, pass := range passes {
		if len(pass.Cuts) == 0 {
			lines = append(lines, fmt.Sprintf("(Pass %d: no cut region in band X[%s,%s])",
				i+1, f3(pass.Lo()), f3(pass.Hi())))
			continue
		}
		lines = append(lines, fmt.Sprintf("(Pass %d: X-band [%s,%s])", i+1, f3(pass.Lo()), f3(pass.Hi())))

		xCut := pass.CutEdge(o.External)
		for _, iv := range pass.Cuts {
			if iv.Span() < 1e-9 {
				continue
			}
			if !o.AllowUndercut {
				if o.External && xCut < minX-undercutEps {
					continue
				}
				if !o.External && xCut > maxX+undercutEps {
					continue
				}
			}

			entry, exit := slicer.PickEntryExit(iv.Lo, iv.Hi, zDir)

			lines = appendG0(lines, fptr(xCut), fptr(o.SafeZ))
			currentX, currentZ = xCut, o.SafeZ
			if !nearly(currentZ, entry) {
				// The cutting edge is clear of material until the
				// interval starts, so the approach stays rapid.
				lines = appendG0(lines, nil, fptr(entry))
				currentZ = entry
			}
			lines = AppendFeedMove(lines,
				contour.Point{X: xCut, Z: entry},
				contour.Point{X: xCut, Z: exit},
				o.Feed, o.Pause)
			currentZ = exit

			lines, currentX, currentZ = roughLeadout(lines, segs, o, zDir, pass.Band, xCut, exit, currentX, currentZ)

			if rx, rz := o.Retract.Resolve(o.External, currentX, currentZ); rx != nil || rz != nil {
				lines = appendG0(lines, rx, rz)
				if rx != nil {
					currentX = *rx
				}
				if rz != nil {
					currentZ = *rz
				}
			} else {
				lines = appendG0(lines, nil, fptr(o.SafeZ))
				currentZ = o.SafeZ
			}
		}
	}
	return lines
}

// roughLeadout closes the gap up to the contour at the exit height and
// feeds a short distance along it. Skipped when the contour point lies
// beyond the current cutting edge into uncut material.
func roughLeadout(lines []string, segs []slicer.Segment, o RoughOptions, zDir int, band slicer.Band, xCut, zExit, currentX, currentZ float64) ([]string, float64, float64) {
	pt, segIdx, t, ok := slicer.FindContourAtZ(segs, zExit, band.Lo(), band.Hi(), o.External)
	if !ok {
		return lines, currentX, currentZ
	}
	if o.External && pt.X < xCut-undercutEps {
		return lines, currentX, currentZ
	}
	if !o.External && pt.X > xCut+undercutEps {
		return lines, currentX, currentZ
	}

	if !nearly(pt.X, currentX) {
		lines = append(lines, G1Line(fptr(pt.X), nil, o.Feed))
		currentX = pt.X
	}

	if o.LeadoutLength > 1e-9 {
		seg := segs[segIdx]
		dir := slicer.LeadoutStepDirection(seg.X1-seg.X0, seg.Z1-seg.Z0, zDir, o.External)
		lead := slicer.AdvanceAlong(segs, segIdx, t, o.LeadoutLength, dir)
		if !nearly(lead.X, currentX) || !nearly(lead.Z, currentZ) {
			lines = append(lines, G1Line(fptr(lead.X), fptr(lead.Z), o.Feed))
			currentX, currentZ = lead.X, lead.Z
		}
	}
	return lines, currentX, currentZ
}

// RoughParallelZ removes stock in Z-stepped bands, each cut feeding
// across X at the band's lower Z boundary (a facing-style pass). The
// cut intervals on X come from the full band, since the tool sweeps
// the whole band face.
func RoughParallelZ(path []contour.Point, o RoughOptions) []string {
	lines := []string{"(Schruppen parallel X)"}

	segs := slicer.FromPolyline(path)
	if len(segs) == 0 {
		return append(lines, "(Keine Kontur fuer Schruppen definiert)")
	}

	minX, maxX, _ := slicer.BoundsX(path)
	passes := slicer.PlanParallelZ(path, o.External, o.Stock, o.Target, o.Step)
	if len(passes) == 0 {
		return lines
	}

	startX := o.StartX
	currentX, currentZ := startX, o.SafeZ
	lines = appendG0(lines, nil, fptr(o.SafeZ))
	lines = appendG0(lines, fptr(startX), nil)

	hadPass := false
	for i, pass := range passes {
		if len(pass.Cuts) == 0 {
			lines = append(lines, fmt.Sprintf("(Pass %d: no cut region in band Z[%s,%s])",
				i+1, f3(pass.Lo()), f3(pass.Hi())))
			continue
		}
		lines = append(lines, fmt.Sprintf("(Pass %d: Z-band [%s,%s])", i+1, f3(pass.Lo()), f3(pass.Hi())))

		zCut := pass.Lo()
		passCut := false
		for _, iv := range pass.Cuts {
			if !o.AllowUndercut {
				if math.Max(iv.Lo, iv.Hi) < minX-undercutEps || math.Min(iv.Lo, iv.Hi) > maxX+undercutEps {
					continue
				}
			}

			if !passCut {
				passCut = true
				hadPass = true
				// Reposition to the band's start X without climbing all
				// the way back to the clearance plane.
				if !nearly(currentX, startX) {
					lines = appendG0(lines, fptr(startX), nil)
					currentX = startX
				}
			}

			lines = append(lines, G1Line(nil, fptr(zCut), o.Feed))
			currentZ = zCut
			cutTarget := math.Max(iv.Lo, iv.Hi)
			if o.External {
				cutTarget = math.Min(iv.Lo, iv.Hi)
			}
			lines = AppendFeedMove(lines,
				contour.Point{X: currentX, Z: zCut},
				contour.Point{X: cutTarget, Z: zCut},
				o.Feed, o.Pause)
			currentX = cutTarget

			if rx, rz := o.Retract.Resolve(o.External, currentX, currentZ); rx != nil || rz != nil {
				lines = appendG0(lines, rx, rz)
				if rx != nil {
					currentX = *rx
				}
				if rz != nil {
					currentZ = *rz
				}
			} else {
				lines = appendG0(lines, nil, fptr(o.SafeZ))
				currentZ = o.SafeZ
			}
		}
	}

	if hadPass && (!nearly(currentX, startX) || !nearly(currentZ, o.SafeZ)) {
		if !nearly(currentZ, o.SafeZ) {
			lines = appendG0(lines, nil, fptr(o.SafeZ))
		}
		if !nearly(currentX, startX) {
			lines = appendG0(lines, fptr(startX), nil)
		}
	}
	return lines
}
