package slicer

import (
	"math"

	"github.com/chazu/lathestep/pkg/contour"
)

// Band is one pass band on the stepping axis, stored in walking order
// (High is the boundary closer to the stock, Low the one closer to the
// target on external work; reversed for internal work).
type Band struct {
	High, Low float64
}

// Lo returns the smaller band boundary.
func (b Band) Lo() float64 { return math.Min(b.High, b.Low) }

// Hi returns the larger band boundary.
func (b Band) Hi() float64 { return math.Max(b.High, b.Low) }

// Pass is one roughing slice: a band on the stepping axis plus the
// merged cut intervals on the orthogonal axis.
type Pass struct {
	Band
	Cuts []Interval
}

// cutEdgeEps is the half-width of the thin probe band placed at a
// pass's cutting edge when collecting intervals.
const cutEdgeEps = 1e-3

// PassLevels walks from the stock coordinate toward the target in
// increments of step. The final increment is clamped so the last band
// boundary equals the target exactly. step <= 0 yields no passes.
func PassLevels(stock, target, step float64, external bool) []Band {
	if step <= 0 {
		return nil
	}
	var bands []Band
	if external {
		x := stock
		for x > target+1e-9 {
			hi := x
			lo := math.Max(target, x-step)
			bands = append(bands, Band{High: hi, Low: lo})
			x = lo
		}
	} else {
		x := stock
		for x < target-1e-9 {
			lo := x
			hi := math.Min(target, x+step)
			bands = append(bands, Band{High: hi, Low: lo})
			x = hi
		}
	}
	return bands
}

// CutEdge returns the stepping-axis coordinate the tool actually cuts
// at for a band: the boundary nearer the target.
func (b Band) CutEdge(external bool) float64 {
	if external {
		return b.Low
	}
	return b.High
}

// PlanParallelX computes the pass plan for roughing with X-stepped
// bands (cuts run parallel to Z). For each band, every contour segment
// is probed with a thin band at the cutting edge and the resulting Z
// intervals are merged.
func PlanParallelX(path []contour.Point, external bool, stock, target, step float64) []Pass {
	segs := FromPolyline(path)
	bands := PassLevels(stock, target, step, external)

	passes := make([]Pass, 0, len(bands))
	for _, band := range bands {
		xCut := band.CutEdge(external)
		var hits []Interval
		for _, s := range segs {
			if iv, ok := IntersectXBand(s, xCut-cutEdgeEps, xCut+cutEdgeEps); ok {
				hits = append(hits, iv)
			}
		}
		passes = append(passes, Pass{Band: band, Cuts: MergeIntervals(hits)})
	}
	return passes
}

// PlanParallelZ computes the pass plan for roughing with Z-stepped
// bands (cuts run parallel to X). It transposes each segment and reuses
// the X-band intersection; unlike the X planner, the full band is
// probed, since the cut feeds across the whole band face.
func PlanParallelZ(path []contour.Point, external bool, stock, target, step float64) []Pass {
	segs := FromPolyline(path)
	bands := PassLevels(stock, target, step, external)

	passes := make([]Pass, 0, len(bands))
	for _, band := range bands {
		var hits []Interval
		for _, s := range segs {
			if iv, ok := IntersectXBand(s.Transpose(), band.Lo(), band.Hi()); ok {
				hits = append(hits, iv)
			}
		}
		passes = append(passes, Pass{Band: band, Cuts: MergeIntervals(hits)})
	}
	return passes
}
