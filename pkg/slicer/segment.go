// Package slicer implements the axis-band geometry used to plan
// multi-pass stock removal: segment/band intersection, interval
// merging, pass-level computation, and the radial-offset alternative.
// It operates on polylines only and owns no state; every function is a
// pure function of its inputs.
package slicer

import (
	"math"

	"github.com/chazu/lathestep/pkg/contour"
)

// Segment is one directed polyline segment in the X/Z plane.
type Segment struct {
	X0, Z0 float64
	X1, Z1 float64
}

// FromPolyline decomposes a polyline into segments, dropping
// degenerate segments whose deltas are both ~zero.
func FromPolyline(path []contour.Point) []Segment {
	var segs []Segment
	for i := 1; i < len(path); i++ {
		a, b := path[i-1], path[i]
		if math.Abs(b.X-a.X) < 1e-12 && math.Abs(b.Z-a.Z) < 1e-12 {
			continue
		}
		segs = append(segs, Segment{X0: a.X, Z0: a.Z, X1: b.X, Z1: b.Z})
	}
	return segs
}

// Transpose swaps the axes of a segment. The parallel-Z planner reuses
// the X-band logic on transposed segments.
func (s Segment) Transpose() Segment {
	return Segment{X0: s.Z0, Z0: s.X0, X1: s.Z1, Z1: s.X1}
}

// PointAt evaluates the segment at parameter t in [0,1].
func (s Segment) PointAt(t float64) contour.Point {
	return contour.Point{
		X: s.X0 + (s.X1-s.X0)*t,
		Z: s.Z0 + (s.Z1-s.Z0)*t,
	}
}

// Length returns the Euclidean length of the segment.
func (s Segment) Length() float64 {
	return math.Hypot(s.X1-s.X0, s.Z1-s.Z0)
}

// IntersectXBand intersects a segment with an X band and returns the
// covered Z interval. A segment parallel to the band boundaries is
// fully inside iff its X coordinate lies within the band. The result is
// symmetric under reversed band bounds and reversed segment endpoints.
func IntersectXBand(s Segment, xLo, xHi float64) (Interval, bool) {
	if xLo > xHi {
		xLo, xHi = xHi, xLo
	}

	dx := s.X1 - s.X0

	// Parallel to the band boundary.
	if math.Abs(dx) < 1e-12 {
		if xLo-1e-12 <= s.X0 && s.X0 <= xHi+1e-12 {
			return Interval{Lo: math.Min(s.Z0, s.Z1), Hi: math.Max(s.Z0, s.Z1)}, true
		}
		return Interval{}, false
	}

	tLo := (xLo - s.X0) / dx
	tHi := (xHi - s.X0) / dx
	tEnter := math.Min(tLo, tHi)
	tExit := math.Max(tLo, tHi)

	a := math.Max(0, tEnter)
	b := math.Min(1, tExit)
	if b <= a {
		return Interval{}, false
	}

	zAt := func(t float64) float64 { return s.Z0 + (s.Z1-s.Z0)*t }
	za, zb := zAt(a), zAt(b)
	return Interval{Lo: math.Min(za, zb), Hi: math.Max(za, zb)}, true
}

// InferZDir guesses the dominant machining direction in Z from a path:
// -1 when the profile extends toward negative Z (the usual lathe case),
// +1 otherwise.
func InferZDir(path []contour.Point) int {
	if len(path) == 0 {
		return -1
	}
	zMin, zMax := path[0].Z, path[0].Z
	for _, p := range path[1:] {
		zMin = math.Min(zMin, p.Z)
		zMax = math.Max(zMax, p.Z)
	}
	if math.Abs(zMin) > math.Abs(zMax) {
		return -1
	}
	return +1
}

// PickEntryExit orders a Z interval according to the machining
// direction: with zDir < 0 the cut enters at the high end.
func PickEntryExit(zLow, zHigh float64, zDir int) (entry, exit float64) {
	if zDir < 0 {
		return zHigh, zLow
	}
	return zLow, zHigh
}

// LeadoutStepDirection picks the polyline walking direction for a
// lead-out move along the segment (dx, dz). External cuts never lead
// out toward smaller X.
func LeadoutStepDirection(segDX, segDZ float64, zDir int, external bool) int {
	var dir int
	if math.Abs(segDZ) < 1e-12 {
		if segDX >= 0 {
			dir = +1
		} else {
			dir = -1
		}
	} else {
		if segDZ*float64(zDir) > 0 {
			dir = +1
		} else {
			dir = -1
		}
	}
	if external && segDX*float64(dir) < 0 {
		dir = -dir
	}
	return dir
}

// FindContourAtZ locates the contour point at height z within the X
// band [xLo, xHi]. When several segments cross z, preferHighX selects
// the candidate with the larger X (external work) or smaller X
// (internal). Returns the point, the segment index, and the clamped
// segment parameter.
func FindContourAtZ(segs []Segment, z, xLo, xHi float64, preferHighX bool) (contour.Point, int, float64, bool) {
	const eps = 1e-6
	bestIdx := -1
	var bestT, bestX float64
	var bestPt contour.Point

	for idx, seg := range segs {
		dz := seg.Z1 - seg.Z0
		if math.Abs(dz) < 1e-12 {
			continue
		}
		t := (z - seg.Z0) / dz
		if t < -eps || t > 1+eps {
			continue
		}
		x := seg.X0 + (seg.X1-seg.X0)*t
		if x < xLo-eps || x > xHi+eps {
			continue
		}
		clamped := math.Max(0, math.Min(1, t))
		better := bestIdx < 0
		if !better {
			if preferHighX {
				better = x > bestX
			} else {
				better = x < bestX
			}
		}
		if better {
			bestIdx = idx
			bestT = clamped
			bestX = x
			bestPt = contour.Point{X: x, Z: z}
		}
	}

	if bestIdx < 0 {
		return contour.Point{}, 0, 0, false
	}
	return bestPt, bestIdx, bestT, true
}

// AdvanceAlong walks a distance along the polyline starting from
// parameter t on segment segIdx, in the given direction (+1 forward,
// -1 backward), clamping at the polyline ends.
func AdvanceAlong(segs []Segment, segIdx int, t, length float64, direction int) contour.Point {
	const eps = 1e-6
	if len(segs) == 0 {
		return contour.Point{}
	}
	dirSign := 1
	if direction < 0 {
		dirSign = -1
	}
	curIdx := segIdx
	curT := t
	remaining := math.Max(length, 0)

	for remaining > eps {
		seg := segs[curIdx]
		segLen := seg.Length()
		if segLen < 1e-12 {
			nextIdx := curIdx + dirSign
			if nextIdx < 0 || nextIdx >= len(segs) {
				return seg.PointAt(curT)
			}
			curIdx = nextIdx
			if dirSign == 1 {
				curT = 0
			} else {
				curT = 1
			}
			continue
		}

		remainingOnSeg := segLen * curT
		targetT := 0.0
		if dirSign == 1 {
			remainingOnSeg = segLen * (1 - curT)
			targetT = 1.0
		}
		if remainingOnSeg >= remaining-eps {
			deltaT := remaining / segLen
			newT := curT + float64(dirSign)*deltaT
			return seg.PointAt(math.Max(0, math.Min(1, newT)))
		}
		remaining -= remainingOnSeg

		nextIdx := curIdx + dirSign
		if nextIdx < 0 || nextIdx >= len(segs) {
			return seg.PointAt(targetT)
		}
		curIdx = nextIdx
		if dirSign == 1 {
			curT = 0
		} else {
			curT = 1
		}
	}

	return segs[curIdx].PointAt(curT)
}

// BoundsX returns the min and max X over a path. ok is false for an
// empty path.
func BoundsX(path []contour.Point) (lo, hi float64, ok bool) {
	if len(path) == 0 {
		return 0, 0, false
	}
	lo, hi = path[0].X, path[0].X
	for _, p := range path[1:] {
		lo = math.Min(lo, p.X)
		hi = math.Max(hi, p.X)
	}
	return lo, hi, true
}

// BoundsZ returns the min and max Z over a path. ok is false for an
// empty path.
func BoundsZ(path []contour.Point) (lo, hi float64, ok bool) {
	if len(path) == 0 {
		return 0, 0, false
	}
	lo, hi = path[0].Z, path[0].Z
	for _, p := range path[1:] {
		lo = math.Min(lo, p.Z)
		hi = math.Max(hi, p.Z)
	}
	return lo, hi, true
}
