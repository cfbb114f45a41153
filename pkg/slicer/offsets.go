package slicer

import (
	"math"

	"github.com/chazu/lathestep/pkg/contour"
)

// RadialOffsets computes the profile-parallel roughing schedule: a
// non-increasing sequence of stepping-axis offsets from the stock down
// to exactly 0.0, spaced by depthPerPass. Consecutive duplicates within
// tolerance are collapsed. An empty path or a stock coordinate inside
// the path's X range yields the single offset 0.
func RadialOffsets(stockX float64, path []contour.Point, depthPerPass float64) []float64 {
	if len(path) == 0 {
		return []float64{0}
	}

	minX, maxX, _ := BoundsX(path)

	var start float64
	switch {
	case stockX >= maxX:
		start = stockX - minX
	case stockX <= minX:
		start = maxX - stockX
	default:
		start = 0
	}

	if start <= 1e-6 {
		return []float64{0}
	}
	if depthPerPass <= 0 {
		return []float64{start, 0}
	}

	passes := int(math.Ceil(start / depthPerPass))
	offsets := make([]float64, 0, passes+2)
	for i := 0; i <= passes; i++ {
		cur := math.Max(round6(start-float64(i)*depthPerPass), 0)
		if len(offsets) > 0 && math.Abs(offsets[len(offsets)-1]-cur) < 1e-6 {
			continue
		}
		offsets = append(offsets, cur)
	}
	if offsets[len(offsets)-1] != 0 {
		offsets = append(offsets, 0)
	}
	return offsets
}

// OffsetPath shifts the whole polyline along X by offset, toward or
// away from the stock boundary depending on which side of the path's X
// range the stock lies. Points never move past the stock coordinate.
// When the stock lies inside the range the path shifts uniformly.
func OffsetPath(path []contour.Point, stockX, offset float64) []contour.Point {
	out := make([]contour.Point, 0, len(path))
	if offset <= 1e-6 {
		return append(out, path...)
	}

	minX, maxX, ok := BoundsX(path)
	if !ok {
		return out
	}

	switch {
	case stockX >= maxX:
		for _, p := range path {
			out = append(out, contour.Point{X: math.Min(p.X+offset, stockX), Z: p.Z})
		}
	case stockX <= minX:
		for _, p := range path {
			out = append(out, contour.Point{X: math.Max(p.X-offset, stockX), Z: p.Z})
		}
	default:
		for _, p := range path {
			out = append(out, contour.Point{X: p.X + offset, Z: p.Z})
		}
	}
	return out
}

func round6(v float64) float64 {
	return math.Round(v*1e6) / 1e6
}
