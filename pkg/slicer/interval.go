package slicer

import "sort"

// Interval is a [Lo, Hi] range on one axis.
type Interval struct {
	Lo, Hi float64
}

// Span returns the interval length.
func (iv Interval) Span() float64 {
	return iv.Hi - iv.Lo
}

// mergeGap is the tolerance under which adjacent intervals are
// considered contiguous and absorbed into one run.
const mergeGap = 1e-6

// MergeIntervals sorts intervals ascending by their low bound and
// absorbs any interval starting within mergeGap of the running high
// bound. The result is disjoint, ascending, and minimal; merging is
// idempotent. The input slice is not modified.
func MergeIntervals(intervals []Interval) []Interval {
	if len(intervals) == 0 {
		return nil
	}

	sorted := make([]Interval, len(intervals))
	copy(sorted, intervals)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Lo < sorted[j].Lo })

	merged := make([]Interval, 0, len(sorted))
	cur := sorted[0]
	for _, iv := range sorted[1:] {
		if iv.Lo <= cur.Hi+mergeGap {
			if iv.Hi > cur.Hi {
				cur.Hi = iv.Hi
			}
		} else {
			merged = append(merged, cur)
			cur = iv
		}
	}
	merged = append(merged, cur)
	return merged
}
