package contour

// arcSteps is the fixed segment count used for the linear arc
// stand-in. The approximation is intentionally linear, not a true
// circular interpolation: no radius-consistent arc law is defined for
// built paths, and downstream consumers (slicer, preview) rely on the
// polyline staying exactly where the stand-in puts it.
const arcSteps = 4

// BuildPath computes the polyline for a contour. The first point is
// exactly the contour's start point; an empty contour yields an empty
// path. Unknown element types draw nothing but do not break the
// reference point for subsequent elements.
func BuildPath(c *Contour) []Point {
	if c.IsEmpty() {
		return nil
	}

	cur := c.Start
	path := []Point{cur}

	for _, e := range c.Elements {
		seg := buildSegment(cur, e)
		if len(seg) == 0 {
			continue
		}
		cur = seg[len(seg)-1]
		// seg[0] duplicates the current position.
		path = append(path, seg[1:]...)
	}

	return path
}

// buildSegment expands one element into points starting at from.
func buildSegment(from Point, e Element) []Point {
	end := e.End

	if e.Type.IsLine() {
		// The Z-only/X-only variants are a documentation convention;
		// geometrically each line just draws to its stored end point.
		return []Point{from, end}
	}

	if e.Type.IsArc() {
		pts := make([]Point, 0, arcSteps+1)
		pts = append(pts, from)
		for i := 1; i <= arcSteps; i++ {
			t := float64(i) / arcSteps
			pts = append(pts, Point{
				X: from.X + (end.X-from.X)*t,
				Z: from.Z + (end.Z-from.Z)*t,
			})
		}
		return pts
	}

	// Unknown type: draw nothing.
	return nil
}

// CleanPath removes consecutive duplicate points.
func CleanPath(path []Point) []Point {
	if len(path) == 0 {
		return path
	}
	cleaned := []Point{path[0]}
	for _, p := range path[1:] {
		if p != cleaned[len(cleaned)-1] {
			cleaned = append(cleaned, p)
		}
	}
	return cleaned
}
