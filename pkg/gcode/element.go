package gcode

import "github.com/chazu/lathestep/pkg/contour"

// ElementLines emits the motion for one contour element, from the
// given start point to the element's end. Arcs with a radius and a
// direction become G2/G3 with an R word; an underspecified arc
// degrades to a straight move so the program stays runnable.
func ElementLines(from contour.Point, e contour.Element, feed float64) []string {
	if e.Type.IsArc() && e.Radius != nil && e.CW != nil {
		word := "G3"
		if *e.CW {
			word = "G2"
		}
		return []string{word + " X" + f3(e.End.X) + " Z" + f3(e.End.Z) + " R" + f3(*e.Radius) + feedWord(feed)}
	}
	return []string{G1Line(fptr(e.End.X), fptr(e.End.Z), feed)}
}

// ForContour emits a full finishing trace of a contour in element
// form: rapid above the start, feed down, then one motion line per
// element.
func ForContour(c *contour.Contour, feed, safeZ float64) []string {
	if c == nil || c.IsEmpty() {
		return []string{"(Keine Konturpunkte definiert)"}
	}
	lines := appendG0(nil, fptr(c.Start.X), fptr(safeZ))
	lines = append(lines, G1Line(nil, fptr(c.Start.Z), feed))
	from := c.Start
	for _, e := range c.Elements {
		lines = append(lines, ElementLines(from, e, feed)...)
		from = e.End
	}
	return appendG0(lines, nil, fptr(safeZ))
}

func feedWord(feed float64) string {
	if feed <= 0 {
		return ""
	}
	return " F" + f3(feed)
}
