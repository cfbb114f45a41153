package contour

import (
	"math"
	"strconv"
	"strings"
)

// AxisMode selects which coordinates of a table row apply.
type AxisMode int

const (
	// AxisXZ applies both coordinates.
	AxisXZ AxisMode = iota
	// AxisX applies only the X coordinate.
	AxisX
	// AxisZ applies only the Z coordinate.
	AxisZ
)

// CornerType selects the corner treatment applied at a row's end point.
type CornerType int

const (
	CornerNone CornerType = iota
	CornerChamfer
	CornerRadius
)

// TableRow is one row of the segment-table contour input: target
// coordinates (with explicit unset flags), an axis mode, and an
// optional corner treatment taking effect at the row's end point.
//
// An unset coordinate keeps the previous value in absolute mode and
// contributes a zero delta in incremental mode.
type TableRow struct {
	Mode       AxisMode
	X, Z       float64
	XSet, ZSet bool
	Corner     CornerType
	CornerSize float64
}

// cornerClamp limits a corner offset to just under half of either
// adjacent segment so the replacement points cannot cross each other.
const cornerClamp = 0.499

// radiusInnerPoints is the number of interpolated points inserted
// between the two corner-cut points of a radius corner. Like the arc
// elements, the fillet is a linear placeholder, not circular math.
const radiusInnerPoints = 3

// BuildTablePath computes the polyline for a segment-table contour
// starting at start. In incremental mode each set coordinate is added
// to the running position; in absolute mode it replaces it.
func BuildTablePath(start Point, rows []TableRow, incremental bool) []Point {
	raw := rawPoints(start, rows, incremental)
	treated := applyCorners(raw, rows)
	return CleanPath(treated)
}

// rawPoints walks the rows producing one point per row, plus the start.
func rawPoints(start Point, rows []TableRow, incremental bool) []Point {
	pts := make([]Point, 0, len(rows)+1)
	pts = append(pts, start)
	cur := start

	for _, r := range rows {
		xSet, zSet := r.XSet, r.ZSet
		switch r.Mode {
		case AxisX:
			zSet = false
		case AxisZ:
			xSet = false
		}

		if incremental {
			if xSet {
				cur.X += r.X
			}
			if zSet {
				cur.Z += r.Z
			}
		} else {
			if xSet {
				cur.X = r.X
			}
			if zSet {
				cur.Z = r.Z
			}
		}
		pts = append(pts, cur)
	}

	return pts
}

// applyCorners replaces interior corner points with chamfer or radius
// stand-ins. raw[i+1] is the end point of rows[i]; the final point
// never receives corner treatment because no outgoing segment exists.
func applyCorners(raw []Point, rows []TableRow) []Point {
	out := make([]Point, 0, len(raw))
	out = append(out, raw[0])

	for i, r := range rows {
		ci := i + 1 // corner point index in raw
		last := ci == len(raw)-1
		if last || r.Corner == CornerNone || r.CornerSize <= 0 {
			out = append(out, raw[ci])
			continue
		}

		prev, corner, next := raw[ci-1], raw[ci], raw[ci+1]
		inX, inZ := corner.X-prev.X, corner.Z-prev.Z
		outX, outZ := next.X-corner.X, next.Z-corner.Z
		inLen := math.Hypot(inX, inZ)
		outLen := math.Hypot(outX, outZ)
		if inLen < 1e-12 || outLen < 1e-12 {
			// Degenerate neighbour: straight pass-through.
			out = append(out, corner)
			continue
		}

		d := r.CornerSize
		if m := cornerClamp * inLen; d > m {
			d = m
		}
		if m := cornerClamp * outLen; d > m {
			d = m
		}

		entry := Point{X: corner.X - inX/inLen*d, Z: corner.Z - inZ/inLen*d}
		exit := Point{X: corner.X + outX/outLen*d, Z: corner.Z + outZ/outLen*d}

		switch r.Corner {
		case CornerChamfer:
			out = append(out, entry, exit)
		case CornerRadius:
			out = append(out, entry)
			for k := 1; k <= radiusInnerPoints; k++ {
				t := float64(k) / (radiusInnerPoints + 1)
				// Quadratic blend through the corner point, sampled
				// into straight segments.
				u := 1 - t
				out = append(out, Point{
					X: u*u*entry.X + 2*u*t*corner.X + t*t*exit.X,
					Z: u*u*entry.Z + 2*u*t*corner.Z + t*t*exit.Z,
				})
			}
			out = append(out, exit)
		}
	}

	return out
}

// ParseCell converts a table cell's text to a coordinate value.
// Malformed or empty text means "unset": the second result is false and
// the value is zero. Parsing never fails hard; a typo in one cell must
// not take down the whole table.
func ParseCell(text string) (float64, bool) {
	s := strings.TrimSpace(text)
	if s == "" {
		return 0, false
	}
	s = strings.ReplaceAll(s, ",", ".")
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
