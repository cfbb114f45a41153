// Package contour defines the workpiece contour model and the path
// builders that turn declarative contour descriptions into 2D polylines.
// All coordinates are in the workpiece X/Z system; X is a diameter
// value, not a radius.
package contour

// Point is a position in the X/Z plane. X is a diameter.
type Point struct {
	X float64
	Z float64
}

// ElementType enumerates the kinds of contour elements, following
// classic conversational lathe programming.
type ElementType int

const (
	// LineZ is a straight line moving only in Z.
	LineZ ElementType = iota
	// LineX is a straight line moving only in X.
	LineX
	// LineXZ is a straight line moving in both axes.
	LineXZ
	// ArcConcave is an inside radius.
	ArcConcave
	// ArcConvex is an outside radius.
	ArcConvex
)

// String returns the element type name for diagnostics.
func (t ElementType) String() string {
	switch t {
	case LineZ:
		return "line-z"
	case LineX:
		return "line-x"
	case LineXZ:
		return "line-xz"
	case ArcConcave:
		return "arc-concave"
	case ArcConvex:
		return "arc-convex"
	}
	return "unknown"
}

// IsArc reports whether the element type is one of the arc variants.
func (t ElementType) IsArc() bool {
	return t == ArcConcave || t == ArcConvex
}

// IsLine reports whether the element type is one of the line variants.
func (t ElementType) IsLine() bool {
	return t == LineZ || t == LineX || t == LineXZ
}

// Element is a single contour element ending at End. Radius and CW are
// only meaningful for arc types; their absence on an arc is a validation
// issue, not a structural one. Builders and emitters degrade to a
// straight move instead of failing.
type Element struct {
	Type ElementType
	End  Point

	// Radius of the arc. nil means unspecified.
	Radius *float64
	// CW is the rotation sense: true is clockwise (G2). nil means
	// unspecified.
	CW *bool

	// Eligibility flags for roughing and finishing stages.
	Roughing  bool
	Finishing bool
}

// Contour is a complete workpiece profile: a start point plus an
// ordered element sequence. Each element's end point is the implicit
// start of the next.
type Contour struct {
	Start    Point
	Elements []Element
	Name     string
}

// Add appends an element to the contour.
func (c *Contour) Add(e Element) {
	c.Elements = append(c.Elements, e)
}

// IsEmpty reports whether the contour has no elements.
func (c *Contour) IsEmpty() bool {
	return c == nil || len(c.Elements) == 0
}

// Issue describes a single validation finding. Index is the element
// index, or -1 for contour-level issues.
type Issue struct {
	Index   int
	Message string
}

// Validate runs plausibility checks on a contour. Issues are advisory:
// the path builder accepts any contour and degrades gracefully.
func Validate(c *Contour) []Issue {
	var issues []Issue

	if c.IsEmpty() {
		issues = append(issues, Issue{Index: -1, Message: "contour has no elements"})
	}

	for i, e := range c.Elements {
		if !e.Type.IsArc() {
			continue
		}
		if e.Radius == nil {
			issues = append(issues, Issue{Index: i, Message: "arc without radius"})
		}
		if e.CW == nil {
			issues = append(issues, Issue{Index: i, Message: "arc without rotation sense"})
		}
	}

	return issues
}
