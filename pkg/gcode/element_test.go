package gcode

import (
	"strings"
	"testing"

	"github.com/chazu/lathestep/pkg/contour"
)

func TestElementLinesArcWords(t *testing.T) {
	r := 3.0
	cw := true
	e := contour.Element{
		Type:   contour.ArcConvex,
		End:    contour.Point{X: 36, Z: -13},
		Radius: &r,
		CW:     &cw,
	}
	lines := ElementLines(contour.Point{X: 30, Z: -10}, e, 0.2)
	if len(lines) != 1 || lines[0] != "G2 X36.000 Z-13.000 R3.000 F0.200" {
		t.Errorf("unexpected arc line: %v", lines)
	}

	ccw := false
	e.CW = &ccw
	lines = ElementLines(contour.Point{X: 30, Z: -10}, e, 0.2)
	if lines[0] != "G3 X36.000 Z-13.000 R3.000 F0.200" {
		t.Errorf("counter-clockwise arc must use G3: %v", lines)
	}
}

func TestElementLinesUnderspecifiedArcDegrades(t *testing.T) {
	e := contour.Element{
		Type: contour.ArcConvex,
		End:  contour.Point{X: 36, Z: -13},
	}
	lines := ElementLines(contour.Point{X: 30, Z: -10}, e, 0.2)
	if len(lines) != 1 || !strings.HasPrefix(lines[0], "G1 ") {
		t.Errorf("arc without radius and sense must degrade to G1: %v", lines)
	}
}

func TestForContourTrace(t *testing.T) {
	c := &contour.Contour{Start: contour.Point{X: 30, Z: 0}}
	c.Add(contour.Element{Type: contour.LineZ, End: contour.Point{X: 30, Z: -20}})
	c.Add(contour.Element{Type: contour.LineX, End: contour.Point{X: 40, Z: -20}})

	lines := ForContour(c, 0.2, 2.0)
	want := []string{
		"G0 X30.000 Z2.000",
		"G1 Z0.000 F0.200",
		"G1 X30.000 Z-20.000 F0.200",
		"G1 X40.000 Z-20.000 F0.200",
		"G0 Z2.000",
	}
	if len(lines) != len(want) {
		t.Fatalf("expected %d lines, got %v", len(want), lines)
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Errorf("line %d: got %q, want %q", i, lines[i], want[i])
		}
	}
}

func TestForContourEmpty(t *testing.T) {
	lines := ForContour(&contour.Contour{}, 0.2, 2.0)
	if len(lines) != 1 || !strings.Contains(lines[0], "Keine Konturpunkte") {
		t.Errorf("empty contour must yield the placeholder comment: %v", lines)
	}
}
