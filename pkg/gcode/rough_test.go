package gcode

import (
	"strings"
	"testing"

	"github.com/chazu/lathestep/pkg/contour"
)

func steppedShaft() []contour.Point {
	return []contour.Point{
		{X: 20, Z: 0},
		{X: 20, Z: -15},
		{X: 40, Z: -15},
		{X: 40, Z: -40},
	}
}

func TestRoughParallelXSteppedShaft(t *testing.T) {
	o := RoughOptions{
		External: true,
		Stock:    40, Target: 20, Step: 10,
		SafeZ: 2, Feed: 0.25,
	}
	lines := RoughParallelX(steppedShaft(), o)
	joined := strings.Join(lines, "\n")

	if lines[0] != "(Schruppen parallel Z)" {
		t.Fatalf("unexpected header: %q", lines[0])
	}
	if !strings.Contains(joined, "(Pass 1:") || !strings.Contains(joined, "(Pass 2:") {
		t.Fatalf("expected two pass comments: %v", lines)
	}

	// Pass 2 cuts at X=20 along the front cylinder: position over the
	// entry, cut the full length to the shoulder, retract.
	for _, want := range []string{
		"G0 X20.000 Z2.000",
		"G0 Z0.000",
		"G1 Z-15.000 F0.250",
		"G0 Z2.000",
	} {
		if !strings.Contains(joined, want) {
			t.Errorf("missing %q in:\n%s", want, joined)
		}
	}
}

func TestRoughParallelXDegenerateIntervalSkipped(t *testing.T) {
	// Pass 1 (cut edge X=30) only grazes the shoulder: its sole
	// interval is a point, so the pass produces a comment and nothing
	// else.
	o := RoughOptions{
		External: true,
		Stock:    40, Target: 30, Step: 10,
		SafeZ: 2, Feed: 0.25,
	}
	lines := RoughParallelX(steppedShaft(), o)
	if n := countMotion(lines); n != 0 {
		t.Errorf("grazing pass must not move, got %d motion lines: %v", n, lines)
	}
}

func TestRoughParallelXEmptyContour(t *testing.T) {
	lines := RoughParallelX(nil, RoughOptions{External: true, Stock: 40, Target: 20, Step: 5})
	if len(lines) != 2 || !strings.Contains(lines[1], "Keine Kontur") {
		t.Errorf("expected the empty-contour comment, got %v", lines)
	}
}

func TestRoughParallelXRetractConfig(t *testing.T) {
	o := RoughOptions{
		External: true,
		Stock:    40, Target: 20, Step: 20,
		SafeZ: 2, Feed: 0.25,
		Retract: RetractCfg{X: fptr(1), Z: fptr(1)},
	}
	lines := RoughParallelX(steppedShaft(), o)
	joined := strings.Join(lines, "\n")

	// The cut closes up to the shoulder face before retracting.
	if !strings.Contains(joined, "G1 X40.000 F0.250") {
		t.Errorf("missing shoulder close-up move:\n%s", joined)
	}
	// Relative retract moves X outward and Z positive off the current
	// position instead of the plain climb to the clearance plane.
	if !strings.Contains(joined, "G0 X41.000 Z-14.000") {
		t.Errorf("missing combined relative retract:\n%s", joined)
	}
}

func TestRoughParallelZFacingPasses(t *testing.T) {
	path := []contour.Point{{X: 40, Z: 0}, {X: 40, Z: -30}}
	o := RoughOptions{
		External: true,
		Stock:    0, Target: -30, Step: 10,
		SafeZ: 2, Feed: 0.25, StartX: 44,
	}
	lines := RoughParallelZ(path, o)
	joined := strings.Join(lines, "\n")

	if lines[0] != "(Schruppen parallel X)" {
		t.Fatalf("unexpected header: %q", lines[0])
	}
	if lines[1] != "G0 Z2.000" || lines[2] != "G0 X44.000" {
		t.Fatalf("expected the two-line opening move, got %v", lines[1:3])
	}

	// Three Z bands, each plunging to the band floor and feeding across
	// to the contour diameter.
	for _, want := range []string{
		"G1 Z-10.000 F0.250",
		"G1 Z-20.000 F0.250",
		"G1 Z-30.000 F0.250",
		"G1 X40.000 F0.250",
	} {
		if !strings.Contains(joined, want) {
			t.Errorf("missing %q in:\n%s", want, joined)
		}
	}

	// After the last pass the tool returns to the start diameter.
	if last := lines[len(lines)-1]; last != "G0 X44.000" {
		t.Errorf("expected the final reposition to X44, got %q", last)
	}
}

func TestRoughParallelZNoPasses(t *testing.T) {
	path := []contour.Point{{X: 40, Z: 0}, {X: 40, Z: -30}}
	o := RoughOptions{External: true, Stock: 0, Target: -30, Step: 0, SafeZ: 2, StartX: 44}
	lines := RoughParallelZ(path, o)
	if len(lines) != 1 {
		t.Errorf("non-positive step must yield the header only, got %v", lines)
	}
}
