package gcode

import (
	"strings"
	"testing"

	"github.com/chazu/lathestep/pkg/contour"
)

func TestGrooveReducedFeedSwitch(t *testing.T) {
	op := &Operation{
		Type: OpGroove,
		Params: Params{
			"tool":                 4,
			"spindle":              1000,
			"feed":                 0.1,
			"safe_z":               2.0,
			"reduced_feed":         0.05,
			"reduced_feed_start_x": 20.0,
			"reduced_rpm":          300,
		},
		Path: []contour.Point{
			{X: 40, Z: -5},
			{X: 25, Z: -5},
			{X: 10, Z: -5},
			{X: 5, Z: -5},
		},
	}
	lines, err := Groove(op, &Settings{}, NewState())
	if err != nil {
		t.Fatalf("Groove: %v", err)
	}
	joined := strings.Join(lines, "\n")

	for _, want := range []string{
		"G1 X25.000 Z-5.000 F0.100",
		"(Reduzierter Vorschub)",
		"S300",
		"G1 X10.000 Z-5.000 F0.050",
	} {
		if !strings.Contains(joined, want) {
			t.Errorf("missing %q in:\n%s", want, joined)
		}
	}

	// Unchanged feed must not repeat the F word.
	if !strings.Contains(joined, "\nG1 X5.000 Z-5.000\n") {
		t.Errorf("repeated F word on unchanged feed:\n%s", joined)
	}

	// After the cut the spindle speed is restored.
	if last := lines[len(lines)-1]; last != "S1000" {
		t.Errorf("expected the spindle restore last, got %q", last)
	}

	// Retract first in X to the entry diameter, then to the clearance
	// plane.
	if !strings.Contains(joined, "G0 X40.000\nG0 Z2.000") {
		t.Errorf("missing retract sequence:\n%s", joined)
	}
}

func TestGrooveWithoutReduction(t *testing.T) {
	op := &Operation{
		Type: OpGroove,
		Params: Params{
			"tool":   4,
			"feed":   0.1,
			"safe_z": 2.0,
		},
		Path: []contour.Point{{X: 40, Z: -5}, {X: 20, Z: -5}},
	}
	lines, err := Groove(op, &Settings{}, NewState())
	if err != nil {
		t.Fatalf("Groove: %v", err)
	}
	joined := strings.Join(lines, "\n")
	if strings.Contains(joined, "Reduzierter") {
		t.Errorf("reduction must stay off without its parameters:\n%s", joined)
	}
	if !strings.Contains(joined, "G1 X20.000 Z-5.000 F0.100") {
		t.Errorf("missing plunge move:\n%s", joined)
	}
}

func TestGrooveEmptyPath(t *testing.T) {
	op := &Operation{
		Type:   OpGroove,
		Params: Params{"tool": 4, "feed": 0.1, "safe_z": 2.0},
	}
	lines, err := Groove(op, &Settings{}, NewState())
	if err != nil {
		t.Fatalf("Groove: %v", err)
	}
	if !strings.Contains(strings.Join(lines, "\n"), "Keine Konturpunkte") {
		t.Errorf("expected the empty-contour comment, got %v", lines)
	}
}
