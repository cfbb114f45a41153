package gcode

import (
	"strings"
	"testing"
)

func faceParams() Params {
	return Params{
		"depth_max": 2.0,
		"feed":      0.3,
		"spindle":   1000,
		"tool":      1,
		"start_x":   42.0,
		"start_z":   6.0,
		"end_x":     -0.8,
		"end_z":     0.0,
		"retract":   1.0,
	}
}

func TestFaceEvenPassDistribution(t *testing.T) {
	op := &Operation{Type: OpFace, Params: faceParams()}
	op.Params["mode"] = 0
	lines, err := Face(op, &Settings{}, NewState())
	if err != nil {
		t.Fatalf("Face: %v", err)
	}
	joined := strings.Join(lines, "\n")

	// 6mm of stock with a 2mm cap: three equal passes of exactly 2mm.
	if !strings.Contains(joined, "(Schruppen Planflaeche: 3 Schnitte a 2.000)") {
		t.Fatalf("missing pass-distribution comment:\n%s", joined)
	}
	for _, want := range []string{
		"G1 Z4.000 F0.300",
		"G1 Z2.000 F0.300",
		"G1 Z0.000 F0.300",
		"G1 X-0.800 F0.300",
	} {
		if !strings.Contains(joined, want) {
			t.Errorf("missing %q in:\n%s", want, joined)
		}
	}
}

func TestFaceUnevenStockRoundsPassCountUp(t *testing.T) {
	op := &Operation{Type: OpFace, Params: faceParams()}
	op.Params["mode"] = 0
	op.Params["start_z"] = 5.0
	lines, err := Face(op, &Settings{}, NewState())
	if err != nil {
		t.Fatalf("Face: %v", err)
	}
	// 5mm at max 2mm: three passes of 1.667, never a deep pass plus a
	// sliver.
	if !strings.Contains(strings.Join(lines, "\n"), "(Schruppen Planflaeche: 3 Schnitte a 1.667)") {
		t.Errorf("expected 3 even passes, got:\n%s", strings.Join(lines, "\n"))
	}
}

func TestFaceFinishChamferEdge(t *testing.T) {
	op := &Operation{Type: OpFace, Params: faceParams()}
	op.Params["mode"] = 1
	op.Params["start_z"] = 0.0
	op.Params["start_x"] = 40.0
	op.Params["end_x"] = 0.0
	op.Params["edge_type"] = 1
	op.Params["edge_size"] = 1.0
	lines, err := Face(op, &Settings{}, NewState())
	if err != nil {
		t.Fatalf("Face: %v", err)
	}
	joined := strings.Join(lines, "\n")

	// Chamfer: enter one leg above the face, land with the diameter
	// reduced by two legs, then sweep to center.
	for _, want := range []string{
		"(Schlichten Planflaeche)",
		"G1 Z-1.000 F0.300",
		"G1 X38.000 Z0.000 F0.300",
		"G1 X0.000 Z0.000 F0.300",
	} {
		if !strings.Contains(joined, want) {
			t.Errorf("missing %q in:\n%s", want, joined)
		}
	}
}

func TestFaceMissingSpindle(t *testing.T) {
	p := faceParams()
	delete(p, "spindle")
	op := &Operation{Type: OpFace, Params: p}
	if _, err := Face(op, &Settings{}, NewState()); err == nil {
		t.Fatal("expected an error for the missing spindle parameter")
	}
}

func TestFaceReturnsToStart(t *testing.T) {
	op := &Operation{Type: OpFace, Params: faceParams()}
	lines, err := Face(op, &Settings{}, NewState())
	if err != nil {
		t.Fatalf("Face: %v", err)
	}
	if last := lines[len(lines)-1]; last != "G0 X42.000" {
		t.Errorf("expected the final return to the start diameter, got %q", last)
	}
	if prev := lines[len(lines)-2]; prev != "G0 Z7.000" {
		t.Errorf("expected the clearance climb before the return, got %q", prev)
	}
}
