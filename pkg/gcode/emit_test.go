package gcode

import (
	"strings"
	"testing"

	"github.com/chazu/lathestep/pkg/contour"
)

func TestG0LineWordOrder(t *testing.T) {
	if got := G0Line(fptr(12.3456), fptr(-7.8)); got != "G0 X12.346 Z-7.800" {
		t.Errorf("unexpected G0 line: %q", got)
	}
	if got := G0Line(nil, fptr(2)); got != "G0 Z2.000" {
		t.Errorf("unexpected Z-only G0 line: %q", got)
	}
	if got := G0Line(fptr(40), nil); got != "G0 X40.000" {
		t.Errorf("unexpected X-only G0 line: %q", got)
	}
	if got := G0Line(nil, nil); got != "" {
		t.Errorf("both-nil G0 must be empty, got %q", got)
	}
}

func TestG1LineFeedWord(t *testing.T) {
	if got := G1Line(fptr(1), fptr(2), 0.25); got != "G1 X1.000 Z2.000 F0.250" {
		t.Errorf("unexpected G1 line: %q", got)
	}
	if got := G1Line(nil, fptr(-5), 0); got != "G1 Z-5.000" {
		t.Errorf("zero feed must omit the F word, got %q", got)
	}
}

func TestSanitizeText(t *testing.T) {
	got := SanitizeText("Größe 5° über µm")
	want := "Groesse 5deg ueber um"
	if got != want {
		t.Errorf("SanitizeText: got %q, want %q", got, want)
	}
	if got := SanitizeText("日本"); got != "??" {
		t.Errorf("non-ASCII must degrade to '?', got %q", got)
	}
}

func TestSanitizeComment(t *testing.T) {
	got := SanitizeComment("  Plan (vorne)   fertig ")
	if got != "Plan vorne fertig" {
		t.Errorf("SanitizeComment: got %q", got)
	}
	if strings.ContainsAny(got, "()") {
		t.Errorf("comment text must not contain parens: %q", got)
	}
	// Character-set mapping happens once, at program assembly.
	if got := SanitizeComment("Schruppen (außen)"); got != "Schruppen außen" {
		t.Errorf("comment sanitizing must not transliterate: %q", got)
	}
}

func countDwells(lines []string) int {
	n := 0
	for _, l := range lines {
		if strings.HasPrefix(l, "G4 ") {
			n++
		}
	}
	return n
}

func TestBreakSegmentJustOverMultiple(t *testing.T) {
	cfg := PauseCfg{Enabled: true, Distance: 5, Duration: 0.5}
	lines := BreakSegment(contour.Point{X: 10, Z: 0}, contour.Point{X: 10, Z: -10.1}, 0.2, cfg)

	if got := countDwells(lines); got != 2 {
		t.Fatalf("L=10.1, d=5: expected 2 dwells, got %d in %v", got, lines)
	}
	last := lines[len(lines)-1]
	if last != "G1 X10.000 Z-10.100 F0.200" {
		t.Errorf("expected trailing move to the endpoint, got %q", last)
	}
}

func TestBreakSegmentExactMultiple(t *testing.T) {
	cfg := PauseCfg{Enabled: true, Distance: 5, Duration: 0.5}
	lines := BreakSegment(contour.Point{X: 10, Z: 0}, contour.Point{X: 10, Z: -10}, 0.2, cfg)

	if got := countDwells(lines); got != 2 {
		t.Fatalf("L=10, d=5: expected 2 dwells, got %d in %v", got, lines)
	}
	// The final dwell lands on the endpoint; no trailing move follows.
	last := lines[len(lines)-1]
	if last != "G4 P0.500" {
		t.Errorf("exact multiple must end on a dwell, got %q", last)
	}
	prev := lines[len(lines)-2]
	if prev != "G1 X10.000 Z-10.000 F0.200" {
		t.Errorf("final move must land on the endpoint, got %q", prev)
	}
}

func TestAppendFeedMoveShortSegmentNoPause(t *testing.T) {
	cfg := PauseCfg{Enabled: true, Distance: 5, Duration: 0.5}
	lines := AppendFeedMove(nil, contour.Point{X: 0, Z: 0}, contour.Point{X: 0, Z: -4}, 0.2, cfg)
	if len(lines) != 1 {
		t.Fatalf("expected a single move, got %v", lines)
	}
	if countDwells(lines) != 0 {
		t.Errorf("segment shorter than the pause distance must not dwell: %v", lines)
	}
}

func TestAppendFeedMoveDisabledPause(t *testing.T) {
	lines := AppendFeedMove(nil, contour.Point{X: 0, Z: 0}, contour.Point{X: 0, Z: -50}, 0.2, PauseCfg{})
	if len(lines) != 1 || countDwells(lines) != 0 {
		t.Errorf("disabled pausing must emit one plain move, got %v", lines)
	}
}

func TestAppendFeedMoveModalWords(t *testing.T) {
	// The plain move omits the axis that does not change.
	lines := AppendFeedMove(nil, contour.Point{X: 20, Z: 0}, contour.Point{X: 20, Z: -15}, 0.25, PauseCfg{})
	if len(lines) != 1 || lines[0] != "G1 Z-15.000 F0.250" {
		t.Errorf("constant X must be modal, got %v", lines)
	}
	lines = AppendFeedMove(nil, contour.Point{X: 44, Z: -10}, contour.Point{X: 40, Z: -10}, 0.25, PauseCfg{})
	if len(lines) != 1 || lines[0] != "G1 X40.000 F0.250" {
		t.Errorf("constant Z must be modal, got %v", lines)
	}
	lines = AppendFeedMove(nil, contour.Point{X: 40, Z: -10}, contour.Point{X: 30, Z: -20}, 0.25, PauseCfg{})
	if len(lines) != 1 || lines[0] != "G1 X30.000 Z-20.000 F0.250" {
		t.Errorf("diagonal move must carry both words, got %v", lines)
	}
	if lines := AppendFeedMove(nil, contour.Point{X: 40, Z: -10}, contour.Point{X: 40, Z: -10}, 0.25, PauseCfg{}); len(lines) != 0 {
		t.Errorf("zero-length move must emit nothing, got %v", lines)
	}
}

func TestBreakSegmentNonPositiveDistance(t *testing.T) {
	cfg := PauseCfg{Enabled: true, Distance: 0, Duration: 0.5}
	lines := BreakSegment(contour.Point{X: 10, Z: 0}, contour.Point{X: 10, Z: -20}, 0.2, cfg)
	if len(lines) != 1 || lines[0] != "G1 X10.000 Z-20.000 F0.200" {
		t.Errorf("zero distance must emit the plain move, got %v", lines)
	}
}

func TestBreakSegmentDwellCount(t *testing.T) {
	// floor(L/d) dwell points for a range of lengths.
	cases := []struct {
		length float64
		want   int
	}{
		{12, 2}, {15, 3}, {15.0001, 3}, {4.999, 0},
	}
	for _, tc := range cases {
		cfg := PauseCfg{Enabled: true, Distance: 5, Duration: 1}
		lines := BreakSegment(contour.Point{}, contour.Point{Z: -tc.length}, 0.1, cfg)
		if got := countDwells(lines); got != tc.want {
			t.Errorf("L=%v: expected %d dwells, got %d", tc.length, tc.want, got)
		}
	}
}
