package gcode

import (
	"fmt"
	"math"
	"strings"
)

// ThreadSpec is one entry of the standard thread tables: the label the
// editor surface offers, the nominal major diameter, and the pitch.
type ThreadSpec struct {
	Label string
	Major float64
	Pitch float64
}

// MetricThreads are the ISO metric coarse threads offered by the
// thread operation.
var MetricThreads = []ThreadSpec{
	{"M2", 2.0, 0.4}, {"M2.5", 2.5, 0.45}, {"M3", 3.0, 0.5},
	{"M4", 4.0, 0.7}, {"M5", 5.0, 0.8}, {"M6", 6.0, 1.0},
	{"M8", 8.0, 1.25}, {"M10", 10.0, 1.5}, {"M12", 12.0, 1.75},
	{"M14", 14.0, 2.0}, {"M16", 16.0, 2.0}, {"M18", 18.0, 2.5},
	{"M20", 20.0, 2.5}, {"M22", 22.0, 2.5}, {"M24", 24.0, 3.0},
	{"M25", 25.0, 3.0},
}

// TrapezoidThreads are the ISO trapezoidal threads (DIN 103).
var TrapezoidThreads = []ThreadSpec{
	{"Tr10x2", 10.0, 2.0}, {"Tr12x3", 12.0, 3.0}, {"Tr16x4", 16.0, 4.0},
	{"Tr20x4", 20.0, 4.0}, {"Tr24x5", 24.0, 5.0}, {"Tr28x5", 28.0, 5.0},
	{"Tr32x6", 32.0, 6.0}, {"Tr36x6", 36.0, 6.0}, {"Tr40x7", 40.0, 7.0},
	{"Tr44x7", 44.0, 7.0}, {"Tr48x8", 48.0, 8.0}, {"Tr52x8", 52.0, 8.0},
	{"Tr60x9", 60.0, 9.0},
}

// LookupThread resolves a standard thread label from either table.
func LookupThread(label string) (ThreadSpec, bool) {
	label = strings.TrimSpace(label)
	for _, t := range MetricThreads {
		if strings.EqualFold(t.Label, label) {
			return t, true
		}
	}
	for _, t := range TrapezoidThreads {
		if strings.EqualFold(t.Label, label) {
			return t, true
		}
	}
	return ThreadSpec{}, false
}

// Thread emits a single-point threading cycle (G76). Depth, first-cut
// and crest-offset defaults derive from the pitch when not given:
// thread depth 0.6134*pitch, first cut the larger of a tenth of the
// depth and 5% of the pitch, peak offset placing the drive line half
// the depth above the crest.
func Thread(op *Operation, set *Settings, st *State) ([]string, error) {
	p := op.Params
	if err := Require(p, RequiredKeys[OpThread], string(OpThread)); err != nil {
		return nil, err
	}
	if err := RequirePositive(p, []string{"pitch", "length", "major_diameter", "spindle"}, string(OpThread)); err != nil {
		return nil, err
	}
	toolNum, err := RequireTool(p, string(OpThread))
	if err != nil {
		return nil, err
	}

	pitch := p.Float("pitch", 0)
	length := p.Float("length", 0)
	major := p.Float("major_diameter", 0)
	startZ := p.Float("start_z", 0)
	internal := p.Int("side", 0) == int(SideInternal)

	depth := p.Float("thread_depth", pitch*0.6134)
	firstDepth := p.Float("first_depth", math.Max(depth*0.1, pitch*0.05))
	peakOffset := p.Float("peak_offset", -math.Max(depth*0.5, pitch*0.25))
	springPasses := p.Int("spring_passes", 1)
	degression := p.Float("degression", 2.0)
	taper := p.Float("taper_length", 0)
	safeX := p.Float("safe_x", major+2.0)
	if internal {
		safeX = p.Float("safe_x", major-2.0)
	}

	lines := []string{"(GEWINDE)"}
	if label := SanitizeComment(p.Str("label", "")); label != "" {
		lines = append(lines, fmt.Sprintf("(Gewinde %s)", label))
	}
	lines = AppendToolAndSpindle(lines, toolNum, p.Int("spindle", 0), set, st)
	lines = AppendCoolant(lines, p)

	lines = appendG0(lines, fptr(safeX), fptr(startZ+2*pitch))
	lines = appendG0(lines, fptr(major), nil)

	g76 := fmt.Sprintf("G76 P%s Z%s I%s J%s K%s", f3(pitch), f3(startZ-length), f3(peakOffset), f3(firstDepth), f3(depth))
	if degression > 0 {
		g76 += " R" + f3(degression)
	}
	g76 += fmt.Sprintf(" Q%s H%d", f3(p.Float("compound_angle", 29.5)), springPasses)
	if taper > 0 {
		g76 += " E" + f3(taper) + " L3"
	}
	lines = append(lines, g76)

	lines = appendG0(lines, fptr(safeX), nil)
	lines = appendG0(lines, nil, fptr(startZ+2*pitch))
	return lines, nil
}
