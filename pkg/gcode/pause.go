package gcode

import (
	"math"

	"github.com/chazu/lathestep/pkg/contour"
)

// PauseCfg controls chip-break dwells during roughing feeds. A dwell
// is inserted every Distance of feed travel; finishing passes never
// pause.
type PauseCfg struct {
	Enabled  bool
	Distance float64
	Duration float64
}

// pauseFromParams reads the pause configuration of a roughing
// operation.
func pauseFromParams(p Params) PauseCfg {
	return PauseCfg{
		Enabled:  p.Bool("pause_enabled", false),
		Distance: p.Float("pause_distance", 0),
		Duration: p.Float("pause_duration", 0.5),
	}
}

// BreakSegment emits the feed move from start to end as a sequence of
// moves with a dwell after every Distance of travel. A segment of
// length L gets floor(L/Distance) dwell points; when L is an exact
// multiple, the final dwell lands on the endpoint and no trailing move
// is emitted. A non-positive Distance yields the plain move.
func BreakSegment(start, end contour.Point, feed float64, cfg PauseCfg) []string {
	length := math.Hypot(end.X-start.X, end.Z-start.Z)
	if cfg.Distance <= 0 {
		return []string{G1Line(fptr(end.X), fptr(end.Z), feed)}
	}
	n := int(math.Floor(length/cfg.Distance + 1e-9))

	var lines []string
	for k := 1; k <= n; k++ {
		t := float64(k) * cfg.Distance / length
		pt := contour.Point{
			X: start.X + (end.X-start.X)*t,
			Z: start.Z + (end.Z-start.Z)*t,
		}
		lines = append(lines, G1Line(fptr(pt.X), fptr(pt.Z), feed))
		lines = append(lines, dwellLine(cfg.Duration))
	}

	if math.Abs(float64(n)*cfg.Distance-length) > 1e-9 {
		lines = append(lines, G1Line(fptr(end.X), fptr(end.Z), feed))
	}
	return lines
}

// AppendFeedMove emits a feed move from start to end, broken up with
// dwells when pausing applies to this segment. The plain move carries
// only the axis words that change; coordinates are modal.
func AppendFeedMove(lines []string, start, end contour.Point, feed float64, cfg PauseCfg) []string {
	length := math.Hypot(end.X-start.X, end.Z-start.Z)
	if cfg.Enabled && cfg.Distance > 0 && length > cfg.Distance+1e-9 {
		return append(lines, BreakSegment(start, end, feed, cfg)...)
	}
	x, z := fptr(end.X), fptr(end.Z)
	if nearly(end.X, start.X) {
		x = nil
	}
	if nearly(end.Z, start.Z) {
		z = nil
	}
	if x == nil && z == nil {
		return lines
	}
	return append(lines, G1Line(x, z, feed))
}

func dwellLine(duration float64) string {
	if duration <= 0 {
		duration = 0.5
	}
	return "G4 P" + f3(duration)
}
