package gcode

import (
	"fmt"
	"math"

	"github.com/chazu/lathestep/pkg/contour"
)

// Side distinguishes external from internal machining. It selects
// which stock boundary and which retract plane pair applies.
type Side int

const (
	SideExternal Side = 0
	SideInternal Side = 1
)

// External reports whether the side is the external one.
func (s Side) External() bool { return s == SideExternal }

// Tool describes one turret position.
type Tool struct {
	Comment     string  `yaml:"comment"`
	Radius      float64 `yaml:"radius"`
	Orientation *int    `yaml:"orientation"`
}

// Settings holds the machine-level configuration shared by all
// operations of a program: stock extents, retract planes, toolchange
// position, and the tool table. Pointer fields distinguish "not
// configured" from a configured zero; the retract plane values follow
// the legacy convention that 0.0 means unset.
type Settings struct {
	ProgramName string `yaml:"program_name"`

	// Stock extents, in diameter for X.
	XA *float64 `yaml:"xa"` // outer diameter
	XI *float64 `yaml:"xi"` // inner diameter (pre-bored stock)
	ZA *float64 `yaml:"za"` // front face
	ZI *float64 `yaml:"zi"` // rear face

	// Retract planes. 0.0 means unset. The *Absolute flags switch the
	// value from an offset off the current position to a machine
	// coordinate.
	XRA         float64 `yaml:"xra"`
	XRI         float64 `yaml:"xri"`
	ZRA         float64 `yaml:"zra"`
	ZRI         float64 `yaml:"zri"`
	XRAAbsolute bool    `yaml:"xra_absolute"`
	XRIAbsolute bool    `yaml:"xri_absolute"`
	ZRAAbsolute bool    `yaml:"zra_absolute"`
	ZRIAbsolute bool    `yaml:"zri_absolute"`

	// Toolchange position (machine coordinates, G53).
	XT *float64 `yaml:"xt"`
	ZT *float64 `yaml:"zt"`

	Tools map[int]Tool `yaml:"tools"`

	HeaderLines []string `yaml:"header_lines"`
	FooterLines []string `yaml:"footer_lines"`

	EmitLineNumbers bool `yaml:"emit_line_numbers"`
}

// StockX returns the configured stock boundary for a side, or ok=false
// when it is not set.
func (s *Settings) StockX(side Side) (float64, bool) {
	var p *float64
	if side.External() {
		p = s.XA
	} else {
		p = s.XI
	}
	if p == nil {
		return 0, false
	}
	return *p, true
}

// RetractCfg is the per-side retract configuration resolved from the
// settings: nil means no retract on that axis.
type RetractCfg struct {
	X, Z                 *float64
	XAbsolute, ZAbsolute bool
}

// RetractFor picks the retract plane pair for a side. A plane value of
// exactly 0.0 counts as unset.
func (s *Settings) RetractFor(side Side) RetractCfg {
	pick := func(v float64) *float64 {
		if v == 0.0 {
			return nil
		}
		return fptr(v)
	}
	if side.External() {
		return RetractCfg{
			X: pick(s.XRA), XAbsolute: s.XRAAbsolute,
			Z: pick(s.ZRA), ZAbsolute: s.ZRAAbsolute,
		}
	}
	return RetractCfg{
		X: pick(s.XRI), XAbsolute: s.XRIAbsolute,
		Z: pick(s.ZRI), ZAbsolute: s.ZRIAbsolute,
	}
}

// Resolve converts the retract configuration into target coordinates.
// Absolute values pass through; relative values offset the current
// position, with the X offset applied away from the material (outward
// for external work, inward for internal).
func (c RetractCfg) Resolve(external bool, currentX, currentZ float64) (x, z *float64) {
	if c.X != nil {
		if c.XAbsolute {
			x = fptr(*c.X)
		} else if external {
			x = fptr(currentX + *c.X)
		} else {
			x = fptr(currentX - *c.X)
		}
	}
	if c.Z != nil {
		if c.ZAbsolute {
			z = fptr(*c.Z)
		} else {
			z = fptr(currentZ + *c.Z)
		}
	}
	return x, z
}

// SafeZ returns the clearance plane for a side: the absolute Z retract
// plane when configured, otherwise the fallback clearance above the
// path's entry point.
func (s *Settings) SafeZ(side Side, path []contour.Point) float64 {
	const defaultClearance = 2.0
	cfg := s.RetractFor(side)
	if cfg.Z != nil && cfg.ZAbsolute {
		return *cfg.Z
	}
	if len(path) > 0 {
		if cfg.Z != nil {
			return path[0].Z + *cfg.Z
		}
		return path[0].Z + defaultClearance
	}
	return defaultClearance
}

// SafePosition returns the global parked position derived from the
// stock and the external retract planes, or ok=false when the settings
// do not define one.
func (s *Settings) SafePosition() (x, z float64, ok bool) {
	if s.XA == nil || s.XRA == 0.0 || s.ZRA == 0.0 {
		return 0, 0, false
	}
	x = *s.XA + s.XRA
	if s.XRAAbsolute {
		x = s.XRA
	}
	z = s.ZRA
	if !s.ZRAAbsolute && s.ZA != nil {
		z = *s.ZA + s.ZRA
	}
	return x, z, true
}

// State carries the cross-operation tool tracking for one program
// emission. A fresh State per program keeps emitters deterministic.
type State struct {
	CurrentTool int

	nextBlock int
}

// Block numbering for canned-cycle contour blocks.
const (
	blockStart = 500
	blockStep  = 10
)

// NewState returns a State for a new program emission.
func NewState() *State {
	return &State{nextBlock: blockStart}
}

// NextBlockRange reserves a numbered block range of count lines and
// returns the first and last block numbers. Successive calls never
// overlap.
func (st *State) NextBlockRange(count int) (first, last int) {
	if count < 1 {
		count = 1
	}
	first = st.nextBlock
	last = first + (count-1)*blockStep
	st.nextBlock = last + 2*blockStep
	return first, last
}

// AppendToolAndSpindle emits the toolchange and spindle start for an
// operation, skipping the toolchange when the tool is already loaded.
// The tool-table comment is attached when the settings know the tool.
func AppendToolAndSpindle(lines []string, toolNum, spindle int, set *Settings, st *State) []string {
	if toolNum > 0 && toolNum != st.CurrentTool {
		if set != nil {
			if t, ok := set.Tools[toolNum]; ok && t.Comment != "" {
				lines = append(lines, fmt.Sprintf("(Werkzeug T%02d: %s)", toolNum, SanitizeComment(t.Comment)))
			} else {
				lines = append(lines, fmt.Sprintf("(Werkzeug T%02d)", toolNum))
			}
		} else {
			lines = append(lines, fmt.Sprintf("(Werkzeug T%02d)", toolNum))
		}
		lines = append(lines, fmt.Sprintf("T%02d M6", toolNum))
		st.CurrentTool = toolNum
	}
	if spindle > 0 {
		lines = append(lines, fmt.Sprintf("S%d M3", spindle))
	}
	return lines
}

// AppendCoolant emits the coolant selection for an operation. The
// parameter accepts the numeric legacy encoding (0 off, 1 mist, 2
// flood) or the string names.
func AppendCoolant(lines []string, p Params) []string {
	if !p.Has("coolant") {
		return lines
	}
	switch p.Str("coolant", "") {
	case "mist":
		return append(lines, "M7")
	case "flood":
		return append(lines, "M8")
	case "off":
		return append(lines, "M9")
	}
	switch p.Int("coolant", 0) {
	case 1:
		return append(lines, "M7")
	case 2:
		return append(lines, "M8")
	default:
		return append(lines, "M9")
	}
}

// MoveToToolchange emits the machine-coordinate rapid to the
// toolchange position, when one is configured.
func MoveToToolchange(lines []string, set *Settings) []string {
	if set == nil || (set.XT == nil && set.ZT == nil) {
		return lines
	}
	parts := "G53 G0"
	if set.XT != nil {
		parts += " X" + f3(*set.XT)
	}
	if set.ZT != nil {
		parts += " Z" + f3(*set.ZT)
	}
	return append(lines, parts)
}

// AppendSafeRetract emits the retract for a side off the given current
// position and returns the updated position.
func AppendSafeRetract(lines []string, set *Settings, side Side, currentX, currentZ float64) ([]string, float64, float64) {
	cfg := set.RetractFor(side)
	rx, rz := cfg.Resolve(side.External(), currentX, currentZ)
	lines = appendG0(lines, rx, rz)
	if rx != nil {
		currentX = *rx
	}
	if rz != nil {
		currentZ = *rz
	}
	return lines, currentX, currentZ
}

// NoseCompensation returns the cutter-compensation on/off lines for a
// tool, or nil when the tool has no radius configured. The orientation
// selects G41 versus G42.
func NoseCompensation(set *Settings, toolNum int, side Side) (on, off []string) {
	if set == nil {
		return nil, nil
	}
	t, ok := set.Tools[toolNum]
	if !ok || t.Radius <= 0 {
		return nil, nil
	}
	code := "G42"
	if !side.External() {
		code = "G41"
	}
	if t.Orientation != nil && *t.Orientation == 3 {
		code = "G41"
	}
	return []string{code}, []string{"G40"}
}

// nearly reports approximate equality at emission tolerance.
func nearly(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}
