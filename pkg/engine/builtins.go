package engine

import (
	"fmt"
	"strings"

	zygo "github.com/glycerine/zygomys/zygo"

	"github.com/chazu/lathestep/pkg/contour"
	"github.com/chazu/lathestep/pkg/gcode"
	"github.com/chazu/lathestep/pkg/program"
)

// ---------------------------------------------------------------------------
// Source preprocessing
// ---------------------------------------------------------------------------

// preprocessSource transforms job Lisp source code before passing it to
// zygomys. It performs two transformations:
//
//  1. Keyword conversion: :keyword -> "__kw_keyword" (string literal)
//     This avoids the need to register keyword symbols as globals, which
//     would conflict with user-defined variables of the same name.
//
//  2. Kebab-case to underscore: line-z -> line_z
//     zygomys does not allow hyphens in identifiers (it interprets them
//     as the subtraction operator). This converts kebab-case identifiers
//     to underscore form outside of strings and comments.
//
// Both transformations respect string literal boundaries and line comments.
func preprocessSource(source string) string {
	result := make([]byte, 0, len(source)+len(source)/4)
	b := []byte(source)
	i := 0
	for i < len(b) {
		// Skip double-quoted string literals.
		if b[i] == '"' {
			result = append(result, b[i])
			i++
			for i < len(b) && b[i] != '"' {
				if b[i] == '\\' && i+1 < len(b) {
					result = append(result, b[i], b[i+1])
					i += 2
					continue
				}
				result = append(result, b[i])
				i++
			}
			if i < len(b) {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// Skip backtick-quoted string literals.
		if b[i] == '`' {
			result = append(result, b[i])
			i++
			for i < len(b) && b[i] != '`' {
				result = append(result, b[i])
				i++
			}
			if i < len(b) {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// Convert ; line comments to // comments for zygomys.
		// zygomys uses // for line comments, not the traditional Lisp ;.
		if b[i] == ';' {
			result = append(result, '/', '/')
			i++
			// Skip additional ; characters (;; style).
			for i < len(b) && b[i] == ';' {
				i++
			}
			for i < len(b) && b[i] != '\n' {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// Transform :keyword to "__kw_keyword".
		if b[i] == ':' && i+1 < len(b) {
			// Preserve := (assignment operator).
			if b[i+1] == '=' {
				result = append(result, b[i], b[i+1])
				i += 2
				continue
			}
			// Check for keyword: colon followed by a letter.
			if isLetter(b[i+1]) {
				j := i + 1
				for j < len(b) && isKWChar(b[j]) {
					j++
				}
				kwName := string(b[i+1 : j])
				result = append(result, '"')
				result = append(result, []byte(kwPrefix)...)
				result = append(result, []byte(kwName)...)
				result = append(result, '"')
				i = j
				continue
			}
		}
		// Transform kebab-case identifiers: alpha-alpha -> alpha_alpha.
		// Only when hyphen sits between identifier characters (not a minus operator).
		if b[i] == '-' && i > 0 && i+1 < len(b) &&
			isIdentChar(b[i-1]) && isIdentStartChar(b[i+1]) {
			result = append(result, '_')
			i++
			continue
		}
		result = append(result, b[i])
		i++
	}
	return string(result)
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isKWChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '-' || c == '_'
}

func isIdentChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '_'
}

func isIdentStartChar(c byte) bool {
	return isLetter(c)
}

// ---------------------------------------------------------------------------
// Custom Sexp types for passing Go values through the zygomys environment
// ---------------------------------------------------------------------------

// sexpContour wraps a built contour so it can be returned from `contour`
// and consumed by the machining builtins.
type sexpContour struct {
	c *contour.Contour
}

func (s *sexpContour) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(contour %q %d elements)", s.c.Name, len(s.c.Elements))
}
func (s *sexpContour) Type() *zygo.RegisteredType { return nil }

// sexpElement wraps one contour element before it is anchored to its
// start point. Coordinates an element does not set are inherited from
// the previous point when the surrounding contour resolves it.
type sexpElement struct {
	kind     contour.ElementType
	x, z     float64
	hasX     bool
	hasZ     bool
	radius   *float64
	cw       *bool
	roughing *bool
	finish   *bool
}

func (s *sexpElement) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(element %s)", s.kind)
}
func (s *sexpElement) Type() *zygo.RegisteredType { return nil }

// sexpOpRef wraps the index of an operation appended to the job.
type sexpOpRef struct {
	index int
	typ   gcode.OpType
}

func (s *sexpOpRef) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(operation %d %s)", s.index, s.typ)
}
func (s *sexpOpRef) Type() *zygo.RegisteredType { return nil }

// ---------------------------------------------------------------------------
// Keyword argument parsing
// ---------------------------------------------------------------------------

// kwPrefix is the marker prepended to keyword names by preprocessSource.
const kwPrefix = "__kw_"

// isKW checks if a Sexp is a preprocessed keyword string.
// Returns the keyword name (without prefix) and true if it is.
func isKW(s zygo.Sexp) (string, bool) {
	str, ok := s.(*zygo.SexpStr)
	if !ok {
		return "", false
	}
	if strings.HasPrefix(str.S, kwPrefix) {
		return str.S[len(kwPrefix):], true
	}
	return "", false
}

// kwArgs holds the result of parsing a mixed positional+keyword argument list.
type kwArgs struct {
	kw         map[string]zygo.Sexp
	positional []zygo.Sexp
}

// parseArgs separates args into keyword and positional arguments.
// Keywords are identified by the __kw_ prefix added during preprocessing.
func parseArgs(args []zygo.Sexp) kwArgs {
	result := kwArgs{kw: make(map[string]zygo.Sexp)}
	i := 0
	for i < len(args) {
		name, ok := isKW(args[i])
		if ok {
			if i+1 < len(args) {
				result.kw[name] = args[i+1]
				i += 2
			} else {
				// Keyword at end with no value is a flag with nil.
				result.kw[name] = zygo.SexpNull
				i++
			}
		} else {
			result.positional = append(result.positional, args[i])
			i++
		}
	}
	return result
}

// ---------------------------------------------------------------------------
// Value extraction helpers
// ---------------------------------------------------------------------------

// toFloat64 extracts a float64 from a Sexp (SexpInt or SexpFloat).
func toFloat64(s zygo.Sexp) (float64, error) {
	switch v := s.(type) {
	case *zygo.SexpInt:
		return float64(v.Val), nil
	case *zygo.SexpFloat:
		return v.Val, nil
	}
	return 0, fmt.Errorf("expected number, got %T (%s)", s, s.SexpString(nil))
}

// toString extracts a string from a Sexp.
func toString(s zygo.Sexp) (string, error) {
	if str, ok := s.(*zygo.SexpStr); ok {
		return str.S, nil
	}
	return "", fmt.Errorf("expected string, got %T (%s)", s, s.SexpString(nil))
}

// toBool extracts a bool from a Sexp. Keywords and nil count as flags.
func toBool(s zygo.Sexp) (bool, error) {
	switch v := s.(type) {
	case *zygo.SexpBool:
		return v.Val, nil
	case *zygo.SexpInt:
		return v.Val != 0, nil
	case *zygo.SexpSentinel:
		if v == zygo.SexpNull {
			return true, nil
		}
	}
	return false, fmt.Errorf("expected bool, got %T (%s)", s, s.SexpString(nil))
}

// toGoValue converts a Sexp into the plain Go value stored in an
// operation parameter map. Preprocessed keywords come back as their
// bare names.
func toGoValue(s zygo.Sexp) any {
	switch v := s.(type) {
	case *zygo.SexpInt:
		return int(v.Val)
	case *zygo.SexpFloat:
		return v.Val
	case *zygo.SexpBool:
		return v.Val
	case *zygo.SexpStr:
		if strings.HasPrefix(v.S, kwPrefix) {
			return v.S[len(kwPrefix):]
		}
		return v.S
	case *zygo.SexpSentinel:
		if v == zygo.SexpNull {
			return true // bare keyword flag
		}
	}
	return s.SexpString(nil)
}

// paramKey maps a DSL keyword name to its parameter key.
func paramKey(name string) string {
	return strings.ReplaceAll(name, "-", "_")
}

// ---------------------------------------------------------------------------
// Builtin registration
// ---------------------------------------------------------------------------

// jobBuilder accumulates the program under construction plus the
// contour registry the machining builtins resolve names against.
type jobBuilder struct {
	prog     *program.Program
	contours map[string]*contour.Contour
}

// operationTypes maps DSL builtin names to operation types. The names
// are post-preprocessing, so kebab-case DSL forms appear here with
// underscores.
var operationTypes = map[string]gcode.OpType{
	"face":     gcode.OpFace,
	"turn":     gcode.OpTurn,
	"bore":     gcode.OpBore,
	"drill":    gcode.OpDrill,
	"groove":   gcode.OpGroove,
	"thread":   gcode.OpThread,
	"keyway":   gcode.OpKeyway,
	"abspanen": gcode.OpAbspanen,
}

// registerBuiltins installs all job DSL builtins into a zygomys
// environment. The builtins populate the provided program during
// evaluation.
//
// Source code must be preprocessed with preprocessSource() before
// evaluation so that :keyword tokens are converted to recognizable
// string literals.
func registerBuiltins(env *zygo.Zlisp, prog *program.Program) {
	jb := &jobBuilder{prog: prog, contours: make(map[string]*contour.Contour)}

	// -----------------------------------------------------------------------
	// (program "name")
	// -----------------------------------------------------------------------
	env.AddFunction("program", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) < 1 {
			return zygo.SexpNull, fmt.Errorf("program requires a name argument")
		}
		n, err := toString(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("program: name: %w", err)
		}
		jb.prog.Name = n
		return zygo.SexpNull, nil
	})

	// -----------------------------------------------------------------------
	// (settings :xa 60 :za 0 :xra 2 :zra 1 :xt 120 :zt 150 :line-numbers true)
	// -----------------------------------------------------------------------
	env.AddFunction("settings", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		set := &jb.prog.Settings

		setPtr := func(key string, dst **float64) error {
			v, ok := pa.kw[key]
			if !ok {
				return nil
			}
			f, err := toFloat64(v)
			if err != nil {
				return fmt.Errorf("settings: %s: %w", key, err)
			}
			*dst = &f
			return nil
		}
		setVal := func(key string, dst *float64) error {
			v, ok := pa.kw[key]
			if !ok {
				return nil
			}
			f, err := toFloat64(v)
			if err != nil {
				return fmt.Errorf("settings: %s: %w", key, err)
			}
			*dst = f
			return nil
		}
		setFlag := func(key string, dst *bool) error {
			v, ok := pa.kw[key]
			if !ok {
				return nil
			}
			b, err := toBool(v)
			if err != nil {
				return fmt.Errorf("settings: %s: %w", key, err)
			}
			*dst = b
			return nil
		}

		for _, step := range []error{
			setPtr("xa", &set.XA), setPtr("xi", &set.XI),
			setPtr("za", &set.ZA), setPtr("zi", &set.ZI),
			setVal("xra", &set.XRA), setVal("xri", &set.XRI),
			setVal("zra", &set.ZRA), setVal("zri", &set.ZRI),
			setFlag("xra-absolute", &set.XRAAbsolute), setFlag("xri-absolute", &set.XRIAbsolute),
			setFlag("zra-absolute", &set.ZRAAbsolute), setFlag("zri-absolute", &set.ZRIAbsolute),
			setPtr("xt", &set.XT), setPtr("zt", &set.ZT),
			setFlag("line-numbers", &set.EmitLineNumbers),
		} {
			if step != nil {
				return zygo.SexpNull, step
			}
		}

		if v, ok := pa.kw["name"]; ok {
			n, err := toString(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("settings: name: %w", err)
			}
			set.ProgramName = n
		}
		return zygo.SexpNull, nil
	})

	// -----------------------------------------------------------------------
	// (tool 3 :comment "CNMG 80deg" :radius 0.4 :orientation 3)
	// -----------------------------------------------------------------------
	env.AddFunction("tool", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		if len(pa.positional) < 1 {
			return zygo.SexpNull, fmt.Errorf("tool requires a tool number")
		}
		num, err := toFloat64(pa.positional[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("tool: number: %w", err)
		}

		t := gcode.Tool{}
		if v, ok := pa.kw["comment"]; ok {
			s, err := toString(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("tool: comment: %w", err)
			}
			t.Comment = s
		}
		if v, ok := pa.kw["radius"]; ok {
			f, err := toFloat64(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("tool: radius: %w", err)
			}
			t.Radius = f
		}
		if v, ok := pa.kw["orientation"]; ok {
			f, err := toFloat64(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("tool: orientation: %w", err)
			}
			o := int(f)
			t.Orientation = &o
		}

		if jb.prog.Settings.Tools == nil {
			jb.prog.Settings.Tools = make(map[int]gcode.Tool)
		}
		jb.prog.Settings.Tools[int(num)] = t
		return zygo.SexpNull, nil
	})

	registerElementBuiltins(env)
	registerContourBuiltin(env, jb)

	for dslName, opType := range operationTypes {
		registerOperationBuiltin(env, jb, dslName, opType)
	}
}

// registerElementBuiltins installs the contour element constructors.
// Elements are unanchored until the surrounding contour resolves them
// against its running end point.
func registerElementBuiltins(env *zygo.Zlisp) {
	type elemSpec struct {
		name  string
		kind  contour.ElementType
		wantX bool
		wantZ bool
	}
	specs := []elemSpec{
		{"line_z", contour.LineZ, false, true},
		{"line_x", contour.LineX, true, false},
		{"line_xz", contour.LineXZ, true, true},
		{"arc_concave", contour.ArcConcave, true, true},
		{"arc_convex", contour.ArcConvex, true, true},
	}

	for _, spec := range specs {
		spec := spec
		env.AddFunction(spec.name, func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
			pa := parseArgs(args)
			need := 0
			if spec.wantX {
				need++
			}
			if spec.wantZ {
				need++
			}
			if len(pa.positional) < need {
				return zygo.SexpNull, fmt.Errorf("%s requires %d coordinate arguments", spec.name, need)
			}

			e := &sexpElement{kind: spec.kind}
			idx := 0
			if spec.wantX {
				x, err := toFloat64(pa.positional[idx])
				if err != nil {
					return zygo.SexpNull, fmt.Errorf("%s: x: %w", spec.name, err)
				}
				e.x, e.hasX = x, true
				idx++
			}
			if spec.wantZ {
				z, err := toFloat64(pa.positional[idx])
				if err != nil {
					return zygo.SexpNull, fmt.Errorf("%s: z: %w", spec.name, err)
				}
				e.z, e.hasZ = z, true
			}

			if v, ok := pa.kw["radius"]; ok {
				r, err := toFloat64(v)
				if err != nil {
					return zygo.SexpNull, fmt.Errorf("%s: radius: %w", spec.name, err)
				}
				e.radius = &r
			}
			if v, ok := pa.kw["cw"]; ok {
				b, err := toBool(v)
				if err != nil {
					return zygo.SexpNull, fmt.Errorf("%s: cw: %w", spec.name, err)
				}
				e.cw = &b
			}
			if v, ok := pa.kw["roughing"]; ok {
				b, err := toBool(v)
				if err != nil {
					return zygo.SexpNull, fmt.Errorf("%s: roughing: %w", spec.name, err)
				}
				e.roughing = &b
			}
			if v, ok := pa.kw["finishing"]; ok {
				b, err := toBool(v)
				if err != nil {
					return zygo.SexpNull, fmt.Errorf("%s: finishing: %w", spec.name, err)
				}
				e.finish = &b
			}
			return e, nil
		})
	}
}

// registerContourBuiltin installs the contour constructor. Element
// coordinates an element does not set are carried over from the
// running end point, so (line-z -25) keeps the current diameter.
func registerContourBuiltin(env *zygo.Zlisp, jb *jobBuilder) {
	env.AddFunction("contour", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		if len(pa.positional) < 1 {
			return zygo.SexpNull, fmt.Errorf("contour requires a name argument")
		}
		cName, err := toString(pa.positional[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("contour: name: %w", err)
		}

		c := &contour.Contour{Name: cName}
		if v, ok := pa.kw["start-x"]; ok {
			f, err := toFloat64(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("contour: start-x: %w", err)
			}
			c.Start.X = f
		}
		if v, ok := pa.kw["start-z"]; ok {
			f, err := toFloat64(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("contour: start-z: %w", err)
			}
			c.Start.Z = f
		}

		cur := c.Start
		for i, raw := range pa.positional[1:] {
			el, ok := raw.(*sexpElement)
			if !ok {
				return zygo.SexpNull, fmt.Errorf("contour: element %d: expected contour element, got %T (%s)",
					i+1, raw, raw.SexpString(nil))
			}
			end := cur
			if el.hasX {
				end.X = el.x
			}
			if el.hasZ {
				end.Z = el.z
			}
			e := contour.Element{
				Type:      el.kind,
				End:       end,
				Radius:    el.radius,
				CW:        el.cw,
				Roughing:  true,
				Finishing: false,
			}
			if el.roughing != nil {
				e.Roughing = *el.roughing
			}
			if el.finish != nil {
				e.Finishing = *el.finish
			}
			c.Add(e)
			cur = end
		}

		if issues := contour.Validate(c); len(issues) > 0 {
			first := issues[0]
			return zygo.SexpNull, fmt.Errorf("contour %q: element %d: %s", cName, first.Index, first.Message)
		}

		jb.contours[cName] = c
		return &sexpContour{c: c}, nil
	})
}

// registerOperationBuiltin installs one machining operation builtin.
// The operation's path comes from a positional contour value or from a
// :contour name reference; all keyword arguments become operation
// parameters verbatim.
func registerOperationBuiltin(env *zygo.Zlisp, jb *jobBuilder, dslName string, opType gcode.OpType) {
	env.AddFunction(dslName, func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)

		op := &gcode.Operation{Type: opType, Params: gcode.Params{}}

		for _, raw := range pa.positional {
			sc, ok := raw.(*sexpContour)
			if !ok {
				return zygo.SexpNull, fmt.Errorf("%s: expected contour argument, got %T (%s)",
					dslName, raw, raw.SexpString(nil))
			}
			op.Path = contour.CleanPath(contour.BuildPath(sc.c))
		}

		for key, v := range pa.kw {
			if key == "contour" {
				cName, err := toString(v)
				if err != nil {
					return zygo.SexpNull, fmt.Errorf("%s: contour: %w", dslName, err)
				}
				c, ok := jb.contours[cName]
				if !ok {
					return zygo.SexpNull, fmt.Errorf("%s: no contour named %q", dslName, cName)
				}
				op.Path = contour.CleanPath(contour.BuildPath(c))
				continue
			}
			op.Params[paramKey(key)] = toGoValue(v)
		}

		jb.prog.Operations = append(jb.prog.Operations, op)
		return &sexpOpRef{index: len(jb.prog.Operations) - 1, typ: opType}, nil
	})
}
