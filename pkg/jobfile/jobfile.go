// Package jobfile loads declarative YAML job descriptions and turns
// them into machine programs. It is the non-scripted counterpart of
// the Lisp surface in pkg/engine: the same contours, operations and
// settings, described as plain data.
package jobfile

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/chazu/lathestep/pkg/contour"
	"github.com/chazu/lathestep/pkg/gcode"
	"github.com/chazu/lathestep/pkg/program"
)

// File is the top-level YAML document.
type File struct {
	Name       string         `yaml:"name"`
	Settings   gcode.Settings `yaml:"settings"`
	Contours   []ContourDef   `yaml:"contours"`
	Operations []OperationDef `yaml:"operations"`
}

// ContourDef describes one named contour in element form.
type ContourDef struct {
	Name     string       `yaml:"name"`
	Start    PointDef     `yaml:"start"`
	Elements []ElementDef `yaml:"elements"`
}

// PointDef is an X/Z coordinate pair.
type PointDef struct {
	X float64 `yaml:"x"`
	Z float64 `yaml:"z"`
}

// ElementDef is one contour element. Coordinates left unset inherit
// from the previous end point; the pointer types distinguish "absent"
// from zero.
type ElementDef struct {
	Type      string   `yaml:"type"`
	X         *float64 `yaml:"x"`
	Z         *float64 `yaml:"z"`
	Radius    *float64 `yaml:"radius"`
	CW        *bool    `yaml:"cw"`
	Roughing  *bool    `yaml:"roughing"`
	Finishing *bool    `yaml:"finishing"`
}

// OperationDef describes one machining step.
type OperationDef struct {
	Type    string         `yaml:"type"`
	Contour string         `yaml:"contour"`
	Params  map[string]any `yaml:"params"`
}

var elementTypes = map[string]contour.ElementType{
	"line_z":      contour.LineZ,
	"line_x":      contour.LineX,
	"line_xz":     contour.LineXZ,
	"arc_concave": contour.ArcConcave,
	"arc_convex":  contour.ArcConvex,
}

// Load reads and assembles a job file from disk.
func Load(path string) (*program.Program, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read job file: %w", err)
	}
	return Parse(data)
}

// Parse assembles a program from YAML bytes.
func Parse(data []byte) (*program.Program, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse job file: %w", err)
	}

	contours := make(map[string][]contour.Point, len(f.Contours))
	for _, cd := range f.Contours {
		c, err := buildContour(cd)
		if err != nil {
			return nil, err
		}
		contours[cd.Name] = contour.CleanPath(contour.BuildPath(c))
	}

	prog := &program.Program{
		Name:     f.Name,
		Settings: f.Settings,
	}
	for i, od := range f.Operations {
		op := &gcode.Operation{
			Type:   gcode.OpType(od.Type),
			Params: gcode.Params(od.Params),
		}
		if op.Params == nil {
			op.Params = gcode.Params{}
		}
		if od.Contour != "" {
			path, ok := contours[od.Contour]
			if !ok {
				return nil, fmt.Errorf("operation %d (%s): no contour named %q", i+1, od.Type, od.Contour)
			}
			op.Path = path
		}
		prog.Operations = append(prog.Operations, op)
	}
	return prog, nil
}

func buildContour(cd ContourDef) (*contour.Contour, error) {
	c := &contour.Contour{
		Name:  cd.Name,
		Start: contour.Point{X: cd.Start.X, Z: cd.Start.Z},
	}

	cur := c.Start
	for i, ed := range cd.Elements {
		typ, ok := elementTypes[ed.Type]
		if !ok {
			return nil, fmt.Errorf("contour %q: element %d: unknown type %q", cd.Name, i, ed.Type)
		}
		end := cur
		if ed.X != nil {
			end.X = *ed.X
		}
		if ed.Z != nil {
			end.Z = *ed.Z
		}
		e := contour.Element{
			Type:      typ,
			End:       end,
			Radius:    ed.Radius,
			CW:        ed.CW,
			Roughing:  true,
			Finishing: false,
		}
		if ed.Roughing != nil {
			e.Roughing = *ed.Roughing
		}
		if ed.Finishing != nil {
			e.Finishing = *ed.Finishing
		}
		c.Add(e)
		cur = end
	}

	// Geometric under-specification (arc without radius or rotation
	// sense) is advisory; the builder degrades to straight motion.
	return c, nil
}
