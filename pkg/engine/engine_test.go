package engine

import (
	"errors"
	"strings"
	"testing"
)

func TestEvaluateEmptySource(t *testing.T) {
	e := NewEngine()
	prog, evalErrs, err := e.Evaluate("")
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if len(evalErrs) != 0 {
		t.Fatalf("unexpected eval errors: %v", evalErrs)
	}
	if prog == nil || len(prog.Operations) != 0 {
		t.Errorf("empty source must yield an empty program, got %+v", prog)
	}
}

func TestEvaluateFullJob(t *testing.T) {
	src := `
; Testjob
(program "Testwelle")
(settings :xa 40 :za 0 :xra 2 :zra 1)
(tool 1 :comment "Schruppstahl" :radius 0.4)
(contour "welle" :start-x 30 :start-z 0
  (line-z -20)
  (line-x 40))
(abspanen :contour "welle" :depth-per-pass 2 :tool 1 :slice-strategy "parallel_z")
`
	e := NewEngine()
	prog, evalErrs, err := e.Evaluate(src)
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if len(evalErrs) != 0 {
		t.Fatalf("unexpected eval errors: %v", evalErrs)
	}

	if prog.Name != "Testwelle" {
		t.Errorf("program name: got %q", prog.Name)
	}
	if prog.Settings.XA == nil || *prog.Settings.XA != 40 {
		t.Errorf("settings xa: got %v", prog.Settings.XA)
	}
	if prog.Settings.XRA != 2 {
		t.Errorf("settings xra: got %v", prog.Settings.XRA)
	}
	tool, ok := prog.Settings.Tools[1]
	if !ok || tool.Comment != "Schruppstahl" || tool.Radius != 0.4 {
		t.Errorf("tool table entry: got %+v, %v", tool, ok)
	}

	if len(prog.Operations) != 1 {
		t.Fatalf("expected one operation, got %d", len(prog.Operations))
	}
	op := prog.Operations[0]
	if op.Params.Float("depth_per_pass", 0) != 2 {
		t.Errorf("keyword parameter not mapped: %v", op.Params)
	}
	if op.Params.Str("slice_strategy", "") != "parallel_z" {
		t.Errorf("string parameter not mapped: %v", op.Params)
	}

	// Contour path: start, then each element end, with inherited
	// coordinates resolved against the running end point.
	wantPath := [][2]float64{{30, 0}, {30, -20}, {40, -20}}
	if len(op.Path) != len(wantPath) {
		t.Fatalf("path length: got %d (%v)", len(op.Path), op.Path)
	}
	for i, w := range wantPath {
		if op.Path[i].X != w[0] || op.Path[i].Z != w[1] {
			t.Errorf("path point %d: got %+v, want %v", i, op.Path[i], w)
		}
	}
}

func TestEvaluatePositionalContour(t *testing.T) {
	src := `
(turn (contour "fase" :start-x 20 :start-z 0 (line-xz 24 -2))
      :tool 2 :feed 0.2 :safe-z 2)
`
	e := NewEngine()
	prog, evalErrs, err := e.Evaluate(src)
	if err != nil || len(evalErrs) != 0 {
		t.Fatalf("Evaluate: %v, %v", err, evalErrs)
	}
	if len(prog.Operations) != 1 || len(prog.Operations[0].Path) != 2 {
		t.Fatalf("unexpected program: %+v", prog.Operations)
	}
	if prog.Operations[0].Params.Float("safe_z", 0) != 2 {
		t.Errorf("kebab keyword must map to the underscore parameter: %v", prog.Operations[0].Params)
	}
}

func TestEvaluateUnknownContourReference(t *testing.T) {
	e := NewEngine()
	prog, evalErrs, err := e.Evaluate(`(turn :contour "fehlt" :tool 1 :feed 0.2 :safe-z 2)`)
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if prog != nil {
		t.Errorf("failed evaluation must not return a program")
	}
	if len(evalErrs) == 0 || !strings.Contains(evalErrs[0].Message, "fehlt") {
		t.Errorf("expected the missing contour name in the error, got %v", evalErrs)
	}
}

func TestEvaluateParseError(t *testing.T) {
	e := NewEngine()
	prog, evalErrs, err := e.Evaluate(`(program "x"`)
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if prog != nil || len(evalErrs) == 0 {
		t.Errorf("parse failure must yield eval errors, got prog=%v errs=%v", prog, evalErrs)
	}
}

func TestEvaluateArcValidation(t *testing.T) {
	// An arc without a radius fails contour validation inside the DSL.
	e := NewEngine()
	prog, evalErrs, err := e.Evaluate(`(contour "r" :start-x 10 (arc-convex 16 -3))`)
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if prog != nil || len(evalErrs) == 0 {
		t.Errorf("expected a validation error, got prog=%v errs=%v", prog, evalErrs)
	}
}

func TestParseZygomysError(t *testing.T) {
	errs := parseZygomysError(errors.New("Error on line 3: unexpected token"))
	if len(errs) != 1 || errs[0].Line != 3 || errs[0].Message != "unexpected token" {
		t.Errorf("line pattern: got %+v", errs)
	}

	errs = parseZygomysError(errors.New("something broke"))
	if len(errs) != 1 || errs[0].Line != 0 || errs[0].Message != "something broke" {
		t.Errorf("fallback: got %+v", errs)
	}
}

func TestEvalErrorString(t *testing.T) {
	e := EvalError{Line: 4, Message: "boom"}
	if e.Error() != "line 4: boom" {
		t.Errorf("got %q", e.Error())
	}
	e = EvalError{Message: "boom"}
	if e.Error() != "boom" {
		t.Errorf("got %q", e.Error())
	}
}
