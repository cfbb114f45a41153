package gcode

import (
	"strings"
	"testing"
)

func TestParamsAccessorsDegrade(t *testing.T) {
	p := Params{
		"feed":    "0.25",
		"spindle": 1200,
		"flag":    "yes",
		"junk":    "not-a-number",
		"empty":   "",
	}

	if got := p.Float("feed", 0); got != 0.25 {
		t.Errorf("Float from string: got %v", got)
	}
	if got := p.Float("junk", 1.5); got != 1.5 {
		t.Errorf("unparsable value must fall back to the default, got %v", got)
	}
	if got := p.Int("spindle", 0); got != 1200 {
		t.Errorf("Int: got %v", got)
	}
	if got := p.Bool("flag", false); !got {
		t.Error("Bool from \"yes\" must be true")
	}
	if got := p.Bool("missing", true); !got {
		t.Error("absent Bool must return the default")
	}
	if p.Has("empty") {
		t.Error("empty string counts as absent")
	}
	if !p.Has("spindle") {
		t.Error("present value must report Has")
	}
}

func TestRequireReportsKey(t *testing.T) {
	p := Params{"feed": 0.2}
	err := Require(p, []string{"feed", "tool"}, "turn")
	if err == nil || !strings.Contains(err.Error(), `"tool"`) {
		t.Errorf("expected the missing key in the error, got %v", err)
	}
	if err := Require(p, []string{"feed"}, "turn"); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestRequirePositive(t *testing.T) {
	p := Params{"depth_max": 0.0, "feed": 0.2}
	if err := RequirePositive(p, []string{"depth_max"}, "face"); err == nil {
		t.Error("zero must fail the positivity check")
	}
	if err := RequirePositive(p, []string{"feed"}, "face"); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestToolNumberLegacyKeys(t *testing.T) {
	if got := ToolNumber(Params{"tool": 3}); got != 3 {
		t.Errorf("tool: got %d", got)
	}
	if got := ToolNumber(Params{"toolno": 4}); got != 4 {
		t.Errorf("toolno: got %d", got)
	}
	if got := ToolNumber(Params{"tool_number": "5"}); got != 5 {
		t.Errorf("tool_number: got %d", got)
	}
	if got := ToolNumber(Params{}); got != 0 {
		t.Errorf("absent tool: got %d", got)
	}
}

func TestForOperationStepComment(t *testing.T) {
	op := &Operation{
		Type: OpAbspanen,
		Params: Params{
			"depth_per_pass": 2.0,
			"tool":           1,
			"comment":        "Schruppen (außen)",
		},
		Path: conePath(),
	}
	lines, err := ForOperation(op, &Settings{}, NewState())
	if err != nil {
		t.Fatalf("ForOperation: %v", err)
	}
	if len(lines) == 0 || lines[0] != "(STEP: Schruppen außen)" {
		t.Errorf("expected the sanitized step comment first, got %v", lines)
	}
}

func TestForOperationProgramHeaderSilent(t *testing.T) {
	op := &Operation{Type: OpProgramHeader, Params: Params{}}
	lines, err := ForOperation(op, &Settings{}, NewState())
	if err != nil {
		t.Fatalf("ForOperation: %v", err)
	}
	if len(lines) != 0 {
		t.Errorf("program header must emit nothing, got %v", lines)
	}
}
