package program

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	toolchangeRe = regexp.MustCompile(`^T\d+ M6\b`)
	spindleRe    = regexp.MustCompile(`^S\d+ M3\b`)
	feedRe       = regexp.MustCompile(`\bF\d`)
	stepRe       = regexp.MustCompile(`^\(Step \d+:`)
	macroUseRe   = regexp.MustCompile(`#<(_[a-z0-9_]+)>`)
	macroSetRe   = regexp.MustCompile(`^#<(_[a-z0-9_]+)> =`)
)

// Check runs structural lint rules over an assembled program and
// returns one finding per problem. It complements Validate: Validate
// looks at the job's parameters, Check looks at the emitted lines.
//
// Rules: a tool change (T.. M6) and a spindle start (S.. M3) must
// appear, at least one motion must carry a feed word, no two
// consecutive identical G1 lines, every macro variable must be
// assigned before its first use, and no step comment may be directly
// followed by another step or the program footer.
func Check(lines []string) []string {
	var findings []string

	hasToolchange := false
	hasSpindle := false
	hasFeed := false
	assigned := map[string]bool{}

	prevMotion := ""
	for i, raw := range lines {
		l := stripBlockNumber(strings.TrimSpace(raw))

		if toolchangeRe.MatchString(l) {
			hasToolchange = true
		}
		if spindleRe.MatchString(l) {
			hasSpindle = true
		}
		if feedRe.MatchString(l) {
			hasFeed = true
		}

		if m := macroSetRe.FindStringSubmatch(l); m != nil {
			assigned[m[1]] = true
		} else {
			for _, m := range macroUseRe.FindAllStringSubmatch(l, -1) {
				if !assigned[m[1]] {
					findings = append(findings,
						fmt.Sprintf("line %d: macro variable #<%s> used before assignment", i+1, m[1]))
					assigned[m[1]] = true
				}
			}
		}

		if strings.HasPrefix(l, "G1 ") || l == "G1" {
			if l == prevMotion {
				findings = append(findings,
					fmt.Sprintf("line %d: duplicate consecutive motion %q", i+1, l))
			}
			prevMotion = l
		} else if l != "" {
			prevMotion = ""
		}

		if stepRe.MatchString(l) && i+1 < len(lines) {
			next := stripBlockNumber(strings.TrimSpace(lines[i+1]))
			if stepRe.MatchString(next) || next == "M5" {
				findings = append(findings,
					fmt.Sprintf("line %d: step %q emits no lines", i+1, l))
			}
		}
	}

	if !hasToolchange {
		findings = append(findings, "no tool change (T.. M6) in program")
	}
	if !hasSpindle {
		findings = append(findings, "no spindle start (S.. M3) in program")
	}
	if !hasFeed {
		findings = append(findings, "no feed word (F..) in program")
	}
	return findings
}

// stripBlockNumber removes a leading N-number so checks see the same
// text with and without line numbering.
func stripBlockNumber(l string) string {
	if !strings.HasPrefix(l, "N") {
		return l
	}
	rest := strings.TrimLeft(l[1:], "0123456789")
	if len(rest) == len(l)-1 || !strings.HasPrefix(rest, " ") {
		return l
	}
	return rest[1:]
}
