// Package engine implements the weft line rewriter.
//
// The rewriter makes exactly one forward pass over a document's lines,
// consulting the rule set per line with no lookahead or lookbehind.
// For each input line the first matching rule (in declaration order)
// fires: a replace rule consumes the line and emits its block, an
// insert-before-once rule emits its block before the line on the
// rule's first match only. Lines matching no rule pass through
// byte-for-byte.
//
// Determinism: rules are evaluated in declaration order, output lines
// keep the relative order of input lines, and the pass is bounded by
// document size. No concurrency, no randomness, no recursion.
//
// The one-shot guard is scoped to a single pass. Rewriting the output
// of a previous pass with the same rule set will match the one-shot
// marker again and insert a duplicate block; callers that need cross-run
// idempotence should consult the journal before applying (see
// internal/journal).
package engine

import (
	"github.com/weftline/weft/internal/rule"
)

// Result is the outcome of one pass.
type Result struct {
	// Lines is the rewritten document.
	Lines []string

	// Firings counts, per rule name, the matches that changed output:
	// every replace expansion and the single insertion of a one-shot
	// rule.
	Firings map[string]int

	// Suppressed counts, per rule name, one-shot matches after the
	// first, which passed through unchanged.
	Suppressed map[string]int
}

// LineDelta returns the change in line count produced by the pass.
func (r *Result) LineDelta(inputLines int) int {
	return len(r.Lines) - inputLines
}

// Rewrite runs one pass of the rule set over the given lines.
//
// The set is validated first; an invalid set aborts the pass with a
// RULESET_INVALID error before any line is processed. The input slice
// is never mutated.
func Rewrite(lines []string, set *rule.Set) (*Result, error) {
	if verrs := set.Validate(); len(verrs) > 0 {
		joined := make([]error, len(verrs))
		for i, ve := range verrs {
			joined[i] = ve
		}
		return nil, NewRuleSetInvalidError(set.Name, joined)
	}

	guards := newGuardState(set)
	res := &Result{
		Lines:      make([]string, 0, len(lines)),
		Firings:    make(map[string]int),
		Suppressed: make(map[string]int),
	}

	for _, line := range lines {
		r, ok := set.Match(line)
		if !ok {
			res.Lines = append(res.Lines, line)
			continue
		}

		switch r.Kind {
		case rule.Replace:
			res.Lines = append(res.Lines, r.Block...)
			res.Firings[r.Name]++

		case rule.InsertBeforeOnce:
			if guards.fire(r.Name) {
				res.Lines = append(res.Lines, r.Block...)
				res.Lines = append(res.Lines, line)
				res.Firings[r.Name]++
			} else {
				res.Lines = append(res.Lines, line)
				res.Suppressed[r.Name]++
			}
		}
	}

	return res, nil
}
