package cli

import (
	"fmt"
	"io"
	"sort"
)

// PassReport summarizes one engine pass over the document.
type PassReport struct {
	RuleSet     string         `json:"rule_set"`
	Fingerprint string         `json:"fingerprint"`
	Skipped     bool           `json:"skipped,omitempty"`
	Firings     map[string]int `json:"firings,omitempty"`
	Suppressed  map[string]int `json:"suppressed,omitempty"`
	LinesBefore int            `json:"lines_before"`
	LinesAfter  int            `json:"lines_after"`
}

// RunReport summarizes an apply or plan invocation.
type RunReport struct {
	Document  string       `json:"document"`
	DryRun    bool         `json:"dry_run,omitempty"`
	Committed bool         `json:"committed"`
	Passes    []PassReport `json:"passes"`
}

// render writes the human-readable form of the report.
func (r *RunReport) render(w io.Writer) {
	fmt.Fprintf(w, "document %s\n", r.Document)
	for _, p := range r.Passes {
		fp := p.Fingerprint
		if len(fp) > 12 {
			fp = fp[:12]
		}
		if p.Skipped {
			fmt.Fprintf(w, "pass %s (%s): skipped, already applied\n", p.RuleSet, fp)
			continue
		}
		fmt.Fprintf(w, "pass %s (%s): lines %d -> %d\n", p.RuleSet, fp, p.LinesBefore, p.LinesAfter)
		for _, name := range sortedKeys(p.Firings, p.Suppressed) {
			fired := p.Firings[name]
			suppressed := p.Suppressed[name]
			switch {
			case suppressed > 0:
				fmt.Fprintf(w, "  %s: %d fired, %d suppressed\n", name, fired, suppressed)
			default:
				fmt.Fprintf(w, "  %s: %d fired\n", name, fired)
			}
		}
	}
	switch {
	case r.DryRun:
		fmt.Fprintln(w, "dry run, nothing written")
	case r.Committed:
		fmt.Fprintln(w, "committed")
	default:
		fmt.Fprintln(w, "no changes written")
	}
}

// sortedKeys merges the key sets of both maps in sorted order so the
// text report is deterministic.
func sortedKeys(ms ...map[string]int) []string {
	seen := make(map[string]bool)
	var keys []string
	for _, m := range ms {
		for k := range m {
			if !seen[k] {
				seen[k] = true
				keys = append(keys, k)
			}
		}
	}
	sort.Strings(keys)
	return keys
}
