// Package rule defines the declarative patch rule table.
//
// A rule pairs a literal-text predicate with an action: either replace
// the matched line with a fixed block, or insert a fixed block before
// the matched line the first time it is seen in a pass. Rules live in
// an ordered Set; for any given line the first rule in declaration
// order whose pattern is contained in the line wins, and at most one
// rule fires per line.
//
// Matching is exact literal substring containment. There is no regex
// syntax, no case folding, and no whitespace trimming: a rule author
// must supply the precise marker text as it appears in the document.
package rule

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"io"
	"strings"
)

// Kind selects what a rule does with its matched line.
type Kind string

const (
	// Replace consumes the matched line and emits the rule's block in
	// its place. Fires on every match.
	Replace Kind = "replace"

	// InsertBeforeOnce emits the rule's block immediately before the
	// matched line, on the rule's first match only. Later matches in
	// the same pass emit the line unchanged.
	InsertBeforeOnce Kind = "insert-before-once"
)

// Rule is one row of the patch table.
type Rule struct {
	// Name identifies the rule in reports and journal records.
	// Required and unique within a Set.
	Name string

	// Pattern is the literal marker text. A line matches when it
	// contains Pattern as an exact substring.
	Pattern string

	// Kind is the action taken on a match.
	Kind Kind

	// Block is the ordered sequence of lines the rule emits.
	Block []string
}

// Matches reports whether line contains the rule's pattern.
func (r *Rule) Matches(line string) bool {
	return strings.Contains(line, r.Pattern)
}

// Set is an ordered rule table. Order is significant: Match evaluates
// rules in declaration order and returns the first hit.
type Set struct {
	// Name identifies the rule set (one set = one patch pass).
	Name string

	// Rules in evaluation order.
	Rules []Rule
}

// Match returns the first rule whose pattern is a literal substring of
// line, or (nil, false) if no rule matches. Evaluation is pure: the
// same line always selects the same rule within a set.
func (s *Set) Match(line string) (*Rule, bool) {
	for i := range s.Rules {
		if s.Rules[i].Matches(line) {
			return &s.Rules[i], true
		}
	}
	return nil, false
}

// ValidationError describes one defect found in a rule set.
type ValidationError struct {
	Rule    string `json:"rule,omitempty"`
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error implements the error interface.
func (e ValidationError) Error() string {
	if e.Rule != "" {
		return fmt.Sprintf("rule %q: %s: %s", e.Rule, e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Validate checks structural soundness of the set: a nonempty set name,
// and for every rule a nonempty unique name, a nonempty pattern, a
// known kind, and a nonempty block. Returns all defects found.
func (s *Set) Validate() []ValidationError {
	var errs []ValidationError

	if strings.TrimSpace(s.Name) == "" {
		errs = append(errs, ValidationError{Field: "name", Message: "rule set name is required"})
	}
	if len(s.Rules) == 0 {
		errs = append(errs, ValidationError{Field: "rules", Message: "rule set has no rules"})
	}

	seen := make(map[string]bool, len(s.Rules))
	for i := range s.Rules {
		r := &s.Rules[i]

		name := r.Name
		if strings.TrimSpace(name) == "" {
			errs = append(errs, ValidationError{
				Field:   "name",
				Message: fmt.Sprintf("rule at index %d has no name", i),
			})
		} else if seen[name] {
			errs = append(errs, ValidationError{
				Rule:    name,
				Field:   "name",
				Message: "duplicate rule name",
			})
		}
		seen[name] = true

		if r.Pattern == "" {
			errs = append(errs, ValidationError{Rule: name, Field: "match", Message: "pattern is empty"})
		}
		if r.Kind != Replace && r.Kind != InsertBeforeOnce {
			errs = append(errs, ValidationError{
				Rule:    name,
				Field:   "action",
				Message: fmt.Sprintf("unknown action %q", r.Kind),
			})
		}
		if len(r.Block) == 0 {
			errs = append(errs, ValidationError{Rule: name, Field: "block", Message: "block is empty"})
		}
	}

	return errs
}

// Fingerprint returns a stable hex digest of the set's full content:
// set name, rule order, and every rule's name, kind, pattern and block.
// Two sets fingerprint equal exactly when they patch identically, so
// the journal can recognize a rule set across runs regardless of which
// file it was loaded from.
func (s *Set) Fingerprint() string {
	h := sha256.New()
	writeField(h, s.Name)
	for i := range s.Rules {
		r := &s.Rules[i]
		writeField(h, r.Name)
		writeField(h, string(r.Kind))
		writeField(h, r.Pattern)
		var n [8]byte
		binary.BigEndian.PutUint64(n[:], uint64(len(r.Block)))
		h.Write(n[:])
		for _, line := range r.Block {
			writeField(h, line)
		}
	}
	return hex.EncodeToString(h.Sum(nil))
}

// writeField writes a length-prefixed string so that adjacent fields
// cannot collide under concatenation.
func writeField(h io.Writer, s string) {
	var n [8]byte
	binary.BigEndian.PutUint64(n[:], uint64(len(s)))
	h.Write(n[:])
	h.Write([]byte(s))
}
