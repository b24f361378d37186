package cli

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/weftline/weft/internal/rule"
)

// LoadError represents an error that occurred while loading a rule file.
type LoadError struct {
	Path    string
	Message string
	Err     error
}

func (e *LoadError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Path, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Path, e.Message)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// ruleFile is the YAML schema of a rule set file.
//
//	name: marketplace-cards
//	rules:
//	  - name: golden-apples-card
//	    match: "addToCart('Golden Apples', 0.45, 'Farruh M.')"
//	    action: replace
//	    block:
//	      - "<div ...>"
//	      - "<button ...>"
type ruleFile struct {
	Name  string      `yaml:"name"`
	Rules []ruleEntry `yaml:"rules"`
}

type ruleEntry struct {
	Name   string   `yaml:"name"`
	Match  string   `yaml:"match"`
	Action string   `yaml:"action"`
	Block  []string `yaml:"block"`
}

// LoadRuleSet reads and parses one YAML rule file into an ordered rule
// set. Parsing is syntactic only; call Set.Validate for structural
// checks (the apply path does this through the engine).
func LoadRuleSet(path string) (*rule.Set, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoadError{Path: path, Message: "cannot read rule file", Err: err}
	}

	var f ruleFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, &LoadError{Path: path, Message: "cannot parse rule file", Err: err}
	}

	set := &rule.Set{Name: f.Name, Rules: make([]rule.Rule, 0, len(f.Rules))}
	for _, e := range f.Rules {
		set.Rules = append(set.Rules, rule.Rule{
			Name:    e.Name,
			Pattern: e.Match,
			Kind:    rule.Kind(e.Action),
			Block:   e.Block,
		})
	}
	return set, nil
}
