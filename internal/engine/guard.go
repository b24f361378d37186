package engine

import "github.com/weftline/weft/internal/rule"

// guardState tracks, per insert-before-once rule, whether the one-shot
// insertion has already fired in the current pass.
//
// Each rule moves Pending -> Fired exactly once, on its first match.
// Fired is terminal for the pass. The state is created fresh at the
// start of every pass and never survives across passes, so a repeated
// invocation of the engine starts every rule back at Pending.
type guardState struct {
	fired map[string]bool
}

// newGuardState initializes every one-shot rule in the set to Pending.
func newGuardState(set *rule.Set) *guardState {
	g := &guardState{fired: make(map[string]bool)}
	for i := range set.Rules {
		if set.Rules[i].Kind == rule.InsertBeforeOnce {
			g.fired[set.Rules[i].Name] = false
		}
	}
	return g
}

// fire attempts the Pending -> Fired transition for the named rule.
// Returns true if the transition happened (the insertion should be
// emitted), false if the rule already fired in this pass.
func (g *guardState) fire(name string) bool {
	if g.fired[name] {
		return false
	}
	g.fired[name] = true
	return true
}
