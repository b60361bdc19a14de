package composition

import (
	"slices"

	"attr-composer/internal/inflect"
)

// ruleTable is an immutable, ordered set of rules keyed by inflect.Key of
// the rule name. Registration produces a new table; tables shared with
// ancestor types are never modified.
type ruleTable struct {
	order []string
	rules map[string]Rule
}

var emptyRules = &ruleTable{rules: map[string]Rule{}}

// with returns a copy of t holding r under name. A rule registered under an
// existing name replaces it and keeps its position.
func (t *ruleTable) with(name string, r Rule) *ruleTable {
	k := inflect.Key(name)

	next := &ruleTable{
		order: slices.Clone(t.order),
		rules: make(map[string]Rule, len(t.rules)+1),
	}
	for key, rule := range t.rules {
		next.rules[key] = rule
	}

	if _, exists := next.rules[k]; !exists {
		next.order = append(next.order, k)
	}

	next.rules[k] = r

	return next
}

func (t *ruleTable) get(name string) (Rule, bool) {
	r, ok := t.rules[inflect.Key(name)]
	return r, ok
}

// all returns the rules in registration order.
func (t *ruleTable) all() []Rule {
	out := make([]Rule, 0, len(t.order))
	for _, k := range t.order {
		out = append(out, t.rules[k])
	}

	return out
}

// table returns the rule table visible from t: its own once it registered
// anything, otherwise the nearest ancestor's.
func (t *Type) table() *ruleTable {
	t.mu.RLock()
	own := t.rules
	t.mu.RUnlock()

	if own != nil {
		return own
	}

	if t.parent != nil {
		return t.parent.table()
	}

	return emptyRules
}

// register stores r under name. The first registration on a subtype clones
// the inherited table; the ancestor's table is left untouched.
func (t *Type) register(name string, r Rule) {
	var base *ruleTable
	if t.parent != nil {
		base = t.parent.table()
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if t.rules != nil {
		base = t.rules
	} else if base == nil {
		base = emptyRules
	}

	t.rules = base.with(name, r)
}

// Rule returns the rule registered under name, including inherited rules.
func (t *Type) Rule(name string) (Rule, bool) {
	return t.table().get(name)
}

// Rules returns the visible rules in registration order.
func (t *Type) Rules() []Rule {
	return t.table().all()
}
