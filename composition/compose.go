package composition

import (
	"fmt"
	"sync"

	"attr-composer/internal/inflect"
)

// ForwardRule is the host side of a composition, declared with Compose.
// It builds value objects from host columns and writes them back.
type ForwardRule struct {
	rule

	mapping Mapping

	mu      sync.Mutex
	inverse *InverseRule
}

// Mapping returns a copy of the column-to-alias table.
func (f *ForwardRule) Mapping() Mapping {
	return f.mapping.clone()
}

// Aliases returns the mapped aliases in order.
func (f *ForwardRule) Aliases() []string {
	return f.mapping.Aliases()
}

// ColumnFor returns the host column mapped to alias.
func (f *ForwardRule) ColumnFor(alias string) (string, error) {
	col, ok := f.mapping.ColumnFor(alias)
	if !ok {
		return "", &UnknownAliasError{
			Rule:        f.owner.name + "." + f.name,
			Alias:       alias,
			Suggestions: inflect.Suggest(alias, f.mapping.Aliases()),
		}
	}

	return col, nil
}

// Inverse locates the reciprocal rule: the first InverseRule on the target
// type, in declaration order, whose class name is this rule's inverse_of
// or an ancestor of it. Only successful lookups are cached.
func (f *ForwardRule) Inverse() (*InverseRule, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.inverse != nil {
		return f.inverse, nil
	}

	target, err := f.Target()
	if err != nil {
		return nil, err
	}

	for _, r := range target.Rules() {
		inv, ok := r.(*InverseRule)
		if ok && f.owner.schema.designates(f.InverseOf(), inv.ClassName()) {
			f.inverse = inv
			f.owner.schema.logger.Debug("paired composition",
				"host", f.owner.name, "composition", f.name,
				"composite", target.name, "relation", inv.name)

			return inv, nil
		}
	}

	return nil, &ConfigurationError{
		Type:   f.owner.name,
		Rule:   f.name,
		Reason: fmt.Sprintf("%s declares no composed_from rule with class %q", target.name, f.InverseOf()),
	}
}

// Get reads every mapped column of h. When all of them are blank it returns
// nil, nil. Otherwise it builds a new value object of the target type linked
// back to h and validates it; validation failures are kept on the object.
func (f *ForwardRule) Get(h Host) (*Object, error) {
	values := make([]any, len(f.mapping))
	blank := true

	for i, p := range f.mapping {
		values[i] = h.Column(p.Column)
		if !IsBlank(values[i]) {
			blank = false
		}
	}

	if blank {
		return nil, nil
	}

	target, err := f.Target()
	if err != nil {
		return nil, err
	}

	inv, err := f.Inverse()
	if err != nil {
		return nil, err
	}

	obj := newObject(target)
	for i, p := range f.mapping {
		obj.fields[p.Alias] = values[i]
	}

	obj.link(inv, f, h)
	obj.Valid()

	return obj, nil
}

// Set writes value into h. nil clears every mapped column. Otherwise the
// attributes of value are read (Exporter, map or struct) and each mapped
// column whose alias is present is written; absent aliases leave their
// columns untouched. Set returns value unchanged. An unpaired rule writes
// nothing and returns its configuration error.
func (f *ForwardRule) Set(h Host, value any) (any, error) {
	if _, err := f.Inverse(); err != nil {
		return nil, err
	}

	if isNil(value) {
		for _, p := range f.mapping {
			h.SetColumn(p.Column, nil)
		}

		return value, nil
	}

	attrs, err := toAttributes(value)
	if err != nil {
		return nil, fmt.Errorf("%s.%s: %w", f.owner.name, f.name, err)
	}

	incoming := attrs.normalized()
	for _, p := range f.mapping {
		if v, ok := incoming[inflect.Key(p.Alias)]; ok {
			h.SetColumn(p.Column, v)
		}
	}

	return value, nil
}
