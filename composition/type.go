package composition

import (
	"sort"
	"strings"
	"sync"

	"attr-composer/internal/inflect"
)

// Type is a host or composite type of a Schema. It carries the rule table
// and the accessor dispatch table for its instances.
type Type struct {
	schema *Schema
	name   string
	kind   Kind
	parent *Type

	mu          sync.RWMutex
	columns     []string
	rules       *ruleTable
	methods     map[string]accessor
	validations []fieldValidation

	// matMu serializes alias materialization.
	matMu        sync.Mutex
	materialized map[*InverseRule]bool
}

// Name returns the type name.
func (t *Type) Name() string { return t.name }

// Kind returns whether t is a host or a composite type.
func (t *Type) Kind() Kind { return t.kind }

// Parent returns the type t extends, or nil.
func (t *Type) Parent() *Type { return t.parent }

// Schema returns the schema t belongs to.
func (t *Type) Schema() *Schema { return t.schema }

// Columns returns the declared columns, inherited ones first.
func (t *Type) Columns() []string {
	var out []string
	if t.parent != nil {
		out = t.parent.Columns()
	}

	t.mu.RLock()
	defer t.mu.RUnlock()

	return append(out, t.columns...)
}

// column returns the declared spelling of name.
func (t *Type) column(name string) (string, bool) {
	k := inflect.Key(name)
	for _, c := range t.Columns() {
		if inflect.Key(c) == k {
			return c, true
		}
	}

	return "", false
}

func (t *Type) addColumn(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return invalidf("%s: column name is blank", t.name)
	}

	if existing, dup := t.column(name); dup {
		return invalidf("%s: column %q is already declared as %q", t.name, name, existing)
	}

	t.mu.Lock()
	t.columns = append(t.columns, name)
	t.mu.Unlock()

	t.defineMethod(name, func(recv any, _ ...any) (any, error) {
		h, err := asHost(recv)
		if err != nil {
			return nil, err
		}

		return h.Column(name), nil
	})
	t.defineMethod(name+"=", func(recv any, args ...any) (any, error) {
		h, err := asHost(recv)
		if err != nil {
			return nil, err
		}

		v, err := oneArg(name, args)
		if err != nil {
			return nil, err
		}

		h.SetColumn(name, v)

		return v, nil
	})

	return nil
}

// Compose declares a composition on a host type: name becomes a reader and
// a writer of a value object whose aliases map onto the host columns.
// Defaults: ClassName is Camelize(name), InverseOf is the host type name.
// Declaring the same name again replaces the earlier rule.
func (t *Type) Compose(name string, mapping Mapping, opts ...Option) (*ForwardRule, error) {
	if t.kind != KindHost {
		return nil, invalidf("compose %q: %s is not a host type", name, t.name)
	}

	name = strings.TrimSpace(name)
	if name == "" {
		return nil, invalidf("%s: composition name is blank", t.name)
	}

	if col, clash := t.column(name); clash {
		return nil, invalidf("%s: composition %q clashes with column %q", t.name, name, col)
	}

	if err := mapping.validate(); err != nil {
		return nil, err
	}

	m := mapping.clone()
	for i, p := range m {
		col, ok := t.column(p.Column)
		if !ok {
			return nil, invalidf("%s.%s: column %q is not declared%s", t.name, name, p.Column,
				suggestionSuffix(inflect.Suggest(p.Column, t.Columns())))
		}

		m[i].Column = col
	}

	o := Options{ClassName: inflect.Camelize(name), InverseOf: t.name}
	for _, opt := range opts {
		opt(&o)
	}

	f := &ForwardRule{rule: rule{name: name, opts: o, owner: t}, mapping: m}
	t.register(name, f)

	t.defineMethod(name, func(recv any, _ ...any) (any, error) {
		h, err := asHost(recv)
		if err != nil {
			return nil, err
		}

		obj, err := f.Get(h)
		if obj == nil {
			return nil, err
		}

		return obj, err
	})
	t.defineMethod(name+"=", func(recv any, args ...any) (any, error) {
		h, err := asHost(recv)
		if err != nil {
			return nil, err
		}

		v, err := oneArg(name, args)
		if err != nil {
			return nil, err
		}

		return f.Set(h, v)
	})

	t.schema.logger.Debug("declared composition",
		"host", t.name, "composition", name, "class_name", o.ClassName, "inverse_of", o.InverseOf, "columns", len(m))

	return f, nil
}

// ComposedFrom declares on a composite type the relation back to the host
// it is composed from. relation becomes the back-reference accessor.
// Defaults: ClassName is Camelize(relation), InverseOf is the composite
// type name.
func (t *Type) ComposedFrom(relation string, opts ...Option) (*InverseRule, error) {
	if t.kind != KindComposite {
		return nil, invalidf("composed_from %q: %s is not a composite type", relation, t.name)
	}

	relation = strings.TrimSpace(relation)
	if relation == "" {
		return nil, invalidf("%s: relation name is blank", t.name)
	}

	o := Options{ClassName: inflect.Camelize(relation), InverseOf: t.name}
	for _, opt := range opts {
		opt(&o)
	}

	r := &InverseRule{rule: rule{name: relation, opts: o, owner: t}}
	t.register(relation, r)

	t.defineMethod(relation, func(recv any, _ ...any) (any, error) {
		obj, err := asObject(recv)
		if err != nil {
			return nil, err
		}

		if obj.parent == nil || obj.parent.rule != r {
			return nil, nil
		}

		return obj.parent.host, nil
	})
	t.defineMethod(relation+"=", func(recv any, args ...any) (any, error) {
		obj, err := asObject(recv)
		if err != nil {
			return nil, err
		}

		v, err := oneArg(relation, args)
		if err != nil {
			return nil, err
		}

		if isNil(v) {
			obj.unlink(r)
			return nil, nil
		}

		h, ok := v.(Host)
		if !ok {
			return nil, &ConfigurationError{Type: t.name, Rule: relation, Reason: "value is not a host", Cause: ErrUnsupportedValue}
		}

		obj.link(r, nil, h)

		return v, nil
	})

	t.schema.logger.Debug("declared composed_from",
		"composite", t.name, "relation", relation, "class_name", o.ClassName, "inverse_of", o.InverseOf)

	return r, nil
}

// Validates adds a validation rule, in go-playground/validator tag syntax,
// for alias on a composite type.
func (t *Type) Validates(alias, tag string) error {
	if t.kind != KindComposite {
		return invalidf("validates %q: %s is not a composite type", alias, t.name)
	}

	if strings.TrimSpace(alias) == "" || strings.TrimSpace(tag) == "" {
		return invalidf("%s: validation needs an alias and a tag", t.name)
	}

	t.mu.Lock()
	t.validations = append(t.validations, fieldValidation{alias: alias, tag: tag})
	t.mu.Unlock()

	return nil
}

func (t *Type) fieldValidations() []fieldValidation {
	var out []fieldValidation
	if t.parent != nil {
		out = t.parent.fieldValidations()
	}

	t.mu.RLock()
	defer t.mu.RUnlock()

	return append(out, t.validations...)
}

// inverseRules returns the visible InverseRules in declaration order.
func (t *Type) inverseRules() []*InverseRule {
	var out []*InverseRule

	for _, r := range t.Rules() {
		if inv, ok := r.(*InverseRule); ok {
			out = append(out, inv)
		}
	}

	return out
}

// New builds a standalone value object of a composite type. Keys naming a
// relation link the object to the given host; every other key must be an
// alias of a paired composition. Fields are set before the link, so
// construction never writes to a host.
func (t *Type) New(attrs Attributes) (*Object, error) {
	if t.kind != KindComposite {
		return nil, invalidf("%s is not a composite type", t.name)
	}

	obj := newObject(t)

	keys := make([]string, 0, len(attrs))
	for k := range attrs {
		keys = append(keys, k)
	}

	sort.Strings(keys)

	type pending struct {
		rule *InverseRule
		host Host
	}

	var links []pending

	for _, k := range keys {
		v := attrs[k]

		if r := t.relation(k); r != nil {
			if isNil(v) {
				continue
			}

			h, ok := v.(Host)
			if !ok {
				return nil, &ConfigurationError{Type: t.name, Rule: r.name, Reason: "value is not a host", Cause: ErrUnsupportedValue}
			}

			links = append(links, pending{rule: r, host: h})

			continue
		}

		alias, err := t.alias(k)
		if err != nil {
			return nil, err
		}

		obj.fields[alias] = v
	}

	for _, l := range links {
		obj.link(l.rule, nil, l.host)
	}

	return obj, nil
}

// relation returns the InverseRule declared under name.
func (t *Type) relation(name string) *InverseRule {
	r, ok := t.Rule(name)
	if !ok {
		return nil
	}

	inv, _ := r.(*InverseRule)

	return inv
}

// alias returns the declared spelling of an alias of any paired composition.
func (t *Type) alias(name string) (string, error) {
	k := inflect.Key(name)

	var (
		known []string
		errs  []error
	)

	for _, inv := range t.inverseRules() {
		aliases, err := inv.Aliases()
		if err != nil {
			errs = append(errs, err)
			continue
		}

		for _, a := range aliases {
			if inflect.Key(a) == k {
				return a, nil
			}
		}

		known = append(known, aliases...)
	}

	if len(errs) > 0 {
		return "", errs[0]
	}

	return "", &UnknownAccessorError{Type: t.name, Name: name, Suggestions: inflect.Suggest(name, known)}
}

// NewRecord builds a host record and assigns values through Assign.
func (t *Type) NewRecord(values Attributes) (*Record, error) {
	r, err := t.Wrap(ColumnMap{})
	if err != nil {
		return nil, err
	}

	if err := r.Assign(values); err != nil {
		return nil, err
	}

	return r, nil
}

// Wrap builds a host record over an existing column store.
func (t *Type) Wrap(cols Columns) (*Record, error) {
	if t.kind != KindHost {
		return nil, invalidf("%s is not a host type", t.name)
	}

	if cols == nil {
		cols = ColumnMap{}
	}

	return &Record{typ: t, cols: cols}, nil
}

// Is reports whether t is other or extends it.
func (t *Type) Is(other *Type) bool {
	for cur := t; cur != nil; cur = cur.parent {
		if cur == other {
			return true
		}
	}

	return false
}

func suggestionSuffix(s []string) string {
	return withSuggestions("", s)
}
