package composition

import (
	"fmt"
	"slices"

	"attr-composer/internal/inflect"
)

// Object is a value object of a composite type. It is a view over host
// columns: the forward getter builds a new one on every call.
type Object struct {
	typ    *Type
	fields map[string]any
	parent *parentLink

	validation *ValidationResult
}

// parentLink is the single back-reference of an Object: which relation it
// was composed through and the host on the other end. forward is resolved
// against the host's type on first use when the link was not made by a
// forward getter.
type parentLink struct {
	rule    *InverseRule
	forward *ForwardRule
	host    Host
}

func (l *parentLink) forwardRule() (*ForwardRule, error) {
	if l.forward != nil {
		return l.forward, nil
	}

	ht := l.host.HostType()
	if ht == nil {
		return l.rule.Forward()
	}

	fwd, err := l.rule.forwardOn(ht)
	if err != nil {
		return nil, err
	}

	l.forward = fwd

	return fwd, nil
}

var _ Exporter = (*Object)(nil)

func newObject(t *Type) *Object {
	return &Object{typ: t, fields: map[string]any{}}
}

// Type returns the object's composite type.
func (o *Object) Type() *Type { return o.typ }

// Get calls the reader accessor name: an alias, a relation or a base
// capability such as "attributes".
func (o *Object) Get(name string) (any, error) {
	return o.typ.Call(o, name)
}

// Set calls the writer accessor name. Writing an alias of a linked object
// also writes the mapped host column.
func (o *Object) Set(name string, value any) error {
	_, err := o.typ.Call(o, name+"=", value)
	return err
}

// Responds reports whether name is an accessor of the object's type.
func (o *Object) Responds(name string) bool {
	return o.typ.Responds(name)
}

// Field returns the raw value stored under alias without dispatching.
func (o *Object) Field(alias string) any {
	if v, ok := o.fields[alias]; ok {
		return v
	}

	k := inflect.Key(alias)
	for name, v := range o.fields {
		if inflect.Key(name) == k {
			return v
		}
	}

	return nil
}

// Parent returns the linked host and the relation it was linked through,
// or nil and "" for a standalone object.
func (o *Object) Parent() (Host, string) {
	if o.parent == nil {
		return nil, ""
	}

	return o.parent.host, o.parent.rule.name
}

// link replaces the parent link; an object belongs to one host at a time.
// fwd may be nil.
func (o *Object) link(r *InverseRule, fwd *ForwardRule, h Host) {
	if o.parent != nil && (o.parent.host != h || o.parent.rule != r) {
		o.typ.schema.logger.Warn("relinking composed object",
			"composite", o.typ.name, "from", o.parent.rule.name, "to", r.name)
	}

	o.parent = &parentLink{rule: r, forward: fwd, host: h}
}

// unlink clears the parent link if it was made through r.
func (o *Object) unlink(r *InverseRule) {
	if o.parent != nil && o.parent.rule == r {
		o.parent = nil
	}
}

// Attributes exports the object keyed by alias. Linked objects export the
// aliases of their relation's mapping; standalone objects use the first
// relation that pairs, or their raw fields when the type declares none.
func (o *Object) Attributes() (Attributes, error) {
	if o == nil {
		return nil, nil
	}

	return o.exportAt(0)
}

// ToMap is an alias of Attributes.
func (o *Object) ToMap() (Attributes, error) {
	return o.Attributes()
}

func (o *Object) exportAt(depth int) (Attributes, error) {
	fwd, err := o.exportRule()
	if err != nil {
		return nil, err
	}

	if fwd != nil {
		return exportAliases(o, fwd.Aliases(), depth)
	}

	if depth > maxExportDepth {
		return nil, fmt.Errorf("%w: %s at depth %d", ErrExportDepth, o.typ.name, depth)
	}

	out := make(Attributes, len(o.fields))

	for k, v := range o.fields {
		ev, err := exportValue(v, depth)
		if err != nil {
			return nil, err
		}

		out[k] = ev
	}

	return out, nil
}

// exportRule picks the forward rule whose aliases an export uses. nil, nil
// means the type declares no relation and raw fields are exported.
func (o *Object) exportRule() (*ForwardRule, error) {
	if o.parent != nil {
		return o.parent.forwardRule()
	}

	var firstErr error

	for _, inv := range o.typ.inverseRules() {
		fwd, err := inv.Forward()
		if err != nil {
			if firstErr == nil {
				firstErr = err
			}

			continue
		}

		return fwd, nil
	}

	return nil, firstErr
}

// Valid runs the schema validator unless a result is cached. Writes through
// alias accessors drop the cached result.
func (o *Object) Valid() bool {
	if o.validation == nil {
		res := o.typ.schema.validator.Validate(o)
		o.validation = &res
	}

	return o.validation.Valid
}

// Errors returns the validation messages of the last check, running one if
// none is cached.
func (o *Object) Errors() []string {
	o.Valid()

	return slices.Clone(o.validation.Errors)
}

// Decode copies the exported attributes into the struct pointed to by out.
// Fields match aliases by name, ignoring case and separators, or by the
// "composition" struct tag.
func (o *Object) Decode(out any) error {
	attrs, err := o.Attributes()
	if err != nil {
		return err
	}

	return decodeAttributes(attrs, out)
}
