package composition

import (
	"fmt"

	"attr-composer/internal/inflect"
)

// Rule is a composition rule registered on a type: a *ForwardRule on host
// types, an *InverseRule on composite types.
type Rule interface {
	// Name is the composition name (forward) or the relation name (inverse).
	Name() string
	// ClassName is the counterpart type name.
	ClassName() string
	// InverseOf names the reciprocal side.
	InverseOf() string
	// Owner is the type the rule was declared on.
	Owner() *Type
	// Target resolves ClassName in the owner's schema.
	Target() (*Type, error)
}

type rule struct {
	name  string
	opts  Options
	owner *Type
}

func (r *rule) Name() string      { return r.name }
func (r *rule) ClassName() string { return r.opts.ClassName }
func (r *rule) InverseOf() string { return r.opts.InverseOf }
func (r *rule) Owner() *Type      { return r.owner }

// Target resolves the counterpart type at call time so that declarations
// can reference types defined later.
func (r *rule) Target() (*Type, error) {
	t, ok := r.owner.schema.Lookup(r.opts.ClassName)
	if !ok {
		return nil, &ConfigurationError{
			Type:   r.owner.name,
			Rule:   r.name,
			Reason: fmt.Sprintf("class %q is not defined", r.opts.ClassName),
			Cause:  ErrUnknownType,
		}
	}

	return t, nil
}

// designates reports whether the class name sub names the type super names,
// or one of its subtypes.
func (s *Schema) designates(sub, super string) bool {
	if inflect.Equal(sub, super) {
		return true
	}

	a, ok := s.Lookup(sub)
	if !ok {
		return false
	}

	b, ok := s.Lookup(super)

	return ok && a.Is(b)
}
