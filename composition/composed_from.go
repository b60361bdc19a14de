package composition

import (
	"fmt"
	"sync"
)

// maxExportDepth bounds recursive attribute export.
const maxExportDepth = 32

// InverseRule is the value object side of a composition, declared with
// ComposedFrom. It owns no mapping; aliases come from the paired ForwardRule.
type InverseRule struct {
	rule

	mu      sync.Mutex
	forward *ForwardRule
}

// Forward locates the reciprocal rule on the declared host type. Only
// successful lookups are cached.
func (r *InverseRule) Forward() (*ForwardRule, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.forward != nil {
		return r.forward, nil
	}

	host, err := r.Target()
	if err != nil {
		return nil, err
	}

	fwd, err := r.forwardOn(host)
	if err != nil {
		return nil, err
	}

	r.forward = fwd

	return fwd, nil
}

// forwardOn returns the first ForwardRule of host, in declaration order,
// whose class name is this rule's inverse_of or a subtype of it. Subtype
// hosts may override the composition, so links resolve against the
// linked record's own type.
func (r *InverseRule) forwardOn(host *Type) (*ForwardRule, error) {
	for _, candidate := range host.Rules() {
		fwd, ok := candidate.(*ForwardRule)
		if ok && r.owner.schema.designates(fwd.ClassName(), r.InverseOf()) {
			return fwd, nil
		}
	}

	return nil, &ConfigurationError{
		Type:   r.owner.name,
		Rule:   r.name,
		Reason: fmt.Sprintf("%s declares no composition with class %q", host.name, r.InverseOf()),
	}
}

// forwardFor returns the forward rule that governs obj through this
// relation: the link's when obj is linked through r, the declared one
// otherwise.
func (r *InverseRule) forwardFor(obj *Object) (*ForwardRule, error) {
	if obj.parent != nil && obj.parent.rule == r {
		return obj.parent.forwardRule()
	}

	return r.Forward()
}

// Mapping returns the paired forward mapping.
func (r *InverseRule) Mapping() (Mapping, error) {
	fwd, err := r.Forward()
	if err != nil {
		return nil, err
	}

	return fwd.Mapping(), nil
}

// Aliases returns the aliases of the paired forward mapping.
func (r *InverseRule) Aliases() ([]string, error) {
	fwd, err := r.Forward()
	if err != nil {
		return nil, err
	}

	return fwd.Aliases(), nil
}

// Set stores value on obj under alias and, when obj is linked to a host,
// writes the same value into the host column that the link's forward rule
// maps alias to. The column is resolved before anything is written, so an
// unmapped alias leaves both sides untouched.
func (r *InverseRule) Set(obj *Object, alias string, value any) (any, error) {
	parent := obj.parent
	if parent == nil {
		obj.fields[alias] = value
		return value, nil
	}

	fwd, err := parent.forwardRule()
	if err != nil {
		return nil, err
	}

	col, err := fwd.ColumnFor(alias)
	if err != nil {
		return nil, err
	}

	obj.fields[alias] = value
	parent.host.SetColumn(col, value)

	return value, nil
}

// Attributes exports obj keyed by the aliases of the governing mapping.
// Fields holding composed objects are exported recursively.
func (r *InverseRule) Attributes(obj *Object) (Attributes, error) {
	fwd, err := r.forwardFor(obj)
	if err != nil {
		return nil, err
	}

	return exportAliases(obj, fwd.Aliases(), 0)
}

func exportAliases(obj *Object, aliases []string, depth int) (Attributes, error) {
	if depth > maxExportDepth {
		return nil, fmt.Errorf("%w: %s at depth %d", ErrExportDepth, obj.typ.name, depth)
	}

	out := make(Attributes, len(aliases))

	for _, alias := range aliases {
		v, err := exportValue(obj.fields[alias], depth)
		if err != nil {
			return nil, err
		}

		out[alias] = v
	}

	return out, nil
}

// exportValue expands composed values and leaves everything else as is.
func exportValue(v any, depth int) (any, error) {
	switch x := v.(type) {
	case *Object:
		if x == nil {
			return nil, nil
		}

		return x.exportAt(depth + 1)
	case Exporter:
		if isNil(x) {
			return nil, nil
		}

		return x.Attributes()
	default:
		return v, nil
	}
}
