package composition

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"attr-composer/internal/inflect"
)

// Method is an accessor installed on a type. recv is the receiving Host or
// *Object; writers take the assigned value as their single argument.
type Method func(recv any, args ...any) (any, error)

type accessor struct {
	name string
	fn   Method
}

// methodKey folds an accessor name. A trailing "=" marks a writer and is
// kept so readers and writers never collide.
func methodKey(name string) string {
	name = strings.TrimSpace(name)
	if base, ok := strings.CutSuffix(name, "="); ok {
		return inflect.Key(base) + "="
	}

	return inflect.Key(name)
}

// Define installs fn as the accessor name on t, replacing any accessor of
// the same name. Subtypes see it unless they define their own.
func (t *Type) Define(name string, fn Method) {
	t.defineMethod(name, fn)
}

func (t *Type) defineMethod(name string, fn Method) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.methods[methodKey(name)] = accessor{name: strings.TrimSpace(name), fn: fn}
}

func (t *Type) method(name string) (Method, bool) {
	k := methodKey(name)

	for cur := t; cur != nil; cur = cur.parent {
		cur.mu.RLock()
		a, ok := cur.methods[k]
		cur.mu.RUnlock()

		if ok {
			return a.fn, true
		}
	}

	return nil, false
}

// Call invokes the accessor name on recv. Names ending in "=" address
// writers. On a composite type, a miss first materializes alias accessors
// and retries.
func (t *Type) Call(recv any, name string, args ...any) (any, error) {
	m, err := t.resolve(name)
	if err != nil {
		return nil, err
	}

	return m(recv, args...)
}

// Responds reports whether Call would find an accessor for name. It
// materializes alias accessors the same way Call does.
func (t *Type) Responds(name string) bool {
	_, err := t.resolve(name)
	return err == nil
}

func (t *Type) resolve(name string) (Method, error) {
	if m, ok := t.method(name); ok {
		return m, nil
	}

	var matErr error
	if t.kind == KindComposite {
		matErr = t.Materialize()

		if m, ok := t.method(name); ok {
			return m, nil
		}
	}

	base := strings.TrimSuffix(strings.TrimSpace(name), "=")

	// An unpaired rule might own the name, so the miss carries its error.
	return nil, &UnknownAccessorError{
		Type:        t.name,
		Name:        name,
		Suggestions: inflect.Suggest(base, t.readerNames()),
		Cause:       matErr,
	}
}

// Materialize installs alias readers and writers for every InverseRule of a
// composite type whose forward rule resolves. Installed rules are skipped,
// unresolved ones are retried on the next call, and their errors are joined.
// Calling it during bootstrap avoids materialization on first access.
func (t *Type) Materialize() error {
	if t.kind != KindComposite {
		return nil
	}

	t.matMu.Lock()
	defer t.matMu.Unlock()

	var errs []error

	for _, inv := range t.inverseRules() {
		if t.materialized[inv] {
			continue
		}

		fwd, err := inv.Forward()
		if err != nil {
			errs = append(errs, err)
			continue
		}

		for _, alias := range fwd.Aliases() {
			t.defineMethod(alias, aliasReader(alias))
			t.defineMethod(alias+"=", aliasWriter(inv, alias))
		}

		t.materialized[inv] = true

		t.schema.logger.Debug("materialized alias accessors",
			"composite", t.name, "relation", inv.name, "aliases", fwd.Aliases())
	}

	return errors.Join(errs...)
}

func aliasReader(alias string) Method {
	return func(recv any, _ ...any) (any, error) {
		obj, err := asObject(recv)
		if err != nil {
			return nil, err
		}

		return obj.fields[alias], nil
	}
}

func aliasWriter(inv *InverseRule, alias string) Method {
	return func(recv any, args ...any) (any, error) {
		obj, err := asObject(recv)
		if err != nil {
			return nil, err
		}

		v, err := oneArg(alias, args)
		if err != nil {
			return nil, err
		}

		out, err := inv.Set(obj, alias, v)
		if err == nil {
			obj.validation = nil
		}

		return out, err
	}
}

// defineBaseMethods installs the capabilities every composite type has:
// attribute export and the validity check.
func (t *Type) defineBaseMethods() {
	export := func(recv any, _ ...any) (any, error) {
		obj, err := asObject(recv)
		if err != nil {
			return nil, err
		}

		return obj.Attributes()
	}

	t.defineMethod("attributes", export)
	t.defineMethod("to_h", export)
	t.defineMethod("to_map", export)
	t.defineMethod("valid", func(recv any, _ ...any) (any, error) {
		obj, err := asObject(recv)
		if err != nil {
			return nil, err
		}

		return obj.Valid(), nil
	})
}

// Accessors returns the names of the accessors currently installed on t
// and its ancestors, sorted. Writers end in "=".
func (t *Type) Accessors() []string {
	seen := map[string]bool{}

	var out []string

	for cur := t; cur != nil; cur = cur.parent {
		cur.mu.RLock()
		for k, a := range cur.methods {
			if !seen[k] {
				seen[k] = true
				out = append(out, a.name)
			}
		}
		cur.mu.RUnlock()
	}

	sort.Strings(out)

	return out
}

func (t *Type) readerNames() []string {
	var out []string

	for _, name := range t.Accessors() {
		if !strings.HasSuffix(name, "=") {
			out = append(out, name)
		}
	}

	return out
}

func asHost(recv any) (Host, error) {
	h, ok := recv.(Host)
	if !ok || isNil(recv) {
		return nil, fmt.Errorf("%w: receiver %T is not a host", ErrUnsupportedValue, recv)
	}

	return h, nil
}

func asObject(recv any) (*Object, error) {
	obj, ok := recv.(*Object)
	if !ok || obj == nil {
		return nil, fmt.Errorf("%w: receiver %T is not a value object", ErrUnsupportedValue, recv)
	}

	return obj, nil
}

func oneArg(name string, args []any) (any, error) {
	if len(args) != 1 {
		return nil, fmt.Errorf("%w: writer %s= takes one value, got %d", ErrUnsupportedValue, name, len(args))
	}

	return args[0], nil
}
