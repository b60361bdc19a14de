package declfile

import (
	"fmt"

	"attr-composer/composition"
	"attr-composer/internal/inflect"
)

// Apply declares every type and rule of f on s. The file is validated
// first; a file with error diagnostics declares nothing.
//
// Types are defined parent first, then forward rules, then inverse rules,
// then validations, so class names resolve whatever order the file uses.
func Apply(f *File, s *composition.Schema) error {
	diags := Validate(f)
	if diags.HasErrors() {
		return fmt.Errorf("%w: %w", composition.ErrInvalidDeclaration, diags.Error())
	}

	idx := buildIndex(f, diags)
	types := map[string]*composition.Type{}

	hosts, err := parentFirst(idx.hostList, func(h *HostDecl) (string, string) { return h.Name, h.Extends })
	if err != nil {
		return err
	}

	for _, h := range hosts {
		var t *composition.Type

		if h.Extends == "" {
			t, err = s.DefineHost(h.Name, h.Columns...)
		} else {
			t, err = s.Extend(types[inflect.Key(h.Extends)], h.Name, h.Columns...)
		}

		if err != nil {
			return err
		}

		types[inflect.Key(h.Name)] = t
	}

	composites, err := parentFirst(idx.compositeList, func(c *CompositeDecl) (string, string) { return c.Name, c.Extends })
	if err != nil {
		return err
	}

	for _, c := range composites {
		var t *composition.Type

		if c.Extends == "" {
			t, err = s.DefineComposite(c.Name)
		} else {
			t, err = s.Extend(types[inflect.Key(c.Extends)], c.Name)
		}

		if err != nil {
			return err
		}

		types[inflect.Key(c.Name)] = t
	}

	for _, h := range idx.hostList {
		t := types[inflect.Key(h.Name)]

		for _, c := range h.Compose {
			if _, err := t.Compose(c.Name, c.Mapping.Mapping(), c.options()...); err != nil {
				return err
			}
		}
	}

	for _, c := range idx.compositeList {
		t := types[inflect.Key(c.Name)]

		for _, inv := range c.ComposedFrom {
			if _, err := t.ComposedFrom(inv.Name, inv.options()...); err != nil {
				return err
			}
		}

		for _, v := range c.Validates {
			if err := t.Validates(v.Key, v.Value); err != nil {
				return err
			}
		}
	}

	s.Logger().Debug("applied declaration file",
		"hosts", len(idx.hostList), "composites", len(idx.compositeList))

	return nil
}

// parentFirst orders declarations so that every type follows its parent.
func parentFirst[T any](decls []T, names func(T) (name, extends string)) ([]T, error) {
	pos := make(map[string]int, len(decls))
	for i, d := range decls {
		name, _ := names(d)
		pos[inflect.Key(name)] = i
	}

	order, err := topoSort(len(decls), func(i int) []int {
		_, extends := names(decls[i])
		if p, ok := pos[inflect.Key(extends)]; ok && extends != "" {
			return []int{p}
		}

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", composition.ErrInvalidDeclaration, err)
	}

	out := make([]T, len(order))
	for i, j := range order {
		out[i] = decls[j]
	}

	return out, nil
}
