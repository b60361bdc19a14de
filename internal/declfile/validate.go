package declfile

import (
	"fmt"
	"strings"

	"attr-composer/internal/common"
	"attr-composer/internal/diagnostic"
	"attr-composer/internal/inflect"
)

// Validate checks a declaration file for structural problems. It doesn't
// build a schema; Apply does that once the file is valid.
func Validate(f *File) *diagnostic.Diagnostics {
	res := &diagnostic.Diagnostics{}
	if f == nil {
		res.AddError("file_is_nil", "declaration file is nil", "", "")
		return res
	}

	if f.Version != "1" {
		res.AddWarning("unsupported_version", fmt.Sprintf("unsupported version %q, reading as \"1\"", f.Version), "", "")
	}

	idx := buildIndex(f, res)

	validateParents(res, idx)

	for i := range f.Hosts {
		validateHost(res, idx, &f.Hosts[i])
	}

	for i := range f.Composites {
		validateComposite(res, idx, &f.Composites[i])
	}

	return res
}

func validateParents(res *diagnostic.Diagnostics, idx *index) {
	for _, h := range idx.hostList {
		if h.Extends == "" {
			continue
		}

		if _, ok := idx.hosts[inflect.Key(h.Extends)]; !ok {
			res.AddError("unknown_parent", fmt.Sprintf("parent host %q not found", h.Extends), h.Name, "extends",
				inflect.Suggest(h.Extends, idx.hostNames())...)
		}
	}

	for _, c := range idx.compositeList {
		if c.Extends == "" {
			continue
		}

		if _, ok := idx.composites[inflect.Key(c.Extends)]; !ok {
			res.AddError("unknown_parent", fmt.Sprintf("parent composite %q not found", c.Extends), c.Name, "extends",
				inflect.Suggest(c.Extends, idx.compositeNames())...)
		}
	}

	for _, name := range idx.cycles() {
		res.AddError("extends_cycle", "type extends itself through its parents", name, "extends")
	}
}

func validateHost(res *diagnostic.Diagnostics, idx *index, h *HostDecl) {
	if h.Name == "" {
		return
	}

	columns := idx.hostColumns(h)

	seen := map[string]string{}
	for _, col := range columns {
		if strings.TrimSpace(col) == "" {
			res.AddError("blank_column", "column name is blank", h.Name, "columns")
			continue
		}

		k := inflect.Key(col)
		if prev, ok := seen[k]; ok {
			res.AddError("duplicate_column", fmt.Sprintf("column %q duplicates %q", col, prev), h.Name, col)
			continue
		}

		seen[k] = col
	}

	rules := map[string]struct{}{}

	for i := range h.Compose {
		c := &h.Compose[i]
		path := "compose." + c.Name

		if strings.TrimSpace(c.Name) == "" {
			res.AddError("missing_name", "compose entry needs a name", h.Name, "compose")
			continue
		}

		k := inflect.Key(c.Name)
		if _, ok := rules[k]; ok {
			res.AddError("duplicate_rule", fmt.Sprintf("composition %q declared twice", c.Name), h.Name, path)
		}

		rules[k] = struct{}{}

		if _, ok := seen[k]; ok {
			res.AddError("rule_shadows_column", fmt.Sprintf("composition %q has the name of a column", c.Name), h.Name, path)
		}

		validateMapping(res, h.Name, path, c.Mapping, seen, columns)
		validateForward(res, idx, h, c, path)
	}
}

func validateMapping(res *diagnostic.Diagnostics, typeName, path string, m Pairs, declared map[string]string, columns []string) {
	if common.IsEmpty(m) {
		res.AddError("empty_mapping", "mapping has no pairs", typeName, path)
		return
	}

	cols := map[string]struct{}{}
	aliases := map[string]struct{}{}

	for _, p := range m {
		if strings.TrimSpace(p.Key) == "" || strings.TrimSpace(p.Value) == "" {
			res.AddError("blank_pair", "mapping pairs need a column and an alias", typeName, path)
			continue
		}

		ck, ak := inflect.Key(p.Key), inflect.Key(p.Value)

		if _, ok := cols[ck]; ok {
			res.AddError("duplicate_column", fmt.Sprintf("column %q mapped twice", p.Key), typeName, path)
		}

		if _, ok := aliases[ak]; ok {
			res.AddError("duplicate_alias", fmt.Sprintf("alias %q mapped twice", p.Value), typeName, path)
		}

		cols[ck], aliases[ak] = struct{}{}, struct{}{}

		if _, ok := declared[ck]; !ok {
			res.AddError("unknown_column", fmt.Sprintf("column %q is not declared", p.Key), typeName, path+"."+p.Key,
				inflect.Suggest(p.Key, columns)...)
		}
	}
}

func validateForward(res *diagnostic.Diagnostics, idx *index, h *HostDecl, c *ComposeDecl, path string) {
	target, ok := idx.composites[inflect.Key(c.Class())]
	if !ok {
		res.AddError("unknown_class", fmt.Sprintf("composite %q not found", c.Class()), h.Name, path,
			inflect.Suggest(c.Class(), idx.compositeNames())...)

		return
	}

	inverse := c.Inverse(h.Name)

	_, found := common.FirstMatch(idx.composedFrom(target), func(inv ComposedFromDecl) bool {
		return idx.isA(inverse, inv.Class())
	})
	if !found {
		res.AddWarning("missing_reciprocal",
			fmt.Sprintf("%s declares no composed_from with class %q", target.Name, inverse), h.Name, path)
	}
}

func validateComposite(res *diagnostic.Diagnostics, idx *index, c *CompositeDecl) {
	if c.Name == "" {
		return
	}

	relations := map[string]struct{}{}

	var known []string

	for _, inv := range c.ComposedFrom {
		path := "composed_from." + inv.Name

		k := inflect.Key(inv.Name)
		if _, ok := relations[k]; ok {
			res.AddError("duplicate_rule", fmt.Sprintf("relation %q declared twice", inv.Name), c.Name, path)
		}

		relations[k] = struct{}{}

		host, ok := idx.hosts[inflect.Key(inv.Class())]
		if !ok {
			res.AddError("unknown_class", fmt.Sprintf("host %q not found", inv.Class()), c.Name, path,
				inflect.Suggest(inv.Class(), idx.hostNames())...)

			continue
		}

		inverse := inv.Inverse(c.Name)

		fwd, found := common.FirstMatch(idx.compose(host), func(f ComposeDecl) bool {
			return idx.isA(f.Class(), inverse)
		})
		if !found {
			res.AddWarning("missing_reciprocal",
				fmt.Sprintf("%s declares no composition with class %q", host.Name, inverse), c.Name, path)

			continue
		}

		for _, p := range fwd.Mapping {
			known = append(known, p.Value)
		}
	}

	for _, v := range c.Validates {
		path := "validates." + v.Key

		if strings.TrimSpace(v.Value) == "" {
			res.AddError("empty_rule", "validation tag is empty", c.Name, path)
			continue
		}

		if common.IsEmpty(known) {
			continue
		}

		if !containsKey(known, v.Key) {
			res.AddWarning("unknown_alias", fmt.Sprintf("alias %q is not mapped by any paired composition", v.Key),
				c.Name, path, inflect.Suggest(v.Key, known)...)
		}
	}
}

func containsKey(names []string, name string) bool {
	_, ok := common.FirstMatch(names, func(n string) bool { return inflect.Equal(n, name) })
	return ok
}
