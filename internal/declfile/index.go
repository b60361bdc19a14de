package declfile

import (
	"fmt"

	"attr-composer/internal/diagnostic"
	"attr-composer/internal/inflect"
)

// index resolves type names of a file case- and separator-insensitively.
type index struct {
	hosts      map[string]*HostDecl
	composites map[string]*CompositeDecl

	hostList      []*HostDecl
	compositeList []*CompositeDecl
}

func buildIndex(f *File, res *diagnostic.Diagnostics) *index {
	idx := &index{
		hosts:      map[string]*HostDecl{},
		composites: map[string]*CompositeDecl{},
	}

	seen := map[string]string{}

	claim := func(name string) bool {
		if name == "" {
			res.AddError("missing_name", "type declaration needs a name", "", "")
			return false
		}

		k := inflect.Key(name)
		if prev, ok := seen[k]; ok {
			res.AddError("duplicate_type", fmt.Sprintf("type %q duplicates %q", name, prev), name, "")
			return false
		}

		seen[k] = name

		return true
	}

	for i := range f.Hosts {
		h := &f.Hosts[i]
		if claim(h.Name) {
			idx.hosts[inflect.Key(h.Name)] = h
			idx.hostList = append(idx.hostList, h)
		}
	}

	for i := range f.Composites {
		c := &f.Composites[i]
		if claim(c.Name) {
			idx.composites[inflect.Key(c.Name)] = c
			idx.compositeList = append(idx.compositeList, c)
		}
	}

	return idx
}

func (idx *index) hostNames() []string {
	out := make([]string, len(idx.hostList))
	for i, h := range idx.hostList {
		out[i] = h.Name
	}

	return out
}

func (idx *index) compositeNames() []string {
	out := make([]string, len(idx.compositeList))
	for i, c := range idx.compositeList {
		out[i] = c.Name
	}

	return out
}

// parentOf returns the declared parent of any type, or "".
func (idx *index) parentOf(name string) string {
	k := inflect.Key(name)
	if h, ok := idx.hosts[k]; ok {
		return h.Extends
	}

	if c, ok := idx.composites[k]; ok {
		return c.Extends
	}

	return ""
}

// isA reports whether sub names super or one of super's subtypes.
func (idx *index) isA(sub, super string) bool {
	want := inflect.Key(super)
	seen := map[string]bool{}

	for cur := sub; cur != ""; cur = idx.parentOf(cur) {
		k := inflect.Key(cur)
		if k == want {
			return true
		}

		if seen[k] {
			return false
		}

		seen[k] = true
	}

	return false
}

// cycles lists the types whose extends chain loops.
func (idx *index) cycles() []string {
	var out []string

	check := func(name string) {
		seen := map[string]bool{}
		for cur := name; cur != ""; cur = idx.parentOf(cur) {
			k := inflect.Key(cur)
			if seen[k] {
				out = append(out, name)
				return
			}

			seen[k] = true
		}
	}

	for _, h := range idx.hostList {
		check(h.Name)
	}

	for _, c := range idx.compositeList {
		check(c.Name)
	}

	return out
}

// chain returns name's ancestors root first, then name. It stops at the
// first repeated or unknown type.
func (idx *index) chain(name string) []string {
	var rev []string

	seen := map[string]bool{}
	for cur := name; cur != ""; cur = idx.parentOf(cur) {
		k := inflect.Key(cur)
		if seen[k] {
			break
		}

		seen[k] = true

		rev = append(rev, cur)
	}

	out := make([]string, len(rev))
	for i, n := range rev {
		out[len(rev)-1-i] = n
	}

	return out
}

func (idx *index) hostColumns(h *HostDecl) []string {
	var out []string

	for _, name := range idx.chain(h.Name) {
		if anc, ok := idx.hosts[inflect.Key(name)]; ok {
			out = append(out, anc.Columns...)
		}
	}

	return out
}

// compose lists h's forward rules, inherited first.
func (idx *index) compose(h *HostDecl) []ComposeDecl {
	var out []ComposeDecl

	for _, name := range idx.chain(h.Name) {
		if anc, ok := idx.hosts[inflect.Key(name)]; ok {
			out = append(out, anc.Compose...)
		}
	}

	return out
}

// composedFrom lists c's inverse rules, inherited first.
func (idx *index) composedFrom(c *CompositeDecl) []ComposedFromDecl {
	var out []ComposedFromDecl

	for _, name := range idx.chain(c.Name) {
		if anc, ok := idx.composites[inflect.Key(name)]; ok {
			out = append(out, anc.ComposedFrom...)
		}
	}

	return out
}
