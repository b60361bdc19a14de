package composition

import (
	"slices"
	"sort"
	"strings"

	"attr-composer/internal/inflect"
)

// Pair maps one host column to one value object alias.
type Pair struct {
	Column string
	Alias  string
}

// Mapping is the ordered column-to-alias table of a forward rule.
// It is bijective: no column and no alias appears twice.
type Mapping []Pair

// MappingOf builds a Mapping from a column-to-alias map, ordered by column.
func MappingOf(m map[string]string) Mapping {
	out := make(Mapping, 0, len(m))
	for col, alias := range m {
		out = append(out, Pair{Column: col, Alias: alias})
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Column < out[j].Column })

	return out
}

// Columns returns the mapped host columns in order.
func (m Mapping) Columns() []string {
	out := make([]string, len(m))
	for i, p := range m {
		out[i] = p.Column
	}

	return out
}

// Aliases returns the mapped aliases in order.
func (m Mapping) Aliases() []string {
	out := make([]string, len(m))
	for i, p := range m {
		out[i] = p.Alias
	}

	return out
}

// ColumnFor returns the column mapped to alias.
func (m Mapping) ColumnFor(alias string) (string, bool) {
	k := inflect.Key(alias)
	for _, p := range m {
		if inflect.Key(p.Alias) == k {
			return p.Column, true
		}
	}

	return "", false
}

// AliasFor returns the alias mapped to column.
func (m Mapping) AliasFor(column string) (string, bool) {
	k := inflect.Key(column)
	for _, p := range m {
		if inflect.Key(p.Column) == k {
			return p.Alias, true
		}
	}

	return "", false
}

// validate checks that m is non-empty, names are non-blank and both sides
// are unique under inflect.Key.
func (m Mapping) validate() error {
	if len(m) == 0 {
		return invalidf("mapping is empty")
	}

	columns := make(map[string]string, len(m))
	aliases := make(map[string]string, len(m))

	for _, p := range m {
		if strings.TrimSpace(p.Column) == "" || strings.TrimSpace(p.Alias) == "" {
			return invalidf("mapping pair %q -> %q has a blank name", p.Column, p.Alias)
		}

		ck, ak := inflect.Key(p.Column), inflect.Key(p.Alias)
		if prev, dup := columns[ck]; dup {
			return invalidf("column %q is mapped twice (also as %q)", p.Column, prev)
		}

		if prev, dup := aliases[ak]; dup {
			return invalidf("alias %q is mapped twice (also as %q)", p.Alias, prev)
		}

		columns[ck] = p.Column
		aliases[ak] = p.Alias
	}

	return nil
}

func (m Mapping) clone() Mapping {
	return slices.Clone(m)
}
