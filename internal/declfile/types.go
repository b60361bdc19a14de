package declfile

import (
	"attr-composer/composition"
	"attr-composer/internal/inflect"
)

// File represents the root of a YAML declaration file.
type File struct {
	// Version of the declaration schema (for future compatibility).
	Version string `yaml:"version,omitempty"`

	// Hosts are the record types owning columns.
	Hosts []HostDecl `yaml:"hosts,omitempty"`

	// Composites are the value object types.
	Composites []CompositeDecl `yaml:"composites,omitempty"`
}

// HostDecl declares a host type.
type HostDecl struct {
	Name string `yaml:"name"`

	// Extends names a parent host type. Columns and rules are inherited.
	Extends string `yaml:"extends,omitempty"`

	Columns []string `yaml:"columns,omitempty"`

	Compose []ComposeDecl `yaml:"compose,omitempty"`
}

// ComposeDecl declares a forward rule on a host.
type ComposeDecl struct {
	Name      string `yaml:"name"`
	ClassName string `yaml:"class_name,omitempty"`
	InverseOf string `yaml:"inverse_of,omitempty"`

	// Mapping lists column: alias pairs in declaration order.
	Mapping Pairs `yaml:"mapping"`
}

// CompositeDecl declares a value object type.
type CompositeDecl struct {
	Name    string `yaml:"name"`
	Extends string `yaml:"extends,omitempty"`

	ComposedFrom ComposedFromList `yaml:"composed_from,omitempty"`

	// Validates lists alias: validator-tag pairs.
	Validates Pairs `yaml:"validates,omitempty"`
}

// ComposedFromDecl declares an inverse rule on a composite.
type ComposedFromDecl struct {
	Name      string `yaml:"name"`
	ClassName string `yaml:"class_name,omitempty"`
	InverseOf string `yaml:"inverse_of,omitempty"`
}

// ComposedFromList accepts a relation name, a list of names, or a list of
// full declarations.
type ComposedFromList []ComposedFromDecl

// Pair is one key: value entry of an ordered YAML mapping.
type Pair struct {
	Key   string
	Value string
}

// Pairs is an ordered YAML mapping of strings.
type Pairs []Pair

// Lookup returns the value stored under key.
func (p Pairs) Lookup(key string) (string, bool) {
	for _, e := range p {
		if e.Key == key {
			return e.Value, true
		}
	}

	return "", false
}

// Mapping converts column: alias pairs into a composition.Mapping.
func (p Pairs) Mapping() composition.Mapping {
	out := make(composition.Mapping, len(p))
	for i, e := range p {
		out[i] = composition.Pair{Column: e.Key, Alias: e.Value}
	}

	return out
}

// Class returns the explicit class name or the camelized rule name.
func (c ComposeDecl) Class() string {
	if c.ClassName != "" {
		return c.ClassName
	}

	return inflect.Camelize(c.Name)
}

// Inverse returns the explicit inverse_of or the declaring host name.
func (c ComposeDecl) Inverse(host string) string {
	if c.InverseOf != "" {
		return c.InverseOf
	}

	return host
}

// Class returns the explicit class name or the camelized relation name.
func (c ComposedFromDecl) Class() string {
	if c.ClassName != "" {
		return c.ClassName
	}

	return inflect.Camelize(c.Name)
}

// Inverse returns the explicit inverse_of or the declaring composite name.
func (c ComposedFromDecl) Inverse(composite string) string {
	if c.InverseOf != "" {
		return c.InverseOf
	}

	return composite
}

func (c ComposeDecl) options() []composition.Option {
	var opts []composition.Option
	if c.ClassName != "" {
		opts = append(opts, composition.ClassName(c.ClassName))
	}

	if c.InverseOf != "" {
		opts = append(opts, composition.InverseOf(c.InverseOf))
	}

	return opts
}

func (c ComposedFromDecl) options() []composition.Option {
	var opts []composition.Option
	if c.ClassName != "" {
		opts = append(opts, composition.ClassName(c.ClassName))
	}

	if c.InverseOf != "" {
		opts = append(opts, composition.InverseOf(c.InverseOf))
	}

	return opts
}
