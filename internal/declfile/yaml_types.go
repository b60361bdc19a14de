package declfile

import (
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"
)

// --- Pairs YAML methods ---

// UnmarshalYAML implements custom YAML unmarshaling for Pairs.
// Accepts a mapping of scalars and keeps the declaration order.
func (p *Pairs) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: expected a mapping, got %v", node.Line, kindName(node.Kind))
	}

	out := make(Pairs, 0, len(node.Content)/2)

	for i := 0; i+1 < len(node.Content); i += 2 {
		var key, value string

		err := node.Content[i].Decode(&key)
		if err != nil {
			return err
		}

		err = node.Content[i+1].Decode(&value)
		if err != nil {
			return fmt.Errorf("line %d: value of %q: %w", node.Content[i+1].Line, key, err)
		}

		out = append(out, Pair{Key: key, Value: value})
	}

	*p = out

	return nil
}

// MarshalYAML implements custom YAML marshaling for Pairs, preserving order.
func (p Pairs) MarshalYAML() (any, error) {
	node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}

	for _, e := range p {
		node.Content = append(node.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: e.Key},
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: e.Value},
		)
	}

	return node, nil
}

// --- ComposedFromList YAML methods ---

// UnmarshalYAML implements custom YAML unmarshaling for ComposedFromList.
// Accepts:
//   - Single relation: "user"
//   - Single declaration: {name: user, class_name: Account}
//   - Array of either: [user, {name: owner, class_name: Account}]
func (c *ComposedFromList) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode, yaml.MappingNode:
		decl, err := parseComposedFrom(node)
		if err != nil {
			return err
		}

		*c = ComposedFromList{decl}

		return nil

	case yaml.SequenceNode:
		out := make(ComposedFromList, 0, len(node.Content))

		for _, item := range node.Content {
			decl, err := parseComposedFrom(item)
			if err != nil {
				return err
			}

			out = append(out, decl)
		}

		*c = out

		return nil

	default:
		return fmt.Errorf("line %d: expected string, map, or array, got %v", node.Line, kindName(node.Kind))
	}
}

// MarshalYAML implements custom YAML marshaling for ComposedFromList.
// Entries without options are written as bare relation names.
func (c ComposedFromList) MarshalYAML() (any, error) {
	out := make([]any, len(c))

	for i, decl := range c {
		if decl.ClassName == "" && decl.InverseOf == "" {
			out[i] = decl.Name
		} else {
			out[i] = decl
		}
	}

	return out, nil
}

func parseComposedFrom(node *yaml.Node) (ComposedFromDecl, error) {
	switch node.Kind {
	case yaml.ScalarNode:
		var name string

		err := node.Decode(&name)
		if err != nil {
			return ComposedFromDecl{}, err
		}

		return ComposedFromDecl{Name: name}, nil

	case yaml.MappingNode:
		var decl ComposedFromDecl

		err := node.Decode(&decl)
		if err != nil {
			return ComposedFromDecl{}, err
		}

		if decl.Name == "" {
			return ComposedFromDecl{}, errors.New("composed_from entry needs a name")
		}

		return decl, nil

	default:
		return ComposedFromDecl{}, fmt.Errorf("line %d: expected string or map in composed_from, got %v",
			node.Line, kindName(node.Kind))
	}
}

func kindName(k yaml.Kind) string {
	switch k {
	case yaml.DocumentNode:
		return "document"
	case yaml.SequenceNode:
		return "sequence"
	case yaml.MappingNode:
		return "mapping"
	case yaml.ScalarNode:
		return "scalar"
	case yaml.AliasNode:
		return "alias"
	default:
		return "unknown"
	}
}
