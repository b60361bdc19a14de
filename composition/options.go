package composition

import (
	"log/slog"
)

// Options are the recognized declaration options of a rule.
type Options struct {
	// ClassName is the counterpart type name. Compose defaults it to the
	// camelized composition name, ComposedFrom to the camelized relation name.
	ClassName string
	// InverseOf names the reciprocal side. It defaults to the declaring
	// type's own name.
	InverseOf string
}

// Option customizes a Compose or ComposedFrom declaration.
type Option func(*Options)

// ClassName overrides the derived counterpart type name.
func ClassName(name string) Option {
	return func(o *Options) { o.ClassName = name }
}

// InverseOf overrides the derived reciprocal name.
func InverseOf(name string) Option {
	return func(o *Options) { o.InverseOf = name }
}

// SchemaOption configures a Schema.
type SchemaOption func(*Schema)

// WithLogger sets the logger used for definition and materialization events.
func WithLogger(l *slog.Logger) SchemaOption {
	return func(s *Schema) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithValidator replaces the default TagValidator.
func WithValidator(v Validator) SchemaOption {
	return func(s *Schema) {
		if v != nil {
			s.validator = v
		}
	}
}
