package composition

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrConfiguration reports a rule whose counterpart (reciprocal rule or
	// target type) cannot be located.
	ErrConfiguration = errors.New("composition misconfigured")
	// ErrUnknownAlias reports a value object field that is not part of the
	// forward mapping it is written through.
	ErrUnknownAlias = errors.New("unknown alias")
	// ErrUnknownAccessor reports a name with no accessor on the receiving type.
	ErrUnknownAccessor = errors.New("unknown accessor")
	// ErrUnknownType reports a class name that is not defined in the schema.
	ErrUnknownType = errors.New("unknown type")
	// ErrInvalidDeclaration reports a rejected type or rule declaration.
	ErrInvalidDeclaration = errors.New("invalid declaration")
	// ErrExportDepth reports an attribute export that nested too deeply,
	// which only happens when composed objects reference each other in a cycle.
	ErrExportDepth = errors.New("attribute export nested too deeply")
	// ErrUnsupportedValue reports a value that cannot be turned into Attributes
	// or a receiver of the wrong kind.
	ErrUnsupportedValue = errors.New("unsupported value")
)

// ConfigurationError describes a rule that could not be paired with its
// counterpart. It matches ErrConfiguration and, when set, Cause.
type ConfigurationError struct {
	Type   string
	Rule   string
	Reason string
	Cause  error
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("%s.%s: %s", e.Type, e.Rule, e.Reason)
}

func (e *ConfigurationError) Unwrap() []error {
	if e.Cause == nil {
		return []error{ErrConfiguration}
	}

	return []error{ErrConfiguration, e.Cause}
}

// UnknownAliasError is returned by reverse lookups of an alias that is not
// mapped by the rule.
type UnknownAliasError struct {
	Rule        string
	Alias       string
	Suggestions []string
}

func (e *UnknownAliasError) Error() string {
	return withSuggestions(fmt.Sprintf("%s: alias %q is not mapped", e.Rule, e.Alias), e.Suggestions)
}

func (e *UnknownAliasError) Unwrap() error { return ErrUnknownAlias }

// UnknownAccessorError is returned when a type has no accessor of the given
// name. Cause holds the materialization error of the type, if any.
type UnknownAccessorError struct {
	Type        string
	Name        string
	Suggestions []string
	Cause       error
}

func (e *UnknownAccessorError) Error() string {
	msg := withSuggestions(fmt.Sprintf("%s has no accessor %q", e.Type, e.Name), e.Suggestions)
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}

	return msg
}

func (e *UnknownAccessorError) Unwrap() []error {
	if e.Cause == nil {
		return []error{ErrUnknownAccessor}
	}

	return []error{ErrUnknownAccessor, e.Cause}
}

func withSuggestions(msg string, suggestions []string) string {
	if len(suggestions) == 0 {
		return msg
	}

	return msg + " (did you mean " + strings.Join(suggestions, ", ") + "?)"
}

func invalidf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidDeclaration, fmt.Sprintf(format, args...))
}
