package composition

import (
	"io"
	"log/slog"
	"strings"
	"sync"

	"attr-composer/internal/inflect"
)

// Schema is the universe of host and composite types. Class names used by
// rules are resolved against it lazily.
type Schema struct {
	mu    sync.RWMutex
	types map[string]*Type
	order []*Type

	logger    *slog.Logger
	validator Validator
}

// NewSchema creates an empty schema.
func NewSchema(opts ...SchemaOption) *Schema {
	s := &Schema{
		types:     map[string]*Type{},
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
		validator: NewTagValidator(),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Must panics if err is non-nil. It is meant for declarations made during
// program initialization.
func Must[T any](v T, err error) T {
	if err != nil {
		panic(err)
	}

	return v
}

// DefineHost defines a host type owning the given columns. A reader and a
// writer accessor is installed for every column.
func (s *Schema) DefineHost(name string, columns ...string) (*Type, error) {
	return s.define(name, KindHost, nil, columns)
}

// DefineComposite defines a value object type.
func (s *Schema) DefineComposite(name string) (*Type, error) {
	return s.define(name, KindComposite, nil, nil)
}

// Extend defines a subtype of parent with the same kind. The subtype sees
// the parent's rules and accessors until it overrides them. Host subtypes
// may add columns.
func (s *Schema) Extend(parent *Type, name string, columns ...string) (*Type, error) {
	if parent == nil {
		return nil, invalidf("extending %q: parent type is nil", name)
	}

	if parent.schema != s {
		return nil, invalidf("extending %q: parent %q belongs to another schema", name, parent.name)
	}

	if parent.kind == KindComposite && len(columns) > 0 {
		return nil, invalidf("composite type %q cannot declare columns", name)
	}

	return s.define(name, parent.kind, parent, columns)
}

func (s *Schema) define(name string, kind Kind, parent *Type, columns []string) (*Type, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, invalidf("type name is blank")
	}

	t := &Type{
		schema:       s,
		name:         name,
		kind:         kind,
		parent:       parent,
		methods:      map[string]accessor{},
		materialized: map[*InverseRule]bool{},
	}

	for _, col := range columns {
		if err := t.addColumn(col); err != nil {
			return nil, err
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	k := inflect.Key(name)
	if existing, dup := s.types[k]; dup {
		return nil, invalidf("type %q is already defined as %q", name, existing.name)
	}

	s.types[k] = t
	s.order = append(s.order, t)

	if kind == KindComposite && parent == nil {
		t.defineBaseMethods()
	}

	s.logger.Debug("defined type", "type", name, "kind", kind.String(), "columns", len(columns))

	return t, nil
}

// Lookup resolves a type by name, case and separator insensitively.
func (s *Schema) Lookup(name string) (*Type, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, ok := s.types[inflect.Key(name)]

	return t, ok
}

// Types returns every type in definition order.
func (s *Schema) Types() []*Type {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*Type, len(s.order))
	copy(out, s.order)

	return out
}

// Logger returns the schema logger.
func (s *Schema) Logger() *slog.Logger {
	return s.logger
}
