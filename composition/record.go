package composition

import (
	"fmt"
	"sort"
)

// Host is the persistence side seen by forward and inverse rules: a record
// of a host type exposing its columns.
type Host interface {
	HostType() *Type
	Column(name string) any
	SetColumn(name string, value any)
}

// Columns stores the column values of a Record.
type Columns interface {
	Get(column string) any
	Set(column string, value any)
}

// ColumnMap is the in-memory Columns implementation.
type ColumnMap map[string]any

// Get returns the value of column, nil when unset.
func (m ColumnMap) Get(column string) any { return m[column] }

// Set stores value under column.
func (m ColumnMap) Set(column string, value any) { m[column] = value }

// Record is an instance of a host type.
type Record struct {
	typ  *Type
	id   string
	cols Columns
}

var _ Host = (*Record)(nil)

// HostType returns the record's type.
func (r *Record) HostType() *Type { return r.typ }

// ID returns the persistence identifier, empty until assigned.
func (r *Record) ID() string { return r.id }

// SetID assigns the persistence identifier.
func (r *Record) SetID(id string) { r.id = id }

// Column reads a column. Declared columns are matched by inflect.Key.
func (r *Record) Column(name string) any {
	if col, ok := r.typ.column(name); ok {
		name = col
	}

	return r.cols.Get(name)
}

// SetColumn writes a column. Declared columns are matched by inflect.Key.
func (r *Record) SetColumn(name string, value any) {
	if col, ok := r.typ.column(name); ok {
		name = col
	}

	r.cols.Set(name, value)
}

// Get calls the reader accessor name: a column or a composition.
func (r *Record) Get(name string) (any, error) {
	return r.typ.Call(r, name)
}

// Set calls the writer accessor name.
func (r *Record) Set(name string, value any) error {
	_, err := r.typ.Call(r, name+"=", value)
	return err
}

// Responds reports whether name is an accessor of the record's type.
func (r *Record) Responds(name string) bool {
	return r.typ.Responds(name)
}

// Composed returns the value object of composition name, or nil when all
// of its mapped columns are blank. Names that are not compositions of the
// record's type are rejected.
func (r *Record) Composed(name string) (*Object, error) {
	rule, ok := r.typ.Rule(name)
	if _, fwd := rule.(*ForwardRule); !ok || !fwd {
		return nil, fmt.Errorf("%w: %s.%s is not a composition", ErrUnsupportedValue, r.typ.name, name)
	}

	v, err := r.Get(name)
	if err != nil || v == nil {
		return nil, err
	}

	obj, _ := v.(*Object)

	return obj, nil
}

// Assign sets several accessors at once. Plain columns are assigned before
// compositions so that a partial composition update is applied on top of
// the column values given alongside it. Keys are otherwise applied in
// sorted order and assignment stops at the first error.
func (r *Record) Assign(values Attributes) error {
	var columns, others []string

	for k := range values {
		if _, ok := r.typ.column(k); ok {
			columns = append(columns, k)
		} else {
			others = append(others, k)
		}
	}

	sort.Strings(columns)
	sort.Strings(others)

	for _, k := range append(columns, others...) {
		if err := r.Set(k, values[k]); err != nil {
			return err
		}
	}

	return nil
}

// Values returns a snapshot of every declared column.
func (r *Record) Values() Attributes {
	cols := r.typ.Columns()

	out := make(Attributes, len(cols))
	for _, c := range cols {
		out[c] = r.cols.Get(c)
	}

	return out
}
