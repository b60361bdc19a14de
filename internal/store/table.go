package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"attr-composer/composition"
)

const idColumn = "id"

// Table stores the records of one host type.
type Table struct {
	store   *Store
	typ     *composition.Type
	name    string
	columns []string
}

// Name returns the SQL table name.
func (t *Table) Name() string { return t.name }

// Type returns the host type stored in the table.
func (t *Table) Type() *composition.Type { return t.typ }

// EnsureSchema creates the table if it does not exist yet.
func (t *Table) EnsureSchema(ctx context.Context) error {
	defs := []string{quote(idColumn) + " TEXT PRIMARY KEY"}
	for _, c := range t.columns {
		defs = append(defs, quote(c))
	}

	stmt := fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (%s)", quote(t.name), strings.Join(defs, ", "))

	if _, err := t.store.db.ExecContext(ctx, stmt); err != nil {
		return fmt.Errorf("create table %s: %w", t.name, err)
	}

	return nil
}

// Save inserts rec or replaces the stored row with the same id. A record
// without an id is given a new one.
func (t *Table) Save(ctx context.Context, rec *composition.Record) error {
	if err := t.check(rec); err != nil {
		return err
	}

	if rec.ID() == "" {
		rec.SetID(uuid.NewString())
	}

	cols := []string{quote(idColumn)}
	marks := []string{"?"}
	updates := make([]string, 0, len(t.columns))
	args := []any{rec.ID()}

	for _, c := range t.columns {
		cols = append(cols, quote(c))
		marks = append(marks, "?")
		updates = append(updates, fmt.Sprintf("%s = excluded.%s", quote(c), quote(c)))
		args = append(args, rec.Column(c))
	}

	stmt := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)", quote(t.name), strings.Join(cols, ", "), strings.Join(marks, ", "))
	if len(updates) > 0 {
		stmt += fmt.Sprintf(" ON CONFLICT(%s) DO UPDATE SET %s", quote(idColumn), strings.Join(updates, ", "))
	} else {
		stmt += " ON CONFLICT DO NOTHING"
	}

	if _, err := t.store.db.ExecContext(ctx, stmt, args...); err != nil {
		return fmt.Errorf("save %s %s: %w", t.typ.Name(), rec.ID(), err)
	}

	t.store.logger.Debug("saved record", "table", t.name, "id", rec.ID())

	return nil
}

// Load reads the record with the given id.
func (t *Table) Load(ctx context.Context, id string) (*composition.Record, error) {
	cols := make([]string, len(t.columns))
	for i, c := range t.columns {
		cols[i] = quote(c)
	}

	selected := "1"
	if len(cols) > 0 {
		selected = strings.Join(cols, ", ")
	}

	stmt := fmt.Sprintf("SELECT %s FROM %s WHERE %s = ?", selected, quote(t.name), quote(idColumn))

	values := make([]any, max(len(t.columns), 1))
	ptrs := make([]any, len(values))

	for i := range values {
		ptrs[i] = &values[i]
	}

	err := t.store.db.QueryRowContext(ctx, stmt, id).Scan(ptrs...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s %s: %w", t.typ.Name(), id, ErrNotFound)
	}

	if err != nil {
		return nil, fmt.Errorf("load %s %s: %w", t.typ.Name(), id, err)
	}

	rec, err := t.typ.Wrap(composition.ColumnMap{})
	if err != nil {
		return nil, err
	}

	rec.SetID(id)

	for i, c := range t.columns {
		v := values[i]
		if b, ok := v.([]byte); ok {
			v = string(b)
		}

		rec.SetColumn(c, v)
	}

	return rec, nil
}

// Delete removes the record with the given id.
func (t *Table) Delete(ctx context.Context, id string) error {
	stmt := fmt.Sprintf("DELETE FROM %s WHERE %s = ?", quote(t.name), quote(idColumn))

	res, err := t.store.db.ExecContext(ctx, stmt, id)
	if err != nil {
		return fmt.Errorf("delete %s %s: %w", t.typ.Name(), id, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return err
	}

	if n == 0 {
		return fmt.Errorf("%s %s: %w", t.typ.Name(), id, ErrNotFound)
	}

	return nil
}

// IDs lists the stored ids in ascending order.
func (t *Table) IDs(ctx context.Context) ([]string, error) {
	stmt := fmt.Sprintf("SELECT %s FROM %s ORDER BY %s", quote(idColumn), quote(t.name), quote(idColumn))

	rows, err := t.store.db.QueryContext(ctx, stmt)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", t.name, err)
	}
	defer rows.Close()

	var ids []string

	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}

		ids = append(ids, id)
	}

	return ids, rows.Err()
}

func (t *Table) check(rec *composition.Record) error {
	if rec == nil {
		return fmt.Errorf("%w: nil record", composition.ErrUnsupportedValue)
	}

	if !rec.HostType().Is(t.typ) {
		return fmt.Errorf("%w: %s record in the %s table", composition.ErrUnsupportedValue, rec.HostType().Name(), t.name)
	}

	return nil
}
