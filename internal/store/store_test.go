package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"attr-composer/composition"
)

func newUserTable(t *testing.T) (*Table, *composition.Type) {
	t.Helper()

	s := composition.NewSchema()
	user := composition.Must(s.DefineHost("User", "credit_card_name", "credit_card_brand", "visits"))
	composition.Must(user.Compose("credit_card", composition.Mapping{
		{Column: "credit_card_name", Alias: "name"},
		{Column: "credit_card_brand", Alias: "brand"},
	}))
	composition.Must(composition.Must(s.DefineComposite("CreditCard")).ComposedFrom("user"))

	ctx := context.Background()

	st, err := Open(ctx, ":memory:", nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	tbl, err := st.Table(user)
	require.NoError(t, err)
	require.NoError(t, tbl.EnsureSchema(ctx))

	return tbl, user
}

func TestTableName(t *testing.T) {
	tbl, _ := newUserTable(t)
	assert.Equal(t, "users", tbl.Name())
}

func TestSaveAndLoadThroughComposition(t *testing.T) {
	ctx := context.Background()
	tbl, user := newUserTable(t)

	rec, err := user.NewRecord(composition.Attributes{"visits": 3})
	require.NoError(t, err)
	require.NoError(t, rec.Set("credit_card", composition.Attributes{"name": "Jon Snow", "brand": "Visa"}))

	require.NoError(t, tbl.Save(ctx, rec))
	require.NotEmpty(t, rec.ID())

	loaded, err := tbl.Load(ctx, rec.ID())
	require.NoError(t, err)
	assert.Equal(t, rec.ID(), loaded.ID())
	assert.Equal(t, "Jon Snow", loaded.Column("credit_card_name"))
	assert.EqualValues(t, 3, loaded.Column("visits"))

	card, err := loaded.Composed("credit_card")
	require.NoError(t, err)
	require.NotNil(t, card)

	attrs, err := card.Attributes()
	require.NoError(t, err)
	assert.Equal(t, composition.Attributes{"name": "Jon Snow", "brand": "Visa"}, attrs)
}

func TestSaveUpserts(t *testing.T) {
	ctx := context.Background()
	tbl, user := newUserTable(t)

	rec, err := user.NewRecord(composition.Attributes{"credit_card_name": "Jon Snow", "credit_card_brand": "Visa"})
	require.NoError(t, err)
	rec.SetID("u-1")
	require.NoError(t, tbl.Save(ctx, rec))

	card, err := rec.Composed("credit_card")
	require.NoError(t, err)
	require.NoError(t, card.Set("brand", "Amex"))
	require.NoError(t, tbl.Save(ctx, rec))

	ids, err := tbl.IDs(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"u-1"}, ids)

	loaded, err := tbl.Load(ctx, "u-1")
	require.NoError(t, err)
	assert.Equal(t, "Amex", loaded.Column("credit_card_brand"))
}

func TestBlankColumnsReloadAsAbsent(t *testing.T) {
	ctx := context.Background()
	tbl, user := newUserTable(t)

	rec, err := user.NewRecord(composition.Attributes{"credit_card_name": "Jon Snow"})
	require.NoError(t, err)
	require.NoError(t, rec.Set("credit_card", nil))
	require.NoError(t, tbl.Save(ctx, rec))

	loaded, err := tbl.Load(ctx, rec.ID())
	require.NoError(t, err)

	card, err := loaded.Composed("credit_card")
	require.NoError(t, err)
	assert.Nil(t, card)
}

func TestDeleteAndNotFound(t *testing.T) {
	ctx := context.Background()
	tbl, user := newUserTable(t)

	rec, err := user.NewRecord(nil)
	require.NoError(t, err)
	require.NoError(t, tbl.Save(ctx, rec))

	require.NoError(t, tbl.Delete(ctx, rec.ID()))

	_, err = tbl.Load(ctx, rec.ID())
	require.ErrorIs(t, err, ErrNotFound)

	err = tbl.Delete(ctx, rec.ID())
	require.ErrorIs(t, err, ErrNotFound)
}

func TestEnsureSchemaIsIdempotent(t *testing.T) {
	tbl, _ := newUserTable(t)
	require.NoError(t, tbl.EnsureSchema(context.Background()))
}

func TestTableRejectsForeignRecords(t *testing.T) {
	ctx := context.Background()
	tbl, user := newUserTable(t)

	other := composition.Must(user.Schema().DefineHost("Account", "owner"))
	rec, err := other.NewRecord(nil)
	require.NoError(t, err)

	require.ErrorIs(t, tbl.Save(ctx, rec), composition.ErrUnsupportedValue)
	require.ErrorIs(t, tbl.Save(ctx, nil), composition.ErrUnsupportedValue)

	card, _ := user.Schema().Lookup("CreditCard")
	_, err = tbl.store.Table(card)
	require.ErrorIs(t, err, composition.ErrInvalidDeclaration)
}
