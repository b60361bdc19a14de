package composition

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObjectDecode(t *testing.T) {
	_, user, _ := creditCardSchema(t)
	rec := newUser(t, user, "Jon Snow", "Visa")
	obj := mustComposed(t, rec, "credit_card")

	type creditCard struct {
		Name  string
		Label string `composition:"brand"`
	}

	var out creditCard
	require.NoError(t, obj.Decode(&out))
	assert.Equal(t, creditCard{Name: "Jon Snow", Label: "Visa"}, out)
}

func TestObjectField(t *testing.T) {
	_, user, _ := creditCardSchema(t)
	obj := mustComposed(t, newUser(t, user, "Jon Snow", "Visa"), "credit_card")

	assert.Equal(t, "Visa", obj.Field("brand"))
	assert.Equal(t, "Visa", obj.Field("Brand"))
	assert.Nil(t, obj.Field("missing"))
}

func TestObjectValidationCache(t *testing.T) {
	_, user, card := creditCardSchema(t)
	require.NoError(t, card.Validates("name", "required"))

	rec := newUser(t, user, "Jon Snow", "Visa")

	t.Run("valid", func(t *testing.T) {
		obj := mustComposed(t, rec, "credit_card")
		assert.True(t, obj.Valid())
		assert.Empty(t, obj.Errors())
	})

	t.Run("writing an alias drops the cached result", func(t *testing.T) {
		obj := mustComposed(t, rec, "credit_card")
		require.True(t, obj.Valid())

		require.NoError(t, obj.Set("name", ""))
		assert.False(t, obj.Valid())
		assert.False(t, mustComposed(t, rec, "credit_card").Valid())
	})

	t.Run("valid accessor", func(t *testing.T) {
		obj := mustComposed(t, rec, "credit_card")
		require.NoError(t, obj.Set("name", "Jon Snow"))

		assert.Equal(t, true, mustGet(t, obj, "valid"))
	})
}

func TestStandaloneObjectWithoutRelations(t *testing.T) {
	s := NewSchema()
	point := Must(s.DefineComposite("Point"))

	obj, err := point.New(nil)
	require.NoError(t, err)

	attrs, err := obj.Attributes()
	require.NoError(t, err)
	assert.Empty(t, attrs)

	_, err = point.New(Attributes{"x": 1})
	require.ErrorIs(t, err, ErrUnknownAccessor)
}

func TestNilObjectAttributes(t *testing.T) {
	var obj *Object

	attrs, err := obj.Attributes()
	require.NoError(t, err)
	assert.Nil(t, attrs)
}

func TestRecordValuesAndIDs(t *testing.T) {
	_, user, _ := creditCardSchema(t)
	rec := newUser(t, user, "Jon Snow", nil)

	assert.Equal(t, Attributes{"credit_card_name": "Jon Snow", "credit_card_brand": nil}, rec.Values())
	assert.Empty(t, rec.ID())

	rec.SetID("u-1")
	assert.Equal(t, "u-1", rec.ID())
	assert.Same(t, user, rec.HostType())
}

func TestRecordAssignOrder(t *testing.T) {
	_, user, _ := creditCardSchema(t)

	rec, err := user.NewRecord(Attributes{
		"credit_card":       Attributes{"brand": "Amex"},
		"credit_card_brand": "Visa",
		"credit_card_name":  "Jon Snow",
	})
	require.NoError(t, err)

	assert.Equal(t, "Amex", rec.Column("credit_card_brand"), "compositions are applied after columns")
	assert.Equal(t, "Jon Snow", rec.Column("credit_card_name"))

	_, err = user.NewRecord(Attributes{"nickname": "x"})
	require.ErrorIs(t, err, ErrUnknownAccessor)
}

func TestWrapExistingColumns(t *testing.T) {
	_, user, card := creditCardSchema(t)

	cols := ColumnMap{"credit_card_name": "Jon Snow"}
	rec, err := user.Wrap(cols)
	require.NoError(t, err)

	obj := mustComposed(t, rec, "credit_card")
	require.NoError(t, obj.Set("brand", "Visa"))
	assert.Equal(t, "Visa", cols["credit_card_brand"])

	_, err = card.Wrap(nil)
	require.ErrorIs(t, err, ErrInvalidDeclaration)
}
