package composition

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func word() *rapid.Generator[string] {
	return rapid.StringMatching(`[A-Za-z][A-Za-z ]{0,15}`)
}

func blank() *rapid.Generator[any] {
	return rapid.SampledFrom([]any{nil, "", " ", "\t\n", []byte{}})
}

func TestPropertyRoundTrip(t *testing.T) {
	_, user, _ := creditCardSchema(t)

	rapid.Check(t, func(rt *rapid.T) {
		name := word().Draw(rt, "name")
		brand := word().Draw(rt, "brand")

		rec, err := user.NewRecord(nil)
		require.NoError(rt, err)
		require.NoError(rt, rec.Set("credit_card", Attributes{"name": name, "brand": brand}))

		assert.Equal(rt, name, rec.Column("credit_card_name"))
		assert.Equal(rt, brand, rec.Column("credit_card_brand"))

		obj, err := rec.Composed("credit_card")
		require.NoError(rt, err)
		require.NotNil(rt, obj)

		attrs, err := obj.Attributes()
		require.NoError(rt, err)
		assert.Equal(rt, Attributes{"name": name, "brand": brand}, attrs)
	})
}

func TestPropertyBlankColumnsComposeToNothing(t *testing.T) {
	_, user, _ := creditCardSchema(t)

	rapid.Check(t, func(rt *rapid.T) {
		rec, err := user.NewRecord(Attributes{
			"credit_card_name":  blank().Draw(rt, "name"),
			"credit_card_brand": blank().Draw(rt, "brand"),
		})
		require.NoError(rt, err)

		obj, err := rec.Composed("credit_card")
		require.NoError(rt, err)
		assert.Nil(rt, obj)
	})
}

func TestPropertyPartialUpdate(t *testing.T) {
	_, user, _ := creditCardSchema(t)

	rapid.Check(t, func(rt *rapid.T) {
		before := word().Draw(rt, "before")
		after := word().Draw(rt, "after")
		brand := word().Draw(rt, "brand")

		rec, err := user.NewRecord(Attributes{"credit_card_name": before, "credit_card_brand": brand})
		require.NoError(rt, err)
		require.NoError(rt, rec.Set("credit_card", map[string]string{"name": after}))

		assert.Equal(rt, after, rec.Column("credit_card_name"))
		assert.Equal(rt, brand, rec.Column("credit_card_brand"))
	})
}

func TestPropertyNilClearsEveryColumn(t *testing.T) {
	_, user, _ := creditCardSchema(t)

	rapid.Check(t, func(rt *rapid.T) {
		rec, err := user.NewRecord(Attributes{
			"credit_card_name":  word().Draw(rt, "name"),
			"credit_card_brand": word().Draw(rt, "brand"),
		})
		require.NoError(rt, err)
		require.NoError(rt, rec.Set("credit_card", nil))

		assert.Equal(rt, Attributes{"credit_card_name": nil, "credit_card_brand": nil}, rec.Values())
	})
}

func TestPropertyObjectWritesReachHost(t *testing.T) {
	_, user, _ := creditCardSchema(t)

	rapid.Check(t, func(rt *rapid.T) {
		rec, err := user.NewRecord(Attributes{
			"credit_card_name":  word().Draw(rt, "name"),
			"credit_card_brand": word().Draw(rt, "brand"),
		})
		require.NoError(rt, err)

		obj, err := rec.Composed("credit_card")
		require.NoError(rt, err)
		require.NotNil(rt, obj)

		alias := rapid.SampledFrom([]string{"name", "brand"}).Draw(rt, "alias")
		value := word().Draw(rt, "value")
		require.NoError(rt, obj.Set(alias, value))

		assert.Equal(rt, value, rec.Column("credit_card_"+alias))
		assert.Equal(rt, value, obj.Field(alias))
	})
}
