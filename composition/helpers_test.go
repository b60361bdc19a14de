package composition

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// creditCardSchema declares User(credit_card_name, credit_card_brand)
// composed into CreditCard(name, brand).
func creditCardSchema(t *testing.T) (*Schema, *Type, *Type) {
	t.Helper()

	s := NewSchema()

	user, err := s.DefineHost("User", "credit_card_name", "credit_card_brand")
	require.NoError(t, err)

	_, err = user.Compose("credit_card", Mapping{
		{Column: "credit_card_name", Alias: "name"},
		{Column: "credit_card_brand", Alias: "brand"},
	})
	require.NoError(t, err)

	card, err := s.DefineComposite("CreditCard")
	require.NoError(t, err)

	_, err = card.ComposedFrom("user")
	require.NoError(t, err)

	return s, user, card
}

func newUser(t *testing.T, user *Type, name, brand any) *Record {
	t.Helper()

	rec, err := user.NewRecord(Attributes{"credit_card_name": name, "credit_card_brand": brand})
	require.NoError(t, err)

	return rec
}

func mustComposed(t *testing.T, rec *Record, name string) *Object {
	t.Helper()

	obj, err := rec.Composed(name)
	require.NoError(t, err)
	require.NotNil(t, obj)

	return obj
}

func mustGet(t *testing.T, obj interface {
	Get(string) (any, error)
}, name string) any {
	t.Helper()

	v, err := obj.Get(name)
	require.NoError(t, err)

	return v
}
