package declfile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"attr-composer/composition"
)

func TestApply(t *testing.T) {
	f, err := Parse([]byte(creditCardYAML))
	require.NoError(t, err)

	s := composition.NewSchema()
	require.NoError(t, Apply(f, s))

	user, ok := s.Lookup("User")
	require.True(t, ok)
	assert.Equal(t, composition.KindHost, user.Kind())

	card, ok := s.Lookup("credit_card")
	require.True(t, ok)
	assert.Equal(t, composition.KindComposite, card.Kind())

	rec, err := user.NewRecord(composition.Attributes{"credit_card": map[string]string{"name": "Jon Snow", "brand": "Visa"}})
	require.NoError(t, err)
	assert.Equal(t, "Jon Snow", rec.Column("credit_card_name"))

	obj, err := rec.Composed("credit_card")
	require.NoError(t, err)
	require.NotNil(t, obj)

	require.NoError(t, obj.Set("name", ""))
	assert.False(t, obj.Valid())
	assert.Equal(t, []string{"name failed on the 'required' rule"}, obj.Errors())
}

func TestApply_ParentFirst(t *testing.T) {
	// Subtypes listed before their parents still apply.
	f, err := Parse([]byte(`
hosts:
  - name: AdminUser
    extends: User
    columns: [badge]
  - name: User
    columns: [card_name]
    compose:
      - name: card
        mapping: {card_name: name}
composites:
  - name: GoldCard
    extends: Card
  - name: Card
    composed_from: user
`))
	require.NoError(t, err)

	s := composition.NewSchema()
	require.NoError(t, Apply(f, s))

	admin, _ := s.Lookup("AdminUser")
	user, _ := s.Lookup("User")
	gold, _ := s.Lookup("GoldCard")

	assert.True(t, admin.Is(user))
	assert.Equal(t, []string{"card_name", "badge"}, admin.Columns())
	assert.NotNil(t, gold.Parent())

	rec, err := admin.NewRecord(composition.Attributes{"card_name": "Arya"})
	require.NoError(t, err)

	obj, err := rec.Composed("card")
	require.NoError(t, err)
	require.NotNil(t, obj)
	assert.Equal(t, "Arya", obj.Field("name"))
}

func TestApply_InvalidFileDeclaresNothing(t *testing.T) {
	f, err := Parse([]byte(`
hosts:
  - name: User
    columns: [a]
    compose:
      - name: card
        mapping: {b: name}
`))
	require.NoError(t, err)

	s := composition.NewSchema()
	err = Apply(f, s)
	require.ErrorIs(t, err, composition.ErrInvalidDeclaration)
	assert.Contains(t, err.Error(), "unknown_column")
	assert.Empty(t, s.Types())
}
