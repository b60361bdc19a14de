package composition

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComposeGetter(t *testing.T) {
	t.Run("builds the value object from host columns", func(t *testing.T) {
		_, user, card := creditCardSchema(t)
		rec := newUser(t, user, "Jon Snow", "Visa")

		obj := mustComposed(t, rec, "credit_card")
		assert.Same(t, card, obj.Type())
		assert.Equal(t, "Jon Snow", mustGet(t, obj, "name"))
		assert.Equal(t, "Visa", mustGet(t, obj, "brand"))
		assert.Same(t, rec, mustGet(t, obj, "user"))
	})

	t.Run("returns nil when every column is nil", func(t *testing.T) {
		_, user, _ := creditCardSchema(t)
		rec := newUser(t, user, nil, nil)

		v, err := rec.Get("credit_card")
		require.NoError(t, err)
		assert.Nil(t, v)
	})

	t.Run("returns nil when every column is blank", func(t *testing.T) {
		_, user, _ := creditCardSchema(t)
		rec := newUser(t, user, "", "  ")

		obj, err := rec.Composed("credit_card")
		require.NoError(t, err)
		assert.Nil(t, obj)
	})

	t.Run("one non-blank column is enough", func(t *testing.T) {
		_, user, _ := creditCardSchema(t)
		rec := newUser(t, user, nil, "Visa")

		obj := mustComposed(t, rec, "credit_card")
		assert.Nil(t, mustGet(t, obj, "name"))
		assert.Equal(t, "Visa", mustGet(t, obj, "brand"))
	})

	t.Run("every call builds a new view", func(t *testing.T) {
		_, user, _ := creditCardSchema(t)
		rec := newUser(t, user, "Jon Snow", "Visa")

		first := mustComposed(t, rec, "credit_card")
		second := mustComposed(t, rec, "credit_card")
		assert.NotSame(t, first, second)

		a, err := first.Attributes()
		require.NoError(t, err)
		b, err := second.Attributes()
		require.NoError(t, err)
		assert.Equal(t, a, b)
	})

	t.Run("class_name overrides", func(t *testing.T) {
		s := NewSchema()
		admin := Must(s.DefineHost("AdminUser", "credit_card_name", "credit_card_brand"))
		_, err := admin.Compose("credit_card", Mapping{
			{Column: "credit_card_name", Alias: "name"},
			{Column: "credit_card_brand", Alias: "brand"},
		}, ClassName("CCard"))
		require.NoError(t, err)

		ccard := Must(s.DefineComposite("CCard"))
		_, err = ccard.ComposedFrom("user", ClassName("AdminUser"))
		require.NoError(t, err)

		rec := Must(admin.NewRecord(Attributes{"credit_card_name": "Jon Snow", "credit_card_brand": "Visa"}))
		obj := mustComposed(t, rec, "credit_card")
		assert.Same(t, ccard, obj.Type())
		assert.Equal(t, "Jon Snow", mustGet(t, obj, "name"))
		assert.Equal(t, "Visa", mustGet(t, obj, "brand"))
		assert.Same(t, rec, mustGet(t, obj, "user"))
	})

	t.Run("validation runs eagerly but does not block", func(t *testing.T) {
		_, user, card := creditCardSchema(t)
		require.NoError(t, card.Validates("name", "required"))

		rec := newUser(t, user, nil, "Visa")
		obj := mustComposed(t, rec, "credit_card")
		assert.False(t, obj.Valid())
		assert.Equal(t, []string{"name failed on the 'required' rule"}, obj.Errors())
	})
}

func TestComposeSetter(t *testing.T) {
	t.Run("setting attributes separately", func(t *testing.T) {
		_, user, _ := creditCardSchema(t)
		rec := newUser(t, user, "Jon Snow", "Visa")

		obj := mustComposed(t, rec, "credit_card")
		require.NoError(t, obj.Set("name", "Arya Stark"))
		require.NoError(t, obj.Set("brand", "MasterCard"))

		assert.Equal(t, "Arya Stark", rec.Column("credit_card_name"))
		assert.Equal(t, "MasterCard", rec.Column("credit_card_brand"))

		fresh := mustComposed(t, rec, "credit_card")
		assert.Equal(t, "Arya Stark", mustGet(t, fresh, "name"))
		assert.Equal(t, "MasterCard", mustGet(t, fresh, "brand"))
	})

	t.Run("full map", func(t *testing.T) {
		_, user, _ := creditCardSchema(t)
		rec := newUser(t, user, "Jon Snow", "Visa")

		require.NoError(t, rec.Assign(Attributes{"credit_card": Attributes{"name": "Arya Stark", "brand": "MasterCard"}}))
		assert.Equal(t, "Arya Stark", rec.Column("credit_card_name"))
		assert.Equal(t, "MasterCard", rec.Column("credit_card_brand"))
	})

	t.Run("partial map keeps unspecified columns", func(t *testing.T) {
		_, user, _ := creditCardSchema(t)
		rec := newUser(t, user, "Jon Snow", "Visa")

		require.NoError(t, rec.Set("credit_card", map[string]any{"brand": "MasterCard"}))

		obj := mustComposed(t, rec, "credit_card")
		assert.Equal(t, "Jon Snow", mustGet(t, obj, "name"))
		assert.Equal(t, "MasterCard", mustGet(t, obj, "brand"))
		assert.Equal(t, "Jon Snow", rec.Column("credit_card_name"))
	})

	t.Run("keys are matched insensitively", func(t *testing.T) {
		_, user, _ := creditCardSchema(t)
		rec := newUser(t, user, "Jon Snow", "Visa")

		require.NoError(t, rec.Set("credit_card", map[string]string{"Brand": "Amex"}))
		assert.Equal(t, "Amex", rec.Column("credit_card_brand"))
	})

	t.Run("new value object", func(t *testing.T) {
		_, user, card := creditCardSchema(t)
		rec := newUser(t, user, "Jon Snow", "Visa")

		obj, err := card.New(Attributes{"name": "Arya Stark", "brand": "MasterCard"})
		require.NoError(t, err)

		require.NoError(t, rec.Set("credit_card", obj))
		assert.Equal(t, "Arya Stark", rec.Column("credit_card_name"))
		assert.Equal(t, "MasterCard", rec.Column("credit_card_brand"))
	})

	t.Run("struct value", func(t *testing.T) {
		_, user, _ := creditCardSchema(t)
		rec := newUser(t, user, "Jon Snow", "Visa")

		type cardInput struct {
			Brand string `composition:"brand"`
		}

		require.NoError(t, rec.Set("credit_card", cardInput{Brand: "Discover"}))
		assert.Equal(t, "Jon Snow", rec.Column("credit_card_name"))
		assert.Equal(t, "Discover", rec.Column("credit_card_brand"))
	})

	t.Run("through the host columns", func(t *testing.T) {
		_, user, _ := creditCardSchema(t)
		rec := newUser(t, user, "Jon Snow", "Visa")

		require.NoError(t, rec.Set("credit_card_name", "Arya Stark"))
		require.NoError(t, rec.Set("credit_card_brand", "MasterCard"))

		obj := mustComposed(t, rec, "credit_card")
		assert.Equal(t, "Arya Stark", mustGet(t, obj, "name"))
		assert.Equal(t, "MasterCard", mustGet(t, obj, "brand"))
	})

	t.Run("nil clears every column", func(t *testing.T) {
		_, user, _ := creditCardSchema(t)
		rec := newUser(t, user, "Jon Snow", "Visa")

		require.NoError(t, rec.Set("credit_card", nil))
		assert.Nil(t, rec.Column("credit_card_name"))
		assert.Nil(t, rec.Column("credit_card_brand"))

		obj, err := rec.Composed("credit_card")
		require.NoError(t, err)
		assert.Nil(t, obj)
	})

	t.Run("composed rejects a column name", func(t *testing.T) {
		_, user, _ := creditCardSchema(t)

		for _, rec := range []*Record{newUser(t, user, "Jon Snow", "Visa"), newUser(t, user, nil, nil)} {
			obj, err := rec.Composed("credit_card_name")
			require.ErrorIs(t, err, ErrUnsupportedValue)
			assert.Nil(t, obj)
		}

		_, err := newUser(t, user, "Jon Snow", "Visa").Composed("nickname")
		require.ErrorIs(t, err, ErrUnsupportedValue)
	})

	t.Run("typed nil object clears every column", func(t *testing.T) {
		_, user, _ := creditCardSchema(t)
		rec := newUser(t, user, "Jon Snow", "Visa")

		var none *Object
		require.NoError(t, rec.Assign(Attributes{"credit_card": none}))
		assert.Nil(t, rec.Column("credit_card_name"))
	})

	t.Run("returns the original value", func(t *testing.T) {
		_, user, _ := creditCardSchema(t)
		rec := newUser(t, user, "Jon Snow", "Visa")

		in := Attributes{"brand": "Amex"}
		out, err := user.Call(rec, "credit_card=", in)
		require.NoError(t, err)
		assert.Equal(t, in, out)
	})

	t.Run("unsupported value", func(t *testing.T) {
		_, user, _ := creditCardSchema(t)
		rec := newUser(t, user, "Jon Snow", "Visa")

		err := rec.Set("credit_card", 42)
		require.ErrorIs(t, err, ErrUnsupportedValue)
		assert.Equal(t, "Jon Snow", rec.Column("credit_card_name"))
	})
}

func TestEndToEndCreditCard(t *testing.T) {
	_, user, _ := creditCardSchema(t)
	rec := newUser(t, user, "Jon Snow", "Visa")

	assert.Equal(t, "Jon Snow", mustGet(t, mustComposed(t, rec, "credit_card"), "name"))

	require.NoError(t, mustComposed(t, rec, "credit_card").Set("brand", "MasterCard"))
	assert.Equal(t, "MasterCard", rec.Column("credit_card_brand"))

	require.NoError(t, rec.Set("credit_card", Attributes{"brand": "Amex"}))

	obj := mustComposed(t, rec, "credit_card")
	assert.Equal(t, "Jon Snow", mustGet(t, obj, "name"))
	assert.Equal(t, "Amex", mustGet(t, obj, "brand"))
}

func TestForwardRuleColumnFor(t *testing.T) {
	_, user, _ := creditCardSchema(t)

	r, ok := user.Rule("credit_card")
	require.True(t, ok)

	fwd, ok := r.(*ForwardRule)
	require.True(t, ok)

	col, err := fwd.ColumnFor("brand")
	require.NoError(t, err)
	assert.Equal(t, "credit_card_brand", col)

	_, err = fwd.ColumnFor("brnd")
	require.ErrorIs(t, err, ErrUnknownAlias)

	var aliasErr *UnknownAliasError
	require.ErrorAs(t, err, &aliasErr)
	assert.Equal(t, []string{"brand"}, aliasErr.Suggestions)
}

func TestComposeDefaults(t *testing.T) {
	_, user, _ := creditCardSchema(t)

	r, ok := user.Rule("credit_card")
	require.True(t, ok)
	assert.Equal(t, "CreditCard", r.ClassName())
	assert.Equal(t, "User", r.InverseOf())
	assert.Same(t, user, r.Owner())
}

func TestComposeDeclarationErrors(t *testing.T) {
	s := NewSchema()
	user := Must(s.DefineHost("User", "a", "b"))
	card := Must(s.DefineComposite("Card"))

	tests := []struct {
		name    string
		declare func() error
	}{
		{"empty mapping", func() error {
			_, err := user.Compose("card", nil)
			return err
		}},
		{"duplicate alias", func() error {
			_, err := user.Compose("card", Mapping{{"a", "x"}, {"b", "X"}})
			return err
		}},
		{"duplicate column", func() error {
			_, err := user.Compose("card", Mapping{{"a", "x"}, {"A", "y"}})
			return err
		}},
		{"undeclared column", func() error {
			_, err := user.Compose("card", Mapping{{"c", "x"}})
			return err
		}},
		{"blank name", func() error {
			_, err := user.Compose(" ", Mapping{{"a", "x"}})
			return err
		}},
		{"clashes with a column", func() error {
			_, err := user.Compose("a", Mapping{{"b", "x"}})
			return err
		}},
		{"compose on a composite", func() error {
			_, err := card.Compose("x", Mapping{{"a", "x"}})
			return err
		}},
		{"composed_from on a host", func() error {
			_, err := user.ComposedFrom("card")
			return err
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, tt.declare(), ErrInvalidDeclaration)
		})
	}
}

func TestMultipleCompositionsPerHost(t *testing.T) {
	s := NewSchema()
	user := Must(s.DefineHost("User", "credit_card_name", "address_street", "address_city"))
	Must(user.Compose("credit_card", Mapping{{"credit_card_name", "name"}}))
	Must(user.Compose("address", Mapping{{"address_street", "street"}, {"address_city", "city"}}))

	Must(Must(s.DefineComposite("CreditCard")).ComposedFrom("user"))
	Must(Must(s.DefineComposite("Address")).ComposedFrom("user"))

	rec := Must(user.NewRecord(Attributes{"credit_card_name": "Jon", "address_city": "Winterfell"}))

	addr := mustComposed(t, rec, "address")
	require.NoError(t, addr.Set("street", "Kingsroad"))
	assert.Equal(t, "Kingsroad", rec.Column("address_street"))
	assert.Equal(t, "Jon", rec.Column("credit_card_name"))

	require.NoError(t, rec.Set("credit_card", nil))
	assert.Nil(t, rec.Column("credit_card_name"))
	assert.Equal(t, "Kingsroad", rec.Column("address_street"))
	assert.Equal(t, "Winterfell", rec.Column("address_city"))
}
