package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"attr-composer/composition"
	"attr-composer/internal/declfile"
	"attr-composer/internal/store"
)

const demoDeclarations = `
version: "1"
hosts:
  - name: User
    columns: [email, credit_card_name, credit_card_brand]
    compose:
      - name: credit_card
        mapping:
          credit_card_name: name
          credit_card_brand: brand
composites:
  - name: CreditCard
    composed_from: user
    validates:
      name: required
      brand: oneof=Visa MasterCard Amex
`

func newDemoCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "demo",
		Short: "Run the credit card round trip against the configured store",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runDemo(cmd.Context(), cmd.OutOrStdout())
		},
	}
}

func (a *app) runDemo(ctx context.Context, out io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}

	f, err := declfile.Parse([]byte(demoDeclarations))
	if err != nil {
		return err
	}

	s := composition.NewSchema(composition.WithLogger(a.logger))
	if err := declfile.Apply(f, s); err != nil {
		return err
	}

	user, _ := s.Lookup("User")

	st, err := store.Open(ctx, a.cfg.Store.DSN, a.logger)
	if err != nil {
		return err
	}
	defer st.Close()

	users, err := st.Table(user)
	if err != nil {
		return err
	}

	if err := users.EnsureSchema(ctx); err != nil {
		return err
	}

	rec, err := user.NewRecord(composition.Attributes{"email": "jon@example.com"})
	if err != nil {
		return err
	}

	card, err := rec.Composed("credit_card")
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "new user composes credit_card: %v\n", card != nil)

	if err := rec.Set("credit_card", composition.Attributes{"name": "Jon Snow", "brand": "Visa"}); err != nil {
		return err
	}

	if err := users.Save(ctx, rec); err != nil {
		return err
	}

	fmt.Fprintf(out, "saved user %s: %v\n", rec.ID(), rec.Values())

	loaded, err := users.Load(ctx, rec.ID())
	if err != nil {
		return err
	}

	card, err = loaded.Composed("credit_card")
	if err != nil {
		return err
	}

	attrs, err := card.Attributes()
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "reloaded credit_card: %v (valid: %v)\n", attrs, card.Valid())

	// Writes on the value object land in the host columns.
	if err := card.Set("brand", "Diners"); err != nil {
		return err
	}

	fmt.Fprintf(out, "after brand=Diners: credit_card_brand=%v valid=%v errors=%v\n",
		loaded.Column("credit_card_brand"), card.Valid(), card.Errors())

	if err := loaded.Set("credit_card", nil); err != nil {
		return err
	}

	if err := users.Save(ctx, loaded); err != nil {
		return err
	}

	again, err := users.Load(ctx, loaded.ID())
	if err != nil {
		return err
	}

	card, err = again.Composed("credit_card")
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "after clearing: credit_card present=%v email=%v\n", card != nil, again.Column("email"))

	return nil
}
