// Package composition maps structured value objects onto the flat columns
// of a host record and keeps both views synchronized.
//
// A host type owns flat columns (credit_card_name, credit_card_brand). A
// composite type presents a subset of those columns under other names
// (name, brand). The link is declared once per side:
//
//	s := composition.NewSchema()
//	user := composition.Must(s.DefineHost("User", "credit_card_name", "credit_card_brand"))
//	card := composition.Must(s.DefineComposite("CreditCard"))
//
//	composition.Must(user.Compose("credit_card", composition.Mapping{
//		{Column: "credit_card_name", Alias: "name"},
//		{Column: "credit_card_brand", Alias: "brand"},
//	}))
//	composition.Must(card.ComposedFrom("user"))
//
// After that, reading user.credit_card builds a fresh CreditCard from the
// columns, writing card.brand writes credit_card_brand back on the owning
// record, and assigning a partial map to user.credit_card only touches the
// columns whose aliases are present.
//
// # Rules and registries
//
// Every type carries an ordered, copy-on-write rule table. Compose registers
// a ForwardRule on the host type and ComposedFrom registers an InverseRule
// on the composite type. Rules name their counterpart type by class name
// and are paired lazily: a forward rule looks for the first inverse rule on
// its target type whose class name equals its inverse_of, and vice versa.
// Declarations may therefore happen in any order; a missing counterpart is
// reported as ErrConfiguration on first use.
//
// # Accessors
//
// Instances are addressed through a per-type dispatch table. Host accessors
// (columns, compositions) are installed when they are declared. Composite
// alias accessors depend on the paired forward rule, so they are installed
// on the first miss once the pairing resolves, under a per-type lock.
// Names are matched case and separator insensitively.
//
// # Invariants
//
//   - A value object is a view: every getter call builds a new Object.
//   - An Object links to at most one host at a time.
//   - A getter whose mapped columns are all blank returns nil.
package composition
