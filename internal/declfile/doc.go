// Package declfile provides YAML declaration files for composition schemas:
// parsing, structural validation into diagnostics, and applying a file to a
// composition.Schema.
//
// A declaration file is the data form of the Go builder API. Everything a
// program can declare with Schema.DefineHost, Type.Compose and
// Type.ComposedFrom can be written down once and loaded at startup.
//
// # Schema Overview
//
//	version: "1"
//	hosts:
//	  - name: User
//	    columns: [credit_card_name, credit_card_brand]
//	    compose:
//	      - name: credit_card
//	        # ordered column: alias pairs
//	        mapping:
//	          credit_card_name: name
//	          credit_card_brand: brand
//	  - name: AdminUser
//	    extends: User
//	    columns: [badge]
//	composites:
//	  - name: CreditCard
//	    composed_from: user        # or [user, ...] or [{name: user, class_name: User}]
//	    validates:
//	      name: required
//	      brand: oneof=Visa MasterCard
//
// # Defaults
//
// A compose entry without class_name targets the camelized rule name
// (credit_card -> CreditCard) and its inverse_of is the declaring host.
// A composed_from entry without class_name targets the camelized relation
// name and its inverse_of is the declaring composite.
//
// # Checks
//
// Validate reports every problem it finds: duplicate types, columns or
// aliases, mappings naming undeclared columns, rules targeting unknown
// classes, unknown or cyclic parent types, and compositions whose
// reciprocal rule is missing (a warning, since the engine only fails when
// the pair is first used).
package declfile
