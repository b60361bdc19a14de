// Package gen provides deterministic Go code generation for typed facades
// over composition schemas.
//
// Generation approach uses text/template + go/format for readable Go code.
// Every host type gets a wrapper around *composition.Record and every
// composite type a wrapper around *composition.Object:
//
//	type User struct{ *composition.Record }
//
//	func (u User) CreditCard() (CreditCard, bool, error)
//	func (u User) SetCreditCard(v any) error
//
//	type CreditCard struct{ *composition.Object }
//
//	func (c CreditCard) Name() any
//	func (c CreditCard) SetName(v any) error
//	func (c CreditCard) User() (User, bool)
//
// Method names are camelized rule, column and alias names. A name that
// collides with a method of the embedded type or with another generated
// method gets a suffix naming what it accesses.
package gen
