// Package inflect provides the string-casing helpers used to derive and
// compare type, composition and alias names.
//
// Names are compared through Key, which folds case and drops separators so
// that "credit_card", "creditCard" and "CreditCard" address the same entry.
// Camelize derives a default type name from a symbolic composition name and
// Underscore goes the other way. Suggest ranks known names by edit distance
// for "did you mean" hints in errors and diagnostics.
//
// Results of Key, Camelize and Underscore are memoized process-wide.
package inflect
