// Package store persists host records in SQLite tables, one table per host
// type with one column per declared host column and a TEXT primary key.
//
// Value objects are never stored: they are rebuilt from the host columns by
// the composition rules every time they are read, so a record saved after
// a composite write and loaded back composes the same value object.
package store
