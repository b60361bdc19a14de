// Package diagnostic provides structured errors, warnings and infos for
// composition declaration files.
//
// Declaration checks accumulate every problem they find instead of
// stopping at the first one, so a single run of the checker reports:
//   - Unknown columns, classes and parent types, with did-you-mean suggestions
//   - Duplicate types, columns and aliases
//   - Compositions whose reciprocal rule is missing
package diagnostic
