package common

// UnknownStr is printed for enum values outside their declared range.
const UnknownStr = "unknown"

// IsEmpty returns true if the slice is empty.
func IsEmpty[S ~[]E, E any](s S) bool {
	return len(s) == 0
}

// First returns the first element of the slice and true, or the zero value and false if empty.
func First[S ~[]E, E any](s S) (E, bool) {
	if len(s) == 0 {
		var zero E
		return zero, false
	}

	return s[0], true
}

// FirstMatch returns the first element satisfying pred.
func FirstMatch[S ~[]E, E any](s S, pred func(E) bool) (E, bool) {
	for _, e := range s {
		if pred(e) {
			return e, true
		}
	}

	var zero E

	return zero, false
}
