package inflect

import (
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Names also arrive from callers (attribute keys, accessor names), so
// entries expire and a janitor evicts them.
const (
	memoTTL     = 10 * time.Minute
	memoJanitor = 15 * time.Minute
)

var memo = gocache.New(memoTTL, memoJanitor)

const (
	memoKey        = "key"
	memoCamelize   = "camelize"
	memoUnderscore = "underscore"
)

func memoized(kind, s string, fn func(string) string) string {
	k := kind + "\x00" + s
	if v, found := memo.Get(k); found {
		if str, ok := v.(string); ok {
			return str
		}
	}

	out := fn(s)
	memo.SetDefault(k, out)

	return out
}

// Key returns the comparison key of a name. Two names address the same
// registry entry or accessor exactly when their keys are equal.
func Key(s string) string {
	return memoized(memoKey, strings.TrimSpace(s), normalizeIdent)
}

// Equal reports whether a and b have the same Key.
func Equal(a, b string) bool {
	return Key(a) == Key(b)
}

// Camelize turns a symbolic name into a type name:
// "credit_card" -> "CreditCard", "user" -> "User". Existing capitals are kept,
// so "CCard" stays "CCard".
func Camelize(s string) string {
	return memoized(memoCamelize, strings.TrimSpace(s), camelize)
}

func camelize(s string) string {
	// Casers are stateful and must not be shared between goroutines.
	title := cases.Title(language.Und, cases.NoLower)

	var b strings.Builder
	for _, tok := range tokenize(s) {
		b.WriteString(title.String(tok))
	}

	return b.String()
}

// Underscore turns a type name into a symbolic name:
// "CreditCard" -> "credit_card", "AdminUser" -> "admin_user".
func Underscore(s string) string {
	return memoized(memoUnderscore, strings.TrimSpace(s), func(v string) string {
		return strings.Join(Tokens(v), "_")
	})
}
