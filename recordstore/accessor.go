package recordstore

import (
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/guyvdb/recstore/store"
)

// Accessor is a derived lookup bound to one index.
type Accessor func(key any) ([]store.Record, error)

// AccessorName derives the lookup name for an index field: "type" becomes
// "getByType". Only the first rune is upper-cased; "owner-id" becomes
// "getByOwner-id".
func AccessorName(field string) string {
	r, size := utf8.DecodeRuneInString(field)
	if r == utf8.RuneError {
		return "getBy" + field
	}
	return "getBy" + cases.Title(language.Und, cases.NoLower).String(string(r)) + field[size:]
}
