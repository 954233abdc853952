// Package turkish provides locale-correct normalization for matching
// Turkish question text. All classifier comparisons go through Fold so
// that "GÜVENLİ", "güvenli" and "guvenli" land on the same form.
package turkish

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var lower = cases.Lower(language.Turkish)

// asciiFold maps the lowercase Turkish diacritic letters onto their
// ASCII bases. Dotless ı is handled here; dotted İ is already folded
// to plain i by the Turkish lowercaser.
var asciiFold = strings.NewReplacer(
	"ı", "i",
	"ğ", "g",
	"ü", "u",
	"ş", "s",
	"ö", "o",
	"ç", "c",
	"â", "a",
	"î", "i",
	"û", "u",
)

// Fold lowercases s with Turkish casing rules and strips diacritics.
// The result is safe for byte-wise substring and regexp matching.
func Fold(s string) string {
	return asciiFold.Replace(lower.String(s))
}

// Tokens splits a folded or raw string into word tokens. Punctuation
// separates tokens; digits stay attached to their word ("10" is one
// token, "fon10" is one token).
func Tokens(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}
