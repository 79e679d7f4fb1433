package ontology

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var vendorPrefixes = []string{"azure ", "microsoft "}

// Fold lowercases s and strips diacritics. Whitespace is untouched, but
// removing marks shortens accented text, so byte offsets into s and into
// the result only agree for ASCII input.
func Fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		folded = s
	}
	return cases.Lower(language.Und).String(folded)
}

// Normalize folds s and collapses all whitespace runs to a single space.
func Normalize(s string) string {
	return strings.Join(strings.Fields(Fold(s)), " ")
}

// StripVendorPrefix removes one leading "azure " or "microsoft " from an
// already normalized phrase.
func StripVendorPrefix(s string) string {
	for _, p := range vendorPrefixes {
		if strings.HasPrefix(s, p) {
			return strings.TrimSpace(s[len(p):])
		}
	}
	return s
}

// Slug turns a display name into a lowercase dash-separated identifier.
func Slug(s string) string {
	var b strings.Builder
	dash := false
	for _, r := range Fold(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if dash && b.Len() > 0 {
				b.WriteByte('-')
			}
			b.WriteRune(r)
			dash = false
			continue
		}
		dash = true
	}
	return b.String()
}

// TitleCase renders s in English title case. Casers are not safe for
// concurrent use, so one is built per call.
func TitleCase(s string) string {
	return cases.Title(language.English).String(strings.Join(strings.Fields(s), " "))
}

// Words splits s into lowercase alphanumeric words.
func Words(s string) []string {
	return strings.FieldsFunc(Fold(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

// PhraseIndex returns the byte offset of the first word-bounded occurrence of
// phrase in text, or -1. Both arguments are expected to be folded already. A
// single trailing "s" is accepted so plurals still match.
func PhraseIndex(text, phrase string) int {
	if phrase == "" {
		return -1
	}
	from := 0
	for from <= len(text)-len(phrase) {
		i := strings.Index(text[from:], phrase)
		if i < 0 {
			return -1
		}
		start := from + i
		end := start + len(phrase)
		if boundaryBefore(text, start) && boundaryAfter(text, end) {
			return start
		}
		from = start + 1
	}
	return -1
}

// ContainsPhrase reports whether phrase occurs in text as whole words.
func ContainsPhrase(text, phrase string) bool {
	return PhraseIndex(text, phrase) >= 0
}

func boundaryBefore(text string, i int) bool {
	return i == 0 || !isWordByte(text[i-1])
}

func boundaryAfter(text string, i int) bool {
	if i >= len(text) || !isWordByte(text[i]) {
		return true
	}
	if text[i] == 's' {
		return i+1 >= len(text) || !isWordByte(text[i+1])
	}
	return false
}

func isWordByte(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9' || c >= 0x80
}
