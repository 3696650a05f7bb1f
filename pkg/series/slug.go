package series

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// ligatures covers letters that do not decompose into an ASCII base plus marks.
var ligatures = strings.NewReplacer(
	"æ", "ae", "Æ", "ae",
	"œ", "oe", "Œ", "oe",
	"ß", "ss", "ẞ", "ss",
	"ø", "o", "Ø", "o",
	"ł", "l", "Ł", "l",
	"đ", "d", "Đ", "d",
	"ð", "d", "Ð", "d",
	"þ", "th", "Þ", "th",
	"ı", "i",
)

// NFC returns s in Unicode normalization form C.
func NFC(s string) string {
	return norm.NFC.String(s)
}

// fold strips combining marks and transliterates ligatures.
func fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		out = s
	}
	return ligatures.Replace(out)
}

// Slugify converts a single path segment into a lowercase ASCII slug.
// Runs of anything other than [a-z0-9] collapse into one hyphen.
func Slugify(s string) string {
	s = strings.ToLower(fold(s))

	var b strings.Builder
	pending := false
	for _, r := range s {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			if pending && b.Len() > 0 {
				b.WriteByte('-')
			}
			pending = false
			b.WriteRune(r)
			continue
		}
		pending = true
	}
	return b.String()
}

// SlugifyPath slugifies each "/"-separated segment of p independently.
// Segments that slugify to nothing are dropped.
func SlugifyPath(p string) string {
	parts := []string{}
	for _, seg := range strings.Split(NFC(p), "/") {
		if s := Slugify(seg); s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, "/")
}

// MetadataKey normalizes a filename stem or series.json key so that the two can be compared.
// Case, spaces, underscores, hyphens and Unicode composition are ignored.
func MetadataKey(s string) string {
	s = strings.ToLower(NFC(strings.TrimSpace(s)))
	return strings.Map(func(r rune) rune {
		switch r {
		case ' ', '_', '-', '\t':
			return -1
		}
		return r
	}, s)
}
