// Package arabic canonicalizes Arabic text so downstream matching is
// diacritic- and orthography-insensitive.
//
// Normalization strips the Arabic diacritics block and tatweel, folds common
// letter variants (Alef forms, Teh Marbuta, Alef Maksura, hamza carriers), and
// collapses whitespace. It is a pure function: it never fails, is idempotent,
// and passes Latin text through unchanged except for whitespace collapse.
// Arabic has no case, so no case folding is performed.
package arabic

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
)

// stripped covers the Arabic diacritics block (U+064B-U+065F: fathatan through
// wavy hamza below) plus tatweel (U+0640).
var stripped = &unicode.RangeTable{
	R16: []unicode.Range16{
		{Lo: 0x0640, Hi: 0x0640, Stride: 1},
		{Lo: 0x064B, Hi: 0x065F, Stride: 1},
	},
}

// foldLetter maps orthographic variants onto a single canonical letter.
func foldLetter(r rune) rune {
	switch r {
	case 'أ', 'إ', 'آ': // Alef with hamza above/below, Alef madda
		return 'ا'
	case 'ة': // Teh Marbuta
		return 'ه'
	case 'ى': // Alef Maksura
		return 'ي'
	case 'ئ': // Yeh with hamza
		return 'ي'
	case 'ؤ': // Waw with hamza
		return 'و'
	}
	return r
}

var normalizer = transform.Chain(
	runes.Remove(runes.In(stripped)),
	runes.Map(foldLetter),
)

// Normalize canonicalizes s: diacritics and tatweel removed, letter variants
// folded, whitespace runs collapsed to single spaces, leading/trailing
// whitespace trimmed. Returns "" for empty input.
func Normalize(s string) string {
	if s == "" {
		return ""
	}
	out, _, err := transform.String(normalizer, s)
	if err != nil {
		// Remove/Map transforms cannot fail; keep the input if one ever does.
		out = s
	}
	return strings.Join(strings.Fields(out), " ")
}
