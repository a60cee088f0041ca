// Package isnad extracts narrator chains from normalized hadith text and
// scores structural hadith-likeness.
package isnad

import "github.com/hyperjump/rawi/internal/arabic"

// marker is an isnād marker phrase paired with the base confidence of names
// captured after it. Transmission verbs anchor the chain; kinship and speech
// markers are weaker evidence.
type marker struct {
	phrase       string
	confidence   float64
	transmission bool
}

// markers is ordered by descending authority. Extraction processes them in
// this order so a name matched by two markers keeps the stronger capture.
var markers = normalizeMarkers([]marker{
	{"حدثنا", 0.90, true},  // "he narrated to us"
	{"أخبرنا", 0.90, true}, // "he informed us"
	{"حدثني", 0.85, true},  // "he narrated to me"
	{"بن", 0.80, false},    // "son of"
	{"أبو", 0.75, false},   // kunya "father of"
	{"قال", 0.70, false},   // "he said"
	{"عن", 0.60, false},    // "on the authority of"
})

// transmissionVerbs are the spelling variants that mark an isnād opening.
var transmissionVerbs = normalizeAll([]string{
	"حدثنا",
	"حدثني",
	"أخبرنا",
	"أخبرني",
	"أنبأنا",
	"سمعت",
})

// traditionalFormulas are canonical hadith phrases.
var traditionalFormulas = normalizeAll([]string{
	"قال رسول الله",
	"صلى الله عليه وسلم",
	"رضي الله عنه",
	"عليه السلام",
})

// normalizeMarkers folds each phrase the same way input text is folded, so
// marker matching happens entirely in normalized space.
func normalizeMarkers(ms []marker) []marker {
	for i := range ms {
		ms[i].phrase = arabic.Normalize(ms[i].phrase)
	}
	return ms
}

func normalizeAll(phrases []string) []string {
	out := make([]string, len(phrases))
	for i, p := range phrases {
		out[i] = arabic.Normalize(p)
	}
	return out
}
