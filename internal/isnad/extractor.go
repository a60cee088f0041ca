package isnad

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/hyperjump/rawi/internal/models"
)

const (
	// Captured spans run up to the next delimiter, at most captureRunes runes.
	captureRunes = 60
	// Accepted name length after trimming, in runes.
	minNameRunes = 2
	maxNameRunes = 80
	// Each token in a captured name adds tokenBonus to the base confidence.
	tokenBonus    = 0.02
	maxConfidence = 0.99
	// Names found only by the lineage/kunya fallback get this confidence.
	fallbackConfidence = 0.65
)

// fallbackPattern matches name shapes with no leading transmission verb:
// a kunya ("ابو X") or a lineage chain ("X بن Y [بن Z ...]").
var fallbackPattern = regexp.MustCompile(
	`(?:^|\s)(ابو\s+\p{Arabic}+(?:\s+بن\s+\p{Arabic}+)*|\p{Arabic}+(?:\s+بن\s+\p{Arabic}+)+)`)

// ExtractCandidates scans normalized text for narrator name candidates.
// Markers are processed in descending authority order; within one marker,
// occurrences are scanned left to right. Candidates are de-duplicated by exact
// name string, first discovery winning. Deterministic; empty or markerless
// input yields an empty (non-nil) slice.
func ExtractCandidates(normalized string) []models.NameCandidate {
	candidates := make([]models.NameCandidate, 0, 8)
	seen := make(map[string]bool)

	for _, m := range markers {
		for _, start := range markerOccurrences(normalized, m.phrase) {
			name, pos, ok := captureName(normalized, start+len(m.phrase))
			if !ok || seen[name] {
				continue
			}
			seen[name] = true
			candidates = append(candidates, models.NameCandidate{
				Name:       name,
				Confidence: adjustConfidence(m.confidence, name),
				Position:   pos,
			})
		}
	}

	for _, loc := range fallbackPattern.FindAllStringSubmatchIndex(normalized, -1) {
		name := strings.TrimSpace(normalized[loc[2]:loc[3]])
		if !validNameLength(name) || seen[name] {
			continue
		}
		seen[name] = true
		candidates = append(candidates, models.NameCandidate{
			Name:       name,
			Confidence: fallbackConfidence,
			Position:   loc[2],
		})
	}

	return candidates
}

// markerOccurrences returns the byte offsets of every word-bounded occurrence
// of phrase in s. Word boundaries are checked manually: RE2's \b only knows
// ASCII word characters, which excludes the entire Arabic script.
func markerOccurrences(s, phrase string) []int {
	var offsets []int
	for from := 0; ; {
		i := strings.Index(s[from:], phrase)
		if i < 0 {
			return offsets
		}
		start := from + i
		end := start + len(phrase)
		if boundedBefore(s, start) && boundedAfter(s, end) {
			offsets = append(offsets, start)
		}
		from = end
	}
}

func boundedBefore(s string, i int) bool {
	if i == 0 {
		return true
	}
	r, _ := utf8.DecodeLastRuneInString(s[:i])
	return unicode.IsSpace(r)
}

func boundedAfter(s string, i int) bool {
	if i >= len(s) {
		return false // a trailing marker has nothing to capture
	}
	r, _ := utf8.DecodeRuneInString(s[i:])
	return unicode.IsSpace(r)
}

// captureName reads the span following a marker: skips the separating
// whitespace, then collects up to captureRunes runes stopping at the first
// delimiter (Arabic comma, semicolon, or period). Returns the trimmed name,
// its byte offset, and whether the span is an acceptable name.
func captureName(s string, after int) (name string, pos int, ok bool) {
	i := after
	for i < len(s) {
		r, w := utf8.DecodeRuneInString(s[i:])
		if !unicode.IsSpace(r) {
			break
		}
		i += w
	}
	if i >= len(s) {
		return "", 0, false
	}

	end := i
	for n := 0; end < len(s) && n < captureRunes; n++ {
		r, w := utf8.DecodeRuneInString(s[end:])
		if isDelimiter(r) {
			break
		}
		end += w
	}

	name = strings.TrimSpace(s[i:end])
	if !validNameLength(name) {
		return "", 0, false
	}
	return name, i, true
}

func isDelimiter(r rune) bool {
	return r == '،' || r == ';' || r == '.'
}

func validNameLength(name string) bool {
	n := utf8.RuneCountInString(name)
	return n >= minNameRunes && n <= maxNameRunes
}

// adjustConfidence rewards multi-token names: base + 0.02 per token, capped.
func adjustConfidence(base float64, name string) float64 {
	c := base + float64(len(strings.Fields(name)))*tokenBonus
	if c > maxConfidence {
		return maxConfidence
	}
	return c
}

// BuildChain assembles the chain result from extracted candidates. Candidate
// names are already unique and in insertion order. Chain confidence grows 20
// points per narrator, saturating at 100.
func BuildChain(normalized string, candidates []models.NameCandidate) models.ChainResult {
	names := make([]string, len(candidates))
	for i, c := range candidates {
		names[i] = c.Name
	}
	confidence := len(names) * 20
	if confidence > 100 {
		confidence = 100
	}
	return models.ChainResult{
		Names:                 names,
		Length:                len(names),
		HasTraditionalMarkers: hasTransmissionVerb(normalized),
		Confidence:            confidence,
	}
}
