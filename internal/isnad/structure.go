package isnad

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/cloudflare/ahocorasick"
	"github.com/hyperjump/rawi/internal/models"
)

// Structural rubric weights. These reproduce the established scoring policy;
// the weights sum to 100 so the cap is latent.
const (
	isnadWeight   = 30
	lineageWeight = 20
	qalaWeight    = 15
	formulaWeight = 25
	lengthWeight  = 10

	// matnRuneThreshold is the length heuristic for "has a matn" (body text).
	matnRuneThreshold = 50
	// longTextRuneThreshold earns the length bonus.
	longTextRuneThreshold = 100
)

// Multi-phrase presence checks run through Aho-Corasick matchers built once.
var (
	transmissionMatcher = ahocorasick.NewStringMatcher(transmissionVerbs)
	formulaMatcher      = ahocorasick.NewStringMatcher(traditionalFormulas)
)

// lineagePattern finds a word-bounded kinship marker.
var lineagePattern = regexp.MustCompile(`(?:^|\s)(?:بن|ابن)(?:\s|$)`)

func hasTransmissionVerb(normalized string) bool {
	return len(transmissionMatcher.Match([]byte(normalized))) > 0
}

// AnalyzeStructure scores normalized text for hadith-likeness. This is a
// heuristic rubric, not a statistical model. Empty input scores zero across
// the board.
func AnalyzeStructure(normalized string) models.StructureAnalysis {
	if normalized == "" {
		return models.StructureAnalysis{}
	}

	runeLen := utf8.RuneCountInString(normalized)
	hasIsnad := hasTransmissionVerb(normalized)
	formula := len(formulaMatcher.Match([]byte(normalized))) > 0

	score := 0
	if hasIsnad {
		score += isnadWeight
	}
	if lineagePattern.MatchString(normalized) {
		score += lineageWeight
	}
	if strings.Contains(normalized, "قال") {
		score += qalaWeight
	}
	if formula {
		score += formulaWeight
	}
	if runeLen > longTextRuneThreshold {
		score += lengthWeight
	}
	if score > 100 {
		score = 100
	}

	return models.StructureAnalysis{
		HasIsnad:           hasIsnad,
		HasMatn:            runeLen > matnRuneThreshold,
		Score:              score,
		TraditionalFormula: formula,
	}
}
