package models

import "time"

// NameCandidate is a narrator name span found in normalized text.
type NameCandidate struct {
	// Name is the trimmed captured span, 2-80 runes.
	Name string `json:"name"`
	// Confidence is the per-pattern confidence in [0, 1].
	Confidence float64 `json:"confidence"`
	// Position is the byte offset of the captured span in the normalized text.
	Position int `json:"position"`
}

// ChainResult summarizes the extracted narrator chain.
type ChainResult struct {
	// Names holds unique extracted names in insertion order.
	Names []string `json:"names"`
	// Length is the chain length (count of unique names).
	Length int `json:"length"`
	// HasTraditionalMarkers reports whether a transmission verb was present.
	HasTraditionalMarkers bool `json:"has_traditional_markers"`
	// Confidence is min(Length*20, 100).
	Confidence int `json:"confidence"`
}

// StructureAnalysis scores how hadith-like a text is.
type StructureAnalysis struct {
	HasIsnad           bool `json:"has_isnad"`
	HasMatn            bool `json:"has_matn"`
	Score              int  `json:"structure_score"`
	TraditionalFormula bool `json:"traditional_formula"`
}

// ResolvedCandidate pairs a name candidate with its directory match, if any.
// Narrator is nil when the candidate could not be resolved.
type ResolvedCandidate struct {
	Candidate NameCandidate `json:"candidate"`
	Narrator  *Narrator     `json:"narrator,omitempty"`
}

// TextAnalysis is the full result of analyzing one hadith text.
// Confidence is the overall confidence in [0, 100].
type TextAnalysis struct {
	NormalizedText string              `json:"normalized_text"`
	Candidates     []NameCandidate     `json:"candidates"`
	Chain          ChainResult         `json:"chain"`
	Structure      StructureAnalysis   `json:"structure"`
	Confidence     int                 `json:"confidence"`
	Narrators      []ResolvedCandidate `json:"narrators,omitempty"`
	ProcessedAt    time.Time           `json:"processed_at"`
}
