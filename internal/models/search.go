package models

import "time"

// SearchRecord is a previously analyzed text kept as search history.
// Recent records double as the similarity comparison corpus.
type SearchRecord struct {
	ID         string    `json:"id" db:"id"`
	Text       string    `json:"text" db:"text"`
	Confidence int       `json:"confidence" db:"confidence"`
	Source     string    `json:"source" db:"source"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
}

// SimilarityMatch is one ranked similarity hit against the search history.
type SimilarityMatch struct {
	ID         string    `json:"id"`
	Text       string    `json:"text"`
	Similarity float64   `json:"similarity"`
	Source     string    `json:"source"`
	CreatedAt  time.Time `json:"created_at"`
}
