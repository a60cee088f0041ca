// Package models defines core data structures for narrators, analyses, searches, and jobs.
package models

import "time"

// Credibility grades assigned to narrators in the directory.
const (
	CredibilityTrustworthy = "trustworthy"
	CredibilityWeak        = "weak"
)

// Narrator is a directory record for a hadith transmitter.
type Narrator struct {
	ID              int64     `json:"id" db:"id"`
	NameArabic      string    `json:"name_arabic" db:"name_arabic"`
	Transliteration string    `json:"transliteration" db:"transliteration"`
	Credibility     string    `json:"credibility" db:"credibility"`
	Biography       string    `json:"biography,omitempty" db:"biography"`
	CreatedAt       time.Time `json:"created_at" db:"created_at"`
}
