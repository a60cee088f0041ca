package models

import (
	"fmt"
	"strings"
)

// AnalyzeRequest is the input for a single-text analysis.
type AnalyzeRequest struct {
	Text string `json:"text"`
}

// Validate ensures the request carries a non-empty text.
func (r *AnalyzeRequest) Validate() error {
	if strings.TrimSpace(r.Text) == "" {
		return fmt.Errorf("text cannot be empty")
	}
	return nil
}

// SimilarQuery is the input for a similarity search against search history.
type SimilarQuery struct {
	Text      string  `json:"text"`
	Threshold float64 `json:"threshold,omitempty"`
	Limit     int     `json:"limit,omitempty"`
}

// Validate checks fields and applies defaults. Threshold defaults to 0.7 and
// must stay in [0,1]; Limit defaults to 10 and is capped at 50.
func (q *SimilarQuery) Validate() error {
	if strings.TrimSpace(q.Text) == "" {
		return fmt.Errorf("text cannot be empty")
	}
	if q.Threshold < 0 || q.Threshold > 1 {
		return fmt.Errorf("threshold must be between 0 and 1")
	}
	if q.Threshold == 0 {
		q.Threshold = 0.7
	}
	if q.Limit < 0 {
		return fmt.Errorf("limit cannot be negative")
	}
	if q.Limit == 0 {
		q.Limit = 10
	}
	if q.Limit > 50 {
		q.Limit = 50
	}
	return nil
}

// BulkRequest is the input for a bulk analysis submission.
type BulkRequest struct {
	Texts []string `json:"texts"`
}

// Validate rejects empty submissions and submissions over the hard cap.
func (r *BulkRequest) Validate() error {
	if len(r.Texts) == 0 {
		return fmt.Errorf("texts cannot be empty")
	}
	if len(r.Texts) > MaxBulkTexts {
		return fmt.Errorf("too many texts: %d exceeds the maximum of %d", len(r.Texts), MaxBulkTexts)
	}
	return nil
}
