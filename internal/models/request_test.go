package models

import (
	"strings"
	"testing"
)

func TestAnalyzeRequestValidate(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		wantErr bool
	}{
		{"valid", "حدثنا وكيع", false},
		{"empty", "", true},
		{"whitespace only", "   \n\t ", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := AnalyzeRequest{Text: tt.text}
			if err := r.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestSimilarQueryValidate(t *testing.T) {
	t.Run("defaults applied", func(t *testing.T) {
		q := SimilarQuery{Text: "نص"}
		if err := q.Validate(); err != nil {
			t.Fatal(err)
		}
		if q.Threshold != 0.7 || q.Limit != 10 {
			t.Errorf("got threshold %v limit %d", q.Threshold, q.Limit)
		}
	})
	t.Run("limit capped", func(t *testing.T) {
		q := SimilarQuery{Text: "نص", Limit: 200}
		if err := q.Validate(); err != nil {
			t.Fatal(err)
		}
		if q.Limit != 50 {
			t.Errorf("limit: got %d", q.Limit)
		}
	})
	t.Run("threshold out of range", func(t *testing.T) {
		q := SimilarQuery{Text: "نص", Threshold: 1.5}
		if err := q.Validate(); err == nil {
			t.Error("expected error")
		}
	})
	t.Run("negative limit", func(t *testing.T) {
		q := SimilarQuery{Text: "نص", Limit: -1}
		if err := q.Validate(); err == nil {
			t.Error("expected error")
		}
	})
	t.Run("empty text", func(t *testing.T) {
		q := SimilarQuery{}
		if err := q.Validate(); err == nil {
			t.Error("expected error")
		}
	})
}

func TestBulkRequestValidate(t *testing.T) {
	t.Run("empty rejected", func(t *testing.T) {
		r := BulkRequest{}
		if err := r.Validate(); err == nil {
			t.Error("expected error")
		}
	})
	t.Run("at cap accepted", func(t *testing.T) {
		r := BulkRequest{Texts: make([]string, MaxBulkTexts)}
		if err := r.Validate(); err != nil {
			t.Errorf("unexpected error: %v", err)
		}
	})
	t.Run("over cap rejected", func(t *testing.T) {
		r := BulkRequest{Texts: make([]string, MaxBulkTexts+1)}
		err := r.Validate()
		if err == nil {
			t.Fatal("expected error")
		}
		if !strings.Contains(err.Error(), "too many texts") {
			t.Errorf("got %v", err)
		}
	})
}

func TestBulkJobTerminal(t *testing.T) {
	tests := []struct {
		status JobStatus
		want   bool
	}{
		{JobProcessing, false},
		{JobCompleted, true},
		{JobError, true},
	}
	for _, tt := range tests {
		j := BulkJob{Status: tt.status}
		if got := j.Terminal(); got != tt.want {
			t.Errorf("Terminal() with %q = %v, want %v", tt.status, got, tt.want)
		}
	}
}
