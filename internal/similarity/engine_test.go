package similarity

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/hyperjump/rawi/internal/models"
	"github.com/hyperjump/rawi/internal/storage"
)

func TestJaccard(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		want float64
	}{
		{"identical", "قال رسول الله", "قال رسول الله", 1.0},
		{"disjoint", "alpha beta", "gamma delta", 0.0},
		{"half overlap", "a b", "b c", 1.0 / 3.0},
		{"case folded", "Sahih Muslim", "sahih muslim", 1.0},
		{"duplicate tokens collapse", "a a b", "a b", 1.0},
		{"both empty", "", "", 0.0},
		{"one empty", "a", "", 0.0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Jaccard(tt.a, tt.b); math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("Jaccard(%q, %q) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestJaccardSymmetric(t *testing.T) {
	pairs := [][2]string{
		{"حدثنا وكيع عن سفيان", "حدثنا وكيع"},
		{"a b c", "c d"},
		{"", "x y"},
	}
	for _, p := range pairs {
		if Jaccard(p[0], p[1]) != Jaccard(p[1], p[0]) {
			t.Errorf("not symmetric for %q / %q", p[0], p[1])
		}
	}
}

func TestJaccardRange(t *testing.T) {
	texts := []string{"a", "a b", "x y z", "قال رسول الله"}
	for _, a := range texts {
		for _, b := range texts {
			got := Jaccard(a, b)
			if got < 0 || got > 1 {
				t.Errorf("Jaccard(%q, %q) = %v out of range", a, b, got)
			}
		}
	}
}

func seedCorpus(t *testing.T, store storage.Storage, texts ...string) {
	t.Helper()
	base := time.Now().Add(-time.Hour)
	for i, text := range texts {
		rec := &models.SearchRecord{
			ID:        "seed-" + string(rune('a'+i)),
			Text:      text,
			Source:    "analysis",
			CreatedAt: base.Add(time.Duration(i) * time.Second),
		}
		if err := store.CreateSearch(context.Background(), rec); err != nil {
			t.Fatal(err)
		}
	}
}

func TestFindSimilar(t *testing.T) {
	store := storage.NewMemoryStorage()
	seedCorpus(t, store,
		"قال رسول الله صلى الله عليه وسلم",
		"حدثنا وكيع عن سفيان",
		"something entirely different",
	)
	engine := NewEngine(store, 0)

	matches, err := engine.FindSimilar(context.Background(),
		&models.SimilarQuery{Text: "قال رسول الله صلى الله عليه وسلم"})
	if err != nil {
		t.Fatal(err)
	}
	if len(matches) != 1 {
		t.Fatalf("expected 1 match above default threshold, got %d", len(matches))
	}
	if matches[0].Similarity != 1.0 {
		t.Errorf("identical text should score 1.0, got %v", matches[0].Similarity)
	}
}

func TestFindSimilar_ThresholdExcludesDisjoint(t *testing.T) {
	store := storage.NewMemoryStorage()
	seedCorpus(t, store, "alpha beta gamma")
	engine := NewEngine(store, 0)

	matches, err := engine.FindSimilar(context.Background(),
		&models.SimilarQuery{Text: "delta epsilon", Threshold: 0.1})
	if err != nil {
		t.Fatal(err)
	}
	if len(matches) != 0 {
		t.Errorf("disjoint vocabulary must not match, got %v", matches)
	}
}

func TestFindSimilar_OrderAndLimit(t *testing.T) {
	store := storage.NewMemoryStorage()
	seedCorpus(t, store,
		"a b c d",   // 2/4 vs query: 0.5
		"a b c",     // 2/3: 0.67
		"a b",       // full match: 1.0
		"unrelated", // 0
	)
	engine := NewEngine(store, 0)

	matches, err := engine.FindSimilar(context.Background(),
		&models.SimilarQuery{Text: "a b", Threshold: 0.3, Limit: 2})
	if err != nil {
		t.Fatal(err)
	}
	if len(matches) != 2 {
		t.Fatalf("expected limit 2, got %d", len(matches))
	}
	if matches[0].Similarity != 1.0 {
		t.Errorf("expected best match first, got %v", matches[0].Similarity)
	}
	if matches[1].Similarity >= matches[0].Similarity {
		t.Error("expected descending order")
	}
}

func TestFindSimilar_ValidatesQuery(t *testing.T) {
	engine := NewEngine(storage.NewMemoryStorage(), 0)
	if _, err := engine.FindSimilar(context.Background(), &models.SimilarQuery{Text: ""}); err == nil {
		t.Error("expected validation error for empty text")
	}
	if _, err := engine.FindSimilar(context.Background(),
		&models.SimilarQuery{Text: "x", Threshold: 1.5}); err == nil {
		t.Error("expected validation error for threshold > 1")
	}
}
