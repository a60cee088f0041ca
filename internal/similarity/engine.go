package similarity

import (
	"context"
	"fmt"
	"sort"

	"github.com/hyperjump/rawi/internal/arabic"
	"github.com/hyperjump/rawi/internal/models"
	"github.com/hyperjump/rawi/internal/storage"
)

// DefaultCorpusLimit bounds the full-scan comparison corpus to the most
// recent records. The scan is O(corpus x text length) per query, which is
// acceptable only because of this cap.
const DefaultCorpusLimit = 1000

// Engine scans recent search history for texts similar to a query.
type Engine struct {
	store       storage.Storage
	corpusLimit int
}

// NewEngine creates a similarity engine over the given store. corpusLimit
// bounds the history scan; values <= 0 fall back to DefaultCorpusLimit.
func NewEngine(store storage.Storage, corpusLimit int) *Engine {
	if corpusLimit <= 0 {
		corpusLimit = DefaultCorpusLimit
	}
	return &Engine{store: store, corpusLimit: corpusLimit}
}

// FindSimilar normalizes the query, scans the most recent history records,
// keeps those with Jaccard similarity >= the query threshold, and returns up
// to the query limit, sorted by descending similarity. Ties preserve corpus
// order (most recent first). The engine does not append the query to history;
// that is the caller's responsibility.
func (e *Engine) FindSimilar(ctx context.Context, query *models.SimilarQuery) ([]*models.SimilarityMatch, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}
	normalized := arabic.Normalize(query.Text)

	corpus, err := e.store.RecentSearches(ctx, e.corpusLimit)
	if err != nil {
		return nil, fmt.Errorf("load similarity corpus: %w", err)
	}

	matches := make([]*models.SimilarityMatch, 0, 16)
	for _, rec := range corpus {
		score := Jaccard(normalized, arabic.Normalize(rec.Text))
		if score < query.Threshold {
			continue
		}
		matches = append(matches, &models.SimilarityMatch{
			ID:         rec.ID,
			Text:       rec.Text,
			Similarity: score,
			Source:     rec.Source,
			CreatedAt:  rec.CreatedAt,
		})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Similarity > matches[j].Similarity
	})
	if len(matches) > query.Limit {
		matches = matches[:query.Limit]
	}
	return matches, nil
}
