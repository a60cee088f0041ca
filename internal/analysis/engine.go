// Package analysis runs the single-text pipeline: normalization, chain
// extraction, structural scoring, confidence aggregation, and narrator
// resolution.
package analysis

import (
	"context"
	"errors"
	"time"

	"github.com/hyperjump/rawi/internal/arabic"
	"github.com/hyperjump/rawi/internal/isnad"
	"github.com/hyperjump/rawi/internal/models"
	"github.com/hyperjump/rawi/internal/storage"
	"go.uber.org/zap"
)

// Resolver looks a candidate name up in the narrator directory.
type Resolver interface {
	Resolve(ctx context.Context, name string) (*models.Narrator, error)
}

// Engine analyzes hadith texts. The resolver may be nil, in which case
// candidates are left unresolved.
type Engine struct {
	resolver Resolver
	logger   *zap.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets a logger for lookup diagnostics.
func WithLogger(l *zap.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

// NewEngine creates an analysis engine.
func NewEngine(resolver Resolver, opts ...Option) *Engine {
	e := &Engine{resolver: resolver}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Analyze runs the full pipeline on one text. A failed directory lookup
// skips that candidate and continues; only input validation fails the call.
func (e *Engine) Analyze(ctx context.Context, text string) (*models.TextAnalysis, error) {
	req := models.AnalyzeRequest{Text: text}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	normalized := arabic.Normalize(text)
	candidates := isnad.ExtractCandidates(normalized)
	structure := isnad.AnalyzeStructure(normalized)
	chain := isnad.BuildChain(normalized, candidates)

	result := &models.TextAnalysis{
		NormalizedText: normalized,
		Candidates:     candidates,
		Chain:          chain,
		Structure:      structure,
		Confidence:     isnad.Aggregate(chain, structure),
		ProcessedAt:    time.Now(),
	}

	if e.resolver != nil {
		result.Narrators = e.resolveCandidates(ctx, candidates)
	}
	return result, nil
}

func (e *Engine) resolveCandidates(ctx context.Context, candidates []models.NameCandidate) []models.ResolvedCandidate {
	resolved := make([]models.ResolvedCandidate, 0, len(candidates))
	for _, c := range candidates {
		rc := models.ResolvedCandidate{Candidate: c}
		n, err := e.resolver.Resolve(ctx, c.Name)
		switch {
		case err == nil:
			rc.Narrator = n
		case errors.Is(err, storage.ErrNotFound):
			// Unresolved candidates are kept without a narrator.
		default:
			if e.logger != nil {
				e.logger.Warn("narrator lookup skipped",
					zap.String("name", c.Name), zap.Error(err))
			}
		}
		resolved = append(resolved, rc)
	}
	return resolved
}
