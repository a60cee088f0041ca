// Package ingest imports corpus documents into the search history so their
// texts participate in similarity matching.
package ingest

import (
	"context"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hyperjump/rawi/internal/arabic"
	"github.com/hyperjump/rawi/internal/extract"
	"github.com/hyperjump/rawi/internal/isnad"
	"github.com/hyperjump/rawi/internal/models"
	"github.com/hyperjump/rawi/internal/storage"
	"go.uber.org/zap"
)

// SourceImport marks records created by file import.
const SourceImport = "import"

// Ingester extracts texts from files and records them as search history.
type Ingester struct {
	store      storage.Storage
	extractor  *extract.Extractor
	extensions map[string]bool
	logger     *zap.Logger
}

// Option configures an Ingester.
type Option func(*Ingester)

// WithLogger sets a logger for per-file diagnostics.
func WithLogger(l *zap.Logger) Option {
	return func(i *Ingester) { i.logger = l }
}

// WithExtensions restricts directory walks to the given extensions
// (leading dot, e.g. ".txt"). Empty means all supported formats.
func WithExtensions(exts []string) Option {
	return func(i *Ingester) {
		i.extensions = make(map[string]bool, len(exts))
		for _, ext := range exts {
			i.extensions[strings.ToLower(ext)] = true
		}
	}
}

// NewIngester creates an ingester writing to store.
func NewIngester(store storage.Storage, opts ...Option) *Ingester {
	i := &Ingester{
		store:     store,
		extractor: extract.NewExtractor(),
	}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// IngestFile extracts path, splits it into texts, scores each, and records
// them in the search history. Returns the number of texts recorded.
func (i *Ingester) IngestFile(ctx context.Context, path string) (int, error) {
	content, err := i.extractor.Extract(path)
	if err != nil {
		return 0, fmt.Errorf("ingest %s: %w", path, err)
	}

	count := 0
	for _, text := range extract.SplitTexts(content) {
		normalized := arabic.Normalize(text)
		chain := isnad.BuildChain(normalized, isnad.ExtractCandidates(normalized))
		structure := isnad.AnalyzeStructure(normalized)

		record := &models.SearchRecord{
			ID:         uuid.New().String(),
			Text:       text,
			Confidence: isnad.Aggregate(chain, structure),
			Source:     SourceImport,
			CreatedAt:  time.Now(),
		}
		if err := i.store.CreateSearch(ctx, record); err != nil {
			return count, fmt.Errorf("ingest %s: %w", path, err)
		}
		count++
	}
	if i.logger != nil {
		i.logger.Info("file ingested", zap.String("path", path), zap.Int("texts", count))
	}
	return count, nil
}

// IngestDirectory walks root recursively and ingests every file whose
// extension is allowed. Individual file failures are logged and skipped.
func (i *Ingester) IngestDirectory(ctx context.Context, root string) (int, error) {
	total := 0
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if !i.allowed(path) {
			return nil
		}
		n, err := i.IngestFile(ctx, path)
		if err != nil {
			if i.logger != nil {
				i.logger.Warn("file skipped", zap.String("path", path), zap.Error(err))
			}
			return nil
		}
		total += n
		return nil
	})
	return total, err
}

func (i *Ingester) allowed(path string) bool {
	if len(i.extensions) == 0 {
		return true
	}
	return i.extensions[strings.ToLower(filepath.Ext(path))]
}
