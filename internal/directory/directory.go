package directory

import (
	"context"
	"errors"
	"time"

	"github.com/hyperjump/rawi/internal/models"
	"github.com/hyperjump/rawi/internal/storage"
	"go.uber.org/zap"
)

const (
	defaultMaxRetries = 3
	defaultBackoff    = 200 * time.Millisecond
)

// Directory looks narrator records up by extracted name. Lookups hit the
// store first (case-insensitive substring); when that misses and a fuzzy
// index is attached, approximate name matching is tried as a fallback.
// Transient store failures are retried with exponential backoff.
type Directory struct {
	store      storage.Storage
	index      *NameIndex
	maxRetries int
	backoff    time.Duration
	logger     *zap.Logger
}

// Option configures a Directory.
type Option func(*Directory)

// WithLogger sets a logger for lookup diagnostics.
func WithLogger(l *zap.Logger) Option {
	return func(d *Directory) { d.logger = l }
}

// WithNameIndex attaches a fuzzy name index used when substring lookup misses.
func WithNameIndex(idx *NameIndex) Option {
	return func(d *Directory) { d.index = idx }
}

// WithRetry sets the retry budget for transient store failures.
func WithRetry(maxRetries int, backoff time.Duration) Option {
	return func(d *Directory) {
		d.maxRetries = maxRetries
		d.backoff = backoff
	}
}

// NewDirectory creates a directory over the given store.
func NewDirectory(store storage.Storage, opts ...Option) *Directory {
	d := &Directory{
		store:      store,
		maxRetries: defaultMaxRetries,
		backoff:    defaultBackoff,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Resolve returns the first narrator matching name, or storage.ErrNotFound
// when the directory has no match.
func (d *Directory) Resolve(ctx context.Context, name string) (*models.Narrator, error) {
	matches, err := d.searchWithRetry(ctx, name, 1)
	if err != nil {
		return nil, err
	}
	if len(matches) > 0 {
		return matches[0], nil
	}
	if d.index != nil {
		if n := d.fuzzyResolve(ctx, name); n != nil {
			return n, nil
		}
	}
	return nil, storage.ErrNotFound
}

// Search returns up to limit narrators matching query, falling back to the
// fuzzy index when substring matching finds nothing.
func (d *Directory) Search(ctx context.Context, query string, limit int) ([]*models.Narrator, error) {
	matches, err := d.searchWithRetry(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	if len(matches) > 0 || d.index == nil {
		return matches, nil
	}
	ids, err := d.index.Fuzzy(query, limit)
	if err != nil {
		if d.logger != nil {
			d.logger.Warn("fuzzy name search failed", zap.String("query", query), zap.Error(err))
		}
		return matches, nil
	}
	for _, id := range ids {
		n, err := d.store.GetNarrator(ctx, id)
		if err != nil {
			continue
		}
		matches = append(matches, n)
	}
	return matches, nil
}

// Reindex rebuilds the fuzzy index from the store. No-op without an index.
func (d *Directory) Reindex(ctx context.Context) (int, error) {
	if d.index == nil {
		return 0, nil
	}
	const pageSize = 500
	total := 0
	for offset := 0; ; offset += pageSize {
		page, err := d.store.ListNarrators(ctx, offset, pageSize)
		if err != nil {
			return total, err
		}
		if len(page) == 0 {
			return total, nil
		}
		for _, n := range page {
			if err := d.index.Index(n); err != nil {
				return total, err
			}
			total++
		}
	}
}

// IndexNarrator adds a newly created narrator to the fuzzy index, if any.
func (d *Directory) IndexNarrator(n *models.Narrator) error {
	if d.index == nil {
		return nil
	}
	return d.index.Index(n)
}

func (d *Directory) fuzzyResolve(ctx context.Context, name string) *models.Narrator {
	ids, err := d.index.Fuzzy(name, 1)
	if err != nil || len(ids) == 0 {
		return nil
	}
	n, err := d.store.GetNarrator(ctx, ids[0])
	if err != nil {
		return nil
	}
	return n
}

// searchWithRetry retries transient store failures with exponential backoff.
// Context cancellation is never retried.
func (d *Directory) searchWithRetry(ctx context.Context, query string, limit int) ([]*models.Narrator, error) {
	backoff := d.backoff
	var lastErr error
	for attempt := 0; attempt <= d.maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(backoff):
			}
			backoff *= 2
		}
		matches, err := d.store.SearchNarrators(ctx, query, limit)
		if err == nil {
			return matches, nil
		}
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, err
		}
		lastErr = err
		if d.logger != nil {
			d.logger.Warn("narrator lookup failed",
				zap.String("query", query),
				zap.Int("attempt", attempt+1),
				zap.Error(err))
		}
	}
	return nil, lastErr
}
