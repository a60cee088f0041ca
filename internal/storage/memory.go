package storage

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/hyperjump/rawi/internal/models"
)

// MemoryStorage is an in-memory Storage implementation. Used for tests and
// for ephemeral runs with no database configured.
type MemoryStorage struct {
	mu        sync.RWMutex
	narrators []*models.Narrator
	nextID    int64
	searches  []*models.SearchRecord
	jobs      map[string]*models.BulkJob
}

// NewMemoryStorage returns an empty in-memory store.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{nextID: 1, jobs: make(map[string]*models.BulkJob)}
}

func (m *MemoryStorage) CreateNarrator(ctx context.Context, n *models.Narrator) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	n.ID = m.nextID
	m.nextID++
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now()
	}
	cp := *n
	m.narrators = append(m.narrators, &cp)
	return nil
}

func (m *MemoryStorage) SearchNarrators(ctx context.Context, query string, limit int) ([]*models.Narrator, error) {
	q := strings.ToLower(query)
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*models.Narrator
	for _, n := range m.narrators {
		if strings.Contains(strings.ToLower(n.NameArabic), q) ||
			strings.Contains(strings.ToLower(n.Transliteration), q) {
			cp := *n
			out = append(out, &cp)
			if limit > 0 && len(out) >= limit {
				break
			}
		}
	}
	return out, nil
}

func (m *MemoryStorage) GetNarrator(ctx context.Context, id int64) (*models.Narrator, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, n := range m.narrators {
		if n.ID == id {
			cp := *n
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func (m *MemoryStorage) ListNarrators(ctx context.Context, offset, limit int) ([]*models.Narrator, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if offset >= len(m.narrators) {
		return nil, nil
	}
	end := len(m.narrators)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	out := make([]*models.Narrator, 0, end-offset)
	for _, n := range m.narrators[offset:end] {
		cp := *n
		out = append(out, &cp)
	}
	return out, nil
}

func (m *MemoryStorage) CountNarrators(ctx context.Context) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return int64(len(m.narrators)), nil
}

func (m *MemoryStorage) CreateSearch(ctx context.Context, rec *models.SearchRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now()
	}
	cp := *rec
	m.searches = append(m.searches, &cp)
	return nil
}

// RecentSearches returns up to limit records, most recent first.
func (m *MemoryStorage) RecentSearches(ctx context.Context, limit int) ([]*models.SearchRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*models.SearchRecord, 0, len(m.searches))
	for _, rec := range m.searches {
		cp := *rec
		out = append(out, &cp)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *MemoryStorage) CountSearches(ctx context.Context) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return int64(len(m.searches)), nil
}

func (m *MemoryStorage) SaveJob(ctx context.Context, job *models.BulkJob) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	job.UpdatedAt = time.Now()
	cp := *job
	if job.Results != nil {
		cp.Results = append([]*models.TextAnalysis(nil), job.Results...)
	}
	m.jobs[job.JobID] = &cp
	return nil
}

func (m *MemoryStorage) GetJob(ctx context.Context, jobID string) (*models.BulkJob, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	job, ok := m.jobs[jobID]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *job
	if job.Results != nil {
		cp.Results = append([]*models.TextAnalysis(nil), job.Results...)
	}
	return &cp, nil
}

func (m *MemoryStorage) Close() error { return nil }
