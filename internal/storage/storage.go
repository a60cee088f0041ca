// Package storage defines the persistence interface for narrators, search
// history, and bulk job records.
package storage

import (
	"context"
	"errors"

	"github.com/hyperjump/rawi/internal/models"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("record not found")

// Storage defines persistence operations. Implementations must be safe for
// concurrent use.
type Storage interface {
	// Narrator directory
	CreateNarrator(ctx context.Context, n *models.Narrator) error
	SearchNarrators(ctx context.Context, query string, limit int) ([]*models.Narrator, error)
	GetNarrator(ctx context.Context, id int64) (*models.Narrator, error)
	ListNarrators(ctx context.Context, offset, limit int) ([]*models.Narrator, error)
	CountNarrators(ctx context.Context) (int64, error)

	// Search history (doubles as the similarity corpus)
	CreateSearch(ctx context.Context, rec *models.SearchRecord) error
	RecentSearches(ctx context.Context, limit int) ([]*models.SearchRecord, error)
	CountSearches(ctx context.Context) (int64, error)

	// Bulk job progress records
	SaveJob(ctx context.Context, job *models.BulkJob) error
	GetJob(ctx context.Context, jobID string) (*models.BulkJob, error)

	Close() error
}
