package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"

	"github.com/hyperjump/rawi/internal/models"
)

// SQLStorage implements Storage over sqlx. Two drivers are supported:
// sqlite3 (embedded default) and postgres (shared narrator directory,
// Supabase-compatible).
type SQLStorage struct {
	db     *sqlx.DB
	driver string
}

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS narrators (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	name_arabic TEXT NOT NULL,
	transliteration TEXT NOT NULL DEFAULT '',
	credibility TEXT NOT NULL DEFAULT '',
	biography TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_narrators_name ON narrators(name_arabic);

CREATE TABLE IF NOT EXISTS searches (
	id TEXT PRIMARY KEY,
	text TEXT NOT NULL,
	confidence INTEGER NOT NULL DEFAULT 0,
	source TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_searches_created_at ON searches(created_at);

CREATE TABLE IF NOT EXISTS bulk_jobs (
	job_id TEXT PRIMARY KEY,
	status TEXT NOT NULL,
	processed INTEGER NOT NULL DEFAULT 0,
	total INTEGER NOT NULL DEFAULT 0,
	current_text TEXT NOT NULL DEFAULT '',
	results TEXT,
	error TEXT NOT NULL DEFAULT '',
	updated_at TIMESTAMP
);`

const postgresSchema = `
CREATE TABLE IF NOT EXISTS narrators (
	id BIGSERIAL PRIMARY KEY,
	name_arabic TEXT NOT NULL,
	transliteration TEXT NOT NULL DEFAULT '',
	credibility TEXT NOT NULL DEFAULT '',
	biography TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMPTZ DEFAULT now()
);
CREATE INDEX IF NOT EXISTS idx_narrators_name ON narrators(name_arabic);

CREATE TABLE IF NOT EXISTS searches (
	id TEXT PRIMARY KEY,
	text TEXT NOT NULL,
	confidence INTEGER NOT NULL DEFAULT 0,
	source TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMPTZ DEFAULT now()
);
CREATE INDEX IF NOT EXISTS idx_searches_created_at ON searches(created_at);

CREATE TABLE IF NOT EXISTS bulk_jobs (
	job_id TEXT PRIMARY KEY,
	status TEXT NOT NULL,
	processed INTEGER NOT NULL DEFAULT 0,
	total INTEGER NOT NULL DEFAULT 0,
	current_text TEXT NOT NULL DEFAULT '',
	results TEXT,
	error TEXT NOT NULL DEFAULT '',
	updated_at TIMESTAMPTZ
);`

// NewSQLStorage opens a database with the given driver ("sqlite3" or
// "postgres") and initializes the schema. For sqlite3, dsn is a file path;
// parent directories are created and WAL mode is enabled.
func NewSQLStorage(driver, dsn string) (*SQLStorage, error) {
	schema := postgresSchema
	switch driver {
	case "sqlite3":
		schema = sqliteSchema
		if dir := filepath.Dir(dsn); dir != "." {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return nil, fmt.Errorf("failed to create database directory: %w", err)
			}
		}
	case "postgres":
	default:
		return nil, fmt.Errorf("unsupported storage driver: %s", driver)
	}

	db, err := sqlx.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if driver == "sqlite3" {
		if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL: %w", err)
		}
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return &SQLStorage{db: db, driver: driver}, nil
}

// CreateNarrator inserts a narrator and fills in its generated ID.
func (s *SQLStorage) CreateNarrator(ctx context.Context, n *models.Narrator) error {
	n.CreatedAt = time.Now()
	if s.driver == "postgres" {
		return s.db.QueryRowContext(ctx,
			`INSERT INTO narrators (name_arabic, transliteration, credibility, biography, created_at)
			 VALUES ($1, $2, $3, $4, $5) RETURNING id`,
			n.NameArabic, n.Transliteration, n.Credibility, n.Biography, n.CreatedAt,
		).Scan(&n.ID)
	}
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO narrators (name_arabic, transliteration, credibility, biography, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		n.NameArabic, n.Transliteration, n.Credibility, n.Biography, n.CreatedAt,
	)
	if err != nil {
		return err
	}
	n.ID, err = res.LastInsertId()
	return err
}

// SearchNarrators performs a case-insensitive substring match against the
// Arabic name and transliteration fields.
func (s *SQLStorage) SearchNarrators(ctx context.Context, query string, limit int) ([]*models.Narrator, error) {
	pattern := "%" + strings.ToLower(query) + "%"
	var out []*models.Narrator
	q := s.db.Rebind(
		`SELECT id, name_arabic, transliteration, credibility, biography, created_at
		 FROM narrators
		 WHERE LOWER(name_arabic) LIKE ? OR LOWER(transliteration) LIKE ?
		 ORDER BY id LIMIT ?`)
	if err := s.db.SelectContext(ctx, &out, q, pattern, pattern, limit); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *SQLStorage) GetNarrator(ctx context.Context, id int64) (*models.Narrator, error) {
	var n models.Narrator
	q := s.db.Rebind(
		`SELECT id, name_arabic, transliteration, credibility, biography, created_at
		 FROM narrators WHERE id = ?`)
	err := s.db.GetContext(ctx, &n, q, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &n, nil
}

func (s *SQLStorage) ListNarrators(ctx context.Context, offset, limit int) ([]*models.Narrator, error) {
	var out []*models.Narrator
	q := s.db.Rebind(
		`SELECT id, name_arabic, transliteration, credibility, biography, created_at
		 FROM narrators ORDER BY id LIMIT ? OFFSET ?`)
	if err := s.db.SelectContext(ctx, &out, q, limit, offset); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *SQLStorage) CountNarrators(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM narrators`)
	return count, err
}

// CreateSearch appends a search history record.
func (s *SQLStorage) CreateSearch(ctx context.Context, rec *models.SearchRecord) error {
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now()
	}
	q := s.db.Rebind(
		`INSERT INTO searches (id, text, confidence, source, created_at)
		 VALUES (?, ?, ?, ?, ?)`)
	_, err := s.db.ExecContext(ctx, q, rec.ID, rec.Text, rec.Confidence, rec.Source, rec.CreatedAt)
	return err
}

// RecentSearches returns up to limit records, most recent first.
func (s *SQLStorage) RecentSearches(ctx context.Context, limit int) ([]*models.SearchRecord, error) {
	var out []*models.SearchRecord
	q := s.db.Rebind(
		`SELECT id, text, confidence, source, created_at
		 FROM searches ORDER BY created_at DESC, id DESC LIMIT ?`)
	if err := s.db.SelectContext(ctx, &out, q, limit); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *SQLStorage) CountSearches(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM searches`)
	return count, err
}

// SaveJob upserts the job progress record. Results are serialized as JSON;
// the upsert keeps progress writes small and atomic per update.
func (s *SQLStorage) SaveJob(ctx context.Context, job *models.BulkJob) error {
	job.UpdatedAt = time.Now()
	var results sql.NullString
	if job.Results != nil {
		data, err := json.Marshal(job.Results)
		if err != nil {
			return fmt.Errorf("failed to marshal job results: %w", err)
		}
		results = sql.NullString{String: string(data), Valid: true}
	}
	q := s.db.Rebind(
		`INSERT INTO bulk_jobs (job_id, status, processed, total, current_text, results, error, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT (job_id) DO UPDATE SET
			status = excluded.status,
			processed = excluded.processed,
			total = excluded.total,
			current_text = excluded.current_text,
			results = excluded.results,
			error = excluded.error,
			updated_at = excluded.updated_at`)
	_, err := s.db.ExecContext(ctx, q,
		job.JobID, string(job.Status), job.Processed, job.Total,
		job.CurrentText, results, job.Error, job.UpdatedAt)
	return err
}

func (s *SQLStorage) GetJob(ctx context.Context, jobID string) (*models.BulkJob, error) {
	var row struct {
		JobID       string         `db:"job_id"`
		Status      string         `db:"status"`
		Processed   int            `db:"processed"`
		Total       int            `db:"total"`
		CurrentText string         `db:"current_text"`
		Results     sql.NullString `db:"results"`
		Error       string         `db:"error"`
		UpdatedAt   time.Time      `db:"updated_at"`
	}
	q := s.db.Rebind(
		`SELECT job_id, status, processed, total, current_text, results, error, updated_at
		 FROM bulk_jobs WHERE job_id = ?`)
	err := s.db.GetContext(ctx, &row, q, jobID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	job := &models.BulkJob{
		JobID:       row.JobID,
		Status:      models.JobStatus(row.Status),
		Processed:   row.Processed,
		Total:       row.Total,
		CurrentText: row.CurrentText,
		Error:       row.Error,
		UpdatedAt:   row.UpdatedAt,
	}
	if row.Results.Valid {
		if err := json.Unmarshal([]byte(row.Results.String), &job.Results); err != nil {
			return nil, fmt.Errorf("failed to unmarshal job results: %w", err)
		}
	}
	return job, nil
}

func (s *SQLStorage) Close() error { return s.db.Close() }
