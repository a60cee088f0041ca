// Package bulk runs batches of analyses as background jobs with persisted
// per-item progress.
package bulk

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hyperjump/rawi/internal/models"
	"github.com/hyperjump/rawi/internal/storage"
	"github.com/hyperjump/rawi/pkg/utils"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const (
	defaultThrottle = 150 * time.Millisecond
	defaultPreview  = 50
)

// Analyzer runs the single-text pipeline.
type Analyzer interface {
	Analyze(ctx context.Context, text string) (*models.TextAnalysis, error)
}

// Orchestrator accepts bulk requests, runs them in the background, and
// records progress through the store. Submit returns as soon as the job is
// registered; callers poll Progress with the returned job ID.
type Orchestrator struct {
	store    storage.Storage
	analyzer Analyzer
	throttle time.Duration
	preview  int
	logger   *zap.Logger
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithLogger sets a logger for job diagnostics.
func WithLogger(l *zap.Logger) Option {
	return func(o *Orchestrator) { o.logger = l }
}

// WithThrottle sets the minimum gap between items. Zero disables throttling.
func WithThrottle(d time.Duration) Option {
	return func(o *Orchestrator) { o.throttle = d }
}

// WithPreviewLength sets how many runes of the current text progress records keep.
func WithPreviewLength(runes int) Option {
	return func(o *Orchestrator) { o.preview = runes }
}

// NewOrchestrator creates a bulk orchestrator.
func NewOrchestrator(store storage.Storage, analyzer Analyzer, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		store:    store,
		analyzer: analyzer,
		throttle: defaultThrottle,
		preview:  defaultPreview,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Submit validates the request, registers the job, and starts processing in
// the background. The returned ID is immediately pollable via Progress.
func (o *Orchestrator) Submit(ctx context.Context, req models.BulkRequest) (string, error) {
	if err := req.Validate(); err != nil {
		return "", err
	}

	job := &models.BulkJob{
		JobID:     uuid.New().String(),
		Status:    models.JobProcessing,
		Total:     len(req.Texts),
		UpdatedAt: time.Now(),
	}
	if err := o.store.SaveJob(ctx, job); err != nil {
		return "", fmt.Errorf("failed to register job: %w", err)
	}

	// The job outlives the submitting request, so it runs detached from ctx.
	go o.run(context.Background(), job, req.Texts)

	return job.JobID, nil
}

// Progress returns the current job record, or storage.ErrNotFound for an
// unknown ID.
func (o *Orchestrator) Progress(ctx context.Context, jobID string) (*models.BulkJob, error) {
	return o.store.GetJob(ctx, jobID)
}

func (o *Orchestrator) run(ctx context.Context, job *models.BulkJob, texts []string) {
	defer func() {
		if r := recover(); r != nil {
			if o.logger != nil {
				o.logger.Error("bulk job panicked",
					zap.String("job_id", job.JobID), zap.Any("panic", r))
			}
			o.fail(ctx, job, fmt.Sprintf("internal error: %v", r))
		}
	}()

	var limiter *rate.Limiter
	if o.throttle > 0 {
		limiter = rate.NewLimiter(rate.Every(o.throttle), 1)
		limiter.Allow()
	}

	results := make([]*models.TextAnalysis, 0, len(texts))
	for i, text := range texts {
		if limiter != nil {
			if err := limiter.Wait(ctx); err != nil {
				o.fail(ctx, job, err.Error())
				return
			}
		}

		job.Processed = i + 1
		job.CurrentText = utils.Truncate(text, o.preview)
		job.UpdatedAt = time.Now()
		if err := o.store.SaveJob(ctx, job); err != nil && o.logger != nil {
			o.logger.Warn("failed to record job progress",
				zap.String("job_id", job.JobID), zap.Error(err))
		}

		analysis, err := o.analyzer.Analyze(ctx, text)
		if err != nil {
			o.fail(ctx, job, fmt.Sprintf("text %d: %v", i+1, err))
			return
		}
		results = append(results, analysis)
	}

	job.Status = models.JobCompleted
	job.Processed = job.Total
	job.CurrentText = ""
	job.Results = results
	job.UpdatedAt = time.Now()
	if err := o.store.SaveJob(ctx, job); err != nil && o.logger != nil {
		o.logger.Error("failed to record job completion",
			zap.String("job_id", job.JobID), zap.Error(err))
	}
	if o.logger != nil {
		o.logger.Info("bulk job completed",
			zap.String("job_id", job.JobID), zap.Int("total", job.Total))
	}
}

// fail marks the job errored, keeping Processed at the failing item.
func (o *Orchestrator) fail(ctx context.Context, job *models.BulkJob, msg string) {
	job.Status = models.JobError
	job.Error = msg
	job.CurrentText = ""
	job.UpdatedAt = time.Now()
	if err := o.store.SaveJob(ctx, job); err != nil && o.logger != nil {
		o.logger.Error("failed to record job failure",
			zap.String("job_id", job.JobID), zap.Error(err))
	}
}
