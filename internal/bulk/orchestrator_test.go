package bulk

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/hyperjump/rawi/internal/models"
	"github.com/hyperjump/rawi/internal/storage"
)

// fakeAnalyzer counts calls and can fail at a chosen item.
type fakeAnalyzer struct {
	failAt int // 1-based item index, 0 means never fail
	calls  int
	delay  time.Duration
}

func (f *fakeAnalyzer) Analyze(ctx context.Context, text string) (*models.TextAnalysis, error) {
	f.calls++
	if f.delay > 0 {
		time.Sleep(f.delay)
	}
	if f.failAt > 0 && f.calls == f.failAt {
		return nil, errors.New("analysis blew up")
	}
	return &models.TextAnalysis{NormalizedText: text, Confidence: 42}, nil
}

func waitForTerminal(t *testing.T, o *Orchestrator, jobID string) *models.BulkJob {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		job, err := o.Progress(context.Background(), jobID)
		if err != nil {
			t.Fatal(err)
		}
		if job.Terminal() {
			return job
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("job never reached a terminal status")
	return nil
}

func TestSubmit_RejectsEmptyBatch(t *testing.T) {
	o := NewOrchestrator(storage.NewMemoryStorage(), &fakeAnalyzer{}, WithThrottle(0))
	if _, err := o.Submit(context.Background(), models.BulkRequest{}); err == nil {
		t.Error("expected validation error for empty batch")
	}
}

func TestSubmit_RejectsOversizedBatch(t *testing.T) {
	store := storage.NewMemoryStorage()
	o := NewOrchestrator(store, &fakeAnalyzer{}, WithThrottle(0))

	texts := make([]string, models.MaxBulkTexts+1)
	for i := range texts {
		texts[i] = fmt.Sprintf("text %d", i)
	}
	if _, err := o.Submit(context.Background(), models.BulkRequest{Texts: texts}); err == nil {
		t.Fatal("expected validation error for oversized batch")
	}
}

func TestSubmit_CompletesBatch(t *testing.T) {
	store := storage.NewMemoryStorage()
	analyzer := &fakeAnalyzer{}
	o := NewOrchestrator(store, analyzer, WithThrottle(0))

	texts := []string{"حدثنا وكيع", "حدثنا مالك", "نص عادي"}
	jobID, err := o.Submit(context.Background(), models.BulkRequest{Texts: texts})
	if err != nil {
		t.Fatal(err)
	}
	if jobID == "" {
		t.Fatal("expected a job id")
	}

	job := waitForTerminal(t, o, jobID)
	if job.Status != models.JobCompleted {
		t.Fatalf("expected completed, got %q (error %q)", job.Status, job.Error)
	}
	if job.Processed != 3 || job.Total != 3 {
		t.Errorf("processed/total: got %d/%d", job.Processed, job.Total)
	}
	if len(job.Results) != 3 {
		t.Errorf("expected 3 results, got %d", len(job.Results))
	}
	if job.CurrentText != "" {
		t.Errorf("completed job should clear current text, got %q", job.CurrentText)
	}
	if analyzer.calls != 3 {
		t.Errorf("expected 3 analyses, got %d", analyzer.calls)
	}
}

func TestSubmit_FailureKeepsProgress(t *testing.T) {
	store := storage.NewMemoryStorage()
	o := NewOrchestrator(store, &fakeAnalyzer{failAt: 2}, WithThrottle(0))

	jobID, err := o.Submit(context.Background(), models.BulkRequest{
		Texts: []string{"واحد", "اثنان", "ثلاثة"},
	})
	if err != nil {
		t.Fatal(err)
	}

	job := waitForTerminal(t, o, jobID)
	if job.Status != models.JobError {
		t.Fatalf("expected error status, got %q", job.Status)
	}
	if job.Processed != 2 {
		t.Errorf("progress should stop at the failing item, got %d", job.Processed)
	}
	if !strings.Contains(job.Error, "text 2") {
		t.Errorf("error should name the failing item, got %q", job.Error)
	}
}

func TestProgress_MonotonicDuringRun(t *testing.T) {
	store := storage.NewMemoryStorage()
	o := NewOrchestrator(store, &fakeAnalyzer{delay: 10 * time.Millisecond}, WithThrottle(0))

	jobID, err := o.Submit(context.Background(), models.BulkRequest{
		Texts: []string{"a", "b", "c", "d", "e"},
	})
	if err != nil {
		t.Fatal(err)
	}

	last := 0
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		job, err := o.Progress(context.Background(), jobID)
		if err != nil {
			t.Fatal(err)
		}
		if job.Processed < last {
			t.Fatalf("processed went backwards: %d -> %d", last, job.Processed)
		}
		last = job.Processed
		if job.Terminal() {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatal("job never finished")
}

func TestProgress_UnknownJob(t *testing.T) {
	o := NewOrchestrator(storage.NewMemoryStorage(), &fakeAnalyzer{})
	if _, err := o.Progress(context.Background(), "no-such-job"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}
