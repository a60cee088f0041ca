package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/hyperjump/rawi/internal/models"
	"github.com/hyperjump/rawi/internal/storage"
	"go.uber.org/zap"
)

// Sources recorded in search history per entry point.
const (
	SourceAnalysis   = "analysis"
	SourceSimilarity = "similarity"
)

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req models.AnalyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	result, err := s.analyzer.Analyze(r.Context(), req.Text)
	if err != nil {
		s.logger.Error("analysis failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.recordSearch(r, req.Text, result.Confidence, SourceAnalysis)
	s.respondJSON(w, http.StatusOK, result)
}

func (s *Server) handleSimilar(w http.ResponseWriter, r *http.Request) {
	var query models.SimilarQuery
	if err := json.NewDecoder(r.Body).Decode(&query); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := query.Validate(); err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	matches, err := s.sim.FindSimilar(r.Context(), &query)
	if err != nil {
		s.logger.Error("similarity search failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	// The query joins the corpus after matching, so it never matches itself.
	s.recordSearch(r, query.Text, 0, SourceSimilarity)
	s.respondJSON(w, http.StatusOK, map[string]interface{}{
		"matches": matches,
		"count":   len(matches),
	})
}

func (s *Server) handleBulkSubmit(w http.ResponseWriter, r *http.Request) {
	var req models.BulkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	jobID, err := s.jobs.Submit(r.Context(), req)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.respondJSON(w, http.StatusAccepted, map[string]interface{}{
		"job_id": jobID,
		"status": models.JobProcessing,
		"total":  len(req.Texts),
	})
}

func (s *Server) handleBulkProgress(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "jobID")
	job, err := s.jobs.Progress(r.Context(), jobID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			s.respondError(w, http.StatusNotFound, "job not found")
			return
		}
		s.logger.Error("job lookup failed", zap.String("job_id", jobID), zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.respondJSON(w, http.StatusOK, job)
}

func (s *Server) handleNarrators(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	if q == "" {
		s.respondError(w, http.StatusBadRequest, "q is required")
		return
	}
	limit := 20
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			s.respondError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = n
	}
	narrators, err := s.directory.Search(r.Context(), q, limit)
	if err != nil {
		s.logger.Error("narrator search failed", zap.String("query", q), zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]interface{}{
		"narrators": narrators,
		"count":     len(narrators),
	})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	narrators, err := s.storage.CountNarrators(ctx)
	if err != nil {
		s.logger.Error("status: count narrators failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	searches, err := s.storage.CountSearches(ctx)
	if err != nil {
		s.logger.Error("status: count searches failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]interface{}{
		"narrators": narrators,
		"searches":  searches,
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// recordSearch appends a request text to search history. History is best
// effort; failures are logged and the response is unaffected.
func (s *Server) recordSearch(r *http.Request, text string, confidence int, source string) {
	record := &models.SearchRecord{
		ID:         uuid.New().String(),
		Text:       text,
		Confidence: confidence,
		Source:     source,
		CreatedAt:  time.Now(),
	}
	if err := s.storage.CreateSearch(r.Context(), record); err != nil {
		s.logger.Warn("failed to record search", zap.String("source", source), zap.Error(err))
	}
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func (s *Server) respondError(w http.ResponseWriter, status int, message string) {
	s.respondJSON(w, status, map[string]string{"error": message})
}
