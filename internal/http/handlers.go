package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"sync/atomic"
	"time"

	"retro/internal/core"
	"retro/internal/dates"
	applog "retro/internal/log"
	"retro/internal/services"
)

// monthSection is one month bucket on the index page, newest bucket first.
type monthSection struct {
	Index   int
	Label   string
	Records []core.Retrospective
}

type indexView struct {
	Today      core.Date
	DayCount   int
	MonthIndex int
	MonthLabel string
	Authors    []core.Author
	Months     []monthSection
	Total      int
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	records, err := s.listRecords(r)
	if err != nil {
		applog.FromContext(r.Context()).ErrorContext(r.Context(), "Failed to list retrospectives",
			applog.FieldError, err, applog.FieldOperation, applog.OpList)
		s.renderError(w, r, http.StatusInternalServerError)
		return
	}

	today := s.retros.Today()
	view := indexView{
		Today:      today,
		DayCount:   dates.DayCount(today),
		MonthIndex: dates.MonthIndex(today),
		MonthLabel: dates.MonthLabel(dates.MonthIndex(today)),
		Authors:    core.Authors(),
		Total:      len(records),
	}

	groups := core.GroupByMonth(records)
	for _, key := range core.MonthKeys(groups) {
		view.Months = append(view.Months, monthSection{
			Index:   key,
			Label:   dates.MonthLabel(key),
			Records: groups[key],
		})
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.templates.ExecuteTemplate(w, "index.html", view); err != nil {
		slog.ErrorContext(r.Context(), "Failed to render index", "error", err)
	}
}

// listRecords serves the index list through the snapshot cache.
func (s *Server) listRecords(r *http.Request) ([]core.Retrospective, error) {
	if records, ok := s.listCache.Get(); ok {
		atomic.AddInt64(&s.metrics.cacheHits, 1)
		return records, nil
	}
	atomic.AddInt64(&s.metrics.cacheMisses, 1)

	records, err := s.retros.List(r.Context())
	if err != nil {
		return nil, err
	}
	s.listCache.Set(records)
	return records, nil
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

// handleReady checks that the backing store answers before reporting ready.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	w.Header().Set("Content-Type", "application/json")
	if _, err := s.retros.List(ctx); err != nil {
		slog.WarnContext(r.Context(), "Readiness check failed", "error", err)
		w.WriteHeader(http.StatusServiceUnavailable)
		_ = json.NewEncoder(w).Encode(map[string]string{"status": "unavailable"})
		return
	}
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "ready"})
}

func (s *Server) handleMetrics(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"uptime_seconds":     int64(time.Since(s.metrics.startedAt).Seconds()),
		"requests_total":     s.traceMW.GetMetrics().TotalRequests,
		"records_created":    atomic.LoadInt64(&s.metrics.recordsCreated),
		"records_deleted":    atomic.LoadInt64(&s.metrics.recordsDeleted),
		"list_cache_hits":    atomic.LoadInt64(&s.metrics.cacheHits),
		"list_cache_misses":  atomic.LoadInt64(&s.metrics.cacheMisses),
		"rate_limit_hits":    s.rateLimiter.TotalHits(),
		"rate_limit_clients": s.rateLimiter.ActiveClients(),
	})
}

// userMessage maps domain errors to the Korean messages shown inline in the
// form. Unknown errors fall through to a generic message.
func userMessage(err error) (string, int) {
	switch {
	case errors.Is(err, core.ErrInvalidAuthor):
		return "작성자를 선택해주세요.", http.StatusUnprocessableEntity
	case errors.Is(err, core.ErrEmptySummary):
		return "한 줄 요약을 입력해주세요.", http.StatusUnprocessableEntity
	case errors.Is(err, core.ErrEmptyKeep):
		return "Keep 항목을 입력해주세요.", http.StatusUnprocessableEntity
	case errors.Is(err, core.ErrEmptyProblem):
		return "Problem 항목을 입력해주세요.", http.StatusUnprocessableEntity
	case errors.Is(err, core.ErrEmptyTry):
		return "Try 항목을 입력해주세요.", http.StatusUnprocessableEntity
	case errors.Is(err, core.ErrEmptyFeedback):
		return "피드백 내용을 입력해주세요.", http.StatusUnprocessableEntity
	case errors.Is(err, core.ErrEmptyPatch):
		return "변경할 내용이 없습니다.", http.StatusUnprocessableEntity
	case errors.Is(err, services.ErrFeedbackAuthor):
		return "피드백은 상대방만 남길 수 있습니다.", http.StatusForbidden
	case errors.Is(err, core.ErrNotFound):
		return "해당 회고를 찾을 수 없습니다.", http.StatusNotFound
	default:
		return "요청을 처리하지 못했습니다. 잠시 후 다시 시도해주세요.", http.StatusInternalServerError
	}
}

func (s *Server) renderError(w http.ResponseWriter, r *http.Request, status int) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	name := "error.html"
	if status == http.StatusNotFound {
		name = "notfound.html"
	}
	if err := s.templates.ExecuteTemplate(w, name, nil); err != nil {
		slog.ErrorContext(r.Context(), "Failed to render error page", "error", err, "status", status)
	}
}
