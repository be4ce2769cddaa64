package http

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"retro/internal/core"
	"retro/internal/dates"
	"retro/internal/share"
)

type detailView struct {
	Record      core.Retrospective
	MonthLabel  string
	ShareTitle  string
	Counterpart core.Author
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		s.writeFormError(w, r, "잘못된 요청입니다.", http.StatusBadRequest)
		return
	}

	rec, err := s.retros.Create(r.Context(), parseFormData(r.PostForm))
	if err != nil {
		msg, status := userMessage(err)
		if status >= 500 {
			slog.ErrorContext(r.Context(), "Failed to create retrospective", "error", err)
		}
		s.writeFormError(w, r, msg, status)
		return
	}

	s.invalidateList()
	s.countCreated()

	NewHTMXResponse().
		TriggerRecordCreated(rec.ID, rec.MonthIndex).
		TriggerFormReset().
		Notify(NotificationSuccess, fmt.Sprintf("D+%d 회고가 저장되었습니다.", rec.DayCount)).
		Redirect("/").
		Write(w)
}

func (s *Server) handleDetail(w http.ResponseWriter, r *http.Request) {
	rec, err := s.getRecord(w, r)
	if rec == nil || err != nil {
		return
	}

	view := detailView{
		Record:      *rec,
		MonthLabel:  dates.MonthLabel(rec.MonthIndex),
		ShareTitle:  share.Title(*rec),
		Counterpart: rec.Author.Counterpart(),
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.templates.ExecuteTemplate(w, "detail.html", view); err != nil {
		slog.ErrorContext(r.Context(), "Failed to render detail", "id", rec.ID, "error", err)
	}
}

func (s *Server) handleEdit(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := r.ParseForm(); err != nil {
		s.writeFormError(w, r, "잘못된 요청입니다.", http.StatusBadRequest)
		return
	}

	if _, err := s.retros.Update(r.Context(), id, parseEditPatch(r.PostForm)); err != nil {
		msg, status := userMessage(err)
		if status >= 500 {
			slog.ErrorContext(r.Context(), "Failed to update retrospective", "id", id, "error", err)
		}
		s.writeFormError(w, r, msg, status)
		return
	}

	s.invalidateList()

	NewHTMXResponse().
		TriggerRecordUpdated(id).
		Notify(NotificationSuccess, "회고가 수정되었습니다.").
		Redirect("/retros/" + id).
		Write(w)
}

func (s *Server) handleFeedback(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := r.ParseForm(); err != nil {
		s.writeFormError(w, r, "잘못된 요청입니다.", http.StatusBadRequest)
		return
	}

	from := core.Author(strings.TrimSpace(r.PostForm.Get("from")))
	text := sanitizeInput(r.PostForm.Get("feedback"))

	if _, err := s.retros.SubmitFeedback(r.Context(), id, from, text); err != nil {
		msg, status := userMessage(err)
		if status >= 500 {
			slog.ErrorContext(r.Context(), "Failed to submit feedback", "id", id, "error", err)
		}
		s.writeFormError(w, r, msg, status)
		return
	}

	s.invalidateList()

	NewHTMXResponse().
		TriggerRecordUpdated(id).
		Notify(NotificationSuccess, "피드백이 저장되었습니다.").
		Redirect("/retros/" + id).
		Write(w)
}

// handleDelete requires an explicit confirm field so a stray POST cannot
// destroy a record.
func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := r.ParseForm(); err != nil {
		s.writeFormError(w, r, "잘못된 요청입니다.", http.StatusBadRequest)
		return
	}

	if r.PostForm.Get("confirm") != "true" {
		s.writeFormError(w, r, "삭제하려면 확인이 필요합니다.", http.StatusBadRequest)
		return
	}

	if err := s.retros.Delete(r.Context(), id); err != nil {
		msg, status := userMessage(err)
		if status >= 500 {
			slog.ErrorContext(r.Context(), "Failed to delete retrospective", "id", id, "error", err)
		}
		s.writeFormError(w, r, msg, status)
		return
	}

	s.invalidateList()
	s.countDeleted()

	NewHTMXResponse().
		TriggerRecordDeleted(id).
		Notify(NotificationSuccess, "회고가 삭제되었습니다.").
		Redirect("/").
		Write(w)
}

// shareResponse is the JSON payload for the share endpoint: one intent URL
// per platform plus the clipboard text.
type shareResponse struct {
	Title     string            `json:"title"`
	Links     map[string]string `json:"links"`
	Clipboard string            `json:"clipboard"`
}

func (s *Server) handleShare(w http.ResponseWriter, r *http.Request) {
	rec, err := s.getRecord(w, r)
	if rec == nil || err != nil {
		return
	}

	recordURL := s.baseURL + "/retros/" + rec.ID

	// A specific platform query narrows the payload to that intent URL.
	if platform := r.URL.Query().Get("platform"); platform != "" {
		u, err := share.IntentURL(share.Platform(platform), *rec, recordURL)
		if err != nil {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusBadRequest)
			_ = json.NewEncoder(w).Encode(map[string]string{"error": "unknown platform"})
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{"platform": platform, "url": u})
		return
	}

	resp := shareResponse{
		Title:     share.Title(*rec),
		Links:     make(map[string]string, len(share.Platforms())),
		Clipboard: share.ClipboardText(*rec, recordURL),
	}
	for _, p := range share.Platforms() {
		u, err := share.IntentURL(p, *rec, recordURL)
		if err != nil {
			slog.ErrorContext(r.Context(), "Failed to build share URL", "id", rec.ID, "platform", string(p), "error", err)
			continue
		}
		resp.Links[string(p)] = u
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resp)
}

// getRecord resolves the path id, writing a 404 or 500 page itself. A nil
// record with nil error means the response has already been written.
func (s *Server) getRecord(w http.ResponseWriter, r *http.Request) (*core.Retrospective, error) {
	id := r.PathValue("id")
	rec, err := s.retros.Get(r.Context(), id)
	if err != nil {
		slog.ErrorContext(r.Context(), "Failed to load retrospective", "id", id, "error", err)
		s.renderError(w, r, http.StatusInternalServerError)
		return nil, err
	}
	if rec == nil {
		s.renderError(w, r, http.StatusNotFound)
		return nil, nil
	}
	return rec, nil
}

// writeFormError returns an inline error snippet for HTMX swaps, plus a
// notification trigger so non-form contexts surface it too.
func (s *Server) writeFormError(w http.ResponseWriter, _ *http.Request, msg string, status int) {
	NewHTMXResponse().
		Status(status).
		Notify(NotificationError, msg).
		Body(`<div class="error" role="alert">` + nl2br(msg) + `</div>`).
		Write(w)
}
