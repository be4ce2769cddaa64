package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"retro/internal/core"
	"retro/internal/dates"
	"retro/internal/services"
	"retro/internal/store/memory"
)

func newTestServer(t *testing.T) (*Server, *services.RetroService) {
	t.Helper()
	clock := dates.Fixed(time.Date(2025, 6, 23, 10, 0, 0, 0, time.UTC))
	retros := services.New(memory.New(), clock, nil)
	srv := NewServer(":0", retros, "http://localhost:8081")
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	})
	return srv, retros
}

func createRecord(t *testing.T, retros *services.RetroService) *core.Retrospective {
	t.Helper()
	rec, err := retros.Create(context.Background(), core.FormData{
		Author:  core.AuthorHeejung,
		Summary: "첫 회고",
		Keep:    "k",
		Problem: "p",
		Try:     "t",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	return rec
}

func postForm(srv *Server, path string, form url.Values) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	srv.Handler.ServeHTTP(rr, req)
	return rr
}

func TestIndexAndHealth(t *testing.T) {
	srv, retros := newTestServer(t)
	createRecord(t, retros)

	rr := httptest.NewRecorder()
	srv.Handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("index status = %d", rr.Code)
	}
	body := rr.Body.String()
	if !strings.Contains(body, "D+5 회고") {
		t.Error("index missing day count heading")
	}
	if !strings.Contains(body, "첫 회고") {
		t.Error("index missing record summary")
	}
	if !strings.Contains(body, "6월") {
		t.Error("index missing month label")
	}

	for _, path := range []string{"/healthz", "/readyz"} {
		rr := httptest.NewRecorder()
		srv.Handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, path, nil))
		if rr.Code != http.StatusOK {
			t.Fatalf("%s status = %d", path, rr.Code)
		}
	}
}

func TestCreateValidationAndSuccess(t *testing.T) {
	srv, retros := newTestServer(t)

	// Missing required fields gets an inline error.
	rr := postForm(srv, "/retros", url.Values{"author": {string(core.AuthorHeejung)}})
	if rr.Code != http.StatusUnprocessableEntity {
		t.Fatalf("invalid form status = %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), `class="error"`) {
		t.Error("no inline error snippet")
	}

	rr = postForm(srv, "/retros", url.Values{
		"author":  {string(core.AuthorChanghun)},
		"summary": {"오늘의 요약"},
		"keep":    {"k"},
		"problem": {"p"},
		"try":     {"t"},
		"memo":    {"m"},
	})
	if rr.Code != http.StatusOK {
		t.Fatalf("create status = %d, body %s", rr.Code, rr.Body.String())
	}
	if trigger := rr.Header().Get("HX-Trigger"); !strings.Contains(trigger, "retro:created") {
		t.Errorf("HX-Trigger = %q", trigger)
	}

	records, _ := retros.List(context.Background())
	if len(records) != 1 || records[0].Summary != "오늘의 요약" {
		t.Errorf("stored records %+v", records)
	}
}

func TestDetailAndNotFound(t *testing.T) {
	srv, retros := newTestServer(t)
	rec := createRecord(t, retros)

	rr := httptest.NewRecorder()
	srv.Handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/retros/"+rec.ID, nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("detail status = %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), rec.Summary) {
		t.Error("detail missing summary")
	}

	rr = httptest.NewRecorder()
	srv.Handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/retros/missing", nil))
	if rr.Code != http.StatusNotFound {
		t.Errorf("missing record status = %d", rr.Code)
	}
}

func TestFeedbackPolicyOverHTTP(t *testing.T) {
	srv, retros := newTestServer(t)
	rec := createRecord(t, retros) // authored by 최희정

	// Author reviewing their own entry is rejected.
	rr := postForm(srv, "/retros/"+rec.ID+"/feedback", url.Values{
		"from":     {string(core.AuthorHeejung)},
		"feedback": {"혼잣말"},
	})
	if rr.Code != http.StatusForbidden {
		t.Fatalf("self feedback status = %d", rr.Code)
	}

	rr = postForm(srv, "/retros/"+rec.ID+"/feedback", url.Values{
		"from":     {string(core.AuthorChanghun)},
		"feedback": {"좋아요"},
	})
	if rr.Code != http.StatusOK {
		t.Fatalf("feedback status = %d, body %s", rr.Code, rr.Body.String())
	}

	got, _ := retros.Get(context.Background(), rec.ID)
	if got.Feedback != "좋아요" {
		t.Errorf("feedback = %q", got.Feedback)
	}
}

func TestDeleteRequiresConfirmation(t *testing.T) {
	srv, retros := newTestServer(t)
	rec := createRecord(t, retros)

	rr := postForm(srv, "/retros/"+rec.ID+"/delete", url.Values{})
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("unconfirmed delete status = %d", rr.Code)
	}
	if got, _ := retros.Get(context.Background(), rec.ID); got == nil {
		t.Fatal("record deleted without confirmation")
	}

	rr = postForm(srv, "/retros/"+rec.ID+"/delete", url.Values{"confirm": {"true"}})
	if rr.Code != http.StatusOK {
		t.Fatalf("confirmed delete status = %d", rr.Code)
	}
	if got, _ := retros.Get(context.Background(), rec.ID); got != nil {
		t.Error("record still present")
	}
}

func TestShareEndpoint(t *testing.T) {
	srv, retros := newTestServer(t)
	rec := createRecord(t, retros)

	rr := httptest.NewRecorder()
	srv.Handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/retros/"+rec.ID+"/share", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("share status = %d", rr.Code)
	}

	var resp shareResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode share response: %v", err)
	}
	if !strings.HasPrefix(resp.Title, "[D+5 회고]") {
		t.Errorf("title = %q", resp.Title)
	}
	for _, platform := range []string{"facebook", "twitter", "linkedin"} {
		if resp.Links[platform] == "" {
			t.Errorf("missing %s link", platform)
		}
	}
	if !strings.Contains(resp.Clipboard, "http://localhost:8081/retros/"+rec.ID) {
		t.Errorf("clipboard missing record URL: %s", resp.Clipboard)
	}

	// Narrowed to one platform via the query parameter.
	rr = httptest.NewRecorder()
	srv.Handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/retros/"+rec.ID+"/share?platform=twitter", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("platform share status = %d", rr.Code)
	}
	var single map[string]string
	if err := json.Unmarshal(rr.Body.Bytes(), &single); err != nil {
		t.Fatalf("decode platform response: %v", err)
	}
	if !strings.Contains(single["url"], "twitter.com") {
		t.Errorf("twitter url = %q", single["url"])
	}

	rr = httptest.NewRecorder()
	srv.Handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/retros/"+rec.ID+"/share?platform=myspace", nil))
	if rr.Code != http.StatusBadRequest {
		t.Errorf("unknown platform status = %d", rr.Code)
	}
}

func TestListCacheInvalidatedOnMutation(t *testing.T) {
	srv, _ := newTestServer(t)

	// Warm the cache with an empty list.
	rr := httptest.NewRecorder()
	srv.Handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

	postForm(srv, "/retros", url.Values{
		"author":  {string(core.AuthorHeejung)},
		"summary": {"캐시 테스트"},
		"keep":    {"k"},
		"problem": {"p"},
		"try":     {"t"},
	})

	rr = httptest.NewRecorder()
	srv.Handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
	if !strings.Contains(rr.Body.String(), "캐시 테스트") {
		t.Error("index served stale list after create")
	}
}
