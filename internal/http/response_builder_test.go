package http

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestBuilderWritesTriggersAndStatus(t *testing.T) {
	rr := httptest.NewRecorder()

	NewHTMXResponse().
		Status(201).
		TriggerRecordCreated("r1", 2).
		Notify(NotificationSuccess, "저장됨").
		Body("<div>ok</div>").
		Write(rr)

	if rr.Code != 201 {
		t.Errorf("status = %d", rr.Code)
	}
	if rr.Body.String() != "<div>ok</div>" {
		t.Errorf("body = %q", rr.Body.String())
	}

	var triggers map[string]json.RawMessage
	if err := json.Unmarshal([]byte(rr.Header().Get("HX-Trigger")), &triggers); err != nil {
		t.Fatalf("HX-Trigger not valid JSON: %v", err)
	}
	if _, ok := triggers["retro:created"]; !ok {
		t.Error("missing retro:created trigger")
	}
	if _, ok := triggers["show-notification"]; !ok {
		t.Error("missing show-notification trigger")
	}
}

func TestBuilderRedirect(t *testing.T) {
	rr := httptest.NewRecorder()
	NewHTMXResponse().Redirect("/retros/r1").Write(rr)

	if got := rr.Header().Get("HX-Redirect"); got != "/retros/r1" {
		t.Errorf("HX-Redirect = %q", got)
	}
}

func TestBuilderNoTriggersNoHeader(t *testing.T) {
	rr := httptest.NewRecorder()
	NewHTMXResponse().Body("x").Write(rr)

	if h := rr.Header().Get("HX-Trigger"); h != "" {
		t.Errorf("unexpected HX-Trigger %q", h)
	}
	if !strings.Contains(rr.Body.String(), "x") {
		t.Error("body lost")
	}
}
