package share

import (
	"strings"
	"testing"

	"retro/internal/core"
)

func sampleRecord() core.Retrospective {
	return core.Retrospective{
		ID:       "r1",
		Date:     core.NewDate(2025, 6, 23),
		DayCount: 5,
		Author:   core.AuthorHeejung,
		Summary:  "첫 주 마무리",
	}
}

func TestTitle(t *testing.T) {
	if got := Title(sampleRecord()); got != "[D+5 회고] - 2025-06-23" {
		t.Errorf("Title = %q", got)
	}
}

func TestIntentURL(t *testing.T) {
	rec := sampleRecord()
	recordURL := "https://retro.example.com/retros/r1"

	tests := []struct {
		platform Platform
		contains []string
	}{
		{Facebook, []string{"facebook.com/sharer", "u=https%3A%2F%2Fretro.example.com"}},
		{Twitter, []string{"twitter.com/intent/tweet", "text=%5BD%2B5"}},
		{LinkedIn, []string{"linkedin.com/sharing", "url=https%3A%2F%2F"}},
	}
	for _, tc := range tests {
		u, err := IntentURL(tc.platform, rec, recordURL)
		if err != nil {
			t.Fatalf("IntentURL(%s): %v", tc.platform, err)
		}
		for _, want := range tc.contains {
			if !strings.Contains(u, want) {
				t.Errorf("%s URL %q missing %q", tc.platform, u, want)
			}
		}
	}

	if _, err := IntentURL("myspace", rec, recordURL); err == nil {
		t.Error("expected error for unknown platform")
	}
}

func TestClipboardText(t *testing.T) {
	text := ClipboardText(sampleRecord(), "https://retro.example.com/retros/r1")

	for _, want := range []string{"[D+5 회고]", "최희정", "김창훈", "첫 주 마무리", "retros/r1"} {
		if !strings.Contains(text, want) {
			t.Errorf("clipboard text missing %q:\n%s", want, text)
		}
	}
}
