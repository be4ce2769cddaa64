package http

import (
	"net/url"
	"strings"

	"retro/internal/core"
)

// sanitizeInput strips control characters that have no business in form
// text, keeping newlines and tabs.
func sanitizeInput(s string) string {
	s = strings.TrimSpace(s)
	return strings.Map(func(r rune) rune {
		if r == '\n' || r == '\r' || r == '\t' {
			return r
		}
		if r < 0x20 || r == 0x7f {
			return -1
		}
		return r
	}, s)
}

// parseFormData extracts the creation form fields.
func parseFormData(form url.Values) core.FormData {
	return core.FormData{
		Author:  core.Author(strings.TrimSpace(form.Get("author"))),
		Summary: sanitizeInput(form.Get("summary")),
		Keep:    sanitizeInput(form.Get("keep")),
		Problem: sanitizeInput(form.Get("problem")),
		Try:     sanitizeInput(form.Get("try")),
		Memo:    sanitizeInput(form.Get("memo")),
	}
}

// parseEditPatch builds a patch from the edit form. Every editable field is
// present on the edit form, so all of them are set; feedback is not
// editable here.
func parseEditPatch(form url.Values) core.Patch {
	return core.Patch{
		Summary: core.String(sanitizeInput(form.Get("summary"))),
		Keep:    core.String(sanitizeInput(form.Get("keep"))),
		Problem: core.String(sanitizeInput(form.Get("problem"))),
		Try:     core.String(sanitizeInput(form.Get("try"))),
		Memo:    core.String(sanitizeInput(form.Get("memo"))),
	}
}

// nl2br escapes s for HTML and converts newlines to <br> tags.
func nl2br(s string) string {
	escaped := strings.NewReplacer(
		"&", "&amp;",
		"<", "&lt;",
		">", "&gt;",
		`"`, "&#34;",
		"'", "&#39;",
	).Replace(s)
	return strings.ReplaceAll(strings.ReplaceAll(escaped, "\r\n", "<br>"), "\n", "<br>")
}
