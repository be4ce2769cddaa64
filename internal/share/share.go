// Package share builds outbound sharing payloads for a retrospective:
// platform-specific intent URLs and clipboard text. It is pure string
// construction; performing the navigation or the clipboard write is the
// client's job, so the core never touches a browser API.
package share

import (
	"fmt"
	"net/url"

	"retro/internal/core"
)

type Platform string

const (
	Facebook Platform = "facebook"
	Twitter  Platform = "twitter"
	LinkedIn Platform = "linkedin"
)

// ErrUnknownPlatform is returned for platforms outside the supported set.
var ErrUnknownPlatform = fmt.Errorf("unknown share platform")

// Platforms returns the supported share targets.
func Platforms() []Platform {
	return []Platform{Facebook, Twitter, LinkedIn}
}

// Title renders the canonical share title of a record.
func Title(rec core.Retrospective) string {
	return fmt.Sprintf("[D+%d 회고] - %s", rec.DayCount, rec.Date.String())
}

// IntentURL builds the share-intent URL for the given platform, pointing at
// recordURL with the record title as the quoted text.
func IntentURL(p Platform, rec core.Retrospective, recordURL string) (string, error) {
	title := Title(rec)
	switch p {
	case Facebook:
		return fmt.Sprintf("https://www.facebook.com/sharer/sharer.php?u=%s&quote=%s",
			url.QueryEscape(recordURL), url.QueryEscape(title)), nil
	case Twitter:
		return fmt.Sprintf("https://twitter.com/intent/tweet?text=%s&url=%s",
			url.QueryEscape(title), url.QueryEscape(recordURL)), nil
	case LinkedIn:
		return fmt.Sprintf("https://www.linkedin.com/sharing/share-offsite/?url=%s",
			url.QueryEscape(recordURL)), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownPlatform, p)
	}
}

// ClipboardText renders the plain-text payload for a copy action: title,
// author line and summary, followed by the link.
func ClipboardText(rec core.Retrospective, recordURL string) string {
	return fmt.Sprintf("%s\nby %s with %s\n\n%s\n\n%s",
		Title(rec), rec.Author, rec.Author.Counterpart(), rec.Summary, recordURL)
}
