package core

import (
	"errors"
	"strings"
	"time"
)

const (
	// The two project members. Retrospectives are authored by one and
	// reviewed (feedback) by the other.
	AuthorHeejung  Author = "최희정"
	AuthorChanghun Author = "김창훈"
)

type (
	Author string

	// Retrospective is one retrospective entry. ID, Date, MonthIndex,
	// DayCount and CreatedAt are stamped at creation and never change
	// afterwards, even if the date logic changes later (no backfill).
	Retrospective struct {
		ID         string
		Date       Date
		MonthIndex int
		DayCount   int
		Author     Author
		Summary    string
		Keep       string
		Problem    string
		Try        string
		Memo       string
		Feedback   string
		CreatedAt  time.Time
	}

	// FormData carries the user-supplied fields of a new retrospective.
	FormData struct {
		Author  Author
		Summary string
		Keep    string
		Problem string
		Try     string
		Memo    string
	}

	// Patch is a partial update: only non-nil fields are merged into the
	// stored record. Identity and derived fields (id, date, month index,
	// day count, created_at) are not patchable by construction.
	Patch struct {
		Summary  *string
		Keep     *string
		Problem  *string
		Try      *string
		Memo     *string
		Feedback *string
	}
)

var (
	ErrInvalidAuthor = errors.New("unknown author")
	ErrEmptySummary  = errors.New("empty summary")
	ErrEmptyKeep     = errors.New("empty keep")
	ErrEmptyProblem  = errors.New("empty problem")
	ErrEmptyTry      = errors.New("empty try")
	ErrEmptyPatch    = errors.New("empty patch")
	ErrEmptyFeedback = errors.New("empty feedback")

	// ErrNotFound is returned by stores when an id does not exist.
	ErrNotFound = errors.New("retrospective not found")
)

// Authors returns the closed set of legal author values.
func Authors() []Author {
	return []Author{AuthorHeejung, AuthorChanghun}
}

// Counterpart returns the other member of the pair.
func (a Author) Counterpart() Author {
	if a == AuthorHeejung {
		return AuthorChanghun
	}
	return AuthorHeejung
}

func (a Author) Validate() error {
	switch a {
	case AuthorHeejung, AuthorChanghun:
		return nil
	default:
		return ErrInvalidAuthor
	}
}

func (f FormData) Validate() error {
	if err := f.Author.Validate(); err != nil {
		return err
	}
	if strings.TrimSpace(f.Summary) == "" {
		return ErrEmptySummary
	}
	if strings.TrimSpace(f.Keep) == "" {
		return ErrEmptyKeep
	}
	if strings.TrimSpace(f.Problem) == "" {
		return ErrEmptyProblem
	}
	if strings.TrimSpace(f.Try) == "" {
		return ErrEmptyTry
	}
	// Memo is optional.
	return nil
}

// IsEmpty reports whether the patch carries no fields at all.
func (p Patch) IsEmpty() bool {
	return p.Summary == nil && p.Keep == nil && p.Problem == nil &&
		p.Try == nil && p.Memo == nil && p.Feedback == nil
}

// Validate rejects patches that would blank out a required field.
func (p Patch) Validate() error {
	if p.IsEmpty() {
		return ErrEmptyPatch
	}
	checks := []struct {
		val *string
		err error
	}{
		{p.Summary, ErrEmptySummary},
		{p.Keep, ErrEmptyKeep},
		{p.Problem, ErrEmptyProblem},
		{p.Try, ErrEmptyTry},
	}
	for _, c := range checks {
		if c.val != nil && strings.TrimSpace(*c.val) == "" {
			return c.err
		}
	}
	return nil
}

// Apply merges the patch into a copy of r and returns it. Fields not set in
// the patch are untouched.
func (p Patch) Apply(r Retrospective) Retrospective {
	if p.Summary != nil {
		r.Summary = *p.Summary
	}
	if p.Keep != nil {
		r.Keep = *p.Keep
	}
	if p.Problem != nil {
		r.Problem = *p.Problem
	}
	if p.Try != nil {
		r.Try = *p.Try
	}
	if p.Memo != nil {
		r.Memo = *p.Memo
	}
	if p.Feedback != nil {
		r.Feedback = *p.Feedback
	}
	return r
}

// String is a convenience for building patches from handler form values.
func String(s string) *string { return &s }
