// Package services orchestrates the retrospective lifecycle between the
// date engine, the persistence backend and the mirror queue.
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"retro/internal/amqp"
	"retro/internal/core"
	"retro/internal/dates"
	applog "retro/internal/log"
	"retro/internal/store"
)

// ErrFeedbackAuthor is returned when feedback is submitted by anyone other
// than the counterpart of the record's author.
var ErrFeedbackAuthor = errors.New("feedback must come from the counterpart")

// RetroService stamps, validates and persists retrospectives, and fans out
// mirror messages after each mutation when a broker is configured.
type RetroService struct {
	store store.Store
	clock dates.Clock
	queue *amqp.Client // optional
}

func New(s store.Store, clock dates.Clock, queue *amqp.Client) *RetroService {
	if clock == nil {
		clock = dates.SystemClock{}
	}
	return &RetroService{store: s, clock: clock, queue: queue}
}

// Create validates the form, stamps today's date and the derived month
// index and day count, assigns a fresh id, and persists the record
// atomically. The stored record is returned in full.
func (s *RetroService) Create(ctx context.Context, form core.FormData) (*core.Retrospective, error) {
	if err := form.Validate(); err != nil {
		return nil, err
	}

	today := s.clock.Today()
	rec := core.Retrospective{
		ID:         uuid.NewString(),
		Date:       today,
		MonthIndex: dates.MonthIndex(today),
		DayCount:   dates.DayCount(today),
		Author:     form.Author,
		Summary:    form.Summary,
		Keep:       form.Keep,
		Problem:    form.Problem,
		Try:        form.Try,
		Memo:       form.Memo,
		CreatedAt:  s.clock.Now(),
	}

	if err := s.store.Insert(ctx, rec); err != nil {
		return nil, fmt.Errorf("create retrospective: %w", err)
	}

	slog.InfoContext(ctx, "Retrospective created",
		applog.FieldRecordID, rec.ID,
		"date", rec.Date.String(),
		applog.FieldMonthIndex, rec.MonthIndex,
		applog.FieldDayCount, rec.DayCount,
		applog.FieldAuthor, string(rec.Author))

	s.publish(ctx, amqp.NewUpsertMessage(rec.ID))
	return &rec, nil
}

// Update merges the supplied fields into the existing record. Derived
// fields are never touched by construction of core.Patch.
func (s *RetroService) Update(ctx context.Context, id string, patch core.Patch) (*core.Retrospective, error) {
	if err := patch.Validate(); err != nil {
		return nil, err
	}

	rec, err := s.store.Update(ctx, id, patch)
	if err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "Retrospective updated", applog.FieldRecordID, id)
	s.publish(ctx, amqp.NewUpsertMessage(id))
	return rec, nil
}

// SubmitFeedback sets the feedback field. Only the counterpart of the
// record's author may review an entry, so the submitting identity is
// checked against the stored record first.
func (s *RetroService) SubmitFeedback(ctx context.Context, id string, from core.Author, text string) (*core.Retrospective, error) {
	if err := from.Validate(); err != nil {
		return nil, err
	}
	if text == "" {
		return nil, core.ErrEmptyFeedback
	}

	existing, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, core.ErrNotFound
	}
	if from != existing.Author.Counterpart() {
		return nil, ErrFeedbackAuthor
	}

	rec, err := s.store.Update(ctx, id, core.Patch{Feedback: core.String(text)})
	if err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "Feedback submitted",
		applog.FieldRecordID, id,
		applog.FieldAuthor, string(from),
		applog.FieldOperation, applog.OpFeedback)
	s.publish(ctx, amqp.NewUpsertMessage(id))
	return rec, nil
}

// Delete removes the record. A missing id surfaces core.ErrNotFound; the
// user-facing confirmation gate lives at the HTTP boundary.
func (s *RetroService) Delete(ctx context.Context, id string) error {
	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}

	slog.InfoContext(ctx, "Retrospective deleted", applog.FieldRecordID, id)
	s.publish(ctx, amqp.NewDeleteMessage(id))
	return nil
}

// List returns all records, newest first.
func (s *RetroService) List(ctx context.Context) ([]core.Retrospective, error) {
	return s.store.List(ctx)
}

// Get returns the record or (nil, nil) when absent.
func (s *RetroService) Get(ctx context.Context, id string) (*core.Retrospective, error) {
	return s.store.Get(ctx, id)
}

// Today exposes the injected clock's current date for display.
func (s *RetroService) Today() core.Date {
	return s.clock.Today()
}

// publish sends a mirror message. Publishing never fails the user
// operation; the worker's periodic sweep reconciles anything missed.
func (s *RetroService) publish(ctx context.Context, msg *amqp.RecordSyncMessage) {
	if s.queue == nil {
		return
	}
	if err := s.queue.PublishRecordSync(ctx, msg); err != nil {
		slog.ErrorContext(ctx, "Failed to publish sync message",
			applog.FieldRecordID, msg.ID, "kind", msg.Kind, applog.FieldError, err)
	}
}
