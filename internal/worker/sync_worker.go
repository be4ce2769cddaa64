// Package worker reconciles the authoritative store with the spreadsheet
// mirror: it handles per-mutation messages from the queue and runs a
// periodic sweep to catch anything the queue missed.
package worker

import (
	"context"
	"fmt"
	"log/slog"

	"retro/internal/amqp"
	"retro/internal/core"
	applog "retro/internal/log"
	"retro/internal/store"
)

// Mirror is the outbound surface the worker writes to.
type Mirror interface {
	EnsureHeader(ctx context.Context) error
	Upsert(ctx context.Context, rec core.Retrospective) error
	Remove(ctx context.Context, id string) error
	ListIDs(ctx context.Context) ([]string, error)
}

type SyncWorker struct {
	store  store.Store
	mirror Mirror
}

func NewSyncWorker(s store.Store, m Mirror) *SyncWorker {
	return &SyncWorker{store: s, mirror: m}
}

// HandleSyncMessage processes one mutation message. The current record
// state is always re-read from the store, so out-of-order deliveries
// converge on the latest committed state.
func (w *SyncWorker) HandleSyncMessage(ctx context.Context, msg *amqp.RecordSyncMessage) error {
	switch msg.Kind {
	case amqp.KindDelete:
		if err := w.mirror.Remove(ctx, msg.ID); err != nil {
			return fmt.Errorf("remove mirrored record: %w", err)
		}
		return nil
	case amqp.KindUpsert:
		rec, err := w.store.Get(ctx, msg.ID)
		if err != nil {
			return fmt.Errorf("get record from store: %w", err)
		}
		if rec == nil {
			// Deleted between publish and consume; drop the row instead.
			return w.mirror.Remove(ctx, msg.ID)
		}
		if err := w.mirror.Upsert(ctx, *rec); err != nil {
			return fmt.Errorf("mirror record: %w", err)
		}
		return nil
	default:
		slog.WarnContext(ctx, "Unknown sync message kind", "kind", msg.Kind, applog.FieldRecordID, msg.ID)
		return nil
	}
}

// Sweep reconciles the full record set: every stored record is re-mirrored
// and rows for ids no longer in the store are removed.
func (w *SyncWorker) Sweep(ctx context.Context) error {
	if err := w.mirror.EnsureHeader(ctx); err != nil {
		return fmt.Errorf("ensure header: %w", err)
	}

	records, err := w.store.List(ctx)
	if err != nil {
		return fmt.Errorf("list records: %w", err)
	}

	known := make(map[string]bool, len(records))
	for _, rec := range records {
		known[rec.ID] = true
		if err := w.mirror.Upsert(ctx, rec); err != nil {
			slog.ErrorContext(ctx, "Sweep upsert failed", applog.FieldRecordID, rec.ID, applog.FieldError, err)
		}
	}

	mirrored, err := w.mirror.ListIDs(ctx)
	if err != nil {
		return fmt.Errorf("list mirrored ids: %w", err)
	}
	for _, id := range mirrored {
		if known[id] {
			continue
		}
		if err := w.mirror.Remove(ctx, id); err != nil {
			slog.ErrorContext(ctx, "Sweep remove failed", applog.FieldRecordID, id, applog.FieldError, err)
		}
	}

	slog.InfoContext(ctx, "Mirror sweep completed",
		applog.FieldOperation, applog.OpSweep,
		"records", len(records), "mirrored", len(mirrored))
	return nil
}
