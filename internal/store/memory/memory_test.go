package memory

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"retro/internal/core"
)

func testRecord(id string, date core.Date, createdAt time.Time) core.Retrospective {
	return core.Retrospective{
		ID:         id,
		Date:       date,
		MonthIndex: 1,
		DayCount:   1,
		Author:     core.AuthorHeejung,
		Summary:    "요약 " + id,
		Keep:       "keep",
		Problem:    "problem",
		Try:        "try",
		CreatedAt:  createdAt,
	}
}

func TestInsertGetRoundTrip(t *testing.T) {
	s := New()
	ctx := context.Background()

	rec := testRecord("r1", core.NewDate(2025, 6, 17), time.Now())
	if err := s.Insert(ctx, rec); err != nil {
		t.Fatalf("Insert: %v", err)
	}

	got, err := s.Get(ctx, "r1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got == nil || got.Summary != rec.Summary || got.Author != rec.Author {
		t.Errorf("Get returned %+v", got)
	}

	absent, err := s.Get(ctx, "missing")
	if err != nil || absent != nil {
		t.Errorf("absent id: got (%v, %v), want (nil, nil)", absent, err)
	}
}

func TestInsertDuplicateID(t *testing.T) {
	s := New()
	ctx := context.Background()
	rec := testRecord("r1", core.NewDate(2025, 6, 17), time.Now())

	if err := s.Insert(ctx, rec); err != nil {
		t.Fatalf("first Insert: %v", err)
	}
	if err := s.Insert(ctx, rec); err == nil {
		t.Error("duplicate Insert succeeded")
	}
}

func TestListOrder(t *testing.T) {
	s := New()
	ctx := context.Background()
	base := time.Date(2025, 6, 17, 9, 0, 0, 0, time.UTC)

	_ = s.Insert(ctx, testRecord("oldest", core.NewDate(2025, 6, 17), base))
	_ = s.Insert(ctx, testRecord("mid", core.NewDate(2025, 6, 18), base))
	_ = s.Insert(ctx, testRecord("newest", core.NewDate(2025, 6, 18), base.Add(time.Hour)))

	records, err := s.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	wantOrder := []string{"newest", "mid", "oldest"}
	for i, want := range wantOrder {
		if records[i].ID != want {
			t.Fatalf("position %d: got %s, want %s", i, records[i].ID, want)
		}
	}
}

func TestUpdateMergesPatchOnly(t *testing.T) {
	s := New()
	ctx := context.Background()
	rec := testRecord("r1", core.NewDate(2025, 6, 17), time.Now())
	_ = s.Insert(ctx, rec)

	updated, err := s.Update(ctx, "r1", core.Patch{Summary: core.String("새 요약")})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.Summary != "새 요약" {
		t.Errorf("summary not updated: %s", updated.Summary)
	}
	if updated.Keep != rec.Keep || updated.MonthIndex != rec.MonthIndex ||
		updated.DayCount != rec.DayCount || !updated.Date.Equal(rec.Date.Time) {
		t.Errorf("untouched fields changed: %+v", updated)
	}

	if _, err := s.Update(ctx, "missing", core.Patch{Summary: core.String("x")}); !errors.Is(err, core.ErrNotFound) {
		t.Errorf("missing id: got %v, want ErrNotFound", err)
	}
}

func TestDelete(t *testing.T) {
	s := New()
	ctx := context.Background()
	_ = s.Insert(ctx, testRecord("r1", core.NewDate(2025, 6, 17), time.Now()))

	if err := s.Delete(ctx, "r1"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if got, _ := s.Get(ctx, "r1"); got != nil {
		t.Error("record still present after delete")
	}
	if err := s.Delete(ctx, "r1"); !errors.Is(err, core.ErrNotFound) {
		t.Errorf("second delete: got %v, want ErrNotFound", err)
	}
}

func TestFilePersistence(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	s, err := NewFromDir(dir)
	if err != nil {
		t.Fatalf("NewFromDir: %v", err)
	}
	rec := testRecord("r1", core.NewDate(2025, 6, 17), time.Now().UTC().Truncate(time.Second))
	if err := s.Insert(ctx, rec); err != nil {
		t.Fatalf("Insert: %v", err)
	}

	if _, err := os.Stat(filepath.Join(dir, StorageKey+".json")); err != nil {
		t.Fatalf("blob not written: %v", err)
	}

	// A fresh store over the same directory sees the record.
	reopened, err := NewFromDir(dir)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	got, err := reopened.Get(ctx, "r1")
	if err != nil || got == nil {
		t.Fatalf("Get after reopen: (%v, %v)", got, err)
	}
	if got.Summary != rec.Summary || got.Date.String() != "2025-06-17" {
		t.Errorf("reloaded record %+v", got)
	}
}
