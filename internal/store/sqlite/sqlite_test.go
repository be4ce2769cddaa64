package sqlite

import (
	"context"
	"errors"
	"testing"
	"time"

	"retro/internal/core"
)

func newTestRepo(t *testing.T) *Repository {
	t.Helper()
	repo, err := NewMemory()
	if err != nil {
		t.Fatalf("NewMemory: %v", err)
	}
	t.Cleanup(func() { _ = repo.Close() })
	return repo
}

func testRecord(id string, date core.Date, createdAt time.Time) core.Retrospective {
	return core.Retrospective{
		ID:         id,
		Date:       date,
		MonthIndex: 1,
		DayCount:   1,
		Author:     core.AuthorChanghun,
		Summary:    "요약 " + id,
		Keep:       "keep",
		Problem:    "problem",
		Try:        "try",
		Memo:       "memo",
		CreatedAt:  createdAt,
	}
}

func TestInsertGetRoundTrip(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	rec := testRecord("r1", core.NewDate(2025, 6, 17), time.Now().UTC().Truncate(time.Second))
	if err := repo.Insert(ctx, rec); err != nil {
		t.Fatalf("Insert: %v", err)
	}

	got, err := repo.Get(ctx, "r1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got == nil {
		t.Fatal("Get returned nil for existing id")
	}
	if got.Summary != rec.Summary || got.Memo != rec.Memo || got.Author != rec.Author {
		t.Errorf("round trip mismatch: %+v", got)
	}
	if got.Date.String() != "2025-06-17" || got.MonthIndex != 1 || got.DayCount != 1 {
		t.Errorf("derived fields mismatch: %+v", got)
	}

	absent, err := repo.Get(ctx, "missing")
	if err != nil || absent != nil {
		t.Errorf("absent id: got (%v, %v), want (nil, nil)", absent, err)
	}
}

func TestListOrder(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	base := time.Date(2025, 6, 17, 9, 0, 0, 0, time.UTC)

	for _, rec := range []core.Retrospective{
		testRecord("oldest", core.NewDate(2025, 6, 17), base),
		testRecord("mid", core.NewDate(2025, 6, 18), base),
		testRecord("newest", core.NewDate(2025, 6, 18), base.Add(time.Hour)),
	} {
		if err := repo.Insert(ctx, rec); err != nil {
			t.Fatalf("Insert %s: %v", rec.ID, err)
		}
	}

	records, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	wantOrder := []string{"newest", "mid", "oldest"}
	if len(records) != len(wantOrder) {
		t.Fatalf("got %d records", len(records))
	}
	for i, want := range wantOrder {
		if records[i].ID != want {
			t.Fatalf("position %d: got %s, want %s", i, records[i].ID, want)
		}
	}
}

func TestUpdate(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	rec := testRecord("r1", core.NewDate(2025, 6, 17), time.Now().UTC())
	if err := repo.Insert(ctx, rec); err != nil {
		t.Fatalf("Insert: %v", err)
	}

	updated, err := repo.Update(ctx, "r1", core.Patch{
		Summary:  core.String("고친 요약"),
		Feedback: core.String("잘했어요"),
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.Summary != "고친 요약" || updated.Feedback != "잘했어요" {
		t.Errorf("patched fields: %+v", updated)
	}
	if updated.Keep != rec.Keep || updated.MonthIndex != rec.MonthIndex {
		t.Errorf("untouched fields changed: %+v", updated)
	}

	if _, err := repo.Update(ctx, "missing", core.Patch{Summary: core.String("x")}); !errors.Is(err, core.ErrNotFound) {
		t.Errorf("missing id: got %v, want ErrNotFound", err)
	}
}

func TestDelete(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	if err := repo.Insert(ctx, testRecord("r1", core.NewDate(2025, 6, 17), time.Now().UTC())); err != nil {
		t.Fatalf("Insert: %v", err)
	}

	if err := repo.Delete(ctx, "r1"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if got, _ := repo.Get(ctx, "r1"); got != nil {
		t.Error("record still present after delete")
	}
	if err := repo.Delete(ctx, "r1"); !errors.Is(err, core.ErrNotFound) {
		t.Errorf("second delete: got %v, want ErrNotFound", err)
	}
}
