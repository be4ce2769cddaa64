package core

import (
	"testing"
	"time"
)

func rec(id string, date Date, monthIndex int, createdAt time.Time) Retrospective {
	return Retrospective{
		ID:         id,
		Date:       date,
		MonthIndex: monthIndex,
		DayCount:   1,
		Author:     AuthorHeejung,
		Summary:    "s",
		Keep:       "k",
		Problem:    "p",
		Try:        "t",
		CreatedAt:  createdAt,
	}
}

func TestSortNewestFirst(t *testing.T) {
	base := time.Date(2025, 6, 17, 9, 0, 0, 0, time.UTC)
	records := []Retrospective{
		rec("old", NewDate(2025, 6, 17), 1, base),
		rec("same-day-late", NewDate(2025, 6, 18), 1, base.Add(2*time.Hour)),
		rec("same-day-early", NewDate(2025, 6, 18), 1, base.Add(time.Hour)),
		rec("newest", NewDate(2025, 7, 20), 2, base),
	}

	SortNewestFirst(records)

	wantOrder := []string{"newest", "same-day-late", "same-day-early", "old"}
	for i, want := range wantOrder {
		if records[i].ID != want {
			t.Fatalf("position %d: got %s, want %s", i, records[i].ID, want)
		}
	}
}

func TestGroupByMonth(t *testing.T) {
	base := time.Date(2025, 6, 17, 9, 0, 0, 0, time.UTC)
	records := []Retrospective{
		rec("a", NewDate(2025, 6, 17), 1, base),
		rec("b", NewDate(2025, 6, 18), 1, base),
		rec("c", NewDate(2025, 7, 20), 2, base),
	}

	groups := GroupByMonth(records)

	if len(groups) != 2 {
		t.Fatalf("got %d groups, want 2", len(groups))
	}
	if len(groups[1]) != 2 || len(groups[2]) != 1 {
		t.Errorf("group sizes: month 1 = %d, month 2 = %d", len(groups[1]), len(groups[2]))
	}
	if groups[1][0].ID != "b" {
		t.Errorf("month 1 not sorted newest first: %s", groups[1][0].ID)
	}

	keys := MonthKeys(groups)
	if len(keys) != 2 || keys[0] != 2 || keys[1] != 1 {
		t.Errorf("MonthKeys = %v, want [2 1]", keys)
	}
}
