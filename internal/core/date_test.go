package core

import (
	"encoding/json"
	"testing"
	"time"
)

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2025-06-17")
	if err != nil {
		t.Fatalf("ParseDate: %v", err)
	}
	if d.Year() != 2025 || d.Month() != 6 || d.Day() != 17 {
		t.Errorf("parsed %v", d)
	}
	if d.String() != "2025-06-17" {
		t.Errorf("String() = %s", d)
	}

	if _, err := ParseDate("17/06/2025"); err == nil {
		t.Error("expected error for non-ISO input")
	}
}

func TestDateNextCrossesMonth(t *testing.T) {
	d := NewDate(2025, 6, 30).Next()
	if d.String() != "2025-07-01" {
		t.Errorf("Next() = %s, want 2025-07-01", d)
	}
}

func TestDateOfTruncates(t *testing.T) {
	ts := time.Date(2025, 6, 17, 23, 59, 59, 0, time.UTC)
	if got := DateOf(ts); got.String() != "2025-06-17" {
		t.Errorf("DateOf = %s", got)
	}
}

func TestDateJSONRoundTrip(t *testing.T) {
	data, err := json.Marshal(NewDate(2025, 7, 1))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(data) != `"2025-07-01"` {
		t.Errorf("marshaled as %s", data)
	}

	var d Date
	if err := json.Unmarshal(data, &d); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if d.String() != "2025-07-01" {
		t.Errorf("round trip gave %s", d)
	}
}
