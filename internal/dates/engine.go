// Package dates derives day counts and month buckets from the fixed project
// start date. All functions are pure; the only clock access goes through the
// Clock interface so callers can pin "today" in tests.
package dates

import (
	"time"

	"retro/internal/core"
)

// Project start date: 2025-06-17, a Tuesday. Every day count and month
// index in the system is anchored to it.
var Epoch = core.NewDate(2025, 6, 17)

// DayCount counts business days (Monday through Friday) from the epoch
// through d, inclusive of both endpoints. Precondition: d must not be
// before the epoch; the walk is not guarded.
func DayCount(d core.Date) int {
	count := 0
	for cur := Epoch; !cur.After(d); cur = cur.Next() {
		switch cur.Weekday() {
		case time.Saturday, time.Sunday:
		default:
			count++
		}
	}
	return count
}

// MonthIndex returns the 1-based ordinal of the epoch-anniversary month
// period containing d. The period rolls over on the epoch's day-of-month:
// with the epoch on the 17th, 2025-07-16 is still month 1 and 2025-07-17
// starts month 2. Results are clamped so the index is never below 1.
func MonthIndex(d core.Date) int {
	months := (d.Year()-Epoch.Year())*12 + d.Month() - Epoch.Month()
	if d.Day() < Epoch.Day() {
		months--
	}
	if months < 0 {
		months = 0
	}
	return months + 1
}

// MonthLabel maps a 1-based month index to the calendar month it started
// in, offset from the epoch's month and wrapping modulo 12. Index 1 is
// "6월", index 8 wraps to "1월".
func MonthLabel(index int) string {
	month := (Epoch.Month()+index-2)%12 + 1
	return monthNames[month-1]
}

var monthNames = [12]string{
	"1월", "2월", "3월", "4월", "5월", "6월",
	"7월", "8월", "9월", "10월", "11월", "12월",
}

// Clock supplies the current date and time. Production code uses
// SystemClock; tests inject a fixed one.
type Clock interface {
	Today() core.Date
	Now() time.Time
}

// SystemClock reads the real wall clock in UTC.
type SystemClock struct{}

func (SystemClock) Today() core.Date { return core.DateOf(time.Now()) }
func (SystemClock) Now() time.Time   { return time.Now().UTC() }

// Fixed returns a Clock pinned to the given instant.
func Fixed(t time.Time) Clock { return fixedClock{t: t.UTC()} }

type fixedClock struct{ t time.Time }

func (c fixedClock) Today() core.Date { return core.DateOf(c.t) }
func (c fixedClock) Now() time.Time   { return c.t }
