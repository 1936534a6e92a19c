package habits

import "time"

// DateLayout is the calendar-date format used as the history key. All day
// boundaries are resolved in the clock's local time.
const DateLayout = "2006-01-02"

// Clock supplies the current time. The engine never reads the wall clock
// directly so tests can pin "today".
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// SystemClock returns a Clock backed by time.Now.
func SystemClock() Clock { return systemClock{} }

type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }

// FixedClock returns a Clock pinned to t.
func FixedClock(t time.Time) Clock { return fixedClock{t: t} }

// Today returns the clock's current calendar date.
func Today(clock Clock) string {
	return clock.Now().Format(DateLayout)
}

// ParseDate parses an ISO calendar date at local midnight.
func ParseDate(s string) (time.Time, error) {
	return time.ParseInLocation(DateLayout, s, time.Local)
}

// Midnight truncates t to the start of its calendar day.
func Midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// DaysInMonth returns the number of days in the given month.
func DaysInMonth(year int, month time.Month) int {
	// Day zero of the next month is the last day of this one.
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.Local).Day()
}

// FirstWeekdayOfMonth returns the weekday of the first day of the month,
// 0 = Sunday.
func FirstWeekdayOfMonth(year int, month time.Month) int {
	return int(time.Date(year, month, 1, 0, 0, 0, 0, time.Local).Weekday())
}

// EnumerateDates returns every calendar date in [start, end] inclusive,
// oldest first. The result is empty when start is after end. Returning a
// slice keeps the range restartable for callers that walk it repeatedly.
func EnumerateDates(start, end time.Time) []string {
	start, end = Midnight(start), Midnight(end)
	if start.After(end) {
		return nil
	}
	var dates []string
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		dates = append(dates, d.Format(DateLayout))
	}
	return dates
}

// DaysInRange returns the inclusive day count of [start, end], 0 for an
// inverted range.
func DaysInRange(start, end time.Time) int {
	return len(EnumerateDates(start, end))
}
