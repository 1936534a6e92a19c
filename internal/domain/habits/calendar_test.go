package habits

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDaysInMonth(t *testing.T) {
	tests := []struct {
		name     string
		year     int
		month    time.Month
		expected int
	}{
		{name: "January has 31 days", year: 2024, month: time.January, expected: 31},
		{name: "February in a leap year", year: 2024, month: time.February, expected: 29},
		{name: "February in a common year", year: 2023, month: time.February, expected: 28},
		{name: "Century non-leap year", year: 1900, month: time.February, expected: 28},
		{name: "Four-century leap year", year: 2000, month: time.February, expected: 29},
		{name: "April has 30 days", year: 2024, month: time.April, expected: 30},
		{name: "December wraps the year", year: 2024, month: time.December, expected: 31},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, DaysInMonth(tt.year, tt.month))
		})
	}
}

func TestFirstWeekdayOfMonth(t *testing.T) {
	// 2024-01-01 was a Monday, 2024-09-01 a Sunday
	assert.Equal(t, 1, FirstWeekdayOfMonth(2024, time.January))
	assert.Equal(t, 0, FirstWeekdayOfMonth(2024, time.September))
}

func TestEnumerateDates(t *testing.T) {
	day := func(s string) time.Time {
		d, err := ParseDate(s)
		assert.NoError(t, err)
		return d
	}

	tests := []struct {
		name     string
		start    string
		end      string
		expected []string
	}{
		{
			name:     "Single day range",
			start:    "2024-03-10",
			end:      "2024-03-10",
			expected: []string{"2024-03-10"},
		},
		{
			name:     "Range crossing a month boundary",
			start:    "2024-02-28",
			end:      "2024-03-02",
			expected: []string{"2024-02-28", "2024-02-29", "2024-03-01", "2024-03-02"},
		},
		{
			name:     "Inverted range is empty",
			start:    "2024-03-10",
			end:      "2024-03-09",
			expected: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := EnumerateDates(day(tt.start), day(tt.end))
			assert.Equal(t, tt.expected, got)
			// a second walk over the same range yields the same dates
			assert.Equal(t, got, EnumerateDates(day(tt.start), day(tt.end)))
		})
	}
}

func TestDaysInRange(t *testing.T) {
	start, _ := ParseDate("2024-01-01")
	end, _ := ParseDate("2024-01-10")
	assert.Equal(t, 10, DaysInRange(start, end))
	assert.Equal(t, 0, DaysInRange(end, start))
}

func TestTodayUsesClock(t *testing.T) {
	clock := FixedClock(time.Date(2024, 6, 15, 23, 59, 0, 0, time.Local))
	assert.Equal(t, "2024-06-15", Today(clock))
}
