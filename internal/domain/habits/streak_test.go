package habits

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func completedHistory(dates ...string) History {
	h := History{}
	for _, d := range dates {
		h = h.Upsert(HistoryEntry{Date: d, Count: 1, Completed: true})
	}
	return h
}

func TestCurrentStreak(t *testing.T) {
	tests := []struct {
		name     string
		history  History
		asOf     string
		expected int
	}{
		{
			name:     "Empty history",
			history:  History{},
			asOf:     "2024-01-07",
			expected: 0,
		},
		{
			name:     "Run broken by a gap counts from the anchor only",
			history:  completedHistory("2024-01-01", "2024-01-02", "2024-01-03", "2024-01-04", "2024-01-05", "2024-01-07"),
			asOf:     "2024-01-07",
			expected: 1,
		},
		{
			name:     "Unbroken run ending at the anchor",
			history:  completedHistory("2024-01-03", "2024-01-04", "2024-01-05"),
			asOf:     "2024-01-05",
			expected: 3,
		},
		{
			name:     "Anchor day not completed",
			history:  completedHistory("2024-01-03", "2024-01-04"),
			asOf:     "2024-01-05",
			expected: 0,
		},
		{
			name:     "Incomplete entry does not extend the run",
			history:  append(completedHistory("2024-01-04"), HistoryEntry{Date: "2024-01-05", Count: 1, Completed: false}),
			asOf:     "2024-01-05",
			expected: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			asOf, err := ParseDate(tt.asOf)
			assert.NoError(t, err)
			assert.Equal(t, tt.expected, CurrentStreak(tt.history, asOf))
		})
	}
}

func TestBestStreak(t *testing.T) {
	tests := []struct {
		name     string
		history  History
		expected int
	}{
		{
			name:     "Empty history",
			history:  History{},
			expected: 0,
		},
		{
			name:     "Longest run is in the past",
			history:  completedHistory("2024-01-01", "2024-01-02", "2024-01-03", "2024-01-04", "2024-01-05", "2024-01-07"),
			expected: 5,
		},
		{
			name:     "Out-of-order insertion still finds the run",
			history:  completedHistory("2024-01-03", "2024-01-01", "2024-01-02"),
			expected: 3,
		},
		{
			name:     "Run crossing a month boundary",
			history:  completedHistory("2024-02-28", "2024-02-29", "2024-03-01"),
			expected: 3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, BestStreak(tt.history))
		})
	}
}

func TestBestStreakNeverBelowCurrent(t *testing.T) {
	history := completedHistory("2024-01-05", "2024-01-06", "2024-01-07")
	asOf, _ := ParseDate("2024-01-07")
	assert.GreaterOrEqual(t, BestStreak(history), CurrentStreak(history, asOf))
}

func TestLongestStreak(t *testing.T) {
	habits := []Habit{
		{Streak: 2},
		{Streak: 9},
		{Streak: 4},
	}
	assert.Equal(t, 9, LongestStreak(habits))
	assert.Equal(t, 0, LongestStreak(nil))
}
