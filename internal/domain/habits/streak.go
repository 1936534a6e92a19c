package habits

import (
	"sort"
	"time"
)

// CurrentStreak counts the consecutive completed days ending at asOf,
// walking backwards one calendar day at a time until the first gap. The
// cached Habit.Streak field must always agree with this recomputation.
func CurrentStreak(history History, asOf time.Time) int {
	streak := 0
	for cursor := Midnight(asOf); history.CompletedOn(cursor.Format(DateLayout)); cursor = cursor.AddDate(0, 0, -1) {
		streak++
	}
	return streak
}

// BestStreak returns the longest run of consecutive completed days
// anywhere in the history. Entries are sorted by date first since storage
// order is insertion order, not chronological.
func BestStreak(history History) int {
	dates := history.CompletedDates()
	sort.Strings(dates)

	best, current := 0, 0
	var prev time.Time
	for i, d := range dates {
		day, err := ParseDate(d)
		if err != nil {
			continue
		}
		if i > 0 && prev.AddDate(0, 0, 1).Equal(day) {
			current++
		} else {
			current = 1
		}
		if current > best {
			best = current
		}
		prev = day
	}
	return best
}

// LongestStreak returns the highest cached streak across the collection.
func LongestStreak(habits []Habit) int {
	longest := 0
	for _, h := range habits {
		if h.Streak > longest {
			longest = h.Streak
		}
	}
	return longest
}
