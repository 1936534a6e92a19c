package habits

import (
	"math"
	"sort"
	"time"
)

var weekdayLabels = [7]string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}

// CompletionSummary is the habits-completed-today tally.
type CompletionSummary struct {
	Completed int `json:"completed"`
	Total     int `json:"total"`
	Rate      int `json:"rate"`
}

// CompletionStats counts habits with a completed record for today. An
// empty collection reports a 0% rate.
func CompletionStats(habits []Habit, today string) CompletionSummary {
	summary := CompletionSummary{Total: len(habits)}
	for _, h := range habits {
		if h.History.CompletedOn(today) {
			summary.Completed++
		}
	}
	if summary.Total > 0 {
		summary.Rate = roundPercent(float64(summary.Completed) / float64(summary.Total))
	}
	return summary
}

// CategoryStats tallies habits per category.
func CategoryStats(habits []Habit) map[Category]int {
	stats := make(map[Category]int)
	for _, h := range habits {
		stats[h.Category]++
	}
	return stats
}

// DayCompletion is one weekday bucket of historical completions.
type DayCompletion struct {
	Day       string `json:"day"`
	Completed int    `json:"completed"`
	Total     int    `json:"total"`
}

// WeeklyCompletion buckets every history entry across all habits by the
// weekday it occurred on, Sun..Sat. This counts historical entries by
// weekday-of-occurrence, not a rolling last-7-days window.
func WeeklyCompletion(habits []Habit) []DayCompletion {
	buckets := make([]DayCompletion, 7)
	for i := range buckets {
		buckets[i].Day = weekdayLabels[i]
	}
	for _, h := range habits {
		for _, e := range h.History {
			day, err := ParseDate(e.Date)
			if err != nil {
				continue
			}
			idx := int(day.Weekday())
			buckets[idx].Total++
			if e.Completed {
				buckets[idx].Completed++
			}
		}
	}
	return buckets
}

// ConsistencyScore is the percentage of days in [start, end] with a
// completed record, rounded to the nearest integer. An inverted range is
// a 0-day range and scores 0.
func ConsistencyScore(habit Habit, start, end time.Time) int {
	days := DaysInRange(start, end)
	if days == 0 {
		return 0
	}
	completed := len(habit.History.CompletedDatesInRange(Midnight(start), Midnight(end)))
	return roundPercent(float64(completed) / float64(days))
}

// TimeOfDayCounts holds completion counts per hour-of-day bucket.
type TimeOfDayCounts struct {
	Morning   int `json:"morning"`
	Afternoon int `json:"afternoon"`
	Evening   int `json:"evening"`
	Night     int `json:"night"`
}

// TimeOfDayDistribution classifies every completed entry that carries a
// completion timestamp: morning [5,12), afternoon [12,17), evening
// [17,22), night otherwise. Entries without a timestamp are excluded.
func TimeOfDayDistribution(habits []Habit) TimeOfDayCounts {
	var counts TimeOfDayCounts
	for _, h := range habits {
		for _, e := range h.History {
			if !e.Completed || e.TimeOfCompletion == nil {
				continue
			}
			switch hour := e.TimeOfCompletion.Hour(); {
			case hour >= 5 && hour < 12:
				counts.Morning++
			case hour >= 12 && hour < 17:
				counts.Afternoon++
			case hour >= 17 && hour < 22:
				counts.Evening++
			default:
				counts.Night++
			}
		}
	}
	return counts
}

// Correlation is the Jaccard similarity of the two habits' completed-date
// sets restricted to [start, end], as a rounded percentage. An empty
// union scores 0.
func Correlation(a, b Habit, start, end time.Time) int {
	start, end = Midnight(start), Midnight(end)
	datesA := a.History.CompletedDatesInRange(start, end)
	datesB := b.History.CompletedDatesInRange(start, end)

	intersection := 0
	for d := range datesA {
		if _, ok := datesB[d]; ok {
			intersection++
		}
	}
	union := len(datesA) + len(datesB) - intersection
	if union == 0 {
		return 0
	}
	return roundPercent(float64(intersection) / float64(union))
}

// CorrelationLevel buckets a correlation score into a qualitative label.
func CorrelationLevel(score int) string {
	switch {
	case score >= 70:
		return "Strong"
	case score >= 40:
		return "Moderate"
	case score >= 20:
		return "Weak"
	default:
		return "Very weak"
	}
}

// CorrelationResult is one habit pair's correlation within a range.
type CorrelationResult struct {
	HabitA string `json:"habitA"`
	HabitB string `json:"habitB"`
	Score  int    `json:"score"`
	Level  string `json:"level"`
}

// CorrelationPairs computes the correlation for every habit pair in the
// collection, keeping only pairs with a score above 0, strongest first.
func CorrelationPairs(habits []Habit, start, end time.Time) []CorrelationResult {
	var results []CorrelationResult
	for i := 0; i < len(habits); i++ {
		for j := i + 1; j < len(habits); j++ {
			score := Correlation(habits[i], habits[j], start, end)
			if score == 0 {
				continue
			}
			results = append(results, CorrelationResult{
				HabitA: habits[i].Name,
				HabitB: habits[j].Name,
				Score:  score,
				Level:  CorrelationLevel(score),
			})
		}
	}
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
	return results
}

// RollingAverage produces one percentage per input date: the average
// completed-ness over the trailing window ending at that date. Partial
// windows at the start use however many days are available.
func RollingAverage(habit Habit, dates []string, window int) []float64 {
	if window < 1 {
		window = 1
	}
	averages := make([]float64, 0, len(dates))
	completed := make([]float64, 0, len(dates))
	for _, d := range dates {
		if habit.History.CompletedOn(d) {
			completed = append(completed, 1)
		} else {
			completed = append(completed, 0)
		}
		lo := len(completed) - window
		if lo < 0 {
			lo = 0
		}
		sum := 0.0
		for _, v := range completed[lo:] {
			sum += v
		}
		averages = append(averages, sum/float64(len(completed)-lo)*100)
	}
	return averages
}

// CalendarDay is one cell of a habit's completion calendar.
type CalendarDay struct {
	Date       string  `json:"date"`
	Completed  bool    `json:"completed"`
	Percentage float64 `json:"percentage"`
}

// CalendarData produces the per-day completion series for the trailing
// window of days ending today, oldest first. Percentage is the recorded
// count over the target, capped at 1; malformed counts read as 0.
func CalendarData(habit Habit, clock Clock, days int) []CalendarDay {
	today := Midnight(clock.Now())
	series := make([]CalendarDay, 0, days)
	for i := days - 1; i >= 0; i-- {
		date := today.AddDate(0, 0, -i).Format(DateLayout)
		day := CalendarDay{Date: date}
		if e, ok := habit.History.Entry(date); ok {
			day.Completed = e.Completed
			if habit.Target > 0 && e.Count > 0 {
				day.Percentage = math.Min(float64(e.Count)/float64(habit.Target), 1)
			}
		}
		series = append(series, day)
	}
	return series
}

func roundPercent(ratio float64) int {
	return int(math.Round(ratio * 100))
}
