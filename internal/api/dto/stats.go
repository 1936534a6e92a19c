package dto

import (
	"encoding/json"

	"github.com/google/uuid"
)

// StatsRangeQuery selects the date range for range-scoped statistics.
// Dates are YYYY-MM-DD; both bounds are inclusive.
type StatsRangeQuery struct {
	Start string `form:"start" binding:"required"`
	End   string `form:"end" binding:"required"`
}

// TrendQuery adds the rolling window size to the range query.
type TrendQuery struct {
	Start  string `form:"start" binding:"required"`
	End    string `form:"end" binding:"required"`
	Window int    `form:"window" binding:"omitempty,gte=1"`
}

// CalendarQuery selects the trailing number of days for the calendar view.
type CalendarQuery struct {
	Days int `form:"days" binding:"omitempty,gte=1,lte=366"`
}

// CompletionSummaryResponse is the habits-completed-today tally
type CompletionSummaryResponse struct {
	Completed int `json:"completed"`
	Total     int `json:"total"`
	Rate      int `json:"rate"`
}

// DayCompletionResponse is one weekday bucket of historical completions
type DayCompletionResponse struct {
	Day       string `json:"day"`
	Completed int    `json:"completed"`
	Total     int    `json:"total"`
}

// TimeOfDayResponse holds completion counts per hour-of-day bucket
type TimeOfDayResponse struct {
	Morning   int `json:"morning"`
	Afternoon int `json:"afternoon"`
	Evening   int `json:"evening"`
	Night     int `json:"night"`
}

// DashboardStatsResponse is the aggregate view backing the dashboard
type DashboardStatsResponse struct {
	Completion    CompletionSummaryResponse `json:"completion"`
	Categories    map[string]int            `json:"categories"`
	Weekly        []DayCompletionResponse   `json:"weekly"`
	TimeOfDay     TimeOfDayResponse         `json:"timeOfDay"`
	LongestStreak int                       `json:"longestStreak"`
}

// ConsistencyResponse is one habit's consistency within a range
type ConsistencyResponse struct {
	HabitID       uuid.UUID `json:"habitId"`
	Name          string    `json:"name"`
	Score         int       `json:"score"`
	CompletedDays int       `json:"completedDays"`
	RangeDays     int       `json:"rangeDays"`
}

// CorrelationResponse is one habit pair's correlation within a range
type CorrelationResponse struct {
	HabitA string `json:"habitA"`
	HabitB string `json:"habitB"`
	Score  int    `json:"score"`
	Level  string `json:"level"`
}

// HabitStatsResponse bundles the per-habit derived numbers
type HabitStatsResponse struct {
	HabitID       uuid.UUID `json:"habitId"`
	CurrentStreak int       `json:"currentStreak"`
	BestStreak    int       `json:"bestStreak"`
	Consistency   int       `json:"consistency"`
}

// CalendarDayResponse is one cell of a habit's completion calendar
type CalendarDayResponse struct {
	Date       string  `json:"date"`
	Completed  bool    `json:"completed"`
	Percentage float64 `json:"percentage"`
}

// TrendResponse is the rolling completion-average series for a habit
type TrendResponse struct {
	HabitID uuid.UUID `json:"habitId"`
	Window  int       `json:"window"`
	Values  []float64 `json:"values"`
}

// ExportRequest carries the preferences blob to embed in a backup
type ExportRequest struct {
	Preferences json.RawMessage `json:"preferences,omitempty"`
}

// ImportResponse reports how many habits a backup restored
type ImportResponse struct {
	Imported int `json:"imported"`
}

// SeedRequest configures the demo data generator
type SeedRequest struct {
	Days int `json:"days" binding:"omitempty,gte=1,lte=366"`
}
