package habits

import (
	"time"

	"github.com/google/uuid"
)

// CountType distinguishes habits closed by a single action from habits
// that accumulate units toward a target.
type CountType string

const (
	CountTypeCompletion CountType = "completion"
	CountTypeCount      CountType = "count"
)

// Frequency describes when a habit is considered due. It never blocks a
// manual completion on an off-day.
type Frequency string

const (
	FrequencyDaily  Frequency = "daily"
	FrequencyWeekly Frequency = "weekly"
	FrequencyCustom Frequency = "custom"
)

// Category is a fixed grouping label used only for aggregation.
type Category string

const (
	CategoryHealth       Category = "health"
	CategoryProductivity Category = "productivity"
	CategoryLearning     Category = "learning"
	CategoryMindfulness  Category = "mindfulness"
	CategoryFinance      Category = "finance"
	CategorySocial       Category = "social"
	CategoryCustom       Category = "custom"
)

// CategoryColors maps each category to its default display color.
var CategoryColors = map[Category]string{
	CategoryHealth:       "#4ade80",
	CategoryProductivity: "#3b82f6",
	CategoryLearning:     "#a855f7",
	CategoryMindfulness:  "#ec4899",
	CategoryFinance:      "#eab308",
	CategorySocial:       "#f97316",
	CategoryCustom:       "#64748b",
}

// HistoryEntry records the outcome of one calendar day. Date is the key;
// a History never holds two entries for the same date.
type HistoryEntry struct {
	Date             string     `json:"date"`
	Count            int        `json:"count"`
	Completed        bool       `json:"completed"`
	TimeOfCompletion *time.Time `json:"timeOfCompletion,omitempty"`
}

// History is the ordered-by-insertion set of daily records for a habit.
type History []HistoryEntry

// Entry returns the record for the given date, if any.
func (h History) Entry(date string) (HistoryEntry, bool) {
	for _, e := range h {
		if e.Date == date {
			return e, true
		}
	}
	return HistoryEntry{}, false
}

// Upsert writes entry, replacing an existing record for the same date.
func (h History) Upsert(entry HistoryEntry) History {
	for i, e := range h {
		if e.Date == entry.Date {
			h[i] = entry
			return h
		}
	}
	return append(h, entry)
}

// Remove deletes the record for date, reporting whether one existed.
func (h History) Remove(date string) (History, bool) {
	for i, e := range h {
		if e.Date == date {
			return append(h[:i:i], h[i+1:]...), true
		}
	}
	return h, false
}

// CompletedOn reports whether date has a completed record.
func (h History) CompletedOn(date string) bool {
	e, ok := h.Entry(date)
	return ok && e.Completed
}

// CompletedDates returns the distinct dates with a completed record, in
// storage order.
func (h History) CompletedDates() []string {
	dates := make([]string, 0, len(h))
	for _, e := range h {
		if e.Completed {
			dates = append(dates, e.Date)
		}
	}
	return dates
}

// CompletedDatesInRange returns the set of completed dates within
// [start, end] inclusive.
func (h History) CompletedDatesInRange(start, end time.Time) map[string]struct{} {
	dates := make(map[string]struct{})
	for _, e := range h {
		if !e.Completed {
			continue
		}
		day, err := ParseDate(e.Date)
		if err != nil {
			continue
		}
		if !day.Before(start) && !day.After(end) {
			dates[e.Date] = struct{}{}
		}
	}
	return dates
}

// Habit is the tracked entity. Invariants: 0 <= Progress <= Target,
// Streak >= 0, History has at most one entry per calendar date.
type Habit struct {
	ID              uuid.UUID `json:"id"`
	Name            string    `json:"name"`
	Description     string    `json:"description,omitempty"`
	Icon            string    `json:"icon"`
	Color           string    `json:"color"`
	Target          int       `json:"target"`
	CountType       CountType `json:"countType"`
	CountUnit       string    `json:"countUnit"`
	Frequency       Frequency `json:"frequency"`
	CustomDays      []int     `json:"customDays,omitempty"`
	Category        Category  `json:"category"`
	Progress        int       `json:"progress"`
	Streak          int       `json:"streak"`
	ReminderTime    string    `json:"reminderTime,omitempty"`
	ReminderEnabled bool      `json:"reminderEnabled"`
	History         History   `json:"history"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// DueOn reports whether the habit is due on the given weekday. Daily and
// weekly habits are due every day; custom habits only on their configured
// weekdays.
func (h *Habit) DueOn(weekday time.Weekday) bool {
	if h.Frequency != FrequencyCustom {
		return true
	}
	for _, d := range h.CustomDays {
		if d == int(weekday) {
			return true
		}
	}
	return false
}

// CreateHabitInput represents the input for creating a new habit
type CreateHabitInput struct {
	Name            string    `json:"name" validate:"required"`
	Description     string    `json:"description"`
	Icon            string    `json:"icon"`
	Color           string    `json:"color"`
	Target          int       `json:"target" validate:"gte=1"`
	CountType       CountType `json:"countType" validate:"omitempty,oneof=completion count"`
	CountUnit       string    `json:"countUnit"`
	Frequency       Frequency `json:"frequency" validate:"omitempty,oneof=daily weekly custom"`
	CustomDays      []int     `json:"customDays" validate:"omitempty,dive,gte=0,lte=6"`
	Category        Category  `json:"category"`
	ReminderTime    string    `json:"reminderTime"`
	ReminderEnabled bool      `json:"reminderEnabled"`
}

// UpdateHabitInput represents the input for updating a habit. Nil fields
// are left unchanged.
type UpdateHabitInput struct {
	Name            *string    `json:"name,omitempty"`
	Description     *string    `json:"description,omitempty"`
	Icon            *string    `json:"icon,omitempty"`
	Color           *string    `json:"color,omitempty"`
	Target          *int       `json:"target,omitempty"`
	CountType       *CountType `json:"countType,omitempty"`
	CountUnit       *string    `json:"countUnit,omitempty"`
	Frequency       *Frequency `json:"frequency,omitempty"`
	CustomDays      *[]int     `json:"customDays,omitempty"`
	Category        *Category  `json:"category,omitempty"`
	ReminderTime    *string    `json:"reminderTime,omitempty"`
	ReminderEnabled *bool      `json:"reminderEnabled,omitempty"`
}
