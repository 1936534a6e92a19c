package handlers

import (
	"github.com/ckrstars/habititt/internal/api/dto"
	"github.com/ckrstars/habititt/internal/domain/habits"
)

// HabitToResponse maps a domain habit to its API shape. today is the
// engine clock's current date so CompletedToday agrees with the
// progress engine's notion of the day.
func HabitToResponse(h *habits.Habit, today string) *dto.HabitResponse {
	if h == nil {
		return nil
	}
	history := make([]dto.HistoryEntryResponse, len(h.History))
	for i, e := range h.History {
		history[i] = dto.HistoryEntryResponse{
			Date:             e.Date,
			Count:            e.Count,
			Completed:        e.Completed,
			TimeOfCompletion: e.TimeOfCompletion,
		}
	}
	return &dto.HabitResponse{
		ID:              h.ID,
		Name:            h.Name,
		Description:     h.Description,
		Icon:            h.Icon,
		Color:           h.Color,
		Target:          h.Target,
		CountType:       string(h.CountType),
		CountUnit:       h.CountUnit,
		Frequency:       string(h.Frequency),
		CustomDays:      h.CustomDays,
		Category:        string(h.Category),
		Progress:        h.Progress,
		Streak:          h.Streak,
		CompletedToday:  h.History.CompletedOn(today),
		ReminderTime:    h.ReminderTime,
		ReminderEnabled: h.ReminderEnabled,
		History:         history,
		CreatedAt:       h.CreatedAt,
		UpdatedAt:       h.UpdatedAt,
	}
}

// HabitsToListResponse maps a habit slice to the list envelope
func HabitsToListResponse(list []habits.Habit, today string) *dto.HabitListResponse {
	response := make([]*dto.HabitResponse, len(list))
	for i := range list {
		response[i] = HabitToResponse(&list[i], today)
	}
	return &dto.HabitListResponse{
		Habits:     response,
		TotalCount: len(list),
	}
}

// DashboardStatsToResponse maps the dashboard aggregate
func DashboardStatsToResponse(s *habits.DashboardStats) *dto.DashboardStatsResponse {
	if s == nil {
		return nil
	}
	categories := make(map[string]int, len(s.Categories))
	for category, count := range s.Categories {
		categories[string(category)] = count
	}
	weekly := make([]dto.DayCompletionResponse, len(s.Weekly))
	for i, d := range s.Weekly {
		weekly[i] = dto.DayCompletionResponse{
			Day:       d.Day,
			Completed: d.Completed,
			Total:     d.Total,
		}
	}
	return &dto.DashboardStatsResponse{
		Completion: dto.CompletionSummaryResponse{
			Completed: s.Completion.Completed,
			Total:     s.Completion.Total,
			Rate:      s.Completion.Rate,
		},
		Categories: categories,
		Weekly:     weekly,
		TimeOfDay: dto.TimeOfDayResponse{
			Morning:   s.TimeOfDay.Morning,
			Afternoon: s.TimeOfDay.Afternoon,
			Evening:   s.TimeOfDay.Evening,
			Night:     s.TimeOfDay.Night,
		},
		LongestStreak: s.LongestStreak,
	}
}

// ConsistencyToResponse maps the per-habit consistency report
func ConsistencyToResponse(results []habits.ConsistencyResult) []dto.ConsistencyResponse {
	response := make([]dto.ConsistencyResponse, len(results))
	for i, r := range results {
		response[i] = dto.ConsistencyResponse{
			HabitID:       r.HabitID,
			Name:          r.Name,
			Score:         r.Score,
			CompletedDays: r.CompletedDays,
			RangeDays:     r.RangeDays,
		}
	}
	return response
}

// CorrelationsToResponse maps the pairwise correlation report
func CorrelationsToResponse(results []habits.CorrelationResult) []dto.CorrelationResponse {
	response := make([]dto.CorrelationResponse, len(results))
	for i, r := range results {
		response[i] = dto.CorrelationResponse{
			HabitA: r.HabitA,
			HabitB: r.HabitB,
			Score:  r.Score,
			Level:  r.Level,
		}
	}
	return response
}

// HabitStatsToResponse maps one habit's derived numbers
func HabitStatsToResponse(r *habits.HabitStatsResult) *dto.HabitStatsResponse {
	if r == nil {
		return nil
	}
	return &dto.HabitStatsResponse{
		HabitID:       r.HabitID,
		CurrentStreak: r.CurrentStreak,
		BestStreak:    r.BestStreak,
		Consistency:   r.Consistency,
	}
}

// CalendarToResponse maps the per-day completion series
func CalendarToResponse(series []habits.CalendarDay) []dto.CalendarDayResponse {
	response := make([]dto.CalendarDayResponse, len(series))
	for i, day := range series {
		response[i] = dto.CalendarDayResponse{
			Date:       day.Date,
			Completed:  day.Completed,
			Percentage: day.Percentage,
		}
	}
	return response
}
