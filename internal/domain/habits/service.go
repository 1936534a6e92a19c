package habits

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/ckrstars/habititt/internal/domain/events"
	"github.com/ckrstars/habititt/internal/infrastructure/cache"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// statsCacheKey is the Redis key holding the cached dashboard stats.
const statsCacheKey = "stats:dashboard"

type Service interface {
	CreateHabit(ctx context.Context, input CreateHabitInput) (*Habit, error)
	GetHabit(ctx context.Context, id uuid.UUID) (*Habit, error)
	ListHabits(ctx context.Context) ([]Habit, error)
	UpdateHabit(ctx context.Context, id uuid.UUID, input UpdateHabitInput) (*Habit, error)
	DeleteHabit(ctx context.Context, id uuid.UUID) error

	// Progress engine operations; unknown ids are tolerated as no-ops.
	Increment(ctx context.Context, id uuid.UUID) error
	Decrement(ctx context.Context, id uuid.UUID) error
	Complete(ctx context.Context, id uuid.UUID) error
	UndoComplete(ctx context.Context, id uuid.UUID) error
	IsCompletedToday(ctx context.Context, id uuid.UUID) (bool, error)

	ToggleReminder(ctx context.Context, id uuid.UUID, enabled bool) error
	SetReminderTime(ctx context.Context, id uuid.UUID, reminderTime string) error
	ResetDailyProgress(ctx context.Context) (int64, error)
	ResyncStreaks(ctx context.Context) (int64, error)

	// Statistics views
	DashboardStats(ctx context.Context) (*DashboardStats, error)
	ConsistencyReport(ctx context.Context, start, end time.Time) ([]ConsistencyResult, error)
	Correlations(ctx context.Context, start, end time.Time) ([]CorrelationResult, error)
	HabitStats(ctx context.Context, id uuid.UUID, start, end time.Time) (*HabitStatsResult, error)
	HabitCalendar(ctx context.Context, id uuid.UUID, days int) ([]CalendarDay, error)
	HabitTrend(ctx context.Context, id uuid.UUID, start, end time.Time, window int) ([]float64, error)

	ExportData(ctx context.Context, preferences json.RawMessage) ([]byte, error)
	ImportData(ctx context.Context, data []byte) (int, error)
	SeedDemoData(ctx context.Context, days int) ([]Habit, error)
}

// DashboardStats is the aggregate view backing the dashboard widgets.
type DashboardStats struct {
	Completion    CompletionSummary `json:"completion"`
	Categories    map[Category]int  `json:"categories"`
	Weekly        []DayCompletion   `json:"weekly"`
	TimeOfDay     TimeOfDayCounts   `json:"timeOfDay"`
	LongestStreak int               `json:"longestStreak"`
}

// ConsistencyResult is one habit's consistency within a range.
type ConsistencyResult struct {
	HabitID       uuid.UUID `json:"habitId"`
	Name          string    `json:"name"`
	Score         int       `json:"score"`
	CompletedDays int       `json:"completedDays"`
	RangeDays     int       `json:"rangeDays"`
}

// HabitStatsResult bundles the per-habit derived numbers.
type HabitStatsResult struct {
	HabitID       uuid.UUID `json:"habitId"`
	CurrentStreak int       `json:"currentStreak"`
	BestStreak    int       `json:"bestStreak"`
	Consistency   int       `json:"consistency"`
}

type service struct {
	repo   Repository
	redis  *cache.RedisClient
	clock  Clock
	logger *zap.Logger
}

// NewService wires the habit engine. redis may be nil when no cache or
// event fan-out is configured; clock defaults to the system clock.
func NewService(repo Repository, redis *cache.RedisClient, clock Clock, logger *zap.Logger) Service {
	if clock == nil {
		clock = SystemClock()
	}
	return &service{
		repo:   repo,
		redis:  redis,
		clock:  clock,
		logger: logger,
	}
}

func (s *service) CreateHabit(ctx context.Context, input CreateHabitInput) (*Habit, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	now := s.clock.Now()
	habit := &Habit{
		ID:              uuid.New(),
		Name:            input.Name,
		Description:     input.Description,
		Icon:            input.Icon,
		Color:           input.Color,
		Target:          input.Target,
		CountType:       input.CountType,
		CountUnit:       input.CountUnit,
		Frequency:       input.Frequency,
		CustomDays:      input.CustomDays,
		Category:        input.Category,
		ReminderTime:    input.ReminderTime,
		ReminderEnabled: input.ReminderEnabled,
		History:         History{},
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if habit.CountType == "" {
		habit.CountType = CountTypeCompletion
	}
	if habit.Frequency == "" {
		habit.Frequency = FrequencyDaily
	}
	if habit.Color == "" {
		habit.Color = CategoryColors[habit.Category]
	}

	if err := s.repo.Create(ctx, habit); err != nil {
		return nil, err
	}

	s.publishEvent(ctx, habit.ID, "habit_created", map[string]interface{}{
		"name": habit.Name,
	})
	return habit, nil
}

func (s *service) GetHabit(ctx context.Context, id uuid.UUID) (*Habit, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *service) ListHabits(ctx context.Context) ([]Habit, error) {
	return s.repo.FindAll(ctx)
}

func (s *service) UpdateHabit(ctx context.Context, id uuid.UUID, input UpdateHabitInput) (*Habit, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	habit, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	changed := false
	if input.Name != nil && habit.Name != *input.Name {
		habit.Name = *input.Name
		changed = true
	}
	if input.Description != nil && habit.Description != *input.Description {
		habit.Description = *input.Description
		changed = true
	}
	if input.Icon != nil && habit.Icon != *input.Icon {
		habit.Icon = *input.Icon
		changed = true
	}
	if input.Color != nil && habit.Color != *input.Color {
		habit.Color = *input.Color
		changed = true
	}
	if input.Target != nil && habit.Target != *input.Target {
		habit.Target = *input.Target
		if habit.Progress > habit.Target {
			habit.Progress = habit.Target
		}
		changed = true
	}
	if input.CountType != nil && habit.CountType != *input.CountType {
		habit.CountType = *input.CountType
		changed = true
	}
	if input.CountUnit != nil && habit.CountUnit != *input.CountUnit {
		habit.CountUnit = *input.CountUnit
		changed = true
	}
	if input.Frequency != nil && habit.Frequency != *input.Frequency {
		habit.Frequency = *input.Frequency
		changed = true
	}
	if input.CustomDays != nil {
		habit.CustomDays = *input.CustomDays
		changed = true
	}
	if input.Category != nil && habit.Category != *input.Category {
		habit.Category = *input.Category
		changed = true
	}
	if input.ReminderTime != nil && habit.ReminderTime != *input.ReminderTime {
		habit.ReminderTime = *input.ReminderTime
		changed = true
	}
	if input.ReminderEnabled != nil && habit.ReminderEnabled != *input.ReminderEnabled {
		habit.ReminderEnabled = *input.ReminderEnabled
		changed = true
	}

	if habit.CountType == CountTypeCount && habit.CountUnit == "" {
		return nil, fmt.Errorf("%w: countUnit is required for count habits", ErrInvalidInput)
	}

	if !changed {
		return habit, nil
	}

	habit.UpdatedAt = s.clock.Now()
	if err := s.repo.Update(ctx, habit); err != nil {
		return nil, err
	}
	s.publishEvent(ctx, habit.ID, "habit_updated", map[string]interface{}{
		"name": habit.Name,
	})
	return habit, nil
}

func (s *service) DeleteHabit(ctx context.Context, id uuid.UUID) error {
	habit, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.publishEvent(ctx, id, "habit_deleted", map[string]interface{}{
		"name":   habit.Name,
		"streak": habit.Streak,
	})
	return nil
}

func (s *service) ToggleReminder(ctx context.Context, id uuid.UUID, enabled bool) error {
	habit, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if habit.ReminderEnabled == enabled {
		return nil
	}
	habit.ReminderEnabled = enabled
	habit.UpdatedAt = s.clock.Now()
	return s.repo.Update(ctx, habit)
}

func (s *service) SetReminderTime(ctx context.Context, id uuid.UUID, reminderTime string) error {
	if _, err := time.Parse("15:04", reminderTime); err != nil {
		return fmt.Errorf("%w: reminderTime must be HH:MM", ErrInvalidInput)
	}
	habit, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	habit.ReminderTime = reminderTime
	habit.UpdatedAt = s.clock.Now()
	return s.repo.Update(ctx, habit)
}

// ResetDailyProgress zeroes the current-cycle progress of every habit
// whose last completion predates today. Run by the scheduler at midnight;
// the engine itself never auto-rolls the cycle.
func (s *service) ResetDailyProgress(ctx context.Context) (int64, error) {
	habits, err := s.repo.FindAll(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to load habits for daily reset: %w", err)
	}

	today := Today(s.clock)
	var affected int64
	for i := range habits {
		habit := &habits[i]
		if habit.Progress == 0 || habit.History.CompletedOn(today) {
			continue
		}
		habit.Progress = 0
		habit.UpdatedAt = s.clock.Now()
		if err := s.repo.Update(ctx, habit); err != nil {
			s.logger.Error("Failed to reset habit progress",
				zap.String("habit_id", habit.ID.String()),
				zap.Error(err))
			continue
		}
		affected++
	}
	if affected > 0 {
		s.publishEvent(ctx, uuid.Nil, "daily_reset", map[string]interface{}{
			"reset_count": affected,
		})
	}
	return affected, nil
}

// ResyncStreaks reconciles each cached streak with a full recompute from
// history. A streak stays alive through today's not-yet-used opportunity:
// the walk is anchored at today when today is completed, otherwise at
// yesterday. Run by the scheduler after each midnight rollover.
func (s *service) ResyncStreaks(ctx context.Context) (int64, error) {
	habits, err := s.repo.FindAll(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to load habits for streak resync: %w", err)
	}

	now := s.clock.Now()
	var affected int64
	for i := range habits {
		habit := &habits[i]
		streak := CurrentStreak(habit.History, now)
		if streak == 0 {
			streak = CurrentStreak(habit.History, now.AddDate(0, 0, -1))
		}
		if habit.Streak == streak {
			continue
		}
		previous := habit.Streak
		habit.Streak = streak
		habit.UpdatedAt = now
		if err := s.repo.Update(ctx, habit); err != nil {
			s.logger.Error("Failed to resync habit streak",
				zap.String("habit_id", habit.ID.String()),
				zap.Error(err))
			continue
		}
		s.logger.Info("Resynced habit streak",
			zap.String("habit_id", habit.ID.String()),
			zap.Int("previous", previous),
			zap.Int("current", streak))
		affected++
	}
	return affected, nil
}

func (s *service) DashboardStats(ctx context.Context) (*DashboardStats, error) {
	if s.redis != nil {
		if cached, err := s.redis.Get(ctx, statsCacheKey); err == nil && cached != "" {
			var stats DashboardStats
			if err := json.Unmarshal([]byte(cached), &stats); err == nil {
				return &stats, nil
			}
		}
	}

	habits, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	stats := &DashboardStats{
		Completion:    CompletionStats(habits, Today(s.clock)),
		Categories:    CategoryStats(habits),
		Weekly:        WeeklyCompletion(habits),
		TimeOfDay:     TimeOfDayDistribution(habits),
		LongestStreak: LongestStreak(habits),
	}

	if s.redis != nil {
		if data, err := json.Marshal(stats); err == nil {
			if err := s.redis.Set(ctx, statsCacheKey, string(data), 5*time.Minute); err != nil {
				s.logger.Error("Failed to cache dashboard stats", zap.Error(err))
			}
		}
	}
	return stats, nil
}

func (s *service) ConsistencyReport(ctx context.Context, start, end time.Time) ([]ConsistencyResult, error) {
	habits, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	rangeDays := DaysInRange(start, end)
	results := make([]ConsistencyResult, 0, len(habits))
	for _, habit := range habits {
		completed := len(habit.History.CompletedDatesInRange(Midnight(start), Midnight(end)))
		results = append(results, ConsistencyResult{
			HabitID:       habit.ID,
			Name:          habit.Name,
			Score:         ConsistencyScore(habit, start, end),
			CompletedDays: completed,
			RangeDays:     rangeDays,
		})
	}
	return results, nil
}

func (s *service) Correlations(ctx context.Context, start, end time.Time) ([]CorrelationResult, error) {
	habits, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	return CorrelationPairs(habits, start, end), nil
}

func (s *service) HabitStats(ctx context.Context, id uuid.UUID, start, end time.Time) (*HabitStatsResult, error) {
	habit, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return &HabitStatsResult{
		HabitID:       habit.ID,
		CurrentStreak: CurrentStreak(habit.History, s.clock.Now()),
		BestStreak:    BestStreak(habit.History),
		Consistency:   ConsistencyScore(*habit, start, end),
	}, nil
}

func (s *service) HabitCalendar(ctx context.Context, id uuid.UUID, days int) ([]CalendarDay, error) {
	habit, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return CalendarData(*habit, s.clock, days), nil
}

func (s *service) HabitTrend(ctx context.Context, id uuid.UUID, start, end time.Time, window int) ([]float64, error) {
	habit, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return RollingAverage(*habit, EnumerateDates(start, end), window), nil
}

func (s *service) SeedDemoData(ctx context.Context, days int) ([]Habit, error) {
	generator := NewGenerator(s.clock, nil)
	habits := generator.Generate(DefaultSeedProfiles(), days)
	if err := s.repo.ReplaceAll(ctx, habits); err != nil {
		return nil, err
	}
	s.publishEvent(ctx, uuid.Nil, "demo_data_seeded", map[string]interface{}{
		"habit_count": len(habits),
	})
	return habits, nil
}

// publishEvent fans a cache-invalidation event out to the dashboard and
// drops the cached stats snapshot. Mutations succeed even when the event
// bus is down.
func (s *service) publishEvent(ctx context.Context, habitID uuid.UUID, action string, details map[string]interface{}) {
	if s.redis == nil {
		return
	}
	if details == nil {
		details = make(map[string]interface{})
	}
	details["action"] = action

	event := &events.DashboardEvent{
		EventType: events.DashboardEventCacheInvalidate,
		EntityID:  habitID,
		Timestamp: s.clock.Now().UTC(),
		Details:   details,
	}
	if err := s.redis.PublishDashboardEvent(ctx, event); err != nil {
		s.logger.Error("Failed to publish dashboard event", zap.Error(err))
	}
	if err := s.redis.Delete(ctx, statsCacheKey); err != nil {
		s.logger.Error("Failed to invalidate stats cache", zap.Error(err))
	}
}
