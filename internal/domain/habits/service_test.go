package habits

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestService(t *testing.T, now time.Time) (Service, Repository) {
	t.Helper()
	repo := NewMemoryRepository()
	svc := NewService(repo, nil, FixedClock(now), zap.NewNop())
	return svc, repo
}

func testDay(day int) time.Time {
	return time.Date(2024, 3, day, 10, 0, 0, 0, time.Local)
}

func TestCreateHabitDefaults(t *testing.T) {
	svc, _ := newTestService(t, testDay(1))

	habit, err := svc.CreateHabit(context.Background(), CreateHabitInput{
		Name:     "Meditate",
		Target:   1,
		Category: CategoryMindfulness,
	})
	require.NoError(t, err)

	assert.Equal(t, CountTypeCompletion, habit.CountType)
	assert.Equal(t, FrequencyDaily, habit.Frequency)
	assert.Equal(t, CategoryColors[CategoryMindfulness], habit.Color)
	assert.Zero(t, habit.Progress)
	assert.Zero(t, habit.Streak)
	assert.Empty(t, habit.History)
}

func TestCreateHabitValidation(t *testing.T) {
	svc, _ := newTestService(t, testDay(1))
	ctx := context.Background()

	_, err := svc.CreateHabit(ctx, CreateHabitInput{Target: 1})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.CreateHabit(ctx, CreateHabitInput{Name: "Water", Target: 0})
	assert.ErrorIs(t, err, ErrInvalidInput)

	// count habits need a unit
	_, err = svc.CreateHabit(ctx, CreateHabitInput{
		Name:      "Water",
		Target:    8,
		CountType: CountTypeCount,
	})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestIncrementToTargetClosesCycle(t *testing.T) {
	now := testDay(5)
	svc, _ := newTestService(t, now)
	ctx := context.Background()

	habit, err := svc.CreateHabit(ctx, CreateHabitInput{
		Name:      "Water",
		Target:    3,
		CountType: CountTypeCount,
		CountUnit: "glasses",
	})
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		require.NoError(t, svc.Increment(ctx, habit.ID))
	}

	got, err := svc.GetHabit(ctx, habit.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, got.Progress)
	assert.Equal(t, 1, got.Streak)

	entry, ok := got.History.Entry(now.Format(DateLayout))
	require.True(t, ok)
	assert.Equal(t, 3, entry.Count)
	assert.True(t, entry.Completed)
	require.NotNil(t, entry.TimeOfCompletion)

	// further increments are clamped, no duplicate entries
	require.NoError(t, svc.Increment(ctx, habit.ID))
	got, _ = svc.GetHabit(ctx, habit.ID)
	assert.Equal(t, 3, got.Progress)
	assert.Equal(t, 1, got.Streak)
	assert.Len(t, got.History, 1)
}

func TestIncrementIgnoresCompletionHabits(t *testing.T) {
	svc, _ := newTestService(t, testDay(5))
	ctx := context.Background()

	habit, _ := svc.CreateHabit(ctx, CreateHabitInput{Name: "Run", Target: 1})
	require.NoError(t, svc.Increment(ctx, habit.ID))

	got, _ := svc.GetHabit(ctx, habit.ID)
	assert.Zero(t, got.Progress)
	assert.Empty(t, got.History)
}

func TestDecrementNeverTouchesHistory(t *testing.T) {
	now := testDay(5)
	svc, _ := newTestService(t, now)
	ctx := context.Background()

	habit, _ := svc.CreateHabit(ctx, CreateHabitInput{
		Name:      "Water",
		Target:    2,
		CountType: CountTypeCount,
		CountUnit: "glasses",
	})
	require.NoError(t, svc.Increment(ctx, habit.ID))
	require.NoError(t, svc.Increment(ctx, habit.ID))

	// the day closed at target; decrementing reopens nothing
	require.NoError(t, svc.Decrement(ctx, habit.ID))
	got, _ := svc.GetHabit(ctx, habit.ID)
	assert.Equal(t, 1, got.Progress)
	assert.Equal(t, 1, got.Streak)
	assert.True(t, got.History.CompletedOn(now.Format(DateLayout)))

	// floor at zero
	require.NoError(t, svc.Decrement(ctx, habit.ID))
	require.NoError(t, svc.Decrement(ctx, habit.ID))
	got, _ = svc.GetHabit(ctx, habit.ID)
	assert.Zero(t, got.Progress)
}

func TestCompleteAndUndo(t *testing.T) {
	now := testDay(5)
	today := now.Format(DateLayout)
	svc, _ := newTestService(t, now)
	ctx := context.Background()

	habit, _ := svc.CreateHabit(ctx, CreateHabitInput{Name: "Run", Target: 1})

	require.NoError(t, svc.Complete(ctx, habit.ID))
	got, _ := svc.GetHabit(ctx, habit.ID)
	assert.Equal(t, 1, got.Progress)
	assert.Equal(t, 1, got.Streak)
	entry, ok := got.History.Entry(today)
	require.True(t, ok)
	assert.Equal(t, 1, entry.Count)

	// completing an already-completed day does not extend the streak
	require.NoError(t, svc.Complete(ctx, habit.ID))
	got, _ = svc.GetHabit(ctx, habit.ID)
	assert.Equal(t, 1, got.Streak)
	assert.Len(t, got.History, 1)

	// undo removes the entry outright
	require.NoError(t, svc.UndoComplete(ctx, habit.ID))
	got, _ = svc.GetHabit(ctx, habit.ID)
	assert.Zero(t, got.Progress)
	assert.Zero(t, got.Streak)
	_, ok = got.History.Entry(today)
	assert.False(t, ok)

	// undoing a not-completed day is a no-op
	require.NoError(t, svc.UndoComplete(ctx, habit.ID))
	got, _ = svc.GetHabit(ctx, habit.ID)
	assert.Zero(t, got.Streak)
}

func TestCompleteUsesPartialCount(t *testing.T) {
	now := testDay(5)
	svc, _ := newTestService(t, now)
	ctx := context.Background()

	habit, _ := svc.CreateHabit(ctx, CreateHabitInput{
		Name:      "Pages",
		Target:    10,
		CountType: CountTypeCount,
		CountUnit: "pages",
	})
	require.NoError(t, svc.Increment(ctx, habit.ID))
	require.NoError(t, svc.Increment(ctx, habit.ID))

	require.NoError(t, svc.Complete(ctx, habit.ID))
	got, _ := svc.GetHabit(ctx, habit.ID)
	entry, ok := got.History.Entry(now.Format(DateLayout))
	require.True(t, ok)
	assert.Equal(t, 2, entry.Count)
	assert.Equal(t, 10, got.Progress)
	assert.Equal(t, 1, got.Streak)
}

func TestStreakFieldMatchesRecompute(t *testing.T) {
	now := testDay(5)
	svc, _ := newTestService(t, now)
	ctx := context.Background()

	habit, _ := svc.CreateHabit(ctx, CreateHabitInput{Name: "Run", Target: 1})
	water, _ := svc.CreateHabit(ctx, CreateHabitInput{
		Name:      "Water",
		Target:    3,
		CountType: CountTypeCount,
		CountUnit: "glasses",
	})

	check := func(id uuid.UUID) {
		got, err := svc.GetHabit(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, CurrentStreak(got.History, now), got.Streak)
	}

	check(habit.ID)
	require.NoError(t, svc.Complete(ctx, habit.ID))
	check(habit.ID)
	require.NoError(t, svc.Complete(ctx, habit.ID))
	check(habit.ID)
	require.NoError(t, svc.UndoComplete(ctx, habit.ID))
	check(habit.ID)
	require.NoError(t, svc.Complete(ctx, habit.ID))
	check(habit.ID)

	// refilling the bar after a decrement on an already-closed day must
	// not extend the streak a second time
	for i := 0; i < 3; i++ {
		require.NoError(t, svc.Increment(ctx, water.ID))
		check(water.ID)
	}
	require.NoError(t, svc.Decrement(ctx, water.ID))
	check(water.ID)
	require.NoError(t, svc.Increment(ctx, water.ID))
	check(water.ID)

	got, err := svc.GetHabit(ctx, water.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.Streak)
	assert.Len(t, got.History, 1)
}

func TestProgressOpsOnUnknownID(t *testing.T) {
	svc, _ := newTestService(t, testDay(5))
	ctx := context.Background()
	id := uuid.New()

	assert.NoError(t, svc.Increment(ctx, id))
	assert.NoError(t, svc.Decrement(ctx, id))
	assert.NoError(t, svc.Complete(ctx, id))
	assert.NoError(t, svc.UndoComplete(ctx, id))

	completed, err := svc.IsCompletedToday(ctx, id)
	assert.NoError(t, err)
	assert.False(t, completed)
}

func TestUpdateHabitClampsProgress(t *testing.T) {
	svc, _ := newTestService(t, testDay(5))
	ctx := context.Background()

	habit, _ := svc.CreateHabit(ctx, CreateHabitInput{
		Name:      "Water",
		Target:    8,
		CountType: CountTypeCount,
		CountUnit: "glasses",
	})
	for i := 0; i < 5; i++ {
		require.NoError(t, svc.Increment(ctx, habit.ID))
	}

	target := 3
	updated, err := svc.UpdateHabit(ctx, habit.ID, UpdateHabitInput{Target: &target})
	require.NoError(t, err)
	assert.Equal(t, 3, updated.Target)
	assert.Equal(t, 3, updated.Progress)
}

func TestUpdateHabitRequiresUnitForCount(t *testing.T) {
	svc, _ := newTestService(t, testDay(5))
	ctx := context.Background()

	habit, _ := svc.CreateHabit(ctx, CreateHabitInput{Name: "Run", Target: 1})

	countType := CountTypeCount
	_, err := svc.UpdateHabit(ctx, habit.ID, UpdateHabitInput{CountType: &countType})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestResetDailyProgress(t *testing.T) {
	now := testDay(5)
	svc, _ := newTestService(t, now)
	ctx := context.Background()

	completed, _ := svc.CreateHabit(ctx, CreateHabitInput{Name: "Done", Target: 1})
	require.NoError(t, svc.Complete(ctx, completed.ID))

	partial, _ := svc.CreateHabit(ctx, CreateHabitInput{
		Name:      "Partial",
		Target:    5,
		CountType: CountTypeCount,
		CountUnit: "reps",
	})
	require.NoError(t, svc.Increment(ctx, partial.ID))

	affected, err := svc.ResetDailyProgress(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), affected)

	got, _ := svc.GetHabit(ctx, partial.ID)
	assert.Zero(t, got.Progress)
	got, _ = svc.GetHabit(ctx, completed.ID)
	assert.Equal(t, 1, got.Progress)
}

func TestResyncStreaks(t *testing.T) {
	now := testDay(5)
	svc, repo := newTestService(t, now)
	ctx := context.Background()

	// a streak that survived through yesterday
	alive := &Habit{
		ID:        uuid.New(),
		Name:      "Alive",
		Target:    1,
		CountType: CountTypeCompletion,
		Frequency: FrequencyDaily,
		History:   completedHistory("2024-03-03", "2024-03-04"),
		Streak:    7, // stale
	}
	require.NoError(t, repo.Create(ctx, alive))

	// a streak broken two days ago
	broken := &Habit{
		ID:        uuid.New(),
		Name:      "Broken",
		Target:    1,
		CountType: CountTypeCompletion,
		Frequency: FrequencyDaily,
		History:   completedHistory("2024-03-01", "2024-03-02"),
		Streak:    2,
	}
	require.NoError(t, repo.Create(ctx, broken))

	affected, err := svc.ResyncStreaks(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), affected)

	got, _ := repo.FindByID(ctx, alive.ID)
	assert.Equal(t, 2, got.Streak)
	got, _ = repo.FindByID(ctx, broken.ID)
	assert.Zero(t, got.Streak)
}

func TestDashboardStatsWithoutRedis(t *testing.T) {
	now := testDay(5)
	svc, _ := newTestService(t, now)
	ctx := context.Background()

	first, _ := svc.CreateHabit(ctx, CreateHabitInput{Name: "Run", Target: 1, Category: CategoryHealth})
	_, _ = svc.CreateHabit(ctx, CreateHabitInput{Name: "Read", Target: 1, Category: CategoryLearning})
	require.NoError(t, svc.Complete(ctx, first.ID))

	stats, err := svc.DashboardStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Completion.Completed)
	assert.Equal(t, 2, stats.Completion.Total)
	assert.Equal(t, 50, stats.Completion.Rate)
	assert.Equal(t, 1, stats.Categories[CategoryHealth])
	assert.Equal(t, 1, stats.LongestStreak)
	assert.Len(t, stats.Weekly, 7)
}

func TestSetReminderTime(t *testing.T) {
	svc, _ := newTestService(t, testDay(5))
	ctx := context.Background()

	habit, _ := svc.CreateHabit(ctx, CreateHabitInput{Name: "Run", Target: 1})

	require.NoError(t, svc.SetReminderTime(ctx, habit.ID, "07:30"))
	got, _ := svc.GetHabit(ctx, habit.ID)
	assert.Equal(t, "07:30", got.ReminderTime)

	assert.ErrorIs(t, svc.SetReminderTime(ctx, habit.ID, "7:3"), ErrInvalidInput)
	assert.ErrorIs(t, svc.SetReminderTime(ctx, habit.ID, "25:00"), ErrInvalidInput)
}
